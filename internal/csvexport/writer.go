package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"claimequity/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// SuppressedLabel replaces both bucket ids on the row that pools every bucket
// below the minimum sample size.
const SuppressedLabel = "suppressed"

// columns defines the CSV header row. Only hashed bucket ids and counters are
// exported.
var columns = []string{
	"Zip Bucket",
	"Demographic Bucket",
	"Total Count",
	"Denied Count",
	"Denial Rate",
	"Sufficient Sample",
}

// Writer wraps csv.Writer for exporting bias aggregates as CSV.
type Writer struct {
	csv       *csv.Writer
	minSample int64
}

// NewWriter creates a Writer that writes CSV to w. Only buckets with at least
// minSample submissions get their own row.
func NewWriter(w io.Writer, minSample int64) *Writer {
	return &Writer{csv: csv.NewWriter(w), minSample: minSample}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteBuckets writes one row per sufficient bucket. Buckets below minSample
// are summed into a single trailing row with SuppressedLabel ids, so small
// groups never expose a hash that could be matched against candidate values.
func (w *Writer) WriteBuckets(buckets []domain.BiasBucketStats) error {
	suppressed := domain.BiasBucketStats{
		BucketKey: domain.BucketKey{ZipBucket: SuppressedLabel, DemographicBucket: SuppressedLabel},
	}
	for i := range buckets {
		if buckets[i].TotalCount < w.minSample {
			suppressed.TotalCount += buckets[i].TotalCount
			suppressed.DeniedCount += buckets[i].DeniedCount
			continue
		}
		if err := w.csv.Write(w.bucketToRow(&buckets[i])); err != nil {
			return err
		}
	}
	if suppressed.TotalCount == 0 {
		return nil
	}
	return w.csv.Write(w.bucketToRow(&suppressed))
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func (w *Writer) bucketToRow(b *domain.BiasBucketStats) []string {
	return []string{
		b.ZipBucket,
		b.DemographicBucket,
		strconv.FormatInt(b.TotalCount, 10),
		strconv.FormatInt(b.DeniedCount, 10),
		strconv.FormatFloat(b.DenialRate(), 'f', 4, 64),
		formatBool(b.TotalCount >= w.minSample),
	}
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// BuildFilename returns the filename for the Content-Disposition header.
// Format: bias_aggregates_{YYYY-MM-DD}.csv
func BuildFilename(now time.Time) string {
	return fmt.Sprintf("bias_aggregates_%s.csv", now.Format("2006-01-02"))
}
