package bias

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/fogleman/gg"

	"claimequity/internal/domain"
)

const (
	chartWidth  = 900
	chartHeight = 520
	chartMargin = 60
	maxBars     = 20
	labelLen    = 6
)

// RenderHeatmap draws a PNG bar chart of denial rate per bucket with a dashed
// baseline. Bars are shaded from white to red by rate and labeled with
// truncated bucket ids only.
func RenderHeatmap(buckets []domain.BiasBucketStats, baseline float64) ([]byte, error) {
	if len(buckets) == 0 {
		return nil, fmt.Errorf("render heatmap: no buckets")
	}

	sorted := make([]domain.BiasBucketStats, len(buckets))
	copy(sorted, buckets)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].DenialRate(), sorted[j].DenialRate()
		if ri != rj {
			return ri > rj
		}
		return sorted[i].ZipBucket+sorted[i].DemographicBucket < sorted[j].ZipBucket+sorted[j].DemographicBucket
	})
	if len(sorted) > maxBars {
		sorted = sorted[:maxBars]
	}

	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	plotW := float64(chartWidth - 2*chartMargin)
	plotH := float64(chartHeight - 2*chartMargin)
	originX := float64(chartMargin)
	originY := float64(chartHeight - chartMargin)

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored("Denial rate by anonymized group", chartWidth/2, chartMargin/2, 0.5, 0.5)

	// Axes and gridlines at 25% steps.
	dc.SetLineWidth(1)
	for i := 0; i <= 4; i++ {
		y := originY - plotH*float64(i)/4
		dc.SetRGB(0.85, 0.85, 0.85)
		dc.DrawLine(originX, y, originX+plotW, y)
		dc.Stroke()
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.DrawStringAnchored(fmt.Sprintf("%d%%", i*25), originX-8, y, 1, 0.5)
	}
	dc.SetRGB(0, 0, 0)
	dc.DrawLine(originX, originY, originX+plotW, originY)
	dc.DrawLine(originX, originY, originX, originY-plotH)
	dc.Stroke()

	slot := plotW / float64(len(sorted))
	barW := slot * 0.7
	for i, b := range sorted {
		rate := b.DenialRate()
		h := plotH * rate
		x := originX + slot*float64(i) + (slot-barW)/2
		dc.SetRGB(1, 1-rate, 1-rate)
		dc.DrawRectangle(x, originY-h, barW, h)
		dc.FillPreserve()
		dc.SetRGB(0.4, 0, 0)
		dc.Stroke()

		dc.SetRGB(0.2, 0.2, 0.2)
		label := b.ZipBucket[:min(labelLen, len(b.ZipBucket))] + "/" + b.DemographicBucket[:min(labelLen, len(b.DemographicBucket))]
		dc.Push()
		dc.RotateAbout(gg.Radians(-35), x+barW/2, originY+10)
		dc.DrawStringAnchored(label, x+barW/2, originY+10, 1, 0.5)
		dc.Pop()
	}

	by := originY - plotH*baseline
	dc.SetRGB(0.1, 0.3, 0.8)
	dc.SetLineWidth(2)
	dc.SetDash(8, 5)
	dc.DrawLine(originX, by, originX+plotW, by)
	dc.Stroke()
	dc.SetDash()
	dc.DrawStringAnchored(fmt.Sprintf("baseline %.1f%%", baseline*100), originX+plotW, by-6, 1, 1)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encoding heatmap png: %w", err)
	}
	return buf.Bytes(), nil
}
