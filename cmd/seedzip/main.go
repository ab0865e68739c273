// Command seedzip rebuilds the zip_prefix weights of a prediction tables file
// from an Excel workbook.
// The first sheet holds rows of 3-digit ZIP prefix and weight, with one header row.
// Usage: go run ./cmd/seedzip [-in zip_weights.xlsx] [-base internal/prediction/tables.yaml] [-out tables.yaml]
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"claimequity/internal/prediction"
)

func main() {
	in := flag.String("in", "zip_weights.xlsx", "workbook with prefix and weight columns")
	base := flag.String("base", "internal/prediction/tables.yaml", "tables file to copy the other weights from")
	out := flag.String("out", "internal/prediction/tables.yaml", "output tables file")
	flag.Parse()

	if err := run(*in, *base, *out); err != nil {
		log.WithError(err).Fatal("seedzip failed")
	}
}

func run(inPath, basePath, outPath string) error {
	f, err := excelize.OpenFile(inPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	weights, err := parseWeights(f)
	if err != nil {
		return fmt.Errorf("parse weights sheet: %w", err)
	}
	log.Infof("weights sheet: %d prefixes", len(weights))

	baseData, err := os.ReadFile(basePath)
	if err != nil {
		return fmt.Errorf("read base tables: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(baseData, &doc); err != nil {
		return fmt.Errorf("decode base tables: %w", err)
	}
	doc["zip_prefix"] = weights

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode tables: %w", err)
	}
	if _, err := prediction.ParseTables(data); err != nil {
		return fmt.Errorf("generated tables are invalid: %w", err)
	}

	header := "# Generated by cmd/seedzip from " + inPath + ". Weights are in percentage points.\n"
	if err := os.WriteFile(outPath, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	log.Infof("wrote %d zip prefixes to %s", len(weights), outPath)
	return nil
}

// parseWeights reads the first sheet. Column A is the prefix, column B the
// weight. Row 0 is the header. Short ZIP prefixes like "85" are left padded.
func parseWeights(f *excelize.File) (map[string]float64, error) {
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}

	weights := make(map[string]float64)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 2 {
			continue
		}
		prefix := strings.TrimSpace(row[0])
		if prefix == "" {
			continue
		}
		if len(prefix) < 3 {
			prefix = strings.Repeat("0", 3-len(prefix)) + prefix
		}
		if len(prefix) != 3 {
			return nil, fmt.Errorf("row %d: invalid prefix %q", i+1, row[0])
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid weight %q: %w", i+1, row[1], err)
		}
		if _, dup := weights[prefix]; dup {
			log.WithField("prefix", prefix).Warn("duplicate prefix, keeping last")
		}
		weights[prefix] = w
	}
	return weights, nil
}
