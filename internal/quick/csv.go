package quick

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrEmptyFile = errors.New("file is empty")

// columnSynonyms maps common header variations onto canonical names.
var columnSynonyms = map[string]string{
	"name":         "vendor_name",
	"vendor":       "vendor_name",
	"company":      "vendor_name",
	"cost":         "cost_per_record",
	"price":        "cost_per_record",
	"cost_per_rec": "cost_per_record",
}

// ParseCSV reads vendor rows from a CSV upload. Headers are lowercased,
// trimmed and mapped through the synonym table; vendor_name and
// cost_per_record are required, everything else is optional. Rows
// missing either required value are skipped. Returns the parsed vendors
// and the canonical column names detected.
func ParseCSV(r io.Reader) ([]VendorInput, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, ErrEmptyFile
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not parse file: %w", err)
	}

	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		if canonical, ok := columnSynonyms[name]; ok {
			name = canonical
		}
		columns[i] = name
		index[name] = i
	}

	var missing []string
	for _, required := range []string{"vendor_name", "cost_per_record"} {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("missing required columns: %s (required: vendor_name, cost_per_record)",
			strings.Join(missing, ", "))
	}

	var vendors []VendorInput
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("could not parse file: %w", err)
		}

		name := strings.TrimSpace(cell(row, index, "vendor_name"))
		costStr := strings.TrimSpace(cell(row, index, "cost_per_record"))
		if name == "" || costStr == "" {
			continue
		}
		cost, err := strconv.ParseFloat(costStr, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("data format error: invalid cost_per_record %q", costStr)
		}

		vendor := VendorInput{
			Name:          name,
			CostPerRecord: cost,
			Description:   strings.TrimSpace(cell(row, index, "description")),
		}
		vendor.QualityScore = optionalFloat(row, index, "quality_score")
		vendor.PIICompleteness = optionalFloat(row, index, "pii_completeness")
		vendor.DispositionAccuracy = optionalFloat(row, index, "disposition_accuracy")
		vendor.AvgFreshnessDays = optionalFloat(row, index, "avg_freshness_days")
		vendor.CoveragePercentage = optionalFloat(row, index, "coverage_percentage")

		vendors = append(vendors, vendor)
	}

	if len(vendors) == 0 {
		return nil, nil, errors.New("no valid vendor data found in file")
	}
	return vendors, columns, nil
}

func cell(row []string, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func optionalFloat(row []string, index map[string]int, column string) *float64 {
	raw := strings.TrimSpace(cell(row, index, column))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
