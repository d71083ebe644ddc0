// Package analysis builds comparative analytics (side-by-side comparison,
// what-if switching, TCO, market benchmarks, recommendations) on top of
// the scoring engine's outputs.
package analysis

import (
	"sort"

	"gorm.io/gorm"

	dbpkg "vendorscore/internal/db"
	"vendorscore/internal/scoring"
)

// CompareFilters narrows jurisdiction rows in a comparison.
type CompareFilters struct {
	Jurisdictions []string `json:"jurisdictions,omitempty"`
	MinCoverage   *float64 `json:"min_coverage,omitempty"`
}

// MetricsBreakdown is the four sub-metrics split out for display.
type MetricsBreakdown struct {
	PIICompleteness     float64 `json:"pii_completeness"`
	DispositionAccuracy float64 `json:"disposition_accuracy"`
	AvgFreshnessDays    float64 `json:"avg_freshness_days"`
	GeographicCoverage  float64 `json:"geographic_coverage"`
}

// ComparedVendor is one side of a side-by-side comparison.
type ComparedVendor struct {
	VendorID                uint                                 `json:"vendor_id"`
	VendorName              string                               `json:"vendor_name"`
	Description             string                               `json:"description"`
	CostPerRecord           float64                              `json:"cost_per_record"`
	QualityScore            float64                              `json:"quality_score"`
	ValueIndex              float64                              `json:"value_index"`
	CoveragePercentage      float64                              `json:"coverage_percentage"`
	TotalRecords            int                                  `json:"total_records"`
	MetricsBreakdown        MetricsBreakdown                     `json:"metrics_breakdown"`
	JurisdictionPerformance []scoring.JurisdictionPerformanceRow `json:"jurisdiction_performance"`
}

type CompareSummary struct {
	TotalVendors     int     `json:"total_vendors"`
	AvgQualityScore  float64 `json:"avg_quality_score"`
	AvgCostPerRecord float64 `json:"avg_cost_per_record"`
	AvgCoverage      float64 `json:"avg_coverage"`
}

type CompareResult struct {
	Vendors        []ComparedVendor `json:"vendors"`
	Summary        CompareSummary   `json:"comparison_summary"`
	FiltersApplied CompareFilters   `json:"filters_applied"`
}

// CompareVendors builds a side-by-side comparison for the given vendor
// ids, sorted descending by quality score. Unknown ids are skipped.
func CompareVendors(gdb *gorm.DB, vendorIDs []uint, filters CompareFilters) (CompareResult, error) {
	vendors := make([]ComparedVendor, 0, len(vendorIDs))

	for _, id := range vendorIDs {
		var vendor dbpkg.Vendor
		if err := gdb.Limit(1).Find(&vendor, id).Error; err != nil {
			return CompareResult{}, err
		}
		if vendor.ID == 0 {
			continue
		}

		score, err := scoring.ScoreVendor(gdb, id)
		if err != nil {
			return CompareResult{}, err
		}

		perf, err := scoring.JurisdictionPerformance(gdb, id)
		if err != nil {
			return CompareResult{}, err
		}
		perf = applyFilters(perf, filters)

		vendors = append(vendors, ComparedVendor{
			VendorID:           vendor.ID,
			VendorName:         vendor.Name,
			Description:        vendor.Description,
			CostPerRecord:      vendor.CostPerRecord,
			QualityScore:       score.QualityScore,
			ValueIndex:         scoring.ValueIndex(score.QualityScore, vendor.CostPerRecord),
			CoveragePercentage: vendor.CoveragePercentage,
			TotalRecords:       score.TotalRecords,
			MetricsBreakdown: MetricsBreakdown{
				PIICompleteness:     score.PIICompleteness,
				DispositionAccuracy: score.DispositionAccuracy,
				AvgFreshnessDays:    score.AvgFreshnessDays,
				GeographicCoverage:  score.GeographicCoverage,
			},
			JurisdictionPerformance: perf,
		})
	}

	sort.SliceStable(vendors, func(i, j int) bool {
		return vendors[i].QualityScore > vendors[j].QualityScore
	})

	summary := CompareSummary{TotalVendors: len(vendors)}
	if len(vendors) > 0 {
		var qualitySum, costSum, coverageSum float64
		for _, v := range vendors {
			qualitySum += v.QualityScore
			costSum += v.CostPerRecord
			coverageSum += v.CoveragePercentage
		}
		n := float64(len(vendors))
		summary.AvgQualityScore = scoring.Round2(qualitySum / n)
		summary.AvgCostPerRecord = scoring.Round2(costSum / n)
		summary.AvgCoverage = scoring.Round2(coverageSum / n)
	}

	return CompareResult{Vendors: vendors, Summary: summary, FiltersApplied: filters}, nil
}

func applyFilters(rows []scoring.JurisdictionPerformanceRow, filters CompareFilters) []scoring.JurisdictionPerformanceRow {
	if len(filters.Jurisdictions) == 0 && filters.MinCoverage == nil {
		return rows
	}

	allowed := make(map[string]bool, len(filters.Jurisdictions))
	for _, name := range filters.Jurisdictions {
		allowed[name] = true
	}

	filtered := make([]scoring.JurisdictionPerformanceRow, 0, len(rows))
	for _, row := range rows {
		if len(allowed) > 0 && !allowed[row.Jurisdiction] {
			continue
		}
		if filters.MinCoverage != nil && row.CoveragePercentage < *filters.MinCoverage {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}
