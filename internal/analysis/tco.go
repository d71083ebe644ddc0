package analysis

import (
	"gorm.io/gorm"

	dbpkg "vendorscore/internal/db"
	"vendorscore/internal/scoring"
)

// Penalty weights: poor quality compounds as a 20% surcharge weighted by
// the quality gap, missing coverage as a 10% opportunity cost.
const (
	qualityPenaltyRate  = 0.2
	coveragePenaltyRate = 0.1
)

type CostLine struct {
	Annual float64 `json:"annual"`
	Total  float64 `json:"total"`
}

type TCOResult struct {
	VendorName          string `json:"vendor_name"`
	AnalysisPeriodYears int    `json:"analysis_period_years"`
	AnnualVolume        int    `json:"annual_volume"`
	CostBreakdown       struct {
		RecordCosts struct {
			CostLine
			PerRecord float64 `json:"per_record"`
		} `json:"record_costs"`
		QualityCosts struct {
			CostLine
			QualityFactor float64 `json:"quality_factor"`
		} `json:"quality_costs"`
		CoverageCosts struct {
			CostLine
			CoverageGap float64 `json:"coverage_gap"`
		} `json:"coverage_costs"`
	} `json:"cost_breakdown"`
	TotalCostOfOwnership   float64             `json:"total_cost_of_ownership"`
	EffectiveCostPerRecord float64             `json:"effective_cost_per_record"`
	Metrics                scoring.VendorScore `json:"metrics"`
}

// TotalCostOfOwnership projects a vendor's multi-year cost including
// quality and coverage penalties. A vendor at 100 quality and 100
// coverage pays exactly the base record cost.
func TotalCostOfOwnership(gdb *gorm.DB, vendorID uint, annualVolume, years int) (TCOResult, error) {
	var vendor dbpkg.Vendor
	if err := gdb.First(&vendor, vendorID).Error; err != nil {
		return TCOResult{}, err
	}

	score, err := scoring.ScoreVendor(gdb, vendorID)
	if err != nil {
		return TCOResult{}, err
	}

	volume := float64(annualVolume)
	annualRecordCost := vendor.CostPerRecord * volume
	totalRecordCost := annualRecordCost * float64(years)

	qualityFactor := (100 - score.QualityScore) / 100
	annualQualityCost := annualRecordCost * qualityFactor * qualityPenaltyRate
	totalQualityCost := annualQualityCost * float64(years)

	coverageGap := 100 - vendor.CoveragePercentage
	annualCoverageCost := annualRecordCost * (coverageGap / 100) * coveragePenaltyRate
	totalCoverageCost := annualCoverageCost * float64(years)

	totalTCO := totalRecordCost + totalQualityCost + totalCoverageCost

	result := TCOResult{
		VendorName:          vendor.Name,
		AnalysisPeriodYears: years,
		AnnualVolume:        annualVolume,
		Metrics:             score,
	}
	result.CostBreakdown.RecordCosts.Annual = scoring.Round2(annualRecordCost)
	result.CostBreakdown.RecordCosts.Total = scoring.Round2(totalRecordCost)
	result.CostBreakdown.RecordCosts.PerRecord = vendor.CostPerRecord
	result.CostBreakdown.QualityCosts.Annual = scoring.Round2(annualQualityCost)
	result.CostBreakdown.QualityCosts.Total = scoring.Round2(totalQualityCost)
	result.CostBreakdown.QualityCosts.QualityFactor = scoring.Round2(qualityFactor)
	result.CostBreakdown.CoverageCosts.Annual = scoring.Round2(annualCoverageCost)
	result.CostBreakdown.CoverageCosts.Total = scoring.Round2(totalCoverageCost)
	result.CostBreakdown.CoverageCosts.CoverageGap = scoring.Round2(coverageGap)
	result.TotalCostOfOwnership = scoring.Round2(totalTCO)
	result.EffectiveCostPerRecord = scoring.Round2(totalTCO / (volume * float64(years)))

	return result, nil
}
