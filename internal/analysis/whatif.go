package analysis

import (
	"sort"

	"gorm.io/gorm"

	dbpkg "vendorscore/internal/db"
	"vendorscore/internal/scoring"
)

// Risk flag thresholds for a vendor switch.
const (
	qualityDropFlagAt  = -5.0
	coverageDropFlagAt = -10.0
	trackRecordRatio   = 0.5
)

type ScenarioVendor struct {
	ID                 uint    `json:"id"`
	Name               string  `json:"name"`
	CostPerRecord      float64 `json:"cost_per_record"`
	QualityScore       float64 `json:"quality_score"`
	CoveragePercentage float64 `json:"coverage_percentage"`
}

type FinancialImpact struct {
	AnnualVolume      int     `json:"annual_volume"`
	CurrentAnnualCost float64 `json:"current_annual_cost"`
	NewAnnualCost     float64 `json:"new_annual_cost"`
	AnnualSavings     float64 `json:"annual_savings"`
	MonthlySavings    float64 `json:"monthly_savings"`
	SavingsPercentage float64 `json:"savings_percentage"`
}

type QualityImpact struct {
	QualityDelta            float64 `json:"quality_delta"`
	CurrentQualityScore     float64 `json:"current_quality_score"`
	NewQualityScore         float64 `json:"new_quality_score"`
	QualityChangePercentage float64 `json:"quality_change_percentage"`
}

// JurisdictionDelta is one row of the full outer join across both
// vendors' jurisdiction performance; a side with no coverage defaults to
// zero coverage and zero turnaround.
type JurisdictionDelta struct {
	Jurisdiction      string  `json:"jurisdiction"`
	CurrentCoverage   float64 `json:"current_coverage"`
	NewCoverage       float64 `json:"new_coverage"`
	CoverageDelta     float64 `json:"coverage_delta"`
	CurrentTurnaround float64 `json:"current_turnaround"`
	NewTurnaround     float64 `json:"new_turnaround"`
	TurnaroundDelta   float64 `json:"turnaround_delta"`
}

type CoverageImpact struct {
	CoverageDelta      float64             `json:"coverage_delta"`
	CurrentCoverage    float64             `json:"current_coverage"`
	NewCoverage        float64             `json:"new_coverage"`
	CoverageComparison []JurisdictionDelta `json:"coverage_comparison"`
}

type ROIAnalysis struct {
	// PaybackPeriodMonths is null when monthly savings are non-positive.
	PaybackPeriodMonths *float64 `json:"payback_period_months"`
	AnnualROIPercentage float64  `json:"annual_roi_percentage"`
}

type RiskAssessment struct {
	RiskFactors []string `json:"risk_factors"`
	RiskLevel   string   `json:"risk_level"`
}

type WhatIfResult struct {
	Scenario struct {
		CurrentVendor ScenarioVendor `json:"current_vendor"`
		NewVendor     ScenarioVendor `json:"new_vendor"`
	} `json:"scenario"`
	FinancialImpact FinancialImpact `json:"financial_impact"`
	QualityImpact   QualityImpact   `json:"quality_impact"`
	CoverageImpact  CoverageImpact  `json:"coverage_impact"`
	ROIAnalysis     ROIAnalysis     `json:"roi_analysis"`
	RiskAssessment  RiskAssessment  `json:"risk_assessment"`
}

// WhatIf projects the financial, quality and coverage impact of switching
// from one vendor to another at the given annual volume. Unknown vendor
// ids surface gorm.ErrRecordNotFound.
func WhatIf(gdb *gorm.DB, currentID, newID uint, annualVolume int) (WhatIfResult, error) {
	var current, next dbpkg.Vendor
	if err := gdb.First(&current, currentID).Error; err != nil {
		return WhatIfResult{}, err
	}
	if err := gdb.First(&next, newID).Error; err != nil {
		return WhatIfResult{}, err
	}

	currentScore, err := scoring.ScoreVendor(gdb, currentID)
	if err != nil {
		return WhatIfResult{}, err
	}
	newScore, err := scoring.ScoreVendor(gdb, newID)
	if err != nil {
		return WhatIfResult{}, err
	}

	volume := float64(annualVolume)
	currentAnnualCost := current.CostPerRecord * volume
	newAnnualCost := next.CostPerRecord * volume
	costSavings := currentAnnualCost - newAnnualCost
	monthlySavings := costSavings / 12

	qualityDelta := newScore.QualityScore - currentScore.QualityScore
	coverageDelta := next.CoveragePercentage - current.CoveragePercentage

	comparison, err := jurisdictionComparison(gdb, currentID, newID)
	if err != nil {
		return WhatIfResult{}, err
	}

	var riskFactors []string
	if qualityDelta < qualityDropFlagAt {
		riskFactors = append(riskFactors, "Significant quality decrease")
	}
	if coverageDelta < coverageDropFlagAt {
		riskFactors = append(riskFactors, "Major coverage reduction")
	}
	if float64(newScore.TotalRecords) < float64(currentScore.TotalRecords)*trackRecordRatio {
		riskFactors = append(riskFactors, "Limited track record (fewer records)")
	}

	riskLevel := "low"
	switch {
	case len(riskFactors) >= 2:
		riskLevel = "high"
	case len(riskFactors) == 1:
		riskLevel = "medium"
	}

	result := WhatIfResult{
		FinancialImpact: FinancialImpact{
			AnnualVolume:      annualVolume,
			CurrentAnnualCost: scoring.Round2(currentAnnualCost),
			NewAnnualCost:     scoring.Round2(newAnnualCost),
			AnnualSavings:     scoring.Round2(costSavings),
			MonthlySavings:    scoring.Round2(monthlySavings),
		},
		QualityImpact: QualityImpact{
			QualityDelta:        scoring.Round2(qualityDelta),
			CurrentQualityScore: currentScore.QualityScore,
			NewQualityScore:     newScore.QualityScore,
		},
		CoverageImpact: CoverageImpact{
			CoverageDelta:      scoring.Round2(coverageDelta),
			CurrentCoverage:    current.CoveragePercentage,
			NewCoverage:        next.CoveragePercentage,
			CoverageComparison: comparison,
		},
		RiskAssessment: RiskAssessment{
			RiskFactors: riskFactors,
			RiskLevel:   riskLevel,
		},
	}
	result.Scenario.CurrentVendor = ScenarioVendor{
		ID:                 current.ID,
		Name:               current.Name,
		CostPerRecord:      current.CostPerRecord,
		QualityScore:       currentScore.QualityScore,
		CoveragePercentage: current.CoveragePercentage,
	}
	result.Scenario.NewVendor = ScenarioVendor{
		ID:                 next.ID,
		Name:               next.Name,
		CostPerRecord:      next.CostPerRecord,
		QualityScore:       newScore.QualityScore,
		CoveragePercentage: next.CoveragePercentage,
	}

	if currentAnnualCost > 0 {
		result.FinancialImpact.SavingsPercentage = scoring.Round2(costSavings / currentAnnualCost * 100)
	}
	if currentScore.QualityScore > 0 {
		result.QualityImpact.QualityChangePercentage = scoring.Round2(qualityDelta / currentScore.QualityScore * 100)
	}
	if monthlySavings > 0 {
		payback := scoring.Round2(costSavings / monthlySavings)
		result.ROIAnalysis.PaybackPeriodMonths = &payback
	}
	if newAnnualCost > 0 {
		result.ROIAnalysis.AnnualROIPercentage = scoring.Round2(costSavings / newAnnualCost * 100)
	}

	return result, nil
}

// jurisdictionComparison outer-joins both vendors' jurisdiction rows on
// jurisdiction name.
func jurisdictionComparison(gdb *gorm.DB, currentID, newID uint) ([]JurisdictionDelta, error) {
	currentRows, err := scoring.JurisdictionPerformance(gdb, currentID)
	if err != nil {
		return nil, err
	}
	newRows, err := scoring.JurisdictionPerformance(gdb, newID)
	if err != nil {
		return nil, err
	}

	currentByName := make(map[string]scoring.JurisdictionPerformanceRow, len(currentRows))
	for _, r := range currentRows {
		currentByName[r.Jurisdiction] = r
	}
	newByName := make(map[string]scoring.JurisdictionPerformanceRow, len(newRows))
	for _, r := range newRows {
		newByName[r.Jurisdiction] = r
	}

	names := make([]string, 0, len(currentByName)+len(newByName))
	for name := range currentByName {
		names = append(names, name)
	}
	for name := range newByName {
		if _, seen := currentByName[name]; !seen {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	deltas := make([]JurisdictionDelta, 0, len(names))
	for _, name := range names {
		cur := currentByName[name]
		nxt := newByName[name]
		deltas = append(deltas, JurisdictionDelta{
			Jurisdiction:      name,
			CurrentCoverage:   cur.CoveragePercentage,
			NewCoverage:       nxt.CoveragePercentage,
			CoverageDelta:     scoring.Round2(nxt.CoveragePercentage - cur.CoveragePercentage),
			CurrentTurnaround: cur.AvgTurnaroundHours,
			NewTurnaround:     nxt.AvgTurnaroundHours,
			TurnaroundDelta:   scoring.Round2(nxt.AvgTurnaroundHours - cur.AvgTurnaroundHours),
		})
	}
	return deltas, nil
}
