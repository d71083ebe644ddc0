package quick

import (
	"math"
	"sort"

	"vendorscore/internal/scoring"
)

// defaultQualityScore is assumed when a vendor arrives with neither a
// quality score nor the full set of raw metrics.
const defaultQualityScore = 70.0

// VendorInput is one vendor's figures as supplied by the caller. Raw
// metrics are optional; when all four are present the quality score is
// derived with the standard weighting.
type VendorInput struct {
	Name                string   `json:"name"`
	CostPerRecord       float64  `json:"cost_per_record"`
	QualityScore        *float64 `json:"quality_score,omitempty"`
	PIICompleteness     *float64 `json:"pii_completeness,omitempty"`
	DispositionAccuracy *float64 `json:"disposition_accuracy,omitempty"`
	AvgFreshnessDays    *float64 `json:"avg_freshness_days,omitempty"`
	CoveragePercentage  *float64 `json:"coverage_percentage,omitempty"`
	Description         string   `json:"description,omitempty"`
}

// RawMetrics echoes the optional inputs back in comparison output.
type RawMetrics struct {
	PIICompleteness     *float64 `json:"pii_completeness"`
	DispositionAccuracy *float64 `json:"disposition_accuracy"`
	AvgFreshnessDays    *float64 `json:"avg_freshness_days"`
	CoveragePercentage  *float64 `json:"coverage_percentage"`
}

type ProcessedVendor struct {
	Name                string     `json:"name"`
	CostPerRecord       float64    `json:"cost_per_record"`
	QualityScore        float64    `json:"quality_score"`
	ValueIndex          float64    `json:"value_index"`
	Description         string     `json:"description,omitempty"`
	RawMetrics          RawMetrics `json:"raw_metrics"`
	RecommendationScore float64    `json:"recommendation_score"`
}

type Ranking struct {
	Rank                int     `json:"rank"`
	Name                string  `json:"name"`
	QualityScore        float64 `json:"quality_score"`
	CostPerRecord       float64 `json:"cost_per_record"`
	ValueIndex          float64 `json:"value_index"`
	RecommendationScore float64 `json:"recommendation_score"`
}

type CostComparison struct {
	Name         string  `json:"name"`
	AnnualCost   float64 `json:"annual_cost"`
	QualityScore float64 `json:"quality_score"`
	ValueIndex   float64 `json:"value_index"`
}

type Recommendations struct {
	AnnualVolume   int              `json:"annual_volume"`
	CostComparison []CostComparison `json:"cost_comparison"`
	BestValue      string           `json:"best_value"`
	Cheapest       string           `json:"cheapest"`
	HighestQuality string           `json:"highest_quality"`
}

type CompareResult struct {
	SessionID       string            `json:"session_id"`
	CreatedAt       string            `json:"created_at"`
	ExpiresAt       string            `json:"expires_at"`
	Vendors         []ProcessedVendor `json:"vendors"`
	Rankings        []Ranking         `json:"rankings"`
	Recommendations *Recommendations  `json:"recommendations"`
}

// Score resolves a vendor's quality score: an explicit score wins, a
// full set of raw metrics is reduced with the standard weights, and
// anything less falls back to the default.
func Score(v VendorInput) float64 {
	if v.QualityScore != nil {
		return *v.QualityScore
	}
	if v.PIICompleteness != nil && v.DispositionAccuracy != nil &&
		v.AvgFreshnessDays != nil && v.CoveragePercentage != nil {
		freshness := 100 - *v.AvgFreshnessDays
		if freshness < 0 {
			freshness = 0
		}
		return *v.PIICompleteness*0.4 +
			*v.DispositionAccuracy*0.3 +
			freshness*0.2 +
			*v.CoveragePercentage*0.1
	}
	return defaultQualityScore
}

// priorityScore weighs a processed vendor per the caller's stated
// priority. Cost axes use a $15 per-record ceiling.
func priorityScore(priority string, v ProcessedVendor) float64 {
	switch priority {
	case "quality":
		return v.QualityScore*0.8 + v.ValueIndex*0.2
	case "cost":
		costScore := 100 - (v.CostPerRecord / 15 * 100)
		if costScore < 0 {
			costScore = 0
		}
		return costScore*0.6 + v.QualityScore*0.4
	case "value":
		return v.ValueIndex*0.7 + v.QualityScore*0.3
	default: // balanced
		return v.QualityScore*0.4 +
			v.ValueIndex*0.3 +
			(100-v.CostPerRecord/15*100)*0.3
	}
}

// Compare scores and ranks the given vendors by the chosen priority.
// annualVolume 0 skips the cost recommendations block.
func Compare(vendors []VendorInput, priority string, annualVolume int) ([]ProcessedVendor, []Ranking, *Recommendations) {
	processed := make([]ProcessedVendor, 0, len(vendors))
	for _, v := range vendors {
		quality := Score(v)
		pv := ProcessedVendor{
			Name:          v.Name,
			CostPerRecord: scoring.Round2(v.CostPerRecord),
			QualityScore:  round1(quality),
			ValueIndex:    scoring.ValueIndex(quality, v.CostPerRecord),
			Description:   v.Description,
			RawMetrics: RawMetrics{
				PIICompleteness:     v.PIICompleteness,
				DispositionAccuracy: v.DispositionAccuracy,
				AvgFreshnessDays:    v.AvgFreshnessDays,
				CoveragePercentage:  v.CoveragePercentage,
			},
		}
		pv.RecommendationScore = round1(priorityScore(priority, pv))
		processed = append(processed, pv)
	}

	ranked := append([]ProcessedVendor(nil), processed...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RecommendationScore > ranked[j].RecommendationScore
	})

	rankings := make([]Ranking, 0, len(ranked))
	for i, v := range ranked {
		rankings = append(rankings, Ranking{
			Rank:                i + 1,
			Name:                v.Name,
			QualityScore:        v.QualityScore,
			CostPerRecord:       v.CostPerRecord,
			ValueIndex:          v.ValueIndex,
			RecommendationScore: v.RecommendationScore,
		})
	}

	var recs *Recommendations
	if annualVolume > 0 && len(ranked) > 0 {
		top := ranked
		if len(top) > 3 {
			top = top[:3]
		}
		costComparison := make([]CostComparison, 0, len(top))
		for _, v := range top {
			costComparison = append(costComparison, CostComparison{
				Name:         v.Name,
				AnnualCost:   scoring.Round2(v.CostPerRecord * float64(annualVolume)),
				QualityScore: v.QualityScore,
				ValueIndex:   v.ValueIndex,
			})
		}

		cheapest := processed[0]
		highestQuality := processed[0]
		for _, v := range processed[1:] {
			if v.CostPerRecord < cheapest.CostPerRecord {
				cheapest = v
			}
			if v.QualityScore > highestQuality.QualityScore {
				highestQuality = v
			}
		}

		recs = &Recommendations{
			AnnualVolume:   annualVolume,
			CostComparison: costComparison,
			BestValue:      ranked[0].Name,
			Cheapest:       cheapest.Name,
			HighestQuality: highestQuality.Name,
		}
	}

	return processed, rankings, recs
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
