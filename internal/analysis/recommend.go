package analysis

import (
	"sort"

	"gorm.io/gorm"

	dbpkg "vendorscore/internal/db"
	"vendorscore/internal/scoring"
)

// maxCostPerRecord anchors cost normalization: a vendor at or above this
// price scores zero on the cost axis.
const maxCostPerRecord = 15.0

// Recommendation is one vendor's ranked entry with the reasoning behind it.
type Recommendation struct {
	VendorID            uint     `json:"vendor_id"`
	VendorName          string   `json:"vendor_name"`
	RecommendationScore float64  `json:"recommendation_score"`
	QualityScore        float64  `json:"quality_score"`
	CostPerRecord       float64  `json:"cost_per_record"`
	CoveragePercentage  float64  `json:"coverage_percentage"`
	ValueIndex          float64  `json:"value_index"`
	AnnualCost          float64  `json:"annual_cost"`
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	BestFor             string   `json:"best_for"`
}

type RecommendationsResult struct {
	Requirements struct {
		AnnualVolume    int      `json:"annual_volume"`
		PriorityFactors []string `json:"priority_factors"`
	} `json:"requirements"`
	Recommendations []Recommendation `json:"recommendations"`
	TopPick         *Recommendation  `json:"top_pick"`
}

// Recommendations ranks active vendors by a weighted score over the
// requested priority factors (quality 0.4, cost 0.3, coverage 0.2,
// value 0.1). An empty factor list means all factors apply.
func Recommendations(gdb *gorm.DB, annualVolume int, priorityFactors []string) (RecommendationsResult, error) {
	var vendors []dbpkg.Vendor
	if err := gdb.Where("is_active = ?", true).Order("id").Find(&vendors).Error; err != nil {
		return RecommendationsResult{}, err
	}

	wants := func(factor string) bool {
		if len(priorityFactors) == 0 {
			return true
		}
		for _, f := range priorityFactors {
			if f == factor {
				return true
			}
		}
		return false
	}

	recs := make([]Recommendation, 0, len(vendors))
	for _, v := range vendors {
		score, err := scoring.ScoreVendor(gdb, v.ID)
		if err != nil {
			return RecommendationsResult{}, err
		}
		valueIndex := scoring.ValueIndex(score.QualityScore, v.CostPerRecord)

		recScore := 0.0
		if wants("quality") {
			recScore += score.QualityScore * 0.4
		}
		if wants("cost") {
			recScore += costScore(v.CostPerRecord) * 0.3
		}
		if wants("coverage") {
			recScore += v.CoveragePercentage * 0.2
		}
		if wants("value") {
			valueScore := valueIndex * 10
			if valueScore > 100 {
				valueScore = 100
			}
			recScore += valueScore * 0.1
		}

		recs = append(recs, Recommendation{
			VendorID:            v.ID,
			VendorName:          v.Name,
			RecommendationScore: scoring.Round2(recScore),
			QualityScore:        score.QualityScore,
			CostPerRecord:       v.CostPerRecord,
			CoveragePercentage:  v.CoveragePercentage,
			ValueIndex:          valueIndex,
			AnnualCost:          scoring.Round2(v.CostPerRecord * float64(annualVolume)),
			Strengths:           vendorStrengths(v, score),
			Weaknesses:          vendorWeaknesses(v, score),
			BestFor:             bestUseCase(v, score),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].RecommendationScore > recs[j].RecommendationScore
	})

	result := RecommendationsResult{Recommendations: recs}
	result.Requirements.AnnualVolume = annualVolume
	if len(priorityFactors) > 0 {
		result.Requirements.PriorityFactors = priorityFactors
	} else {
		result.Requirements.PriorityFactors = []string{"quality", "cost", "coverage", "value"}
	}
	if len(recs) > 0 {
		result.TopPick = &recs[0]
	}
	return result, nil
}

// costScore inverts price onto a 0-100 scale against the market ceiling.
func costScore(costPerRecord float64) float64 {
	score := 100 - (costPerRecord / maxCostPerRecord * 100)
	if score < 0 {
		return 0
	}
	return score
}

func vendorStrengths(v dbpkg.Vendor, score scoring.VendorScore) []string {
	strengths := []string{}
	if score.QualityScore >= 90 {
		strengths = append(strengths, "High quality score")
	}
	if v.CostPerRecord <= 6 {
		strengths = append(strengths, "Low cost per record")
	}
	if v.CoveragePercentage >= 95 {
		strengths = append(strengths, "Excellent geographic coverage")
	}
	if score.PIICompleteness >= 95 {
		strengths = append(strengths, "Superior PII completeness")
	}
	if score.DispositionAccuracy >= 95 {
		strengths = append(strengths, "High disposition accuracy")
	}
	return strengths
}

func vendorWeaknesses(v dbpkg.Vendor, score scoring.VendorScore) []string {
	weaknesses := []string{}
	if score.QualityScore < 80 {
		weaknesses = append(weaknesses, "Below average quality score")
	}
	if v.CostPerRecord >= 10 {
		weaknesses = append(weaknesses, "Higher cost per record")
	}
	if v.CoveragePercentage < 85 {
		weaknesses = append(weaknesses, "Limited geographic coverage")
	}
	if score.PIICompleteness < 85 {
		weaknesses = append(weaknesses, "PII completeness needs improvement")
	}
	if score.DispositionAccuracy < 85 {
		weaknesses = append(weaknesses, "Disposition accuracy needs improvement")
	}
	return weaknesses
}

// bestUseCase summarizes the operating profile a vendor fits best,
// derived from its metrics.
func bestUseCase(v dbpkg.Vendor, score scoring.VendorScore) string {
	switch {
	case score.QualityScore >= 90 && v.CoveragePercentage >= 95:
		return "High-volume, quality-critical operations"
	case score.QualityScore >= 90:
		return "Regional operations requiring specialist expertise"
	case v.CostPerRecord <= 6:
		return "Budget-conscious operations with some quality tolerance"
	case score.QualityScore >= 85:
		return "Balanced operations requiring good quality at reasonable cost"
	default:
		return "General criminal record screening"
	}
}

// PerformanceMetric is one vendor's consolidated performance row.
type PerformanceMetric struct {
	VendorID             uint    `json:"vendor_id"`
	VendorName           string  `json:"vendor_name"`
	QualityScore         float64 `json:"quality_score"`
	CostPerRecord        float64 `json:"cost_per_record"`
	ValueIndex           float64 `json:"value_index"`
	CoveragePercentage   float64 `json:"coverage_percentage"`
	TotalRecords         int     `json:"total_records"`
	AvgTurnaroundHours   float64 `json:"avg_turnaround_hours"`
	PerformanceGrade     string  `json:"performance_grade"`
	JurisdictionsCovered int     `json:"jurisdictions_covered"`
}

type PerformanceMetricsResult struct {
	Vendors []PerformanceMetric `json:"vendors"`
	Summary CompareSummary      `json:"summary"`
}

// PerformanceMetrics builds consolidated performance rows for the given
// vendors, or for every active vendor when ids is empty.
func PerformanceMetrics(gdb *gorm.DB, vendorIDs []uint) (PerformanceMetricsResult, error) {
	if len(vendorIDs) == 0 {
		var vendors []dbpkg.Vendor
		if err := gdb.Where("is_active = ?", true).Order("id").Find(&vendors).Error; err != nil {
			return PerformanceMetricsResult{}, err
		}
		for _, v := range vendors {
			vendorIDs = append(vendorIDs, v.ID)
		}
	}

	rows := make([]PerformanceMetric, 0, len(vendorIDs))
	for _, id := range vendorIDs {
		var vendor dbpkg.Vendor
		if err := gdb.Limit(1).Find(&vendor, id).Error; err != nil {
			return PerformanceMetricsResult{}, err
		}
		if vendor.ID == 0 {
			continue
		}

		score, err := scoring.ScoreVendor(gdb, id)
		if err != nil {
			return PerformanceMetricsResult{}, err
		}
		perf, err := scoring.JurisdictionPerformance(gdb, id)
		if err != nil {
			return PerformanceMetricsResult{}, err
		}

		avgTurnaround := 0.0
		if len(perf) > 0 {
			var sum float64
			for _, p := range perf {
				sum += p.AvgTurnaroundHours
			}
			avgTurnaround = scoring.Round2(sum / float64(len(perf)))
		}

		rows = append(rows, PerformanceMetric{
			VendorID:             vendor.ID,
			VendorName:           vendor.Name,
			QualityScore:         score.QualityScore,
			CostPerRecord:        vendor.CostPerRecord,
			ValueIndex:           scoring.ValueIndex(score.QualityScore, vendor.CostPerRecord),
			CoveragePercentage:   vendor.CoveragePercentage,
			TotalRecords:         score.TotalRecords,
			AvgTurnaroundHours:   avgTurnaround,
			PerformanceGrade:     scoring.PerformanceGrade(score.QualityScore),
			JurisdictionsCovered: len(perf),
		})
	}

	summary := CompareSummary{TotalVendors: len(rows)}
	if len(rows) > 0 {
		var qualitySum, costSum, coverageSum float64
		for _, r := range rows {
			qualitySum += r.QualityScore
			costSum += r.CostPerRecord
			coverageSum += r.CoveragePercentage
		}
		n := float64(len(rows))
		summary.AvgQualityScore = scoring.Round2(qualitySum / n)
		summary.AvgCostPerRecord = scoring.Round2(costSum / n)
		summary.AvgCoverage = scoring.Round2(coverageSum / n)
	}

	return PerformanceMetricsResult{Vendors: rows, Summary: summary}, nil
}
