// Package scoring reduces a vendor's delivered records into the composite
// quality score and its four sub-metrics. Every function here is a pure
// reduction over freshly fetched rows; nothing retains state across calls.
package scoring

import (
	"math"

	"gorm.io/gorm"

	dbpkg "vendorscore/internal/db"
)

// Composite weights. Fixed contract: every consumer of the score assumes
// the 40/30/20/10 split.
const (
	weightPII         = 0.4
	weightDisposition = 0.3
	weightFreshness   = 0.2
	weightCoverage    = 0.1
)

// VendorScore is the composite quality score plus the sub-metrics it was
// derived from. Percentages are 0-100 floats rounded to 2 decimals;
// TotalRecords is the exact record count.
type VendorScore struct {
	QualityScore        float64 `json:"quality_score"`
	PIICompleteness     float64 `json:"pii_completeness"`
	DispositionAccuracy float64 `json:"disposition_accuracy"`
	AvgFreshnessDays    float64 `json:"avg_freshness_days"`
	GeographicCoverage  float64 `json:"geographic_coverage"`
	TotalRecords        int     `json:"total_records"`
}

// Compute scores a record set against a vendor's static coverage
// percentage. An empty record set is valid and yields all zeros.
//
// The freshness term is clamped at zero inside the composite: a vendor
// averaging over 100 days to deliver contributes nothing rather than a
// negative amount. AvgFreshnessDays itself is returned unclamped.
func Compute(records []dbpkg.CriminalRecord, coveragePercentage float64) VendorScore {
	if len(records) == 0 {
		return VendorScore{}
	}

	var complete, verified int
	var freshnessSum float64
	for _, r := range records {
		if r.PIIStatus == dbpkg.PIIComplete {
			complete++
		}
		if r.DispositionVerified {
			verified++
		}
		freshnessSum += r.FreshnessDays
	}

	total := float64(len(records))
	piiCompleteness := float64(complete) / total * 100
	dispositionAccuracy := float64(verified) / total * 100
	avgFreshnessDays := freshnessSum / total

	freshnessScore := 100 - avgFreshnessDays
	if freshnessScore < 0 {
		freshnessScore = 0
	}

	quality := piiCompleteness*weightPII +
		dispositionAccuracy*weightDisposition +
		freshnessScore*weightFreshness +
		coveragePercentage*weightCoverage

	return VendorScore{
		QualityScore:        Round2(quality),
		PIICompleteness:     Round2(piiCompleteness),
		DispositionAccuracy: Round2(dispositionAccuracy),
		AvgFreshnessDays:    Round2(avgFreshnessDays),
		GeographicCoverage:  Round2(coveragePercentage),
		TotalRecords:        len(records),
	}
}

// ValueIndex is quality per unit cost. A non-positive cost yields 0.0
// rather than an error; callers never need to guard the division.
func ValueIndex(qualityScore, costPerRecord float64) float64 {
	if costPerRecord <= 0 {
		return 0.0
	}
	return Round2(qualityScore / costPerRecord)
}

// ScoreVendor fetches a vendor's full record set and scores it. A vendor
// with no records (or an unknown id) scores all zeros; the caller decides
// whether an unknown id is an error.
func ScoreVendor(gdb *gorm.DB, vendorID uint) (VendorScore, error) {
	var records []dbpkg.CriminalRecord
	if err := gdb.Where("vendor_id = ?", vendorID).Find(&records).Error; err != nil {
		return VendorScore{}, err
	}
	if len(records) == 0 {
		return VendorScore{}, nil
	}

	coverage := 0.0
	var vendor dbpkg.Vendor
	if err := gdb.Limit(1).Find(&vendor, vendorID).Error; err != nil {
		return VendorScore{}, err
	}
	if vendor.ID != 0 {
		coverage = vendor.CoveragePercentage
	}

	return Compute(records, coverage), nil
}

// PerformanceGrade maps a composite score onto a letter grade.
func PerformanceGrade(score float64) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 90:
		return "A"
	case score >= 85:
		return "B+"
	case score >= 80:
		return "B"
	case score >= 75:
		return "C+"
	case score >= 70:
		return "C"
	default:
		return "D"
	}
}

// Round2 rounds to 2 decimal places, the precision of every externally
// visible score and metric field.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
