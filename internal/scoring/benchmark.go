package scoring

import (
	"sort"
	"time"

	"gorm.io/gorm"

	dbpkg "vendorscore/internal/db"
)

// BenchmarkRow is one vendor's entry in the population-wide ranking.
type BenchmarkRow struct {
	VendorID            uint    `json:"vendor_id"`
	VendorName          string  `json:"vendor_name"`
	QualityScore        float64 `json:"quality_score"`
	CostPerRecord       float64 `json:"cost_per_record"`
	CoveragePercentage  float64 `json:"coverage_percentage"`
	ValueIndex          float64 `json:"value_index"`
	TotalRecords        int     `json:"total_records"`
	PIICompleteness     float64 `json:"pii_completeness"`
	DispositionAccuracy float64 `json:"disposition_accuracy"`
	AvgFreshnessDays    float64 `json:"avg_freshness_days"`
}

// BenchmarkSummary carries population means over the ranked set.
type BenchmarkSummary struct {
	TotalVendors     int     `json:"total_vendors"`
	AvgQualityScore  float64 `json:"avg_quality_score"`
	AvgCostPerRecord float64 `json:"avg_cost_per_record"`
	AvgCoverage      float64 `json:"avg_coverage"`
}

type BenchmarkResult struct {
	Vendors []BenchmarkRow   `json:"vendors"`
	Summary BenchmarkSummary `json:"summary"`
}

// BenchmarkVendors scores every active vendor and ranks them descending
// by composite quality score. Ties keep the original vendor id order.
func BenchmarkVendors(gdb *gorm.DB) (BenchmarkResult, error) {
	var vendors []dbpkg.Vendor
	if err := gdb.Where("is_active = ?", true).Order("id").Find(&vendors).Error; err != nil {
		return BenchmarkResult{}, err
	}

	rows := make([]BenchmarkRow, 0, len(vendors))
	for _, v := range vendors {
		score, err := ScoreVendor(gdb, v.ID)
		if err != nil {
			return BenchmarkResult{}, err
		}
		rows = append(rows, BenchmarkRow{
			VendorID:            v.ID,
			VendorName:          v.Name,
			QualityScore:        score.QualityScore,
			CostPerRecord:       v.CostPerRecord,
			CoveragePercentage:  v.CoveragePercentage,
			ValueIndex:          ValueIndex(score.QualityScore, v.CostPerRecord),
			TotalRecords:        score.TotalRecords,
			PIICompleteness:     score.PIICompleteness,
			DispositionAccuracy: score.DispositionAccuracy,
			AvgFreshnessDays:    score.AvgFreshnessDays,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].QualityScore > rows[j].QualityScore
	})

	summary := BenchmarkSummary{TotalVendors: len(rows)}
	if len(rows) > 0 {
		var qualitySum, costSum, coverageSum float64
		for _, r := range rows {
			qualitySum += r.QualityScore
			costSum += r.CostPerRecord
			coverageSum += r.CoveragePercentage
		}
		n := float64(len(rows))
		summary.AvgQualityScore = Round2(qualitySum / n)
		summary.AvgCostPerRecord = Round2(costSum / n)
		summary.AvgCoverage = Round2(coverageSum / n)
	}

	return BenchmarkResult{Vendors: rows, Summary: summary}, nil
}

// TrendSeries is per-delivery-date quality data for charting, parallel
// arrays indexed by date. Dates with no deliveries are omitted, not
// zero-filled.
type TrendSeries struct {
	Dates               []string  `json:"dates"`
	PIICompleteness     []float64 `json:"pii_completeness"`
	DispositionAccuracy []float64 `json:"disposition_accuracy"`
	AvgTurnaround       []float64 `json:"avg_turnaround"`
	RecordVolume        []int     `json:"record_volume"`
}

// QualityTrends groups a vendor's records by calendar delivery date
// within the trailing window and emits one data point per date present.
func QualityTrends(gdb *gorm.DB, vendorID uint, days int) (TrendSeries, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	var records []dbpkg.CriminalRecord
	if err := gdb.Where("vendor_id = ? AND vendor_delivery_date >= ?", vendorID, cutoff).
		Find(&records).Error; err != nil {
		return TrendSeries{}, err
	}

	type bucket struct {
		total         int
		complete      int
		verified      int
		turnaroundSum float64
	}
	byDate := make(map[string]*bucket)
	for _, r := range records {
		if r.VendorDeliveryDate == nil {
			continue
		}
		day := r.VendorDeliveryDate.Format("2006-01-02")
		b := byDate[day]
		if b == nil {
			b = &bucket{}
			byDate[day] = b
		}
		b.total++
		if r.PIIStatus == dbpkg.PIIComplete {
			b.complete++
		}
		if r.DispositionVerified {
			b.verified++
		}
		b.turnaroundSum += r.TurnaroundHours
	}

	dates := make([]string, 0, len(byDate))
	for day := range byDate {
		dates = append(dates, day)
	}
	sort.Strings(dates)

	series := TrendSeries{
		Dates:               dates,
		PIICompleteness:     make([]float64, 0, len(dates)),
		DispositionAccuracy: make([]float64, 0, len(dates)),
		AvgTurnaround:       make([]float64, 0, len(dates)),
		RecordVolume:        make([]int, 0, len(dates)),
	}
	for _, day := range dates {
		b := byDate[day]
		n := float64(b.total)
		series.PIICompleteness = append(series.PIICompleteness, Round2(float64(b.complete)/n*100))
		series.DispositionAccuracy = append(series.DispositionAccuracy, Round2(float64(b.verified)/n*100))
		series.AvgTurnaround = append(series.AvgTurnaround, Round2(b.turnaroundSum/n))
		series.RecordVolume = append(series.RecordVolume, b.total)
	}
	return series, nil
}

// HistoryPoint is one archived VendorMetrics snapshot.
type HistoryPoint struct {
	Date                string  `json:"date"`
	QualityScore        float64 `json:"quality_score"`
	PIICompleteness     float64 `json:"pii_completeness"`
	DispositionAccuracy float64 `json:"disposition_accuracy"`
	AvgFreshnessDays    float64 `json:"avg_freshness_days"`
	GeographicCoverage  float64 `json:"geographic_coverage"`
}

// MetricsHistory returns the vendor's snapshot history within the
// trailing window, newest first.
func MetricsHistory(gdb *gorm.DB, vendorID uint, days int) ([]HistoryPoint, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	var snapshots []dbpkg.VendorMetrics
	if err := gdb.Where("vendor_id = ? AND recorded_at >= ?", vendorID, cutoff).
		Order("recorded_at DESC").
		Find(&snapshots).Error; err != nil {
		return nil, err
	}

	points := make([]HistoryPoint, 0, len(snapshots))
	for _, s := range snapshots {
		points = append(points, HistoryPoint{
			Date:                s.RecordedAt.UTC().Format(time.RFC3339),
			QualityScore:        Round2(s.CalculatedScore),
			PIICompleteness:     Round2(s.PIICompleteness),
			DispositionAccuracy: Round2(s.DispositionAccuracy),
			AvgFreshnessDays:    Round2(s.AvgFreshnessDays),
			GeographicCoverage:  Round2(s.GeographicCoverage),
		})
	}
	return points, nil
}
