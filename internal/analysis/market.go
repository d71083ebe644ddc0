package analysis

import (
	"sort"

	"gorm.io/gorm"

	dbpkg "vendorscore/internal/db"
	"vendorscore/internal/scoring"
)

// BenchmarkStats summarizes one metric's distribution across the active
// vendor population.
type BenchmarkStats struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Median      float64 `json:"median"`
	Average     float64 `json:"average"`
	Percentiles struct {
		P25 float64 `json:"25th"`
		P75 float64 `json:"75th"`
		P90 float64 `json:"90th"`
	} `json:"percentiles"`
}

type MarketBenchmarksResult struct {
	QualityBenchmarks  BenchmarkStats `json:"quality_benchmarks"`
	CostBenchmarks     BenchmarkStats `json:"cost_benchmarks"`
	CoverageBenchmarks BenchmarkStats `json:"coverage_benchmarks"`
	MarketSize         int            `json:"market_size"`
}

// MarketBenchmarks computes distribution statistics over quality score,
// cost per record and coverage of all active vendors. Returns
// gorm.ErrRecordNotFound when there are no active vendors.
func MarketBenchmarks(gdb *gorm.DB) (MarketBenchmarksResult, error) {
	var vendors []dbpkg.Vendor
	if err := gdb.Where("is_active = ?", true).Order("id").Find(&vendors).Error; err != nil {
		return MarketBenchmarksResult{}, err
	}
	if len(vendors) == 0 {
		return MarketBenchmarksResult{}, gorm.ErrRecordNotFound
	}

	qualities := make([]float64, 0, len(vendors))
	costs := make([]float64, 0, len(vendors))
	coverages := make([]float64, 0, len(vendors))
	for _, v := range vendors {
		score, err := scoring.ScoreVendor(gdb, v.ID)
		if err != nil {
			return MarketBenchmarksResult{}, err
		}
		qualities = append(qualities, score.QualityScore)
		costs = append(costs, v.CostPerRecord)
		coverages = append(coverages, v.CoveragePercentage)
	}

	return MarketBenchmarksResult{
		QualityBenchmarks:  benchmarkStats(qualities),
		CostBenchmarks:     benchmarkStats(costs),
		CoverageBenchmarks: benchmarkStats(coverages),
		MarketSize:         len(vendors),
	}, nil
}

// benchmarkStats computes min/max/median/mean plus nearest-rank
// percentiles. Percentiles index the sorted values at floor(n*q), not
// interpolated: for [5 8 10 12] the 25th percentile is 8.
func benchmarkStats(values []float64) BenchmarkStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := len(sorted)
	var sum float64
	for _, v := range sorted {
		sum += v
	}

	stats := BenchmarkStats{
		Min:     sorted[0],
		Max:     sorted[n-1],
		Median:  sorted[n/2],
		Average: scoring.Round2(sum / float64(n)),
	}
	stats.Percentiles.P25 = sorted[nearestRank(n, 0.25)]
	stats.Percentiles.P75 = sorted[nearestRank(n, 0.75)]
	stats.Percentiles.P90 = sorted[nearestRank(n, 0.90)]
	return stats
}

func nearestRank(n int, q float64) int {
	idx := int(float64(n) * q)
	if idx >= n {
		idx = n - 1
	}
	return idx
}
