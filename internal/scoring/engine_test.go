package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dbpkg "vendorscore/internal/db"
)

func perfectRecord() dbpkg.CriminalRecord {
	return dbpkg.CriminalRecord{
		PIIStatus:           dbpkg.PIIComplete,
		DispositionVerified: true,
		FreshnessDays:       0,
	}
}

func TestComputeEmptyRecordSet(t *testing.T) {
	score := Compute(nil, 95)
	assert.Equal(t, VendorScore{}, score)
}

func TestComputePerfectVendor(t *testing.T) {
	records := []dbpkg.CriminalRecord{perfectRecord(), perfectRecord()}
	score := Compute(records, 100)

	assert.Equal(t, 100.0, score.QualityScore)
	assert.Equal(t, 100.0, score.PIICompleteness)
	assert.Equal(t, 100.0, score.DispositionAccuracy)
	assert.Equal(t, 0.0, score.AvgFreshnessDays)
	assert.Equal(t, 100.0, score.GeographicCoverage)
	assert.Equal(t, 2, score.TotalRecords)
}

func TestComputeWeighting(t *testing.T) {
	// 2 of 4 complete, 1 of 4 verified, avg freshness 10, coverage 80:
	// 50*0.4 + 25*0.3 + 90*0.2 + 80*0.1 = 53.5
	records := []dbpkg.CriminalRecord{
		{PIIStatus: dbpkg.PIIComplete, DispositionVerified: true, FreshnessDays: 10},
		{PIIStatus: dbpkg.PIIComplete, FreshnessDays: 10},
		{PIIStatus: dbpkg.PIIIncomplete, FreshnessDays: 10},
		{PIIStatus: dbpkg.PIIMissing, FreshnessDays: 10},
	}
	score := Compute(records, 80)

	assert.Equal(t, 53.5, score.QualityScore)
	assert.Equal(t, 50.0, score.PIICompleteness)
	assert.Equal(t, 25.0, score.DispositionAccuracy)
	assert.Equal(t, 10.0, score.AvgFreshnessDays)
}

func TestComputeFreshnessClamp(t *testing.T) {
	// Freshness averaging 150 days contributes zero, not a negative term,
	// but the reported average stays unclamped.
	stale := []dbpkg.CriminalRecord{
		{PIIStatus: dbpkg.PIIComplete, DispositionVerified: true, FreshnessDays: 150},
	}
	score := Compute(stale, 0)

	assert.Equal(t, 150.0, score.AvgFreshnessDays)
	// 100*0.4 + 100*0.3 + 0*0.2 + 0*0.1
	assert.Equal(t, 70.0, score.QualityScore)
}

func TestComputeIgnoresCostEntirely(t *testing.T) {
	records := []dbpkg.CriminalRecord{perfectRecord()}
	a := Compute(records, 90)
	b := Compute(records, 90)
	assert.Equal(t, a, b)
}

func TestValueIndex(t *testing.T) {
	assert.Equal(t, 10.0, ValueIndex(90, 9))
	assert.Equal(t, 0.0, ValueIndex(80, 0))
	assert.Equal(t, 0.0, ValueIndex(80, -1))
	assert.Equal(t, 11.16, ValueIndex(94.3, 8.45))
}

func TestPerformanceGrade(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{96, "A+"}, {95, "A+"}, {94.99, "A"}, {90, "A"},
		{89, "B+"}, {85, "B+"}, {84, "B"}, {80, "B"},
		{79, "C+"}, {75, "C+"}, {74, "C"}, {70, "C"},
		{69.99, "D"}, {0, "D"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PerformanceGrade(tt.score), "score %v", tt.score)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.33, Round2(10.0/3))
	assert.Equal(t, 0.67, Round2(2.0/3))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, -3.33, Round2(-10.0/3))
}
