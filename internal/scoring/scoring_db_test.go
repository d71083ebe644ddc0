package scoring

import (
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dbpkg "vendorscore/internal/db"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "scoring.sqlite")
	gdb, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	require.NoError(t, gdb.AutoMigrate(
		&dbpkg.Vendor{},
		&dbpkg.Jurisdiction{},
		&dbpkg.VendorCoverage{},
		&dbpkg.CriminalRecord{},
		&dbpkg.VendorMetrics{},
	))
	return gdb
}

func seedVendor(t *testing.T, gdb *gorm.DB, name string, coverage float64) dbpkg.Vendor {
	t.Helper()
	v := dbpkg.Vendor{Name: name, CostPerRecord: 8, CoveragePercentage: coverage, IsActive: true}
	require.NoError(t, gdb.Create(&v).Error)
	return v
}

func TestScoreVendorNoRecords(t *testing.T) {
	gdb := setupDB(t)
	v := seedVendor(t, gdb, "EmptyVendor", 90)

	score, err := ScoreVendor(gdb, v.ID)
	require.NoError(t, err)
	require.Equal(t, VendorScore{}, score)
}

func TestScoreVendorUsesCoverage(t *testing.T) {
	gdb := setupDB(t)
	v := seedVendor(t, gdb, "CoveredVendor", 80)

	records := []dbpkg.CriminalRecord{
		{VendorID: v.ID, JurisdictionID: 1, PIIStatus: dbpkg.PIIComplete, DispositionVerified: true},
		{VendorID: v.ID, JurisdictionID: 1, PIIStatus: dbpkg.PIIComplete, DispositionVerified: true},
	}
	require.NoError(t, gdb.Create(&records).Error)

	score, err := ScoreVendor(gdb, v.ID)
	require.NoError(t, err)
	require.Equal(t, 80.0, score.GeographicCoverage)
	// 100*0.4 + 100*0.3 + 100*0.2 + 80*0.1
	require.Equal(t, 98.0, score.QualityScore)
	require.Equal(t, 2, score.TotalRecords)
}

func TestScoreVendorScopedToVendor(t *testing.T) {
	gdb := setupDB(t)
	a := seedVendor(t, gdb, "VendorOne", 100)
	b := seedVendor(t, gdb, "VendorTwo", 100)

	require.NoError(t, gdb.Create(&dbpkg.CriminalRecord{
		VendorID: a.ID, JurisdictionID: 1, PIIStatus: dbpkg.PIIComplete, DispositionVerified: true,
	}).Error)
	require.NoError(t, gdb.Create(&dbpkg.CriminalRecord{
		VendorID: b.ID, JurisdictionID: 1, PIIStatus: dbpkg.PIIMissing,
	}).Error)

	scoreA, err := ScoreVendor(gdb, a.ID)
	require.NoError(t, err)
	scoreB, err := ScoreVendor(gdb, b.ID)
	require.NoError(t, err)

	require.Equal(t, 100.0, scoreA.PIICompleteness)
	require.Equal(t, 0.0, scoreB.PIICompleteness)
}

func TestJurisdictionPerformanceKeepsEmptyJurisdictions(t *testing.T) {
	gdb := setupDB(t)
	v := seedVendor(t, gdb, "RegionalVendor", 90)

	jurA := dbpkg.Jurisdiction{Name: "Los Angeles County", State: "CA", IsActive: true}
	jurB := dbpkg.Jurisdiction{Name: "Harris County", State: "TX", IsActive: true}
	require.NoError(t, gdb.Create(&jurA).Error)
	require.NoError(t, gdb.Create(&jurB).Error)

	require.NoError(t, gdb.Create(&dbpkg.VendorCoverage{
		VendorID: v.ID, JurisdictionID: jurA.ID, CoveragePercentage: 95, AvgTurnaroundHours: 24,
	}).Error)
	require.NoError(t, gdb.Create(&dbpkg.VendorCoverage{
		VendorID: v.ID, JurisdictionID: jurB.ID, CoveragePercentage: 80, AvgTurnaroundHours: 48,
	}).Error)

	records := []dbpkg.CriminalRecord{
		{VendorID: v.ID, JurisdictionID: jurA.ID, PIIStatus: dbpkg.PIIComplete, DispositionVerified: true},
		{VendorID: v.ID, JurisdictionID: jurA.ID, PIIStatus: dbpkg.PIIMissing, DispositionVerified: false},
	}
	require.NoError(t, gdb.Create(&records).Error)

	rows, err := JurisdictionPerformance(gdb, v.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, "Los Angeles County", rows[0].Jurisdiction)
	require.Equal(t, 2, rows[0].RecordCount)
	require.Equal(t, 50.0, rows[0].PIICompletenessRate)
	require.Equal(t, 50.0, rows[0].DispositionAccuracyRate)

	require.Equal(t, "Harris County", rows[1].Jurisdiction)
	require.Equal(t, 0, rows[1].RecordCount)
	require.Equal(t, 0.0, rows[1].PIICompletenessRate)
}

func TestRunSnapshotOnce(t *testing.T) {
	gdb := setupDB(t)
	v := seedVendor(t, gdb, "SnapshotVendor", 100)

	require.NoError(t, gdb.Create(&dbpkg.CriminalRecord{
		VendorID: v.ID, JurisdictionID: 1, PIIStatus: dbpkg.PIIComplete, DispositionVerified: true,
	}).Error)

	require.NoError(t, RunSnapshotOnce(gdb))

	var snapshots []dbpkg.VendorMetrics
	require.NoError(t, gdb.Where("vendor_id = ?", v.ID).Find(&snapshots).Error)
	require.Len(t, snapshots, 1)
	require.Equal(t, 100.0, snapshots[0].CalculatedScore)

	var refreshed dbpkg.Vendor
	require.NoError(t, gdb.First(&refreshed, v.ID).Error)
	require.Equal(t, 100.0, refreshed.QualityScore)

	history, err := MetricsHistory(gdb, v.ID, 7)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, 100.0, history[0].QualityScore)
}

func TestQualityTrendsGroupsByDeliveryDate(t *testing.T) {
	gdb := setupDB(t)
	v := seedVendor(t, gdb, "TrendVendor", 90)

	day1 := time.Now().AddDate(0, 0, -2)
	day2 := time.Now().AddDate(0, 0, -1)
	records := []dbpkg.CriminalRecord{
		{VendorID: v.ID, JurisdictionID: 1, PIIStatus: dbpkg.PIIComplete, DispositionVerified: true, VendorDeliveryDate: &day1, TurnaroundHours: 24},
		{VendorID: v.ID, JurisdictionID: 1, PIIStatus: dbpkg.PIIMissing, VendorDeliveryDate: &day1, TurnaroundHours: 48},
		{VendorID: v.ID, JurisdictionID: 1, PIIStatus: dbpkg.PIIComplete, DispositionVerified: true, VendorDeliveryDate: &day2, TurnaroundHours: 12},
	}
	require.NoError(t, gdb.Create(&records).Error)

	series, err := QualityTrends(gdb, v.ID, 7)
	require.NoError(t, err)
	require.Len(t, series.Dates, 2)
	require.Equal(t, day1.Format("2006-01-02"), series.Dates[0])
	require.Equal(t, day2.Format("2006-01-02"), series.Dates[1])

	require.Equal(t, 50.0, series.PIICompleteness[0])
	require.Equal(t, 36.0, series.AvgTurnaround[0])
	require.Equal(t, 2, series.RecordVolume[0])
	require.Equal(t, 100.0, series.PIICompleteness[1])
	require.Equal(t, 1, series.RecordVolume[1])
}

func TestBenchmarkVendorsRanksByQuality(t *testing.T) {
	gdb := setupDB(t)
	low := seedVendor(t, gdb, "LowQuality", 50)
	high := seedVendor(t, gdb, "HighQuality", 100)

	require.NoError(t, gdb.Create(&dbpkg.CriminalRecord{
		VendorID: low.ID, JurisdictionID: 1, PIIStatus: dbpkg.PIIMissing,
	}).Error)
	require.NoError(t, gdb.Create(&dbpkg.CriminalRecord{
		VendorID: high.ID, JurisdictionID: 1, PIIStatus: dbpkg.PIIComplete, DispositionVerified: true,
	}).Error)

	result, err := BenchmarkVendors(gdb)
	require.NoError(t, err)
	require.Len(t, result.Vendors, 2)
	require.Equal(t, "HighQuality", result.Vendors[0].VendorName)
	require.Equal(t, "LowQuality", result.Vendors[1].VendorName)
	require.Equal(t, 2, result.Summary.TotalVendors)
}
