package alerts

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

	dsn := filepath.Join(t.TempDir(), "alerts.sqlite")
	gdb, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	require.NoError(t, gdb.AutoMigrate(
		&dbpkg.Vendor{},
		&dbpkg.CriminalRecord{},
		&dbpkg.Alert{},
		&dbpkg.AlertConfiguration{},
	))
	return gdb
}

func seedVendorWithRecords(t *testing.T, gdb *gorm.DB, coverage, cachedQuality float64) dbpkg.Vendor {
	t.Helper()
	v := dbpkg.Vendor{
		Name:               "TestVendor",
		CostPerRecord:      8,
		QualityScore:       cachedQuality,
		CoveragePercentage: coverage,
		IsActive:           true,
	}
	require.NoError(t, gdb.Create(&v).Error)

	// Half complete PII, half verified dispositions.
	delivery := time.Now().AddDate(0, 0, -1)
	records := []dbpkg.CriminalRecord{
		{VendorID: v.ID, JurisdictionID: 1, PIIStatus: dbpkg.PIIComplete, DispositionVerified: true, VendorDeliveryDate: &delivery, TurnaroundHours: 30},
		{VendorID: v.ID, JurisdictionID: 1, PIIStatus: dbpkg.PIIMissing, DispositionVerified: false, VendorDeliveryDate: &delivery, TurnaroundHours: 50},
	}
	require.NoError(t, gdb.Create(&records).Error)
	return v
}

func configure(t *testing.T, gdb *gorm.DB, vendorID uint, alertType dbpkg.AlertType, threshold float64) {
	t.Helper()
	require.NoError(t, gdb.Create(&dbpkg.AlertConfiguration{
		VendorID:       vendorID,
		AlertType:      alertType,
		ThresholdValue: threshold,
		IsActive:       true,
	}).Error)
}

func TestCheckSLAUnknownVendor(t *testing.T) {
	gdb := setupDB(t)
	_, err := CheckSLA(gdb, 999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCheckSLAPIIBreach(t *testing.T) {
	gdb := setupDB(t)
	v := seedVendorWithRecords(t, gdb, 90, 85)
	configure(t, gdb, v.ID, dbpkg.AlertPIICompleteness, 90)

	breaches, err := CheckSLA(gdb, v.ID)
	require.NoError(t, err)
	require.Len(t, breaches, 1)

	b := breaches[0]
	require.Equal(t, dbpkg.AlertPIICompleteness, b.Type)
	require.Equal(t, dbpkg.SeverityHigh, b.Severity)
	require.Equal(t, 50.0, b.CurrentValue)
	require.Equal(t, 90.0, b.ThresholdValue)
	require.Equal(t, 40.0, b.Variance)
}

func TestCheckSLATurnaroundDirection(t *testing.T) {
	gdb := setupDB(t)
	v := seedVendorWithRecords(t, gdb, 90, 85)

	// Average turnaround over the window is 40h: a 35h ceiling breaches,
	// a 45h ceiling does not.
	configure(t, gdb, v.ID, dbpkg.AlertTurnaroundTime, 35)

	breaches, err := CheckSLA(gdb, v.ID)
	require.NoError(t, err)
	require.Len(t, breaches, 1)
	require.Equal(t, dbpkg.SeverityMedium, breaches[0].Severity)
	require.Equal(t, 40.0, breaches[0].CurrentValue)

	require.NoError(t, gdb.Where("vendor_id = ?", v.ID).Delete(&dbpkg.AlertConfiguration{}).Error)
	configure(t, gdb, v.ID, dbpkg.AlertTurnaroundTime, 45)

	breaches, err = CheckSLA(gdb, v.ID)
	require.NoError(t, err)
	require.Empty(t, breaches)
}

func TestCheckSLATurnaroundNoRecentData(t *testing.T) {
	gdb := setupDB(t)
	v := dbpkg.Vendor{Name: "QuietVendor", CostPerRecord: 8, CoveragePercentage: 90, IsActive: true}
	require.NoError(t, gdb.Create(&v).Error)

	// Delivery outside the trailing window: no data means no alert.
	old := time.Now().AddDate(0, 0, -30)
	require.NoError(t, gdb.Create(&dbpkg.CriminalRecord{
		VendorID: v.ID, JurisdictionID: 1, PIIStatus: dbpkg.PIIComplete,
		VendorDeliveryDate: &old, TurnaroundHours: 500,
	}).Error)
	configure(t, gdb, v.ID, dbpkg.AlertTurnaroundTime, 48)

	breaches, err := CheckSLA(gdb, v.ID)
	require.NoError(t, err)
	require.Empty(t, breaches)
}

func TestCheckSLAQualityAndCoverageUseVendorColumns(t *testing.T) {
	gdb := setupDB(t)
	v := seedVendorWithRecords(t, gdb, 70, 65)
	configure(t, gdb, v.ID, dbpkg.AlertCoverageDrop, 85)
	configure(t, gdb, v.ID, dbpkg.AlertQualityDrop, 75)

	breaches, err := CheckSLA(gdb, v.ID)
	require.NoError(t, err)
	require.Len(t, breaches, 2)
	require.Equal(t, 70.0, breaches[0].CurrentValue)
	require.Equal(t, 65.0, breaches[1].CurrentValue)
}

func TestCheckSLAInactiveConfigIgnored(t *testing.T) {
	gdb := setupDB(t)
	v := seedVendorWithRecords(t, gdb, 90, 85)
	require.NoError(t, gdb.Create(&dbpkg.AlertConfiguration{
		VendorID:       v.ID,
		AlertType:      dbpkg.AlertPIICompleteness,
		ThresholdValue: 99,
		IsActive:       false,
	}).Error)

	breaches, err := CheckSLA(gdb, v.ID)
	require.NoError(t, err)
	require.Empty(t, breaches)
}

func TestLifecycleIsPermissive(t *testing.T) {
	gdb := setupDB(t)
	v := seedVendorWithRecords(t, gdb, 90, 85)

	alert, err := Create(gdb, v.ID, Breach{
		Type:           dbpkg.AlertQualityDrop,
		Severity:       dbpkg.SeverityHigh,
		Title:          "Quality Score Drop Detected",
		CurrentValue:   65,
		ThresholdValue: 75,
		Variance:       10,
	})
	require.NoError(t, err)
	require.Equal(t, dbpkg.StatusActive, alert.Status)

	// Resolve without acknowledging.
	require.NoError(t, Resolve(gdb, alert.ID))
	var row dbpkg.Alert
	require.NoError(t, gdb.First(&row, alert.ID).Error)
	require.Equal(t, dbpkg.StatusResolved, row.Status)
	require.NotNil(t, row.ResolvedAt)
	require.Nil(t, row.AcknowledgedAt)

	// Acknowledging a resolved alert pulls it back.
	require.NoError(t, Acknowledge(gdb, alert.ID))
	require.NoError(t, gdb.First(&row, alert.ID).Error)
	require.Equal(t, dbpkg.StatusAcknowledged, row.Status)
	require.NotNil(t, row.AcknowledgedAt)

	require.Error(t, Acknowledge(gdb, 9999))
}

func TestConfigureThresholdsReplacesWholesale(t *testing.T) {
	gdb := setupDB(t)
	v := seedVendorWithRecords(t, gdb, 90, 85)
	configure(t, gdb, v.ID, dbpkg.AlertPIICompleteness, 90)
	configure(t, gdb, v.ID, dbpkg.AlertQualityDrop, 75)

	inactive := false
	require.NoError(t, ConfigureThresholds(gdb, v.ID, []ConfigInput{
		{AlertType: dbpkg.AlertCoverageDrop, ThresholdValue: 85},
		{AlertType: dbpkg.AlertTurnaroundTime, ThresholdValue: 48, IsActive: &inactive},
	}))

	configs, err := Configurations(gdb, v.ID)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	require.Equal(t, dbpkg.AlertCoverageDrop, configs[0].AlertType)
	require.True(t, configs[0].IsActive)
	require.Equal(t, dbpkg.AlertTurnaroundTime, configs[1].AlertType)
	require.False(t, configs[1].IsActive)
}

func TestSummarize(t *testing.T) {
	gdb := setupDB(t)
	v := seedVendorWithRecords(t, gdb, 90, 85)

	first, err := Create(gdb, v.ID, Breach{
		Type: dbpkg.AlertPIICompleteness, Severity: dbpkg.SeverityHigh, Title: "PII Completeness Below Threshold",
	})
	require.NoError(t, err)
	_, err = Create(gdb, v.ID, Breach{
		Type: dbpkg.AlertCoverageDrop, Severity: dbpkg.SeverityMedium, Title: "Coverage Drop Detected",
	})
	require.NoError(t, err)
	require.NoError(t, Resolve(gdb, first.ID))

	summary, err := Summarize(gdb, 30)
	require.NoError(t, err)
	require.Equal(t, int64(2), summary.TotalAlerts)
	require.Equal(t, int64(1), summary.ResolvedAlerts)
	require.Equal(t, 50.0, summary.ResolutionRate)
	require.Equal(t, int64(1), summary.BySeverity["high"])
	require.Equal(t, int64(1), summary.BySeverity["medium"])
	require.Equal(t, int64(1), summary.ByType["pii_completeness"])
	require.Len(t, summary.ByVendor, 1)
	require.Equal(t, "TestVendor", summary.ByVendor[0].VendorName)
	require.Equal(t, int64(2), summary.ByVendor[0].AlertCount)
}

func TestRecentFiltersAndOrders(t *testing.T) {
	gdb := setupDB(t)
	v := seedVendorWithRecords(t, gdb, 90, 85)

	other := dbpkg.Vendor{Name: "OtherVendor", CostPerRecord: 5, IsActive: true}
	require.NoError(t, gdb.Create(&other).Error)

	_, err := Create(gdb, v.ID, Breach{Type: dbpkg.AlertQualityDrop, Severity: dbpkg.SeverityHigh, Title: "first"})
	require.NoError(t, err)
	_, err = Create(gdb, other.ID, Breach{Type: dbpkg.AlertCoverageDrop, Severity: dbpkg.SeverityMedium, Title: "second"})
	require.NoError(t, err)

	all, err := Recent(gdb, 50, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	mine, err := Recent(gdb, 50, v.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "TestVendor", mine[0].VendorName)
	require.Equal(t, "first", mine[0].Title)
}
