package alerts

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	dbpkg "vendorscore/internal/db"
	"vendorscore/internal/scoring"
)

// Create persists a breach as a materialized Alert in active state. The
// evaluation context snapshot goes into Details so the dashboard can show
// what the vendor looked like at trigger time.
func Create(gdb *gorm.DB, vendorID uint, b Breach) (dbpkg.Alert, error) {
	alert := dbpkg.Alert{
		VendorID:           vendorID,
		AlertType:          b.Type,
		Severity:           b.Severity,
		Status:             dbpkg.StatusActive,
		Title:              b.Title,
		Description:        b.Description,
		CurrentValue:       b.CurrentValue,
		ThresholdValue:     b.ThresholdValue,
		VariancePercentage: b.Variance,
		Details: datatypes.JSONMap{
			"current_value":   b.CurrentValue,
			"threshold_value": b.ThresholdValue,
			"variance":        b.Variance,
		},
		TriggeredAt: time.Now(),
	}
	if err := gdb.Create(&alert).Error; err != nil {
		return dbpkg.Alert{}, err
	}
	return alert, nil
}

// Acknowledge moves an alert to acknowledged and stamps the time.
// Deliberately unguarded: re-acknowledging overwrites the timestamp, and
// an already-resolved alert can be pulled back to acknowledged.
func Acknowledge(gdb *gorm.DB, alertID uint) error {
	return transition(gdb, alertID, dbpkg.StatusAcknowledged, "acknowledged_at")
}

// Resolve moves an alert to resolved and stamps the time. An alert may be
// resolved without ever having been acknowledged.
func Resolve(gdb *gorm.DB, alertID uint) error {
	return transition(gdb, alertID, dbpkg.StatusResolved, "resolved_at")
}

func transition(gdb *gorm.DB, alertID uint, status dbpkg.AlertStatus, stampColumn string) error {
	var alert dbpkg.Alert
	if err := gdb.First(&alert, alertID).Error; err != nil {
		return err
	}
	return gdb.Model(&alert).Updates(map[string]interface{}{
		"status":    status,
		stampColumn: time.Now(),
	}).Error
}

// View is the externally visible shape of a persisted alert.
type View struct {
	ID                 uint    `json:"id"`
	VendorID           uint    `json:"vendor_id"`
	VendorName         string  `json:"vendor_name"`
	AlertType          string  `json:"alert_type"`
	Severity           string  `json:"severity"`
	Status             string  `json:"status"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	CurrentValue       float64 `json:"current_value"`
	ThresholdValue     float64 `json:"threshold_value"`
	VariancePercentage float64 `json:"variance_percentage"`
	TriggeredAt        string  `json:"triggered_at"`
	AcknowledgedAt     *string `json:"acknowledged_at"`
	ResolvedAt         *string `json:"resolved_at"`
}

// Recent lists alerts newest first. vendorID 0 means all vendors.
func Recent(gdb *gorm.DB, limit int, vendorID uint) ([]View, error) {
	q := gdb.Preload("Vendor").Order("triggered_at DESC").Limit(limit)
	if vendorID != 0 {
		q = q.Where("vendor_id = ?", vendorID)
	}

	var rows []dbpkg.Alert
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]View, 0, len(rows))
	for _, a := range rows {
		views = append(views, View{
			ID:                 a.ID,
			VendorID:           a.VendorID,
			VendorName:         a.Vendor.Name,
			AlertType:          string(a.AlertType),
			Severity:           string(a.Severity),
			Status:             string(a.Status),
			Title:              a.Title,
			Description:        a.Description,
			CurrentValue:       a.CurrentValue,
			ThresholdValue:     a.ThresholdValue,
			VariancePercentage: a.VariancePercentage,
			TriggeredAt:        a.TriggeredAt.UTC().Format(time.RFC3339),
			AcknowledgedAt:     formatOptional(a.AcknowledgedAt),
			ResolvedAt:         formatOptional(a.ResolvedAt),
		})
	}
	return views, nil
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// ConfigInput is one requested threshold watch.
type ConfigInput struct {
	AlertType      dbpkg.AlertType `json:"alert_type"`
	ThresholdValue float64         `json:"threshold_value"`
	IsActive       *bool           `json:"is_active"`
}

// ConfigureThresholds replaces a vendor's alert configurations wholesale:
// existing rows are deleted and the new set inserted, in one transaction.
func ConfigureThresholds(gdb *gorm.DB, vendorID uint, configs []ConfigInput) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vendor_id = ?", vendorID).
			Delete(&dbpkg.AlertConfiguration{}).Error; err != nil {
			return err
		}
		for _, c := range configs {
			active := true
			if c.IsActive != nil {
				active = *c.IsActive
			}
			row := dbpkg.AlertConfiguration{
				VendorID:       vendorID,
				AlertType:      c.AlertType,
				ThresholdValue: c.ThresholdValue,
				IsActive:       active,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Configurations returns a vendor's configured threshold watches.
func Configurations(gdb *gorm.DB, vendorID uint) ([]dbpkg.AlertConfiguration, error) {
	var configs []dbpkg.AlertConfiguration
	if err := gdb.Where("vendor_id = ?", vendorID).Order("id").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// Summary is alert volume statistics over a trailing window.
type Summary struct {
	PeriodDays     int              `json:"period_days"`
	TotalAlerts    int64            `json:"total_alerts"`
	ResolvedAlerts int64            `json:"resolved_alerts"`
	ResolutionRate float64          `json:"resolution_rate"`
	BySeverity     map[string]int64 `json:"by_severity"`
	ByType         map[string]int64 `json:"by_type"`
	ByVendor       []VendorCount    `json:"by_vendor"`
}

type VendorCount struct {
	VendorName string `json:"vendor_name"`
	AlertCount int64  `json:"alert_count"`
}

// Summarize aggregates alert counts by severity, type and vendor over the
// trailing window, plus the resolution rate as a 0-100 percentage.
func Summarize(gdb *gorm.DB, days int) (Summary, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	s := Summary{
		PeriodDays: days,
		BySeverity: make(map[string]int64),
		ByType:     make(map[string]int64),
		ByVendor:   make([]VendorCount, 0),
	}

	type groupCount struct {
		Key   string
		Count int64
	}

	var bySeverity []groupCount
	if err := gdb.Model(&dbpkg.Alert{}).
		Select("severity as key, count(id) as count").
		Where("triggered_at >= ?", cutoff).
		Group("severity").
		Scan(&bySeverity).Error; err != nil {
		return Summary{}, err
	}
	for _, g := range bySeverity {
		s.BySeverity[g.Key] = g.Count
		s.TotalAlerts += g.Count
	}

	var byType []groupCount
	if err := gdb.Model(&dbpkg.Alert{}).
		Select("alert_type as key, count(id) as count").
		Where("triggered_at >= ?", cutoff).
		Group("alert_type").
		Scan(&byType).Error; err != nil {
		return Summary{}, err
	}
	for _, g := range byType {
		s.ByType[g.Key] = g.Count
	}

	var byVendor []struct {
		Name  string
		Count int64
	}
	if err := gdb.Model(&dbpkg.Alert{}).
		Select("vendors.name as name, count(alerts.id) as count").
		Joins("JOIN vendors ON vendors.id = alerts.vendor_id").
		Where("alerts.triggered_at >= ?", cutoff).
		Group("vendors.id, vendors.name").
		Order("count DESC").
		Scan(&byVendor).Error; err != nil {
		return Summary{}, err
	}
	for _, g := range byVendor {
		s.ByVendor = append(s.ByVendor, VendorCount{VendorName: g.Name, AlertCount: g.Count})
	}

	if err := gdb.Model(&dbpkg.Alert{}).
		Where("triggered_at >= ? AND status = ?", cutoff, dbpkg.StatusResolved).
		Count(&s.ResolvedAlerts).Error; err != nil {
		return Summary{}, err
	}

	if s.TotalAlerts > 0 {
		s.ResolutionRate = scoring.Round2(float64(s.ResolvedAlerts) / float64(s.TotalAlerts) * 100)
	}
	return s, nil
}
