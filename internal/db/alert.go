package db

import (
	"time"

	"gorm.io/datatypes"
)

// AlertType identifies which metric an alert or alert configuration
// watches. Evaluation per type lives in the alerts package.
type AlertType string

const (
	AlertPIICompleteness     AlertType = "pii_completeness"
	AlertDispositionAccuracy AlertType = "disposition_accuracy"
	AlertTurnaroundTime      AlertType = "turnaround_time"
	AlertCoverageDrop        AlertType = "coverage_drop"
	AlertQualityDrop         AlertType = "quality_drop"
)

// AlertTypes lists every known alert type in a stable order.
func AlertTypes() []AlertType {
	return []AlertType{
		AlertPIICompleteness,
		AlertDispositionAccuracy,
		AlertTurnaroundTime,
		AlertCoverageDrop,
		AlertQualityDrop,
	}
}

type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

func AlertSeverities() []AlertSeverity {
	return []AlertSeverity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}

type AlertStatus string

const (
	StatusActive       AlertStatus = "active"
	StatusAcknowledged AlertStatus = "acknowledged"
	StatusResolved     AlertStatus = "resolved"
)

func AlertStatuses() []AlertStatus {
	return []AlertStatus{StatusActive, StatusAcknowledged, StatusResolved}
}

// Alert is a materialized threshold breach for a vendor. Lifecycle runs
// active -> acknowledged -> resolved; each transition stamps its
// timestamp. Transitions are deliberately unguarded: acknowledging twice
// overwrites the timestamp and an alert may be resolved without ever
// being acknowledged.
type Alert struct {
	ID uint `gorm:"primaryKey"`

	VendorID uint `gorm:"index;not null"`

	AlertType AlertType     `gorm:"size:32;index"`
	Severity  AlertSeverity `gorm:"size:16"`
	Status    AlertStatus   `gorm:"size:16;default:active"`

	Title       string `gorm:"size:128"`
	Description string `gorm:"type:text"`

	CurrentValue       float64
	ThresholdValue     float64
	VariancePercentage float64

	// Details holds arbitrary evaluation context (window sizes, record
	// counts) without schema changes.
	Details datatypes.JSONMap `gorm:"type:json"`

	TriggeredAt    time.Time `gorm:"index"`
	AcknowledgedAt *time.Time
	ResolvedAt     *time.Time

	Vendor Vendor `gorm:"foreignKey:VendorID"`
}

// AlertConfiguration is a vendor-scoped threshold watch. Configurations
// are replaced wholesale per vendor (delete then reinsert).
type AlertConfiguration struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time
	UpdatedAt time.Time

	VendorID       uint      `gorm:"index;not null"`
	AlertType      AlertType `gorm:"size:32;not null"`
	ThresholdValue float64   `gorm:"not null"`
	IsActive       bool      `gorm:"default:true"`
}
