package db

import (
	"time"
)

// Vendor is a background-check data provider being scored. The
// quality_score column caches the last composite score computed by the
// snapshot worker; the authoritative value is always derived from records.
type Vendor struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`

	Name        string `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	// CostPerRecord is the contracted price per delivered record.
	CostPerRecord float64 `gorm:"not null" json:"cost_per_record"`

	// QualityScore is the cached last-computed composite score (0-100).
	QualityScore float64 `json:"quality_score"`

	// CoveragePercentage is the vendor's claimed footprint across the
	// target jurisdiction set (0-100).
	CoveragePercentage float64 `json:"coverage_percentage"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}

// Jurisdiction is a court system a vendor may deliver records from.
type Jurisdiction struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name     string `gorm:"uniqueIndex;size:128;not null" json:"name"`
	State    string `gorm:"size:32" json:"state"`
	County   string `gorm:"size:64" json:"county"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// VendorCoverage is a vendor's claimed/measured footprint in one
// jurisdiction. Coverage and turnaround here are reported figures and are
// not recomputed from record data.
type VendorCoverage struct {
	ID uint `gorm:"primaryKey"`

	VendorID       uint `gorm:"index;not null"`
	JurisdictionID uint `gorm:"index;not null"`

	CoveragePercentage float64
	AvgTurnaroundHours float64

	Jurisdiction Jurisdiction `gorm:"foreignKey:JurisdictionID"`
}

// VendorMetrics is a point-in-time snapshot of the four sub-metrics plus
// the composite score. Rows are append-only and back the trend history.
type VendorMetrics struct {
	ID uint `gorm:"primaryKey"`

	VendorID uint `gorm:"index;not null"`

	PIICompleteness     float64
	DispositionAccuracy float64
	AvgFreshnessDays    float64
	GeographicCoverage  float64
	CalculatedScore     float64

	RecordedAt time.Time `gorm:"index"`
}

// SchemaChange is an audit record of a vendor's reported data-format
// change. Informational only; the scoring engine never reads it.
type SchemaChange struct {
	ID uint `gorm:"primaryKey"`

	VendorID uint `gorm:"index;not null"`

	ChangeDescription string `gorm:"type:text"`
	FieldAffected     string `gorm:"size:64"`
	OldValue          string `gorm:"size:128"`
	NewValue          string `gorm:"size:128"`
	RecordsAffected   int

	ChangeDate time.Time `gorm:"index"`

	Vendor Vendor `gorm:"foreignKey:VendorID"`
}
