package db

import (
	"time"
)

// PIIStatus classifies how much personally identifying information a
// record carries.
type PIIStatus string

const (
	PIIComplete   PIIStatus = "complete"
	PIIIncomplete PIIStatus = "incomplete"
	PIIMissing    PIIStatus = "missing"
)

// DispositionType is the case outcome classification as delivered by the
// vendor.
type DispositionType string

const (
	DispositionFelony      DispositionType = "felony"
	DispositionMisdemeanor DispositionType = "misdemeanor"
	DispositionDismissed   DispositionType = "dismissed"
	DispositionPending     DispositionType = "pending"
)

// DerivePIIStatus maps the three presence flags onto a PIIStatus:
// complete iff all three are set, incomplete when at least one (but not
// all) is set, missing otherwise. The any-but-not-all boundary for
// "incomplete" is contractual; do not tighten it to a majority rule.
func DerivePIIStatus(hasDOB, hasSSN, hasFullName bool) PIIStatus {
	switch {
	case hasDOB && hasSSN && hasFullName:
		return PIIComplete
	case hasDOB || hasSSN || hasFullName:
		return PIIIncomplete
	default:
		return PIIMissing
	}
}

// CriminalRecord is a single per-case delivery from a vendor, with the
// quality flags the scoring engine reduces over.
type CriminalRecord struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time
	UpdatedAt time.Time

	VendorID       uint `gorm:"index;not null"`
	JurisdictionID uint `gorm:"index;not null"`

	CaseNumber    string `gorm:"index;size:64"`
	DefendantName string `gorm:"size:128"`

	DispositionType DispositionType `gorm:"size:16"`
	DispositionDate *time.Time
	FilingDate      *time.Time

	// CourtFilingDate anchors the freshness measurement.
	CourtFilingDate *time.Time

	PIIStatus   PIIStatus `gorm:"size:16;index"`
	HasDOB      bool
	HasSSN      bool
	HasFullName bool

	// DispositionVerified marks records whose felony/misdemeanor
	// classification has been independently checked.
	DispositionVerified bool

	VendorDeliveryDate *time.Time `gorm:"index"`

	// TurnaroundHours is delivery minus court filing, in hours.
	TurnaroundHours float64

	// FreshnessDays is delivery minus court filing, in whole days.
	FreshnessDays float64
}
