package scoring

import (
	"gorm.io/gorm"

	dbpkg "vendorscore/internal/db"
)

// JurisdictionPerformanceRow is one jurisdiction's slice of a vendor's
// footprint. Coverage and turnaround come from the coverage row as
// reported; the two rate fields are computed locally over that
// jurisdiction's record subset.
type JurisdictionPerformanceRow struct {
	Jurisdiction            string  `json:"jurisdiction"`
	State                   string  `json:"state"`
	CoveragePercentage      float64 `json:"coverage_percentage"`
	AvgTurnaroundHours      float64 `json:"avg_turnaround_hours"`
	RecordCount             int     `json:"record_count"`
	PIICompletenessRate     float64 `json:"pii_completeness_rate"`
	DispositionAccuracyRate float64 `json:"disposition_accuracy_rate"`
}

// JurisdictionPerformance returns one row per jurisdiction the vendor has
// coverage configured in. Jurisdictions with zero matching records come
// back with RecordCount 0 and zero rates rather than being dropped.
func JurisdictionPerformance(gdb *gorm.DB, vendorID uint) ([]JurisdictionPerformanceRow, error) {
	var coverage []dbpkg.VendorCoverage
	if err := gdb.Preload("Jurisdiction").
		Where("vendor_id = ?", vendorID).
		Order("jurisdiction_id").
		Find(&coverage).Error; err != nil {
		return nil, err
	}

	var records []dbpkg.CriminalRecord
	if err := gdb.Where("vendor_id = ?", vendorID).
		Select("jurisdiction_id", "pii_status", "disposition_verified").
		Find(&records).Error; err != nil {
		return nil, err
	}

	type tally struct {
		total    int
		complete int
		verified int
	}
	byJurisdiction := make(map[uint]*tally)
	for _, r := range records {
		t := byJurisdiction[r.JurisdictionID]
		if t == nil {
			t = &tally{}
			byJurisdiction[r.JurisdictionID] = t
		}
		t.total++
		if r.PIIStatus == dbpkg.PIIComplete {
			t.complete++
		}
		if r.DispositionVerified {
			t.verified++
		}
	}

	rows := make([]JurisdictionPerformanceRow, 0, len(coverage))
	for _, c := range coverage {
		row := JurisdictionPerformanceRow{
			Jurisdiction:       c.Jurisdiction.Name,
			State:              c.Jurisdiction.State,
			CoveragePercentage: c.CoveragePercentage,
			AvgTurnaroundHours: c.AvgTurnaroundHours,
		}
		if t := byJurisdiction[c.JurisdictionID]; t != nil && t.total > 0 {
			row.RecordCount = t.total
			row.PIICompletenessRate = Round2(float64(t.complete) / float64(t.total) * 100)
			row.DispositionAccuracyRate = Round2(float64(t.verified) / float64(t.total) * 100)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
