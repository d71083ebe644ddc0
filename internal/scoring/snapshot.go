package scoring

import (
	"log"
	"time"

	"gorm.io/gorm"

	dbpkg "vendorscore/internal/db"
)

// RunSnapshotOnce recomputes every active vendor's score, appends a
// VendorMetrics row and refreshes the cached quality_score on the vendor.
// Snapshots are append-only; history endpoints read them back.
func RunSnapshotOnce(gdb *gorm.DB) error {
	var vendors []dbpkg.Vendor
	if err := gdb.Where("is_active = ?", true).Order("id").Find(&vendors).Error; err != nil {
		return err
	}

	now := time.Now()
	for _, v := range vendors {
		score, err := ScoreVendor(gdb, v.ID)
		if err != nil {
			return err
		}

		snapshot := dbpkg.VendorMetrics{
			VendorID:            v.ID,
			PIICompleteness:     score.PIICompleteness,
			DispositionAccuracy: score.DispositionAccuracy,
			AvgFreshnessDays:    score.AvgFreshnessDays,
			GeographicCoverage:  score.GeographicCoverage,
			CalculatedScore:     score.QualityScore,
			RecordedAt:          now,
		}
		if err := gdb.Create(&snapshot).Error; err != nil {
			return err
		}

		if err := gdb.Model(&dbpkg.Vendor{}).Where("id = ?", v.ID).
			Update("quality_score", score.QualityScore).Error; err != nil {
			return err
		}
	}
	return nil
}

// StartSnapshotWorker launches a background goroutine that snapshots
// vendor scores once at startup and then on the given interval.
func StartSnapshotWorker(gdb *gorm.DB, interval time.Duration) {
	go func() {
		if err := RunSnapshotOnce(gdb); err != nil {
			log.Printf("score snapshot error (startup): %v", err)
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			if err := RunSnapshotOnce(gdb); err != nil {
				log.Printf("score snapshot error: %v", err)
			}
		}
	}()
}
