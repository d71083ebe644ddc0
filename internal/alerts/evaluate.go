// Package alerts evaluates vendor SLA thresholds and manages the alert
// lifecycle. Each alert type has its own evaluator variant: where the
// current value comes from, which direction counts as a breach, and the
// severity a breach carries.
package alerts

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	dbpkg "vendorscore/internal/db"
	"vendorscore/internal/scoring"
)

// Breach is a synthesized threshold violation. It is not persisted unless
// explicitly created via Create.
type Breach struct {
	Type           dbpkg.AlertType     `json:"type"`
	Severity       dbpkg.AlertSeverity `json:"severity"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	CurrentValue   float64             `json:"current_value"`
	ThresholdValue float64             `json:"threshold_value"`
	Variance       float64             `json:"variance"`
}

// evalContext carries everything an evaluator may need, fetched once per
// SLA check.
type evalContext struct {
	vendor dbpkg.Vendor
	score  scoring.VendorScore

	recentTurnaround    float64
	hasRecentTurnaround bool
}

// evaluator is one alert-type variant: how to read the current value and
// whether it breaches the threshold. current returns ok=false when there
// is no data to judge (absence of data is not a breach).
type evaluator struct {
	severity dbpkg.AlertSeverity
	title    string
	current  func(evalContext) (float64, bool)
	breached func(current, threshold float64) bool
	describe func(current, threshold float64) string
}

var evaluators = map[dbpkg.AlertType]evaluator{
	dbpkg.AlertPIICompleteness: {
		severity: dbpkg.SeverityHigh,
		title:    "PII Completeness Below Threshold",
		current:  func(c evalContext) (float64, bool) { return c.score.PIICompleteness, true },
		breached: func(cur, thr float64) bool { return cur < thr },
		describe: func(cur, thr float64) string {
			return fmt.Sprintf("PII completeness (%.1f%%) is below threshold (%g%%)", cur, thr)
		},
	},
	dbpkg.AlertDispositionAccuracy: {
		severity: dbpkg.SeverityHigh,
		title:    "Disposition Accuracy Below Threshold",
		current:  func(c evalContext) (float64, bool) { return c.score.DispositionAccuracy, true },
		breached: func(cur, thr float64) bool { return cur < thr },
		describe: func(cur, thr float64) string {
			return fmt.Sprintf("Disposition accuracy (%.1f%%) is below threshold (%g%%)", cur, thr)
		},
	},
	dbpkg.AlertTurnaroundTime: {
		severity: dbpkg.SeverityMedium,
		title:    "Turnaround Time Above Threshold",
		current:  func(c evalContext) (float64, bool) { return c.recentTurnaround, c.hasRecentTurnaround },
		breached: func(cur, thr float64) bool { return cur > thr },
		describe: func(cur, thr float64) string {
			return fmt.Sprintf("Average turnaround (%.1f hours) exceeds threshold (%g hours)", cur, thr)
		},
	},
	dbpkg.AlertCoverageDrop: {
		severity: dbpkg.SeverityMedium,
		title:    "Coverage Drop Detected",
		current:  func(c evalContext) (float64, bool) { return c.vendor.CoveragePercentage, true },
		breached: func(cur, thr float64) bool { return cur < thr },
		describe: func(cur, thr float64) string {
			return fmt.Sprintf("Coverage (%.1f%%) is below threshold (%g%%)", cur, thr)
		},
	},
	dbpkg.AlertQualityDrop: {
		severity: dbpkg.SeverityHigh,
		title:    "Quality Score Drop Detected",
		current:  func(c evalContext) (float64, bool) { return c.vendor.QualityScore, true },
		breached: func(cur, thr float64) bool { return cur < thr },
		describe: func(cur, thr float64) string {
			return fmt.Sprintf("Quality score (%.1f) is below threshold (%g)", cur, thr)
		},
	},
}

// turnaroundWindowDays is the trailing window for the turnaround check.
const turnaroundWindowDays = 7

// CheckSLA evaluates every active alert configuration of a vendor against
// freshly computed values and returns the breaches. Unknown vendor ids
// surface gorm.ErrRecordNotFound.
func CheckSLA(gdb *gorm.DB, vendorID uint) ([]Breach, error) {
	var vendor dbpkg.Vendor
	if err := gdb.First(&vendor, vendorID).Error; err != nil {
		return nil, err
	}

	score, err := scoring.ScoreVendor(gdb, vendorID)
	if err != nil {
		return nil, err
	}

	ctx := evalContext{vendor: vendor, score: score}

	cutoff := time.Now().AddDate(0, 0, -turnaroundWindowDays)
	var recent []dbpkg.CriminalRecord
	if err := gdb.Where("vendor_id = ? AND vendor_delivery_date >= ?", vendorID, cutoff).
		Select("turnaround_hours").
		Find(&recent).Error; err != nil {
		return nil, err
	}
	if len(recent) > 0 {
		var sum float64
		for _, r := range recent {
			sum += r.TurnaroundHours
		}
		ctx.recentTurnaround = sum / float64(len(recent))
		ctx.hasRecentTurnaround = true
	}

	var configs []dbpkg.AlertConfiguration
	if err := gdb.Where("vendor_id = ? AND is_active = ?", vendorID, true).
		Order("id").
		Find(&configs).Error; err != nil {
		return nil, err
	}

	breaches := make([]Breach, 0)
	for _, cfg := range configs {
		ev, ok := evaluators[cfg.AlertType]
		if !ok {
			continue
		}
		current, ok := ev.current(ctx)
		if !ok || !ev.breached(current, cfg.ThresholdValue) {
			continue
		}
		breaches = append(breaches, Breach{
			Type:           cfg.AlertType,
			Severity:       ev.severity,
			Title:          ev.title,
			Description:    ev.describe(current, cfg.ThresholdValue),
			CurrentValue:   current,
			ThresholdValue: cfg.ThresholdValue,
			Variance:       math.Abs(cfg.ThresholdValue - current),
		})
	}
	return breaches, nil
}
