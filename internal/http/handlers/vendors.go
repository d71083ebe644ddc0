package handlers

import (
	"errors"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "vendorscore/internal/db"
	"vendorscore/internal/scoring"
)

// ListVendors serves the vendor roster with paging. active_only defaults
// to true.
func ListVendors(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		skip, ok := queryInt(ctx, "skip", 0, 0, noMax)
		if !ok {
			return
		}
		limit, ok := queryInt(ctx, "limit", 100, 1, 1000)
		if !ok {
			return
		}
		activeOnly := queryBool(ctx, "active_only", true)

		q := db.Order("id")
		if activeOnly {
			q = q.Where("is_active = ?", true)
		}

		var vendors []dbpkg.Vendor
		if err := q.Offset(skip).Limit(limit).Find(&vendors).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}
		jsonResponse(ctx, vendors)
	}
}

// VendorsSummary serves roster-level aggregates from the cached scores.
func VendorsSummary(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var vendors []dbpkg.Vendor
		if err := db.Where("is_active = ?", true).Order("id").Find(&vendors).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		var qualitySum, coverageSum float64
		short := make([]map[string]any, 0, len(vendors))
		for _, v := range vendors {
			qualitySum += v.QualityScore
			coverageSum += v.CoveragePercentage
			short = append(short, map[string]any{
				"id":                  v.ID,
				"name":                v.Name,
				"quality_score":       v.QualityScore,
				"coverage_percentage": v.CoveragePercentage,
				"cost_per_record":     v.CostPerRecord,
			})
		}

		summary := map[string]any{
			"total_vendors":     len(vendors),
			"avg_quality_score": 0.0,
			"avg_coverage":      0.0,
			"vendors":           short,
		}
		if len(vendors) > 0 {
			n := float64(len(vendors))
			summary["avg_quality_score"] = scoring.Round2(qualitySum / n)
			summary["avg_coverage"] = scoring.Round2(coverageSum / n)
		}
		jsonResponse(ctx, summary)
	}
}

// VendorDetail serves one vendor with live metrics, per-jurisdiction
// performance and the quality trend series.
func VendorDetail(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx, "id")
		if !ok {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid vendor id")
			return
		}

		var vendor dbpkg.Vendor
		if err := db.First(&vendor, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errResponse(ctx, fasthttp.StatusNotFound, "Vendor not found")
				return
			}
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		score, err := scoring.ScoreVendor(db, id)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to score vendor")
			return
		}
		observeScoreComputation()

		perf, err := scoring.JurisdictionPerformance(db, id)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load jurisdiction performance")
			return
		}

		trends, err := scoring.QualityTrends(db, id, 30)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load quality trends")
			return
		}

		jsonResponse(ctx, map[string]any{
			"vendor":                   vendor,
			"metrics":                  score,
			"jurisdiction_performance": perf,
			"quality_trends":           trends,
		})
	}
}

// VendorScore serves just the live composite score and sub-metrics.
func VendorScore(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx, "id")
		if !ok {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid vendor id")
			return
		}

		var vendor dbpkg.Vendor
		if err := db.Limit(1).Find(&vendor, id).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}
		if vendor.ID == 0 {
			errResponse(ctx, fasthttp.StatusNotFound, "Vendor not found")
			return
		}

		score, err := scoring.ScoreVendor(db, id)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to score vendor")
			return
		}
		observeScoreComputation()
		jsonResponse(ctx, score)
	}
}

// VendorHistory serves archived metric snapshots for the trailing window.
func VendorHistory(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx, "id")
		if !ok {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid vendor id")
			return
		}
		days, ok := queryInt(ctx, "days", 30, 1, 365)
		if !ok {
			return
		}

		var vendor dbpkg.Vendor
		if err := db.Limit(1).Find(&vendor, id).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}
		if vendor.ID == 0 {
			errResponse(ctx, fasthttp.StatusNotFound, "Vendor not found")
			return
		}

		history, err := scoring.MetricsHistory(db, id, days)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load history")
			return
		}

		jsonResponse(ctx, map[string]any{
			"vendor_id":   id,
			"vendor_name": vendor.Name,
			"period_days": days,
			"history":     history,
		})
	}
}

// VendorJurisdictions serves per-jurisdiction performance for one vendor.
func VendorJurisdictions(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx, "id")
		if !ok {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid vendor id")
			return
		}

		var vendor dbpkg.Vendor
		if err := db.Limit(1).Find(&vendor, id).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}
		if vendor.ID == 0 {
			errResponse(ctx, fasthttp.StatusNotFound, "Vendor not found")
			return
		}

		perf, err := scoring.JurisdictionPerformance(db, id)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load jurisdiction performance")
			return
		}

		jsonResponse(ctx, map[string]any{
			"vendor_id":     id,
			"vendor_name":   vendor.Name,
			"jurisdictions": perf,
		})
	}
}

// BenchmarkAll serves the population-wide vendor ranking.
func BenchmarkAll(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		result, err := scoring.BenchmarkVendors(db)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to benchmark vendors")
			return
		}
		jsonResponse(ctx, result)
	}
}
