package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"vendorscore/internal/analysis"
	dbpkg "vendorscore/internal/db"
	"vendorscore/internal/scoring"
)

type compareRequest struct {
	VendorIDs []uint                  `json:"vendor_ids"`
	Filters   analysis.CompareFilters `json:"filters"`
}

// Compare serves a side-by-side comparison of 2-10 vendors.
func Compare(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var req compareRequest
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}
		if len(req.VendorIDs) < 2 {
			errResponse(ctx, fasthttp.StatusBadRequest, "At least 2 vendors required for comparison")
			return
		}
		if len(req.VendorIDs) > 10 {
			errResponse(ctx, fasthttp.StatusBadRequest, "Maximum 10 vendors allowed for comparison")
			return
		}
		seen := make(map[uint]bool, len(req.VendorIDs))
		for _, id := range req.VendorIDs {
			if seen[id] {
				errResponse(ctx, fasthttp.StatusBadRequest, "Duplicate vendor ids are not allowed")
				return
			}
			seen[id] = true
		}

		result, err := analysis.CompareVendors(db, req.VendorIDs, req.Filters)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "comparison failed")
			return
		}
		jsonResponse(ctx, result)
	}
}

type whatIfRequest struct {
	CurrentVendorID uint `json:"current_vendor_id"`
	NewVendorID     uint `json:"new_vendor_id"`
	AnnualVolume    int  `json:"annual_volume"`
}

// WhatIf serves the switching scenario projection.
func WhatIf(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var req whatIfRequest
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.CurrentVendorID == req.NewVendorID {
			errResponse(ctx, fasthttp.StatusBadRequest, "Current and new vendor must be different")
			return
		}
		if req.AnnualVolume <= 0 {
			errResponse(ctx, fasthttp.StatusBadRequest, "Annual volume must be greater than 0")
			return
		}

		result, err := analysis.WhatIf(db, req.CurrentVendorID, req.NewVendorID, req.AnnualVolume)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errResponse(ctx, fasthttp.StatusNotFound, "Vendor not found")
				return
			}
			errResponse(ctx, fasthttp.StatusInternalServerError, "analysis failed")
			return
		}
		jsonResponse(ctx, result)
	}
}

type tcoRequest struct {
	VendorID     uint `json:"vendor_id"`
	AnnualVolume int  `json:"annual_volume"`
	Years        int  `json:"years"`
}

// TCO serves the multi-year total cost of ownership projection. Years
// defaults to 3.
func TCO(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		req := tcoRequest{Years: 3}
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.AnnualVolume <= 0 {
			errResponse(ctx, fasthttp.StatusBadRequest, "Annual volume must be greater than 0")
			return
		}
		if req.Years <= 0 || req.Years > 10 {
			errResponse(ctx, fasthttp.StatusBadRequest, "Years must be between 1 and 10")
			return
		}

		result, err := analysis.TotalCostOfOwnership(db, req.VendorID, req.AnnualVolume, req.Years)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errResponse(ctx, fasthttp.StatusNotFound, "Vendor not found")
				return
			}
			errResponse(ctx, fasthttp.StatusInternalServerError, "analysis failed")
			return
		}
		jsonResponse(ctx, result)
	}
}

// Jurisdictions lists active jurisdictions.
func Jurisdictions(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var jurisdictions []dbpkg.Jurisdiction
		if err := db.Where("is_active = ?", true).Order("id").Find(&jurisdictions).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}
		jsonResponse(ctx, jurisdictions)
	}
}

// MarketBenchmarks serves distribution statistics over the active vendor
// population.
func MarketBenchmarks(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		result, err := analysis.MarketBenchmarks(db)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errResponse(ctx, fasthttp.StatusNotFound, "No active vendors found")
				return
			}
			errResponse(ctx, fasthttp.StatusInternalServerError, "analysis failed")
			return
		}
		jsonResponse(ctx, result)
	}
}

// CoverageHeatmap serves the vendor x jurisdiction coverage grid for
// visualization. Pairs with no coverage row come back as 0.
func CoverageHeatmap(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var vendors []dbpkg.Vendor
		if err := db.Where("is_active = ?", true).Order("id").Find(&vendors).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}
		var jurisdictions []dbpkg.Jurisdiction
		if err := db.Where("is_active = ?", true).Order("id").Find(&jurisdictions).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		cells := make([]map[string]any, 0, len(vendors)*len(jurisdictions))
		for _, v := range vendors {
			var coverage []dbpkg.VendorCoverage
			if err := db.Where("vendor_id = ?", v.ID).Find(&coverage).Error; err != nil {
				errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
				return
			}
			byJurisdiction := make(map[uint]float64, len(coverage))
			for _, c := range coverage {
				byJurisdiction[c.JurisdictionID] = c.CoveragePercentage
			}

			for _, j := range jurisdictions {
				pct := byJurisdiction[j.ID]
				cells = append(cells, map[string]any{
					"vendor_id":           v.ID,
					"vendor_name":         v.Name,
					"jurisdiction_id":     j.ID,
					"jurisdiction_name":   j.Name,
					"state":               j.State,
					"coverage_percentage": pct,
					"color_intensity":     pct / 100,
				})
			}
		}

		vendorList := make([]map[string]any, 0, len(vendors))
		for _, v := range vendors {
			vendorList = append(vendorList, map[string]any{"id": v.ID, "name": v.Name})
		}
		jurisdictionList := make([]map[string]any, 0, len(jurisdictions))
		for _, j := range jurisdictions {
			jurisdictionList = append(jurisdictionList, map[string]any{"id": j.ID, "name": j.Name, "state": j.State})
		}

		jsonResponse(ctx, map[string]any{
			"heatmap_data":  cells,
			"vendors":       vendorList,
			"jurisdictions": jurisdictionList,
		})
	}
}

// SchemaChanges lists schema changes across vendors within the window.
func SchemaChanges(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		vendorID := queryUint(ctx, "vendor_id")
		days, ok := queryInt(ctx, "days", 90, 1, 365)
		if !ok {
			return
		}

		changes, err := analysis.ChangeLog(db, vendorID, days)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		var filterVendor any
		if vendorID != 0 {
			filterVendor = vendorID
		}
		jsonResponse(ctx, map[string]any{
			"filters": map[string]any{
				"vendor_id": filterVendor,
				"days":      days,
			},
			"changes": changes,
		})
	}
}

// VendorSchemaChanges lists one vendor's schema changes.
func VendorSchemaChanges(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx, "id")
		if !ok {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid vendor id")
			return
		}
		days, ok := queryInt(ctx, "days", 90, 1, 365)
		if !ok {
			return
		}

		changes, err := analysis.ChangeLog(db, id, days)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}
		jsonResponse(ctx, map[string]any{
			"vendor_id":   id,
			"period_days": days,
			"changes":     changes,
		})
	}
}

// ImpactAssessment serves the detailed blast radius of one schema change.
func ImpactAssessment(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx, "id")
		if !ok {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid change id")
			return
		}

		result, err := analysis.ImpactAssessment(db, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errResponse(ctx, fasthttp.StatusNotFound, "Schema change not found")
				return
			}
			errResponse(ctx, fasthttp.StatusInternalServerError, "analysis failed")
			return
		}
		jsonResponse(ctx, result)
	}
}

// QualityTrendsHandler serves the per-date quality series for one vendor.
func QualityTrendsHandler(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx, "id")
		if !ok {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid vendor id")
			return
		}
		days, ok := queryInt(ctx, "days", 90, 1, 365)
		if !ok {
			return
		}

		trends, err := scoring.QualityTrends(db, id, days)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}
		jsonResponse(ctx, map[string]any{
			"vendor_id":   id,
			"period_days": days,
			"trends":      trends,
		})
	}
}

// PerformanceMetricsHandler serves consolidated performance rows.
// vendor_ids may repeat to select specific vendors.
func PerformanceMetricsHandler(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var ids []uint
		for _, raw := range ctx.QueryArgs().PeekMulti("vendor_ids") {
			n, err := strconv.ParseUint(string(raw), 10, 32)
			if err == nil && n > 0 {
				ids = append(ids, uint(n))
			}
		}

		result, err := analysis.PerformanceMetrics(db, ids)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "analysis failed")
			return
		}
		jsonResponse(ctx, result)
	}
}

// RecommendationsHandler ranks vendors against the caller's priorities.
func RecommendationsHandler(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		annualVolume, ok := queryInt(ctx, "annual_volume", 10000, 100, noMax)
		if !ok {
			return
		}

		var factors []string
		for _, raw := range ctx.QueryArgs().PeekMulti("priority_factors") {
			if f := string(raw); f != "" {
				factors = append(factors, f)
			}
		}

		result, err := analysis.Recommendations(db, annualVolume, factors)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "analysis failed")
			return
		}
		jsonResponse(ctx, result)
	}
}
