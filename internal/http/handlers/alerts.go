package handlers

import (
	"encoding/json"
	"errors"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"vendorscore/internal/alerts"
	dbpkg "vendorscore/internal/db"
)

// ListAlerts serves recent alerts, newest first, with optional severity
// and status filters applied after the fetch.
func ListAlerts(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		limit, ok := queryInt(ctx, "limit", 50, 1, 1000)
		if !ok {
			return
		}
		vendorID := queryUint(ctx, "vendor_id")
		severity := string(ctx.QueryArgs().Peek("severity"))
		status := string(ctx.QueryArgs().Peek("status"))

		views, err := alerts.Recent(db, limit, vendorID)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		filtered := make([]alerts.View, 0, len(views))
		for _, v := range views {
			if severity != "" && v.Severity != severity {
				continue
			}
			if status != "" && v.Status != status {
				continue
			}
			filtered = append(filtered, v)
		}
		jsonResponse(ctx, filtered)
	}
}

// AlertSummary serves volume statistics over a trailing window.
func AlertSummary(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		days, ok := queryInt(ctx, "days", 30, 1, 365)
		if !ok {
			return
		}

		summary, err := alerts.Summarize(db, days)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}
		jsonResponse(ctx, summary)
	}
}

// VendorAlerts serves one vendor's recent alerts.
func VendorAlerts(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx, "id")
		if !ok {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid vendor id")
			return
		}
		limit, ok := queryInt(ctx, "limit", 50, 1, 1000)
		if !ok {
			return
		}

		views, err := alerts.Recent(db, limit, id)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}
		jsonResponse(ctx, map[string]any{
			"vendor_id": id,
			"alerts":    views,
		})
	}
}

// SLACheck evaluates a vendor's configured thresholds on the fly and
// reports breaches without persisting them.
func SLACheck(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx, "id")
		if !ok {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid vendor id")
			return
		}

		breaches, err := alerts.CheckSLA(db, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errResponse(ctx, fasthttp.StatusNotFound, "Vendor not found")
				return
			}
			errResponse(ctx, fasthttp.StatusInternalServerError, "sla check failed")
			return
		}
		for _, b := range breaches {
			observeBreach(string(b.Type))
		}

		jsonResponse(ctx, map[string]any{
			"vendor_id":      id,
			"sla_compliance": len(breaches) == 0,
			"alerts":         breaches,
		})
	}
}

type alertConfigRequest struct {
	VendorID       uint                 `json:"vendor_id"`
	Configurations []alerts.ConfigInput `json:"configurations"`
}

// ConfigureAlerts replaces a vendor's threshold watches wholesale.
func ConfigureAlerts(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var req alertConfigRequest
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.VendorID == 0 {
			errResponse(ctx, fasthttp.StatusBadRequest, "vendor_id is required")
			return
		}

		if err := alerts.ConfigureThresholds(db, req.VendorID, req.Configurations); err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "Failed to configure alert thresholds")
			return
		}
		jsonResponse(ctx, map[string]string{"message": "Alert thresholds configured successfully"})
	}
}

// AcknowledgeAlert stamps an alert acknowledged.
func AcknowledgeAlert(db *gorm.DB) fasthttp.RequestHandler {
	return alertTransition(db, alerts.Acknowledge, "Alert acknowledged successfully")
}

// ResolveAlert stamps an alert resolved.
func ResolveAlert(db *gorm.DB) fasthttp.RequestHandler {
	return alertTransition(db, alerts.Resolve, "Alert resolved successfully")
}

func alertTransition(db *gorm.DB, apply func(*gorm.DB, uint) error, message string) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx, "id")
		if !ok {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid alert id")
			return
		}
		if err := apply(db, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errResponse(ctx, fasthttp.StatusNotFound, "Alert not found")
				return
			}
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}
		jsonResponse(ctx, map[string]string{"message": message})
	}
}

// AlertConfigurations lists a vendor's threshold watches.
func AlertConfigurations(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx, "id")
		if !ok {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid vendor id")
			return
		}

		configs, err := alerts.Configurations(db, id)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		out := make([]map[string]any, 0, len(configs))
		for _, c := range configs {
			out = append(out, map[string]any{
				"id":              c.ID,
				"vendor_id":       c.VendorID,
				"alert_type":      c.AlertType,
				"threshold_value": c.ThresholdValue,
				"is_active":       c.IsActive,
				"created_at":      c.CreatedAt,
				"updated_at":      c.UpdatedAt,
			})
		}
		jsonResponse(ctx, out)
	}
}

// AlertTypesHandler enumerates the known alert vocabulary.
func AlertTypesHandler(ctx *fasthttp.RequestCtx) {
	jsonResponse(ctx, map[string]any{
		"alert_types":     dbpkg.AlertTypes(),
		"severity_levels": dbpkg.AlertSeverities(),
		"status_options":  dbpkg.AlertStatuses(),
	})
}
