package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"vendorscore/internal/quick"
)

type quickCompareRequest struct {
	Vendors      []quick.VendorInput `json:"vendors"`
	Mode         string              `json:"mode"`
	Priority     string              `json:"priority"`
	AnnualVolume int                 `json:"annual_volume"`
}

var quickPriorities = map[string]bool{
	"quality": true, "cost": true, "balanced": true, "value": true,
}

// QuickCompare scores and ranks caller-supplied vendors without touching
// the database, storing the result under a session id.
func QuickCompare(store *quick.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		req := quickCompareRequest{Mode: "side-by-side", Priority: "balanced"}
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}
		if len(req.Vendors) < 2 {
			errResponse(ctx, fasthttp.StatusBadRequest, "At least 2 vendors required for comparison")
			return
		}
		if len(req.Vendors) > 20 {
			errResponse(ctx, fasthttp.StatusBadRequest, "Maximum 20 vendors allowed for quick comparison")
			return
		}
		if !quickPriorities[req.Priority] {
			errResponse(ctx, fasthttp.StatusBadRequest, "priority must be one of quality, cost, balanced, value")
			return
		}

		vendors, rankings, recs := quick.Compare(req.Vendors, req.Priority, req.AnnualVolume)

		result := &quick.CompareResult{
			Vendors:         vendors,
			Rankings:        rankings,
			Recommendations: recs,
		}
		session := store.Put(req.Vendors, result)
		result.SessionID = session.ID
		result.CreatedAt = session.CreatedAt.UTC().Format(time.RFC3339)
		result.ExpiresAt = session.ExpiresAt.UTC().Format(time.RFC3339)
		observeQuickSession()

		jsonResponse(ctx, result)
	}
}

// QuickUpload parses a CSV of vendor figures and stages them in a
// session for comparison.
func QuickUpload(store *quick.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		body, filename, err := uploadedFile(ctx)
		if err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, err.Error())
			return
		}
		if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
			errResponse(ctx, fasthttp.StatusBadRequest, "Only CSV files are supported")
			return
		}

		vendors, columns, err := quick.ParseCSV(bytes.NewReader(body))
		if err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, err.Error())
			return
		}

		session := store.Put(vendors, nil)
		observeQuickSession()

		jsonResponse(ctx, map[string]any{
			"session_id":       session.ID,
			"vendors":          vendors,
			"columns_detected": columns,
			"message":          fmt.Sprintf("Successfully uploaded %d vendors", len(vendors)),
		})
	}
}

// uploadedFile reads the "file" part of a multipart form, falling back to
// the raw body for clients that post the CSV directly.
func uploadedFile(ctx *fasthttp.RequestCtx) ([]byte, string, error) {
	header, err := ctx.FormFile("file")
	if err == nil {
		f, err := header.Open()
		if err != nil {
			return nil, "", errors.New("could not read uploaded file")
		}
		defer f.Close()

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(f); err != nil {
			return nil, "", errors.New("could not read uploaded file")
		}
		return buf.Bytes(), header.Filename, nil
	}

	body := ctx.PostBody()
	if len(body) == 0 {
		return nil, "", errors.New("no file provided")
	}
	return body, "upload.csv", nil
}

// QuickResults replays a stored comparison by session id.
func QuickResults(store *quick.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, _ := ctx.UserValue("id").(string)

		session, err := store.Get(id)
		if err != nil {
			errResponse(ctx, fasthttp.StatusNotFound, "Session expired or not found")
			return
		}
		if session.Result == nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "No results found for this session")
			return
		}
		jsonResponse(ctx, session.Result)
	}
}

// QuickDemoData serves canned vendor figures for demo mode.
func QuickDemoData(ctx *fasthttp.RequestCtx) {
	jsonResponse(ctx, map[string]any{
		"vendors": quick.DemoVendors(),
		"message": "Sample data loaded. Upload your own CSV for real comparison.",
	})
}
