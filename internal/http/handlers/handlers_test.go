package handlers

import (
	"fmt"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/fasthttp/router"
	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "vendorscore/internal/db"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "handlers.sqlite")
	gdb, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	require.NoError(t, gdb.AutoMigrate(
		&dbpkg.Vendor{},
		&dbpkg.Jurisdiction{},
		&dbpkg.VendorCoverage{},
		&dbpkg.CriminalRecord{},
		&dbpkg.VendorMetrics{},
	))
	return gdb
}

func seedVendor(t *testing.T, gdb *gorm.DB, name string) dbpkg.Vendor {
	t.Helper()
	v := dbpkg.Vendor{Name: name, CostPerRecord: 8, QualityScore: 90, CoveragePercentage: 92, IsActive: true}
	require.NoError(t, gdb.Create(&v).Error)
	return v
}

func postJSON(uri, body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.Header.SetContentType("application/json")
	ctx.Request.SetRequestURI(uri)
	ctx.Request.SetBodyString(body)
	return &ctx
}

func get(uri string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI(uri)
	return &ctx
}

func TestCompareRejectsDuplicateVendorIDs(t *testing.T) {
	gdb := setupDB(t)
	v := seedVendor(t, gdb, "Acme")

	ctx := postJSON("/api/compare", fmt.Sprintf(`{"vendor_ids": [%d, %d]}`, v.ID, v.ID))
	Compare(gdb)(ctx)

	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "Duplicate vendor ids")
}

func TestCompareAcceptsDistinctVendorIDs(t *testing.T) {
	gdb := setupDB(t)
	a := seedVendor(t, gdb, "Acme")
	b := seedVendor(t, gdb, "Birch")

	ctx := postJSON("/api/compare", fmt.Sprintf(`{"vendor_ids": [%d, %d]}`, a.ID, b.ID))
	Compare(gdb)(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
}

func TestVendorHistoryRejectsOutOfRangeDays(t *testing.T) {
	gdb := setupDB(t)
	v := seedVendor(t, gdb, "Acme")

	ctx := get(fmt.Sprintf("/api/vendors/%d/history?days=9999", v.ID))
	ctx.SetUserValue("id", strconv.Itoa(int(v.ID)))
	VendorHistory(gdb)(ctx)

	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "days must be an integer between 1 and 365")
}

func TestVendorHistoryDefaultDays(t *testing.T) {
	gdb := setupDB(t)
	v := seedVendor(t, gdb, "Acme")

	ctx := get(fmt.Sprintf("/api/vendors/%d/history", v.ID))
	ctx.SetUserValue("id", strconv.Itoa(int(v.ID)))
	VendorHistory(gdb)(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `"period_days":30`)
}

func TestListVendorsRejectsMalformedLimit(t *testing.T) {
	gdb := setupDB(t)

	ctx := get("/api/vendors?limit=abc")
	ListVendors(gdb)(ctx)

	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestRequestRouteUsesMatchedTemplate(t *testing.T) {
	var ctx fasthttp.RequestCtx
	ctx.SetUserValue(router.MatchedRoutePathParam, "/api/vendors/{id}")

	assert.Equal(t, "/api/vendors/{id}", requestRoute(&ctx))
}

func TestRequestRouteFallsBackWhenUnmatched(t *testing.T) {
	var ctx fasthttp.RequestCtx

	assert.Equal(t, "unmatched", requestRoute(&ctx))
}
