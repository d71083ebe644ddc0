package main

import (
	"log"
	"time"

	"github.com/fasthttp/router"
	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"

	"vendorscore/internal/config"
	"vendorscore/internal/db"
	"vendorscore/internal/http/handlers"
	appmw "vendorscore/internal/http/middleware"
	"vendorscore/internal/quick"
	"vendorscore/internal/scoring"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	gdb, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	if cfg.SeedSampleData {
		if err := db.Seed(gdb); err != nil {
			log.Fatalf("failed to seed sample data: %v", err)
		}
	}

	scoring.StartSnapshotWorker(gdb, time.Duration(cfg.SnapshotIntervalHours)*time.Hour)

	handlers.InitPrometheusMetrics()

	sessions := quick.NewStore(time.Duration(cfg.SessionTTLHours) * time.Hour)

	r := router.New()
	r.SaveMatchedRoutePath = true

	r.GET("/health", handlers.Health)
	r.GET("/metrics", handlers.MetricsHandler())

	r.GET("/api/vendors", handlers.ListVendors(gdb))
	r.GET("/api/vendors/summary", handlers.VendorsSummary(gdb))
	r.GET("/api/vendors/benchmark/all", handlers.BenchmarkAll(gdb))
	r.GET("/api/vendors/{id}", handlers.VendorDetail(gdb))
	r.GET("/api/vendors/{id}/score", handlers.VendorScore(gdb))
	r.GET("/api/vendors/{id}/history", handlers.VendorHistory(gdb))
	r.GET("/api/vendors/{id}/jurisdictions", handlers.VendorJurisdictions(gdb))

	r.POST("/api/compare", handlers.Compare(gdb))
	r.POST("/api/whatif", handlers.WhatIf(gdb))
	r.POST("/api/tco", handlers.TCO(gdb))
	r.GET("/api/jurisdictions", handlers.Jurisdictions(gdb))
	r.GET("/api/market-benchmarks", handlers.MarketBenchmarks(gdb))
	r.GET("/api/coverage-heatmap", handlers.CoverageHeatmap(gdb))

	r.GET("/api/schema-changes", handlers.SchemaChanges(gdb))
	r.GET("/api/schema-changes/vendor/{id}", handlers.VendorSchemaChanges(gdb))
	r.GET("/api/impact-assessment/{id}", handlers.ImpactAssessment(gdb))
	r.GET("/api/quality-trends/{id}", handlers.QualityTrendsHandler(gdb))
	r.GET("/api/performance-metrics", handlers.PerformanceMetricsHandler(gdb))
	r.GET("/api/recommendations", handlers.RecommendationsHandler(gdb))

	r.GET("/api/alerts", handlers.ListAlerts(gdb))
	r.GET("/api/alerts/summary", handlers.AlertSummary(gdb))
	r.GET("/api/alerts/types", handlers.AlertTypesHandler)
	r.GET("/api/alerts/vendor/{id}", handlers.VendorAlerts(gdb))
	r.GET("/api/alerts/vendor/{id}/sla-check", handlers.SLACheck(gdb))
	r.GET("/api/alerts/configurations/{id}", handlers.AlertConfigurations(gdb))
	r.POST("/api/alerts/configure", handlers.ConfigureAlerts(gdb))
	r.POST("/api/alerts/{id}/acknowledge", handlers.AcknowledgeAlert(gdb))
	r.POST("/api/alerts/{id}/resolve", handlers.ResolveAlert(gdb))

	r.POST("/api/quick/upload", handlers.QuickUpload(sessions))
	r.POST("/api/quick/compare", handlers.QuickCompare(sessions))
	r.GET("/api/quick/results/{id}", handlers.QuickResults(sessions))
	r.GET("/api/quick/demo-data", handlers.QuickDemoData)

	// Global middleware chain: request logger, then CORS, then router
	handler := handlers.RequestLogger(appmw.CORS(cfg.AllowedOrigins)(r.Handler))

	log.Printf("vendorscore listening on %s", cfg.ListenAddr)
	if err := fasthttp.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
