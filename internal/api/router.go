// Package api wires the HTTP routes of the simulator.
package api

import (
	"net/http"

	"fv-simulator/internal/api/handlers"
	"fv-simulator/internal/api/middleware"
	"fv-simulator/internal/api/models"
	"fv-simulator/internal/chart"
	"fv-simulator/internal/config"
	"fv-simulator/internal/data"
	"fv-simulator/internal/engine"
	"fv-simulator/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the gin engine for cfg. Sessions live in store.
func NewRouter(cfg *config.Config, calc handlers.Calculator, store *data.SessionStore[*engine.Engine], log *logrus.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler(log))

	format := cfg.Formatter()
	exporter := report.NewExporter(format, cfg.Report)
	chartOpts := cfg.ChartOptions()
	newEngine := func() *engine.Engine {
		surface := chart.NewCanvas(cfg.Chart.Width, cfg.Chart.Height)
		return engine.New(chart.NewRenderer(surface, chartOpts), exporter, log)
	}
	presets := handlers.NewPresetHandler(cfg.PresetsDir, log)
	sessions := handlers.NewSessionHandler(calc, store, newEngine, cfg.Params, presets, format, log)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": store.Len()})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.GET("/params/defaults", sessions.Defaults)
		api.GET("/params/presets", presets.ListPresets)
		api.POST("/calculate", sessions.Calculate)

		api.POST("/sessions", sessions.Create)
		api.GET("/sessions/:id", sessions.Get)
		api.GET("/sessions/:id/chart.png", sessions.Chart)
		api.GET("/sessions/:id/export.pdf", sessions.ExportPDF)
		api.GET("/sessions/:id/export.csv", sessions.ExportCSV)
		api.DELETE("/sessions/:id", sessions.Delete)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
		})
	})
	return router
}
