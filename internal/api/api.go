package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/opsintel/backend-go/internal/api/handlers"
	"github.com/opsintel/backend-go/internal/api/middleware"
	"github.com/opsintel/backend-go/internal/cache"
	"github.com/opsintel/backend-go/internal/forecast"
	"github.com/opsintel/backend-go/internal/insights"
	"github.com/opsintel/backend-go/internal/session"
	"github.com/opsintel/backend-go/internal/storage"
)

// Deps bundles everything the HTTP layer needs. All fields are required
// except Advisor and Archive, which degrade to no-ops when absent.
type Deps struct {
	Sessions       *session.Manager
	KPICache       cache.KPICache
	Archive        *storage.Archive
	Engine         *forecast.Engine
	Advisor        *insights.Advisor
	MaxUploadBytes int64
	ForecastDays   int
}

func NewRouter(deps *Deps, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Session-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	datasetHandler := handlers.NewDatasetHandler(deps.Sessions, deps.Archive, deps.MaxUploadBytes)
	apiGroup.POST("/datasets/:kind", datasetHandler.Upload)

	dashboardHandler := handlers.NewDashboardHandler(deps.Sessions, deps.KPICache)
	dashboardGroup := apiGroup.Group("/dashboard")
	{
		dashboardGroup.GET("/kpis", dashboardHandler.KPIs)
		dashboardGroup.GET("/revenue-trend", dashboardHandler.RevenueTrend)
		dashboardGroup.GET("/expense-breakdown", dashboardHandler.ExpenseBreakdown)
		dashboardGroup.GET("/low-stock", dashboardHandler.LowStock)
	}
	apiGroup.GET("/export/summary", dashboardHandler.ExportSummary)

	forecastHandler := handlers.NewForecastHandler(deps.Sessions, deps.Engine, deps.ForecastDays)
	forecastGroup := apiGroup.Group("/forecast")
	{
		forecastGroup.GET("/revenue", forecastHandler.Revenue)
		forecastGroup.GET("/expenses", forecastHandler.Expenses)
		forecastGroup.GET("/inventory", forecastHandler.Inventory)
		forecastGroup.GET("/summary", forecastHandler.Summary)
	}

	if deps.Advisor != nil {
		insightsHandler := handlers.NewInsightsHandler(deps.Sessions, deps.Advisor)
		insightsGroup := apiGroup.Group("/insights")
		{
			insightsGroup.GET("/recommendations", insightsHandler.Recommendations)
			insightsGroup.GET("/inventory", insightsHandler.Inventory)
			insightsGroup.GET("/revenue", insightsHandler.Revenue)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
