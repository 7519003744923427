package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/opsintel/backend-go/internal/cache"
	"github.com/opsintel/backend-go/internal/kpi"
	"github.com/opsintel/backend-go/internal/session"
	"github.com/opsintel/backend-go/internal/timeseries"
)

// DashboardHandler serves the KPI queries backing the dashboard views.
type DashboardHandler struct {
	sessions *session.Manager
	cache    cache.KPICache
}

func NewDashboardHandler(sessions *session.Manager, kpiCache cache.KPICache) *DashboardHandler {
	if kpiCache == nil {
		kpiCache = cache.NewNoopKPICache()
	}
	return &DashboardHandler{sessions: sessions, cache: kpiCache}
}

// KPIs handles GET /dashboard/kpis. The snapshot is cached per session
// and table version; an upload bumps the version, so stale entries are
// simply never read again.
func (h *DashboardHandler) KPIs(c *gin.Context) {
	sess := h.sessions.Get(c.GetHeader("X-Session-ID"))

	if snap, ok, err := h.cache.Get(c.Request.Context(), sess.ID, sess.Version); err == nil && ok {
		c.JSON(http.StatusOK, snap)
		return
	} else if err != nil {
		log.Warn().Err(err).Msg("kpi cache get failed")
	}

	snap := kpi.Calculate(sess)
	if err := h.cache.Set(c.Request.Context(), sess.ID, sess.Version, &snap); err != nil {
		log.Warn().Err(err).Msg("kpi cache set failed")
	}

	c.JSON(http.StatusOK, snap)
}

// RevenueTrend handles GET /dashboard/revenue-trend?period=daily|weekly|monthly.
func (h *DashboardHandler) RevenueTrend(c *gin.Context) {
	period, err := timeseries.ParsePeriod(c.DefaultQuery("period", "daily"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	sess := h.sessions.Get(c.GetHeader("X-Session-ID"))
	points, err := kpi.RevenueTrend(sess, period)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if points == nil {
		points = []timeseries.Point{}
	}
	c.JSON(http.StatusOK, gin.H{"period": period, "points": points})
}

// ExpenseBreakdown handles GET /dashboard/expense-breakdown.
func (h *DashboardHandler) ExpenseBreakdown(c *gin.Context) {
	sess := h.sessions.Get(c.GetHeader("X-Session-ID"))
	breakdown := kpi.ExpenseBreakdown(sess)
	if breakdown == nil {
		breakdown = []kpi.CategoryTotal{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": breakdown})
}

// LowStock handles GET /dashboard/low-stock.
func (h *DashboardHandler) LowStock(c *gin.Context) {
	sess := h.sessions.Get(c.GetHeader("X-Session-ID"))
	alerts := kpi.LowStockAlerts(sess)
	if alerts == nil {
		alerts = []kpi.LowStockAlert{}
	}
	c.JSON(http.StatusOK, gin.H{"items": alerts})
}

// ExportSummary handles GET /export/summary.
func (h *DashboardHandler) ExportSummary(c *gin.Context) {
	sess := h.sessions.Get(c.GetHeader("X-Session-ID"))
	c.JSON(http.StatusOK, kpi.Summarize(sess))
}
