package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opsintel/backend-go/internal/insights"
	"github.com/opsintel/backend-go/internal/kpi"
	"github.com/opsintel/backend-go/internal/session"
)

// InsightsHandler serves the AI advisory endpoints. These always return
// 200: a model failure degrades to the static fallback set, never to an
// error page on the dashboard.
type InsightsHandler struct {
	sessions *session.Manager
	advisor  *insights.Advisor
}

func NewInsightsHandler(sessions *session.Manager, advisor *insights.Advisor) *InsightsHandler {
	return &InsightsHandler{sessions: sessions, advisor: advisor}
}

// Recommendations handles GET /insights/recommendations.
func (h *InsightsHandler) Recommendations(c *gin.Context) {
	sess := h.sessions.Get(c.GetHeader("X-Session-ID"))
	summary := kpi.Summarize(sess)
	c.JSON(http.StatusOK, h.advisor.GenerateRecommendations(c.Request.Context(), summary))
}

// Inventory handles GET /insights/inventory.
func (h *InsightsHandler) Inventory(c *gin.Context) {
	sess := h.sessions.Get(c.GetHeader("X-Session-ID"))
	summary := kpi.Summarize(sess)
	c.JSON(http.StatusOK, h.advisor.GenerateInventoryInsights(c.Request.Context(), summary))
}

// Revenue handles GET /insights/revenue.
func (h *InsightsHandler) Revenue(c *gin.Context) {
	sess := h.sessions.Get(c.GetHeader("X-Session-ID"))
	summary := kpi.Summarize(sess)
	c.JSON(http.StatusOK, h.advisor.GenerateRevenueOpportunities(c.Request.Context(), summary))
}
