package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opsintel/backend-go/internal/domain"
	"github.com/opsintel/backend-go/internal/forecast"
	"github.com/opsintel/backend-go/internal/session"
)

// ForecastHandler serves the projection endpoints.
type ForecastHandler struct {
	sessions       *session.Manager
	engine         *forecast.Engine
	defaultHorizon int
}

func NewForecastHandler(sessions *session.Manager, engine *forecast.Engine, defaultHorizon int) *ForecastHandler {
	if defaultHorizon <= 0 {
		defaultHorizon = forecast.DefaultHorizon
	}
	return &ForecastHandler{sessions: sessions, engine: engine, defaultHorizon: defaultHorizon}
}

// Revenue handles GET /forecast/revenue?horizon=&model=linear|polynomial.
func (h *ForecastHandler) Revenue(c *gin.Context) {
	horizon, ok := h.parseHorizon(c)
	if !ok {
		return
	}
	kind, err := forecast.ParseModelKind(c.Query("model"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	sess := h.sessions.Get(c.GetHeader("X-Session-ID"))
	result, err := h.engine.ForecastRevenue(sess.Sales, horizon, kind)
	if err != nil {
		errorResponse(c, forecastStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// Expenses handles GET /forecast/expenses?horizon=.
func (h *ForecastHandler) Expenses(c *gin.Context) {
	horizon, ok := h.parseHorizon(c)
	if !ok {
		return
	}

	sess := h.sessions.Get(c.GetHeader("X-Session-ID"))
	result, err := h.engine.ForecastExpenses(sess.Expenses, horizon)
	if err != nil {
		errorResponse(c, forecastStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// Inventory handles GET /forecast/inventory?horizon=.
func (h *ForecastHandler) Inventory(c *gin.Context) {
	horizon, ok := h.parseHorizon(c)
	if !ok {
		return
	}

	sess := h.sessions.Get(c.GetHeader("X-Session-ID"))
	if sess.Sales == nil || sess.Inventory == nil {
		errorResponse(c, http.StatusBadRequest, "sales and inventory data required for forecasting")
		return
	}

	rows, err := h.engine.ForecastInventoryNeeds(sess.Sales, sess.Inventory, horizon)
	if err != nil {
		errorResponse(c, forecastStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"horizon": horizon, "items": rows})
}

// Summary handles GET /forecast/summary?horizon=. It reruns whichever
// forecasts the loaded tables allow and condenses them; the engine holds
// no state between calls, so the summary always reflects current data.
func (h *ForecastHandler) Summary(c *gin.Context) {
	horizon, ok := h.parseHorizon(c)
	if !ok {
		return
	}

	sess := h.sessions.Get(c.GetHeader("X-Session-ID"))

	var revenue, expenses *forecast.Result
	var inventory []forecast.InventoryForecastRow

	if sess.Sales != nil {
		if r, err := h.engine.ForecastRevenue(sess.Sales, horizon, forecast.ModelLinear); err == nil {
			revenue = r
		}
	}
	if sess.Expenses != nil {
		if r, err := h.engine.ForecastExpenses(sess.Expenses, horizon); err == nil {
			expenses = r
		}
	}
	if sess.Sales != nil && sess.Inventory != nil {
		if rows, err := h.engine.ForecastInventoryNeeds(sess.Sales, sess.Inventory, horizon); err == nil {
			inventory = rows
		}
	}

	c.JSON(http.StatusOK, forecast.Summarize(revenue, expenses, inventory, horizon))
}

func (h *ForecastHandler) parseHorizon(c *gin.Context) (int, bool) {
	raw := c.Query("horizon")
	if raw == "" {
		return h.defaultHorizon, true
	}
	horizon, err := strconv.Atoi(raw)
	if err != nil || horizon <= 0 || horizon > 365 {
		errorResponse(c, http.StatusBadRequest, "horizon must be an integer between 1 and 365")
		return 0, false
	}
	return horizon, true
}

// forecastStatus maps forecast failures onto HTTP codes: not enough data
// is the client's problem to fix, not a server fault.
func forecastStatus(err error) int {
	var (
		insufficientErr *domain.InsufficientDataError
		missingErr      *domain.MissingFieldError
		unsupportedErr  *domain.UnsupportedInputError
	)
	switch {
	case errors.As(err, &insufficientErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &missingErr), errors.As(err, &unsupportedErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
