// Package forecast fits simple models over resampled business series and
// projects future values with heuristic confidence bands.
package forecast

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/opsintel/backend-go/internal/domain"
	"github.com/opsintel/backend-go/internal/timeseries"
)

// ModelKind selects the revenue model.
type ModelKind string

const (
	ModelLinear     ModelKind = "linear"
	ModelPolynomial ModelKind = "polynomial"
)

// ParseModelKind validates a model string from the API or CLI, defaulting
// to linear.
func ParseModelKind(s string) (ModelKind, error) {
	switch ModelKind(s) {
	case ModelLinear, ModelPolynomial:
		return ModelKind(s), nil
	case "":
		return ModelLinear, nil
	default:
		return "", &domain.UnsupportedInputError{Input: "model kind " + s}
	}
}

// minDataPoints is the smallest resampled daily series any model accepts.
const minDataPoints = 7

// DefaultHorizon is the forecast length when the caller does not choose one.
const DefaultHorizon = 30

// Revenue confidence band: a fixed ±15% heuristic, not a statistical
// interval. Expenses use ±20%.
const (
	revenueBandWidth   = 0.15
	expenseBandWidth   = 0.20
	expenseNoiseStdDev = 0.1
)

// Point is one projected future observation.
type Point struct {
	Date            time.Time `json:"date"`
	Predicted       float64   `json:"predicted"`
	ConfidenceLower float64   `json:"confidence_lower"`
	ConfidenceUpper float64   `json:"confidence_upper"`
}

// Metrics describes how a forecast was produced and how well the model
// fit its training series. MAE and R2 are in-sample.
type Metrics struct {
	ModelKind  ModelKind `json:"model_kind,omitempty"`
	Method     string    `json:"method,omitempty"`
	WindowSize int       `json:"window_size,omitempty"`
	MAE        float64   `json:"mae,omitempty"`
	R2         float64   `json:"r2,omitempty"`
}

// Result is an ordered projection plus its fit metrics and, for
// regression models, the fitted coefficients.
type Result struct {
	Points  []Point `json:"points"`
	Metrics Metrics `json:"metrics"`
	Model   *Model  `json:"model,omitempty"`
}

// InventoryForecastRow extends an inventory record with its projected
// demand over the forecast horizon.
type InventoryForecastRow struct {
	domain.InventoryRecord
	DailyVelocity    float64 `json:"daily_velocity"`
	ForecastedDemand float64 `json:"forecasted_demand"`
	PredictedStock   float64 `json:"predicted_stock"`
	ReorderNeeded    bool    `json:"reorder_needed"`
	SuggestedOrder   float64 `json:"suggested_order"`
}

// Engine runs the forecasting models. The random source drives expense
// noise injection and is injectable so tests can seed it; NewEngine(nil)
// seeds from the clock for production use.
type Engine struct {
	rng *rand.Rand
}

// NewEngine creates a forecast engine. Pass a seeded source for
// reproducible expense forecasts.
func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rng: rng}
}

// ForecastRevenue resamples sales to a daily series, fits the requested
// regression model on the time index and projects horizon future days.
// Predictions are clamped at zero; revenue cannot go negative.
func (e *Engine) ForecastRevenue(sales *domain.SalesTable, horizon int, kind ModelKind) (*Result, error) {
	series, err := dailySeries(timeseries.FromSales(sales))
	if err != nil {
		return nil, err
	}

	degree := 1
	if kind == ModelPolynomial {
		degree = 2
	}

	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, p := range series {
		xs[i] = float64(p.TimeIndex)
		ys[i] = p.Value
	}

	model, err := fitPolynomial(xs, ys, degree)
	if err != nil {
		return nil, fmt.Errorf("revenue model fit failed: %w", err)
	}

	fitted := make([]float64, len(xs))
	for i, x := range xs {
		fitted[i] = model.Predict(x)
	}

	lastIndex := series[len(series)-1].TimeIndex
	lastDate := series[len(series)-1].Date

	points := make([]Point, horizon)
	for i := 0; i < horizon; i++ {
		predicted := math.Max(model.Predict(float64(lastIndex+i+1)), 0)
		points[i] = Point{
			Date:            lastDate.AddDate(0, 0, i+1),
			Predicted:       predicted,
			ConfidenceLower: predicted * (1 - revenueBandWidth),
			ConfidenceUpper: predicted * (1 + revenueBandWidth),
		}
	}

	return &Result{
		Points: points,
		Metrics: Metrics{
			ModelKind: kind,
			MAE:       meanAbsoluteError(ys, fitted),
			R2:        rSquared(ys, fitted),
		},
		Model: &model,
	}, nil
}

// ForecastExpenses projects expenses as a trailing moving average with
// per-day noise drawn from N(0, 0.1), floored at zero. The noise keeps
// the projection from reading as an implausibly flat line; callers that
// need reproducibility seed the engine's random source.
func (e *Engine) ForecastExpenses(expenses *domain.ExpenseTable, horizon int) (*Result, error) {
	series, err := dailySeries(timeseries.FromExpenses(expenses))
	if err != nil {
		return nil, err
	}

	window := len(series) / 2
	if window > minDataPoints {
		window = minDataPoints
	}

	var base float64
	for _, p := range series[len(series)-window:] {
		base += p.Value
	}
	base /= float64(window)

	lastDate := series[len(series)-1].Date
	points := make([]Point, horizon)
	for i := 0; i < horizon; i++ {
		predicted := math.Max(base*(1+e.rng.NormFloat64()*expenseNoiseStdDev), 0)
		points[i] = Point{
			Date:            lastDate.AddDate(0, 0, i+1),
			Predicted:       predicted,
			ConfidenceLower: predicted * (1 - expenseBandWidth),
			ConfidenceUpper: predicted * (1 + expenseBandWidth),
		}
	}

	return &Result{
		Points:  points,
		Metrics: Metrics{Method: "moving_average", WindowSize: window},
	}, nil
}

// ForecastInventoryNeeds joins per-product sales velocity onto the
// inventory table and projects stock depletion over the horizon.
func (e *Engine) ForecastInventoryNeeds(sales *domain.SalesTable, inventory *domain.InventoryTable, horizon int) ([]InventoryForecastRow, error) {
	if sales == nil || inventory == nil {
		return nil, fmt.Errorf("sales and inventory data required for forecasting")
	}
	if !sales.HasColumn(domain.ColProductID) {
		return nil, &domain.MissingFieldError{Field: "product_id", Table: "sales"}
	}

	velocities := salesVelocity(sales)

	rows := make([]InventoryForecastRow, 0, inventory.Len())
	for _, rec := range inventory.Rows {
		if !rec.HasStockLevels() {
			log.Debug().Str("product_id", rec.ProductID).Msg("skipping inventory row with unparsed stock levels")
			continue
		}

		velocity := velocities[rec.ProductID]
		demand := velocity * float64(horizon)
		predicted := rec.CurrentStock - demand
		needed := predicted <= rec.ReorderLevel

		suggested := 0.0
		if needed {
			suggested = rec.ReorderLevel + demand
		}

		rows = append(rows, InventoryForecastRow{
			InventoryRecord:  rec,
			DailyVelocity:    velocity,
			ForecastedDemand: demand,
			PredictedStock:   predicted,
			ReorderNeeded:    needed,
			SuggestedOrder:   suggested,
		})
	}
	return rows, nil
}

// salesVelocity computes average units sold per day for each product:
// total quantity over the first-to-last sale window, with a one-day
// minimum so single-day activity never divides by zero.
func salesVelocity(sales *domain.SalesTable) map[string]float64 {
	type window struct {
		quantity    float64
		first, last time.Time
	}

	byProduct := make(map[string]*window)
	for _, r := range sales.Rows {
		w, ok := byProduct[r.ProductID]
		if !ok {
			w = &window{first: r.Date, last: r.Date}
			byProduct[r.ProductID] = w
		}
		w.quantity += r.Quantity
		if r.Date.Before(w.first) {
			w.first = r.Date
		}
		if r.Date.After(w.last) {
			w.last = r.Date
		}
	}

	velocities := make(map[string]float64, len(byProduct))
	for id, w := range byProduct {
		daysActive := w.last.Sub(w.first).Hours()/24 + 1
		if daysActive < 1 {
			daysActive = 1
		}
		velocities[id] = w.quantity / daysActive
	}
	return velocities
}

// dailySeries resamples observations to daily buckets and enforces the
// minimum series length shared by the revenue and expense models.
func dailySeries(obs []timeseries.Observation) ([]timeseries.Point, error) {
	series, err := timeseries.Resample(obs, timeseries.PeriodDaily)
	if err != nil {
		return nil, err
	}
	if len(series) < minDataPoints {
		return nil, &domain.InsufficientDataError{Required: minDataPoints, Got: len(series)}
	}
	return series, nil
}
