package forecast

// SeriesSummary condenses a revenue or expense projection for the
// dashboard's overview cards.
type SeriesSummary struct {
	NextPeriodTotal float64 `json:"next_period_total"`
	DailyAverage    float64 `json:"daily_average"`
	Trend           string  `json:"trend"`
	Metrics         Metrics `json:"model_accuracy"`
}

// InventorySummary condenses the inventory projection.
type InventorySummary struct {
	ProductsNeedingReorder int     `json:"products_needing_reorder"`
	TotalSuggestedOrders   float64 `json:"total_suggested_orders"`
	ForecastPeriodDays     int     `json:"forecast_period_days"`
}

// Summary aggregates whichever forecasts could be produced from the
// loaded datasets.
type Summary struct {
	Revenue   *SeriesSummary    `json:"revenue,omitempty"`
	Expenses  *SeriesSummary    `json:"expenses,omitempty"`
	Inventory *InventorySummary `json:"inventory,omitempty"`
}

// Summarize condenses forecast results the caller just produced. The
// engine itself is stateless, so the caller decides which forecasts feed
// the summary. Nil inputs are skipped.
func Summarize(revenue, expenses *Result, inventory []InventoryForecastRow, horizon int) Summary {
	s := Summary{}
	if revenue != nil {
		s.Revenue = summarizeSeries(revenue)
	}
	if expenses != nil {
		s.Expenses = summarizeSeries(expenses)
	}
	if inventory != nil {
		inv := &InventorySummary{ForecastPeriodDays: horizon}
		for _, row := range inventory {
			if row.ReorderNeeded {
				inv.ProductsNeedingReorder++
			}
			inv.TotalSuggestedOrders += row.SuggestedOrder
		}
		s.Inventory = inv
	}
	return s
}

func summarizeSeries(r *Result) *SeriesSummary {
	if len(r.Points) == 0 {
		return &SeriesSummary{Metrics: r.Metrics, Trend: "flat"}
	}

	var total float64
	for _, p := range r.Points {
		total += p.Predicted
	}

	trend := "decreasing"
	if r.Points[len(r.Points)-1].Predicted > r.Points[0].Predicted {
		trend = "increasing"
	}

	return &SeriesSummary{
		NextPeriodTotal: total,
		DailyAverage:    total / float64(len(r.Points)),
		Trend:           trend,
		Metrics:         r.Metrics,
	}
}
