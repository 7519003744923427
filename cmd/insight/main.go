package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/opsintel/backend-go/internal/dataset"
	"github.com/opsintel/backend-go/internal/forecast"
	"github.com/opsintel/backend-go/internal/kpi"
	"github.com/opsintel/backend-go/internal/session"
	"github.com/opsintel/backend-go/internal/timeseries"
)

func newDataFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "sales",
			Usage:   "Path to the sales CSV/XLSX file",
			EnvVars: []string{"SALES_FILE"},
		},
		&cli.StringFlag{
			Name:    "expenses",
			Usage:   "Path to the expenses CSV/XLSX file",
			EnvVars: []string{"EXPENSES_FILE"},
		},
		&cli.StringFlag{
			Name:    "inventory",
			Usage:   "Path to the inventory CSV/XLSX file",
			EnvVars: []string{"INVENTORY_FILE"},
		},
	}
}

// loadSession reads and validates every dataset file given on the
// command line. Files are independent, so they load concurrently.
func loadSession(c *cli.Context) (*session.Context, error) {
	sess := &session.Context{ID: session.DefaultID}

	g, _ := errgroup.WithContext(c.Context)

	if path := c.String("sales"); path != "" {
		g.Go(func() error {
			raw, err := dataset.ReadFile(path)
			if err != nil {
				return fmt.Errorf("sales: %w", err)
			}
			table, err := dataset.ValidateSales(raw)
			if err != nil {
				return fmt.Errorf("sales: %w", err)
			}
			sess.Sales = table
			return nil
		})
	}
	if path := c.String("expenses"); path != "" {
		g.Go(func() error {
			raw, err := dataset.ReadFile(path)
			if err != nil {
				return fmt.Errorf("expenses: %w", err)
			}
			table, err := dataset.ValidateExpenses(raw)
			if err != nil {
				return fmt.Errorf("expenses: %w", err)
			}
			sess.Expenses = table
			return nil
		})
	}
	if path := c.String("inventory"); path != "" {
		g.Go(func() error {
			raw, err := dataset.ReadFile(path)
			if err != nil {
				return fmt.Errorf("inventory: %w", err)
			}
			table, err := dataset.ValidateInventory(raw)
			if err != nil {
				return fmt.Errorf("inventory: %w", err)
			}
			sess.Inventory = table
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sess, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runKPIs(c *cli.Context) error {
	sess, err := loadSession(c)
	if err != nil {
		return err
	}

	period, err := timeseries.ParsePeriod(c.String("period"))
	if err != nil {
		return err
	}

	out := map[string]any{
		"summary": kpi.Summarize(sess),
	}
	if sess.Sales != nil {
		trend, err := kpi.RevenueTrend(sess, period)
		if err != nil {
			return err
		}
		out["revenue_trend"] = trend
	}
	if sess.Expenses != nil {
		out["expense_breakdown"] = kpi.ExpenseBreakdown(sess)
	}
	if sess.Inventory != nil {
		out["low_stock"] = kpi.LowStockAlerts(sess)
	}
	return printJSON(out)
}

func runForecast(c *cli.Context) error {
	sess, err := loadSession(c)
	if err != nil {
		return err
	}

	kind, err := forecast.ParseModelKind(c.String("model"))
	if err != nil {
		return err
	}
	horizon := c.Int("horizon")

	engine := forecast.NewEngine(nil)
	out := map[string]any{}

	if sess.Sales != nil {
		revenue, err := engine.ForecastRevenue(sess.Sales, horizon, kind)
		if err != nil {
			return fmt.Errorf("revenue: %w", err)
		}
		out["revenue"] = revenue
	}
	if sess.Expenses != nil {
		expenses, err := engine.ForecastExpenses(sess.Expenses, horizon)
		if err != nil {
			return fmt.Errorf("expenses: %w", err)
		}
		out["expenses"] = expenses
	}
	if len(out) == 0 {
		return fmt.Errorf("no dataset provided, pass --sales and/or --expenses")
	}
	return printJSON(out)
}

func runInventory(c *cli.Context) error {
	sess, err := loadSession(c)
	if err != nil {
		return err
	}

	engine := forecast.NewEngine(nil)
	rows, err := engine.ForecastInventoryNeeds(sess.Sales, sess.Inventory, c.Int("horizon"))
	if err != nil {
		return err
	}
	return printJSON(rows)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "insight",
		Usage: "Run dashboard analytics against local dataset files",
		Commands: []*cli.Command{
			{
				Name:  "kpis",
				Usage: "Compute KPI summary, revenue trend and expense breakdown",
				Flags: append(newDataFlags(),
					&cli.StringFlag{
						Name:  "period",
						Usage: "Trend resampling period (daily, weekly, monthly)",
						Value: "daily",
					},
				),
				Action: runKPIs,
			},
			{
				Name:  "forecast",
				Usage: "Forecast revenue and expenses",
				Flags: append(newDataFlags(),
					&cli.IntFlag{
						Name:  "horizon",
						Usage: "Forecast horizon in days",
						Value: forecast.DefaultHorizon,
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "Revenue model (linear or polynomial)",
						Value: "linear",
					},
				),
				Action: runForecast,
			},
			{
				Name:  "inventory",
				Usage: "Project stock levels and reorder suggestions",
				Flags: append(newDataFlags(),
					&cli.IntFlag{
						Name:  "horizon",
						Usage: "Projection horizon in days",
						Value: forecast.DefaultHorizon,
					},
				),
				Action: runInventory,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
