// cmd/analytics/main.go
//
// Offline reporting over the forecast pipeline's output files: SKU
// metrics, forecast accuracy, market share and order recommendations
// without running the API server.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/alkhair/demand-analytics/internal/cache"
	"github.com/alkhair/demand-analytics/internal/config"
	"github.com/alkhair/demand-analytics/internal/dataset"
	"github.com/alkhair/demand-analytics/internal/domain"
	"github.com/alkhair/demand-analytics/internal/marketshare"
	"github.com/alkhair/demand-analytics/internal/recommend"
	"github.com/alkhair/demand-analytics/internal/service"
	"github.com/alkhair/demand-analytics/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "analytics",
		Usage: "offline reports over the demand forecast dataset",
		Commands: []*cli.Command{
			skuMetricsCommand(),
			accuracyCommand(),
			marketShareCommand(),
			ordersCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("analytics command failed")
	}
}

func loadStore() (*dataset.Store, *config.Config, error) {
	cfg := config.Load()
	store, err := dataset.NewLoader(cfg.Data).Load()
	return store, cfg, err
}

// resolveOut places relative export paths under the configured export
// directory.
func resolveOut(cfg *config.Config, out string) string {
	if out == "" || filepath.IsAbs(out) || cfg.Data.ExportDir == "" {
		return out
	}
	return filepath.Join(cfg.Data.ExportDir, out)
}

func skuMetricsCommand() *cli.Command {
	return &cli.Command{
		Name:  "sku-metrics",
		Usage: "per-SKU demand metrics and trainability scores",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "item", Usage: "restrict to one item code"},
			&cli.StringFlag{Name: "out", Usage: "write CSV to this path instead of JSON to stdout"},
		},
		Action: func(c *cli.Context) error {
			store, cfg, err := loadStore()
			if err != nil {
				return err
			}

			metrics := service.NewSalesService(store).SKUMetrics(c.String("item"))
			if out := resolveOut(cfg, c.String("out")); out != "" {
				return writeSKUMetricsCSV(out, metrics)
			}
			return printJSON(metrics)
		},
	}
}

func accuracyCommand() *cli.Command {
	return &cli.Command{
		Name:  "accuracy",
		Usage: "forecast error metrics over the historical weeks",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "customer"},
			&cli.StringFlag{Name: "item"},
		},
		Action: func(c *cli.Context) error {
			store, _, err := loadStore()
			if err != nil {
				return err
			}

			svc := service.NewPredictionService(store)
			result := svc.Accuracy(service.PredictionQuery{
				Customer: c.String("customer"),
				ItemCode: c.String("item"),
			})
			return printJSON(result)
		},
	}
}

func marketShareCommand() *cli.Command {
	return &cli.Command{
		Name:  "market-share",
		Usage: "minimal item set covering a share of a customer's demand",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "customer", Required: true},
			&cli.Float64Flag{Name: "percent", Value: 70},
		},
		Action: func(c *cli.Context) error {
			store, _, err := loadStore()
			if err != nil {
				return err
			}

			calc := marketshare.NewCalculator(cache.NewMemoryMarketShareCache())
			result, err := calc.Share(context.Background(), store.Weekly(), c.String("customer"), c.Float64("percent"))
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func ordersCommand() *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "recommended order quantities for a target week",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Required: true, Usage: "target date, snapped to its week-end Sunday"},
			&cli.StringFlag{Name: "customer"},
			&cli.StringFlag{Name: "out", Usage: "write CSV to this path instead of JSON to stdout"},
		},
		Action: func(c *cli.Context) error {
			store, cfg, err := loadStore()
			if err != nil {
				return err
			}

			result, err := recommend.Generate(store.Weekly(), store.Predictions(), c.String("date"), c.String("customer"))
			if err != nil {
				return err
			}
			if out := resolveOut(cfg, c.String("out")); out != "" {
				return writeOrdersCSV(out, result)
			}
			return printJSON(result)
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSKUMetricsCSV(path string, metrics []domain.SKUMetrics) error {
	return writeCSV(path, []string{
		"ItemCode", "ItemName", "HistoryLength", "Density", "DemandType",
		"Mean", "Std", "CV", "CustomerCount", "ZeroDemandWeeks",
		"TrainabilityScore", "RecommendedApproach",
	}, len(metrics), func(i int) []string {
		m := metrics[i]
		return []string{
			m.ItemCode,
			m.ItemName,
			strconv.Itoa(m.HistoryLength),
			formatFloat(m.Density),
			string(m.DemandType),
			formatFloat(m.Mean),
			formatFloat(m.Std),
			formatFloat(m.CV),
			strconv.Itoa(m.CustomerCount),
			strconv.Itoa(m.ZeroDemandWeeks),
			strconv.Itoa(m.TrainabilityScore),
			string(m.RecommendedApproach),
		}
	})
}

func writeOrdersCSV(path string, result *domain.OrderResult) error {
	return writeCSV(path, []string{
		"CustomerName", "ItemCode", "ItemName", "Actual", "Predicted",
		"BufferPct", "BufferQty", "RecommendedOrderQty", "ReasonCode",
	}, len(result.Orders), func(i int) []string {
		o := result.Orders[i]
		return []string{
			o.CustomerName,
			o.ItemCode,
			o.ItemName,
			formatFloat(o.ActualQty),
			formatFloat(o.PredictedQty),
			formatFloat(o.BufferPct),
			formatFloat(o.BufferQty),
			formatFloat(o.RecommendedQty),
			o.ReasonCode,
		}
	})
}

func writeCSV(path string, header []string, n int, row func(i int) []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
