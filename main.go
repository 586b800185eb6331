package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"basso/backtest"
	"basso/indicator"
	"basso/loader"
	"basso/report"
	"basso/signal"
)

var (
	configPath string
	dataPath   string
	seed       uint64
	strategy   string
	chart      bool
	chartOut   string
)

func main() {
	flag.StringVar(&configPath, "config", "", "YAML run config path (defaults to ./backtest.yaml if present)")
	flag.StringVar(&dataPath, "data", "", "daily price CSV path (overrides config)")
	flag.Uint64Var(&seed, "seed", 0, "signal RNG seed, 0 = system randomness (overrides config)")
	flag.StringVar(&strategy, "strategy", "", "baseline | trailing (overrides config)")
	flag.BoolVar(&chart, "chart", false, "write an equity curve SVG")
	flag.StringVar(&chartOut, "chart-out", "equity.svg", "equity SVG output path (with -chart)")
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := run(); err != nil {
		log.Printf("[ERROR] backtest failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := backtest.DefaultRunConfig()
	if configPath == "" {
		if _, err := os.Stat("backtest.yaml"); err == nil {
			configPath = "backtest.yaml"
		}
	}
	if configPath != "" {
		c, err := backtest.LoadRunConfig(configPath)
		if err != nil {
			return err
		}
		cfg = c
	}
	if dataPath != "" {
		cfg.Data = dataPath
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if strategy != "" {
		cfg.Strategy = strategy
	}
	if cfg.Data == "" {
		return fmt.Errorf("no price file: set -data or backtest.data in the config")
	}

	bars, err := loader.Load(cfg.Data)
	if err != nil {
		return err
	}

	atr := indicator.ATR(bars, cfg.ATRWindow)
	bars, atr = indicator.DropWarmup(bars, atr)

	recs := signal.Attach(bars, signal.NewGenerator(cfg.Seed))

	var res backtest.Result
	switch cfg.Strategy {
	case backtest.StrategyTrailing:
		res, err = backtest.RunTrailing(recs, atr, cfg)
	case backtest.StrategyBaseline:
		res, err = backtest.Run(recs, cfg)
	default:
		return fmt.Errorf("unknown strategy: %s", cfg.Strategy)
	}
	if err != nil {
		return err
	}

	report.Print(os.Stdout, res, recs, cfg.Tail)

	if chart {
		svg, err := backtest.RenderEquitySVG(res, recs, backtest.SVGChartOptions{})
		if err != nil {
			return err
		}
		if err := os.WriteFile(chartOut, svg, 0o644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		log.Printf("equity chart written: %s\n", chartOut)
	}
	return nil
}
