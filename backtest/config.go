package backtest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	StrategyBaseline = "baseline"
	StrategyTrailing = "trailing"
)

type YAMLConfig struct {
	Backtest struct {
		Data           string  `yaml:"data"`
		InitialCapital float64 `yaml:"initial_capital"`
		Notional       float64 `yaml:"notional"`
		ATRWindow      int     `yaml:"atr_window"`
		Seed           uint64  `yaml:"seed"`
		Tail           int     `yaml:"tail"`
	} `yaml:"backtest"`

	Strategy struct {
		Type   string         `yaml:"type"`
		Params map[string]any `yaml:"params"`
	} `yaml:"strategy"`
}

type RunConfig struct {
	Data           string
	InitialCapital float64
	Notional       float64
	ATRWindow      int
	Seed           uint64
	Tail           int

	Strategy string
	Trailing TrailingParams
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		InitialCapital: 10_000,
		Notional:       100,
		ATRWindow:      10,
		Seed:           0, // system randomness
		Tail:           20,
		Strategy:       StrategyBaseline,
		Trailing:       TrailingParams{}.withDefaults(),
	}
}

func LoadRunConfig(path string) (RunConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("read config: %w", err)
	}

	var yc YAMLConfig
	if err := yaml.Unmarshal(raw, &yc); err != nil {
		return RunConfig{}, fmt.Errorf("parse yaml: %w", err)
	}

	cfg := DefaultRunConfig()

	if yc.Backtest.Data != "" {
		cfg.Data = yc.Backtest.Data
	}
	if yc.Backtest.InitialCapital > 0 {
		cfg.InitialCapital = yc.Backtest.InitialCapital
	}
	if yc.Backtest.Notional > 0 {
		cfg.Notional = yc.Backtest.Notional
	}
	if yc.Backtest.ATRWindow > 0 {
		cfg.ATRWindow = yc.Backtest.ATRWindow
	}
	if yc.Backtest.Seed > 0 {
		cfg.Seed = yc.Backtest.Seed
	}
	if yc.Backtest.Tail > 0 {
		cfg.Tail = yc.Backtest.Tail
	}

	switch yc.Strategy.Type {
	case "", StrategyBaseline:
		cfg.Strategy = StrategyBaseline
	case StrategyTrailing:
		cfg.Strategy = StrategyTrailing
		var p TrailingParams
		if yc.Strategy.Params != nil {
			b, _ := yaml.Marshal(yc.Strategy.Params)
			_ = yaml.Unmarshal(b, &p)
		}
		cfg.Trailing = p.withDefaults()
	default:
		return RunConfig{}, fmt.Errorf("unknown strategy.type: %s", yc.Strategy.Type)
	}

	return cfg, nil
}
