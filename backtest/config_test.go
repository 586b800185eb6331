package backtest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backtest.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRunConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
backtest:
  data: spy.csv
  initial_capital: 25000
  notional: 500
  atr_window: 14
  seed: 99
  tail: 10
strategy:
  type: trailing
  params:
    risk_frac: 0.02
    atr_multiple: 2.5
`)
	cfg, err := LoadRunConfig(path)
	if err != nil {
		t.Fatalf("LoadRunConfig: %v", err)
	}
	if cfg.Data != "spy.csv" || cfg.InitialCapital != 25000 || cfg.Notional != 500 {
		t.Fatalf("backtest section not applied: %+v", cfg)
	}
	if cfg.ATRWindow != 14 || cfg.Seed != 99 || cfg.Tail != 10 {
		t.Fatalf("backtest section not applied: %+v", cfg)
	}
	if cfg.Strategy != StrategyTrailing {
		t.Fatalf("strategy = %s, want trailing", cfg.Strategy)
	}
	if cfg.Trailing.RiskFrac != 0.02 || cfg.Trailing.ATRMultiple != 2.5 {
		t.Fatalf("trailing params not applied: %+v", cfg.Trailing)
	}
}

func TestLoadRunConfigDefaults(t *testing.T) {
	path := writeConfig(t, "backtest:\n  data: spy.csv\n")
	cfg, err := LoadRunConfig(path)
	if err != nil {
		t.Fatalf("LoadRunConfig: %v", err)
	}
	want := DefaultRunConfig()
	if cfg.InitialCapital != want.InitialCapital || cfg.Notional != want.Notional {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.ATRWindow != want.ATRWindow || cfg.Tail != want.Tail || cfg.Seed != 0 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Strategy != StrategyBaseline {
		t.Fatalf("strategy = %s, want baseline", cfg.Strategy)
	}
}

func TestLoadRunConfigUnknownStrategy(t *testing.T) {
	path := writeConfig(t, "strategy:\n  type: martingale\n")
	if _, err := LoadRunConfig(path); err == nil {
		t.Fatalf("expected error for unknown strategy type")
	}
}

func TestTrailingParamsDefaults(t *testing.T) {
	p := TrailingParams{}.withDefaults()
	if p.RiskFrac != 0.01 || p.ATRMultiple != 3.0 {
		t.Fatalf("defaults = %+v", p)
	}
	p = TrailingParams{RiskFrac: 1.5}.withDefaults()
	if p.RiskFrac != 0.01 {
		t.Fatalf("out-of-range risk_frac not reset: %v", p.RiskFrac)
	}
}
