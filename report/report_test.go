package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"basso/backtest"
	"basso/signal"
)

func runFixture(t *testing.T) (backtest.Result, []signal.Record) {
	t.Helper()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	closes := []float64{100, 101, 99, 102, 105}
	signals := []signal.Signal{signal.SignalBuy, signal.SignalBuy, signal.SignalSell, signal.SignalBuy, signal.SignalSell}
	recs := make([]signal.Record, len(closes))
	for i, c := range closes {
		recs[i].Time = day.AddDate(0, 0, i)
		recs[i].Open = c - 0.5
		recs[i].High = c + 1
		recs[i].Low = c - 1
		recs[i].Close = c
		recs[i].Signal = signals[i]
	}
	res, err := backtest.Run(recs, backtest.DefaultRunConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res, recs
}

func TestPrintSections(t *testing.T) {
	res, recs := runFixture(t)
	var buf bytes.Buffer
	Print(&buf, res, recs, 20)
	out := buf.String()

	for _, want := range []string{
		"BASELINE STRATEGY vs BUY & HOLD",
		"Period: 2024-01-01 → 2024-01-05 (5 days)",
		"Price Range: $99.0 → $105.0",
		"Frequency: 100.0%",
		"Buy:    3 | Sell:    2",
		"Trades:    3",
		"not counted as a trade",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q in:\n%s", want, out)
		}
	}
}

func TestPrintGroupsDollarAmounts(t *testing.T) {
	res, recs := runFixture(t)
	var buf bytes.Buffer
	Print(&buf, res, recs, 5)
	if !strings.Contains(buf.String(), "$10,000") {
		t.Fatalf("expected comma-grouped starting capital, got:\n%s", buf.String())
	}
}

func TestPrintSignalGlyphs(t *testing.T) {
	res, recs := runFixture(t)
	var buf bytes.Buffer
	Print(&buf, res, recs, 5)
	out := buf.String()
	if !strings.Contains(out, "🟢B") || !strings.Contains(out, "🔴S") {
		t.Fatalf("expected signal glyphs in tape:\n%s", out)
	}
	// Every fixture bar closes above its open.
	if !strings.Contains(out, "📈") {
		t.Fatalf("expected bullish candle glyph:\n%s", out)
	}
}

func TestPrintTailClamped(t *testing.T) {
	res, recs := runFixture(t)
	var buf bytes.Buffer
	Print(&buf, res, recs, 100)
	if !strings.Contains(buf.String(), "LAST 5 CANDLES") {
		t.Fatalf("tail not clamped to record count:\n%s", buf.String())
	}
}
