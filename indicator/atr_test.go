package indicator

import (
	"math"
	"testing"

	"basso/model"
)

func TestTrueRange(t *testing.T) {
	prev := model.Bar{High: 21, Low: 19, Close: 20}
	cur := model.Bar{High: 15, Low: 14, Close: 14.5}
	// Gap down: |low - prevClose| dominates.
	if got := TrueRange(cur, prev); got != 6 {
		t.Fatalf("TrueRange = %v, want 6", got)
	}
}

func TestATRRollingMeanAndWarmup(t *testing.T) {
	bars := []model.Bar{
		{High: 12, Low: 10, Close: 11}, // tr = 2 (no previous close)
		{High: 13, Low: 11, Close: 12}, // tr = 2
		{High: 15, Low: 12, Close: 14}, // tr = 3
	}
	atr := ATR(bars, 2)
	if !math.IsNaN(atr[0]) {
		t.Fatalf("atr[0] = %v, want NaN warmup", atr[0])
	}
	if atr[1] != 2 {
		t.Fatalf("atr[1] = %v, want 2", atr[1])
	}
	if atr[2] != 2.5 {
		t.Fatalf("atr[2] = %v, want 2.5", atr[2])
	}
}

func TestDropWarmup(t *testing.T) {
	bars := []model.Bar{
		{High: 12, Low: 10, Close: 11},
		{High: 13, Low: 11, Close: 12},
		{High: 15, Low: 12, Close: 14},
	}
	atr := ATR(bars, 2)
	gotBars, gotATR := DropWarmup(bars, atr)
	if len(gotBars) != 2 || len(gotATR) != 2 {
		t.Fatalf("expected 2 rows after warmup, got %d/%d", len(gotBars), len(gotATR))
	}
	if gotBars[0].Close != 12 {
		t.Fatalf("first kept bar close = %v, want 12", gotBars[0].Close)
	}
	for i, v := range gotATR {
		if math.IsNaN(v) {
			t.Fatalf("NaN survived warmup drop at %d", i)
		}
	}
}

func TestATRDefaultWindow(t *testing.T) {
	bars := make([]model.Bar, 12)
	for i := range bars {
		bars[i] = model.Bar{High: 11, Low: 10, Close: 10.5}
	}
	atr := ATR(bars, 0)
	for i := 0; i < DefaultWindow-1; i++ {
		if !math.IsNaN(atr[i]) {
			t.Fatalf("atr[%d] = %v, want NaN with default window", i, atr[i])
		}
	}
	if atr[DefaultWindow-1] != 1 {
		t.Fatalf("atr[%d] = %v, want 1", DefaultWindow-1, atr[DefaultWindow-1])
	}
}
