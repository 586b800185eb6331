package indicator

import (
	"math"

	"basso/model"
)

// DefaultWindow is the ATR lookback used by the baseline run.
const DefaultWindow = 10

// TrueRange is max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(cur, prev model.Bar) float64 {
	tr := cur.High - cur.Low
	if hc := math.Abs(cur.High - prev.Close); hc > tr {
		tr = hc
	}
	if lc := math.Abs(cur.Low - prev.Close); lc > tr {
		tr = lc
	}
	return tr
}

// ATR returns the simple rolling mean of true range over window bars.
// The first window-1 values are NaN; the first bar has no previous close,
// so its true range is just high-low.
func ATR(bars []model.Bar, window int) []float64 {
	if window <= 0 {
		window = DefaultWindow
	}
	out := make([]float64, len(bars))
	tr := make([]float64, len(bars))
	for i := range bars {
		if i == 0 {
			tr[i] = bars[i].High - bars[i].Low
			continue
		}
		tr[i] = TrueRange(bars[i], bars[i-1])
	}

	var sum float64
	for i := range tr {
		sum += tr[i]
		if i >= window {
			sum -= tr[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// DropWarmup discards leading bars whose indicator value is still NaN, so
// the backtest only sees rows with a defined ATR.
func DropWarmup(bars []model.Bar, atr []float64) ([]model.Bar, []float64) {
	i := 0
	for i < len(atr) && math.IsNaN(atr[i]) {
		i++
	}
	return bars[i:], atr[i:]
}
