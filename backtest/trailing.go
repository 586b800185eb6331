package backtest

import (
	"fmt"

	"basso/signal"
)

// TrailingParams tunes the risk-managed coin-toss variant: fixed-fraction
// equity risk per trade with an ATR trailing stop recomputed from the close.
type TrailingParams struct {
	RiskFrac    float64 `yaml:"risk_frac" json:"risk_frac"`
	ATRMultiple float64 `yaml:"atr_multiple" json:"atr_multiple"`
}

func (p TrailingParams) withDefaults() TrailingParams {
	if p.RiskFrac <= 0 || p.RiskFrac >= 1 {
		p.RiskFrac = 0.01
	}
	if p.ATRMultiple <= 0 {
		p.ATRMultiple = 3.0
	}
	return p
}

// RunTrailing executes the risk-managed variant. Entries are the same coin
// flips as the baseline, but sized so a stop-out loses RiskFrac of current
// equity: qty = RiskFrac*equity / (ATRMultiple*ATR). The stop trails the
// close and only ever moves in the position's favor; a position exits on a
// stop hit or an opposite flip, whichever comes first.
//
// atr must be aligned with recs and free of NaN warmup values.
func RunTrailing(recs []signal.Record, atr []float64, cfg RunConfig) (Result, error) {
	if len(recs) < 2 {
		return Result{}, fmt.Errorf("not enough records: %d", len(recs))
	}
	if len(atr) != len(recs) {
		return Result{}, fmt.Errorf("atr length %d != records %d", len(atr), len(recs))
	}
	if cfg.InitialCapital <= 0 {
		cfg.InitialCapital = 10_000
	}
	p := cfg.Trailing.withDefaults()

	st := newRunState(cfg.InitialCapital, len(recs))
	pos := Position{Side: SideFlat}

	for i, r := range recs {
		price := r.Close
		dist := p.ATRMultiple * atr[i]

		// Opposite flip reverses, same-direction flip is a no-op.
		switch {
		case r.Signal == signal.SignalBuy && pos.Side != SideLong:
			if pos.Side == SideShort {
				st.close(&pos, r.Time, price, "flip")
			}
			if dist > 0 {
				qty := p.RiskFrac * st.equity / dist
				pos = Position{Side: SideLong, Qty: qty, EntryTime: r.Time, EntryPrice: price, Stop: price - dist}
			}
		case r.Signal == signal.SignalSell && pos.Side != SideShort:
			if pos.Side == SideLong {
				st.close(&pos, r.Time, price, "flip")
			}
			if dist > 0 {
				qty := p.RiskFrac * st.equity / dist
				pos = Position{Side: SideShort, Qty: qty, EntryTime: r.Time, EntryPrice: price, Stop: price + dist}
			}
		}

		// Trail from the close, then check the stop against the same close.
		switch pos.Side {
		case SideLong:
			if ns := price - dist; dist > 0 && ns > pos.Stop {
				pos.Stop = ns
			}
			if price <= pos.Stop {
				st.close(&pos, r.Time, price, "stop")
			}
		case SideShort:
			if ns := price + dist; dist > 0 && ns < pos.Stop {
				pos.Stop = ns
			}
			if price >= pos.Stop {
				st.close(&pos, r.Time, price, "stop")
			}
		}

		st.mark(r.Time, pos, price)
	}

	return st.summarize(StrategyTrailing, recs, pos, cfg), nil
}
