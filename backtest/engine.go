package backtest

import (
	"fmt"
	"math"
	"time"

	"basso/signal"
)

// Run executes the random-entry baseline over signal-tagged bars: a fixed
// dollar notional per entry, reversed whenever the coin flip disagrees with
// the current side. Same-direction flips are a no-op, so the trade count is
// bounded by the number of signal transitions.
func Run(recs []signal.Record, cfg RunConfig) (Result, error) {
	if len(recs) < 2 {
		return Result{}, fmt.Errorf("not enough records: %d", len(recs))
	}
	if cfg.InitialCapital <= 0 {
		cfg.InitialCapital = 10_000
	}
	if cfg.Notional <= 0 {
		cfg.Notional = 100
	}

	st := newRunState(cfg.InitialCapital, len(recs))
	pos := Position{Side: SideFlat}

	for _, r := range recs {
		price := r.Close
		switch {
		case r.Signal == signal.SignalBuy && pos.Side != SideLong:
			if pos.Side == SideShort {
				st.close(&pos, r.Time, price, "flip")
			}
			pos = Position{Side: SideLong, Qty: cfg.Notional / price, EntryTime: r.Time, EntryPrice: price}
		case r.Signal == signal.SignalSell && pos.Side != SideShort:
			if pos.Side == SideLong {
				st.close(&pos, r.Time, price, "flip")
			}
			pos = Position{Side: SideShort, Qty: cfg.Notional / price, EntryTime: r.Time, EntryPrice: price}
		}
		st.mark(r.Time, pos, price)
	}

	return st.summarize(StrategyBaseline, recs, pos, cfg), nil
}

type runState struct {
	equity float64
	trades []Trade
	curve  []Point
	peak   float64
	maxDD  float64
}

func newRunState(capital float64, n int) *runState {
	return &runState{equity: capital, peak: capital, curve: make([]Point, 0, n)}
}

// settlePnL is the realized P&L of pos if exited at price.
func settlePnL(pos Position, price float64) float64 {
	d := 1.0
	if pos.Side == SideShort {
		d = -1
	}
	return (price - pos.EntryPrice) * d * pos.Qty
}

func (s *runState) close(pos *Position, t time.Time, price float64, reason string) {
	pnl := settlePnL(*pos, price)
	s.equity += pnl
	s.trades = append(s.trades, Trade{
		Side:       pos.Side,
		EntryTime:  pos.EntryTime,
		EntryPrice: pos.EntryPrice,
		ExitTime:   t,
		ExitPrice:  price,
		Qty:        pos.Qty,
		PnL:        pnl,
		ExitReason: reason,
	})
	*pos = Position{Side: SideFlat}
}

// mark appends the mark-to-market equity point for the bar and tracks the
// drawdown peak. Realized equity is left untouched.
func (s *runState) mark(t time.Time, pos Position, price float64) {
	eq := s.equity
	if pos.Side != SideFlat {
		eq += settlePnL(pos, price)
	}
	s.curve = append(s.curve, Point{Time: t, Equity: eq})
	if eq > s.peak {
		s.peak = eq
	}
	if s.peak > 0 {
		if dd := (s.peak - eq) / s.peak; dd > s.maxDD {
			s.maxDD = dd
		}
	}
}

func (s *runState) summarize(strategy string, recs []signal.Record, pos Position, cfg RunConfig) Result {
	first := recs[0]
	last := recs[len(recs)-1]

	res := Result{
		Strategy:       strategy,
		Start:          first.Time,
		End:            last.Time,
		Bars:           len(recs),
		InitialCapital: cfg.InitialCapital,
		FinalEquity:    s.equity,
		TotalTrades:    len(s.trades),
		Trades:         s.trades,
		EquityCurve:    s.curve,
		MaxDrawdownPct: round2(s.maxDD * 100),
	}
	res.ReturnPct = (s.equity/cfg.InitialCapital - 1) * 100
	res.BuyHoldReturnPct = (last.Close/first.Close - 1) * 100
	res.AlphaPct = res.ReturnPct - res.BuyHoldReturnPct

	lo, hi := first.Close, first.Close
	for _, r := range recs[1:] {
		if r.Close < lo {
			lo = r.Close
		}
		if r.Close > hi {
			hi = r.Close
		}
	}
	res.LowClose, res.HighClose = lo, hi

	wins := 0
	var sum float64
	for _, t := range s.trades {
		sum += t.PnL
		if t.PnL > 0 {
			wins++
		}
	}
	if n := len(s.trades); n > 0 {
		res.AvgTradePnL = sum / float64(n)
		res.WinRatePct = round2(100 * float64(wins) / float64(n))
	}

	if pos.Side != SideFlat {
		res.Open = &OpenPosition{
			Side:       pos.Side,
			Qty:        pos.Qty,
			EntryTime:  pos.EntryTime,
			EntryPrice: pos.EntryPrice,
			MarkPrice:  last.Close,
			OpenPnL:    settlePnL(pos, last.Close),
		}
	}
	return res
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
