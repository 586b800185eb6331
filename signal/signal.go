package signal

import (
	"math/rand/v2"

	"basso/model"
)

// Signal 每根K线的方向标签
type Signal string

const (
	SignalNone Signal = "none"
	SignalBuy  Signal = "buy"
	SignalSell Signal = "sell"
)

// Record is a price bar with its assigned signal.
type Record struct {
	model.Bar
	Signal Signal
}

// Generator draws one coin-flip signal per bar.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a signal generator. A zero seed uses system
// randomness (exploratory runs); any other seed gives a reproducible
// sequence.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		return &Generator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	return &Generator{rng: rand.New(rand.NewPCG(seed, 0))}
}

// Next draws uniformly from {Buy, Sell}. The random baseline flips a coin on
// every candle, so None is never produced and signal frequency is 100%.
func (g *Generator) Next() Signal {
	if g.rng.IntN(2) == 0 {
		return SignalSell
	}
	return SignalBuy
}

// Attach assigns an independent coin flip to every bar.
func Attach(bars []model.Bar, gen *Generator) []Record {
	recs := make([]Record, len(bars))
	for i, b := range bars {
		recs[i] = Record{Bar: b, Signal: gen.Next()}
	}
	return recs
}

// Stats 信号计数
type Stats struct {
	Buys     int
	Sells    int
	Assigned int
}

// Counts tallies the assigned signals over a record set.
func Counts(recs []Record) Stats {
	var s Stats
	for _, r := range recs {
		switch r.Signal {
		case SignalBuy:
			s.Buys++
			s.Assigned++
		case SignalSell:
			s.Sells++
			s.Assigned++
		}
	}
	return s
}

// FrequencyPct is the fraction of n records that carry a signal, in percent.
func (s Stats) FrequencyPct(n int) float64 {
	if n <= 0 {
		return 0
	}
	return 100 * float64(s.Assigned) / float64(n)
}
