package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"basso/backtest"
	"basso/signal"
)

var printer = message.NewPrinter(language.English)

// Print writes the console report for one run: a tape of the most recent
// signals, then period, signal, performance and backtest sections. Pure
// formatting, no business logic.
func Print(w io.Writer, res backtest.Result, recs []signal.Record, tail int) {
	if tail <= 0 {
		tail = 20
	}
	if tail > len(recs) {
		tail = len(recs)
	}

	fmt.Fprintf(w, "\n📊 LAST %d CANDLES:\n", tail)
	fmt.Fprintln(w, "   B=Buy S=Sell")
	for _, r := range recs[len(recs)-tail:] {
		change := "📉"
		if r.Bullish() {
			change = "📈"
		}
		fmt.Fprintf(w, "%s %7.1f %s\n", change, r.Close, glyph(r.Signal))
	}

	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, "\n"+rule)
	fmt.Fprintf(w, "%s STRATEGY vs BUY & HOLD\n", strings.ToUpper(res.Strategy))
	fmt.Fprintln(w, rule)

	fmt.Fprintf(w, "📊 Period: %s → %s (%d days)\n",
		res.Start.Format("2006-01-02"), res.End.Format("2006-01-02"), res.Bars)
	fmt.Fprintf(w, "💲 Price Range: $%.1f → $%.1f\n", res.LowClose, res.HighClose)

	st := signal.Counts(recs)
	fmt.Fprintln(w, "\n🎯 SIGNALS:")
	fmt.Fprintf(w, "   Buy: %4d | Sell: %4d | Frequency: %5.1f%%\n",
		st.Buys, st.Sells, st.FrequencyPct(len(recs)))

	fmt.Fprintln(w, "\n🏆 PERFORMANCE:")
	fmt.Fprintf(w, "   Buy & Hold:     %+7.1f%%\n", res.BuyHoldReturnPct)
	fmt.Fprintf(w, "   Strategy:       %+7.1f%%\n", res.ReturnPct)
	fmt.Fprintf(w, "   Alpha vs B&H:   %+7.1f%%\n", res.AlphaPct)

	fmt.Fprintln(w, "\n⚡ BACKTEST STATS:")
	printer.Fprintf(w, "   Start: $%.0f → End: $%.0f\n", res.InitialCapital, res.FinalEquity)
	fmt.Fprintf(w, "   Trades: %4d | Avg PnL: $%+.2f | Win Rate: %.1f%% | Max DD: %.1f%%\n",
		res.TotalTrades, res.AvgTradePnL, res.WinRatePct, res.MaxDrawdownPct)
	if res.Open != nil {
		fmt.Fprintf(w, "   Open: %s %.4f @ %.2f (unrealized $%+.2f, not counted as a trade)\n",
			res.Open.Side, res.Open.Qty, res.Open.EntryPrice, res.Open.OpenPnL)
	}
	fmt.Fprintln(w, rule)
}

func glyph(s signal.Signal) string {
	switch s {
	case signal.SignalBuy:
		return "🟢B"
	case signal.SignalSell:
		return "🔴S"
	default:
		return "|"
	}
}
