package backtest

import "time"

type Side string

const (
	SideFlat  Side = "flat"
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Position is the open-position state threaded through an engine run. It
// exists only inside the loop and is never persisted.
type Position struct {
	Side       Side
	Qty        float64
	EntryTime  time.Time
	EntryPrice float64
	Stop       float64 // trailing engine only
}

type Trade struct {
	Side       Side      `json:"side"`
	EntryTime  time.Time `json:"entry_time"`
	EntryPrice float64   `json:"entry_price"`
	ExitTime   time.Time `json:"exit_time"`
	ExitPrice  float64   `json:"exit_price"`
	Qty        float64   `json:"qty"`
	PnL        float64   `json:"pnl"`
	ExitReason string    `json:"exit_reason"` // "flip" or "stop"
}

type Point struct {
	Time   time.Time `json:"time"`
	Equity float64   `json:"equity"`
}

// OpenPosition describes a position still held when the series ends. It is
// marked to market at the last close but never force-closed: it is not a
// trade and its P&L stays out of FinalEquity.
type OpenPosition struct {
	Side       Side      `json:"side"`
	Qty        float64   `json:"qty"`
	EntryTime  time.Time `json:"entry_time"`
	EntryPrice float64   `json:"entry_price"`
	MarkPrice  float64   `json:"mark_price"`
	OpenPnL    float64   `json:"open_pnl"`
}

type Result struct {
	Strategy string    `json:"strategy"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Bars     int       `json:"bars"`

	InitialCapital float64 `json:"initial_capital"`
	FinalEquity    float64 `json:"final_equity"`
	ReturnPct      float64 `json:"return_pct"`

	BuyHoldReturnPct float64 `json:"buy_hold_return_pct"`
	AlphaPct         float64 `json:"alpha_pct"`

	TotalTrades    int     `json:"total_trades"`
	AvgTradePnL    float64 `json:"avg_trade_pnl"`
	WinRatePct     float64 `json:"win_rate_pct"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`

	LowClose  float64 `json:"low_close"`
	HighClose float64 `json:"high_close"`

	Trades      []Trade       `json:"trades"`
	EquityCurve []Point       `json:"equity_curve"`
	Open        *OpenPosition `json:"open,omitempty"`
}
