package trigger

import (
	"time"

	"github.com/tradekit/structurebot/internal/levels"
	"github.com/tradekit/structurebot/pkg/types"
)

// Status is the outcome of a trigger evaluation. StatusExpired is never
// produced by detection; the execution layer sets it when a pending trigger
// ages out before filling.
type Status int

const (
	StatusPending Status = iota
	StatusTriggered
	StatusExpired
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusTriggered:
		return "TRIGGERED"
	case StatusExpired:
		return "EXPIRED"
	case StatusRejected:
		return "REJECTED"
	default:
		return "PENDING"
	}
}

// Type is the entry pattern that fired.
type Type int

const (
	TypeNone Type = iota
	TypeBreakout
	TypePullback
	TypeSFP
)

func (t Type) String() string {
	switch t {
	case TypeBreakout:
		return "BREAKOUT"
	case TypePullback:
		return "PULLBACK"
	case TypeSFP:
		return "SFP"
	default:
		return "NONE"
	}
}

// Result reports the best trigger found on one evaluation.
type Result struct {
	Status     Status          `json:"status"`
	Type       Type            `json:"trigger_type"`
	Direction  types.Direction `json:"direction"`
	Level      *levels.Level   `json:"level,omitempty"`
	Confidence float64         `json:"confidence"`
	Reason     string          `json:"reason"`
	Exit       *ExitLevels     `json:"exit_levels,omitempty"`
}

// ExitLevels is the full exit plan computed at entry time.
type ExitLevels struct {
	EntryPrice float64         `json:"entry_price"`
	Direction  types.Direction `json:"direction"`

	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`

	TrailingActivation *float64 `json:"trailing_activation,omitempty"`
	PartialTP1         *float64 `json:"partial_tp_1,omitempty"`
	StructureStop      *float64 `json:"structure_stop,omitempty"`

	BreakevenPrice float64 `json:"breakeven_price"`
	SLDistance     float64 `json:"sl_distance"`
	TPDistance     float64 `json:"tp_distance"`
	RiskReward     float64 `json:"risk_reward"`
	SLPercent      float64 `json:"sl_percent"`
	TPPercent      float64 `json:"tp_percent"`
	SLMethod       string  `json:"sl_method"`
	TPMethod       string  `json:"tp_method"`
}

// ExitType names the reason a position should close. ExitManual and
// ExitTrailingStop are reported by the execution layer: manual closes
// originate outside the pipeline, and a trailing stop fills at the venue
// after CalculateTrailingStop has moved it.
type ExitType int

const (
	ExitNone ExitType = iota
	ExitSLHit
	ExitTPHit
	ExitPartial
	ExitTimeStop
	ExitSignalReversal
	ExitManual
	ExitTrailingStop
)

func (e ExitType) String() string {
	switch e {
	case ExitSLHit:
		return "SL_HIT"
	case ExitTPHit:
		return "TP_HIT"
	case ExitPartial:
		return "PARTIAL"
	case ExitTimeStop:
		return "TIME_STOP"
	case ExitSignalReversal:
		return "SIGNAL_REVERSAL"
	case ExitManual:
		return "MANUAL"
	case ExitTrailingStop:
		return "TRAILING_STOP"
	default:
		return "NONE"
	}
}

// ExitSignal is the outcome of one exit-condition check.
type ExitSignal struct {
	ShouldExit         bool     `json:"should_exit"`
	ExitType           ExitType `json:"exit_type"`
	Reason             string   `json:"reason"`
	SuggestedExitPrice float64  `json:"suggested_exit_price"`

	// Partial-close fields, set only for ExitPartial.
	PartialClosePct float64  `json:"partial_close_pct,omitempty"`
	NewSL           *float64 `json:"new_sl,omitempty"`
}

// Position is the single open-position record the monitoring path works on.
// It is mutated only by the execution/exit path, never by detection.
type Position struct {
	Symbol     string          `json:"symbol"`
	Direction  types.Direction `json:"direction"`
	EntryPrice float64         `json:"entry_price"`
	Size       float64         `json:"size"`
	OpenedAt   time.Time       `json:"opened_at"`

	StopLoss   float64     `json:"stop_loss"`
	TakeProfit float64     `json:"take_profit"`
	Exits      *ExitLevels `json:"exits,omitempty"`

	PartialTaken bool `json:"partial_taken"`
}

// UnrealizedPnLPercent returns the signed open profit as a percentage of
// entry.
func (p *Position) UnrealizedPnLPercent(currentPrice float64) float64 {
	if p.EntryPrice == 0 {
		return 0
	}
	pnl := (currentPrice - p.EntryPrice) / p.EntryPrice * 100
	if p.Direction == types.DirectionShort {
		return -pnl
	}
	return pnl
}
