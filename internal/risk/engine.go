// Package risk applies static pre-trade limits to order requests before
// they reach the trading engine.
package risk

import (
	"math"

	"main/internal/model"
	"main/internal/model/enum"
)

// Config defines simple risk limits. A zero value disables its check.
type Config struct {
	KillSwitch           bool    `json:"killSwitch"`
	MaxOrderQty          float64 `json:"maxOrderQty"`
	MaxOrderNotional     float64 `json:"maxOrderNotional"`
	MaxPosition          float64 `json:"maxPosition"`
	MaxPriceDeviationBps float64 `json:"maxPriceDeviationBps"`
}

// Reason explains a deny decision.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonKillSwitch
	ReasonMaxQty
	ReasonMaxNotional
	ReasonPositionLimit
	ReasonPriceBand
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonKillSwitch:
		return "kill_switch"
	case ReasonMaxQty:
		return "max_qty"
	case ReasonMaxNotional:
		return "max_notional"
	case ReasonPositionLimit:
		return "position_limit"
	case ReasonPriceBand:
		return "price_band"
	default:
		return "unknown"
	}
}

// StateView provides the position and reference price at decision time.
type StateView struct {
	Position       float64
	ReferencePrice float64
}

// Engine evaluates risk decisions.
type Engine struct {
	cfg Config
}

// NewEngine creates a risk engine with static limits.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Evaluate checks an order request against the limits. Cancels are always
// allowed; they only reduce exposure.
func (e *Engine) Evaluate(req *model.OrderRequest, state StateView) Reason {
	if e == nil {
		return ReasonNone
	}
	if req.Action == enum.OrderActionCancel {
		return ReasonNone
	}

	if e.cfg.KillSwitch {
		return ReasonKillSwitch
	}

	if e.cfg.MaxOrderQty > 0 && req.Quantity > e.cfg.MaxOrderQty {
		return ReasonMaxQty
	}

	if e.cfg.MaxOrderNotional > 0 && math.Abs(req.Price*req.Quantity) > e.cfg.MaxOrderNotional {
		return ReasonMaxNotional
	}

	if e.cfg.MaxPriceDeviationBps > 0 && state.ReferencePrice > 0 && req.Price > 0 {
		deviationBps := math.Abs(req.Price-state.ReferencePrice) / state.ReferencePrice * 10_000
		if deviationBps > e.cfg.MaxPriceDeviationBps {
			return ReasonPriceBand
		}
	}

	if e.cfg.MaxPosition > 0 {
		next := state.Position
		switch req.Verb {
		case enum.VerbBuy:
			next += req.Quantity
		case enum.VerbSell:
			next -= req.Quantity
		}
		if math.Abs(next) > e.cfg.MaxPosition {
			return ReasonPositionLimit
		}
	}

	return ReasonNone
}
