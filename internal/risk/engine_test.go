package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"main/internal/model"
	"main/internal/model/enum"
)

func sendRequest(verb enum.Verb, qty, price float64) *model.OrderRequest {
	return &model.OrderRequest{
		Instrument: "BTCUSDT_BINANCE",
		Action:     enum.OrderActionSend,
		Verb:       verb,
		OrderType:  enum.OrderTypeLimit,
		Quantity:   qty,
		Price:      price,
	}
}

func TestEvaluateAllowsWithinLimits(t *testing.T) {
	e := NewEngine(Config{MaxOrderQty: 10, MaxOrderNotional: 10_000, MaxPosition: 20})
	reason := e.Evaluate(sendRequest(enum.VerbBuy, 1, 100), StateView{Position: 5, ReferencePrice: 100})
	assert.Equal(t, ReasonNone, reason)
}

func TestEvaluateKillSwitch(t *testing.T) {
	e := NewEngine(Config{KillSwitch: true})
	assert.Equal(t, ReasonKillSwitch, e.Evaluate(sendRequest(enum.VerbBuy, 1, 100), StateView{}))
}

func TestEvaluateMaxQty(t *testing.T) {
	e := NewEngine(Config{MaxOrderQty: 5})
	assert.Equal(t, ReasonMaxQty, e.Evaluate(sendRequest(enum.VerbBuy, 6, 100), StateView{}))
}

func TestEvaluateMaxNotional(t *testing.T) {
	e := NewEngine(Config{MaxOrderNotional: 500})
	assert.Equal(t, ReasonMaxNotional, e.Evaluate(sendRequest(enum.VerbSell, 6, 100), StateView{}))
}

func TestEvaluatePositionLimit(t *testing.T) {
	e := NewEngine(Config{MaxPosition: 10})
	assert.Equal(t, ReasonPositionLimit,
		e.Evaluate(sendRequest(enum.VerbSell, 6, 100), StateView{Position: -5}))
	assert.Equal(t, ReasonNone,
		e.Evaluate(sendRequest(enum.VerbBuy, 6, 100), StateView{Position: -5}))
}

func TestEvaluatePriceBand(t *testing.T) {
	e := NewEngine(Config{MaxPriceDeviationBps: 100}) // 1%
	assert.Equal(t, ReasonPriceBand,
		e.Evaluate(sendRequest(enum.VerbBuy, 1, 103), StateView{ReferencePrice: 100}))
	assert.Equal(t, ReasonNone,
		e.Evaluate(sendRequest(enum.VerbBuy, 1, 100.5), StateView{ReferencePrice: 100}))
}

func TestEvaluateCancelAlwaysAllowed(t *testing.T) {
	e := NewEngine(Config{KillSwitch: true})
	cancel := &model.OrderRequest{Action: enum.OrderActionCancel, OrigClientOrderID: "x"}
	assert.Equal(t, ReasonNone, e.Evaluate(cancel, StateView{}))
}

func TestEvaluateZeroConfigDisablesChecks(t *testing.T) {
	e := NewEngine(Config{})
	assert.Equal(t, ReasonNone, e.Evaluate(sendRequest(enum.VerbBuy, 1e9, 1e9), StateView{}))
}
