package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDepth() *Depth {
	return &Depth{
		Instrument:    "BTCUSDT_BINANCE",
		Timestamp:     1_700_000_000_000,
		Bids:          []float64{99.0, 98.0},
		BidQuantities: []float64{1.0, 2.0},
		Asks:          []float64{101.0, 102.0},
		AskQuantities: []float64{3.0, 4.0},
	}
}

func TestDepthDerived(t *testing.T) {
	d := testDepth()

	require.True(t, d.IsFilled())
	assert.InDelta(t, 100.0, d.MidPrice(), 1e-12)
	assert.InDelta(t, 2.0, d.Spread(), 1e-12)

	// microprice leans toward the side with less queue: bid qty 1 vs ask qty 3
	assert.InDelta(t, 99.0*(3.0/4.0)+101.0*(1.0/4.0), d.Microprice(), 1e-12)
	assert.InDelta(t, (1.0-3.0)/4.0, d.Imbalance(), 1e-12)
}

func TestDepthEmptySide(t *testing.T) {
	d := &Depth{Bids: []float64{99}, BidQuantities: []float64{1}}
	assert.False(t, d.IsFilled())
}

func TestInstrumentPrimaryKey(t *testing.T) {
	full := NewInstrument("BTCUSDT", "BINANCE", "ISIN1")
	assert.Equal(t, "BTCUSDT_BINANCE_ISIN1", full.PrimaryKey())

	noIsin := NewInstrument("BTCUSDT", "BINANCE", "")
	assert.Equal(t, "BTCUSDT_BINANCE", noIsin.PrimaryKey())

	symbolOnly := NewInstrument("BTCUSDT", "", "")
	assert.Equal(t, "BTCUSDT", symbolOnly.PrimaryKey())
}

func TestInstrumentRegistry(t *testing.T) {
	ins := NewInstrument("ETHUSDT", "BINANCE", "")
	RegisterInstrument(ins)

	got, ok := GetInstrument("ETHUSDT_BINANCE")
	require.True(t, ok)
	assert.Same(t, ins, got)

	_, ok = GetInstrument("missing")
	assert.False(t, ok)
}
