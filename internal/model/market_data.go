package model

import (
	"math"

	"main/internal/model/enum"
)

// Depth is a timestamped order book snapshot, best levels first.
type Depth struct {
	Instrument string
	Timestamp  int64 // epoch milliseconds

	Bids          []float64
	BidQuantities []float64
	Asks          []float64
	AskQuantities []float64
}

// IsFilled reports whether both sides carry at least one level.
func (d *Depth) IsFilled() bool {
	return len(d.Bids) > 0 && len(d.Asks) > 0
}

func (d *Depth) BestBid() float64 { return d.Bids[0] }
func (d *Depth) BestAsk() float64 { return d.Asks[0] }

func (d *Depth) BestBidQty() float64 { return d.BidQuantities[0] }
func (d *Depth) BestAskQty() float64 { return d.AskQuantities[0] }

// MidPrice is the arithmetic middle of the best bid and ask.
func (d *Depth) MidPrice() float64 {
	return (d.BestBid() + d.BestAsk()) / 2
}

func (d *Depth) Spread() float64 {
	return math.Abs(d.Asks[0] - d.Bids[0])
}

// Microprice weights the mid by the opposite side's queue size.
func (d *Depth) Microprice() float64 {
	totalQty := d.BestBidQty() + d.BestAskQty()
	if totalQty == 0 {
		return d.MidPrice()
	}
	return d.BestBid()*(d.BestAskQty()/totalQty) + d.BestAsk()*(d.BestBidQty()/totalQty)
}

// Imbalance is the signed best-level volume imbalance in [-1, 1].
func (d *Depth) Imbalance() float64 {
	totalQty := d.BestBidQty() + d.BestAskQty()
	if totalQty == 0 {
		return 0
	}
	return (d.BestBidQty() - d.BestAskQty()) / totalQty
}

// Trade is a timestamped market print.
type Trade struct {
	Instrument string
	Timestamp  int64 // epoch milliseconds
	Price      float64
	Quantity   float64
	Verb       enum.Verb
}

// Candle is an open/high/low/close bar derived from ticks.
type Candle struct {
	Type  enum.CandleType
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Command is an out-of-band control message from the market data feed.
type Command struct {
	Type      enum.CommandType
	Timestamp int64
}
