// Package pnl tracks positions and profit per instrument from execution
// reports and depth updates.
package pnl

import (
	"math"

	"github.com/yanun0323/logs"

	"main/internal/model"
	"main/internal/model/enum"
	"main/pkg/ring"
)

const (
	midPriceWindow      = 10
	unrealizedWindow    = 100
	unrealizedMinSample = 25
	maxZscoreWarning    = 4.0
	historyCapacity     = 4096
)

// Point is one row of the historical P&L series.
type Point struct {
	Timestamp     int64
	NetPosition   float64
	AvgOpenPrice  float64
	NetInvestment float64
	RealizedPnl   float64
	UnrealizedPnl float64
	TotalPnl      float64
	Price         float64
	Quantity      float64
	Verb          enum.Verb
	Trades        int
	Custom        map[string]float64
}

// Snapshot accumulates the position and P&L of a single instrument. It is
// not safe for concurrent use; the owning portfolio serializes access.
type Snapshot struct {
	NetPosition   float64
	AvgOpenPrice  float64
	NetInvestment float64
	RealizedPnl   float64
	UnrealizedPnl float64
	TotalPnl      float64

	LastPrice        float64
	LastQuantity     float64
	LastVerb         enum.Verb
	NumberOfTrades   int
	LastPriceForOpen float64

	processed           map[string]enum.ReportStatus
	midPrices           *ring.Buffer[float64]
	unrealizedHistory   *ring.Buffer[float64]
	history             *ring.Buffer[Point]
	custom              map[string]float64
	stdMidPrice         float64
	maxExecPriceValid   float64
	minExecPriceValid   float64
	lastTimestampUpdate int64
	lastReportTimestamp int64
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		processed:         make(map[string]enum.ReportStatus),
		midPrices:         ring.New[float64](midPriceWindow),
		unrealizedHistory: ring.New[float64](unrealizedWindow),
		history:           ring.New[Point](historyCapacity),
		custom:            make(map[string]float64),
		maxExecPriceValid: math.MaxFloat64,
		minExecPriceValid: -math.MaxFloat64,
	}
}

// UpdateExecutionReport folds one fill into the position and reports
// whether it was accepted. Reports without a fill quantity, with non-finite
// values or for an already completely filled client order id are ignored.
func (s *Snapshot) UpdateExecutionReport(report *model.ExecutionReport) bool {
	if report.LastQuantity == 0 || math.IsNaN(report.LastQuantity) || math.IsInf(report.LastQuantity, 0) {
		logs.Warnf("pnl: skip fill with lastQuantity %v", report.LastQuantity)
		return false
	}
	if math.IsNaN(report.Price) || math.IsInf(report.Price, 0) {
		logs.Warnf("pnl: skip fill with price %v", report.Price)
		return false
	}
	if s.lastReportTimestamp != 0 && report.TimestampCreation < s.lastReportTimestamp {
		logs.Warnf("pnl: execution report from the past %s", report)
	}
	if s.processed[report.ClientOrderID] == enum.ReportStatusCompletelyFilled {
		logs.Warnf("pnl: %s already completely filled, ignoring %s", report.ClientOrderID, report.Status)
		return false
	}

	s.LastPrice = clamp(report.Price, s.minExecPriceValid, s.maxExecPriceValid)
	s.LastQuantity = report.LastQuantity
	s.LastVerb = report.Verb

	quantityWithDirection := report.LastQuantity
	if report.Verb == enum.VerbSell {
		quantityWithDirection = -quantityWithDirection
	}

	isStillOpen := s.NetPosition*quantityWithDirection >= 0

	s.NetInvestment = math.Max(s.NetInvestment, math.Abs(s.NetPosition*s.AvgOpenPrice))

	if !isStillOpen {
		closed := math.Min(math.Abs(quantityWithDirection), math.Abs(s.NetPosition))
		s.RealizedPnl += (s.LastPrice - s.AvgOpenPrice) * closed * sign(s.NetPosition)
	}

	s.TotalPnl = s.RealizedPnl + s.UnrealizedPnl

	if isStillOpen {
		openCapital := s.AvgOpenPrice*s.NetPosition + s.LastPrice*quantityWithDirection
		s.AvgOpenPrice = openCapital / (s.NetPosition + quantityWithDirection)
	} else if report.LastQuantity > math.Abs(s.NetPosition) {
		// position flips, the remainder opens at the fill price
		s.AvgOpenPrice = s.LastPrice
	}

	s.NetPosition += quantityWithDirection
	s.NumberOfTrades++
	s.lastReportTimestamp = report.TimestampCreation
	s.updateHistoricals(report.TimestampCreation)
	s.processed[report.ClientOrderID] = report.Status
	return true
}

// UpdateDepth marks the open position to market. The unrealized P&L uses the
// average price of the levels the position would unwind through, falling
// back to the mid price when the book is too thin.
func (s *Snapshot) UpdateDepth(depth *model.Depth) {
	if !depth.IsFilled() {
		return
	}

	mid := depth.MidPrice()
	if mid != 0 && s.AvgOpenPrice != 0 && !math.IsInf(mid, 0) && !math.IsNaN(mid) {
		s.LastPriceForOpen = mid
		sideFound := false

		switch {
		case s.NetPosition > 0:
			if price, ok := unwindPrice(depth.Bids, depth.BidQuantities, math.Abs(s.NetPosition)); ok {
				s.LastPriceForOpen = price
				sideFound = true
			}
		case s.NetPosition < 0:
			if price, ok := unwindPrice(depth.Asks, depth.AskQuantities, math.Abs(s.NetPosition)); ok {
				s.LastPriceForOpen = price
				sideFound = true
			}
		}
		if !sideFound {
			s.LastPriceForOpen = mid
		}

		proposal := (s.LastPriceForOpen - s.AvgOpenPrice) * s.NetPosition
		if s.checkUnrealized(proposal) {
			s.UnrealizedPnl = proposal
			s.midPrices.Push(mid)
			s.calculateBoundariesPrice(s.LastPriceForOpen)
		} else {
			logs.Warnf("pnl: unrealized proposal %v out of bounds, keeping %v", proposal, s.UnrealizedPnl)
		}
	}

	s.TotalPnl = s.UnrealizedPnl + s.RealizedPnl
	s.updateHistoricals(depth.Timestamp)
}

// SetCustomColumn attaches a strategy-defined value to future history rows.
func (s *Snapshot) SetCustomColumn(key string, value float64) {
	s.custom[key] = value
}

// History returns the recorded series, oldest first.
func (s *Snapshot) History() []Point { return s.history.Values() }

// LastTimestamp returns the timestamp of the last recorded row.
func (s *Snapshot) LastTimestamp() int64 { return s.lastTimestampUpdate }

// checkUnrealized rejects proposals more than maxZscoreWarning standard
// deviations away from the recent unrealized P&L series. The guard only
// activates once enough samples exist.
func (s *Snapshot) checkUnrealized(proposal float64) bool {
	if s.unrealizedHistory.Len() < unrealizedMinSample {
		return true
	}
	z := Zscore(s.unrealizedHistory.Values(), proposal)
	return math.Abs(z) <= maxZscoreWarning
}

func (s *Snapshot) updateHistoricals(timestamp int64) {
	if s.NumberOfTrades == 0 || timestamp <= 0 {
		return
	}
	s.lastTimestampUpdate = timestamp
	point := Point{
		Timestamp:     timestamp,
		NetPosition:   s.NetPosition,
		AvgOpenPrice:  s.AvgOpenPrice,
		NetInvestment: s.NetInvestment,
		RealizedPnl:   s.RealizedPnl,
		UnrealizedPnl: s.UnrealizedPnl,
		TotalPnl:      s.TotalPnl,
		Price:         s.LastPrice,
		Quantity:      s.LastQuantity,
		Verb:          s.LastVerb,
		Trades:        s.NumberOfTrades,
	}
	if len(s.custom) > 0 {
		point.Custom = make(map[string]float64, len(s.custom))
		for k, v := range s.custom {
			point.Custom[k] = v
		}
	}
	s.history.Push(point)
	s.unrealizedHistory.Push(s.UnrealizedPnl)
}

// calculateBoundariesPrice derives the accepted execution price band from
// the recent mid price volatility. Computed once per filled window.
func (s *Snapshot) calculateBoundariesPrice(lastPrice float64) {
	if s.stdMidPrice == 0 {
		if !s.midPrices.Full() {
			return
		}
		s.stdMidPrice = Std(s.midPrices.Values())
	}
	if s.stdMidPrice == 0 {
		return
	}
	s.minExecPriceValid = lastPrice - 10*s.stdMidPrice
	s.maxExecPriceValid = lastPrice + 10*s.stdMidPrice
}

// unwindPrice walks the book for the quantity and returns the average price
// of the visited levels.
func unwindPrice(prices, quantities []float64, quantity float64) (float64, bool) {
	levels := 0
	total := 0.0
	qtyLeft := quantity
	for levels < len(prices) {
		qtyLeft -= quantities[levels]
		total += prices[levels]
		levels++
		if qtyLeft <= 0 {
			break
		}
	}
	if levels == 0 {
		return 0, false
	}
	return total / float64(levels), true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
