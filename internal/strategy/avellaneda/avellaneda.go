// Package avellaneda implements the Avellaneda-Stoikov market making
// strategy: an inventory-skewed reservation price with spreads sized from
// mid price variance and estimated order arrival intensity.
//
// Reservation price: r = mid - q*gamma*sigma^2*(T-t)
// Spread: gamma*sigma^2*(T-t) + (2/gamma)*ln(1+gamma/k), scaled by the
// current market spread and a configurable multiplier.
package avellaneda

import (
	"math"

	"github.com/yanun0323/logs"

	"main/internal/algo"
	"main/internal/model"
	"main/internal/model/enum"
	"main/internal/ops"
	"main/pkg/ring"
)

const (
	// maxTicksMidPriceDeviation bounds quotes to mid +- 100 ticks.
	maxTicksMidPriceDeviation = 100

	minuteCounterWindow = 60
	minuteMillis        = 60 * 1000

	// stopTradeSideMillis re-enables a disabled side once its last fill
	// is this stale.
	stopTradeSideMillis = 5 * minuteMillis
)

// Params is the typed strategy configuration, parsed once at startup.
type Params struct {
	RiskAversion       float64
	Quantity           float64
	WindowTick         int
	SkewPricePct       float64
	TargetPosition     float64
	PositionMultiplier float64
	SpreadMultiplier   float64
	MinutesChangeK     int

	// KDefault overrides the arrival intensity estimation when set.
	KDefault *float64

	// DisableOnHit pulls a side after it trades; it re-enables after the
	// cool-down.
	DisableOnHit bool
}

// ParseParams validates the parameter bag into a typed configuration.
func ParseParams(bag ops.Params) (Params, error) {
	var p Params
	var err error

	if p.RiskAversion, err = bag.Float("risk_aversion"); err != nil {
		return p, err
	}
	if p.Quantity, err = bag.Float("quantity"); err != nil {
		return p, err
	}
	if p.WindowTick, err = bag.Int("window_tick"); err != nil {
		return p, err
	}
	if p.SkewPricePct, err = bag.FloatOr("skew_price_pct", 0); err != nil {
		return p, err
	}
	if p.TargetPosition, err = bag.FloatOr("target_position", 0); err != nil {
		return p, err
	}
	if p.PositionMultiplier, err = bag.FloatOr("position_multiplier", 1); err != nil {
		return p, err
	}
	if p.SpreadMultiplier, err = bag.FloatOr("spread_multiplier", 1); err != nil {
		return p, err
	}
	if p.MinutesChangeK, err = bag.IntOr("minutes_change_k", 1); err != nil {
		return p, err
	}
	kDefault, err := bag.FloatOr("k_default", -1)
	if err != nil {
		return p, err
	}
	if kDefault != -1 {
		p.KDefault = &kDefault
	}
	disable, err := bag.IntOr("disable_on_hit", 0)
	if err != nil {
		return p, err
	}
	p.DisableOnHit = disable != 0
	return p, nil
}

// Strategy quotes a single instrument through the execution core.
type Strategy struct {
	algorithm  *algo.Algorithm
	instrument *model.Instrument
	params     Params

	midPrices *ring.Buffer[float64]

	counterTrades     *ring.Buffer[int64]
	counterBuyTrades  *ring.Buffer[int64]
	counterSellTrades *ring.Buffer[int64]
	countTrades       int64
	countBuyTrades    int64
	countSellTrades   int64
	counterStartMs    int64

	sideActive         map[enum.Verb]bool
	autoEnableSideTime bool
}

// New builds the strategy and attaches it to the algorithm.
func New(algorithm *algo.Algorithm, instrument *model.Instrument, bag ops.Params) (*Strategy, error) {
	params, err := ParseParams(bag)
	if err != nil {
		return nil, err
	}
	s := &Strategy{
		algorithm:          algorithm,
		instrument:         instrument,
		params:             params,
		midPrices:          ring.New[float64](params.WindowTick),
		counterTrades:      ring.New[int64](minuteCounterWindow),
		counterBuyTrades:   ring.New[int64](minuteCounterWindow),
		counterSellTrades:  ring.New[int64](minuteCounterWindow),
		sideActive:         make(map[enum.Verb]bool),
		autoEnableSideTime: true,
	}
	algorithm.SetStrategy(s)
	return s, nil
}

func (s *Strategy) OnCommand(*model.Command) {}
func (s *Strategy) OnCandle(*model.Candle)   {}

// OnTrade maintains the per-minute trade counters feeding the arrival
// intensity estimation. Trades printing through the book's best prices
// count toward the side that was hit.
func (s *Strategy) OnTrade(trade *model.Trade) {
	if trade.Instrument != s.instrument.PrimaryKey() {
		return
	}
	now := s.algorithm.CurrentTimestamp()
	if s.counterStartMs == 0 {
		s.counterStartMs = now
	}
	if now-s.counterStartMs > minuteMillis {
		s.counterTrades.Push(s.countTrades)
		s.counterBuyTrades.Push(s.countBuyTrades)
		s.counterSellTrades.Push(s.countSellTrades)
		s.counterStartMs = now
		s.countTrades = 0
		s.countBuyTrades = 0
		s.countSellTrades = 0
		return
	}

	lastDepth := s.algorithm.LastDepth(s.instrument)
	if lastDepth != nil && lastDepth.IsFilled() {
		if trade.Price < lastDepth.BestBid() {
			s.countBuyTrades++
		}
		if trade.Price > lastDepth.BestAsk() {
			s.countSellTrades++
		}
	}
	s.countTrades++
}

// OnDepth recomputes the quote from the new book snapshot.
func (s *Strategy) OnDepth(depth *model.Depth) {
	if depth.Instrument != s.instrument.PrimaryKey() {
		return
	}

	s.checkSideDisable(s.algorithm.CurrentTimestamp())
	if !depth.IsFilled() {
		s.algorithm.Stop()
		return
	}
	s.algorithm.Start()

	mid := depth.MidPrice()
	marketSpread := depth.Spread()
	s.midPrices.Push(mid)

	variance, ok := s.varianceMidPrice()
	if !ok || !isFinite(variance) {
		return
	}
	s.algorithm.SetCustomColumn(depth.Instrument, "variance_mid", variance)

	tt := s.timeRemainingFraction()
	position := (s.algorithm.Position(s.instrument) - s.params.TargetPosition) * s.params.PositionMultiplier
	reservePrice := mid - position*s.params.RiskAversion*variance*tt

	kTotal := s.calculateK(s.counterTrades)
	if !isFinite(kTotal) || kTotal == 0 {
		return
	}
	kBuy := s.calculateK(s.counterBuyTrades)
	if !isFinite(kBuy) || kBuy == 0 {
		return
	}
	kSell := s.calculateK(s.counterSellTrades)
	if !isFinite(kSell) || kSell == 0 {
		return
	}
	s.algorithm.SetCustomColumn(depth.Instrument, "k_buy", kBuy)
	s.algorithm.SetCustomColumn(depth.Instrument, "k_sell", kSell)

	gamma := s.params.RiskAversion
	spreadBid := (gamma*variance*tt + (2/gamma)*math.Log(1+gamma/kBuy)) * marketSpread * s.params.SpreadMultiplier
	spreadAsk := (gamma*variance*tt + (2/gamma)*math.Log(1+gamma/kSell)) * marketSpread * s.params.SpreadMultiplier

	askPrice := roundTo((reservePrice+spreadAsk)*(1+s.params.SkewPricePct), s.instrument.PriceDecimals)
	bidPrice := roundTo((reservePrice-spreadBid)*(1+s.params.SkewPricePct), s.instrument.PriceDecimals)
	if !isFinite(askPrice) || !isFinite(bidPrice) {
		logs.Warnf("non finite quote prices bid %v ask %v", bidPrice, askPrice)
		return
	}

	// never cross the mid
	tick := s.instrument.PriceTick
	askPrice = math.Max(askPrice, mid+tick)
	bidPrice = math.Min(bidPrice, mid-tick)
	// and never drift too far from it
	askPrice = math.Min(askPrice, mid+maxTicksMidPriceDeviation*tick)
	bidPrice = math.Max(bidPrice, mid-maxTicksMidPriceDeviation*tick)

	quote := s.algorithm.NewQuoteRequest(s.instrument)
	quote.Action = enum.QuoteActionOn
	quote.BidPrice = bidPrice
	quote.BidQuantity = s.params.Quantity
	quote.AskPrice = askPrice
	quote.AskQuantity = s.params.Quantity

	for verb, active := range s.sideActive {
		if active {
			continue
		}
		if verb == enum.VerbBuy {
			quote.BidQuantity = 0
		}
		if verb == enum.VerbSell {
			quote.AskQuantity = 0
		}
	}

	if err := s.algorithm.SendQuoteRequest(quote); err != nil {
		logs.Debugf("cant quote %s bid %v@%v ask %v@%v: %+v",
			s.instrument, quote.BidQuantity, bidPrice, quote.AskQuantity, askPrice, err)
	}
}

// OnExecutionReport pulls the hit side after a fill and optionally
// disables it until the cool-down expires.
func (s *Strategy) OnExecutionReport(report *model.ExecutionReport) {
	if report.Instrument != s.instrument.PrimaryKey() {
		return
	}
	if !report.Status.IsFilled() {
		return
	}

	s.algorithm.UnquoteSide(s.instrument, report.Verb)

	if s.params.DisableOnHit {
		s.autoEnableSideTime = true
		logs.Infof("disable %s side at %s", report.Verb, s.algorithm.CurrentTime())
		s.sideActive[report.Verb] = false
	}
}

// checkSideDisable re-enables disabled sides whose last fill is older
// than the cool-down.
func (s *Strategy) checkSideDisable(now int64) {
	if !s.autoEnableSideTime {
		return
	}
	manager := s.algorithm.InstrumentManager(s.instrument.PrimaryKey())
	for verb, active := range s.sideActive {
		if active {
			continue
		}
		disableTime, _ := manager.LastTradeTimestamp(verb)
		if now-disableTime > stopTradeSideMillis {
			logs.Infof("enable side %s at %s", verb, s.algorithm.CurrentTime())
			s.sideActive[verb] = true
		}
	}
}

// calculateK estimates the arrival intensity from the trailing per-minute
// counters: k = last / ((last - previous_n) / previous_n).
func (s *Strategy) calculateK(counters *ring.Buffer[int64]) float64 {
	if s.params.KDefault != nil {
		return *s.params.KDefault
	}
	if counters.Len() < s.params.MinutesChangeK+1 {
		return 0
	}
	lastCount := float64(counters.At(counters.Len() - 1))
	initialCount := float64(counters.At(counters.Len() - 1 - s.params.MinutesChangeK))
	denominator := (lastCount - initialCount) / initialCount
	return lastCount / denominator
}

// varianceMidPrice is the population variance over the full mid window,
// or false until the window fills.
func (s *Strategy) varianceMidPrice() (float64, bool) {
	if !s.midPrices.Full() {
		return 0, false
	}
	values := s.midPrices.Values()
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	sq := 0.0
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(values)), true
}

// timeRemainingFraction is (T-t): the fraction of the operating window
// still ahead.
func (s *Strategy) timeRemainingFraction() float64 {
	hour := s.algorithm.Clock().Now().Hour()
	num := math.Max(float64(s.algorithm.LastHour()-hour), 0)
	den := float64(s.algorithm.LastHour() - s.algorithm.FirstHour())
	return num / den
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
