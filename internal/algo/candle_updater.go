package algo

import (
	"time"

	"main/internal/model"
	"main/internal/model/enum"
)

// CandleUpdater derives time candles from ticks: a 1-minute candle from
// depth mid prices and 1-minute plus 1-hour candles from trade prints. A
// candle closes when the first tick of the next period arrives.
type CandleUpdater struct {
	notify func(*model.Candle)

	minuteTrade candleState
	hourTrade   candleState
	minuteMid   candleState
}

type candleState struct {
	started    bool
	open       float64
	high       float64
	low        float64
	lastPeriod int
}

func NewCandleUpdater(notify func(*model.Candle)) *CandleUpdater {
	return &CandleUpdater{notify: notify}
}

func (u *CandleUpdater) OnDepthUpdate(depth *model.Depth) {
	if !depth.IsFilled() {
		return
	}
	minute := minuteOf(depth.Timestamp)
	if u.minuteMid.started && minute == u.minuteMid.lastPeriod {
		u.minuteMid.accumulate(depth.MidPrice())
		return
	}
	u.roll(&u.minuteMid, enum.CandleMidTimeOneMin, depth.MidPrice(), minute)
}

func (u *CandleUpdater) OnTradeUpdate(trade *model.Trade) {
	minute := minuteOf(trade.Timestamp)
	if u.minuteTrade.started && minute == u.minuteTrade.lastPeriod {
		u.minuteTrade.accumulate(trade.Price)
	} else {
		u.roll(&u.minuteTrade, enum.CandleTimeOneMin, trade.Price, minute)
	}

	hour := hourOf(trade.Timestamp)
	if u.hourTrade.started && hour == u.hourTrade.lastPeriod {
		u.hourTrade.accumulate(trade.Price)
	} else {
		u.roll(&u.hourTrade, enum.CandleTimeOneHour, trade.Price, hour)
	}
}

// roll closes the running candle (if any) at the given price and starts a
// new period from it.
func (u *CandleUpdater) roll(state *candleState, candleType enum.CandleType, price float64, period int) {
	if state.started {
		candle := &model.Candle{
			Type:  candleType,
			Open:  state.open,
			High:  max(state.high, price),
			Low:   min(state.low, price),
			Close: price,
		}
		if u.notify != nil {
			u.notify(candle)
		}
	}
	state.started = true
	state.open = price
	state.high = price
	state.low = price
	state.lastPeriod = period
}

func (s *candleState) accumulate(price float64) {
	s.high = max(s.high, price)
	s.low = min(s.low, price)
}

func minuteOf(millis int64) int {
	t := time.UnixMilli(millis).UTC()
	return t.Hour()*60 + t.Minute()
}

func hourOf(millis int64) int {
	t := time.UnixMilli(millis).UTC()
	return t.Hour()
}
