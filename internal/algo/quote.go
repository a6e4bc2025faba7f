package algo

import (
	"fmt"
	"math"

	"github.com/yanun0323/logs"

	"main/internal/model"
	"main/internal/model/enum"
	"main/pkg/exception"
)

// defaultLimitOrders caps simultaneously pending and active orders per
// instrument. Exceeding it means a runaway quoting loop.
const defaultLimitOrders = 2

// QuoteManager pairs the bid and ask side managers of one instrument and
// validates a combined quote before fanning it out.
//
// All methods assume the owning algorithm's execution lock is held.
type QuoteManager struct {
	algorithm  *Algorithm
	instrument *model.Instrument

	lastQuoteRequest *model.QuoteRequest
	bidSide          *QuoteSideManager
	askSide          *QuoteSideManager
	limitOrders      int
}

func NewQuoteManager(algorithm *Algorithm, instrument *model.Instrument) *QuoteManager {
	return &QuoteManager{
		algorithm:   algorithm,
		instrument:  instrument,
		bidSide:     NewQuoteSideManager(algorithm, instrument, enum.VerbBuy),
		askSide:     NewQuoteSideManager(algorithm, instrument, enum.VerbSell),
		limitOrders: defaultLimitOrders,
	}
}

func (m *QuoteManager) SetLimitOrders(limit int) { m.limitOrders = limit }

func (m *QuoteManager) Reset() {
	m.bidSide.Reset()
	m.askSide.Reset()
}

// QuoteRequest validates and dispatches a combined quote. The bid side
// goes first; the ask side is attempted even when the bid fails, then the
// bid's error is returned.
func (m *QuoteManager) QuoteRequest(quote *model.QuoteRequest) error {
	m.lastQuoteRequest = quote
	if err := m.checkQuoteRequest(quote); err != nil {
		return err
	}

	bidErr := m.bidSide.QuoteRequest(quote)
	if err := m.askSide.QuoteRequest(quote); bidErr == nil && err != nil {
		return err
	}
	return bidErr
}

func (m *QuoteManager) checkQuoteRequest(quote *model.QuoteRequest) error {
	if math.IsNaN(quote.AskPrice) || math.IsInf(quote.AskPrice, 0) {
		return fmt.Errorf("%w: ask %v in %s", exception.ErrQuotePriceNotFinite, quote.AskPrice, m.instrument)
	}
	if math.IsNaN(quote.BidPrice) || math.IsInf(quote.BidPrice, 0) {
		return fmt.Errorf("%w: bid %v in %s", exception.ErrQuotePriceNotFinite, quote.BidPrice, m.instrument)
	}

	manager := m.algorithm.InstrumentManager(m.instrument.PrimaryKey())
	if pending := manager.RequestOrderCount(); pending > m.limitOrders {
		logs.Errorf("%s has %d request orders pending execution report", m.instrument, pending)
		return fmt.Errorf("%w: %d > %d in %s", exception.ErrTooManyPending, pending, m.limitOrders, m.instrument)
	}
	if active := manager.ActiveOrderCount(); active > m.limitOrders {
		logs.Errorf("%s has %d active orders", m.instrument, active)
		return fmt.Errorf("%w: %d > %d in %s", exception.ErrTooManyActive, active, m.limitOrders, m.instrument)
	}
	return nil
}

// OnExecutionReportUpdate fans the report out to both sides.
func (m *QuoteManager) OnExecutionReportUpdate(report *model.ExecutionReport) {
	m.bidSide.OnExecutionReportUpdate(report)
	m.askSide.OnExecutionReportUpdate(report)
}

// Unquote pulls both sides of the quote.
func (m *QuoteManager) Unquote() {
	m.bidSide.UnquoteSide()
	m.askSide.UnquoteSide()
}

// UnquoteSide pulls one side of the quote.
func (m *QuoteManager) UnquoteSide(verb enum.Verb) {
	if verb == enum.VerbBuy {
		m.bidSide.UnquoteSide()
		return
	}
	m.askSide.UnquoteSide()
}
