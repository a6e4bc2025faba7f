package algo

import (
	"fmt"

	"github.com/yanun0323/logs"

	"main/internal/model"
	"main/internal/model/enum"
	"main/pkg/exception"
	"main/pkg/ring"
)

const (
	// maxCancelRejectBeforeClear force-clears a side's active order after
	// this many cancel rejections on the same id; the venue no longer
	// agrees with local state.
	maxCancelRejectBeforeClear = 5

	quoteSideFilledCacheSize = 60
)

// QuoteSideManager is the single-sided order state machine. It keeps at
// most one outstanding request at a time and translates a desired
// (price, quantity) into send, modify or cancel actions.
//
// All methods assume the owning algorithm's execution lock is held.
type QuoteSideManager struct {
	algorithm  *Algorithm
	instrument *model.Instrument
	verb       enum.Verb

	clientOrderIDSent       string
	clientOrderIDSentBackup string
	activeClientOrderID     string
	lastQuoteSent           *model.QuoteRequest
	lastQuoteSentBackup     *model.QuoteRequest

	lastPrice     float64
	lastQuantity  float64
	hasLastQuote  bool
	disablePend   bool
	cfTrades      *ring.Buffer[string]
	cancelRejects map[string]int
}

func NewQuoteSideManager(algorithm *Algorithm, instrument *model.Instrument, verb enum.Verb) *QuoteSideManager {
	m := &QuoteSideManager{
		algorithm:  algorithm,
		instrument: instrument,
		verb:       verb,
	}
	m.Reset()
	return m
}

func (m *QuoteSideManager) Reset() {
	m.clientOrderIDSent = ""
	m.activeClientOrderID = ""
	m.lastQuoteSent = nil
	m.hasLastQuote = false
	m.disablePend = false
	m.cancelRejects = make(map[string]int)
	m.cfTrades = ring.New[string](quoteSideFilledCacheSize)
}

func (m *QuoteSideManager) createOrderRequest(price, quantity float64) *model.OrderRequest {
	return &model.OrderRequest{
		Instrument:        m.instrument.PrimaryKey(),
		Action:            enum.OrderActionSend,
		Verb:              m.verb,
		OrderType:         enum.OrderTypeLimit,
		Price:             price,
		Quantity:          quantity,
		ClientOrderID:     m.algorithm.generateClientOrderID(),
		TimestampCreation: m.algorithm.CurrentTimestamp(),
		AlgorithmID:       m.algorithm.ID(),
	}
}

// QuoteRequest applies this side's slice of the combined quote. It fails
// while a prior request is unacknowledged, on an unchanged (price,
// quantity) pair, and on disabling a side that was never confirmed.
func (m *QuoteSideManager) QuoteRequest(quote *model.QuoteRequest) error {
	if m.clientOrderIDSent != "" {
		return fmt.Errorf("%w: %s side of %s waiting %s",
			exception.ErrPendingRequest, m.verb, m.instrument, m.clientOrderIDSent)
	}

	price, quantity := quote.BidPrice, quote.BidQuantity
	if m.verb == enum.VerbSell {
		price, quantity = quote.AskPrice, quote.AskQuantity
	}

	if m.hasLastQuote && m.lastPrice == price && m.lastQuantity == quantity {
		return fmt.Errorf("%w: %s side of %s %v@%v",
			exception.ErrDuplicateQuote, m.verb, m.instrument, quantity, price)
	}

	req := m.createOrderRequest(price, quantity)
	if m.activeClientOrderID != "" {
		req.Action = enum.OrderActionModify
		req.OrigClientOrderID = m.activeClientOrderID
	}
	if quantity == 0 {
		req.Action = enum.OrderActionCancel
		if m.activeClientOrderID == "" {
			m.disablePend = true
			return fmt.Errorf("%w: %s side of %s", exception.ErrCancelUnconfirmed, m.verb, m.instrument)
		}
		req.OrigClientOrderID = m.activeClientOrderID
	}

	lastQuoteBackup, clientOrderIDBackup := m.lastQuoteSent, m.clientOrderIDSent
	m.lastQuoteSentBackup, m.clientOrderIDSentBackup = lastQuoteBackup, clientOrderIDBackup

	m.lastQuoteSent = quote
	m.clientOrderIDSent = req.ClientOrderID
	m.lastPrice, m.lastQuantity = price, quantity
	m.hasLastQuote = true

	if err := m.algorithm.sendOrderRequestLocked(req); err != nil {
		// roll back so the side can retry next tick
		m.lastQuoteSent = lastQuoteBackup
		m.clientOrderIDSent = clientOrderIDBackup
		m.hasLastQuote = false
		return err
	}
	return nil
}

// UnquoteSide replays the last quote with this side's quantity at zero.
// Failures are swallowed; the side will retry on the next quote.
func (m *QuoteSideManager) UnquoteSide() {
	if m.lastQuoteSent == nil {
		return
	}
	quote := *m.lastQuoteSent
	if m.verb == enum.VerbBuy {
		quote.BidQuantity = 0
	} else {
		quote.AskQuantity = 0
	}
	if err := m.QuoteRequest(&quote); err != nil {
		logs.Debugf("unquote %s side of %s: %+v", m.verb, m.instrument, err)
	}
}

// OnExecutionReportUpdate folds an acknowledgement into the side state.
// Reports for the other side or another instrument are ignored.
func (m *QuoteSideManager) OnExecutionReportUpdate(report *model.ExecutionReport) bool {
	if report.Verb.IsAvailable() && report.Verb != m.verb {
		return false
	}
	if report.Instrument != m.instrument.PrimaryKey() {
		return false
	}

	if report.ClientOrderID == m.clientOrderIDSent {
		m.clientOrderIDSent = ""
	}

	if report.Status.IsActive() {
		if !ring.Contains(m.cfTrades, report.ClientOrderID) {
			m.activeClientOrderID = report.ClientOrderID
			if m.disablePend {
				logs.Debugf("active received for %s, cancelling immediately", m.activeClientOrderID)
				m.disablePend = false
				m.UnquoteSide()
			}
		}
	}

	if report.Status.IsInactive() {
		if m.activeClientOrderID != "" && m.activeClientOrderID == report.ClientOrderID {
			m.clearActive()
		}
		if m.activeClientOrderID != "" && m.activeClientOrderID == report.OrigClientOrderID {
			m.clearActive()
		}
		if report.Status == enum.ReportStatusCompletelyFilled {
			m.cfTrades.Push(report.ClientOrderID)
		}
	}

	if report.Status == enum.ReportStatusCancelRejected {
		counter := m.cancelRejects[report.OrigClientOrderID]
		logs.Warnf("cancel rejected %d times on %s", counter, report.OrigClientOrderID)
		if counter > maxCancelRejectBeforeClear {
			logs.Errorf("cancel rejected %d times on %s, clearing side state", counter, report.OrigClientOrderID)
			m.clearActive()
			delete(m.cancelRejects, report.OrigClientOrderID)
		} else {
			m.cancelRejects[report.OrigClientOrderID] = counter + 1
		}
	}

	return true
}

func (m *QuoteSideManager) clearActive() {
	m.activeClientOrderID = ""
	m.hasLastQuote = false
}

// PendingClientOrderID returns the id of the outstanding request, empty
// when the side is idle.
func (m *QuoteSideManager) PendingClientOrderID() string { return m.clientOrderIDSent }

// ActiveClientOrderID returns the id of the confirmed resting order.
func (m *QuoteSideManager) ActiveClientOrderID() string { return m.activeClientOrderID }
