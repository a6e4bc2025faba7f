package algo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/model"
	"main/internal/model/enum"
	"main/internal/ops"
	"main/pkg/exception"
)

func quoteOn(a *Algorithm, ins *model.Instrument, bidPrice, bidQty, askPrice, askQty float64) *model.QuoteRequest {
	quote := a.NewQuoteRequest(ins)
	quote.Action = enum.QuoteActionOn
	quote.BidPrice = bidPrice
	quote.BidQuantity = bidQty
	quote.AskPrice = askPrice
	quote.AskQuantity = askQty
	return quote
}

func startedQuoter(t *testing.T) (*Algorithm, *fakeEngine, *model.Instrument) {
	t.Helper()
	ins := testInstrument()
	a, engine, _ := newTestAlgorithm(t, ops.Params{})
	a.Start()
	return a, engine, ins
}

func ackActive(a *Algorithm, ins *model.Instrument, req *model.OrderRequest) {
	a.OnExecutionReportUpdate(report(ins, req.ClientOrderID, req.OrigClientOrderID,
		enum.ReportStatusActive, req.Verb, req.Quantity, req.Price))
}

func TestQuoteSendsBothSides(t *testing.T) {
	a, engine, ins := startedQuoter(t)

	require.NoError(t, a.SendQuoteRequest(quoteOn(a, ins, 99, 1, 101, 1)))
	require.Len(t, engine.requests, 2)

	bid, ask := engine.requests[0], engine.requests[1]
	assert.Equal(t, enum.OrderActionSend, bid.Action)
	assert.Equal(t, enum.VerbBuy, bid.Verb)
	assert.Equal(t, 99.0, bid.Price)
	assert.Equal(t, enum.VerbSell, ask.Verb)
	assert.Equal(t, 101.0, ask.Price)
}

func TestQuoteRequiresStarted(t *testing.T) {
	ins := testInstrument()
	a, _, _ := newTestAlgorithm(t, ops.Params{})

	err := a.SendQuoteRequest(quoteOn(a, ins, 99, 1, 101, 1))
	assert.ErrorIs(t, err, exception.ErrAlgoNotStarted)
}

func TestQuoteBlockedWhilePending(t *testing.T) {
	a, engine, ins := startedQuoter(t)

	require.NoError(t, a.SendQuoteRequest(quoteOn(a, ins, 99, 1, 101, 1)))
	err := a.SendQuoteRequest(quoteOn(a, ins, 98, 1, 100, 1))
	assert.ErrorIs(t, err, exception.ErrPendingRequest)
	assert.Len(t, engine.requests, 2, "no new orders while the acks are outstanding")
}

func TestQuoteModifiesAfterAcknowledgement(t *testing.T) {
	a, engine, ins := startedQuoter(t)

	require.NoError(t, a.SendQuoteRequest(quoteOn(a, ins, 99, 1, 101, 1)))
	bid, ask := engine.requests[0], engine.requests[1]
	ackActive(a, ins, bid)
	ackActive(a, ins, ask)

	require.NoError(t, a.SendQuoteRequest(quoteOn(a, ins, 98, 1, 102, 1)))
	require.Len(t, engine.requests, 4)

	modifyBid, modifyAsk := engine.requests[2], engine.requests[3]
	assert.Equal(t, enum.OrderActionModify, modifyBid.Action)
	assert.Equal(t, bid.ClientOrderID, modifyBid.OrigClientOrderID)
	assert.Equal(t, enum.OrderActionModify, modifyAsk.Action)
	assert.Equal(t, ask.ClientOrderID, modifyAsk.OrigClientOrderID)
}

func TestDuplicateQuoteRejected(t *testing.T) {
	a, engine, ins := startedQuoter(t)

	require.NoError(t, a.SendQuoteRequest(quoteOn(a, ins, 99, 1, 101, 1)))
	ackActive(a, ins, engine.requests[0])
	ackActive(a, ins, engine.requests[1])

	err := a.SendQuoteRequest(quoteOn(a, ins, 99, 1, 101, 1))
	assert.ErrorIs(t, err, exception.ErrDuplicateQuote)
	assert.Len(t, engine.requests, 2)
}

func TestUnquoteCancelsBothSides(t *testing.T) {
	a, engine, ins := startedQuoter(t)

	require.NoError(t, a.SendQuoteRequest(quoteOn(a, ins, 99, 1, 101, 1)))
	bid, ask := engine.requests[0], engine.requests[1]
	ackActive(a, ins, bid)
	ackActive(a, ins, ask)

	a.Unquote(ins)
	require.Len(t, engine.requests, 4)
	assert.Equal(t, enum.OrderActionCancel, engine.requests[2].Action)
	assert.Equal(t, bid.ClientOrderID, engine.requests[2].OrigClientOrderID)
	assert.Equal(t, enum.OrderActionCancel, engine.requests[3].Action)
	assert.Equal(t, ask.ClientOrderID, engine.requests[3].OrigClientOrderID)
}

func TestUnquoteBeforeConfirmationDefersCancel(t *testing.T) {
	a, engine, ins := startedQuoter(t)
	qm := a.QuoteManager(ins.PrimaryKey())

	// disabling a side that was never confirmed cannot cancel anything yet
	err := a.SendQuoteRequest(quoteOn(a, ins, 99, 0, 101, 1))
	assert.ErrorIs(t, err, exception.ErrCancelUnconfirmed)
	require.Len(t, engine.requests, 1, "ask side still quotes")

	// the next bid goes out and is pulled as soon as the venue confirms it
	_ = a.SendQuoteRequest(quoteOn(a, ins, 99.5, 1, 101, 1))
	bid := engine.lastRequest()
	require.Equal(t, enum.VerbBuy, bid.Verb)

	ackActive(a, ins, bid)
	cancel := engine.lastRequest()
	assert.Equal(t, enum.OrderActionCancel, cancel.Action)
	assert.Equal(t, bid.ClientOrderID, cancel.OrigClientOrderID)
	assert.NotEmpty(t, qm.bidSide.PendingClientOrderID())
}

func TestQuoteRollbackOnDispatchFailure(t *testing.T) {
	a, engine, ins := startedQuoter(t)
	engine.failNext = true

	err := a.SendQuoteRequest(quoteOn(a, ins, 99, 1, 101, 1))
	require.Error(t, err)
	require.Len(t, engine.requests, 1, "only the ask reached the engine")

	// the bid side rolled back, so the same bid can be retried
	err = a.SendQuoteRequest(quoteOn(a, ins, 99, 1, 101, 1))
	assert.ErrorIs(t, err, exception.ErrPendingRequest, "ask is still waiting its ack")
	require.Len(t, engine.requests, 2)
	retried := engine.lastRequest()
	assert.Equal(t, enum.VerbBuy, retried.Verb)
	assert.Equal(t, 99.0, retried.Price)
}

func TestCancelRejectStormClearsSideState(t *testing.T) {
	a, engine, ins := startedQuoter(t)
	qm := a.QuoteManager(ins.PrimaryKey())

	require.NoError(t, a.SendQuoteRequest(quoteOn(a, ins, 99, 1, 101, 1)))
	bid := engine.requests[0]
	ackActive(a, ins, bid)
	require.Equal(t, bid.ClientOrderID, qm.bidSide.ActiveClientOrderID())

	for i := 0; i < 7; i++ {
		rejected := report(ins, "c1", bid.ClientOrderID, enum.ReportStatusCancelRejected, enum.VerbBuy, 1, 99)
		rejected.RejectReason = "venue busy"
		a.OnExecutionReportUpdate(rejected)
	}
	assert.Empty(t, qm.bidSide.ActiveClientOrderID(), "repeated rejects force-clear the side")
}

func TestQuoteRejectsNonFinitePrices(t *testing.T) {
	a, engine, ins := startedQuoter(t)

	quote := quoteOn(a, ins, 99, 1, 101, 1)
	quote.AskPrice = math.NaN()
	err := a.SendQuoteRequest(quote)
	assert.ErrorIs(t, err, exception.ErrQuotePriceNotFinite)
	assert.Empty(t, engine.requests)
}

func TestQuoteRejectsTooManyActiveOrders(t *testing.T) {
	a, engine, ins := startedQuoter(t)

	for _, id := range []string{"a1", "a2", "a3"} {
		a.OnExecutionReportUpdate(report(ins, id, "", enum.ReportStatusActive, enum.VerbBuy, 1, 100))
	}
	err := a.SendQuoteRequest(quoteOn(a, ins, 99, 1, 101, 1))
	assert.ErrorIs(t, err, exception.ErrTooManyActive)
	assert.Empty(t, engine.requests)
}
