package algo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/clock"
	"main/internal/connector"
	"main/internal/model"
	"main/internal/model/enum"
	"main/internal/ops"
	"main/pkg/exception"
)

// fakeEngine records dispatched requests. Reports are injected by the
// tests directly; a real venue answers asynchronously anyway.
type fakeEngine struct {
	requests []*model.OrderRequest
	failNext bool
	listener connector.ExecutionReportListener
}

func (e *fakeEngine) Register(_ string, listener connector.ExecutionReportListener) {
	e.listener = listener
}

func (e *fakeEngine) OrderRequest(req *model.OrderRequest) error {
	if e.failNext {
		e.failNext = false
		return errors.New("engine unavailable")
	}
	e.requests = append(e.requests, req)
	return nil
}

func (e *fakeEngine) lastRequest() *model.OrderRequest {
	if len(e.requests) == 0 {
		return nil
	}
	return e.requests[len(e.requests)-1]
}

func testInstrument() *model.Instrument {
	ins := model.NewInstrument("btcusdt", "binance", "")
	model.RegisterInstrument(ins)
	return ins
}

func millisAt(day, hour int) int64 {
	return time.Date(2026, 8, day, hour, 0, 0, 0, time.UTC).UnixMilli()
}

func newTestAlgorithm(t *testing.T, params ops.Params) (*Algorithm, *fakeEngine, *clock.Replay) {
	t.Helper()
	engine := &fakeEngine{}
	replay := clock.NewReplay()
	replay.Advance(millisAt(28, 11))
	a := New(Config{
		ID:         "test-algo",
		Parameters: params,
		Clock:      replay,
		Engine:     engine,
	})
	a.Init()
	return a, engine, replay
}

func sendOrder(ins *model.Instrument, id string, verb enum.Verb, qty, price float64) *model.OrderRequest {
	return &model.OrderRequest{
		Instrument:    ins.PrimaryKey(),
		Action:        enum.OrderActionSend,
		Verb:          verb,
		OrderType:     enum.OrderTypeLimit,
		Price:         price,
		Quantity:      qty,
		ClientOrderID: id,
	}
}

func report(ins *model.Instrument, id, origID string, status enum.ReportStatus, verb enum.Verb, qty, price float64) *model.ExecutionReport {
	r := &model.ExecutionReport{
		Instrument:        ins.PrimaryKey(),
		Status:            status,
		Verb:              verb,
		Price:             price,
		Quantity:          qty,
		ClientOrderID:     id,
		OrigClientOrderID: origID,
		TimestampCreation: millisAt(28, 11),
		AlgorithmID:       "test-algo",
	}
	if status.IsFilled() {
		r.LastQuantity = qty
	}
	return r
}

func TestLifecycleTransitions(t *testing.T) {
	testInstrument()
	a, _, _ := newTestAlgorithm(t, ops.Params{})

	assert.Equal(t, StateInitialized, a.State())
	a.Init() // second init warns and does nothing
	assert.Equal(t, StateInitialized, a.State())

	a.Start()
	assert.Equal(t, StateStarted, a.State())

	a.Stop()
	assert.Equal(t, StateStopped, a.State())

	a.Start() // restartable after stop
	assert.Equal(t, StateStarted, a.State())
}

func TestSendOrderRequiresStarted(t *testing.T) {
	ins := testInstrument()
	a, engine, _ := newTestAlgorithm(t, ops.Params{})

	err := a.SendOrderRequest(sendOrder(ins, "o1", enum.VerbBuy, 1, 100))
	assert.ErrorIs(t, err, exception.ErrAlgoNotStarted)
	assert.Empty(t, engine.requests)
}

func TestSendOrderValidation(t *testing.T) {
	ins := testInstrument()
	a, _, _ := newTestAlgorithm(t, ops.Params{})
	a.Start()

	err := a.SendOrderRequest(&model.OrderRequest{Instrument: ins.PrimaryKey()})
	assert.ErrorIs(t, err, exception.ErrMissingAction)

	err = a.SendOrderRequest(&model.OrderRequest{
		Instrument: ins.PrimaryKey(),
		Action:     enum.OrderActionSend,
		Verb:       enum.VerbBuy,
	})
	assert.ErrorIs(t, err, exception.ErrMissingOrderType)

	err = a.SendOrderRequest(&model.OrderRequest{
		Instrument: ins.PrimaryKey(),
		Action:     enum.OrderActionSend,
		OrderType:  enum.OrderTypeLimit,
	})
	assert.ErrorIs(t, err, exception.ErrMissingVerb)

	err = a.SendOrderRequest(&model.OrderRequest{
		Instrument: ins.PrimaryKey(),
		Action:     enum.OrderActionCancel,
	})
	assert.ErrorIs(t, err, exception.ErrMissingOrigClOrdID)

	err = a.SendOrderRequest(&model.OrderRequest{
		Instrument:        ins.PrimaryKey(),
		Action:            enum.OrderActionCancel,
		OrigClientOrderID: "never-seen",
	})
	assert.ErrorIs(t, err, exception.ErrOrigClOrdIDNotActive)
}

func TestOrderAcknowledgementMovesPendingToActive(t *testing.T) {
	ins := testInstrument()
	a, engine, _ := newTestAlgorithm(t, ops.Params{})
	a.Start()

	require.NoError(t, a.SendOrderRequest(sendOrder(ins, "o1", enum.VerbBuy, 1, 100)))
	manager := a.InstrumentManager(ins.PrimaryKey())
	assert.Equal(t, 1, manager.RequestOrderCount())
	assert.Equal(t, 0, manager.ActiveOrderCount())
	require.Len(t, engine.requests, 1)

	a.OnExecutionReportUpdate(report(ins, "o1", "", enum.ReportStatusActive, enum.VerbBuy, 1, 100))
	assert.Equal(t, 0, manager.RequestOrderCount())
	assert.True(t, manager.HasActiveOrder("o1"))

	a.OnExecutionReportUpdate(report(ins, "o1", "", enum.ReportStatusCancelled, enum.VerbBuy, 1, 100))
	assert.Equal(t, 0, manager.ActiveOrderCount())
}

func TestModifyAckReplacesOriginalOrder(t *testing.T) {
	ins := testInstrument()
	a, _, _ := newTestAlgorithm(t, ops.Params{})
	a.Start()
	manager := a.InstrumentManager(ins.PrimaryKey())

	a.OnExecutionReportUpdate(report(ins, "o1", "", enum.ReportStatusActive, enum.VerbBuy, 1, 100))
	a.OnExecutionReportUpdate(report(ins, "o2", "o1", enum.ReportStatusActive, enum.VerbBuy, 1, 101))

	assert.False(t, manager.HasActiveOrder("o1"))
	assert.True(t, manager.HasActiveOrder("o2"))
	assert.Equal(t, 1, manager.ActiveOrderCount())
}

func TestLateActiveAfterCompleteFillIgnored(t *testing.T) {
	ins := testInstrument()
	a, _, _ := newTestAlgorithm(t, ops.Params{})
	a.Start()
	manager := a.InstrumentManager(ins.PrimaryKey())

	a.OnExecutionReportUpdate(report(ins, "o1", "", enum.ReportStatusCompletelyFilled, enum.VerbBuy, 1, 100))
	assert.Equal(t, 1.0, manager.Position())

	// out of order ack arriving after the fill must not resurrect the order
	a.OnExecutionReportUpdate(report(ins, "o1", "", enum.ReportStatusActive, enum.VerbBuy, 1, 100))
	assert.False(t, manager.HasActiveOrder("o1"))
}

func TestCancelRejectedNotFoundCorrectsLocalState(t *testing.T) {
	ins := testInstrument()
	a, _, _ := newTestAlgorithm(t, ops.Params{})
	a.Start()
	manager := a.InstrumentManager(ins.PrimaryKey())

	a.OnExecutionReportUpdate(report(ins, "o1", "", enum.ReportStatusActive, enum.VerbBuy, 1, 100))
	require.True(t, manager.HasActiveOrder("o1"))

	rejected := report(ins, "c1", "o1", enum.ReportStatusCancelRejected, enum.VerbBuy, 1, 100)
	rejected.RejectReason = "order not found for o1"
	a.OnExecutionReportUpdate(rejected)

	assert.False(t, manager.HasActiveOrder("o1"))
}

func TestCancelAllQueuesUnacknowledgedOrders(t *testing.T) {
	ins := testInstrument()
	a, engine, _ := newTestAlgorithm(t, ops.Params{})
	a.Start()

	require.NoError(t, a.SendOrderRequest(sendOrder(ins, "o1", enum.VerbBuy, 1, 100)))
	require.Len(t, engine.requests, 1)

	// nothing is active yet, so nothing to cancel right now
	a.CancelAll(ins)
	require.Len(t, engine.requests, 1)

	// the ack triggers the deferred cancel
	a.OnExecutionReportUpdate(report(ins, "o1", "", enum.ReportStatusActive, enum.VerbBuy, 1, 100))
	require.Len(t, engine.requests, 2)
	cancel := engine.lastRequest()
	assert.Equal(t, enum.OrderActionCancel, cancel.Action)
	assert.Equal(t, "o1", cancel.OrigClientOrderID)
}

func TestFillsUpdatePositionAndPnl(t *testing.T) {
	ins := testInstrument()
	a, _, _ := newTestAlgorithm(t, ops.Params{})
	a.Start()

	a.OnExecutionReportUpdate(report(ins, "b1", "", enum.ReportStatusCompletelyFilled, enum.VerbBuy, 2, 100))
	assert.Equal(t, 2.0, a.Position(ins))

	// a replayed report must not double-count the position or the trades
	a.OnExecutionReportUpdate(report(ins, "b1", "", enum.ReportStatusCompletelyFilled, enum.VerbBuy, 2, 100))
	assert.Equal(t, 2.0, a.Position(ins))

	a.OnExecutionReportUpdate(report(ins, "s1", "", enum.ReportStatusCompletelyFilled, enum.VerbSell, 2, 101))
	assert.Equal(t, 0.0, a.Position(ins))

	snapshot := a.PnlSnapshot(ins.PrimaryKey())
	require.NotNil(t, snapshot)
	assert.InDelta(t, 2.0, snapshot.RealizedPnl, 1e-9)
	assert.Equal(t, 2, snapshot.NumberOfTrades)
}

func TestOperationalHoursGateMarketData(t *testing.T) {
	ins := testInstrument()
	a, _, _ := newTestAlgorithm(t, ops.Params{"first_hour": "10", "last_hour": "12"})

	depth := &model.Depth{
		Instrument:    ins.PrimaryKey(),
		Timestamp:     millisAt(28, 8),
		Bids:          []float64{100},
		BidQuantities: []float64{1},
		Asks:          []float64{101},
		AskQuantities: []float64{1},
	}
	assert.False(t, a.OnDepthUpdate(depth))
	assert.Nil(t, a.LastDepth(ins))
	assert.NotEqual(t, StateStarted, a.State())

	depth.Timestamp = millisAt(28, 11)
	assert.True(t, a.OnDepthUpdate(depth))
	assert.Equal(t, StateStarted, a.State())
	assert.Equal(t, depth, a.LastDepth(ins))
}

func TestDayRolloverResetsOrderStateKeepsPosition(t *testing.T) {
	ins := testInstrument()
	a, _, _ := newTestAlgorithm(t, ops.Params{"first_hour": "10", "last_hour": "12"})
	manager := a.InstrumentManager(ins.PrimaryKey())

	inWindow := &model.Depth{
		Instrument:    ins.PrimaryKey(),
		Timestamp:     millisAt(28, 11),
		Bids:          []float64{100},
		BidQuantities: []float64{1},
		Asks:          []float64{101},
		AskQuantities: []float64{1},
	}
	require.True(t, a.OnDepthUpdate(inWindow))
	a.OnExecutionReportUpdate(report(ins, "o1", "", enum.ReportStatusPartialFilled, enum.VerbBuy, 1, 100))
	require.True(t, manager.HasActiveOrder("o1"))
	require.Equal(t, 1.0, manager.Position())

	afterHours := *inWindow
	afterHours.Timestamp = millisAt(28, 13)
	assert.False(t, a.OnDepthUpdate(&afterHours))
	require.True(t, manager.HasActiveOrder("o1"))

	nextDay := *inWindow
	nextDay.Timestamp = millisAt(29, 13)
	assert.False(t, a.OnDepthUpdate(&nextDay))

	assert.Equal(t, 0, manager.ActiveOrderCount())
	assert.Equal(t, 1.0, manager.Position(), "position must survive the daily reset")
}

func TestCommandStartStop(t *testing.T) {
	testInstrument()
	a, _, _ := newTestAlgorithm(t, ops.Params{})

	assert.True(t, a.OnCommandUpdate(&model.Command{Type: enum.CommandStart, Timestamp: millisAt(28, 11)}))
	assert.Equal(t, StateStarted, a.State())

	assert.True(t, a.OnCommandUpdate(&model.Command{Type: enum.CommandStop, Timestamp: millisAt(28, 11)}))
	assert.Equal(t, StateStopped, a.State())
}

func TestObserverReceivesOrderFlow(t *testing.T) {
	ins := testInstrument()
	a, _, _ := newTestAlgorithm(t, ops.Params{})
	a.Start()

	var requests []*model.OrderRequest
	var reports []*model.ExecutionReport
	observer := &flowObserver{
		onRequest: func(r *model.OrderRequest) { requests = append(requests, r) },
		onReport:  func(r *model.ExecutionReport) { reports = append(reports, r) },
	}
	a.Register(observer)

	require.NoError(t, a.SendOrderRequest(sendOrder(ins, "o1", enum.VerbBuy, 1, 100)))
	a.OnExecutionReportUpdate(report(ins, "o1", "", enum.ReportStatusActive, enum.VerbBuy, 1, 100))
	assert.Len(t, requests, 1)
	assert.Len(t, reports, 1)

	a.Deregister(observer)
	a.OnExecutionReportUpdate(report(ins, "o1", "", enum.ReportStatusCancelled, enum.VerbBuy, 1, 100))
	assert.Len(t, reports, 1)
}

type flowObserver struct {
	NopObserver
	onRequest func(*model.OrderRequest)
	onReport  func(*model.ExecutionReport)
}

func (o *flowObserver) OnOrderRequest(r *model.OrderRequest) { o.onRequest(r) }

func (o *flowObserver) OnExecutionReport(r *model.ExecutionReport) { o.onReport(r) }
