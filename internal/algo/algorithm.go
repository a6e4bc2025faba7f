// Package algo implements the order/quote lifecycle manager: the algorithm
// state machine, per-instrument order caches, the per-side quote managers
// and the execution report reconciliation that keeps them consistent.
package algo

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/yanun0323/logs"

	"main/internal/clock"
	"main/internal/connector"
	"main/internal/model"
	"main/internal/model/enum"
	"main/internal/ops"
	"main/internal/pnl"
	"main/internal/risk"
	"main/internal/strategy"
	"main/pkg/exception"
)

// rejectionNotFound marks a CancelRejected report whose referenced order
// the venue does not know. Local active-order state is corrected to match.
const rejectionNotFound = "not found for"

const (
	firstHourDefault = -1
	lastHourDefault  = 25
)

// stopUnwindDelay lets in-flight acknowledgements land after a live stop.
const stopUnwindDelay = 200 * time.Millisecond

// State is the algorithm lifecycle state.
type State int32

const (
	StateNotInitialized State = iota
	StateInitializing
	StateInitialized
	StateStarting
	StateStarted
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNotInitialized:
		return "not_initialized"
	case StateInitializing:
		return "initializing"
	case StateInitialized:
		return "initialized"
	case StateStarting:
		return "starting"
	case StateStarted:
		return "started"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Config wires an algorithm to its collaborators.
type Config struct {
	ID         string
	Parameters ops.Params
	Clock      clock.Clock
	MarketData connector.MarketDataProvider
	Engine     connector.TradingEngine
	Portfolio  *pnl.Portfolio
	Risk       *risk.Engine
}

// Algorithm orchestrates market data ingestion, order dispatch and
// execution report reconciliation for a set of instruments. One instance
// per running strategy.
type Algorithm struct {
	id                string
	defaultParameters ops.Params
	parameters        ops.Params

	clock      clock.Clock
	marketData connector.MarketDataProvider
	engine     connector.TradingEngine
	portfolio  *pnl.Portfolio
	risk       *risk.Engine
	strategy   strategy.Strategy
	candles    *CandleUpdater

	state atomic.Int32

	// execMu serializes execution report reconciliation and every order
	// decision point that reads or mutates the active/pending maps.
	execMu           sync.Mutex
	cancelWhenActive map[string]*model.OrderRequest
	firstHour        int
	lastHour         int
	lastCurrentDay   int
	depthReceived    atomic.Int64
	tradeReceived    atomic.Int64

	cacheMu       sync.RWMutex
	instruments   map[string]*InstrumentManager
	quoteManagers map[string]*QuoteManager

	observerMu sync.RWMutex
	observers  []Observer
}

// New builds an algorithm in NOT_INITIALIZED state.
func New(cfg Config) *Algorithm {
	a := &Algorithm{
		id:                cfg.ID,
		defaultParameters: cfg.Parameters,
		clock:             cfg.Clock,
		marketData:        cfg.MarketData,
		engine:            cfg.Engine,
		portfolio:         cfg.Portfolio,
		risk:              cfg.Risk,
		cancelWhenActive:  make(map[string]*model.OrderRequest),
		instruments:       make(map[string]*InstrumentManager),
		quoteManagers:     make(map[string]*QuoteManager),
	}
	if a.clock == nil {
		a.clock = clock.NewWall()
	}
	if a.portfolio == nil {
		a.portfolio = pnl.NewPortfolio(nil)
	}
	if a.defaultParameters == nil {
		a.defaultParameters = ops.Params{}
	}
	a.candles = NewCandleUpdater(a.onCandle)
	a.state.Store(int32(StateNotInitialized))
	a.Reset()
	return a
}

func (a *Algorithm) ID() string                { return a.id }
func (a *Algorithm) State() State              { return State(a.state.Load()) }
func (a *Algorithm) Clock() clock.Clock        { return a.clock }
func (a *Algorithm) Portfolio() *pnl.Portfolio { return a.portfolio }
func (a *Algorithm) Parameters() ops.Params    { return a.parameters }

// FirstHour and LastHour bound the operating window, both inclusive, UTC.
func (a *Algorithm) FirstHour() int { return a.firstHour }
func (a *Algorithm) LastHour() int  { return a.lastHour }

// SetStrategy attaches the strategy receiving the update hooks. Must be
// called before Init.
func (a *Algorithm) SetStrategy(s strategy.Strategy) { a.strategy = s }

// Init registers with the trading engine and the market data provider.
// Calling it twice warns and does nothing.
func (a *Algorithm) Init() {
	if a.State() != StateNotInitialized {
		logs.Warnf("trying to init already initialized %s", a.id)
		return
	}
	a.state.Store(int32(StateInitializing))
	logs.Infof("[%s] initializing algorithm %s", a.CurrentTime(), a.id)
	if a.engine != nil {
		a.engine.Register(a.id, a)
	}
	if a.marketData != nil {
		a.marketData.Register(a)
	}
	a.Reset()
	a.state.Store(int32(StateInitialized))
	logs.Infof("[%s] initialized %s", a.CurrentTime(), a.id)
}

// Start moves the algorithm to STARTED from INITIALIZED or STOPPED.
func (a *Algorithm) Start() {
	state := a.State()
	if state == StateInitialized || state == StateStopped {
		a.state.Store(int32(StateStarting))
		logs.Infof("[%s] starting algorithm %s", a.CurrentTime(), a.id)
		a.state.Store(int32(StateStarted))
	}
}

// Stop unwinds live exposure: every instrument is unquoted and all active
// orders cancelled, after a short delay for in-flight acknowledgements.
func (a *Algorithm) Stop() {
	if a.State() != StateStarted {
		return
	}
	a.state.Store(int32(StateStopping))
	logs.Infof("[%s] stopping algorithm %s", a.CurrentTime(), a.id)
	a.state.Store(int32(StateStopped))
	a.clock.Sleep(stopUnwindDelay)

	for _, manager := range a.instrumentManagers() {
		instrument := manager.Instrument()
		a.execMu.Lock()
		a.quoteManagerLocked(instrument).Unquote()
		a.cancelAllLocked(instrument)
		a.execMu.Unlock()
	}
}

// Reset clears order state and restores default parameters. The portfolio
// history is deliberately kept; it is the audit trail.
func (a *Algorithm) Reset() {
	logs.Infof("[%s] reset algorithm %s", a.CurrentTime(), a.id)
	a.execMu.Lock()
	a.cancelWhenActive = make(map[string]*model.OrderRequest)
	a.execMu.Unlock()

	for _, manager := range a.instrumentManagers() {
		manager.Reset()
	}
	a.cacheMu.RLock()
	for _, qm := range a.quoteManagers {
		qm.Reset()
	}
	a.cacheMu.RUnlock()

	params := ops.Params{}
	for k, v := range a.defaultParameters {
		params[k] = v
	}
	a.SetParameters(params)
	a.depthReceived.Store(0)
	a.tradeReceived.Store(0)
}

// SetParameters replaces the parameter bag and re-reads the operating
// hours. Observers are notified.
func (a *Algorithm) SetParameters(params ops.Params) {
	a.parameters = params
	first, err := params.IntOr("first_hour", firstHourDefault)
	if err != nil {
		logs.Warnf("invalid first_hour: %+v", err)
		first = firstHourDefault
	}
	last, err := params.IntOr("last_hour", lastHourDefault)
	if err != nil {
		logs.Warnf("invalid last_hour: %+v", err)
		last = lastHourDefault
	}
	a.firstHour, a.lastHour = first, last
	if first != firstHourDefault || last != lastHourDefault {
		logs.Infof("%s operates between %d and %d UTC, both included", a.id, first, last)
	}
	a.notifyParams(params)
}

// SetParameter updates a single parameter.
func (a *Algorithm) SetParameter(name, value string) {
	a.parameters[name] = value
	a.notifyParams(a.parameters)
}

// Register adds an observer to the fan-out list.
func (a *Algorithm) Register(observer Observer) {
	a.observerMu.Lock()
	defer a.observerMu.Unlock()
	a.observers = append(a.observers, observer)
}

// Deregister removes an observer.
func (a *Algorithm) Deregister(observer Observer) {
	a.observerMu.Lock()
	defer a.observerMu.Unlock()
	for i, o := range a.observers {
		if o == observer {
			a.observers = append(a.observers[:i], a.observers[i+1:]...)
			return
		}
	}
}

// InstrumentManager resolves (lazily creating) the per-instrument cache.
func (a *Algorithm) InstrumentManager(instrumentPk string) *InstrumentManager {
	a.cacheMu.RLock()
	manager, ok := a.instruments[instrumentPk]
	a.cacheMu.RUnlock()
	if ok {
		return manager
	}

	a.cacheMu.Lock()
	defer a.cacheMu.Unlock()
	if manager, ok = a.instruments[instrumentPk]; ok {
		return manager
	}
	instrument, ok := model.GetInstrument(instrumentPk)
	if !ok {
		logs.Warnf("unknown instrument %s, registering bare", instrumentPk)
		instrument = model.NewInstrument(instrumentPk, "", "")
		model.RegisterInstrument(instrument)
	}
	manager = NewInstrumentManager(instrument)
	a.instruments[instrumentPk] = manager
	return manager
}

// QuoteManager resolves (lazily creating) the per-instrument quote pair.
func (a *Algorithm) QuoteManager(instrumentPk string) *QuoteManager {
	a.cacheMu.RLock()
	qm, ok := a.quoteManagers[instrumentPk]
	a.cacheMu.RUnlock()
	if ok {
		return qm
	}

	instrument := a.InstrumentManager(instrumentPk).Instrument()
	a.cacheMu.Lock()
	defer a.cacheMu.Unlock()
	if qm, ok = a.quoteManagers[instrumentPk]; ok {
		return qm
	}
	qm = NewQuoteManager(a, instrument)
	a.quoteManagers[instrumentPk] = qm
	return qm
}

func (a *Algorithm) quoteManagerLocked(instrument *model.Instrument) *QuoteManager {
	return a.QuoteManager(instrument.PrimaryKey())
}

func (a *Algorithm) instrumentManagers() []*InstrumentManager {
	a.cacheMu.RLock()
	defer a.cacheMu.RUnlock()
	out := make([]*InstrumentManager, 0, len(a.instruments))
	for _, m := range a.instruments {
		out = append(out, m)
	}
	return out
}

// Position returns the net position of an instrument.
func (a *Algorithm) Position(instrument *model.Instrument) float64 {
	return a.InstrumentManager(instrument.PrimaryKey()).Position()
}

// LastDepth returns the last cached depth of an instrument.
func (a *Algorithm) LastDepth(instrument *model.Instrument) *model.Depth {
	return a.InstrumentManager(instrument.PrimaryKey()).LastDepth()
}

// PnlSnapshot returns the portfolio snapshot of an instrument.
func (a *Algorithm) PnlSnapshot(instrumentPk string) *pnl.Snapshot {
	return a.portfolio.Snapshot(instrumentPk)
}

// SetCustomColumn attaches a diagnostic value to the instrument's P&L rows.
func (a *Algorithm) SetCustomColumn(instrumentPk, key string, value float64) {
	a.portfolio.SetCustomColumn(instrumentPk, key, value)
}

func (a *Algorithm) CurrentTime() time.Time  { return a.clock.Now() }
func (a *Algorithm) CurrentTimestamp() int64 { return a.clock.NowMillis() }

func (a *Algorithm) generateClientOrderID() string { return uuid.NewString() }

// NewQuoteRequest seeds a quote request for an instrument.
func (a *Algorithm) NewQuoteRequest(instrument *model.Instrument) *model.QuoteRequest {
	return &model.QuoteRequest{Instrument: instrument, AlgorithmID: a.id}
}

// CreateCancel builds a cancel request referencing an order by client id.
func (a *Algorithm) CreateCancel(instrument *model.Instrument, origClientOrderID string) *model.OrderRequest {
	return &model.OrderRequest{
		Instrument:        instrument.PrimaryKey(),
		Action:            enum.OrderActionCancel,
		OrigClientOrderID: origClientOrderID,
		ClientOrderID:     a.generateClientOrderID(),
		TimestampCreation: a.CurrentTimestamp(),
		AlgorithmID:       a.id,
	}
}

// inOperationalTime reports whether the current UTC hour is inside the
// configured window. Defaults cover every hour.
func (a *Algorithm) inOperationalTime() bool {
	hour := clock.HourUTC(a.clock)
	return hour >= a.firstHour && hour <= a.lastHour
}

// checkOperationalTime starts or stops the algorithm to match the window
// and resets order state on UTC day rollover.
func (a *Algorithm) checkOperationalTime() bool {
	if a.inOperationalTime() {
		a.Start()
		return true
	}
	a.Stop()

	day := clock.DayUTC(a.clock)
	if a.lastCurrentDay == 0 {
		a.lastCurrentDay = day
	}
	if a.lastCurrentDay != day {
		logs.Info("change of day detected, reset")
		a.lastCurrentDay = day
		a.Reset()
	}
	return false
}

// OnDepthUpdate ingests an order book snapshot. It returns false outside
// operating hours, in which case no caches are touched.
func (a *Algorithm) OnDepthUpdate(depth *model.Depth) bool {
	a.candles.OnDepthUpdate(depth)
	a.clock.Advance(depth.Timestamp)

	if !a.checkOperationalTime() {
		return false
	}
	if depth.IsFilled() && depth.BestAsk() < depth.BestBid() {
		logs.Warnf("ask %v is lower than bid %v in %s", depth.BestAsk(), depth.BestBid(), depth.Instrument)
	}

	a.portfolio.UpdateDepth(depth)
	a.InstrumentManager(depth.Instrument).SetLastDepth(depth)
	a.depthReceived.Add(1)
	a.notifyDepth(depth)
	if a.strategy != nil {
		a.strategy.OnDepth(depth)
	}
	return true
}

// OnTradeUpdate ingests a public trade print.
func (a *Algorithm) OnTradeUpdate(trade *model.Trade) bool {
	a.candles.OnTradeUpdate(trade)
	a.clock.Advance(trade.Timestamp)

	if !a.checkOperationalTime() {
		return false
	}
	a.InstrumentManager(trade.Instrument).SetLastTrade(trade)
	a.tradeReceived.Add(1)
	a.notifyClose(trade)
	if a.strategy != nil {
		a.strategy.OnTrade(trade)
	}
	return true
}

// OnCommandUpdate handles out-of-band start/stop commands.
func (a *Algorithm) OnCommandUpdate(command *model.Command) bool {
	a.clock.Advance(command.Timestamp)
	logs.Infof("command received %s", command.Type)

	switch command.Type {
	case enum.CommandStop:
		for _, manager := range a.instrumentManagers() {
			a.portfolio.Summary(manager.Instrument().PrimaryKey())
		}
		a.Stop()
	case enum.CommandStart:
		a.Start()
	}
	if a.strategy != nil {
		a.strategy.OnCommand(command)
	}
	return true
}

// OnExecutionReportUpdate is the single reconciliation point for order
// state. It runs under the algorithm's execution lock; the strategy hook
// is invoked after the lock is released.
func (a *Algorithm) OnExecutionReportUpdate(report *model.ExecutionReport) bool {
	a.execMu.Lock()
	a.updateActiveOrders(report)

	var snapshot *pnl.Snapshot
	if report.Status.IsFilled() {
		var accepted bool
		snapshot, accepted = a.portfolio.AddTrade(report)
		if accepted {
			a.InstrumentManager(report.Instrument).AddPosition(signedQuantity(report))
		}
	}
	a.QuoteManager(report.Instrument).OnExecutionReportUpdate(report)
	a.execMu.Unlock()

	if snapshot != nil {
		a.notifyTradeAndPnl(report.Instrument, snapshot)
	}
	a.notifyExecutionReport(report)
	if a.strategy != nil {
		a.strategy.OnExecutionReport(report)
	}
	return true
}

// updateActiveOrders runs the per-report reconciliation state machine.
// Caller holds execMu.
func (a *Algorithm) updateActiveOrders(report *model.ExecutionReport) {
	manager := a.InstrumentManager(report.Instrument)

	// acknowledged one way or another
	manager.RemoveRequestOrder(report.ClientOrderID)

	if report.Status.IsActive() {
		if manager.WasCompletelyFilled(report.ClientOrderID) {
			logs.Warnf("received active %s of previous completely filled trade, ignoring", report.ClientOrderID)
		} else {
			manager.SetActiveOrder(report)
			if report.OrigClientOrderID != "" {
				// ack of a modify replaces the original order
				manager.RemoveActiveOrder(report.OrigClientOrderID)
			}
			if _, queued := a.cancelWhenActive[report.ClientOrderID]; queued {
				logs.Debugf("%s queued for cancel on activation", report.ClientOrderID)
				cancel := a.CreateCancel(manager.Instrument(), report.ClientOrderID)
				if err := a.sendOrderRequestLocked(cancel); err != nil {
					logs.Errorf("cant cancel waiting order %s: %+v", report.ClientOrderID, err)
				} else {
					delete(a.cancelWhenActive, report.ClientOrderID)
				}
			}
		}
	}

	if report.Status.IsInactive() {
		if report.Status == enum.ReportStatusCompletelyFilled {
			manager.MarkCompletelyFilled(report.ClientOrderID)
		}
		manager.RemoveActiveOrder(report.ClientOrderID)
		manager.RemoveActiveOrder(report.OrigClientOrderID)
	}

	if report.Status == enum.ReportStatusCancelRejected {
		if strings.Contains(report.RejectReason, rejectionNotFound) && manager.HasActiveOrder(report.OrigClientOrderID) {
			// the venue is authoritative, correct local state
			manager.RemoveActiveOrder(report.OrigClientOrderID)
			manager.RemoveActiveOrder(report.ClientOrderID)
		}
		logs.Debugf("cancel rejected %s on %s", report.ClientOrderID, report.OrigClientOrderID)
	}

	if report.Status.IsFilled() {
		manager.SetLastTradeTimestamp(report.Verb, a.CurrentTimestamp())
	}
}

// SendOrderRequest validates and dispatches an order request.
func (a *Algorithm) SendOrderRequest(req *model.OrderRequest) error {
	a.execMu.Lock()
	defer a.execMu.Unlock()
	return a.sendOrderRequestLocked(req)
}

func (a *Algorithm) sendOrderRequestLocked(req *model.OrderRequest) error {
	if a.State() != StateStarted && req.Action != enum.OrderActionCancel {
		return fmt.Errorf("%w: %s", exception.ErrAlgoNotStarted, a.id)
	}

	manager := a.InstrumentManager(req.Instrument)
	if err := a.checkOrderRequest(req, manager); err != nil {
		return err
	}
	if a.risk != nil {
		state := risk.StateView{Position: manager.Position()}
		if depth := manager.LastDepth(); depth != nil && depth.IsFilled() {
			state.ReferencePrice = depth.MidPrice()
		}
		if reason := a.risk.Evaluate(req, state); reason != risk.ReasonNone {
			return fmt.Errorf("%w: %s", exception.ErrRiskDenied, reason)
		}
	}
	req.TimestampCreation = a.CurrentTimestamp()

	manager.PutRequestOrder(req)
	if err := a.engine.OrderRequest(req); err != nil {
		manager.RemoveRequestOrder(req.ClientOrderID)
		return err
	}
	a.notifyOrderRequest(req)
	return nil
}

func (a *Algorithm) checkOrderRequest(req *model.OrderRequest, manager *InstrumentManager) error {
	if req.ClientOrderID == "" {
		req.ClientOrderID = a.generateClientOrderID()
	}
	if req.AlgorithmID == "" {
		req.AlgorithmID = a.id
	}
	if !req.Action.IsAvailable() {
		return exception.ErrMissingAction
	}
	if req.Action == enum.OrderActionSend || req.Action == enum.OrderActionModify {
		if !req.OrderType.IsAvailable() {
			return fmt.Errorf("%w: %s", exception.ErrMissingOrderType, req.Action)
		}
		if !req.Verb.IsAvailable() {
			return fmt.Errorf("%w: %s", exception.ErrMissingVerb, req.Action)
		}
	}
	if req.Action.NeedsOrigClientOrderID() {
		if req.OrigClientOrderID == "" {
			return fmt.Errorf("%w: %s %s", exception.ErrMissingOrigClOrdID, req.Action, req.ClientOrderID)
		}
		if !manager.HasActiveOrder(req.OrigClientOrderID) {
			return fmt.Errorf("%w: %s %s references %s",
				exception.ErrOrigClOrdIDNotActive, req.Action, req.ClientOrderID, req.OrigClientOrderID)
		}
	}
	return nil
}

// SendQuoteRequest validates and fans a quote out to both sides.
func (a *Algorithm) SendQuoteRequest(quote *model.QuoteRequest) error {
	if quote.Action == enum.QuoteActionOn && a.State() != StateStarted {
		return fmt.Errorf("%w: cant quote, %s", exception.ErrAlgoNotStarted, a.id)
	}
	a.execMu.Lock()
	defer a.execMu.Unlock()
	return a.quoteManagerLocked(quote.Instrument).QuoteRequest(quote)
}

// Unquote pulls both sides of an instrument's quote.
func (a *Algorithm) Unquote(instrument *model.Instrument) {
	a.execMu.Lock()
	defer a.execMu.Unlock()
	a.quoteManagerLocked(instrument).Unquote()
}

// UnquoteSide pulls one side of an instrument's quote.
func (a *Algorithm) UnquoteSide(instrument *model.Instrument, verb enum.Verb) {
	a.execMu.Lock()
	defer a.execMu.Unlock()
	a.quoteManagerLocked(instrument).UnquoteSide(verb)
}

// CancelAll cancels every active order of the instrument and queues the
// not-yet-acknowledged ones for cancel on activation.
func (a *Algorithm) CancelAll(instrument *model.Instrument) {
	a.execMu.Lock()
	defer a.execMu.Unlock()
	a.cancelAllLocked(instrument)
}

func (a *Algorithm) cancelAllLocked(instrument *model.Instrument) {
	manager := a.InstrumentManager(instrument.PrimaryKey())

	active := manager.ActiveOrders()
	if len(active) > 0 {
		logs.Infof("cancelAll %s with %d active orders", instrument, len(active))
	}
	for clientOrderID := range active {
		cancel := a.CreateCancel(instrument, clientOrderID)
		if err := a.engine.OrderRequest(cancel); err != nil {
			logs.Errorf("cant cancel %s: %+v", clientOrderID, err)
		}
	}
	for clientOrderID, req := range manager.RequestOrders() {
		a.cancelWhenActive[clientOrderID] = req
	}
}

// CancelAllVerb cancels the instrument's active orders on one side only.
func (a *Algorithm) CancelAllVerb(instrument *model.Instrument, verb enum.Verb) {
	a.execMu.Lock()
	defer a.execMu.Unlock()

	manager := a.InstrumentManager(instrument.PrimaryKey())
	for clientOrderID, report := range manager.ActiveOrders() {
		if report.Verb != verb {
			continue
		}
		cancel := a.CreateCancel(instrument, clientOrderID)
		if err := a.engine.OrderRequest(cancel); err != nil {
			logs.Errorf("cant cancel %s: %+v", clientOrderID, err)
		}
	}
	for clientOrderID, req := range manager.RequestOrders() {
		if req.Verb == verb {
			a.cancelWhenActive[clientOrderID] = req
		}
	}
}

func (a *Algorithm) onCandle(candle *model.Candle) {
	a.notifyCandle(candle)
	if a.strategy != nil {
		a.strategy.OnCandle(candle)
	}
}

func signedQuantity(report *model.ExecutionReport) float64 {
	if report.Verb == enum.VerbSell {
		return -report.LastQuantity
	}
	return report.LastQuantity
}

func (a *Algorithm) snapshotObservers() []Observer {
	a.observerMu.RLock()
	defer a.observerMu.RUnlock()
	return append([]Observer(nil), a.observers...)
}

func (a *Algorithm) notifyParams(params ops.Params) {
	for _, o := range a.snapshotObservers() {
		o.OnUpdateParams(params)
	}
}

func (a *Algorithm) notifyOrderRequest(req *model.OrderRequest) {
	for _, o := range a.snapshotObservers() {
		o.OnOrderRequest(req)
	}
}

func (a *Algorithm) notifyExecutionReport(report *model.ExecutionReport) {
	for _, o := range a.snapshotObservers() {
		o.OnExecutionReport(report)
	}
}

func (a *Algorithm) notifyTradeAndPnl(instrumentPk string, snapshot *pnl.Snapshot) {
	for _, o := range a.snapshotObservers() {
		o.OnTradeAndPnl(instrumentPk, snapshot)
	}
}

func (a *Algorithm) notifyDepth(depth *model.Depth) {
	for _, o := range a.snapshotObservers() {
		o.OnDepthUpdate(depth)
	}
}

func (a *Algorithm) notifyClose(trade *model.Trade) {
	for _, o := range a.snapshotObservers() {
		o.OnCloseUpdate(trade)
	}
}

func (a *Algorithm) notifyCandle(candle *model.Candle) {
	for _, o := range a.snapshotObservers() {
		o.OnCandleUpdate(candle)
	}
}
