package algo

import (
	"sync"

	"main/internal/model"
	"main/internal/model/enum"
	"main/pkg/ring"
)

// completelyFilledCacheSize bounds the set of recently completely filled
// client order ids kept to ignore late Active echoes.
const completelyFilledCacheSize = 50

// InstrumentManager is the per-instrument mutable cache: active orders,
// not-yet-acknowledged requests, net position and the last market data
// seen. Safe for concurrent use.
type InstrumentManager struct {
	instrument *model.Instrument

	mu                 sync.RWMutex
	activeOrders       map[string]*model.ExecutionReport
	requestOrders      map[string]*model.OrderRequest
	position           float64
	lastDepth          *model.Depth
	lastTrade          *model.Trade
	lastTradeTimestamp map[enum.Verb]int64
	cfTrades           *ring.Buffer[string]
}

func NewInstrumentManager(instrument *model.Instrument) *InstrumentManager {
	m := &InstrumentManager{instrument: instrument}
	m.Reset()
	return m
}

func (m *InstrumentManager) Instrument() *model.Instrument { return m.instrument }

// Reset clears order state and caches. The position survives; it reflects
// fills that actually happened.
func (m *InstrumentManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeOrders = make(map[string]*model.ExecutionReport)
	m.requestOrders = make(map[string]*model.OrderRequest)
	m.lastTradeTimestamp = make(map[enum.Verb]int64)
	m.cfTrades = ring.New[string](completelyFilledCacheSize)
}

// ActiveOrders returns a copy of the active order map.
func (m *InstrumentManager) ActiveOrders() map[string]*model.ExecutionReport {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*model.ExecutionReport, len(m.activeOrders))
	for k, v := range m.activeOrders {
		out[k] = v
	}
	return out
}

func (m *InstrumentManager) ActiveOrderCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.activeOrders)
}

func (m *InstrumentManager) HasActiveOrder(clientOrderID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.activeOrders[clientOrderID]
	return ok
}

func (m *InstrumentManager) SetActiveOrder(report *model.ExecutionReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeOrders[report.ClientOrderID] = report
}

func (m *InstrumentManager) RemoveActiveOrder(clientOrderID string) {
	if clientOrderID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.activeOrders, clientOrderID)
}

// RequestOrders returns a copy of the pending request map.
func (m *InstrumentManager) RequestOrders() map[string]*model.OrderRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*model.OrderRequest, len(m.requestOrders))
	for k, v := range m.requestOrders {
		out[k] = v
	}
	return out
}

func (m *InstrumentManager) RequestOrderCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requestOrders)
}

func (m *InstrumentManager) PutRequestOrder(req *model.OrderRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestOrders[req.ClientOrderID] = req
}

func (m *InstrumentManager) RemoveRequestOrder(clientOrderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.requestOrders, clientOrderID)
}

// AddPosition folds a signed fill quantity into the net position.
func (m *InstrumentManager) AddPosition(signedQuantity float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position += signedQuantity
}

func (m *InstrumentManager) Position() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.position
}

func (m *InstrumentManager) SetLastDepth(depth *model.Depth) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastDepth = depth
}

func (m *InstrumentManager) LastDepth() *model.Depth {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastDepth
}

func (m *InstrumentManager) SetLastTrade(trade *model.Trade) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTrade = trade
}

func (m *InstrumentManager) LastTrade() *model.Trade {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastTrade
}

// SetLastTradeTimestamp records when the given side was last hit.
func (m *InstrumentManager) SetLastTradeTimestamp(verb enum.Verb, timestamp int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTradeTimestamp[verb] = timestamp
}

func (m *InstrumentManager) LastTradeTimestamp(verb enum.Verb) (int64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ts, ok := m.lastTradeTimestamp[verb]
	return ts, ok
}

// MarkCompletelyFilled remembers the id to ignore late Active echoes.
func (m *InstrumentManager) MarkCompletelyFilled(clientOrderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfTrades.Push(clientOrderID)
}

func (m *InstrumentManager) WasCompletelyFilled(clientOrderID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return ring.Contains(m.cfTrades, clientOrderID)
}
