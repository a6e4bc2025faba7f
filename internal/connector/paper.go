package connector

import (
	"sync"

	"github.com/yanun0323/logs"

	"main/internal/clock"
	"main/internal/model"
	"main/internal/model/enum"
)

const paperQueueSize = 1024

// PaperEngine is an in-process trading engine: every request is
// acknowledged immediately and resting orders fill when the book crosses
// them. Reports are delivered on a dedicated goroutine so callers may hold
// their own locks while dispatching.
type PaperEngine struct {
	clock clock.Clock

	mu        sync.Mutex
	listeners map[string]ExecutionReportListener
	resting   map[string]*model.OrderRequest

	reports chan *model.ExecutionReport
	done    chan struct{}
	closed  sync.Once
}

func NewPaperEngine(c clock.Clock) *PaperEngine {
	if c == nil {
		c = clock.NewWall()
	}
	e := &PaperEngine{
		clock:     c,
		listeners: make(map[string]ExecutionReportListener),
		resting:   make(map[string]*model.OrderRequest),
		reports:   make(chan *model.ExecutionReport, paperQueueSize),
		done:      make(chan struct{}),
	}
	go e.dispatch()
	return e
}

// Register subscribes a listener to the reports of an algorithm id.
func (e *PaperEngine) Register(algorithmID string, listener ExecutionReportListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[algorithmID] = listener
}

// Close stops report delivery.
func (e *PaperEngine) Close() {
	e.closed.Do(func() { close(e.done) })
}

// OrderRequest acknowledges the request: Send and Modify become Active,
// Cancel becomes Cancelled. Referencing an unknown order yields Rejected
// or CancelRejected with a "not found for" reason.
func (e *PaperEngine) OrderRequest(req *model.OrderRequest) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch req.Action {
	case enum.OrderActionSend:
		e.resting[req.ClientOrderID] = req
		e.publish(e.report(req, enum.ReportStatusActive))

	case enum.OrderActionModify:
		if _, ok := e.resting[req.OrigClientOrderID]; !ok {
			report := e.report(req, enum.ReportStatusRejected)
			report.RejectReason = "order not found for " + req.OrigClientOrderID
			e.publish(report)
			return nil
		}
		delete(e.resting, req.OrigClientOrderID)
		e.resting[req.ClientOrderID] = req
		e.publish(e.report(req, enum.ReportStatusActive))

	case enum.OrderActionCancel:
		if _, ok := e.resting[req.OrigClientOrderID]; !ok {
			report := e.report(req, enum.ReportStatusCancelRejected)
			report.RejectReason = "order not found for " + req.OrigClientOrderID
			e.publish(report)
			return nil
		}
		delete(e.resting, req.OrigClientOrderID)
		e.publish(e.report(req, enum.ReportStatusCancelled))
	}
	return nil
}

// OnDepth fills resting orders the new book crosses: a resting buy at or
// above the best ask and a resting sell at or below the best bid trade
// completely at their limit price.
func (e *PaperEngine) OnDepth(depth *model.Depth) {
	if !depth.IsFilled() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	for id, req := range e.resting {
		if req.Instrument != depth.Instrument {
			continue
		}
		crossed := (req.Verb == enum.VerbBuy && req.Price >= depth.BestAsk()) ||
			(req.Verb == enum.VerbSell && req.Price <= depth.BestBid())
		if !crossed {
			continue
		}
		delete(e.resting, id)
		report := e.report(req, enum.ReportStatusCompletelyFilled)
		report.LastQuantity = req.Quantity
		e.publish(report)
	}
}

// RestingOrders returns the client order ids currently on the book.
func (e *PaperEngine) RestingOrders() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.resting))
	for id := range e.resting {
		out = append(out, id)
	}
	return out
}

func (e *PaperEngine) report(req *model.OrderRequest, status enum.ReportStatus) *model.ExecutionReport {
	report := model.NewExecutionReport(req, status)
	report.TimestampCreation = e.clock.NowMillis()
	return report
}

func (e *PaperEngine) publish(report *model.ExecutionReport) {
	select {
	case e.reports <- report:
	default:
		logs.Errorf("paper engine report queue full, dropping %s", report)
	}
}

func (e *PaperEngine) dispatch() {
	for {
		select {
		case <-e.done:
			return
		case report := <-e.reports:
			e.mu.Lock()
			listener := e.listeners[report.AlgorithmID]
			e.mu.Unlock()
			if listener != nil {
				listener.OnExecutionReportUpdate(report)
			}
		}
	}
}
