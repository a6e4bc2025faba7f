package model

import (
	"fmt"

	"main/internal/model/enum"
)

// OrderRequest is an instruction for the trading engine. It is immutable
// once dispatched; only the creation timestamp is stamped by the algorithm.
type OrderRequest struct {
	Instrument        string
	Action            enum.OrderAction
	Verb              enum.Verb
	OrderType         enum.OrderType
	Price             float64
	Quantity          float64
	ClientOrderID     string
	OrigClientOrderID string
	TimestampCreation int64
	AlgorithmID       string
	FreeText          string
}

func (r *OrderRequest) String() string {
	switch r.Action {
	case enum.OrderActionSend:
		return fmt.Sprintf("send %s %s %s [%s] %.4f@%.5f",
			r.Instrument, r.AlgorithmID, r.Verb, r.ClientOrderID, r.Quantity, r.Price)
	case enum.OrderActionModify:
		return fmt.Sprintf("modify %s %s %s->%s %s %.4f@%.5f",
			r.Instrument, r.AlgorithmID, r.OrigClientOrderID, r.ClientOrderID, r.Verb, r.Quantity, r.Price)
	case enum.OrderActionCancel:
		return fmt.Sprintf("cancel %s %s %s->%s",
			r.Instrument, r.AlgorithmID, r.OrigClientOrderID, r.ClientOrderID)
	default:
		return fmt.Sprintf("unknown action %d [%s]", r.Action, r.ClientOrderID)
	}
}

// ExecutionReport is the venue's asynchronous answer to an OrderRequest.
type ExecutionReport struct {
	Instrument        string
	Status            enum.ReportStatus
	Verb              enum.Verb
	Price             float64
	Quantity          float64
	LastQuantity      float64 // quantity filled by this report
	ClientOrderID     string
	OrigClientOrderID string
	RejectReason      string
	TimestampCreation int64
	AlgorithmID       string
}

// NewExecutionReport seeds a report from the order request it answers.
func NewExecutionReport(r *OrderRequest, status enum.ReportStatus) *ExecutionReport {
	return &ExecutionReport{
		Instrument:        r.Instrument,
		Status:            status,
		Verb:              r.Verb,
		Price:             r.Price,
		Quantity:          r.Quantity,
		ClientOrderID:     r.ClientOrderID,
		OrigClientOrderID: r.OrigClientOrderID,
		TimestampCreation: r.TimestampCreation,
		AlgorithmID:       r.AlgorithmID,
	}
}

func (e *ExecutionReport) String() string {
	return fmt.Sprintf("%s %s %s [%s] %.4f@%.5f",
		e.Instrument, e.Status, e.Verb, e.ClientOrderID, e.LastQuantity, e.Price)
}

// QuoteRequest is a desired two-sided quote. A zero quantity means "no
// quote on that side".
type QuoteRequest struct {
	Instrument  *Instrument
	Action      enum.QuoteAction
	BidPrice    float64
	BidQuantity float64
	AskPrice    float64
	AskQuantity float64
	AlgorithmID string
}
