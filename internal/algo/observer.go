package algo

import (
	"main/internal/model"
	"main/internal/ops"
	"main/internal/pnl"
)

// Observer receives fan-out notifications from the algorithm: parameter
// changes, order flow and market data. Callbacks run synchronously on the
// delivering goroutine and must not block.
type Observer interface {
	OnUpdateParams(params ops.Params)
	OnOrderRequest(req *model.OrderRequest)
	OnExecutionReport(report *model.ExecutionReport)
	OnTradeAndPnl(instrumentPk string, snapshot *pnl.Snapshot)
	OnDepthUpdate(depth *model.Depth)
	OnCloseUpdate(trade *model.Trade)
	OnCandleUpdate(candle *model.Candle)
}

// NopObserver implements Observer with no-ops, for embedding.
type NopObserver struct{}

func (NopObserver) OnUpdateParams(ops.Params)                {}
func (NopObserver) OnOrderRequest(*model.OrderRequest)       {}
func (NopObserver) OnExecutionReport(*model.ExecutionReport) {}
func (NopObserver) OnTradeAndPnl(string, *pnl.Snapshot)      {}
func (NopObserver) OnDepthUpdate(*model.Depth)               {}
func (NopObserver) OnCloseUpdate(*model.Trade)               {}
func (NopObserver) OnCandleUpdate(*model.Candle)             {}
