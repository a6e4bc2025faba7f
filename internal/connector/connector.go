// Package connector defines the interfaces the execution core consumes:
// a market data feed and an order dispatch channel. Implementations live
// behind these interfaces so live venues, paper trading and replay share
// the same business logic.
package connector

import "main/internal/model"

// MarketDataListener receives depth snapshots, trade prints and out-of-band
// commands. The bool return reports whether the event was accepted.
type MarketDataListener interface {
	OnDepthUpdate(depth *model.Depth) bool
	OnTradeUpdate(trade *model.Trade) bool
	OnCommandUpdate(command *model.Command) bool
}

// MarketDataProvider pushes market data into registered listeners.
type MarketDataProvider interface {
	Register(listener MarketDataListener)
}

// ExecutionReportListener receives the venue's asynchronous answers to
// order requests.
type ExecutionReportListener interface {
	OnExecutionReportUpdate(report *model.ExecutionReport) bool
}

// TradingEngine accepts order requests and delivers execution reports back
// to the registered listener.
type TradingEngine interface {
	Register(algorithmID string, listener ExecutionReportListener)
	OrderRequest(req *model.OrderRequest) error
}
