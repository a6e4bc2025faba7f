// Package strategy defines the hooks a quoting strategy implements. A
// strategy is composed over the execution core and reached through these
// callbacks after the core has updated its caches and gates.
package strategy

import "main/internal/model"

// Strategy reacts to market data and execution events. Implementations
// must not block; they run on the market data delivery goroutine.
type Strategy interface {
	// OnDepth is called after the depth passed the operational gates and
	// the instrument caches were updated.
	OnDepth(depth *model.Depth)
	// OnTrade is called for every accepted public trade print.
	OnTrade(trade *model.Trade)
	// OnExecutionReport is called after the core reconciled the report
	// into its order and position state.
	OnExecutionReport(report *model.ExecutionReport)
	// OnCommand is called for out-of-band start/stop commands.
	OnCommand(command *model.Command)
	// OnCandle is called when a time candle closes.
	OnCandle(candle *model.Candle)
}
