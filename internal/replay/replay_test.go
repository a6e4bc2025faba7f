package replay

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/model"
	"main/internal/model/enum"
	"main/pkg/exception"
)

type captureListener struct {
	depths   []*model.Depth
	trades   []*model.Trade
	commands []*model.Command
}

func (l *captureListener) OnDepthUpdate(d *model.Depth) bool {
	l.depths = append(l.depths, d)
	return true
}

func (l *captureListener) OnTradeUpdate(t *model.Trade) bool {
	l.trades = append(l.trades, t)
	return true
}

func (l *captureListener) OnCommandUpdate(c *model.Command) bool {
	l.commands = append(l.commands, c)
	return true
}

func TestWriteThenReplayRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")

	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteDepth(&model.Depth{
		Instrument:    "btcusdt_binance",
		Timestamp:     1000,
		Bids:          []float64{100.0, 99.5},
		BidQuantities: []float64{2, 4},
		Asks:          []float64{100.5, 101.0},
		AskQuantities: []float64{1, 3},
	}))
	require.NoError(t, w.WriteTrade(&model.Trade{
		Instrument: "btcusdt_binance",
		Timestamp:  1500,
		Price:      100.4,
		Quantity:   0.5,
		Verb:       enum.VerbBuy,
	}))
	require.NoError(t, w.WriteCommand(&model.Command{Type: enum.CommandStop, Timestamp: 2000}))
	require.NoError(t, w.Close())

	listener := &captureListener{}
	provider := NewProvider(0)
	provider.Register(listener)
	require.NoError(t, provider.Run(context.Background(), path))

	require.Len(t, listener.depths, 1)
	assert.Equal(t, 100.25, listener.depths[0].MidPrice())
	assert.Equal(t, []float64{2, 4}, listener.depths[0].BidQuantities)

	require.Len(t, listener.trades, 1)
	assert.Equal(t, 100.4, listener.trades[0].Price)
	assert.Equal(t, enum.VerbBuy, listener.trades[0].Verb)

	require.Len(t, listener.commands, 1)
	assert.Equal(t, enum.CommandStop, listener.commands[0].Type)
}

func TestReplayRejectsCorruptedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"type\":\"depth\"\n"), 0o644))

	provider := NewProvider(0)
	provider.Register(&captureListener{})
	err := provider.Run(context.Background(), path)
	assert.ErrorIs(t, err, exception.ErrReplayCorrupted)
}

func TestReplayRejectsUnknownRecordType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unknown.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"candle","ts":1}`+"\n"), 0o644))

	provider := NewProvider(0)
	err := provider.Run(context.Background(), path)
	assert.ErrorIs(t, err, exception.ErrReplayCorrupted)
}
