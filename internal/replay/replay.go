// Package replay streams recorded market data from a JSONL event log into
// the algorithm, driving a deterministic clock from the recorded
// timestamps. The same log format is written by the Writer, so a live
// session can be captured and replayed back through identical code paths.
package replay

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"main/internal/bus"
	"main/internal/connector"
	"main/internal/model"
	"main/internal/model/enum"
	"main/pkg/exception"
)

const (
	queueCapacity = 4096

	// maxLineBytes bounds a single log line; deep books stay well under it.
	maxLineBytes = 1 << 20
)

// record is one JSONL log line. Type selects which fields are meaningful.
type record struct {
	Type       string `json:"type"`
	Instrument string `json:"instrument,omitempty"`
	Timestamp  int64  `json:"ts"`

	Bids          []float64 `json:"bids,omitempty"`
	BidQuantities []float64 `json:"bidQty,omitempty"`
	Asks          []float64 `json:"asks,omitempty"`
	AskQuantities []float64 `json:"askQty,omitempty"`

	Price    float64 `json:"price,omitempty"`
	Quantity float64 `json:"qty,omitempty"`
	Verb     string  `json:"verb,omitempty"`

	Command string `json:"command,omitempty"`
}

const (
	recordDepth   = "depth"
	recordTrade   = "trade"
	recordCommand = "command"
)

// Provider reads an event log and fans it out to registered listeners in
// file order. It implements the market data provider contract so the
// algorithm subscribes to it exactly as it would to a live feed.
type Provider struct {
	listeners []connector.MarketDataListener

	// speed scales replay pacing against recorded time: 1 is realtime,
	// 0 or less replays as fast as possible.
	speed float64
}

func NewProvider(speed float64) *Provider {
	return &Provider{speed: speed}
}

func (p *Provider) Register(listener connector.MarketDataListener) {
	p.listeners = append(p.listeners, listener)
}

// Run streams the log at path until EOF, the context cancels, or a line
// fails to parse. Events pass through a bounded queue so the reader and
// the listeners decouple the same way they do against a live feed.
func (p *Provider) Run(ctx context.Context, path string) error {
	queue := bus.NewQueue(queueCapacity)
	done := make(chan struct{})
	go func() {
		defer close(done)
		queue.Run(ctx, p.deliver)
	}()

	err := p.read(ctx, path, queue)
	queue.Close()
	<-done
	return err
}

func (p *Provider) read(ctx context.Context, path string, queue *bus.Queue) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lastTimestamp int64
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("%w: line %d: %v", exception.ErrReplayCorrupted, line, err)
		}
		event, err := rec.event()
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", exception.ErrReplayCorrupted, line, err)
		}

		p.pace(lastTimestamp, rec.Timestamp)
		lastTimestamp = rec.Timestamp

		if err := publish(ctx, queue, event); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// pace sleeps the scaled recorded gap between consecutive events.
func (p *Provider) pace(prev, next int64) {
	if p.speed <= 0 || prev == 0 || next <= prev {
		return
	}
	gap := time.Duration(float64(next-prev)/p.speed) * time.Millisecond
	time.Sleep(gap)
}

// publish retries on a full queue so replay never drops events.
func publish(ctx context.Context, queue *bus.Queue, event bus.Event) error {
	for {
		err := queue.TryPublish(event)
		if err == nil || err == bus.ErrQueueClosed {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}

func (p *Provider) deliver(event bus.Event) {
	for _, listener := range p.listeners {
		switch event.Kind {
		case bus.KindDepth:
			listener.OnDepthUpdate(event.Depth)
		case bus.KindTrade:
			listener.OnTradeUpdate(event.Trade)
		case bus.KindCommand:
			listener.OnCommandUpdate(event.Command)
		}
	}
}

func (r *record) event() (bus.Event, error) {
	switch r.Type {
	case recordDepth:
		return bus.DepthEvent(&model.Depth{
			Instrument:    r.Instrument,
			Timestamp:     r.Timestamp,
			Bids:          r.Bids,
			BidQuantities: r.BidQuantities,
			Asks:          r.Asks,
			AskQuantities: r.AskQuantities,
		}), nil
	case recordTrade:
		return bus.TradeEvent(&model.Trade{
			Instrument: r.Instrument,
			Timestamp:  r.Timestamp,
			Price:      r.Price,
			Quantity:   r.Quantity,
			Verb:       enum.ParseVerb(r.Verb),
		}), nil
	case recordCommand:
		command := enum.ParseCommand(r.Command)
		if command == enum.CommandUnknown {
			return bus.Event{}, fmt.Errorf("unknown command %q", r.Command)
		}
		return bus.CommandEvent(&model.Command{
			Type:      command,
			Timestamp: r.Timestamp,
		}), nil
	default:
		return bus.Event{}, fmt.Errorf("unknown record type %q", r.Type)
	}
}

// Writer appends market data events to a JSONL log compatible with the
// Provider.
type Writer struct {
	f *os.File
	w *bufio.Writer
}

func NewWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Writer{f: f, w: bufio.NewWriter(f)}, nil
}

func (w *Writer) WriteDepth(d *model.Depth) error {
	return w.write(record{
		Type:          recordDepth,
		Instrument:    d.Instrument,
		Timestamp:     d.Timestamp,
		Bids:          d.Bids,
		BidQuantities: d.BidQuantities,
		Asks:          d.Asks,
		AskQuantities: d.AskQuantities,
	})
}

func (w *Writer) WriteTrade(t *model.Trade) error {
	return w.write(record{
		Type:       recordTrade,
		Instrument: t.Instrument,
		Timestamp:  t.Timestamp,
		Price:      t.Price,
		Quantity:   t.Quantity,
		Verb:       t.Verb.String(),
	})
}

func (w *Writer) WriteCommand(c *model.Command) error {
	return w.write(record{
		Type:      recordCommand,
		Timestamp: c.Timestamp,
		Command:   c.Type.String(),
	})
}

func (w *Writer) write(rec record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(raw); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
