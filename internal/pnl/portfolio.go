package pnl

import (
	"sync"

	"github.com/yanun0323/logs"

	"main/internal/model"
)

// Portfolio holds one Snapshot per instrument and fans fills and depth
// updates into them. An optional recorder persists every fill and P&L row.
type Portfolio struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
	fills     map[string][]*model.ExecutionReport
	custom    map[string]map[string]float64
	trades    int64
	recorder  *Recorder
}

// NewPortfolio returns an empty portfolio. The recorder may be nil.
func NewPortfolio(recorder *Recorder) *Portfolio {
	p := &Portfolio{recorder: recorder}
	p.Reset()
	return p
}

// Reset drops all accumulated state.
func (p *Portfolio) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = make(map[string]*Snapshot)
	p.fills = make(map[string][]*model.ExecutionReport)
	p.custom = make(map[string]map[string]float64)
	p.trades = 0
}

// Snapshot returns the P&L snapshot of an instrument, nil when no activity
// has been seen.
func (p *Portfolio) Snapshot(instrumentPk string) *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshots[instrumentPk]
}

// AddTrade folds a filled execution report into the instrument's snapshot
// and returns it, with false when the snapshot ignored the fill (replayed
// or invalid report).
func (p *Portfolio) AddTrade(report *model.ExecutionReport) (*Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := p.snapshotLocked(report.Instrument)
	if !snapshot.UpdateExecutionReport(report) {
		return snapshot, false
	}
	p.fills[report.Instrument] = append(p.fills[report.Instrument], report)
	p.applyCustomLocked(report.Instrument, snapshot)
	p.trades++

	if p.recorder != nil {
		if err := p.recorder.RecordFill(report); err != nil {
			logs.Errorf("persist fill: %+v", err)
		}
		if err := p.recorder.RecordSnapshot(report.Instrument, snapshot); err != nil {
			logs.Errorf("persist pnl snapshot: %+v", err)
		}
	}
	return snapshot, true
}

// UpdateDepth marks the instrument's open position to market.
func (p *Portfolio) UpdateDepth(depth *model.Depth) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := p.snapshotLocked(depth.Instrument)
	snapshot.UpdateDepth(depth)
	p.applyCustomLocked(depth.Instrument, snapshot)
}

// SetCustomColumn attaches a strategy-defined value to future history rows
// of the instrument.
func (p *Portfolio) SetCustomColumn(instrumentPk, key string, value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	columns := p.custom[instrumentPk]
	if columns == nil {
		columns = make(map[string]float64)
		p.custom[instrumentPk] = columns
	}
	columns[key] = value
}

// Fills returns the filled execution reports seen for an instrument.
func (p *Portfolio) Fills(instrumentPk string) []*model.ExecutionReport {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fills[instrumentPk]
}

// NumberOfTrades counts every fill folded into the portfolio.
func (p *Portfolio) NumberOfTrades() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.trades
}

// Summary logs the current state of an instrument.
func (p *Portfolio) Summary(instrumentPk string) {
	s := p.Snapshot(instrumentPk)
	if s == nil {
		logs.Infof("no pnl in %s", instrumentPk)
		return
	}
	logs.Infof("%s trades:%d position:%v totalPnl:%v realizedPnl:%v unrealizedPnl:%v",
		instrumentPk, s.NumberOfTrades, s.NetPosition, s.TotalPnl, s.RealizedPnl, s.UnrealizedPnl)
}

func (p *Portfolio) snapshotLocked(instrumentPk string) *Snapshot {
	snapshot, ok := p.snapshots[instrumentPk]
	if !ok {
		snapshot = NewSnapshot()
		p.snapshots[instrumentPk] = snapshot
	}
	return snapshot
}

func (p *Portfolio) applyCustomLocked(instrumentPk string, snapshot *Snapshot) {
	for key, value := range p.custom[instrumentPk] {
		snapshot.SetCustomColumn(key, value)
	}
}
