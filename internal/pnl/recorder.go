package pnl

import (
	"github.com/yanun0323/errors"
	"gorm.io/gorm"

	"main/internal/model"
	"main/pkg/conn"
)

// FillRecord is one executed trade persisted for later analysis.
type FillRecord struct {
	ID            uint   `gorm:"primaryKey"`
	AlgorithmID   string `gorm:"index"`
	Instrument    string `gorm:"index"`
	ClientOrderID string
	Verb          string
	Price         float64
	Quantity      float64
	Timestamp     int64 `gorm:"index"`
}

func (FillRecord) TableName() string { return "fills" }

// PnlRecord is one historical P&L row persisted per instrument.
type PnlRecord struct {
	ID            uint   `gorm:"primaryKey"`
	AlgorithmID   string `gorm:"index"`
	Instrument    string `gorm:"index"`
	Timestamp     int64  `gorm:"index"`
	NetPosition   float64
	AvgOpenPrice  float64
	NetInvestment float64
	RealizedPnl   float64
	UnrealizedPnl float64
	TotalPnl      float64
	Trades        int
}

func (PnlRecord) TableName() string { return "pnl_snapshots" }

// Recorder persists fills and P&L rows to PostgreSQL.
type Recorder struct {
	algorithmID string
	db          *gorm.DB
}

// NewRecorder migrates the schema and returns a recorder bound to the
// algorithm id.
func NewRecorder(client *conn.Client, algorithmID string) (*Recorder, error) {
	db := client.DB()
	if err := db.AutoMigrate(&FillRecord{}, &PnlRecord{}); err != nil {
		return nil, errors.Wrap(err, "migrate recorder schema")
	}
	return &Recorder{algorithmID: algorithmID, db: db}, nil
}

// RecordFill stores one executed trade.
func (r *Recorder) RecordFill(report *model.ExecutionReport) error {
	if r == nil {
		return nil
	}
	record := FillRecord{
		AlgorithmID:   r.algorithmID,
		Instrument:    report.Instrument,
		ClientOrderID: report.ClientOrderID,
		Verb:          report.Verb.String(),
		Price:         report.Price,
		Quantity:      report.LastQuantity,
		Timestamp:     report.TimestampCreation,
	}
	if err := r.db.Create(&record).Error; err != nil {
		return errors.Wrap(err, "record fill")
	}
	return nil
}

// RecordSnapshot stores the current P&L state of an instrument.
func (r *Recorder) RecordSnapshot(instrument string, s *Snapshot) error {
	if r == nil {
		return nil
	}
	record := PnlRecord{
		AlgorithmID:   r.algorithmID,
		Instrument:    instrument,
		Timestamp:     s.LastTimestamp(),
		NetPosition:   s.NetPosition,
		AvgOpenPrice:  s.AvgOpenPrice,
		NetInvestment: s.NetInvestment,
		RealizedPnl:   s.RealizedPnl,
		UnrealizedPnl: s.UnrealizedPnl,
		TotalPnl:      s.TotalPnl,
		Trades:        s.NumberOfTrades,
	}
	if err := r.db.Create(&record).Error; err != nil {
		return errors.Wrap(err, "record pnl snapshot")
	}
	return nil
}
