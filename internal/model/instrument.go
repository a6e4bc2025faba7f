package model

import (
	"fmt"
	"sync"
)

const (
	defaultPriceTick    = 0.00001
	defaultQuantityTick = 0.01

	defaultPriceDecimals    = 5
	defaultQuantityDecimals = 4
)

// Instrument is the immutable identity of a tradable product.
type Instrument struct {
	Symbol string
	Market string
	Isin   string

	PriceTick        float64
	QuantityTick     float64
	PriceDecimals    int
	QuantityDecimals int

	primaryKey string
}

// NewInstrument builds an instrument with default tick sizes where zero
// values are given.
func NewInstrument(symbol, market, isin string) *Instrument {
	ins := &Instrument{
		Symbol:           symbol,
		Market:           market,
		Isin:             isin,
		PriceTick:        defaultPriceTick,
		QuantityTick:     defaultQuantityTick,
		PriceDecimals:    defaultPriceDecimals,
		QuantityDecimals: defaultQuantityDecimals,
	}
	ins.primaryKey = ins.buildPrimaryKey()
	return ins
}

// PrimaryKey identifies the instrument in every map of the core.
func (i *Instrument) PrimaryKey() string {
	if i.primaryKey == "" {
		i.primaryKey = i.buildPrimaryKey()
	}
	return i.primaryKey
}

func (i *Instrument) buildPrimaryKey() string {
	switch {
	case i.Symbol != "" && i.Market != "" && i.Isin != "":
		return fmt.Sprintf("%s_%s_%s", i.Symbol, i.Market, i.Isin)
	case i.Symbol != "" && i.Market != "":
		return fmt.Sprintf("%s_%s", i.Symbol, i.Market)
	case i.Symbol != "":
		return i.Symbol
	case i.Isin != "" && i.Market != "":
		return fmt.Sprintf("%s_%s", i.Isin, i.Market)
	default:
		return ""
	}
}

func (i *Instrument) String() string { return i.PrimaryKey() }

// The registry is the single allowed global: a read-only lookup table from
// primary key to instrument, populated at startup.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Instrument)
)

// RegisterInstrument adds an instrument to the global lookup table.
func RegisterInstrument(ins *Instrument) {
	if ins == nil || ins.PrimaryKey() == "" {
		return
	}
	registryMu.Lock()
	registry[ins.PrimaryKey()] = ins
	registryMu.Unlock()
}

// GetInstrument resolves an instrument by primary key.
func GetInstrument(pk string) (*Instrument, bool) {
	registryMu.RLock()
	ins, ok := registry[pk]
	registryMu.RUnlock()
	return ins, ok
}
