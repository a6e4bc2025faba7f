// Package ops loads and validates the runtime configuration: instrument
// definitions, algorithm parameters and optional risk/persistence settings.
package ops

import (
	"encoding/json"
	"fmt"
	"os"

	"main/internal/model"
	"main/internal/risk"
	"main/pkg/conn"
	"main/pkg/exception"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	AlgorithmID string             `json:"algorithmId"`
	Instruments []InstrumentConfig `json:"instruments"`
	Parameters  map[string]string  `json:"parameters"`
	Risk        *risk.Config       `json:"risk"`
	Persistence *PersistenceConfig `json:"persistence"`
}

// InstrumentConfig describes one tradable instrument.
type InstrumentConfig struct {
	Symbol           string  `json:"symbol"`
	Market           string  `json:"market"`
	Isin             string  `json:"isin"`
	PriceTick        float64 `json:"priceTick"`
	QuantityTick     float64 `json:"quantityTick"`
	PriceDecimals    int     `json:"priceDecimals"`
	QuantityDecimals int     `json:"quantityDecimals"`
}

// PersistenceConfig describes the optional Postgres sink for fills and
// P&L snapshots.
type PersistenceConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslMode"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	AlgorithmID string
	Instruments []*model.Instrument
	Parameters  Params
	Risk        *risk.Config
	Persistence *PersistenceConfig
}

// PgOption converts the persistence section into a connection option.
func (p *PersistenceConfig) PgOption() conn.Option {
	return conn.Option{
		Host:     p.Host,
		Port:     p.Port,
		User:     p.User,
		Password: p.Password,
		Database: p.Database,
		SSLMode:  p.SSLMode,
	}
}

// Load reads a JSON config file, validates it and registers the declared
// instruments in the global registry.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, err
	}
	return resolve(cfg)
}

func resolve(cfg FileConfig) (Loaded, error) {
	if cfg.AlgorithmID == "" {
		return Loaded{}, fmt.Errorf("%w: algorithmId", exception.ErrMissingParameter)
	}
	if len(cfg.Instruments) == 0 {
		return Loaded{}, exception.ErrNoInstruments
	}

	instruments := make([]*model.Instrument, 0, len(cfg.Instruments))
	for _, ic := range cfg.Instruments {
		if ic.Symbol == "" {
			return Loaded{}, fmt.Errorf("%w: instrument symbol is empty", exception.ErrInvalidParameter)
		}
		if ic.PriceTick < 0 || ic.QuantityTick < 0 {
			return Loaded{}, fmt.Errorf("%w: ticks must be >= 0 for %s", exception.ErrInvalidParameter, ic.Symbol)
		}
		instrument := model.NewInstrument(ic.Symbol, ic.Market, ic.Isin)
		if ic.PriceTick > 0 {
			instrument.PriceTick = ic.PriceTick
		}
		if ic.QuantityTick > 0 {
			instrument.QuantityTick = ic.QuantityTick
		}
		if ic.PriceDecimals > 0 {
			instrument.PriceDecimals = ic.PriceDecimals
		}
		if ic.QuantityDecimals > 0 {
			instrument.QuantityDecimals = ic.QuantityDecimals
		}
		model.RegisterInstrument(instrument)
		instruments = append(instruments, instrument)
	}

	params := Params{}
	for k, v := range cfg.Parameters {
		params[k] = v
	}

	if cfg.Persistence != nil && cfg.Persistence.Enabled {
		if cfg.Persistence.Database == "" {
			return Loaded{}, fmt.Errorf("%w: persistence.database", exception.ErrMissingParameter)
		}
	}

	return Loaded{
		AlgorithmID: cfg.AlgorithmID,
		Instruments: instruments,
		Parameters:  params,
		Risk:        cfg.Risk,
		Persistence: cfg.Persistence,
	}, nil
}
