package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"

	"main/internal/algo"
	"main/internal/clock"
	"main/internal/connector"
	"main/internal/model"
	"main/internal/ops"
	"main/internal/pnl"
	"main/internal/replay"
	"main/internal/risk"
	"main/internal/strategy"
	"main/internal/strategy/avellaneda"
	"main/pkg/conn"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config")
	replayPath := flag.String("replay", "", "JSONL market data log to replay")
	replaySpeed := flag.Float64("replay-speed", 0, "Playback speed (1=real-time, 0=no pacing)")
	pyroscopeAddr := flag.String("pyroscope", "", "Pyroscope server address (empty=disabled)")
	flag.Parse()

	if *configPath == "" || *replayPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	loaded, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if *pyroscopeAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "maker/" + loaded.AlgorithmID,
			ServerAddress:   *pyroscopeAddr,
			Tags: map[string]string{
				"env": "local",
			},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	replayClock := clock.NewReplay()
	engine := connector.NewPaperEngine(replayClock)
	defer engine.Close()
	provider := replay.NewProvider(*replaySpeed)

	portfolio, closePersistence := buildPortfolio(loaded)
	defer closePersistence()

	var riskEngine *risk.Engine
	if loaded.Risk != nil {
		riskEngine = risk.NewEngine(*loaded.Risk)
	}

	algorithm := algo.New(algo.Config{
		ID:         loaded.AlgorithmID,
		Parameters: loaded.Parameters,
		Clock:      replayClock,
		MarketData: provider,
		Engine:     engine,
		Portfolio:  portfolio,
		Risk:       riskEngine,
	})
	var strategies multiStrategy
	for _, instrument := range loaded.Instruments {
		s, err := avellaneda.New(algorithm, instrument, loaded.Parameters)
		if err != nil {
			log.Fatalf("strategy setup failed for %s: %v", instrument, err)
		}
		strategies = append(strategies, s)
	}
	if len(strategies) > 1 {
		algorithm.SetStrategy(strategies)
	}
	algorithm.Init()

	// the paper engine watches the same feed to fill resting orders
	provider.Register(&paperFeed{engine: engine})

	if err := provider.Run(ctx, *replayPath); err != nil {
		logs.Errorf("replay stopped: %+v", err)
	}

	algorithm.Stop()
	for _, instrument := range loaded.Instruments {
		portfolio.Summary(instrument.PrimaryKey())
	}
}

func buildPortfolio(loaded ops.Loaded) (*pnl.Portfolio, func()) {
	persistence := loaded.Persistence
	if persistence == nil || !persistence.Enabled {
		return pnl.NewPortfolio(nil), func() {}
	}

	client, err := conn.New(persistence.PgOption())
	if err != nil {
		log.Fatalf("postgres connect failed: %v", err)
	}
	recorder, err := pnl.NewRecorder(client, loaded.AlgorithmID)
	if err != nil {
		log.Fatalf("recorder setup failed: %v", err)
	}
	return pnl.NewPortfolio(recorder), func() { _ = client.Close() }
}

// multiStrategy fans the algorithm hooks out to one strategy per
// instrument; each strategy filters on its own instrument key.
type multiStrategy []strategy.Strategy

func (m multiStrategy) OnDepth(depth *model.Depth) {
	for _, s := range m {
		s.OnDepth(depth)
	}
}

func (m multiStrategy) OnTrade(trade *model.Trade) {
	for _, s := range m {
		s.OnTrade(trade)
	}
}

func (m multiStrategy) OnExecutionReport(report *model.ExecutionReport) {
	for _, s := range m {
		s.OnExecutionReport(report)
	}
}

func (m multiStrategy) OnCommand(command *model.Command) {
	for _, s := range m {
		s.OnCommand(command)
	}
}

func (m multiStrategy) OnCandle(candle *model.Candle) {
	for _, s := range m {
		s.OnCandle(candle)
	}
}

// paperFeed routes depth updates into the paper engine's matching loop.
type paperFeed struct {
	engine *connector.PaperEngine
}

func (f *paperFeed) OnDepthUpdate(depth *model.Depth) bool {
	f.engine.OnDepth(depth)
	return true
}

func (f *paperFeed) OnTradeUpdate(*model.Trade) bool { return true }

func (f *paperFeed) OnCommandUpdate(*model.Command) bool { return true }
