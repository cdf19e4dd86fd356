package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"dealflow/agent"
	"dealflow/config"
	"dealflow/crm"
	"dealflow/evidence"
	"dealflow/extract"
	"dealflow/health"
	"dealflow/internal/watch"
	"dealflow/llm"
	"dealflow/metrics"
	"dealflow/reports"
	"dealflow/storage"
	"dealflow/transcribe"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	store, err := storage.NewStore(cfg.DataDir, logger)
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}

	index, err := storage.OpenIndex(cfg.IndexPath)
	if err != nil {
		logger.Warn("run index unavailable, continuing without it", zap.Error(err))
		index = nil
	} else {
		defer index.Close()
	}

	var completer llm.Completer
	if cfg.LLM.Enabled && cfg.LLM.APIKey != "" {
		httpClient := &http.Client{Timeout: time.Duration(cfg.LLM.TimeoutSec) * time.Second}
		completer = llm.NewClient(httpClient, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.APIKey)
		logger.Info("generative backend enabled", zap.String("model", cfg.LLM.Model))
	} else {
		logger.Info("generative backend disabled, using deterministic fallbacks")
	}
	extractor := extract.NewGenerative(completer, logger)

	stats := metrics.New()
	ag := agent.New(store, extractor, logger, agent.Options{
		Index:    index,
		Stats:    stats,
		DemoMode: cfg.DemoMode,
	})

	sinks := make([]evidence.Sink, 0, len(cfg.EvidenceSinks))
	for _, name := range cfg.EvidenceSinks {
		sinks = append(sinks, evidence.SimulatedSink{SinkName: name})
	}
	dispatcher := evidence.NewDispatcher(sinks, evidence.NewLog(store.EvidenceLogPath()), logger)

	if status, err := (health.SimulatedPoller{}).Poll(); err == nil {
		logger.Info("environment status",
			zap.Bool("healthy", status.Healthy),
			zap.Int("nodes", status.Nodes), zap.Int("pods", status.Pods))
	}

	if cfg.DemoMode {
		tr := transcribe.NewDemoTranscriber(logger)
		text, err := tr.Transcribe(ctx, "demo_call.mp3")
		if err == nil {
			if run, err := ag.Run(ctx, text, cfg.BuyBox); err != nil {
				logger.Warn("demo run failed", zap.Error(err))
			} else {
				ag.AttachCRM(ctx, run, crm.NewDemoClient(logger))
				dispatcher.Dispatch(ctx, evidence.BuildPacket(run))
				logger.Info("demo run completed",
					zap.String("run_id", run.RunID), zap.Int("score", run.ScoreData.Score))
			}
		}
	}

	watcher := watch.New(cfg.IntakeDir, ag, dispatcher, cfg.BuyBox, logger)
	if err := watcher.Backfill(ctx); err != nil {
		logger.Warn("intake backfill failed", zap.Error(err))
	}
	if err := watcher.Start(ctx); err != nil {
		logger.Fatal("intake watcher failed", zap.Error(err))
	}
	logger.Info("watching intake directory", zap.String("dir", cfg.IntakeDir))

	summaryTicker := time.NewTicker(time.Duration(cfg.SummaryIntervalSec) * time.Second)
	defer summaryTicker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-summaryTicker.C:
				summary, err := reports.Run(store)
				if err != nil {
					logger.Warn("daily summary failed", zap.Error(err))
					continue
				}
				logger.Info("daily summary",
					zap.String("status", summary.Status),
					zap.Int("deal_count", summary.DealCount),
					zap.Float64("avg_score", summary.AvgScore))
			}
		}
	}()

	<-ctx.Done()
	snap := stats.Snapshot()
	logger.Info("shutting down",
		zap.Int64("runs_started", snap.RunsStarted),
		zap.Int64("runs_completed", snap.RunsCompleted),
		zap.Int64("runs_failed", snap.RunsFailed))
}
