// taskdesk is a Telegram bot that triages free-form messages into structured
// tasks: heuristic pre-filter, LLM validation and extraction, local JSON
// persistence, and best-effort Kaiten card filing.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taskdesk/pkg/bot"
	"taskdesk/pkg/config"
	"taskdesk/pkg/journal"
	"taskdesk/pkg/kaiten"
	"taskdesk/pkg/llm"
	"taskdesk/pkg/logx"
	"taskdesk/pkg/metrics"
	"taskdesk/pkg/pending"
	"taskdesk/pkg/pipeline"
	"taskdesk/pkg/taskstore"
	"taskdesk/pkg/transcribe"
	"taskdesk/pkg/triage"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config file (optional)")
	flag.Parse()

	logger := logx.NewLogger("main")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("config: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("fatal: %v", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger *logx.Logger) error {
	var recorder *metrics.Recorder
	if cfg.MetricsAddr != "" {
		recorder = metrics.NewRecorder()
		go serveMetrics(ctx, cfg.MetricsAddr, logger)
	}

	factoryCfg := llm.FactoryConfig{
		Model:       cfg.Model,
		APIKeys:     cfg.APIKeys(),
		CallTimeout: time.Duration(cfg.LLMTimeout),
		Retry:       llm.DefaultRetryPolicy(),
	}
	if recorder != nil {
		factoryCfg.Instrumenter = recorder.LLMMiddleware()
	}
	client, err := llm.NewClient(factoryCfg)
	if err != nil {
		return err
	}
	logger.Info("model: %s", cfg.Model)

	tasks, err := taskstore.NewStore(cfg.TasksDir)
	if err != nil {
		return err
	}

	jrnl, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return err
	}
	defer func() { _ = jrnl.Close() }()

	table := kaiten.DefaultTable()
	if cfg.Kaiten.RoutingFile != "" {
		table, err = kaiten.LoadTable(cfg.Kaiten.RoutingFile)
		if err != nil {
			return err
		}
		logger.Info("routing overrides loaded from %s", cfg.Kaiten.RoutingFile)
	}
	filer := kaiten.NewFiler(kaiten.NewClient(cfg.Kaiten.BaseURL, cfg.Kaiten.APIKey), table)

	p := pipeline.New(pipeline.Options{
		Validator: triage.NewValidator(client),
		Extractor: triage.NewExtractor(client),
		Pending:   pending.NewMemoryStore(time.Duration(cfg.Pending.TTL), cfg.Pending.MaxEntries),
		Tasks:     tasks,
		Filer:     filer,
		Journal:   jrnl,
		Metrics:   recorder,
	})

	// Voice needs a Whisper key even when the chat model is not OpenAI's.
	var transcriber transcribe.Transcriber
	if cfg.OpenAIKey != "" {
		transcriber = transcribe.NewWhisper(cfg.OpenAIKey, cfg.Language)
	} else {
		logger.Warn("no OpenAI key, voice messages disabled")
	}

	b, err := bot.New(cfg.TelegramToken, p, transcriber)
	if err != nil {
		return err
	}

	logger.Info("starting update loop")
	return b.Run(ctx)
}

func serveMetrics(ctx context.Context, addr string, logger *logx.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server: %v", err)
	}
}
