package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhg/docflow/internal/bootstrap"
	"github.com/dhg/docflow/internal/config"
	"github.com/dhg/docflow/internal/observability/logging"
	"github.com/dhg/docflow/internal/observability/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.NewJSONLogger("docflow-worker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	pipelineMetrics := metrics.NewPipelineMetrics("docflow-worker")
	go serveMetrics(cfg.WorkerMetricsPort, pipelineMetrics, logger)

	logger.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeClassifyRequested(ctx, func(handlerCtx context.Context, sourceID string) error {
		classifyCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		start := time.Now()
		pipelineMetrics.StartItem()
		err := app.ClassifyUC.ClassifyByID(classifyCtx, sourceID)
		pipelineMetrics.FinishItem("classify", err)
		pipelineMetrics.ObserveBatch("classify", time.Since(start))
		return err
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}

func serveMetrics(port string, m *metrics.PipelineMetrics, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics_server_failed", "error", err)
	}
}
