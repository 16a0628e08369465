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

	"github.com/joho/godotenv"

	"github.com/sitebrain/vectorsearch/internal/bootstrap"
	"github.com/sitebrain/vectorsearch/internal/config"
	"github.com/sitebrain/vectorsearch/internal/observability/logging"
	"github.com/sitebrain/vectorsearch/internal/observability/metrics"
)

// The worker listens for content-change events and flags the stored vector
// of each changed document as stale. It never re-embeds on its own;
// refreshing vectors stays an explicit operator action through the api.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeContentUpdated(ctx, func(handlerCtx context.Context, documentID string) error {
		markCtx, cancel := context.WithTimeout(handlerCtx, 30*time.Second)
		defer cancel()

		workerMetrics.StartEvent()
		start := time.Now()
		markErr := app.Repo.MarkEmbeddingStale(markCtx, documentID)
		workerMetrics.FinishEvent("worker", time.Since(start), markErr)

		if markErr != nil {
			slog.Error("mark embedding stale", "document_id", documentID, "error", markErr)
			return markErr
		}
		slog.Info("embedding marked stale", "document_id", documentID)
		return nil
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
