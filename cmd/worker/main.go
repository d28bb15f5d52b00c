package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/stagehandhq/stagehand/internal/app"
	booking "github.com/stagehandhq/stagehand/internal/booking/domain"
	"github.com/stagehandhq/stagehand/pkg/config"
)

// runStats tracks the outcome of the last reconciliation pass for the
// health endpoint.
type runStats struct {
	mu         sync.Mutex
	lastRunAt  time.Time
	artists    int
	drifts     int
	lastError  string
	runsTotal  int
	driftTotal int
}

func (s *runStats) record(artists, drifts int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRunAt = time.Now().UTC()
	s.artists = artists
	s.drifts = drifts
	s.runsTotal++
	s.driftTotal += drifts
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
}

func (s *runStats) snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]any{
		"status":      "ok",
		"last_run_at": s.lastRunAt,
		"artists":     s.artists,
		"drifts":      s.drifts,
		"runs_total":  s.runsTotal,
		"drift_total": s.driftTotal,
		"last_error":  s.lastError,
	}
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	logger.Info("starting stagehand worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	container, err := app.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer container.Close()
	logger = container.Logger

	stats := &runStats{}

	if cfg.WorkerHealthAddr != "" {
		startHealthServer(ctx, cfg.WorkerHealthAddr, stats, logger)
	}

	reconcile := func() {
		artists, drifts, err := reconcileAll(ctx, container, cfg.ReconcileWindow)
		stats.record(artists, drifts, err)
		if err != nil {
			logger.Error("reconciliation pass failed", "error", err)
			return
		}
		logger.Info("reconciliation pass completed", "artists", artists, "drifts", drifts)
	}

	logger.Info("starting reconciliation loop",
		"interval", cfg.ReconcileInterval,
		"window", cfg.ReconcileWindow,
	)

	reconcile()

	ticker := time.NewTicker(cfg.ReconcileInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker stopped")
			return
		case <-ticker.C:
			reconcile()
		}
	}
}

// reconcileAll checks every artist that holds a confirmed booking. Artists
// without confirmed bookings have nothing a booked entry could drift from,
// so drift there shows up through the booking's own artist anyway.
func reconcileAll(ctx context.Context, container *app.Container, window time.Duration) (artists, drifts int, err error) {
	confirmed, err := container.Bookings.ListByStatus(ctx, booking.StatusConfirmed)
	if err != nil {
		return 0, 0, err
	}

	ids := make(map[uuid.UUID]bool)
	for _, b := range confirmed {
		ids[b.ArtistID()] = true
	}

	start := time.Now().UTC()
	end := start.Add(window)
	for artistID := range ids {
		found, err := container.Reconciler.CheckArtist(ctx, artistID, start, end)
		if err != nil {
			return len(ids), drifts, err
		}
		drifts += len(found)
	}
	return len(ids), drifts, nil
}

func startHealthServer(ctx context.Context, addr string, stats *runStats, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats.snapshot())
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("health server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("health server shutdown error", "error", err)
		}
	}()
}
