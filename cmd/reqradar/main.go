// reqradar — outreach pipeline derived-state service
//
// Backend for the ReqRadar job-search CRM frontend. Serves pipeline
// boards, opportunity card insights and dashboard analytics:
//   - opportunity CRUD + stage transitions (state machine)
//   - per-card next-action resolution and engagement aggregates
//   - conversion funnel + industry benchmark comparisons
//
// A cron refresher keeps per-user funnel snapshots warm in Redis.
// Publishes EVENT_STAGE_MOVED / EVENT_OPPORTUNITY_ACTIVATED to Redis for
// Gateway SSE forward.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattbrownshow/reqradar-sub001/internal/config"
	"github.com/mattbrownshow/reqradar-sub001/internal/db"
	"github.com/mattbrownshow/reqradar-sub001/internal/outreach"
	"github.com/mattbrownshow/reqradar-sub001/internal/refresh"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[reqradar] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[reqradar] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[reqradar] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[reqradar] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[reqradar] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[reqradar] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[reqradar] Redis connected ✓")

	// ── Service + snapshot refresher ─────────────────────────────────────────
	svc := outreach.NewService(pool, rdb)

	refresher := refresh.New(pool, rdb, svc, cfg.RefreshIntervalHours)
	if err := refresher.Start(ctx); err != nil {
		log.Fatalf("[reqradar] Refresher: %v", err)
	}
	defer refresher.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	h := outreach.NewHandler(svc)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[reqradar] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[reqradar] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[reqradar] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[reqradar] Shutdown error: %v", err)
	}
	log.Println("[reqradar] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "reqradar",
		"version": version,
	})
}
