// Package refresh wires up the cron job that periodically recomputes each
// user's conversion funnel and caches the snapshot in Redis, so dashboard
// loads do not hit the aggregate queries on every render.
package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/mattbrownshow/reqradar-sub001/internal/outreach"
	"github.com/mattbrownshow/reqradar-sub001/internal/pipeline"
)

// Refresher wraps robfig/cron and manages the snapshot loop.
type Refresher struct {
	cron *cron.Cron
	pool *pgxpool.Pool
	rdb  *redis.Client
	svc  *outreach.Service
	spec string // cron spec, e.g. "@every 6h"
	ttl  time.Duration
}

// New creates a Refresher that fires every intervalHours hours. Snapshots
// live for twice the interval so a failed cycle never serves an expired
// cache before the next attempt.
func New(pool *pgxpool.Pool, rdb *redis.Client, svc *outreach.Service, intervalHours int) *Refresher {
	return &Refresher{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		pool: pool,
		rdb:  rdb,
		svc:  svc,
		spec: fmt.Sprintf("@every %dh", intervalHours),
		ttl:  time.Duration(2*intervalHours) * time.Hour,
	}
}

// Start registers the job and starts the scheduler. Also runs one cycle
// immediately so dashboards are warm without waiting for the first tick.
func (r *Refresher) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() {
		r.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	r.cron.Start()
	log.Printf("[refresher] Cron started — spec: %s", r.spec)

	// Run immediately on startup (non-blocking)
	go r.runCycle(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (r *Refresher) Stop() {
	r.cron.Stop()
	log.Println("[refresher] Cron stopped")
}

// runCycle recomputes and caches the funnel for every user with pipeline
// data. Per-user failures are logged and skipped so one bad row never
// stalls the cycle.
func (r *Refresher) runCycle(ctx context.Context) {
	log.Println("[refresher] Snapshot cycle started")

	userIDs, err := r.activeUserIDs(ctx)
	if err != nil {
		log.Printf("[refresher] activeUserIDs error: %v", err)
		return
	}
	if len(userIDs) == 0 {
		log.Println("[refresher] No users with pipeline data — nothing to refresh")
		return
	}

	var refreshed, failed int
	for _, userID := range userIDs {
		if err := r.refreshUser(ctx, userID); err != nil {
			log.Printf("[refresher] Error refreshing user %s: %v — continuing", userID, err)
			failed++
			continue
		}
		refreshed++
	}

	log.Printf("[refresher] Snapshot cycle complete — refreshed=%d failed=%d", refreshed, failed)
}

// refreshUser computes one user's funnel and writes the snapshot.
func (r *Refresher) refreshUser(ctx context.Context, userID string) error {
	counts, err := r.svc.FunnelCounts(ctx, userID)
	if err != nil {
		return err
	}

	snapshot, err := json.Marshal(pipeline.CalculateFunnel(counts))
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := r.rdb.Set(ctx, outreach.FunnelCacheKey(userID), snapshot, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache snapshot: %w", err)
	}
	return nil
}

// activeUserIDs returns every user that owns at least one opportunity.
func (r *Refresher) activeUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT user_id::text FROM opportunities`,
	)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}
