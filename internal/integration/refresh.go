// Package integration keeps the external-system status panel alive with
// fabricated telemetry. There is no real connection to any of the systems.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/railsuraksha/railsuraksha/internal/metrics"
	"github.com/railsuraksha/railsuraksha/internal/model"
	"github.com/railsuraksha/railsuraksha/internal/store"
)

// Triggers label where a refresh came from.
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// LastRefreshKey is the settings key holding the last refresh time.
const LastRefreshKey = "integrations_refreshed_at"

// Refresher re-fabricates integration telemetry.
type Refresher struct {
	DB      *sql.DB
	Metrics *metrics.Metrics
	Now     func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRefresher returns a refresher seeded from the current time.
func NewRefresher(db *sql.DB, m *metrics.Metrics) *Refresher {
	seed := uint64(time.Now().UnixNano())
	return &Refresher{
		DB:      db,
		Metrics: m,
		Now:     time.Now,
		rng:     rand.New(rand.NewPCG(seed, seed>>1)),
	}
}

// Refresh updates every system not under maintenance and returns the new
// state of all systems.
func (r *Refresher) Refresh(ctx context.Context, trigger string) ([]model.IntegrationSystem, error) {
	systems, err := r.refresh(ctx)
	r.Metrics.Refreshed(trigger, err)
	if err != nil {
		return nil, err
	}
	slog.Info("integrations refreshed", "trigger", trigger, "systems", len(systems))
	return systems, nil
}

func (r *Refresher) refresh(ctx context.Context) ([]model.IntegrationSystem, error) {
	systems, err := store.ListIntegrations(ctx, r.DB)
	if err != nil {
		return nil, err
	}

	now := r.Now().UTC().Truncate(time.Second)
	for i := range systems {
		if systems[i].Status == model.IntegrationMaintenance {
			continue
		}
		r.mu.Lock()
		fabricate(r.rng, &systems[i], now)
		r.mu.Unlock()
		if err := store.UpdateIntegration(ctx, r.DB, systems[i]); err != nil {
			return nil, err
		}
	}

	if err := store.SetSetting(ctx, r.DB, LastRefreshKey, now.Format(time.RFC3339)); err != nil {
		return nil, err
	}
	return systems, nil
}

// fabricate moves the telemetry of s a small random step, keeping its status.
func fabricate(rng *rand.Rand, s *model.IntegrationSystem, now time.Time) {
	switch s.Status {
	case model.IntegrationConnected:
		s.ResponseTimeMs = 120 + rng.IntN(280)
		s.ErrorCount += rng.IntN(2)
	case model.IntegrationWarning:
		s.ResponseTimeMs = 800 + rng.IntN(700)
		s.ErrorCount += rng.IntN(4)
	case model.IntegrationError:
		s.ResponseTimeMs = 0
		s.ErrorCount += 1 + rng.IntN(5)
		s.Uptime = clampUptime(s.Uptime - rng.Float64()*0.3)
		return
	}

	s.Uptime = clampUptime(s.Uptime + (rng.Float64()-0.5)*0.4)
	s.DataPoints += int64(100 + rng.IntN(4900))
	s.LastSync = now
}

func clampUptime(v float64) float64 {
	v = math.Round(v*10) / 10
	return math.Max(0, math.Min(100, v))
}

// LastRefresh returns when telemetry was last refreshed, or the zero time.
func LastRefresh(ctx context.Context, db *sql.DB) (time.Time, error) {
	v, err := store.GetSetting(ctx, db, LastRefreshKey)
	if err != nil || v == "" {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing last refresh: %w", err)
	}
	return t, nil
}

// Start schedules Refresh on the given cron spec and starts the scheduler.
// Stop the returned cron to end it.
func (r *Refresher) Start(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		r.runScheduled(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("registering refresh schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}

// runScheduled is the cron job: refresh telemetry, then drop revocations of
// tokens that have expired since.
func (r *Refresher) runScheduled(ctx context.Context) {
	if _, err := r.Refresh(ctx, TriggerSchedule); err != nil {
		slog.Error("scheduled integration refresh failed", "error", err)
	}
	n, err := store.PurgeRevokedTokens(ctx, r.DB, r.Now())
	if err != nil {
		slog.Error("failed to purge revoked tokens", "error", err)
		return
	}
	if n > 0 {
		slog.Debug("purged expired token revocations", "count", n)
	}
}

// Wait blocks for d to mimic a slow remote call, returning early with the
// context's error if it is cancelled.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
