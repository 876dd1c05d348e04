// Package netstatus provides the online/offline signal consumed to
// pre-empt backend calls when connectivity is down.
package netstatus

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"stokpanel/pkg/logger"
)

// Monitor reports whether the backend is reachable.
type Monitor interface {
	Online() bool
}

// Flag is a settable Monitor.
type Flag struct {
	online atomic.Bool
}

// NewFlag returns a Flag in the given initial state.
func NewFlag(online bool) *Flag {
	f := &Flag{}
	f.online.Store(online)
	return f
}

// Online implements Monitor.
func (f *Flag) Online() bool {
	return f.online.Load()
}

// SetOnline updates the connectivity state.
func (f *Flag) SetOnline(v bool) {
	f.online.Store(v)
}

// PoolProbe keeps a Flag current by periodically pinging the database pool.
type PoolProbe struct {
	pool     *pgxpool.Pool
	flag     *Flag
	interval time.Duration
}

// NewPoolProbe creates a probe updating flag every interval.
func NewPoolProbe(pool *pgxpool.Pool, flag *Flag, interval time.Duration) *PoolProbe {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &PoolProbe{pool: pool, flag: flag, interval: interval}
}

// Run blocks until ctx is cancelled, pinging the pool on each tick.
// State transitions are logged; steady state is silent.
func (p *PoolProbe) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := p.pool.Ping(pingCtx)
			cancel()

			wasOnline := p.flag.Online()
			nowOnline := err == nil
			if wasOnline != nowOnline {
				if nowOnline {
					logger.Info(ctx, "backend connectivity restored")
				} else {
					logger.Warn(ctx, "backend unreachable", "error", err)
				}
				p.flag.SetOnline(nowOnline)
			}
		}
	}
}
