// Package stats counts spawned monsters per type and flushes the counters
// into the kv store.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/udisondev/otspawn/internal/kv"
	"github.com/udisondev/otspawn/internal/model"
)

const (
	// KeyPrefix prefixes per-type counters ("spawns.rat").
	KeyPrefix = "spawns."
	// SummaryKey holds the totals map.
	SummaryKey = "spawns.summary"

	// DefaultFlushInterval is used when no interval is configured.
	DefaultFlushInterval = 30 * time.Second
)

// Recorder is a spawn listener counting spawns per monster type.
type Recorder struct {
	store    *kv.Store
	interval time.Duration
	now      func() time.Time

	mu     sync.Mutex
	counts map[string]int64 // lower-case qualified type name → spawns
	total  int64
	dirty  bool
}

// NewRecorder creates a Recorder flushing to store every interval.
func NewRecorder(store *kv.Store, interval time.Duration) *Recorder {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &Recorder{
		store:    store,
		interval: interval,
		now:      time.Now,
		counts:   make(map[string]int64),
	}
}

// OnMonsterSpawn counts one spawn.
func (r *Recorder) OnMonsterSpawn(m *model.Monster, _ model.Position) {
	name := strings.ToLower(m.Type().QualifiedName())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[name]++
	r.total++
	r.dirty = true
}

// Count returns spawns recorded for a qualified type name.
func (r *Recorder) Count(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[strings.ToLower(name)]
}

// Total returns all recorded spawns.
func (r *Recorder) Total() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// Start flushes periodically until ctx is cancelled, then flushes once more.
func (r *Recorder) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("spawn stats recorder started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			// final flush must outlive the cancelled context
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			if err := r.Flush(flushCtx); err != nil {
				slog.Error("final spawn stats flush failed", "err", err)
			}
			cancel()
			slog.Info("spawn stats recorder stopped")
			return ctx.Err()

		case <-ticker.C:
			if err := r.Flush(ctx); err != nil {
				slog.Error("spawn stats flush failed", "err", err)
			}
		}
	}
}

// Flush writes counters and the summary if anything changed since the last flush.
func (r *Recorder) Flush(ctx context.Context) error {
	r.mu.Lock()
	if !r.dirty {
		r.mu.Unlock()
		return nil
	}
	counts := make(map[string]int64, len(r.counts))
	for name, n := range r.counts {
		counts[name] = n
	}
	total := r.total
	r.dirty = false
	r.mu.Unlock()

	perType := make(map[string]*kv.Value, len(counts))
	for name, n := range counts {
		if err := r.store.Put(ctx, KeyPrefix+name, kv.Int(n)); err != nil {
			r.markDirty()
			return fmt.Errorf("flushing %s: %w", name, err)
		}
		perType[name] = kv.Int(n)
	}

	summary := kv.Map(map[string]*kv.Value{
		"total":     kv.Int(total),
		"types":     kv.Map(perType),
		"flushedAt": kv.String(r.now().UTC().Format(time.RFC3339)),
	})
	if err := r.store.Put(ctx, SummaryKey, summary); err != nil {
		r.markDirty()
		return fmt.Errorf("flushing summary: %w", err)
	}

	slog.Debug("spawn stats flushed", "types", len(counts), "total", total)
	return nil
}

func (r *Recorder) markDirty() {
	r.mu.Lock()
	r.dirty = true
	r.mu.Unlock()
}
