// Package cache memoizes derived tables with per-kind TTLs.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chiefotto/clustercalculator/internal/metrics"
	"github.com/jonboulle/clockwork"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Memo kinds
const (
	KindDVP      = "dvp"
	KindGrouper  = "grouper"
	KindRegistry = "registry"
	KindRoster   = "roster"
	KindSchedule = "schedule"
	KindGameLogs = "gamelogs"
)

type entry struct {
	value   any
	expires time.Time
}

// Memo is an in-process memo table. Expiry is judged against the injected clock so
// tests can advance time; a zero TTL never expires.
type Memo struct {
	store  *gocache.Cache
	clock  clockwork.Clock
	group  singleflight.Group
	mu     sync.RWMutex
	hits   uint64
	misses uint64
}

// NewMemo creates a memo table. A nil clock uses the real clock.
func NewMemo(clock clockwork.Clock) *Memo {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Memo{
		store: gocache.New(gocache.NoExpiration, 0),
		clock: clock,
	}
}

// Key builds a memo key from a kind and its parts
func Key(kind string, parts ...any) string {
	var b strings.Builder
	b.WriteString(kind)
	for _, p := range parts {
		b.WriteByte(':')
		fmt.Fprint(&b, p)
	}
	return b.String()
}

// Get returns a live entry
func (m *Memo) Get(key string) (any, bool) {
	item, found := m.store.Get(key)
	if !found {
		return nil, false
	}
	e := item.(entry)
	if !e.expires.IsZero() && !m.clock.Now().Before(e.expires) {
		m.store.Delete(key)
		return nil, false
	}
	return e.value, true
}

// Set stores a value for ttl
func (m *Memo) Set(key string, value any, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.expires = m.clock.Now().Add(ttl)
	}
	m.store.Set(key, e, gocache.NoExpiration)
}

// Invalidate removes every entry whose key starts with prefix
func (m *Memo) Invalidate(prefix string) int {
	removed := 0
	for k := range m.store.Items() {
		if strings.HasPrefix(k, prefix) {
			m.store.Delete(k)
			removed++
		}
	}
	return removed
}

// Clear flushes the entire memo table
func (m *Memo) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.Flush()
	m.hits = 0
	m.misses = 0
}

// Stats returns hit and miss counts
func (m *Memo) Stats() (hits, misses uint64, ratio float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hits = m.hits
	misses = m.misses
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of stored entries, including expired ones not yet evicted
func (m *Memo) ItemCount() int {
	return m.store.ItemCount()
}

func (m *Memo) record(kind string, hit bool) {
	m.mu.Lock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
	m.mu.Unlock()

	if hit {
		metrics.RecordMemoHit(kind)
	} else {
		metrics.RecordMemoMiss(kind)
	}
}

// Remember returns the cached value for key or computes and stores it. Concurrent
// callers for the same key share one computation. Errors are not cached.
func Remember[T any](m *Memo, kind, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	if v, ok := m.Get(key); ok {
		if typed, ok := v.(T); ok {
			m.record(kind, true)
			return typed, nil
		}
	}
	m.record(kind, false)

	v, err, _ := m.group.Do(key, func() (any, error) {
		if v, ok := m.Get(key); ok {
			return v, nil
		}
		value, err := compute()
		if err != nil {
			return nil, err
		}
		m.Set(key, value, ttl)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
