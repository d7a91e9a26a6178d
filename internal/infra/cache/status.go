// Package cache holds the process-local status cache: one denormalized
// snapshot per event, overwritten after every committed write that touches
// that event's counters. Entries never expire; they live until overwritten
// or the process restarts.
package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Snapshot is a point-in-time view of an event's counters. A snapshot is
// only installed after its source transaction has committed, so it can
// never reflect uncommitted or rolled-back state.
type Snapshot struct {
	EventID       uuid.UUID
	Name          string
	Capacity      int
	Available     int
	WaitlistCount int64
	// Version is the event's commit-ordered write version. Installs race
	// each other once the row lock is released at commit, so the version
	// decides which snapshot survives, not arrival order.
	Version int64
	AsOf    time.Time
}

type StatusCache interface {
	// Get returns the snapshot for the event, or ok=false on miss. A miss
	// is a normal control-flow branch, never an error.
	Get(eventID uuid.UUID) (Snapshot, bool)
	// Set installs the snapshot for the event unless a snapshot with an
	// equal or newer version is already cached.
	Set(eventID uuid.UUID, snap Snapshot)
}

type MemoryStatusCache struct {
	mu        sync.RWMutex
	snapshots map[uuid.UUID]Snapshot
}

func NewMemoryStatusCache() *MemoryStatusCache {
	return &MemoryStatusCache{
		snapshots: make(map[uuid.UUID]Snapshot),
	}
}

func (c *MemoryStatusCache) Get(eventID uuid.UUID) (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap, ok := c.snapshots[eventID]
	return snap, ok
}

func (c *MemoryStatusCache) Set(eventID uuid.UUID, snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.snapshots[eventID]; ok && cur.Version >= snap.Version {
		return
	}
	c.snapshots[eventID] = snap
}

// Len reports the number of cached events. Used by tests.
func (c *MemoryStatusCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.snapshots)
}
