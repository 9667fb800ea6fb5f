// Package session limits each client session to one in-flight computation.
package session

import (
	"sync"

	"golang.org/x/sync/semaphore"
)

// Gate hands out one slot per session ID. Slots are dropped on release, so
// the map only holds sessions with work in flight.
type Gate struct {
	mu       sync.Mutex
	sessions map[string]*semaphore.Weighted
}

func NewGate() *Gate {
	return &Gate{sessions: make(map[string]*semaphore.Weighted)}
}

// TryAcquire claims the slot for id without blocking. ok is false when the
// session already has work in flight; otherwise release must be called once.
func (g *Gate) TryAcquire(id string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	sem, exists := g.sessions[id]
	if !exists {
		sem = semaphore.NewWeighted(1)
		g.sessions[id] = sem
	}
	if !sem.TryAcquire(1) {
		return nil, false
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			sem.Release(1)
			delete(g.sessions, id)
		})
	}, true
}

// InFlight is the number of sessions currently holding a slot.
func (g *Gate) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sessions)
}
