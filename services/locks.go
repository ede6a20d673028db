package services

import (
	"context"
	"sync"
)

// tournamentLocks serializes work per tournament id. Entries are reference
// counted and dropped once nobody holds or waits for them.
type tournamentLocks struct {
	mu      sync.Mutex
	entries map[int]*lockEntry
}

type lockEntry struct {
	sem  chan struct{}
	refs int
}

func newTournamentLocks() *tournamentLocks {
	return &tournamentLocks{entries: make(map[int]*lockEntry)}
}

// acquire blocks until the lock of id is free or ctx is done.
func (l *tournamentLocks) acquire(ctx context.Context, id int) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[id]
	if !ok {
		e = &lockEntry{sem: make(chan struct{}, 1)}
		l.entries[id] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
		return func() {
			<-e.sem
			l.release(id, e)
		}, nil
	case <-ctx.Done():
		l.release(id, e)
		return nil, ctx.Err()
	}
}

func (l *tournamentLocks) release(id int, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, id)
	}
}

func (l *tournamentLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
