package game

import (
	"sync"

	"github.com/mcoot/fourpics/internal/model"
)

// gameLocks hands out one mutex per game, dropping it when nobody holds it
type gameLocks struct {
	mu    sync.Mutex
	locks map[model.GameID]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

func newGameLocks() *gameLocks {
	return &gameLocks{locks: make(map[model.GameID]*refLock)}
}

// lock blocks until the game's mutex is held and returns its release func
func (g *gameLocks) lock(id model.GameID) func() {
	g.mu.Lock()
	l, ok := g.locks[id]
	if !ok {
		l = &refLock{}
		g.locks[id] = l
	}
	l.refs++
	g.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		g.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(g.locks, id)
		}
		g.mu.Unlock()
	}
}

func (g *gameLocks) size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.locks)
}
