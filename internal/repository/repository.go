package repository

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var ErrNotFound = errors.New("game session not found")

// Queries keeps game sessions in process memory. Every method takes the
// store lock, so moves on a session are applied one at a time.
type Queries struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*GameSession
	rnd      mines.Rand
	now      func() time.Time
}

// New returns an empty store. rnd places mines for sessions restored from
// the store; it is only ever used under the store lock.
func New(rnd mines.Rand) *Queries {
	return &Queries{
		sessions: make(map[uuid.UUID]*GameSession),
		rnd:      rnd,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (q *Queries) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.sessions)
}
