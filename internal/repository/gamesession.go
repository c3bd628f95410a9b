package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vancomm/minesweeper-engine/internal/mines"
)

type GameSession struct {
	GameSessionId uuid.UUID
	Rows          int
	Cols          int
	MineCount     int
	Status        mines.Status
	StartedAt     time.Time
	EndedAt       *time.Time
	State         []byte
	UpdatedAt     time.Time
}

func (s GameSession) GameParams() mines.GameParams {
	return mines.GameParams{Rows: s.Rows, Cols: s.Cols, MineCount: s.MineCount}
}

func (s GameSession) Playtime() time.Duration {
	if s.EndedAt == nil {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// copy returns a value the caller may keep; State is replaced on update,
// never written in place, so it can be shared.
func (s *GameSession) copy() *GameSession {
	c := *s
	if s.EndedAt != nil {
		e := *s.EndedAt
		c.EndedAt = &e
	}
	return &c
}

func (q *Queries) CreateGameSession(
	ctx context.Context, game *mines.Session,
) (*GameSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state, err := game.Bytes()
	if err != nil {
		return nil, fmt.Errorf("unable to encode game state: %w", err)
	}

	now := q.now()
	params := game.Params()
	session := &GameSession{
		GameSessionId: uuid.New(),
		Rows:          params.Rows,
		Cols:          params.Cols,
		MineCount:     params.MineCount,
		Status:        game.Status(),
		StartedAt:     now,
		State:         state,
		UpdatedAt:     now,
	}
	if session.Status.Terminal() {
		session.EndedAt = &now
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.sessions[session.GameSessionId] = session
	return session.copy(), nil
}

func (q *Queries) FetchGameSession(
	ctx context.Context, gameSessionId uuid.UUID,
) (*GameSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	session, ok := q.sessions[gameSessionId]
	if !ok {
		return nil, ErrNotFound
	}
	return session.copy(), nil
}

// FetchGame returns the session row together with its decoded game.
func (q *Queries) FetchGame(
	ctx context.Context, gameSessionId uuid.UUID,
) (*GameSession, *mines.Session, error) {
	session, err := q.FetchGameSession(ctx, gameSessionId)
	if err != nil {
		return nil, nil, err
	}
	game, err := mines.DecodeSession(session.State, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("stored game state is invalid: %w", err)
	}
	return session, game, nil
}

// Play applies move to the stored game and saves the result. If move fails
// nothing is saved and its error is returned as is.
func (q *Queries) Play(
	ctx context.Context,
	gameSessionId uuid.UUID,
	move func(game *mines.Session) error,
) (*GameSession, *mines.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	session, ok := q.sessions[gameSessionId]
	if !ok {
		return nil, nil, ErrNotFound
	}

	game, err := mines.DecodeSession(session.State, q.rnd)
	if err != nil {
		return nil, nil, fmt.Errorf("stored game state is invalid: %w", err)
	}

	if err := move(game); err != nil {
		return session.copy(), game, err
	}

	state, err := game.Bytes()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to encode game state: %w", err)
	}

	now := q.now()
	session.State = state
	session.Status = game.Status()
	session.UpdatedAt = now
	if session.Status.Terminal() && session.EndedAt == nil {
		session.EndedAt = &now
	}

	return session.copy(), game, nil
}

// DeleteStaleGameSessions drops sessions not touched since cutoff and
// reports how many were removed.
func (q *Queries) DeleteStaleGameSessions(
	ctx context.Context, cutoff time.Time,
) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for id, session := range q.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(q.sessions, id)
			n++
		}
	}
	return n, nil
}
