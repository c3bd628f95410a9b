package repository

import (
	"cmp"
	"context"
	"slices"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

type Highscore struct {
	GameSessionId string  `json:"game_session_id"`
	Rows          int     `json:"rows"`
	Cols          int     `json:"cols"`
	MineCount     int     `json:"mine_count"`
	PlaytimeMs    float64 `json:"playtime_ms"`
}

type HighscoreFilter struct {
	GameParams *mines.GameParams
	Limit      int
}

func (f HighscoreFilter) match(s *GameSession) bool {
	if s.Status != mines.Won || s.EndedAt == nil {
		return false
	}
	if f.GameParams != nil && *f.GameParams != s.GameParams() {
		return false
	}
	return true
}

// GetHighscores lists won sessions, fastest first.
func (q *Queries) GetHighscores(
	ctx context.Context, filter HighscoreFilter,
) ([]Highscore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q.mu.Lock()
	highscores := make([]Highscore, 0)
	for _, s := range q.sessions {
		if !filter.match(s) {
			continue
		}
		highscores = append(highscores, Highscore{
			GameSessionId: s.GameSessionId.String(),
			Rows:          s.Rows,
			Cols:          s.Cols,
			MineCount:     s.MineCount,
			PlaytimeMs:    float64(s.Playtime().Microseconds()) / 1000,
		})
	}
	q.mu.Unlock()

	slices.SortFunc(highscores, func(a, b Highscore) int {
		return cmp.Or(
			cmp.Compare(a.PlaytimeMs, b.PlaytimeMs),
			cmp.Compare(a.GameSessionId, b.GameSessionId),
		)
	})
	if filter.Limit > 0 && len(highscores) > filter.Limit {
		highscores = highscores[:filter.Limit]
	}
	return highscores, nil
}
