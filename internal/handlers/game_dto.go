package handlers

import (
	"github.com/gorilla/schema"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/repository"
)

var decoder = func() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}()

type CreateNewGameDTO struct {
	Rows      int `schema:"rows,required"`
	Cols      int `schema:"cols,required"`
	MineCount int `schema:"mine_count,required"`
}

func ParseCreateNewGameDTO(src map[string][]string) (CreateNewGameDTO, error) {
	var dto CreateNewGameDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type Position struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func ParsePosition(src map[string][]string) (Position, error) {
	var pos Position
	err := decoder.Decode(&pos, src)
	return pos, err
}

type HighscoresDTO struct {
	Seed  string `schema:"seed"`
	Limit int    `schema:"limit"`
}

func ParseHighscoresDTO(src map[string][]string) (HighscoresDTO, error) {
	var dto HighscoresDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type CellState int8

const (
	Unknown      CellState = -2
	Flagged      CellState = -1
	ExplodedMine CellState = 65
	Mine         CellState = 67
	// 0-8 for an open cell with that many mined neighbors
)

func cellStates(snap mines.Snapshot) []CellState {
	grid := make([]CellState, len(snap.Cells))
	for i, c := range snap.Cells {
		switch {
		case c.IsFlagged:
			grid[i] = Flagged
		case !c.IsOpen:
			grid[i] = Unknown
		case c.IsMine:
			grid[i] = Mine
		default:
			grid[i] = CellState(c.AdjacentMines)
		}
	}
	if p := snap.Exploded; p != nil {
		grid[p.X*snap.Cols+p.Y] = ExplodedMine
	}
	return grid
}

type PointDTO struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type GameSessionDTO struct {
	GameSessionId string       `json:"game_session_id"`
	Token         string       `json:"token,omitempty"`
	Grid          []CellState  `json:"grid"`
	Rows          int          `json:"rows"`
	Cols          int          `json:"cols"`
	MineCount     int          `json:"mine_count"`
	FlagCount     int          `json:"flag_count"`
	Status        mines.Status `json:"status"`
	Exploded      *PointDTO    `json:"exploded,omitempty"`
	StartedAt     int64        `json:"started_at"`
	EndedAt       *int64       `json:"ended_at,omitempty"`
}

// NewGameSessionDTO renders what a client may see: closed cells stay
// unknown until the game is over.
func NewGameSessionDTO(
	session *repository.GameSession, game *mines.Session,
) *GameSessionDTO {
	snap := game.Snapshot().Masked()

	var endedAt *int64
	if session.EndedAt != nil {
		e := session.EndedAt.UnixMilli()
		endedAt = &e
	}
	var exploded *PointDTO
	if snap.Exploded != nil {
		exploded = &PointDTO{snap.Exploded.X, snap.Exploded.Y}
	}

	dto := &GameSessionDTO{
		GameSessionId: session.GameSessionId.String(),
		Grid:          cellStates(snap),
		Rows:          snap.Rows,
		Cols:          snap.Cols,
		MineCount:     snap.MineCount,
		FlagCount:     snap.FlagCount,
		Status:        snap.Status,
		Exploded:      exploded,
		StartedAt:     session.StartedAt.UnixMilli(),
		EndedAt:       endedAt,
	}
	return dto
}
