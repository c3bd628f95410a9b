package mines

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log/slog"
)

var Log *slog.Logger = slog.Default()

// Session is one game: a board plus the lifecycle around it. Mines are
// placed on the first reveal so that the first opened cell is never a mine.
//
// A Session is not safe for concurrent use.
type Session struct {
	params      GameParams
	board       Board
	rnd         Rand
	minesPlaced bool
	status      Status
	exploded    *Point
}

func NewSession(params GameParams, r Rand) (*Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = NewRand()
	}
	s := &Session{
		params: params,
		board:  NewBoard(params.Rows, params.Cols),
		rnd:    r,
	}
	return s, nil
}

func (s *Session) Params() GameParams { return s.params }
func (s *Session) Status() Status     { return s.status }
func (s *Session) MinesPlaced() bool  { return s.minesPlaced }

func (s *Session) checkMove(x, y int) error {
	if s.status.Terminal() {
		return ErrGameOver
	}
	if !s.board.InBounds(x, y) {
		return fmt.Errorf("%w: %d:%d on %dx%d board",
			ErrOutOfBounds, x, y, s.params.Rows, s.params.Cols)
	}
	return nil
}

// Reveal opens a closed cell or chords an open one and reports the
// resulting status. The first reveal of a session places the mines.
func (s *Session) Reveal(x, y int) (Status, error) {
	if err := s.checkMove(x, y); err != nil {
		return s.status, err
	}
	if s.board.At(x, y).IsFlagged {
		return s.status, nil
	}
	if !s.minesPlaced {
		err := PlaceMines(&s.board, s.params.MineCount, Point{x, y}, s.rnd)
		if err != nil {
			return s.status, fmt.Errorf("unable to place mines: %w", err)
		}
		s.minesPlaced = true
	}
	s.evaluate(s.board.Reveal(x, y))
	return s.status, nil
}

// Chord is Reveal restricted to open cells.
func (s *Session) Chord(x, y int) (Status, error) {
	if err := s.checkMove(x, y); err != nil {
		return s.status, err
	}
	if !s.board.At(x, y).IsOpen {
		return s.status, ErrCellClosed
	}
	s.evaluate(s.board.Reveal(x, y))
	return s.status, nil
}

func (s *Session) ToggleFlag(x, y int) (Status, error) {
	if err := s.checkMove(x, y); err != nil {
		return s.status, err
	}
	return s.status, s.board.ToggleFlag(x, y)
}

// Forfeit gives up an unfinished game: it is lost and the board is exposed.
func (s *Session) Forfeit() error {
	if s.status.Terminal() {
		return ErrGameOver
	}
	s.status = Lost
	s.board.OpenAll()
	return nil
}

func (s *Session) evaluate(mine Point, exploded bool) {
	switch {
	case exploded:
		/*
		 * The player has landed on a mine. Expose everything and
		 * remember which one did it.
		 */
		s.status = Lost
		s.exploded = &mine
		s.board.OpenAll()
		Log.Debug("mine opened", "cell", mine.String())
	case s.board.OpenCount() == s.params.SafeCells():
		s.status = Won
		s.board.FlagMines()
		Log.Debug("game won", "params", s.params.Seed())
	}
}

func (s *Session) Snapshot() Snapshot {
	cells := make([]Cell, len(s.board.Cells))
	copy(cells, s.board.Cells)
	snap := Snapshot{
		Rows:      s.params.Rows,
		Cols:      s.params.Cols,
		MineCount: s.params.MineCount,
		FlagCount: s.board.FlagCount(),
		Status:    s.status,
		Cells:     cells,
	}
	if s.exploded != nil {
		p := *s.exploded
		snap.Exploded = &p
	}
	return snap
}

func (s *Session) String() string {
	return s.board.String()
}

type sessionState struct {
	Params      GameParams
	Board       Board
	MinesPlaced bool
	Status      Status
	Exploded    *Point
}

func (s *Session) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(sessionState{
		Params:      s.params,
		Board:       s.board,
		MinesPlaced: s.minesPlaced,
		Status:      s.status,
		Exploded:    s.exploded,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// check rejects decoded state that no sequence of intents could produce.
func (state sessionState) check() error {
	p, b := state.Params, state.Board
	if b.Rows != p.Rows || b.Cols != p.Cols {
		return fmt.Errorf("session board is %dx%d, want %dx%d",
			b.Rows, b.Cols, p.Rows, p.Cols)
	}
	if len(b.Cells) != p.Rows*p.Cols {
		return fmt.Errorf("session board has %d cells, want %d",
			len(b.Cells), p.Rows*p.Cols)
	}
	if state.Status == Lost && b.OpenCount() != len(b.Cells) {
		return fmt.Errorf("lost session board is not fully open")
	}
	if e := state.Exploded; e != nil {
		if state.Status != Lost {
			return fmt.Errorf("session is %s but has an exploded mine", state.Status)
		}
		if !b.InBounds(e.X, e.Y) {
			return fmt.Errorf("exploded mine %s: %w", e, ErrOutOfBounds)
		}
		if !b.At(e.X, e.Y).IsMine {
			return fmt.Errorf("exploded cell %s is not a mine", e)
		}
	}
	return nil
}

// DecodeSession restores a session encoded with [Session.Bytes]. r is used
// for mine placement if the session has not placed its mines yet.
func DecodeSession(buf []byte, r Rand) (*Session, error) {
	var state sessionState
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&state); err != nil {
		return nil, err
	}
	if err := state.Params.Validate(); err != nil {
		return nil, err
	}
	if err := state.check(); err != nil {
		return nil, err
	}
	if r == nil {
		r = NewRand()
	}
	s := &Session{
		params:      state.Params,
		board:       state.Board,
		rnd:         r,
		minesPlaced: state.MinesPlaced,
		status:      state.Status,
		exploded:    state.Exploded,
	}
	return s, nil
}
