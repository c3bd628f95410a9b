package handlers

import (
	"fmt"
	"strings"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

//go:generate stringer -type=GameMove
type GameMove uint8

const (
	Open GameMove = iota + 1
	Flag
	Chord
	lastMove
)

var ErrBadMove error

func init() {
	var allowedMoves []string
	for i := 1; i < int(lastMove); i++ {
		allowedMoves = append(allowedMoves, "'"+GameMove(i).String()+"'")
	}
	ErrBadMove = fmt.Errorf(
		"move must be one of %s",
		strings.ToLower(strings.Join(allowedMoves, ", ")),
	)
}

func decodeGameMove(s string) (move GameMove, err error) {
	switch strings.ToLower(s) {
	case "open":
		move = Open
	case "flag":
		move = Flag
	case "chord":
		move = Chord
	default:
		err = ErrBadMove
	}
	return
}

func (m GameMove) apply(game *mines.Session, x, y int) error {
	var err error
	switch m {
	case Open:
		_, err = game.Reveal(x, y)
	case Flag:
		_, err = game.ToggleFlag(x, y)
	case Chord:
		_, err = game.Chord(x, y)
	default:
		err = ErrBadMove
	}
	return err
}
