package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var (
	color = termenv.EnvColorProfile().Color

	digitStyles = [...]func(string) string{
		1: termenv.Style{}.Foreground(color("4")).Styled,
		2: termenv.Style{}.Foreground(color("2")).Styled,
		3: termenv.Style{}.Foreground(color("1")).Styled,
		4: termenv.Style{}.Foreground(color("5")).Styled,
		5: termenv.Style{}.Foreground(color("3")).Styled,
		6: termenv.Style{}.Foreground(color("6")).Styled,
		7: termenv.Style{}.Foreground(color("7")).Styled,
		8: termenv.Style{}.Foreground(color("8")).Styled,
	}
	flagStyle   = termenv.Style{}.Foreground(color("11")).Bold().Styled
	mineStyle   = termenv.Style{}.Foreground(color("9")).Bold().Styled
	statusStyle = termenv.Style{}.Bold().Styled
	errorStyle  = termenv.Style{}.Foreground(color("1")).Styled
)

const (
	hidden   = "~"
	flagged  = "!"
	mine     = "*"
	exploded = "X"
	empty    = " "
)

type model struct {
	params mines.GameParams
	rnd    mines.Rand
	game   *mines.Session

	row, col int
	err      error
}

func newModel(params mines.GameParams, rnd mines.Rand) (model, error) {
	game, err := mines.NewSession(params, rnd)
	if err != nil {
		return model{}, err
	}
	return model{params: params, rnd: rnd, game: game}, nil
}

func (m model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.err = nil

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.row > 0 {
			m.row--
		}
	case "down", "j":
		if m.row < m.params.Rows-1 {
			m.row++
		}
	case "left", "h":
		if m.col > 0 {
			m.col--
		}
	case "right", "l":
		if m.col < m.params.Cols-1 {
			m.col++
		}
	case " ", "enter":
		m.err = m.open()
	case "f":
		_, m.err = m.game.ToggleFlag(m.row, m.col)
	case "r":
		game, err := mines.NewSession(m.params, m.rnd)
		if err != nil {
			m.err = err
			break
		}
		m.game = game
	}
	return m, nil
}

// open reveals a closed cell or chords an open one.
func (m model) open() error {
	snap := m.game.Snapshot()
	var err error
	if snap.At(m.row, m.col).IsOpen {
		_, err = m.game.Chord(m.row, m.col)
	} else {
		_, err = m.game.Reveal(m.row, m.col)
	}
	if errors.Is(err, mines.ErrGameOver) {
		return nil
	}
	return err
}

func renderCell(c mines.Cell, isExploded bool) string {
	switch {
	case isExploded:
		return mineStyle(exploded)
	case c.IsFlagged:
		return flagStyle(flagged)
	case !c.IsOpen:
		return hidden
	case c.IsMine:
		return mineStyle(mine)
	case c.AdjacentMines == 0:
		return empty
	default:
		return digitStyles[c.AdjacentMines](strconv.Itoa(c.AdjacentMines))
	}
}

func (m model) View() string {
	snap := m.game.Snapshot().Masked()

	var b strings.Builder
	b.WriteString(statusStyle("Minesweeper " + m.params.Seed()))
	b.WriteString("\n\n")

	for x := range snap.Rows {
		for y := range snap.Cols {
			lo, hi := " ", " "
			if x == m.row && y == m.col {
				lo, hi = "[", "]"
			}
			isExploded := snap.Exploded != nil && *snap.Exploded == mines.Point{X: x, Y: y}
			b.WriteString(lo + renderCell(snap.At(x, y), isExploded) + hi)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch snap.Status {
	case mines.Won:
		b.WriteString(statusStyle("YOU WIN"))
	case mines.Lost:
		b.WriteString(statusStyle("GAME OVER"))
	default:
		fmt.Fprintf(&b, "mines left: %d", snap.MineCount-snap.FlagCount)
	}
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle(m.err.Error()) + "\n")
	}
	b.WriteString("arrows move, space opens, f flags, r restarts, q quits\n")
	return b.String()
}
