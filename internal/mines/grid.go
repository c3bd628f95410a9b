package mines

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.X, p.Y)
}

// Cell is one board position. AdjacentMines is only meaningful for cells
// that are not mines and never changes once mines are placed.
type Cell struct {
	IsOpen        bool
	IsMine        bool
	IsFlagged     bool
	AdjacentMines int
}

func (c Cell) String() string {
	switch {
	case c.IsFlagged:
		return "*"
	case !c.IsOpen:
		return " "
	case c.IsMine:
		return "x"
	default:
		return strconv.Itoa(c.AdjacentMines)
	}
}

// Board is a Rows x Cols grid stored row-major: cell (x, y) lives at
// x*Cols + y.
type Board struct {
	Rows, Cols int
	Cells      []Cell
}

func NewBoard(rows, cols int) Board {
	cells := make([]Cell, 0, rows*cols)
	for range rows {
		for range cols {
			cells = append(cells, Cell{})
		}
	}
	return Board{Rows: rows, Cols: cols, Cells: cells}
}

func (b Board) InBounds(x, y int) bool {
	return 0 <= x && x < b.Rows && 0 <= y && y < b.Cols
}

func (b Board) index(x, y int) int {
	return x*b.Cols + y
}

func (b Board) point(i int) Point {
	return Point{i / b.Cols, i % b.Cols}
}

// At returns a pointer into the board; callers must check bounds first.
func (b *Board) At(x, y int) *Cell {
	return &b.Cells[b.index(x, y)]
}

func (b Board) Neighbors(x, y int) iter.Seq[Point] {
	return Neighbors(x, y, b.Rows, b.Cols)
}

// Neighbors yields the in-bounds cells at Chebyshev distance 1 from (x, y),
// in row-major order.
func Neighbors(x, y, rows, cols int) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				xx, yy := x+dx, y+dy
				if xx < 0 || xx >= rows || yy < 0 || yy >= cols {
					continue
				}
				if !yield(Point{xx, yy}) {
					return
				}
			}
		}
	}
}

func (b Board) countNeighbors(x, y int, pred func(Cell) bool) int {
	n := 0
	for p := range b.Neighbors(x, y) {
		if pred(b.Cells[b.index(p.X, p.Y)]) {
			n++
		}
	}
	return n
}

func (b Board) String() string {
	var sb strings.Builder
	for x := range b.Rows {
		for y := range b.Cols {
			fmt.Fprint(&sb, b.Cells[b.index(x, y)].String()+" ")
		}
		fmt.Fprint(&sb, "\n")
	}
	return sb.String()
}
