package mines

// Reveal opens (x, y) and cascades through zero-count cells. Revealing an
// open cell chords it: when the flags around it match its count, every
// closed unflagged neighbor is revealed too. Flagged cells are never opened.
//
// The walk stops at the first mine it opens and reports its position.
// Callers must check bounds first.
func (b *Board) Reveal(x, y int) (mine Point, exploded bool) {
	c := b.At(x, y)
	if c.IsFlagged {
		return Point{}, false
	}

	var todo []int
	if c.IsOpen {
		if c.IsMine || b.countNeighbors(x, y, isFlagged) != c.AdjacentMines {
			return Point{}, false
		}
		for p := range b.Neighbors(x, y) {
			if n := b.At(p.X, p.Y); !n.IsOpen && !n.IsFlagged {
				todo = append(todo, b.index(p.X, p.Y))
			}
		}
	} else {
		todo = append(todo, b.index(x, y))
	}

	for len(todo) > 0 {
		i := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		cell := &b.Cells[i]
		if cell.IsOpen || cell.IsFlagged {
			continue
		}
		cell.IsOpen = true
		if cell.IsMine {
			return b.point(i), true
		}
		if cell.AdjacentMines != 0 {
			continue
		}

		p := b.point(i)
		for q := range b.Neighbors(p.X, p.Y) {
			if n := b.At(q.X, q.Y); !n.IsMine && !n.IsOpen && !n.IsFlagged {
				todo = append(todo, b.index(q.X, q.Y))
			}
		}
	}

	return Point{}, false
}

// ToggleFlag flips the flag on a closed cell. Callers must check bounds first.
func (b *Board) ToggleFlag(x, y int) error {
	c := b.At(x, y)
	if c.IsOpen {
		return ErrCellOpen
	}
	c.IsFlagged = !c.IsFlagged
	return nil
}

// OpenAll exposes the whole board. Flags are cleared since a cell cannot
// be both open and flagged.
func (b *Board) OpenAll() {
	for i := range b.Cells {
		b.Cells[i].IsOpen = true
		b.Cells[i].IsFlagged = false
	}
}

// FlagMines marks every closed mine, as clients do once a game is won.
func (b *Board) FlagMines() {
	for i := range b.Cells {
		if b.Cells[i].IsMine && !b.Cells[i].IsOpen {
			b.Cells[i].IsFlagged = true
		}
	}
}

func (b Board) OpenCount() int {
	n := 0
	for _, c := range b.Cells {
		if c.IsOpen {
			n++
		}
	}
	return n
}

func (b Board) FlagCount() int {
	n := 0
	for _, c := range b.Cells {
		if c.IsFlagged {
			n++
		}
	}
	return n
}
