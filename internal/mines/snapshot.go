package mines

// Snapshot is a copy of a session's board for presentation. Changing it
// has no effect on the session.
type Snapshot struct {
	Rows, Cols int
	MineCount  int
	FlagCount  int
	Status     Status
	Exploded   *Point
	Cells      []Cell
}

func (s Snapshot) At(x, y int) Cell {
	return s.Cells[x*s.Cols+y]
}

// Masked hides mine positions and counts of closed cells, which is what a
// remote client is allowed to see.
func (s Snapshot) Masked() Snapshot {
	cells := make([]Cell, len(s.Cells))
	for i, c := range s.Cells {
		if c.IsOpen {
			cells[i] = c
		} else {
			cells[i] = Cell{IsFlagged: c.IsFlagged}
		}
	}
	s.Cells = cells
	return s
}
