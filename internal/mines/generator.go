package mines

import (
	"fmt"
	"math"
	"strings"
)

// Rand is the randomness source for mine placement. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type GameParams struct {
	Rows, Cols, MineCount int
}

func (p GameParams) Unpack() (rows int, cols int, mc int) {
	return p.Rows, p.Cols, p.MineCount
}

func (p GameParams) Validate() error {
	if p.Rows <= 0 || p.Cols <= 0 {
		return configErrorf("board must be at least 1x1, got %dx%d", p.Rows, p.Cols)
	}
	if p.Rows > math.MaxInt/p.Cols {
		return configErrorf("board %dx%d is too large", p.Rows, p.Cols)
	}
	if limit := p.Rows*p.Cols - 1; p.MineCount < 0 || p.MineCount > limit {
		return configErrorf("mine count must be in [0, %d], got %d", limit, p.MineCount)
	}
	return nil
}

func (p GameParams) SafeCells() int {
	return p.Rows*p.Cols - p.MineCount
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Rows, p.Cols, p.MineCount)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Rows, &p.Cols, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	return p, p.Validate()
}

// PlaceMines puts mineCount mines on b uniformly at random, never on
// excluded, and fills in AdjacentMines for every other cell.
func PlaceMines(b *Board, mineCount int, excluded Point, r Rand) error {
	params := GameParams{Rows: b.Rows, Cols: b.Cols, MineCount: mineCount}
	if err := params.Validate(); err != nil {
		return err
	}
	if !b.InBounds(excluded.X, excluded.Y) {
		return fmt.Errorf("excluded cell %s: %w", excluded, ErrOutOfBounds)
	}

	/*
	 * Write down the list of possible mine locations.
	 */
	skip := b.index(excluded.X, excluded.Y)
	candidates := make([]int, 0, len(b.Cells)-1)
	for i := range b.Cells {
		if i != skip {
			candidates = append(candidates, i)
		}
	}

	/*
	 * Now pick n off the list at random.
	 */
	k := len(candidates)
	for range mineCount {
		i := r.IntN(k)
		b.Cells[candidates[i]].IsMine = true
		k--
		candidates[i] = candidates[k]
	}

	for i := range b.Cells {
		if b.Cells[i].IsMine {
			continue
		}
		p := b.point(i)
		b.Cells[i].AdjacentMines = b.countNeighbors(p.X, p.Y, isMine)
	}

	Log.Debug("placed mines", "mineCount", mineCount, "excluded", excluded.String())
	return nil
}

func isMine(c Cell) bool    { return c.IsMine }
func isFlagged(c Cell) bool { return c.IsFlagged }
