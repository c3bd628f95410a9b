package mines

import (
	"errors"
	"fmt"
)

// ConfigError reports game parameters that cannot produce a board.
type ConfigError struct {
	message string
}

// [ConfigError] implements [error]
func (e ConfigError) Error() string {
	return "invalid game params: " + e.message
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{fmt.Sprintf(format, args...)}
}

var (
	ErrOutOfBounds = errors.New("cell position out of bounds")
	ErrInvalidMove = errors.New("invalid move")

	ErrGameOver   = fmt.Errorf("%w: game is over", ErrInvalidMove)
	ErrCellOpen   = fmt.Errorf("%w: cell is open", ErrInvalidMove)
	ErrCellClosed = fmt.Errorf("%w: cell is closed", ErrInvalidMove)
)
