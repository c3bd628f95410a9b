package mines

import "fmt"

//go:generate stringer -type=Status -linecomment
type Status uint8

const (
	InProgress Status = iota // in_progress
	Won                      // won
	Lost                     // lost
)

func (s Status) Terminal() bool {
	return s == Won || s == Lost
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, c := range []Status{InProgress, Won, Lost} {
		if c.String() == string(text) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown game status %q", text)
}
