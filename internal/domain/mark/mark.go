// Package mark defines the belief value stored in each grid cell and its
// fixed cyclic transition order.
package mark

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMark is returned when parsing text that names no mark.
var ErrUnknownMark = errors.New("unknown mark")

// Mark is the belief state for one (item, player) cell.
type Mark uint8

// Marks in cycle order. The zero value is Empty.
const (
	Empty Mark = iota
	No
	Yes
	Maybe
	Strong
	Revealed
)

// Order is the cyclic order a cell walks through on every tap.
var Order = []Mark{Empty, No, Yes, Maybe, Strong, Revealed} //nolint:gochecknoglobals // closed enum order

// transitions maps every mark to its successor.
var transitions = map[Mark]Mark{ //nolint:gochecknoglobals // closed transition table
	Empty:    No,
	No:       Yes,
	Yes:      Maybe,
	Maybe:    Strong,
	Strong:   Revealed,
	Revealed: Empty,
}

var names = map[Mark]string{ //nolint:gochecknoglobals // closed enum names
	Empty:    "EMPTY",
	No:       "NO",
	Yes:      "YES",
	Maybe:    "MAYBE",
	Strong:   "STRONG",
	Revealed: "REVEALED",
}

var labels = map[Mark]string{ //nolint:gochecknoglobals // legend shown next to the grid
	Empty:    "Limpar",
	No:       "Não é",
	Yes:      "Confirm.",
	Maybe:    "Talvez",
	Strong:   "Forte",
	Revealed: "Visto",
}

// Next returns the successor in the cycle. A value outside the enum is
// treated as Empty before advancing.
func (m Mark) Next() Mark {
	if next, ok := transitions[m]; ok {
		return next
	}
	return transitions[Empty]
}

// Held reports whether the mark says the player holds the card. Only Yes and
// Revealed qualify; entering either excludes the item for everyone else.
func (m Mark) Held() bool {
	return m == Yes || m == Revealed
}

// Valid reports whether m is one of the six defined marks.
func (m Mark) Valid() bool {
	_, ok := names[m]
	return ok
}

// Label returns the short legend text for the mark.
func (m Mark) Label() string {
	return labels[m]
}

func (m Mark) String() string {
	if s, ok := names[m]; ok {
		return s
	}
	return fmt.Sprintf("Mark(%d)", uint8(m))
}

// Parse converts a mark name (case-insensitive) back to a Mark.
func Parse(s string) (Mark, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for m, name := range names {
		if name == want {
			return m, nil
		}
	}
	return Empty, fmt.Errorf("%w: %q", ErrUnknownMark, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mark) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMark, uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mark) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
