// Package dice provides the immutable Dice value object used by the game,
// along with face-list parsing and pairwise win probabilities.
package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDice is returned when a face list cannot describe a dice.
var ErrInvalidDice = errors.New("invalid dice")

// Dice is an ordered, immutable sequence of face values.
type Dice struct {
	sides []int
}

// New creates a dice from the given faces. At least one face is required and
// every face must be non-negative.
func New(sides ...int) (Dice, error) {
	if len(sides) == 0 {
		return Dice{}, fmt.Errorf("%w: no faces", ErrInvalidDice)
	}
	for i, s := range sides {
		if s < 0 {
			return Dice{}, fmt.Errorf("%w: face %d is negative (%d)", ErrInvalidDice, i, s)
		}
	}
	cp := make([]int, len(sides))
	copy(cp, sides)
	return Dice{sides: cp}, nil
}

// MustNew is like New but panics on invalid faces. Intended for tests and
// static tables.
func MustNew(sides ...int) Dice {
	d, err := New(sides...)
	if err != nil {
		panic(err)
	}
	return d
}

// Parse reads a comma separated face list such as "2,2,4,4,9,9".
func Parse(s string) (Dice, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Dice{}, fmt.Errorf("%w: empty face list", ErrInvalidDice)
	}

	parts := strings.Split(s, ",")
	sides := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Dice{}, fmt.Errorf("%w: %q is not an integer", ErrInvalidDice, p)
		}
		sides = append(sides, v)
	}
	return New(sides...)
}

// ParseAll parses each argument as a dice.
func ParseAll(args []string) ([]Dice, error) {
	set := make([]Dice, 0, len(args))
	for i, a := range args {
		d, err := Parse(a)
		if err != nil {
			return nil, fmt.Errorf("dice %d: %w", i, err)
		}
		set = append(set, d)
	}
	return set, nil
}

// Sides returns a copy of the faces in order.
func (d Dice) Sides() []int {
	cp := make([]int, len(d.sides))
	copy(cp, d.sides)
	return cp
}

// Len returns the number of faces.
func (d Dice) Len() int { return len(d.sides) }

// Face returns the face at index i.
func (d Dice) Face(i int) int { return d.sides[i] }

// Roll draws one face uniformly using the package default source.
func (d Dice) Roll() int {
	return d.RollWith(defaultSource)
}

// RollWith draws one face uniformly using src. The result is always one of
// the dice's faces.
func (d Dice) RollWith(src Source) int {
	return d.sides[src.Intn(len(d.sides))]
}

// String renders the faces as a comma separated list.
func (d Dice) String() string {
	parts := make([]string, len(d.sides))
	for i, s := range d.sides {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}
