// Package position allocates sibling order tokens.
//
// A Position is a fixed-width token of Width lowercase hexadecimal digits.
// Lexicographic order of tokens equals numeric order, so the store can sort
// siblings with a plain text ORDER BY. Positions only order nodes that share
// a parent; they carry no meaning across parents.
//
// Allocation is pluggable behind the Allocator interface. The built-in
// BinaryAllocator picks the midpoint of the gap between the two neighbours
// and never renumbers existing siblings.
package position

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// Width is the number of digits in a position token.
	Width = 16

	// Radix is the numeric base of a position token.
	Radix = 16
)

var (
	// ErrSpaceExhausted is returned when no value fits strictly between the
	// chosen bounds.
	ErrSpaceExhausted = errors.New("position space exhausted")

	// ErrInvalidPosition is returned for tokens that are not Width
	// lowercase hex digits.
	ErrInvalidPosition = errors.New("invalid position")
)

// Position is a fixed-width sortable sibling token. The zero value means
// "no position" (an unordered node).
type Position string

// FromUint64 encodes v as a position token.
func FromUint64(v uint64) Position {
	return Position(fmt.Sprintf("%0*x", Width, v))
}

// Parse validates s as a position token.
func Parse(s string) (Position, error) {
	if len(s) != Width {
		return "", fmt.Errorf("%w: %q is %d digits, want %d", ErrInvalidPosition, s, len(s), Width)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9') && !(c >= 'a' && c <= 'f') {
			return "", fmt.Errorf("%w: %q has non-hex digit %q", ErrInvalidPosition, s, c)
		}
	}
	return Position(s), nil
}

// Uint64 decodes the token.
func (p Position) Uint64() (uint64, error) {
	if _, err := Parse(string(p)); err != nil {
		return 0, err
	}
	return strconv.ParseUint(string(p), Radix, 64)
}

// IsZero reports whether p is the "no position" value.
func (p Position) IsZero() bool {
	return p == ""
}

func (p Position) String() string {
	return string(p)
}

// Ptr returns a pointer to p, or nil for the zero value.
func (p Position) Ptr() *Position {
	if p == "" {
		return nil
	}
	return &p
}
