package position

import (
	"errors"
	"fmt"
)

// Neighbors is the (left, reference, right) triple around an insertion
// point. Any member may be nil: Left/Right at a boundary, Current when
// inserting into a parent rather than next to a node.
type Neighbors struct {
	Left    *Position
	Current *Position
	Right   *Position
}

// Allocator computes a new sibling position that sorts strictly inside the
// bounds implied by the neighbours and the slot.
//
// Implementations must be pure: they may not read or modify existing
// siblings. Callers serialize allocation with the insert that follows it.
type Allocator interface {
	Allocate(n Neighbors, slot Slot) (Position, error)
}

// BinaryAllocator implements gap partition: the new position is the
// midpoint of the interval between the lower and upper bound.
//
// Bounds by slot, searching the triple in the listed order and falling back
// to the space minimum (0) or maximum (16^16):
//
//	slot   lower                  upper
//	First  0                      Left, Current, Right
//	Last   Right, Current, Left   max
//	Left   Left                   Current, Right
//	Right  Current, Left          Right
//
// Every insert between the same pair halves the gap, so after about 64
// such inserts the gap closes and Allocate returns ErrSpaceExhausted. There
// is no rebalancing.
type BinaryAllocator struct{}

type boundSource struct {
	lower []int // indexes into the (Left, Current, Right) triple
	upper []int
}

var binaryBounds = map[Slot]boundSource{
	First: {lower: nil, upper: []int{0, 1, 2}},
	Last:  {lower: []int{2, 1, 0}, upper: nil},
	Left:  {lower: []int{0}, upper: []int{1, 2}},
	Right: {lower: []int{1, 0}, upper: []int{2}},
}

// Allocate implements Allocator.
func (BinaryAllocator) Allocate(n Neighbors, slot Slot) (Position, error) {
	src, ok := binaryBounds[slot]
	if !ok {
		return "", fmt.Errorf("allocate: invalid slot %v", slot)
	}
	triple := [3]*Position{n.Left, n.Current, n.Right}

	lower, _, err := pick(triple, src.lower)
	if err != nil {
		return "", fmt.Errorf("allocate: lower bound: %w", err)
	}
	upper, found, err := pick(triple, src.upper)
	if err != nil {
		return "", fmt.Errorf("allocate: upper bound: %w", err)
	}

	return midpoint(lower, upper, !found)
}

// pick returns the value of the first present position among idx.
func pick(triple [3]*Position, idx []int) (uint64, bool, error) {
	for _, i := range idx {
		if p := triple[i]; p != nil && !p.IsZero() {
			v, err := p.Uint64()
			if err != nil {
				return 0, false, err
			}
			return v, true, nil
		}
	}
	return 0, false, nil
}

// midpoint returns lower + floor((upper-lower)/2). When upperIsMax is set
// the upper bound is 16^16 = 2^64, which does not fit in a uint64; the gap
// is then computed as ^lower + 1.
func midpoint(lower, upper uint64, upperIsMax bool) (Position, error) {
	if upperIsMax {
		rest := ^lower // gap - 1
		if rest == 0 {
			return "", fmt.Errorf("%w: no room after %s", ErrSpaceExhausted, FromUint64(lower))
		}
		return FromUint64(lower + rest/2 + rest&1), nil
	}

	if upper <= lower || upper-lower < 2 {
		return "", fmt.Errorf("%w: no room between %s and %s", ErrSpaceExhausted, FromUint64(lower), FromUint64(upper))
	}
	return FromUint64(lower + (upper-lower)/2), nil
}

// Strategy identifies an Allocator implementation.
type Strategy string

const (
	// StrategyBinary selects BinaryAllocator.
	StrategyBinary Strategy = "binary"
)

// DefaultStrategy is used when no strategy is configured.
const DefaultStrategy = StrategyBinary

// ErrUnknownStrategy is returned by New for unrecognised identifiers.
var ErrUnknownStrategy = errors.New("unknown position strategy")

// Strategies lists the identifiers New accepts.
func Strategies() []Strategy {
	return []Strategy{StrategyBinary}
}

// New returns the allocator for s. The set of strategies is closed; adding
// one means adding a case here.
func New(s Strategy) (Allocator, error) {
	switch s {
	case StrategyBinary, "":
		return BinaryAllocator{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownStrategy, string(s), Strategies())
	}
}
