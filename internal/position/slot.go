package position

import "fmt"

// Slot is the requested insertion anchor relative to a reference node.
type Slot int

const (
	// First places the new node before every existing sibling.
	First Slot = iota
	// Last places the new node after every existing sibling.
	Last
	// Left places the new node immediately before the reference node.
	Left
	// Right places the new node immediately after the reference node.
	Right
)

var slotNames = map[Slot]string{
	First: "first",
	Last:  "last",
	Left:  "left",
	Right: "right",
}

func (s Slot) String() string {
	if name, ok := slotNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Slot(%d)", int(s))
}

// ParseSlot converts "first", "last", "left" or "right" to a Slot.
func ParseSlot(s string) (Slot, error) {
	for slot, name := range slotNames {
		if name == s {
			return slot, nil
		}
	}
	return 0, fmt.Errorf("unknown slot %q: must be one of first, last, left, right", s)
}

// Valid reports whether s is one of the four defined slots.
func (s Slot) Valid() bool {
	_, ok := slotNames[s]
	return ok
}
