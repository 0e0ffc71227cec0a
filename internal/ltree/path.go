package ltree

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Separator joins labels in an encoded path.
	Separator = "."

	// MaxLabelLen is the maximum length of a single label in bytes.
	MaxLabelLen = 256

	// MaxPathLen is the maximum length of an encoded path in bytes.
	MaxPathLen = 65535
)

var (
	// ErrInvalidLabel is returned when a label is empty, too long, or uses
	// characters outside [A-Za-z0-9_].
	ErrInvalidLabel = errors.New("invalid label")

	// ErrPathTooLong is returned when an encoded path exceeds MaxPathLen.
	ErrPathTooLong = errors.New("path too long")

	// ErrNoParent is returned by Parent for single-label (root) paths.
	ErrNoParent = errors.New("path has no parent")
)

// Path is an encoded, validated label path.
//
// The zero value is the empty path. It is not a valid node path; it is used
// as the parent of roots and as the result of empty subpaths.
type Path string

// ValidateLabel checks a single label against the alphabet and length bound.
func ValidateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("%w: empty label", ErrInvalidLabel)
	}
	if len(label) > MaxLabelLen {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidLabel, len(label), MaxLabelLen)
	}
	for i := 0; i < len(label); i++ {
		if !IsLabelByte(label[i]) {
			return fmt.Errorf("%w: %q has illegal character %q at offset %d", ErrInvalidLabel, label, label[i], i)
		}
	}
	return nil
}

// IsLabelByte reports whether b may appear in a label.
func IsLabelByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// Parse validates s and returns it as a Path.
func Parse(s string) (Path, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidLabel)
	}
	if len(s) > MaxPathLen {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrPathTooLong, len(s), MaxPathLen)
	}
	for _, label := range strings.Split(s, Separator) {
		if err := ValidateLabel(label); err != nil {
			return "", err
		}
	}
	return Path(s), nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Root returns the single-label path for label.
func Root(label string) (Path, error) {
	return Join("", label)
}

// Join appends label to parent. An empty parent yields a root path.
func Join(parent Path, label string) (Path, error) {
	if err := ValidateLabel(label); err != nil {
		return "", err
	}
	if parent == "" {
		return Path(label), nil
	}
	n := len(parent) + len(Separator) + len(label)
	if n > MaxPathLen {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrPathTooLong, n, MaxPathLen)
	}
	return parent + Separator + Path(label), nil
}

// Labels returns the labels of p in order. The empty path has no labels.
func (p Path) Labels() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), Separator)
}

// Depth returns the number of labels in p (ltree nlevel).
func (p Path) Depth() int {
	if p == "" {
		return 0
	}
	return strings.Count(string(p), Separator) + 1
}

// IsRoot reports whether p has exactly one label.
func (p Path) IsRoot() bool {
	return p != "" && !strings.Contains(string(p), Separator)
}

// Parent returns p without its last label.
func (p Path) Parent() (Path, error) {
	i := strings.LastIndex(string(p), Separator)
	if i < 0 {
		return "", fmt.Errorf("%w: %q", ErrNoParent, string(p))
	}
	return p[:i], nil
}

// Last returns the final label of p.
func (p Path) Last() string {
	i := strings.LastIndex(string(p), Separator)
	return string(p[i+1:])
}

// Subpath returns length labels of p starting at offset, with the ltree
// subpath conventions: a negative offset counts from the end, a negative
// length leaves that many labels off the end. The result may be empty.
func (p Path) Subpath(offset, length int) (Path, error) {
	labels := p.Labels()
	n := len(labels)

	if offset < 0 {
		offset += n
	}
	if offset < 0 || offset > n {
		return "", fmt.Errorf("subpath: offset %d out of range for depth %d", offset, n)
	}

	end := offset + length
	if length < 0 {
		end = n + length
	}
	if end > n {
		end = n
	}
	if end <= offset {
		return "", nil
	}
	return Path(strings.Join(labels[offset:end], Separator)), nil
}

// IsAncestorOf reports whether p is an ancestor of q or equal to it.
func (p Path) IsAncestorOf(q Path) bool {
	if p == "" {
		return true
	}
	if len(q) < len(p) || q[:len(p)] != p {
		return false
	}
	return len(q) == len(p) || q[len(p)] == Separator[0]
}

// IsDescendantOf reports whether p is a descendant of q or equal to it.
func (p Path) IsDescendantOf(q Path) bool {
	return q.IsAncestorOf(p)
}

func (p Path) String() string {
	return string(p)
}
