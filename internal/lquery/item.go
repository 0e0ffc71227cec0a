package lquery

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/roach88/sapling/internal/ltree"
)

// SyntaxError reports a malformed lquery or ltxtquery string.
type SyntaxError struct {
	Lang  string // "lquery" or "ltxtquery"
	Query string
	Pos   int // byte offset of the offending token
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s syntax error at position %d in %q: %s", e.Lang, e.Pos, e.Query, e.Msg)
}

// item is a single label matcher with its modifiers.
type item struct {
	text   string // folded when fold is set
	fold   bool   // @
	prefix bool   // *
	words  bool   // %
}

const modifiers = "@*%"

// scanItem reads a label followed by modifiers starting at s[i].
// It returns the item and the index just past it.
func scanItem(s string, i int) (item, int, bool) {
	start := i
	for i < len(s) && ltree.IsLabelByte(s[i]) {
		i++
	}
	if i == start || i-start > ltree.MaxLabelLen {
		return item{}, start, false
	}
	it := item{text: s[start:i]}
	for i < len(s) && strings.IndexByte(modifiers, s[i]) >= 0 {
		switch s[i] {
		case '@':
			it.fold = true
		case '*':
			it.prefix = true
		case '%':
			it.words = true
		}
		i++
	}
	if it.fold {
		it.text = fold(it.text)
	}
	return it, i, true
}

func (it item) matches(label string) bool {
	if it.fold {
		label = fold(label)
	}
	if !it.words {
		return it.compare(it.text, label)
	}

	// Every query word must match a label word, in order.
	labelWords := strings.Split(label, "_")
	j := 0
	for _, qw := range strings.Split(it.text, "_") {
		for j < len(labelWords) && !it.compare(qw, labelWords[j]) {
			j++
		}
		if j == len(labelWords) {
			return false
		}
		j++
	}
	return true
}

func (it item) compare(want, got string) bool {
	if it.prefix {
		return strings.HasPrefix(got, want)
	}
	return got == want
}

// fold applies Unicode case folding. A Caser is not safe for concurrent
// use, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

func splitLabels(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ltree.Separator)
}
