package lquery

import (
	"strconv"
	"strings"
)

// unbounded marks a level with no upper repetition limit.
const unbounded = -1

// level is one dot-separated step of an lquery.
type level struct {
	star      bool
	not       bool
	low, high int
	items     []item // alternatives; empty for star levels

	// forbid holds negated items inherited from neighbouring levels.
	// Only set on star levels.
	forbid []item
}

func (l level) accepts(label string) bool {
	if l.star {
		for _, it := range l.forbid {
			if it.matches(label) {
				return false
			}
		}
		return true
	}
	for _, it := range l.items {
		if it.matches(label) {
			return !l.not
		}
	}
	return l.not
}

// Query is a compiled lquery pattern. It is immutable and safe for
// concurrent use.
type Query struct {
	src    string
	levels []level
}

// Compile parses an lquery pattern.
func Compile(pattern string) (*Query, error) {
	p := &parser{lang: "lquery", src: pattern}
	if pattern == "" {
		return nil, p.errorf(0, "empty pattern")
	}

	var levels []level
	offset := 0
	for _, seg := range strings.Split(pattern, ".") {
		lvl, err := p.parseLevel(seg, offset)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
		offset += len(seg) + 1
	}

	inheritNegations(levels)
	return &Query{src: pattern, levels: levels}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Query {
	q, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return q
}

// Match reports whether the encoded path matches the pattern.
func (q *Query) Match(path string) bool {
	return matchLevels(q.levels, splitLabels(path))
}

func (q *Query) String() string {
	return q.src
}

// Match compiles pattern and matches it against path.
func Match(pattern, path string) (bool, error) {
	q, err := Compile(pattern)
	if err != nil {
		return false, err
	}
	return q.Match(path), nil
}

func matchLevels(levels []level, labels []string) bool {
	m := levelMatcher{levels: levels, labels: labels}
	return m.match(0, 0)
}

// levelMatcher matches levels[li:] against labels[pi:]. Each (li, pi)
// start is evaluated at most once, so the cost is bounded by
// len(levels) * len(labels)^2 whatever the number of wildcard levels.
type levelMatcher struct {
	levels []level
	labels []string
	failed map[[2]int]struct{}
}

func (m *levelMatcher) match(li, pi int) bool {
	if li == len(m.levels) {
		return pi == len(m.labels)
	}
	key := [2]int{li, pi}
	if _, ok := m.failed[key]; ok {
		return false
	}

	l := m.levels[li]
	limit := l.high
	if rest := len(m.labels) - pi; limit == unbounded || limit > rest {
		limit = rest
	}
	for n := 0; n <= limit; n++ {
		if n > 0 && !l.accepts(m.labels[pi+n-1]) {
			break
		}
		if n >= l.low && m.match(li+1, pi+n) {
			return true
		}
	}

	if m.failed == nil {
		m.failed = make(map[[2]int]struct{})
	}
	m.failed[key] = struct{}{}
	return false
}

// inheritNegations copies negated items onto each run of star levels that
// touches them.
func inheritNegations(levels []level) {
	for i := 0; i < len(levels); {
		if !levels[i].star {
			i++
			continue
		}
		j := i
		for j < len(levels) && levels[j].star {
			j++
		}

		var forbid []item
		if i > 0 && levels[i-1].not {
			forbid = append(forbid, levels[i-1].items...)
		}
		if j < len(levels) && levels[j].not {
			forbid = append(forbid, levels[j].items...)
		}
		for k := i; k < j; k++ {
			levels[k].forbid = forbid
		}
		i = j
	}
}

type parser struct {
	lang string
	src  string
}

func (p *parser) errorf(pos int, msg string) *SyntaxError {
	return &SyntaxError{Lang: p.lang, Query: p.src, Pos: pos, Msg: msg}
}

func (p *parser) parseLevel(seg string, offset int) (level, error) {
	if seg == "" {
		return level{}, p.errorf(offset, "empty level")
	}

	if seg[0] == '*' {
		lvl := level{star: true, low: 0, high: unbounded}
		if len(seg) > 1 {
			low, high, err := p.parseQuantifier(seg[1:], offset+1)
			if err != nil {
				return level{}, err
			}
			lvl.low, lvl.high = low, high
		}
		return lvl, nil
	}

	lvl := level{low: 1, high: 1}
	i := 0
	if seg[0] == '!' {
		lvl.not = true
		i++
	}

	for {
		it, next, ok := scanItem(seg, i)
		if !ok {
			return level{}, p.errorf(offset+i, "expected label")
		}
		lvl.items = append(lvl.items, it)
		i = next

		if i == len(seg) {
			return lvl, nil
		}
		switch seg[i] {
		case '|':
			i++
		case '{':
			low, high, err := p.parseQuantifier(seg[i:], offset+i)
			if err != nil {
				return level{}, err
			}
			lvl.low, lvl.high = low, high
			return lvl, nil
		default:
			return level{}, p.errorf(offset+i, "unexpected character "+strconv.QuoteRune(rune(seg[i])))
		}
	}
}

// parseQuantifier parses "{n}", "{n,}", "{,m}" or "{n,m}".
func (p *parser) parseQuantifier(s string, offset int) (int, int, error) {
	if len(s) < 3 || s[0] != '{' || s[len(s)-1] != '}' {
		return 0, 0, p.errorf(offset, "malformed repetition")
	}
	body := s[1 : len(s)-1]

	lowStr, highStr, ranged := strings.Cut(body, ",")
	low, high := 0, unbounded

	if lowStr != "" {
		n, err := strconv.Atoi(lowStr)
		if err != nil || n < 0 {
			return 0, 0, p.errorf(offset+1, "bad repetition count")
		}
		low = n
	}
	switch {
	case !ranged:
		if lowStr == "" {
			return 0, 0, p.errorf(offset+1, "bad repetition count")
		}
		high = low
	case highStr != "":
		n, err := strconv.Atoi(highStr)
		if err != nil || n < 0 {
			return 0, 0, p.errorf(offset+len(lowStr)+2, "bad repetition count")
		}
		high = n
	}

	if high != unbounded && low > high {
		return 0, 0, p.errorf(offset, "repetition low bound exceeds high bound")
	}
	return low, high, nil
}
