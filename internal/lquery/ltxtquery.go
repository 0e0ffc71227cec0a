package lquery

// textNode is a node of a parsed ltxtquery expression.
type textNode interface {
	eval(labels []string) bool
}

type wordNode struct{ it item }

func (n wordNode) eval(labels []string) bool {
	for _, l := range labels {
		if n.it.matches(l) {
			return true
		}
	}
	return false
}

type notNode struct{ x textNode }

func (n notNode) eval(labels []string) bool { return !n.x.eval(labels) }

type andNode struct{ l, r textNode }

func (n andNode) eval(labels []string) bool { return n.l.eval(labels) && n.r.eval(labels) }

type orNode struct{ l, r textNode }

func (n orNode) eval(labels []string) bool { return n.l.eval(labels) || n.r.eval(labels) }

// TextQuery is a compiled ltxtquery. It is immutable and safe for
// concurrent use.
type TextQuery struct {
	src  string
	root textNode
}

// CompileText parses an ltxtquery. Precedence from tightest: "!", "&", "|".
func CompileText(query string) (*TextQuery, error) {
	tp := &textParser{parser: parser{lang: "ltxtquery", src: query}}
	tp.skipSpace()
	if tp.pos == len(query) {
		return nil, tp.errorf(0, "empty query")
	}

	root, err := tp.parseOr()
	if err != nil {
		return nil, err
	}
	if tp.pos != len(query) {
		return nil, tp.errorf(tp.pos, "unexpected trailing input")
	}
	return &TextQuery{src: query, root: root}, nil
}

// Match reports whether any combination of the path's labels satisfies the
// query.
func (q *TextQuery) Match(path string) bool {
	return q.root.eval(splitLabels(path))
}

func (q *TextQuery) String() string {
	return q.src
}

// MatchText compiles query and matches it against path.
func MatchText(query, path string) (bool, error) {
	q, err := CompileText(query)
	if err != nil {
		return false, err
	}
	return q.Match(path), nil
}

type textParser struct {
	parser
	pos int
}

func (tp *textParser) skipSpace() {
	for tp.pos < len(tp.src) && (tp.src[tp.pos] == ' ' || tp.src[tp.pos] == '\t') {
		tp.pos++
	}
}

// peek returns the next non-space byte, or 0 at end of input.
func (tp *textParser) peek() byte {
	tp.skipSpace()
	if tp.pos == len(tp.src) {
		return 0
	}
	return tp.src[tp.pos]
}

func (tp *textParser) parseOr() (textNode, error) {
	left, err := tp.parseAnd()
	if err != nil {
		return nil, err
	}
	for tp.peek() == '|' {
		tp.pos++
		right, err := tp.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{l: left, r: right}
	}
	return left, nil
}

func (tp *textParser) parseAnd() (textNode, error) {
	left, err := tp.parseUnary()
	if err != nil {
		return nil, err
	}
	for tp.peek() == '&' {
		tp.pos++
		right, err := tp.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{l: left, r: right}
	}
	return left, nil
}

func (tp *textParser) parseUnary() (textNode, error) {
	switch tp.peek() {
	case '!':
		tp.pos++
		x, err := tp.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{x: x}, nil
	case '(':
		open := tp.pos
		tp.pos++
		x, err := tp.parseOr()
		if err != nil {
			return nil, err
		}
		if tp.peek() != ')' {
			return nil, tp.errorf(open, "unbalanced parenthesis")
		}
		tp.pos++
		return x, nil
	case 0:
		return nil, tp.errorf(tp.pos, "unexpected end of query")
	}

	it, next, ok := scanItem(tp.src, tp.pos)
	if !ok {
		return nil, tp.errorf(tp.pos, "expected word")
	}
	tp.pos = next
	return wordNode{it: it}, nil
}
