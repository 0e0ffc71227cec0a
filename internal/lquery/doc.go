// Package lquery implements the two label-path pattern languages understood
// by the tree store: lquery (positional patterns, the ltree "~" operator)
// and ltxtquery (boolean label search, the ltree "@" operator).
//
// The store registers these matchers as SQLite functions, so pattern
// strings are handed through from callers to the storage engine verbatim.
//
// # lquery
//
// A pattern is a sequence of levels separated by ".". Each level is one of:
//
//	*          any number of labels
//	*{n}       exactly n labels
//	*{n,}      at least n labels
//	*{,m}      at most m labels
//	*{n,m}     between n and m labels
//	foo        exactly one label equal to foo
//	foo|bar    exactly one label equal to foo or bar
//	!foo       exactly one label not equal to foo
//	foo{n,m}   between n and m labels, each equal to foo
//
// Items accept modifiers after the label text:
//
//	@   case-insensitive comparison
//	*   prefix match
//	%   match underscore-separated words in order
//
// A negated item also constrains the "*" levels next to it: labels consumed
// by those wildcards must not match the negated item either. So
// "*.!pictures@.*.Astronomy.*" selects Astronomy nodes that have no
// "pictures" label anywhere above them.
//
// # ltxtquery
//
// Words carry the same modifiers and are combined with "&", "|", "!" and
// parentheses. A word is true when any label of the path matches it; there
// is no positional meaning.
//
// Grammar errors are reported as *SyntaxError.
package lquery
