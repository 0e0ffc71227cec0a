package pathquery

import (
	"errors"
	"fmt"

	"github.com/roach88/sapling/internal/lquery"
	"github.com/roach88/sapling/internal/ltree"
	"github.com/roach88/sapling/internal/position"
)

// ErrInvalidPredicate is returned for structurally broken predicates
// (nil operands, unknown operators).
var ErrInvalidPredicate = errors.New("invalid predicate")

// ValidationResult reports problems found in a predicate tree.
//
// Errors make the predicate uncompilable. Warnings flag predicates that are
// legal but can never select anything, which is almost always a caller bug.
type ValidationResult struct {
	Errors   []error
	Warnings []string
}

// OK reports whether the predicate has no errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Err returns the first error, or nil.
func (r ValidationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// Validate walks a predicate tree and collects problems. Pattern strings are
// compiled so syntax errors surface as *lquery.SyntaxError before any SQL is
// issued.
//
// Validate is a pure function with no side effects.
func Validate(p Predicate) ValidationResult {
	v := &validator{}
	v.predicate(p)
	return ValidationResult{Errors: v.errors, Warnings: v.warnings}
}

type validator struct {
	errors   []error
	warnings []string
}

func (v *validator) fail(err error) {
	v.errors = append(v.errors, err)
}

func (v *validator) warn(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) predicate(p Predicate) {
	switch pred := p.(type) {
	case nil:
		v.fail(fmt.Errorf("%w: nil predicate", ErrInvalidPredicate))
	case All:
	case IDIn:
		if len(pred.IDs) == 0 {
			v.warn("IDIn with no IDs selects nothing")
		}
	case PathIn:
		if len(pred.Paths) == 0 {
			v.warn("PathIn with no paths selects nothing")
		}
		for _, path := range pred.Paths {
			v.path(path)
		}
	case Level:
		v.op(pred.Op)
		if pred.N < 1 && (pred.Op == Eq || pred.Op == Lt || pred.Op == Le) {
			v.warn("Level %s %d selects nothing: depth is at least 1", pred.Op, pred.N)
		}
	case Match:
		if _, err := lquery.Compile(pred.Query); err != nil {
			v.fail(err)
		}
	case MatchText:
		if _, err := lquery.CompileText(pred.Query); err != nil {
			v.fail(err)
		}
	case MatchAny:
		if len(pred.Queries) == 0 {
			v.warn("MatchAny with no patterns selects nothing")
		}
		for _, q := range pred.Queries {
			if _, err := lquery.Compile(q); err != nil {
				v.fail(err)
			}
		}
	case AncestorOf:
		v.path(pred.Path)
	case DescendantOf:
		v.path(pred.Path)
	case PositionCmp:
		v.op(pred.Op)
		if _, err := position.Parse(string(pred.Position)); err != nil {
			v.fail(err)
		}
	case And:
		for _, sub := range pred.Predicates {
			v.predicate(sub)
		}
	case Or:
		if len(pred.Predicates) == 0 {
			v.warn("empty Or selects nothing")
		}
		for _, sub := range pred.Predicates {
			v.predicate(sub)
		}
	case Not:
		v.predicate(pred.Predicate)
	case Related:
		if !pred.Relation.Valid() {
			v.fail(fmt.Errorf("%w: %v", ErrUnresolvedRelation, pred.Relation))
		}
		v.predicate(pred.Source)
	default:
		v.fail(fmt.Errorf("%w: unknown predicate type %T", ErrInvalidPredicate, p))
	}
}

func (v *validator) op(op CmpOp) {
	if op.Symbol() == "" {
		v.fail(fmt.Errorf("%w: unknown operator %v", ErrInvalidPredicate, op))
	}
}

func (v *validator) path(p ltree.Path) {
	if _, err := ltree.Parse(string(p)); err != nil {
		v.fail(err)
	}
}
