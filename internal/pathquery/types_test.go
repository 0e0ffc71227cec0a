package pathquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sapling/internal/lquery"
	"github.com/roach88/sapling/internal/ltree"
	"github.com/roach88/sapling/internal/position"
)

func TestPredicate_SealedSwitch(t *testing.T) {
	preds := []Predicate{
		All{}, IDIn{}, PathIn{}, Level{}, Match{}, MatchText{}, MatchAny{},
		AncestorOf{}, DescendantOf{}, PositionCmp{}, And{}, Or{}, Not{},
		Related{},
	}
	for _, p := range preds {
		switch p.(type) {
		case All, IDIn, PathIn, Level, Match, MatchText, MatchAny,
			AncestorOf, DescendantOf, PositionCmp, And, Or, Not, Related:
		default:
			t.Fatalf("unexpected predicate type %T", p)
		}
	}
}

func TestRelation_Names(t *testing.T) {
	for _, r := range Relations() {
		assert.True(t, r.Valid())
		parsed, err := ParseRelation(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}

	assert.False(t, Relation(0).Valid())
	assert.Equal(t, "Relation(99)", Relation(99).String())

	_, err := ParseRelation("cousins")
	assert.ErrorIs(t, err, ErrUnresolvedRelation)
}

func TestRelationConstructors(t *testing.T) {
	src := PathIn{Paths: []ltree.Path{"Top"}}

	testCases := []struct {
		got  Related
		want Relation
	}{
		{AscendantsOf(src), RelAscendants},
		{DescendantsOf(src), RelDescendants},
		{ChildrenOf(src), RelChildren},
		{SiblingsOf(src), RelSiblings},
		{AscendantsOrSelfOf(src), RelAscendantsOrSelf},
		{DescendantsOrSelfOf(src), RelDescendantsOrSelf},
	}
	for _, tc := range testCases {
		t.Run(tc.want.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got.Relation)
			assert.Equal(t, src, tc.got.Source)
		})
	}
}

func TestCmpOp(t *testing.T) {
	assert.Equal(t, "<=", Le.Symbol())
	assert.Equal(t, "<>", Ne.String())
	assert.Equal(t, "", CmpOp(42).Symbol())
	assert.Equal(t, "CmpOp(42)", CmpOp(42).String())
}

func TestConj(t *testing.T) {
	lvl := Level{Op: Eq, N: 2}
	m := Match{Query: "*.Astronomy"}

	assert.Equal(t, All{}, Conj())
	assert.Equal(t, All{}, Conj(nil, All{}))
	assert.Equal(t, lvl, Conj(All{}, lvl))
	assert.Equal(t, And{Predicates: []Predicate{lvl, m}}, Conj(lvl, m))
	assert.Equal(t,
		And{Predicates: []Predicate{lvl, m, lvl}},
		Conj(And{Predicates: []Predicate{lvl, m}}, lvl),
	)
}

func TestValidate_OK(t *testing.T) {
	p := DescendantsOrSelfOf(And{Predicates: []Predicate{
		Level{Op: Eq, N: 4},
		Match{Query: "*.Astronomy"},
		Not{Predicate: MatchText{Query: "Astro* & !pictures@"}},
		PositionCmp{Op: Gt, Position: position.FromUint64(1)},
		Or{Predicates: []Predicate{AncestorOf{Path: "Top.Science"}, DescendantOf{Path: "Top"}}},
	}})

	res := Validate(p)
	assert.True(t, res.OK())
	assert.NoError(t, res.Err())
	assert.Empty(t, res.Warnings)
}

func TestValidate_Errors(t *testing.T) {
	testCases := []struct {
		name string
		pred Predicate
		is   error
	}{
		{"nil", nil, ErrInvalidPredicate},
		{"nil source", ChildrenOf(nil), ErrInvalidPredicate},
		{"unknown relation", Related{Relation: 99, Source: All{}}, ErrUnresolvedRelation},
		{"bad operator", Level{Op: 42, N: 1}, ErrInvalidPredicate},
		{"bad path", AncestorOf{Path: "Top..Science"}, ltree.ErrInvalidLabel},
		{"bad position", PositionCmp{Op: Lt, Position: "zz"}, position.ErrInvalidPosition},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate(tc.pred)
			require.False(t, res.OK())
			assert.ErrorIs(t, res.Err(), tc.is)
		})
	}
}

func TestValidate_PatternSyntax(t *testing.T) {
	for _, p := range []Predicate{
		Match{Query: "Top.*{2"},
		MatchText{Query: "Astro* &"},
		MatchAny{Queries: []string{"Top.*", "!"}},
	} {
		res := Validate(p)
		require.False(t, res.OK(), "%#v", p)

		var syn *lquery.SyntaxError
		assert.ErrorAs(t, res.Err(), &syn)
	}
}

func TestValidate_Warnings(t *testing.T) {
	res := Validate(Or{Predicates: []Predicate{
		IDIn{},
		MatchAny{},
		Level{Op: Le, N: 0},
		Or{},
	}})

	assert.True(t, res.OK())
	assert.Len(t, res.Warnings, 4)
}
