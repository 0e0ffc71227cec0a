package ltree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLabel(t *testing.T) {
	testCases := []struct {
		name    string
		label   string
		wantErr bool
	}{
		{name: "letters", label: "Top", wantErr: false},
		{name: "underscore and digits", label: "Amateurs_Astronomy_2", wantErr: false},
		{name: "hex token", label: "8000000000000000", wantErr: false},
		{name: "max length", label: strings.Repeat("a", MaxLabelLen), wantErr: false},
		{name: "empty", label: "", wantErr: true},
		{name: "too long", label: strings.Repeat("a", MaxLabelLen+1), wantErr: true},
		{name: "dot", label: "a.b", wantErr: true},
		{name: "hyphen", label: "a-b", wantErr: true},
		{name: "space", label: "a b", wantErr: true},
		{name: "non ascii", label: "Żółw", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateLabel(tc.label)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLabel)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParse(t *testing.T) {
	p, err := Parse("Top.Science.Astronomy")
	require.NoError(t, err)
	assert.Equal(t, Path("Top.Science.Astronomy"), p)

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrInvalidLabel)

	_, err = Parse("Top..Science")
	assert.ErrorIs(t, err, ErrInvalidLabel)

	_, err = Parse("Top.")
	assert.ErrorIs(t, err, ErrInvalidLabel)

	_, err = Parse(strings.Repeat("a.", MaxPathLen/2+1) + "a")
	assert.ErrorIs(t, err, ErrPathTooLong)
}

func TestJoin(t *testing.T) {
	root, err := Root("Top")
	require.NoError(t, err)
	assert.Equal(t, Path("Top"), root)

	child, err := Join(root, "Science")
	require.NoError(t, err)
	assert.Equal(t, Path("Top.Science"), child)

	_, err = Join(root, "not-valid")
	assert.ErrorIs(t, err, ErrInvalidLabel)

	_, err = Join(root, "")
	assert.ErrorIs(t, err, ErrInvalidLabel)
}

func TestJoin_PathTooLong(t *testing.T) {
	label := strings.Repeat("x", MaxLabelLen)
	var p Path
	var err error
	for {
		var next Path
		next, err = Join(p, label)
		if err != nil {
			break
		}
		p = next
	}
	assert.ErrorIs(t, err, ErrPathTooLong)
	assert.LessOrEqual(t, len(p), MaxPathLen)
}

func TestParentAndDepth(t *testing.T) {
	p := MustParse("Top.Collections.Pictures")

	assert.Equal(t, 3, p.Depth())
	assert.Equal(t, "Pictures", p.Last())
	assert.False(t, p.IsRoot())

	parent, err := p.Parent()
	require.NoError(t, err)
	assert.Equal(t, Path("Top.Collections"), parent)
	assert.Equal(t, p.Depth()-1, parent.Depth())

	root := MustParse("Top")
	assert.True(t, root.IsRoot())
	assert.Equal(t, 1, root.Depth())
	_, err = root.Parent()
	assert.ErrorIs(t, err, ErrNoParent)

	assert.Equal(t, 0, Path("").Depth())
	assert.Nil(t, Path("").Labels())
}

func TestSubpath(t *testing.T) {
	p := MustParse("Top.Child1.Child2")

	testCases := []struct {
		name   string
		offset int
		length int
		want   Path
	}{
		{name: "all but last", offset: 0, length: p.Depth() - 1, want: "Top.Child1"},
		{name: "middle", offset: 1, length: 1, want: "Child1"},
		{name: "negative offset", offset: -2, length: 1, want: "Child1"},
		{name: "negative length", offset: 0, length: -1, want: "Top.Child1"},
		{name: "past end clamps", offset: 1, length: 10, want: "Child1.Child2"},
		{name: "zero length", offset: 0, length: 0, want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.Subpath(tc.offset, tc.length)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := p.Subpath(4, 1)
	assert.Error(t, err)

	// A root has an empty parent subpath.
	got, err := MustParse("Top").Subpath(0, 0)
	require.NoError(t, err)
	assert.Equal(t, Path(""), got)
}

func TestContainment(t *testing.T) {
	top := MustParse("Top")
	science := MustParse("Top.Science")
	sci := MustParse("Top.Sci")

	assert.True(t, top.IsAncestorOf(science))
	assert.True(t, science.IsAncestorOf(science), "ancestor-or-equal")
	assert.False(t, science.IsAncestorOf(top))
	assert.False(t, sci.IsAncestorOf(science), "containment is label-wise")

	assert.True(t, science.IsDescendantOf(top))
	assert.True(t, science.IsDescendantOf(science))
	assert.False(t, top.IsDescendantOf(science))
}
