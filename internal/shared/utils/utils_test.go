package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhereBuilder(t *testing.T) {
	var w Where
	assert.Equal(t, "", w.SQL())

	w.ILikeAny("tere", "b.title", "b.author")
	w.Eq("b.status", "antri")

	assert.Equal(t, `WHERE (b.title ILIKE $1 ESCAPE '\' OR b.author ILIKE $1 ESCAPE '\') AND b.status = $2`, w.SQL())
	assert.Equal(t, []any{"%tere%", "antri"}, w.Args())
	assert.Equal(t, 3, w.Next())
}

func TestILikeAnyEscapesWildcards(t *testing.T) {
	var w Where
	w.ILikeAny(`50%_off\`, "b.title")
	assert.Equal(t, []any{`%50\%\_off\\%`}, w.Args())

	assert.Equal(t, "plain", EscapeLike("plain"))
	assert.Equal(t, `\_`, EscapeLike("_"))
	assert.Equal(t, `\%`, EscapeLike("%"))
}

func TestNormalizePage(t *testing.T) {
	cases := []struct{ page, limit, wantPage, wantLimit int }{
		{0, 0, 1, 10},
		{-3, 5, 1, 5},
		{2, 500, 2, 100},
		{4, 100, 4, 100},
		{1, 1, 1, 1},
	}
	for _, tc := range cases {
		p, l := NormalizePage(tc.page, tc.limit)
		assert.Equal(t, tc.wantPage, p)
		assert.Equal(t, tc.wantLimit, l)
	}
}

func TestTotalPagesAndOffset(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 20, Offset(3, 10))
}

func TestParsers(t *testing.T) {
	assert.Nil(t, ParseOptionalInt(""))
	assert.Nil(t, ParseOptionalInt("abc"))
	assert.Equal(t, 2021, *ParseOptionalInt(" 2021 "))

	assert.Nil(t, ParseOptionalBool("maybe"))
	assert.True(t, *ParseOptionalBool("1"))
	assert.False(t, *ParseOptionalBool("false"))

	assert.Nil(t, StringPtr("   "))
	assert.Equal(t, "x", Deref(StringPtr("x")))
	assert.Equal(t, 0, Deref[int](nil))

	assert.True(t, IsValidUUID("3f2a0c1e-8a4b-4c1d-9e2f-1a2b3c4d5e6f"))
	assert.False(t, IsValidUUID("3f2a0c1e"))
	assert.False(t, IsValidUUID("zzzzzzzz-8a4b-4c1d-9e2f-1a2b3c4d5e6f"))
}
