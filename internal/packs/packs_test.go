package packs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const compactJSON = `{
  "white": ["A", "B", "C", "D"],
  "black": [
    {"text": "Why can't I sleep at night? ____.", "pick": 1},
    {"text": "____ + ____ = ____.", "pick": 3}
  ],
  "packs": {
    "Base": {"name": "Base Set", "description": "The *original* cards.", "official": true, "white": [0, 2], "black": [0]},
    "Extra": {"name": "Extra", "description": "", "official": false, "white": [2, 3], "black": [1, 0]}
  }
}`

func mustDecode(t *testing.T, doc string) *Collection {
	t.Helper()
	c, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	return c
}

func TestResolvePack(t *testing.T) {
	c := &Collection{
		White: []string{"A", "B", "C"},
		Packs: map[string]Pack{"Base": {White: []int{0, 2}}},
	}

	whites, blacks, err := c.ResolvePack("Base")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, whites)
	assert.Empty(t, blacks)
}

func TestResolvePackErrors(t *testing.T) {
	c := &Collection{
		White: []string{"A"},
		Black: []BlackCard{{Text: "?", Pick: 1}},
		Packs: map[string]Pack{
			"BadWhite": {White: []int{1}},
			"BadBlack": {Black: []int{-1}},
		},
	}

	_, _, err := c.ResolvePack("Nope")
	assert.ErrorIs(t, err, ErrPackNotFound)

	_, _, err = c.ResolvePack("BadWhite")
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, err, ErrMalformed)

	_, _, err = c.ResolvePack("BadBlack")
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestResolveConcatenatesInSelectionOrder(t *testing.T) {
	c := mustDecode(t, compactJSON)

	cards, err := Resolve(
		Selection{PackName: "Extra", Collection: c},
		Selection{PackName: "Base", Collection: c},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "D", "A", "C"}, cards.White, "duplicates across packs are kept")
	require.Len(t, cards.Black, 3)
	assert.Equal(t, 3, cards.Black[0].Pick)
	assert.Equal(t, c.Black[0], cards.Black[1])
	assert.Equal(t, c.Black[0], cards.Black[2])
}

func TestResolveFailures(t *testing.T) {
	c := mustDecode(t, compactJSON)

	_, err := Resolve(Selection{PackName: "Base", Collection: c}, Selection{PackName: "Missing", Collection: c})
	assert.ErrorIs(t, err, ErrPackNotFound)

	_, err = Resolve(Selection{PackName: "Base"})
	assert.ErrorIs(t, err, ErrCollectionNotFound)

	cards, err := Resolve()
	require.NoError(t, err)
	assert.Empty(t, cards.White)
}

func TestListPacks(t *testing.T) {
	c := mustDecode(t, compactJSON)

	list := ListPacks(c)
	require.Len(t, list, 2)
	assert.Equal(t, "Base", list[0].Key)
	assert.Equal(t, "Base Set", list[0].Pack.Name)
	assert.True(t, list[0].Pack.Official)
	assert.Equal(t, "Extra", list[1].Key)
}

func TestDecode(t *testing.T) {
	c := mustDecode(t, compactJSON)
	assert.Len(t, c.White, 4)
	assert.Len(t, c.Black, 2)
	assert.Equal(t, "The *original* cards.", c.Packs["Base"].Description)

	data, err := Encode(c)
	require.NoError(t, err)
	again, err := DecodeBytes(data)
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"white": [`},
		{"wrong type", `{"white": "A", "black": [], "packs": {}}`},
		{"missing white", `{"black": [], "packs": {}}`},
		{"missing black", `{"white": [], "packs": {}}`},
		{"missing packs", `{"white": [], "black": []}`},
		{"white index out of range", `{"white": ["A"], "black": [], "packs": {"p": {"white": [1]}}}`},
		{"black index out of range", `{"white": [], "black": [], "packs": {"p": {"black": [0]}}}`},
		{"negative pick", `{"white": [], "black": [{"text": "x", "pick": -1}], "packs": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBytes([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeAcceptsEmptyPools(t *testing.T) {
	c := mustDecode(t, `{"white": [], "black": [], "packs": {}}`)
	assert.Empty(t, ListPacks(c))
}

func TestParseRawSelections(t *testing.T) {
	got, err := ParseRawSelections("JSON Against Humanity:Base, house:Extra,")
	require.NoError(t, err)
	assert.Equal(t, []RawSelection{
		{Collection: "JSON Against Humanity", Pack: "Base"},
		{Collection: "house", Pack: "Extra"},
	}, got)
	assert.Equal(t, "house:Extra", got[1].String())

	empty, err := ParseRawSelections("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, bad := range []string{"Base", ":Base", "house:"} {
		_, err := ParseRawSelections(bad)
		assert.Error(t, err, bad)
	}
}
