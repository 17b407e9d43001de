package palette

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(p Policy) *Generator {
	return NewGenerator(p, rand.New(rand.NewSource(42)))
}

func TestCatalog_UniqueHexAndEveryCategory(t *testing.T) {
	seen := map[string]bool{}
	cats := map[Category]int{}
	for _, e := range Catalog {
		key := strings.ToUpper(e.Hex)
		require.False(t, seen[key], "duplicate hex %s", e.Hex)
		seen[key] = true
		cats[e.Category]++
	}
	for _, c := range Categories {
		assert.Greater(t, cats[c], 0, "category %s is empty", c)
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	e, ok := Lookup("#ff6347")
	require.True(t, ok)
	assert.Equal(t, "Tomato Red", e.Name)

	e, ok = LookupName("  TOMATO red ")
	require.True(t, ok)
	assert.Equal(t, "#FF6347", e.Hex)

	_, ok = Lookup("#123456")
	assert.False(t, ok)
}

func TestColorSet_DistinctFreshIDs(t *testing.T) {
	for _, p := range []Policy{PolicyUniform, PolicyBalanced} {
		t.Run(string(p), func(t *testing.T) {
			g := newTestGenerator(p)
			set := g.ColorSet(6)
			require.Len(t, set, 6)

			hexes := map[string]bool{}
			ids := map[string]bool{}
			for _, c := range set {
				assert.False(t, hexes[c.Hex], "hex repeated within a set")
				assert.False(t, ids[c.ID], "id repeated within a set")
				assert.Zero(t, c.SelectionCount)
				hexes[c.Hex] = true
				ids[c.ID] = true
			}
		})
	}
}

func TestColorSet_ClampsToCatalog(t *testing.T) {
	g := newTestGenerator(PolicyUniform)
	assert.Len(t, g.ColorSet(len(Catalog)+10), len(Catalog))
	assert.Empty(t, g.ColorSet(0))
	assert.Empty(t, g.ColorSet(-3))

	b := newTestGenerator(PolicyBalanced)
	assert.Len(t, b.ColorSet(len(Catalog)+10), len(Catalog))
}

func TestColorSet_BalancedCoversCategories(t *testing.T) {
	g := newTestGenerator(PolicyBalanced)
	for i := 0; i < 20; i++ {
		cats := map[Category]bool{}
		for _, c := range g.ColorSet(5) {
			cats[c.Category] = true
		}
		assert.Len(t, cats, len(Categories))
	}
}

func TestAllRounds_SameEntryGetsNewID(t *testing.T) {
	g := newTestGenerator(PolicyUniform)
	rounds := g.AllRounds(5, 6)
	require.Len(t, rounds, 5)

	ids := map[string]bool{}
	for _, set := range rounds {
		require.Len(t, set, 6)
		for _, c := range set {
			assert.False(t, ids[c.ID])
			ids[c.ID] = true
		}
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyUniform, p)

	p, err = ParsePolicy("balanced")
	require.NoError(t, err)
	assert.Equal(t, PolicyBalanced, p)

	_, err = ParsePolicy("weighted")
	assert.Error(t, err)
}
