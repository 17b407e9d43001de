package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/yummy-colors-backend/internal/engine"
	"github.com/DoyleJ11/yummy-colors-backend/internal/palette"
	"github.com/DoyleJ11/yummy-colors-backend/internal/types"
	apitypes "github.com/DoyleJ11/yummy-colors-backend/pkg/types"
)

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// session builds a hand-rolled session: finals are catalog indexes in rank
// order, picks are catalog indexes selected in successive rounds.
func session(id string, at time.Time, finals, picks []int, loc *types.Location) types.GameSession {
	st := &engine.State{
		TotalRounds: len(picks),
		GamePhase:   engine.PhaseSelection,
		StartTime:   at.Add(-5 * time.Minute),
		Favorites:   []palette.Color{},
	}
	for r, i := range picks {
		c := palette.Catalog[i].Draw(id)
		st.RoundHistory = append(st.RoundHistory, engine.RoundResult{Round: r + 1, SelectedColor: c, Timestamp: at})
	}
	if len(finals) > 0 {
		st.GamePhase = engine.PhaseComplete
		for _, i := range finals {
			c := palette.Catalog[i].Draw(id)
			c.SelectionCount = 1
			st.FinalTop3 = append(st.FinalTop3, c)
			st.Favorites = append(st.Favorites, c)
		}
	}
	return types.GameSession{ID: id, GameState: st, UserAgent: "ua-" + id, Location: loc, CompletedAt: &at}
}

func london() *types.Location {
	return &types.Location{City: "London", Region: "England", Country: "United Kingdom", CountryCode: "GB"}
}

func fixture() []types.GameSession {
	return []types.GameSession{
		session("s1", base, []int{0, 1, 2}, []int{0, 0, 1}, london()),
		session("s2", base.Add(time.Hour), []int{1, 0, 3}, []int{1, 3}, london()),
		session("s3", base.Add(2*time.Hour), nil, []int{5}, &types.Location{City: "Paris", Country: "France", CountryCode: "FR"}),
		session("s4", base.Add(3*time.Hour), []int{4, 5, 6}, []int{4}, nil),
	}
}

func TestCompute(t *testing.T) {
	got := Compute(fixture()[:3])

	assert.Equal(t, 2, got.TotalSessions)
	assert.Equal(t, 6, got.TotalColors)
	assert.Equal(t, 5, got.TotalRounds)

	require.Len(t, got.PopularFinalColors, 4)
	tomato := got.PopularFinalColors[0]
	assert.Equal(t, "#FF6347", tomato.Hex)
	assert.Equal(t, "Tomato Red", tomato.Name)
	assert.Equal(t, "warm", tomato.Category)
	assert.Equal(t, 2, tomato.Frequency)
	assert.InDelta(t, 1.5, tomato.AvgRank, 1e-9)
	assert.InDelta(t, 9.0, tomato.AvgHue, 1e-9)
	assert.Equal(t, "#FF7F50", got.PopularFinalColors[1].Hex)
	assert.Equal(t, "#DC143C", got.PopularFinalColors[2].Hex)
	assert.Equal(t, "#FA8072", got.PopularFinalColors[3].Hex)

	assert.Equal(t, []apitypes.HueBucket{{HueRange: 0, Frequency: 5}, {HueRange: 330, Frequency: 1}}, got.HuePreferences)
	assert.Equal(t, []apitypes.SaturationBucket{
		{SaturationRange: 80, Frequency: 1},
		{SaturationRange: 90, Frequency: 1},
		{SaturationRange: 100, Frequency: 4},
	}, got.SaturationPreferences)
	assert.Equal(t, []apitypes.LightnessBucket{
		{LightnessRange: 40, Frequency: 1},
		{LightnessRange: 60, Frequency: 4},
		{LightnessRange: 70, Frequency: 1},
	}, got.LightnessPreferences)

	assert.Equal(t, []apitypes.NameCount{
		{Name: "Coral", Count: 2},
		{Name: "Tomato Red", Count: 2},
		{Name: "Crimson", Count: 1},
	}, got.ColorNamePreferences)
	assert.Equal(t, []apitypes.CategoryCount{{Category: "warm", Count: 5}}, got.CategoryPreferences)
}

func TestCompute_Empty(t *testing.T) {
	got := Compute(nil)
	assert.Zero(t, got.TotalSessions)
	assert.NotNil(t, got.PopularFinalColors)
	assert.NotNil(t, got.HuePreferences)
}

func TestSummaries_RecentFirstWithLimit(t *testing.T) {
	now := base.Add(5 * time.Hour)
	got := Summaries(fixture(), 2, now)

	require.Len(t, got, 2)
	assert.Equal(t, "s4", got[0].ID)
	assert.Equal(t, "s2", got[1].ID)
	assert.Equal(t, "2 hours ago", got[0].CompletedAgo)
	assert.Nil(t, got[0].Location)

	s2 := got[1]
	assert.Equal(t, 2, s2.RoundHistory)
	assert.Equal(t, 3, s2.FavoritesCount)
	require.Len(t, s2.FinalColors, 3)
	assert.Equal(t, 1, s2.FinalColors[0].Rank)
	assert.Equal(t, "#FF7F50", s2.FinalColors[0].Hex)
	assert.Equal(t, apitypes.HSL{H: 16, S: 100, L: 66}, s2.FinalColors[0].HSL)
	require.NotNil(t, s2.Location)
	assert.Equal(t, "London", s2.Location.City)

	assert.Len(t, Summaries(fixture(), 0, now), 3, "no limit lists every completed session")
}

func TestLocations(t *testing.T) {
	got := Locations(fixture())

	assert.Equal(t, 3, got.TotalSessionsWithLocation)
	assert.Equal(t, 2, got.UniqueCountries)
	assert.Equal(t, 2, got.UniqueCities)
	require.Len(t, got.Locations, 2)

	uk := got.Locations[0]
	assert.Equal(t, "United Kingdom", uk.Country)
	assert.Equal(t, "GB", uk.CountryCode)
	assert.Equal(t, 2, uk.TotalSessions)
	assert.Equal(t, 2, uk.CompletedSessions)
	assert.InDelta(t, 2.5, uk.AvgRounds, 1e-9)
	assert.True(t, uk.FirstSession.Equal(base))
	assert.True(t, uk.LatestSession.Equal(base.Add(time.Hour)))

	fr := got.Locations[1]
	assert.Equal(t, "France", fr.Country)
	assert.Equal(t, 0, fr.CompletedSessions)
}
