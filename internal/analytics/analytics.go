package analytics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/DoyleJ11/yummy-colors-backend/internal/palette"
	"github.com/DoyleJ11/yummy-colors-backend/internal/types"
	apitypes "github.com/DoyleJ11/yummy-colors-backend/pkg/types"
)

const (
	popularLimit = 20
	namesLimit   = 15
	hueBucket    = 30
	pctBucket    = 10
)

type colorAgg struct {
	stat    apitypes.ColorStat
	rankSum int
	hueSum  int
	satSum  int
	lSum    int
}

// Compute aggregates every completed session. Incomplete ones are skipped.
func Compute(sessions []types.GameSession) apitypes.Analytics {
	out := apitypes.Analytics{
		PopularFinalColors:    []apitypes.ColorStat{},
		HuePreferences:        []apitypes.HueBucket{},
		SaturationPreferences: []apitypes.SaturationBucket{},
		LightnessPreferences:  []apitypes.LightnessBucket{},
		ColorNamePreferences:  []apitypes.NameCount{},
		CategoryPreferences:   []apitypes.CategoryCount{},
	}

	finals := map[string]*colorAgg{}
	hues := map[int]int{}
	sats := map[int]int{}
	lights := map[int]int{}
	names := map[string]int{}
	categories := map[string]int{}

	for _, gs := range sessions {
		if !gs.Completed() {
			continue
		}
		out.TotalSessions++
		st := gs.GameState

		for i, c := range st.FinalTop3 {
			out.TotalColors++
			key := strings.ToUpper(c.Hex)
			agg, ok := finals[key]
			if !ok {
				name, category := describe(c)
				agg = &colorAgg{stat: apitypes.ColorStat{Hex: key, Name: name, Category: category}}
				finals[key] = agg
			}
			agg.stat.Frequency++
			agg.rankSum += i + 1
			agg.hueSum += c.HSL.H
			agg.satSum += c.HSL.S
			agg.lSum += c.HSL.L

			hues[bucket(c.HSL.H, hueBucket)]++
			sats[bucket(c.HSL.S, pctBucket)]++
			lights[bucket(c.HSL.L, pctBucket)]++
		}

		for _, r := range st.RoundHistory {
			out.TotalRounds++
			name, category := describe(r.SelectedColor)
			names[name]++
			categories[category]++
		}
	}

	for _, agg := range finals {
		n := float64(agg.stat.Frequency)
		agg.stat.AvgRank = float64(agg.rankSum) / n
		agg.stat.AvgHue = float64(agg.hueSum) / n
		agg.stat.AvgSaturation = float64(agg.satSum) / n
		agg.stat.AvgLightness = float64(agg.lSum) / n
		out.PopularFinalColors = append(out.PopularFinalColors, agg.stat)
	}
	slices.SortFunc(out.PopularFinalColors, func(a, b apitypes.ColorStat) int {
		return cmp.Or(
			cmp.Compare(b.Frequency, a.Frequency),
			cmp.Compare(a.AvgRank, b.AvgRank),
			cmp.Compare(a.Hex, b.Hex),
		)
	})
	out.PopularFinalColors = truncate(out.PopularFinalColors, popularLimit)

	for _, k := range sortedKeys(hues) {
		out.HuePreferences = append(out.HuePreferences, apitypes.HueBucket{HueRange: k, Frequency: hues[k]})
	}
	for _, k := range sortedKeys(sats) {
		out.SaturationPreferences = append(out.SaturationPreferences, apitypes.SaturationBucket{SaturationRange: k, Frequency: sats[k]})
	}
	for _, k := range sortedKeys(lights) {
		out.LightnessPreferences = append(out.LightnessPreferences, apitypes.LightnessBucket{LightnessRange: k, Frequency: lights[k]})
	}

	for name, n := range names {
		out.ColorNamePreferences = append(out.ColorNamePreferences, apitypes.NameCount{Name: name, Count: n})
	}
	slices.SortFunc(out.ColorNamePreferences, func(a, b apitypes.NameCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Name, b.Name))
	})
	out.ColorNamePreferences = truncate(out.ColorNamePreferences, namesLimit)

	for category, n := range categories {
		out.CategoryPreferences = append(out.CategoryPreferences, apitypes.CategoryCount{Category: category, Count: n})
	}
	slices.SortFunc(out.CategoryPreferences, func(a, b apitypes.CategoryCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Category, b.Category))
	})

	return out
}

// Summaries lists completed sessions, most recent first.
func Summaries(sessions []types.GameSession, limit int, now time.Time) []apitypes.ResultSummary {
	done := make([]types.GameSession, 0, len(sessions))
	for _, gs := range sessions {
		if gs.Completed() {
			done = append(done, gs)
		}
	}
	slices.SortStableFunc(done, func(a, b types.GameSession) int {
		return b.Finished().Compare(a.Finished())
	})
	if limit > 0 {
		done = truncate(done, limit)
	}

	out := make([]apitypes.ResultSummary, 0, len(done))
	for _, gs := range done {
		st := gs.GameState
		finished := gs.Finished()
		summary := apitypes.ResultSummary{
			ID:             gs.ID,
			CompletedAt:    finished,
			CompletedAgo:   humanize.RelTime(finished, now, "ago", "from now"),
			UserAgent:      gs.UserAgent,
			ScreenSize:     apitypes.ScreenSize{Width: gs.ScreenSize.Width, Height: gs.ScreenSize.Height},
			TotalRounds:    st.TotalRounds,
			FinalColors:    make([]apitypes.FinalColor, 0, len(st.FinalTop3)),
			RoundHistory:   len(st.RoundHistory),
			FavoritesCount: len(st.Favorites),
		}
		for i, c := range st.FinalTop3 {
			summary.FinalColors = append(summary.FinalColors, apitypes.FinalColor{
				Hex:            c.Hex,
				Name:           c.Name,
				Rank:           i + 1,
				HSL:            apitypes.HSL{H: c.HSL.H, S: c.HSL.S, L: c.HSL.L},
				SelectionCount: c.SelectionCount,
			})
		}
		if loc := gs.Location; loc != nil {
			summary.Location = &apitypes.Place{
				City:        loc.City,
				Region:      loc.Region,
				Country:     loc.Country,
				CountryCode: loc.CountryCode,
				Timezone:    loc.Timezone,
			}
		}
		out = append(out, summary)
	}
	return out
}

type placeKey struct{ country, region, city string }

type placeAgg struct {
	stat      apitypes.LocationStat
	roundsSum int
}

// Locations groups sessions that carry a country by country, region and city.
func Locations(sessions []types.GameSession) apitypes.LocationAnalytics {
	places := map[placeKey]*placeAgg{}
	countries := map[string]bool{}
	cities := map[placeKey]bool{}
	out := apitypes.LocationAnalytics{Locations: []apitypes.LocationStat{}}

	for _, gs := range sessions {
		loc := gs.Location
		if loc == nil || loc.Country == "" {
			continue
		}
		out.TotalSessionsWithLocation++
		key := placeKey{loc.Country, loc.Region, loc.City}
		countries[loc.Country] = true
		if loc.City != "" {
			cities[placeKey{country: loc.Country, city: loc.City}] = true
		}

		agg, ok := places[key]
		if !ok {
			agg = &placeAgg{stat: apitypes.LocationStat{
				Country:     loc.Country,
				CountryCode: loc.CountryCode,
				Region:      loc.Region,
				City:        loc.City,
			}}
			places[key] = agg
		}
		agg.stat.TotalSessions++
		if gs.Completed() {
			agg.stat.CompletedSessions++
		}
		if gs.GameState != nil {
			agg.roundsSum += len(gs.GameState.RoundHistory)
		}

		at := gs.Finished()
		if agg.stat.FirstSession.IsZero() || at.Before(agg.stat.FirstSession) {
			agg.stat.FirstSession = at
		}
		if at.After(agg.stat.LatestSession) {
			agg.stat.LatestSession = at
		}
	}

	for _, agg := range places {
		agg.stat.AvgRounds = float64(agg.roundsSum) / float64(agg.stat.TotalSessions)
		out.Locations = append(out.Locations, agg.stat)
	}
	slices.SortFunc(out.Locations, func(a, b apitypes.LocationStat) int {
		return cmp.Or(
			cmp.Compare(b.TotalSessions, a.TotalSessions),
			cmp.Compare(a.Country, b.Country),
			cmp.Compare(a.Region, b.Region),
			cmp.Compare(a.City, b.City),
		)
	})
	out.UniqueCountries = len(countries)
	out.UniqueCities = len(cities)
	return out
}

// describe prefers catalog naming so renamed or hand-built colors still
// group with their palette entry.
func describe(c palette.Color) (name, category string) {
	if e, ok := palette.Lookup(c.Hex); ok {
		return e.Name, string(e.Category)
	}
	name, category = c.Name, string(c.Category)
	if name == "" {
		name = strings.ToUpper(c.Hex)
	}
	if category == "" {
		category = "unknown"
	}
	return name, category
}

func bucket(v, width int) int {
	if v < 0 {
		return 0
	}
	return v / width * width
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
