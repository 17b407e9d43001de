package engine

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/DoyleJ11/yummy-colors-backend/internal/palette"
)

func DefaultRules() Rules {
	return Rules{
		TotalRounds:    5,
		ColorsPerRound: 6,
		FinaleMode:     FinaleBracket,
		FinaleSize:     BracketSize,
		MinFavorites:   3,
		MaxFavorites:   8,
	}
}

func ParseFinaleMode(s string) (FinaleMode, error) {
	switch FinaleMode(s) {
	case FinaleBracket, FinaleRanking:
		return FinaleMode(s), nil
	case "":
		return FinaleBracket, nil
	default:
		return "", fmt.Errorf("unknown finale mode %q", s)
	}
}

func (r Rules) Validate() error {
	switch {
	case r.TotalRounds < 1:
		return errors.New("totalRounds must be at least 1")
	case r.ColorsPerRound < 1:
		return errors.New("colorsPerRound must be at least 1")
	case r.FinaleMode != FinaleBracket && r.FinaleMode != FinaleRanking:
		return fmt.Errorf("unknown finale mode %q", r.FinaleMode)
	case r.FinaleSize < RankingSize:
		return fmt.Errorf("finaleSize must be at least %d", RankingSize)
	case r.MinFavorites < 1 || r.MinFavorites > r.MaxFavorites:
		return fmt.Errorf("favorites bounds %d-%d are invalid", r.MinFavorites, r.MaxFavorites)
	case r.FinaleMode == FinaleBracket && r.ColorsPerRound < BracketSize:
		return fmt.Errorf("a bracket finale needs at least %d colors per round", BracketSize)
	}
	return nil
}

// NewState starts a session on rounds drawn ahead of time.
func NewState(rules Rules, rounds [][]palette.Color, start time.Time) State {
	all := make([][]palette.Color, 0, len(rounds))
	for _, set := range rounds {
		all = append(all, cloneColors(set))
	}
	return State{
		CurrentRound:   1,
		TotalRounds:    rules.TotalRounds,
		ColorsPerRound: rules.ColorsPerRound,
		AllRounds:      all,
		SelectedColors: []palette.Color{},
		RoundHistory:   []RoundResult{},
		Favorites:      []palette.Color{},
		FinalTop3:      []palette.Color{},
		GamePhase:      PhaseSelection,
		StartTime:      start,
		Rules:          rules,
	}
}

// CurrentColors is the offer set for the current round.
func (s State) CurrentColors() []palette.Color {
	if s.CurrentRound < 1 || s.CurrentRound > len(s.AllRounds) {
		return nil
	}
	return s.AllRounds[s.CurrentRound-1]
}

// FinaleErr reports a finale that cannot be played as a bracket.
func (s State) FinaleErr() error {
	if s.GamePhase == PhaseFinale && s.Rules.FinaleMode == FinaleBracket && s.Bracket == nil {
		return fmt.Errorf("%w: %d favorites", ErrBracketSize, len(s.Favorites))
	}
	return nil
}

// Validate checks the shape of a state that came from outside the engine.
func (s State) Validate() error {
	if !validPhase(s.GamePhase) {
		return fmt.Errorf("unknown phase %q", s.GamePhase)
	}
	if s.TotalRounds < 1 || len(s.AllRounds) != s.TotalRounds {
		return fmt.Errorf("have %d rounds for totalRounds %d", len(s.AllRounds), s.TotalRounds)
	}
	if s.CurrentRound < 1 || s.CurrentRound > s.TotalRounds {
		return fmt.Errorf("currentRound %d out of range", s.CurrentRound)
	}
	if s.StartTime.IsZero() {
		return errors.New("missing startTime")
	}
	for i, set := range s.AllRounds {
		if len(set) == 0 {
			return fmt.Errorf("round %d has no colors", i+1)
		}
	}

	seen := map[int]bool{}
	counts := map[string]int{}
	for _, r := range s.RoundHistory {
		if r.Round < 1 || r.Round > s.TotalRounds || seen[r.Round] {
			return fmt.Errorf("bad round result for round %d", r.Round)
		}
		seen[r.Round] = true
		counts[normHex(r.SelectedColor.Hex)]++
	}
	if s.GamePhase != PhaseSelection && len(s.RoundHistory) != s.TotalRounds {
		return fmt.Errorf("phase %s with %d of %d rounds played", s.GamePhase, len(s.RoundHistory), s.TotalRounds)
	}
	if len(counts) != len(s.SelectedColors) {
		return errors.New("selectedColors out of sync with roundHistory")
	}
	for _, c := range s.SelectedColors {
		if c.SelectionCount <= 0 || counts[normHex(c.Hex)] != c.SelectionCount {
			return fmt.Errorf("selection count for %s out of sync", c.Hex)
		}
	}

	if (s.GamePhase == PhaseComplete) != (len(s.FinalTop3) == RankingSize) {
		return fmt.Errorf("phase %s with %d ranked colors", s.GamePhase, len(s.FinalTop3))
	}
	if err := s.Rules.Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	return s.validateFinale()
}

// validateFinale replays a saved bracket from its candidates so a resumed
// game can only continue from a position real play could reach.
func (s State) validateFinale() error {
	for i, c := range s.Favorites {
		if indexOfHex(s.Favorites[:i], c.Hex) >= 0 {
			return fmt.Errorf("favorite %s listed twice", c.Hex)
		}
	}
	late := s.GamePhase == PhaseFinale || s.GamePhase == PhaseComplete
	if late == (len(s.Favorites) == 0) {
		return fmt.Errorf("phase %s with %d favorites", s.GamePhase, len(s.Favorites))
	}

	if !late || s.Rules.FinaleMode != FinaleBracket {
		if s.Bracket != nil {
			return fmt.Errorf("bracket present in a %s finale during %s", s.Rules.FinaleMode, s.GamePhase)
		}
		return nil
	}
	if s.Bracket == nil {
		return fmt.Errorf("bracket missing during %s", s.GamePhase)
	}

	replay, err := NewBracket(s.Bracket.Candidates)
	if err != nil {
		return fmt.Errorf("bracket: %w", err)
	}
	for _, w := range s.Bracket.Winners {
		if err := replay.Pick(w.Hex); err != nil {
			return fmt.Errorf("bracket winner %q: %w", w.Hex, err)
		}
	}
	if replay.Done() != (s.GamePhase == PhaseComplete) {
		return fmt.Errorf("bracket with %d decided matches during %s", len(replay.Winners), s.GamePhase)
	}
	if s.GamePhase == PhaseComplete {
		for i, c := range replay.Ranking()[:RankingSize] {
			if !palette.SameHex(c.Hex, s.FinalTop3[i].Hex) {
				return errors.New("finalTop3 does not match the bracket")
			}
		}
	}
	return nil
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// Intent is a side effect the host must carry out after a transition.
type Intent string

const (
	IntentPersist Intent = "persist"
	IntentSync    Intent = "syncIfComplete"
)

func Intents(events []Event) []Intent {
	if len(events) == 0 {
		return nil
	}
	intents := []Intent{IntentPersist}
	if ContainsEvent(events, EvtGameCompleted) {
		intents = append(intents, IntentSync)
	}
	return intents
}

// TopSelected returns the k most-selected colors, ties broken by which was
// picked first. When fewer than k distinct colors were picked it fills up
// with colors that were shown but never chosen, in play order.
func TopSelected(s State, k int) []palette.Color {
	return fillDistinct(topByCount(s.SelectedColors, k), k, s.shownColors())
}

// fillDistinct appends colors from pools, in order, until ranked holds k
// distinct hexes or the pools run out.
func fillDistinct(ranked []palette.Color, k int, pools ...[]palette.Color) []palette.Color {
	for _, pool := range pools {
		for _, c := range pool {
			if len(ranked) >= k {
				return ranked
			}
			if indexOfHex(ranked, c.Hex) < 0 {
				ranked = append(ranked, c)
			}
		}
	}
	return ranked
}

func (s State) shownColors() []palette.Color {
	var shown []palette.Color
	for _, r := range s.RoundHistory {
		shown = append(shown, r.ColorsShown...)
	}
	return shown
}

func topByCount(colors []palette.Color, k int) []palette.Color {
	ranked := cloneColors(colors)
	slices.SortStableFunc(ranked, func(a, b palette.Color) int {
		return cmp.Compare(b.SelectionCount, a.SelectionCount)
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

func matches(c palette.Color, ref string) bool {
	if ref == "" {
		return false
	}
	return c.ID == ref || palette.SameHex(c.Hex, ref)
}

func findColor(pool []palette.Color, ref string) (palette.Color, bool) {
	for _, c := range pool {
		if matches(c, ref) {
			return c, true
		}
	}
	return palette.Color{}, false
}

func resolveDistinct(pool []palette.Color, refs []string) ([]palette.Color, error) {
	out := make([]palette.Color, 0, len(refs))
	for _, ref := range refs {
		c, ok := findColor(pool, ref)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColor, ref)
		}
		if indexOfHex(out, c.Hex) >= 0 {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColor, c.Hex)
		}
		out = append(out, c)
	}
	return out, nil
}

func indexOfHex(colors []palette.Color, hex string) int {
	for i, c := range colors {
		if palette.SameHex(c.Hex, hex) {
			return i
		}
	}
	return -1
}

func normHex(hex string) string {
	return strings.ToUpper(hex)
}

func cloneColors(colors []palette.Color) []palette.Color {
	if colors == nil {
		return []palette.Color{}
	}
	return slices.Clone(colors)
}

func (s State) clone() State {
	next := s
	next.AllRounds = make([][]palette.Color, len(s.AllRounds))
	for i, set := range s.AllRounds {
		next.AllRounds[i] = cloneColors(set)
	}
	next.SelectedColors = cloneColors(s.SelectedColors)
	next.RoundHistory = make([]RoundResult, len(s.RoundHistory))
	for i, r := range s.RoundHistory {
		r.ColorsShown = cloneColors(r.ColorsShown)
		next.RoundHistory[i] = r
	}
	next.Favorites = cloneColors(s.Favorites)
	next.FinalTop3 = cloneColors(s.FinalTop3)
	if s.Bracket != nil {
		b := s.Bracket.clone()
		next.Bracket = &b
	}
	return next
}
