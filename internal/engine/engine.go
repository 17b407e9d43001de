package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/DoyleJ11/yummy-colors-backend/internal/palette"
)

var ErrWrongPhase = errors.New("command not allowed in current phase")
var ErrColorNotOffered = errors.New("color not offered this round")
var ErrRoundNotPlayed = errors.New("current round has no selection")
var ErrFirstRound = errors.New("already at first round")
var ErrFavoritesCount = errors.New("wrong number of favorites")
var ErrUnknownColor = errors.New("color was never selected")
var ErrDuplicateColor = errors.New("color listed more than once")
var ErrRankingSize = errors.New("final ranking needs exactly 3 colors")
var ErrBracketSize = errors.New("bracket needs exactly 4 candidates")
var ErrNotInMatch = errors.New("color is not in the current match")
var ErrUnsupportedCommand = errors.New("unsupported command")
var ErrGameAlreadyCompleted = errors.New("game already completed")

type Phase string

const (
	PhaseSelection Phase = "selection"
	PhaseFavorites Phase = "favorites"
	PhaseFinale    Phase = "finale"
	PhaseComplete  Phase = "complete"
)

type FinaleMode string

const (
	FinaleBracket FinaleMode = "bracket"
	FinaleRanking FinaleMode = "ranking"
)

// RankingSize is the length of a finished ranking.
const RankingSize = 3

type Rules struct {
	TotalRounds    int        `json:"totalRounds"`
	ColorsPerRound int        `json:"colorsPerRound"`
	FavoritesPhase bool       `json:"favoritesPhase"`
	FinaleMode     FinaleMode `json:"finaleMode"`
	FinaleSize     int        `json:"finaleSize"`
	MinFavorites   int        `json:"minFavorites"`
	MaxFavorites   int        `json:"maxFavorites"`
}

type RoundResult struct {
	Round         int             `json:"round"`
	ColorsShown   []palette.Color `json:"colorsShown"`
	SelectedColor palette.Color   `json:"selectedColor"`
	TimeSpentMs   int64           `json:"timeSpent"`
	Timestamp     time.Time       `json:"timestamp"`
}

// State is one survey session. SelectedColors is unique by hex and kept in
// first-selection order.
type State struct {
	CurrentRound   int               `json:"currentRound"`
	TotalRounds    int               `json:"totalRounds"`
	ColorsPerRound int               `json:"colorsPerRound"`
	AllRounds      [][]palette.Color `json:"allRounds"`
	SelectedColors []palette.Color   `json:"selectedColors"`
	RoundHistory   []RoundResult     `json:"roundHistory"`
	Favorites      []palette.Color   `json:"favorites"`
	FinalTop3      []palette.Color   `json:"finalTop3"`
	GamePhase      Phase             `json:"gamePhase"`
	StartTime      time.Time         `json:"startTime"`
	Rules          Rules             `json:"rules"`
	Bracket        *Bracket          `json:"bracket,omitempty"`
}

type CommandType string

const (
	CmdSelectColor     CommandType = "SelectColor"
	CmdNextRound       CommandType = "NextRound"
	CmdPreviousRound   CommandType = "PreviousRound"
	CmdSelectFavorites CommandType = "SelectFavorites"
	CmdBracketPick     CommandType = "BracketPick"
	CmdSetFinalRanking CommandType = "SetFinalRanking"
)

/*
	CmdSelectColor     -> EvtColorSelected
	CmdNextRound       -> EvtRoundAdvanced, or EvtPhaseChanged (favorites | finale)
	CmdPreviousRound   -> EvtRoundRewound
	CmdSelectFavorites -> EvtFavoritesChosen -> EvtPhaseChanged (finale)
	CmdBracketPick     -> EvtMatchDecided, after the last match -> EvtPhaseChanged -> EvtGameCompleted
	CmdSetFinalRanking -> EvtPhaseChanged (complete) -> EvtGameCompleted

	Colors are referenced by draw id or by hex.
*/

type Command struct {
	Type      CommandType
	Color     string
	Colors    []string
	TimeSpent time.Duration
	At        time.Time
}

type EventType string

const (
	EvtColorSelected   EventType = "ColorSelected"
	EvtRoundAdvanced   EventType = "RoundAdvanced"
	EvtRoundRewound    EventType = "RoundRewound"
	EvtPhaseChanged    EventType = "PhaseChanged"
	EvtFavoritesChosen EventType = "FavoritesChosen"
	EvtMatchDecided    EventType = "MatchDecided"
	EvtGameCompleted   EventType = "GameCompleted"
)

type Event struct {
	Type  EventType
	Round int
	Hex   string
	Phase Phase
}

// Apply is pure: on error it returns s untouched, on success a new state
// that shares no slices with s.
func Apply(s State, cmd Command) ([]Event, State, error) {
	if s.GamePhase == PhaseComplete {
		return nil, s, ErrGameAlreadyCompleted
	}
	phases, known := CommandPhases[cmd.Type]
	if !known {
		return nil, s, ErrUnsupportedCommand
	}
	if !phaseIn(s.GamePhase, phases) {
		return nil, s, fmt.Errorf("%w: %s during %s", ErrWrongPhase, cmd.Type, s.GamePhase)
	}
	if !modeAllows(s.Rules.FinaleMode, cmd.Type) {
		return nil, s, fmt.Errorf("%w: %s in a %s finale", ErrWrongPhase, cmd.Type, s.Rules.FinaleMode)
	}

	next := s.clone()
	var (
		events []Event
		err    error
	)
	switch cmd.Type {
	case CmdSelectColor:
		events, err = selectColor(&next, cmd)
	case CmdNextRound:
		events, err = nextRound(&next)
	case CmdPreviousRound:
		events, err = previousRound(&next)
	case CmdSelectFavorites:
		events, err = selectFavorites(&next, cmd)
	case CmdBracketPick:
		events, err = bracketPick(&next, cmd)
	case CmdSetFinalRanking:
		events, err = setFinalRanking(&next, cmd)
	default:
		err = ErrUnsupportedCommand
	}
	if err != nil {
		return nil, s, err
	}
	return events, next, nil
}

func selectColor(s *State, cmd Command) ([]Event, error) {
	offered := s.CurrentColors()
	color, ok := findColor(offered, cmd.Color)
	if !ok {
		return nil, ErrColorNotOffered
	}

	result := RoundResult{
		Round:         s.CurrentRound,
		ColorsShown:   cloneColors(offered),
		SelectedColor: color,
		TimeSpentMs:   cmd.TimeSpent.Milliseconds(),
		Timestamp:     cmd.At,
	}

	// Replaying a round after going back overwrites its earlier result.
	if i := s.resultIndex(s.CurrentRound); i >= 0 {
		s.unmarkSelected(s.RoundHistory[i].SelectedColor.Hex)
		s.RoundHistory[i] = result
	} else {
		s.RoundHistory = append(s.RoundHistory, result)
	}
	s.markSelected(color)

	return []Event{{Type: EvtColorSelected, Round: s.CurrentRound, Hex: color.Hex}}, nil
}

func nextRound(s *State) ([]Event, error) {
	if s.resultIndex(s.CurrentRound) < 0 {
		return nil, ErrRoundNotPlayed
	}
	if s.CurrentRound < s.TotalRounds {
		s.CurrentRound++
		return []Event{{Type: EvtRoundAdvanced, Round: s.CurrentRound}}, nil
	}

	if s.Rules.FavoritesPhase {
		s.GamePhase = PhaseFavorites
		s.Favorites = []palette.Color{}
		return []Event{{Type: EvtPhaseChanged, Phase: PhaseFavorites}}, nil
	}
	s.Favorites = TopSelected(*s, s.Rules.FinaleSize)
	return s.enterFinale(), nil
}

func previousRound(s *State) ([]Event, error) {
	if s.CurrentRound <= 1 {
		return nil, ErrFirstRound
	}
	s.CurrentRound--
	return []Event{{Type: EvtRoundRewound, Round: s.CurrentRound}}, nil
}

func selectFavorites(s *State, cmd Command) ([]Event, error) {
	if n := len(cmd.Colors); n < s.Rules.MinFavorites || n > s.Rules.MaxFavorites {
		return nil, fmt.Errorf("%w: got %d, want %d-%d", ErrFavoritesCount, n, s.Rules.MinFavorites, s.Rules.MaxFavorites)
	}
	favs, err := resolveDistinct(s.SelectedColors, cmd.Colors)
	if err != nil {
		return nil, err
	}
	s.Favorites = favs

	events := []Event{{Type: EvtFavoritesChosen}}
	return append(events, s.enterFinale()...), nil
}

func bracketPick(s *State, cmd Command) ([]Event, error) {
	if s.Bracket == nil {
		return nil, ErrBracketSize
	}
	if err := s.Bracket.Pick(cmd.Color); err != nil {
		return nil, err
	}
	winner := s.Bracket.Winners[len(s.Bracket.Winners)-1]
	events := []Event{{Type: EvtMatchDecided, Hex: winner.Hex}}

	if s.Bracket.Done() {
		events = append(events, s.complete(s.Bracket.Ranking()[:RankingSize])...)
	}
	return events, nil
}

func setFinalRanking(s *State, cmd Command) ([]Event, error) {
	if len(cmd.Colors) != RankingSize {
		return nil, fmt.Errorf("%w: got %d", ErrRankingSize, len(cmd.Colors))
	}
	pool := append(cloneColors(s.Favorites), s.SelectedColors...)
	top, err := resolveDistinct(pool, cmd.Colors)
	if err != nil {
		return nil, err
	}
	return s.complete(top), nil
}

func (s *State) enterFinale() []Event {
	s.GamePhase = PhaseFinale
	s.Bracket = nil
	if s.Rules.FinaleMode == FinaleBracket {
		if b, err := NewBracket(s.bracketCandidates()); err == nil {
			s.Bracket = &b
		}
	}
	return []Event{{Type: EvtPhaseChanged, Phase: PhaseFinale}}
}

// bracketCandidates narrows favorites to the four most selected. Short
// lists are topped up from the other selected colors, then from colors that
// were shown, in play order.
func (s *State) bracketCandidates() []palette.Color {
	return fillDistinct(topByCount(s.Favorites, BracketSize), BracketSize,
		topByCount(s.SelectedColors, len(s.SelectedColors)), s.shownColors())
}

func (s *State) complete(top []palette.Color) []Event {
	s.FinalTop3 = cloneColors(top)
	s.GamePhase = PhaseComplete
	return []Event{
		{Type: EvtPhaseChanged, Phase: PhaseComplete},
		{Type: EvtGameCompleted},
	}
}

func (s *State) markSelected(c palette.Color) {
	if i := indexOfHex(s.SelectedColors, c.Hex); i >= 0 {
		s.SelectedColors[i].SelectionCount++
		return
	}
	c.SelectionCount = 1
	s.SelectedColors = append(s.SelectedColors, c)
}

func (s *State) unmarkSelected(hex string) {
	i := indexOfHex(s.SelectedColors, hex)
	if i < 0 {
		return
	}
	s.SelectedColors[i].SelectionCount--
	if s.SelectedColors[i].SelectionCount <= 0 {
		s.SelectedColors = append(s.SelectedColors[:i], s.SelectedColors[i+1:]...)
	}
}

func (s State) resultIndex(round int) int {
	for i, r := range s.RoundHistory {
		if r.Round == round {
			return i
		}
	}
	return -1
}
