package engine

import (
	"fmt"

	"github.com/DoyleJ11/yummy-colors-backend/internal/palette"
)

const BracketSize = 4

const bracketMatches = 4

// Bracket is a single-elimination finale over four colors. Matches are
// played in order: c0 vs c1, c2 vs c3, the final between the two
// semi-final winners, then third place between the two semi-final losers.
type Bracket struct {
	Candidates []palette.Color `json:"candidates"`
	Winners    []palette.Color `json:"winners"`
}

func NewBracket(candidates []palette.Color) (Bracket, error) {
	if len(candidates) != BracketSize {
		return Bracket{}, fmt.Errorf("%w: got %d", ErrBracketSize, len(candidates))
	}
	for i := range candidates {
		if indexOfHex(candidates[:i], candidates[i].Hex) >= 0 {
			return Bracket{}, ErrDuplicateColor
		}
	}
	return Bracket{Candidates: cloneColors(candidates), Winners: []palette.Color{}}, nil
}

func (b Bracket) Done() bool { return len(b.Winners) >= bracketMatches }

// Match returns the pair currently being decided.
func (b Bracket) Match() (palette.Color, palette.Color, bool) {
	if b.Done() {
		return palette.Color{}, palette.Color{}, false
	}
	x, y := b.pair(len(b.Winners))
	return x, y, true
}

func (b *Bracket) Pick(ref string) error {
	x, y, ok := b.Match()
	if !ok {
		return ErrGameAlreadyCompleted
	}
	switch {
	case matches(x, ref):
		b.Winners = append(b.Winners, x)
	case matches(y, ref):
		b.Winners = append(b.Winners, y)
	default:
		return ErrNotInMatch
	}
	return nil
}

// Ranking is [winner, runner-up, third, fourth]; nil until every match is
// decided.
func (b Bracket) Ranking() []palette.Color {
	if !b.Done() {
		return nil
	}
	return []palette.Color{b.Winners[2], b.loser(2), b.Winners[3], b.loser(3)}
}

func (b Bracket) pair(m int) (palette.Color, palette.Color) {
	switch m {
	case 0:
		return b.Candidates[0], b.Candidates[1]
	case 1:
		return b.Candidates[2], b.Candidates[3]
	case 2:
		return b.Winners[0], b.Winners[1]
	default:
		return b.loser(0), b.loser(1)
	}
}

func (b Bracket) loser(m int) palette.Color {
	x, y := b.pair(m)
	if palette.SameHex(x.Hex, b.Winners[m].Hex) {
		return y
	}
	return x
}

func (b Bracket) clone() Bracket {
	return Bracket{Candidates: cloneColors(b.Candidates), Winners: cloneColors(b.Winners)}
}
