package palette

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

type Policy string

const (
	PolicyUniform  Policy = "uniform"
	PolicyBalanced Policy = "balanced"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyUniform, PolicyBalanced:
		return Policy(s), nil
	case "":
		return PolicyUniform, nil
	default:
		return "", fmt.Errorf("unknown draw policy %q", s)
	}
}

// Generator draws round sets from the catalog. It is not safe for
// concurrent use; each session owns one.
type Generator struct {
	rng    *rand.Rand
	policy Policy
	newID  func() string
}

func NewGenerator(policy Policy, rng *rand.Rand) *Generator {
	return &Generator{rng: rng, policy: policy, newID: uuid.NewString}
}

// ColorSet returns n distinct colors, clamped to the catalog size.
func (g *Generator) ColorSet(n int) []Color {
	if n <= 0 {
		return []Color{}
	}
	if n > len(Catalog) {
		n = len(Catalog)
	}

	var picked []Entry
	switch g.policy {
	case PolicyBalanced:
		picked = g.balanced(n)
	default:
		picked = g.uniform(n)
	}

	set := make([]Color, 0, n)
	for _, e := range picked {
		set = append(set, e.Draw(g.newID()))
	}
	return set
}

// AllRounds draws every round of a session up front.
func (g *Generator) AllRounds(totalRounds, colorsPerRound int) [][]Color {
	rounds := make([][]Color, 0, max(totalRounds, 0))
	for i := 0; i < totalRounds; i++ {
		rounds = append(rounds, g.ColorSet(colorsPerRound))
	}
	return rounds
}

func (g *Generator) uniform(n int) []Entry {
	perm := g.rng.Perm(len(Catalog))
	out := make([]Entry, 0, n)
	for _, i := range perm[:n] {
		out = append(out, Catalog[i])
	}
	return out
}

// balanced takes one entry per category in turn so that every category
// shows up before any repeats.
func (g *Generator) balanced(n int) []Entry {
	order := make([]Category, len(Categories))
	copy(order, Categories)
	g.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	pools := make([][]Entry, len(order))
	for i, c := range order {
		pool := ByCategory(c)
		g.rng.Shuffle(len(pool), func(a, b int) { pool[a], pool[b] = pool[b], pool[a] })
		pools[i] = pool
	}

	out := make([]Entry, 0, n)
	for len(out) < n {
		progressed := false
		for i := range pools {
			if len(out) == n {
				break
			}
			if len(pools[i]) == 0 {
				continue
			}
			out = append(out, pools[i][0])
			pools[i] = pools[i][1:]
			progressed = true
		}
		if !progressed {
			break
		}
	}

	g.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
