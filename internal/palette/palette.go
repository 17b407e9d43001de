package palette

import (
	"strings"

	"golang.org/x/text/cases"
)

type Category string

const (
	Warm    Category = "warm"
	Cool    Category = "cool"
	Neutral Category = "neutral"
	Earth   Category = "earth"
	Bright  Category = "bright"
)

// Categories in catalog order.
var Categories = []Category{Warm, Cool, Neutral, Earth, Bright}

type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Entry is an immutable catalog record.
type Entry struct {
	Name     string
	Hex      string
	HSL      HSL
	RGB      RGB
	Category Category
}

// Color is one drawn instance of a catalog entry. Two colors refer to the
// same palette entry when their hex values match; ID differs per draw.
type Color struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Hex            string   `json:"hex"`
	HSL            HSL      `json:"hsl"`
	RGB            RGB      `json:"rgb"`
	Category       Category `json:"category"`
	SelectionCount int      `json:"selectionCount"`
}

func (e Entry) Draw(id string) Color {
	return Color{
		ID:       id,
		Name:     e.Name,
		Hex:      e.Hex,
		HSL:      e.HSL,
		RGB:      e.RGB,
		Category: e.Category,
	}
}

// SameHex reports whether a and b name the same palette entry.
func SameHex(a, b string) bool {
	return strings.EqualFold(a, b)
}

var (
	byHex  = map[string]Entry{}
	byName = map[string]Entry{}
)

// Casers are stateful, so each call folds with a fresh one.
func foldName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func init() {
	for _, e := range Catalog {
		byHex[strings.ToUpper(e.Hex)] = e
		byName[foldName(e.Name)] = e
	}
}

func Lookup(hex string) (Entry, bool) {
	e, ok := byHex[strings.ToUpper(hex)]
	return e, ok
}

func LookupName(name string) (Entry, bool) {
	e, ok := byName[foldName(name)]
	return e, ok
}

func ByCategory(c Category) []Entry {
	var out []Entry
	for _, e := range Catalog {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}
