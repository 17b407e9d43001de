// Package types holds the JSON shapes the collector serves to dashboards.
package types

import "time"

type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

type ScreenSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ColorStat aggregates one palette color across final rankings.
type ColorStat struct {
	Hex           string  `json:"hex"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Frequency     int     `json:"frequency"`
	AvgRank       float64 `json:"avgRank"`
	AvgHue        float64 `json:"avgHue"`
	AvgSaturation float64 `json:"avgSaturation"`
	AvgLightness  float64 `json:"avgLightness"`
}

type HueBucket struct {
	HueRange  int `json:"hue_range"`
	Frequency int `json:"frequency"`
}

type SaturationBucket struct {
	SaturationRange int `json:"saturation_range"`
	Frequency       int `json:"frequency"`
}

type LightnessBucket struct {
	LightnessRange int `json:"lightness_range"`
	Frequency      int `json:"frequency"`
}

type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Analytics covers completed sessions only. Histograms are over final
// rankings; name and category counts are over every round selection.
type Analytics struct {
	PopularFinalColors    []ColorStat        `json:"popularFinalColors"`
	HuePreferences        []HueBucket        `json:"huePreferences"`
	SaturationPreferences []SaturationBucket `json:"saturationPreferences"`
	LightnessPreferences  []LightnessBucket  `json:"lightnessPreferences"`
	ColorNamePreferences  []NameCount        `json:"colorNamePreferences"`
	CategoryPreferences   []CategoryCount    `json:"categoryPreferences"`
	TotalSessions         int                `json:"totalSessions"`
	TotalColors           int                `json:"totalColors"`
	TotalRounds           int                `json:"totalRounds"`
}

type FinalColor struct {
	Hex            string `json:"hex"`
	Name           string `json:"name,omitempty"`
	Rank           int    `json:"rank"`
	HSL            HSL    `json:"hsl"`
	SelectionCount int    `json:"selectionCount"`
}

type Place struct {
	City        string `json:"city,omitempty"`
	Region      string `json:"region,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

// ResultSummary is one completed session as listed on the dashboard.
type ResultSummary struct {
	ID             string       `json:"id"`
	CompletedAt    time.Time    `json:"completedAt"`
	CompletedAgo   string       `json:"completedAgo"`
	UserAgent      string       `json:"userAgent"`
	ScreenSize     ScreenSize   `json:"screenSize"`
	TotalRounds    int          `json:"totalRounds"`
	FinalColors    []FinalColor `json:"finalColors"`
	RoundHistory   int          `json:"roundHistory"`
	FavoritesCount int          `json:"favoritesCount"`
	Location       *Place       `json:"location,omitempty"`
}

type LocationStat struct {
	Country           string    `json:"country"`
	CountryCode       string    `json:"countryCode"`
	Region            string    `json:"region"`
	City              string    `json:"city"`
	TotalSessions     int       `json:"totalSessions"`
	CompletedSessions int       `json:"completedSessions"`
	AvgRounds         float64   `json:"avgRounds"`
	FirstSession      time.Time `json:"firstSession"`
	LatestSession     time.Time `json:"latestSession"`
}

type LocationAnalytics struct {
	Locations                 []LocationStat `json:"locations"`
	TotalSessionsWithLocation int            `json:"totalSessionsWithLocation"`
	UniqueCountries           int            `json:"uniqueCountries"`
	UniqueCities              int            `json:"uniqueCities"`
}

type ResultsResponse struct {
	Success           bool               `json:"success"`
	Results           []ResultSummary    `json:"results"`
	Total             int                `json:"total"`
	LocationAnalytics *LocationAnalytics `json:"locationAnalytics,omitempty"`
}

type AnalyticsResponse struct {
	Success     bool      `json:"success"`
	Data        Analytics `json:"data"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type SaveResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
