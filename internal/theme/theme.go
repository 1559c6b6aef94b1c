// Package theme provides the static aesthetic and palette reference data
// users select from, and resolution of a user's selection into a computed
// style object. Selections are stored as an (aesthetic slug, palette name)
// pair; an invalid or missing reference falls back to the default.
package theme

// DefaultAesthetic is the aesthetic slug used when a user's selection
// is missing or no longer exists.
const DefaultAesthetic = "classic"

// DefaultPalette is the palette name used when a user's selected palette
// does not exist within the resolved aesthetic.
const DefaultPalette = "light"

// Palette is a named set of color tokens within an aesthetic.
type Palette struct {
	Name       string `json:"name"`
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Text       string `json:"text"`
	Muted      string `json:"muted"`
	Accent     string `json:"accent"`
	Border     string `json:"border"`
}

// Aesthetic is a named visual style with one or more palettes.
type Aesthetic struct {
	Slug     string    `json:"slug"`
	Name     string    `json:"name"`
	FontBody string    `json:"fontBody"`
	FontHead string    `json:"fontHead"`
	Radius   string    `json:"radius"`
	Palettes []Palette `json:"palettes"`
}

// Style is the computed style object attached to profile responses.
type Style struct {
	Aesthetic string  `json:"aesthetic"`
	FontBody  string  `json:"fontBody"`
	FontHead  string  `json:"fontHead"`
	Radius    string  `json:"radius"`
	Palette   Palette `json:"palette"`
}

// aesthetics is the static reference table, ordered for listing responses.
var aesthetics = []Aesthetic{
	{
		Slug:     "classic",
		Name:     "Classic",
		FontBody: "Inter, sans-serif",
		FontHead: "Inter, sans-serif",
		Radius:   "8px",
		Palettes: []Palette{
			{Name: "light", Background: "#FAFAF8", Surface: "#FFFFFF", Text: "#1A1A1A", Muted: "#6B7280", Accent: "#2563EB", Border: "#E5E7EB"},
			{Name: "dark", Background: "#111113", Surface: "#1C1C1F", Text: "#F4F4F5", Muted: "#9CA3AF", Accent: "#60A5FA", Border: "#2D2D31"},
		},
	},
	{
		Slug:     "zine",
		Name:     "Zine",
		FontBody: "Courier Prime, monospace",
		FontHead: "Archivo Black, sans-serif",
		Radius:   "0px",
		Palettes: []Palette{
			{Name: "paper", Background: "#F5F0E6", Surface: "#FFFDF5", Text: "#221F1A", Muted: "#6E6658", Accent: "#D42B2B", Border: "#221F1A"},
			{Name: "ink", Background: "#17151F", Surface: "#221F2E", Text: "#EDEAF7", Muted: "#8B86A0", Accent: "#FF5C5C", Border: "#EDEAF7"},
		},
	},
	{
		Slug:     "terminal",
		Name:     "Terminal",
		FontBody: "JetBrains Mono, monospace",
		FontHead: "JetBrains Mono, monospace",
		Radius:   "2px",
		Palettes: []Palette{
			{Name: "green", Background: "#0C0F0C", Surface: "#121712", Text: "#9BE89B", Muted: "#4C7A4C", Accent: "#3DF23D", Border: "#1F2E1F"},
			{Name: "amber", Background: "#100D08", Surface: "#171209", Text: "#F2C94C", Muted: "#8A7436", Accent: "#FFB020", Border: "#2E2614"},
		},
	},
	{
		Slug:     "pastel",
		Name:     "Pastel",
		FontBody: "Nunito, sans-serif",
		FontHead: "Fraunces, serif",
		Radius:   "16px",
		Palettes: []Palette{
			{Name: "peach", Background: "#FFF4EC", Surface: "#FFFBF7", Text: "#44322B", Muted: "#9C8478", Accent: "#F28B6B", Border: "#F2DCCF"},
			{Name: "lavender", Background: "#F4F0FA", Surface: "#FBF9FE", Text: "#37304A", Muted: "#877EA3", Accent: "#8B6BD9", Border: "#E3DBF2"},
		},
	},
}

// All returns the full list of aesthetics for reference-data endpoints.
func All() []Aesthetic {
	return aesthetics
}

// Resolve computes the style for an (aesthetic, palette) selection.
// Unknown aesthetics fall back to the default aesthetic; unknown palettes
// fall back to the resolved aesthetic's default (or first) palette.
func Resolve(aestheticSlug, paletteName string) Style {
	a := find(aestheticSlug)
	if a == nil {
		a = find(DefaultAesthetic)
	}

	p := findPalette(a, paletteName)
	if p == nil {
		p = findPalette(a, DefaultPalette)
	}
	if p == nil {
		p = &a.Palettes[0]
	}

	return Style{
		Aesthetic: a.Slug,
		FontBody:  a.FontBody,
		FontHead:  a.FontHead,
		Radius:    a.Radius,
		Palette:   *p,
	}
}

// Valid reports whether the (aesthetic, palette) pair refers to real
// reference data, for validating theme updates.
func Valid(aestheticSlug, paletteName string) bool {
	a := find(aestheticSlug)
	if a == nil {
		return false
	}
	return findPalette(a, paletteName) != nil
}

func find(slug string) *Aesthetic {
	for i := range aesthetics {
		if aesthetics[i].Slug == slug {
			return &aesthetics[i]
		}
	}
	return nil
}

func findPalette(a *Aesthetic, name string) *Palette {
	for i := range a.Palettes {
		if a.Palettes[i].Name == name {
			return &a.Palettes[i]
		}
	}
	return nil
}
