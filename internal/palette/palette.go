// Package palette holds the closed set of display colors a player can assign
// to each throw multiplier. Colors are presentation only and never influence
// scoring.
package palette

import (
	"slices"
	"strings"
)

// Color is a palette entry name such as "green".
type Color string

// Known palette colors, in display order.
const (
	Gray    Color = "gray"
	Red     Color = "red"
	Orange  Color = "orange"
	Amber   Color = "amber"
	Yellow  Color = "yellow"
	Lime    Color = "lime"
	Green   Color = "green"
	Emerald Color = "emerald"
	Teal    Color = "teal"
	Cyan    Color = "cyan"
	Sky     Color = "sky"
	Blue    Color = "blue"
	Indigo  Color = "indigo"
	Violet  Color = "violet"
	Purple  Color = "purple"
	Fuchsia Color = "fuchsia"
	Pink    Color = "pink"
	Rose    Color = "rose"
)

var order = []Color{
	Gray, Red, Orange, Amber, Yellow, Lime, Green, Emerald, Teal,
	Cyan, Sky, Blue, Indigo, Violet, Purple, Fuchsia, Pink, Rose,
}

// hex values mirror the 500/600 shades of the Tailwind palette.
var hex = map[Color]string{
	Gray:    "#6B7280",
	Red:     "#EF4444",
	Orange:  "#F97316",
	Amber:   "#F59E0B",
	Yellow:  "#EAB308",
	Lime:    "#84CC16",
	Green:   "#16A34A",
	Emerald: "#10B981",
	Teal:    "#14B8A6",
	Cyan:    "#06B6D4",
	Sky:     "#0EA5E9",
	Blue:    "#2563EB",
	Indigo:  "#6366F1",
	Violet:  "#8B5CF6",
	Purple:  "#A855F7",
	Fuchsia: "#D946EF",
	Pink:    "#EC4899",
	Rose:    "#F43F5E",
}

// Colors returns every palette color in display order.
func Colors() []Color {
	return slices.Clone(order)
}

// Parse normalizes name and reports whether it is a palette color.
func Parse(name string) (Color, bool) {
	c := Color(strings.ToLower(strings.TrimSpace(name)))
	_, ok := hex[c]
	return c, ok
}

// Valid reports whether c is a palette color.
func (c Color) Valid() bool {
	_, ok := hex[c]
	return ok
}

// Hex returns the terminal color for c, falling back to gray.
func (c Color) Hex() string {
	if h, ok := hex[c]; ok {
		return h
	}
	return hex[Gray]
}

func (c Color) String() string { return string(c) }

// MultiplierColors maps throw multipliers to palette colors. The JSON keys
// match the persisted format {"1": ..., "2": ..., "3": ...}.
type MultiplierColors struct {
	Single Color `json:"1" yaml:"single"`
	Double Color `json:"2" yaml:"double"`
	Triple Color `json:"3" yaml:"triple"`
}

// Default returns gray singles, green doubles and blue triples.
func Default() MultiplierColors {
	return MultiplierColors{Single: Gray, Double: Green, Triple: Blue}
}

// For returns the color for multiplier m (1, 2 or 3). Unknown multipliers and
// unknown colors resolve to gray.
func (mc MultiplierColors) For(m int) Color {
	var c Color
	switch m {
	case 1:
		c = mc.Single
	case 2:
		c = mc.Double
	case 3:
		c = mc.Triple
	}
	if !c.Valid() {
		return Gray
	}
	return c
}

// With returns a copy with multiplier m set to c. It reports false, leaving
// the receiver unchanged, when m is not 1-3 or c is not a palette color.
func (mc MultiplierColors) With(m int, c Color) (MultiplierColors, bool) {
	if !c.Valid() {
		return mc, false
	}
	switch m {
	case 1:
		mc.Single = c
	case 2:
		mc.Double = c
	case 3:
		mc.Triple = c
	default:
		return mc, false
	}
	return mc, true
}

// Normalize replaces every unknown entry with its default color.
func (mc MultiplierColors) Normalize() MultiplierColors {
	def := Default()
	if c, ok := Parse(string(mc.Single)); ok {
		def.Single = c
	}
	if c, ok := Parse(string(mc.Double)); ok {
		def.Double = c
	}
	if c, ok := Parse(string(mc.Triple)); ok {
		def.Triple = c
	}
	return def
}
