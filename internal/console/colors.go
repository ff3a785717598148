package console

import (
	"fmt"
	"strconv"
)

const (
	escapeSequenceTemplateConstant = "\u001b[%sm"
	unknownColorLabelConstant      = "unknown"
)

// Color identifies an ANSI foreground color.
type Color int

// Supported colors.
const (
	ColorReset Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

var colorCodes = [...]int{
	ColorReset:   0,
	ColorBlack:   30,
	ColorRed:     31,
	ColorGreen:   32,
	ColorYellow:  33,
	ColorBlue:    34,
	ColorMagenta: 35,
	ColorCyan:    36,
	ColorWhite:   37,
}

var colorNames = [...]string{
	ColorReset:   "reset",
	ColorBlack:   "black",
	ColorRed:     "red",
	ColorGreen:   "green",
	ColorYellow:  "yellow",
	ColorBlue:    "blue",
	ColorMagenta: "magenta",
	ColorCyan:    "cyan",
	ColorWhite:   "white",
}

// Code returns the ANSI SGR code for the color. Unknown colors map to reset.
func (color Color) Code() int {
	if color < 0 || int(color) >= len(colorCodes) {
		return colorCodes[ColorReset]
	}
	return colorCodes[color]
}

// String returns the lowercase color name.
func (color Color) String() string {
	if color < 0 || int(color) >= len(colorNames) {
		return unknownColorLabelConstant
	}
	return colorNames[color]
}

// StartSequence returns the escape sequence that switches the terminal to the color.
func (color Color) StartSequence() string {
	return fmt.Sprintf(escapeSequenceTemplateConstant, strconv.Itoa(color.Code()))
}

// ResetSequence returns the escape sequence that restores default attributes.
func ResetSequence() string {
	return ColorReset.StartSequence()
}

// ParseColor resolves a color by its lowercase name.
func ParseColor(name string) (Color, bool) {
	for colorIndex, colorName := range colorNames {
		if colorName == name {
			return Color(colorIndex), true
		}
	}
	return ColorReset, false
}
