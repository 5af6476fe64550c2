package particles

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA is a color with 8-bit channels and a 0-1 alpha.
type RGBA struct {
	R, G, B uint8
	A       float64
}

// String formats c as a CSS rgba() value.
func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// DefaultLinkColor is used for links when the particle color is not rgba().
var DefaultLinkColor = RGBA{R: 124, G: 58, B: 237}

var rgbaPattern = regexp.MustCompile(`^rgba\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*,\s*([\d.]+)\s*\)$`)

// ParseColor understands rgba(r, g, b, a), #rrggbb and #rgb.
func ParseColor(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	if m := rgbaPattern.FindStringSubmatch(s); m != nil {
		var channels [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(m[i+1], 10, 8)
			if err != nil {
				return RGBA{}, fmt.Errorf("invalid channel %q in %q: %w", m[i+1], s, err)
			}
			channels[i] = uint8(v)
		}
		alpha, err := strconv.ParseFloat(m[4], 64)
		if err != nil || alpha > 1 {
			return RGBA{}, fmt.Errorf("invalid alpha %q in %q", m[4], s)
		}
		return RGBA{R: channels[0], G: channels[1], B: channels[2], A: alpha}, nil
	}

	if strings.HasPrefix(s, "#") && (len(s) == 4 || len(s) == 7) {
		c, err := colorful.Hex(s)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return RGBA{R: r, G: g, B: b, A: 1}, nil
	}

	return RGBA{}, fmt.Errorf("unsupported color %q", s)
}

// LinkColor derives the link color for particles drawn in particleColor.
// rgba() colors keep their channels; anything else falls back to purple.
func LinkColor(particleColor string, opacity float64) RGBA {
	c := DefaultLinkColor
	if strings.HasPrefix(particleColor, "rgba") {
		if parsed, err := ParseColor(particleColor); err == nil {
			c = parsed
		}
	}
	c.A = opacity
	return c
}
