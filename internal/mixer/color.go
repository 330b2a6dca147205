package mixer

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/chrisdamba/freshmix/internal/models"
)

var hexColorPattern = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// default channels of models.DefaultBlendColor
const (
	defaultRed   = 0xFF
	defaultGreen = 0xE4
	defaultBlue  = 0xC4
)

// parseHexColor reads a 6-digit hex color with an optional leading '#'.
func parseHexColor(s string) (r, g, b uint8, ok bool) {
	if !hexColorPattern.MatchString(s) {
		return 0, 0, 0, false
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, 0, 0, false
	}
	r, g, b = c.RGB255()
	return r, g, b, true
}

// BlendColors averages the colors channel by channel. Each channel mean is
// rounded half up and written as two lowercase hex digits. Unparseable
// colors count as the default blend color. An empty input yields
// models.DefaultBlendColor.
func BlendColors(colors []string) string {
	if len(colors) == 0 {
		return models.DefaultBlendColor
	}

	var sumR, sumG, sumB float64
	for _, hex := range colors {
		r, g, b, ok := parseHexColor(hex)
		if !ok {
			r, g, b = defaultRed, defaultGreen, defaultBlue
		}
		sumR += float64(r)
		sumG += float64(g)
		sumB += float64(b)
	}

	n := float64(len(colors))
	return fmt.Sprintf("#%02x%02x%02x",
		channel(sumR/n),
		channel(sumG/n),
		channel(sumB/n),
	)
}

func channel(mean float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Floor(mean+0.5))))
}
