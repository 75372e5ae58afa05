// Package canvas provides the surfaces markbar draw commands are painted on:
// a terminal cell grid and an RGBA image.
package canvas

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	errs "github.com/flashingpumpkin/markbar/internal/errors"
)

// ParseColor parses "#RRGGBB", "#RGB", "#RRGGBBAA" or "transparent".
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "transparent" || s == "none" {
		return color.RGBA{}, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	switch len(s) {
	case 4, 7, 9:
	default:
		return color.RGBA{}, fmt.Errorf("%w: %q", errs.ErrInvalidColor, s)
	}

	alpha := uint8(0xFF)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: %q", errs.ErrInvalidColor, s)
		}
		alpha = uint8(a)
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", errs.ErrInvalidColor, s)
	}
	r, g, b := c.RGB255()
	if alpha == 0 {
		return color.RGBA{}, nil
	}
	// color.RGBA is alpha-premultiplied.
	return color.RGBA{
		R: uint8(uint16(r) * uint16(alpha) / 0xFF),
		G: uint8(uint16(g) * uint16(alpha) / 0xFF),
		B: uint8(uint16(b) * uint16(alpha) / 0xFF),
		A: alpha,
	}, nil
}

// Hex formats a colour the way ParseColor reads it: "#rrggbb" when opaque,
// "#rrggbbaa" (un-premultiplied) when partially transparent and
// "transparent" when alpha is zero.
func Hex(c color.RGBA) string {
	rgb, ok := opaqueHex(c)
	if !ok {
		return "transparent"
	}
	if c.A == 0xFF {
		return rgb
	}
	return fmt.Sprintf("%s%02x", rgb, c.A)
}

// opaqueHex returns the "#rrggbb" part of c with alpha divided out.
func opaqueHex(c color.RGBA) (string, bool) {
	if c.A == 0 {
		return "", false
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "", false
	}
	return cf.Hex(), true
}
