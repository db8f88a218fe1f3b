package style

import (
	"fmt"
	"strconv"
	"strings"
)

// Color 使用 0-255 的 RGBA 分量。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

var (
	Transparent = Color{}
	White       = Color{R: 255, G: 255, B: 255, A: 255}
	Black       = Color{A: 255}
)

// IsTransparent reports a zero alpha.
func (c Color) IsTransparent() bool { return c.A == 0 }

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * uint32(c.A) / 255
	g = uint32(c.G) * uint32(c.A) / 255
	b = uint32(c.B) * uint32(c.A) / 255
	a = uint32(c.A)
	return r | r<<8, g | g<<8, b | b<<8, a | a<<8
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

var namedColors = map[string]Color{
	"transparent": Transparent,
	"black":       Black,
	"silver":      {R: 192, G: 192, B: 192, A: 255},
	"gray":        {R: 128, G: 128, B: 128, A: 255},
	"white":       White,
	"maroon":      {R: 128, A: 255},
	"red":         {R: 255, A: 255},
	"purple":      {R: 128, B: 128, A: 255},
	"fuchsia":     {R: 255, B: 255, A: 255},
	"magenta":     {R: 255, B: 255, A: 255},
	"green":       {G: 128, A: 255},
	"lime":        {G: 255, A: 255},
	"olive":       {R: 128, G: 128, A: 255},
	"yellow":      {R: 255, G: 255, A: 255},
	"navy":        {B: 128, A: 255},
	"blue":        {B: 255, A: 255},
	"teal":        {G: 128, B: 128, A: 255},
	"aqua":        {G: 255, B: 255, A: 255},
	"cyan":        {G: 255, B: 255, A: 255},
}

// ParseColor 解析 #rgb、#rrggbb、#rrggbbaa、rgb()、rgba() 与颜色名。
func ParseColor(value string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if c, ok := namedColors[v]; ok {
		return c, nil
	}
	switch {
	case strings.HasPrefix(v, "#"):
		return parseHexColor(v[1:])
	case strings.HasPrefix(v, "rgba(") && strings.HasSuffix(v, ")"):
		return parseFunctionalColor(v[5:len(v)-1], 4)
	case strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")"):
		return parseFunctionalColor(v[4:len(v)-1], 3)
	}
	return Color{}, fmt.Errorf("无法解析颜色值 %s", value)
}

func parseHexColor(value string) (Color, error) {
	switch len(value) {
	case 3:
		r, err1 := parseHex(strings.Repeat(value[0:1], 2))
		g, err2 := parseHex(strings.Repeat(value[1:2], 2))
		b, err3 := parseHex(strings.Repeat(value[2:3], 2))
		if err := firstError(err1, err2, err3); err != nil {
			return Color{}, err
		}
		return Color{R: r, G: g, B: b, A: 255}, nil
	case 6, 8:
		r, err1 := parseHex(value[0:2])
		g, err2 := parseHex(value[2:4])
		b, err3 := parseHex(value[4:6])
		a := uint8(255)
		var err4 error
		if len(value) == 8 {
			a, err4 = parseHex(value[6:8])
		}
		if err := firstError(err1, err2, err3, err4); err != nil {
			return Color{}, err
		}
		return Color{R: r, G: g, B: b, A: a}, nil
	}
	return Color{}, fmt.Errorf("无法解析颜色值 #%s", value)
}

func parseFunctionalColor(args string, n int) (Color, error) {
	parts := strings.Split(args, ",")
	if len(parts) != n {
		return Color{}, fmt.Errorf("颜色函数需要 %d 个分量，实际为 %d", n, len(parts))
	}
	comps := make([]uint8, 4)
	comps[3] = 255
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return Color{}, fmt.Errorf("颜色分量 %q 超出范围", p)
		}
		comps[i] = uint8(v)
	}
	return Color{R: comps[0], G: comps[1], B: comps[2], A: comps[3]}, nil
}

func parseHex(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
