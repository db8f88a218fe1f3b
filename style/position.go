package style

import (
	"fmt"
	"strings"
)

// PositionComponent 描述一个轴向的位置：Base（剩余空间的百分比或长度）
// 加上 Offset，从起始边量起；FromEnd 为真时从结束边量起。
type PositionComponent struct {
	Base    Length `json:"base"`
	Offset  Length `json:"offset"`
	FromEnd bool   `json:"fromEnd"`
}

// Position 是解析后的 tts:position 值。
type Position struct {
	H PositionComponent `json:"h"`
	V PositionComponent `json:"v"`
}

// CenterPosition 是 tts:position 的默认值。
var CenterPosition = Position{
	H: PositionComponent{Base: Percent(50)},
	V: PositionComponent{Base: Percent(50)},
}

// Resolve 将位置换算为原点。百分比相对剩余空间
// （外部尺寸减去区域尺寸），由调用方通过 Reference 传入。
func (p Position) Resolve(r Resolver) Point {
	return Point{
		X: p.H.resolve(r, AxisHorizontal),
		Y: p.V.resolve(r, AxisVertical),
	}
}

func (c PositionComponent) resolve(r Resolver, axis Axis) float64 {
	base := r.Resolve(c.Base, axis)
	off := r.Resolve(c.Offset, axis)
	if c.FromEnd {
		return base - off
	}
	return base + off
}

type axisHint int

const (
	hintAny axisHint = iota
	hintH
	hintV
)

type posToken struct {
	keyword string
	length  Length
	isLen   bool
}

// ParsePosition 解析 1 到 4 个分量的 tts:position 语法。
func ParsePosition(value string) (Position, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 || len(fields) > 4 {
		return CenterPosition, fmt.Errorf("无效的位置 %q", value)
	}
	toks := make([]posToken, 0, len(fields))
	for _, f := range fields {
		switch f {
		case "left", "right", "center", "top", "bottom":
			toks = append(toks, posToken{keyword: f})
		default:
			l, err := ParseLength(f)
			if err != nil {
				return CenterPosition, fmt.Errorf("无效的位置 %q: %w", value, err)
			}
			toks = append(toks, posToken{length: l, isLen: true})
		}
	}

	var groups [][]posToken
	switch len(toks) {
	case 1:
		groups = [][]posToken{toks[:1]}
	case 2:
		groups = [][]posToken{toks[:1], toks[1:]}
	case 3:
		if toks[1].isLen {
			groups = [][]posToken{toks[:2], toks[2:]}
		} else {
			groups = [][]posToken{toks[:1], toks[1:]}
		}
	case 4:
		groups = [][]posToken{toks[:2], toks[2:]}
	}

	comps := make([]PositionComponent, 0, 2)
	hints := make([]axisHint, 0, 2)
	for _, g := range groups {
		c, hint, err := positionComponent(g)
		if err != nil {
			return CenterPosition, fmt.Errorf("无效的位置 %q: %w", value, err)
		}
		comps = append(comps, c)
		hints = append(hints, hint)
	}

	pos := CenterPosition
	if len(comps) == 1 {
		if hints[0] == hintV {
			pos.V = comps[0]
		} else {
			pos.H = comps[0]
		}
		return pos, nil
	}
	if hints[0] == hintV || hints[1] == hintH {
		if hints[0] == hintH || hints[1] == hintV {
			return CenterPosition, fmt.Errorf("无效的位置 %q: 轴向冲突", value)
		}
		comps[0], comps[1] = comps[1], comps[0]
	}
	pos.H, pos.V = comps[0], comps[1]
	return pos, nil
}

func positionComponent(g []posToken) (PositionComponent, axisHint, error) {
	if len(g) == 1 && g[0].isLen {
		return PositionComponent{Base: g[0].length}, hintAny, nil
	}
	if g[0].isLen {
		return PositionComponent{}, hintAny, fmt.Errorf("偏移量缺少边关键字")
	}
	var c PositionComponent
	var hint axisHint
	switch g[0].keyword {
	case "left":
		c, hint = PositionComponent{Base: Percent(0)}, hintH
	case "right":
		c, hint = PositionComponent{Base: Percent(100), FromEnd: true}, hintH
	case "top":
		c, hint = PositionComponent{Base: Percent(0)}, hintV
	case "bottom":
		c, hint = PositionComponent{Base: Percent(100), FromEnd: true}, hintV
	case "center":
		c, hint = PositionComponent{Base: Percent(50)}, hintAny
	}
	if len(g) == 2 {
		if g[0].keyword == "center" || !g[1].isLen {
			return PositionComponent{}, hintAny, fmt.Errorf("无效的边偏移量")
		}
		c.Offset = g[1].length
	}
	return c, hint, nil
}
