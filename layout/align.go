package layout

import (
	"github.com/ByLCY/isdlayout/area"
	"github.com/ByLCY/isdlayout/style"
)

// align 对每一行做重排，把短语的所有行对齐到最宽的行，
// 并放置注音与注音预留空间。
func (l *lineLayout) align(lines []*area.Node) {
	measure := 0.0
	for _, line := range lines {
		measure = max(measure, line.IPD)
	}
	if l.kind == lineAnnotation {
		// 注音行在挂到基文字时再对齐
		for _, line := range lines {
			l.reorderLine(line)
		}
		return
	}
	alignment := l.phrase.TextAlign
	if alignment == style.InlineAuto {
		alignment = style.InlineStart
	}
	for _, line := range lines {
		l.reorderLine(line)
		l.alignTextAreas(line, measure, alignment, nil)
	}
	if l.kind == lineRegular {
		l.placeAnnotations(lines)
		l.reserveAnnotationSpace(lines)
	}
}

// alignTextAreas 将 measure 减去已占用 IPD 后的空间分配给行内填充区域。
// 注音行跟随其后的子节点，不参与测量。base 为 WithBase 对齐时
// 每个基文字字符的前进宽度。
func (l *lineLayout) alignTextAreas(line *area.Node, measure float64, alignment style.InlineAlignment, base []float64) {
	units, trailing := inlineUnits(l.tree, line)
	consumed := 0.0
	for _, u := range units {
		consumed += u.base.IPD
	}
	line.IPD = measure
	available := measure - consumed
	if available < -epsilon {
		line.Overflow = -available
		return
	}
	if available <= epsilon || len(units) == 0 {
		return
	}
	n := len(units)
	out := make([]*area.Node, 0, len(line.Children)+n+1)
	filler := func(w float64) {
		if w > epsilon {
			f := l.tree.New(area.KindInlineFiller, nil)
			f.IPD = w
			out = append(out, f)
		}
	}
	all := func() {
		for _, u := range units {
			out = append(out, u.nodes...)
		}
	}

	switch alignment {
	case style.InlineJustify, style.InlineSpaceBetween:
		if n < 2 {
			if alignment == style.InlineJustify {
				l.alignTextAreas(line, measure, style.InlineStart, nil)
			} else {
				l.alignTextAreas(line, measure, style.InlineCenter, nil)
			}
			return
		}
		fill := available / float64(n-1)
		for i, u := range units {
			if i > 0 {
				filler(fill)
			}
			out = append(out, u.nodes...)
		}
	case style.InlineSpaceAround:
		fill := available / float64(n+1)
		for _, u := range units {
			filler(fill)
			out = append(out, u.nodes...)
		}
		filler(fill)
	case style.InlineWithBase:
		if len(base) != n {
			l.alignTextAreas(line, measure, style.InlineCenter, nil)
			return
		}
		total := 0.0
		for _, b := range base {
			total += b
		}
		extra := max(0, measure-total)
		s := extra / 2
		for i, u := range units {
			d := base[i] - u.base.IPD
			s += d / 2
			filler(s)
			out = append(out, u.nodes...)
			s = d / 2
		}
		filler(s + extra/2)
	case style.InlineEnd, style.InlineRight:
		filler(available)
		all()
	case style.InlineCenter:
		filler(available / 2)
		all()
		filler(available / 2)
	default:
		all()
		filler(available)
	}
	out = append(out, trailing...)
	l.tree.SetChildren(line, out)
}
