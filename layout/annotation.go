package layout

import (
	"github.com/ByLCY/isdlayout/area"
	"github.com/ByLCY/isdlayout/style"
	"github.com/ByLCY/isdlayout/text"
)

// addAnnotations 排版 run r 中基文字区间 [start,end) 的注音，
// 并将它们挂在基文字字形之前。
func (l *lineLayout) addAnnotations(line *area.Node, r *textRun, start, end int, annotations []*text.Phrase) {
	base := make([]float64, 0, end-start)
	for k := start; k < end; k++ {
		base = append(base, r.advance(k, k+1))
	}
	for _, a := range annotations {
		for _, al := range NewAnnotationLayout(a, l.state).Layout() {
			l.alignAnnotation(al, a, base)
			al.Level = r.level
			l.tree.Attach(line, al)
		}
	}
}

// resolveAnnotationAlign 根据注音子节点数 na 与基文字字符数 nb
// 选择自动的注音对齐方式。
func resolveAnnotationAlign(alignment style.InlineAlignment, na, nb int) style.InlineAlignment {
	if alignment == style.InlineWithBase && na != nb {
		return style.InlineCenter
	}
	if alignment != style.InlineAuto {
		return alignment
	}
	switch {
	case na == nb:
		return style.InlineWithBase
	case na < nb:
		if na > 1 {
			return style.InlineSpaceBetween
		}
		return style.InlineSpaceAround
	}
	return style.InlineCenter
}

// alignAnnotation 将注音行对齐到基文字的前进宽度上。
func (l *lineLayout) alignAnnotation(al *area.Node, a *text.Phrase, base []float64) {
	units, _ := inlineUnits(l.tree, al)
	width, content := 0.0, 0.0
	for _, b := range base {
		width += b
	}
	for _, u := range units {
		content += u.base.IPD
	}
	alignment := resolveAnnotationAlign(a.AnnotationAlign, len(units), len(base))
	measure := width
	if content > width {
		// 比基文字宽：两侧均匀伸出
		measure = content
		alignment = style.InlineCenter
		al.Overflow = content - width
	}
	l.alignTextAreas(al, measure, alignment, base)
	al.Line.Alignment = alignment
	al.Line.Base = len(base)
}

// placeAnnotations 逐行确定注音位置，并扩大每行前后的预留空间。
func (l *lineLayout) placeAnnotations(lines []*area.Node) {
	for i, line := range lines {
		for _, c := range l.tree.Children(line) {
			if c.Kind != area.KindAnnotation {
				continue
			}
			pos := c.Line.Position
			switch pos {
			case style.AnnotationAuto:
				pos = style.AnnotationAfter
				if i == 0 {
					pos = style.AnnotationBefore
				}
			case style.AnnotationOutside:
				pos = style.AnnotationBefore
				if i == len(lines)-1 && len(lines) > 1 {
					pos = style.AnnotationAfter
				}
			}
			c.Line.Position = pos
			extent := c.BPD + max(0, c.Line.Offset)
			if pos == style.AnnotationAfter {
				line.Line.AnnotationAfter = max(line.Line.AnnotationAfter, extent)
			} else {
				line.Line.AnnotationBefore = max(line.Line.AnnotationBefore, extent)
			}
		}
	}
}

// reserveAnnotationSpace 将 tts:rubyReserve 应用到短语的各行。
func (l *lineLayout) reserveAnnotationSpace(lines []*area.Node) {
	reserve := l.phrase.AnnotationReserve
	if reserve.IsNone() {
		return
	}
	size := 0.0
	if reserve.Length.IsZero() {
		// 一行注音，字号为基文字的一半
		if f := l.phrase.Font; f != nil {
			size = f.Size() / 2 * style.NormalLineHeightFactor
		}
	} else {
		r := l.state.Resolver()
		if l.phrase.Font != nil {
			r.FontSize = l.phrase.Font.Size()
		}
		size = r.Resolve(reserve.Length, l.state.WritingMode().BlockAxis())
	}
	for i, line := range lines {
		pos := reserve.ResolvePosition(len(lines), i == len(lines)-1)
		line.Line.Reserve = pos
		line.Line.ReserveSize = size
		switch pos {
		case style.ReserveBefore:
			line.Line.AnnotationBefore = max(line.Line.AnnotationBefore, size)
		case style.ReserveAfter:
			line.Line.AnnotationAfter = max(line.Line.AnnotationAfter, size)
		case style.ReserveBoth:
			line.Line.AnnotationBefore = max(line.Line.AnnotationBefore, size)
			line.Line.AnnotationAfter = max(line.Line.AnnotationAfter, size)
		}
	}
}
