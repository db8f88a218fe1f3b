package layout

import (
	"math"

	"github.com/ByLCY/isdlayout/area"
	"github.com/ByLCY/isdlayout/fonts"
	"github.com/ByLCY/isdlayout/style"
	"github.com/ByLCY/isdlayout/text"
)

// consumeMode 决定输出行的 IPD。
type consumeMode int

const (
	consumeMax consumeMode = iota // 始终为可用 IPD
	consumeFit                    // 收缩到内容宽度
)

// lineKind 决定行排版的产物类型。
type lineKind int

const (
	lineRegular lineKind = iota
	lineAnnotation
	lineEmbedded
)

const epsilon = 1e-6

// lineLayout 将一个短语断成多行。
type lineLayout struct {
	state  *State
	tree   *area.Tree
	phrase *text.Phrase
	kind   lineKind
	runs   []*textRun
}

func newLineLayout(state *State, phrase *text.Phrase, kind lineKind) *lineLayout {
	l := &lineLayout{state: state, tree: state.Tree(), phrase: phrase, kind: kind}
	l.runs = l.segment()
	return l
}

// layout 以不超过 available 的 IPD 填充各行，随后重排、对齐并添加注音。
func (l *lineLayout) layout(available float64, consume consumeMode) []*area.Node {
	for _, r := range l.runs {
		if r.kind == runEmbedding && r.embedding != nil {
			r.embedded = l.layoutEmbedding(r.embedding)
		}
	}
	lines := l.fill(available, consume)
	if len(lines) == 0 {
		return nil
	}
	l.align(lines)
	return lines
}

// fill 是贪心填行循环。
func (l *lineLayout) fill(available float64, consume consumeMode) []*area.Node {
	wrap := l.phrase.Wrap == style.Wrap && available > 0 && !math.IsInf(available, 1)
	var lines []*area.Node
	var breaks []*breakOpportunity
	consumed := 0.0
	flush := func() {
		lines = append(lines, l.emit(breaks, available, consume))
		breaks, consumed = nil, 0
	}
	for _, r := range l.runs {
		cursor := l.newCursor(r, l.state.LineBreaker(), r.start, false)
		for b := cursor.next(); b != nil; {
			switch {
			case len(breaks) == 0 && !b.isHard() && r.suppressAfterLineBreak():
				// 行首可抑制的空白
			case b.isHard():
				breaks = append(breaks, b)
				flush()
			case !wrap || consumed+b.advance+b.shear <= available+epsilon:
				breaks = append(breaks, b)
				consumed += b.advance
			case len(breaks) > 0:
				flush()
				continue // 在新行重试同一断点
			case !cursor.char && r.kind == runNonWhitespace && b.end-b.start > 1:
				// 单词无法放入空行：改用字符断行器
				cursor = l.newCursor(r, l.state.CharacterBreaker(), b.start, true)
				b = cursor.next()
				continue
			default:
				// 原子片段本身超宽，只能溢出
				breaks = append(breaks, b)
				consumed += b.advance
			}
			b = cursor.next()
		}
	}
	if len(breaks) > 0 {
		flush()
	}
	return lines
}

// trimBreaks 去掉行首行尾可抑制的断点。
func trimBreaks(breaks []*breakOpportunity) []*breakOpportunity {
	i, j := 0, len(breaks)
	for i < j && breaks[i].run.suppressAfterLineBreak() {
		i++
	}
	for j > i && breaks[j-1].run.suppressBeforeLineBreak() {
		j--
	}
	return breaks[i:j]
}

func sumAdvance(breaks []*breakOpportunity) float64 {
	total := 0.0
	for _, b := range breaks {
		total += b.advance
	}
	return total
}

// emit 由累积的断点生成一行。
func (l *lineLayout) emit(breaks []*breakOpportunity, available float64, consume consumeMode) *area.Node {
	breaks = trimBreaks(breaks)
	consumed := sumAdvance(breaks)
	line := l.newLine()
	l.addTextAreas(line, breaks)
	ipd := consumed
	if consume == consumeMax && !math.IsInf(available, 1) {
		ipd = available
	}
	line.IPD = ipd
	if !math.IsInf(available, 1) && consumed > available+epsilon {
		line.Overflow = consumed - available
	}
	return line
}

func (l *lineLayout) newLine() *area.Node {
	kind := area.KindLine
	if l.kind == lineAnnotation {
		kind = area.KindAnnotation
	}
	p := l.phrase
	line := l.tree.New(kind, p.Element)
	line.BPD = p.LineHeight
	if line.BPD <= 0 {
		line.BPD = fonts.LineHeight(p.Font)
	}
	line.Visibility = p.Visibility
	line.Line.Alignment = p.TextAlign
	line.Line.Embedded = l.kind == lineEmbedded
	if l.kind == lineAnnotation {
		line.Line.Alignment = p.AnnotationAlign
		line.Line.Position = p.AnnotationPosition
		line.Line.Offset = p.AnnotationOffset
	}
	return line
}

// addTextAreas 将同一 run 中相邻的断点合并为行内区域。
func (l *lineLayout) addTextAreas(line *area.Node, breaks []*breakOpportunity) {
	for i := 0; i < len(breaks); {
		r, start, end := breaks[i].run, breaks[i].start, breaks[i].end
		adv := breaks[i].advance
		j := i + 1
		for j < len(breaks) && breaks[j].run == r && breaks[j].start == end {
			end = breaks[j].end
			adv += breaks[j].advance
			j++
		}
		l.addRunAreas(line, r, start, end, adv)
		i = j
	}
}

func (l *lineLayout) addRunAreas(line *area.Node, r *textRun, start, end int, adv float64) {
	height := r.font.Ascent() + r.font.Descent()
	switch r.kind {
	case runIgnoredControl:
	case runWhitespace:
		if adv <= 0 {
			return
		}
		n := l.tree.New(area.KindSpace, l.phrase.Element)
		n.Space.Text = r.content(start, end)
		n.Space.Font = r.font
		n.IPD, n.BPD, n.Level = adv, height, r.level
		n.Visibility = l.phrase.Visibility
		l.tree.Append(line, n)
	case runEmbedding:
		if r.embedded == nil {
			return
		}
		n := l.tree.New(area.KindInlineBlock, r.embedding.Element)
		for _, el := range r.embedded.lines {
			l.tree.Append(n, el)
		}
		n.IPD, n.BPD, n.Level = r.embedded.ipd, r.embedded.bpd, r.level
		l.tree.Append(line, n)
	default:
		if annotations := l.phrase.Annotations(start); len(annotations) > 0 && l.kind != lineAnnotation {
			l.addAnnotations(line, r, start, end, annotations)
		}
		s := l.phrase.Slice(start, end)
		n := l.tree.New(area.KindGlyph, l.phrase.Element)
		g := n.Glyph
		g.Text = s
		g.Color = l.phrase.Color
		g.Font = r.font
		g.Mapping = r.font.GlyphMapping(s, r.features)
		g.Orientation = r.features.Orientation
		g.Combination = r.features.Combination
		g.Decorations = l.decorations(start, end)
		n.IPD, n.BPD, n.Level = adv, height, r.level
		n.Visibility = l.phrase.Visibility
		l.tree.Append(line, n)
	}
}

// decorations 将颜色、描边与可见性区间切分到 [start,end) 上。
func (l *lineLayout) decorations(start, end int) []area.Decoration {
	var out []area.Decoration
	if o := l.phrase.Outline; o != nil {
		out = append(out, area.Decoration{Type: area.DecorationOutline, Start: 0, End: end - start, Value: o})
	}
	add := func(attr text.Attribute, t area.DecorationType) {
		for _, s := range l.phrase.Spans(attr, start, end) {
			out = append(out, area.Decoration{Type: t, Start: s.Start - start, End: s.End - start, Value: s.Value})
		}
	}
	add(text.AttrColor, area.DecorationColor)
	add(text.AttrOutline, area.DecorationOutline)
	add(text.AttrVisibility, area.DecorationVisibility)
	return out
}

// embeddedBlock 是按内容收缩排版的内嵌段落。
type embeddedBlock struct {
	lines    []*area.Node
	ipd, bpd float64
}

func (l *lineLayout) layoutEmbedding(p *text.Paragraph) *embeddedBlock {
	eb := &embeddedBlock{}
	for _, ph := range p.Phrases {
		for _, line := range newLineLayout(l.state, ph, lineEmbedded).layout(math.Inf(1), consumeFit) {
			eb.lines = append(eb.lines, line)
			eb.ipd = max(eb.ipd, line.IPD)
			eb.bpd += line.OuterBPD()
		}
	}
	return eb
}
