package layout

import (
	"math"
	"strings"

	"github.com/ByLCY/isdlayout/fonts"
	"github.com/ByLCY/isdlayout/style"
	"github.com/ByLCY/isdlayout/text"
)

type runKind int

const (
	runNonWhitespace runKind = iota
	runWhitespace
	runEmbedding
	runIgnoredControl
)

var runKindNames = [...]string{"text", "whitespace", "embedding", "control"}

func (k runKind) String() string { return runKindNames[k] }

// textRun 是短语中空白属性与断 run 属性都相同的最长区间。
type textRun struct {
	kind       runKind
	phrase     *text.Phrase
	start, end int
	font       fonts.Font
	features   fonts.FeatureSet
	level      int
	embedding  *text.Paragraph
	embedded   *embeddedBlock
}

// runs segments p.
func (l *lineLayout) segment() []*textRun {
	p := l.phrase
	var runs []*textRun
	for i := 0; i < p.Len(); {
		kind := classifyRune(p, i)
		j := i + 1
		if kind != runEmbedding {
			for j < p.Len() && classifyRune(p, j) == kind && !p.ChangesAt(j, text.RunBreaking...) {
				j++
			}
		}
		runs = append(runs, l.newRun(kind, i, j))
		i = j
	}
	return runs
}

func classifyRune(p *text.Phrase, i int) runKind {
	r := p.Rune(i)
	switch {
	case r == text.ObjectReplacement:
		if _, ok := p.Value(text.AttrEmbedding, i); ok {
			return runEmbedding
		}
	case text.IsBidiControl(r):
		return runIgnoredControl
	case text.IsWhitespace(r):
		return runWhitespace
	}
	return runNonWhitespace
}

func (l *lineLayout) newRun(kind runKind, start, end int) *textRun {
	p := l.phrase
	r := &textRun{kind: kind, phrase: p, start: start, end: end, font: p.Font}
	if f, ok := p.Value(text.AttrFont, start); ok {
		if font, ok := f.(fonts.Font); ok && font != nil {
			r.font = font
		}
	}
	if r.font == nil {
		r.font = l.state.Font()
	}
	if v, ok := p.Value(text.AttrBidiLevel, start); ok {
		r.level, _ = v.(int)
	}
	r.features = fonts.FeatureSet{
		Script:   p.Script,
		Language: p.Language,
		Level:    r.level,
		Kerning:  p.Kerning,
	}
	if v, ok := p.Value(text.AttrOrientation, start); ok {
		r.features.Orientation, _ = v.(style.Orientation)
	}
	if v, ok := p.Value(text.AttrCombination, start); ok {
		r.features.Combination, _ = v.(style.Combination)
	}
	if kind == runEmbedding {
		v, _ := p.Value(text.AttrEmbedding, start)
		r.embedding, _ = v.(*text.Paragraph)
	}
	return r
}

// isBreakControl 判断会造成断行但不渲染的字符。
func (r *textRun) isBreakControl(c rune) bool {
	switch c {
	case text.LineSeparator, text.ParagraphSeparator:
		return true
	case text.LineFeed, text.CarriageReturn:
		return r.phrase.Whitespace.Linefeed() == style.LinefeedPreserve
	}
	return false
}

// content 返回 [from,to) 去掉断行控制符后的渲染文本。
func (r *textRun) content(from, to int) string {
	s := r.phrase.Slice(from, to)
	if r.kind != runWhitespace {
		return s
	}
	return strings.Map(func(c rune) rune {
		if r.isBreakControl(c) {
			return -1
		}
		return c
	}, s)
}

// text returns the raw text of the whole run.
func (r *textRun) text() string { return r.phrase.Slice(r.start, r.end) }

// advance 测量 [from,to)；缺失的字形宽度为 0。
func (r *textRun) advance(from, to int) float64 {
	switch r.kind {
	case runIgnoredControl:
		return 0
	case runEmbedding:
		if r.embedded == nil {
			return 0
		}
		return r.embedded.ipd
	}
	adv := fonts.Advance(r.font, r.content(from, to), r.features)
	if math.IsNaN(adv) || math.IsInf(adv, 0) || adv < 0 {
		return 0
	}
	return adv
}

// suppress 在行首行尾应用空白抑制策略；
// AUTO 下只抑制由普通空格组成的 run。
func (r *textRun) suppress() bool {
	if r.kind != runWhitespace {
		return r.kind == runIgnoredControl
	}
	switch r.phrase.Whitespace.Suppression() {
	case style.SuppressRetain:
		return false
	case style.SuppressAlways:
		return true
	}
	for _, c := range r.content(r.start, r.end) {
		if c != text.Space {
			return false
		}
	}
	return true
}

func (r *textRun) suppressAfterLineBreak() bool  { return r.suppress() }
func (r *textRun) suppressBeforeLineBreak() bool { return r.suppress() }

// --- break opportunities -------------------------------------------------------

type breakKind int

const (
	breakUnknown breakKind = iota
	breakHard
	breakSoftIdeograph
	breakSoftHyphenation
	breakSoftWhitespace
)

// breakOpportunity 覆盖所属 run 中直到断点为止的 [start,end)。
type breakOpportunity struct {
	kind       breakKind
	run        *textRun
	start, end int
	advance    float64
	shear      float64
}

func (b *breakOpportunity) isHard() bool { return b.kind == breakHard }

// classifyBreak 根据断点前的字符分类。
func classifyBreak(r *textRun, start, end int) breakKind {
	if end <= start {
		return breakUnknown
	}
	c := r.phrase.Rune(end - 1)
	switch {
	case r.kind == runWhitespace && r.isBreakControl(c):
		return breakHard
	case text.IsWhitespace(c):
		return breakSoftWhitespace
	case text.IsHyphenationPoint(c):
		return breakSoftHyphenation
	case text.IsIdeograph(c):
		return breakSoftIdeograph
	}
	return breakUnknown
}

// breakCursor 用一个断点迭代器遍历一个 run 的断点。
// 若迭代器只设置了 run 的后缀，base 为该后缀的偏移。
type breakCursor struct {
	layout  *lineLayout
	run     *textRun
	breaker text.LineBreaker
	base    int
	last    int
	char    bool
}

func (l *lineLayout) newCursor(r *textRun, breaker text.LineBreaker, from int, char bool) *breakCursor {
	c := &breakCursor{layout: l, run: r, breaker: breaker, base: from, last: from, char: char}
	switch r.kind {
	case runEmbedding, runIgnoredControl:
	default:
		breaker.SetText(r.phrase.Slice(from, r.end))
		breaker.First()
	}
	return c
}

// next 返回下一个断点，run 结束时返回 nil。
func (c *breakCursor) next() *breakOpportunity {
	r := c.run
	if c.last >= r.end {
		return nil
	}
	end := r.end
	switch r.kind {
	case runEmbedding, runIgnoredControl:
	default:
		pos, ok := c.breaker.Next()
		if !ok {
			return nil
		}
		end = c.base + pos
		// 空白 run 中的强制断行符单独结束一个断点
		if r.kind == runWhitespace {
			for k := c.last; k < end; k++ {
				if r.isBreakControl(r.phrase.Rune(k)) && k+1 < end {
					end = k + 1
					c.breaker.SetText(r.phrase.Slice(end, r.end))
					c.breaker.First()
					c.base = end
					break
				}
			}
		}
	}
	b := &breakOpportunity{run: r, start: c.last, end: end}
	b.kind = classifyBreak(r, b.start, b.end)
	b.advance = r.advance(b.start, b.end)
	if r.kind == runNonWhitespace && r.phrase.Shear != 0 {
		b.shear = math.Abs(math.Tan(r.phrase.Shear*math.Pi/180)) * r.font.Size()
	}
	c.last = end
	return b
}
