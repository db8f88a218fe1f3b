package text

import (
	"sort"

	"github.com/ByLCY/isdlayout/fonts"
	"github.com/ByLCY/isdlayout/isd"
	"github.com/ByLCY/isdlayout/style"
)

// Attribute 表示 Phrase 的一种字符区间属性。
type Attribute int

const (
	AttrFont        Attribute = iota // fonts.Font
	AttrBidiLevel                    // int
	AttrCombination                  // style.Combination
	AttrOrientation                  // style.Orientation
	AttrAnnotation                   // []*Phrase
	AttrColor                        // style.Color
	AttrOutline                      // *Outline
	AttrVisibility                   // style.Visibility
	AttrEmbedding                    // *Paragraph
	numAttributes
)

var attributeNames = [...]string{"font", "bidi", "combination", "orientation", "annotation",
	"color", "outline", "visibility", "embedding"}

func (a Attribute) String() string {
	if a >= 0 && a < numAttributes {
		return attributeNames[a]
	}
	return "unknown"
}

// RunBreaking 列出变化时会结束文本 run 的属性。
var RunBreaking = []Attribute{AttrAnnotation, AttrBidiLevel, AttrCombination, AttrOrientation, AttrFont}

// Decorating 列出切分到字形区域上的属性。
var Decorating = []Attribute{AttrColor, AttrOutline, AttrVisibility}

// Span 将 Value 附加到字符区间 [Start,End)。
type Span struct {
	Start int
	End   int
	Value any
}

// Outline 描述 tts:textOutline。
type Outline struct {
	Color     style.Color `json:"color"`
	Thickness float64     `json:"thickness"`
	Blur      float64     `json:"blur"`
}

// Phrase 是不可变的文本，加上有序且互不重叠的属性区间，
// 以及整个短语统一解析的样式。
type Phrase struct {
	Element *isd.Element

	Script            string
	Language          string
	Color             style.Color
	Outline           *Outline
	TextAlign         style.InlineAlignment
	Visibility        style.Visibility
	Wrap              style.WrapOption
	Whitespace        style.Whitespace
	Font              fonts.Font
	LineHeight        float64
	Shear             float64
	Kerning           bool
	AnnotationReserve style.AnnotationReserve

	// 短语作为注音时使用
	AnnotationAlign    style.InlineAlignment
	AnnotationOffset   float64
	AnnotationPosition style.AnnotationPosition

	text  []rune
	spans [numAttributes][]Span
}

// Paragraph 是交给段落排版的单位。
type Paragraph struct {
	Element *isd.Element
	Phrases []*Phrase
}

// NewPhrase 创建不带属性的短语。
func NewPhrase(e *isd.Element, s string) *Phrase {
	return &Phrase{Element: e, text: []rune(s), Kerning: true}
}

// Len 返回以 rune 计的长度。
func (p *Phrase) Len() int { return len(p.text) }

// Rune returns the rune at i.
func (p *Phrase) Rune(i int) rune { return p.text[i] }

// Text returns the full text.
func (p *Phrase) Text() string { return string(p.text) }

// Slice 返回 [from,to) 的文本。
func (p *Phrase) Slice(from, to int) string {
	from, to = p.clamp(from, to)
	return string(p.text[from:to])
}

func (p *Phrase) clamp(from, to int) (int, int) {
	if from < 0 {
		from = 0
	}
	if to > len(p.text) {
		to = len(p.text)
	}
	if to < from {
		to = from
	}
	return from, to
}

// Add 在 [start,end) 上设置 attr 为 value，覆盖原有取值。
func (p *Phrase) Add(attr Attribute, start, end int, value any) {
	start, end = p.clamp(start, end)
	if start == end {
		return
	}
	var out []Span
	for _, s := range p.spans[attr] {
		if s.End <= start || s.Start >= end {
			out = append(out, s)
			continue
		}
		if s.Start < start {
			out = append(out, Span{Start: s.Start, End: start, Value: s.Value})
		}
		if s.End > end {
			out = append(out, Span{Start: end, End: s.End, Value: s.Value})
		}
	}
	out = append(out, Span{Start: start, End: end, Value: value})
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	p.spans[attr] = out
}

// spanIndex 返回覆盖 i 的区间下标，不存在时返回 -1。
func (p *Phrase) spanIndex(attr Attribute, i int) int {
	spans := p.spans[attr]
	k := sort.Search(len(spans), func(k int) bool { return spans[k].End > i })
	if k < len(spans) && spans[k].Start <= i {
		return k
	}
	return -1
}

// Value 返回 i 处的属性值。
func (p *Phrase) Value(attr Attribute, i int) (any, bool) {
	if k := p.spanIndex(attr, i); k >= 0 {
		return p.spans[attr][k].Value, true
	}
	return nil, false
}

// RunStart 返回包含 i 的 attr run 的起点。
func (p *Phrase) RunStart(attr Attribute, i int) int {
	spans := p.spans[attr]
	if k := p.spanIndex(attr, i); k >= 0 {
		return spans[k].Start
	}
	k := sort.Search(len(spans), func(k int) bool { return spans[k].Start > i })
	if k > 0 {
		return spans[k-1].End
	}
	return 0
}

// RunLimit 返回包含 i 的 attr run 的终点。
func (p *Phrase) RunLimit(attr Attribute, i int) int {
	spans := p.spans[attr]
	if k := p.spanIndex(attr, i); k >= 0 {
		return spans[k].End
	}
	k := sort.Search(len(spans), func(k int) bool { return spans[k].Start > i })
	if k < len(spans) {
		return spans[k].Start
	}
	return len(p.text)
}

// ChangesAt 判断 attrs 中是否有属性在 i 处开始新的 run。
func (p *Phrase) ChangesAt(i int, attrs ...Attribute) bool {
	if i <= 0 || i >= len(p.text) {
		return false
	}
	for _, a := range attrs {
		if p.spanIndex(a, i) != p.spanIndex(a, i-1) {
			return true
		}
	}
	return false
}

// Spans 返回与 [from,to) 相交的 attr 区间，并裁剪到该范围。
func (p *Phrase) Spans(attr Attribute, from, to int) []Span {
	var out []Span
	for _, s := range p.spans[attr] {
		if s.End <= from || s.Start >= to {
			continue
		}
		out = append(out, Span{Start: max(s.Start, from), End: min(s.End, to), Value: s.Value})
	}
	return out
}

// Intervals 用取值不变的 run 覆盖 [from,to)；空隙的 Value 为 nil。
func (p *Phrase) Intervals(attr Attribute, from, to int) []Span {
	from, to = p.clamp(from, to)
	var out []Span
	for i := from; i < to; {
		limit := min(p.RunLimit(attr, i), to)
		v, _ := p.Value(attr, i)
		out = append(out, Span{Start: i, End: limit, Value: v})
		i = limit
	}
	return out
}

// Sub 将 [from,to) 复制为新短语，保留整个短语的样式。
func (p *Phrase) Sub(from, to int) *Phrase {
	from, to = p.clamp(from, to)
	q := *p
	q.text = append([]rune(nil), p.text[from:to]...)
	for a := Attribute(0); a < numAttributes; a++ {
		var spans []Span
		for _, s := range p.Spans(a, from, to) {
			spans = append(spans, Span{Start: s.Start - from, End: s.End - from, Value: s.Value})
		}
		q.spans[a] = spans
	}
	return &q
}

// Annotations 返回从 i 开始的注音短语。
func (p *Phrase) Annotations(i int) []*Phrase {
	if p.RunStart(AttrAnnotation, i) != i {
		return nil
	}
	v, ok := p.Value(AttrAnnotation, i)
	if !ok {
		return nil
	}
	annotations, _ := v.([]*Phrase)
	return annotations
}
