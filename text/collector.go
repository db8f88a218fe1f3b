package text

import (
	"sort"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"

	"github.com/ByLCY/isdlayout/fonts"
	"github.com/ByLCY/isdlayout/isd"
	"github.com/ByLCY/isdlayout/style"
)

// tracer traces with key 'isdlayout.text'
func tracer() tracing.Trace {
	return tracing.Select("isdlayout.text")
}

// Context 向收集器提供外层布局的状态。
type Context struct {
	Styles      func(*isd.Element) *style.StyleSet
	Fonts       fonts.Cache
	Defaults    *style.Defaults
	Resolver    style.Resolver
	WritingMode style.WritingMode
	Language    string
	Whitespace  style.Whitespace
	Level       int
}

// ParagraphCollector 把 tt:p（或任何含行内内容的元素）转换为
// 由带样式短语组成的 Paragraph。
type ParagraphCollector struct {
	ctx Context
}

func NewParagraphCollector(ctx Context) *ParagraphCollector {
	if ctx.Defaults == nil {
		ctx.Defaults = style.NewDefaults()
	}
	if ctx.Styles == nil {
		ctx.Styles = func(*isd.Element) *style.StyleSet { return style.Empty }
	}
	if ctx.Fonts == nil {
		ctx.Fonts = fonts.NewFaceCache(nil)
	}
	if ctx.Resolver.FontSize <= 0 {
		ctx.Resolver.FontSize = ctx.Defaults.FontSize
	}
	return &ParagraphCollector{ctx: ctx}
}

// Collect 构建 e 的段落，文本在 U+2029 处拆分为多个短语。
func (c *ParagraphCollector) Collect(e *isd.Element) *Paragraph {
	b := c.newBuilder(e, c.ctx.Level)
	b.walk(e, b.level, false, 0)
	return &Paragraph{Element: e, Phrases: splitPhrase(b.finish())}
}

func splitPhrase(p *Phrase) []*Phrase {
	var phrases []*Phrase
	start := 0
	for i := 0; i <= p.Len(); i++ {
		if i < p.Len() && p.Rune(i) != ParagraphSeparator {
			continue
		}
		if i > start {
			phrases = append(phrases, p.Sub(start, i))
		}
		start = i + 1
	}
	return phrases
}

// decorations 是与外层 span 比较的 span 级取值。
type decorations struct {
	font        fonts.Key
	color       style.Color
	outline     *Outline
	visibility  style.Visibility
	combination style.Combination
	orientation style.Orientation
}

type pending struct {
	attr       Attribute
	start, end int
	value      any
	depth      int
}

type builder struct {
	c        *ParagraphCollector
	phrase   *Phrase
	deco     decorations
	level    int
	text     []rune
	explicit []int
	override []bool
	pending  []pending
}

func (c *ParagraphCollector) styles(e *isd.Element) *style.StyleSet {
	if ss := c.ctx.Styles(e); ss != nil {
		return ss
	}
	return style.Empty
}

func (c *ParagraphCollector) newBuilder(e *isd.Element, level int) *builder {
	ss := c.styles(e)
	d := c.ctx.Defaults
	p := &Phrase{Element: e}

	p.Language = ss.Value(style.AttrLang, c.ctx.Language)
	if v, ok := e.Attr(isd.AttrLang); ok {
		p.Language = v
	}
	p.Script = scriptOf(p.Language)
	dir := c.ctx.WritingMode.InlineDirection()
	if v, ok := ss.Get(style.AttrDirection); ok {
		dir = style.ParseDirection(v, dir)
		if dir == style.DirectionRTL {
			level = 1
		} else {
			level = 0
		}
	}
	p.TextAlign = style.ParseInlineAlignment(ss.Value(style.AttrTextAlign, ""), d.TextAlign).Relativize(dir)
	p.Wrap = style.ParseWrapOption(ss.Value(style.AttrWrapOption, ""), d.Wrap)
	p.Whitespace = c.ctx.Whitespace
	if v, ok := e.Attr(isd.AttrSpace); ok {
		p.Whitespace = style.ParseWhitespace(v, p.Whitespace)
	}
	p.Whitespace = style.ParseWhitespace(ss.Value(style.AttrSpace, ""), p.Whitespace)
	p.Kerning = d.Kerning && ss.Value(style.AttrFontKerning, "normal") != "none"
	p.Shear = shearAngle(ss.Value(style.AttrShear, ""))
	if v, ok := ss.Get(style.AttrRubyReserve); ok {
		p.AnnotationReserve = style.ParseAnnotationReserve(v)
	} else {
		p.AnnotationReserve = d.AnnotationReserve
	}
	p.AnnotationAlign = style.ParseInlineAlignment(ss.Value(style.AttrRubyAlign, ""), d.AnnotationAlign)
	p.AnnotationPosition = style.ParseAnnotationPosition(ss.Value(style.AttrRubyPosition, ""), d.AnnotationPosition)
	p.AnnotationOffset = d.AnnotationOffset

	deco := c.decorations(ss, decorations{
		color:       d.Color,
		visibility:  d.Visibility,
		combination: d.Combination,
		orientation: d.Orientation,
	})
	p.Color = deco.color
	p.Outline = deco.outline
	p.Visibility = deco.visibility
	p.Font = c.ctx.Fonts.Font(deco.font)
	r := c.ctx.Resolver
	r.FontSize = deco.font.Size
	p.LineHeight = style.ParseLineHeight(ss.Value(style.AttrLineHeight, "")).
		Resolve(r, c.ctx.WritingMode.BlockAxis(), deco.font.Size)
	if v, ok := ss.Get(style.AttrRubyOffset); ok {
		if l, err := style.ParseLength(v); err == nil {
			p.AnnotationOffset = r.Resolve(l, c.ctx.WritingMode.BlockAxis())
		}
	}
	return &builder{c: c, phrase: p, deco: deco, level: level}
}

// decorations 解析 ss 的 span 级取值，缺失的取值继承自 parent。
func (c *ParagraphCollector) decorations(ss *style.StyleSet, parent decorations) decorations {
	d := parent
	d.font = c.fontKey(ss, parent.font)
	if v, ok := ss.Get(style.AttrColor); ok {
		if col, err := style.ParseColor(v); err == nil {
			d.color = col
		} else {
			tracer().Debugf("bad color %q: %v", v, err)
		}
	}
	if v, ok := ss.Get(style.AttrTextOutline); ok {
		d.outline = c.parseOutline(v, d.color, d.font.Size)
	}
	d.visibility = style.ParseVisibility(ss.Value(style.AttrVisibility, ""), d.visibility)
	d.combination = style.ParseCombination(ss.Value(style.AttrTextCombine, ""), d.combination)
	if c.ctx.WritingMode.IsVertical() {
		d.orientation = style.ParseOrientation(ss.Value(style.AttrTextOrientation, ""), d.orientation)
	}
	return d
}

func (c *ParagraphCollector) fontKey(ss *style.StyleSet, parent fonts.Key) fonts.Key {
	key := parent
	if key.Family == "" {
		key = fonts.Key{Family: fonts.DefaultFamily, Size: c.ctx.Resolver.FontSize}
	}
	key.Axis = c.ctx.WritingMode.InlineAxis()
	if v, ok := ss.Get(style.AttrFontFamily); ok {
		key.Family = firstFamily(v)
	}
	if v, ok := ss.Get(style.AttrFontSize); ok {
		if lengths, err := style.ParseLengths(v); err == nil {
			r := c.ctx.Resolver
			if parent.Size > 0 {
				r.FontSize = parent.Size
			}
			if size := r.Resolve(lengths[len(lengths)-1], style.AxisVertical); size > 0 {
				key.Size = size
			}
		}
	}
	if v, ok := ss.Get(style.AttrFontStyle); ok {
		key.Style = normalizeKeyword(v)
	}
	if v, ok := ss.Get(style.AttrFontWeight); ok {
		key.Weight = normalizeKeyword(v)
	}
	return key
}

func (c *ParagraphCollector) parseOutline(value string, textColor style.Color, fontSize float64) *Outline {
	fields := strings.Fields(value)
	if len(fields) == 0 || fields[0] == "none" {
		return nil
	}
	o := &Outline{Color: textColor}
	if col, err := style.ParseColor(fields[0]); err == nil {
		o.Color = col
		fields = fields[1:]
	}
	lengths, err := style.ParseLengths(strings.Join(fields, " "))
	if err != nil {
		return nil
	}
	r := c.ctx.Resolver
	r.FontSize = fontSize
	o.Thickness = r.Resolve(lengths[0], style.AxisVertical)
	if len(lengths) > 1 {
		o.Blur = r.Resolve(lengths[1], style.AxisVertical)
	}
	return o
}

func firstFamily(v string) string {
	first := strings.TrimSpace(strings.Split(v, ",")[0])
	first = strings.Trim(first, `"'`)
	if first == "" || first == "default" {
		return fonts.DefaultFamily
	}
	return first
}

func normalizeKeyword(v string) string {
	v = strings.TrimSpace(v)
	if v == "normal" {
		return ""
	}
	return v
}

func scriptOf(lang string) string {
	if lang == "" {
		return ""
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return ""
	}
	script, _ := tag.Script()
	return script.String()
}

// shearAngle 将 tts:shear 百分比换算为角度（100% = 90°）。
func shearAngle(v string) float64 {
	l, err := style.ParseLength(v)
	if err != nil || l.Unit != style.UnitPercent {
		return 0
	}
	return max(-90, min(90, l.Value*0.9))
}

// --- tree walk ---

func (b *builder) appendRunes(rs []rune, level int, override bool) {
	for _, r := range rs {
		b.text = append(b.text, r)
		b.explicit = append(b.explicit, level)
		b.override = append(b.override, override)
	}
}

// appendText 追加字符数据，除非保留空白，否则合并空白。
func (b *builder) appendText(s string, level int, override bool) {
	if !b.phrase.Whitespace.Collapse() {
		b.appendRunes([]rune(s), level, override)
		return
	}
	for _, r := range s {
		if IsWhitespace(r) && r != LineSeparator && r != ParagraphSeparator {
			n := len(b.text)
			if n == 0 || b.text[n-1] == Space || b.text[n-1] == LineSeparator {
				continue
			}
			r = Space
		}
		b.appendRunes([]rune{r}, level, override)
	}
}

func (b *builder) walk(e *isd.Element, level int, override bool, depth int) {
	for _, n := range e.Content {
		if n.Element == nil {
			s := strings.ReplaceAll(n.Text, "\r\n", "\n")
			s = strings.ReplaceAll(s, "\r", "\n")
			b.appendText(s, level, override)
			continue
		}
		child := n.Element
		switch {
		case child.Is(isd.Break):
			b.appendRunes([]rune{LineSeparator}, level, override)
		case child.Is(isd.Span):
			b.span(child, level, override, depth+1)
		default:
			b.walk(child, level, override, depth)
		}
	}
}

func (b *builder) span(e *isd.Element, level int, override bool, depth int) {
	ss := b.c.styles(e)
	switch ss.Value(style.AttrRuby, "none") {
	case "container":
		b.ruby(e, level, override, depth)
		return
	case "delimiter":
		return
	}
	if ss.Value(style.AttrDisplay, "") == "inlineBlock" {
		b.embed(e, level, override, depth)
		return
	}
	switch ss.Value(style.AttrUnicodeBidi, "normal") {
	case "embed", "isolate":
		level = nextLevel(level, ss.Value(style.AttrDirection, "ltr") == "rtl")
		override = false
	case "bidiOverride", "isolateOverride":
		level = nextLevel(level, ss.Value(style.AttrDirection, "ltr") == "rtl")
		override = true
	}

	parent := b.deco
	b.deco = b.c.decorations(ss, parent)
	start := len(b.text)
	b.walk(e, level, override, depth)
	b.decorate(parent, b.deco, start, len(b.text), depth)
	b.deco = parent
}

func (b *builder) decorate(parent, d decorations, start, end, depth int) {
	if start >= end {
		return
	}
	add := func(attr Attribute, value any) {
		b.pending = append(b.pending, pending{attr: attr, start: start, end: end, value: value, depth: depth})
	}
	if d.font != parent.font {
		add(AttrFont, b.c.ctx.Fonts.Font(d.font))
	}
	if d.color != parent.color {
		add(AttrColor, d.color)
	}
	if !sameOutline(d.outline, parent.outline) {
		add(AttrOutline, d.outline)
	}
	if d.visibility != parent.visibility {
		add(AttrVisibility, d.visibility)
	}
	if d.combination != parent.combination {
		add(AttrCombination, d.combination)
	}
	if d.orientation != parent.orientation {
		add(AttrOrientation, d.orientation)
	}
}

func sameOutline(a, b *Outline) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func rubyRole(b *builder, e *isd.Element) string {
	if !e.Is(isd.Span) {
		return ""
	}
	return b.c.styles(e).Value(style.AttrRuby, "none")
}

func (b *builder) ruby(e *isd.Element, level int, override bool, depth int) {
	var bases, texts []*isd.Element
	for _, child := range e.Elements() {
		switch rubyRole(b, child) {
		case "base":
			bases = append(bases, child)
		case "text":
			texts = append(texts, child)
		case "baseContainer":
			for _, gc := range child.Elements() {
				if rubyRole(b, gc) == "base" {
					bases = append(bases, gc)
				}
			}
		case "textContainer":
			for _, gc := range child.Elements() {
				if rubyRole(b, gc) == "text" {
					texts = append(texts, gc)
				}
			}
		}
	}
	if len(bases) == 0 {
		b.walk(e, level, override, depth)
		return
	}
	if len(bases) > 1 && len(texts) == len(bases) {
		for i, base := range bases {
			start := len(b.text)
			b.span(base, level, override, depth+1)
			b.annotate(start, len(b.text), []*Phrase{b.annotation(texts[i], level)}, depth)
		}
		return
	}
	start := len(b.text)
	for _, base := range bases {
		b.span(base, level, override, depth+1)
	}
	annotations := make([]*Phrase, 0, len(texts))
	for _, t := range texts {
		annotations = append(annotations, b.annotation(t, level))
	}
	b.annotate(start, len(b.text), annotations, depth)
}

func (b *builder) annotate(start, end int, annotations []*Phrase, depth int) {
	if start >= end || len(annotations) == 0 {
		return
	}
	b.pending = append(b.pending, pending{attr: AttrAnnotation, start: start, end: end, value: annotations, depth: depth})
}

func (b *builder) annotation(e *isd.Element, level int) *Phrase {
	sub := b.c.newBuilder(e, level)
	sub.walk(e, sub.level, false, 0)
	return sub.finish()
}

func (b *builder) embed(e *isd.Element, level int, override bool, depth int) {
	sub := b.c.newBuilder(e, level)
	sub.walk(e, sub.level, false, 0)
	para := &Paragraph{Element: e, Phrases: splitPhrase(sub.finish())}
	start := len(b.text)
	b.appendRunes([]rune{ObjectReplacement}, level, override)
	b.pending = append(b.pending, pending{attr: AttrEmbedding, start: start, end: start + 1, value: para, depth: depth})
}

func (b *builder) finish() *Phrase {
	p := b.phrase
	p.text = b.text
	levels := ResolveLevels(b.text, b.explicit, b.override)
	for start := 0; start < len(levels); {
		end := start + 1
		for end < len(levels) && levels[end] == levels[start] {
			end++
		}
		p.Add(AttrBidiLevel, start, end, levels[start])
		start = end
	}
	sort.SliceStable(b.pending, func(i, j int) bool { return b.pending[i].depth < b.pending[j].depth })
	for _, pd := range b.pending {
		p.Add(pd.attr, pd.start, pd.end, pd.value)
	}
	return p
}
