package layout

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/ByLCY/isdlayout/area"
	"github.com/ByLCY/isdlayout/fonts"
	"github.com/ByLCY/isdlayout/isd"
	"github.com/ByLCY/isdlayout/report"
	"github.com/ByLCY/isdlayout/style"
)

// 测试统一使用 7x13 点阵字体：13px 下每个字符前进 7。
func testOptions(r report.Reporter) Options {
	opts := Options{Fonts: fonts.NewFaceCache(nil), Reporter: r, Limits: NoLimits()}
	return opts
}

// instance wraps regions into one ISD instance; styles are isd:css elements.
func instance(styles, regions string) string {
	return `<isd:isd xmlns:isd="http://www.w3.org/ns/ttml#isd" xmlns="http://www.w3.org/ns/ttml"` +
		` xmlns:tts="http://www.w3.org/ns/ttml#styling" begin="0" end="1">` +
		`<isd:css xml:id="f" tts:fontSize="13px"/>` + styles + regions + `</isd:isd>`
}

func region(css, paragraphs string) string {
	return fmt.Sprintf(`<isd:region isd:css="%s"><body isd:css="f"><div isd:css="f">%s</div></body></isd:region>`, css, paragraphs)
}

func layoutString(t *testing.T, opts Options, doc string) ([]*area.Tree, *BasicProcessor) {
	t.Helper()
	d, err := isd.ParseString(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p, err := NewBasicProcessor(opts)
	if err != nil {
		t.Fatalf("processor: %v", err)
	}
	trees, err := p.Layout(d)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	return trees, p
}

func collectKind(tree *area.Tree, kind area.Kind) []*area.Node {
	var out []*area.Node
	tree.Walk(tree.Root(), func(n *area.Node) bool {
		if n.Kind == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}

func lineText(tree *area.Tree, line *area.Node) string {
	var sb strings.Builder
	for _, c := range tree.Children(line) {
		sb.WriteString(c.Text())
	}
	return sb.String()
}

func inlineIPD(tree *area.Tree, line *area.Node) float64 {
	sum := 0.0
	for _, c := range tree.Children(line) {
		if c.Kind != area.KindAnnotation {
			sum += c.IPD
		}
	}
	return sum
}

const narrow = `<isd:css xml:id="narrow" tts:extent="70px 200px"/>`

func TestWrapsWords(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isdlayout.layout")
	defer teardown()

	doc := instance(narrow, region("narrow", `<p isd:css="f">The quick brown fox</p>`))
	trees, p := layoutString(t, testOptions(&report.Recorder{}), doc)
	if len(trees) != 1 {
		t.Fatalf("expected 1 canvas, got %d", len(trees))
	}
	tree := trees[0]
	lines := collectKind(tree, area.KindLine)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	want := []string{"The quick", "brown fox"}
	for i, line := range lines {
		if got := lineText(tree, line); got != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got)
		}
		if line.IPD != 70 || line.Overflow != 0 {
			t.Errorf("line %d: ipd %g overflow %g", i, line.IPD, line.Overflow)
		}
		if sum := inlineIPD(tree, line); math.Abs(sum-line.IPD) > 1e-6 {
			t.Errorf("line %d: children sum %g != %g", i, sum, line.IPD)
		}
		if line.Line.Number != i+1 {
			t.Errorf("line %d numbered %d", i, line.Line.Number)
		}
	}
	if got := p.state.Counter(CharsInCanvas); got != 18 {
		t.Errorf("expected 18 chars in canvas, got %d", got)
	}
	if got := p.state.Counter(MaxCharsInLine); got != 9 {
		t.Errorf("expected 9 chars per line, got %d", got)
	}
}

func TestBreaksLongWordByCharacters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isdlayout.layout")
	defer teardown()

	token := strings.Repeat("a", 50)
	doc := instance(narrow, region("narrow", `<p isd:css="f">`+token+`</p>`))
	trees, _ := layoutString(t, testOptions(&report.Recorder{}), doc)
	lines := collectKind(trees[0], area.KindLine)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if line.Overflow != 0 {
			t.Errorf("line %d overflows by %g", i, line.Overflow)
		}
		if got := lineText(trees[0], line); got != strings.Repeat("a", 10) {
			t.Errorf("line %d: %q", i, got)
		}
	}
}

func TestNoWrapOverflows(t *testing.T) {
	styles := narrow + `<isd:css xml:id="nw" tts:fontSize="13px" tts:wrapOption="noWrap"/>`
	doc := instance(styles, region("narrow", `<p isd:css="nw">The quick brown fox</p>`))
	trees, _ := layoutString(t, testOptions(&report.Recorder{}), doc)
	lines := collectKind(trees[0], area.KindLine)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Overflow != 19*7-70 {
		t.Fatalf("expected overflow %d, got %g", 19*7-70, lines[0].Overflow)
	}
}

func TestLinesPerRegionLimit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isdlayout.layout")
	defer teardown()

	rec := &report.Recorder{}
	opts := testOptions(rec)
	opts.Limits.MaxLinesPerRegion = 2
	doc := instance(narrow, region("narrow", `<p isd:css="f">a</p><p isd:css="f">b</p><p isd:css="f">c</p>`))
	_, p := layoutString(t, opts, doc)
	if len(rec.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", rec.Warnings)
	}
	want := "Lines per region limit exceeded, 3 present, must not exceed 2."
	if !strings.Contains(rec.Warnings[0], want) {
		t.Fatalf("unexpected warning %q", rec.Warnings[0])
	}
	if len(rec.Errors) != 0 {
		t.Fatalf("warning must not escalate, got %v", rec.Errors)
	}
	if p.state.Counter(LinesInCanvas) != 3 || p.state.Counter(CharsInCanvas) != 3 {
		t.Fatalf("unexpected counters %v", p.state.counters)
	}
}

func TestWarningsAsErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isdlayout.layout")
	defer teardown()

	rec := &report.Recorder{WarningsAsErrors: true}
	opts := testOptions(rec)
	opts.Limits.MaxRegions = 0
	doc := instance(narrow, region("narrow", `<p isd:css="f">a</p>`))
	trees, _ := layoutString(t, opts, doc)
	if len(trees) != 1 {
		t.Fatalf("layout must continue after an escalated limit")
	}
	// 每个超限只上报一次，且只作为错误
	if len(rec.Errors) != 1 || len(rec.Warnings) != 0 {
		t.Fatalf("expected exactly one error, got errors %v warnings %v", rec.Errors, rec.Warnings)
	}
	if !strings.Contains(rec.Errors[0], "Regions per canvas limit exceeded, 1 present, must not exceed 0.") {
		t.Fatalf("unexpected error %q", rec.Errors[0])
	}

	strict := testOptions(&report.Tracer{WarningsAsErrors: true})
	strict.Limits.MaxRegions = 0
	if trees, _ := layoutString(t, strict, doc); len(trees) != 1 {
		t.Fatalf("layout must continue with the tracing reporter")
	}
}

func TestRegionNames(t *testing.T) {
	doc := instance(narrow, region("narrow", `<p isd:css="f">a</p>`)+region("narrow", `<p isd:css="f">b</p>`))
	trees, p := layoutString(t, testOptions(&report.Recorder{}), doc)
	var names []string
	for _, vp := range collectKind(trees[0], area.KindViewport) {
		if vp.Viewport.Region != "" {
			names = append(names, vp.Viewport.Region)
		}
	}
	if strings.Join(names, ",") != "r1,r2" {
		t.Fatalf("unexpected region names %v", names)
	}
	if p.state.Counter(RegionsInCanvas) != 2 || p.state.Counter(MaxLinesInRegion) != 1 {
		t.Fatalf("unexpected counters %v", p.state.counters)
	}
}

func TestTextAlignment(t *testing.T) {
	styles := narrow +
		`<isd:css xml:id="c" tts:fontSize="13px" tts:textAlign="center"/>` +
		`<isd:css xml:id="j" tts:fontSize="13px" tts:textAlign="justify"/>`
	doc := instance(styles, region("narrow", `<p isd:css="c">ab</p><p isd:css="j">The quick brown fox</p>`))
	trees, _ := layoutString(t, testOptions(&report.Recorder{}), doc)
	tree := trees[0]
	lines := collectKind(tree, area.KindLine)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	centered := tree.Children(lines[0])
	if len(centered) != 3 || centered[0].Kind != area.KindInlineFiller || centered[0].IPD != 28 {
		t.Fatalf("unexpected centered line %v", centered)
	}
	fillers := 0
	for _, c := range tree.Children(lines[1]) {
		if c.Kind == area.KindInlineFiller {
			fillers++
		}
	}
	if fillers != 2 {
		t.Fatalf("expected 2 justification fillers, got %d", fillers)
	}
	if sum := inlineIPD(tree, lines[1]); math.Abs(sum-70) > 1e-6 {
		t.Fatalf("justified line does not fill measure: %g", sum)
	}
}

func TestDisplayAlignAfter(t *testing.T) {
	styles := `<isd:css xml:id="after" tts:extent="70px 100px" tts:displayAlign="after"/>`
	doc := instance(styles, region("after", `<p isd:css="f">a</p>`))
	trees, _ := layoutString(t, testOptions(&report.Recorder{}), doc)
	tree := trees[0]
	var ref *area.Node
	for _, r := range collectKind(tree, area.KindReference) {
		if r.Reference.Alignment == style.BlockAfter {
			ref = r
		}
	}
	if ref == nil {
		t.Fatalf("region reference not found")
	}
	children := tree.Children(ref)
	if len(children) != 2 || children[0].Kind != area.KindBlockFiller {
		t.Fatalf("expected leading block filler, got %v", children)
	}
	if total := children[0].BPD + children[1].OuterBPD(); math.Abs(total-100) > 1e-6 {
		t.Fatalf("filler and body must fill the region, got %g", total)
	}
}

func TestSkipsInstancesWithoutTimes(t *testing.T) {
	rec := &report.Recorder{}
	doc := `<isd:sequence xmlns:isd="http://www.w3.org/ns/ttml#isd">` +
		`<isd:isd begin="x" end="1"/><isd:isd begin="1" end="2"/></isd:sequence>`
	trees, _ := layoutString(t, testOptions(rec), doc)
	if len(trees) != 1 {
		t.Fatalf("expected 1 canvas, got %d", len(trees))
	}
	if len(rec.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", rec.Warnings)
	}
	c := trees[0].Root().Canvas
	if c.Begin != 1 || c.End != 2 {
		t.Fatalf("unexpected canvas interval %+v", c)
	}
}

func TestRejectsForeignRoot(t *testing.T) {
	p, err := NewBasicProcessor(testOptions(&report.Recorder{}))
	if err != nil {
		t.Fatal(err)
	}
	d, err := isd.ParseString(`<tt xmlns="http://www.w3.org/ns/ttml"/>`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Layout(d); err == nil {
		t.Fatalf("expected error for tt:tt root")
	}
	if _, err := p.Layout(nil); err == nil {
		t.Fatalf("expected error for nil document")
	}
}

func TestRegistry(t *testing.T) {
	p, err := New("", testOptions(&report.Recorder{}))
	if err != nil || p.Name() != DefaultProcessor {
		t.Fatalf("default processor: %v %v", p, err)
	}
	if _, err := New("missing", testOptions(nil)); err == nil {
		t.Fatalf("expected error for unknown processor")
	}
	Register("alias", func(o Options) (Processor, error) { return NewBasicProcessor(o) })
	if names := Names(); strings.Join(names, ",") != "alias,basic" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestDisplayAlignJustifyLines(t *testing.T) {
	styles := `<isd:css xml:id="just" tts:extent="70px 100px" tts:displayAlign="justify"/>`
	doc := instance(styles, region("just", `<p isd:css="f">The quick brown fox</p>`))
	trees, _ := layoutString(t, testOptions(&report.Recorder{}), doc)
	tree := trees[0]
	lines := collectKind(tree, area.KindLine)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	para := tree.Parent(lines[0])
	children := tree.Children(para)
	if len(children) != 3 || children[1].Kind != area.KindBlockFiller {
		t.Fatalf("expected one filler between the lines, got %v", children)
	}
	if math.Abs(para.BPD-100) > 1e-6 {
		t.Fatalf("justified paragraph must fill the region, got %g", para.BPD)
	}
}

// 注音样式：rt 与基文字同为 13px，rts 为一半字号。
const rubyStyles = `<isd:css xml:id="wide" tts:extent="400px 200px"/>` +
	`<isd:css xml:id="rc" tts:fontSize="13px" tts:ruby="container"/>` +
	`<isd:css xml:id="rb" tts:fontSize="13px" tts:ruby="base"/>` +
	`<isd:css xml:id="rt" tts:fontSize="13px" tts:ruby="text"/>` +
	`<isd:css xml:id="rts" tts:fontSize="6.5px" tts:ruby="text"/>`

func ruby(base, css, annotation string) string {
	return `<span isd:css="rc"><span isd:css="rb">` + base + `</span><span isd:css="` + css + `">` + annotation + `</span></span>`
}

func childrenIPD(tree *area.Tree, n *area.Node) float64 {
	sum := 0.0
	for _, c := range tree.Children(n) {
		sum += c.IPD
	}
	return sum
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestRubySpaceAround(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isdlayout.layout")
	defer teardown()

	doc := instance(rubyStyles, region("wide", `<p isd:css="f">`+ruby("abc", "rt", "xy")+`</p>`))
	trees, _ := layoutString(t, testOptions(&report.Recorder{}), doc)
	tree := trees[0]
	lines := collectKind(tree, area.KindLine)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	children := tree.Children(lines[0])
	if len(children) < 2 || children[0].Kind != area.KindAnnotation || children[1].Text() != "abc" {
		t.Fatalf("annotation must precede its base glyph, got %v", children)
	}
	ann := children[0]
	if ann.Line.Alignment != style.InlineSpaceAround || ann.Line.Base != 3 {
		t.Fatalf("unexpected annotation alignment %v over %d", ann.Line.Alignment, ann.Line.Base)
	}
	parts := tree.Children(ann)
	if len(parts) != 3 || parts[0].Kind != area.KindInlineFiller || parts[1].Text() != "xy" || parts[2].Kind != area.KindInlineFiller {
		t.Fatalf("expected filler, xy, filler, got %v", parts)
	}
	if !approx(parts[0].IPD, 3.5) || !approx(parts[1].IPD, 14) || !approx(parts[2].IPD, 3.5) {
		t.Fatalf("unexpected widths %g %g %g", parts[0].IPD, parts[1].IPD, parts[2].IPD)
	}
	if sum := childrenIPD(tree, ann); !approx(sum, children[1].IPD) {
		t.Fatalf("annotation must span its base: %g != %g", sum, children[1].IPD)
	}
	if ann.Line.Position != style.AnnotationBefore {
		t.Fatalf("auto position on the first line must be before, got %v", ann.Line.Position)
	}
	if l := lines[0].Line; !approx(l.AnnotationBefore, 16.25) || l.AnnotationAfter != 0 {
		t.Fatalf("unexpected annotation space %g/%g", l.AnnotationBefore, l.AnnotationAfter)
	}
	// 注音文字不计入字符数
	if lineText(tree, lines[0]) != "abc" {
		t.Fatalf("unexpected line text %q", lineText(tree, lines[0]))
	}
}

func TestRubyWithBase(t *testing.T) {
	doc := instance(rubyStyles, region("wide", `<p isd:css="f">`+ruby("abc", "rts", "x y")+`</p>`))
	trees, _ := layoutString(t, testOptions(&report.Recorder{}), doc)
	tree := trees[0]
	anns := collectKind(tree, area.KindAnnotation)
	if len(anns) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(anns))
	}
	ann := anns[0]
	if ann.Line.Alignment != style.InlineWithBase {
		t.Fatalf("equal unit counts must align with base, got %v", ann.Line.Alignment)
	}
	var fillers []float64
	content := 0.0
	for _, c := range tree.Children(ann) {
		if c.Kind == area.KindInlineFiller {
			fillers = append(fillers, c.IPD)
		} else {
			content += c.IPD
		}
	}
	// 每个注音单元居中于对应的基文字：7 宽的基文字上放 3.5 宽的单元
	want := []float64{1.75, 3.5, 3.5, 1.75}
	if len(fillers) != len(want) {
		t.Fatalf("expected fillers %v, got %v", want, fillers)
	}
	for i := range want {
		if !approx(fillers[i], want[i]) {
			t.Fatalf("expected fillers %v, got %v", want, fillers)
		}
	}
	if !approx(content, 10.5) || !approx(childrenIPD(tree, ann), 21) {
		t.Fatalf("unexpected annotation measure %g/%g", content, childrenIPD(tree, ann))
	}
	if !approx(ann.BPD, 8.125) {
		t.Fatalf("unexpected annotation bpd %g", ann.BPD)
	}
}

func TestRubyAutoPositionPerLine(t *testing.T) {
	p := `<p isd:css="f">` + ruby("abc", "rt", "xy") + `<br/>` + ruby("abc", "rt", "xy") + `</p>`
	trees, _ := layoutString(t, testOptions(&report.Recorder{}), instance(rubyStyles, region("wide", p)))
	tree := trees[0]
	lines := collectKind(tree, area.KindLine)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	want := []style.AnnotationPosition{style.AnnotationBefore, style.AnnotationAfter}
	for i, line := range lines {
		var ann *area.Node
		for _, c := range tree.Children(line) {
			if c.Kind == area.KindAnnotation {
				ann = c
			}
		}
		if ann == nil {
			t.Fatalf("line %d has no annotation", i)
		}
		if ann.Line.Position != want[i] {
			t.Errorf("line %d: expected %v, got %v", i, want[i], ann.Line.Position)
		}
	}
	first, second := lines[0].Line, lines[1].Line
	if !approx(first.AnnotationBefore, 16.25) || first.AnnotationAfter != 0 {
		t.Errorf("first line reserves %g/%g", first.AnnotationBefore, first.AnnotationAfter)
	}
	if second.AnnotationBefore != 0 || !approx(second.AnnotationAfter, 16.25) {
		t.Errorf("second line reserves %g/%g", second.AnnotationBefore, second.AnnotationAfter)
	}
}

func TestRubyReserve(t *testing.T) {
	tests := []struct {
		reserve       string
		before, after []float64
		wantPositions []style.ReservePosition
	}{
		{"auto", []float64{8.125, 0}, []float64{0, 8.125}, []style.ReservePosition{style.ReserveBefore, style.ReserveAfter}},
		{"both 10px", []float64{10, 10}, []float64{10, 10}, []style.ReservePosition{style.ReserveBoth, style.ReserveBoth}},
	}
	for _, tt := range tests {
		styles := narrow + `<isd:css xml:id="res" tts:fontSize="13px" tts:rubyReserve="` + tt.reserve + `"/>`
		doc := instance(styles, region("narrow", `<p isd:css="res">The quick brown fox</p>`))
		trees, _ := layoutString(t, testOptions(&report.Recorder{}), doc)
		lines := collectKind(trees[0], area.KindLine)
		if len(lines) != 2 {
			t.Fatalf("%s: expected 2 lines, got %d", tt.reserve, len(lines))
		}
		for i, line := range lines {
			l := line.Line
			if l.Reserve != tt.wantPositions[i] || !approx(l.AnnotationBefore, tt.before[i]) || !approx(l.AnnotationAfter, tt.after[i]) {
				t.Errorf("%s line %d: reserve %v %g/%g", tt.reserve, i, l.Reserve, l.AnnotationBefore, l.AnnotationAfter)
			}
		}
	}
}

func TestBidiReordersLine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isdlayout.layout")
	defer teardown()

	doc := instance(rubyStyles, region("wide", `<p isd:css="f">ab אבג דה cd</p>`))
	trees, _ := layoutString(t, testOptions(&report.Recorder{}), doc)
	tree := trees[0]
	lines := collectKind(tree, area.KindLine)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	var got []string
	var levels []int
	for _, c := range tree.Children(lines[0]) {
		if c.Kind == area.KindGlyph || c.Kind == area.KindSpace {
			got = append(got, c.Text())
			levels = append(levels, c.Level)
		}
	}
	want := []string{"ab", " ", "הד", " ", "גבא", " ", "cd"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected visual order %q, got %q", want, got)
	}
	if levels[0] != 0 || levels[2] != 1 || levels[4] != 1 || levels[6] != 0 {
		t.Fatalf("unexpected levels %v", levels)
	}
	for _, g := range collectKind(tree, area.KindGlyph) {
		wantReversals := 0
		if g.Level == 1 {
			wantReversals = 1
		}
		if g.Glyph.Reversals != wantReversals {
			t.Errorf("glyph %q reversed %d times", g.Text(), g.Glyph.Reversals)
		}
	}
}

func TestCounterConservation(t *testing.T) {
	doc := instance(narrow,
		region("narrow", `<p isd:css="f">The quick brown fox</p><p isd:css="f">a</p>`)+
			region("narrow", `<p isd:css="f">abc</p><p isd:css="f">de</p>`))
	trees, p := layoutString(t, testOptions(&report.Recorder{}), doc)
	tree := trees[0]
	var perRegionLines, perRegionChars []int64
	for _, vp := range collectKind(tree, area.KindViewport) {
		if vp.Viewport.Region == "" {
			continue
		}
		var lines, chars int64
		tree.Walk(vp, func(n *area.Node) bool {
			if n.Kind == area.KindLine {
				lines++
				chars += int64(len([]rune(lineText(tree, n))))
			}
			return true
		})
		perRegionLines = append(perRegionLines, lines)
		perRegionChars = append(perRegionChars, chars)
	}
	if len(perRegionLines) != 2 || perRegionLines[0] != 3 || perRegionLines[1] != 2 {
		t.Fatalf("unexpected lines per region %v", perRegionLines)
	}
	if perRegionChars[0] != 19 || perRegionChars[1] != 5 {
		t.Fatalf("unexpected chars per region %v", perRegionChars)
	}
	s := p.state
	if s.Counter(LinesInCanvas) != perRegionLines[0]+perRegionLines[1] {
		t.Fatalf("lines in canvas %d != %v", s.Counter(LinesInCanvas), perRegionLines)
	}
	if s.Counter(CharsInCanvas) != perRegionChars[0]+perRegionChars[1] {
		t.Fatalf("chars in canvas %d != %v", s.Counter(CharsInCanvas), perRegionChars)
	}
	if s.Counter(MaxLinesInRegion) != 3 || s.Counter(MaxCharsInRegion) != 19 || s.Counter(RegionsInCanvas) != 2 {
		t.Fatalf("unexpected maxima %v", s.counters)
	}
}
