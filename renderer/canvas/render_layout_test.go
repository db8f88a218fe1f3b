package canvasrenderer

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/ByLCY/isdlayout/area"
	"github.com/ByLCY/isdlayout/fonts"
	"github.com/ByLCY/isdlayout/isd"
	"github.com/ByLCY/isdlayout/layout"
	"github.com/ByLCY/isdlayout/report"
)

func layoutWith(t *testing.T, r *Renderer, extent, body string) []*area.Tree {
	t.Helper()
	doc := `<isd:isd xmlns:isd="http://www.w3.org/ns/ttml#isd" xmlns="http://www.w3.org/ns/ttml"` +
		` xmlns:tts="http://www.w3.org/ns/ttml#styling" begin="0" end="2">` +
		`<isd:css xml:id="r" tts:extent="` + extent + `" tts:backgroundColor="black"/>` +
		`<isd:css xml:id="f" tts:fontSize="20px" tts:color="yellow"/>` +
		`<isd:region isd:css="r"><body isd:css="f"><div isd:css="f"><p isd:css="f">` + body + `</p></div></body></isd:region>` +
		`</isd:isd>`
	d, err := isd.ParseString(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	opts := layout.DefaultOptions()
	opts.Fonts = r
	opts.Reporter = &report.Recorder{}
	p, err := layout.New("", opts)
	if err != nil {
		t.Fatalf("processor: %v", err)
	}
	trees, err := p.Layout(d)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	return trees
}

func lines(tree *area.Tree) []*area.Node {
	var out []*area.Node
	tree.Walk(tree.Root(), func(n *area.Node) bool {
		if n.Kind == area.KindLine {
			out = append(out, n)
		}
		return true
	})
	return out
}

func TestRenderPDF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isdlayout.renderer")
	defer teardown()

	r := NewRenderer("")
	trees := layoutWith(t, r, "400px 100px", `Hello <span isd:css="f">world</span>`)
	data, err := r.Render(trees)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

// 首行宽度恰好等于区域宽度且紧跟显式换行时，不应产生空行。
func TestNoBlankLineWhenEqualWidthThenBreak(t *testing.T) {
	r := NewRenderer("")
	font := r.Font(fonts.Key{Family: fonts.DefaultFamily, Size: 20})
	width := fonts.Advance(font, "SAMPLEA", fonts.FeatureSet{Kerning: true})
	if width <= 0 {
		t.Fatalf("invalid measured width: %g", width)
	}
	trees := layoutWith(t, r, fmt.Sprintf("%gpx 200px", width), "SAMPLEA<br/>SAMPLEB")
	got := lines(trees[0])
	if len(got) != 2 {
		t.Fatalf("expected 2 lines without blank, got %d", len(got))
	}
	for i, l := range got {
		if l.Overflow > 1e-6 {
			t.Fatalf("line %d overflows by %g", i, l.Overflow)
		}
	}
}
