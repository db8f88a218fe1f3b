package layout

import (
	"math"

	"github.com/ByLCY/isdlayout/area"
	"github.com/ByLCY/isdlayout/text"
)

// ParagraphLayout 排版一个段落的所有短语，每行占满当前块的可用 IPD。
type ParagraphLayout struct {
	paragraph *text.Paragraph
	state     *State
}

func NewParagraphLayout(p *text.Paragraph, state *State) *ParagraphLayout {
	return &ParagraphLayout{paragraph: p, state: state}
}

// Layout 按顺序返回所有短语的行。
func (pl *ParagraphLayout) Layout() []*area.Node {
	if pl.paragraph == nil {
		return nil
	}
	available, _ := pl.state.Available()
	var lines []*area.Node
	for _, ph := range pl.paragraph.Phrases {
		lines = append(lines, newLineLayout(pl.state, ph, lineRegular).layout(available, consumeMax)...)
	}
	tracer().Debugf("paragraph %s: %d lines in %.1f", pl.paragraph.Element, len(lines), available)
	return lines
}

// AnnotationLayout 在不限宽度的条件下排版一个注音短语，
// 每行收缩到内容宽度。
type AnnotationLayout struct {
	phrase *text.Phrase
	state  *State
}

func NewAnnotationLayout(p *text.Phrase, state *State) *AnnotationLayout {
	return &AnnotationLayout{phrase: p, state: state}
}

// Layout returns the annotation lines.
func (al *AnnotationLayout) Layout() []*area.Node {
	var lines []*area.Node
	for _, line := range newLineLayout(al.state, al.phrase, lineAnnotation).layout(math.Inf(1), consumeFit) {
		if line.Kind == area.KindAnnotation {
			lines = append(lines, line)
		}
	}
	return lines
}
