package layout

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/isdlayout/area"
	"github.com/ByLCY/isdlayout/isd"
	"github.com/ByLCY/isdlayout/report"
	"github.com/ByLCY/isdlayout/style"
)

// Processor 将 ISD 文档排版为区域树，每个实例一棵。
type Processor interface {
	Name() string
	Layout(doc *isd.Document) ([]*area.Tree, error)
}

// BasicProcessor 依次遍历 instance → region → body → div → p。
type BasicProcessor struct {
	opts  Options
	state *State
}

var _ Processor = (*BasicProcessor)(nil)

// NewBasicProcessor 创建 "basic" 处理器。
func NewBasicProcessor(opts Options) (*BasicProcessor, error) {
	opts = opts.withDefaults()
	state, err := NewState(opts)
	if err != nil {
		return nil, err
	}
	return &BasicProcessor{opts: opts, state: state}, nil
}

func (p *BasicProcessor) Name() string { return DefaultProcessor }

// Layout 排版 isd:sequence 或单个 isd:isd 实例。
// begin/end 不是数字的实例会被跳过并给出警告。
func (p *BasicProcessor) Layout(doc *isd.Document) ([]*area.Tree, error) {
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("文档为空")
	}
	root := doc.Root
	var trees []*area.Tree
	switch {
	case root.Is(isd.Sequence):
		for _, c := range root.Elements() {
			if c.Is(isd.Instance) {
				if t := p.layoutInstance(c); t != nil {
					trees = append(trees, t)
				}
			}
		}
	case root.Is(isd.Instance):
		if t := p.layoutInstance(root); t != nil {
			trees = append(trees, t)
		}
	default:
		return nil, fmt.Errorf("根元素 %s 不是 isd:sequence 或 isd:isd", root.Name.Local)
	}
	return trees, nil
}

func parseTime(e *isd.Element, name xml.Name) (float64, error) {
	v, ok := e.Attr(name)
	if !ok {
		return 0, fmt.Errorf("缺少 %s 属性", name.Local)
	}
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}

func (p *BasicProcessor) layoutInstance(e *isd.Element) *area.Tree {
	begin, err := parseTime(e, isd.AttrBegin)
	if err == nil {
		var end float64
		if end, err = parseTime(e, isd.AttrEnd); err == nil {
			return p.layoutCanvas(e, begin, end)
		}
	}
	p.warn(report.Messagef("BadInstanceTime", "Skipping instance %s: %v.", e, err))
	return nil
}

// warn 上报警告；需要按错误处理时改由 LogError 上报。
func (p *BasicProcessor) warn(msg string) {
	r := p.opts.Reporter
	if r.LogWarning(msg) {
		r.LogError(msg)
	}
}

func (p *BasicProcessor) layoutCanvas(e *isd.Element, begin, end float64) *area.Tree {
	s := p.state
	s.SetStyles(isd.CollectStyles(e))
	s.PushCanvas(e, begin, end, s.CellResolution(e))
	ext := s.ExternalExtent()
	s.PushViewport(e, ext.W, ext.H, s.ExternalOverflow() == style.OverflowHidden)
	s.PushReference(e, s.ExternalOrigin(), ext.W, ext.H, s.ExternalWritingMode(), s.ExternalTransform(), style.BlockBefore)
	for _, c := range e.Elements() {
		if c.Is(isd.Region) {
			p.layoutRegion(c)
		}
	}
	s.Pop()
	s.Pop()
	s.FinalizeCounters()
	p.checkLimits()
	s.Pop()
	tracer().Infof("canvas [%g,%g): %d regions, %d lines", begin, end,
		s.Counter(RegionsInCanvas), s.Counter(LinesInCanvas))
	return s.Tree()
}

func (p *BasicProcessor) layoutRegion(e *isd.Element) {
	s := p.state
	extent := s.Extent(e)
	origin := s.Position(e, extent)
	vp := s.PushViewport(e, extent.W, extent.H, s.Overflow(e) == style.OverflowHidden)
	vp.Viewport.Origin = origin
	vp.Viewport.Opacity = s.Opacity(e)
	vp.Background = s.BackgroundColor(e)
	vp.Visibility = s.Visibility(e)
	ref := s.PushReference(e, origin, extent.W, extent.H, s.WritingModeOf(e), s.Transform(e), s.DisplayAlign(e))
	padding := s.Padding(e)
	ref.Reference.Padding = padding
	ref.IPD = max(0, ref.IPD-padding.IPD())
	ref.BPD = max(0, ref.BPD-padding.BPD())
	for _, c := range e.Elements() {
		if c.Is(isd.Body) {
			p.layoutBody(c)
		}
	}
	p.alignBlocks(ref)
	s.Pop()
	s.Pop()
}

func (p *BasicProcessor) pushBlock(e *isd.Element) *area.Node {
	s := p.state
	b := s.PushBlock(e, s.Shear(e), s.Visibility(e))
	b.Block.Padding = s.Padding(e)
	b.Background = s.BackgroundColor(e)
	return b
}

func (p *BasicProcessor) layoutBody(e *isd.Element) {
	p.pushBlock(e)
	for _, c := range e.Elements() {
		if c.Is(isd.Division) {
			p.layoutDivision(c)
		}
	}
	p.state.Pop()
}

func (p *BasicProcessor) layoutDivision(e *isd.Element) {
	p.pushBlock(e)
	for _, c := range e.Elements() {
		switch {
		case c.Is(isd.Division):
			p.layoutDivision(c)
		case c.Is(isd.Paragraph):
			p.layoutParagraph(c)
		}
	}
	p.state.Pop()
}

func (p *BasicProcessor) layoutParagraph(e *isd.Element) {
	s := p.state
	p.pushBlock(e)
	para := s.Collector().Collect(e)
	for _, line := range NewParagraphLayout(para, s).Layout() {
		s.AddLine(line)
	}
	p.alignLineAreas(s.Peek())
	s.Pop()
}

// alignBlocks 用块填充区域实现区域的 displayAlign。
func (p *BasicProcessor) alignBlocks(ref *area.Node) {
	tree := p.state.Tree()
	content := 0.0
	for _, c := range tree.Children(ref) {
		content += c.OuterBPD()
	}
	available := ref.BPD - content
	if available < -epsilon {
		ref.Overflow = -available
		return
	}
	if available <= epsilon {
		return
	}
	filler := func(bpd float64) *area.Node {
		f := tree.New(area.KindBlockFiller, ref.Element)
		f.IPD, f.BPD = ref.IPD, bpd
		return f
	}
	children := tree.Children(ref)
	switch ref.Reference.Alignment {
	case style.BlockBefore:
		tree.SetChildren(ref, append(children, filler(available)))
	case style.BlockAfter:
		tree.SetChildren(ref, append([]*area.Node{filler(available)}, children...))
	case style.BlockCenter:
		out := append([]*area.Node{filler(available / 2)}, children...)
		tree.SetChildren(ref, append(out, filler(available/2)))
	}
}

// alignLineAreas 将参考区域剩余的 BPD 分配到当前段落块的各行之间。
func (p *BasicProcessor) alignLineAreas(block *area.Node) {
	s := p.state
	ref := s.ReferenceArea()
	alignment := ref.Reference.Alignment
	if !alignment.IsJustification() {
		return
	}
	tree := s.Tree()
	lines := tree.Children(block)
	consumed := 0.0
	for _, l := range lines {
		consumed += l.OuterBPD()
	}
	_, measure := s.Available()
	available := measure - consumed
	if available < -epsilon {
		block.Overflow = -available
		return
	}
	if alignment == style.BlockJustify {
		alignment = style.BlockSpaceBetween
	}
	fillers := len(lines) + 1
	if alignment == style.BlockSpaceBetween {
		fillers = len(lines) - 1
	}
	if fillers <= 0 || available <= epsilon {
		return
	}
	fill := available / float64(fillers)
	filler := func() *area.Node {
		f := tree.New(area.KindBlockFiller, block.Element)
		f.BPD = fill
		return f
	}
	for i, l := range lines {
		if i == 0 && alignment == style.BlockSpaceBetween {
			continue
		}
		tree.Insert(block, filler(), l)
	}
	if alignment == style.BlockSpaceAround {
		tree.Insert(block, filler(), nil)
	}
}

type limitCheck struct {
	key     string
	counter Counter
	limit   int64
	what    string
}

// checkLimits 报告当前画布超出的每一项上限。
func (p *BasicProcessor) checkLimits() {
	l := p.opts.Limits
	checks := []limitCheck{
		{"MaxRegions", RegionsInCanvas, l.MaxRegions, "Regions per canvas"},
		{"MaxLines", LinesInCanvas, l.MaxLines, "Lines per canvas"},
		{"MaxLinesPerRegion", MaxLinesInRegion, l.MaxLinesPerRegion, "Lines per region"},
		{"MaxChars", CharsInCanvas, l.MaxChars, "Characters per canvas"},
		{"MaxCharsPerRegion", MaxCharsInRegion, l.MaxCharsPerRegion, "Characters per region"},
		{"MaxCharsPerLine", MaxCharsInLine, l.MaxCharsPerLine, "Characters per line"},
	}
	for _, c := range checks {
		if c.limit < 0 {
			continue
		}
		if v := p.state.Counter(c.counter); v > c.limit {
			msg := report.Messagef(c.key, "%s limit exceeded, %d present, must not exceed %d.", c.what, v, c.limit)
			p.warn(msg)
		}
	}
}
