package layout

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/ByLCY/isdlayout/area"
	"github.com/ByLCY/isdlayout/fonts"
	"github.com/ByLCY/isdlayout/isd"
	"github.com/ByLCY/isdlayout/param"
	"github.com/ByLCY/isdlayout/style"
	"github.com/ByLCY/isdlayout/text"
)

// State 维护当前打开的区域路径（栈）、派生样式、计数器以及外部参数与样式查找。
// 一个 State 同一时间只服务一个 canvas，不可并发使用。
type State struct {
	opts        Options
	styles      *isd.Styles
	tree        *area.Tree
	path        []*area.Node
	counters    Counters
	lineBreaker text.LineBreaker
	charBreaker text.LineBreaker

	cellResolution style.Extent
	fontSize       float64
}

// NewState 创建带独立断点迭代器的状态。
func NewState(opts Options) (*State, error) {
	opts = opts.withDefaults()
	lb, err := text.NewBreaker(opts.LineBreaker)
	if err != nil {
		return nil, fmt.Errorf("创建行断点迭代器失败: %w", err)
	}
	cb, err := text.NewBreaker(opts.CharacterBreaker)
	if err != nil {
		return nil, fmt.Errorf("创建字符断点迭代器失败: %w", err)
	}
	return &State{
		opts:           opts,
		lineBreaker:    lb,
		charBreaker:    cb,
		cellResolution: opts.Defaults.CellResolution,
		fontSize:       opts.Defaults.FontSize,
	}, nil
}

// SetStyles 安装当前实例的计算样式集。
func (s *State) SetStyles(styles *isd.Styles) { s.styles = styles }

// Styles 返回 e 的计算样式集。
func (s *State) Styles(e *isd.Element) *style.StyleSet {
	if e == nil {
		return style.Empty
	}
	return s.styles.Of(e)
}

// Tree 返回当前画布的区域树。
func (s *State) Tree() *area.Tree { return s.tree }

func (s *State) Fonts() fonts.Cache            { return s.opts.Fonts }
func (s *State) Defaults() *style.Defaults     { return s.opts.Defaults }
func (s *State) LineBreaker() text.LineBreaker { return s.lineBreaker }
func (s *State) CharacterBreaker() text.LineBreaker {
	return s.charBreaker
}

// --- open path ---------------------------------------------------------------

// Peek 返回打开路径的栈顶，路径为空时返回 nil。
func (s *State) Peek() *area.Node {
	if len(s.path) == 0 {
		return nil
	}
	return s.path[len(s.path)-1]
}

// Depth 返回打开路径的长度。
func (s *State) Depth() int { return len(s.path) }

func (s *State) push(n *area.Node) *area.Node {
	if top := s.Peek(); top != nil {
		s.tree.Append(top, n)
	}
	s.path = append(s.path, n)
	return n
}

// PushCanvas 开始一棵新树并重置计数器。
func (s *State) PushCanvas(e *isd.Element, begin, end float64, cellResolution style.Extent) *area.Node {
	if s.Depth() != 0 {
		panic(fmt.Sprintf("layout: 打开画布时仍有 %d 个未关闭的区域", s.Depth()))
	}
	s.tree = area.NewTree()
	s.IncrementCounters(EventReset, nil)
	if cellResolution.IsEmpty() {
		cellResolution = s.opts.Defaults.CellResolution
	}
	s.cellResolution = cellResolution
	s.fontSize = s.opts.Defaults.FontSize
	n := s.tree.New(area.KindCanvas, e)
	n.Canvas.Begin, n.Canvas.End = begin, end
	n.Canvas.CellResolution = cellResolution
	ext := s.ExternalExtent()
	n.IPD, n.BPD = ext.W, ext.H
	return s.push(n)
}

// PushViewport 打开一个视口。根参考区域之下的视口即为区域：
// 按画布内顺序计数并命名为 r1、r2……
// 根视口把默认字号定为一个单元格的高度。
func (s *State) PushViewport(e *isd.Element, width, height float64, clip bool) *area.Node {
	n := s.tree.New(area.KindViewport, e)
	n.IPD, n.BPD = width, height
	n.Viewport.Width, n.Viewport.Height = width, height
	n.Viewport.Clip = clip
	s.push(n)
	if s.Depth() > 2 {
		s.IncrementCounters(EventAddRegion, n)
		n.Viewport.Region = fmt.Sprintf("r%d", s.counters.Get(RegionsInCanvas))
	} else if rows := s.cellResolution.H; rows > 0 {
		s.fontSize = s.ExternalExtent().H / rows
	}
	return n
}

// PushReference 打开一个确立书写模式与变换的参考区域。
func (s *State) PushReference(e *isd.Element, origin style.Point, width, height float64,
	wm style.WritingMode, transform style.Transform, alignment style.BlockAlignment) *area.Node {
	n := s.tree.New(area.KindReference, e)
	ref := n.Reference
	ref.Origin = origin
	ref.Width, ref.Height = width, height
	ref.WritingMode = wm
	ref.Transform = transform
	ref.Alignment = alignment
	if wm.IsVertical() {
		n.IPD, n.BPD = height, width
	} else {
		n.IPD, n.BPD = width, height
	}
	return s.push(n)
}

// PushBlock 打开一个块，必须位于参考区域内。
func (s *State) PushBlock(e *isd.Element, shear float64, visibility style.Visibility) *area.Node {
	if s.ReferenceArea() == nil {
		panic(fmt.Sprintf("layout: 块 %s 不在参考区域内", e))
	}
	n := s.tree.New(area.KindBlock, e)
	n.Block.Shear = shear
	n.Visibility = visibility
	return s.push(n)
}

// AddLine 将完成的行追加到当前块。
func (s *State) AddLine(line *area.Node) {
	top := s.Peek()
	if top == nil || top.Kind != area.KindBlock {
		panic(fmt.Sprintf("layout: 行被加到 %s，应加到块", top))
	}
	if line.Line != nil && line.Line.Number == 0 {
		line.Line.Number = int(s.counters.Get(LinesInCanvas)) + 1
	}
	s.tree.Append(top, line)
	s.IncrementCounters(EventAddLine, line)
}

// Pop 关闭打开路径的栈顶。块取子节点的尺寸之和；
// 显式指定尺寸的区域保持原尺寸并记录溢出。
func (s *State) Pop() *area.Node {
	if len(s.path) == 0 {
		panic("layout: 打开路径为空，无法 pop")
	}
	n := s.path[len(s.path)-1]
	s.path = s.path[:len(s.path)-1]
	switch n.Kind {
	case area.KindBlock, area.KindInlineBlock:
		bpd, ipd := 0.0, n.IPD
		for _, c := range s.tree.Children(n) {
			bpd += c.OuterBPD()
			ipd = max(ipd, c.OuterIPD())
		}
		n.BPD, n.IPD = bpd, ipd
	case area.KindReference, area.KindViewport:
		content := 0.0
		for _, c := range s.tree.Children(n) {
			content += c.OuterBPD()
		}
		n.Overflow = max(0, content-n.BPD)
	}
	return n
}

// ReferenceArea 返回最内层打开的参考区域，不存在时返回 nil。
func (s *State) ReferenceArea() *area.Node {
	for i := len(s.path) - 1; i >= 0; i-- {
		if s.path[i].Kind == area.KindReference {
			return s.path[i]
		}
	}
	return nil
}

// Available 返回最内层参考区域扣除各打开块内边距后剩余的 IPD 与 BPD。
func (s *State) Available() (ipd, bpd float64) {
	ref := s.ReferenceArea()
	if ref == nil {
		ext := s.ExternalExtent()
		return ext.W, ext.H
	}
	ipd, bpd = ref.IPD, ref.BPD
	inside := false
	for _, n := range s.path {
		if n == ref {
			inside = true
			continue
		}
		if inside && n.Block != nil {
			ipd -= n.Block.Padding.IPD()
			bpd -= n.Block.Padding.BPD()
		}
	}
	return max(0, ipd), max(0, bpd)
}

// --- counters ----------------------------------------------------------------

// IncrementCounters 应用一个计数事件。
func (s *State) IncrementCounters(event CounterEvent, n *area.Node) {
	s.counters.Increment(event, s.tree, n)
}

// FinalizeCounters 汇总区域与行的最大值。
func (s *State) FinalizeCounters() { s.counters.Finalize() }

// Counter returns the current value of c.
func (s *State) Counter(c Counter) int64 { return s.counters.Get(c) }

// --- derived context ---------------------------------------------------------

// elementValue 沿打开路径由内向外查找 name 的第一个值，
// 先查计算样式，再查元素属性。
func (s *State) elementValue(name string) (string, bool) {
	for i := len(s.path) - 1; i >= 0; i-- {
		e := s.path[i].Element
		if e == nil {
			continue
		}
		if v, ok := s.Styles(e).Get(name); ok {
			return v, true
		}
		if a, ok := e.Attr(attrName(name)); ok {
			return a, true
		}
	}
	return "", false
}

func attrName(name string) (n xml.Name) {
	prefix, local, _ := strings.Cut(name, ":")
	switch prefix {
	case "xml":
		n.Space = isd.NamespaceXML
	case "tts":
		n.Space = isd.NamespaceTTS
	}
	n.Local = local
	return n
}

// Language 返回生效的 xml:lang。
func (s *State) Language() string {
	if v, ok := s.elementValue(style.AttrLang); ok {
		return v
	}
	return s.opts.Defaults.Language
}

// Whitespace 返回生效的 xml:space 处理方式。
func (s *State) Whitespace() style.Whitespace {
	v, _ := s.elementValue(style.AttrSpace)
	return style.ParseWhitespace(v, s.opts.Defaults.Whitespace)
}

// WritingMode 返回最内层参考区域的书写模式。
func (s *State) WritingMode() style.WritingMode {
	if ref := s.ReferenceArea(); ref != nil {
		return ref.Reference.WritingMode
	}
	return s.ExternalWritingMode()
}

// BidiLevel 返回生效的段落嵌入层级。
func (s *State) BidiLevel() int {
	dir := s.WritingMode().InlineDirection()
	if v, ok := s.elementValue(style.AttrDirection); ok {
		dir = style.ParseDirection(v, dir)
	}
	if dir == style.DirectionRTL {
		return 1
	}
	return 0
}

// FontSize 返回画布的默认字号。
func (s *State) FontSize() float64 { return s.fontSize }

// Font 返回当前行内方向上的默认字体。
func (s *State) Font() fonts.Font {
	return s.opts.Fonts.DefaultFont(s.WritingMode().InlineAxis(), s.fontSize)
}

// Resolver 返回打开路径上的单位解析上下文。
func (s *State) Resolver() style.Resolver {
	ext := s.ExternalExtent()
	r := style.Resolver{External: ext, Reference: ext, CellResolution: s.cellResolution, FontSize: s.fontSize}
	if ref := s.ReferenceArea(); ref != nil {
		r.Reference = style.Extent{W: ref.Reference.Width, H: ref.Reference.Height}
	}
	return r
}

// Collector 返回绑定到打开路径的段落收集器。
func (s *State) Collector() *text.ParagraphCollector {
	return text.NewParagraphCollector(text.Context{
		Styles:      s.Styles,
		Fonts:       s.opts.Fonts,
		Defaults:    s.opts.Defaults,
		Resolver:    s.Resolver(),
		WritingMode: s.WritingMode(),
		Language:    s.Language(),
		Whitespace:  s.Whitespace(),
		Level:       s.BidiLevel(),
	})
}

// --- external context ----------------------------------------------------------

// ExternalExtent 取自 externalExtent 参数，否则为默认值。
func (s *State) ExternalExtent() style.Extent {
	if ext, ok := s.opts.Params.Extent(param.ExternalExtent); ok && !ext.IsEmpty() {
		return ext
	}
	return s.opts.Defaults.ExternalExtent
}

// ExternalOrigin 暂不从上下文解析，始终为原点。
func (s *State) ExternalOrigin() style.Point { return style.Point{} }

// ExternalOverflow 暂不从上下文解析，始终为 hidden。
func (s *State) ExternalOverflow() style.Overflow { return style.OverflowHidden }

// ExternalTransform 暂不从上下文解析，始终为单位变换。
func (s *State) ExternalTransform() style.Transform { return style.Identity }

// ExternalWritingMode 暂不从上下文解析，始终为 lrtb。
func (s *State) ExternalWritingMode() style.WritingMode { return style.LRTB }
