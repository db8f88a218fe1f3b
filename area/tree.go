// Package area 保存排版的输出：由矩形区域组成的 arena，
// 每个 ISD 时刻对应一个以 Canvas 为根的树。
package area

import (
	"fmt"
	"slices"

	"github.com/ByLCY/isdlayout/fonts"
	"github.com/ByLCY/isdlayout/isd"
	"github.com/ByLCY/isdlayout/style"
)

// ID addresses a node inside its Tree.
type ID int

// NoID 是根节点的父节点。
const NoID ID = -1

// Canvas 是根节点的负载。
type Canvas struct {
	Begin          float64      `json:"begin"`
	End            float64      `json:"end"`
	CellResolution style.Extent `json:"cellResolution"`
}

// Viewport 是裁剪矩形；内容区域的 Region 为 "r<N>"。
type Viewport struct {
	Region  string      `json:"region,omitempty"`
	Origin  style.Point `json:"origin"`
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	Clip    bool        `json:"clip"`
	Opacity float64     `json:"opacity"`
}

// Reference 为其内容确立书写模式与变换。
type Reference struct {
	Origin      style.Point          `json:"origin"`
	Width       float64              `json:"width"`
	Height      float64              `json:"height"`
	WritingMode style.WritingMode    `json:"writingMode"`
	Transform   style.Transform      `json:"transform"`
	Alignment   style.BlockAlignment `json:"displayAlign"`
	Padding     Padding              `json:"padding"`
}

// Padding 按逻辑顺序依次为 before、end、after、start。
type Padding [4]float64

func (p Padding) IPD() float64 { return p[1] + p[3] }
func (p Padding) BPD() float64 { return p[0] + p[2] }

// Block 堆叠行或嵌套的块。
type Block struct {
	Shear   float64 `json:"shear,omitempty"`
	Padding Padding `json:"padding"`
}

// Line 是行与注音行的负载。
type Line struct {
	Number    int                   `json:"number"`
	Alignment style.InlineAlignment `json:"alignment"`
	Embedded  bool                  `json:"embedded,omitempty"`

	Reserve          style.ReservePosition `json:"reserve,omitempty"`
	ReserveSize      float64               `json:"reserveSize,omitempty"`
	AnnotationBefore float64               `json:"annotationBefore,omitempty"`
	AnnotationAfter  float64               `json:"annotationAfter,omitempty"`

	// 仅注音行使用
	Position style.AnnotationPosition `json:"position,omitempty"`
	Offset   float64                  `json:"offset,omitempty"`
	Base     int                      `json:"base,omitempty"` // 覆盖的基文字字符数
}

// DecorationType tags a Decoration value.
type DecorationType int

const (
	DecorationColor      DecorationType = iota // style.Color
	DecorationOutline                          // *text.Outline，nil 表示清除
	DecorationVisibility                       // style.Visibility
)

// Decoration 将 Value 应用到字形区域的字符区间 [Start,End)。
type Decoration struct {
	Type  DecorationType `json:"type"`
	Start int            `json:"start"`
	End   int            `json:"end"`
	Value any            `json:"value"`
}

// Glyph 是同一字体下的一段文字。
type Glyph struct {
	Text        string              `json:"text"`
	Color       style.Color         `json:"color"`
	Font        fonts.Font          `json:"-"`
	Mapping     *fonts.GlyphMapping `json:"-"`
	Decorations []Decoration        `json:"decorations,omitempty"`
	Orientation style.Orientation   `json:"orientation,omitempty"`
	Combination style.Combination   `json:"combination,omitempty"`
	Reversals   int                 `json:"reversals,omitempty"`
}

// Space 是修剪后保留下来的可断行空白。
type Space struct {
	Text string     `json:"text"`
	Font fonts.Font `json:"-"`
}

// Node 是一个区域，只有与 Kind 对应的负载字段被设置。
type Node struct {
	ID       ID           `json:"id"`
	Kind     Kind         `json:"kind"`
	Parent   ID           `json:"-"`
	Children []ID         `json:"children,omitempty"`
	Element  *isd.Element `json:"-"`

	IPD        float64          `json:"ipd"`
	BPD        float64          `json:"bpd"`
	Level      int              `json:"level,omitempty"`
	Visibility style.Visibility `json:"visibility"`
	Overflow   float64          `json:"overflow,omitempty"`
	Background *style.Color     `json:"background,omitempty"`
	Expansion  Expansion        `json:"-"`

	Canvas    *Canvas    `json:"canvas,omitempty"`
	Viewport  *Viewport  `json:"viewport,omitempty"`
	Reference *Reference `json:"reference,omitempty"`
	Block     *Block     `json:"block,omitempty"`
	Line      *Line      `json:"line,omitempty"`
	Glyph     *Glyph     `json:"glyph,omitempty"`
	Space     *Space     `json:"space,omitempty"`
}

// Tree 是节点的 arena；若存在，0 号节点即为根。
type Tree struct {
	nodes []*Node
}

func NewTree() *Tree {
	return &Tree{}
}

// New 分配一个未挂接的节点。
func (t *Tree) New(kind Kind, e *isd.Element) *Node {
	n := &Node{ID: ID(len(t.nodes)), Kind: kind, Parent: NoID, Element: e}
	switch kind {
	case KindCanvas:
		n.Canvas = &Canvas{}
	case KindViewport:
		n.Viewport = &Viewport{Opacity: 1}
	case KindReference:
		n.Reference = &Reference{Transform: style.Identity}
	case KindBlock:
		n.Block = &Block{}
		n.Expansion = Stacking
	case KindLine, KindAnnotation:
		n.Line = &Line{}
		n.Expansion = Flowing
	case KindGlyph:
		n.Glyph = &Glyph{}
	case KindSpace:
		n.Space = &Space{}
	case KindInlineBlock:
		n.Expansion = Stacking
	}
	t.nodes = append(t.nodes, n)
	return n
}

// Node 返回指定 id 的节点，不存在时返回 nil。
func (t *Tree) Node(id ID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Root 返回第一个分配的节点。
func (t *Tree) Root() *Node {
	return t.Node(0)
}

// Len returns the number of allocated nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Children 解析 n 的子节点。
func (t *Tree) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, id := range n.Children {
		children = append(children, t.nodes[id])
	}
	return children
}

// Parent 返回 n 的父节点；根节点或未挂接节点返回 nil。
func (t *Tree) Parent(n *Node) *Node {
	return t.Node(n.Parent)
}

// Append 将 child 追加为 parent 的最后一个子节点，并按 Expansion 扩展 parent。
func (t *Tree) Append(parent, child *Node) {
	t.attach(parent, child)
	parent.Children = append(parent.Children, child.ID)
	parent.Expand(child)
}

// Attach 将 child 追加为 parent 的最后一个子节点，但不扩展 parent。
// 注音行以这种方式挂到所属的行上。
func (t *Tree) Attach(parent, child *Node) {
	t.attach(parent, child)
	parent.Children = append(parent.Children, child.ID)
}

// Insert 将 child 插入到 before 之前；before 为 nil 时追加到末尾。
func (t *Tree) Insert(parent, child, before *Node) {
	if before == nil {
		t.Append(parent, child)
		return
	}
	i := slices.Index(parent.Children, before.ID)
	if i < 0 {
		panic(fmt.Sprintf("area: %s 不是 %s 的子节点", before, parent))
	}
	t.attach(parent, child)
	parent.Children = slices.Insert(parent.Children, i, child.ID)
	parent.Expand(child)
}

// SetChildren 替换 parent 的子节点，不改变其尺寸。
// 被移出列表的节点变为未挂接状态。
func (t *Tree) SetChildren(parent *Node, children []*Node) {
	for _, id := range parent.Children {
		t.nodes[id].Parent = NoID
	}
	ids := make([]ID, 0, len(children))
	for _, c := range children {
		c.Parent = parent.ID
		ids = append(ids, c.ID)
	}
	parent.Children = ids
}

func (t *Tree) attach(parent, child *Node) {
	if parent.Kind.IsLeaf() {
		panic(fmt.Sprintf("area: 不能向叶节点 %[2]s 添加 %[1]s", child, parent))
	}
	if parent.Kind.IsLine() && !child.Kind.IsInline() {
		panic(fmt.Sprintf("area: 不能将 %s 添加到 %s", child, parent))
	}
	if t.Node(child.ID) != child {
		panic(fmt.Sprintf("area: %s 属于另一棵树", child))
	}
	child.Parent = parent.ID
}

// Walk 按文档顺序访问 n 及其后代，fn 返回 false 时停止。
func (t *Tree) Walk(n *Node, fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, id := range n.Children {
		if !t.Walk(t.nodes[id], fn) {
			return false
		}
	}
	return true
}

// Expand 按 n.Expansion 为 child 扩展 n。
func (n *Node) Expand(child *Node) {
	ipd, bpd := child.IPD, child.BPD
	if n.Expansion&Cross != 0 {
		ipd, bpd = bpd, ipd
	}
	switch {
	case n.Expansion&ExpandIPD != 0:
		n.IPD += ipd
	case n.Expansion&EncloseIPD != 0:
		n.IPD = max(n.IPD, ipd)
	}
	switch {
	case n.Expansion&ExpandBPD != 0:
		n.BPD += bpd
	case n.Expansion&EncloseBPD != 0:
		n.BPD = max(n.BPD, bpd)
	}
}

// OuterBPD 是包含行的注音预留空间与块内边距的 BPD。
func (n *Node) OuterBPD() float64 {
	switch {
	case n.Line != nil:
		return n.BPD + n.Line.AnnotationBefore + n.Line.AnnotationAfter
	case n.Block != nil:
		return n.BPD + n.Block.Padding.BPD()
	}
	return n.BPD
}

// OuterIPD 是包含块内边距的 IPD。
func (n *Node) OuterIPD() float64 {
	if n.Block != nil {
		return n.IPD + n.Block.Padding.IPD()
	}
	return n.IPD
}

// Text 返回字形与空白区域的文本。
func (n *Node) Text() string {
	switch {
	case n.Glyph != nil:
		return n.Glyph.Text
	case n.Space != nil:
		return n.Space.Text
	}
	return ""
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Element != nil {
		return fmt.Sprintf("%s#%d(%s)", n.Kind, n.ID, n.Element)
	}
	return fmt.Sprintf("%s#%d", n.Kind, n.ID)
}
