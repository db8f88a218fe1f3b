package area

// Kind 标记 Node 的具体类型。
type Kind int

const (
	KindCanvas Kind = iota
	KindViewport
	KindReference
	KindBlock
	KindLine
	KindAnnotation
	KindGlyph
	KindSpace
	KindInlineFiller
	KindBlockFiller
	KindInlineBlock
)

var kindNames = [...]string{"canvas", "viewport", "reference", "block", "line", "annotation",
	"glyph", "space", "inlineFiller", "blockFiller", "inlineBlock"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// IsLine 判断是否为行类节点（行与注音行）。
func (k Kind) IsLine() bool { return k == KindLine || k == KindAnnotation }

// IsInline 判断该类节点能否作为行的子节点。
func (k Kind) IsInline() bool {
	switch k {
	case KindGlyph, KindSpace, KindInlineFiller, KindInlineBlock, KindAnnotation:
		return true
	}
	return false
}

// IsLeaf 判断该类节点是否永远没有子节点。
func (k Kind) IsLeaf() bool {
	switch k {
	case KindGlyph, KindSpace, KindInlineFiller, KindBlockFiller:
		return true
	}
	return false
}

// Expansion 决定追加子节点时父节点如何扩展。
type Expansion uint8

const (
	ExpandIPD  Expansion = 1 << iota // 累加子节点 IPD
	ExpandBPD                        // 累加子节点 BPD
	EncloseIPD                       // 至少与子节点 IPD 相同
	EncloseBPD                       // 至少与子节点 BPD 相同
	// Cross 交换子节点的两个维度，用于推进方向与父节点正交的子节点。
	Cross
)

// Stacking 是块方向堆叠父节点的常规扩展方式。
const Stacking = EncloseIPD | ExpandBPD

// Flowing 是行内流动父节点的常规扩展方式。
const Flowing = ExpandIPD | EncloseBPD
