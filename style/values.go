package style

import "strings"

// --- inline alignment -------------------------------------------------------

// InlineAlignment 对应 tts:textAlign 与 tts:rubyAlign 的取值。
type InlineAlignment int

const (
	InlineAuto InlineAlignment = iota
	InlineStart
	InlineEnd
	InlineLeft
	InlineRight
	InlineCenter
	InlineJustify
	InlineSpaceAround
	InlineSpaceBetween
	InlineWithBase
)

var inlineAlignmentNames = []string{"auto", "start", "end", "left", "right", "center", "justify",
	"spaceAround", "spaceBetween", "withBase"}

func (a InlineAlignment) String() string {
	if int(a) < len(inlineAlignmentNames) {
		return inlineAlignmentNames[a]
	}
	return "unknown"
}

func (a InlineAlignment) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// IsJustification 判断是否属于两端对齐一族（justify、spaceAround、spaceBetween、withBase）。
func (a InlineAlignment) IsJustification() bool {
	return a == InlineJustify || a == InlineSpaceAround || a == InlineSpaceBetween || a == InlineWithBase
}

// Relativize 按行内方向把 left/right 映射为 start/end。
func (a InlineAlignment) Relativize(dir Direction) InlineAlignment {
	switch a {
	case InlineLeft:
		if dir == DirectionRTL {
			return InlineEnd
		}
		return InlineStart
	case InlineRight:
		if dir == DirectionRTL {
			return InlineStart
		}
		return InlineEnd
	}
	return a
}

// ParseInlineAlignment parses a text or ruby alignment keyword.
func ParseInlineAlignment(value string, def InlineAlignment) InlineAlignment {
	v := strings.TrimSpace(value)
	for i, name := range inlineAlignmentNames {
		if strings.EqualFold(v, name) {
			return InlineAlignment(i)
		}
	}
	return def
}

// --- block alignment --------------------------------------------------------

// BlockAlignment 对应 tts:displayAlign。
type BlockAlignment int

const (
	BlockBefore BlockAlignment = iota
	BlockCenter
	BlockAfter
	BlockJustify
	BlockSpaceAround
	BlockSpaceBetween
)

var blockAlignmentNames = []string{"before", "center", "after", "justify", "spaceAround", "spaceBetween"}

func (a BlockAlignment) String() string {
	if int(a) < len(blockAlignmentNames) {
		return blockAlignmentNames[a]
	}
	return "unknown"
}

func (a BlockAlignment) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// IsJustification 判断各行是分散排布而非整体定位。
func (a BlockAlignment) IsJustification() bool {
	return a == BlockJustify || a == BlockSpaceAround || a == BlockSpaceBetween
}

// ParseBlockAlignment parses a display alignment keyword.
func ParseBlockAlignment(value string, def BlockAlignment) BlockAlignment {
	v := strings.TrimSpace(value)
	for i, name := range blockAlignmentNames {
		if strings.EqualFold(v, name) {
			return BlockAlignment(i)
		}
	}
	return def
}

// --- wrap and whitespace ----------------------------------------------------

// WrapOption covers tts:wrapOption.
type WrapOption int

const (
	Wrap WrapOption = iota
	NoWrap
)

func ParseWrapOption(value string, def WrapOption) WrapOption {
	switch strings.TrimSpace(value) {
	case "wrap":
		return Wrap
	case "noWrap":
		return NoWrap
	}
	return def
}

// Whitespace 对应 xml:space。
type Whitespace int

const (
	WhitespaceDefault Whitespace = iota
	WhitespacePreserve
)

func ParseWhitespace(value string, def Whitespace) Whitespace {
	switch strings.TrimSpace(value) {
	case "default":
		return WhitespaceDefault
	case "preserve":
		return WhitespacePreserve
	}
	return def
}

// LinefeedTreatment 决定文本中 U+000A 的处理方式。
type LinefeedTreatment int

const (
	LinefeedTreatAsSpace LinefeedTreatment = iota
	LinefeedPreserve
)

// Suppression 控制断行处空白的去除。
type Suppression int

const (
	SuppressAuto Suppression = iota
	SuppressRetain
	SuppressAlways
)

func (w Whitespace) Linefeed() LinefeedTreatment {
	if w == WhitespacePreserve {
		return LinefeedPreserve
	}
	return LinefeedTreatAsSpace
}

func (w Whitespace) Suppression() Suppression {
	if w == WhitespacePreserve {
		return SuppressRetain
	}
	return SuppressAuto
}

func (w Whitespace) Collapse() bool { return w != WhitespacePreserve }

// --- writing mode and direction --------------------------------------------

// Direction 是物理的行内推进方向。
type Direction int

const (
	DirectionLTR Direction = iota
	DirectionRTL
	DirectionTTB
)

func ParseDirection(value string, def Direction) Direction {
	switch strings.TrimSpace(value) {
	case "ltr":
		return DirectionLTR
	case "rtl":
		return DirectionRTL
	}
	return def
}

// WritingMode 对应 tts:writingMode。
type WritingMode int

const (
	LRTB WritingMode = iota
	RLTB
	TBRL
	TBLR
)

var writingModeNames = []string{"lrtb", "rltb", "tbrl", "tblr"}

func (wm WritingMode) String() string {
	if int(wm) < len(writingModeNames) {
		return writingModeNames[wm]
	}
	return "unknown"
}

func (wm WritingMode) MarshalText() ([]byte, error) { return []byte(wm.String()), nil }

// IsVertical 判断行内方向是否自上而下。
func (wm WritingMode) IsVertical() bool { return wm == TBRL || wm == TBLR }

// InlineDirection returns the inline progression direction.
func (wm WritingMode) InlineDirection() Direction {
	switch wm {
	case RLTB:
		return DirectionRTL
	case TBRL, TBLR:
		return DirectionTTB
	}
	return DirectionLTR
}

// InlineAxis returns the physical axis of the inline progression dimension.
func (wm WritingMode) InlineAxis() Axis {
	if wm.IsVertical() {
		return AxisVertical
	}
	return AxisHorizontal
}

// BlockAxis returns the physical axis of the block progression dimension.
func (wm WritingMode) BlockAxis() Axis {
	if wm.IsVertical() {
		return AxisHorizontal
	}
	return AxisVertical
}

func ParseWritingMode(value string, def WritingMode) WritingMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "lrtb", "lr":
		return LRTB
	case "rltb", "rl":
		return RLTB
	case "tbrl", "tb":
		return TBRL
	case "tblr":
		return TBLR
	}
	return def
}

// --- overflow and visibility ------------------------------------------------

type Overflow int

const (
	OverflowHidden Overflow = iota
	OverflowVisible
)

func ParseOverflow(value string, def Overflow) Overflow {
	switch strings.TrimSpace(value) {
	case "hidden":
		return OverflowHidden
	case "visible":
		return OverflowVisible
	}
	return def
}

type Visibility int

const (
	Visible Visibility = iota
	Hidden
)

func (v Visibility) MarshalText() ([]byte, error) {
	if v == Hidden {
		return []byte("hidden"), nil
	}
	return []byte("visible"), nil
}

func ParseVisibility(value string, def Visibility) Visibility {
	switch strings.TrimSpace(value) {
	case "visible":
		return Visible
	case "hidden":
		return Hidden
	}
	return def
}

// --- glyph orientation and combination -------------------------------------

type Orientation int

const (
	Rotate000 Orientation = iota
	Rotate090
	Rotate180
	Rotate270
)

// IsRotated 判断是否旋转四分之一圈，此时前进宽度与高度互换。
func (o Orientation) IsRotated() bool { return o == Rotate090 || o == Rotate270 }

// ParseOrientation 对应 tts:textOrientation；只有 sideways 会旋转字形。
func ParseOrientation(value string, def Orientation) Orientation {
	switch strings.TrimSpace(value) {
	case "mixed", "upright":
		return Rotate000
	case "sideways":
		return Rotate090
	}
	return def
}

type Combination int

const (
	CombineNone Combination = iota
	CombineAll
)

func ParseCombination(value string, def Combination) Combination {
	switch strings.TrimSpace(value) {
	case "none":
		return CombineNone
	case "all":
		return CombineAll
	}
	return def
}

// --- annotations ------------------------------------------------------------

// AnnotationPosition 对应 tts:rubyPosition。
type AnnotationPosition int

const (
	AnnotationAuto AnnotationPosition = iota
	AnnotationBefore
	AnnotationAfter
	AnnotationOutside
)

func (p AnnotationPosition) MarshalText() ([]byte, error) {
	switch p {
	case AnnotationBefore:
		return []byte("before"), nil
	case AnnotationAfter:
		return []byte("after"), nil
	case AnnotationOutside:
		return []byte("outside"), nil
	}
	return []byte("auto"), nil
}

func ParseAnnotationPosition(value string, def AnnotationPosition) AnnotationPosition {
	switch strings.TrimSpace(value) {
	case "auto":
		return AnnotationAuto
	case "before", "over":
		return AnnotationBefore
	case "after", "under":
		return AnnotationAfter
	case "outside":
		return AnnotationOutside
	}
	return def
}

// ReservePosition 表示在行的哪一侧预留注音空间。
type ReservePosition int

const (
	ReserveNone ReservePosition = iota
	ReserveAuto
	ReserveBefore
	ReserveAfter
	ReserveOutside
	ReserveBoth
)

// AnnotationReserve 对应 tts:rubyReserve。
// Length 为零表示使用注音行的行高。
type AnnotationReserve struct {
	Position ReservePosition `json:"position"`
	Length   Length          `json:"length"`
}

// IsNone reports that no space is reserved.
func (r AnnotationReserve) IsNone() bool { return r.Position == ReserveNone }

// ResolvePosition 为短语中的某一行选出具体的一侧。
func (r AnnotationReserve) ResolvePosition(numLines int, lastLine bool) ReservePosition {
	switch r.Position {
	case ReserveAuto:
		if numLines == 2 {
			return (AnnotationReserve{Position: ReserveOutside}).ResolvePosition(numLines, lastLine)
		}
		return ReserveBefore
	case ReserveOutside:
		if lastLine {
			return ReserveAfter
		}
		return ReserveBefore
	}
	return r.Position
}

func ParseAnnotationReserve(value string) AnnotationReserve {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return AnnotationReserve{}
	}
	var r AnnotationReserve
	switch fields[0] {
	case "none":
		return AnnotationReserve{}
	case "auto":
		r.Position = ReserveAuto
	case "before", "over":
		r.Position = ReserveBefore
	case "after", "under":
		r.Position = ReserveAfter
	case "outside":
		r.Position = ReserveOutside
	case "both":
		r.Position = ReserveBoth
	default:
		return AnnotationReserve{}
	}
	if len(fields) > 1 {
		if l, err := ParseLength(strings.Join(fields[1:], " ")); err == nil && l.Value >= 0 {
			r.Length = l
		}
	}
	return r
}

// --- transforms -------------------------------------------------------------

// Transform 是仿射矩阵 [a b c d e f]。
type Transform [6]float64

var Identity = Transform{1, 0, 0, 1, 0, 0}

func (t Transform) IsIdentity() bool { return t == Identity }
