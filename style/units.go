package style

// This file defines unit-safe types and helpers for lengths, extents and line-height.

// Unit represents the original unit of a length value as written in a style attribute.
type Unit int

const (
	UnitPixel      Unit = iota // px, also used for unit-less numbers
	UnitPercent                // %
	UnitEm                     // em, relative to the font size
	UnitCell                   // c, relative to the cell resolution
	UnitRootWidth              // rw
	UnitRootHeight             // rh
	UnitViewWidth              // vw
	UnitViewHeight             // vh
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPixel:
		return "px"
	case UnitPercent:
		return "%"
	case UnitEm:
		return "em"
	case UnitCell:
		return "c"
	case UnitRootWidth:
		return "rw"
	case UnitRootHeight:
		return "rh"
	case UnitViewWidth:
		return "vw"
	case UnitViewHeight:
		return "vh"
	default:
		return ""
	}
}

func unitFromString(s string) (Unit, bool) {
	switch s {
	case "", "px":
		return UnitPixel, true
	case "%":
		return UnitPercent, true
	case "em":
		return UnitEm, true
	case "c":
		return UnitCell, true
	case "rw":
		return UnitRootWidth, true
	case "rh":
		return UnitRootHeight, true
	case "vw":
		return UnitViewWidth, true
	case "vh":
		return UnitViewHeight, true
	}
	return UnitPixel, false
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

func (l Length) String() string {
	return formatNumber(l.Value) + UnitToString(l.Unit)
}

// Px is a shorthand for a pixel length.
func Px(v float64) Length { return Length{Value: v, Unit: UnitPixel} }

// Percent is a shorthand for a percentage length.
func Percent(v float64) Length { return Length{Value: v, Unit: UnitPercent} }

// Axis selects the physical dimension a length is resolved along.
type Axis int

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

// Extent is a physical width/height pair in pixels.
type Extent struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Along returns the extent's dimension for axis.
func (e Extent) Along(axis Axis) float64 {
	if axis == AxisVertical {
		return e.H
	}
	return e.W
}

// IsEmpty reports whether either dimension is not positive.
func (e Extent) IsEmpty() bool { return e.W <= 0 || e.H <= 0 }

// Point is a physical position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Resolver carries the context lengths are resolved against.
// Percentages refer to Reference, cells to External divided by CellResolution
// (columns, rows), view and root units to External.
type Resolver struct {
	External       Extent
	Reference      Extent
	CellResolution Extent
	FontSize       float64
}

// Resolve converts l into pixels along axis.
func (r Resolver) Resolve(l Length, axis Axis) float64 {
	switch l.Unit {
	case UnitPixel:
		return l.Value
	case UnitPercent:
		return l.Value * r.Reference.Along(axis) / 100
	case UnitEm:
		return l.Value * r.FontSize
	case UnitCell:
		cells := r.CellResolution.Along(axis)
		if cells <= 0 {
			return 0
		}
		return l.Value * r.External.Along(axis) / cells
	case UnitRootWidth, UnitViewWidth:
		return l.Value * r.External.W / 100
	case UnitRootHeight, UnitViewHeight:
		return l.Value * r.External.H / 100
	}
	return l.Value
}

// LineHeightKind distinguishes "normal" from an explicit length.
type LineHeightKind int

const (
	LineHeightNormal LineHeightKind = iota
	LineHeightLength
)

// NormalLineHeightFactor is applied to the font size for tts:lineHeight="normal".
const NormalLineHeightFactor = 1.25

// LineHeight preserves the author intent for tts:lineHeight.
type LineHeight struct {
	Kind LineHeightKind `json:"kind"`
	Len  Length         `json:"len,omitempty"`
}

// Resolve computes the line height in pixels for the given font size.
func (lh LineHeight) Resolve(r Resolver, axis Axis, fontSize float64) float64 {
	if lh.Kind == LineHeightLength {
		if v := r.Resolve(lh.Len, axis); v > 0 {
			return v
		}
	}
	return fontSize * NormalLineHeightFactor
}

// ParseLineHeight parses "normal" or a single length; anything else is "normal".
func ParseLineHeight(value string) LineHeight {
	if value == "" || value == "normal" {
		return LineHeight{Kind: LineHeightNormal}
	}
	if l, err := ParseLength(value); err == nil && l.Value > 0 {
		return LineHeight{Kind: LineHeightLength, Len: l}
	}
	return LineHeight{Kind: LineHeightNormal}
}
