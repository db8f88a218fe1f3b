package style

// Defaults 保存样式属性缺失或无效时使用的值。
type Defaults struct {
	AnnotationAlign    InlineAlignment
	AnnotationOffset   float64
	AnnotationPosition AnnotationPosition
	AnnotationReserve  AnnotationReserve
	BackgroundColor    Color
	CellResolution     Extent
	Color              Color
	DisplayAlign       BlockAlignment
	ExternalExtent     Extent
	FontFamily         string
	FontSize           float64
	Kerning            bool
	Language           string
	Opacity            float64
	Orientation        Orientation
	Combination        Combination
	Overflow           Overflow
	Position           Position
	TextAlign          InlineAlignment
	Visibility         Visibility
	Whitespace         Whitespace
	Wrap               WrapOption
	WritingMode        WritingMode
}

// NewDefaults 返回内置默认值。
func NewDefaults() *Defaults {
	return &Defaults{
		AnnotationAlign:    InlineAuto,
		AnnotationPosition: AnnotationAuto,
		BackgroundColor:    Transparent,
		CellResolution:     Extent{W: 32, H: 15},
		Color:              White,
		DisplayAlign:       BlockBefore,
		ExternalExtent:     Extent{W: 1280, H: 720},
		FontFamily:         "default",
		FontSize:           48,
		Kerning:            true,
		Opacity:            1,
		Orientation:        Rotate000,
		Combination:        CombineNone,
		Overflow:           OverflowHidden,
		Position:           CenterPosition,
		TextAlign:          InlineStart,
		Visibility:         Visible,
		Whitespace:         WhitespaceDefault,
		Wrap:               Wrap,
		WritingMode:        LRTB,
	}
}

// LineHeight is the default line height for a font size.
func (d *Defaults) LineHeight(fontSize float64) float64 {
	return fontSize * NormalLineHeightFactor
}
