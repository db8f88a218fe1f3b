package layout

import (
	"strings"

	"github.com/ByLCY/isdlayout/area"
	"github.com/ByLCY/isdlayout/isd"
	"github.com/ByLCY/isdlayout/style"
)

// 以下访问器从元素的计算样式中解析单个属性；解析失败时回退到默认值，从不返回错误。

// Extent 解析 tts:extent；auto 与无效值取外部尺寸。
func (s *State) Extent(e *isd.Element) style.Extent {
	ext := s.ExternalExtent()
	v := s.Styles(e).Value(style.AttrExtent, "auto")
	if v == "auto" {
		return ext
	}
	lengths, err := style.ParseLengths(v)
	if err != nil || len(lengths) != 2 {
		tracer().Debugf("invalid extent %q on %s", v, e)
		return ext
	}
	r := s.Resolver()
	r.Reference = ext
	w, h := r.Resolve(lengths[0], style.AxisHorizontal), r.Resolve(lengths[1], style.AxisVertical)
	if w <= 0 || h <= 0 {
		return ext
	}
	return style.Extent{W: w, H: h}
}

// Origin 解析 tts:origin；auto 与无效值取外部原点。
func (s *State) Origin(e *isd.Element) style.Point {
	v := s.Styles(e).Value(style.AttrOrigin, "auto")
	if v == "auto" {
		return s.ExternalOrigin()
	}
	lengths, err := style.ParseLengths(v)
	if err != nil || len(lengths) != 2 {
		tracer().Debugf("invalid origin %q on %s", v, e)
		return s.ExternalOrigin()
	}
	r := s.Resolver()
	r.Reference = s.ExternalExtent()
	return style.Point{X: r.Resolve(lengths[0], style.AxisHorizontal), Y: r.Resolve(lengths[1], style.AxisVertical)}
}

// Position 放置给定尺寸的区域：优先 tts:origin，
// 其次 tts:position，百分比相对剩余空间计算。
func (s *State) Position(e *isd.Element, extent style.Extent) style.Point {
	ss := s.Styles(e)
	if _, ok := ss.Get(style.AttrOrigin); ok {
		return s.Origin(e)
	}
	v, ok := ss.Get(style.AttrPosition)
	if !ok {
		return s.ExternalOrigin()
	}
	pos, err := style.ParsePosition(v)
	if err != nil {
		tracer().Debugf("%v", err)
	}
	ext := s.ExternalExtent()
	r := s.Resolver()
	r.Reference = style.Extent{W: ext.W - extent.W, H: ext.H - extent.H}
	return pos.Resolve(r)
}

func (s *State) Overflow(e *isd.Element) style.Overflow {
	return style.ParseOverflow(s.Styles(e).Value(style.AttrOverflow, ""), s.opts.Defaults.Overflow)
}

func (s *State) WritingModeOf(e *isd.Element) style.WritingMode {
	return style.ParseWritingMode(s.Styles(e).Value(style.AttrWritingMode, ""), s.opts.Defaults.WritingMode)
}

// Transform is not derived from styles yet.
func (s *State) Transform(e *isd.Element) style.Transform {
	return style.Identity
}

func (s *State) DisplayAlign(e *isd.Element) style.BlockAlignment {
	return style.ParseBlockAlignment(s.Styles(e).Value(style.AttrDisplayAlign, ""), s.opts.Defaults.DisplayAlign)
}

func (s *State) Visibility(e *isd.Element) style.Visibility {
	return style.ParseVisibility(s.Styles(e).Value(style.AttrVisibility, ""), s.opts.Defaults.Visibility)
}

// Opacity 解析 tts:opacity 并限制在 [0,1]。
func (s *State) Opacity(e *isd.Element) float64 {
	v := style.ParseNumber(s.Styles(e).Value(style.AttrOpacity, ""), s.opts.Defaults.Opacity)
	return max(0, min(1, v))
}

// BackgroundColor 对透明或无效颜色返回 nil。
func (s *State) BackgroundColor(e *isd.Element) *style.Color {
	v, ok := s.Styles(e).Get(style.AttrBackgroundColor)
	if !ok {
		if s.opts.Defaults.BackgroundColor.IsTransparent() {
			return nil
		}
		c := s.opts.Defaults.BackgroundColor
		return &c
	}
	c, err := style.ParseColor(v)
	if err != nil {
		tracer().Debugf("invalid background color %q on %s: %v", v, e, err)
		return nil
	}
	if c.IsTransparent() {
		return nil
	}
	return &c
}

// Shear 将 tts:shear 解析为角度。
func (s *State) Shear(e *isd.Element) float64 {
	l, err := style.ParseLength(s.Styles(e).Value(style.AttrShear, ""))
	if err != nil || l.Unit != style.UnitPercent {
		return 0
	}
	return max(-90, min(90, l.Value*0.9))
}

// Padding 将 tts:padding（1 到 4 个长度）解析为 before、end、after、start。
func (s *State) Padding(e *isd.Element) area.Padding {
	v, ok := s.Styles(e).Get(style.AttrPadding)
	if !ok {
		return area.Padding{}
	}
	lengths, err := style.ParseLengths(v)
	if err != nil || len(lengths) > 4 {
		tracer().Debugf("invalid padding %q on %s", v, e)
		return area.Padding{}
	}
	var before, end, after, start style.Length
	switch len(lengths) {
	case 1:
		before, end, after, start = lengths[0], lengths[0], lengths[0], lengths[0]
	case 2:
		before, after = lengths[0], lengths[0]
		end, start = lengths[1], lengths[1]
	case 3:
		before, end, start, after = lengths[0], lengths[1], lengths[1], lengths[2]
	case 4:
		before, end, after, start = lengths[0], lengths[1], lengths[2], lengths[3]
	}
	wm := s.WritingMode()
	r := s.Resolver()
	ia, ba := wm.InlineAxis(), wm.BlockAxis()
	return area.Padding{
		max(0, r.Resolve(before, ba)),
		max(0, r.Resolve(end, ia)),
		max(0, r.Resolve(after, ba)),
		max(0, r.Resolve(start, ia)),
	}
}

// CellResolution 从实例元素读取 ttp:cellResolution。
func (s *State) CellResolution(e *isd.Element) style.Extent {
	def := s.opts.Defaults.CellResolution
	v, ok := e.Attr(isd.AttrCellResolution)
	if !ok {
		return def
	}
	fields := strings.Fields(v)
	if len(fields) != 2 {
		return def
	}
	cols, rows := style.ParseNumber(fields[0], 0), style.ParseNumber(fields[1], 0)
	if cols <= 0 || rows <= 0 {
		return def
	}
	return style.Extent{W: cols, H: rows}
}
