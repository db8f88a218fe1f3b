package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/isdlayout/area"
	"github.com/ByLCY/isdlayout/fonts"
	"github.com/ByLCY/isdlayout/renderer"
	"github.com/ByLCY/isdlayout/style"
	"github.com/ByLCY/isdlayout/text"
)

// tracer traces with key 'isdlayout.renderer'
func tracer() tracing.Trace {
	return tracing.Select("isdlayout.renderer")
}

// Renderer 通过 github.com/tdewolff/canvas 绘制区域树，同时作为排版的字体缓存，
// 保证测量与绘制使用同一套字形。
type Renderer struct {
	baseDir string

	// 注入的资源
	fontBlobs map[string][]byte // 按小写字体族名索引

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily

	cacheMu sync.Mutex
	fonts   map[fonts.Key]*Font
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // font families by name, replacing the built-in Go fonts
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected font families.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*canvas.FontFamily{},
		fonts:        map[fonts.Key]*Font{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		name = strings.ToLower(name)
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				tracer().Errorf("读取字体 %s 失败: %v", res.Path, err)
				continue
			}
			r.fontBlobs[name] = data
		}
	}
	return r
}

// Render 为每个画布输出一页 PDF。
func (r *Renderer) Render(trees []*area.Tree) ([]byte, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("缺少可渲染的 canvas")
	}
	var buf bytes.Buffer
	var writer *pdf.PDF
	for i, tree := range trees {
		root := tree.Root()
		if root == nil || root.Canvas == nil {
			return nil, fmt.Errorf("第 %d 棵树的根不是 canvas", i)
		}
		w, h := mm(root.IPD), mm(root.BPD)
		if writer == nil {
			writer = pdf.New(&buf, w, h, nil)
			writer.SetInfo("ISD", "", "", "", "isdlayout")
		} else {
			writer.NewPage(w, h)
		}
		c := canvas.New(w, h)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点
		p := &painter{r: r, tree: tree, ctx: ctx}
		if err := p.drawCanvas(root); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
		tracer().Debugf("page %d: canvas [%g,%g)", i+1, root.Canvas.Begin, root.Canvas.End)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// painter 绘制一棵树。坐标在进入 canvas 上下文之前一直以 px 表示。
type painter struct {
	r    *Renderer
	tree *area.Tree
	ctx  *canvas.Context
}

// frame 将参考区域内的行内/块方向偏移映射为页面 px。
type frame struct {
	x, y      float64 // 内容框原点
	w, h      float64 // 内容框的物理尺寸
	wm        style.WritingMode
	transform style.Transform
	opacity   float64
}

func (f frame) point(i, b float64) (float64, float64) {
	var x, y float64
	switch f.wm {
	case style.TBRL:
		x, y = f.w-b, i
	case style.TBLR:
		x, y = b, i
	default:
		x, y = i, b
	}
	x, y = f.x+x, f.y+y
	t := f.transform
	return t[0]*x + t[2]*y + t[4], t[1]*x + t[3]*y + t[5]
}

func (f frame) vertical() bool { return f.wm.IsVertical() }

// rect 将行内/块方向的框转换为物理矩形。
func (f frame) rect(i, b, ipd, bpd float64) (x, y, w, h float64) {
	x0, y0 := f.point(i, b)
	x1, y1 := f.point(i+ipd, b+bpd)
	return min(x0, x1), min(y0, y1), abs(x1 - x0), abs(y1 - y0)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func (p *painter) drawCanvas(root *area.Node) error {
	top := frame{transform: style.Identity, opacity: 1, w: root.IPD, h: root.BPD}
	for _, vp := range p.tree.Children(root) {
		if err := p.drawViewport(vp, top); err != nil {
			return err
		}
	}
	return nil
}

func (p *painter) drawViewport(vp *area.Node, parent frame) error {
	if vp.Kind != area.KindViewport {
		return nil
	}
	v := vp.Viewport
	f := parent
	f.x, f.y = parent.x+v.Origin.X, parent.y+v.Origin.Y
	f.w, f.h = v.Width, v.Height
	f.opacity = parent.opacity * v.Opacity
	if vp.Visibility == style.Hidden {
		return nil
	}
	if vp.Background != nil {
		p.fill(f, 0, 0, v.Width, v.Height, *vp.Background, f.opacity)
	}
	for _, ref := range p.tree.Children(vp) {
		if ref.Kind != area.KindReference {
			continue
		}
		if err := p.drawReference(ref, f); err != nil {
			return err
		}
	}
	return nil
}

func (p *painter) fill(f frame, x, y, w, h float64, c style.Color, opacity float64) {
	if c.A == 0 || w <= 0 || h <= 0 {
		return
	}
	x0, y0 := f.point(x, y)
	p.ctx.SetFillColor(colorOf(c, opacity))
	p.ctx.SetStrokeColor(color.RGBA{})
	p.ctx.DrawPath(mm(x0), mm(y0), canvas.Rectangle(mm(w), mm(h)))
}

func (p *painter) drawReference(ref *area.Node, parent frame) error {
	r := ref.Reference
	f := parent
	f.wm = r.WritingMode
	f.transform = r.Transform
	// 视口已经定位，参考区只需加上内边距
	pad := r.Padding
	f.x += pad[3]
	f.y += pad[0]
	f.w = max(0, r.Width-pad.IPD())
	f.h = max(0, r.Height-pad.BPD())
	if f.vertical() {
		f.x, f.y = parent.x+pad[0], parent.y+pad[3]
		f.w = max(0, r.Width-pad.BPD())
		f.h = max(0, r.Height-pad.IPD())
	}
	b := 0.0
	for _, c := range p.tree.Children(ref) {
		switch c.Kind {
		case area.KindViewport:
			if err := p.drawViewport(c, f); err != nil {
				return err
			}
			continue
		case area.KindBlock:
			if err := p.drawBlock(c, f, 0, b); err != nil {
				return err
			}
		}
		b += c.OuterBPD()
	}
	return nil
}

func (p *painter) drawBlock(block *area.Node, f frame, i, b float64) error {
	if block.Background != nil {
		x, y, w, h := f.rect(i, b, block.OuterIPD(), block.OuterBPD())
		p.ctx.SetFillColor(colorOf(*block.Background, f.opacity))
		p.ctx.SetStrokeColor(color.RGBA{})
		p.ctx.DrawPath(mm(x), mm(y), canvas.Rectangle(mm(w), mm(h)))
	}
	pad := block.Block.Padding
	i += pad[3]
	b += pad[0]
	for _, c := range p.tree.Children(block) {
		switch c.Kind {
		case area.KindBlock:
			if err := p.drawBlock(c, f, i, b); err != nil {
				return err
			}
		case area.KindLine:
			if err := p.drawLine(c, f, i, b+c.Line.AnnotationBefore); err != nil {
				return err
			}
		}
		b += c.OuterBPD()
	}
	return nil
}

// drawLine 绘制 before 边位于 b 的行的行内子节点。
// 注音行绘制在其后子节点的上方或下方。
func (p *painter) drawLine(line *area.Node, f frame, i, b float64) error {
	if line.Visibility == style.Hidden {
		return nil
	}
	var pending []*area.Node
	for _, c := range p.tree.Children(line) {
		switch c.Kind {
		case area.KindAnnotation:
			pending = append(pending, c)
			continue
		case area.KindGlyph:
			if err := p.drawGlyph(c, f, i, b+(line.BPD-c.BPD)/2); err != nil {
				return err
			}
		case area.KindInlineBlock:
			lb := b
			for _, l := range p.tree.Children(c) {
				if err := p.drawLine(l, f, i, lb+l.Line.AnnotationBefore); err != nil {
					return err
				}
				lb += l.OuterBPD()
			}
		}
		for _, a := range pending {
			ai := i - a.Overflow/2
			ab := b - a.BPD - max(0, a.Line.Offset)
			if a.Line.Position == style.AnnotationAfter {
				ab = b + line.BPD + max(0, a.Line.Offset)
			}
			if err := p.drawLine(a, f, ai, ab); err != nil {
				return err
			}
		}
		pending = nil
		i += c.IPD
	}
	return nil
}

// segment 是颜色与可见性相同的一段字形文本。
type segment struct {
	start, end int
	color      style.Color
	outline    *text.Outline
	hidden     bool
}

func glyphSegments(g *area.Glyph, n int, base style.Color) []segment {
	cuts := map[int]bool{0: true, n: true}
	for _, d := range g.Decorations {
		cuts[max(0, min(n, d.Start))] = true
		cuts[max(0, min(n, d.End))] = true
	}
	var bounds []int
	for k := 0; k <= n; k++ {
		if cuts[k] {
			bounds = append(bounds, k)
		}
	}
	var segs []segment
	for j := 0; j+1 < len(bounds); j++ {
		s := segment{start: bounds[j], end: bounds[j+1], color: base}
		for _, d := range g.Decorations {
			if d.Start > s.start || d.End < s.end {
				continue
			}
			switch d.Type {
			case area.DecorationColor:
				if c, ok := d.Value.(style.Color); ok {
					s.color = c
				}
			case area.DecorationOutline:
				s.outline, _ = d.Value.(*text.Outline)
			case area.DecorationVisibility:
				if v, ok := d.Value.(style.Visibility); ok {
					s.hidden = v == style.Hidden
				}
			}
		}
		segs = append(segs, s)
	}
	return segs
}

var outlineOffsets = [][2]float64{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}

func (p *painter) drawGlyph(n *area.Node, f frame, i, b float64) error {
	g := n.Glyph
	if n.Visibility == style.Hidden || g.Font == nil {
		return nil
	}
	runes := []rune(g.Text)
	advances := make([]float64, len(runes))
	if g.Mapping != nil && len(g.Mapping.Advances) == len(runes) {
		for k := range runes {
			advances[k] = g.Font.ScaledAdvance(&fonts.GlyphMapping{Advances: g.Mapping.Advances[k : k+1]})
		}
	} else if len(runes) > 0 {
		for k := range advances {
			advances[k] = n.IPD / float64(len(runes))
		}
	}
	ascent := g.Font.Ascent()
	offset := 0.0
	for _, s := range glyphSegments(g, len(runes), g.Color) {
		width := 0.0
		for _, a := range advances[s.start:s.end] {
			width += a
		}
		if !s.hidden {
			str, adv := string(runes[s.start:s.end]), advances[s.start:s.end]
			if o := s.outline; o != nil && o.Thickness > 0 {
				// 轮廓：在八个方向上先绘制轮廓色
				for _, d := range outlineOffsets {
					di, db := d[0]*o.Thickness, d[1]*o.Thickness
					if err := p.drawText(g.Font.Key(), str, adv, o.Color, f, i+offset+di, b+db, ascent); err != nil {
						return err
					}
				}
			}
			if err := p.drawText(g.Font.Key(), str, adv, s.color, f, i+offset, b, ascent); err != nil {
				return err
			}
		}
		offset += width
	}
	return nil
}

func (p *painter) drawText(key fonts.Key, s string, advances []float64, c style.Color, f frame, i, b, ascent float64) error {
	face, err := p.r.face(key, style.Color{R: c.R, G: c.G, B: c.B, A: alpha(c, f.opacity)})
	if err != nil {
		return err
	}
	if !f.vertical() {
		x, y := f.point(i, b+ascent)
		p.ctx.DrawText(mm(x), mm(y), canvas.NewTextLine(face, s, canvas.Left))
		return nil
	}
	// 竖排：逐字直立排列
	for k, ch := range []rune(s) {
		x, y := f.point(i, b)
		p.ctx.DrawText(mm(x), mm(y+ascent), canvas.NewTextLine(face, string(ch), canvas.Left))
		i += advances[k]
	}
	return nil
}

func alpha(c style.Color, opacity float64) uint8 {
	return uint8(float64(c.A)*max(0, min(1, opacity)) + 0.5)
}

func colorOf(c style.Color, opacity float64) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, float64(alpha(c, opacity))/255.0)
}
