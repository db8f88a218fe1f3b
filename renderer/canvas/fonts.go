package canvasrenderer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/isdlayout/fonts"
	"github.com/ByLCY/isdlayout/style"
)

// 布局以 px 计量，canvas 以 mm 计量、字号以 pt 计量。
const (
	pxToMm = 25.4 / 96
	pxToPt = 0.75
)

func mm(px float64) float64 { return px * pxToMm }

// loadFamily 按 fonts.Key 取得 canvas 字体族；每个字体文件单独成族。
func (r *Renderer) loadFamily(key fonts.Key) (*canvas.FontFamily, error) {
	src := r.fontSource(key)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if family, ok := r.fontFamilies[src]; ok {
		return family, nil
	}
	data, err := r.loadFontBytes(src)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(src)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", src, err)
	}
	r.fontFamilies[src] = family
	return family, nil
}

// fontSource 先查注入的资源，再按字族挑选内置 Go 字体。
func (r *Renderer) fontSource(key fonts.Key) string {
	if _, ok := r.fontBlobs[strings.ToLower(key.Family)]; ok {
		return "built-in:" + strings.ToLower(key.Family)
	}
	return "embed:" + fonts.BuiltinFile(key.Family, key.Style, key.Weight)
}

func (r *Renderer) loadFontBytes(src string) ([]byte, error) {
	if strings.HasPrefix(src, "built-in:") {
		name := strings.TrimPrefix(src, "built-in:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 %s", src)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func (r *Renderer) face(key fonts.Key, col style.Color) (*canvas.FontFace, error) {
	family, err := r.loadFamily(key)
	if err != nil {
		return nil, err
	}
	return family.Face(key.Size*pxToPt, colorOf(col, 1), canvas.FontRegular, canvas.FontNormal), nil
}

// --- fonts.Cache ---

var _ fonts.Cache = (*Renderer)(nil)

func (r *Renderer) DefaultFont(axis style.Axis, size float64) fonts.Font {
	return r.Font(fonts.Key{Family: fonts.DefaultFamily, Size: size, Axis: axis})
}

// Font 返回以 canvas 字形度量实现的字体；加载失败时退回默认字族。
func (r *Renderer) Font(key fonts.Key) fonts.Font {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	if f, ok := r.fonts[key]; ok {
		return f
	}
	ff, err := r.face(key, style.Black)
	if err != nil {
		tracer().Errorf("加载字体 %s 失败: %v", key, err)
		fallback := key
		fallback.Family, fallback.Style, fallback.Weight = fonts.DefaultFamily, "", ""
		if ff, err = r.face(fallback, style.Black); err != nil {
			tracer().Errorf("加载默认字体失败: %v", err)
			return nil
		}
	}
	f := &Font{key: key, face: ff}
	r.fonts[key] = f
	return f
}

// Font 用 canvas 字体面实现 fonts.Font。
type Font struct {
	key  fonts.Key
	face *canvas.FontFace

	mu       sync.Mutex
	mappings map[string]*fonts.GlyphMapping
}

var _ fonts.Font = (*Font)(nil)

func (f *Font) Key() fonts.Key  { return f.key }
func (f *Font) Size() float64   { return f.key.Size }
func (f *Font) Ascent() float64 { return f.face.Metrics().Ascent / pxToMm }
func (f *Font) Descent() float64 {
	return f.face.Metrics().Descent / pxToMm
}

func (f *Font) Leading() float64 {
	m := f.face.Metrics()
	return max(0, (m.LineHeight-m.Ascent-m.Descent)/pxToMm)
}

// GlyphMapping 逐字符测量；启用字距时以相邻字符对的宽度差计入字距。
// 返回的前进量已按字号缩放。
func (f *Font) GlyphMapping(text string, features fonts.FeatureSet) *fonts.GlyphMapping {
	k := fmt.Sprintf("%t|%s", features.Kerning, text)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mappings == nil {
		f.mappings = map[string]*fonts.GlyphMapping{}
	}
	if m, ok := f.mappings[k]; ok {
		m := *m
		m.Features = features
		return &m
	}
	m := &fonts.GlyphMapping{Text: text, Features: features}
	prev := ""
	for _, c := range text {
		s := string(c)
		adv := f.face.TextWidth(s)
		if features.Kerning && prev != "" {
			adv = f.face.TextWidth(prev+s) - f.face.TextWidth(prev)
		}
		m.Glyphs = append(m.Glyphs, c)
		m.Advances = append(m.Advances, max(0, adv/pxToMm))
		prev = s
	}
	f.mappings[k] = m
	return m
}

func (f *Font) ScaledAdvance(m *fonts.GlyphMapping) float64 {
	if m == nil {
		return 0
	}
	sum := 0.0
	for _, a := range m.Advances {
		sum += a
	}
	return sum
}
