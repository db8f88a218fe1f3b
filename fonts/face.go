package fonts

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FaceSource 按请求的字号返回字体面，以及该字体面对应的 em 大小；
// 前进宽度按 size/em 缩放。
type FaceSource func(size float64) (font.Face, float64)

// BasicSource 在任意字号下都提供固定的 7x13 点阵字体。
func BasicSource() FaceSource {
	return func(float64) (font.Face, float64) {
		return basicfont.Face7x13, 13
	}
}

// OpenTypeSource 只解析一次 TrueType/OpenType 数据，并按字号创建字体面。
func OpenTypeSource(data []byte) (FaceSource, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return func(size float64) (font.Face, float64) {
		if size <= 0 {
			size = 1
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
		if err != nil {
			tracer().Errorf("无法创建 %g 字号的字体面: %v", size, err)
			return basicfont.Face7x13, 13
		}
		return face, size
	}, nil
}

// FaceFont 基于 golang.org/x/image/font.Face 实现 Font。
type FaceFont struct {
	key   Key
	face  font.Face
	scale float64

	mu       sync.Mutex
	mappings map[mappingKey]*GlyphMapping
}

type mappingKey struct {
	text     string
	features FeatureSet
}

var _ Font = (*FaceFont)(nil)

// NewFaceFont 包装按 em 大小 faceSize 创建的 face。
func NewFaceFont(key Key, face font.Face, faceSize float64) *FaceFont {
	scale := 1.0
	if faceSize > 0 && key.Size > 0 {
		scale = key.Size / faceSize
	}
	return &FaceFont{key: key, face: face, scale: scale, mappings: map[mappingKey]*GlyphMapping{}}
}

func (f *FaceFont) Key() Key      { return f.key }
func (f *FaceFont) Size() float64 { return f.key.Size }

func (f *FaceFont) Ascent() float64 {
	return fixedToFloat(f.face.Metrics().Ascent) * f.scale
}

func (f *FaceFont) Descent() float64 {
	return fixedToFloat(f.face.Metrics().Descent) * f.scale
}

func (f *FaceFont) Leading() float64 {
	m := f.face.Metrics()
	leading := fixedToFloat(m.Height-m.Ascent-m.Descent) * f.scale
	if leading < 0 {
		return 0
	}
	return leading
}

// GlyphMapping 逐个 rune 映射文本；没有字形的 rune 前进宽度为 0。
func (f *FaceFont) GlyphMapping(text string, features FeatureSet) *GlyphMapping {
	k := mappingKey{text: text, features: features}
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.mappings[k]; ok {
		return m
	}
	m := &GlyphMapping{Text: text, Features: features}
	prev := rune(-1)
	for _, r := range text {
		adv, ok := f.face.GlyphAdvance(r)
		if !ok {
			adv = 0
		}
		if features.Kerning && prev >= 0 {
			adv += f.face.Kern(prev, r)
		}
		m.Glyphs = append(m.Glyphs, r)
		m.Advances = append(m.Advances, fixedToFloat(adv))
		prev = r
	}
	f.mappings[k] = m
	return m
}

// ScaledAdvance 按当前字号累加映射结果的前进宽度。
func (f *FaceFont) ScaledAdvance(m *GlyphMapping) float64 {
	if m == nil {
		return 0
	}
	var sum float64
	for _, a := range m.Advances {
		sum += a
	}
	return sum * f.scale
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
