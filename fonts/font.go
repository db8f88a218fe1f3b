// Package fonts 提供行排版所用的字体与字形度量服务。
package fonts

import (
	"fmt"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"

	"github.com/ByLCY/isdlayout/style"
)

// tracer traces with key 'isdlayout.fonts'
func tracer() tracing.Trace {
	return tracing.Select("isdlayout.fonts")
}

// Key 标识一个字体实例。
type Key struct {
	Family string     `json:"family"`
	Style  string     `json:"style,omitempty"`
	Weight string     `json:"weight,omitempty"`
	Size   float64    `json:"size"`
	Axis   style.Axis `json:"axis,omitempty"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s/%g", k.Family, k.Style, k.Weight, k.Size)
}

// FeatureSet 选择文本映射到字形时启用的字体特性。
type FeatureSet struct {
	Script      string
	Language    string
	Level       int
	Kerning     bool
	Orientation style.Orientation
	Combination style.Combination
}

// GlyphMapping 是文本映射到字形的结果：每个 rune 对应一个字形
// 和一个未缩放的前进宽度。
type GlyphMapping struct {
	Text     string
	Glyphs   []rune
	Advances []float64
	Features FeatureSet
}

// Font 回答某一字体族、样式、字重与字号下的度量查询。
type Font interface {
	Key() Key
	Size() float64
	Ascent() float64
	Descent() float64
	Leading() float64
	GlyphMapping(text string, features FeatureSet) *GlyphMapping
	ScaledAdvance(m *GlyphMapping) float64
}

// Cache 提供字体。实现按需加载，可在顺序执行的多次排版间只读共享。
type Cache interface {
	DefaultFont(axis style.Axis, size float64) Font
	Font(key Key) Font
}

// Advance 测量文本宽度，nil 字体测得 0。
// 旋转的字形每个 rune 前进字体的 ascent 加 descent。
func Advance(f Font, text string, features FeatureSet) float64 {
	if f == nil || text == "" {
		return 0
	}
	if features.Orientation.IsRotated() {
		return float64(utf8.RuneCountInString(text)) * (f.Ascent() + f.Descent())
	}
	if features.Combination == style.CombineAll {
		// 组合文字在行内方向占一个 em
		return f.Size()
	}
	return f.ScaledAdvance(f.GlyphMapping(text, features))
}

// LineHeight 为 ascent、descent 与 leading 之和。
func LineHeight(f Font) float64 {
	if f == nil {
		return 0
	}
	return f.Ascent() + f.Descent() + f.Leading()
}
