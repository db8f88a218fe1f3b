package layout

import (
	"github.com/ByLCY/isdlayout/fonts"
	"github.com/ByLCY/isdlayout/param"
	"github.com/ByLCY/isdlayout/report"
	"github.com/ByLCY/isdlayout/style"
)

// NoLimit 表示不限制。
const NoLimit int64 = -1

// Limits 配置每个 canvas 的区域、行与字符上限，-1 表示不限制。
// 零值表示上限为 0，请使用 NoLimits 或 DefaultOptions。
type Limits struct {
	MaxRegions        int64
	MaxLines          int64
	MaxLinesPerRegion int64
	MaxChars          int64
	MaxCharsPerRegion int64
	MaxCharsPerLine   int64
}

// NoLimits 返回永不触发的上限。
func NoLimits() Limits {
	return Limits{
		MaxRegions:        NoLimit,
		MaxLines:          NoLimit,
		MaxLinesPerRegion: NoLimit,
		MaxChars:          NoLimit,
		MaxCharsPerRegion: NoLimit,
		MaxCharsPerLine:   NoLimit,
	}
}

// Options 配置布局处理器所需的共享服务：字体缓存、断行器、默认样式、外部参数与报告器。
type Options struct {
	Fonts            fonts.Cache
	LineBreaker      string
	CharacterBreaker string
	Defaults         *style.Defaults
	Params           *param.Store
	Reporter         report.Reporter
	Limits           Limits
}

const (
	DefaultLineBreaker      = "uax14"
	DefaultCharacterBreaker = "grapheme"
)

// DefaultOptions 返回使用内置 Go 字体、不设上限的选项。
func DefaultOptions() Options {
	return Options{Limits: NoLimits()}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.Fonts == nil {
		cache, err := fonts.NewGoFontCache()
		if err != nil {
			tracer().Errorf("内置字体不可用，改用点阵字体: %v", err)
			o.Fonts = fonts.NewFaceCache(nil)
		} else {
			o.Fonts = cache
		}
	}
	if o.LineBreaker == "" {
		o.LineBreaker = DefaultLineBreaker
	}
	if o.CharacterBreaker == "" {
		o.CharacterBreaker = DefaultCharacterBreaker
	}
	if o.Defaults == nil {
		o.Defaults = style.NewDefaults()
	}
	if o.Params == nil {
		o.Params = param.New(nil)
	}
	if o.Reporter == nil {
		o.Reporter = &report.Tracer{}
	}
	return o
}
