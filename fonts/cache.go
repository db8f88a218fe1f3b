package fonts

import (
	"strings"
	"sync"

	"github.com/ByLCY/isdlayout/style"
)

// DefaultFamily 是请求的字体族未知时使用的字体族。
const DefaultFamily = "default"

// FaceCache 是基于已注册字体面来源的 Cache。字体在首次使用时创建，
// 并在缓存的整个生命周期内保留。
type FaceCache struct {
	mu      sync.Mutex
	sources map[string]FaceSource
	fonts   map[Key]*FaceFont
}

var _ Cache = (*FaceCache)(nil)

// NewFaceCache 返回一个缓存，其默认字体族由 def 提供；
// def 为 nil 时使用 7x13 点阵字体。
func NewFaceCache(def FaceSource) *FaceCache {
	if def == nil {
		def = BasicSource()
	}
	c := &FaceCache{sources: map[string]FaceSource{}, fonts: map[Key]*FaceFont{}}
	c.Register(DefaultFamily, "", "", def)
	return c
}

// NewGoFontCache 提供内置 Go 字体：名称含 "mono" 的字体族用等宽字体，
// 其余使用比例字体。
func NewGoFontCache() (*FaceCache, error) {
	c := NewFaceCache(nil)
	variants := []struct{ family, fontStyle, weight string }{
		{DefaultFamily, "", ""},
		{DefaultFamily, "", "bold"},
		{DefaultFamily, "italic", ""},
		{DefaultFamily, "italic", "bold"},
		{"monospace", "", ""},
	}
	for _, v := range variants {
		data, err := Load(BuiltinFile(v.family, v.fontStyle, v.weight))
		if err != nil {
			return nil, err
		}
		src, err := OpenTypeSource(data)
		if err != nil {
			return nil, err
		}
		c.Register(v.family, v.fontStyle, v.weight, src)
	}
	return c, nil
}

// Register 将字体族（可限定样式与字重）绑定到一个来源。
func (c *FaceCache) Register(family, fontStyle, weight string, src FaceSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[sourceKey(family, fontStyle, weight)] = src
}

func (c *FaceCache) DefaultFont(axis style.Axis, size float64) Font {
	return c.Font(Key{Family: DefaultFamily, Size: size, Axis: axis})
}

// Font 返回 key 对应的字体，先回退到该字体族的常规变体，
// 再回退到具有相同样式与字重的默认字体族。
func (c *FaceCache) Font(key Key) Font {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.fonts[key]; ok {
		return f
	}
	src := c.lookup(key)
	face, em := src(key.Size)
	f := NewFaceFont(key, face, em)
	c.fonts[key] = f
	return f
}

func (c *FaceCache) lookup(key Key) FaceSource {
	family := key.Family
	if strings.Contains(strings.ToLower(family), "mono") {
		if _, ok := c.sources[sourceKey("monospace", "", "")]; ok {
			family = "monospace"
		}
	}
	candidates := []string{
		sourceKey(family, key.Style, key.Weight),
		sourceKey(family, "", ""),
		sourceKey(DefaultFamily, key.Style, key.Weight),
		sourceKey(DefaultFamily, "", key.Weight),
		sourceKey(DefaultFamily, key.Style, ""),
	}
	for _, k := range candidates {
		if src, ok := c.sources[k]; ok {
			return src
		}
	}
	tracer().Debugf("no source for font %s, using default", key)
	return c.sources[sourceKey(DefaultFamily, "", "")]
}

func sourceKey(family, fontStyle, weight string) string {
	if fontStyle == "normal" {
		fontStyle = ""
	}
	if weight == "normal" {
		weight = ""
	}
	return strings.ToLower(family) + "|" + fontStyle + "|" + weight
}
