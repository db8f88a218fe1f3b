package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体：Go 字体家族，随二进制一起分发。
var builtin = map[string][]byte{
	"Go-Regular.ttf":     goregular.TTF,
	"Go-Bold.ttf":        gobold.TTF,
	"Go-Italic.ttf":      goitalic.TTF,
	"Go-Bold-Italic.ttf": gobolditalic.TTF,
	"Go-Mono.ttf":        gomono.TTF,
}

// DefaultFontFile 是缺省字体的内置文件名。
const DefaultFontFile = "Go-Regular.ttf"

// Load 返回内置字体的字节数据，path 可写为 "embed:Go-Regular.ttf" 或直接 "Go-Regular.ttf"。
func Load(path string) ([]byte, error) {
	name := strings.TrimPrefix(strings.TrimPrefix(path, "embed:"), "builtin:")
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", name)
	}
	return data, nil
}

// BuiltinNames 返回全部内置字体文件名（已排序）。
func BuiltinNames() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuiltinFile 按字族、字形与字重挑选内置字体文件。
func BuiltinFile(family, fontStyle, weight string) string {
	f := strings.ToLower(family)
	if strings.Contains(f, "mono") {
		return "Go-Mono.ttf"
	}
	bold := weight == "bold"
	italic := fontStyle == "italic" || fontStyle == "oblique"
	switch {
	case bold && italic:
		return "Go-Bold-Italic.ttf"
	case bold:
		return "Go-Bold.ttf"
	case italic:
		return "Go-Italic.ttf"
	}
	return DefaultFontFile
}
