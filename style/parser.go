package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	valueLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d*|\.\d+|\d+)`},
		{Name: "Unit", Pattern: `px|em|rw|rh|vw|vh|c|%`},
	})

	lengthsParser = participle.MustBuild[lengthList](
		participle.Lexer(valueLexer),
		participle.Elide("Whitespace"),
	)
)

// lengthList 是以空白分隔的长度列表的语法根，
// 例如 tts:extent="640px 10%" 或 tts:padding="1c 2c"。
type lengthList struct {
	Items []*lengthTerm `parser:"@@+"`
}

type lengthTerm struct {
	Number string `parser:"@Number"`
	Unit   string `parser:"@Unit?"`
}

// ParseLengths 解析非空的长度列表。
func ParseLengths(value string) ([]Length, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("长度列表为空")
	}
	ast, err := lengthsParser.ParseString("", value)
	if err != nil {
		return nil, fmt.Errorf("无效的长度列表 %q: %w", value, err)
	}
	lengths := make([]Length, 0, len(ast.Items))
	for _, item := range ast.Items {
		v, err := strconv.ParseFloat(item.Number, 64)
		if err != nil {
			return nil, fmt.Errorf("无效的数值 %q: %w", item.Number, err)
		}
		u, ok := unitFromString(item.Unit)
		if !ok {
			return nil, fmt.Errorf("未知的单位 %q", item.Unit)
		}
		lengths = append(lengths, Length{Value: v, Unit: u})
	}
	return lengths, nil
}

// ParseLength 解析恰好一个长度。
func ParseLength(value string) (Length, error) {
	lengths, err := ParseLengths(value)
	if err != nil {
		return Length{}, err
	}
	if len(lengths) != 1 {
		return Length{}, fmt.Errorf("%q 应只含一个长度，实际为 %d 个", value, len(lengths))
	}
	return lengths[0], nil
}

// ParseNumber 解析普通数字，失败时返回 def。
func ParseNumber(value string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return def
	}
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
