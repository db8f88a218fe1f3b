package text

import "unicode"

// 对排版有意义的字符。
const (
	LineFeed           = '\u000A'
	CarriageReturn     = '\u000D'
	Space              = ' '
	NoBreakSpace       = '\u00A0'
	SoftHyphen         = '\u00AD'
	HyphenMinus        = '-'
	LineSeparator      = '\u2028'
	ParagraphSeparator = '\u2029'
	ObjectReplacement  = '\uFFFC'
)

// IsWhitespace 判断可断行空白；不换行空格属于内容。
func IsWhitespace(r rune) bool {
	switch r {
	case NoBreakSpace, '\u2007', '\u202F', '\uFEFF':
		return false
	case Space, '\t', LineFeed, CarriageReturn, LineSeparator, ParagraphSeparator:
		return true
	}
	return unicode.IsSpace(r)
}

// IsHyphenationPoint 判断其后可以连字符断行的字符。
func IsHyphenationPoint(r rune) bool {
	return r == HyphenMinus || r == SoftHyphen
}

// IsIdeograph 判断 CJK 表意文字与假名，它们在字符之间断行。
func IsIdeograph(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana)
}

// IsBidiControl 判断不占空间的方向格式字符。
func IsBidiControl(r rune) bool {
	switch {
	case r == '\u061C', r == '\u200E', r == '\u200F':
		return true
	case r >= '\u202A' && r <= '\u202E':
		return true
	case r >= '\u2066' && r <= '\u2069':
		return true
	}
	return false
}
