package style

import "sort"

// StyleSet 中使用的限定样式属性名。
const (
	AttrBackgroundColor = "tts:backgroundColor"
	AttrColor           = "tts:color"
	AttrDirection       = "tts:direction"
	AttrDisplay         = "tts:display"
	AttrDisplayAlign    = "tts:displayAlign"
	AttrExtent          = "tts:extent"
	AttrFontFamily      = "tts:fontFamily"
	AttrFontKerning     = "tts:fontKerning"
	AttrFontSize        = "tts:fontSize"
	AttrFontStyle       = "tts:fontStyle"
	AttrFontWeight      = "tts:fontWeight"
	AttrLineHeight      = "tts:lineHeight"
	AttrOpacity         = "tts:opacity"
	AttrOrigin          = "tts:origin"
	AttrOverflow        = "tts:overflow"
	AttrPadding         = "tts:padding"
	AttrPosition        = "tts:position"
	AttrRuby            = "tts:ruby"
	AttrRubyAlign       = "tts:rubyAlign"
	AttrRubyOffset      = "tts:rubyOffset"
	AttrRubyPosition    = "tts:rubyPosition"
	AttrRubyReserve     = "tts:rubyReserve"
	AttrShear           = "tts:shear"
	AttrTextAlign       = "tts:textAlign"
	AttrTextCombine     = "tts:textCombine"
	AttrTextOrientation = "tts:textOrientation"
	AttrTextOutline     = "tts:textOutline"
	AttrUnicodeBidi     = "tts:unicodeBidi"
	AttrVisibility      = "tts:visibility"
	AttrWrapOption      = "tts:wrapOption"
	AttrWritingMode     = "tts:writingMode"
	AttrLang            = "xml:lang"
	AttrSpace           = "xml:space"
)

// StyleSet 是从限定属性名到计算值字符串的不可变映射。
// 值由布局状态的类型化访问器按需解析。
type StyleSet struct {
	id     string
	values map[string]string
}

// Empty 是没有计算样式的元素所用的样式集。
var Empty = &StyleSet{}

// NewStyleSet copies values into a new set.
func NewStyleSet(id string, values map[string]string) *StyleSet {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return &StyleSet{id: id, values: cp}
}

func (s *StyleSet) ID() string { return s.id }

// Get returns the value of a qualified attribute.
func (s *StyleSet) Get(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.values[name]
	return v, ok
}

// Value 返回属性值，缺失时返回 def。
func (s *StyleSet) Value(name, def string) string {
	if v, ok := s.Get(name); ok {
		return v
	}
	return def
}

func (s *StyleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Names returns the attribute names in sorted order.
func (s *StyleSet) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.values))
	for k := range s.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
