package isd

import (
	"encoding/xml"

	"github.com/ByLCY/isdlayout/style"
)

var prefixes = map[string]string{
	NamespaceTTS: "tts",
	NamespaceTTP: "ttp",
	NamespaceXML: "xml",
	NamespaceISD: "isd",
}

// QualifiedName 以命名空间的惯用前缀输出 name。
func QualifiedName(name xml.Name) string {
	if p, ok := prefixes[name.Space]; ok {
		return p + ":" + name.Local
	}
	return name.Local
}

// Styles 为一个实例中的计算样式集（isd:css）建立索引。
type Styles struct {
	sets map[string]*style.StyleSet
}

// CollectStyles 收集 root 之下所有 isd:css 元素。
func CollectStyles(root *Element) *Styles {
	s := &Styles{sets: map[string]*style.StyleSet{}}
	var walk func(*Element)
	walk = func(e *Element) {
		if e.Is(ComputedStyleSet) {
			values := make(map[string]string, len(e.Attrs))
			for _, a := range e.Attrs {
				if a.Name == AttrID {
					continue
				}
				values[QualifiedName(a.Name)] = a.Value
			}
			s.sets[e.ID()] = style.NewStyleSet(e.ID(), values)
			return
		}
		for _, c := range e.Elements() {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return s
}

// Len returns the number of style sets.
func (s *Styles) Len() int { return len(s.sets) }

// Lookup 返回指定 id 的样式集。
func (s *Styles) Lookup(id string) (*style.StyleSet, bool) {
	ss, ok := s.sets[id]
	return ss, ok
}

// Of 返回 e 的计算样式集，不存在时返回 style.Empty。
func (s *Styles) Of(e *Element) *style.StyleSet {
	if s == nil {
		return style.Empty
	}
	id, ok := e.Attr(AttrCSS)
	if !ok {
		return style.Empty
	}
	if ss, ok := s.sets[id]; ok {
		return ss
	}
	return style.Empty
}
