// Package isd 保存 ISD（Intermediate Synchronic Document）的元素树，
// 即布局处理器的输入。
package isd

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Node 要么是子元素，要么是一段字符数据。
type Node struct {
	Element *Element
	Text    string
}

// Element 是文档树中的一个元素。
type Element struct {
	Name    xml.Name
	Attrs   []xml.Attr
	Content []Node
	Parent  *Element
}

// Document 包装根元素（isd:sequence 或 isd:isd）。
type Document struct {
	Root *Element
}

// Parse 解析 ISD 文档。
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	var root *Element
	var stack []*Element
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("解析 ISD 失败: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			e := &Element{Name: t.Name, Attrs: filterAttrs(t.Attr)}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				e.Parent = parent
				parent.Content = append(parent.Content, Node{Element: e})
			} else if root == nil {
				root = e
			}
			stack = append(stack, e)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.Content = append(top.Content, Node{Text: string(t)})
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("解析 ISD 失败: 缺少根元素")
	}
	return &Document{Root: root}, nil
}

// ParseString 解析字符串形式的 ISD 文档。
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func filterAttrs(attrs []xml.Attr) []xml.Attr {
	out := make([]xml.Attr, 0, len(attrs))
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Is 判断元素是否具有给定的限定名。
func (e *Element) Is(name xml.Name) bool {
	return e != nil && e.Name == name
}

// Attr 返回属性值。
func (e *Element) Attr(name xml.Name) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// ID returns xml:id, or "".
func (e *Element) ID() string {
	id, _ := e.Attr(AttrID)
	return id
}

// Elements 按文档顺序返回子元素。
func (e *Element) Elements() []*Element {
	var children []*Element
	for _, n := range e.Content {
		if n.Element != nil {
			children = append(children, n.Element)
		}
	}
	return children
}

// Text 拼接所有后代字符数据。
func (e *Element) Text() string {
	var sb strings.Builder
	e.appendText(&sb)
	return sb.String()
}

func (e *Element) appendText(sb *strings.Builder) {
	for _, n := range e.Content {
		if n.Element != nil {
			n.Element.appendText(sb)
		} else {
			sb.WriteString(n.Text)
		}
	}
}

func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	if id := e.ID(); id != "" {
		return fmt.Sprintf("%s#%s", e.Name.Local, id)
	}
	return e.Name.Local
}
