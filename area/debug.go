package area

import (
	"encoding/json"
	"os"

	"github.com/ByLCY/isdlayout/fonts"
)

// debugNode 以嵌套子节点的形式输出 JSON。
type debugNode struct {
	*Node
	Element  string       `json:"element,omitempty"`
	Children []*debugNode `json:"children,omitempty"`
}

func (t *Tree) debugNode(n *Node) *debugNode {
	d := &debugNode{Node: n}
	if n.Element != nil {
		d.Element = n.Element.String()
	}
	for _, c := range t.Children(n) {
		d.Children = append(d.Children, t.debugNode(c))
	}
	return d
}

// MarshalJSON 从根节点开始嵌套输出整棵树。
func (t *Tree) MarshalJSON() ([]byte, error) {
	root := t.Root()
	if root == nil {
		return []byte("null"), nil
	}
	return json.Marshal(t.debugNode(root))
}

// MarshalJSON adds the font key to the glyph.
func (g *Glyph) MarshalJSON() ([]byte, error) {
	type glyph Glyph
	var key *fonts.Key
	if g.Font != nil {
		k := g.Font.Key()
		key = &k
	}
	return json.Marshal(struct {
		*glyph
		Font *fonts.Key `json:"font,omitempty"`
	}{(*glyph)(g), key})
}

// WriteDebugJSON 将区域树输出为 JSON，便于调试或可视化。
func WriteDebugJSON(trees []*Tree, path string) error {
	if len(trees) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(trees, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
