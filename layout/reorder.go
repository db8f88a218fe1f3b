package layout

import (
	"fmt"
	"math"

	"golang.org/x/text/unicode/bidi"

	"github.com/ByLCY/isdlayout/area"
)

// bidiOrder 返回给定嵌入层级下各项的视觉顺序，以及每项被反转的次数。
// 从最高层级到最低的奇数层级，依次反转每个层级不低于当前层级的
// 最长连续片段。
func bidiOrder(levels []int) (order, reversals []int) {
	n := len(levels)
	order = make([]int, n)
	reversals = make([]int, n)
	for i := range order {
		order[i] = i
	}
	if n == 0 {
		return order, reversals
	}
	lo, hi := math.MaxInt, -1
	for i, lv := range levels {
		if lv < 0 {
			panic(fmt.Sprintf("layout: 第 %[2]d 项的双向层级 %[1]d 为负", lv, i))
		}
		lo, hi = min(lo, lv), max(hi, lv)
	}
	lowestOdd := lo
	if lowestOdd%2 == 0 {
		lowestOdd++
	}
	for lvl := hi; lvl >= lowestOdd; lvl-- {
		for i := 0; i < n; {
			if levels[order[i]] < lvl {
				i++
				continue
			}
			j := i
			for j < n && levels[order[j]] >= lvl {
				j++
			}
			for a, b := i, j-1; a < b; a, b = a+1, b-1 {
				order[a], order[b] = order[b], order[a]
			}
			for k := i; k < j; k++ {
				reversals[order[k]]++
			}
			i = j
		}
	}
	return order, reversals
}

// inlineUnit 是一个行内子节点及其前面挂接的注音行，整体移动。
type inlineUnit struct {
	nodes []*area.Node
	base  *area.Node
}

func inlineUnits(tree *area.Tree, line *area.Node) (units []inlineUnit, trailing []*area.Node) {
	var pending []*area.Node
	for _, c := range tree.Children(line) {
		if c.Kind == area.KindAnnotation {
			pending = append(pending, c)
			continue
		}
		units = append(units, inlineUnit{nodes: append(pending, c), base: c})
		pending = nil
	}
	return units, pending
}

// reorderLine 将行内子节点排成视觉顺序，反转奇数次的字形做镜像。
func (l *lineLayout) reorderLine(line *area.Node) {
	units, trailing := inlineUnits(l.tree, line)
	levels := make([]int, len(units))
	for i, u := range units {
		levels[i] = u.base.Level
	}
	order, reversals := bidiOrder(levels)
	changed := false
	out := make([]*area.Node, 0, len(line.Children))
	for k, i := range order {
		if k != i {
			changed = true
		}
		u := units[i]
		if g := u.base.Glyph; g != nil && reversals[i] > 0 {
			g.Reversals += reversals[i]
			if reversals[i]%2 == 1 {
				g.Text = bidi.ReverseString(g.Text)
				if g.Font != nil && g.Mapping != nil {
					g.Mapping = g.Font.GlyphMapping(g.Text, g.Mapping.Features)
				}
			}
		}
		out = append(out, u.nodes...)
	}
	if !changed {
		return
	}
	out = append(out, trailing...)
	l.tree.SetChildren(line, out)
}
