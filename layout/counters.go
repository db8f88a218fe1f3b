package layout

import (
	"github.com/ByLCY/isdlayout/area"
	"github.com/ByLCY/isdlayout/text"
)

// Counter 表示一个按画布统计的计数器。
type Counter int

const (
	RegionsInCanvas Counter = iota
	LinesInCanvas
	LinesInRegion
	MaxLinesInRegion
	CharsInCanvas
	CharsInRegion
	MaxCharsInRegion
	CharsInLine
	MaxCharsInLine
	numCounters
)

var counterNames = [...]string{"regionsInCanvas", "linesInCanvas", "linesInRegion", "maxLinesInRegion",
	"charsInCanvas", "charsInRegion", "maxCharsInRegion", "charsInLine", "maxCharsInLine"}

func (c Counter) String() string {
	if c >= 0 && c < numCounters {
		return counterNames[c]
	}
	return "unknown"
}

// CounterEvent 驱动计数器更新。
type CounterEvent int

const (
	EventReset CounterEvent = iota
	EventAddRegion
	EventAddLine
)

// Counters 在同一画布内单调不减。
type Counters [numCounters]int64

// Get returns the value of c.
func (cs *Counters) Get(c Counter) int64 { return cs[c] }

// Increment 应用一个事件；EventAddLine 时 line 为新加入的行。
func (cs *Counters) Increment(event CounterEvent, tree *area.Tree, line *area.Node) {
	switch event {
	case EventReset:
		*cs = Counters{}
	case EventAddRegion:
		cs.rollupRegion()
		cs[RegionsInCanvas]++
		cs[LinesInRegion] = 0
		cs[CharsInRegion] = 0
	case EventAddLine:
		cs.rollupLine()
		chars := int64(countChars(tree, line))
		cs[LinesInCanvas]++
		cs[LinesInRegion]++
		cs[CharsInCanvas] += chars
		cs[CharsInRegion] += chars
		cs[CharsInLine] = chars
		cs.rollupLine()
	}
}

// Finalize 将当前区域与当前行的计数并入最大值。
func (cs *Counters) Finalize() {
	cs.rollupRegion()
	cs.rollupLine()
}

func (cs *Counters) rollupRegion() {
	cs[MaxLinesInRegion] = max(cs[MaxLinesInRegion], cs[LinesInRegion])
	cs[MaxCharsInRegion] = max(cs[MaxCharsInRegion], cs[CharsInRegion])
}

func (cs *Counters) rollupLine() {
	cs[MaxCharsInLine] = max(cs[MaxCharsInLine], cs[CharsInLine])
}

// countChars 统计一行呈现的字符数，包含内嵌行的字符，
// 不含注音与双向控制字符。
func countChars(tree *area.Tree, line *area.Node) int {
	if tree == nil || line == nil {
		return 0
	}
	n := 0
	for _, c := range tree.Children(line) {
		switch c.Kind {
		case area.KindGlyph, area.KindSpace:
			for _, r := range c.Text() {
				if !text.IsBidiControl(r) {
					n++
				}
			}
		case area.KindInlineBlock:
			for _, l := range tree.Children(c) {
				n += countChars(tree, l)
			}
		}
	}
	return n
}
