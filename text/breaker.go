package text

import (
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// LineBreaker 遍历文本的断点，偏移以 rune 计；
// First 返回 0，Next 依次返回后续边界直到末尾。
type LineBreaker interface {
	SetText(s string)
	First() int
	Next() (int, bool)
	Current() int
}

// segmenter 切出 s 的第一个片段，并传递 uniseg 的状态。
type segmenter func(s string, state int) (segment, rest string, newState int)

// boundaryBreaker 用 segmenter 预先计算所有边界。
type boundaryBreaker struct {
	segment    segmenter
	boundaries []int
	index      int
}

func (b *boundaryBreaker) SetText(s string) {
	b.boundaries = b.boundaries[:0]
	b.boundaries = append(b.boundaries, 0)
	b.index = 0
	offset, state := 0, -1
	for len(s) > 0 {
		var seg string
		seg, s, state = b.segment(s, state)
		offset += utf8.RuneCountInString(seg)
		b.boundaries = append(b.boundaries, offset)
	}
}

func (b *boundaryBreaker) First() int {
	b.index = 0
	return b.Current()
}

func (b *boundaryBreaker) Next() (int, bool) {
	if b.index+1 >= len(b.boundaries) {
		return b.Current(), false
	}
	b.index++
	return b.boundaries[b.index], true
}

func (b *boundaryBreaker) Current() int {
	if len(b.boundaries) == 0 {
		return 0
	}
	return b.boundaries[b.index]
}

// NewLineBreaker 返回按 UAX #14 断行机会断开的迭代器。
func NewLineBreaker() LineBreaker {
	return &boundaryBreaker{segment: func(s string, state int) (string, string, int) {
		seg, rest, _, newState := uniseg.FirstLineSegmentInString(s, state)
		return seg, rest, newState
	}}
}

// NewCharacterBreaker 返回按字素簇边界断开的迭代器。
func NewCharacterBreaker() LineBreaker {
	return &boundaryBreaker{segment: func(s string, state int) (string, string, int) {
		cluster, rest, _, newState := uniseg.FirstGraphemeClusterInString(s, state)
		return cluster, rest, newState
	}}
}

// BreakerFactory 创建断点迭代器实例。
type BreakerFactory func() LineBreaker

var (
	breakersMu sync.RWMutex
	breakers   = map[string]BreakerFactory{
		"uax14":    NewLineBreaker,
		"grapheme": NewCharacterBreaker,
		"scalar":   NewCharacterBreaker,
	}
)

// RegisterBreaker 按名称注册断点迭代器。
func RegisterBreaker(name string, factory BreakerFactory) {
	breakersMu.Lock()
	defer breakersMu.Unlock()
	breakers[name] = factory
}

// NewBreaker 创建已注册的断点迭代器。
func NewBreaker(name string) (LineBreaker, error) {
	breakersMu.RLock()
	defer breakersMu.RUnlock()
	factory, ok := breakers[name]
	if !ok {
		return nil, fmt.Errorf("未知的断点迭代器 %q", name)
	}
	return factory(), nil
}

// BreakerNames 列出已注册的断点迭代器。
func BreakerNames() []string {
	breakersMu.RLock()
	defer breakersMu.RUnlock()
	names := make([]string, 0, len(breakers))
	for name := range breakers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
