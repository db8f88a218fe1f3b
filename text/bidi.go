package text

import "golang.org/x/text/unicode/bidi"

type strength int

const (
	strengthNeutral strength = iota
	strengthLTR
	strengthRTL
	strengthNumber
)

func classify(r rune) strength {
	props, _ := bidi.LookupRune(r)
	switch props.Class() {
	case bidi.L:
		return strengthLTR
	case bidi.R, bidi.AL:
		return strengthRTL
	case bidi.EN, bidi.AN:
		return strengthNumber
	}
	return strengthNeutral
}

// ResolveLevels 在显式嵌入层级之上分配隐式层级。
// 这是简化的双向算法：在每段显式层级相同的区间内，方向相反的强字符
// 及被它们包围的中性字符提升一级；数字跟随前面的强方向。
// override 标记的字符保持显式层级。
func ResolveLevels(text []rune, explicit []int, override []bool) []int {
	levels := make([]int, len(text))
	copy(levels, explicit)
	for start := 0; start < len(text); {
		end := start + 1
		for end < len(text) && explicit[end] == explicit[start] && override[end] == override[start] {
			end++
		}
		if !override[start] {
			resolveStretch(text[start:end], levels[start:end], explicit[start])
		}
		start = end
	}
	return levels
}

func resolveStretch(text []rune, levels []int, base int) {
	opposite := strengthRTL
	if base%2 == 1 {
		opposite = strengthLTR
	}
	last := -1 // 最后一个被提升的强字符的下标
	prevStrong := strengthNeutral
	for i, r := range text {
		s := classify(r)
		raise := false
		switch s {
		case opposite:
			raise = true
			if last >= 0 {
				for k := last + 1; k < i; k++ {
					levels[k] = base + 1
				}
			}
			last = i
			prevStrong = s
		case strengthNumber:
			// 相反方向区间内的数字随区间提升；
			// 奇数基础层级下总是提升
			raise = prevStrong == opposite || base%2 == 1
			if raise && prevStrong == opposite && last >= 0 {
				for k := last + 1; k < i; k++ {
					levels[k] = base + 1
				}
				last = i
			}
		case strengthNeutral:
		default:
			last = -1
			prevStrong = s
		}
		if raise {
			levels[i] = base + 1
		}
	}
}

// nextLevel 返回高于 current 且奇偶性与 rtl 一致的最小层级。
func nextLevel(current int, rtl bool) int {
	if rtl {
		if current%2 == 0 {
			return current + 1
		}
		return current + 2
	}
	if current%2 == 0 {
		return current + 2
	}
	return current + 1
}
