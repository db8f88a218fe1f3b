package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const hebrew = "\u05D0\u05D1\u05D2"

func uniform(n, level int) ([]int, []bool) {
	levels := make([]int, n)
	for i := range levels {
		levels[i] = level
	}
	return levels, make([]bool, n)
}

func TestResolveLevelsMixed(t *testing.T) {
	text := []rune("abc " + hebrew + " def")
	explicit, override := uniform(len(text), 0)
	assert.Equal(t, []int{0, 0, 0, 0, 1, 1, 1, 0, 0, 0, 0}, ResolveLevels(text, explicit, override))
}

func TestResolveLevelsRTLBase(t *testing.T) {
	text := []rune(hebrew + " abc")
	explicit, override := uniform(len(text), 1)
	assert.Equal(t, []int{1, 1, 1, 1, 2, 2, 2}, ResolveLevels(text, explicit, override))
}

func TestResolveLevelsNumbersFollowRTL(t *testing.T) {
	text := []rune("\u05D0 12")
	explicit, override := uniform(len(text), 0)
	assert.Equal(t, []int{1, 1, 1, 1}, ResolveLevels(text, explicit, override))
}

func TestResolveLevelsOverride(t *testing.T) {
	text := []rune("abc")
	explicit := []int{1, 1, 1}
	override := []bool{true, true, true}
	assert.Equal(t, []int{1, 1, 1}, ResolveLevels(text, explicit, override))
}

func TestNextLevel(t *testing.T) {
	assert.Equal(t, 1, nextLevel(0, true))
	assert.Equal(t, 2, nextLevel(0, false))
	assert.Equal(t, 3, nextLevel(1, true))
	assert.Equal(t, 2, nextLevel(1, false))
}
