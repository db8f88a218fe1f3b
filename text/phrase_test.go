package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhraseAddOverrides(t *testing.T) {
	p := NewPhrase(nil, "abcdefghij")
	p.Add(AttrColor, 0, 10, "red")
	p.Add(AttrColor, 3, 5, "blue")

	spans := p.Spans(AttrColor, 0, 10)
	require.Len(t, spans, 3)
	assert.Equal(t, Span{Start: 0, End: 3, Value: "red"}, spans[0])
	assert.Equal(t, Span{Start: 3, End: 5, Value: "blue"}, spans[1])
	assert.Equal(t, Span{Start: 5, End: 10, Value: "red"}, spans[2])

	assert.Equal(t, 3, p.RunLimit(AttrColor, 0))
	assert.Equal(t, 3, p.RunStart(AttrColor, 4))
	assert.True(t, p.ChangesAt(3, AttrColor))
	assert.False(t, p.ChangesAt(4, AttrColor))
	assert.False(t, p.ChangesAt(0, AttrColor), "phrase start is not a change")
	assert.Equal(t, 10, p.RunLimit(AttrFont, 2), "unset attribute is one run")
}

func TestPhraseSub(t *testing.T) {
	p := NewPhrase(nil, "abcdefghij")
	p.Add(AttrColor, 0, 10, "red")
	p.Add(AttrColor, 3, 5, "blue")

	q := p.Sub(2, 6)
	assert.Equal(t, "cdef", q.Text())
	assert.Equal(t, []Span{{0, 1, "red"}, {1, 3, "blue"}, {3, 4, "red"}}, q.Spans(AttrColor, 0, q.Len()))
	assert.Equal(t, "abcdefghij", p.Text(), "原 phrase 不应被修改")
}

func TestPhraseAnnotationsOnlyAtRunStart(t *testing.T) {
	p := NewPhrase(nil, "abcd")
	p.Add(AttrAnnotation, 1, 3, []*Phrase{NewPhrase(nil, "x")})
	require.Len(t, p.Annotations(1), 1)
	assert.Nil(t, p.Annotations(2))
	assert.Nil(t, p.Annotations(0))
}

func TestPhraseIntervalsCoverGaps(t *testing.T) {
	p := NewPhrase(nil, "abcdef")
	p.Add(AttrFont, 2, 4, "f")
	iv := p.Intervals(AttrFont, 0, 6)
	require.Len(t, iv, 3)
	assert.Nil(t, iv[0].Value)
	assert.Equal(t, "f", iv[1].Value)
	assert.Equal(t, 4, iv[2].Start)
	assert.Equal(t, 6, iv[2].End)
}
