package text

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/isdlayout/fonts"
	"github.com/ByLCY/isdlayout/isd"
	"github.com/ByLCY/isdlayout/style"
)

const collectorDoc = `<isd:isd xmlns:isd="http://www.w3.org/ns/ttml#isd" xmlns="http://www.w3.org/ns/ttml" xmlns:tts="http://www.w3.org/ns/ttml#styling">
<isd:css xml:id="s0" tts:fontSize="20px"/>
<isd:css xml:id="s1" tts:fontSize="20px" tts:color="red"/>
<isd:css xml:id="rtl" tts:fontSize="20px" tts:direction="rtl"/>
<isd:css xml:id="rc" tts:fontSize="20px" tts:ruby="container"/>
<isd:css xml:id="rb" tts:fontSize="20px" tts:ruby="base"/>
<isd:css xml:id="rt" tts:fontSize="10px" tts:ruby="text"/>
<isd:css xml:id="ib" tts:fontSize="20px" tts:display="inlineBlock"/>
<isd:region><body><div>
<p xml:id="plain" isd:css="s0">Hello <span isd:css="s1">red</span><br/>world</p>
<p xml:id="spaces" isd:css="s0">  a
   b </p>
<p xml:id="ruby" isd:css="s0" xml:lang="ja"><span isd:css="rc"><span isd:css="rb">漢字</span><span isd:css="rt">かんじ</span></span>です</p>
<p xml:id="split" isd:css="s0">one two</p>
<p xml:id="rtl" isd:css="rtl">אב abc</p>
<p xml:id="embed" isd:css="s0">a<span isd:css="ib">inner</span>b</p>
</div></body></isd:region>
</isd:isd>`

func findByID(e *isd.Element, id string) *isd.Element {
	if e.ID() == id {
		return e
	}
	for _, c := range e.Elements() {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func collect(t *testing.T, id string) *Paragraph {
	t.Helper()
	doc, err := isd.ParseString(collectorDoc)
	require.NoError(t, err)
	styles := isd.CollectStyles(doc.Root)
	c := NewParagraphCollector(Context{
		Styles: styles.Of,
		Fonts:  fonts.NewFaceCache(nil),
		Resolver: style.Resolver{
			External:       style.Extent{W: 1280, H: 720},
			Reference:      style.Extent{W: 1280, H: 720},
			CellResolution: style.Extent{W: 32, H: 15},
		},
	})
	p := findByID(doc.Root, id)
	require.NotNil(t, p, "找不到段落 %s", id)
	return c.Collect(p)
}

func TestCollectSpansAndBreaks(t *testing.T) {
	para := collect(t, "plain")
	require.Len(t, para.Phrases, 1)
	ph := para.Phrases[0]
	assert.Equal(t, "Hello red\u2028world", ph.Text())
	assert.Equal(t, 20.0, ph.Font.Size())
	assert.Equal(t, style.White, ph.Color)

	red, _ := style.ParseColor("red")
	v, ok := ph.Value(AttrColor, 6)
	require.True(t, ok)
	assert.Equal(t, red, v)
	_, ok = ph.Value(AttrColor, 0)
	assert.False(t, ok, "段落颜色不需要 span")
	_, ok = ph.Value(AttrFont, 6)
	assert.False(t, ok, "字体未变化")
}

func TestCollectCollapsesWhitespace(t *testing.T) {
	ph := collect(t, "spaces").Phrases[0]
	assert.Equal(t, "a b ", ph.Text())
}

func TestCollectRuby(t *testing.T) {
	ph := collect(t, "ruby").Phrases[0]
	assert.Equal(t, "漢字です", ph.Text())
	assert.Equal(t, "Jpan", ph.Script)

	annotations := ph.Annotations(0)
	require.Len(t, annotations, 1)
	assert.Equal(t, "かんじ", annotations[0].Text())
	assert.Equal(t, 10.0, annotations[0].Font.Size())
	assert.Nil(t, ph.Annotations(2))
	assert.Equal(t, 2, ph.RunLimit(AttrAnnotation, 0))
}

func TestCollectSplitsParagraphSeparator(t *testing.T) {
	para := collect(t, "split")
	require.Len(t, para.Phrases, 2)
	assert.Equal(t, "one", para.Phrases[0].Text())
	assert.Equal(t, "two", para.Phrases[1].Text())
}

func TestCollectBidiLevels(t *testing.T) {
	ph := collect(t, "rtl").Phrases[0]
	level := func(i int) int {
		v, ok := ph.Value(AttrBidiLevel, i)
		require.True(t, ok)
		return v.(int)
	}
	assert.Equal(t, 1, level(0))
	assert.Equal(t, 1, level(2))
	assert.Equal(t, 2, level(3))
	assert.True(t, ph.ChangesAt(3, RunBreaking...))
}

func TestCollectInlineBlock(t *testing.T) {
	ph := collect(t, "embed").Phrases[0]
	assert.Equal(t, "a\uFFFCb", ph.Text())
	v, ok := ph.Value(AttrEmbedding, 1)
	require.True(t, ok)
	inner := v.(*Paragraph)
	require.Len(t, inner.Phrases, 1)
	assert.Equal(t, "inner", inner.Phrases[0].Text())
}

func TestQualifiedStyleNames(t *testing.T) {
	assert.Equal(t, "tts:color", isd.QualifiedName(xml.Name{Space: isd.NamespaceTTS, Local: "color"}))
}
