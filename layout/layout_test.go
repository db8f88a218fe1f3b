package layout

import (
	"slices"
	"testing"

	"github.com/ByLCY/isdlayout/area"
	"github.com/ByLCY/isdlayout/style"
	"github.com/ByLCY/isdlayout/text"
)

func TestBidiOrder(t *testing.T) {
	cases := []struct {
		levels    []int
		order     []int
		reversals []int
	}{
		{[]int{0, 0, 0}, []int{0, 1, 2}, []int{0, 0, 0}},
		{[]int{2, 2}, []int{0, 1}, []int{0, 0}},
		{[]int{1, 1, 1}, []int{2, 1, 0}, []int{1, 1, 1}},
		{[]int{0, 1, 1, 0}, []int{0, 2, 1, 3}, []int{0, 1, 1, 0}},
		{[]int{0, 1, 2, 2, 1, 0}, []int{0, 4, 2, 3, 1, 5}, []int{0, 1, 2, 2, 1, 0}},
		{nil, []int{}, []int{}},
	}
	for _, c := range cases {
		order, reversals := bidiOrder(c.levels)
		if !slices.Equal(order, c.order) || !slices.Equal(reversals, c.reversals) {
			t.Errorf("levels %v: got %v/%v, want %v/%v", c.levels, order, reversals, c.order, c.reversals)
		}
	}
}

func TestBidiOrderNegativeLevel(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for negative level")
		}
	}()
	bidiOrder([]int{0, -1})
}

func TestResolveAnnotationAlign(t *testing.T) {
	cases := []struct {
		in     style.InlineAlignment
		na, nb int
		want   style.InlineAlignment
	}{
		{style.InlineAuto, 2, 2, style.InlineWithBase},
		{style.InlineAuto, 2, 3, style.InlineSpaceBetween},
		{style.InlineAuto, 1, 3, style.InlineSpaceAround},
		{style.InlineAuto, 3, 1, style.InlineCenter},
		{style.InlineWithBase, 1, 2, style.InlineCenter},
		{style.InlineEnd, 1, 2, style.InlineEnd},
	}
	for _, c := range cases {
		if got := resolveAnnotationAlign(c.in, c.na, c.nb); got != c.want {
			t.Errorf("%v %d/%d: got %v, want %v", c.in, c.na, c.nb, got, c.want)
		}
	}
}

func TestTrimBreaks(t *testing.T) {
	ph := text.NewPhrase(nil, "a b ")
	word := &textRun{kind: runNonWhitespace, phrase: ph, start: 0, end: 1}
	space := &textRun{kind: runWhitespace, phrase: ph, start: 1, end: 2}
	word2 := &textRun{kind: runNonWhitespace, phrase: ph, start: 2, end: 3}
	space2 := &textRun{kind: runWhitespace, phrase: ph, start: 3, end: 4}
	breaks := []*breakOpportunity{
		{run: space, start: 1, end: 2, advance: 7},
		{run: word, start: 0, end: 1, advance: 7},
		{run: space, start: 1, end: 2, advance: 7},
		{run: word2, start: 2, end: 3, advance: 7},
		{run: space2, start: 3, end: 4, advance: 7},
	}
	once := trimBreaks(breaks)
	if len(once) != 3 || once[0].run != word || once[2].run != word2 {
		t.Fatalf("unexpected trim result %v", once)
	}
	if twice := trimBreaks(once); len(twice) != len(once) {
		t.Fatalf("trim is not idempotent")
	}
	if sumAdvance(once) != 21 {
		t.Fatalf("unexpected advance %g", sumAdvance(once))
	}
	if len(trimBreaks(breaks[:1])) != 0 {
		t.Fatalf("a whitespace-only line trims to nothing")
	}
}

func newTestState(t *testing.T) *State {
	t.Helper()
	s, err := NewState(testOptions(nil).withDefaults())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestStatePanics(t *testing.T) {
	s := newTestState(t)
	expectPanic(t, "pop empty", func() { s.Pop() })
	expectPanic(t, "block without reference", func() { s.PushBlock(nil, 0, style.Visible) })
	s.PushCanvas(nil, 0, 1, style.Extent{})
	expectPanic(t, "line on canvas", func() { s.AddLine(s.Tree().New(area.KindLine, nil)) })
	expectPanic(t, "nested canvas", func() { s.PushCanvas(nil, 0, 1, style.Extent{}) })
}

func TestStateExtents(t *testing.T) {
	s := newTestState(t)
	s.PushCanvas(nil, 0, 1, style.Extent{})
	s.PushViewport(nil, 1280, 720, true)
	if s.FontSize() != 48 {
		t.Fatalf("root font size must be one cell, got %g", s.FontSize())
	}
	s.PushReference(nil, style.Point{}, 1280, 720, style.LRTB, style.Identity, style.BlockBefore)
	vp := s.PushViewport(nil, 100, 20, true)
	if vp.Viewport.Region != "r1" {
		t.Fatalf("unexpected region name %q", vp.Viewport.Region)
	}
	s.PushReference(nil, style.Point{}, 100, 20, style.LRTB, style.Identity, style.BlockBefore)
	if s.Depth() != 5 {
		t.Fatalf("expected 5 open areas, got %d", s.Depth())
	}
	b := s.PushBlock(nil, 0, style.Visible)
	b.Block.Padding = area.Padding{2, 5, 2, 5}
	if ipd, bpd := s.Available(); ipd != 90 || bpd != 16 {
		t.Fatalf("unexpected available %g x %g", ipd, bpd)
	}
	for i := 0; i < 2; i++ {
		line := s.Tree().New(area.KindLine, nil)
		line.IPD, line.BPD = 90, 15
		s.AddLine(line)
	}
	s.Pop()
	if b.BPD != 30 || b.OuterBPD() != 34 {
		t.Fatalf("block must sum its lines, got %g/%g", b.BPD, b.OuterBPD())
	}
	ref := s.Pop()
	if ref.BPD != 20 || ref.Overflow != 14 {
		t.Fatalf("reference keeps its extent and records overflow, got %g/%g", ref.BPD, ref.Overflow)
	}
	if s.Counter(LinesInRegion) != 2 {
		t.Fatalf("unexpected lines in region %d", s.Counter(LinesInRegion))
	}
	if s.Depth() != 4 {
		t.Fatalf("expected 4 open areas after pops, got %d", s.Depth())
	}
}
