package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInlineAlignmentRelativize(t *testing.T) {
	assert.Equal(t, InlineStart, InlineLeft.Relativize(DirectionLTR))
	assert.Equal(t, InlineEnd, InlineLeft.Relativize(DirectionRTL))
	assert.Equal(t, InlineStart, InlineRight.Relativize(DirectionRTL))
	assert.Equal(t, InlineCenter, InlineCenter.Relativize(DirectionRTL))
}

func TestParseEnumsFallBack(t *testing.T) {
	assert.Equal(t, InlineSpaceBetween, ParseInlineAlignment("spaceBetween", InlineAuto))
	assert.Equal(t, InlineAuto, ParseInlineAlignment("sideways", InlineAuto))
	assert.Equal(t, BlockCenter, ParseBlockAlignment("center", BlockBefore))
	assert.Equal(t, NoWrap, ParseWrapOption("noWrap", Wrap))
	assert.Equal(t, TBRL, ParseWritingMode("tb", LRTB))
	assert.Equal(t, LRTB, ParseWritingMode("diagonal", LRTB))
	assert.Equal(t, OverflowVisible, ParseOverflow("visible", OverflowHidden))
}

func TestWhitespaceTreatments(t *testing.T) {
	assert.Equal(t, LinefeedTreatAsSpace, WhitespaceDefault.Linefeed())
	assert.Equal(t, SuppressAuto, WhitespaceDefault.Suppression())
	assert.True(t, WhitespaceDefault.Collapse())
	assert.Equal(t, LinefeedPreserve, WhitespacePreserve.Linefeed())
	assert.Equal(t, SuppressRetain, WhitespacePreserve.Suppression())
	assert.False(t, WhitespacePreserve.Collapse())
}

func TestAnnotationReserveResolve(t *testing.T) {
	auto := ParseAnnotationReserve("auto")
	assert.Equal(t, ReserveBefore, auto.ResolvePosition(1, true))
	assert.Equal(t, ReserveBefore, auto.ResolvePosition(2, false))
	assert.Equal(t, ReserveAfter, auto.ResolvePosition(2, true))
	assert.Equal(t, ReserveBefore, auto.ResolvePosition(3, true))

	outside := ParseAnnotationReserve("outside 10px")
	assert.Equal(t, Px(10), outside.Length)
	assert.Equal(t, ReserveBefore, outside.ResolvePosition(3, false))
	assert.Equal(t, ReserveAfter, outside.ResolvePosition(3, true))

	assert.True(t, ParseAnnotationReserve("bogus").IsNone())
	assert.Equal(t, ReserveBoth, ParseAnnotationReserve("both").ResolvePosition(1, true))
}
