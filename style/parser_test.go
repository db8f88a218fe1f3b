package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLengths(t *testing.T) {
	lengths, err := ParseLengths("640px 10% 1.5em -2c .5vw")
	require.NoError(t, err)
	assert.Equal(t, []Length{
		{Value: 640, Unit: UnitPixel},
		{Value: 10, Unit: UnitPercent},
		{Value: 1.5, Unit: UnitEm},
		{Value: -2, Unit: UnitCell},
		{Value: 0.5, Unit: UnitViewWidth},
	}, lengths)
}

func TestParseLengthUnitless(t *testing.T) {
	l, err := ParseLength("0")
	require.NoError(t, err)
	assert.Equal(t, Px(0), l)
}

func TestParseLengthRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "auto", "10pt", "px", "10px 20px"} {
		_, err := ParseLength(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, 0.5, ParseNumber(" 0.5 ", 1))
	assert.Equal(t, 1.0, ParseNumber("half", 1))
}
