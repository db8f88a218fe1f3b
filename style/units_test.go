package style

import (
	"math"
	"testing"
)

// TestResolveUnits 覆盖各单位在给定上下文下的像素换算。
func TestResolveUnits(t *testing.T) {
	r := Resolver{
		External:       Extent{W: 1280, H: 720},
		Reference:      Extent{W: 640, H: 360},
		CellResolution: Extent{W: 32, H: 15},
		FontSize:       40,
	}
	cases := []struct {
		l    Length
		axis Axis
		want float64
	}{
		{Px(12), AxisHorizontal, 12},
		{Percent(50), AxisHorizontal, 320},
		{Percent(50), AxisVertical, 180},
		{Length{Value: 1.5, Unit: UnitEm}, AxisVertical, 60},
		{Length{Value: 1, Unit: UnitCell}, AxisHorizontal, 40},
		{Length{Value: 1, Unit: UnitCell}, AxisVertical, 48},
		{Length{Value: 10, Unit: UnitViewWidth}, AxisVertical, 128},
		{Length{Value: 10, Unit: UnitViewHeight}, AxisHorizontal, 72},
		{Length{Value: 100, Unit: UnitRootWidth}, AxisHorizontal, 1280},
	}
	for _, c := range cases {
		if got := r.Resolve(c.l, c.axis); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("%s 换算错误: got=%g want=%g", c.l, got, c.want)
		}
	}
}

// TestResolveCellWithoutResolution 验证缺少 cell 分辨率时不会除零。
func TestResolveCellWithoutResolution(t *testing.T) {
	r := Resolver{External: Extent{W: 100, H: 100}}
	if got := r.Resolve(Length{Value: 2, Unit: UnitCell}, AxisHorizontal); got != 0 {
		t.Fatalf("期望 0，实际 %g", got)
	}
}

// TestLineHeightResolve 验证 normal 与绝对值两种行高语义。
func TestLineHeightResolve(t *testing.T) {
	r := Resolver{FontSize: 20}
	if got := ParseLineHeight("normal").Resolve(r, AxisVertical, 20); math.Abs(got-25) > 1e-9 {
		t.Fatalf("normal 行高期望 25，实际 %g", got)
	}
	if got := ParseLineHeight("30px").Resolve(r, AxisVertical, 20); got != 30 {
		t.Fatalf("30px 行高期望 30，实际 %g", got)
	}
	if got := ParseLineHeight("2em").Resolve(r, AxisVertical, 20); got != 40 {
		t.Fatalf("2em 行高期望 40，实际 %g", got)
	}
	if lh := ParseLineHeight("bogus"); lh.Kind != LineHeightNormal {
		t.Fatalf("非法行高应回退为 normal，实际 %+v", lh)
	}
}
