package tilemap

import (
	"image"
	"testing"
)

func TestTilePosFromInt(t *testing.T) {
	size := TilemapSize{X: 4, Y: 3}
	tests := []struct {
		x, y   int32
		want   TilePos
		wantOK bool
	}{
		{0, 0, TilePos{}, true},
		{3, 2, TilePos{X: 3, Y: 2}, true},
		{-1, 0, TilePos{}, false},
		{0, -1, TilePos{}, false},
		{4, 0, TilePos{}, false},
		{0, 3, TilePos{}, false},
	}
	for _, tt := range tests {
		got, ok := TilePosFromInt(tt.x, tt.y, size)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("TilePosFromInt(%d, %d) = (%v, %t), want (%v, %t)", tt.x, tt.y, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTilemapType_ShaderVariant(t *testing.T) {
	seen := map[uint32]TilemapType{}
	types := []TilemapType{
		SquareType(false),
		HexagonType(HexRowEven), HexagonType(HexRowOdd), HexagonType(HexRow),
		HexagonType(HexColumnEven), HexagonType(HexColumnOdd), HexagonType(HexColumn),
		IsometricType(false, IsoDiamond), IsometricType(false, IsoStaggered),
	}
	for _, typ := range types {
		v := typ.ShaderVariant()
		if prev, dup := seen[v]; dup {
			t.Errorf("%v and %v share shader variant %d", prev, typ, v)
		}
		seen[v] = typ
	}
	if SquareType(true).ShaderVariant() != SquareType(false).ShaderVariant() {
		t.Error("diagonal flag changed the square projection")
	}
}

func TestHexCoordSystem_IsRow(t *testing.T) {
	rows := map[HexCoordSystem]bool{
		HexRowEven: true, HexRowOdd: true, HexRow: true,
		HexColumnEven: false, HexColumnOdd: false, HexColumn: false,
	}
	for sys, want := range rows {
		if sys.IsRow() != want {
			t.Errorf("%d.IsRow() = %t, want %t", sys, sys.IsRow(), want)
		}
	}
}

type fakeImages map[ImageHandle]*image.RGBA

func (f fakeImages) Image(h ImageHandle) (*image.RGBA, bool) {
	img, ok := f[h]
	return img, ok
}

func TestTilemapTexture_KeyAndReady(t *testing.T) {
	atlas := AtlasTexture(1)
	vec := VectorTexture(1, 2)
	if atlas.Key() == vec.Key() {
		t.Error("atlas and vector textures share a key")
	}
	if AtlasTexture(1).Key() != atlas.Key() {
		t.Error("key not stable")
	}
	if ContainerTexture(1).Key() == atlas.Key() {
		t.Error("container and atlas textures share a key")
	}

	src := fakeImages{1: image.NewRGBA(image.Rect(0, 0, 1, 1))}
	if !atlas.Ready(src) {
		t.Error("atlas with resident image not ready")
	}
	if vec.Ready(src) {
		t.Error("vector texture ready with a missing image")
	}
	src[2] = image.NewRGBA(image.Rect(0, 0, 1, 1))
	if !vec.Ready(src) {
		t.Error("vector texture not ready after load")
	}
	if (TilemapTexture{}).Ready(src) {
		t.Error("empty texture reported ready")
	}
}

func TestAnchor_Opposite(t *testing.T) {
	tests := []struct {
		a, want Anchor
	}{
		{TopLeftAnchor, BottomRightAnchor},
		{TopCenterAnchor, BottomCenterAnchor},
		{CenterLeftAnchor, CenterRightAnchor},
		{CenterAnchor, CenterAnchor},
		{NoAnchor, NoAnchor},
		{CustomAnchor(V2(0.25, -0.1)), CustomAnchor(V2(-0.25, 0.1))},
	}
	for _, tt := range tests {
		if got := tt.a.Opposite(); got != tt.want {
			t.Errorf("%+v.Opposite() = %+v, want %+v", tt.a, got, tt.want)
		}
	}
}

func TestRenderOrder_Bias(t *testing.T) {
	chunks := UVec2{X: 4, Y: 4}
	if OrderNone.Bias(UVec2{X: 3, Y: 3}, chunks) != 0 {
		t.Error("OrderNone added a bias")
	}
	a := OrderXThenY.Bias(UVec2{X: 1, Y: 3}, chunks)
	b := OrderXThenY.Bias(UVec2{X: 2, Y: 0}, chunks)
	if a >= b {
		t.Errorf("XThenY: x=1 bias %v not below x=2 bias %v", a, b)
	}
	a = OrderYReverseThenX.Bias(UVec2{X: 0, Y: 3}, chunks)
	b = OrderYReverseThenX.Bias(UVec2{X: 3, Y: 1}, chunks)
	if a >= b {
		t.Errorf("YReverseThenX: y=3 bias %v not below y=1 bias %v", a, b)
	}
	if OrderXThenY.Bias(UVec2{}, UVec2{}) != 0 {
		t.Error("zero chunk count produced a bias")
	}
}
