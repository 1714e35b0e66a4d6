package tilemap

import (
	"errors"
	"testing"
)

func TestNewTilemap_Defaults(t *testing.T) {
	tm := NewTilemap(TilemapSize{X: 10, Y: 5}, TileSize{X: 16, Y: 16}, AtlasTexture(1))

	if tm.GridSize != (GridSize{X: 16, Y: 16}) {
		t.Errorf("GridSize = %v, want tile size", tm.GridSize)
	}
	if tm.Type != SquareType(false) {
		t.Errorf("Type = %v, want square", tm.Type)
	}
	if !tm.Visible || !tm.FrustumCulling {
		t.Error("map should start visible with culling on")
	}
	if tm.RenderSettings.ChunkSize != DefaultChunkSize {
		t.Errorf("ChunkSize = %v, want %v", tm.RenderSettings.ChunkSize, DefaultChunkSize)
	}
	if tm.Storage == nil || tm.Storage.Len() != 50 {
		t.Fatalf("storage not sized to map")
	}
	if err := tm.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestNewTilemap_Options(t *testing.T) {
	typ := IsometricType(true, IsoStaggered)
	tr := TransformFromTranslation(V3(1, 2, 3))
	tm := NewTilemap(TilemapSize{X: 8, Y: 8}, TileSize{X: 64, Y: 32}, VectorTexture(1, 2),
		WithGridSize(GridSize{X: 64, Y: 16}),
		WithSpacing(Spacing{X: 2, Y: 2}),
		WithType(typ),
		WithTransform(tr),
		WithAnchor(CenterAnchor),
		WithChunkSize(4, 2),
		WithYSort(true),
		WithFrustumCulling(false),
		WithFilterMode(FilterLinear),
		WithVisible(false),
	)

	if tm.GridSize != (GridSize{X: 64, Y: 16}) || tm.Spacing != (Spacing{X: 2, Y: 2}) {
		t.Error("grid size or spacing option ignored")
	}
	if tm.Type != typ || tm.Transform != tr || tm.Anchor != CenterAnchor {
		t.Error("type, transform or anchor option ignored")
	}
	if tm.RenderSettings.ChunkSize != (UVec2{X: 4, Y: 2}) || !tm.RenderSettings.YSort {
		t.Errorf("render settings = %+v", tm.RenderSettings)
	}
	if tm.FrustumCulling || tm.Visible || tm.Filter != FilterLinear {
		t.Error("culling, visibility or filter option ignored")
	}
	if got := tm.ChunkCount(); got != (UVec2{X: 2, Y: 4}) {
		t.Errorf("ChunkCount = %v, want (2, 4)", got)
	}
}

func TestTilemap_Validate(t *testing.T) {
	base := func(opts ...Option) *Tilemap {
		return NewTilemap(TilemapSize{X: 2, Y: 2}, TileSize{X: 8, Y: 8}, AtlasTexture(1), opts...)
	}
	tests := []struct {
		name string
		tm   *Tilemap
		want error
	}{
		{"zero tile size", NewTilemap(TilemapSize{X: 2, Y: 2}, TileSize{}, AtlasTexture(1)), ErrInvalidTileSize},
		{"zero grid size", base(WithGridSize(GridSize{X: 0, Y: 8})), ErrInvalidGridSize},
		{"negative spacing", base(WithSpacing(Spacing{X: -1})), ErrNegativeSpacing},
		{"zero chunk", base(WithChunkSize(0, 4)), ErrInvalidChunkSize},
		{"no images", NewTilemap(TilemapSize{X: 2, Y: 2}, TileSize{X: 8, Y: 8}, VectorTexture()), ErrEmptyTexture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.tm.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewTilemap_ZeroSize(t *testing.T) {
	tm := NewTilemap(TilemapSize{}, TileSize{X: 8, Y: 8}, AtlasTexture(1))
	if err := tm.Validate(); err != nil {
		t.Errorf("zero-size map rejected: %v", err)
	}
	if tm.Storage.Len() != 0 || tm.ChunkCount() != (UVec2{}) {
		t.Error("zero-size map allocated slots or chunks")
	}
}
