package tilemap

import "fmt"

// Tilemap bundles every map-level parameter the render pipeline reads.
// The host world stores one Tilemap per map entity; tiles refer to it
// through their TilemapID.
type Tilemap struct {
	Size           TilemapSize
	TileSize       TileSize
	GridSize       GridSize
	Spacing        Spacing
	Type           TilemapType
	Texture        TilemapTexture
	Transform      Transform
	Visible        bool
	Anchor         Anchor
	Storage        *TileStorage
	FrustumCulling bool
	RenderSettings RenderSettings
	Filter         FilterMode
}

// NewTilemap creates a visible square map with empty storage, a grid size
// equal to the tile size, frustum culling on and default render settings,
// then applies opts.
func NewTilemap(size TilemapSize, tileSize TileSize, texture TilemapTexture, opts ...Option) *Tilemap {
	t := &Tilemap{
		Size:           size,
		TileSize:       tileSize,
		GridSize:       tileSize.GridSize(),
		Type:           SquareType(false),
		Texture:        texture,
		Transform:      IdentityTransform(),
		Visible:        true,
		FrustumCulling: true,
		RenderSettings: DefaultRenderSettings(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.Storage = NewTileStorage(size)
	return t
}

// Validate reports the first invalid parameter, if any.
// Zero map sizes are valid: they produce empty storage and no draws.
func (t *Tilemap) Validate() error {
	if t.TileSize.X <= 0 || t.TileSize.Y <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidTileSize, t.TileSize.X, t.TileSize.Y)
	}
	if t.GridSize.X <= 0 || t.GridSize.Y <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidGridSize, t.GridSize.X, t.GridSize.Y)
	}
	if t.Spacing.X < 0 || t.Spacing.Y < 0 {
		return fmt.Errorf("%w: %gx%g", ErrNegativeSpacing, t.Spacing.X, t.Spacing.Y)
	}
	if len(t.Texture.Handles) == 0 {
		return ErrEmptyTexture
	}
	return t.RenderSettings.Validate()
}

// ChunkCount returns the number of render chunks along each axis.
func (t *Tilemap) ChunkCount() UVec2 {
	cs := t.RenderSettings.ChunkSize
	if cs.X == 0 || cs.Y == 0 {
		return UVec2{}
	}
	return UVec2{
		X: (t.Size.X + cs.X - 1) / cs.X,
		Y: (t.Size.Y + cs.Y - 1) / cs.Y,
	}
}
