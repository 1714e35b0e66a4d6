package tilemap

// Option configures a Tilemap during creation.
//
// Example:
//
//	tm := tilemap.NewTilemap(size, tileSize, tex,
//		tilemap.WithType(tilemap.HexagonType(tilemap.HexRowOdd)),
//		tilemap.WithAnchor(tilemap.CenterAnchor),
//	)
type Option func(*Tilemap)

// WithGridSize sets the distance between tile centers.
// Defaults to the tile size.
func WithGridSize(g GridSize) Option {
	return func(t *Tilemap) {
		t.GridSize = g
	}
}

// WithSpacing sets the padding between atlas cells.
func WithSpacing(s Spacing) Option {
	return func(t *Tilemap) {
		t.Spacing = s
	}
}

// WithType sets the grid topology. Defaults to SquareType(false).
func WithType(typ TilemapType) Option {
	return func(t *Tilemap) {
		t.Type = typ
	}
}

// WithTransform sets the map's world transform.
func WithTransform(tr Transform) Option {
	return func(t *Tilemap) {
		t.Transform = tr
	}
}

// WithAnchor sets which point of the map rectangle sits at the transform
// origin. Defaults to NoAnchor.
func WithAnchor(a Anchor) Option {
	return func(t *Tilemap) {
		t.Anchor = a
	}
}

// WithRenderSettings replaces the render settings wholesale.
func WithRenderSettings(s RenderSettings) Option {
	return func(t *Tilemap) {
		t.RenderSettings = s
	}
}

// WithChunkSize sets the render chunk size in tiles.
func WithChunkSize(x, y uint32) Option {
	return func(t *Tilemap) {
		t.RenderSettings.ChunkSize = UVec2{X: x, Y: y}
	}
}

// WithYSort enables per-row sorting of chunks.
func WithYSort(enabled bool) Option {
	return func(t *Tilemap) {
		t.RenderSettings.YSort = enabled
	}
}

// WithFrustumCulling toggles chunk culling against view frustums.
// Culling is on by default.
func WithFrustumCulling(enabled bool) Option {
	return func(t *Tilemap) {
		t.FrustumCulling = enabled
	}
}

// WithFilterMode sets texture sampling for the map.
func WithFilterMode(f FilterMode) Option {
	return func(t *Tilemap) {
		t.Filter = f
	}
}

// WithVisible sets the initial visibility of the map.
func WithVisible(v bool) Option {
	return func(t *Tilemap) {
		t.Visible = v
	}
}
