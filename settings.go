package tilemap

// DefaultChunkSize is the render chunk size used when none is configured.
var DefaultChunkSize = UVec2{X: 64, Y: 64}

// RenderOrder biases the draw order of chunks within one z layer by their
// position in the map. Useful for overlapping isometric and hex tiles.
type RenderOrder uint8

const (
	// OrderNone draws chunks of a layer in arbitrary order.
	OrderNone RenderOrder = iota
	// OrderXThenY draws by increasing X, then by increasing Y.
	OrderXThenY
	// OrderXReverseThenY draws by decreasing X, then by increasing Y.
	OrderXReverseThenY
	// OrderYThenX draws by increasing Y, then by increasing X.
	OrderYThenX
	// OrderYReverseThenX draws by decreasing Y, then by increasing X.
	OrderYReverseThenX
)

// Bias returns the sort-key offset for a chunk at index idx of a map that
// is chunks wide and high. The result lies in [0, 11).
func (o RenderOrder) Bias(idx, chunks UVec2) float32 {
	if chunks.X == 0 || chunks.Y == 0 {
		return 0
	}
	fx := float32(idx.X) / float32(chunks.X)
	fy := float32(idx.Y) / float32(chunks.Y)
	switch o {
	case OrderXThenY:
		return 10*fx + fy
	case OrderXReverseThenY:
		return 10*(1-fx) + fy
	case OrderYThenX:
		return 10*fy + fx
	case OrderYReverseThenX:
		return 10*(1-fy) + fx
	}
	return 0
}

// RenderSettings controls how a map is split into render chunks and how
// those chunks are ordered.
type RenderSettings struct {
	// ChunkSize is the number of tiles per chunk along each axis.
	// It is fixed for the lifetime of the map.
	ChunkSize UVec2
	// YSort offsets each chunk's sort key by 1 - y/worldHeight so that rows
	// nearer the bottom of the screen draw last.
	YSort bool
	// Order adds a positional bias to the sort key.
	Order RenderOrder
}

// DefaultRenderSettings returns 64x64 chunks without y-sorting.
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{ChunkSize: DefaultChunkSize}
}

// Validate checks that both chunk dimensions are nonzero.
func (s RenderSettings) Validate() error {
	if s.ChunkSize.X == 0 || s.ChunkSize.Y == 0 {
		return ErrInvalidChunkSize
	}
	return nil
}
