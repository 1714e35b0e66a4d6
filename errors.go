package tilemap

import "errors"

// Sentinel errors returned by tilemap constructors and validators.
var (
	// ErrOutOfBounds is returned when a tile position lies outside the map.
	ErrOutOfBounds = errors.New("tilemap: tile position out of bounds")

	// ErrInvalidTileSize is returned when a tile size component is not positive.
	ErrInvalidTileSize = errors.New("tilemap: tile size must be positive")

	// ErrInvalidGridSize is returned when a grid size component is not positive.
	ErrInvalidGridSize = errors.New("tilemap: grid size must be positive")

	// ErrNegativeSpacing is returned when a spacing component is negative.
	ErrNegativeSpacing = errors.New("tilemap: spacing must be nonnegative")

	// ErrInvalidChunkSize is returned when a render chunk dimension is zero.
	ErrInvalidChunkSize = errors.New("tilemap: render chunk size must be nonzero")

	// ErrInvalidAnimation is returned when an animation window is inverted or
	// its speed is negative.
	ErrInvalidAnimation = errors.New("tilemap: invalid tile animation")

	// ErrEmptyTexture is returned when a texture references no images.
	ErrEmptyTexture = errors.New("tilemap: texture has no images")
)
