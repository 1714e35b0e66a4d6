package tilemap

import "fmt"

// Entity is an opaque handle to a host-world entity.
// The zero value, InvalidEntity, never refers to a live entity.
type Entity uint64

// InvalidEntity is the "no entity" sentinel stored in empty storage slots.
const InvalidEntity Entity = 0

// TilemapID names the tilemap entity a tile belongs to.
type TilemapID struct {
	Entity Entity
}

// TilePos is an unsigned grid coordinate.
// A TilePos is valid for a map of size s iff X < s.X and Y < s.Y.
type TilePos struct {
	X, Y uint32
}

// InBounds reports whether the position lies inside a map of the given size.
func (p TilePos) InBounds(size TilemapSize) bool {
	return p.X < size.X && p.Y < size.Y
}

// Index returns the row-major index y*w + x. The caller ensures InBounds.
func (p TilePos) Index(size TilemapSize) int {
	return int(p.Y)*int(size.X) + int(p.X)
}

// AsVec2 converts the position to float components.
func (p TilePos) AsVec2() Vec2 {
	return Vec2{X: float32(p.X), Y: float32(p.Y)}
}

// String implements fmt.Stringer.
func (p TilePos) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// TilePosFromInt converts signed coordinates to a TilePos, reporting false
// when either component falls outside the map.
func TilePosFromInt(x, y int32, size TilemapSize) (TilePos, bool) {
	if x < 0 || y < 0 || uint32(x) >= size.X || uint32(y) >= size.Y {
		return TilePos{}, false
	}
	return TilePos{X: uint32(x), Y: uint32(y)}, true
}

// TilemapSize is the size of a map in tiles.
type TilemapSize struct {
	X, Y uint32
}

// Count returns the number of tiles in the map.
func (s TilemapSize) Count() int {
	return int(s.X) * int(s.Y)
}

// AsVec2 converts the size to float components.
func (s TilemapSize) AsVec2() Vec2 {
	return Vec2{X: float32(s.X), Y: float32(s.Y)}
}

// GridSize is the world-space distance between neighboring tile centers.
type GridSize struct {
	X, Y float32
}

// Vec returns the size as a vector.
func (g GridSize) Vec() Vec2 { return Vec2{X: g.X, Y: g.Y} }

// TileSize is the world-space footprint of a tile sprite. It may differ
// from the grid size when tiles overlap.
type TileSize struct {
	X, Y float32
}

// Vec returns the size as a vector.
func (t TileSize) Vec() Vec2 { return Vec2{X: t.X, Y: t.Y} }

// GridSize returns the grid size that places tiles edge to edge.
func (t TileSize) GridSize() GridSize { return GridSize(t) }

// Spacing is the padding between cells of an atlas image, in pixels.
type Spacing struct {
	X, Y float32
}

// Vec returns the spacing as a vector.
func (s Spacing) Vec() Vec2 { return Vec2{X: s.X, Y: s.Y} }

// TextureSize is the pixel size of a texture.
type TextureSize struct {
	X, Y float32
}

// Topology selects the family of grid a map uses.
type Topology uint8

const (
	// TopologySquare is an axis-aligned square grid.
	TopologySquare Topology = iota
	// TopologyHexagon is a hexagonal grid.
	TopologyHexagon
	// TopologyIsometric is an isometric grid.
	TopologyIsometric
)

// HexCoordSystem selects how hex tiles are addressed.
//
// Row systems have pointy-topped hexes laid out in rows; column systems
// have flat-topped hexes laid out in columns. The even and odd variants
// are offset coordinates where every other row (column) is shifted by half
// a cell; HexRow and HexColumn store axial coordinates directly.
type HexCoordSystem uint8

const (
	HexRowEven HexCoordSystem = iota
	HexRowOdd
	HexRow
	HexColumnEven
	HexColumnOdd
	HexColumn
)

// IsRow reports whether the system lays hexes out in rows.
func (h HexCoordSystem) IsRow() bool {
	return h == HexRowEven || h == HexRowOdd || h == HexRow
}

// IsoCoordSystem selects how isometric tiles are addressed.
type IsoCoordSystem uint8

const (
	// IsoDiamond places the axes along the two diagonals of the screen.
	IsoDiamond IsoCoordSystem = iota
	// IsoStaggered stores tiles row-major with every row shifted.
	IsoStaggered
)

// TilemapType selects the coordinate algebra of a map. It is a flat tagged
// variant: Topology is the tag, Hex and Iso are only meaningful for their
// topology, and Diagonal applies to square and isometric maps.
//
// TilemapType is comparable and is used as a pipeline specialization key.
type TilemapType struct {
	Topology Topology
	Hex      HexCoordSystem
	Iso      IsoCoordSystem
	Diagonal bool
}

// SquareType returns a square topology, optionally with diagonal neighbors.
func SquareType(diagonal bool) TilemapType {
	return TilemapType{Topology: TopologySquare, Diagonal: diagonal}
}

// HexagonType returns a hexagonal topology in the given coordinate system.
func HexagonType(sys HexCoordSystem) TilemapType {
	return TilemapType{Topology: TopologyHexagon, Hex: sys}
}

// IsometricType returns an isometric topology.
func IsometricType(diagonal bool, sys IsoCoordSystem) TilemapType {
	return TilemapType{Topology: TopologyIsometric, Iso: sys, Diagonal: diagonal}
}

// String implements fmt.Stringer.
func (t TilemapType) String() string {
	switch t.Topology {
	case TopologySquare:
		return fmt.Sprintf("Square{diagonal=%t}", t.Diagonal)
	case TopologyHexagon:
		names := [...]string{"RowEven", "RowOdd", "Row", "ColumnEven", "ColumnOdd", "Column"}
		if int(t.Hex) < len(names) {
			return "Hexagon(" + names[t.Hex] + ")"
		}
		return "Hexagon(?)"
	case TopologyIsometric:
		sys := "Diamond"
		if t.Iso == IsoStaggered {
			sys = "Staggered"
		}
		return fmt.Sprintf("Isometric{%s, diagonal=%t}", sys, t.Diagonal)
	}
	return "TilemapType(?)"
}

// ShaderVariant returns a small integer identifying the vertex projection
// the shader must apply. It is written into the tilemap uniform.
func (t TilemapType) ShaderVariant() uint32 {
	switch t.Topology {
	case TopologyHexagon:
		return 1 + uint32(t.Hex)
	case TopologyIsometric:
		return 7 + uint32(t.Iso)
	}
	return 0
}
