package tilemap

// TileRecord is a tile entity as the render pipeline observes it.
type TileRecord struct {
	Entity  Entity
	Pos     TilePos
	Tilemap TilemapID
	Tile    Tile
}

// TilemapRecord is a copy of a tilemap entity's parameters. The Storage
// pointer is shared with the host and must not be mutated by readers.
type TilemapRecord struct {
	Entity Entity
	Map    Tilemap
}
