// Package tilemap provides the core data model of a chunked 2D tilemap
// renderer built on the GoGPU stack.
//
// # Overview
//
// A tilemap is a grid of tiles laid out in one of three topologies: square,
// hexagonal (six coordinate systems) or isometric (diamond and staggered).
// This package holds the values every other package shares: tile positions,
// map and grid sizes, the [TilemapType] that selects the coordinate algebra,
// the per-tile [Tile] attributes, the sparse [TileStorage] that maps
// positions to tile entities, and the [Tilemap] bundle that carries all
// per-map parameters.
//
// # Quick Start
//
//	import "github.com/gogpu/tilemap"
//
//	tex := tilemap.AtlasTexture(atlasHandle)
//	m := tilemap.NewTilemap(
//	    tilemap.TilemapSize{X: 32, Y: 32},
//	    tilemap.TileSize{X: 16, Y: 16},
//	    tex,
//	    tilemap.WithType(tilemap.HexagonType(tilemap.HexRowEven)),
//	    tilemap.WithChunkSize(32, 32),
//	)
//
// # Architecture
//
// The module is organized into:
//   - tilemap: data model, storage, options, logging
//   - coord: coordinate systems, world projection, anchors
//   - neighbors: compass neighbor tables for every topology
//   - world: in-memory host world with change tracking
//   - asset: asynchronous image loading
//   - render: chunking, meshing, texture arrays and the frame pipeline
//
// # Logging
//
// The module logs through [log/slog]. By default nothing is printed; call
// [SetLogger] to enable output.
package tilemap
