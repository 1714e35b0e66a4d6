// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/tilemap"

// World is the read-only view of the host world that extraction needs.
// Ticks increase with every change; "since" queries return changes made
// strictly after the given tick.
//
// world.World implements World.
type World interface {
	Tick() uint64
	ChangedTiles(since uint64) []tilemap.TileRecord
	RemovedTiles(since uint64) []tilemap.Entity
	RemovedTilemaps(since uint64) []tilemap.Entity
	Tilemaps() []tilemap.TilemapRecord
}
