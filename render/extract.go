// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"slices"

	"github.com/gogpu/tilemap"
)

// Frame is everything one frame's prepare and queue stages need, copied
// out of the world by Extract.
type Frame struct {
	// Tick is the world tick the frame was extracted at.
	Tick uint64
	// Time is the animation clock in seconds.
	Time float32

	Tiles           []tilemap.TileRecord
	RemovedTiles    []tilemap.Entity
	RemovedTilemaps []tilemap.Entity
	// Tilemaps holds the chunk parameters of every valid map.
	Tilemaps map[tilemap.Entity]ChunkParams

	// Stats is filled in by the later stages.
	Stats FrameStats

	maps  []tilemap.Entity
	views []extractedView
}

// Views returns the number of views in the frame.
func (f *Frame) Views() int { return len(f.views) }

// Extractor copies per-frame state out of a World, remembering the tick of
// its previous extract so only changes are copied.
type Extractor struct {
	lastTick uint64
}

// LastTick returns the tick of the previous extract.
func (x *Extractor) LastTick() uint64 { return x.lastTick }

// Extract reads the world. It never mutates it.
func (x *Extractor) Extract(w World, views []View) *Frame {
	// Read the tick first: a change racing with the reads below is then
	// reported again next frame instead of being lost.
	tick := w.Tick()
	since := x.lastTick

	f := &Frame{
		Tick:            tick,
		RemovedTiles:    w.RemovedTiles(since),
		RemovedTilemaps: w.RemovedTilemaps(since),
		Tilemaps:        make(map[tilemap.Entity]ChunkParams),
	}
	for _, rec := range w.Tilemaps() {
		if err := rec.Map.Validate(); err != nil {
			tilemap.Logger().Debug("render: tilemap skipped", "tilemap", rec.Entity, "err", err)
			continue
		}
		f.Tilemaps[rec.Entity] = ParamsFromTilemap(rec.Entity, &rec.Map)
		f.maps = append(f.maps, rec.Entity)
	}
	slices.Sort(f.maps)

	changed := w.ChangedTiles(since)
	f.Tiles = changed[:0:0]
	for _, t := range changed {
		if _, ok := f.Tilemaps[t.Tilemap.Entity]; !ok {
			tilemap.Logger().Debug("render: tile dropped, tilemap missing",
				"tile", t.Entity, "tilemap", t.Tilemap.Entity)
			continue
		}
		f.Tiles = append(f.Tiles, t)
	}

	f.views = make([]extractedView, len(views))
	for i, v := range views {
		f.views[i] = extractView(i, v)
	}
	x.lastTick = tick
	return f
}
