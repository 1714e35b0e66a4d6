// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package coord implements the coordinate algebra of every supported grid
// topology.
//
// Each topology has its own integer position type:
//
//   - SquarePos for square grids
//   - DiamondPos and StaggeredPos for isometric grids
//   - AxialPos and CubePos for hex grids, plus the four offset systems
//     RowOddPos, RowEvenPos, ColOddPos and ColEvenPos
//
// Conversions between them are total. Hex conversions pass through axial
// coordinates; isometric conversions pass through diamond coordinates.
// Converting to a tilemap.TilePos reports false for positions outside the
// map instead of failing.
//
// World projection multiplies a 2x2 basis per topology by the grid size:
//
//	world = grid ⊙ (B · p)
//
// The inverse divides by the grid size, applies B⁻¹ and rounds. Hex grids
// round in cube space so that q + r + s == 0 holds exactly.
//
// The dispatch functions CenterInWorld, FromWorldPos, Basis and
// ProjectFrac switch on tilemap.TilemapType once and forward to the
// topology-specific code.
package coord
