// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render batches tilemaps into chunk meshes and draws them on a
// gogpu HAL device.
//
// # Key Principle
//
// The renderer RECEIVES a GPU device from the host application, it does
// NOT create one. Pass a hal.Device and hal.Queue to [NewRenderer], or a
// gpucontext provider to [NewRendererFromProvider].
//
// # Frame Stages
//
// Each call to [Renderer.Frame] runs three stages in order:
//
//   - Extract reads the host [World]: tiles changed since the previous
//     frame, removed tiles and maps, per-map parameters, and per-view
//     frustums.
//   - Prepare routes every change to its chunk, rebuilds dirty chunk
//     meshes (CPU work in parallel, uploads in order), advances the
//     texture array cache, and fills the dynamic uniform buffers.
//   - Queue sorts the visible chunks of every view and resolves their
//     pipelines and bind groups.
//
// [Renderer.Draw] then records one indexed draw per chunk into a render
// pass owned by the caller, or [Renderer.Render] encodes and submits a
// whole pass into a [Target].
//
// # Failure Semantics
//
// Nothing that goes wrong inside a frame is returned to the caller: a
// chunk whose texture is not resident yet is skipped, a tile whose map
// has gone is dropped, and a failed upload is logged and retried on the
// next frame.
package render
