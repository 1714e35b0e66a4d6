// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "errors"

var (
	// ErrNoDevice is returned when a renderer is created without a HAL
	// device or queue.
	ErrNoDevice = errors.New("render: no GPU device")

	// ErrRendererClosed is returned by operations on a closed renderer.
	ErrRendererClosed = errors.New("render: renderer closed")

	// ErrTextureNotReady is returned when a texture's images are not
	// resident yet.
	ErrTextureNotReady = errors.New("render: texture images not ready")

	// ErrUnknownTexture is returned for a texture that was never registered.
	ErrUnknownTexture = errors.New("render: unknown texture")

	// ErrInvalidTexture is returned when a texture's images cannot form a
	// texture array, for example an atlas smaller than one tile.
	ErrInvalidTexture = errors.New("render: invalid texture")

	// ErrUnknownView is returned when drawing a view index that the last
	// frame did not queue.
	ErrUnknownView = errors.New("render: unknown view")
)
