// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/tilemap"
)

// View is one camera the tilemaps are drawn for.
type View struct {
	// ViewProj maps world space to clip space.
	ViewProj tilemap.Mat4

	// HDR selects an RGBA16Float color target instead of the renderer's
	// surface format.
	HDR bool

	// SampleCount is the MSAA sample count of the view's render pass.
	// Zero means 1.
	SampleCount uint32

	// Tilemaps restricts the view to the listed maps. Empty shows every map.
	Tilemaps []tilemap.Entity
}

// extractedView is a View with its frustum and visibility set resolved.
type extractedView struct {
	View
	index   int
	frustum Frustum
	visible map[tilemap.Entity]struct{}
}

func extractView(i int, v View) extractedView {
	if v.SampleCount == 0 {
		v.SampleCount = 1
	}
	ev := extractedView{View: v, index: i, frustum: FrustumFromMatrix(v.ViewProj)}
	if len(v.Tilemaps) > 0 {
		ev.visible = make(map[tilemap.Entity]struct{}, len(v.Tilemaps))
		for _, e := range v.Tilemaps {
			ev.visible[e] = struct{}{}
		}
	}
	return ev
}

// sees reports whether the view draws the given map.
func (v *extractedView) sees(e tilemap.Entity) bool {
	if v.visible == nil {
		return true
	}
	_, ok := v.visible[e]
	return ok
}

// colorFormat returns the format of the view's color target.
func (v *extractedView) colorFormat(surface gputypes.TextureFormat) gputypes.TextureFormat {
	if v.HDR {
		return gputypes.TextureFormatRGBA16Float
	}
	return surface
}
