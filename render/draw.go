// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// RecordDraws records the queued draws of one view into a render pass the
// caller owns.
func (q *Queuer) RecordDraws(rp hal.RenderPassEncoder, view int) error {
	if view < 0 || view >= len(q.queued) {
		return ErrUnknownView
	}
	vq := &q.queued[view]
	var bound hal.RenderPipeline
	for i := range vq.draws {
		d := &vq.draws[i]
		c := d.chunk
		if d.pipeline != bound {
			rp.SetPipeline(d.pipeline)
			bound = d.pipeline
		}
		rp.SetBindGroup(0, q.viewGroup, []uint32{vq.viewOffset})
		rp.SetBindGroup(1, q.meshGroup, []uint32{d.meshOffset, d.tilemapOffset})
		rp.SetBindGroup(2, d.textures, nil)
		if d.material != nil {
			rp.SetBindGroup(3, d.material.group, nil)
		}
		rp.SetVertexBuffer(0, c.vertices.Raw(), 0)
		rp.SetIndexBuffer(c.indices.Raw(), gputypes.IndexFormatUint32, 0)
		rp.DrawIndexed(c.indexCount, 1, 0, 0, 0)
	}
	return nil
}

// DrawCount returns the number of draws queued for a view.
func (q *Queuer) DrawCount(view int) int {
	if view < 0 || view >= len(q.queued) {
		return 0
	}
	return len(q.queued[view].draws)
}
