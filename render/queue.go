// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/internal/cache"
	"github.com/gogpu/wgpu/hal"
)

// drawItem is one queued chunk draw.
type drawItem struct {
	sortKey  float32
	key      ChunkKey
	chunk    *Chunk
	pipeline hal.RenderPipeline
	texture  tilemap.TextureKey
	textures hal.BindGroup
	material *materialBinding

	meshOffset    uint32
	tilemapOffset uint32
}

// viewQueue holds the sorted draws of one view.
type viewQueue struct {
	viewOffset uint32
	draws      []drawItem
}

// Queuer sorts prepared chunks into per-view draw lists and resolves the
// pipelines and bind groups they need.
type Queuer struct {
	device    hal.Device
	prep      *Preparer
	pipelines *pipelines
	textures  *TextureCache
	surface   gputypes.TextureFormat

	textureGroups *cache.Cache[tilemap.TextureKey, hal.BindGroup]
	materials     map[tilemap.Entity]*materialBinding

	viewGroup hal.BindGroup
	meshGroup hal.BindGroup
	queued    []viewQueue

	// Dropped while queued draws may still bind them; destroyed by the
	// next Queue.
	retiredGroups    []hal.BindGroup
	retiredMaterials []*materialBinding
}

const maxTextureGroups = 256

func newQueuer(device hal.Device, prep *Preparer, p *pipelines, textures *TextureCache, surface gputypes.TextureFormat) *Queuer {
	q := &Queuer{
		device:    device,
		prep:      prep,
		pipelines: p,
		textures:  textures,
		surface:   surface,
		materials: make(map[tilemap.Entity]*materialBinding),
	}
	q.textureGroups = cache.New(maxTextureGroups, q.retireTextureGroup)
	return q
}

func (q *Queuer) retireTextureGroup(_ tilemap.TextureKey, g hal.BindGroup) {
	q.retiredGroups = append(q.retiredGroups, g)
}

// retireMaterial detaches the material of a map. Its GPU objects live
// until the next Queue.
func (q *Queuer) retireMaterial(e tilemap.Entity) {
	m, ok := q.materials[e]
	if !ok {
		return
	}
	delete(q.materials, e)
	q.retiredMaterials = append(q.retiredMaterials, m)
}

// flushRetired destroys the objects dropped since the last Queue.
func (q *Queuer) flushRetired() {
	for i, g := range q.retiredGroups {
		q.device.DestroyBindGroup(g)
		q.retiredGroups[i] = nil
	}
	q.retiredGroups = q.retiredGroups[:0]
	for i, m := range q.retiredMaterials {
		m.release(q.device)
		q.retiredMaterials[i] = nil
	}
	q.retiredMaterials = q.retiredMaterials[:0]
	q.pipelines.flushRetired()
}

// SortKey returns the draw order key of a chunk: its z translation, plus
// a y term when y-sorting, plus the map's render order bias.
func SortKey(c *Chunk) float32 {
	params := &c.params
	t := c.transform.Translation()
	key := t.Z
	if params.YSort {
		if h := float32(params.MapSize.Y) * params.TileSize.Y; h > 0 {
			key += 1 - t.Y/h
		}
	}
	return key + params.Order.Bias(c.key.Index(), params.ChunkCount())
}

// Queue builds every view's draw list from the prepared items. Items whose
// texture is not populated, or whose pipeline cannot be built, are
// skipped for this frame, as are chunks without geometry.
func (q *Queuer) Queue(f *Frame, items []ChunkItem) {
	q.releaseFrameGroups()
	q.queued = q.queued[:0]
	q.flushRetired()
	if len(f.views) == 0 {
		return
	}
	if err := q.createFrameGroups(q.prep.views, q.prep.meshes, q.prep.tilemaps); err != nil {
		if len(items) > 0 {
			tilemap.Logger().Warn("render: uniform bind groups", "err", err)
		}
		q.queued = append(q.queued, make([]viewQueue, len(f.views))...)
		return
	}
	for i := range f.views {
		v := &f.views[i]
		vq := viewQueue{viewOffset: q.prep.viewOffsets[i]}
		for j := range items {
			it := &items[j]
			if !it.inView[i] || !it.chunk.drawable() {
				continue
			}
			d, err := q.resolve(v, it)
			if err != nil {
				if !errors.Is(err, ErrTextureNotReady) {
					tilemap.Logger().Warn("render: chunk not queued", "chunk", it.Key, "err", err)
				}
				continue
			}
			vq.draws = append(vq.draws, d)
		}
		slices.SortStableFunc(vq.draws, func(a, b drawItem) int {
			return cmp.Or(
				cmp.Compare(a.sortKey, b.sortKey),
				cmp.Compare(a.key.Tilemap, b.key.Tilemap),
				cmp.Compare(a.key.Y, b.key.Y),
				cmp.Compare(a.key.X, b.key.X),
			)
		})
		f.Stats.Draws += len(vq.draws)
		q.queued = append(q.queued, vq)
	}
}

func (q *Queuer) resolve(v *extractedView, it *ChunkItem) (drawItem, error) {
	c := it.chunk
	group, err := q.textureGroup(it.Texture)
	if err != nil {
		return drawItem{}, err
	}
	mat := q.materials[c.key.Tilemap]
	key := PipelineKey{
		SampleCount: v.SampleCount,
		Type:        c.params.Type,
		HDR:         v.HDR,
		Format:      v.colorFormat(q.surface),
	}
	if mat != nil {
		key.Material = mat.material.Key()
		if mat.group == nil {
			return drawItem{}, fmt.Errorf("material %s has no bind group", key.Material)
		}
	}
	rp, err := q.pipelines.get(key, mat)
	if err != nil {
		return drawItem{}, err
	}
	return drawItem{
		sortKey:       SortKey(c),
		key:           c.key,
		chunk:         c,
		pipeline:      rp,
		texture:       it.Texture,
		textures:      group,
		material:      mat,
		meshOffset:    it.meshOffset,
		tilemapOffset: it.tilemapOffset,
	}, nil
}

// textureGroup returns the bind group of a populated texture.
func (q *Queuer) textureGroup(key tilemap.TextureKey) (hal.BindGroup, error) {
	a, err := q.textures.Get(key)
	if err != nil {
		return nil, err
	}
	return q.textureGroups.GetOrCreate(key, func() (hal.BindGroup, error) {
		g, err := q.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  "tilemap_texture_" + string(key),
			Layout: q.pipelines.textureLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: a.View.NativeHandle()}},
				{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: a.Sampler.NativeHandle()}},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("create texture bind group: %w", err)
		}
		return g, nil
	})
}

// forgetTexture drops the cached bind group of an evicted texture and the
// queued draws sampling it.
func (q *Queuer) forgetTexture(key tilemap.TextureKey) {
	q.textureGroups.Delete(key)
	for i := range q.queued {
		vq := &q.queued[i]
		vq.draws = slices.DeleteFunc(vq.draws, func(d drawItem) bool { return d.texture == key })
	}
}

// createFrameGroups binds this frame's uniform buffers. The buffers may
// have been reallocated, so the groups are rebuilt every frame.
func (q *Queuer) createFrameGroups(views, meshes, tilemaps *UniformBuffer) error {
	if views.Raw() == nil || meshes.Raw() == nil || tilemaps.Raw() == nil {
		return errors.New("uniform buffers not allocated")
	}
	var err error
	q.viewGroup, err = q.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "tilemap_view_group",
		Layout: q.pipelines.viewLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: views.Raw().NativeHandle(), Size: viewUniformSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create view bind group: %w", err)
	}
	q.meshGroup, err = q.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "tilemap_mesh_group",
		Layout: q.pipelines.meshLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: meshes.Raw().NativeHandle(), Size: meshUniformSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: tilemaps.Raw().NativeHandle(), Size: tilemapUniformSize}},
		},
	})
	if err != nil {
		q.device.DestroyBindGroup(q.viewGroup)
		q.viewGroup = nil
		return fmt.Errorf("create mesh bind group: %w", err)
	}
	return nil
}

func (q *Queuer) releaseFrameGroups() {
	if q.meshGroup != nil {
		q.device.DestroyBindGroup(q.meshGroup)
		q.meshGroup = nil
	}
	if q.viewGroup != nil {
		q.device.DestroyBindGroup(q.viewGroup)
		q.viewGroup = nil
	}
}

// refreshMaterials rebuilds the bind group of every material in use.
func (q *Queuer) refreshMaterials(queue hal.Queue) {
	for e, m := range q.materials {
		if err := m.refresh(q.device, queue); err != nil {
			tilemap.Logger().Warn("render: material bind group", "tilemap", e, "err", err)
		}
	}
}

func (q *Queuer) release() {
	q.releaseFrameGroups()
	q.queued = q.queued[:0]
	q.textureGroups.Clear()
	for e := range q.materials {
		q.retireMaterial(e)
	}
	q.flushRetired()
}
