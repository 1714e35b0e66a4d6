// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"time"

	"github.com/gogpu/tilemap/internal/gpu"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports per-frame renderer statistics to Prometheus.
type Metrics struct {
	frames         prometheus.Counter
	tilesChanged   prometheus.Counter
	chunksRebuilt  prometheus.Counter
	uploadFailures prometheus.Counter
	chunks         prometheus.Gauge
	chunksCulled   prometheus.Gauge
	draws          prometheus.Gauge
	quads          prometheus.Gauge
	textures       *prometheus.GaugeVec
	memory         *prometheus.GaugeVec
	frameSeconds   prometheus.Histogram
}

// NewMetrics creates the renderer metrics and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tilemap",
			Name:      "frames_total",
			Help:      "Frames run through extract, prepare and queue.",
		}),
		tilesChanged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tilemap",
			Name:      "tiles_changed_total",
			Help:      "Tiles added or modified since the previous frame, summed over frames.",
		}),
		chunksRebuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tilemap",
			Name:      "chunks_rebuilt_total",
			Help:      "Chunk meshes rebuilt and uploaded.",
		}),
		uploadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tilemap",
			Name:      "chunk_upload_failures_total",
			Help:      "Chunk uploads that failed and were retried next frame.",
		}),
		chunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tilemap",
			Name:      "chunks",
			Help:      "Chunks in the chunk store.",
		}),
		chunksCulled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tilemap",
			Name:      "chunks_culled",
			Help:      "Chunks outside every view frustum in the last frame.",
		}),
		draws: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tilemap",
			Name:      "draws",
			Help:      "Chunk draws queued over all views in the last frame.",
		}),
		quads: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tilemap",
			Name:      "quads",
			Help:      "Tile quads in the chunks prepared in the last frame.",
		}),
		textures: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "tilemap",
			Name:      "textures",
			Help:      "Texture arrays by lifecycle state.",
		}, []string{"state"}),
		memory: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "tilemap",
			Name:      "gpu_memory_bytes",
			Help:      "GPU memory held by the renderer.",
		}, []string{"kind"}),
		frameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tilemap",
			Name:      "frame_seconds",
			Help:      "Time spent in extract, prepare and queue.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.frames, m.tilesChanged, m.chunksRebuilt, m.uploadFailures,
			m.chunks, m.chunksCulled, m.draws, m.quads, m.textures, m.memory, m.frameSeconds)
	}
	return m
}

func (m *Metrics) observe(st *FrameStats, textures [3]int, mem gpu.MemoryStats, d time.Duration) {
	m.frames.Inc()
	m.tilesChanged.Add(float64(st.TilesChanged))
	m.chunksRebuilt.Add(float64(st.ChunksRebuilt))
	m.uploadFailures.Add(float64(st.UploadFailures))
	m.chunks.Set(float64(st.Chunks))
	m.chunksCulled.Set(float64(st.ChunksCulled))
	m.draws.Set(float64(st.Draws))
	m.quads.Set(float64(st.Quads))
	for s, n := range textures {
		m.textures.WithLabelValues(TextureState(s).String()).Set(float64(n))
	}
	m.memory.WithLabelValues("buffer").Set(float64(mem.BufferBytes))
	m.memory.WithLabelValues("texture").Set(float64(mem.TextureBytes))
	m.frameSeconds.Observe(d.Seconds())
}
