// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"runtime"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/tilemap"
	"github.com/prometheus/client_golang/prometheus"
)

// Config holds the renderer settings.
type Config struct {
	// Images resolves the image handles of tilemap textures. Without one
	// no texture ever leaves the allocated state.
	Images tilemap.ImageSource

	// SurfaceFormat is the color format of non-HDR views.
	SurfaceFormat gputypes.TextureFormat

	// SPIRV compiles shaders with naga and hands SPIR-V to the device
	// instead of WGSL source.
	SPIRV bool

	// Workers bounds the goroutines that rebuild chunk meshes.
	Workers int

	// MemoryBudgetMB caps the GPU memory the renderer allocates.
	// Zero selects the default budget of 256 MB.
	MemoryBudgetMB int

	// Registerer receives the renderer's Prometheus metrics. Nil keeps
	// the metrics unregistered.
	Registerer prometheus.Registerer

	// Clock returns the animation time. Nil uses the wall time since the
	// renderer was created.
	Clock func() time.Duration
}

// DefaultConfig returns the settings NewRenderer starts from.
func DefaultConfig() Config {
	return Config{
		SurfaceFormat: gputypes.TextureFormatBGRA8Unorm,
		Workers:       runtime.GOMAXPROCS(0),
	}
}

// Option configures a Renderer.
type Option func(*Config)

// WithImageSource sets the source of tilemap texture images.
func WithImageSource(src tilemap.ImageSource) Option {
	return func(c *Config) {
		c.Images = src
	}
}

// WithSurfaceFormat sets the color format of non-HDR views.
func WithSurfaceFormat(f gputypes.TextureFormat) Option {
	return func(c *Config) {
		c.SurfaceFormat = f
	}
}

// WithSPIRV enables naga shader compilation.
func WithSPIRV(enabled bool) Option {
	return func(c *Config) {
		c.SPIRV = enabled
	}
}

// WithWorkers sets the number of mesh rebuild workers.
func WithWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Workers = n
		}
	}
}

// WithMemoryBudget caps GPU allocations at mb megabytes.
func WithMemoryBudget(mb int) Option {
	return func(c *Config) {
		c.MemoryBudgetMB = mb
	}
}

// WithMetrics registers the renderer's metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registerer = reg
	}
}

// WithClock sets the animation clock.
func WithClock(clock func() time.Duration) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}
