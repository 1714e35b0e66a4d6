// Command tilebench drives generated tilemap scenes through the renderer
// and reports per-frame statistics.
//
// Usage:
//
//	tilebench -config scene.yaml [-frames N] [-spirv] [-metrics :2112] [-backend noop|vulkan]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/asset"
	"github.com/gogpu/tilemap/internal/gpu"
	"github.com/gogpu/tilemap/render"
	"github.com/gogpu/tilemap/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var (
		config  = flag.String("config", "scene.yaml", "scene file")
		frames  = flag.Int("frames", 0, "frames to render, overrides the scene")
		spirv   = flag.Bool("spirv", false, "compile shaders to SPIR-V with naga")
		metrics = flag.String("metrics", "", "serve Prometheus metrics on this address")
		backend = flag.String("backend", "noop", "HAL backend: noop or vulkan")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	tilemap.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	scene, err := LoadScene(*config)
	if err != nil {
		log.Fatalf("tilebench: %v", err)
	}
	if *frames > 0 {
		scene.Frames = *frames
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	b := &bench{
		scene:   scene,
		dir:     filepath.Dir(*config),
		spirv:   *spirv,
		backend: *backend,
		reg:     prometheus.NewRegistry(),
	}
	if *metrics != "" {
		b.reg.MustRegister(collectors.NewGoCollector())
		go serveMetrics(*metrics, b.reg)
	}
	if err := b.run(ctx); err != nil {
		log.Fatalf("tilebench: %v", err)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	tilemap.Logger().Info("tilebench: serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		tilemap.Logger().Error("tilebench: metrics server", "err", err)
	}
}

type bench struct {
	scene   *Scene
	dir     string
	spirv   bool
	backend string
	reg     *prometheus.Registry

	world  *world.World
	images *asset.Server
	maps   []spawnedMap
	rng    *rand.Rand
}

type spawnedMap struct {
	entity  tilemap.Entity
	cfg     *MapConfig
	terrain *Terrain
}

func openDevice(backend string) (*gpu.Device, error) {
	switch backend {
	case "", "noop":
		return gpu.OpenNoop()
	case "vulkan":
		return gpu.Open(gputypes.BackendVulkan)
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}

func (b *bench) run(ctx context.Context) error {
	dev, err := openDevice(b.backend)
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := b.build(ctx); err != nil {
		return err
	}

	format := gputypes.TextureFormatBGRA8Unorm
	r, err := render.NewRendererFromProvider(&render.HalHandle{
		HAL:    dev.Device,
		Q:      dev.Queue,
		Info:   render.AdapterInfoFrom(dev.Info),
		Format: format,
	},
		render.WithImageSource(b.images),
		render.WithSPIRV(b.spirv),
		render.WithMetrics(b.reg),
	)
	if err != nil {
		return err
	}
	defer r.Close()

	s := b.scene
	views := b.views()
	var target *render.Target
	if len(views) == 1 {
		tf := format
		if views[0].HDR {
			tf = gputypes.TextureFormatRGBA16Float
		}
		target, err = render.NewTarget(dev.Device, s.Width, s.Height, tf, s.Views[0].Samples)
		if err != nil {
			return err
		}
		defer target.Destroy()
	}

	var total render.FrameStats
	start := time.Now()
	for i := range s.Frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			if err := b.churn(); err != nil {
				return err
			}
		}
		var st render.FrameStats
		if target != nil {
			st, err = r.Render(ctx, b.world, target, views[0])
		} else {
			st, err = r.Frame(ctx, b.world, views)
		}
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		b.world.ClearTrackers(b.world.Tick())
		accumulate(&total, st)
	}
	elapsed := time.Since(start)

	mem := r.MemoryStats()
	fmt.Printf("frames        %d in %v (%.2f ms/frame)\n", s.Frames, elapsed.Round(time.Millisecond),
		float64(elapsed.Microseconds())/1000/float64(max(s.Frames, 1)))
	fmt.Printf("tiles         %d live, %d changed\n", b.world.TileCount(), total.TilesChanged)
	fmt.Printf("chunks        %d, %d rebuilt, %d culled\n", len(r.Chunks()), total.ChunksRebuilt, total.ChunksCulled)
	fmt.Printf("draws         %d (%d quads)\n", total.Draws, total.Quads)
	fmt.Printf("pipelines     %d\n", r.Pipelines())
	fmt.Printf("gpu memory    %d buffers (%d B), %d textures (%d B)\n",
		mem.Buffers, mem.BufferBytes, mem.Textures, mem.TextureBytes)
	return nil
}

// build spawns every map of the scene and fills it with terrain.
func (b *bench) build(ctx context.Context) error {
	s := b.scene
	b.world = world.New()
	b.images = asset.NewServer(os.DirFS(b.dir))
	b.rng = rand.New(rand.NewPCG(uint64(s.Seed), 0x7469_6c65))

	for i := range s.Maps {
		m := &s.Maps[i]
		h, err := b.atlas(ctx, m)
		if err != nil {
			return fmt.Errorf("map %q: %w", m.Name, err)
		}
		tm := tilemap.NewTilemap(
			tilemap.TilemapSize{X: m.Size[0], Y: m.Size[1]},
			tilemap.TileSize{X: m.TileSize[0], Y: m.TileSize[1]},
			tilemap.AtlasTexture(h),
			m.Options()...,
		)
		e := b.world.SpawnTilemap(tm)
		terrain := NewTerrain(m, s.Seed+int64(i))
		n, err := b.world.FillTilemap(e, terrain.Tile)
		if err != nil {
			return fmt.Errorf("map %q: %w", m.Name, err)
		}
		tilemap.Logger().Info("tilebench: map spawned",
			"map", m.Name, "type", tm.Type, "size", m.Size, "tiles", n)
		b.maps = append(b.maps, spawnedMap{entity: e, cfg: m, terrain: terrain})
	}
	return nil
}

func (b *bench) atlas(ctx context.Context, m *MapConfig) (tilemap.ImageHandle, error) {
	if m.Atlas == "" {
		return b.images.Insert(GenerateAtlas(m.Layers, int(m.TileSize[0]), int(m.TileSize[1])))
	}
	h := b.images.Load(m.Atlas)
	if err := b.images.Wait(ctx, h); err != nil {
		return 0, err
	}
	return h, nil
}

// churn respawns random tiles of every map with a shifted texture layer.
func (b *bench) churn() error {
	for _, sm := range b.maps {
		size := sm.cfg.Size
		for range sm.cfg.Churn {
			pos := tilemap.TilePos{X: b.rng.Uint32N(size[0]), Y: b.rng.Uint32N(size[1])}
			t, ok := sm.terrain.Tile(pos)
			if !ok {
				continue
			}
			t.Texture = (t.Texture + tilemap.TileTextureIndex(b.rng.Uint32N(sm.cfg.Layers))) %
				tilemap.TileTextureIndex(sm.cfg.Layers)
			if _, err := b.world.SpawnTile(sm.entity, pos, t); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *bench) views() []render.View {
	s := b.scene
	out := make([]render.View, len(s.Views))
	for i, v := range s.Views {
		hw := float32(s.Width) / 2 / v.Zoom
		hh := float32(s.Height) / 2 / v.Zoom
		out[i] = render.View{
			ViewProj: tilemap.Orthographic(
				v.Center[0]-hw, v.Center[0]+hw,
				v.Center[1]-hh, v.Center[1]+hh,
				-1000, 1000),
			HDR:         v.HDR,
			SampleCount: v.Samples,
		}
	}
	return out
}

func accumulate(total *render.FrameStats, st render.FrameStats) {
	total.TilesChanged += st.TilesChanged
	total.TilesRemoved += st.TilesRemoved
	total.ChunksRebuilt += st.ChunksRebuilt
	total.ChunksCulled += st.ChunksCulled
	total.Draws += st.Draws
	total.Quads += st.Quads
}
