package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gogpu/tilemap"
	"gopkg.in/yaml.v3"
)

// Scene is the YAML description of a benchmark run.
type Scene struct {
	Seed   int64        `yaml:"seed"`
	Frames int          `yaml:"frames"`
	Width  uint32       `yaml:"width"`
	Height uint32       `yaml:"height"`
	Maps   []MapConfig  `yaml:"maps"`
	Views  []ViewConfig `yaml:"views"`
}

// MapConfig describes one generated tilemap.
type MapConfig struct {
	Name      string     `yaml:"name"`
	Size      [2]uint32  `yaml:"size"`
	TileSize  [2]float32 `yaml:"tile_size"`
	ChunkSize [2]uint32  `yaml:"chunk_size"`
	Type      string     `yaml:"type"`
	Anchor    string     `yaml:"anchor"`
	Z         float32    `yaml:"z"`
	YSort     bool       `yaml:"ysort"`
	Culling   *bool      `yaml:"culling"`

	// Atlas is an image path relative to the scene file. Without one a
	// striped atlas of Layers tiles is generated.
	Atlas  string `yaml:"atlas"`
	Layers uint32 `yaml:"layers"`

	// Noise below Threshold leaves the cell empty.
	Threshold float64 `yaml:"threshold"`
	Scale     float64 `yaml:"scale"`

	// Churn is the number of tiles respawned every frame.
	Churn int `yaml:"churn"`
}

// ViewConfig describes one camera.
type ViewConfig struct {
	Center  [2]float32 `yaml:"center"`
	Zoom    float32    `yaml:"zoom"`
	HDR     bool       `yaml:"hdr"`
	Samples uint32     `yaml:"samples"`
}

var errNoMaps = errors.New("scene has no maps")

// LoadScene reads and validates a scene file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScene(data)
}

// ParseScene decodes a scene and fills in defaults.
func ParseScene(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scene) normalize() error {
	if len(s.Maps) == 0 {
		return errNoMaps
	}
	if s.Frames <= 0 {
		s.Frames = 60
	}
	if s.Width == 0 {
		s.Width = 1280
	}
	if s.Height == 0 {
		s.Height = 720
	}
	if len(s.Views) == 0 {
		s.Views = []ViewConfig{{}}
	}
	for i := range s.Views {
		v := &s.Views[i]
		if v.Zoom <= 0 {
			v.Zoom = 1
		}
		if v.Samples == 0 {
			v.Samples = 1
		}
	}
	for i := range s.Maps {
		m := &s.Maps[i]
		if m.Name == "" {
			m.Name = fmt.Sprintf("map%d", i)
		}
		if m.Size[0] == 0 || m.Size[1] == 0 {
			return fmt.Errorf("map %q: size must be positive", m.Name)
		}
		if m.TileSize[0] <= 0 || m.TileSize[1] <= 0 {
			m.TileSize = [2]float32{16, 16}
		}
		if m.ChunkSize[0] == 0 || m.ChunkSize[1] == 0 {
			d := tilemap.DefaultRenderSettings().ChunkSize
			m.ChunkSize = [2]uint32{d.X, d.Y}
		}
		if m.Layers == 0 {
			m.Layers = 8
		}
		if m.Scale <= 0 {
			m.Scale = 0.1
		}
		if _, err := parseType(m.Type); err != nil {
			return fmt.Errorf("map %q: %w", m.Name, err)
		}
		if _, err := parseAnchor(m.Anchor); err != nil {
			return fmt.Errorf("map %q: %w", m.Name, err)
		}
	}
	return nil
}

// Options converts the map settings to tilemap options.
func (m *MapConfig) Options() []tilemap.Option {
	typ, _ := parseType(m.Type)
	anchor, _ := parseAnchor(m.Anchor)
	opts := []tilemap.Option{
		tilemap.WithType(typ),
		tilemap.WithAnchor(anchor),
		tilemap.WithChunkSize(m.ChunkSize[0], m.ChunkSize[1]),
		tilemap.WithYSort(m.YSort),
		tilemap.WithTransform(tilemap.TransformFromTranslation(tilemap.V3(0, 0, m.Z))),
	}
	if m.Culling != nil {
		opts = append(opts, tilemap.WithFrustumCulling(*m.Culling))
	}
	return opts
}

func parseType(s string) (tilemap.TilemapType, error) {
	switch strings.ToLower(s) {
	case "", "square":
		return tilemap.SquareType(false), nil
	case "square_diagonal":
		return tilemap.SquareType(true), nil
	case "hex_row":
		return tilemap.HexagonType(tilemap.HexRow), nil
	case "hex_row_even":
		return tilemap.HexagonType(tilemap.HexRowEven), nil
	case "hex_row_odd":
		return tilemap.HexagonType(tilemap.HexRowOdd), nil
	case "hex_column":
		return tilemap.HexagonType(tilemap.HexColumn), nil
	case "hex_column_even":
		return tilemap.HexagonType(tilemap.HexColumnEven), nil
	case "hex_column_odd":
		return tilemap.HexagonType(tilemap.HexColumnOdd), nil
	case "iso_diamond":
		return tilemap.IsometricType(false, tilemap.IsoDiamond), nil
	case "iso_staggered":
		return tilemap.IsometricType(false, tilemap.IsoStaggered), nil
	}
	return tilemap.TilemapType{}, fmt.Errorf("unknown map type %q", s)
}

var anchors = map[string]tilemap.Anchor{
	"":              tilemap.CenterAnchor,
	"none":          tilemap.NoAnchor,
	"top_left":      tilemap.TopLeftAnchor,
	"top_center":    tilemap.TopCenterAnchor,
	"top_right":     tilemap.TopRightAnchor,
	"center_left":   tilemap.CenterLeftAnchor,
	"center":        tilemap.CenterAnchor,
	"center_right":  tilemap.CenterRightAnchor,
	"bottom_left":   tilemap.BottomLeftAnchor,
	"bottom_center": tilemap.BottomCenterAnchor,
	"bottom_right":  tilemap.BottomRightAnchor,
}

func parseAnchor(s string) (tilemap.Anchor, error) {
	a, ok := anchors[strings.ToLower(s)]
	if !ok {
		return tilemap.Anchor{}, fmt.Errorf("unknown anchor %q", s)
	}
	return a, nil
}
