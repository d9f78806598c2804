// Package config provides configuration loading and access for the
// heightfield streaming pipeline.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/heightstream/erosion"
	"github.com/pthm-cable/heightstream/streaming"
	"github.com/pthm-cable/heightstream/worldgen"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds the complete, immutable parameter surface a world needs to
// configure every component of the pipeline: world seed and tile geometry,
// the Voronoi/noise layer parameters, erosion parameters, and the
// streaming batching policy.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Voronoi   VoronoiConfig   `yaml:"voronoi"`
	Noise     NoiseConfig     `yaml:"noise"`
	Erosion   ErosionConfig   `yaml:"erosion"`
	Streaming StreamingConfig `yaml:"streaming"`
	Cache     CacheConfig     `yaml:"cache"`

	// Derived values computed after loading.
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the world-identifying and tile-geometry parameters.
type WorldConfig struct {
	Seed     uint32 `yaml:"seed"`
	TileSize int32  `yaml:"tile_size"`
	Padding  int32  `yaml:"padding"`
}

// VoronoiConfig mirrors the Voronoi-facing half of worldgen.Params.
type VoronoiConfig struct {
	Enabled         bool    `yaml:"enabled"`
	NPoints         uint16  `yaml:"n_points"`
	Intensity       float32 `yaml:"intensity"`
	Falloff         float32 `yaml:"falloff"`
	RidgeMultiplier float32 `yaml:"ridge_multiplier"`
	Scaling         string  `yaml:"scaling"`
	Amplitude       float32 `yaml:"amplitude"`
	MinH            float32 `yaml:"min_h"`
	MaxH            float32 `yaml:"max_h"`
}

// NoiseConfig mirrors the FBM-facing half of worldgen.Params.
type NoiseConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Intensity   float32 `yaml:"intensity"`
	Freq        float32 `yaml:"freq"`
	Octaves     uint8   `yaml:"octaves"`
	Lacunarity  float32 `yaml:"lacunarity"`
	Persistence float32 `yaml:"persistence"`
	Seed        int32   `yaml:"seed"`
}

// ErosionConfig mirrors erosion.Params.
type ErosionConfig struct {
	Enabled                bool    `yaml:"enabled"`
	Kernel                 string  `yaml:"kernel"` // "brush" or "texture"
	Intensity              float32 `yaml:"intensity"`
	DropletsPerTile        int     `yaml:"droplets_per_tile"`
	MaxLifetime            int     `yaml:"max_lifetime"`
	SedimentCapacityFactor float32 `yaml:"sediment_capacity_factor"`
	MinSedimentCapacity    float32 `yaml:"min_sediment_capacity"`
	DepositSpeed           float32 `yaml:"deposit_speed"`
	ErodeSpeed             float32 `yaml:"erode_speed"`
	EvaporateSpeed         float32 `yaml:"evaporate_speed"`
	Gravity                float32 `yaml:"gravity"`
	StartSpeed             float32 `yaml:"start_speed"`
	StartWater             float32 `yaml:"start_water"`
	Inertia                float32 `yaml:"inertia"`
	BrushRadius            int32   `yaml:"brush_radius"`
	TextureSigma           float64 `yaml:"texture_sigma"` // used only when kernel == "texture"
}

// StreamingConfig mirrors streaming.Config's batching policy.
type StreamingConfig struct {
	BatchSize        int32 `yaml:"batch_size"`
	EdgeThreshold    int32 `yaml:"edge_threshold"`
	MaxCachedBatches int   `yaml:"max_cached_batches"`
}

// CacheConfig points at the on-disk tile cache root.
type CacheConfig struct {
	Root string `yaml:"root"`
}

// DerivedConfig holds values computed once after loading, so hot paths
// never recompute them.
type DerivedConfig struct {
	VMax float64 // erosion.Params.VMax(), the droplet search-region radius
}

var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults, validates it, and computes derived values. If path is empty,
// only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	erosionParams, err := cfg.ErosionParams()
	if err != nil {
		return nil, err
	}
	cfg.Derived.VMax = erosionParams.VMax()

	return cfg, nil
}

// Validate rejects out-of-range parameters here, before any component is
// constructed.
func (c *Config) Validate() error {
	if c.World.TileSize <= 0 {
		return fmt.Errorf("config: world.tile_size must be positive, got %d", c.World.TileSize)
	}
	if c.World.Padding < 0 {
		return fmt.Errorf("config: world.padding must be >= 0, got %d", c.World.Padding)
	}
	if c.Streaming.BatchSize <= 0 {
		return fmt.Errorf("config: streaming.batch_size must be positive, got %d", c.Streaming.BatchSize)
	}
	if c.Streaming.EdgeThreshold < 0 {
		return fmt.Errorf("config: streaming.edge_threshold must be >= 0, got %d", c.Streaming.EdgeThreshold)
	}
	if c.Streaming.MaxCachedBatches < 1 {
		return fmt.Errorf("config: streaming.max_cached_batches must be >= 1, got %d", c.Streaming.MaxCachedBatches)
	}
	if c.Cache.Root == "" {
		return fmt.Errorf("config: cache.root must not be empty")
	}

	vp, err := c.VoronoiNoiseParams()
	if err != nil {
		return err
	}
	if err := vp.Validate(); err != nil {
		return err
	}

	ep, err := c.ErosionParams()
	if err != nil {
		return err
	}
	return ep.Validate()
}

// VoronoiNoiseParams translates the YAML-facing Voronoi/Noise sections into
// worldgen.Params.
func (c *Config) VoronoiNoiseParams() (worldgen.Params, error) {
	scaling, err := parseScaling(c.Voronoi.Scaling)
	if err != nil {
		return worldgen.Params{}, err
	}
	return worldgen.Params{
		Seed:             c.World.Seed,
		NPoints:          c.Voronoi.NPoints,
		VoronoiIntensity: c.Voronoi.Intensity,
		NoiseIntensity:   c.Noise.Intensity,
		EnableVoronoi:    c.Voronoi.Enabled,
		EnableNoise:      c.Noise.Enabled,
		Falloff:          c.Voronoi.Falloff,
		RidgeMultiplier:  c.Voronoi.RidgeMultiplier,
		Amplitude:        c.Voronoi.Amplitude,
		Scaling:          scaling,
		MinH:             c.Voronoi.MinH,
		MaxH:             c.Voronoi.MaxH,
		NoiseFreq:        c.Noise.Freq,
		NoiseOctaves:     c.Noise.Octaves,
		NoiseLacunarity:  c.Noise.Lacunarity,
		NoisePersistence: c.Noise.Persistence,
		NoiseSeed:        c.Noise.Seed,
	}, nil
}

// ErosionParams translates the YAML-facing Erosion section into
// erosion.Params.
func (c *Config) ErosionParams() (erosion.Params, error) {
	kernel, err := parseKernel(c.Erosion.Kernel)
	if err != nil {
		return erosion.Params{}, err
	}
	p := erosion.Params{
		Seed:                   c.World.Seed,
		Kernel:                 kernel,
		Enabled:                c.Erosion.Enabled,
		Intensity:              c.Erosion.Intensity,
		DropletsPerTile:        c.Erosion.DropletsPerTile,
		MaxLifetime:            c.Erosion.MaxLifetime,
		SedimentCapacityFactor: c.Erosion.SedimentCapacityFactor,
		MinSedimentCapacity:    c.Erosion.MinSedimentCapacity,
		DepositSpeed:           c.Erosion.DepositSpeed,
		ErodeSpeed:             c.Erosion.ErodeSpeed,
		EvaporateSpeed:         c.Erosion.EvaporateSpeed,
		Gravity:                c.Erosion.Gravity,
		StartSpeed:             c.Erosion.StartSpeed,
		StartWater:             c.Erosion.StartWater,
		Inertia:                c.Erosion.Inertia,
		BrushRadius:            c.Erosion.BrushRadius,
	}
	if kernel == erosion.KernelTexture {
		p.TextureMap = erosion.NewGaussianIntensityMap(int(2*c.Erosion.BrushRadius+1), c.Erosion.TextureSigma)
	}
	return p, nil
}

// StreamingConfig returns streaming.Config built from this config's world
// and streaming sections.
func (c *Config) StreamingConfig() streaming.Config {
	return streaming.Config{
		TileSize:         c.World.TileSize,
		BatchSize:        c.Streaming.BatchSize,
		EdgeThreshold:    c.Streaming.EdgeThreshold,
		MaxCachedBatches: c.Streaming.MaxCachedBatches,
	}
}

// WriteYAML saves the configuration to path, for reproducing a run's exact
// parameters alongside its output.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

func parseScaling(s string) (worldgen.ScalingType, error) {
	switch s {
	case "linear", "":
		return worldgen.ScalingLinear, nil
	case "quadratic":
		return worldgen.ScalingQuadratic, nil
	case "exponential":
		return worldgen.ScalingExponential, nil
	case "sigmoid":
		return worldgen.ScalingSigmoid, nil
	case "inverse":
		return worldgen.ScalingInverse, nil
	case "power":
		return worldgen.ScalingPower, nil
	case "cosine":
		return worldgen.ScalingCosine, nil
	default:
		return 0, fmt.Errorf("config: unknown voronoi.scaling %q", s)
	}
}

func parseKernel(s string) (erosion.Kernel, error) {
	switch s {
	case "brush", "":
		return erosion.KernelBrush, nil
	case "texture":
		return erosion.KernelTexture, nil
	default:
		return 0, fmt.Errorf("config: unknown erosion.kernel %q", s)
	}
}
