// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Compute    ComputeConfig    `yaml:"compute"`
	Area       AreaConfig       `yaml:"area"`
	Planet     PlanetConfig     `yaml:"planet"`
	Food       ResourcePoolConfig `yaml:"food"`
	Water      ResourcePoolConfig `yaml:"water"`
	Population PopulationConfig `yaml:"population"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ComputeConfig holds run-mode and threading parameters.
type ComputeConfig struct {
	RunMode                         int     `yaml:"run_mode"`
	PerformanceFramerate            int     `yaml:"performance_framerate"`
	StandardFramerate               int     `yaml:"standard_framerate"`
	SimulationThreads               int     `yaml:"simulation_threads"`
	PrecomputeTemperaturesCPUThreads int    `yaml:"precompute_temperatures_cpu_threads"`
	SimulationBenchmarkTimesteps    int     `yaml:"simulation_benchmark_timesteps"`
	PlanetBenchmarkSamples          int     `yaml:"planet_benchmark_samples"`
	RandomSeedFactor                int64   `yaml:"random_seed_factor"`
	ResultsPath                     string  `yaml:"results_path"`
}

// AreaConfig holds world geometry parameters.
type AreaConfig struct {
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	LatitudeRange  float64 `yaml:"latitude_range"`
	ViewportWidth  int     `yaml:"viewport_width"`
	ViewportHeight int     `yaml:"viewport_height"`
	Title          string  `yaml:"title"`
	BackgroundColor string `yaml:"background_color"`
}

// PlanetConfig holds orbital/astronomical physics parameters.
type PlanetConfig struct {
	OrbitalPeriod                int     `yaml:"orbital_period"`
	OrbitCenterOffsetX           float64 `yaml:"orbit_center_offset_x"`
	OrbitCenterOffsetY           float64 `yaml:"orbit_center_offset_y"`
	OrbitRadiusX                 float64 `yaml:"orbit_radius_x"`
	OrbitRadiusY                 float64 `yaml:"orbit_radius_y"`
	OrbitRotation                float64 `yaml:"orbit_rotation"`
	StarLuminosity                float64 `yaml:"star_luminosity"`
	Albedo                        float64 `yaml:"albedo"`
	AxialTilt                     float64 `yaml:"axial_tilt"`
	Radius                        float64 `yaml:"radius"`
	AtmosphereOpticalThickness    float64 `yaml:"atmosphere_optical_thickness"`
	TemperatureModerationFactor   float64 `yaml:"temperature_moderation_factor"`
	TemperatureModerationBias     float64 `yaml:"temperature_moderation_bias"`
}

// ResourcePoolConfig holds food/water pool parameters.
type ResourcePoolConfig struct {
	PoolSize     int     `yaml:"pool_size"`
	MaxVal       int     `yaml:"max_val"`
	PoolPosMargin float64 `yaml:"pool_pos_margin"`
	PoolInit     int     `yaml:"pool_init"`
}

// PopulationConfig holds agent/population parameters.
type PopulationConfig struct {
	PoolSize                  int     `yaml:"pool_size"`
	PoolPosMargin             float64 `yaml:"pool_pos_margin"`
	AreaOfInfluenceMean       float64 `yaml:"area_of_influence_mean"`
	AreaOfInfluenceSigma      float64 `yaml:"area_of_influence_sigma"`
	SpeedMean                 float64 `yaml:"speed_mean"`
	SpeedSigma                float64 `yaml:"speed_sigma"`
	HealthRateMean            float64 `yaml:"health_rate_mean"`
	HealthRateSigma           float64 `yaml:"health_rate_sigma"`
	IdealTempMean             float64 `yaml:"ideal_temp_mean"`
	IdealTempSigma            float64 `yaml:"ideal_temp_sigma"`
	TempRangeMean             float64 `yaml:"temp_range_mean"`
	TempRangeSigma            float64 `yaml:"temp_range_sigma"`
	BehaviourNetWeightRange      float64 `yaml:"behaviour_net_weight_range"`
	BehaviourNetWeightRangeBias  float64 `yaml:"behaviour_net_weight_range_bias"`
	BehaviourNetLayer1Units      int     `yaml:"behaviour_net_layer_1_units"`
	BehaviourNetLayer2Units      int     `yaml:"behaviour_net_layer_2_units"`
	PoolInit                     int     `yaml:"pool_init"`
	ReplicationRate               float64 `yaml:"replication_rate"`
	BehaviourNetMutationProb      float64 `yaml:"behaviour_net_mutation_prob"`
	BehaviourNetMutationSigma     float64 `yaml:"behaviour_net_mutation_sigma"`
	TraitGenesMutationProb        float64 `yaml:"trait_genes_mutation_prob"`
	TraitGenesMutationSigma       float64 `yaml:"trait_genes_mutation_sigma"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW32             float32
	WorldH32             float32
	SimulationThreads    int // resolved 0 => hardware concurrency
	PlanetThreads        int // resolved 0 => hardware concurrency
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// If the file cannot be read or parsed, the embedded defaults are installed
// and the error is returned for the caller to log.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if cfg != nil {
		global = cfg
	}
	return err
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

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. Parse failures are
// non-fatal: the caller gets embedded defaults and an error to log.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	var loadErr error
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("reading config file: %w", err)
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			loadErr = fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.clamp()
	cfg.computeDerived()

	return cfg, loadErr
}

// clamp restricts every option to the range enforced by the original
// implementation's get_numerical_option bounds.
func (c *Config) clamp() {
	clampInt(&c.Compute.SimulationThreads, 0, 256)
	clampInt(&c.Compute.PrecomputeTemperaturesCPUThreads, 0, 256)
	clampInt(&c.Compute.SimulationBenchmarkTimesteps, 1, 1_000_000)
	clampInt(&c.Compute.PlanetBenchmarkSamples, 1, 1000)

	clampInt(&c.Area.Width, 300, 10_000)
	clampInt(&c.Area.Height, 300, 10_000)
	clampFloat(&c.Area.LatitudeRange, 1, 90)
	clampInt(&c.Area.ViewportWidth, 300, 10_000)
	clampInt(&c.Area.ViewportHeight, 300, 10_000)

	clampInt(&c.Planet.OrbitalPeriod, 1000, 1_000_000)
	clampFloat(&c.Planet.Albedo, 0, 1)
	clampFloat(&c.Planet.AxialTilt, 0, 45)
	clampFloat(&c.Planet.Radius, 1e3, 1e7)
	clampFloat(&c.Planet.AtmosphereOpticalThickness, 0, 10)
	clampFloat(&c.Planet.TemperatureModerationFactor, 1, 10)
	clampFloat(&c.Planet.TemperatureModerationBias, 0, 1)

	clampInt(&c.Food.PoolSize, 1, 8192)
	clampInt(&c.Food.MaxVal, 10_000, 1_000_000)
	clampFloat(&c.Food.PoolPosMargin, 0, 150)
	clampInt(&c.Food.PoolInit, 1, 8192)

	clampInt(&c.Water.PoolSize, 1, 8192)
	clampInt(&c.Water.MaxVal, 10_000, 1_000_000)
	clampFloat(&c.Water.PoolPosMargin, 0, 150)
	clampInt(&c.Water.PoolInit, 1, 8192)

	clampInt(&c.Population.PoolSize, 1, 8192)
	clampFloat(&c.Population.PoolPosMargin, 0, 150)
	clampFloat(&c.Population.AreaOfInfluenceMean, 1, 100)
	clampFloat(&c.Population.SpeedMean, 0.1, 100)
	clampFloat(&c.Population.HealthRateMean, 1, 1e6)
	clampFloat(&c.Population.IdealTempMean, 0, 1e3)
	clampFloat(&c.Population.TempRangeMean, 0, 100)
	clampFloat(&c.Population.BehaviourNetWeightRange, 1e-4, 10)
	clampFloat(&c.Population.BehaviourNetWeightRangeBias, 1, 10)
	clampInt(&c.Population.BehaviourNetLayer1Units, 1, 128)
	clampInt(&c.Population.BehaviourNetLayer2Units, 1, 128)
	clampInt(&c.Population.PoolInit, 1, 8192)
	clampFloat(&c.Population.ReplicationRate, 0, 1)
	clampFloat(&c.Population.BehaviourNetMutationProb, 0, 1)
	clampFloat(&c.Population.BehaviourNetMutationSigma, 0, 10)
	clampFloat(&c.Population.TraitGenesMutationProb, 0, 1)
	clampFloat(&c.Population.TraitGenesMutationSigma, 0, 2)
}

func clampInt(v *int, lo, hi int) {
	if *v < lo {
		*v = lo
	} else if *v > hi {
		*v = hi
	}
}

func clampFloat(v *float64, lo, hi float64) {
	if *v < lo {
		*v = lo
	} else if *v > hi {
		*v = hi
	}
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.WorldW32 = float32(c.Area.Width)
	c.Derived.WorldH32 = float32(c.Area.Height)

	c.Derived.SimulationThreads = c.Compute.SimulationThreads
	if c.Derived.SimulationThreads == 0 {
		c.Derived.SimulationThreads = runtime.NumCPU()
	}
	c.Derived.PlanetThreads = c.Compute.PrecomputeTemperaturesCPUThreads
	if c.Derived.PlanetThreads == 0 {
		c.Derived.PlanetThreads = runtime.NumCPU()
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
