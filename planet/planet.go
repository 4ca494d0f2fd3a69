// Package planet precomputes a deterministic, immutable per-latitude,
// per-timestep temperature lookup table from a simplified orbital/
// black-body radiation model, shared read-only by every organism during
// a run.
package planet

import (
	"math"
	"sync"
	"time"

	"github.com/pthm-cable/geneticsim/config"
	"github.com/pthm-cable/geneticsim/telemetry"
)

const stefanBoltzmann = 5.670373e-8

// Planet holds the precomputed temperature table: areaHeight rows of
// timesteps columns each, addressed as temperatures[y*timesteps+t].
type Planet struct {
	initialized bool
	temperatures []float32
	timesteps    uint32
}

// New returns an uninitialized planet; call Precompute before any
// Temperature lookups.
func New() *Planet {
	return &Planet{}
}

// Temperature returns the precomputed temperature at latitude row y and
// timestep t (wrapped modulo the orbital period), or -1 if the table has
// not yet been precomputed.
func (p *Planet) Temperature(y, t uint32) float32 {
	if !p.initialized {
		return -1
	}
	return p.temperatures[y*p.timesteps+(t%p.timesteps)]
}

// Precompute fills the temperature table using cfg's orbital/area
// parameters, splitting the timestep range across cfg.Derived.PlanetThreads
// worker goroutines. Safe to call once before any worker reads Temperature.
func (p *Planet) Precompute(cfg *config.Config) {
	p.precompute(cfg.Derived.PlanetThreads, cfg)
}

// PrecomputeBenchmark runs Precompute cfg.Compute.PlanetBenchmarkSamples
// times, recording each run's wall-clock duration in microseconds and
// writing the samples through sink. The table reflects the final run.
func (p *Planet) PrecomputeBenchmark(cfg *config.Config, sink telemetry.ResultSink) error {
	samples := cfg.Compute.PlanetBenchmarkSamples
	times := make([]int64, samples)
	for i := 0; i < samples; i++ {
		start := time.Now()
		p.precompute(cfg.Derived.PlanetThreads, cfg)
		times[i] = time.Since(start).Microseconds()
	}
	header := "time_microseconds"
	filename := planetBenchmarkFilename(cfg.Derived.PlanetThreads)
	return sink.Write(cfg.Compute.ResultsPath, filename, header, times)
}

func planetBenchmarkFilename(threads int) string {
	return "planet_benchmark_cpu_" + itoa(threads) + "_threads.csv"
}

func (p *Planet) precompute(workerThreads int, cfg *config.Config) {
	areaHeight := cfg.Area.Height
	orbitalPeriod := cfg.Planet.OrbitalPeriod

	p.temperatures = make([]float32, areaHeight*orbitalPeriod)
	p.timesteps = uint32(orbitalPeriod)

	if workerThreads < 1 {
		workerThreads = 1
	}
	timestepsPerThread := orbitalPeriod/workerThreads + 1

	var wg sync.WaitGroup
	for i := 0; i < workerThreads; i++ {
		start := i * timestepsPerThread
		end := (i + 1) * timestepsPerThread
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			p.precomputeRange(start, end, areaHeight, orbitalPeriod, &cfg.Planet)
		}(start, end)
	}
	wg.Wait()

	p.initialized = true
}

// precomputeRange fills temperatures for every (latitude row, timestep)
// pair with t in [start,end), clamped to the orbital period. All math
// runs in float64 so results are bit-stable regardless of how the
// timestep range is partitioned across goroutines.
func (p *Planet) precomputeRange(start, end, areaHeight, orbitalPeriod int, pc *config.PlanetConfig) {
	if end > orbitalPeriod {
		end = orbitalPeriod
	}
	if start >= end {
		return
	}

	equatorialBlackBody := make([]float64, end-start)

	orbitRadiusX := pc.OrbitRadiusX
	orbitRadiusY := pc.OrbitRadiusY
	orbitRotation := pc.OrbitRotation
	orbitCenterX := pc.OrbitCenterOffsetX
	orbitCenterY := pc.OrbitCenterOffsetY
	luminosity := pc.StarLuminosity
	albedo := pc.Albedo
	axialTilt := pc.AxialTilt * math.Pi / 180
	radius := pc.Radius
	atmosphereThickness := pc.AtmosphereOpticalThickness
	moderationFactor := pc.TemperatureModerationFactor
	moderationBias := pc.TemperatureModerationBias

	cosThirty := math.Cos(math.Pi / 6)

	// Pass 1: equatorial black-body temperature per timestep.
	for t := start; t < end; t++ {
		angle := (float64(t) / float64(orbitalPeriod)) * 2 * math.Pi
		posX := orbitRadiusX*math.Cos(angle)*math.Cos(orbitRotation) - orbitRadiusY*math.Sin(angle)*math.Sin(orbitRotation) + orbitCenterX
		posY := orbitRadiusX*math.Cos(angle)*math.Sin(orbitRotation) + orbitRadiusY*math.Sin(angle)*math.Cos(orbitRotation) + orbitCenterY
		squaredDist := posX*posX + posY*posY
		blackBodyTemp := math.Pow((luminosity*(1-albedo))/(16*math.Pi*squaredDist*stefanBoltzmann), 0.25)
		equatorialBlackBody[t-start] = blackBodyTemp / cosThirty
	}

	// Pass 2: per-latitude moderated temperature, using axial tilt and
	// daylight proportion derived from the sun-angle geometry.
	for y := 0; y < areaHeight; y++ {
		latitude := -(((float64(y) / float64(areaHeight-1)) * 180) - 90)
		for t := start; t < end; t++ {
			angle := (float64(t) / float64(orbitalPeriod)) * 2 * math.Pi
			angleFromVernalEquinox := angle + orbitRotation
			effectiveAxialTilt := math.Sin(angleFromVernalEquinox) * axialTilt * 180 / math.Pi
			effectiveLatitude := latitude - effectiveAxialTilt

			heightToLatitude := math.Sin((latitude/360)*2*math.Pi) * radius
			effectiveTiltRad := (effectiveAxialTilt / 360) * 2 * math.Pi
			effectiveTiltPlaneDist := math.Tan(effectiveTiltRad) * heightToLatitude
			widthAtLatitude := math.Max(0, math.Cos((latitude/360)*2*math.Pi)*radius)

			var planeDistRatio float64
			if widthAtLatitude == 0 {
				planeDistRatio = sign(effectiveTiltPlaneDist)
			} else {
				planeDistRatio = effectiveTiltPlaneDist / widthAtLatitude
			}
			planeDistRatio = clip(planeDistRatio, -1, 1)
			extraLongitude := math.Asin(planeDistRatio)
			daylightProportion := (math.Pi + 2*extraLongitude) / (2 * math.Pi)

			radiationStrength := math.Max(0, math.Cos((effectiveLatitude/360)*2*math.Pi))
			equatorial := equatorialBlackBody[t-start]
			baseTemperature := equatorial * radiationStrength * (daylightProportion * 2)
			moderatedTemperature := ((baseTemperature - equatorial*moderationBias) / moderationFactor) + equatorial*moderationBias

			finalTemp := moderatedTemperature * math.Pow(1+0.75*atmosphereThickness, 0.25)
			p.temperatures[y*orbitalPeriod+t] = float32(finalTemp)
		}
	}
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	if v > 0 {
		return 1
	}
	return 0
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
