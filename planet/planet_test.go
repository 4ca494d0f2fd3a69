package planet

import (
	"testing"

	"github.com/pthm-cable/geneticsim/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	// Keep the table small so the test runs fast.
	cfg.Area.Height = 50
	cfg.Planet.OrbitalPeriod = 2000
	return cfg
}

func TestTemperatureBeforePrecomputeReturnsSentinel(t *testing.T) {
	p := New()
	if got := p.Temperature(0, 0); got != -1 {
		t.Errorf("expected -1 before Precompute, got %f", got)
	}
}

func TestPrecomputeFillsEveryCell(t *testing.T) {
	cfg := testConfig(t)
	p := New()
	p.Precompute(cfg)

	for y := uint32(0); y < uint32(cfg.Area.Height); y += 7 {
		for tt := uint32(0); tt < uint32(cfg.Planet.OrbitalPeriod); tt += 97 {
			if got := p.Temperature(y, tt); got <= 0 {
				t.Fatalf("expected a positive absolute temperature at (y=%d,t=%d), got %f", y, tt, got)
			}
		}
	}
}

func TestTemperatureWrapsModuloOrbitalPeriod(t *testing.T) {
	cfg := testConfig(t)
	p := New()
	p.Precompute(cfg)

	period := uint32(cfg.Planet.OrbitalPeriod)
	a := p.Temperature(10, 5)
	b := p.Temperature(10, 5+period)
	if a != b {
		t.Errorf("expected temperature to wrap modulo orbital period: t=5 gave %f, t=5+period gave %f", a, b)
	}
}

// TestPrecomputeIsThreadCountInvariant verifies that partitioning the
// timestep range across a different number of worker goroutines does
// not change the result: every goroutine computes its range
// independently in float64, so the split point must not matter.
func TestPrecomputeIsThreadCountInvariant(t *testing.T) {
	cfg := testConfig(t)

	single := New()
	single.precompute(1, cfg)

	multi := New()
	multi.precompute(5, cfg)

	for y := uint32(0); y < uint32(cfg.Area.Height); y += 11 {
		for tt := uint32(0); tt < uint32(cfg.Planet.OrbitalPeriod); tt += 131 {
			a := single.Temperature(y, tt)
			b := multi.Temperature(y, tt)
			if a != b {
				t.Errorf("thread-count dependent result at (y=%d,t=%d): 1 thread=%f, 5 threads=%f", y, tt, a, b)
			}
		}
	}
}

func TestPrecomputeBenchmarkWritesExpectedSampleCount(t *testing.T) {
	cfg := testConfig(t)
	cfg.Compute.PlanetBenchmarkSamples = 3

	p := New()
	var got struct {
		path, name, header string
		samples            []int64
	}
	sink := sinkFunc(func(resultsPath, filename, header string, samplesMicros []int64) error {
		got.path, got.name, got.header, got.samples = resultsPath, filename, header, samplesMicros
		return nil
	})

	if err := p.PrecomputeBenchmark(cfg, sink); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.samples) != 3 {
		t.Errorf("expected 3 benchmark samples, got %d", len(got.samples))
	}
	if got.header != "time_microseconds" {
		t.Errorf("expected header 'time_microseconds', got %q", got.header)
	}
	if !p.initialized {
		t.Error("expected the planet's table to be initialized after PrecomputeBenchmark")
	}
}

type sinkFunc func(resultsPath, filename, header string, samplesMicros []int64) error

func (f sinkFunc) Write(resultsPath, filename, header string, samplesMicros []int64) error {
	return f(resultsPath, filename, header, samplesMicros)
}

func TestClipBoundsValue(t *testing.T) {
	if got := clip(5, 0, 1); got != 1 {
		t.Errorf("expected clip to cap at hi, got %f", got)
	}
	if got := clip(-5, 0, 1); got != 0 {
		t.Errorf("expected clip to floor at lo, got %f", got)
	}
	if got := clip(0.5, 0, 1); got != 0.5 {
		t.Errorf("expected clip to pass through in-range value, got %f", got)
	}
}

func TestSignMatchesCStyleSemantics(t *testing.T) {
	if sign(2) != 1 || sign(-2) != -1 || sign(0) != 0 {
		t.Errorf("unexpected sign results: %f %f %f", sign(2), sign(-2), sign(0))
	}
}
