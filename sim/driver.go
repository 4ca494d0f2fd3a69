package sim

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/pthm-cable/geneticsim/config"
	"github.com/pthm-cable/geneticsim/organism"
	"github.com/pthm-cable/geneticsim/planet"
	"github.com/pthm-cable/geneticsim/pool"
	"github.com/pthm-cable/geneticsim/render"
	"github.com/pthm-cable/geneticsim/telemetry"
)

// Driver owns every piece of simulation state and orchestrates the
// per-tick worker pipeline against a render.Viewport, mirroring the
// original's Simulation class.
type Driver struct {
	cfg      *config.Config
	viewport render.Viewport
	sink     telemetry.ResultSink
	logger   *slog.Logger

	planet     *planet.Planet
	food       *pool.ConsumableResourcePool
	water      *pool.ConsumableResourcePool
	population *organism.Population

	mu     sync.Mutex
	cancel context.CancelFunc
}

// Stop cancels the running driver's context, ending the render loop and
// every worker at their next synchronization point. A no-op if Run has
// not been called yet or has already returned.
func (d *Driver) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	d.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// NewDriver builds and initializes a Driver: precomputes the planet's
// temperature table (unless run_mode is the planet-benchmark mode),
// then randomly seeds the food, water and population pools. Mirrors
// Simulation::init.
func NewDriver(cfg *config.Config, viewport render.Viewport, sink telemetry.ResultSink, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}

	rng := rand.New(rand.NewSource(-cfg.Compute.RandomSeedFactor))

	pl := planet.New()
	if cfg.Compute.RunMode != 2 {
		pl.Precompute(cfg)
	}

	worldW, worldH := cfg.Derived.WorldW32, cfg.Derived.WorldH32

	food := pool.NewConsumableResourcePool(cfg.Food.PoolSize, uint32(cfg.Food.MaxVal), float32(cfg.Food.PoolPosMargin), worldW, worldH)
	food.InitRandom(cfg.Food.PoolInit, rng)

	water := pool.NewConsumableResourcePool(cfg.Water.PoolSize, uint32(cfg.Water.MaxVal), float32(cfg.Water.PoolPosMargin), worldW, worldH)
	water.InitRandom(cfg.Water.PoolInit, rng)

	population := organism.NewPopulation(cfg.Population.PoolSize, cfg)
	population.InitRandom(cfg.Population.PoolInit, cfg.Population.PoolPosMargin, worldW, worldH, rng)

	return &Driver{
		cfg:        cfg,
		viewport:   viewport,
		sink:       sink,
		logger:     logger,
		planet:     pl,
		food:       food,
		water:      water,
		population: population,
	}
}

// Run dispatches on the configured run mode: a live interactive run, a
// simulation-thread benchmark run, or a planet-precompute benchmark
// run. Mirrors Simulation::run.
func (d *Driver) Run(ctx context.Context) error {
	switch d.cfg.Compute.RunMode {
	case 1:
		return d.runThreaded(ctx, true)
	case 2:
		return d.planet.PrecomputeBenchmark(d.cfg, d.sink)
	default:
		return d.runThreaded(ctx, false)
	}
}

type workerRange struct{ start, end int }

func splitRanges(total, threads int) []workerRange {
	if threads < 1 {
		threads = 1
	}
	per := total/threads + 1
	ranges := make([]workerRange, threads)
	for i := range ranges {
		ranges[i] = workerRange{start: i * per, end: (i + 1) * per}
	}
	return ranges
}

// runThreaded spawns one worker goroutine per simulation thread, each
// owning a contiguous range of the organism/food/water pools, then runs
// the render loop on the calling goroutine until the viewport closes or
// ctx is canceled. Mirrors Simulation::run_threaded.
func (d *Driver) runThreaded(ctx context.Context, benchmark bool) error {
	numThreads := d.cfg.Derived.SimulationThreads
	if numThreads < 1 {
		numThreads = 1
	}

	orgRanges := splitRanges(d.population.Len(), numThreads)
	foodRanges := splitRanges(d.food.Len(), numThreads)
	waterRanges := splitRanges(d.water.Len(), numThreads)

	replicationBegin := NewBarrier(numThreads)
	replicationEnd := NewBarrier(numThreads)
	endOfTimestep := NewBarrier(numThreads)

	drawResourcesBegin := NewSignalLink(numThreads, 1, false)
	drawPopulationBegin := NewSignalLink(numThreads, 1, false)
	drawDone := NewSignalLink(1, numThreads, true)

	workerCtx, cancel := context.WithCancel(ctx)
	d.mu.Lock()
	d.cancel = cancel
	d.mu.Unlock()
	defer cancel()

	abortAll := func() {
		replicationBegin.Abort()
		replicationEnd.Abort()
		endOfTimestep.Abort()
		drawResourcesBegin.Abort()
		drawPopulationBegin.Abort()
		drawDone.Abort()
	}

	// ctx is only checked at tick boundaries, so a goroutine currently
	// blocked in a Wait call would never notice cancellation on its own.
	// Watch workerCtx directly and force every primitive open the moment
	// it fires, rather than waiting for renderLoop to return naturally
	// (which it might not, if it is itself the one blocked).
	stopWatcher := make(chan struct{})
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		select {
		case <-workerCtx.Done():
			abortAll()
		case <-stopWatcher:
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < numThreads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(i) * d.cfg.Compute.RandomSeedFactor))
			d.worker(workerCtx, rng, orgRanges[i], foodRanges[i], waterRanges[i],
				replicationBegin, replicationEnd, endOfTimestep,
				drawResourcesBegin, drawPopulationBegin, drawDone)
		}(i)
	}

	err := d.renderLoop(workerCtx, benchmark, drawResourcesBegin, drawPopulationBegin, drawDone)

	cancel()
	abortAll()
	close(stopWatcher)
	<-watcherDone
	wg.Wait()
	return err
}

// worker runs the fixed 16-step per-tick phase pipeline forever, until
// ctx is canceled. Interruption is only observed at synchronization
// points, matching the original's interrupt-at-sync-point model.
func (d *Driver) worker(
	ctx context.Context,
	rng *rand.Rand,
	orgRange, foodRange, waterRange workerRange,
	replicationBegin, replicationEnd, endOfTimestep *Barrier,
	drawResourcesBegin, drawPopulationBegin, drawDone *SignalLink,
) {
	for t := uint32(0); ; t++ {
		if ctx.Err() != nil {
			return
		}

		d.population.Interact(orgRange.start, orgRange.end, rng)
		d.population.ReactToTemperature(orgRange.start, orgRange.end, d.planet, t)

		if !drawDone.Wait() {
			return
		}

		d.population.Nourish(foodRange.start, foodRange.end, d.food, rng)
		d.population.Hydrate(waterRange.start, waterRange.end, d.water, rng)

		drawResourcesBegin.Notify()

		if !replicationBegin.Wait() {
			return
		}
		d.population.Replicate(orgRange.start, orgRange.end, rng)
		if !replicationEnd.Wait() {
			return
		}

		d.population.UpdatePhenotypes(orgRange.start, orgRange.end)
		d.population.UpdateFitness(orgRange.start, orgRange.end)
		d.population.SearchForFood(orgRange.start, orgRange.end, d.food)
		d.population.SearchForWater(orgRange.start, orgRange.end, d.water)
		d.population.Think(orgRange.start, orgRange.end)
		d.population.Move(orgRange.start, orgRange.end)
		d.population.UpdateSprites(orgRange.start, orgRange.end)

		drawPopulationBegin.Notify()

		if !endOfTimestep.Wait() {
			return
		}
	}
}

// renderLoop drives the viewport from the calling goroutine: it paces
// drawing against the target framerate, rendezvouses with the workers
// through the two draw-begin signal links, and releases them again via
// drawDone. In benchmark mode it records each frame's wall-clock
// duration and writes the series out once the configured number of
// timesteps elapses.
func (d *Driver) renderLoop(ctx context.Context, benchmark bool, drawResourcesBegin, drawPopulationBegin, drawDone *SignalLink) error {
	background := renderBackground(d.cfg.Area.BackgroundColor)

	var frameTimes []int64
	if benchmark {
		frameTimes = make([]int64, 0, d.cfg.Compute.SimulationBenchmarkTimesteps)
	}

	var nonLimitedFrameSumUs int64
	var nonLimitedFrameCount int64
	limitFramerateCap := true

	t := uint64(0)
	for {
		frameStart := time.Now()

		if benchmark && t >= uint64(d.cfg.Compute.SimulationBenchmarkTimesteps) {
			break
		}

		input := d.viewport.PollInput()
		if input.Closed {
			break
		}
		if !benchmark && input.ToggleFramerateCap {
			limitFramerateCap = !limitFramerateCap
		}

		limitFramerate := !benchmark && limitFramerateCap
		targetFramerate := d.cfg.Compute.PerformanceFramerate
		draw := calculateDraw(t, limitFramerate, nonLimitedFrameSumUs, nonLimitedFrameCount, targetFramerate)

		if draw {
			d.viewport.Clear(background)
		}

		if !drawResourcesBegin.Wait() {
			break
		}
		if draw {
			d.drawResources(d.food)
			d.drawResources(d.water)
		}

		if !drawPopulationBegin.Wait() {
			break
		}
		if draw {
			d.drawPopulation()
			top, bottom := d.viewport.VisibleLatitudeRows()
			upper := d.planet.Temperature(top, uint32(t))
			lower := d.planet.Temperature(bottom, uint32(t))
			d.viewport.DrawAnnotations(t, upper, lower)
			d.viewport.Display()
		}

		drawDone.Notify()

		t++
		frameUs := time.Since(frameStart).Microseconds()
		if !limitFramerate {
			nonLimitedFrameSumUs += frameUs
			nonLimitedFrameCount++
		}
		if benchmark {
			frameTimes = append(frameTimes, frameUs)
		}

		if ctx.Err() != nil {
			break
		}
	}

	if benchmark && len(frameTimes) > 0 {
		header := "time_microseconds"
		filename := simulationBenchmarkFilename(d.cfg.Derived.SimulationThreads)
		if err := d.sink.Write(d.cfg.Compute.ResultsPath, filename, header, frameTimes); err != nil {
			d.logger.Error("writing simulation benchmark results", "error", err)
		}
	}

	return nil
}

func simulationBenchmarkFilename(threads int) string {
	return "benchmark_results_" + itoaSim(threads) + "_simulation_threads.csv"
}

// calculateDraw throttles drawing to roughly targetFramerate frames per
// second when limitFramerate is false and enough unlimited-frame
// samples exist to estimate the achievable framerate; when
// limitFramerate is true, or before any sample exists, every tick draws.
func calculateDraw(timestep uint64, limitFramerate bool, frameSumUs, frameCount int64, targetFramerate int) bool {
	if limitFramerate || frameSumUs == 0 || frameCount == 0 {
		return true
	}
	framerate := float64(frameCount) / (float64(frameSumUs) / 1e6)
	target := float64(targetFramerate)
	if target < 1 {
		target = 1
	}
	drawEvery := int(math.Round(framerate / target))
	if drawEvery < 1 {
		drawEvery = 1
	}
	return timestep%uint64(drawEvery) == 0
}

func (d *Driver) drawResources(p *pool.ConsumableResourcePool) {
	for i := 0; i < p.Len(); i++ {
		item := p.At(uint32(i))
		if !item.Exists() {
			continue
		}
		x, y := item.Position()
		d.viewport.DrawResource([2]float32{x, y}, item.Size(), render.Color{R: 40, G: 200, B: 90, A: 255})
	}
}

func (d *Driver) drawPopulation() {
	standardFPS := uint32(d.cfg.Compute.StandardFramerate)
	worldW, worldH := d.cfg.Derived.WorldW32, d.cfg.Derived.WorldH32
	for i := 0; i < d.population.Len(); i++ {
		o := d.population.At(uint32(i))
		if !o.Exists() {
			continue
		}
		x, y := o.Position()
		size := o.Size()
		fill, outline := o.VisualState(standardFPS)

		var wrapped *[2]float32
		if x < size || x > worldW-size || y < size || y > worldH-size {
			wx, wy := x, y
			if x < size {
				wx = x + worldW
			} else if x > worldW-size {
				wx = x - worldW
			}
			if y < size {
				wy = y + worldH
			} else if y > worldH-size {
				wy = y - worldH
			}
			wrapped = &[2]float32{wx, wy}
		}

		d.viewport.DrawOrganism([2]float32{x, y}, size, fill, outline, wrapped)
	}
}

func renderBackground(hex string) render.Color {
	if hex == "" {
		return render.Color{A: 255}
	}
	return render.ParseHexColor(hex)
}

func itoaSim(v int) string {
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
