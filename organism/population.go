package organism

import (
	"math/rand"

	"github.com/pthm-cable/geneticsim/config"
	"github.com/pthm-cable/geneticsim/planet"
	"github.com/pthm-cable/geneticsim/pool"
)

// Population owns the fixed-capacity pool of organism slots and
// implements every range-based phase the simulation driver dispatches to
// its worker goroutines. Each method operates only on the caller-owned
// [start, end) slice of the pool, except Interact, which (matching the
// original) always scans the full population as its second operand.
type Population struct {
	pool *pool.SimulationObjectPool[*Organism]

	replicationRate float64
	standardFPS     uint32
}

// NewPopulation allocates an empty, fixed-capacity population of maxSize
// slots, none yet initialized.
func NewPopulation(maxSize int, cfg *config.Config) *Population {
	p := &Population{
		pool:            pool.NewSimulationObjectPool[*Organism](maxSize),
		replicationRate: cfg.Population.ReplicationRate,
		standardFPS:     uint32(cfg.Compute.StandardFramerate),
	}
	for i := 0; i < maxSize; i++ {
		p.pool.Add(New(uint32(i), maxSize, cfg, cfg.Derived.WorldW32, cfg.Derived.WorldH32))
	}
	return p
}

// InitRandom activates the first n slots (capped at the pool's capacity)
// at uniformly random positions within the margin-bounded area, leaving
// the rest on the free queue.
func (p *Population) InitRandom(n int, margin float64, worldW, worldH float32, rng *rand.Rand) {
	if n > p.pool.Len() {
		n = p.pool.Len()
	}
	lowX, highX := float32(margin), worldW-float32(margin)-1
	lowY, highY := float32(margin), worldH-float32(margin)-1
	for i := 0; i < p.pool.Len(); i++ {
		if i < n {
			x := lowX + rng.Float32()*(highX-lowX)
			y := lowY + rng.Float32()*(highY-lowY)
			p.pool.At(uint32(i)).Init(x, y, rng)
		} else {
			p.pool.PushFree(uint32(i))
		}
	}
}

// Len returns the population's fixed capacity.
func (p *Population) Len() int { return p.pool.Len() }

// At returns the organism at index i.
func (p *Population) At(i uint32) *Organism { return p.pool.At(i) }

func (p *Population) clampEnd(end int) int {
	if end > p.pool.Len() {
		return p.pool.Len()
	}
	return end
}

// Interact runs InteractWith for every organism in [start,end) against
// every organism in the full population, preserving the original's O(N^2)
// per-tick interaction cost.
func (p *Population) Interact(start, end int, rng *rand.Rand) {
	end = p.clampEnd(end)
	for i := start; i < end; i++ {
		a := p.pool.At(uint32(i))
		for j := 0; j < p.pool.Len(); j++ {
			if i == j {
				continue
			}
			a.InteractWith(p.pool.At(uint32(j)), rng)
		}
	}
}

// ReactToTemperature updates integrity and temperature-seeking heading
// for every organism in [start,end).
func (p *Population) ReactToTemperature(start, end int, pl *planet.Planet, t uint32) {
	end = p.clampEnd(end)
	for i := start; i < end; i++ {
		p.pool.At(uint32(i)).ReactToTemperature(pl, t)
	}
}

// resourcePool is the narrow surface Nourish/Hydrate need from a
// ConsumableResourcePool, kept free of an import cycle with the pool
// package's concrete resource type.
type resourcePool interface {
	ResourceLocator
	ConsumeAndResetItem(i int, rng *rand.Rand) uint32
}

// Nourish distributes food in [poolStart,poolEnd) to the first in-range
// organism found for each food item, consuming the item on delivery.
func (p *Population) Nourish(poolStart, poolEnd int, food resourcePool, rng *rand.Rand) {
	p.distributeResources(poolStart, poolEnd, food, rng, (*Organism).Nourish)
}

// Hydrate distributes water in [poolStart,poolEnd) the same way Nourish
// distributes food.
func (p *Population) Hydrate(poolStart, poolEnd int, water resourcePool, rng *rand.Rand) {
	p.distributeResources(poolStart, poolEnd, water, rng, (*Organism).Hydrate)
}

func (p *Population) distributeResources(poolStart, poolEnd int, resources resourcePool, rng *rand.Rand, deliver func(*Organism, uint32)) {
	if poolEnd > resources.Len() {
		poolEnd = resources.Len()
	}
	for i := poolStart; i < poolEnd; i++ {
		if !resources.ItemExists(i) {
			continue
		}
		rx, ry := resources.ItemPosition(i)
		for j := 0; j < p.pool.Len(); j++ {
			o := p.pool.At(uint32(j))
			if !o.Exists() {
				continue
			}
			if o.checkInRange(rx, ry, resources.ItemSize(i), false) {
				deliver(o, resources.ConsumeAndResetItem(i, rng))
				break
			}
		}
	}
}

// Replicate attempts replication for every existing organism in
// [start,end) whose age has passed the replication gate, stopping early
// for the remainder of this tick if the free-slot queue runs dry.
func (p *Population) Replicate(start, end int, rng *rand.Rand) {
	end = p.clampEnd(end)
	for i := start; i < end; i++ {
		parent := p.pool.At(uint32(i))
		if !parent.Exists() {
			continue
		}
		var replicationProb float64
		if parent.Age() >= replicationAgeGate {
			replicationProb = float64(parent.Fitness()) * p.replicationRate
		}
		if rng.Float64() >= replicationProb {
			continue
		}
		claimed := p.pool.SafePop(func(slot uint32) {
			child := p.pool.At(slot)
			child.InitFromParent(parent, rng)
			parent.SetCollision(slot)
			child.SetCollision(uint32(i))
		})
		if !claimed {
			break
		}
	}
}

// UpdatePhenotypes re-expresses physical traits for every organism in
// [start,end) that received a gene transfer since the last call.
func (p *Population) UpdatePhenotypes(start, end int) {
	end = p.clampEnd(end)
	for i := start; i < end; i++ {
		p.pool.At(uint32(i)).UpdatePhenotype()
	}
}

// UpdateFitness advances fitness/age for every organism in [start,end),
// pushing any slot that dies this tick back onto the free queue.
func (p *Population) UpdateFitness(start, end int) {
	end = p.clampEnd(end)
	for i := start; i < end; i++ {
		o := p.pool.At(uint32(i))
		if o.Exists() && !o.UpdateFitness() {
			p.pool.PushFree(uint32(i))
		}
	}
}

// SearchForFood updates the food heading and hunger sense for every
// organism in [start,end).
func (p *Population) SearchForFood(start, end int, food ResourceLocator) {
	end = p.clampEnd(end)
	for i := start; i < end; i++ {
		p.pool.At(uint32(i)).SearchForFood(food)
	}
}

// SearchForWater updates the water heading and thirst sense for every
// organism in [start,end).
func (p *Population) SearchForWater(start, end int, water ResourceLocator) {
	end = p.clampEnd(end)
	for i := start; i < end; i++ {
		p.pool.At(uint32(i)).SearchForWater(water)
	}
}

// Think runs the behaviour network for every organism in [start,end).
func (p *Population) Think(start, end int) {
	end = p.clampEnd(end)
	for i := start; i < end; i++ {
		p.pool.At(uint32(i)).Think()
	}
}

// Move applies velocity and toroidal wrap for every organism in [start,end).
func (p *Population) Move(start, end int) {
	end = p.clampEnd(end)
	for i := start; i < end; i++ {
		p.pool.At(uint32(i)).Move()
	}
}

// UpdateSprites advances the gene-transfer visual effect timer for every
// organism in [start,end).
func (p *Population) UpdateSprites(start, end int) {
	end = p.clampEnd(end)
	for i := start; i < end; i++ {
		p.pool.At(uint32(i)).UpdateSprite(p.standardFPS)
	}
}
