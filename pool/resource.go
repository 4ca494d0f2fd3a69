package pool

import "math/rand"

// ConsumableResource is a food- or water-pool item. Value encodes
// nutritional/hydric content; size is proportional to value/maxVal*6.
type ConsumableResource struct {
	exists   bool
	x, y     float32
	size     float32
	value    uint32
}

func (r *ConsumableResource) Exists() bool               { return r.exists }
func (r *ConsumableResource) Position() (x, y float32)   { return r.x, r.y }
func (r *ConsumableResource) Size() float32              { return r.size }
func (r *ConsumableResource) SetPosition(x, y float32)   { r.x, r.y = x, y }
func (r *ConsumableResource) SetVelocity(vx, vy float32) {} // resources never move

// Value returns the resource's current nutritional/hydric content.
func (r *ConsumableResource) Value() uint32 { return r.value }

// init sets value, position and size, and marks the resource live.
func (r *ConsumableResource) init(value, maxVal uint32, x, y float32) {
	r.value = value
	r.x, r.y = x, y
	r.size = (float32(value) / float32(maxVal)) * 6
	r.exists = true
}

// consume marks the resource dead and returns its value.
func (r *ConsumableResource) consume() uint32 {
	r.exists = false
	return r.value
}

// ConsumableResourcePool wraps a SimulationObjectPool of
// ConsumableResource with the reset/consume semantics of the food and
// water pools.
type ConsumableResourcePool struct {
	*SimulationObjectPool[*ConsumableResource]
	maxSize      int
	maxVal       uint32
	margin       float32
	areaW, areaH float32
}

// NewConsumableResourcePool creates an empty pool of the given capacity.
func NewConsumableResourcePool(maxSize int, maxVal uint32, margin, areaW, areaH float32) *ConsumableResourcePool {
	return &ConsumableResourcePool{
		SimulationObjectPool: NewSimulationObjectPool[*ConsumableResource](maxSize),
		maxSize:              maxSize,
		maxVal:               maxVal,
		margin:               margin,
		areaW:                areaW,
		areaH:                areaH,
	}
}

// InitRandom fills the pool with maxSize dead items, randomly
// initializing the first n and pushing the rest to the free queue.
func (p *ConsumableResourcePool) InitRandom(n int, rng *rand.Rand) {
	for i := 0; i < p.maxSize; i++ {
		idx := p.Add(&ConsumableResource{})
		if i < n {
			p.resetItem(idx, rng)
		} else {
			p.PushFree(idx)
		}
	}
}

// ConsumeAndResetItem consumes item i, recording its value, then
// repositions and rerolls it in place. Called only from the worker that
// owns index i during the distribute-resources phase.
func (p *ConsumableResourcePool) ConsumeAndResetItem(i int, rng *rand.Rand) uint32 {
	idx := uint32(i)
	value := p.At(idx).consume()
	p.resetItem(idx, rng)
	return value
}

// ItemExists reports whether item i currently holds nutritional/hydric
// content, for organisms scanning the pool by plain int index.
func (p *ConsumableResourcePool) ItemExists(i int) bool {
	return p.At(uint32(i)).Exists()
}

// ItemPosition returns item i's world position.
func (p *ConsumableResourcePool) ItemPosition(i int) (float32, float32) {
	return p.At(uint32(i)).Position()
}

// ItemSize returns item i's current interaction radius.
func (p *ConsumableResourcePool) ItemSize(i int) float32 {
	return p.At(uint32(i)).Size()
}

func (p *ConsumableResourcePool) resetItem(i uint32, rng *rand.Rand) {
	lo := p.margin
	hiX := p.areaW - p.margin - 1
	hiY := p.areaH - p.margin - 1
	x := lo + rng.Float32()*(hiX-lo)
	y := lo + rng.Float32()*(hiY-lo)
	value := uint32(10000 + rng.Intn(int(p.maxVal)-10000+1))
	p.At(i).init(value, p.maxVal, x, y)
}
