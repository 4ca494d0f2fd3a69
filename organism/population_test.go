package organism

import (
	"math/rand"
	"testing"
)

func TestInitRandomActivatesFirstNSlots(t *testing.T) {
	cfg := testConfig(t)
	cfg.Population.PoolSize = 8
	p := NewPopulation(8, cfg)
	rng := rand.New(rand.NewSource(1))

	p.InitRandom(3, 10, 1600, 1200, rng)

	alive := 0
	for i := 0; i < p.Len(); i++ {
		if p.At(uint32(i)).Exists() {
			alive++
		}
	}
	if alive != 3 {
		t.Errorf("expected 3 live organisms, got %d", alive)
	}
	if p.pool.FreeLen() != 5 {
		t.Errorf("expected 5 free slots, got %d", p.pool.FreeLen())
	}
}

func TestInitRandomCapsAtPoolCapacity(t *testing.T) {
	cfg := testConfig(t)
	p := NewPopulation(4, cfg)
	rng := rand.New(rand.NewSource(1))

	p.InitRandom(100, 10, 1600, 1200, rng)

	for i := 0; i < p.Len(); i++ {
		if !p.At(uint32(i)).Exists() {
			t.Errorf("expected slot %d to be activated when n exceeds capacity", i)
		}
	}
}

func TestReplicateRespectsAgeGate(t *testing.T) {
	cfg := testConfig(t)
	cfg.Population.ReplicationRate = 1 // guarantee replication once eligible
	p := NewPopulation(4, cfg)
	rng := rand.New(rand.NewSource(1))
	p.InitRandom(1, 10, 1600, 1200, rng)

	// Force fitness to 1 so probability would be 1 if the age gate passed.
	parent := p.At(0)
	parent.fitness = 1

	p.Replicate(0, 1, rng)

	if p.pool.FreeLen() != 3 {
		t.Error("expected no replication before the age gate is reached")
	}
}

func TestReplicatePastAgeGateClaimsFreeSlot(t *testing.T) {
	cfg := testConfig(t)
	cfg.Population.ReplicationRate = 1
	p := NewPopulation(4, cfg)
	rng := rand.New(rand.NewSource(1))
	p.InitRandom(1, 10, 1600, 1200, rng)

	parent := p.At(0)
	parent.fitness = 1
	parent.age = replicationAgeGate

	p.Replicate(0, 1, rng)

	if p.pool.FreeLen() != 2 {
		t.Fatalf("expected one free slot claimed by replication, got %d free", p.pool.FreeLen())
	}

	claimedChild := p.At(1)
	if !claimedChild.Exists() {
		t.Fatal("expected the claimed slot to be initialized as a child")
	}
	if claimedChild.collisions[0] != 1 || parent.collisions[1] != 1 {
		t.Error("expected parent and child to record mutual collision on the birth tick")
	}
}

func TestReplicateBreaksWhenFreeQueueExhausted(t *testing.T) {
	cfg := testConfig(t)
	cfg.Population.ReplicationRate = 1
	p := NewPopulation(2, cfg)
	rng := rand.New(rand.NewSource(1))
	// Activate both slots: no free slots remain for a child.
	p.InitRandom(2, 10, 1600, 1200, rng)

	for i := 0; i < 2; i++ {
		o := p.At(uint32(i))
		o.fitness = 1
		o.age = replicationAgeGate
	}

	// Should not panic nor infinite-loop even though no slot is free.
	p.Replicate(0, 2, rng)

	if p.pool.FreeLen() != 0 {
		t.Errorf("expected free queue to remain empty, got %d", p.pool.FreeLen())
	}
}

func TestUpdateFitnessPushesDeadSlotToFreeQueue(t *testing.T) {
	cfg := testConfig(t)
	p := NewPopulation(2, cfg)
	rng := rand.New(rand.NewSource(1))
	p.InitRandom(2, 10, 1600, 1200, rng)

	dying := p.At(0)
	dying.nutrition.Store(0)

	p.UpdateFitness(0, 2)

	if p.pool.FreeLen() != 1 {
		t.Fatalf("expected exactly one freed slot, got %d", p.pool.FreeLen())
	}
	if p.At(0).Exists() {
		t.Error("expected slot 0 to no longer exist after depleted-resource death")
	}
}

// fakeResourcePool is a minimal resourcePool for distribute-resources tests.
type fakeResourcePool struct {
	exists []bool
	x, y   []float32
	size   []float32
	value  uint32
}

func (f *fakeResourcePool) Len() int                           { return len(f.exists) }
func (f *fakeResourcePool) ItemExists(i int) bool               { return f.exists[i] }
func (f *fakeResourcePool) ItemPosition(i int) (float32, float32) { return f.x[i], f.y[i] }
func (f *fakeResourcePool) ItemSize(i int) float32               { return f.size[i] }
func (f *fakeResourcePool) ConsumeAndResetItem(i int, rng *rand.Rand) uint32 {
	f.exists[i] = false
	return f.value
}

func TestDistributeResourcesDeliversToFirstInRangeOrganism(t *testing.T) {
	cfg := testConfig(t)
	p := NewPopulation(3, cfg)
	rng := rand.New(rand.NewSource(1))
	p.InitRandom(3, 10, 1600, 1200, rng)

	for i := 0; i < 3; i++ {
		p.At(uint32(i)).SetPosition(float32(i)*1000, float32(i)*1000)
		p.At(uint32(i)).size = 5
		p.At(uint32(i)).nutrition.Store(0)
	}

	food := &fakeResourcePool{
		exists: []bool{true},
		x:      []float32{0},
		y:      []float32{0},
		size:   []float32{1},
		value:  42,
	}

	p.Nourish(0, 1, food, rng)

	if p.At(0).Nutrition() != 42 {
		t.Errorf("expected organism 0 (only one in range) to receive 42 nutrition, got %d", p.At(0).Nutrition())
	}
	if p.At(1).Nutrition() != 0 || p.At(2).Nutrition() != 0 {
		t.Error("expected out-of-range organisms to receive nothing")
	}
	if food.exists[0] {
		t.Error("expected the food item to be consumed")
	}
}

func TestResourcePoolSelfSatisfiesInterface(t *testing.T) {
	var _ resourcePool = (*fakeResourcePool)(nil)
}
