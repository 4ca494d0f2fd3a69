package pool

import (
	"math/rand"
	"testing"
)

func TestInitRandomActivatesExactlyFirstN(t *testing.T) {
	p := NewConsumableResourcePool(10, 20000, 5, 100, 100)
	rng := rand.New(rand.NewSource(1))
	p.InitRandom(4, rng)

	for i := 0; i < 10; i++ {
		want := i < 4
		if got := p.ItemExists(i); got != want {
			t.Errorf("item %d: ItemExists=%v, want %v", i, got, want)
		}
	}
	if p.FreeLen() != 6 {
		t.Errorf("expected 6 free slots, got %d", p.FreeLen())
	}
}

func TestInitRandomPositionsWithinMargin(t *testing.T) {
	const areaW, areaH, margin = 100.0, 80.0, 5.0
	p := NewConsumableResourcePool(5, 20000, margin, areaW, areaH)
	rng := rand.New(rand.NewSource(2))
	p.InitRandom(5, rng)

	for i := 0; i < 5; i++ {
		x, y := p.ItemPosition(i)
		if x < margin || x > areaW-margin {
			t.Errorf("item %d: x=%f out of [%f,%f]", i, x, margin, areaW-margin)
		}
		if y < margin || y > areaH-margin {
			t.Errorf("item %d: y=%f out of [%f,%f]", i, y, margin, areaH-margin)
		}
	}
}

func TestInitRandomValueWithinConfiguredRange(t *testing.T) {
	const maxVal = uint32(20000)
	p := NewConsumableResourcePool(5, maxVal, 5, 100, 100)
	rng := rand.New(rand.NewSource(3))
	p.InitRandom(5, rng)

	for i := 0; i < 5; i++ {
		v := p.At(uint32(i)).Value()
		if v < 10000 || v > maxVal {
			t.Errorf("item %d: value=%d out of [10000,%d]", i, v, maxVal)
		}
	}
}

func TestInitRandomSizeScalesWithValue(t *testing.T) {
	const maxVal = uint32(20000)
	p := NewConsumableResourcePool(1, maxVal, 5, 100, 100)
	rng := rand.New(rand.NewSource(4))
	p.InitRandom(1, rng)

	wantSize := (float32(p.At(0).Value()) / float32(maxVal)) * 6
	if got := p.ItemSize(0); got != wantSize {
		t.Errorf("ItemSize=%f, want %f", got, wantSize)
	}
}

func TestConsumeAndResetItemReturnsPriorValueAndRevives(t *testing.T) {
	p := NewConsumableResourcePool(3, 20000, 5, 100, 100)
	rng := rand.New(rand.NewSource(5))
	p.InitRandom(3, rng)

	before := p.At(0).Value()
	got := p.ConsumeAndResetItem(0, rng)
	if got != before {
		t.Errorf("ConsumeAndResetItem returned %d, want prior value %d", got, before)
	}
	if !p.ItemExists(0) {
		t.Error("expected item to be revived (exists again) after reset")
	}
}

func TestItemExistsFalseAfterConsume(t *testing.T) {
	r := &ConsumableResource{}
	r.init(15000, 20000, 10, 10)
	if !r.Exists() {
		t.Fatal("expected freshly-initialized resource to exist")
	}
	r.consume()
	if r.Exists() {
		t.Error("expected resource to no longer exist after consume")
	}
}
