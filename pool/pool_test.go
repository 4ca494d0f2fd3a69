package pool

import "testing"

type fakeObject struct {
	exists bool
	x, y   float32
	size   float32
}

func (f *fakeObject) Exists() bool             { return f.exists }
func (f *fakeObject) Position() (float32, float32) { return f.x, f.y }
func (f *fakeObject) Size() float32            { return f.size }
func (f *fakeObject) SetPosition(x, y float32) { f.x, f.y = x, y }
func (f *fakeObject) SetVelocity(vx, vy float32) {}

func TestPoolFreeQueueMatchesDeadSlots(t *testing.T) {
	p := NewSimulationObjectPool[*fakeObject](4)
	for i := 0; i < 4; i++ {
		p.Add(&fakeObject{exists: i < 2})
	}
	p.PushFree(2)
	p.PushFree(3)

	if p.FreeLen() != 2 {
		t.Fatalf("expected 2 free slots, got %d", p.FreeLen())
	}
	for _, idx := range p.FreeSnapshot() {
		if p.At(idx).Exists() {
			t.Errorf("slot %d is in free queue but reports exists=true", idx)
		}
	}
}

func TestPoolSafePopGrantsExclusiveOwnership(t *testing.T) {
	p := NewSimulationObjectPool[*fakeObject](2)
	p.Add(&fakeObject{})
	p.Add(&fakeObject{})
	p.PushFree(0)
	p.PushFree(1)

	var claimed []uint32
	for {
		ok := p.SafePop(func(i uint32) {
			p.At(i).exists = true
			claimed = append(claimed, i)
		})
		if !ok {
			break
		}
	}
	if len(claimed) != 2 {
		t.Fatalf("expected 2 slots claimed, got %d", len(claimed))
	}
	if p.SafePop(func(uint32) {}) {
		t.Fatal("expected pool to report no free slots after draining")
	}
}
