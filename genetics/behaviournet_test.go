package genetics

import (
	"math/rand"
	"testing"
)

func TestLayerForwardZeroWeightsYieldsZeroActivations(t *testing.T) {
	l := NewLayer(7, 4, false)
	out := l.Forward(make([]float32, 7))
	for i, v := range out {
		if v != 0 {
			t.Errorf("activation %d: expected 0 (tanh(0)), got %f", i, v)
		}
	}
}

func TestBehaviourNetForwardShape(t *testing.T) {
	net := NewBehaviourNet(7, 16, 8, 2)
	rng := rand.New(rand.NewSource(1))
	net.InitRandom(2, 1, rng)

	out := net.Forward(make([]float32, 7))
	if len(out) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(out))
	}
	for _, v := range out {
		if v < -1 || v > 1 {
			t.Errorf("tanh output out of range: %f", v)
		}
	}
}

func TestLayerTransferFromWeightedCombine(t *testing.T) {
	self := NewLayer(1, 1, false)
	donor := NewLayer(1, 1, false)
	self.weights[0] = 10
	donor.weights[0] = 20

	self.TransferFrom(donor, 0.25)

	want := float32(0.25*20 + 0.75*10)
	if self.weights[0] != want {
		t.Errorf("expected %f, got %f", want, self.weights[0])
	}
}
