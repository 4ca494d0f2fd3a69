package genetics

import (
	"math"
	"math/rand"
)

// Layer is a fully-connected layer with no biases, plus its activation
// function. Weights are a flat vector of size inputs*units; forward
// indexes it as weights[k*units+j].
type Layer struct {
	inputs, units int
	sigmoid       bool
	weights       []float32
	activations   []float32
}

// NewLayer allocates a layer with the given shape. sigmoid selects the
// sigmoid activation over the default tanh.
func NewLayer(inputs, units int, sigmoid bool) *Layer {
	return &Layer{
		inputs:      inputs,
		units:       units,
		sigmoid:     sigmoid,
		weights:     make([]float32, inputs*units),
		activations: make([]float32, units),
	}
}

// Forward runs input through the layer and returns its activations. The
// caller must not retain the returned slice across the next Forward call.
func (l *Layer) Forward(input []float32) []float32 {
	for i := range l.activations {
		l.activations[i] = 0
	}
	for k := 0; k < l.inputs; k++ {
		for j := 0; j < l.units; j++ {
			l.activations[j] += input[k] * l.weights[k*l.units+j]
		}
	}
	if l.sigmoid {
		for i, v := range l.activations {
			l.activations[i] = float32(1 / (1 + math.Exp(-float64(v))))
		}
	} else {
		for i, v := range l.activations {
			l.activations[i] = float32(math.Tanh(float64(v)))
		}
	}
	return l.activations
}

// InitRandom draws weights uniformly from [-range/rangeBias, range].
// range is floored at 0.1, rangeBias at 1.0.
func (l *Layer) InitRandom(weightsRange, rangeBias float64, rng *rand.Rand) {
	if weightsRange < 0.1 {
		weightsRange = 0.1
	}
	if rangeBias < 1 {
		rangeBias = 1
	}
	randomizeUniform(l.weights, -weightsRange/rangeBias, weightsRange, rng)
}

// InitFromParents sets weights by combining two parents' weights and
// mutating the result.
func (l *Layer) InitFromParents(p1, p2 *Layer, mutationProb, mutationSigma float64, rng *rand.Rand) {
	combineAndMutateRandom(l.weights, p1.weights, p2.weights, mutationProb, mutationSigma, rng)
}

// InitFromParent copies a single parent's weights and mutates them.
func (l *Layer) InitFromParent(parent *Layer, mutationProb, mutationSigma float64, rng *rand.Rand) {
	copyVec(l.weights, parent.weights)
	mutate(l.weights, mutationProb, mutationSigma, rng)
}

// TransferFrom replaces weights with w*donor + (1-w)*self.
func (l *Layer) TransferFrom(donor *Layer, donorWeighting float32) {
	combine(l.weights, donor.weights, l.weights, donorWeighting)
}

// BehaviourNet is the 3-layer feed-forward network I->H1->H2->O that
// decides each organism's movement.
type BehaviourNet struct {
	layer1, layer2, output *Layer
}

// NewBehaviourNet builds the I->H1->H2->O architecture.
func NewBehaviourNet(inputs, h1, h2, outputs int) *BehaviourNet {
	return &BehaviourNet{
		layer1: NewLayer(inputs, h1, false),
		layer2: NewLayer(h1, h2, false),
		output: NewLayer(h2, outputs, false),
	}
}

// Forward composes output(layer2(layer1(input))).
func (n *BehaviourNet) Forward(input []float32) []float32 {
	return n.output.Forward(n.layer2.Forward(n.layer1.Forward(input)))
}

// InitRandom randomly initializes every layer's weights.
func (n *BehaviourNet) InitRandom(weightsRange, rangeBias float64, rng *rand.Rand) {
	n.layer1.InitRandom(weightsRange, rangeBias, rng)
	n.layer2.InitRandom(weightsRange, rangeBias, rng)
	n.output.InitRandom(weightsRange, rangeBias, rng)
}

// InitFromParents combines two parent networks' weights layer-by-layer.
func (n *BehaviourNet) InitFromParents(p1, p2 *BehaviourNet, mutationProb, mutationSigma float64, rng *rand.Rand) {
	n.layer1.InitFromParents(p1.layer1, p2.layer1, mutationProb, mutationSigma, rng)
	n.layer2.InitFromParents(p1.layer2, p2.layer2, mutationProb, mutationSigma, rng)
	n.output.InitFromParents(p1.output, p2.output, mutationProb, mutationSigma, rng)
}

// InitFromParent copies a single parent's weights layer-by-layer, then
// mutates.
func (n *BehaviourNet) InitFromParent(parent *BehaviourNet, mutationProb, mutationSigma float64, rng *rand.Rand) {
	n.layer1.InitFromParent(parent.layer1, mutationProb, mutationSigma, rng)
	n.layer2.InitFromParent(parent.layer2, mutationProb, mutationSigma, rng)
	n.output.InitFromParent(parent.output, mutationProb, mutationSigma, rng)
}

// TransferFrom replaces weights layer-by-layer with w*donor + (1-w)*self.
func (n *BehaviourNet) TransferFrom(donor *BehaviourNet, donorWeighting float32) {
	n.layer1.TransferFrom(donor.layer1, donorWeighting)
	n.layer2.TransferFrom(donor.layer2, donorWeighting)
	n.output.TransferFrom(donor.output, donorWeighting)
}
