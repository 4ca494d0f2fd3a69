package genetics

import (
	"math/rand"
	"sync"
)

const numTraitGenes = 15

// MutationParams bundles the mutation probability/sigma pairs for the
// behaviour network and trait genes, read from configuration.
type MutationParams struct {
	BehaviourNetProb, BehaviourNetSigma   float64
	TraitGenesProb, TraitGenesSigma       float64
}

// Genotype is an organism's genetic information: a behaviour network
// plus a 15-element trait gene vector, guarded by a mutex during
// horizontal gene transfer.
type Genotype struct {
	mu          sync.Mutex
	id          uint64 // stable ordering key for deadlock-safe paired locking
	BehaviourNet *BehaviourNet
	traitGenes  []float32
}

// NewGenotype allocates a genotype with the given behaviour-network
// architecture. id must be a stable, unique identifier (e.g. the
// organism's pool slot index) used only to order paired-mutex locking
// during transfer.
func NewGenotype(id uint64, inputs, h1, h2, outputs int) *Genotype {
	return &Genotype{
		id:           id,
		BehaviourNet: NewBehaviourNet(inputs, h1, h2, outputs),
		traitGenes:   make([]float32, numTraitGenes),
	}
}

// InitRandom randomizes the behaviour network and draws trait genes
// from N(0,1).
func (g *Genotype) InitRandom(weightsRange, rangeBias float64, rng *rand.Rand) {
	g.BehaviourNet.InitRandom(weightsRange, rangeBias, rng)
	randomizeNormal(g.traitGenes, 0, 1, rng)
}

// InitFromParents combines two parent genotypes into g: per-layer
// combine-and-mutate for the network, same for trait genes.
func (g *Genotype) InitFromParents(p1, p2 *Genotype, mp MutationParams, rng *rand.Rand) {
	g.BehaviourNet.InitFromParents(p1.BehaviourNet, p2.BehaviourNet, mp.BehaviourNetProb, mp.BehaviourNetSigma, rng)
	combineAndMutateRandom(g.traitGenes, p1.traitGenes, p2.traitGenes, mp.TraitGenesProb, mp.TraitGenesSigma, rng)
}

// InitFromParent copies a single parent genotype into g and mutates.
func (g *Genotype) InitFromParent(parent *Genotype, mp MutationParams, rng *rand.Rand) {
	g.BehaviourNet.InitFromParent(parent.BehaviourNet, mp.BehaviourNetProb, mp.BehaviourNetSigma, rng)
	copyVec(g.traitGenes, parent.traitGenes)
	mutate(g.traitGenes, mp.TraitGenesProb, mp.TraitGenesSigma, rng)
}

// TransferFrom performs horizontal gene transfer: g's weights and trait
// genes become w*donor + (1-w)*g. Both mutexes are acquired together in
// a stable order (by genotype id) to avoid ABBA deadlock between
// simultaneous reciprocal transfers.
func (g *Genotype) TransferFrom(donor *Genotype, donorWeighting float32) {
	first, second := g, donor
	if donor.id < g.id {
		first, second = donor, g
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	if second != first {
		second.mu.Lock()
		defer second.mu.Unlock()
	}

	g.BehaviourNet.TransferFrom(donor.BehaviourNet, donorWeighting)
	combine(g.traitGenes, donor.traitGenes, g.traitGenes, donorWeighting)
}

// ExpressBehaviour runs sensory data through the behaviour network.
func (g *Genotype) ExpressBehaviour(sensory []float32) []float32 {
	return g.BehaviourNet.Forward(sensory)
}

// ExpressTraits writes the five phenotype trait values from the
// genotype's trait genes, honoring the deliberate pleiotropic overlap
// in gene-index windows.
func (g *Genotype) ExpressTraits(p *Phenotype) {
	p.setAreaOfInfluence(g.calculateTrait(0, 4, false))
	p.setSpeed(g.calculateTrait(3, 4, true))
	p.setHealthRate(g.calculateTrait(6, 3, true))
	p.setIdealTemp(g.calculateTrait(9, 3, false))
	p.setTempRange(g.calculateTrait(12, 3, false))
}

func (g *Genotype) calculateTrait(start, n int, negate bool) float32 {
	multiplier := float32(1)
	if negate {
		multiplier = -1
	}
	val := sumVec(g.traitGenes[start : start+n])
	return multiplier * val / float32(n)
}
