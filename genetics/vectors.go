// Package genetics implements the genetics core: the behaviour network,
// trait genes, and the crossover/mutation/transfer vector operations
// that drive them.
package genetics

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// randomizeNormal fills vec with independent N(mean, sigma) samples.
func randomizeNormal(vec []float32, mean, sigma float64, rng *rand.Rand) {
	dist := distuv.Normal{Mu: mean, Sigma: sigma, Src: rng}
	for i := range vec {
		vec[i] = float32(dist.Rand())
	}
}

// randomizeUniform fills vec with independent U(lo, hi) samples.
func randomizeUniform(vec []float32, lo, hi float64, rng *rand.Rand) {
	dist := distuv.Uniform{Min: lo, Max: hi, Src: rng}
	for i := range vec {
		vec[i] = float32(dist.Rand())
	}
}

// combine sets child[i] = w*parent1[i] + (1-w)*parent2[i]. child may
// alias parent2 (each index is fully resolved before the next).
func combine(child, parent1, parent2 []float32, w float32) {
	for i := range child {
		child[i] = w*parent1[i] + (1-w)*parent2[i]
	}
}

// mutate adds N(0, sigma) to each element with probability p.
func mutate(vec []float32, p, sigma float64, rng *rand.Rand) {
	amount := distuv.Normal{Mu: 0, Sigma: sigma, Src: rng}
	for i := range vec {
		if rng.Float64() <= p {
			vec[i] += float32(amount.Rand())
		}
	}
}

// combineAndMutateRandom draws w~U(0,1), combines parent1/parent2 into
// child weighted by w, then mutates child in place.
func combineAndMutateRandom(child, parent1, parent2 []float32, p, sigma float64, rng *rand.Rand) {
	w := float32(rng.Float64())
	combine(child, parent1, parent2, w)
	mutate(child, p, sigma, rng)
}

// copyVec copies src into dst. gonum/floats only operates on []float64,
// so a per-call conversion would cost more than this hot-path loop saves.
func copyVec(dst, src []float32) {
	for i := range dst {
		dst[i] = src[i]
	}
}

// sumVec sums a float32 slice via a float64 accumulator through
// gonum/floats, used by calculateTrait.
func sumVec(v []float32) float32 {
	f64 := make([]float64, len(v))
	for i, x := range v {
		f64[i] = float64(x)
	}
	return float32(floats.Sum(f64))
}
