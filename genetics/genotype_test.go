package genetics

import (
	"math/rand"
	"sync"
	"testing"
)

func testParams() PhenotypeParams {
	return PhenotypeParams{
		AreaOfInfluence: StandardizeParams{Mean: 8, Sigma: 2},
		Speed:           StandardizeParams{Mean: 1, Sigma: 0.1},
		HealthRate:      StandardizeParams{Mean: 220, Sigma: 30},
		IdealTemp:       StandardizeParams{Mean: 260, Sigma: 30},
		TempRange:       StandardizeParams{Mean: 10, Sigma: 2},
	}
}

func TestExpressTraitsMatchesMeanSigmaFormula(t *testing.T) {
	g := NewGenotype(0, 7, 16, 8, 2)
	for i := range g.traitGenes {
		g.traitGenes[i] = float32(i) * 0.1
	}

	p := NewPhenotype(testParams())
	g.ExpressTraits(p)

	// area_of_influence = mean(genes[0:4]) * sigma + mean
	mean04 := (g.traitGenes[0] + g.traitGenes[1] + g.traitGenes[2] + g.traitGenes[3]) / 4
	wantAOI := mean04*2 + 8
	if diff := p.AreaOfInfluence() - wantAOI; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("area_of_influence: got %f, want %f", p.AreaOfInfluence(), wantAOI)
	}

	// speed = -mean(genes[3:7]) * sigma + mean
	mean37 := (g.traitGenes[3] + g.traitGenes[4] + g.traitGenes[5] + g.traitGenes[6]) / 4
	wantSpeed := -mean37*0.1 + 1
	if diff := p.Speed() - wantSpeed; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("speed: got %f, want %f", p.Speed(), wantSpeed)
	}
}

func TestExpressTraitsIdempotentOnUnchangedGenotype(t *testing.T) {
	g := NewGenotype(0, 7, 16, 8, 2)
	rng := rand.New(rand.NewSource(42))
	g.InitRandom(2, 1, rng)

	p1 := NewPhenotype(testParams())
	p2 := NewPhenotype(testParams())
	g.ExpressTraits(p1)
	g.ExpressTraits(p2)

	if p1.AreaOfInfluence() != p2.AreaOfInfluence() || p1.Speed() != p2.Speed() ||
		p1.HealthRate() != p2.HealthRate() || p1.IdealTemp() != p2.IdealTemp() ||
		p1.TempRange() != p2.TempRange() {
		t.Error("expressing traits twice from the same genotype produced different phenotypes")
	}
}

func TestTransferFromAppliesDonorWeighting(t *testing.T) {
	a := NewGenotype(1, 7, 16, 8, 2)
	b := NewGenotype(2, 7, 16, 8, 2)
	for i := range a.traitGenes {
		a.traitGenes[i] = 0
		b.traitGenes[i] = 10
	}

	a.TransferFrom(b, 0.4)

	want := float32(0.4 * 10)
	for i, v := range a.traitGenes {
		if v != want {
			t.Fatalf("gene %d: got %f, want %f", i, v, want)
		}
	}
}

// TestTransferFromNoDeadlockUnderReciprocalTransfer exercises many
// goroutines performing transfers in both directions between the same
// pair of genotypes concurrently; it must complete without deadlocking.
func TestTransferFromNoDeadlockUnderReciprocalTransfer(t *testing.T) {
	a := NewGenotype(1, 7, 16, 8, 2)
	b := NewGenotype(2, 7, 16, 8, 2)

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			a.TransferFrom(b, 0.3)
		}()
		go func() {
			defer wg.Done()
			b.TransferFrom(a, 0.3)
		}()
	}
	wg.Wait()
}
