package genetics

// StandardizeParams holds the mean/sigma used to convert a trait gene's
// standardized form (z-score) into its physical value: v = z*sigma+mean.
type StandardizeParams struct {
	Mean, Sigma float32
}

// physicalTrait is a single phenotype value plus the parameters used to
// convert it from standardized form.
type physicalTrait struct {
	value  float32
	params StandardizeParams
}

func (t *physicalTrait) setFromStandardized(z float32) {
	t.value = z*t.params.Sigma + t.params.Mean
}

// Phenotype holds the five physical traits expressed from a genotype's
// trait genes.
type Phenotype struct {
	areaOfInfluence physicalTrait
	speed           physicalTrait
	healthRate      physicalTrait
	idealTemp       physicalTrait
	tempRange       physicalTrait
}

// PhenotypeParams bundles the standardization parameters for all five
// traits, read from configuration.
type PhenotypeParams struct {
	AreaOfInfluence StandardizeParams
	Speed           StandardizeParams
	HealthRate      StandardizeParams
	IdealTemp       StandardizeParams
	TempRange       StandardizeParams
}

// NewPhenotype builds a zero-valued phenotype bound to the given
// standardization parameters.
func NewPhenotype(p PhenotypeParams) *Phenotype {
	return &Phenotype{
		areaOfInfluence: physicalTrait{params: p.AreaOfInfluence},
		speed:           physicalTrait{params: p.Speed},
		healthRate:      physicalTrait{params: p.HealthRate},
		idealTemp:       physicalTrait{params: p.IdealTemp},
		tempRange:       physicalTrait{params: p.TempRange},
	}
}

func (p *Phenotype) AreaOfInfluence() float32 { return p.areaOfInfluence.value }
func (p *Phenotype) Speed() float32           { return p.speed.value }
func (p *Phenotype) HealthRate() float32      { return p.healthRate.value }
func (p *Phenotype) IdealTemp() float32       { return p.idealTemp.value }
func (p *Phenotype) TempRange() float32       { return p.tempRange.value }

func (p *Phenotype) setAreaOfInfluence(z float32) { p.areaOfInfluence.setFromStandardized(z) }
func (p *Phenotype) setSpeed(z float32)           { p.speed.setFromStandardized(z) }
func (p *Phenotype) setHealthRate(z float32)      { p.healthRate.setFromStandardized(z) }
func (p *Phenotype) setIdealTemp(z float32)       { p.idealTemp.setFromStandardized(z) }
func (p *Phenotype) setTempRange(z float32)       { p.tempRange.setFromStandardized(z) }
