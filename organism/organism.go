package organism

import (
	"math"
	"math/rand"
	"sync/atomic"

	"github.com/pthm-cable/geneticsim/config"
	"github.com/pthm-cable/geneticsim/genetics"
	"github.com/pthm-cable/geneticsim/planet"
	"github.com/pthm-cable/geneticsim/render"
)

// collisionAgeGate is the age (in ticks) the other party in an
// interaction must exceed before horizontal gene transfer is
// considered; it keeps newborns from transferring genes immediately.
const collisionAgeGate = 250

// replicationAgeGate is the minimum age before an organism may replicate.
const replicationAgeGate = 500

// transferEffectInactive marks transferEffectTime as "no visual effect
// running", matching the original's -1 sentinel.
const transferEffectInactive = -1

// Organism is one agent in the population: a stable pool index, physical
// state, a genotype/phenotype pair, and per-tick sensory data. The
// per-tick phase methods (InteractWith, ReactToTemperature,
// UpdateFitness, SearchForFood/Water, Think, Move, UpdateSprite) are
// no-ops when the organism's slot is not alive; Nourish, Hydrate,
// UpdatePhenotype and SetCollision do not check.
type Organism struct {
	index uint32

	genotype  *genetics.Genotype
	phenotype *genetics.Phenotype
	sensory   SensoryData

	exists    bool
	age       uint32
	nutrition atomic.Int32
	hydration atomic.Int32
	integrity int32
	fitness   float32

	collisions          []uint8
	genesTransferred    bool
	transferEffectTime  int32

	x, y   float32
	vx, vy float32
	size   float32

	worldW, worldH float32

	mutation   genetics.MutationParams
	weightCfg  weightRangeParams
}

type weightRangeParams struct {
	Range, RangeBias float64
}

// New allocates an organism slot. index is its stable identity within
// the population pool (used as both the behaviour-network genotype's
// lock-ordering id and the column index every other organism's
// collisions record indexes by). populationSize sizes the collisions
// record to the full pool.
func New(index uint32, populationSize int, cfg *config.Config, worldW, worldH float32) *Organism {
	pc := cfg.Population
	phenotypeParams := genetics.PhenotypeParams{
		AreaOfInfluence: genetics.StandardizeParams{Mean: float32(pc.AreaOfInfluenceMean), Sigma: float32(pc.AreaOfInfluenceSigma)},
		Speed:           genetics.StandardizeParams{Mean: float32(pc.SpeedMean), Sigma: float32(pc.SpeedSigma)},
		HealthRate:      genetics.StandardizeParams{Mean: float32(pc.HealthRateMean), Sigma: float32(pc.HealthRateSigma)},
		IdealTemp:       genetics.StandardizeParams{Mean: float32(pc.IdealTempMean), Sigma: float32(pc.IdealTempSigma)},
		TempRange:       genetics.StandardizeParams{Mean: float32(pc.TempRangeMean), Sigma: float32(pc.TempRangeSigma)},
	}
	o := &Organism{
		index:      index,
		genotype:   genetics.NewGenotype(uint64(index), 7, pc.BehaviourNetLayer1Units, pc.BehaviourNetLayer2Units, 2),
		phenotype:  genetics.NewPhenotype(phenotypeParams),
		collisions: make([]uint8, populationSize),
		worldW:     worldW,
		worldH:     worldH,
		mutation: genetics.MutationParams{
			BehaviourNetProb:  pc.BehaviourNetMutationProb,
			BehaviourNetSigma: pc.BehaviourNetMutationSigma,
			TraitGenesProb:    pc.TraitGenesMutationProb,
			TraitGenesSigma:   pc.TraitGenesMutationSigma,
		},
		weightCfg: weightRangeParams{Range: pc.BehaviourNetWeightRange, RangeBias: pc.BehaviourNetWeightRangeBias},
	}
	return o
}

// Index returns the organism's stable pool index.
func (o *Organism) Index() uint32 { return o.index }

// Exists reports whether the slot is currently alive (pool.Object).
func (o *Organism) Exists() bool { return o.exists }

// Position returns the organism's world position (pool.Object).
func (o *Organism) Position() (float32, float32) { return o.x, o.y }

// Size returns the organism's current sprite/interaction radius (pool.Object).
func (o *Organism) Size() float32 { return o.size }

// SetPosition overwrites the organism's position (pool.Object).
func (o *Organism) SetPosition(x, y float32) { o.x, o.y = x, y }

// SetVelocity overwrites the organism's velocity (pool.Object).
func (o *Organism) SetVelocity(vx, vy float32) { o.vx, o.vy = vx, vy }

// Fitness returns the organism's last-computed fitness.
func (o *Organism) Fitness() float32 { return o.fitness }

// Age returns the number of ticks since the organism's last (re)initialization.
func (o *Organism) Age() uint32 { return o.age }

// Nutrition returns the current nutrition level.
func (o *Organism) Nutrition() int32 { return o.nutrition.Load() }

// Hydration returns the current hydration level.
func (o *Organism) Hydration() int32 { return o.hydration.Load() }

// Integrity returns the current physical integrity level.
func (o *Organism) Integrity() int32 { return o.integrity }

// SetCollision forces the collision record for other's index to "in
// contact", used by replication to suppress immediate parent/child
// interaction on the tick a child is born.
func (o *Organism) SetCollision(otherIndex uint32) {
	o.collisions[otherIndex] = 1
}

// reset clears all per-lifetime bookkeeping; called by every init variant.
func (o *Organism) reset() {
	o.nutrition.Store(oneMillion)
	o.hydration.Store(oneMillion)
	o.integrity = oneMillion
	o.fitness = 1
	o.age = 0
	for i := range o.collisions {
		o.collisions[i] = 0
	}
	o.genesTransferred = false
	o.transferEffectTime = transferEffectInactive
	o.sensory.reset()
}

// Init resets the organism into a fresh, randomly-initialized agent at
// the given position.
func (o *Organism) Init(x, y float32, rng *rand.Rand) {
	o.reset()
	o.x, o.y = x, y
	o.genotype.InitRandom(o.weightCfg.Range, o.weightCfg.RangeBias, rng)
	o.genotype.ExpressTraits(o.phenotype)
	o.size = o.phenotype.AreaOfInfluence()
	o.exists = true
}

// InitFromParents resets the organism into a child of two parents,
// positioned at their midpoint.
func (o *Organism) InitFromParents(p1, p2 *Organism, rng *rand.Rand) {
	o.reset()
	o.x = (p1.x + p2.x) / 2
	o.y = (p1.y + p2.y) / 2
	o.genotype.InitFromParents(p1.genotype, p2.genotype, o.mutation, rng)
	o.genotype.ExpressTraits(o.phenotype)
	o.size = o.phenotype.AreaOfInfluence()
	o.exists = true
}

// InitFromParent resets the organism into a (mutated) clone of a single
// parent, positioned at the parent's location.
func (o *Organism) InitFromParent(parent *Organism, rng *rand.Rand) {
	o.reset()
	o.x, o.y = parent.x, parent.y
	o.genotype.InitFromParent(parent.genotype, o.mutation, rng)
	o.genotype.ExpressTraits(o.phenotype)
	o.size = o.phenotype.AreaOfInfluence()
	o.exists = true
}

// checkInRange reports whether other is within this organism's area of
// influence. When center is true the range is this organism's size
// alone; otherwise it's the sum of both sizes.
func (o *Organism) checkInRange(otherX, otherY, otherSize float32, center bool) bool {
	dx := o.x - otherX
	dy := o.y - otherY
	d2 := dx*dx + dy*dy
	r := o.size
	if !center {
		r += otherSize
	}
	return d2 < r*r
}

// InteractWith performs one pairwise interaction step: if other is in
// range, was not already in contact on the previous call (a fresh
// collision), and is old enough, a horizontal gene transfer may occur
// with a fitness-weighted chance.
// Always records the current collision state for other's index.
func (o *Organism) InteractWith(other *Organism, rng *rand.Rand) {
	if !o.exists {
		return
	}
	if !other.exists {
		o.collisions[other.index] = 0
		return
	}

	collision := o.checkInRange(other.x, other.y, other.size, true)
	if collision && o.collisions[other.index] == 0 && other.age > collisionAgeGate {
		chanceOfTransfer := (o.fitness*0.35 + other.fitness*0.65) / 10
		if rng.Float32() < chanceOfTransfer {
			weighting := ((other.fitness-o.fitness)/2 + 0.5) / 5
			o.genotype.TransferFrom(other.genotype, weighting)
			o.genesTransferred = true
			o.transferEffectTime = 0
		}
	}
	if collision {
		o.collisions[other.index] = 1
	} else {
		o.collisions[other.index] = 0
	}
}

// ReactToTemperature samples the planet's temperature table at the
// organism's current latitude and updates integrity and the
// temperature-seeking heading accordingly.
func (o *Organism) ReactToTemperature(p *planet.Planet, t uint32) {
	if !o.exists {
		return
	}

	y := uint32(o.y)
	currentTemp := p.Temperature(y, t)
	idealTemp := o.phenotype.IdealTemp()
	tempRange := o.phenotype.TempRange()
	healthRate := o.phenotype.HealthRate()

	d := float32(math.Abs(float64(currentTemp - idealTemp)))
	if d < tempRange {
		gain := healthRate / max32(1, d)
		o.integrity = int32(min32(oneMillion, float32(o.integrity)+gain))
	} else {
		loss := d / (120 / (healthRate / 2))
		o.integrity = int32(max32(0, float32(o.integrity)-loss))
	}
	o.sensory.SetTemperatureDamage(o.integrity)

	northY := int(o.y) - 5
	if northY < 0 {
		northY = 0
	}
	southY := int(o.y) + 5
	if maxY := int(o.worldH) - 1; southY > maxY {
		southY = maxY
	}
	north := p.Temperature(uint32(northY), t)
	south := p.Temperature(uint32(southY), t)
	northD := float32(math.Abs(float64(north - idealTemp)))
	southD := float32(math.Abs(float64(south - idealTemp)))

	var heading float32
	if northD < southD {
		heading = float32(math.Pi / 2)
	} else {
		heading = float32(-math.Pi / 2)
	}
	o.sensory.SetTemperatureHeading(heading)
}

// Nourish atomically adds amount to the organism's nutrition. Safe to
// call concurrently from multiple distribute-resources workers.
func (o *Organism) Nourish(amount uint32) {
	o.nutrition.Add(int32(amount))
}

// Hydrate atomically adds amount to the organism's hydration. Safe to
// call concurrently from multiple distribute-resources workers.
func (o *Organism) Hydrate(amount uint32) {
	o.hydration.Add(int32(amount))
}

// UpdatePhenotype re-expresses physical traits if a horizontal gene
// transfer occurred since the last call, and resizes accordingly.
func (o *Organism) UpdatePhenotype() {
	if o.genesTransferred {
		o.genotype.ExpressTraits(o.phenotype)
		o.size = o.phenotype.AreaOfInfluence()
		o.genesTransferred = false
	}
}

// UpdateFitness clamps and decays nutrition/hydration, kills the
// organism if any resource has been depleted, and otherwise recomputes
// fitness and advances age. Returns whether the organism is still alive.
func (o *Organism) UpdateFitness() bool {
	if !o.exists {
		return false
	}

	healthRate := int32(o.phenotype.HealthRate())

	n := min32i(oneMillion, o.nutrition.Load()) - healthRate
	o.nutrition.Store(n)
	h := min32i(oneMillion, o.hydration.Load()) - healthRate
	o.hydration.Store(h)

	if n <= 0 || h <= 0 || o.integrity <= 0 {
		o.exists = false
		return false
	}

	o.fitness = float32(n+h+o.integrity) / 3e6
	o.age++
	return true
}

// ResourceLocator is the narrow read surface SearchForFood/SearchForWater
// need from a resource pool: existence, position, and iteration bound.
type ResourceLocator interface {
	Len() int
	ItemExists(i int) bool
	ItemPosition(i int) (float32, float32)
	ItemSize(i int) float32
}

// SearchForFood scans food for the nearest existing item and records the
// heading to it plus the organism's current hunger.
func (o *Organism) SearchForFood(food ResourceLocator) {
	if !o.exists {
		return
	}
	o.sensory.SetFoodHeading(o.headingToNearest(food))
	o.sensory.SetHunger(o.nutrition.Load())
}

// SearchForWater scans water for the nearest existing item and records
// the heading to it plus the organism's current thirst.
func (o *Organism) SearchForWater(water ResourceLocator) {
	if !o.exists {
		return
	}
	o.sensory.SetWaterHeading(o.headingToNearest(water))
	o.sensory.SetThirst(o.hydration.Load())
}

func (o *Organism) headingToNearest(locator ResourceLocator) float32 {
	shortest := float32(math.MaxFloat32)
	var heading float32
	for i := 0; i < locator.Len(); i++ {
		if !locator.ItemExists(i) {
			continue
		}
		rx, ry := locator.ItemPosition(i)
		dx := o.x - rx
		dy := o.y - ry
		d2 := dx*dx + dy*dy
		if d2 < shortest {
			shortest = d2
			heading = float32(math.Atan2(float64(dy), float64(dx)))
		}
	}
	return heading
}

// Think runs the organism's behaviour network over its current sensory
// data and sets its velocity from the decision.
func (o *Organism) Think() {
	if !o.exists {
		return
	}
	decision := o.genotype.ExpressBehaviour(o.sensory.Data())
	heading := decision[0] * math.Pi
	speed := o.phenotype.Speed()
	o.vx = float32(math.Cos(float64(heading))) * speed
	o.vy = float32(math.Sin(float64(heading))) * speed
	o.sensory.SetMemory(decision[1])
}

// Move applies the current velocity and wraps the organism toroidally at
// the world bounds.
func (o *Organism) Move() {
	if !o.exists {
		return
	}
	o.x = wrap(o.x+o.vx, o.worldW)
	o.y = wrap(o.y+o.vy, o.worldH)
}

// UpdateSprite advances the gene-transfer visual effect timer, disabling
// it once it has run for 1.5 seconds worth of ticks at fps.
func (o *Organism) UpdateSprite(fps uint32) {
	if !o.exists {
		return
	}
	if o.transferEffectTime >= 0 {
		o.transferEffectTime++
		if float32(o.transferEffectTime) > float32(fps)*1.5 {
			o.transferEffectTime = transferEffectInactive
		}
	}
}

// VisualState computes the fill/outline colors a render.Viewport should
// use to draw this organism this frame: fill is a gradient from red
// (near death) to green (thriving) over the lowest of nutrition,
// hydration and integrity; outline flashes blue while a
// gene-transfer effect is active, matching the original's
// calculate_color/calculate_outline_color treatment.
func (o *Organism) VisualState(fps uint32) (fill, outline render.Color) {
	worst := min32i(oneMillion, min32i(o.nutrition.Load(), min32i(o.hydration.Load(), o.integrity)))
	worst = max32i(0, worst)
	t := float32(worst) / oneMillion
	fill = lerpColor(render.Color{R: 193, G: 21, B: 21, A: 128}, render.Color{R: 5, G: 252, B: 83, A: 128}, t)

	normalOutline := render.Color{R: 138, G: 31, B: 89, A: 200}
	if o.transferEffectTime >= 0 {
		effectLen := float32(fps) * 1.5
		progress := float32(o.transferEffectTime) / effectLen
		outline = lerpColor(render.Color{R: 5, G: 21, B: 252, A: 200}, normalOutline, progress)
	} else {
		outline = normalOutline
	}
	return fill, outline
}

func lerpColor(a, b render.Color, t float32) render.Color {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	lerp := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t)
	}
	return render.Color{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
		A: lerp(a.A, b.A),
	}
}

func wrap(v, bound float32) float32 {
	if v >= bound {
		return v - bound
	}
	if v < 0 {
		return v + bound
	}
	return v
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32i(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32i(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
