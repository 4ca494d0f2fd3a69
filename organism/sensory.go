// Package organism implements the per-agent state, sensory computation,
// and reaction-to-temperature/motion pipeline that makes up a population
// member, plus the fixed-capacity Population that owns them.
package organism

import "math"

// sensory data indices, matching the original's fixed 7-element layout.
const (
	sensHunger = iota
	sensThirst
	sensTemperatureDamage
	sensFoodHeading
	sensWaterHeading
	sensTemperatureHeading
	sensMemory
	sensoryLen
)

const oneMillion = 1_000_000

// SensoryData holds an organism's current sensory inputs, already scaled
// to roughly [-1, 1] the way the behaviour network expects them.
type SensoryData struct {
	data [sensoryLen]float32
}

// Data returns the scaled sensory vector fed directly into the
// behaviour network. Callers must not retain it across the next set call.
func (s *SensoryData) Data() []float32 { return s.data[:] }

// SetHunger scales nutrition (0..1e6) into [-1, 1], low nutrition => high hunger.
func (s *SensoryData) SetHunger(nutrition int32) {
	s.data[sensHunger] = ((1 - float32(nutrition)/oneMillion) - 0.5) * 2
}

// SetThirst scales hydration (0..1e6) into [-1, 1], low hydration => high thirst.
func (s *SensoryData) SetThirst(hydration int32) {
	s.data[sensThirst] = ((1 - float32(hydration)/oneMillion) - 0.5) * 2
}

// SetTemperatureDamage scales integrity (0..1e6) into [-1, 1].
func (s *SensoryData) SetTemperatureDamage(integrity int32) {
	s.data[sensTemperatureDamage] = ((1 - float32(integrity)/oneMillion) - 0.5) * 2
}

// SetFoodHeading scales a heading in radians into [-1, 1].
func (s *SensoryData) SetFoodHeading(heading float32) {
	s.data[sensFoodHeading] = heading / math.Pi
}

// SetWaterHeading scales a heading in radians into [-1, 1].
func (s *SensoryData) SetWaterHeading(heading float32) {
	s.data[sensWaterHeading] = heading / math.Pi
}

// SetTemperatureHeading scales a heading in radians into [-1, 1].
func (s *SensoryData) SetTemperatureHeading(heading float32) {
	s.data[sensTemperatureHeading] = heading / math.Pi
}

// SetMemory stores the behaviour network's second output for next tick.
func (s *SensoryData) SetMemory(memory float32) {
	s.data[sensMemory] = memory
}

// reset zeros the sensory vector, used when an organism slot is reinitialized.
func (s *SensoryData) reset() {
	for i := range s.data {
		s.data[i] = 0
	}
}
