// Package policy defines the decision-policy contract the simulator
// invokes once per pot per step, plus the built-in policies.
package policy

import (
	"fmt"
	"sort"

	"github.com/BosongDing/smartgarden/internal/config"
	"github.com/BosongDing/smartgarden/internal/model"
)

// Policy decides, from one pot's observation, whether to water and
// whether to fertilize this step. Implementations must tolerate absent
// sensor values; an error (or panic) is treated by the simulator as
// "no action" for that pot.
type Policy interface {
	ShouldWater(obs model.Observation) (bool, error)
	ShouldFertilize(obs model.Observation) (bool, error)
}

// Noop never acts. Useful as a neglect baseline.
type Noop struct{}

func (Noop) ShouldWater(model.Observation) (bool, error)     { return false, nil }
func (Noop) ShouldFertilize(model.Observation) (bool, error) { return false, nil }

// Simple waters and fertilizes on fixed global thresholds, ignoring
// species and weather.
type Simple struct {
	WaterBelow     float64
	FertilizeBelow float64
}

func (s Simple) ShouldWater(obs model.Observation) (bool, error) {
	if obs.Sensor.SoilMoisture == nil {
		return false, nil
	}
	return *obs.Sensor.SoilMoisture < s.WaterBelow, nil
}

func (s Simple) ShouldFertilize(obs model.Observation) (bool, error) {
	if obs.Sensor.NutrientLevel == nil {
		return false, nil
	}
	return *obs.Sensor.NutrientLevel < s.FertilizeBelow, nil
}

// Threshold acts on the per-species configured thresholds, skips dead
// plants, accounts for the flowering-stage moisture requirement, and
// distrusts readings that jump implausibly during rain.
type Threshold struct {
	plants map[model.Species]config.PlantConfig
}

func NewThreshold(cfg *config.Config) *Threshold {
	return &Threshold{plants: cfg.Plants}
}

// rainJumpTolerance bounds how far a reading may move from the previous
// sample before it is considered rain-splash noise.
const rainJumpTolerance = 0.05

func (p *Threshold) ShouldWater(obs model.Observation) (bool, error) {
	if obs.Plant.Phenology == model.PhenologyDead {
		return false, nil
	}
	if obs.Sensor.SoilMoisture == nil {
		return false, nil
	}
	pc, ok := p.plants[obs.Species]
	if !ok {
		return false, fmt.Errorf("policy: no thresholds configured for species %q", obs.Species)
	}

	threshold := pc.SoilThreshold
	if obs.Species == model.SpeciesNasturtium && obs.Plant.DaysAlive >= pc.FlowerStageDay {
		threshold = pc.FlowerStageSoilThreshold
	}

	reading := *obs.Sensor.SoilMoisture
	if obs.Raining && suspectJump(reading, obs.SensorHistory, moistureOf) {
		return false, nil
	}
	return reading < threshold, nil
}

func (p *Threshold) ShouldFertilize(obs model.Observation) (bool, error) {
	if obs.Plant.Phenology == model.PhenologyDead {
		return false, nil
	}
	if obs.Sensor.NutrientLevel == nil {
		return false, nil
	}
	pc, ok := p.plants[obs.Species]
	if !ok {
		return false, fmt.Errorf("policy: no thresholds configured for species %q", obs.Species)
	}

	reading := *obs.Sensor.NutrientLevel
	if obs.Raining && suspectJump(reading, obs.SensorHistory, nutrientOf) {
		return false, nil
	}
	return reading < pc.NutrientThreshold, nil
}

func moistureOf(s model.SensorSample) *float64 { return s.SoilMoisture }
func nutrientOf(s model.SensorSample) *float64 { return s.NutrientLevel }

// suspectJump reports whether the reading moved further from the most
// recent comparable sample than rain alone would explain.
func suspectJump(reading float64, hist []model.SensorSample, channel func(model.SensorSample) *float64) bool {
	for i := len(hist) - 1; i >= 0; i-- {
		prev := channel(hist[i])
		if prev == nil {
			continue
		}
		diff := reading - *prev
		if diff < 0 {
			diff = -diff
		}
		return diff > rainJumpTolerance
	}
	return false
}

// builders maps the names accepted on the command line to policy
// constructors.
var builders = map[string]func(*config.Config) (Policy, error){
	"noop": func(*config.Config) (Policy, error) { return Noop{}, nil },
	"simple": func(*config.Config) (Policy, error) {
		return Simple{WaterBelow: 0.35, FertilizeBelow: 0.30}, nil
	},
	"threshold": func(cfg *config.Config) (Policy, error) { return NewThreshold(cfg), nil },
}

// ByName builds the named built-in policy.
func ByName(name string, cfg *config.Config) (Policy, error) {
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("policy: unknown policy %q (have %v)", name, Names())
	}
	return build(cfg)
}

// Names lists the built-in policy names, sorted.
func Names() []string {
	out := make([]string, 0, len(builders))
	for name := range builders {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
