// Package history keeps the run's step records, the bounded per-pot
// sensor and action buffers handed to decision policies, and per-day
// aggregates.
package history

import (
	"github.com/BosongDing/smartgarden/internal/model"
)

// Per-pot buffer capacities; the oldest entry is evicted on overflow.
const (
	sensorHistoryCap = 24
	actionHistoryCap = 48
)

// Tracker records completed steps and maintains the bounded per-pot
// buffers exposed to policies.
type Tracker struct {
	steps   []model.StepResult
	sensors [model.NumPots][]model.SensorSample
	actions [model.NumPots][]model.ActionSample
	daily   []model.DailySummary
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// LogStep appends a completed step and feeds the per-pot buffers.
// Once appended, a step record is never mutated. Every 8th step a
// daily summary is folded from the day's step records.
func (t *Tracker) LogStep(res model.StepResult) {
	t.steps = append(t.steps, res)

	for pot := 0; pot < model.NumPots && pot < len(res.Sensors.Pots); pot++ {
		r := res.Sensors.Pots[pot]
		t.sensors[pot] = appendBounded(t.sensors[pot], model.SensorSample{
			Step:          res.Step,
			SoilMoisture:  r.SoilMoisture,
			NutrientLevel: r.NutrientLevel,
			Temperature:   r.Temperature,
		}, sensorHistoryCap)
	}

	for _, req := range res.Requested {
		if req.PotID < 0 || req.PotID >= model.NumPots {
			continue
		}
		t.actions[req.PotID] = appendBounded(t.actions[req.PotID], model.ActionSample{
			Step: res.Step,
			Kind: req.Kind,
		}, actionHistoryCap)
	}

	if (res.Step+1)%model.StepsPerDay == 0 {
		t.daily = append(t.daily, t.summarizeDay(res.Step/model.StepsPerDay))
	}
}

func appendBounded[T any](buf []T, v T, limit int) []T {
	buf = append(buf, v)
	if len(buf) > limit {
		buf = buf[1:]
	}
	return buf
}

// summarizeDay folds the last full day of step records.
func (t *Tracker) summarizeDay(day int) model.DailySummary {
	start := len(t.steps) - model.StepsPerDay
	if start < 0 {
		start = 0
	}
	window := t.steps[start:]

	sum := model.DailySummary{Day: day}
	var tempSum, healthSum float64
	var healthN int
	for _, st := range window {
		tempSum += st.Weather.Temperature
		sum.TotalRainfall += st.Weather.RainfallAmount
		for _, p := range st.PlantStates {
			healthSum += p.Health
			healthN++
		}
		for _, a := range st.Executed {
			switch a.Kind {
			case model.ActionWater:
				sum.WaterActions++
			case model.ActionFertilize:
				sum.FertilizeActions++
			}
		}
	}
	if len(window) > 0 {
		sum.AvgTemperature = tempSum / float64(len(window))
	}
	if healthN > 0 {
		sum.AvgPlantHealth = healthSum / float64(healthN)
	}
	return sum
}

// SensorHistory returns a copy of the pot's recent sensor samples,
// most recent last.
func (t *Tracker) SensorHistory(potID int) []model.SensorSample {
	if potID < 0 || potID >= model.NumPots {
		return nil
	}
	out := make([]model.SensorSample, len(t.sensors[potID]))
	copy(out, t.sensors[potID])
	return out
}

// ActionHistory returns a copy of the pot's recent action samples,
// most recent last.
func (t *Tracker) ActionHistory(potID int) []model.ActionSample {
	if potID < 0 || potID >= model.NumPots {
		return nil
	}
	out := make([]model.ActionSample, len(t.actions[potID]))
	copy(out, t.actions[potID])
	return out
}

// Steps returns the recorded step results.
func (t *Tracker) Steps() []model.StepResult { return t.steps }

// DailySummaries returns the per-day aggregates computed so far.
func (t *Tracker) DailySummaries() []model.DailySummary { return t.daily }
