// Package weather generates the per-step temperature and rainfall series
// that drives the garden simulation.
package weather

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/BosongDing/smartgarden/internal/config"
	"github.com/BosongDing/smartgarden/internal/model"
)

const (
	minTemperature = 5.0
	maxTemperature = 40.0

	// summaryWindow bounds the trailing history kept for Summary.
	summaryWindow = 24
)

// Generator produces one WeatherState per step from a periodic temperature
// model plus an independent Bernoulli rainfall draw. All randomness comes
// from the generator handle supplied at construction.
type Generator struct {
	cfg     config.WeatherConfig
	rng     *rand.Rand
	history []model.WeatherState
}

// NewGenerator builds a weather generator over the shared random stream.
func NewGenerator(cfg config.WeatherConfig, rng *rand.Rand) (*Generator, error) {
	if rng == nil {
		return nil, fmt.Errorf("weather: random source is required")
	}
	return &Generator{cfg: cfg, rng: rng}, nil
}

// Generate produces the weather for the given step and records it in the
// trailing summary window.
func (g *Generator) Generate(step int) model.WeatherState {
	timeOfDay := (step * 3) % 24

	dailyCycle := g.cfg.TempAmplitude * math.Sin(2*math.Pi*float64(timeOfDay)/24)
	seasonal := g.cfg.SeasonalDrift * math.Sin(2*math.Pi*float64(step)/240)
	noise := g.rng.NormFloat64() * g.cfg.TempNoiseStd

	temp := g.cfg.TempMean + dailyCycle + seasonal + noise
	temp = math.Max(minTemperature, math.Min(maxTemperature, temp))

	raining := false
	rainfall := 0.0
	// rain probability is configured per day; 8 steps make a day
	if g.rng.Float64() < g.cfg.RainProbabilityDay/float64(model.StepsPerDay) {
		raining = true
		rainfall = g.cfg.RainAmount
	}

	state := model.WeatherState{
		Temperature:    temp,
		IsRaining:      raining,
		RainfallAmount: rainfall,
		Step:           step,
	}

	g.history = append(g.history, state)
	if len(g.history) > summaryWindow {
		g.history = g.history[len(g.history)-summaryWindow:]
	}
	return state
}

// Summary describes the trailing window of generated weather.
type Summary struct {
	AvgTemperature float64 `json:"average_temperature"`
	TotalRainfall  float64 `json:"total_rainfall"`
	RainSteps      int     `json:"rain_steps"`
}

// Summary reports statistics over the trailing window (at most 24 steps).
func (g *Generator) Summary() Summary {
	if len(g.history) == 0 {
		return Summary{}
	}
	var s Summary
	for _, w := range g.history {
		s.AvgTemperature += w.Temperature
		s.TotalRainfall += w.RainfallAmount
		if w.IsRaining {
			s.RainSteps++
		}
	}
	s.AvgTemperature /= float64(len(g.history))
	return s
}
