package device

import (
	"fmt"
	"math/rand"

	"github.com/BosongDing/smartgarden/internal/config"
	"github.com/BosongDing/smartgarden/internal/model"
)

// stuckValue is the pinned reading of a stuck sensor, both channels.
const stuckValue = 0.5

// SensorArray synthesizes per-pot soil readings from true state. A pot's
// sensor can be in a sustained fault window (stuck/drift/spike archetypes,
// re-drawn each read) or, when healthy, emit a one-off transient error
// (extreme or missing values). A healthy, error-free pot reads the true
// values with zero noise.
type SensorArray struct {
	cfg config.SensorsConfig
	rng *rand.Rand

	// failures maps potID to the step at which the fault clears.
	failures     map[int]int
	readingCount int
}

// NewSensorArray builds the sensor array over the shared random stream.
func NewSensorArray(cfg config.SensorsConfig, rng *rand.Rand) (*SensorArray, error) {
	if rng == nil {
		return nil, fmt.Errorf("sensors: random source is required")
	}
	return &SensorArray{cfg: cfg, rng: rng, failures: make(map[int]int)}, nil
}

// Read produces the snapshot for one step: one reading per pot plus the
// always-accurate environment reading. The plants slice supplies the true
// soil mirrors to sample from.
func (s *SensorArray) Read(plants []model.PlantStatus, weather model.WeatherState, step int) model.SensorSnapshot {
	// recover sensors whose fault window ended
	for potID, until := range s.failures {
		if step >= until {
			delete(s.failures, potID)
		}
	}
	// fresh fault draws for healthy pots
	for potID := range plants {
		if _, down := s.failures[potID]; !down && s.rng.Float64() < s.cfg.FailureProbability {
			s.failures[potID] = step + s.cfg.FaultSteps
		}
	}

	snap := model.SensorSnapshot{Pots: make([]model.SensorReading, len(plants))}
	for potID, plant := range plants {
		switch {
		case s.isFailed(potID):
			snap.Pots[potID] = s.faultyReading(plant, weather, step)
		case s.rng.Float64() < s.cfg.ErrorProbability:
			snap.Pots[potID] = s.errorReading(weather, step)
		default:
			snap.Pots[potID] = model.SensorReading{
				SoilMoisture:  model.Float64Ptr(plant.SoilMoisture),
				NutrientLevel: model.Float64Ptr(plant.NutrientLevel),
				Temperature:   weather.Temperature,
				Timestamp:     step,
			}
		}
	}
	snap.Environment = model.SensorReading{
		Temperature: weather.Temperature,
		Timestamp:   step,
	}

	s.readingCount++
	return snap
}

func (s *SensorArray) isFailed(potID int) bool {
	_, down := s.failures[potID]
	return down
}

// ForceFault puts a pot's sensor into a fault window until the given step.
// Intended for scenario testing and fault-injection runs.
func (s *SensorArray) ForceFault(potID, untilStep int) {
	s.failures[potID] = untilStep
}

// faultyReading picks one of the three fault archetypes for this read.
func (s *SensorArray) faultyReading(plant model.PlantStatus, weather model.WeatherState, step int) model.SensorReading {
	switch s.rng.Intn(3) {
	case 0: // stuck: both channels pinned mid-scale
		return model.SensorReading{
			SoilMoisture:  model.Float64Ptr(stuckValue),
			NutrientLevel: model.Float64Ptr(stuckValue),
			Temperature:   weather.Temperature,
			Timestamp:     step,
		}
	case 1: // drift: true value scaled down by a random factor
		drift := 0.3 + 0.4*s.rng.Float64()
		return model.SensorReading{
			SoilMoisture:  model.Float64Ptr(clamp01(plant.SoilMoisture * drift)),
			NutrientLevel: model.Float64Ptr(clamp01(plant.NutrientLevel * drift)),
			Temperature:   weather.Temperature,
			Timestamp:     step,
		}
	default: // spike: extreme constants on both channels
		return model.SensorReading{
			SoilMoisture:  model.Float64Ptr(s.extreme()),
			NutrientLevel: model.Float64Ptr(s.extreme()),
			Temperature:   weather.Temperature,
			Timestamp:     step,
		}
	}
}

// errorReading is the transient single-step error: half the time extreme
// values, half the time both channels missing.
func (s *SensorArray) errorReading(weather model.WeatherState, step int) model.SensorReading {
	if s.rng.Float64() < 0.5 {
		return model.SensorReading{
			SoilMoisture:  model.Float64Ptr(s.extreme()),
			NutrientLevel: model.Float64Ptr(s.extreme()),
			Temperature:   weather.Temperature,
			Timestamp:     step,
		}
	}
	return model.SensorReading{
		Temperature: weather.Temperature,
		Timestamp:   step,
	}
}

// extreme picks one of the two spike constants.
func (s *SensorArray) extreme() float64 {
	if s.rng.Float64() < 0.5 {
		return 0.95
	}
	return 0.05
}

// Status summarizes the array's diagnostics.
type SensorStatus struct {
	ReadingCount   int   `json:"reading_count"`
	ActiveFailures int   `json:"active_failures"`
	FailedSensors  []int `json:"failed_sensors"`
}

func (s *SensorArray) Status() SensorStatus {
	st := SensorStatus{ReadingCount: s.readingCount, ActiveFailures: len(s.failures)}
	for potID := range s.failures {
		st.FailedSensors = append(st.FailedSensors, potID)
	}
	return st
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
