// Package soil maintains the authoritative per-pot moisture and nutrient
// balances from weather, executed device actions, and plant consumption.
package soil

import (
	"math"

	"github.com/BosongDing/smartgarden/internal/config"
	"github.com/BosongDing/smartgarden/internal/model"
)

const (
	// Clamp bounds. The band above 1.0 moisture / 1.2 nutrients is the
	// over-saturation regime that damages plants.
	maxMoisture  = 1.3
	maxNutrients = 1.5

	rainfallMoisture = 0.15
	rainLeaching     = 0.05

	initialMoisture  = 0.5
	initialNutrients = 0.5
)

// Manager owns the soil state of all pots.
type Manager struct {
	cfg    config.SoilConfig
	states []model.SoilState
}

// NewManager initializes all pots at the mid-scale moisture and nutrient
// levels.
func NewManager(cfg config.SoilConfig, pots int) *Manager {
	states := make([]model.SoilState, pots)
	for i := range states {
		states[i] = model.SoilState{
			Moisture:  initialMoisture,
			Nutrients: initialNutrients,
			PotID:     i,
		}
	}
	return &Manager{cfg: cfg, states: states}
}

// Update advances every pot one step. Device effects are attributed to a
// pot only when the logged action targets it and actually succeeded; the
// plants slice supplies transpiration and uptake terms (dead plants
// consume nothing).
func (m *Manager) Update(weather model.WeatherState, executed []model.ActionRecord, plants []model.PlantStatus) {
	for i := range m.states {
		var plant *model.PlantStatus
		if i < len(plants) {
			plant = &plants[i]
		}
		m.updateMoisture(&m.states[i], weather, executed, plant)
		m.updateNutrients(&m.states[i], weather, executed, plant)
	}
}

func (m *Manager) updateMoisture(s *model.SoilState, weather model.WeatherState, executed []model.ActionRecord, plant *model.PlantStatus) {
	// evaporation scales with heat above 25°C
	tempFactor := 1.0 + math.Max(0, (weather.Temperature-25)*0.02)
	consumption := m.cfg.EvaporationBaseRate * tempFactor

	if plant != nil && plant.Alive() {
		consumption += 0.01 * (plant.Biomass / 5.0) * (plant.Health / 100.0)
	}

	input := 0.0
	if weather.IsRaining {
		input += rainfallMoisture
	}
	for _, rec := range executed {
		if rec.Kind == model.ActionWater && rec.PotID == s.PotID && rec.ActualEffect > 0 {
			input += rec.ActualEffect
		}
	}

	s.Moisture = clamp(s.Moisture+input-consumption, 0, maxMoisture)
}

func (m *Manager) updateNutrients(s *model.SoilState, weather model.WeatherState, executed []model.ActionRecord, plant *model.PlantStatus) {
	uptake := 0.0
	if plant != nil && plant.Alive() {
		uptake = m.cfg.NutrientConsumptionRate * (plant.Health / 100.0)
	}

	loss := uptake
	if weather.IsRaining {
		loss += rainLeaching
	}

	input := 0.0
	for _, rec := range executed {
		if rec.Kind == model.ActionFertilize && rec.PotID == s.PotID && rec.ActualEffect > 0 {
			input += rec.ActualEffect
		}
	}

	s.Nutrients = clamp(s.Nutrients+input-loss, 0, maxNutrients)
}

// State returns the soil state of one pot.
func (m *Manager) State(potID int) model.SoilState {
	return m.states[potID]
}

// States returns a copy of all pot states.
func (m *Manager) States() []model.SoilState {
	out := make([]model.SoilState, len(m.states))
	copy(out, m.states)
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
