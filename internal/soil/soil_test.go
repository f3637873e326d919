package soil

import (
	"testing"

	"github.com/BosongDing/smartgarden/internal/config"
	"github.com/BosongDing/smartgarden/internal/model"
)

func healthyPlants() []model.PlantStatus {
	plants := make([]model.PlantStatus, model.NumPots)
	for i := range plants {
		plants[i] = model.PlantStatus{
			Health:    100,
			Biomass:   5,
			Phenology: model.PhenologyVegetative,
		}
	}
	return plants
}

func TestInitialState(t *testing.T) {
	m := NewManager(config.Default().Soil, model.NumPots)
	for i, s := range m.States() {
		if s.Moisture != 0.5 || s.Nutrients != 0.5 || s.PotID != i {
			t.Fatalf("pot %d initial state %+v", i, s)
		}
	}
}

func TestClampInvariantHolds(t *testing.T) {
	m := NewManager(config.Default().Soil, model.NumPots)
	rain := model.WeatherState{Temperature: 38, IsRaining: true, RainfallAmount: 8}

	// flood every pot with successful waterings and fertilizations
	var executed []model.ActionRecord
	for pot := 0; pot < model.NumPots; pot++ {
		for i := 0; i < 20; i++ {
			executed = append(executed,
				model.ActionRecord{Kind: model.ActionWater, PotID: pot, ActualEffect: 0.25, Success: true},
				model.ActionRecord{Kind: model.ActionFertilize, PotID: pot, ActualEffect: 0.3, Success: true},
			)
		}
	}
	for step := 0; step < 40; step++ {
		m.Update(rain, executed, healthyPlants())
		for _, s := range m.States() {
			if s.Moisture < 0 || s.Moisture > 1.3 {
				t.Fatalf("step %d pot %d moisture %v outside [0,1.3]", step, s.PotID, s.Moisture)
			}
			if s.Nutrients < 0 || s.Nutrients > 1.5 {
				t.Fatalf("step %d pot %d nutrients %v outside [0,1.5]", step, s.PotID, s.Nutrients)
			}
		}
	}

	// now starve them dry
	hot := model.WeatherState{Temperature: 40}
	for step := 0; step < 400; step++ {
		m.Update(hot, nil, healthyPlants())
	}
	for _, s := range m.States() {
		if s.Moisture != 0 {
			t.Fatalf("pot %d moisture %v, want 0 after prolonged drought", s.PotID, s.Moisture)
		}
	}
}

func TestFailedActuationContributesNothing(t *testing.T) {
	m := NewManager(config.Default().Soil, 1)
	executed := []model.ActionRecord{
		{Kind: model.ActionWater, PotID: 0, ActualEffect: 0, Success: false},
		{Kind: model.ActionWater, PotID: 3, ActualEffect: 0.25, Success: true}, // other pot
	}
	before := m.State(0).Moisture
	m.Update(model.WeatherState{Temperature: 20}, executed, nil)
	after := m.State(0).Moisture
	if after >= before {
		t.Fatalf("moisture rose from %v to %v without a successful action for this pot", before, after)
	}
}

func TestRainAddsMoistureAndLeachesNutrients(t *testing.T) {
	dry := NewManager(config.Default().Soil, 1)
	wet := NewManager(config.Default().Soil, 1)

	dry.Update(model.WeatherState{Temperature: 20}, nil, nil)
	wet.Update(model.WeatherState{Temperature: 20, IsRaining: true, RainfallAmount: 8}, nil, nil)

	if wet.State(0).Moisture <= dry.State(0).Moisture {
		t.Fatalf("rain did not add moisture: wet %v dry %v", wet.State(0).Moisture, dry.State(0).Moisture)
	}
	if wet.State(0).Nutrients >= dry.State(0).Nutrients {
		t.Fatalf("rain did not leach nutrients: wet %v dry %v", wet.State(0).Nutrients, dry.State(0).Nutrients)
	}
}

func TestDeadPlantConsumesNothing(t *testing.T) {
	alive := NewManager(config.Default().Soil, 1)
	dead := NewManager(config.Default().Soil, 1)

	livePlant := []model.PlantStatus{{Health: 100, Biomass: 5, Phenology: model.PhenologyVegetative}}
	deadPlant := []model.PlantStatus{{Health: 0, Biomass: 5, Phenology: model.PhenologyDead}}
	w := model.WeatherState{Temperature: 20}

	alive.Update(w, nil, livePlant)
	dead.Update(w, nil, deadPlant)

	if dead.State(0).Moisture <= alive.State(0).Moisture {
		t.Fatal("dead plant should not transpire")
	}
	if dead.State(0).Nutrients <= alive.State(0).Nutrients {
		t.Fatal("dead plant should not take up nutrients")
	}
}

func TestHeatIncreasesEvaporation(t *testing.T) {
	cool := NewManager(config.Default().Soil, 1)
	hot := NewManager(config.Default().Soil, 1)

	cool.Update(model.WeatherState{Temperature: 20}, nil, nil)
	hot.Update(model.WeatherState{Temperature: 35}, nil, nil)

	if hot.State(0).Moisture >= cool.State(0).Moisture {
		t.Fatalf("hot pot retained more moisture (%v) than cool pot (%v)",
			hot.State(0).Moisture, cool.State(0).Moisture)
	}
}
