package policy

import (
	"testing"

	"github.com/BosongDing/smartgarden/internal/config"
	"github.com/BosongDing/smartgarden/internal/model"
)

func obs(species model.Species, moisture, nutrients float64) model.Observation {
	return model.Observation{
		Species: species,
		Sensor: model.SensorReading{
			SoilMoisture:  model.Float64Ptr(moisture),
			NutrientLevel: model.Float64Ptr(nutrients),
		},
		Plant: model.PlantStatus{Health: 80, Phenology: model.PhenologyVegetative},
	}
}

func TestNoopNeverActs(t *testing.T) {
	p := Noop{}
	if water, _ := p.ShouldWater(obs(model.SpeciesLettuce, 0.0, 0.0)); water {
		t.Fatal("noop watered")
	}
	if fert, _ := p.ShouldFertilize(obs(model.SpeciesLettuce, 0.0, 0.0)); fert {
		t.Fatal("noop fertilized")
	}
}

func TestSimpleThresholds(t *testing.T) {
	p := Simple{WaterBelow: 0.35, FertilizeBelow: 0.30}
	if water, _ := p.ShouldWater(obs(model.SpeciesLettuce, 0.30, 0.5)); !water {
		t.Fatal("expected watering below 0.35")
	}
	if water, _ := p.ShouldWater(obs(model.SpeciesLettuce, 0.40, 0.5)); water {
		t.Fatal("unexpected watering above 0.35")
	}
	if fert, _ := p.ShouldFertilize(obs(model.SpeciesLettuce, 0.5, 0.25)); !fert {
		t.Fatal("expected fertilizing below 0.30")
	}
}

func TestSimpleSkipsMissingValues(t *testing.T) {
	p := Simple{WaterBelow: 0.35, FertilizeBelow: 0.30}
	o := obs(model.SpeciesLettuce, 0, 0)
	o.Sensor.SoilMoisture = nil
	o.Sensor.NutrientLevel = nil
	if water, err := p.ShouldWater(o); err != nil || water {
		t.Fatalf("missing moisture: water=%v err=%v, want false nil", water, err)
	}
	if fert, err := p.ShouldFertilize(o); err != nil || fert {
		t.Fatalf("missing nutrients: fert=%v err=%v, want false nil", fert, err)
	}
}

func TestThresholdUsesSpeciesConfig(t *testing.T) {
	cfg := config.Default()
	p := NewThreshold(cfg)

	// lettuce threshold 0.40, radish 0.30
	if water, _ := p.ShouldWater(obs(model.SpeciesLettuce, 0.35, 0.5)); !water {
		t.Fatal("lettuce at 0.35 should be watered")
	}
	if water, _ := p.ShouldWater(obs(model.SpeciesRadish, 0.35, 0.5)); water {
		t.Fatal("radish at 0.35 should not be watered")
	}
}

func TestThresholdSkipsDeadPlants(t *testing.T) {
	p := NewThreshold(config.Default())
	o := obs(model.SpeciesLettuce, 0.05, 0.05)
	o.Plant.Phenology = model.PhenologyDead
	o.Plant.Health = 0
	if water, _ := p.ShouldWater(o); water {
		t.Fatal("watered a dead plant")
	}
	if fert, _ := p.ShouldFertilize(o); fert {
		t.Fatal("fertilized a dead plant")
	}
}

func TestThresholdNasturtiumFlowerStage(t *testing.T) {
	cfg := config.Default()
	p := NewThreshold(cfg)

	// between the base and flower-stage thresholds
	o := obs(model.SpeciesNasturtium, 0.40, 0.5)
	o.Plant.DaysAlive = 5
	if water, _ := p.ShouldWater(o); water {
		t.Fatal("young nasturtium at 0.40 should not be watered")
	}
	o.Plant.DaysAlive = cfg.Plants[model.SpeciesNasturtium].FlowerStageDay
	if water, _ := p.ShouldWater(o); !water {
		t.Fatal("flowering nasturtium at 0.40 should be watered")
	}
}

func TestThresholdDistrustsRainJumps(t *testing.T) {
	p := NewThreshold(config.Default())
	o := obs(model.SpeciesLettuce, 0.10, 0.5)
	o.Raining = true
	o.SensorHistory = []model.SensorSample{
		{Step: 3, SoilMoisture: model.Float64Ptr(0.55)},
	}
	if water, _ := p.ShouldWater(o); water {
		t.Fatal("acted on an implausible rain-step reading")
	}

	o.SensorHistory[0].SoilMoisture = model.Float64Ptr(0.12)
	if water, _ := p.ShouldWater(o); !water {
		t.Fatal("rejected a plausible rain-step reading")
	}
}

func TestThresholdDistrustsNutrientRainJumps(t *testing.T) {
	p := NewThreshold(config.Default())
	o := obs(model.SpeciesLettuce, 0.6, 0.10)
	o.Raining = true
	o.SensorHistory = []model.SensorSample{
		{Step: 3, NutrientLevel: model.Float64Ptr(0.45)},
	}
	if fert, _ := p.ShouldFertilize(o); fert {
		t.Fatal("acted on an implausible rain-step nutrient reading")
	}

	o.SensorHistory[0].NutrientLevel = model.Float64Ptr(0.12)
	if fert, _ := p.ShouldFertilize(o); !fert {
		t.Fatal("rejected a plausible rain-step nutrient reading")
	}
}

func TestThresholdUnknownSpecies(t *testing.T) {
	p := NewThreshold(config.Default())
	if _, err := p.ShouldWater(obs(model.Species("kudzu"), 0.1, 0.1)); err == nil {
		t.Fatal("expected error for unconfigured species")
	}
}

func TestByName(t *testing.T) {
	cfg := config.Default()
	for _, name := range Names() {
		if _, err := ByName(name, cfg); err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
	}
	if _, err := ByName("nope", cfg); err == nil {
		t.Fatal("expected error for unknown policy name")
	}
}
