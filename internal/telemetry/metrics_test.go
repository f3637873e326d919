package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/BosongDing/smartgarden/internal/model"
)

func TestMetricsObserveStep(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	res := model.StepResult{
		Step:    7,
		Weather: model.WeatherState{Temperature: 21.5, IsRaining: true, Step: 7},
		Score:   64.2,
		PlantStates: []model.PlantStatus{
			{Health: 90, Phenology: model.PhenologyVegetative},
			{Health: 0, Phenology: model.PhenologyDead},
		},
		SoilStates: []model.SoilState{
			{PotID: 0, Moisture: 0.5, Nutrients: 0.4},
			{PotID: 1, Moisture: 0.2, Nutrients: 0.1},
		},
		Requested: []model.ActionRequest{
			{PotID: 0, Kind: model.ActionWater},
			{PotID: 1, Kind: model.ActionFertilize},
		},
	}
	m.ObserveStep(res)
	m.ObserveStep(res)

	if got := testutil.ToFloat64(m.step); got != 7 {
		t.Fatalf("garden_step = %v, want 7", got)
	}
	if got := testutil.ToFloat64(m.plantsAlive); got != 1 {
		t.Fatalf("garden_plants_alive = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.avgHealth); got != 90 {
		t.Fatalf("garden_avg_health = %v, want 90", got)
	}
	if got := testutil.ToFloat64(m.waterActions); got != 2 {
		t.Fatalf("garden_water_actions_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.rainSteps); got != 2 {
		t.Fatalf("garden_rain_steps_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.potMoisture.WithLabelValues("1")); got != 0.2 {
		t.Fatalf("garden_pot_soil_moisture{pot=1} = %v, want 0.2", got)
	}
}
