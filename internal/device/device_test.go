package device

import (
	"math/rand"
	"testing"

	"github.com/BosongDing/smartgarden/internal/config"
	"github.com/BosongDing/smartgarden/internal/model"
)

func defaultDevices() config.DevicesConfig {
	return config.Default().Devices
}

func TestPumpNeverFailsAtZeroProbability(t *testing.T) {
	cfg := defaultDevices().WaterPump
	cfg.FailureProbability = 0
	pump, err := NewPump(cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("new pump: %v", err)
	}
	for step := 0; step < 240; step++ {
		effect := pump.Actuate(step%5, 0.5, step)
		if effect != cfg.WaterEffect {
			t.Fatalf("step %d: effect %v, want constant %v", step, effect, cfg.WaterEffect)
		}
	}
}

func TestActuatorFaultWindow(t *testing.T) {
	cfg := defaultDevices().Fertilizer
	cfg.FailureProbability = 1 // fail on first draw
	rng := rand.New(rand.NewSource(5))
	d, err := NewDispenser(cfg, rng)
	if err != nil {
		t.Fatalf("new dispenser: %v", err)
	}

	if effect := d.Actuate(0, 1.0, 10); effect != 0 {
		t.Fatalf("faulted call returned effect %v, want 0", effect)
	}
	if !d.Failed() {
		t.Fatal("dispenser should be failed")
	}
	until := d.failedUntil
	if until < 13 || until > 18 {
		t.Fatalf("recovery step %d outside step+[3,8]", until)
	}

	// every call before the recovery step stays failed
	for step := 11; step < until; step++ {
		if effect := d.Actuate(0, 1.0, step); effect != 0 {
			t.Fatalf("step %d inside fault window returned %v", step, effect)
		}
	}
	// at the recovery step the unit recovers, but probability 1 re-faults it
	// immediately; with probability 0 it must succeed.
	d.failureProbability = 0
	if effect := d.Actuate(0, 1.0, until); effect != cfg.FertilizerEffect {
		t.Fatalf("post-recovery call returned %v, want %v", effect, cfg.FertilizerEffect)
	}
}

func TestPumpRecoveryIsOneStep(t *testing.T) {
	cfg := defaultDevices().WaterPump
	cfg.FailureProbability = 1
	pump, _ := NewPump(cfg, rand.New(rand.NewSource(2)))

	if effect := pump.Actuate(0, 0.5, 7); effect != 0 {
		t.Fatalf("expected fault on first call, got effect %v", effect)
	}
	if pump.failedUntil != 8 {
		t.Fatalf("pump recovery step = %d, want 8", pump.failedUntil)
	}
}

func TestManagerLogsEveryCall(t *testing.T) {
	cfg := defaultDevices()
	cfg.WaterPump.FailureProbability = 1 // all watering fails
	cfg.Fertilizer.FailureProbability = 0
	m, err := NewManager(cfg, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	w := m.ExecuteWatering(2, 0.5, 0)
	if w.Success || w.ActualEffect != 0 {
		t.Fatalf("failed watering logged as %+v", w)
	}
	f := m.ExecuteFertilizing(3, 1.0, 0)
	if !f.Success || f.ActualEffect != cfg.Fertilizer.FertilizerEffect {
		t.Fatalf("fertilizing logged as %+v", f)
	}

	log := m.OperationLog()
	if len(log) != 2 {
		t.Fatalf("log length = %d, want 2", len(log))
	}
	st := m.SystemStatus()
	if st.TotalOperations != 2 || st.SuccessfulOperations != 1 {
		t.Fatalf("status %+v, want 2 ops / 1 ok", st)
	}
}

func plantsAt(moisture, nutrients float64) []model.PlantStatus {
	plants := make([]model.PlantStatus, model.NumPots)
	for i := range plants {
		plants[i] = model.PlantStatus{SoilMoisture: moisture, NutrientLevel: nutrients, Health: 100}
	}
	return plants
}

func TestSensorsReadTrueValuesWithoutFaults(t *testing.T) {
	cfg := defaultDevices().Sensors
	cfg.FailureProbability = 0
	cfg.ErrorProbability = 0
	arr, err := NewSensorArray(cfg, rand.New(rand.NewSource(4)))
	if err != nil {
		t.Fatalf("new sensor array: %v", err)
	}

	weather := model.WeatherState{Temperature: 21.5, Step: 3}
	snap := arr.Read(plantsAt(0.42, 0.31), weather, 3)
	if len(snap.Pots) != model.NumPots {
		t.Fatalf("got %d pot readings, want %d", len(snap.Pots), model.NumPots)
	}
	for potID, r := range snap.Pots {
		if r.SoilMoisture == nil || *r.SoilMoisture != 0.42 {
			t.Fatalf("pot %d moisture = %v, want true 0.42", potID, r.SoilMoisture)
		}
		if r.NutrientLevel == nil || *r.NutrientLevel != 0.31 {
			t.Fatalf("pot %d nutrients = %v, want true 0.31", potID, r.NutrientLevel)
		}
		if r.Timestamp != 3 {
			t.Fatalf("pot %d timestamp = %d, want 3", potID, r.Timestamp)
		}
	}
	if snap.Environment.Temperature != 21.5 {
		t.Fatalf("environment temperature = %v", snap.Environment.Temperature)
	}
	if snap.Environment.SoilMoisture != nil {
		t.Fatal("environment reading must not carry soil channels")
	}
}

func TestStuckFaultPinsReadings(t *testing.T) {
	cfg := defaultDevices().Sensors
	cfg.FailureProbability = 0
	cfg.ErrorProbability = 0
	arr, _ := NewSensorArray(cfg, rand.New(rand.NewSource(6)))

	arr.ForceFault(2, 1000)
	weather := model.WeatherState{Temperature: 20}
	sawStuck := false
	for step := 0; step < 50; step++ {
		snap := arr.Read(plantsAt(0.9, 0.9), weather, step)
		r := snap.Pots[2]
		if r.SoilMoisture == nil || r.NutrientLevel == nil {
			t.Fatalf("step %d: faulted pot emitted missing values", step)
		}
		// all three archetypes derive from fault synthesis, never the truth
		if *r.SoilMoisture == 0.9 && *r.NutrientLevel == 0.9 {
			t.Fatalf("step %d: faulted pot reported true values", step)
		}
		if *r.SoilMoisture == 0.5 && *r.NutrientLevel == 0.5 {
			sawStuck = true
		}
		// other pots stay healthy
		if other := snap.Pots[0]; other.SoilMoisture == nil || *other.SoilMoisture != 0.9 {
			t.Fatalf("step %d: healthy pot corrupted: %+v", step, other)
		}
	}
	if !sawStuck {
		t.Fatal("never observed the stuck archetype in 50 reads")
	}
}

func TestSensorFaultRecovers(t *testing.T) {
	cfg := defaultDevices().Sensors
	cfg.FailureProbability = 0
	cfg.ErrorProbability = 0
	arr, _ := NewSensorArray(cfg, rand.New(rand.NewSource(8)))

	arr.ForceFault(1, 5)
	weather := model.WeatherState{Temperature: 20}
	snap := arr.Read(plantsAt(0.33, 0.44), weather, 5)
	r := snap.Pots[1]
	if r.SoilMoisture == nil || *r.SoilMoisture != 0.33 {
		t.Fatalf("recovered sensor still faulty at recovery step: %+v", r)
	}
}

func TestTransientErrorReading(t *testing.T) {
	cfg := defaultDevices().Sensors
	cfg.FailureProbability = 0
	cfg.ErrorProbability = 1 // every healthy pot errors
	arr, _ := NewSensorArray(cfg, rand.New(rand.NewSource(11)))

	weather := model.WeatherState{Temperature: 20}
	sawMissing, sawExtreme := false, false
	for step := 0; step < 40; step++ {
		snap := arr.Read(plantsAt(0.5, 0.5), weather, step)
		for _, r := range snap.Pots {
			switch {
			case r.SoilMoisture == nil && r.NutrientLevel == nil:
				sawMissing = true
			case r.SoilMoisture != nil && (*r.SoilMoisture == 0.95 || *r.SoilMoisture == 0.05):
				sawExtreme = true
			default:
				t.Fatalf("step %d: error reading is neither missing nor extreme: %+v", step, r)
			}
		}
	}
	if !sawMissing || !sawExtreme {
		t.Fatalf("error variants not both observed: missing=%t extreme=%t", sawMissing, sawExtreme)
	}
}
