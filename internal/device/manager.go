package device

import (
	"fmt"
	"math/rand"

	"github.com/BosongDing/smartgarden/internal/config"
	"github.com/BosongDing/smartgarden/internal/model"
)

// Manager owns the three devices and the append-only operation log. Every
// actuation call is logged, successful or not.
type Manager struct {
	pump      *Actuator
	dispenser *Actuator
	sensors   *SensorArray

	log []model.ActionRecord
}

// NewManager builds the device layer. The same random source is shared by
// all three devices, in pump, dispenser, sensor construction order.
func NewManager(cfg config.DevicesConfig, rng *rand.Rand) (*Manager, error) {
	pump, err := NewPump(cfg.WaterPump, rng)
	if err != nil {
		return nil, err
	}
	dispenser, err := NewDispenser(cfg.Fertilizer, rng)
	if err != nil {
		return nil, err
	}
	sensors, err := NewSensorArray(cfg.Sensors, rng)
	if err != nil {
		return nil, err
	}
	return &Manager{pump: pump, dispenser: dispenser, sensors: sensors}, nil
}

// ExecuteWatering runs one watering request through the pump and logs it.
func (m *Manager) ExecuteWatering(potID int, duration float64, step int) model.ActionRecord {
	effect := m.pump.Actuate(potID, duration, step)
	rec := model.ActionRecord{
		Step:         step,
		Kind:         model.ActionWater,
		PotID:        potID,
		Requested:    duration,
		ActualEffect: effect,
		Success:      effect > 0,
	}
	m.log = append(m.log, rec)
	return rec
}

// ExecuteFertilizing runs one fertilizing request through the dispenser
// and logs it.
func (m *Manager) ExecuteFertilizing(potID int, amount float64, step int) model.ActionRecord {
	effect := m.dispenser.Actuate(potID, amount, step)
	rec := model.ActionRecord{
		Step:         step,
		Kind:         model.ActionFertilize,
		PotID:        potID,
		Requested:    amount,
		ActualEffect: effect,
		Success:      effect > 0,
	}
	m.log = append(m.log, rec)
	return rec
}

// ReadSensors produces the step's sensor snapshot.
func (m *Manager) ReadSensors(plants []model.PlantStatus, weather model.WeatherState, step int) model.SensorSnapshot {
	return m.sensors.Read(plants, weather, step)
}

// Sensors exposes the sensor array for fault injection in scenario runs.
func (m *Manager) Sensors() *SensorArray { return m.sensors }

// OperationLog returns a copy of the full operation log.
func (m *Manager) OperationLog() []model.ActionRecord {
	out := make([]model.ActionRecord, len(m.log))
	copy(out, m.log)
	return out
}

// SystemStatus aggregates the device diagnostics.
type SystemStatus struct {
	WaterPump            ActuatorStatus `json:"water_pump"`
	Fertilizer           ActuatorStatus `json:"fertilizer"`
	Sensors              SensorStatus   `json:"sensors"`
	TotalOperations      int            `json:"total_operations"`
	SuccessfulOperations int            `json:"successful_operations"`
}

func (m *Manager) SystemStatus() SystemStatus {
	st := SystemStatus{
		WaterPump:       m.pump.Status(),
		Fertilizer:      m.dispenser.Status(),
		Sensors:         m.sensors.Status(),
		TotalOperations: len(m.log),
	}
	for _, rec := range m.log {
		if rec.Success {
			st.SuccessfulOperations++
		}
	}
	return st
}

// String implements fmt.Stringer for debug logging.
func (s SystemStatus) String() string {
	return fmt.Sprintf("ops=%d ok=%d pump_failed=%t dispenser_failed=%t sensor_faults=%d",
		s.TotalOperations, s.SuccessfulOperations,
		s.WaterPump.IsFailed, s.Fertilizer.IsFailed, s.Sensors.ActiveFailures)
}
