package model

// ActionKind distinguishes the two actuator operations.
type ActionKind string

const (
	ActionWater     ActionKind = "water"
	ActionFertilize ActionKind = "fertilize"
)

// ActionRequest is what the decision policy asked for, before the device
// layer had a say in it.
type ActionRequest struct {
	PotID     int        `json:"pot_id"`
	Kind      ActionKind `json:"action"`
	Magnitude float64    `json:"magnitude"`
}

// ActionRecord is one entry of the device operation log. Every actuator
// call is recorded, including ones that failed: a failed actuation has
// ActualEffect 0 and Success false.
type ActionRecord struct {
	Step         int        `json:"step"`
	Kind         ActionKind `json:"action"`
	PotID        int        `json:"pot_id"`
	Requested    float64    `json:"requested"`
	ActualEffect float64    `json:"actual_effect"`
	Success      bool       `json:"success"`
}

// ActionSample is one entry of a pot's bounded action history.
type ActionSample struct {
	Step int        `json:"step"`
	Kind ActionKind `json:"action"`
}

// StepResult aggregates everything that happened in one simulation step.
// Once appended to the run history it is never mutated.
type StepResult struct {
	Step        int             `json:"step"`
	Weather     WeatherState    `json:"weather"`
	SoilStates  []SoilState     `json:"soil_states"`
	PlantStates []PlantStatus   `json:"plant_states"`
	Sensors     SensorSnapshot  `json:"sensor_readings"`
	Requested   []ActionRequest `json:"requested_actions"`
	Executed    []ActionRecord  `json:"device_actions"`
	Score       float64         `json:"score"`
}

// DailySummary aggregates one simulated day (8 steps).
type DailySummary struct {
	Day              int     `json:"day"`
	AvgTemperature   float64 `json:"avg_temperature"`
	TotalRainfall    float64 `json:"total_rainfall"`
	AvgPlantHealth   float64 `json:"avg_plant_health"`
	WaterActions     int     `json:"total_water_actions"`
	FertilizeActions int     `json:"total_fertilize_actions"`
}

// Observation is the composed view handed to the decision policy for one
// pot on one step. Histories are most-recent-last and bounded (24 sensor
// samples, 48 action samples).
type Observation struct {
	PotID         int            `json:"pot_id"`
	Step          int            `json:"step"`
	Day           int            `json:"day"`
	TimeOfDay     int            `json:"time_of_day"`
	Sensor        SensorReading  `json:"sensor_data"`
	Environment   SensorReading  `json:"environment"`
	Raining       bool           `json:"rain"`
	Species       Species        `json:"plant_type"`
	Plant         PlantStatus    `json:"plant_status"`
	SensorHistory []SensorSample `json:"sensor_history"`
	ActionHistory []ActionSample `json:"action_history"`
}
