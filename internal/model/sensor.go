package model

// SensorReading is one pot reading produced by the sensor array. Moisture
// and nutrient channels are optional: a nil pointer is a missing value, not
// a zero. A reading may be normal, faulty (stuck/drift/spike) or erroneous
// (extreme/missing); nothing in the record guarantees it reflects true
// soil state.
type SensorReading struct {
	SoilMoisture  *float64 `json:"soil_moisture,omitempty"`
	NutrientLevel *float64 `json:"nutrient_level,omitempty"`
	Temperature   float64  `json:"temperature"`
	Timestamp     int      `json:"timestamp"`
}

// SensorSnapshot bundles the per-pot readings with the environment-level
// reading (temperature only, always accurate) for one step.
type SensorSnapshot struct {
	Pots        []SensorReading `json:"pots"`
	Environment SensorReading   `json:"environment"`
}

// SensorSample is one entry of a pot's bounded sensor history.
type SensorSample struct {
	Step          int      `json:"step"`
	SoilMoisture  *float64 `json:"soil_moisture,omitempty"`
	NutrientLevel *float64 `json:"nutrient_level,omitempty"`
	Temperature   float64  `json:"temperature"`
}

// Float64Ptr returns a pointer to v. Convenience for optional channels.
func Float64Ptr(v float64) *float64 { return &v }
