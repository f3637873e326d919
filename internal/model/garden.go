package model

// Species identifies one of the five supported plant types.
type Species string

const (
	SpeciesLettuce    Species = "lettuce"
	SpeciesSpinach    Species = "spinach"
	SpeciesRadish     Species = "radish"
	SpeciesSwissChard Species = "swiss_chard"
	SpeciesNasturtium Species = "nasturtium"
)

// AllSpecies lists the species in pot order (pot 0..4).
func AllSpecies() []Species {
	return []Species{
		SpeciesLettuce,
		SpeciesSpinach,
		SpeciesRadish,
		SpeciesSwissChard,
		SpeciesNasturtium,
	}
}

// Phenology is the discrete growth stage of a plant.
type Phenology string

const (
	PhenologySeedling    Phenology = "seedling"
	PhenologyVegetative  Phenology = "vegetative"
	PhenologyFlowering   Phenology = "flowering"
	PhenologyHarvestable Phenology = "harvestable"
	PhenologyDormant     Phenology = "dormant"
	PhenologyDead        Phenology = "dead"
)

// NumPots is the number of independent plant pots in the garden.
const NumPots = 5

// StepsPerDay converts simulation steps (3 simulated hours each) to days.
const StepsPerDay = 8

// WeatherState is the weather for a single step. Immutable once produced.
type WeatherState struct {
	Temperature    float64 `json:"temperature"`
	IsRaining      bool    `json:"is_raining"`
	RainfallAmount float64 `json:"rainfall_amount"`
	Step           int     `json:"step"`
}

// SoilState is the authoritative moisture/nutrient balance of one pot.
// Moisture stays within [0, 1.3] and nutrients within [0, 1.5]; the band
// above 1.0/1.2 is an over-saturation regime that damages plant health.
type SoilState struct {
	Moisture  float64 `json:"moisture"`
	Nutrients float64 `json:"nutrients"`
	PotID     int     `json:"pot_id"`
}

// PlantStatus is an immutable snapshot of one plant after an update.
type PlantStatus struct {
	SoilMoisture  float64   `json:"soil_moisture"`
	NutrientLevel float64   `json:"nutrient_level"`
	Health        float64   `json:"health"`
	Biomass       float64   `json:"biomass"`
	Phenology     Phenology `json:"phenology"`
	DaysAlive     int       `json:"days_alive"`
	StressLevel   float64   `json:"stress_level"`
}

// Alive reports whether the snapshot describes a living plant.
func (p PlantStatus) Alive() bool {
	return p.Phenology != PhenologyDead && p.Health > 0
}
