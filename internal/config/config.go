// Package config loads and validates the simulation configuration document.
// Every field the engine consumes must be present: a missing or out-of-range
// required field is a startup error, never a runtime fallback.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/BosongDing/smartgarden/internal/model"
)

// Config is the root configuration document.
type Config struct {
	Simulation SimulationConfig              `yaml:"simulation" json:"simulation"`
	Weather    WeatherConfig                 `yaml:"weather" json:"weather"`
	Devices    DevicesConfig                 `yaml:"devices" json:"devices"`
	Soil       SoilConfig                    `yaml:"soil" json:"soil"`
	Plants     map[model.Species]PlantConfig `yaml:"plants" json:"plants"`
	Evaluation EvaluationConfig              `yaml:"evaluation" json:"evaluation"`
}

// SimulationConfig controls the run itself.
type SimulationConfig struct {
	TotalSteps int   `yaml:"total_steps" json:"total_steps"`
	RandomSeed int64 `yaml:"random_seed" json:"random_seed"`

	// PolicyTimeoutMS bounds a single decision-policy call. Zero disables
	// the timeout and the call is made inline.
	PolicyTimeoutMS int `yaml:"policy_timeout_ms" json:"policy_timeout_ms"`
}

// WeatherConfig are the weather distribution parameters.
type WeatherConfig struct {
	TempMean           float64 `yaml:"temp_mean" json:"temp_mean"`
	TempAmplitude      float64 `yaml:"temp_amplitude" json:"temp_amplitude"`
	TempNoiseStd       float64 `yaml:"temp_noise_std" json:"temp_noise_std"`
	SeasonalDrift      float64 `yaml:"seasonal_drift" json:"seasonal_drift"`
	RainProbabilityDay float64 `yaml:"rain_probability_per_day" json:"rain_probability_per_day"`
	RainAmount         float64 `yaml:"rain_amount" json:"rain_amount"`
}

// DevicesConfig groups the three device blocks.
type DevicesConfig struct {
	WaterPump  PumpConfig      `yaml:"water_pump" json:"water_pump"`
	Fertilizer DispenserConfig `yaml:"fertilizer" json:"fertilizer"`
	Sensors    SensorsConfig   `yaml:"sensors" json:"sensors"`
}

// PumpConfig describes the shared water pump. The pump recovers a fixed
// number of steps after a fault; the reference configuration uses 1.
type PumpConfig struct {
	WaterEffect        float64 `yaml:"water_effect" json:"water_effect"`
	FailureProbability float64 `yaml:"failure_probability" json:"failure_probability"`
	RecoverySteps      int     `yaml:"recovery_steps" json:"recovery_steps"`
}

// DispenserConfig describes the shared fertilizer dispenser. Fault recovery
// is drawn uniformly from [RecoveryMinSteps, RecoveryMaxSteps].
type DispenserConfig struct {
	FertilizerEffect   float64 `yaml:"fertilizer_effect" json:"fertilizer_effect"`
	FailureProbability float64 `yaml:"failure_probability" json:"failure_probability"`
	RecoveryMinSteps   int     `yaml:"recovery_min_steps" json:"recovery_min_steps"`
	RecoveryMaxSteps   int     `yaml:"recovery_max_steps" json:"recovery_max_steps"`
}

// SensorsConfig describes the per-pot sensor fault and error model.
type SensorsConfig struct {
	FailureProbability float64 `yaml:"failure_probability" json:"failure_probability"`
	ErrorProbability   float64 `yaml:"sensor_error_probability" json:"sensor_error_probability"`
	FaultSteps         int     `yaml:"fault_steps" json:"fault_steps"`
}

// SoilConfig are the shared soil physics constants.
type SoilConfig struct {
	EvaporationBaseRate     float64 `yaml:"evaporation_base_rate" json:"evaporation_base_rate"`
	NutrientConsumptionRate float64 `yaml:"nutrient_consumption_rate" json:"nutrient_consumption_rate"`
}

// PlantConfig carries the per-species threshold and growth constants.
// FlowerStageDay and FlowerStageSoilThreshold are only consulted for the
// flowering ornamental (nasturtium) and required only there.
type PlantConfig struct {
	SoilThreshold            float64 `yaml:"soil_threshold" json:"soil_threshold"`
	NutrientThreshold        float64 `yaml:"nutrient_threshold" json:"nutrient_threshold"`
	CriticalSoil             float64 `yaml:"critical_soil" json:"critical_soil"`
	CriticalNutrient         float64 `yaml:"critical_nutrient" json:"critical_nutrient"`
	GrowthRateMax            float64 `yaml:"growth_rate_max" json:"growth_rate_max"`
	HarvestDay               int     `yaml:"harvest_day" json:"harvest_day"`
	FlowerStageDay           int     `yaml:"flower_stage_day,omitempty" json:"flower_stage_day,omitempty"`
	FlowerStageSoilThreshold float64 `yaml:"flower_stage_soil_threshold,omitempty" json:"flower_stage_soil_threshold,omitempty"`
}

// EvaluationConfig holds scoring weights and penalty constants. Penalty
// constants are negative: they are added to the base score.
type EvaluationConfig struct {
	Weights   ScoringWeights `yaml:"scoring_weights" json:"scoring_weights"`
	Penalties Penalties      `yaml:"penalties" json:"penalties"`
}

type ScoringWeights struct {
	TotalBiomass float64 `yaml:"total_biomass" json:"total_biomass"`
	PlantHealth  float64 `yaml:"plant_health" json:"plant_health"`
}

type Penalties struct {
	PlantDeath      float64 `yaml:"plant_death" json:"plant_death"`
	Overwatering    float64 `yaml:"overwatering" json:"overwatering"`
	Overfertilizing float64 `yaml:"overfertilizing" json:"overfertilizing"`
}

// Load reads and validates a YAML configuration document.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks that every required field is present and plausible.
func (c *Config) Validate() error {
	if c.Simulation.TotalSteps <= 0 {
		return fmt.Errorf("simulation.total_steps: required, must be > 0")
	}
	if c.Simulation.PolicyTimeoutMS < 0 {
		return fmt.Errorf("simulation.policy_timeout_ms: must be >= 0")
	}

	w := c.Weather
	if w.TempMean <= 0 {
		return fmt.Errorf("weather.temp_mean: required, must be > 0")
	}
	if w.TempAmplitude <= 0 || w.TempNoiseStd < 0 {
		return fmt.Errorf("weather: temp_amplitude and temp_noise_std are required")
	}
	if w.SeasonalDrift < 0 {
		return fmt.Errorf("weather.seasonal_drift: must be >= 0")
	}
	if w.RainProbabilityDay < 0 || w.RainProbabilityDay > 1 {
		return fmt.Errorf("weather.rain_probability_per_day: must be in [0,1]")
	}
	if w.RainAmount <= 0 {
		return fmt.Errorf("weather.rain_amount: required, must be > 0")
	}

	d := c.Devices
	if d.WaterPump.WaterEffect <= 0 {
		return fmt.Errorf("devices.water_pump.water_effect: required, must be > 0")
	}
	if err := probability("devices.water_pump.failure_probability", d.WaterPump.FailureProbability); err != nil {
		return err
	}
	if d.WaterPump.RecoverySteps <= 0 {
		return fmt.Errorf("devices.water_pump.recovery_steps: required, must be > 0")
	}
	if d.Fertilizer.FertilizerEffect <= 0 {
		return fmt.Errorf("devices.fertilizer.fertilizer_effect: required, must be > 0")
	}
	if err := probability("devices.fertilizer.failure_probability", d.Fertilizer.FailureProbability); err != nil {
		return err
	}
	if d.Fertilizer.RecoveryMinSteps <= 0 || d.Fertilizer.RecoveryMaxSteps < d.Fertilizer.RecoveryMinSteps {
		return fmt.Errorf("devices.fertilizer: recovery_min_steps/recovery_max_steps must satisfy 0 < min <= max")
	}
	if err := probability("devices.sensors.failure_probability", d.Sensors.FailureProbability); err != nil {
		return err
	}
	if err := probability("devices.sensors.sensor_error_probability", d.Sensors.ErrorProbability); err != nil {
		return err
	}
	if d.Sensors.FaultSteps <= 0 {
		return fmt.Errorf("devices.sensors.fault_steps: required, must be > 0")
	}

	if c.Soil.EvaporationBaseRate <= 0 {
		return fmt.Errorf("soil.evaporation_base_rate: required, must be > 0")
	}
	if c.Soil.NutrientConsumptionRate <= 0 {
		return fmt.Errorf("soil.nutrient_consumption_rate: required, must be > 0")
	}

	for _, sp := range model.AllSpecies() {
		p, ok := c.Plants[sp]
		if !ok {
			return fmt.Errorf("plants.%s: required species block is missing", sp)
		}
		if err := p.validate(sp); err != nil {
			return err
		}
	}

	e := c.Evaluation
	if e.Weights.TotalBiomass <= 0 || e.Weights.PlantHealth <= 0 {
		return fmt.Errorf("evaluation.scoring_weights: total_biomass and plant_health are required")
	}
	if e.Penalties.PlantDeath >= 0 || e.Penalties.Overwatering >= 0 || e.Penalties.Overfertilizing >= 0 {
		return fmt.Errorf("evaluation.penalties: penalty constants must be negative")
	}
	return nil
}

func (p PlantConfig) validate(sp model.Species) error {
	if p.SoilThreshold <= 0 || p.NutrientThreshold <= 0 {
		return fmt.Errorf("plants.%s: soil_threshold and nutrient_threshold are required", sp)
	}
	if p.CriticalSoil <= 0 || p.CriticalSoil >= p.SoilThreshold {
		return fmt.Errorf("plants.%s.critical_soil: required, must be in (0, soil_threshold)", sp)
	}
	if p.CriticalNutrient <= 0 || p.CriticalNutrient >= p.NutrientThreshold {
		return fmt.Errorf("plants.%s.critical_nutrient: required, must be in (0, nutrient_threshold)", sp)
	}
	if p.GrowthRateMax <= 0 {
		return fmt.Errorf("plants.%s.growth_rate_max: required, must be > 0", sp)
	}
	if p.HarvestDay <= 0 {
		return fmt.Errorf("plants.%s.harvest_day: required, must be > 0", sp)
	}
	if sp == model.SpeciesNasturtium {
		if p.FlowerStageDay <= 0 {
			return fmt.Errorf("plants.%s.flower_stage_day: required, must be > 0", sp)
		}
		if p.FlowerStageSoilThreshold <= 0 {
			return fmt.Errorf("plants.%s.flower_stage_soil_threshold: required, must be > 0", sp)
		}
	}
	return nil
}

func probability(field string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s: must be in [0,1]", field)
	}
	return nil
}
