package config

import "github.com/BosongDing/smartgarden/internal/model"

// Default returns the reference configuration: a 30-day run (240 steps of
// 3 simulated hours) over a temperate July climate, with the documented
// device effect and fault constants.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TotalSteps:      240,
			RandomSeed:      42,
			PolicyTimeoutMS: 0,
		},
		Weather: WeatherConfig{
			TempMean:           22.0,
			TempAmplitude:      6.0,
			TempNoiseStd:       1.5,
			SeasonalDrift:      0.5,
			RainProbabilityDay: 0.3,
			RainAmount:         8.0,
		},
		Devices: DevicesConfig{
			WaterPump: PumpConfig{
				WaterEffect:        0.25,
				FailureProbability: 0.05,
				RecoverySteps:      1,
			},
			Fertilizer: DispenserConfig{
				FertilizerEffect:   0.30,
				FailureProbability: 0.05,
				RecoveryMinSteps:   3,
				RecoveryMaxSteps:   8,
			},
			Sensors: SensorsConfig{
				FailureProbability: 0.10,
				ErrorProbability:   0.05,
				FaultSteps:         1,
			},
		},
		Soil: SoilConfig{
			EvaporationBaseRate:     0.02,
			NutrientConsumptionRate: 0.008,
		},
		Plants: map[model.Species]PlantConfig{
			model.SpeciesLettuce: {
				SoilThreshold:     0.40,
				NutrientThreshold: 0.30,
				CriticalSoil:      0.20,
				CriticalNutrient:  0.15,
				GrowthRateMax:     0.05,
				HarvestDay:        25,
			},
			model.SpeciesSpinach: {
				SoilThreshold:     0.38,
				NutrientThreshold: 0.32,
				CriticalSoil:      0.18,
				CriticalNutrient:  0.16,
				GrowthRateMax:     0.055,
				HarvestDay:        22,
			},
			model.SpeciesRadish: {
				SoilThreshold:     0.30,
				NutrientThreshold: 0.28,
				CriticalSoil:      0.15,
				CriticalNutrient:  0.14,
				GrowthRateMax:     0.06,
				HarvestDay:        20,
			},
			model.SpeciesSwissChard: {
				SoilThreshold:     0.35,
				NutrientThreshold: 0.30,
				CriticalSoil:      0.18,
				CriticalNutrient:  0.15,
				GrowthRateMax:     0.05,
				HarvestDay:        28,
			},
			model.SpeciesNasturtium: {
				SoilThreshold:            0.30,
				NutrientThreshold:        0.25,
				CriticalSoil:             0.15,
				CriticalNutrient:         0.12,
				GrowthRateMax:            0.045,
				HarvestDay:               28,
				FlowerStageDay:           24,
				FlowerStageSoilThreshold: 0.45,
			},
		},
		Evaluation: EvaluationConfig{
			Weights: ScoringWeights{
				TotalBiomass: 0.5,
				PlantHealth:  0.5,
			},
			Penalties: Penalties{
				PlantDeath:      -50,
				Overwatering:    -2,
				Overfertilizing: -2,
			},
		},
	}
}
