// Package plant models the physiology of a single potted plant: health,
// biomass, stress and growth stage, driven each step by the soil state
// mirrored from its pot.
package plant

import (
	"math"

	"github.com/BosongDing/smartgarden/internal/config"
	"github.com/BosongDing/smartgarden/internal/model"
)

// Plant holds the mutable physiological state of one pot's occupant.
// All updates go through Update; once dead a plant never changes again.
type Plant struct {
	species model.Species
	cfg     config.PlantConfig
	rules   speciesRules

	soilThreshold float64 // may be raised permanently by phenology

	soilMoisture  float64
	nutrientLevel float64
	health        float64
	biomass       float64
	phenology     model.Phenology
	daysAlive     int
	stressLevel   float64
}

// New builds a plant of the given species with full health and seed biomass.
func New(species model.Species, cfg config.PlantConfig) (*Plant, error) {
	rules, err := rulesFor(species)
	if err != nil {
		return nil, err
	}
	return &Plant{
		species:       species,
		cfg:           cfg,
		rules:         rules,
		soilThreshold: cfg.SoilThreshold,
		soilMoisture:  0.5,
		nutrientLevel: 0.5,
		health:        100,
		biomass:       0.1,
		phenology:     model.PhenologySeedling,
	}, nil
}

// Species reports the plant's species tag.
func (p *Plant) Species() model.Species { return p.species }

// Alive reports whether the plant still participates in the simulation.
func (p *Plant) Alive() bool {
	return p.phenology != model.PhenologyDead && p.health > 0
}

// SoilThreshold is the current preferred moisture floor, after any
// stage-driven adjustment.
func (p *Plant) SoilThreshold() float64 { return p.soilThreshold }

// DamageHealth applies an immediate health loss (for example the
// orchestrator's over-saturation damage) before the regular update.
// Positive delta means damage. No effect on a dead plant.
func (p *Plant) DamageHealth(delta float64) {
	if !p.Alive() {
		return
	}
	p.health = clampHealth(p.health - delta)
	if p.health <= 0 {
		p.die()
	}
}

// Update advances the plant by one simulation step given the current
// soil state of its pot. The soil mirrors always track the authoritative
// soil state, even after death; everything else is absorbing once dead.
func (p *Plant) Update(soil model.SoilState, step int) {
	p.soilMoisture = soil.Moisture
	p.nutrientLevel = soil.Nutrients
	if !p.Alive() {
		return
	}

	p.daysAlive = step / model.StepsPerDay

	p.rules.phenology(p)

	p.health = clampHealth(p.health + p.rules.health(p))
	if p.health <= 0 {
		p.die()
		return
	}

	p.grow()
	p.updateStress()
}

func (p *Plant) die() {
	p.health = 0
	p.phenology = model.PhenologyDead
	p.stressLevel = 1.0
}

// grow accrues biomass scaled by stage, soil condition and health.
// Severely weakened plants do not grow at all.
func (p *Plant) grow() {
	if p.health <= 20 {
		return
	}

	var stage float64
	switch p.phenology {
	case model.PhenologySeedling:
		stage = 0.6
	case model.PhenologyHarvestable:
		stage = 0.3
	case model.PhenologyDormant, model.PhenologyDead:
		stage = 0.0
	default:
		stage = 1.0
	}

	condition := 1.0
	if p.soilMoisture < p.cfg.CriticalSoil || p.nutrientLevel < p.cfg.CriticalNutrient {
		condition = 0.1
	} else if p.soilMoisture < p.soilThreshold || p.nutrientLevel < p.cfg.NutrientThreshold {
		condition = 0.5
	}

	p.biomass += p.cfg.GrowthRateMax * stage * condition * p.health / 100.0
}

// updateStress averages the per-resource stress tiers: none when the
// level sits above its threshold, moderate below the threshold, severe
// below the critical floor.
func (p *Plant) updateStress() {
	p.stressLevel = (resourceStress(p.soilMoisture, p.soilThreshold, p.cfg.CriticalSoil) +
		resourceStress(p.nutrientLevel, p.cfg.NutrientThreshold, p.cfg.CriticalNutrient)) / 2.0
}

func resourceStress(level, threshold, critical float64) float64 {
	switch {
	case level < critical:
		return 0.9
	case level < threshold:
		return 0.4
	default:
		return 0.0
	}
}

// HarvestYield returns the yield obtainable right now: biomass weighted
// by health, discounted for undersized plants. Zero unless the plant is
// in its harvestable stage.
func (p *Plant) HarvestYield() float64 {
	if p.phenology != model.PhenologyHarvestable {
		return 0
	}
	return p.biomass * (p.health / 100.0) * math.Min(1.0, p.biomass/5.0)
}

// Status snapshots the plant for reporting and policy observation.
func (p *Plant) Status() model.PlantStatus {
	return model.PlantStatus{
		SoilMoisture:  p.soilMoisture,
		NutrientLevel: p.nutrientLevel,
		Health:        p.health,
		Biomass:       p.biomass,
		Phenology:     p.phenology,
		DaysAlive:     p.daysAlive,
		StressLevel:   p.stressLevel,
	}
}

func clampHealth(h float64) float64 {
	if h < 0 {
		return 0
	}
	if h > 100 {
		return 100
	}
	return h
}
