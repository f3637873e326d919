package plant

import (
	"fmt"

	"github.com/BosongDing/smartgarden/internal/model"
)

// healthRule computes the step's additive health delta from the plant's
// soil mirrors and thresholds. The caller clamps the result into [0,100].
type healthRule func(p *Plant) float64

// phenologyRule maps the plant's age to a growth stage. It is never
// consulted for a dead plant.
type phenologyRule func(p *Plant)

// speciesRules is one row of the species behavior table: shared base
// behavior with per-species overrides, replacing the reference subclass
// hierarchy.
type speciesRules struct {
	health    healthRule
	phenology phenologyRule
}

func rulesFor(sp model.Species) (speciesRules, error) {
	switch sp {
	case model.SpeciesLettuce, model.SpeciesSpinach:
		return speciesRules{health: baseHealthDelta, phenology: basePhenology}, nil
	case model.SpeciesRadish:
		// drought tolerant: reduced moisture penalties
		return speciesRules{health: radishHealthDelta, phenology: basePhenology}, nil
	case model.SpeciesSwissChard:
		// long-season leafy green: harvestable indefinitely
		return speciesRules{health: baseHealthDelta, phenology: swissChardPhenology}, nil
	case model.SpeciesNasturtium:
		// flowering ornamental: flowering-oriented stages with a raised
		// moisture threshold once harvestable
		return speciesRules{health: baseHealthDelta, phenology: nasturtiumPhenology}, nil
	default:
		return speciesRules{}, fmt.Errorf("plant: unknown species %q", sp)
	}
}

// baseHealthDelta implements the shared two-tier scarcity penalties, the
// over-saturation damage, and the recovery bonuses.
func baseHealthDelta(p *Plant) float64 {
	return healthDelta(p, 5.0, 1.0)
}

// radishHealthDelta halves the scarcity pressure on the moisture side.
func radishHealthDelta(p *Plant) float64 {
	return healthDelta(p, 3.0, 0.5)
}

func healthDelta(p *Plant, criticalMoisturePenalty, lowMoisturePenalty float64) float64 {
	delta := 0.0

	if p.soilMoisture < p.cfg.CriticalSoil {
		delta -= criticalMoisturePenalty
	} else if p.soilMoisture < p.soilThreshold {
		delta -= lowMoisturePenalty
	}

	if p.nutrientLevel < p.cfg.CriticalNutrient {
		delta -= 5.0
	} else if p.nutrientLevel < p.cfg.NutrientThreshold {
		delta -= 1.0
	}

	if p.nutrientLevel > 1.2 {
		delta -= 10.0 // fertilizer toxicity
	}
	if p.soilMoisture > 1.0 {
		delta -= 8.0 // waterlogging
	}

	if p.soilMoisture >= p.soilThreshold && p.nutrientLevel >= p.cfg.NutrientThreshold {
		delta += 3.0
	} else if delta == 0 {
		delta += 1.0 // baseline recovery when nothing is wrong
	}
	return delta
}

// basePhenology maps age against fractions of the species harvest day.
func basePhenology(p *Plant) {
	harvest := float64(p.cfg.HarvestDay)
	days := float64(p.daysAlive)
	switch {
	case p.daysAlive < 7:
		p.phenology = model.PhenologySeedling
	case days < harvest*0.7:
		p.phenology = model.PhenologyVegetative
	case days < harvest*0.9:
		p.phenology = model.PhenologyFlowering
	case days < harvest*1.2:
		p.phenology = model.PhenologyHarvestable
	default:
		p.phenology = model.PhenologyDormant
	}
}

// swissChardPhenology uses fixed breakpoints and never leaves the
// harvestable stage: the crop supports repeated cut-and-come-again picks.
func swissChardPhenology(p *Plant) {
	switch {
	case p.daysAlive < 10:
		p.phenology = model.PhenologySeedling
	case p.daysAlive < 20:
		p.phenology = model.PhenologyVegetative
	default:
		p.phenology = model.PhenologyHarvestable
	}
}

// nasturtiumPhenology is flowering-oriented; entering the harvestable
// stage permanently raises the moisture threshold to the configured
// flowering-stage value.
func nasturtiumPhenology(p *Plant) {
	switch {
	case p.daysAlive < 10:
		p.phenology = model.PhenologySeedling
	case p.daysAlive < 18:
		p.phenology = model.PhenologyVegetative
	case p.daysAlive < p.cfg.FlowerStageDay:
		p.phenology = model.PhenologyFlowering
	default:
		p.phenology = model.PhenologyHarvestable
		p.soilThreshold = p.cfg.FlowerStageSoilThreshold
	}
}
