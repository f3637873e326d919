package evaluation

import (
	"testing"

	"github.com/BosongDing/smartgarden/internal/config"
	"github.com/BosongDing/smartgarden/internal/model"
)

func healthyPlants(n int, health, biomass float64) []model.PlantStatus {
	out := make([]model.PlantStatus, n)
	for i := range out {
		out[i] = model.PlantStatus{
			Health:       health,
			Biomass:      biomass,
			SoilMoisture: 0.6,
			Phenology:    model.PhenologyVegetative,
		}
	}
	return out
}

func TestScoreHealthyGarden(t *testing.T) {
	e := NewEngine(config.Default().Evaluation)
	// 5 plants, 10 biomass total -> biomass component 10/50*100 = 20
	score := e.Score(0, healthyPlants(5, 80, 2.0), nil)
	want := 0.5*20 + 0.5*80
	if score != want {
		t.Fatalf("score = %v, want %v", score, want)
	}
}

func TestBiomassComponentCapsAtHundred(t *testing.T) {
	e := NewEngine(config.Default().Evaluation)
	score := e.Score(0, healthyPlants(5, 100, 30.0), nil)
	want := 0.5*100 + 0.5*100
	if score != want {
		t.Fatalf("score = %v, want cap at %v", score, want)
	}
}

func TestDeadPlantsPenalizedAndExcluded(t *testing.T) {
	e := NewEngine(config.Default().Evaluation)
	plants := healthyPlants(5, 80, 2.0)
	plants[0].Phenology = model.PhenologyDead
	plants[0].Health = 0
	plants[0].Biomass = 3.0 // must not count toward live biomass

	score := e.Score(0, plants, nil)
	base := 0.5*(8.0/50*100) + 0.5*80
	want := base - 50
	if score != want {
		t.Fatalf("score = %v, want %v", score, want)
	}
}

func TestAllDeadScoresZeroHealth(t *testing.T) {
	e := NewEngine(config.Default().Evaluation)
	plants := healthyPlants(2, 0, 1.0)
	for i := range plants {
		plants[i].Phenology = model.PhenologyDead
	}
	if score := e.Score(0, plants, nil); score != 0 {
		t.Fatalf("score = %v, want floor at 0", score)
	}
}

func TestOverusePenalties(t *testing.T) {
	e := NewEngine(config.Default().Evaluation)
	var executed []model.ActionRecord
	for i := 0; i < 12; i++ { // 2 over the water budget
		executed = append(executed, model.ActionRecord{Kind: model.ActionWater, Success: true})
	}
	for i := 0; i < 17; i++ { // 2 over the fertilize budget
		executed = append(executed, model.ActionRecord{Kind: model.ActionFertilize, Success: true})
	}
	with := e.Score(0, healthyPlants(5, 80, 2.0), executed)
	without := NewEngine(config.Default().Evaluation).Score(0, healthyPlants(5, 80, 2.0), nil)
	if diff := without - with; diff != 8 { // 2*2 + 2*2
		t.Fatalf("overuse penalty = %v, want 8", diff)
	}
}

func TestWaterloggedPlantPenalized(t *testing.T) {
	e := NewEngine(config.Default().Evaluation)
	plants := healthyPlants(5, 80, 2.0)
	plants[2].SoilMoisture = 1.2

	with := e.Score(0, plants, nil)
	without := NewEngine(config.Default().Evaluation).Score(0, healthyPlants(5, 80, 2.0), nil)
	if diff := without - with; diff < 9.99 || diff > 10.01 {
		t.Fatalf("waterlog penalty = %v, want 0.2*50 = 10", diff)
	}
}

func TestHistoryBestAndTrend(t *testing.T) {
	e := NewEngine(config.Default().Evaluation)
	for step := 0; step < 30; step++ {
		e.Score(step, healthyPlants(5, float64(50+step), 2.0), nil)
	}
	if got := len(e.History()); got != 30 {
		t.Fatalf("history length = %d, want 30", got)
	}
	trend := e.Trend(20)
	if len(trend) != 20 {
		t.Fatalf("trend length = %d, want 20", len(trend))
	}
	last := e.History()[29].Score
	if trend[19] != last || e.Best() != last {
		t.Fatalf("trend tail %v / best %v, want both %v", trend[19], e.Best(), last)
	}

	sum := e.Summarize()
	if sum.FinalScore != last || sum.StepsEvaluated != 30 {
		t.Fatalf("summary = %+v", sum)
	}
}
