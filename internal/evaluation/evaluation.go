// Package evaluation scores each simulation step from plant outcomes and
// resource usage, and keeps the per-step score history for trend queries.
package evaluation

import (
	"math"

	"github.com/BosongDing/smartgarden/internal/config"
	"github.com/BosongDing/smartgarden/internal/model"
)

// biomassTarget is the total live biomass that earns the full biomass
// component.
const biomassTarget = 50.0

// waterlogPenaltyPerUnit scales the per-plant penalty for moisture held
// above saturation.
const waterlogPenaltyPerUnit = 50.0

// overuse thresholds, in actions per step.
const (
	waterActionBudget     = 10
	fertilizeActionBudget = 15
)

// ScoreRecord is one step's score with its components broken out.
type ScoreRecord struct {
	Step      int     `json:"step"`
	Base      float64 `json:"base"`
	Penalty   float64 `json:"penalty"`
	Score     float64 `json:"score"`
	LiveCount int     `json:"live_count"`
}

// Engine computes per-step scores and retains the full score history.
type Engine struct {
	cfg     config.EvaluationConfig
	history []ScoreRecord
	best    float64
}

func NewEngine(cfg config.EvaluationConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Score evaluates one completed step and appends it to the history.
func (e *Engine) Score(step int, plants []model.PlantStatus, executed []model.ActionRecord) float64 {
	var (
		liveBiomass float64
		healthSum   float64
		liveCount   int
		deadCount   int
	)
	for _, p := range plants {
		if p.Phenology == model.PhenologyDead {
			deadCount++
			continue
		}
		liveCount++
		liveBiomass += p.Biomass
		healthSum += p.Health
	}

	base := e.cfg.Weights.TotalBiomass * math.Min(100, liveBiomass/biomassTarget*100)
	if liveCount > 0 {
		base += e.cfg.Weights.PlantHealth * healthSum / float64(liveCount)
	}

	var waterActions, fertilizeActions int
	for _, a := range executed {
		switch a.Kind {
		case model.ActionWater:
			waterActions++
		case model.ActionFertilize:
			fertilizeActions++
		}
	}

	penalty := float64(deadCount) * e.cfg.Penalties.PlantDeath
	penalty += math.Max(0, float64(waterActions-waterActionBudget)) * e.cfg.Penalties.Overwatering
	penalty += math.Max(0, float64(fertilizeActions-fertilizeActionBudget)) * e.cfg.Penalties.Overfertilizing
	for _, p := range plants {
		penalty -= math.Max(0, p.SoilMoisture-1.0) * waterlogPenaltyPerUnit
	}

	score := math.Max(0, base+penalty)
	if score > e.best {
		e.best = score
	}
	e.history = append(e.history, ScoreRecord{
		Step:      step,
		Base:      base,
		Penalty:   penalty,
		Score:     score,
		LiveCount: liveCount,
	})
	return score
}

// History returns a copy of all per-step score records.
func (e *Engine) History() []ScoreRecord {
	out := make([]ScoreRecord, len(e.history))
	copy(out, e.history)
	return out
}

// Best reports the highest per-step score seen so far.
func (e *Engine) Best() float64 { return e.best }

// Trend returns the scores of up to the last n steps, oldest first.
func (e *Engine) Trend(n int) []float64 {
	if n > len(e.history) {
		n = len(e.history)
	}
	out := make([]float64, 0, n)
	for _, rec := range e.history[len(e.history)-n:] {
		out = append(out, rec.Score)
	}
	return out
}

// Summary aggregates the run's scoring outcome.
type Summary struct {
	FinalScore     float64   `json:"final_score"`
	BestScore      float64   `json:"best_score"`
	AvgScore       float64   `json:"avg_score"`
	TotalPenalty   float64   `json:"total_penalty"`
	RecentTrend    []float64 `json:"recent_trend"`
	StepsEvaluated int       `json:"steps_evaluated"`
}

// Summarize folds the history into a run-level summary. The trend holds
// up to the last 20 scores.
func (e *Engine) Summarize() Summary {
	s := Summary{
		BestScore:      e.best,
		RecentTrend:    e.Trend(20),
		StepsEvaluated: len(e.history),
	}
	if len(e.history) == 0 {
		return s
	}
	var sum float64
	for _, rec := range e.history {
		sum += rec.Score
		s.TotalPenalty += rec.Penalty
	}
	s.FinalScore = e.history[len(e.history)-1].Score
	s.AvgScore = sum / float64(len(e.history))
	return s
}
