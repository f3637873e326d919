package sim

import (
	"github.com/BosongDing/smartgarden/internal/device"
	"github.com/BosongDing/smartgarden/internal/evaluation"
	"github.com/BosongDing/smartgarden/internal/model"
	"github.com/BosongDing/smartgarden/internal/weather"
)

// PotReport is the final state of one pot.
type PotReport struct {
	PotID        int               `json:"pot_id"`
	Species      model.Species     `json:"species"`
	Plant        model.PlantStatus `json:"plant_status"`
	Soil         model.SoilState   `json:"soil_state"`
	HarvestYield float64           `json:"harvest_yield"`
}

// ActionStats aggregates one action kind over the whole run.
type ActionStats struct {
	Total       int     `json:"total"`
	Succeeded   int     `json:"succeeded"`
	SuccessRate float64 `json:"success_rate"`
}

// Report is the run summary produced at the end of a run, or on
// interruption over whatever steps completed.
type Report struct {
	RunID          string `json:"run_id"`
	Interrupted    bool   `json:"interrupted"`
	StepsCompleted int    `json:"steps_completed"`
	TotalSteps     int    `json:"total_steps"`

	Score         evaluation.Summary `json:"score"`
	ScoreTrend    []float64          `json:"score_trend"`
	SurvivalRate  float64            `json:"survival_rate"`
	AverageHealth float64            `json:"average_health"`
	TotalBiomass  float64            `json:"total_biomass"`
	TotalYield    float64            `json:"total_yield"`

	Pots      []PotReport `json:"pots"`
	Water     ActionStats `json:"water_actions"`
	Fertilize ActionStats `json:"fertilize_actions"`

	Weather weather.Summary      `json:"weather"`
	Daily   []model.DailySummary `json:"daily_summaries"`
	Devices device.SystemStatus  `json:"device_status"`
}

// scoreTrendTail bounds the trend included in the report.
const scoreTrendTail = 40

func (s *Simulator) buildReport() *Report {
	rep := &Report{
		RunID:          s.runID,
		Interrupted:    s.interrupted,
		StepsCompleted: s.stepsDone,
		TotalSteps:     s.cfg.Simulation.TotalSteps,
		Score:          s.eval.Summarize(),
		ScoreTrend:     s.eval.Trend(scoreTrendTail),
		Weather:        s.weather.Summary(),
		Daily:          s.tracker.DailySummaries(),
		Devices:        s.devices.SystemStatus(),
	}

	// biomass and health aggregates cover live plants only
	alive := 0
	for pot, p := range s.plants {
		st := p.Status()
		rep.Pots = append(rep.Pots, PotReport{
			PotID:        pot,
			Species:      p.Species(),
			Plant:        st,
			Soil:         s.soil.State(pot),
			HarvestYield: p.HarvestYield(),
		})
		rep.TotalYield += p.HarvestYield()
		if p.Alive() {
			alive++
			rep.TotalBiomass += st.Biomass
			rep.AverageHealth += st.Health
		}
	}
	if len(s.plants) > 0 {
		rep.SurvivalRate = float64(alive) / float64(len(s.plants))
	}
	if alive > 0 {
		rep.AverageHealth /= float64(alive)
	}

	for _, rec := range s.devices.OperationLog() {
		var stats *ActionStats
		switch rec.Kind {
		case model.ActionWater:
			stats = &rep.Water
		case model.ActionFertilize:
			stats = &rep.Fertilize
		default:
			continue
		}
		stats.Total++
		if rec.Success {
			stats.Succeeded++
		}
	}
	if rep.Water.Total > 0 {
		rep.Water.SuccessRate = float64(rep.Water.Succeeded) / float64(rep.Water.Total)
	}
	if rep.Fertilize.Total > 0 {
		rep.Fertilize.SuccessRate = float64(rep.Fertilize.Succeeded) / float64(rep.Fertilize.Total)
	}
	return rep
}
