// Package sim runs the garden simulation: it owns every stateful
// component and drives the fixed-length step loop.
package sim

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/BosongDing/smartgarden/internal/config"
	"github.com/BosongDing/smartgarden/internal/device"
	"github.com/BosongDing/smartgarden/internal/evaluation"
	"github.com/BosongDing/smartgarden/internal/history"
	"github.com/BosongDing/smartgarden/internal/model"
	"github.com/BosongDing/smartgarden/internal/plant"
	"github.com/BosongDing/smartgarden/internal/policy"
	"github.com/BosongDing/smartgarden/internal/soil"
	"github.com/BosongDing/smartgarden/internal/weather"
)

// StepSink receives each completed step result. Sinks observe only;
// they must not feed back into the simulation.
type StepSink interface {
	ObserveStep(model.StepResult)
}

// Option configures a Simulator at construction.
type Option func(*Simulator)

// WithSink attaches a telemetry sink. May be given multiple times.
func WithSink(sink StepSink) Option {
	return func(s *Simulator) { s.sinks = append(s.sinks, sink) }
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(s *Simulator) { s.runID = id }
}

// Simulator owns all mutable simulation state. A Simulator runs once;
// all state is owned by the single goroutine calling Run.
type Simulator struct {
	cfg    *config.Config
	policy policy.Policy
	runID  string

	rng     *rand.Rand
	weather *weather.Generator
	devices *device.Manager
	soil    *soil.Manager
	plants  []*plant.Plant
	eval    *evaluation.Engine
	tracker *history.Tracker

	guard         *policyGuard
	policyTimeout time.Duration

	sinks []StepSink

	stepsDone   int
	interrupted bool
}

// New builds a fully wired simulator from a validated configuration.
// All random draws (weather, device faults, sensor faults) come from one
// shared stream seeded with cfg.Simulation.RandomSeed, so runs with the
// same seed, config and policy are reproducible.
func New(cfg *config.Config, pol policy.Policy, opts ...Option) (*Simulator, error) {
	if pol == nil {
		return nil, fmt.Errorf("sim: nil policy")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim: invalid config: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Simulation.RandomSeed))

	gen, err := weather.NewGenerator(cfg.Weather, rng)
	if err != nil {
		return nil, fmt.Errorf("sim: weather: %w", err)
	}
	devices, err := device.NewManager(cfg.Devices, rng)
	if err != nil {
		return nil, fmt.Errorf("sim: devices: %w", err)
	}

	plants := make([]*plant.Plant, 0, model.NumPots)
	for _, sp := range model.AllSpecies() {
		p, err := plant.New(sp, cfg.Plants[sp])
		if err != nil {
			return nil, fmt.Errorf("sim: pot %d: %w", len(plants), err)
		}
		plants = append(plants, p)
	}

	s := &Simulator{
		cfg:           cfg,
		policy:        pol,
		runID:         uuid.NewString(),
		rng:           rng,
		weather:       gen,
		devices:       devices,
		soil:          soil.NewManager(cfg.Soil, model.NumPots),
		plants:        plants,
		eval:          evaluation.NewEngine(cfg.Evaluation),
		tracker:       history.NewTracker(),
		policyTimeout: time.Duration(cfg.Simulation.PolicyTimeoutMS) * time.Millisecond,
	}
	s.guard = newPolicyGuard(pol, s.policyTimeout)
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RunID returns the run identifier used in telemetry topics and reports.
func (s *Simulator) RunID() string { return s.runID }

// Tracker exposes the run history (steps, bounded buffers, daily
// aggregates).
func (s *Simulator) Tracker() *history.Tracker { return s.tracker }

// Devices exposes the device layer, mainly for scenario tests.
func (s *Simulator) Devices() *device.Manager { return s.devices }

// Run drives the fixed-length step loop. Cancelling ctx stops the loop
// early; the report then covers the steps that completed.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	total := s.cfg.Simulation.TotalSteps
	log.Printf("run %s: starting simulation, %d steps (%d days)", s.runID, total, total/model.StepsPerDay)

	for step := 0; step < total; step++ {
		select {
		case <-ctx.Done():
			s.interrupted = true
			log.Printf("run %s: interrupted at step %d", s.runID, step)
			return s.buildReport(), ctx.Err()
		default:
		}

		res := s.Step(step)
		s.stepsDone++

		if (step+1)%model.StepsPerDay == 0 {
			alive := 0
			for _, p := range res.PlantStates {
				if p.Alive() {
					alive++
				}
			}
			log.Printf("run %s: day %d complete, score %.1f, alive %d/%d, temp %.1f",
				s.runID, step/model.StepsPerDay, res.Score, alive, model.NumPots, res.Weather.Temperature)
		}
	}

	log.Printf("run %s: simulation complete", s.runID)
	return s.buildReport(), nil
}

// Step executes one full simulation step and returns its record.
func (s *Simulator) Step(step int) model.StepResult {
	wx := s.weather.Generate(step)

	plantStates := s.plantStates()
	sensors := s.devices.ReadSensors(plantStates, wx, step)

	var requested []model.ActionRequest
	for pot := 0; pot < model.NumPots; pot++ {
		obs := s.observation(pot, step, wx, sensors)
		d := s.guard.decide(pot, obs)
		if d.water {
			requested = append(requested, model.ActionRequest{PotID: pot, Kind: model.ActionWater, Magnitude: 1})
		}
		if d.fertilize {
			requested = append(requested, model.ActionRequest{PotID: pot, Kind: model.ActionFertilize, Magnitude: 1})
		}
	}

	executed := make([]model.ActionRecord, 0, len(requested))
	for _, req := range requested {
		switch req.Kind {
		case model.ActionWater:
			executed = append(executed, s.devices.ExecuteWatering(req.PotID, req.Magnitude, step))
		case model.ActionFertilize:
			executed = append(executed, s.devices.ExecuteFertilizing(req.PotID, req.Magnitude, step))
		}
	}

	s.soil.Update(wx, executed, plantStates)

	for pot, p := range s.plants {
		st := s.soil.State(pot)
		if excess := st.Moisture - 1.0; excess > 0 {
			p.DamageHealth(20 * excess)
		}
		if excess := st.Nutrients - 1.2; excess > 0 {
			p.DamageHealth(30 * excess)
		}
		p.Update(st, step)
	}

	newStates := s.plantStates()
	score := s.eval.Score(step, newStates, executed)

	res := model.StepResult{
		Step:        step,
		Weather:     wx,
		SoilStates:  s.soil.States(),
		PlantStates: newStates,
		Sensors:     sensors,
		Requested:   requested,
		Executed:    executed,
		Score:       score,
	}
	s.tracker.LogStep(res)
	for _, sink := range s.sinks {
		sink.ObserveStep(res)
	}
	return res
}

func (s *Simulator) plantStates() []model.PlantStatus {
	out := make([]model.PlantStatus, len(s.plants))
	for i, p := range s.plants {
		out[i] = p.Status()
	}
	return out
}

func (s *Simulator) observation(pot, step int, wx model.WeatherState, sensors model.SensorSnapshot) model.Observation {
	var reading model.SensorReading
	if pot < len(sensors.Pots) {
		reading = sensors.Pots[pot]
	}
	return model.Observation{
		PotID:         pot,
		Step:          step,
		Day:           step / model.StepsPerDay,
		TimeOfDay:     (step * 3) % 24,
		Sensor:        reading,
		Environment:   sensors.Environment,
		Raining:       wx.IsRaining,
		Species:       s.plants[pot].Species(),
		Plant:         s.plants[pot].Status(),
		SensorHistory: s.tracker.SensorHistory(pot),
		ActionHistory: s.tracker.ActionHistory(pot),
	}
}
