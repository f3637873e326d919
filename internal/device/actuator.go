// Package device models the garden's actuation and sensing hardware: the
// shared water pump and fertilizer dispenser with their random fault
// windows, and the per-pot sensor array with its fault and error reading
// synthesis.
package device

import (
	"fmt"
	"math/rand"

	"github.com/BosongDing/smartgarden/internal/config"
	"github.com/BosongDing/smartgarden/internal/model"
)

// Actuator is a pump or dispenser: one shared unit serving all pots, with
// an operational/failed state machine. While failed every call returns
// effect 0; once the recovery step is reached the unit becomes operational
// again on the next call.
type Actuator struct {
	kind   model.ActionKind
	effect float64

	failureProbability float64
	recoverySteps      func() int
	rng                *rand.Rand

	failed      bool
	failedUntil int

	totalOutput float64
	operations  int
}

// NewPump builds the shared water pump. Recovery is a fixed step count.
func NewPump(cfg config.PumpConfig, rng *rand.Rand) (*Actuator, error) {
	if rng == nil {
		return nil, fmt.Errorf("pump: random source is required")
	}
	steps := cfg.RecoverySteps
	return &Actuator{
		kind:               model.ActionWater,
		effect:             cfg.WaterEffect,
		failureProbability: cfg.FailureProbability,
		recoverySteps:      func() int { return steps },
		rng:                rng,
	}, nil
}

// NewDispenser builds the shared fertilizer dispenser. Recovery is drawn
// uniformly from [RecoveryMinSteps, RecoveryMaxSteps] per fault.
func NewDispenser(cfg config.DispenserConfig, rng *rand.Rand) (*Actuator, error) {
	if rng == nil {
		return nil, fmt.Errorf("dispenser: random source is required")
	}
	lo, hi := cfg.RecoveryMinSteps, cfg.RecoveryMaxSteps
	return &Actuator{
		kind:               model.ActionFertilize,
		effect:             cfg.FertilizerEffect,
		failureProbability: cfg.FailureProbability,
		recoverySteps:      func() int { return lo + rng.Intn(hi-lo+1) },
		rng:                rng,
	}, nil
}

// Actuate runs one actuation request. The magnitude argument (duration or
// amount) is accepted for the record but the delivered effect is always the
// configured constant; a failed unit delivers 0. Fault recovery is checked
// before the fresh fault draw, so a unit can fail and recover on disjoint
// steps but never both ways in one call.
func (a *Actuator) Actuate(potID int, magnitude float64, step int) float64 {
	_ = potID // single shared unit; the pot only matters to the caller's log

	if a.failed && step >= a.failedUntil {
		a.failed = false
	}
	if !a.failed && a.rng.Float64() < a.failureProbability {
		a.failed = true
		a.failedUntil = step + a.recoverySteps()
	}
	if a.failed {
		return 0
	}

	a.totalOutput += a.effect
	a.operations++
	return a.effect
}

// Failed reports whether the unit is currently in a fault window.
func (a *Actuator) Failed() bool { return a.failed }

// Status summarizes the actuator's lifetime counters.
type ActuatorStatus struct {
	Kind        model.ActionKind `json:"kind"`
	TotalOutput float64          `json:"total_output"`
	Operations  int              `json:"operation_count"`
	Effect      float64          `json:"effect"`
	IsFailed    bool             `json:"is_failed"`
}

func (a *Actuator) Status() ActuatorStatus {
	return ActuatorStatus{
		Kind:        a.kind,
		TotalOutput: a.totalOutput,
		Operations:  a.operations,
		Effect:      a.effect,
		IsFailed:    a.failed,
	}
}
