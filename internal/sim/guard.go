package sim

import (
	"fmt"
	"log"
	"time"

	"github.com/sony/gobreaker"

	"github.com/BosongDing/smartgarden/internal/model"
	"github.com/BosongDing/smartgarden/internal/policy"
)

// decision is the pair of booleans a policy produces for one pot.
type decision struct {
	water     bool
	fertilize bool
}

// policyGuard isolates the simulation from a misbehaving decision
// policy: panics and errors become "no action", an optional timeout
// bounds each invocation, and a per-pot circuit breaker stops calling
// a policy that keeps failing until it cools down.
type policyGuard struct {
	policy   policy.Policy
	timeout  time.Duration
	breakers [model.NumPots]*gobreaker.CircuitBreaker
}

func newPolicyGuard(pol policy.Policy, timeout time.Duration) *policyGuard {
	g := &policyGuard{policy: pol, timeout: timeout}
	for pot := range g.breakers {
		g.breakers[pot] = mkCB(fmt.Sprintf("policy-pot-%d", pot), 5, 2000, 10000)
	}
	return g
}

func mkCB(name string, fails, openMs, intervalMs int) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: time.Duration(intervalMs) * time.Millisecond,
		Timeout:  time.Duration(openMs) * time.Millisecond,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(fails)
		},
	})
}

// decide obtains the pot's decision, degrading to no-action on any
// policy failure.
func (g *policyGuard) decide(pot int, obs model.Observation) decision {
	out, err := g.breakers[pot].Execute(func() (interface{}, error) {
		return g.invoke(obs)
	})
	// a failed decision is already false inside the partial result, so
	// keep whatever did succeed
	d, _ := out.(decision)
	if err != nil {
		log.Printf("policy error (pot %d, step %d): %v", pot, obs.Step, err)
	}
	return d
}

// invoke runs both policy calls, optionally bounded by the configured
// timeout. A timed-out call is abandoned and treated as an error.
func (g *policyGuard) invoke(obs model.Observation) (decision, error) {
	if g.timeout <= 0 {
		return callPolicy(g.policy, obs)
	}

	type result struct {
		d   decision
		err error
	}
	ch := make(chan result, 1)
	go func() {
		d, err := callPolicy(g.policy, obs)
		ch <- result{d, err}
	}()
	select {
	case r := <-ch:
		return r.d, r.err
	case <-time.After(g.timeout):
		return decision{}, fmt.Errorf("policy timed out after %s", g.timeout)
	}
}

// callPolicy evaluates both decisions with panic recovery. An error or
// panic in one decision degrades that decision to false; the error is
// still reported so the breaker sees the failure.
func callPolicy(pol policy.Policy, obs model.Observation) (d decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			d = decision{}
			err = fmt.Errorf("policy panic: %v", r)
		}
	}()

	var werr, ferr error
	d.water, werr = pol.ShouldWater(obs)
	if werr != nil {
		d.water = false
	}
	d.fertilize, ferr = pol.ShouldFertilize(obs)
	if ferr != nil {
		d.fertilize = false
	}
	if werr != nil {
		return d, fmt.Errorf("should_water: %w", werr)
	}
	if ferr != nil {
		return d, fmt.Errorf("should_fertilize: %w", ferr)
	}
	return d, nil
}
