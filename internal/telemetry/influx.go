package telemetry

import (
	"log"
	"strconv"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/BosongDing/smartgarden/internal/model"
)

// Recorder writes step results to InfluxDB through the async write API
// and tracks the last write error for diagnostics.
type Recorder struct {
	api   api.WriteAPI
	runID string

	mu      sync.RWMutex
	lastErr time.Time
	writes  int64
}

// NewRecorder wraps the write API and starts draining its async errors.
func NewRecorder(w api.WriteAPI, runID string) *Recorder {
	r := &Recorder{
		api:     w,
		runID:   runID,
		lastErr: time.Now().Add(-24 * time.Hour),
	}
	go func() {
		for err := range w.Errors() {
			if err != nil {
				r.mu.Lock()
				r.lastErr = time.Now()
				r.mu.Unlock()
				log.Printf("influx write error: %v", err)
			}
		}
	}()
	return r
}

// ObserveStep emits one run-level point plus one point per pot.
func (r *Recorder) ObserveStep(res model.StepResult) {
	now := time.Now()

	p := influxdb2.NewPointWithMeasurement("garden_step").
		AddTag("run_id", r.runID).
		AddField("step", res.Step).
		AddField("score", res.Score).
		AddField("temperature", res.Weather.Temperature).
		AddField("raining", res.Weather.IsRaining).
		SetTime(now)
	r.api.WritePoint(p)

	for pot, plant := range res.PlantStates {
		pp := influxdb2.NewPointWithMeasurement("garden_pot").
			AddTag("run_id", r.runID).
			AddTag("pot", strconv.Itoa(pot)).
			AddField("health", plant.Health).
			AddField("biomass", plant.Biomass).
			AddField("stress", plant.StressLevel).
			AddField("phenology", string(plant.Phenology)).
			SetTime(now)
		if pot < len(res.SoilStates) {
			pp.AddField("moisture", res.SoilStates[pot].Moisture).
				AddField("nutrients", res.SoilStates[pot].Nutrients)
		}
		r.api.WritePoint(pp)
	}

	r.mu.Lock()
	r.writes++
	r.mu.Unlock()
}

// LastErrorAge reports how long ago the last async write error occurred.
func (r *Recorder) LastErrorAge() time.Duration {
	r.mu.RLock()
	t := r.lastErr
	r.mu.RUnlock()
	return time.Since(t)
}

// Writes reports how many steps were handed to the write API.
func (r *Recorder) Writes() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.writes
}

// Close flushes buffered points.
func (r *Recorder) Close() {
	r.api.Flush()
}
