// Package telemetry exports simulation step results to Prometheus,
// InfluxDB and MQTT. Each exporter consumes immutable step records and
// never feeds back into the engine.
package telemetry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/BosongDing/smartgarden/internal/model"
)

// Metrics holds the Prometheus instruments updated once per step.
type Metrics struct {
	step        prometheus.Gauge
	score       prometheus.Gauge
	plantsAlive prometheus.Gauge
	avgHealth   prometheus.Gauge
	temperature prometheus.Gauge

	potMoisture  *prometheus.GaugeVec
	potNutrients *prometheus.GaugeVec
	potHealth    *prometheus.GaugeVec

	waterActions     prometheus.Counter
	fertilizeActions prometheus.Counter
	failedActuations prometheus.Counter
	rainSteps        prometheus.Counter
}

// NewMetrics registers the garden instruments on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		step: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "garden_step", Help: "Current simulation step.",
		}),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "garden_score", Help: "Score of the last evaluated step.",
		}),
		plantsAlive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "garden_plants_alive", Help: "Number of live plants.",
		}),
		avgHealth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "garden_avg_health", Help: "Mean health over live plants.",
		}),
		temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "garden_temperature_celsius", Help: "Generated air temperature.",
		}),
		potMoisture: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "garden_pot_soil_moisture", Help: "True soil moisture per pot.",
		}, []string{"pot"}),
		potNutrients: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "garden_pot_nutrients", Help: "True nutrient level per pot.",
		}, []string{"pot"}),
		potHealth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "garden_pot_health", Help: "Plant health per pot.",
		}, []string{"pot"}),
		waterActions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "garden_water_actions_total", Help: "Watering actions requested.",
		}),
		fertilizeActions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "garden_fertilize_actions_total", Help: "Fertilizing actions requested.",
		}),
		failedActuations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "garden_actuation_failures_total", Help: "Actuations that delivered no effect.",
		}),
		rainSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "garden_rain_steps_total", Help: "Steps during which it rained.",
		}),
	}
	reg.MustRegister(
		m.step, m.score, m.plantsAlive, m.avgHealth, m.temperature,
		m.potMoisture, m.potNutrients, m.potHealth,
		m.waterActions, m.fertilizeActions, m.failedActuations, m.rainSteps,
	)
	return m
}

// ObserveStep updates every instrument from one completed step.
func (m *Metrics) ObserveStep(res model.StepResult) {
	m.step.Set(float64(res.Step))
	m.score.Set(res.Score)
	m.temperature.Set(res.Weather.Temperature)
	if res.Weather.IsRaining {
		m.rainSteps.Inc()
	}

	var alive int
	var healthSum float64
	for pot, p := range res.PlantStates {
		label := strconv.Itoa(pot)
		m.potHealth.WithLabelValues(label).Set(p.Health)
		if p.Phenology != model.PhenologyDead {
			alive++
			healthSum += p.Health
		}
	}
	m.plantsAlive.Set(float64(alive))
	if alive > 0 {
		m.avgHealth.Set(healthSum / float64(alive))
	} else {
		m.avgHealth.Set(0)
	}

	for _, s := range res.SoilStates {
		label := strconv.Itoa(s.PotID)
		m.potMoisture.WithLabelValues(label).Set(s.Moisture)
		m.potNutrients.WithLabelValues(label).Set(s.Nutrients)
	}

	for _, req := range res.Requested {
		switch req.Kind {
		case model.ActionWater:
			m.waterActions.Inc()
		case model.ActionFertilize:
			m.fertilizeActions.Inc()
		}
	}
	for _, rec := range res.Executed {
		if !rec.Success {
			m.failedActuations.Inc()
		}
	}
}
