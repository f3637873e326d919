package telemetry

import (
	"encoding/json"
	"log"

	"github.com/BosongDing/smartgarden/internal/model"
	"github.com/BosongDing/smartgarden/pkg/mqtt"
)

// StepPublisher pushes each step result to an MQTT topic as JSON.
// Publish failures are logged and dropped; telemetry must never stall
// the simulation.
type StepPublisher struct {
	pub   mqtt.IPublisher
	runID string
}

func NewStepPublisher(pub mqtt.IPublisher, runID string) *StepPublisher {
	return &StepPublisher{pub: pub, runID: runID}
}

// Topic returns the step topic for a run ID.
func Topic(runID string) string {
	return "garden/step/" + runID
}

func (p *StepPublisher) ObserveStep(res model.StepResult) {
	payload, err := json.Marshal(res)
	if err != nil {
		log.Printf("step publish: marshal step %d: %v", res.Step, err)
		return
	}
	if err := p.pub.PublishMessage(payload); err != nil {
		log.Printf("step publish: step %d: %v", res.Step, err)
	}
}
