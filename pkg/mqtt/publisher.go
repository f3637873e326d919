package mqtt

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher is the publishing side used by the telemetry layer.
type IPublisher interface {
	PublishMessage(payload []byte) error
	Close()
}

// Publisher publishes payloads to a fixed topic on a shared client.
type Publisher struct {
	client mqtt.Client
	topic  string
}

func NewPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// PublishMessage sends one payload to the publisher's topic, at the QoS
// the topic class calls for.
func (p *Publisher) PublishMessage(payload []byte) error {
	token := p.client.Publish(p.topic, qosFor(p.topic), false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, token.Error())
	}
	return nil
}

// Close disconnects the underlying client if still connected.
func (p *Publisher) Close() {
	CloseConn(p.client)
}
