package mqtt

import (
	"context"
	"log"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IConsumer is the subscribing side used by the watch command.
type IConsumer interface {
	Consume(ctx context.Context)
	SetHandler(handler func(topic string, message mqtt.Message) error)
}

// Consumer subscribes to one topic filter and dispatches messages to a
// handler until its context is cancelled.
type Consumer struct {
	client  mqtt.Client
	topic   string
	handler func(topic string, message mqtt.Message) error
}

func NewConsumer(client mqtt.Client, topic string, handler func(topic string, message mqtt.Message) error) *Consumer {
	return &Consumer{client: client, topic: topic, handler: handler}
}

func (c *Consumer) SetHandler(handler func(topic string, message mqtt.Message) error) {
	c.handler = handler
}

// qosFor picks the delivery guarantee by topic class: run-level results
// must not be lost, per-step telemetry tolerates drops.
func qosFor(topic string) byte {
	t := strings.TrimSpace(topic)
	if strings.HasPrefix(t, "garden/report") || strings.HasPrefix(t, "garden/daily") {
		return 1
	}
	return 0
}

// Consume subscribes and blocks until the context is cancelled, then
// unsubscribes.
func (c *Consumer) Consume(ctx context.Context) {
	token := c.client.Subscribe(
		c.topic,
		qosFor(c.topic),
		func(client mqtt.Client, message mqtt.Message) {
			if c.handler == nil {
				log.Printf("No handler set for topic %s", c.topic)
				return
			}
			if err := c.handler(message.Topic(), message); err != nil {
				log.Printf("Error handling message on %s: %v", message.Topic(), err)
			}
		},
	)
	if token.Wait() && token.Error() != nil {
		log.Printf("Error subscribing to topic %s: %v", c.topic, token.Error())
		return
	}

	log.Printf("Successfully subscribed to topic %s", c.topic)

	<-ctx.Done()

	unsubToken := c.client.Unsubscribe(c.topic)
	unsubToken.Wait()
}
