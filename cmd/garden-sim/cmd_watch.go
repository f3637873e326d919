package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"

	"github.com/BosongDing/smartgarden/internal/model"
	"github.com/BosongDing/smartgarden/pkg/dedup"
	"github.com/BosongDing/smartgarden/pkg/mqtt"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow step telemetry published on MQTT",
		Long: `Subscribe to the step telemetry topic of a running simulation and
print one line per step. Re-delivered messages are suppressed.

Example:
  garden-sim watch --mqtt-broker localhost:1883 --run 7f3a...`,
		RunE: watchRun,
	}

	cmd.Flags().String("mqtt-broker", "localhost:1883", "MQTT broker (host:port)")
	cmd.Flags().String("run", "+", "Run ID to follow (default: all runs)")

	return cmd
}

func watchRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	broker, _ := cmd.Flags().GetString("mqtt-broker")
	host, port, err := splitBroker(broker)
	if err != nil {
		return err
	}
	runID, _ := cmd.Flags().GetString("run")

	client, err := mqtt.NewConn(ctx, &mqtt.Config{
		Host:     host,
		Port:     port,
		ClientID: "garden-watch-" + strconv.Itoa(os.Getpid()),
	})
	if err != nil {
		return err
	}
	defer mqtt.CloseConn(client)

	seen := dedup.New(10*time.Minute, 10000)
	handler := func(topic string, msg pahomqtt.Message) error {
		var res model.StepResult
		if err := json.Unmarshal(msg.Payload(), &res); err != nil {
			return fmt.Errorf("decode step payload: %w", err)
		}
		if !seen.ShouldProcess(topic + "/" + strconv.Itoa(res.Step)) {
			return nil
		}
		printStep(topic, res)
		return nil
	}

	consumer := mqtt.NewConsumer(client, "garden/step/"+runID, handler)
	consumer.Consume(ctx)
	return nil
}

func printStep(topic string, res model.StepResult) {
	alive := 0
	var health float64
	for _, p := range res.PlantStates {
		if p.Phenology != model.PhenologyDead {
			alive++
			health += p.Health
		}
	}
	if alive > 0 {
		health /= float64(alive)
	}
	rain := " "
	if res.Weather.IsRaining {
		rain = "R"
	}
	fmt.Printf("%s step=%3d day=%2d %s temp=%5.1f alive=%d avg_health=%5.1f score=%6.2f actions=%d\n",
		topic, res.Step, res.Step/model.StepsPerDay, rain,
		res.Weather.Temperature, alive, health, res.Score, len(res.Executed))
}
