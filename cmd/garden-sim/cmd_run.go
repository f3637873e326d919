package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/BosongDing/smartgarden/internal/config"
	"github.com/BosongDing/smartgarden/internal/policy"
	"github.com/BosongDing/smartgarden/internal/sim"
	"github.com/BosongDing/smartgarden/internal/telemetry"
	"github.com/BosongDing/smartgarden/pkg/mqtt"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation and print the final report",
		Long: `Run the fixed-length simulation loop with the selected decision policy.

The final report is written as JSON to stdout or to --output. Optional
telemetry exporters (Prometheus, InfluxDB, MQTT) are enabled by their
respective flags.

Example:
  garden-sim run --policy threshold --seed 42 --output report.json`,
		RunE: runSimulation,
	}

	cmd.Flags().String("config", "", "Path to a YAML configuration file (default: built-in config)")
	cmd.Flags().Int("steps", 0, "Override the total step count")
	cmd.Flags().Int64("seed", 0, "Override the random seed")
	cmd.Flags().String("policy", "threshold", "Decision policy: "+strings.Join(policy.Names(), ", "))
	cmd.Flags().String("output", "", "Write the report JSON to this file instead of stdout")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().String("mqtt-broker", "", "Publish step telemetry to this MQTT broker (host:port)")
	cmd.Flags().String("influx-url", "", "Write step telemetry to this InfluxDB URL")
	cmd.Flags().String("influx-token", "", "InfluxDB auth token")
	cmd.Flags().String("influx-org", "smartgarden", "InfluxDB organization")
	cmd.Flags().String("influx-bucket", "garden", "InfluxDB bucket")

	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if steps, _ := cmd.Flags().GetInt("steps"); steps > 0 {
		cfg.Simulation.TotalSteps = steps
	}
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetInt64("seed")
		cfg.Simulation.RandomSeed = seed
	}

	policyName, _ := cmd.Flags().GetString("policy")
	pol, err := policy.ByName(policyName, cfg)
	if err != nil {
		return err
	}

	opts, cleanup, err := buildTelemetry(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := sim.New(cfg, pol, opts...)
	if err != nil {
		return err
	}

	report, runErr := s.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := os.WriteFile(output, payload, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.Printf("report written to %s", output)
	} else {
		fmt.Println(string(payload))
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// buildTelemetry wires the exporters selected by flags and returns the
// simulator options plus a cleanup that flushes them.
func buildTelemetry(ctx context.Context, cmd *cobra.Command) ([]sim.Option, func(), error) {
	var opts []sim.Option
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	runID := generateRunID()
	opts = append(opts, sim.WithRunID(runID))

	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, sim.WithSink(telemetry.NewMetrics(reg)))

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		hs := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Printf("metrics listening on %s", addr)
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("metrics server error: %v", err)
			}
		}()
		cleanups = append(cleanups, func() { hs.Close() })
	}

	if url, _ := cmd.Flags().GetString("influx-url"); url != "" {
		token, _ := cmd.Flags().GetString("influx-token")
		org, _ := cmd.Flags().GetString("influx-org")
		bucket, _ := cmd.Flags().GetString("influx-bucket")

		client := influxdb2.NewClientWithOptions(url, token,
			influxdb2.DefaultOptions().SetBatchSize(20).SetFlushInterval(500))
		recorder := telemetry.NewRecorder(client.WriteAPI(org, bucket), runID)
		opts = append(opts, sim.WithSink(recorder))
		cleanups = append(cleanups, func() {
			recorder.Close()
			client.Close()
		})
	}

	if broker, _ := cmd.Flags().GetString("mqtt-broker"); broker != "" {
		host, port, err := splitBroker(broker)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		client, err := mqtt.NewConn(ctx, &mqtt.Config{
			Host:     host,
			Port:     port,
			ClientID: "garden-sim-" + runID,
		})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		pub := mqtt.NewPublisher(client, telemetry.Topic(runID))
		opts = append(opts, sim.WithSink(telemetry.NewStepPublisher(pub, runID)))
		cleanups = append(cleanups, func() { mqtt.CloseConn(client) })
	}

	return opts, cleanup, nil
}

func generateRunID() string { return uuid.NewString() }

func splitBroker(broker string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(broker)
	if err != nil {
		return "", 0, fmt.Errorf("invalid broker address %q: %w", broker, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid broker port %q: %w", portStr, err)
	}
	return host, port, nil
}
