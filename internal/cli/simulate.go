package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"

	"cropwatch/internal/app/domains/apimodel/request"
)

// anomalyEvery 每隔多少步注入一次异常
const anomalyEvery = 10

// Publisher 读数发布
type Publisher interface {
	Publish(topic string, payload []byte) error
}

type mqttPublisher struct {
	client mqtt.Client
}

func (p *mqttPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, 1, false, payload)
	token.Wait()
	return token.Error()
}

// Simulation 模拟参数
type Simulation struct {
	Plots    int
	Interval time.Duration
	Duration time.Duration // 0 表示一直运行
	Topic    string        // 含一个 %s 占位的地块 ID
}

func newSimulateCmd(a *app) *cobra.Command {
	sim := Simulation{}
	var seed int64
	cmd := &cobra.Command{
		Use:   "simulate --plots 3 --interval 5s",
		Short: "Publish synthetic readings over MQTT",
		Long: `Publishes soil moisture, temperature and humidity for plots 1..N with a
sine pattern plus noise. Every 10th step injects out-of-range values so the
rule engine and the outlier detector have something to report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cfg.MQTT.Broker == "" {
				return fmt.Errorf("mqtt.broker is required")
			}
			sim.Topic = cfg.MQTT.Topic

			opts := mqtt.NewClientOptions().AddBroker(cfg.MQTT.Broker).SetClientID(cfg.MQTT.ClientID)
			client := mqtt.NewClient(opts)
			if token := client.Connect(); token.Wait() && token.Error() != nil {
				return fmt.Errorf("connect mqtt broker: %w", token.Error())
			}
			defer client.Disconnect(250)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return RunSimulation(ctx, &mqttPublisher{client: client}, sim, rand.New(rand.NewSource(seed)), cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&sim.Plots, "plots", 3, "number of plots, ids 1..N")
	cmd.Flags().DurationVar(&sim.Interval, "interval", 5*time.Second, "time between steps")
	cmd.Flags().DurationVar(&sim.Duration, "duration", 0, "total run time, 0 runs until interrupted")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	return cmd
}

// RunSimulation 按步发布读数，直到 ctx 取消或达到 Duration
func RunSimulation(ctx context.Context, pub Publisher, sim Simulation, rng *rand.Rand, out io.Writer) error {
	if sim.Plots <= 0 {
		return fmt.Errorf("plots must be positive")
	}
	if sim.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if sim.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sim.Duration)
		defer cancel()
	}

	ticker := time.NewTicker(sim.Interval)
	defer ticker.Stop()

	for step := 0; ; step++ {
		now := time.Now().UTC()
		for plot := 1; plot <= sim.Plots; plot++ {
			plotID := strconv.Itoa(plot)
			req := SimulatedRequest(plotID, step, now, rng)
			payload, err := json.Marshal(req)
			if err != nil {
				return err
			}
			if err := pub.Publish(fmt.Sprintf(sim.Topic, plotID), payload); err != nil {
				return fmt.Errorf("publish plot %s: %w", plotID, err)
			}
			fmt.Fprintf(out, "[SIM] step=%d plot=%s %s\n", step, plotID, describe(req))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// SimulatedRequest 生成一步读数，step 为 anomalyEvery 的倍数时注入异常
func SimulatedRequest(plotID string, step int, now time.Time, rng *rand.Rand) request.IngestReadingsRequest {
	t := float64(step)
	moisture := round2(50 + 10*math.Sin(t/5) + uniform(rng, -5, 5))
	temp := round2(25 + 5*math.Sin(t/10) + uniform(rng, -2, 2))
	hum := round2(60 + 10*math.Sin(t/7) + uniform(rng, -5, 5))

	if step%anomalyEvery == 0 {
		moisture = pick(rng, 20, 85)
		temp = pick(rng, 10, 40)
	}

	return request.IngestReadingsRequest{
		PlotID:    plotID,
		Timestamp: &now,
		Readings: []request.ReadingItem{
			{SensorType: "soil_moisture", Value: &moisture, Unit: "%"},
			{SensorType: "temperature", Value: &temp, Unit: "°C"},
			{SensorType: "humidity", Value: &hum, Unit: "%"},
		},
	}
}

func describe(req request.IngestReadingsRequest) string {
	s := ""
	for i, r := range req.Readings {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%.2f", r.SensorType, *r.Value)
	}
	return s
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func pick(rng *rand.Rand, a, b float64) float64 {
	if rng.Intn(2) == 0 {
		return a
	}
	return b
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
