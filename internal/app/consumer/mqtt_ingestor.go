package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"cropwatch/internal/app/config"
	"cropwatch/internal/app/domains/apimodel/request"
	"cropwatch/internal/app/domains/entity/etplot"
	"cropwatch/internal/app/domains/entity/etreading"
	"cropwatch/internal/app/domains/services/svplot"
	"cropwatch/internal/app/pkg/ginx"
	"cropwatch/internal/app/pkg/logger"
	corelog "cropwatch/pkg/logger"
)

const (
	connectTimeout  = 10 * time.Second
	disconnectQuiet = 250 // 毫秒
)

// ErrPlotMismatch topic 与消息体中的地块不一致
var ErrPlotMismatch = errors.New("plot_id does not match topic")

// ReadingIngester 读数写入（svplot.PlotService）
type ReadingIngester interface {
	IngestReadings(ctx context.Context, plotID int64, inputs []svplot.ReadingInput, source string) ([]*etreading.Reading, error)
}

// MQTTIngestor 订阅 plots/<id>/readings 并写入读数
// 消息体与 POST /readings 相同，plot_id 缺省时取自 topic
type MQTTIngestor struct {
	client   mqtt.Client
	topic    string
	qos      byte
	ingester ReadingIngester
	logger   logger.Logger
}

// NewMQTTIngestor 创建 MQTT 接入，断线重连后自动重新订阅
func NewMQTTIngestor(cfg config.MQTTConfig, ingester ReadingIngester, log logger.Logger) (*MQTTIngestor, error) {
	if err := ginx.RegisterValidators(); err != nil {
		return nil, err
	}

	i := &MQTTIngestor{
		topic:    cfg.Topic,
		qos:      cfg.QoS,
		ingester: ingester,
		logger:   log,
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetOnConnectHandler(i.onConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn("MQTT connection lost", "broker", cfg.Broker, "error", err)
		})
	i.client = mqtt.NewClient(opts)
	return i, nil
}

// Start 连接 broker 并阻塞到 ctx 取消
func (i *MQTTIngestor) Start(ctx context.Context) error {
	token := i.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		i.logger.Warn("MQTT connect still pending, retrying in background", "topic", i.topic)
	} else if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect failed: %w", err)
	}

	<-ctx.Done()
	i.client.Disconnect(disconnectQuiet)
	i.logger.Info("MQTT ingestor stopped")
	return nil
}

func (i *MQTTIngestor) onConnect(client mqtt.Client) {
	token := client.Subscribe(i.topic, i.qos, i.onMessage)
	if token.Wait() && token.Error() != nil {
		i.logger.Error("MQTT subscribe failed", "topic", i.topic, "error", token.Error())
		return
	}
	i.logger.Info("MQTT subscribed", "topic", i.topic, "qos", i.qos)
}

func (i *MQTTIngestor) onMessage(_ mqtt.Client, msg mqtt.Message) {
	ctx := corelog.WithTraceID(context.Background(), uuid.New().String())
	stored, err := i.HandleMessage(ctx, msg.Topic(), msg.Payload())
	if err != nil {
		i.logger.WarnContext(ctx, "Drop MQTT readings", "topic", msg.Topic(), "error", err)
		return
	}
	i.logger.DebugContext(ctx, "MQTT readings stored", "topic", msg.Topic(), "stored", stored)
}

// HandleMessage 解析、校验并写入一条 MQTT 消息，返回写入条数
func (i *MQTTIngestor) HandleMessage(ctx context.Context, topic string, payload []byte) (int, error) {
	var req request.IngestReadingsRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return 0, fmt.Errorf("decode payload failed: %w", err)
	}

	topicPlot := plotIDFromTopic(topic)
	switch {
	case req.PlotID == "":
		req.PlotID = topicPlot
	case topicPlot != "" && topicPlot != req.PlotID:
		return 0, ErrPlotMismatch
	}

	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return 0, fmt.Errorf("invalid payload: %w", err)
	}
	plotID, ok := etplot.ParseID(req.PlotID)
	if !ok {
		return 0, fmt.Errorf("invalid plot_id %q", req.PlotID)
	}

	readings, err := i.ingester.IngestReadings(ctx, plotID, req.ToInputs(), etreading.SourceMQTT)
	if err != nil {
		return 0, err
	}
	return len(readings), nil
}

// plotIDFromTopic 从 plots/<id>/readings 中取地块 ID
func plotIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) == 3 && parts[0] == "plots" && parts[2] == "readings" {
		return parts[1]
	}
	return ""
}
