package mqttpub

import (
	"encoding/json"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sqrtt/damua-go/config"
	"github.com/sqrtt/damua-go/readings"
)

// Publisher pushes price readings to an MQTT broker so home automation
// systems can subscribe to them directly.
type Publisher struct {
	client mqtt.Client
	logger *slog.Logger
	prefix string
}

func New(cnfg config.AppConfigMqtt) *Publisher {
	logger := slog.Default().With("module", "mqtt")

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cnfg.Host, cnfg.Port))
	opts.SetClientID("damua")
	opts.SetUsername(cnfg.Username)
	opts.SetPassword(cnfg.Password)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("MQTT connected")
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", slog.Any("error", err))
	}

	mqtt.CRITICAL = newPahoLogger(logger, slog.LevelError)
	mqtt.ERROR = newPahoLogger(logger, slog.LevelError)
	mqtt.WARN = newPahoLogger(logger, slog.LevelWarn)

	return &Publisher{
		client: mqtt.NewClient(opts),
		logger: logger,
		prefix: cnfg.GetTopicPrefix(),
	}
}

func (p *Publisher) Connect() error {
	p.logger.Debug("connecting MQTT client")
	if token := p.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (p *Publisher) Disconnect() {
	p.client.Disconnect(250)
}

// PublishReadings pushes every reading to <prefix>/<kind> as JSON,
// retained so late subscribers see the latest value.
func (p *Publisher) PublishReadings(rds map[readings.Kind]readings.Reading) {
	for kind, r := range rds {
		payload, err := json.Marshal(r)
		if err != nil {
			p.logger.Error("marshalling reading failed", slog.String("kind", kind.String()), slog.Any("error", err))
			continue
		}
		topic := fmt.Sprintf("%s/%s", p.prefix, kind)
		if token := p.client.Publish(topic, 0, true, payload); token.Wait() && token.Error() != nil {
			p.logger.Warn("publish failed", slog.String("topic", topic), slog.Any("error", token.Error()))
		}
	}
}
