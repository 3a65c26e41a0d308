// Package broker publishes carbon-intensity readings to MQTT.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/domain"
	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/service"
)

const publishTimeout = 5 * time.Second

// Client is the part of mqtt.Client the publisher uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Message is the JSON payload for one reading.
type Message struct {
	Zone               string       `json:"zone"`
	CarbonIntensity    domain.Value `json:"carbonIntensity"`
	Datetime           domain.Value `json:"datetime"`
	EmissionFactorType domain.Value `json:"emissionFactorType"`
	ObservedAt         time.Time    `json:"observedAt"`
}

type Publisher struct {
	client Client
	prefix string
}

// Connect dials the broker.
func Connect(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID(clientID)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return client, nil
}

func NewPublisher(client Client, prefix string) *Publisher {
	return &Publisher{client: client, prefix: strings.Trim(prefix, "/")}
}

// Topic returns <prefix>/<zone>/carbon-intensity. The zone must fit in a
// single topic level; separators and wildcards are rejected.
func (p *Publisher) Topic(zone string) (string, error) {
	if zone == "" || strings.ContainsAny(zone, "/+#\x00") {
		return "", fmt.Errorf("zone %q is not a valid topic level", zone)
	}
	return p.prefix + "/" + zone + "/carbon-intensity", nil
}

// ObserveLookup publishes successful carbon-intensity readings and ignores
// every other event.
func (p *Publisher) ObserveLookup(_ context.Context, ev service.LookupEvent) error {
	if !ev.OK || ev.Reading == nil {
		return nil
	}
	topic, err := p.Topic(ev.Zone)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(Message{
		Zone:               ev.Zone,
		CarbonIntensity:    ev.Reading.Intensity,
		Datetime:           ev.Reading.Datetime,
		EmissionFactorType: ev.Reading.EmissionFactorType,
		ObservedAt:         ev.At.UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode reading: %w", err)
	}

	token := p.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	log.Debug().Str("topic", topic).Msg("reading published")
	return nil
}
