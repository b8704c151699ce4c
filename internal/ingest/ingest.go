// Package ingest stores impact entries published over MQTT.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/climatiqq/climatiqq/internal/config"
	"github.com/climatiqq/climatiqq/internal/impact"
)

// EntryStore is the storage the handler writes to.
type EntryStore interface {
	InsertEntry(r *impact.Record) (int64, error)
}

// Handler decodes and stores one message per call. Payloads use the same
// shape as POST /api/entries. A message on <topic>/<user> without a user
// field is attributed to <user>.
type Handler struct {
	store       EntryStore
	topic       string
	defaultUser string
	now         func() time.Time
}

// NewHandler returns a Handler writing to store. topic is the base topic
// the subscriber listens on.
func NewHandler(store EntryStore, topic, defaultUser string) *Handler {
	return &Handler{
		store:       store,
		topic:       strings.TrimSuffix(topic, "/"),
		defaultUser: defaultUser,
		now:         time.Now,
	}
}

// Handle stores the entry carried by payload and returns its ID.
func (h *Handler) Handle(topic string, payload []byte) (int64, error) {
	var in impact.Input
	if err := json.Unmarshal(payload, &in); err != nil {
		return 0, fmt.Errorf("decoding payload: %w", err)
	}
	if in.User == "" {
		in.User = h.userFromTopic(topic)
	}

	rec, err := in.Record(h.defaultUser, h.now())
	if err != nil {
		return 0, err
	}
	id, err := h.store.InsertEntry(&rec)
	if err != nil {
		return 0, fmt.Errorf("storing entry: %w", err)
	}
	return id, nil
}

func (h *Handler) userFromTopic(topic string) string {
	rest, ok := strings.CutPrefix(topic, h.topic+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}

// Subscriber connects to the broker and feeds every message to a Handler.
type Subscriber struct {
	cfg     config.MQTT
	handler *Handler
	log     zerolog.Logger
}

// NewSubscriber returns a Subscriber for cfg.
func NewSubscriber(cfg config.MQTT, handler *Handler, log zerolog.Logger) *Subscriber {
	return &Subscriber{
		cfg:     cfg,
		handler: handler,
		log:     log.With().Str("component", "ingest").Logger(),
	}
}

// filters returns the base topic and its single-level user wildcard.
func (s *Subscriber) filters() map[string]byte {
	base := strings.TrimSuffix(s.cfg.Topic, "/")
	qos := byte(s.cfg.QoS)
	return map[string]byte{
		base:        qos,
		base + "/+": qos,
	}
}

func (s *Subscriber) onMessage(_ mqtt.Client, msg mqtt.Message) {
	id, err := s.handler.Handle(msg.Topic(), msg.Payload())
	if err != nil {
		s.log.Error().Err(err).Str("topic", msg.Topic()).Msg("ingest failed")
		return
	}
	s.log.Debug().Int64("id", id).Str("topic", msg.Topic()).Msg("entry stored")
}

// Run connects, subscribes, and blocks until ctx is done. Subscriptions are
// renewed after every reconnect.
func (s *Subscriber) Run(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(s.cfg.Broker).
		SetClientID(s.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			s.log.Warn().Err(err).Msg("mqtt connection lost")
		}).
		SetOnConnectHandler(func(c mqtt.Client) {
			if token := c.SubscribeMultiple(s.filters(), s.onMessage); token.Wait() && token.Error() != nil {
				s.log.Error().Err(token.Error()).Msg("subscribe failed")
				return
			}
			s.log.Info().Str("topic", s.cfg.Topic).Msg("subscribed")
		})
	if s.cfg.Username != "" {
		opts.SetUsername(s.cfg.Username).SetPassword(s.cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connecting to %s: %w", s.cfg.Broker, token.Error())
	}
	defer client.Disconnect(250)

	s.log.Info().Str("broker", s.cfg.Broker).Msg("ingest running")
	<-ctx.Done()
	return nil
}
