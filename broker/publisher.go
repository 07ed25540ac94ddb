// Package broker pushes mixer state and sensor readings to an MQTT broker
// so the device can subscribe instead of polling the REST API.
package broker

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Rakib5627/mixer-machine-server/models"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultPublishTimeout = 5 * time.Second
	disconnectQuiesceMs   = 250
	queueSize             = 64

	qosAtLeastOnce byte = 1
)

// Topic suffixes under the configured prefix.
const (
	StateTopic  = "state"
	SensorTopic = "sensor"
)

// client is the subset of pahomqtt.Client the publisher uses.
type client interface {
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	Disconnect(quiesce uint)
}

type message struct {
	topic    string
	payload  []byte
	retained bool
}

// Publisher forwards state changes to topics under a common prefix.
// Mixer state is retained so a device that reconnects gets the current
// value immediately.
//
// Messages are queued and sent in order by a single goroutine, so callers
// never wait on the broker. When the queue is full new messages are dropped.
type Publisher struct {
	client         client
	prefix         string
	logger         *slog.Logger
	publishTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan message
	done   chan struct{}
}

// Connect dials the broker and returns a ready publisher. The paho client
// reconnects on its own after the initial connection succeeds.
func Connect(brokerURL, clientID, prefix string, logger *slog.Logger) (*Publisher, error) {
	opts := pahomqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(false).
		SetConnectTimeout(defaultConnectTimeout).
		SetWriteTimeout(defaultPublishTimeout).
		SetMaxReconnectInterval(time.Minute)

	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		logger.Warn("MQTT connection lost", "broker", brokerURL, "error", err)
	})
	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		logger.Info("MQTT connected", "broker", brokerURL)
	})

	c := pahomqtt.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return New(c, prefix, logger), nil
}

// New wraps an already connected client and starts the send loop.
func New(c client, prefix string, logger *slog.Logger) *Publisher {
	p := &Publisher{
		client:         c,
		prefix:         prefix,
		logger:         logger,
		publishTimeout: defaultPublishTimeout,
		queue:          make(chan message, queueSize),
		done:           make(chan struct{}),
	}
	go p.run()
	return p
}

// Topic returns the full topic name for suffix.
func (p *Publisher) Topic(suffix string) string {
	return p.prefix + "/" + suffix
}

// MixerState publishes the retained state document.
func (p *Publisher) MixerState(st models.MixerState) {
	if err := p.Publish(p.Topic(StateTopic), st, true); err != nil {
		p.logger.Warn("Failed to publish mixer state", "state", st.State, "error", err)
	}
}

// SensorReading publishes an accepted reading.
func (p *Publisher) SensorReading(r models.SensorReading) {
	if err := p.Publish(p.Topic(SensorTopic), r, false); err != nil {
		p.logger.Warn("Failed to publish sensor reading", "error", err)
	}
}

// Publish JSON-encodes v and queues it. It returns without waiting for the
// broker; delivery failures are logged by the send loop.
func (p *Publisher) Publish(topic string, v any, retained bool) error {
	if !p.client.IsConnected() {
		return ErrNotConnected
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode payload: %w", ErrPublishFailed, err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrNotConnected
	}

	select {
	case p.queue <- message{topic: topic, payload: payload, retained: retained}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for msg := range p.queue {
		p.send(msg)
	}
}

func (p *Publisher) send(msg message) {
	token := p.client.Publish(msg.topic, qosAtLeastOnce, msg.retained, msg.payload)

	timer := time.NewTimer(p.publishTimeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			p.logger.Warn("MQTT publish failed", "topic", msg.topic, "error", fmt.Errorf("%w: %w", ErrPublishFailed, err))
		}
	case <-timer.C:
		p.logger.Warn("MQTT publish failed", "topic", msg.topic, "error", fmt.Errorf("%w: timeout after %v", ErrPublishFailed, p.publishTimeout))
	}
}

// Close stops accepting messages, lets queued ones go out and disconnects.
func (p *Publisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
	case <-time.After(p.publishTimeout):
		p.logger.Warn("MQTT queue not drained before disconnect", "pending", len(p.queue))
	}
	if p.client.IsConnected() {
		p.client.Disconnect(disconnectQuiesceMs)
	}
}
