// Package bus wraps the external pub/sub connection. The bridge treats
// the bus as a black box: publish(topic, message) out, subscribe(topic,
// handler) in, no delivery guarantees assumed.
package bus

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/telesense/sensebridge/internal/config"
)

// Client wraps a NATS connection with minimal helpers. Subscriptions
// live for the connection's lifetime; Close drains them all.
type Client struct {
	conn *nats.Conn
}

func Connect(cfg config.BusConfig) (*Client, error) {
	if len(cfg.Servers) == 0 {
		return nil, errors.New("no bus servers configured")
	}

	options := []nats.Option{
		nats.Name("sensebridge"),
		nats.Timeout(time.Duration(cfg.ConnectTimeout) * time.Millisecond),
	}

	url := strings.Join(cfg.Servers, ",")
	conn, err := nats.Connect(url, options...)
	if err != nil {
		return nil, fmt.Errorf("connect to bus: %w", err)
	}

	log.Info().Str("module", "bus").Str("servers", url).Msg("connected to bus")
	return &Client{conn: conn}, nil
}

// subjectFor maps a topic name from the external contract (slash
// separated) onto a NATS subject (dot separated).
func subjectFor(topic string) string {
	return strings.ReplaceAll(topic, "/", ".")
}

// Publish is fire-and-forget; no acknowledgment is awaited.
func (c *Client) Publish(topic string, data []byte) error {
	return c.conn.Publish(subjectFor(topic), data)
}

// Subscribe registers handler for every message on topic. The handler
// runs on the bus client's dispatch goroutine and must not block.
func (c *Client) Subscribe(topic string, handler func(data []byte)) error {
	_, err := c.conn.Subscribe(subjectFor(topic), func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return nil
}

func (c *Client) Healthy() bool {
	return c != nil && c.conn != nil && c.conn.Status() == nats.CONNECTED
}

// Close drains the connection: pending messages on every subscription
// are handled before the connection shuts itself down. Drain is
// asynchronous, so completion is awaited, bounded.
func (c *Client) Close() {
	if c == nil || c.conn == nil {
		return
	}
	log.Info().Str("module", "bus").Msg("closing bus connection")
	if err := c.conn.Drain(); err != nil {
		log.Warn().Str("module", "bus").Err(err).Msg("drain failed, closing connection")
		c.conn.Close()
		return
	}
	deadline := time.Now().Add(3 * time.Second)
	for !c.conn.IsClosed() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !c.conn.IsClosed() {
		c.conn.Close()
	}
}
