package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	// SubjectMessage carries chat messages routed to tally by slack-forwarder.
	SubjectMessage = "swarm.slack.message.tally"
	// SubjectLogged announces a submitted work log.
	SubjectLogged = "swarm.tally.worklog.logged"
	// SubjectRecoveryPrefix + flow name hands a failed turn to a recovery flow.
	SubjectRecoveryPrefix = "swarm.tally.recovery."
	// SubjectRegistered announces the service on startup.
	SubjectRegistered = "swarm.agent.tally.registered"
)

// RecoverySubject is the subject a recovery flow listens on.
func RecoverySubject(flow string) string {
	return SubjectRecoveryPrefix + flow
}

// RecoveryEvent hands a turn to a recovery flow, e.g. re-authentication
// after Jira rejected the user's credentials.
type RecoveryEvent struct {
	TurnID    string `json:"turn_id"`
	Flow      string `json:"flow"`
	Category  string `json:"category"`
	Message   string `json:"message"`
	Error     string `json:"error"`
	UserID    string `json:"user_id"`
	UserEmail string `json:"user_email"`
	Channel   string `json:"channel"`
	ThreadTS  string `json:"thread_ts"`
}

// LoggedEvent is published after a work log was accepted.
type LoggedEvent struct {
	TurnID    string `json:"turn_id"`
	ItemKey   string `json:"item_key"`
	Started   string `json:"started"`
	TimeSpent string `json:"time_spent"`
	UserEmail string `json:"user_email"`
	Timestamp string `json:"timestamp"`
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("tally"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

// QueueSubscribe subscribes with load balancing across tally replicas, so
// each message is handled by exactly one of them.
func (c *Client) QueueSubscribe(subject, queue string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("queue subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject, "queue", queue)
	return nil
}

// Connected reports whether the NATS connection is currently up.
func (c *Client) Connected() bool {
	return c.conn.IsConnected()
}

// Drain unsubscribes and lets in-flight handlers finish before closing.
func (c *Client) Drain() error {
	return c.conn.Drain()
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
