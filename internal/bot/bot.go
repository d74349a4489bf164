package bot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/tally/internal/hermes"
	"github.com/MikeSquared-Agency/tally/internal/slack"
	"github.com/MikeSquared-Agency/tally/internal/worklog"
)

// Runner runs one turn of the work-log pipeline.
type Runner interface {
	Run(ctx context.Context, turnID string, msg worklog.Message) worklog.Outcome
}

// Replier posts into a chat thread.
type Replier interface {
	PostReply(ctx context.Context, channel, threadTS, text string) (string, error)
}

// Publisher sends an event on the bus.
type Publisher interface {
	Publish(subject string, data any) error
}

// Bot answers hashtagged chat messages with work logs.
type Bot struct {
	pipeline Runner
	replier  Replier
	bus      Publisher
	logger   *slog.Logger
	newID    func() string
}

// New builds a Bot. replier and bus may be nil; the turn still runs and its
// outcome is only logged.
func New(pipeline Runner, replier Replier, bus Publisher, logger *slog.Logger) *Bot {
	return &Bot{
		pipeline: pipeline,
		replier:  replier,
		bus:      bus,
		logger:   logger,
		newID:    func() string { return uuid.New().String() },
	}
}

// HandleMessage is the NATS handler for swarm.slack.message.tally.
func (b *Bot) HandleMessage(subject string, data []byte) {
	evt, err := slack.ParseMessageEvent(data)
	if errors.Is(err, slack.ErrNotUserMessage) {
		return
	}
	if err != nil {
		b.logger.Warn("failed to parse message event", "subject", subject, "error", err)
		return
	}
	b.Handle(context.Background(), evt)
}

// Handle runs one turn for evt and reports every signal back into the
// message's thread.
func (b *Bot) Handle(ctx context.Context, evt *slack.MessageEvent) worklog.Outcome {
	turnID := b.newID()
	msg := worklog.Message{Text: evt.Text, Email: evt.UserEmail, Name: evt.UserName}

	out := b.pipeline.Run(ctx, turnID, msg)

	for _, sig := range out.Signals() {
		b.reply(ctx, evt, turnID, sig.Text)
	}

	switch out.Final.Kind {
	case worklog.SignalSuccess:
		b.publishLogged(evt, out)
	case worklog.SignalHandoff:
		b.publishRecovery(evt, out)
	}
	return out
}

func (b *Bot) reply(ctx context.Context, evt *slack.MessageEvent, turnID, text string) {
	if b.replier == nil || text == "" {
		return
	}
	if _, err := b.replier.PostReply(ctx, evt.Channel, evt.ReplyTS(), text); err != nil {
		b.logger.Error("failed to post reply", "turn_id", turnID, "channel", evt.Channel, "error", err)
	}
}

func (b *Bot) publishLogged(evt *slack.MessageEvent, out worklog.Outcome) {
	if b.bus == nil || out.Worklog == nil {
		return
	}
	payload := hermes.LoggedEvent{
		TurnID:    out.TurnID,
		ItemKey:   out.ItemKey,
		Started:   out.Worklog.Started,
		TimeSpent: out.Worklog.TimeSpent,
		UserEmail: evt.UserEmail,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := b.bus.Publish(hermes.SubjectLogged, payload); err != nil {
		b.logger.Warn("failed to publish worklog event", "turn_id", out.TurnID, "error", err)
	}
}

func (b *Bot) publishRecovery(evt *slack.MessageEvent, out worklog.Outcome) {
	if b.bus == nil {
		return
	}
	payload := hermes.RecoveryEvent{
		TurnID:    out.TurnID,
		Flow:      out.Final.Flow,
		Category:  string(out.Final.Category),
		Message:   evt.Text,
		UserID:    evt.UserID,
		UserEmail: evt.UserEmail,
		Channel:   evt.Channel,
		ThreadTS:  evt.ReplyTS(),
	}
	if out.Final.Err != nil {
		payload.Error = out.Final.Err.Error()
	}
	subject := hermes.RecoverySubject(out.Final.Flow)
	if err := b.bus.Publish(subject, payload); err != nil {
		b.logger.Error("failed to hand off turn", "turn_id", out.TurnID, "subject", subject, "error", err)
		return
	}
	b.logger.Info("turn handed off", "turn_id", out.TurnID, "flow", out.Final.Flow)
}
