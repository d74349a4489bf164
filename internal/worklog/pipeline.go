package worklog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MikeSquared-Agency/tally/internal/extract"
	"github.com/MikeSquared-Agency/tally/internal/jira"
	"github.com/MikeSquared-Agency/tally/internal/metrics"
)

// Authorizer maps a user and an issue to the connection used to log work on
// it.
type Authorizer interface {
	Authorize(ctx context.Context, email, itemKey string) (jira.Connection, error)
}

// Submitter adds a work log to an issue.
type Submitter interface {
	AddWorklog(ctx context.Context, conn jira.Connection, itemKey string, wl jira.Worklog) error
}

const defaultCallTimeout = 15 * time.Second

// Pipeline turns one hashtagged message into a submitted work log. Stages
// run strictly in order and the first one to reject the message ends the
// turn. A Pipeline holds no per-turn state and is safe for concurrent use.
type Pipeline struct {
	auth        Authorizer
	submitter   Submitter
	logger      *slog.Logger
	callTimeout time.Duration
	now         func() time.Time
}

type Option func(*Pipeline)

// WithClock sets the clock relative days are resolved against.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithCallTimeout bounds each authorization and submission call.
func WithCallTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.callTimeout = d
		}
	}
}

func New(auth Authorizer, submitter Submitter, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		auth:        auth,
		submitter:   submitter,
		logger:      logger,
		callTimeout: defaultCallTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes one turn. It always returns an Outcome; failures are
// reported through its terminal signal, not as an error.
func (p *Pipeline) Run(ctx context.Context, turnID string, msg Message) Outcome {
	out := Outcome{TurnID: turnID}
	log := p.logger.With("turn_id", turnID)

	tagged, err := collect(msg)
	if err != nil {
		return p.finish(log, out, failure(CategoryNoTask, textNoTask, err))
	}
	log.Debug("tags collected", "tag_stream", tagged.Stream)

	targeted, sig := p.target(ctx, log, tagged)
	if sig != nil {
		return p.finish(log, out, *sig)
	}
	out.ItemKey = targeted.ItemKey

	dated, err := p.date(targeted)
	if err != nil {
		return p.finish(log, out, failure(CategoryAmbiguousDay, textAmbiguousDay, err))
	}
	if dated.Day.Defaulted {
		metrics.RecordDefault("day")
		out.Notices = append(out.Notices, notice(CategoryDefaultDay, textDefaultDay))
	}

	timed, err := timeSpent(dated)
	if err != nil {
		return p.finish(log, out, failure(CategoryAmbiguousDuration, textAmbiguousDuration, err))
	}
	if timed.Duration.Defaulted {
		metrics.RecordDefault("duration")
		out.Notices = append(out.Notices, notice(CategoryDefaultDuration, textDefaultDuration))
	}

	wl := timed.Worklog()
	out.Worklog = &wl

	if err := p.submit(ctx, timed, wl); err != nil {
		return p.finish(log, out, classifySubmitError(err, msg.Name))
	}
	return p.finish(log, out, success(timed))
}

func collect(msg Message) (Tagged, error) {
	stream, err := extract.CollectTags(msg.Text)
	if err != nil {
		return Tagged{}, err
	}
	return Tagged{Message: msg, Stream: stream}, nil
}

// target finds the issue key and asks the authorizer where to log it.
func (p *Pipeline) target(ctx context.Context, log *slog.Logger, t Tagged) (Targeted, *Signal) {
	key, err := extract.FindItemKey(t.Stream)
	if err != nil {
		sig := failure(CategoryAmbiguousTask, textAmbiguousTask, err)
		return Targeted{}, &sig
	}

	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	start := time.Now()
	conn, err := p.auth.Authorize(callCtx, t.Email, key)
	metrics.RecordCall("authorize", start, err)
	if err != nil {
		log.Warn("authorization failed", "item_key", key, "email", t.Email, "error", err)
		sig := handoff(CategoryUnavailable, FlowUnavailable, textUnavailable, fmt.Errorf("authorize %s: %w", key, err))
		return Targeted{}, &sig
	}
	log.Info("project resolved", "item_key", key, "url", conn.URL)

	return Targeted{Tagged: t, ItemKey: key, Connection: conn}, nil
}

func (p *Pipeline) date(t Targeted) (Dated, error) {
	day, err := extract.ResolveDate(t.Stream, p.now())
	if err != nil {
		return Dated{}, err
	}
	return Dated{Targeted: t, Day: day}, nil
}

func timeSpent(d Dated) (Timed, error) {
	dur, err := extract.ResolveDuration(d.Stream)
	if err != nil {
		return Timed{}, err
	}
	return Timed{Dated: d, Duration: dur}, nil
}

func (p *Pipeline) submit(ctx context.Context, t Timed, wl jira.Worklog) error {
	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	start := time.Now()
	err := p.submitter.AddWorklog(callCtx, t.Connection, t.ItemKey, wl)
	metrics.RecordCall("submit", start, err)
	return err
}

// classifySubmitError maps a failed submission to what the user is told
// and which recovery flow, if any, takes over.
func classifySubmitError(err error, name string) Signal {
	var se *jira.StatusError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case http.StatusUnauthorized:
			return handoff(CategoryReauth, FlowReauth, reauthText(name), err)
		case http.StatusNotFound:
			return handoff(CategoryUnavailable, FlowUnavailable, textUnavailable, err)
		}
	}
	return failure(CategoryRetryLater, textRetryLater, err)
}

func (p *Pipeline) finish(log *slog.Logger, out Outcome, final Signal) Outcome {
	out.Final = final
	metrics.RecordTurn(string(final.Category))

	attrs := []any{"kind", string(final.Kind), "category", string(final.Category)}
	if out.ItemKey != "" {
		attrs = append(attrs, "item_key", out.ItemKey)
	}
	switch {
	case final.Err == nil:
		log.Info("turn finished", attrs...)
	case final.Kind == SignalFailure && final.Category != CategoryRetryLater:
		log.Info("turn rejected", append(attrs, "reason", final.Err.Error())...)
	default:
		log.Error("turn failed", append(attrs, "error", final.Err)...)
	}
	return out
}
