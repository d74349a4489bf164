package worklog

import (
	"fmt"

	"github.com/MikeSquared-Agency/tally/internal/jira"
)

// SignalKind is what the transport should do with a signal.
type SignalKind string

const (
	SignalNotice  SignalKind = "notice"  // tell the user, keep going
	SignalSuccess SignalKind = "success" // turn finished, work logged
	SignalFailure SignalKind = "failure" // turn finished, nothing logged
	SignalHandoff SignalKind = "handoff" // turn finished, recovery flow takes over
)

// Category classifies why a turn ended, or what a notice is about.
type Category string

const (
	CategoryLogged            Category = "logged"
	CategoryNoTask            Category = "no_task"
	CategoryAmbiguousTask     Category = "ambiguous_task"
	CategoryAmbiguousDay      Category = "ambiguous_day"
	CategoryAmbiguousDuration Category = "ambiguous_duration"
	CategoryUnavailable       Category = "unavailable"
	CategoryReauth            Category = "reauth"
	CategoryRetryLater        Category = "retry_later"
	CategoryDefaultDay        Category = "default_day"
	CategoryDefaultDuration   Category = "default_duration"
)

// Recovery flows a handoff routes to.
const (
	FlowReauth      = "reauth"
	FlowUnavailable = "unavailable"
)

// Signal is one message from the pipeline to the transport. Err is kept for
// diagnostics only; Text is what the user sees and never includes it.
type Signal struct {
	Kind     SignalKind
	Category Category
	Text     string
	Flow     string
	Err      error
}

// Outcome is the result of one turn: any notices, in the order they were
// raised, then exactly one terminal signal.
type Outcome struct {
	TurnID  string
	Notices []Signal
	Final   Signal
	// Set once the turn got far enough to know them.
	ItemKey string
	Worklog *jira.Worklog
}

// Logged reports whether the work log was submitted.
func (o Outcome) Logged() bool {
	return o.Final.Kind == SignalSuccess
}

// Signals returns the notices followed by the terminal signal.
func (o Outcome) Signals() []Signal {
	return append(append([]Signal{}, o.Notices...), o.Final)
}

const (
	textNoTask            = "Sorry! I don't know *what task* to log."
	textAmbiguousTask     = "Sorry! I don't know *which task* to log."
	textAmbiguousDay      = "Sorry! I don't know *which day* to log."
	textAmbiguousDuration = "Sorry! I don't know *how much time* to log."
	textDefaultDay        = "You didn't mention which day to log. I'm logging this as *#Today*."
	textDefaultDuration   = "You didn't mention how much time to log. I'm logging this as a *Whole Day*."
	textUnavailable       = "Oops! Couldn't contact JIRA! Shame on us."
	textRetryLater        = "Oops! Something went wrong. Shame on us. Let's try again in a few minutes."
)

func notice(c Category, text string) Signal {
	return Signal{Kind: SignalNotice, Category: c, Text: text}
}

func failure(c Category, text string, err error) Signal {
	return Signal{Kind: SignalFailure, Category: c, Text: text, Err: err}
}

func handoff(c Category, flow, text string, err error) Signal {
	return Signal{Kind: SignalHandoff, Category: c, Flow: flow, Text: text, Err: err}
}

func success(t Timed) Signal {
	return Signal{
		Kind:     SignalSuccess,
		Category: CategoryLogged,
		Text:     fmt.Sprintf("(y) Logged *%s* on *%s* for %s.", t.Duration.Token, t.ItemKey, t.Day.Token),
	}
}

func reauthText(name string) string {
	if name == "" {
		return "Oops! Your JIRA credentials are no longer working."
	}
	return fmt.Sprintf("Oops! Your JIRA credentials are no longer working, %s.", name)
}
