package worklog

import (
	"github.com/MikeSquared-Agency/tally/internal/extract"
	"github.com/MikeSquared-Agency/tally/internal/jira"
)

// The turn types below are the snapshots a message passes through. Each is
// built by one stage from the one before it, so a stage only ever sees what
// earlier stages have resolved.

// Message is the inbound chat message of a turn.
type Message struct {
	Text  string
	Email string
	Name  string
}

// Tagged is a message with its tag stream collected.
type Tagged struct {
	Message
	Stream string
}

// Targeted is a tagged message with its issue resolved to a connection.
type Targeted struct {
	Tagged
	ItemKey    string
	Connection jira.Connection
}

// Dated is a targeted message with its log day resolved.
type Dated struct {
	Targeted
	Day extract.Day
}

// Timed is a dated message with its time spent resolved; it is complete.
type Timed struct {
	Dated
	Duration extract.Duration
}

// Worklog is the record submitted for a complete turn. The full
// message text is the comment.
func (t Timed) Worklog() jira.Worklog {
	return jira.Worklog{
		Comment:   t.Text,
		Started:   t.Day.Token,
		StartedAt: t.Day.Date,
		TimeSpent: t.Duration.Token,
	}
}
