package extract

import "errors"

// Input errors. Each names the field the message left unclear and ends the
// turn; none of them is retried.
var (
	ErrNoTask            = errors.New("no hashtags in message")
	ErrAmbiguousTask     = errors.New("missing or ambiguous task")
	ErrAmbiguousDay      = errors.New("ambiguous day")
	ErrAmbiguousDuration = errors.New("ambiguous duration")
)
