package slack

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageEvent is a chat message received from slack-forwarder via NATS.
type MessageEvent struct {
	Text      string
	UserID    string
	UserEmail string
	UserName  string
	Channel   string
	MessageTS string
	ThreadTS  string
	BotID     string
}

// ErrNotUserMessage marks events tally must not answer, such as its own
// replies.
var ErrNotUserMessage = errors.New("not a user message")

// ParseMessageEvent parses a NATS message payload from slack-forwarder into a
// MessageEvent.
func ParseMessageEvent(data []byte) (*MessageEvent, error) {
	// The slack-forwarder publishes events with metadata in a wrapper.
	var wrapper struct {
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parse message wrapper: %w", err)
	}

	evt := &MessageEvent{
		Text:      wrapper.Metadata["text"],
		UserID:    wrapper.Metadata["user_id"],
		UserEmail: wrapper.Metadata["user_email"],
		UserName:  wrapper.Metadata["user_name"],
		Channel:   wrapper.Metadata["channel_id"],
		MessageTS: wrapper.Metadata["message_ts"],
		ThreadTS:  wrapper.Metadata["thread_ts"],
		BotID:     wrapper.Metadata["bot_id"],
	}

	if evt.BotID != "" || evt.UserID == "" {
		return evt, ErrNotUserMessage
	}
	return evt, nil
}

// ReplyTS is the thread replies to this message belong in.
func (e *MessageEvent) ReplyTS() string {
	if e.ThreadTS != "" {
		return e.ThreadTS
	}
	return e.MessageTS
}
