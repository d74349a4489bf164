package slack

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPostReply_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer xoxb-test" {
			t.Errorf("expected Bearer xoxb-test, got %q", r.Header.Get("Authorization"))
		}

		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		json.Unmarshal(body, &payload)

		if payload["channel"] != "C123" {
			t.Errorf("expected channel C123, got %v", payload["channel"])
		}
		if payload["thread_ts"] != "1111.2222" {
			t.Errorf("expected thread_ts 1111.2222, got %v", payload["thread_ts"])
		}
		if payload["text"] != "(y) Logged" {
			t.Errorf("unexpected text %v", payload["text"])
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"ts": "1234567890.123456",
		})
	}))
	defer server.Close()

	p := NewPoster("xoxb-test", discardLogger())
	p.apiURL = server.URL

	ts, err := p.PostReply(context.Background(), "C123", "1111.2222", "(y) Logged")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts != "1234567890.123456" {
		t.Errorf("expected ts 1234567890.123456, got %q", ts)
	}
}

func TestPostReply_NoThread(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		if _, ok := payload["thread_ts"]; ok {
			t.Errorf("expected no thread_ts, got %v", payload["thread_ts"])
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "ts": "1.0"})
	}))
	defer server.Close()

	p := NewPoster("xoxb-test", discardLogger())
	p.apiURL = server.URL

	if _, err := p.PostReply(context.Background(), "C123", "", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPostReply_SlackError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"ok":    false,
			"error": "channel_not_found",
		})
	}))
	defer server.Close()

	p := NewPoster("xoxb-test", discardLogger())
	p.apiURL = server.URL

	_, err := p.PostReply(context.Background(), "C123", "1.0", "hello")
	if err == nil {
		t.Fatal("expected error for slack error response")
	}
}
