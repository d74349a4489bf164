package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StartedLayout is the timestamp format Jira expects for a worklog start.
const StartedLayout = "2006-01-02T15:04:05.000-0700"

// Connection is where and as whom a work log is submitted.
type Connection struct {
	URL      string `json:"url" yaml:"url"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"-" yaml:"password"`
}

// Worklog is the record added to an issue.
type Worklog struct {
	Comment string `json:"comment"`
	// Started is the start token as the user gave it; StartedAt is the
	// calendar day it resolved to and is what Jira receives.
	Started   string    `json:"started"`
	StartedAt time.Time `json:"started_at"`
	TimeSpent string    `json:"time_spent"`
}

// StatusError is returned when Jira answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("jira returned %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	client *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{client: &http.Client{Timeout: timeout}}
}

type worklogRequest struct {
	Comment   string `json:"comment"`
	Started   string `json:"started"`
	TimeSpent string `json:"timeSpent"`
}

// AddWorklog adds a work log to an issue. It makes exactly one request.
func (c *Client) AddWorklog(ctx context.Context, conn Connection, issueKey string, wl Worklog) error {
	body, err := json.Marshal(worklogRequest{
		Comment:   wl.Comment,
		Started:   wl.StartedAt.Format(StartedLayout),
		TimeSpent: wl.TimeSpent,
	})
	if err != nil {
		return fmt.Errorf("marshal worklog: %w", err)
	}

	endpoint := strings.TrimSuffix(conn.URL, "/") + "/rest/api/2/issue/" + url.PathEscape(issueKey) + "/worklog"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(conn.Username, conn.Password)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("jira call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: errorText(respBody)}
	}
	return nil
}

// errorText pulls Jira's error messages out of a response body, falling
// back to the raw body.
func errorText(body []byte) string {
	var errResp struct {
		ErrorMessages []string          `json:"errorMessages"`
		Errors        map[string]string `json:"errors"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		msgs := append([]string{}, errResp.ErrorMessages...)
		for field, msg := range errResp.Errors {
			msgs = append(msgs, field+": "+msg)
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return strings.TrimSpace(string(body))
}
