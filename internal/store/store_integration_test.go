//go:build integration

package store

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/tally/internal/jira"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestIntegration_GrantAndAuthorize(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	email := "it-" + uuid.New().String()[:8] + "@example.com"

	conn := jira.Connection{URL: "https://acme.atlassian.net", Username: "alice", Password: "s3cret"}
	if err := s.GrantAccess(ctx, email, "proj", conn); err != nil {
		t.Fatalf("GrantAccess failed: %v", err)
	}
	t.Cleanup(func() {
		s.RevokeAccess(ctx, email, "PROJ")
	})

	// Email case and key case do not matter.
	got, err := s.Authorize(ctx, "IT"+email[2:], "proj-42")
	if err != nil {
		t.Fatalf("Authorize failed: %v", err)
	}
	if got != conn {
		t.Errorf("expected %+v, got %+v", conn, got)
	}

	// Granting again replaces the connection.
	conn.Password = "rotated"
	if err := s.GrantAccess(ctx, email, "PROJ", conn); err != nil {
		t.Fatalf("GrantAccess (update) failed: %v", err)
	}
	got, err = s.Authorize(ctx, email, "PROJ-1")
	if err != nil {
		t.Fatalf("Authorize after update failed: %v", err)
	}
	if got.Password != "rotated" {
		t.Errorf("expected rotated password, got %q", got.Password)
	}
}

func TestIntegration_AuthorizeWithoutAccess(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Authorize(context.Background(), "nobody-"+uuid.New().String()[:8]+"@example.com", "PROJ-1")
	if !errors.Is(err, ErrNoAccess) {
		t.Fatalf("expected ErrNoAccess, got %v", err)
	}
}

func TestIntegration_RevokeAccess(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	email := "revoke-" + uuid.New().String()[:8] + "@example.com"

	conn := jira.Connection{URL: "https://acme.atlassian.net", Username: "bob", Password: "pw"}
	if err := s.GrantAccess(ctx, email, "OPS", conn); err != nil {
		t.Fatalf("GrantAccess failed: %v", err)
	}
	if err := s.RevokeAccess(ctx, email, "ops"); err != nil {
		t.Fatalf("RevokeAccess failed: %v", err)
	}

	_, err := s.Authorize(ctx, email, "OPS-9")
	if !errors.Is(err, ErrNoAccess) {
		t.Fatalf("expected ErrNoAccess after revoke, got %v", err)
	}
}

func TestIntegration_RevokeAccessWrapsErrors(t *testing.T) {
	s := setupTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.RevokeAccess(ctx, "alice@example.com", "PROJ")
	if err == nil {
		t.Fatal("expected error on cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected wrapped context.Canceled, got %v", err)
	}
	if !strings.Contains(err.Error(), "delete project access") {
		t.Errorf("expected wrapped error, got %v", err)
	}
}
