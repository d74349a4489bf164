package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/MikeSquared-Agency/tally/internal/extract"
	"github.com/MikeSquared-Agency/tally/internal/jira"
)

// ErrNoAccess is returned when a user has no connection for a project.
var ErrNoAccess = errors.New("no project access")

// Authorize returns the Jira connection the user logs work on itemKey's
// project with.
func (s *Store) Authorize(ctx context.Context, email, itemKey string) (jira.Connection, error) {
	project := extract.ProjectKey(itemKey)

	row := s.pool.QueryRow(ctx, `
		SELECT jira_url, username, password
		FROM project_access
		WHERE email = $1 AND project_key = $2`,
		strings.ToLower(email), project,
	)

	var conn jira.Connection
	err := row.Scan(&conn.URL, &conn.Username, &conn.Password)
	if errors.Is(err, pgx.ErrNoRows) {
		return jira.Connection{}, fmt.Errorf("%w: %s on %s", ErrNoAccess, email, project)
	}
	if err != nil {
		return jira.Connection{}, fmt.Errorf("query project access: %w", err)
	}
	return conn, nil
}

// GrantAccess creates or replaces a user's connection for a project.
func (s *Store) GrantAccess(ctx context.Context, email, projectKey string, conn jira.Connection) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO project_access (id, email, project_key, jira_url, username, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (email, project_key)
		DO UPDATE SET
			jira_url = $4,
			username = $5,
			password = $6,
			updated_at = now()`,
		uuid.New(), strings.ToLower(email), strings.ToUpper(projectKey), conn.URL, conn.Username, conn.Password,
	)
	if err != nil {
		return fmt.Errorf("upsert project access: %w", err)
	}
	return nil
}

// RevokeAccess removes a user's connection for a project.
func (s *Store) RevokeAccess(ctx context.Context, email, projectKey string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM project_access WHERE email = $1 AND project_key = $2`,
		strings.ToLower(email), strings.ToUpper(projectKey),
	)
	if err != nil {
		return fmt.Errorf("delete project access: %w", err)
	}
	return nil
}
