// Package directory is a file-backed authorizer for deployments that keep
// their Jira credentials in a YAML file instead of Postgres.
package directory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/tally/internal/extract"
	"github.com/MikeSquared-Agency/tally/internal/jira"
)

// ErrNoAccess is returned when no site grants the user the project.
var ErrNoAccess = errors.New("no project access")

// File is the on-disk layout:
//
//	sites:
//	  - url: https://acme.atlassian.net
//	    projects: [PROJ, OPS]
//	    users:
//	      - email: alice@example.com
//	        username: alice
//	        password: api-token
type File struct {
	Sites []Site `yaml:"sites"`
}

type Site struct {
	URL      string   `yaml:"url"`
	Projects []string `yaml:"projects"`
	Users    []User   `yaml:"users"`
}

type User struct {
	Email    string `yaml:"email"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Directory answers authorization lookups from a loaded File. It is
// read-only after Load and safe for concurrent use.
type Directory struct {
	access map[string]jira.Connection // email + "/" + project key
}

// Load reads and indexes a directory file.
func Load(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	return Parse(data)
}

// Parse indexes a directory document. A user listed for the same project on
// two sites is an error, since the lookup would be ambiguous.
func Parse(data []byte) (*Directory, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing directory: %w", err)
	}

	d := &Directory{access: make(map[string]jira.Connection)}
	for i, site := range f.Sites {
		if site.URL == "" {
			return nil, fmt.Errorf("site %d: url is required", i)
		}
		for _, u := range site.Users {
			if u.Email == "" {
				return nil, fmt.Errorf("site %s: user without email", site.URL)
			}
			for _, p := range site.Projects {
				k := accessKey(u.Email, p)
				if _, dup := d.access[k]; dup {
					return nil, fmt.Errorf("%s has %s on more than one site", u.Email, strings.ToUpper(p))
				}
				d.access[k] = jira.Connection{URL: site.URL, Username: u.Username, Password: u.Password}
			}
		}
	}
	return d, nil
}

// Authorize returns the connection for the user on itemKey's project.
func (d *Directory) Authorize(_ context.Context, email, itemKey string) (jira.Connection, error) {
	project := extract.ProjectKey(itemKey)
	conn, ok := d.access[accessKey(email, project)]
	if !ok {
		return jira.Connection{}, fmt.Errorf("%w: %s on %s", ErrNoAccess, email, project)
	}
	return conn, nil
}

// Len is the number of (user, project) grants loaded.
func (d *Directory) Len() int {
	return len(d.access)
}

func accessKey(email, project string) string {
	return strings.ToLower(strings.TrimSpace(email)) + "/" + strings.ToUpper(strings.TrimSpace(project))
}
