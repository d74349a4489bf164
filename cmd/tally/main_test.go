package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/tally/internal/extract"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseCmd(t *testing.T) {
	out, err := runCmd(t, "parse", "--date", "2024-03-01", "Fixed the bug #PROJ-1234 #yday #1.5h")
	require.NoError(t, err)

	var got struct {
		ItemKey string `json:"item_key"`
		Day     struct {
			Token string `json:"token"`
		} `json:"day"`
		Duration struct {
			Token string `json:"token"`
		} `json:"duration"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "PROJ-1234", got.ItemKey)
	assert.Equal(t, "29-2", got.Day.Token)
	assert.Equal(t, "1.5h", got.Duration.Token)
}

func TestParseCmd_Rejected(t *testing.T) {
	_, err := runCmd(t, "parse", "no tags here")
	assert.ErrorIs(t, err, extract.ErrNoTask)
}

func TestParseCmd_BadDate(t *testing.T) {
	_, err := runCmd(t, "parse", "--date", "yesterday", "#PROJ-1")
	assert.Error(t, err)
}

func TestServeCmd_RequiresAuthorizer(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TALLY_DIRECTORY", "")
	t.Setenv("LOG_LEVEL", "error")

	_, err := runCmd(t, "serve")
	assert.ErrorContains(t, err, "TALLY_DIRECTORY")
}
