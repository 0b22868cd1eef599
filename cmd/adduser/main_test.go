package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/audiovote/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dbArgs(t *testing.T) []string {
	t.Helper()
	return []string{"-driver", "sqlite", "-db", filepath.Join(t.TempDir(), "audiobooks.db")}
}

func TestRun_CreatesUser(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := append([]string{"-user", "dave", "-password", "secret"}, dbArgs(t)...)

	require.NoError(t, run(args, &bytes.Buffer{}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Created user dave")
}

func TestRun_Duplicate(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := append([]string{"-user", "dave", "-password", "secret"}, dbArgs(t)...)

	require.NoError(t, run(args, &bytes.Buffer{}, &stdout, &stderr))
	err := run(args, &bytes.Buffer{}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRun_PromptsForPassword(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := append([]string{"-user", "erin"}, dbArgs(t)...)

	require.NoError(t, run(args, bytes.NewBufferString("typed-secret\n"), &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Password: ")
	assert.Contains(t, stdout.String(), "Created user erin")
}

func TestRun_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := run([]string{"-password", "x"}, &bytes.Buffer{}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, stdout.String(), "Usage:")

	stdout.Reset()
	args := append([]string{"-user", "frank"}, dbArgs(t)...)
	err = run(args, &bytes.Buffer{}, &stdout, &stderr)
	require.Error(t, err, "no password on stdin")

	err = run(append([]string{"-user", "   ", "-password", "x"}, dbArgs(t)...), &bytes.Buffer{}, &stdout, &stderr)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	err = run([]string{"-user", "x", "-password", "x", "-driver", "mysql"}, &bytes.Buffer{}, &stdout, &stderr)
	assert.Error(t, err)
}
