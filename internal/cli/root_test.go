package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_InvalidFormat(t *testing.T) {
	_, err := runCommand(t, "stats", "--db", filepath.Join(t.TempDir(), "x.db"), "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRoot_UnreadableDatabaseIsCommandError(t *testing.T) {
	// A regular file in the directory position makes the path
	// unusable regardless of permissions.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := runCommand(t, "stats", "--db", filepath.Join(blocker, "x.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))
	assert.Equal(t, ExitFailure, GetExitCode(WrapExitError(ExitFailure, "boom", errors.New("inner"))))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestExitError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := WrapExitError(ExitFailure, "outer", inner)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "outer")
	assert.Contains(t, err.Error(), "inner")
}
