package validation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightusd/internal/shared/testutil"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	file := testutil.WriteFile(t, "flights.csv", "price\n1\n")

	v := NewFileValidator(nil)

	assert.NoError(t, v.ValidateInputFile(file))

	err := v.ValidateInputFile(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	err = v.ValidateInputFile(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")

	assert.Error(t, v.ValidateInputFile(""))
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()
	logger, handler := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	nested := filepath.Join(dir, "a", "b", "out.csv")
	require.NoError(t, v.ValidateOutputPath(nested))
	assert.NoDirExists(t, filepath.Join(dir, "a"), "validation creates no directories")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "write check leaves nothing behind")

	err = v.ValidateOutputPath(dir)
	require.Error(t, err)
	assert.True(t, handler.ContainsMessage("Output path is a directory"))

	blocker := testutil.WriteFile(t, "blocker", "x")
	assert.Error(t, v.ValidateOutputPath(filepath.Join(blocker, "out.csv")))
	assert.Error(t, v.ValidateOutputPath(filepath.Join(blocker, "sub", "out.csv")))

	assert.Error(t, v.ValidateOutputPath(""))
}
