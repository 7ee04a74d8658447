package userconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingFileReturnsZeroValue(t *testing.T) {
	dir := t.TempDir()
	d, err := loadFrom(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults{}, d)
}

func TestLoadFromParsesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("makefile: Buildfile\nkeepGoing: true\n"), 0644))

	d, err := loadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "Buildfile", d.Makefile)
	assert.True(t, d.KeepGoing)
}

func TestLoadFromMalformedFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: valid: yaml: ["), 0644))

	_, err := loadFrom(path)
	assert.Error(t, err)
}
