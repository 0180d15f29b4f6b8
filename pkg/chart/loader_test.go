package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mserrors "github.com/openebs/mayastor-upgrade/pkg/errors"
)

func writeChartDir(t *testing.T, manifest, values string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFileName), []byte(manifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ValuesFileName), []byte(values), 0o644))
	return dir
}

func TestFromDirectory(t *testing.T) {
	dir := writeChartDir(t, "name: mayastor\nversion: 2.7.1\n", umbrellaWithCapacity)

	c, u, err := FromDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, "mayastor", c.Name())
	assert.Equal(t, "2.7.1", c.Version().String())
	assert.Equal(t, "v2.7.1", u.ImageTag())
}

func TestFromDirectory_MissingManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ValuesFileName), []byte(umbrellaWithCapacity), 0o644))

	_, _, err := FromDirectory(dir)
	require.Error(t, err)
	assert.False(t, mserrors.IsSchema(err), "a missing file is an I/O failure, not a schema failure")
}

func TestFromDirectory_SchemaErrorSurfacesPath(t *testing.T) {
	dir := writeChartDir(t, "name: mayastor\nversion: 2.7.1\n", "mayastor: {}\n")

	_, _, err := FromDirectory(dir)
	require.Error(t, err)
	assert.True(t, mserrors.IsSchema(err))
	assert.Contains(t, err.Error(), ValuesFileName)
}
