package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/T-One/krang/internal/errors"
)

func writeRegistryFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "containers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeRegistryFile(t, `
containers:
  - name: minecraft
    address: 10.0.0.1
    port: "25565"
    credential: hunter2
  - name: valheim
    address: public
    port: "2456"
`)

	reg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, reg.Len())

	// Declaration order is preserved.
	assert.Equal(t, []string{"minecraft", "valheim"}, reg.Names())

	spec, ok := reg.Resolve("minecraft")
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1", spec.Address)
	assert.Equal(t, "25565", spec.Port)
	assert.Equal(t, "hunter2", spec.DisplayCredential())

	spec, ok = reg.Resolve("valheim")
	require.True(t, ok)
	assert.Equal(t, "N/A", spec.DisplayCredential())
}

func TestResolveCaseInsensitive(t *testing.T) {
	path := writeRegistryFile(t, `
containers:
  - name: Minecraft
    address: 10.0.0.1
    port: "25565"
`)

	reg, err := LoadFile(path)
	require.NoError(t, err)

	for _, name := range []string{"minecraft", "MINECRAFT", "MineCraft"} {
		spec, ok := reg.Resolve(name)
		require.True(t, ok, "name: %q", name)
		assert.Equal(t, "Minecraft", spec.Name)
	}
}

func TestResolveUnknown(t *testing.T) {
	path := writeRegistryFile(t, `
containers:
  - name: minecraft
    address: 10.0.0.1
    port: "25565"
`)

	reg, err := LoadFile(path)
	require.NoError(t, err)

	_, ok := reg.Resolve("doesnotexist")
	assert.False(t, ok)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrRegistryNotFound))
}

func TestLoadFileEmpty(t *testing.T) {
	path := writeRegistryFile(t, "containers: []\n")
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrRegistryParse))
}

func TestLoadFileDuplicateName(t *testing.T) {
	path := writeRegistryFile(t, `
containers:
  - name: minecraft
    address: 10.0.0.1
    port: "25565"
  - name: MINECRAFT
    address: 10.0.0.2
    port: "25566"
`)

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrRegistryDuplicate))
}

func TestLoadFileMissingName(t *testing.T) {
	path := writeRegistryFile(t, `
containers:
  - address: 10.0.0.1
    port: "25565"
`)

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrRegistryParse))
}
