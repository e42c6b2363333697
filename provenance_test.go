package tomlconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplicitlySet(t *testing.T) {
	type Config struct {
		Provenance

		Port int `default:"8080"`
		Host string
		Tags []string
	}
	MustRegister[Config]()

	dir := t.TempDir()
	base := writeFile(t, dir, "config.toml", "port = 80\n")
	overlays := filepath.Join(dir, "config.toml.d")
	require.NoError(t, os.Mkdir(overlays, 0o755))
	writeFile(t, overlays, "10-a.toml", "port = 8080\ntags = [\"a\"]\n")

	cfg, err := Load[Config](WithFile(base), WithOverlayDir(overlays))
	require.NoError(t, err)

	set, err := ExplicitlySet(cfg)
	require.NoError(t, err)

	assert.Contains(t, set, "port", "set twice, present once")
	assert.Contains(t, set, "tags")
	assert.NotContains(t, set, "host", "never mentioned in any document")
	assert.Len(t, set, 2)
}

func TestExplicitlySet_Snapshot(t *testing.T) {
	type Config struct {
		Provenance

		Port int
	}
	MustRegister[Config]()

	cfg := &Config{}
	require.NoError(t, Apply(cfg, map[string]any{"port": int64(80)}))

	set, err := ExplicitlySet(cfg)
	require.NoError(t, err)
	delete(set, "port")

	again, err := ExplicitlySet(cfg)
	require.NoError(t, err)
	assert.Contains(t, again, "port", "mutating the snapshot must not affect tracking")
}

func TestExplicitlySet_FreshInstance(t *testing.T) {
	type Config struct {
		Provenance

		Port int
	}
	MustRegister[Config]()

	set, err := ExplicitlySet(&Config{})
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestExplicitlySet_Unregistered(t *testing.T) {
	type foreign struct {
		Provenance
	}

	_, err := ExplicitlySet(&foreign{})
	assert.ErrorIs(t, err, ErrNotRegistered)

	_, err = ExplicitlySet(nil)
	assert.ErrorIs(t, err, ErrNotRegistered)
}
