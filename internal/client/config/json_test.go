package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	dir := t.TempDir()

	t.Run("overlays set fields", func(t *testing.T) {
		path := writeTempJSON(t, dir, "full.json", map[string]any{
			"server_endpoint_addr": "www.example:9000",
			"request_timeout":      "10s",
		})

		cfg := &Config{AccessToken: "kept"}
		require.NoError(t, parseJson(cfg, path))

		want := &Config{ServerEndpointAddr: "www.example:9000", AccessToken: "kept", RequestTimeout: 10 * time.Second}
		assert.Empty(t, cmp.Diff(want, cfg))
	})

	t.Run("empty path → no changes", func(t *testing.T) {
		cfg := &Config{ServerEndpointAddr: "defaults:1234"}
		require.NoError(t, parseJson(cfg, ""))
		assert.Equal(t, "defaults:1234", cfg.ServerEndpointAddr)
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, parseJson(&Config{}, filepath.Join(dir, "nope.json")))
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		assert.ErrorContains(t, parseJson(&Config{}, bad), "parse config")
	})
}
