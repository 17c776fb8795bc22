// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/insight-engine/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "  ak_abc123  \n")
				writeFile(t, dir, "ollama-endpoint", "http://gpu-box:11434\n")
				return dir
			},
			want: map[string]string{
				"anthropic-api-key": "ak_abc123",
				"ollama-endpoint":   "http://gpu-box:11434",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "valid-key")
				writeFile(t, dir, "empty-key", "   \n\t  ")
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"anthropic-api-key": "valid-key",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"good-key": "value123"}, got)
}

func TestLoadEnvFile(t *testing.T) {
	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("INSIGHT_ENGINE_TEST_DOTENV=from-file\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("INSIGHT_ENGINE_TEST_DOTENV") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("INSIGHT_ENGINE_TEST_DOTENV"))
}

func TestResolveAndApplyModel(t *testing.T) {
	stored := map[string]string{
		AnthropicKeyFile: "file-key",
		OllamaURLFile:    "http://file-host:11434",
	}

	t.Setenv(AnthropicKeyEnv, "")
	t.Setenv(OllamaURLEnv, "")
	assert.Equal(t, "file-key", Resolve(stored, AnthropicKeyFile, AnthropicKeyEnv))

	t.Setenv(AnthropicKeyEnv, "env-key")
	assert.Equal(t, "env-key", Resolve(stored, AnthropicKeyFile, AnthropicKeyEnv))

	cfg := types.ModelConfig{Provider: "ollama", Endpoint: "http://localhost:11434"}
	ApplyModel(&cfg, stored)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "http://file-host:11434", cfg.Endpoint)

	preset := types.ModelConfig{Provider: "claude", APIKey: "configured"}
	ApplyModel(&preset, stored)
	assert.Equal(t, "configured", preset.APIKey)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
