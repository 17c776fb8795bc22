// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files and
// from an optional .env file. Each file in the directory is one secret: the
// filename is the key and the trimmed contents are the value.
//
// Recognised keys: anthropic-api-key, ollama-endpoint.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// Secret file names and the environment variables that override them.
const (
	AnthropicKeyFile = "anthropic-api-key"
	AnthropicKeyEnv  = "ANTHROPIC_API_KEY"
	OllamaURLFile    = "ollama-endpoint"
	OllamaURLEnv     = "OLLAMA_HOST"
)

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory yields an empty map. Unreadable files are
// logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", "name", name, "error", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// LoadEnvFile loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Resolve returns the environment variable env when set, else the secret
// stored under key.
func Resolve(secrets map[string]string, key, env string) string {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v
	}
	return secrets[key]
}

// ApplyModel fills the model credentials that the configuration left empty.
func ApplyModel(cfg *types.ModelConfig, secrets map[string]string) {
	if cfg.APIKey == "" {
		cfg.APIKey = Resolve(secrets, AnthropicKeyFile, AnthropicKeyEnv)
	}
	if cfg.Provider == "ollama" {
		if v := Resolve(secrets, OllamaURLFile, OllamaURLEnv); v != "" {
			cfg.Endpoint = v
		}
	}
}
