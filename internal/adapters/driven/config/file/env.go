package file

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables recognised as config overrides.
//
//nolint:gosec // G101: variable names, not credentials.
const (
	EnvAPIKey         = "OPENAI_API_KEY"
	EnvEmbeddingModel = "OPENAI_EMBEDDING_MODEL"
	EnvStorePath      = "VECTOR_DB_PATH"
	EnvRole           = "ASSISTANT_ROLE"
)

// envKeys maps environment variables to the config keys they shadow.
var envKeys = map[string]string{
	EnvAPIKey:         "embedding.api_key",
	EnvEmbeddingModel: "embedding.model",
	EnvStorePath:      "storage.path",
	EnvRole:           "role.default",
}

// LoadDotEnv loads variables from the given files (default ".env") into the
// process environment without replacing variables that are already set.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// EnvOverrides returns config overrides for every recognised variable that is
// set and non-empty. A nil lookup uses os.LookupEnv.
func EnvOverrides(lookup func(string) (string, bool)) map[string]any {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	overrides := make(map[string]any)
	for env, key := range envKeys {
		if v, ok := lookup(env); ok && strings.TrimSpace(v) != "" {
			overrides[key] = strings.TrimSpace(v)
		}
	}
	return overrides
}
