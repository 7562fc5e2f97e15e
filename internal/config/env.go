package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// APIKeyVars are checked in order.
var APIKeyVars = []string{"GEMINI_API_KEY", "LIMETRED_API_KEY"}

// LoadEnv loads variables from the given .env files without overriding the environment.
// Missing files are skipped.
func LoadEnv(files ...string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return fmt.Errorf("load %s: %w", f, err)
	}
	return nil
}

// LoadAPIKey fills Generator.APIKey from the environment. An empty key selects the
// offline generator.
func (c *Config) LoadAPIKey() {
	c.Generator.APIKey = getEnv(APIKeyVars...)
}

func getEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
