package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const envFileName = "pictowebp.env"

const (
	envQuality  = "PICTOWEBP_QUALITY"
	envWorkers  = "PICTOWEBP_WORKERS"
	envFormat   = "PICTOWEBP_FORMAT"
	envLogLevel = "PICTOWEBP_LOG_LEVEL"
)

var envKeys = []string{envQuality, envWorkers, envFormat, envLogLevel}

// readEnvironment merges the optional dotenv file with the process
// environment. Process variables win over file entries.
func readEnvironment(dotenvPath string) (map[string]string, error) {
	values := map[string]string{}
	if dotenvPath != "" {
		fileValues, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			for k, v := range fileValues {
				values[k] = v
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", dotenvPath, err)
		}
	}
	for _, key := range envKeys {
		if value, ok := os.LookupEnv(key); ok {
			values[key] = value
		}
	}
	return values, nil
}

func (c *Config) applyEnvironment(env map[string]string) error {
	if value := strings.TrimSpace(env[envQuality]); value != "" {
		q, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", envQuality, value)
		}
		c.Conversion.Quality = q
	}
	if value := strings.TrimSpace(env[envWorkers]); value != "" {
		w, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", envWorkers, value)
		}
		c.Conversion.Workers = w
	}
	if value := strings.TrimSpace(env[envFormat]); value != "" {
		c.Conversion.Format = value
	}
	if value := strings.TrimSpace(env[envLogLevel]); value != "" {
		c.Logging.Level = value
	}
	return nil
}
