package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/slok/taskbreak/internal/conventions"
	"github.com/slok/taskbreak/internal/model"
)

// LoadDotEnv loads the dotenv files that exist into the process environment.
// Variables already set are not overridden. Returns the loaded files.
func LoadDotEnv(paths ...string) ([]string, error) {
	loaded := []string{}
	for _, p := range paths {
		if p == "" {
			continue
		}

		_, err := os.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("could not stat %q: %w", p, err)
		}

		if err := godotenv.Load(p); err != nil {
			return nil, fmt.Errorf("could not load dotenv file %q: %w", p, err)
		}
		loaded = append(loaded, p)
	}

	return loaded, nil
}

// LookupFunc looks up an environment variable, os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// LookupAPIKey returns the API key of a provider and the variable it was read
// from. The generic taskbreak variable has precedence over the provider one.
func LookupAPIKey(lookup LookupFunc, p model.Provider) (key, source string) {
	vars := []string{conventions.APIKeyEnvVar}
	if v := p.APIKeyEnvVar(); v != "" {
		vars = append(vars, v)
	}

	for _, v := range vars {
		if key, ok := lookup(v); ok && key != "" {
			return key, v
		}
	}

	return "", ""
}
