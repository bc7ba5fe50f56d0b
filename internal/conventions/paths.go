package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default taskbreak data directory name (relative to home).
	DefaultDataDir = ".taskbreak"
	// ConfigFile is the configuration filename inside the data directory.
	ConfigFile = "config.yaml"
	// EnvFile is the optional dotenv file loaded on startup.
	EnvFile = ".env"

	// EnvPrefix is the prefix of the environment variables that configure flags.
	EnvPrefix = "TASKBREAK_"
	// APIKeyEnvVar has precedence over the provider specific API key variables.
	APIKeyEnvVar = EnvPrefix + "API_KEY"

	// DefaultListenAddress is the address the HTTP server listens on.
	DefaultListenAddress = ":8080"
)

// ConfigPath returns the default path of the configuration file.
func ConfigPath(homeDir string) string {
	return filepath.Join(homeDir, DefaultDataDir, ConfigFile)
}

// EnvFiles returns the dotenv files loaded on startup, the local one first.
func EnvFiles(homeDir string) []string {
	return []string{EnvFile, filepath.Join(homeDir, DefaultDataDir, EnvFile)}
}
