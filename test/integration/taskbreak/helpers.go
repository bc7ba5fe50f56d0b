package taskbreak

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/slok/taskbreak/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
	// OpenAIKey enables the tests against the real OpenAI API.
	OpenAIKey string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		c.Binary = "taskbreak"
	}

	// go test changes the CWD to the test package directory, relative paths are not valid.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("TASKBREAK_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("taskbreak binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "TASKBREAK_INTEGRATION"
		envBinary     = "TASKBREAK_INTEGRATION_BINARY"
		envOpenAIKey  = "TASKBREAK_INTEGRATION_OPENAI_API_KEY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{
		Binary:    os.Getenv(envBinary),
		OpenAIKey: os.Getenv(envOpenAIKey),
	}

	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// isolatedEnv returns the env that isolates the binary from the user configuration.
func isolatedEnv(t *testing.T) []string {
	t.Helper()
	home := t.TempDir()
	return []string{
		"HOME=" + home,
		"TASKBREAK_API_KEY=",
		"OPENAI_API_KEY=",
		"ANTHROPIC_API_KEY=",
		"GEMINI_API_KEY=",
	}
}

// RunBreakdown runs `taskbreak breakdown` with the given extra args.
func RunBreakdown(ctx context.Context, t *testing.T, config Config, env []string, args ...string) (stdout, stderr []byte, err error) {
	t.Helper()
	env = append(isolatedEnv(t), env...)
	return testutils.RunTaskbreakArgs(ctx, env, config.Binary, append([]string{"breakdown"}, args...), true)
}

// RunCmd runs any taskbreak command isolated from the user configuration.
func RunCmd(ctx context.Context, t *testing.T, config Config, cmdArgs string) (stdout, stderr []byte, err error) {
	t.Helper()
	return testutils.RunTaskbreak(ctx, isolatedEnv(t), config.Binary, cmdArgs, true)
}
