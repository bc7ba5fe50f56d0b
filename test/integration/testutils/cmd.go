package testutils

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"regexp"
	"strings"
)

var multiSpaceRegex = regexp.MustCompile(" +")

// RunTaskbreak executes a taskbreak command with the given arguments string (split by spaces).
// Use RunTaskbreakArgs when arguments contain spaces that should be preserved.
func RunTaskbreak(ctx context.Context, env []string, binary, cmdArgs string, nolog bool) (stdout, stderr []byte, err error) {
	// Sanitize command.
	cmdArgs = strings.TrimSpace(cmdArgs)
	cmdArgs = multiSpaceRegex.ReplaceAllString(cmdArgs, " ")

	// Split into args.
	var args []string
	if cmdArgs != "" {
		args = strings.Split(cmdArgs, " ")
	}

	return RunTaskbreakArgs(ctx, env, binary, args, nolog)
}

// RunTaskbreakArgs executes a taskbreak command with pre-split arguments.
// This preserves arguments that contain spaces (e.g., --name "Clean the house").
func RunTaskbreakArgs(ctx context.Context, env []string, binary string, args []string, nolog bool) (stdout, stderr []byte, err error) {
	cmd := NewTaskbreakCmd(ctx, env, binary, args, nolog)

	var outData, errData bytes.Buffer
	cmd.Stdout = &outData
	cmd.Stderr = &errData

	err = cmd.Run()

	return outData.Bytes(), errData.Bytes(), err
}

// NewTaskbreakCmd returns a taskbreak command ready to be started, used for
// long running commands like the server.
func NewTaskbreakCmd(ctx context.Context, env []string, binary string, args []string, nolog bool) *exec.Cmd {
	cmd := exec.CommandContext(ctx, binary, args...)

	// Set env: os.Environ() first, then custom env overrides on top.
	// In Go's exec.Cmd, when duplicate keys exist, the last one wins.
	newEnv := append([]string{}, os.Environ()...)
	newEnv = append(newEnv, env...)
	if nolog {
		newEnv = append(newEnv, "TASKBREAK_NO_LOG=true")
	}
	cmd.Env = newEnv

	return cmd
}
