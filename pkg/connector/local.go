package connector

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/kfxlabs/xenops/pkg/logger"
)

// LocalRunner runs commands on the local host. The zero value is usable.
type LocalRunner struct {
	// Log, when set, records every executed command at debug level.
	Log *logger.Logger
}

// NewLocalRunner returns a LocalRunner that logs through log.
func NewLocalRunner(log *logger.Logger) *LocalRunner {
	return &LocalRunner{Log: log}
}

func (l *LocalRunner) Exec(ctx context.Context, bin string, args []string, opts *ExecOptions) ([]byte, []byte, error) {
	effective := ExecOptions{}
	if opts != nil {
		effective = *opts
	}

	runCtx := ctx
	if effective.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, effective.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, bin, args...)
	if len(effective.Env) > 0 {
		cmd.Env = append(os.Environ(), effective.Env...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if l.Log != nil {
		l.Log.Debugf("exec: %s %s", bin, strings.Join(args, " "))
	}

	err := cmd.Run()
	stdout, stderr := stdoutBuf.Bytes(), stderrBuf.Bytes()
	if err == nil {
		return stdout, stderr, nil
	}

	rendered := bin
	if len(args) > 0 {
		rendered = bin + " " + strings.Join(args, " ")
	}

	if runCtx.Err() != nil {
		return stdout, stderr, &CommandError{
			Cmd:        rendered,
			ExitCode:   -1,
			Stdout:     string(stdout),
			Stderr:     string(stderr),
			Underlying: runCtx.Err(),
		}
	}

	exitCode := -1
	if exitErr, ok := err.(*exec.ExitError); ok {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			exitCode = status.ExitStatus()
		}
	}
	return stdout, stderr, &CommandError{
		Cmd:        rendered,
		ExitCode:   exitCode,
		Stdout:     string(stdout),
		Stderr:     string(stderr),
		Underlying: err,
	}
}
