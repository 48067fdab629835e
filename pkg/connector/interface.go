// Package connector executes external control tools as child processes,
// capturing stdout and stderr separately and reporting failures as
// structured *CommandError values.
package connector

import (
	"context"
	"time"
)

// ExecOptions tunes a single execution.
type ExecOptions struct {
	// Timeout bounds the child process runtime. Zero means no limit
	// beyond the caller's context.
	Timeout time.Duration
	// Env entries are appended to the inherited environment.
	Env []string
}

// Runner executes a binary with an argv-style argument list. Arguments
// are passed verbatim to the child process, never through a shell; the
// xl configuration grammar contains quotes and brackets that a shell
// would mangle.
//
// On non-zero exit the returned error is a *CommandError and the
// captured streams are still returned.
type Runner interface {
	Exec(ctx context.Context, bin string, args []string, opts *ExecOptions) (stdout, stderr []byte, err error)
}
