package xl

import (
	"context"

	"github.com/kfxlabs/xenops/pkg/connector"
	"github.com/kfxlabs/xenops/pkg/logger"
)

// fakeRunner records executed commands and replays canned responses.
type fakeRunner struct {
	ExecFunc func(ctx context.Context, bin string, args []string, opts *connector.ExecOptions) ([]byte, []byte, error)

	Calls [][]string
}

func (f *fakeRunner) Exec(ctx context.Context, bin string, args []string, opts *connector.ExecOptions) ([]byte, []byte, error) {
	f.Calls = append(f.Calls, append([]string{bin}, args...))
	if f.ExecFunc != nil {
		return f.ExecFunc(ctx, bin, args, opts)
	}
	return nil, nil, nil
}

func testLogger() *logger.Logger {
	l, _ := logger.NewLogger(logger.Options{})
	return l
}

func newTestClient(f *fakeRunner) *Client {
	return NewClient(f, testLogger())
}
