// Package xl wraps the Xen `xl` control tool: each lifecycle operation
// renders its argument grammar, executes the tool as a child process,
// and parses the tabular output into typed state.
//
// The tool's argument and output grammars are a versioned external
// contract; the parsers here are the single place that tracks them.
package xl

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kfxlabs/xenops/pkg/connector"
	"github.com/kfxlabs/xenops/pkg/logger"
	"github.com/kfxlabs/xenops/pkg/xlcfg"
)

// DefaultBinary is the control tool invoked by a zero-configured Client.
const DefaultBinary = "xl"

// Client issues xl subcommands through a connector.Runner. Operations
// are stateless and never retried here; the hypervisor serializes
// conflicting operations on a domain.
type Client struct {
	runner connector.Runner
	log    *logger.Logger
	binary string
}

// NewClient returns a Client executing through runner and logging
// through log.
func NewClient(runner connector.Runner, log *logger.Logger) *Client {
	return &Client{runner: runner, log: log, binary: DefaultBinary}
}

// WithBinary overrides the control tool path, e.g. for a staged xl.
func (c *Client) WithBinary(path string) *Client {
	out := *c
	out.binary = path
	return &out
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	stdout, _, err := c.runner.Exec(ctx, c.binary, args, nil)
	return stdout, err
}

// Create defines and starts a domain from cfg. The rendered
// configuration is passed on the command line on top of an empty
// scratch file, so nothing persists on disk afterwards.
func (c *Client) Create(ctx context.Context, cfg *xlcfg.Config) error {
	scratch := filepath.Join(os.TempDir(), "xenops-"+uuid.NewString()+".cfg")
	if err := os.WriteFile(scratch, nil, 0o600); err != nil {
		return errors.Wrap(err, "creating scratch config file")
	}
	defer os.Remove(scratch)

	c.log.Infof("creating domain %q", cfg.Name())
	_, err := c.run(ctx, "create", scratch, cfg.Render())
	return err
}

// List enumerates all live domains. A malformed row is logged and
// skipped; only a failed execution fails the call.
func (c *Client) List(ctx context.Context) ([]Domain, error) {
	stdout, err := c.run(ctx, "list")
	if err != nil {
		return nil, err
	}

	var domains []Domain
	for _, row := range dataRows(stdout) {
		d, err := parseListRow(row)
		if err != nil {
			c.log.Warnf("skipping malformed list row: %v", err)
			continue
		}
		domains = append(domains, d)
	}
	return domains, nil
}

// NetworkList enumerates the virtual NICs of a domain. Malformed rows
// are logged and skipped.
func (c *Client) NetworkList(ctx context.Context, domid uint32) ([]NetworkEntry, error) {
	stdout, err := c.run(ctx, "network-list", formatID(domid))
	if err != nil {
		return nil, err
	}

	var entries []NetworkEntry
	for _, row := range dataRows(stdout) {
		e, err := parseNetworkRow(row)
		if err != nil {
			c.log.Warnf("skipping malformed network-list row: %v", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Domid resolves a domain name to its numeric id.
func (c *Client) Domid(ctx context.Context, name string) (uint32, error) {
	stdout, err := c.run(ctx, "domid", name)
	if err != nil {
		return 0, err
	}
	token := strings.TrimSpace(string(stdout))
	id, err := strconv.ParseUint(token, 10, 32)
	if err != nil {
		return 0, &ParseError{Format: "domid", Input: token, Err: err}
	}
	return uint32(id), nil
}

// Domname resolves a numeric domain id to its name.
func (c *Client) Domname(ctx context.Context, domid uint32) (string, error) {
	stdout, err := c.run(ctx, "domname", formatID(domid))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(stdout)), nil
}

// Destroy immediately terminates the domain.
func (c *Client) Destroy(ctx context.Context, domid uint32) error {
	_, err := c.run(ctx, "destroy", formatID(domid))
	return err
}

// Rename changes a domain's name.
func (c *Client) Rename(ctx context.Context, domid uint32, name string) error {
	_, err := c.run(ctx, "rename", formatID(domid), name)
	return err
}

// DumpCore writes a core dump of the domain to filename.
func (c *Client) DumpCore(ctx context.Context, domid uint32, filename string) error {
	_, err := c.run(ctx, "dump-core", formatID(domid), filename)
	return err
}

// Pause suspends vCPU scheduling for the domain.
func (c *Client) Pause(ctx context.Context, domid uint32) error {
	_, err := c.run(ctx, "pause", formatID(domid))
	return err
}

// Unpause resumes a paused domain.
func (c *Client) Unpause(ctx context.Context, domid uint32) error {
	_, err := c.run(ctx, "unpause", formatID(domid))
	return err
}

// Reboot requests a guest reboot; force bypasses guest cooperation.
func (c *Client) Reboot(ctx context.Context, domid uint32, force bool) error {
	args := []string{"reboot"}
	if force {
		args = append(args, "-F")
	}
	args = append(args, formatID(domid))
	_, err := c.run(ctx, args...)
	return err
}

// SaveOptions tunes the save operation.
type SaveOptions struct {
	// StayRunning leaves the domain running after the checkpoint.
	StayRunning bool
	// LeavePaused leaves the domain paused after the checkpoint.
	LeavePaused bool
	// ConfigFile optionally stores an alternate config alongside the
	// checkpoint.
	ConfigFile string
}

// Save checkpoints the domain to checkpointFile.
func (c *Client) Save(ctx context.Context, domid uint32, checkpointFile string, opts SaveOptions) error {
	args := []string{"save"}
	if opts.StayRunning {
		args = append(args, "-c")
	}
	if opts.LeavePaused {
		args = append(args, "-p")
	}
	args = append(args, formatID(domid), checkpointFile)
	if opts.ConfigFile != "" {
		args = append(args, opts.ConfigFile)
	}
	_, err := c.run(ctx, args...)
	return err
}

// RestoreOptions tunes the restore operation.
type RestoreOptions struct {
	// LeavePaused does not unpause the domain after restoring.
	LeavePaused bool
	// ConfigFile optionally overrides the config stored in the
	// checkpoint.
	ConfigFile string
}

// Restore brings a domain back from a checkpoint file.
func (c *Client) Restore(ctx context.Context, checkpointFile string, opts RestoreOptions) error {
	args := []string{"restore"}
	if opts.LeavePaused {
		args = append(args, "-p")
	}
	if opts.ConfigFile != "" {
		args = append(args, opts.ConfigFile)
	}
	args = append(args, checkpointFile)
	_, err := c.run(ctx, args...)
	return err
}

// ShutdownTarget selects what to shut down: one domain or all of them.
type ShutdownTarget struct {
	all   bool
	domid uint32
}

// ShutdownAll targets every domain.
func ShutdownAll() ShutdownTarget { return ShutdownTarget{all: true} }

// ShutdownDomain targets a single domain by id.
func ShutdownDomain(domid uint32) ShutdownTarget { return ShutdownTarget{domid: domid} }

// Shutdown asks the target's guest(s) to shut down cleanly. wait blocks
// until completion; force falls back to destroying uncooperative
// guests.
func (c *Client) Shutdown(ctx context.Context, target ShutdownTarget, wait, force bool) error {
	args := []string{"shutdown"}
	if wait {
		args = append(args, "-w")
	}
	if force {
		args = append(args, "-F")
	}
	if target.all {
		args = append(args, "-a")
	} else {
		args = append(args, formatID(target.domid))
	}
	_, err := c.run(ctx, args...)
	return err
}

func formatID(domid uint32) string {
	return strconv.FormatUint(uint64(domid), 10)
}
