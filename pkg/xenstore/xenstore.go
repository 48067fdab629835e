// Package xenstore enumerates guest device metadata through the
// xenstore-list and xenstore-read CLI tools, the same subprocess
// boundary the xl client uses.
package xenstore

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/kfxlabs/xenops/pkg/connector"
	"github.com/kfxlabs/xenops/pkg/logger"
)

const (
	listBinary = "xenstore-list"
	readBinary = "xenstore-read"
)

// Store walks the xenstore hierarchy of the local host.
type Store struct {
	runner connector.Runner
	log    *logger.Logger
}

func NewStore(runner connector.Runner, log *logger.Logger) *Store {
	return &Store{runner: runner, log: log}
}

// DomDisks returns the backing file paths of every block device
// attached to the named domain. Per-entry read failures are logged and
// skipped so a half-torn-down guest does not hide its remaining disks.
func (s *Store) DomDisks(ctx context.Context, domname string) ([]string, error) {
	domids, err := s.list(ctx, "/local/domain")
	if err != nil {
		return nil, errors.Wrap(err, "listing domains")
	}

	var disks []string
	for _, domid := range domids {
		name, err := s.read(ctx, "/local/domain/"+domid+"/name")
		if err != nil {
			s.log.Warnw("skipping domain with unreadable name", "domid", domid, "error", err)
			continue
		}
		if name != domname {
			continue
		}
		s.log.Debugw("checking virtual devices", "domid", domid, "domain", domname)
		vbds, err := s.list(ctx, "/libxl/"+domid+"/device/vbd")
		if err != nil {
			s.log.Warnw("skipping domain with unreadable vbd directory", "domid", domid, "error", err)
			continue
		}
		for _, vbd := range vbds {
			params, err := s.read(ctx, "/libxl/"+domid+"/device/vbd/"+vbd+"/params")
			if err != nil {
				s.log.Warnw("skipping unreadable vbd", "domid", domid, "vbd", vbd, "error", err)
				continue
			}
			disks = append(disks, params)
		}
	}
	return disks, nil
}

func (s *Store) list(ctx context.Context, path string) ([]string, error) {
	stdout, _, err := s.runner.Exec(ctx, listBinary, []string{path}, nil)
	if err != nil {
		return nil, err
	}
	var entries []string
	for _, line := range strings.Split(strings.ReplaceAll(string(stdout), "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			entries = append(entries, line)
		}
	}
	return entries, nil
}

func (s *Store) read(ctx context.Context, path string) (string, error) {
	stdout, _, err := s.runner.Exec(ctx, readBinary, []string{path}, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(stdout), "\r\n"), nil
}
