// Package domip resolves a domain's IPv4 address from its virtual MAC
// address(es). The default strategy polls the host's neighbor table
// with doubling backoff; CaptureResolver offers a link-layer capture
// alternative with the same contract.
package domip

import (
	"context"
	"net"
	"net/netip"
	"strings"

	"github.com/pkg/errors"

	"github.com/kfxlabs/xenops/pkg/connector"
	"github.com/kfxlabs/xenops/pkg/logger"
)

// Neighbor is one row of the host's ARP/neighbor cache.
type Neighbor struct {
	IP  netip.Addr
	Dev string
	// LinkAddr is nil for entries without a resolved link address
	// (e.g. FAILED entries).
	LinkAddr net.HardwareAddr
	// State is the kernel's entry state, e.g. REACHABLE, STALE, FAILED.
	State string
}

// NeighborSource produces the current neighbor table. Queries are
// read-only and idempotent.
type NeighborSource interface {
	Neighbors(ctx context.Context) ([]Neighbor, error)
}

// CommandNeighborSource reads the neighbor table by running
// `ip neighbor show`; iproute2 has no stable library interface, so the
// textual output is the contract.
type CommandNeighborSource struct {
	Runner connector.Runner
	Log    *logger.Logger
	// Binary overrides the iproute2 binary, default "ip".
	Binary string
}

func NewCommandNeighborSource(runner connector.Runner, log *logger.Logger) *CommandNeighborSource {
	return &CommandNeighborSource{Runner: runner, Log: log}
}

func (s *CommandNeighborSource) Neighbors(ctx context.Context) ([]Neighbor, error) {
	bin := s.Binary
	if bin == "" {
		bin = "ip"
	}
	stdout, _, err := s.Runner.Exec(ctx, bin, []string{"neighbor", "show"}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying neighbor table")
	}

	var out []Neighbor
	for _, line := range strings.Split(string(stdout), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n, err := parseNeighborLine(line)
		if err != nil {
			if s.Log != nil {
				s.Log.Warnf("skipping malformed neighbor row: %v", err)
			}
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// parseNeighborLine decodes one `ip neighbor show` row:
//
//	<ip> dev <dev> [lladdr <mac>] [...] <STATE>
//
// The state is the trailing token; keyed fields other than dev and
// lladdr are ignored.
func parseNeighborLine(line string) (Neighbor, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Neighbor{}, errors.Errorf("truncated neighbor row %q", line)
	}

	ip, err := netip.ParseAddr(fields[0])
	if err != nil {
		return Neighbor{}, errors.Wrapf(err, "neighbor row %q", line)
	}

	n := Neighbor{IP: ip, State: fields[len(fields)-1]}
	for i := 1; i < len(fields)-1; i++ {
		switch fields[i] {
		case "dev":
			if i+1 < len(fields) {
				n.Dev = fields[i+1]
				i++
			}
		case "lladdr":
			if i+1 < len(fields) {
				mac, err := net.ParseMAC(fields[i+1])
				if err != nil {
					return Neighbor{}, errors.Wrapf(err, "neighbor row %q", line)
				}
				n.LinkAddr = mac
				i++
			}
		}
	}
	return n, nil
}
