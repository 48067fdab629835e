package domip

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/pkg/errors"

	"github.com/kfxlabs/xenops/pkg/logger"
	"github.com/kfxlabs/xenops/pkg/xl"
)

// DefaultInitialBackoff is the first retry interval; it doubles after
// every miss, uncapped, until the overall timeout elapses.
const DefaultInitialBackoff = time.Second

// TimeoutError reports that identity resolution exhausted its deadline
// without the domain's MAC ever appearing in the neighbor table.
type TimeoutError struct {
	Domain  string
	Timeout time.Duration
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no IPv4 address found for domain %q within %s (waited %s)", e.Domain, e.Timeout, e.Elapsed)
}

// Resolver maps a domain's MAC addresses to its current IPv4 address by
// polling a neighbor source. A transient absence of the MAC is never
// fatal; only the aggregate timeout is reported.
type Resolver struct {
	Source NeighborSource
	Log    *logger.Logger
	// InitialBackoff defaults to DefaultInitialBackoff.
	InitialBackoff time.Duration
}

func NewResolver(source NeighborSource, log *logger.Logger) *Resolver {
	return &Resolver{Source: source, Log: log}
}

// ResolveIP polls the neighbor table until an entry with a link address
// in macs carries an IPv4 address, or timeout elapses. With several
// candidates (stale entries included) the numerically lowest IPv4 wins,
// so repeated runs are deterministic.
func (r *Resolver) ResolveIP(ctx context.Context, domain string, macs []net.HardwareAddr, timeout time.Duration) (netip.Addr, error) {
	want := macSet(macs)
	backoff := r.InitialBackoff
	if backoff <= 0 {
		backoff = DefaultInitialBackoff
	}

	start := time.Now()
	for {
		neighbors, err := r.Source.Neighbors(ctx)
		if err != nil {
			return netip.Addr{}, err
		}

		if best, ok := pickCandidate(neighbors, want); ok {
			return best, nil
		}

		elapsed := time.Since(start)
		if elapsed >= timeout {
			return netip.Addr{}, &TimeoutError{Domain: domain, Timeout: timeout, Elapsed: elapsed}
		}

		if r.Log != nil {
			r.Log.Debugf("no neighbor entry for domain %q yet, retrying in %s", domain, backoff)
		}
		select {
		case <-ctx.Done():
			return netip.Addr{}, errors.Wrapf(ctx.Err(), "resolving IP for domain %q", domain)
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

// pickCandidate returns the lowest IPv4 among neighbor entries whose
// link address is in want.
func pickCandidate(neighbors []Neighbor, want map[string]struct{}) (netip.Addr, bool) {
	var best netip.Addr
	for _, n := range neighbors {
		if n.LinkAddr == nil || !n.IP.Is4() {
			continue
		}
		if _, ok := want[n.LinkAddr.String()]; !ok {
			continue
		}
		if !best.IsValid() || n.IP.Less(best) {
			best = n.IP
		}
	}
	return best, best.IsValid()
}

func macSet(macs []net.HardwareAddr) map[string]struct{} {
	set := make(map[string]struct{}, len(macs))
	for _, m := range macs {
		set[m.String()] = struct{}{}
	}
	return set
}

// DomMACs collects the MAC addresses of every virtual NIC of a live
// domain, for feeding into ResolveIP.
func DomMACs(ctx context.Context, client *xl.Client, domname string) ([]net.HardwareAddr, error) {
	domid, err := client.Domid(ctx, domname)
	if err != nil {
		return nil, errors.Wrapf(err, "looking up domain %q", domname)
	}
	entries, err := client.NetworkList(ctx, domid)
	if err != nil {
		return nil, errors.Wrapf(err, "listing NICs of domain %q", domname)
	}

	seen := make(map[string]struct{}, len(entries))
	var macs []net.HardwareAddr
	for _, e := range entries {
		key := e.MAC.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		macs = append(macs, e.MAC)
	}
	return macs, nil
}
