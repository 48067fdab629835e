package domip

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMAC(t *testing.T, s string) net.HardwareAddr {
	t.Helper()
	mac, err := net.ParseMAC(s)
	require.NoError(t, err)
	return mac
}

type fakeSource struct {
	rounds [][]Neighbor
	calls  int
}

func (f *fakeSource) Neighbors(ctx context.Context) ([]Neighbor, error) {
	idx := f.calls
	if idx >= len(f.rounds) {
		idx = len(f.rounds) - 1
	}
	round := f.rounds[idx]
	f.calls++
	return round, nil
}

func neighbor(t *testing.T, ip, mac string) Neighbor {
	t.Helper()
	n, err := parseNeighborLine(ip + " dev xenbr0 lladdr " + mac + " REACHABLE")
	require.NoError(t, err)
	return n
}

func TestResolveIPImmediateHit(t *testing.T) {
	mac := mustMAC(t, "00:16:3e:5a:7b:11")
	src := &fakeSource{rounds: [][]Neighbor{{
		neighbor(t, "192.168.122.34", "00:16:3e:5a:7b:11"),
		neighbor(t, "192.168.122.1", "52:54:00:aa:bb:cc"),
	}}}
	r := &Resolver{Source: src, Log: testLogger()}

	addr, err := r.ResolveIP(context.Background(), "agent1", []net.HardwareAddr{mac}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "192.168.122.34", addr.String())
	assert.Equal(t, 1, src.calls)
}

func TestResolveIPLowestAddressWins(t *testing.T) {
	mac := mustMAC(t, "00:16:3e:5a:7b:11")
	src := &fakeSource{rounds: [][]Neighbor{{
		neighbor(t, "192.168.122.200", "00:16:3e:5a:7b:11"),
		neighbor(t, "192.168.122.34", "00:16:3e:5a:7b:11"),
		neighbor(t, "192.168.122.99", "00:16:3e:5a:7b:11"),
	}}}
	r := &Resolver{Source: src, Log: testLogger()}

	addr, err := r.ResolveIP(context.Background(), "agent1", []net.HardwareAddr{mac}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "192.168.122.34", addr.String())
}

func TestResolveIPRetriesUntilEntryAppears(t *testing.T) {
	mac := mustMAC(t, "00:16:3e:5a:7b:11")
	src := &fakeSource{rounds: [][]Neighbor{
		nil,
		nil,
		{neighbor(t, "192.168.122.34", "00:16:3e:5a:7b:11")},
	}}
	r := &Resolver{Source: src, Log: testLogger(), InitialBackoff: time.Millisecond}

	addr, err := r.ResolveIP(context.Background(), "agent1", []net.HardwareAddr{mac}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "192.168.122.34", addr.String())
	assert.Equal(t, 3, src.calls)
}

func TestResolveIPIgnoresFailedEntries(t *testing.T) {
	mac := mustMAC(t, "00:16:3e:5a:7b:11")
	failed, err := parseNeighborLine("192.168.122.34 dev xenbr0 FAILED")
	require.NoError(t, err)

	src := &fakeSource{rounds: [][]Neighbor{{failed}}}
	r := &Resolver{Source: src, Log: testLogger(), InitialBackoff: time.Millisecond}

	_, err = r.ResolveIP(context.Background(), "agent1", []net.HardwareAddr{mac}, 10*time.Millisecond)
	require.Error(t, err)

	var timeoutErr *TimeoutError
	assert.True(t, errors.As(err, &timeoutErr))
}

func TestResolveIPTimeoutBounds(t *testing.T) {
	mac := mustMAC(t, "00:16:3e:5a:7b:11")
	src := &fakeSource{rounds: [][]Neighbor{nil}}
	initial := 2 * time.Millisecond
	timeout := 20 * time.Millisecond
	r := &Resolver{Source: src, Log: testLogger(), InitialBackoff: initial}

	start := time.Now()
	_, err := r.ResolveIP(context.Background(), "agent1", []net.HardwareAddr{mac}, timeout)
	wall := time.Since(start)
	require.Error(t, err)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, "agent1", timeoutErr.Domain)
	assert.Equal(t, timeout, timeoutErr.Timeout)
	assert.GreaterOrEqual(t, timeoutErr.Elapsed, timeout)
	// Backoff doubles 2,4,8,16ms: the loop must give up on the first
	// poll past the deadline, not sleep another full interval.
	assert.Less(t, wall, timeout+64*time.Millisecond)
}

func TestResolveIPContextCancellation(t *testing.T) {
	mac := mustMAC(t, "00:16:3e:5a:7b:11")
	src := &fakeSource{rounds: [][]Neighbor{nil}}
	r := &Resolver{Source: src, Log: testLogger(), InitialBackoff: 50 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	_, err := r.ResolveIP(ctx, "agent1", []net.HardwareAddr{mac}, time.Minute)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

type failingSource struct{ err error }

func (f *failingSource) Neighbors(ctx context.Context) ([]Neighbor, error) {
	return nil, f.err
}

func TestResolveIPSourceErrorPropagates(t *testing.T) {
	boom := errors.New("ip tool missing")
	r := &Resolver{Source: &failingSource{err: boom}, Log: testLogger()}

	_, err := r.ResolveIP(context.Background(), "agent1", nil, time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}
