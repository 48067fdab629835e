package xl

import (
	"net"
	"strings"
)

// StateFlags is the set of state flags a domain holds, decoded from the
// fixed-width flag column of `xl list` (one character per flag, `-` for
// unset).
type StateFlags uint8

const (
	StateRunning StateFlags = 1 << iota
	StateBlocked
	StatePaused
	StateShutdown
	StateCrashed
	StateDying
)

// Has reports whether all flags in f are set.
func (s StateFlags) Has(f StateFlags) bool { return s&f == f }

func (s StateFlags) String() string {
	var parts []string
	for _, e := range []struct {
		flag StateFlags
		name string
	}{
		{StateRunning, "running"},
		{StateBlocked, "blocked"},
		{StatePaused, "paused"},
		{StateShutdown, "shutdown"},
		{StateCrashed, "crashed"},
		{StateDying, "dying"},
	} {
		if s.Has(e.flag) {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "|")
}

// stateFlagTable is the closed mapping from flag characters to flags.
// Any other non-dash character is a parse error for the row.
var stateFlagTable = map[byte]StateFlags{
	'r': StateRunning,
	'b': StateBlocked,
	'p': StatePaused,
	's': StateShutdown,
	'c': StateCrashed,
	'd': StateDying,
}

// Domain is one row of `xl list`: the ephemeral state of a live domain.
// It is recomputed on every query and never cached.
type Domain struct {
	Name     string
	ID       uint32
	MemoryMB uint32
	VCPUs    uint32
	Flags    StateFlags
	// CPUTime is the accumulated CPU time in seconds.
	CPUTime float64
}

// NetworkEntry is one row of `xl network-list`: a virtual NIC of a live
// domain.
type NetworkEntry struct {
	Index      int
	BackendID  int
	MAC        net.HardwareAddr
	Handle     int
	State      int
	EventChan  int
	TxRingRef  int
	RxRingRef  int
	BackendPath string
}
