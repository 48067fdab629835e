package xl

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseError reports a malformed piece of control-tool output. For
// list-style output it applies to a single row (the row is skipped);
// for single-value output it fails the whole call.
type ParseError struct {
	// Format names the grammar that failed, e.g. "list" or "domid".
	Format string
	// Input is the offending text.
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s output %q: %v", e.Format, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// parseListRow decodes one data row of `xl list`:
//
//	name id mem vcpus state time
//
// with state as a fixed-width flag string.
func parseListRow(line string) (Domain, error) {
	fail := func(err error) (Domain, error) {
		return Domain{}, &ParseError{Format: "list", Input: line, Err: err}
	}

	fields := strings.Fields(line)
	if len(fields) != 6 {
		return fail(errors.Errorf("expected 6 columns, got %d", len(fields)))
	}

	id, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return fail(errors.Wrap(err, "id"))
	}
	mem, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return fail(errors.Wrap(err, "mem"))
	}
	vcpus, err := strconv.ParseUint(fields[3], 10, 32)
	if err != nil {
		return fail(errors.Wrap(err, "vcpus"))
	}

	var flags StateFlags
	for i := 0; i < len(fields[4]); i++ {
		ch := fields[4][i]
		if ch == '-' {
			continue
		}
		flag, ok := stateFlagTable[ch]
		if !ok {
			return fail(errors.Errorf("unknown state flag %q", string(ch)))
		}
		flags |= flag
	}

	cpuTime, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return fail(errors.Wrap(err, "time"))
	}

	return Domain{
		Name:     fields[0],
		ID:       uint32(id),
		MemoryMB: uint32(mem),
		VCPUs:    uint32(vcpus),
		Flags:    flags,
		CPUTime:  cpuTime,
	}, nil
}

// parseNetworkRow decodes one data row of `xl network-list`:
//
//	idx be mac handle state evt-ch tx/rx be-path
//
// where tx/rx is a single slash-separated token of two ring references.
func parseNetworkRow(line string) (NetworkEntry, error) {
	fail := func(err error) (NetworkEntry, error) {
		return NetworkEntry{}, &ParseError{Format: "network-list", Input: line, Err: err}
	}

	fields := strings.Fields(line)
	if len(fields) != 8 {
		return fail(errors.Errorf("expected 8 columns, got %d", len(fields)))
	}

	ints := make([]int, 5)
	for i, idx := range []int{0, 1, 3, 4, 5} {
		v, err := strconv.Atoi(fields[idx])
		if err != nil {
			return fail(errors.Wrapf(err, "column %d", idx))
		}
		ints[i] = v
	}

	mac, err := net.ParseMAC(fields[2])
	if err != nil {
		return fail(errors.Wrap(err, "mac"))
	}

	rings := strings.Split(fields[6], "/")
	if len(rings) != 2 {
		return fail(errors.Errorf("malformed tx/rx token %q", fields[6]))
	}
	tx, err := strconv.Atoi(rings[0])
	if err != nil {
		return fail(errors.Wrap(err, "tx ring"))
	}
	rx, err := strconv.Atoi(rings[1])
	if err != nil {
		return fail(errors.Wrap(err, "rx ring"))
	}

	return NetworkEntry{
		Index:       ints[0],
		BackendID:   ints[1],
		MAC:         mac,
		Handle:      ints[2],
		State:       ints[3],
		EventChan:   ints[4],
		TxRingRef:   tx,
		RxRingRef:   rx,
		BackendPath: fields[7],
	}, nil
}

// dataRows splits tabular stdout into data rows, dropping the header
// line and any blank lines.
func dataRows(stdout []byte) []string {
	lines := strings.Split(strings.ReplaceAll(string(stdout), "\r\n", "\n"), "\n")
	var rows []string
	for i, line := range lines {
		if i == 0 {
			continue // header
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, line)
	}
	return rows
}
