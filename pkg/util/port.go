// Package util carries small host-side helpers for provisioning guests:
// free-port probing for VNC displays and sparse disk image creation.
package util

import (
	"fmt"
	"net"
)

// MaxPort is the upper bound of the TCP port range scanned by FreePort.
const MaxPort = 65535

// PortExhaustedError reports that no TCP port in [Start, MaxPort] could
// be bound on the local host.
type PortExhaustedError struct {
	Start int
}

func (e *PortExhaustedError) Error() string {
	return fmt.Sprintf("no free TCP port in range %d-%d", e.Start, MaxPort)
}

// FreePort scans ascending from start and returns the first TCP port
// that can be bound on all local interfaces. The probe listener is
// closed before returning, so the port is free but not reserved; a
// concurrent process may still grab it before the caller binds.
func FreePort(start int) (int, error) {
	if start < 1 || start > MaxPort {
		return 0, fmt.Errorf("start port %d out of range 1-%d", start, MaxPort)
	}
	for port := start; port <= MaxPort; port++ {
		l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			continue
		}
		if err := l.Close(); err != nil {
			return 0, fmt.Errorf("closing probe listener on port %d: %w", port, err)
		}
		return port, nil
	}
	return 0, &PortExhaustedError{Start: start}
}
