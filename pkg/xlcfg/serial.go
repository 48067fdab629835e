package xlcfg

import (
	"fmt"
	"strings"
)

// SerialDevice is the host-side backend a guest serial port connects
// to. The concrete types below form a closed set; each renders to
// exactly one token of the serial device grammar.
type SerialDevice interface {
	fmt.Stringer
	serialDevice()
}

// SerialVC connects the serial port to a virtual console, optionally
// with a fixed geometry.
type SerialVC struct {
	Columns int
	Rows    int
	// Sized selects the vc:COLS:ROWS form; without it a bare vc is
	// emitted and the geometry fields are ignored.
	Sized bool
}

func (v SerialVC) String() string {
	if v.Sized {
		return fmt.Sprintf("vc:%d:%d", v.Columns, v.Rows)
	}
	return "vc"
}

// SerialPty allocates a new pseudo-terminal.
type SerialPty struct{}

func (SerialPty) String() string { return "pty" }

// SerialNone disables the serial port.
type SerialNone struct{}

func (SerialNone) String() string { return "none" }

// SerialNull connects the port to a void device.
type SerialNull struct{}

func (SerialNull) String() string { return "null" }

// SerialChardev routes through a named character device.
type SerialChardev struct{ Name string }

func (s SerialChardev) String() string { return "chardev:" + s.Name }

// SerialDev routes through a host device by path.
type SerialDev struct{ Path string }

func (s SerialDev) String() string { return "dev:" + s.Path }

// SerialParport redirects to a host parallel port by index.
type SerialParport struct{ Index int }

func (s SerialParport) String() string { return fmt.Sprintf("parport:%d", s.Index) }

// SerialFile appends output to a host file.
type SerialFile struct{ Path string }

func (s SerialFile) String() string { return "file:" + s.Path }

// SerialStdio connects to the invoking process's standard streams.
type SerialStdio struct{}

func (SerialStdio) String() string { return "stdio" }

// SerialPipe connects to a named pipe.
type SerialPipe struct{ Path string }

func (s SerialPipe) String() string { return "pipe:" + s.Path }

// SerialCom redirects to a host COM port by index.
type SerialCom struct{ Index int }

func (s SerialCom) String() string { return fmt.Sprintf("com:%d", s.Index) }

// SerialMon redirects the QEMU monitor to the given path.
type SerialMon struct{ Path string }

func (s SerialMon) String() string { return "mon:" + s.Path }

// SerialBraille connects to a braille device.
type SerialBraille struct{}

func (SerialBraille) String() string { return "braille" }

// SerialMsMouse forwards serial Microsoft-mouse events.
type SerialMsMouse struct{}

func (SerialMsMouse) String() string { return "msmouse" }

// SerialUDP sends console traffic over UDP. RemoteHost may be a
// hostname or IPv4 literal; empty means unbound.
type SerialUDP struct {
	RemoteHost string
	RemotePort uint16
	SourceHost string
	SourcePort uint16
	// HasSource selects the @[src]:sport suffix.
	HasSource bool
}

func (s SerialUDP) String() string {
	out := fmt.Sprintf("udp:%s:%d", s.RemoteHost, s.RemotePort)
	if s.HasSource {
		out += fmt.Sprintf("@%s:%d", s.SourceHost, s.SourcePort)
	}
	return out
}

// SerialTCP runs the console over a TCP connection.
type SerialTCP struct {
	RemoteHost string
	RemotePort uint16
	Server     bool
	Wait       bool
	NoDelay    bool
	// Reconnect, when positive, is the reconnect interval in seconds.
	Reconnect int
}

func (s SerialTCP) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "tcp:%s:%d", s.RemoteHost, s.RemotePort)
	if s.Server {
		sb.WriteString(",server=on")
	}
	if s.Wait {
		sb.WriteString(",wait=on")
	}
	if s.NoDelay {
		sb.WriteString(",nodelay=on")
	}
	if s.Reconnect > 0 {
		fmt.Fprintf(&sb, ",reconnect=%d", s.Reconnect)
	}
	return sb.String()
}

// SerialTelnet runs the console over the telnet protocol.
type SerialTelnet struct {
	RemoteHost string
	RemotePort uint16
	Server     bool
	Wait       bool
	NoDelay    bool
}

func (s SerialTelnet) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "telnet:%s:%d", s.RemoteHost, s.RemotePort)
	if s.Server {
		sb.WriteString(",server=on")
	}
	if s.Wait {
		sb.WriteString(",wait=on")
	}
	if s.NoDelay {
		sb.WriteString(",nodelay=on")
	}
	return sb.String()
}

// SerialWebsocket exposes the console as a websocket server.
type SerialWebsocket struct {
	RemoteHost string
	RemotePort uint16
	Wait       bool
	NoDelay    bool
}

func (s SerialWebsocket) String() string {
	var sb strings.Builder
	// Websocket consoles only exist in server mode.
	fmt.Fprintf(&sb, "websocket:%s:%d,server=on", s.RemoteHost, s.RemotePort)
	if s.Wait {
		sb.WriteString(",wait=on")
	}
	if s.NoDelay {
		sb.WriteString(",nodelay=on")
	}
	return sb.String()
}

// SerialUnix runs the console over a Unix domain socket.
type SerialUnix struct {
	Path      string
	Server    bool
	Wait      bool
	Reconnect int
}

func (s SerialUnix) String() string {
	var sb strings.Builder
	sb.WriteString("unix:")
	sb.WriteString(s.Path)
	if s.Server {
		sb.WriteString(",server=on")
	}
	if s.Wait {
		sb.WriteString(",wait=on")
	}
	if s.Reconnect > 0 {
		fmt.Fprintf(&sb, ",reconnect=%d", s.Reconnect)
	}
	return sb.String()
}

func (SerialVC) serialDevice()        {}
func (SerialPty) serialDevice()       {}
func (SerialNone) serialDevice()      {}
func (SerialNull) serialDevice()      {}
func (SerialChardev) serialDevice()   {}
func (SerialDev) serialDevice()       {}
func (SerialParport) serialDevice()   {}
func (SerialFile) serialDevice()      {}
func (SerialStdio) serialDevice()     {}
func (SerialPipe) serialDevice()      {}
func (SerialCom) serialDevice()       {}
func (SerialMon) serialDevice()       {}
func (SerialBraille) serialDevice()   {}
func (SerialMsMouse) serialDevice()   {}
func (SerialUDP) serialDevice()       {}
func (SerialTCP) serialDevice()       {}
func (SerialTelnet) serialDevice()    {}
func (SerialWebsocket) serialDevice() {}
func (SerialUnix) serialDevice()      {}
