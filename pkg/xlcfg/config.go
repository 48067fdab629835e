// Package xlcfg models the xl.cfg domain configuration format and
// renders it deterministically: the same value always produces
// byte-identical text, with top-level keys in alphabetical order.
// See xl.cfg(5) for the grammar.
package xlcfg

import (
	"encoding/json"
	"net/netip"
	"sort"
	"strconv"
	"strings"
)

// Config is an immutable xl domain definition. Construct it through
// Builder; rendering is a pure function of the value and cannot fail.
type Config struct {
	name      string
	guestType GuestType

	pool      string
	vcpus     *int64
	maxVcpus  *int64
	cpus      string
	cpusSoft  string
	cpuWeight *int64
	cap       *int64

	memory *int64
	maxMem *int64
	vnuma  [][]string

	onPoweroff  *EventAction
	onReboot    *EventAction
	onWatchdog  *EventAction
	onCrash     *EventAction
	onSoftReset *EventAction

	kernel  string
	ramdisk string
	cmdline string
	root    string
	extra   string

	disks      []Disk
	vifs       []Net
	usbDevices []string
	vga        *VgaDev
	videoRAM   *int64
	vnc        *bool
	vncListen  *vncListen
	serial     SerialDevice
}

type vncListen struct {
	addr    netip.Addr
	display uint16
}

// Builder assembles a Config. Unset optional fields are omitted from
// the rendered output entirely.
type Builder struct {
	c Config
}

func NewConfig() *Builder { return &Builder{} }

// Name sets the domain name. Required and expected to be unique among
// running domains at creation time.
func (b *Builder) Name(name string) *Builder { b.c.name = name; return b }

// Type sets the guest virtualization mode. Defaults to HVM.
func (b *Builder) Type(t GuestType) *Builder { b.c.guestType = t; return b }

// Pool puts the guest's vCPUs into the named cpupool.
func (b *Builder) Pool(pool string) *Builder { b.c.pool = pool; return b }

func (b *Builder) VCPUs(n int64) *Builder { b.c.vcpus = &n; return b }

func (b *Builder) MaxVCPUs(n int64) *Builder { b.c.maxVcpus = &n; return b }

// CPUs pins the guest to the given CPU list (hard affinity).
func (b *Builder) CPUs(list string) *Builder { b.c.cpus = list; return b }

// CPUsSoft sets soft CPU affinity.
func (b *Builder) CPUsSoft(list string) *Builder { b.c.cpusSoft = list; return b }

func (b *Builder) CPUWeight(w int64) *Builder { b.c.cpuWeight = &w; return b }

// Cap limits the percentage of CPU the guest may consume.
func (b *Builder) Cap(pct int64) *Builder { b.c.cap = &pct; return b }

// Memory sets the starting memory in megabytes.
func (b *Builder) Memory(mb int64) *Builder { b.c.memory = &mb; return b }

// MaxMem sets the maximum memory in megabytes.
func (b *Builder) MaxMem(mb int64) *Builder { b.c.maxMem = &mb; return b }

// VNuma sets the virtual NUMA layout.
func (b *Builder) VNuma(v [][]string) *Builder { b.c.vnuma = v; return b }

func (b *Builder) OnPoweroff(a EventAction) *Builder { b.c.onPoweroff = &a; return b }

func (b *Builder) OnReboot(a EventAction) *Builder { b.c.onReboot = &a; return b }

func (b *Builder) OnWatchdog(a EventAction) *Builder { b.c.onWatchdog = &a; return b }

func (b *Builder) OnCrash(a EventAction) *Builder { b.c.onCrash = &a; return b }

func (b *Builder) OnSoftReset(a EventAction) *Builder { b.c.onSoftReset = &a; return b }

// Kernel sets the kernel image for direct boot.
func (b *Builder) Kernel(path string) *Builder { b.c.kernel = path; return b }

// Ramdisk sets the initramfs for direct boot.
func (b *Builder) Ramdisk(path string) *Builder { b.c.ramdisk = path; return b }

func (b *Builder) Cmdline(s string) *Builder { b.c.cmdline = s; return b }

// Root appends root=... to the kernel command line.
func (b *Builder) Root(s string) *Builder { b.c.root = s; return b }

// Extra is appended verbatim to the kernel command line.
func (b *Builder) Extra(s string) *Builder { b.c.extra = s; return b }

// Disks sets the ordered disk list.
func (b *Builder) Disks(disks ...Disk) *Builder {
	b.c.disks = append([]Disk(nil), disks...)
	return b
}

// VIFs sets the ordered virtual network interface list.
func (b *Builder) VIFs(vifs ...Net) *Builder {
	b.c.vifs = append([]Net(nil), vifs...)
	return b
}

// USBDevices adds emulated USB devices; "tablet" is the usual choice.
func (b *Builder) USBDevices(devices ...string) *Builder {
	b.c.usbDevices = append([]string(nil), devices...)
	return b
}

func (b *Builder) VGA(v VgaDev) *Builder { b.c.vga = &v; return b }

// VideoRAM sets the VRAM size in megabytes.
func (b *Builder) VideoRAM(mb int64) *Builder { b.c.videoRAM = &mb; return b }

// VNC enables or disables the VNC server.
func (b *Builder) VNC(enabled bool) *Builder { b.c.vnc = &enabled; return b }

// VNCListen sets the VNC listen address and display number.
func (b *Builder) VNCListen(addr netip.Addr, display uint16) *Builder {
	b.c.vncListen = &vncListen{addr: addr, display: display}
	return b
}

func (b *Builder) Serial(dev SerialDevice) *Builder { b.c.serial = dev; return b }

// Build validates the assembled configuration. The only local invariant
// is a non-empty name; everything else is enforced by the hypervisor.
func (b *Builder) Build() (*Config, error) {
	if b.c.name == "" {
		return nil, missingRequiredField("name")
	}
	cfg := b.c
	return &cfg, nil
}

// Name returns the domain name.
func (c *Config) Name() string { return c.name }

// Render produces the xl.cfg text: `key = value` entries joined with
// "; ", keys sorted alphabetically. Strings are JSON-quoted, numbers
// bare, booleans 0/1, list-valued fields JSON arrays of sub-grammar
// strings.
func (c *Config) Render() string {
	fields := map[string]string{
		"name": quote(c.name),
		"type": quote(c.guestType.String()),
	}

	if c.pool != "" {
		fields["pool"] = quote(c.pool)
	}
	if c.vcpus != nil {
		fields["vcpus"] = strconv.FormatInt(*c.vcpus, 10)
	}
	if c.maxVcpus != nil {
		fields["maxvcpus"] = strconv.FormatInt(*c.maxVcpus, 10)
	}
	if c.cpus != "" {
		fields["cpus"] = quote(c.cpus)
	}
	if c.cpusSoft != "" {
		fields["cpus_soft"] = quote(c.cpusSoft)
	}
	if c.cpuWeight != nil {
		fields["cpu_weight"] = strconv.FormatInt(*c.cpuWeight, 10)
	}
	if c.cap != nil {
		fields["cap"] = strconv.FormatInt(*c.cap, 10)
	}
	if c.memory != nil {
		fields["memory"] = strconv.FormatInt(*c.memory, 10)
	}
	if c.maxMem != nil {
		fields["maxmem"] = strconv.FormatInt(*c.maxMem, 10)
	}
	if c.vnuma != nil {
		fields["vnuma"] = jsonValue(c.vnuma)
	}
	if c.onPoweroff != nil {
		fields["on_poweroff"] = quote(c.onPoweroff.String())
	}
	if c.onReboot != nil {
		fields["on_reboot"] = quote(c.onReboot.String())
	}
	if c.onWatchdog != nil {
		fields["on_watchdog"] = quote(c.onWatchdog.String())
	}
	if c.onCrash != nil {
		fields["on_crash"] = quote(c.onCrash.String())
	}
	if c.onSoftReset != nil {
		fields["on_soft_reset"] = quote(c.onSoftReset.String())
	}
	if c.kernel != "" {
		fields["kernel"] = quote(c.kernel)
	}
	if c.ramdisk != "" {
		fields["ramdisk"] = quote(c.ramdisk)
	}
	if c.cmdline != "" {
		fields["cmdline"] = quote(c.cmdline)
	}
	if c.root != "" {
		fields["root"] = quote(c.root)
	}
	if c.extra != "" {
		fields["extra"] = quote(c.extra)
	}
	if len(c.disks) > 0 {
		rendered := make([]string, len(c.disks))
		for i, d := range c.disks {
			rendered[i] = d.render()
		}
		fields["disk"] = jsonValue(rendered)
	}
	if len(c.vifs) > 0 {
		rendered := make([]string, len(c.vifs))
		for i, v := range c.vifs {
			rendered[i] = v.render()
		}
		fields["vif"] = jsonValue(rendered)
	}
	if len(c.usbDevices) > 0 {
		fields["usbdevice"] = jsonValue(c.usbDevices)
	}
	if c.vga != nil {
		fields["vga"] = quote(c.vga.String())
	}
	if c.videoRAM != nil {
		fields["videoram"] = strconv.FormatInt(*c.videoRAM, 10)
	}
	if c.vnc != nil {
		if *c.vnc {
			fields["vnc"] = "1"
		} else {
			fields["vnc"] = "0"
		}
	}
	if c.vncListen != nil {
		fields["vnclisten"] = quote(c.vncListen.addr.String() + ":" + strconv.Itoa(int(c.vncListen.display)))
	}
	if c.serial != nil {
		fields["serial"] = quote(c.serial.String())
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]string, len(keys))
	for i, k := range keys {
		entries[i] = k + " = " + fields[k]
	}
	return strings.Join(entries, "; ")
}

// String is an alias for Render.
func (c *Config) String() string { return c.Render() }

// quote JSON-encodes a string, which is exactly the xl.cfg string
// encoding (double quotes, backslash escapes).
func quote(s string) string {
	out, _ := json.Marshal(s)
	return string(out)
}

// jsonValue encodes list-valued fields as compact JSON arrays.
func jsonValue(v interface{}) string {
	out, _ := json.Marshal(v)
	return string(out)
}
