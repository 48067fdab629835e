package xlcfg

import (
	"net"
	"net/netip"
	"strings"
)

// VifType is the device type used for HVM guests.
type VifType int

const (
	vifTypeUnset VifType = iota
	VifIoemu
	VifVif
)

func (t VifType) String() string {
	if t == VifVif {
		return "vif"
	}
	return "ioemu"
}

// VifModel is the emulated NIC model. Arbitrary models understood by
// the device model are allowed; the common ones have constants.
type VifModel string

const (
	ModelRtl8139 VifModel = "rtl8139"
	ModelE1000   VifModel = "e1000"
)

// Net is one entry of the xl vif list. All fields are optional; only
// set fields are rendered. See xl-network-configuration(5).
type Net struct {
	mac        net.HardwareAddr
	bridge     string
	gatewaydev string
	typ        VifType
	model      VifModel
	vifname    string
	script     string
	ip         netip.Addr
}

// NetBuilder assembles a Net.
type NetBuilder struct {
	n Net
}

func NewNet() *NetBuilder { return &NetBuilder{} }

// MAC sets the guest-visible MAC address.
func (b *NetBuilder) MAC(mac net.HardwareAddr) *NetBuilder { b.n.mac = mac; return b }

// Bridge names the host bridge the vif is attached to.
func (b *NetBuilder) Bridge(bridge string) *NetBuilder { b.n.bridge = bridge; return b }

// GatewayDev names the host interface the vif communicates through.
func (b *NetBuilder) GatewayDev(dev string) *NetBuilder { b.n.gatewaydev = dev; return b }

func (b *NetBuilder) Type(t VifType) *NetBuilder { b.n.typ = t; return b }

func (b *NetBuilder) Model(m VifModel) *NetBuilder { b.n.model = m; return b }

// VifName sets the backend device name for the virtual interface.
func (b *NetBuilder) VifName(name string) *NetBuilder { b.n.vifname = name; return b }

// Script sets the hotplug script; defaults to /etc/xen/scripts/vif-bridge
// on the hypervisor side when unset.
func (b *NetBuilder) Script(path string) *NetBuilder { b.n.script = path; return b }

// IP assigns a static IPv4 address to the guest interface.
func (b *NetBuilder) IP(ip netip.Addr) *NetBuilder { b.n.ip = ip; return b }

func (b *NetBuilder) Build() Net { return b.n }

// render emits the vif sub-grammar, keys in alphabetical order so equal
// values always compare equal as text.
func (n Net) render() string {
	var parts []string
	add := func(k, v string) { parts = append(parts, k+"="+v) }

	if n.bridge != "" {
		add("bridge", n.bridge)
	}
	if n.gatewaydev != "" {
		add("gatewaydev", n.gatewaydev)
	}
	if n.ip.IsValid() {
		add("ip", n.ip.String())
	}
	if len(n.mac) != 0 {
		add("mac", n.mac.String())
	}
	if n.model != "" {
		add("model", string(n.model))
	}
	if n.script != "" {
		add("script", n.script)
	}
	if n.typ != vifTypeUnset {
		add("type", n.typ.String())
	}
	if n.vifname != "" {
		add("vifname", n.vifname)
	}
	return strings.Join(parts, ",")
}

// String returns the rendered sub-grammar form.
func (n Net) String() string { return n.render() }
