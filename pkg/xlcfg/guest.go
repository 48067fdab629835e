package xlcfg

// GuestType selects the virtualization mode a domain boots under.
type GuestType int

const (
	// HVM is a hardware virtual machine with fully emulated BIOS and
	// devices. This is the default.
	HVM GuestType = iota
	// PV is a paravirtualized guest aware of the Xen host.
	PV
	// PVH is similar to HVM but without most emulated devices; it
	// requires a PVH-aware kernel.
	PVH
)

func (t GuestType) String() string {
	switch t {
	case PV:
		return "pv"
	case PVH:
		return "pvh"
	default:
		return "hvm"
	}
}

// EventAction is what the hypervisor does to a domain on lifecycle
// events such as poweroff or crash.
type EventAction int

const (
	ActionDestroy EventAction = iota
	ActionRestart
	ActionRenameRestart
	ActionPreserve
	ActionCoredumpDestroy
	ActionCoredumpRestart
	ActionSoftReset
)

func (a EventAction) String() string {
	switch a {
	case ActionRestart:
		return "restart"
	case ActionRenameRestart:
		return "rename-restart"
	case ActionPreserve:
		return "preserve"
	case ActionCoredumpDestroy:
		return "coredump-destroy"
	case ActionCoredumpRestart:
		return "coredump-restart"
	case ActionSoftReset:
		return "soft-reset"
	default:
		return "destroy"
	}
}

// VgaDev is the emulated VGA device for HVM guests.
type VgaDev int

const (
	VgaStdVga VgaDev = iota
	VgaNone
	VgaCirrus
	VgaQxl
)

func (v VgaDev) String() string {
	switch v {
	case VgaNone:
		return "none"
	case VgaCirrus:
		return "cirrus"
	case VgaQxl:
		return "qxl"
	default:
		return "stdvga"
	}
}
