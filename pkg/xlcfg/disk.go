package xlcfg

import "strings"

// DiskFormat is the on-disk image format.
type DiskFormat int

const (
	FormatRaw DiskFormat = iota
	FormatQcow
	FormatQcow2
	FormatVhd
	FormatQed
)

func (f DiskFormat) String() string {
	switch f {
	case FormatQcow:
		return "qcow"
	case FormatQcow2:
		return "qcow2"
	case FormatVhd:
		return "vhd"
	case FormatQed:
		return "qed"
	default:
		return "raw"
	}
}

// DiskAccess is the guest's access mode for a disk.
type DiskAccess int

const (
	AccessRW DiskAccess = iota
	AccessRO
)

func (a DiskAccess) String() string {
	if a == AccessRO {
		return "ro"
	}
	return "rw"
}

type vdevKind int

const (
	vdevXvd vdevKind = iota
	vdevHd
	vdevSd
)

// DiskVdev names the virtual device as seen by the guest, e.g. xvda or
// hdc. The zero value is xvd with no suffix; use the constructors.
type DiskVdev struct {
	kind vdevKind
	id   string
}

// Xvd returns a Xen virtual disk device, e.g. Xvd("a") -> xvda.
func Xvd(id string) DiskVdev { return DiskVdev{kind: vdevXvd, id: id} }

// Hd returns an emulated IDE device, e.g. Hd("c") -> hdc.
func Hd(id string) DiskVdev { return DiskVdev{kind: vdevHd, id: id} }

// Sd returns an emulated SCSI device, e.g. Sd("a") -> sda.
func Sd(id string) DiskVdev { return DiskVdev{kind: vdevSd, id: id} }

func (v DiskVdev) String() string {
	switch v.kind {
	case vdevHd:
		return "hd" + v.id
	case vdevSd:
		return "sd" + v.id
	default:
		return "xvd" + v.id
	}
}

// Disk is one entry of the xl disk list. Immutable once built.
// See xl-disk-configuration(5) for the sub-grammar.
type Disk struct {
	target string
	format DiskFormat
	vdev   DiskVdev
	access DiskAccess
	cdrom  bool
	script string
}

// DiskBuilder assembles a Disk. The zero builder yields a raw, rw xvda
// disk once a target is set.
type DiskBuilder struct {
	d Disk
}

func NewDisk() *DiskBuilder {
	return &DiskBuilder{d: Disk{vdev: Xvd("a")}}
}

// Target sets the host path backing the disk. Required.
func (b *DiskBuilder) Target(path string) *DiskBuilder { b.d.target = path; return b }

func (b *DiskBuilder) Format(f DiskFormat) *DiskBuilder { b.d.format = f; return b }

func (b *DiskBuilder) Vdev(v DiskVdev) *DiskBuilder { b.d.vdev = v; return b }

func (b *DiskBuilder) Access(a DiskAccess) *DiskBuilder { b.d.access = a; return b }

// CDROM marks the disk as a cdrom device (devtype=cdrom).
func (b *DiskBuilder) CDROM(cdrom bool) *DiskBuilder { b.d.cdrom = cdrom; return b }

// Script sets a target translator script for the backing store.
func (b *DiskBuilder) Script(path string) *DiskBuilder { b.d.script = path; return b }

func (b *DiskBuilder) Build() (Disk, error) {
	if b.d.target == "" {
		return Disk{}, missingRequiredField("target")
	}
	return b.d, nil
}

// render emits the disk sub-grammar. Key order is fixed by the external
// format: format, vdev, access, optional devtype, optional script, and
// the target last.
func (d Disk) render() string {
	var sb strings.Builder
	sb.WriteString("format=")
	sb.WriteString(d.format.String())
	sb.WriteString(",vdev=")
	sb.WriteString(d.vdev.String())
	sb.WriteString(",access=")
	sb.WriteString(d.access.String())
	if d.cdrom {
		sb.WriteString(",devtype=cdrom")
	}
	if d.script != "" {
		sb.WriteString(",script=")
		sb.WriteString(d.script)
	}
	sb.WriteString(",target=")
	sb.WriteString(d.target)
	return sb.String()
}

// String returns the rendered sub-grammar form.
func (d Disk) String() string { return d.render() }
