// Package presets defines canned machine configurations and their
// bringup sequences.
package presets

import (
	"context"
	"net/netip"

	"github.com/pkg/errors"

	"github.com/kfxlabs/xenops/pkg/util"
	"github.com/kfxlabs/xenops/pkg/xl"
	"github.com/kfxlabs/xenops/pkg/xlcfg"
)

const (
	windevPrefix = "windev"
	windevDiskGB = 40
	vncBasePort  = 5900
)

// WindowsDev provisions a Windows development guest: HVM, 4096 MB RAM,
// 2 vCPUs, stdvga with 32 MB VRAM, a pty serial console, one vif on
// xenbr0, the install ISO attached as an hdc cdrom and a 40 GB sparse
// system disk as xvda, with VNC listening on the next free display.
// The domain name is derived from the "windev" prefix and returned.
func WindowsDev(ctx context.Context, client *xl.Client, isoPath, imgPath string) (string, error) {
	name, err := client.UniqueDomName(ctx, windevPrefix)
	if err != nil {
		return "", errors.Wrap(err, "allocating domain name")
	}

	if err := util.NewImage(imgPath, windevDiskGB); err != nil {
		return "", errors.Wrap(err, "preparing system disk")
	}

	port, err := util.FreePort(vncBasePort)
	if err != nil {
		return "", errors.Wrap(err, "allocating VNC port")
	}

	iso, err := xlcfg.NewDisk().
		Target(isoPath).
		Format(xlcfg.FormatRaw).
		CDROM(true).
		Vdev(xlcfg.Hd("c")).
		Build()
	if err != nil {
		return "", errors.Wrap(err, "building install media config")
	}
	system, err := xlcfg.NewDisk().
		Target(imgPath).
		Format(xlcfg.FormatRaw).
		Vdev(xlcfg.Xvd("a")).
		Build()
	if err != nil {
		return "", errors.Wrap(err, "building system disk config")
	}

	cfg, err := xlcfg.NewConfig().
		Name(name).
		Type(xlcfg.HVM).
		Memory(4096).
		VCPUs(2).
		VGA(xlcfg.VgaStdVga).
		VideoRAM(32).
		Serial(xlcfg.SerialPty{}).
		VIFs(xlcfg.NewNet().Bridge("xenbr0").Build()).
		Disks(iso, system).
		VNC(true).
		VNCListen(netip.IPv4Unspecified(), uint16(port-vncBasePort)).
		Build()
	if err != nil {
		return "", errors.Wrap(err, "building domain config")
	}

	if err := client.Create(ctx, cfg); err != nil {
		return "", errors.Wrapf(err, "creating domain %q", name)
	}
	return name, nil
}
