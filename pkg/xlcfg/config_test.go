package xlcfg

import (
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMinimal(t *testing.T) {
	cfg, err := NewConfig().Name("agent").Type(HVM).Build()
	require.NoError(t, err)
	assert.Equal(t, `name = "agent"; type = "hvm"`, cfg.Render())
}

func TestBuildMissingName(t *testing.T) {
	_, err := NewConfig().Type(PV).Build()
	require.Error(t, err)

	cfgErr, ok := err.(*ConfigError)
	require.True(t, ok)
	assert.Equal(t, "name", cfgErr.Field)
}

func TestRenderWinAgent(t *testing.T) {
	img, err := NewDisk().
		Target("/test/tmp/disk1.img").
		Format(FormatRaw).
		Vdev(Xvd("a")).
		Access(AccessRW).
		Build()
	require.NoError(t, err)

	cd, err := NewDisk().
		Target("/test/tmp/disk2.iso").
		Format(FormatRaw).
		CDROM(true).
		Vdev(Hd("c")).
		Build()
	require.NoError(t, err)

	cfg, err := NewConfig().
		Name("agent").
		Type(HVM).
		Memory(4096).
		VCPUs(1).
		USBDevices("tablet").
		VGA(VgaStdVga).
		VideoRAM(32).
		Serial(SerialPty{}).
		VIFs(NewNet().Bridge("xenbr0").Build()).
		Disks(img, cd).
		VNC(true).
		VNCListen(netip.AddrFrom4([4]byte{0, 0, 0, 0}), 3).
		Build()
	require.NoError(t, err)

	want := `disk = ["format=raw,vdev=xvda,access=rw,target=/test/tmp/disk1.img","format=raw,vdev=hdc,access=rw,devtype=cdrom,target=/test/tmp/disk2.iso"]; ` +
		`memory = 4096; name = "agent"; serial = "pty"; type = "hvm"; usbdevice = ["tablet"]; ` +
		`vcpus = 1; vga = "stdvga"; videoram = 32; vif = ["bridge=xenbr0"]; vnc = 1; vnclisten = "0.0.0.0:3"`
	assert.Equal(t, want, cfg.Render())
}

func TestRenderDeterministic(t *testing.T) {
	build := func() *Config {
		cfg, err := NewConfig().
			Name("det").
			VCPUs(2).
			Memory(1024).
			OnCrash(ActionCoredumpRestart).
			Kernel("/boot/vmlinuz").
			Extra("console=hvc0").
			Build()
		require.NoError(t, err)
		return cfg
	}
	a, b := build(), build()
	assert.Equal(t, a.Render(), b.Render())

	// Construction order must not leak into output: same fields set in
	// a different order render identically.
	c, err := NewConfig().
		Extra("console=hvc0").
		Kernel("/boot/vmlinuz").
		OnCrash(ActionCoredumpRestart).
		Memory(1024).
		VCPUs(2).
		Name("det").
		Build()
	require.NoError(t, err)
	assert.Equal(t, a.Render(), c.Render())
}

func TestRenderAllScalarFields(t *testing.T) {
	cfg, err := NewConfig().
		Name("full").
		Type(PVH).
		Pool("pool0").
		VCPUs(2).
		MaxVCPUs(4).
		CPUs("0-3").
		CPUsSoft("0-7").
		CPUWeight(256).
		Cap(50).
		Memory(2048).
		MaxMem(4096).
		OnPoweroff(ActionDestroy).
		OnReboot(ActionRestart).
		OnWatchdog(ActionRenameRestart).
		OnCrash(ActionPreserve).
		OnSoftReset(ActionSoftReset).
		Kernel("/boot/vmlinuz").
		Ramdisk("/boot/initrd").
		Cmdline("quiet").
		Root("/dev/xvda1").
		Extra("console=hvc0").
		Build()
	require.NoError(t, err)

	want := `cap = 50; cmdline = "quiet"; cpu_weight = 256; cpus = "0-3"; cpus_soft = "0-7"; ` +
		`extra = "console=hvc0"; kernel = "/boot/vmlinuz"; maxmem = 4096; maxvcpus = 4; memory = 2048; ` +
		`name = "full"; on_crash = "preserve"; on_poweroff = "destroy"; on_reboot = "restart"; ` +
		`on_soft_reset = "soft-reset"; on_watchdog = "rename-restart"; pool = "pool0"; ` +
		`ramdisk = "/boot/initrd"; root = "/dev/xvda1"; type = "pvh"; vcpus = 2`
	assert.Equal(t, want, cfg.Render())
}

func TestRenderVNCDisabled(t *testing.T) {
	cfg, err := NewConfig().Name("novnc").VNC(false).Build()
	require.NoError(t, err)
	assert.Equal(t, `name = "novnc"; type = "hvm"; vnc = 0`, cfg.Render())
}

func TestDiskRender(t *testing.T) {
	tests := []struct {
		name  string
		build func() (Disk, error)
		want  string
	}{
		{
			name: "defaults",
			build: func() (Disk, error) {
				return NewDisk().Target("/tmp/disk1.img").Build()
			},
			want: "format=raw,vdev=xvda,access=rw,target=/tmp/disk1.img",
		},
		{
			name: "cdrom",
			build: func() (Disk, error) {
				return NewDisk().Target("/tmp/a.iso").Vdev(Hd("c")).CDROM(true).Build()
			},
			want: "format=raw,vdev=hdc,access=rw,devtype=cdrom,target=/tmp/a.iso",
		},
		{
			name: "qcow2 readonly with script",
			build: func() (Disk, error) {
				return NewDisk().
					Target("iscsi:iqn.2026-01.com.example:disk").
					Format(FormatQcow2).
					Vdev(Sd("b")).
					Access(AccessRO).
					Script("/etc/xen/scripts/block-iscsi").
					Build()
			},
			want: "format=qcow2,vdev=sdb,access=ro,script=/etc/xen/scripts/block-iscsi,target=iscsi:iqn.2026-01.com.example:disk",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestDiskRequiresTarget(t *testing.T) {
	_, err := NewDisk().Format(FormatRaw).Build()
	require.Error(t, err)

	cfgErr, ok := err.(*ConfigError)
	require.True(t, ok)
	assert.Equal(t, "target", cfgErr.Field)
}

func TestDiskListRendersAsJSONArray(t *testing.T) {
	d, err := NewDisk().Target("/tmp/disk1.img").Build()
	require.NoError(t, err)

	cfg, err := NewConfig().Name("d").Disks(d).Build()
	require.NoError(t, err)
	assert.Contains(t, cfg.Render(), `disk = ["format=raw,vdev=xvda,access=rw,target=/tmp/disk1.img"]`)
}

func TestNetRenderKeyOrder(t *testing.T) {
	mac, err := net.ParseMAC("00:16:3e:aa:bb:cc")
	require.NoError(t, err)

	n := NewNet().
		VifName("vif-agent").
		Type(VifIoemu).
		Script("/etc/xen/scripts/vif-bridge").
		Model(ModelE1000).
		MAC(mac).
		IP(netip.AddrFrom4([4]byte{10, 0, 0, 7})).
		GatewayDev("eth0").
		Bridge("xenbr0").
		Build()

	want := "bridge=xenbr0,gatewaydev=eth0,ip=10.0.0.7,mac=00:16:3e:aa:bb:cc," +
		"model=e1000,script=/etc/xen/scripts/vif-bridge,type=ioemu,vifname=vif-agent"
	assert.Equal(t, want, n.String())
}

func TestNetRenderEmpty(t *testing.T) {
	assert.Equal(t, "", NewNet().Build().String())
}

func TestSerialTokens(t *testing.T) {
	tests := []struct {
		dev  SerialDevice
		want string
	}{
		{SerialVC{}, "vc"},
		{SerialVC{Columns: 80, Rows: 25, Sized: true}, "vc:80:25"},
		{SerialPty{}, "pty"},
		{SerialNone{}, "none"},
		{SerialNull{}, "null"},
		{SerialChardev{Name: "ch0"}, "chardev:ch0"},
		{SerialDev{Path: "/dev/ttyS0"}, "dev:/dev/ttyS0"},
		{SerialParport{Index: 1}, "parport:1"},
		{SerialFile{Path: "/var/log/guest.log"}, "file:/var/log/guest.log"},
		{SerialStdio{}, "stdio"},
		{SerialPipe{Path: "/tmp/guest.pipe"}, "pipe:/tmp/guest.pipe"},
		{SerialCom{Index: 2}, "com:2"},
		{SerialMon{Path: "/tmp/mon.sock"}, "mon:/tmp/mon.sock"},
		{SerialBraille{}, "braille"},
		{SerialMsMouse{}, "msmouse"},
		{SerialUDP{RemoteHost: "10.0.0.1", RemotePort: 4555}, "udp:10.0.0.1:4555"},
		{
			SerialUDP{RemoteHost: "10.0.0.1", RemotePort: 4555, HasSource: true, SourceHost: "10.0.0.2", SourcePort: 4556},
			"udp:10.0.0.1:4555@10.0.0.2:4556",
		},
		{SerialTCP{RemoteHost: "host", RemotePort: 4555}, "tcp:host:4555"},
		{
			SerialTCP{RemoteHost: "host", RemotePort: 4555, Server: true, Wait: true, NoDelay: true, Reconnect: 5},
			"tcp:host:4555,server=on,wait=on,nodelay=on,reconnect=5",
		},
		{
			SerialTelnet{RemoteHost: "10.1.2.3", RemotePort: 2323, Server: true},
			"telnet:10.1.2.3:2323,server=on",
		},
		{
			SerialWebsocket{RemoteHost: "0.0.0.0", RemotePort: 8080, Wait: true},
			"websocket:0.0.0.0:8080,server=on,wait=on",
		},
		{
			SerialUnix{Path: "/tmp/serial.sock", Server: true, Reconnect: 10},
			"unix:/tmp/serial.sock,server=on,reconnect=10",
		},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dev.String())
		})
	}
}

func TestSerialRendersQuoted(t *testing.T) {
	cfg, err := NewConfig().Name("s").Serial(SerialTCP{RemoteHost: "host", RemotePort: 4555, Server: true}).Build()
	require.NoError(t, err)
	assert.Contains(t, cfg.Render(), `serial = "tcp:host:4555,server=on"`)
}

func TestVNumaRendersAsJSON(t *testing.T) {
	cfg, err := NewConfig().
		Name("numa").
		VNuma([][]string{{"pnode=0", "size=2048"}, {"pnode=1", "size=2048"}}).
		Build()
	require.NoError(t, err)
	assert.Contains(t, cfg.Render(), `vnuma = [["pnode=0","size=2048"],["pnode=1","size=2048"]]`)
}
