package domip

import (
	"bytes"
	"context"
	"net"
	"net/netip"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/kfxlabs/xenops/pkg/logger"
)

// captureReadTimeout bounds each read so capture goroutines notice
// cancellation even on idle devices.
const captureReadTimeout = 500 * time.Millisecond

// CaptureResolver resolves a domain's IPv4 address by opening
// promiscuous captures on every host network device and racing them to
// the first Ethernet frame whose source or destination MAC matches a
// target MAC; the correlated address is read from the frame's IPv4
// header. Same external contract as Resolver: bounded overall wait,
// non-fatal per-device failures. Requires privileges to capture.
type CaptureResolver struct {
	Log *logger.Logger
	// SnapLen is the capture snapshot length; defaults to 65536.
	SnapLen int32
}

func NewCaptureResolver(log *logger.Logger) *CaptureResolver {
	return &CaptureResolver{Log: log}
}

func (r *CaptureResolver) ResolveIP(ctx context.Context, domain string, macs []net.HardwareAddr, timeout time.Duration) (netip.Addr, error) {
	devices, err := pcap.FindAllDevs()
	if err != nil {
		return netip.Addr{}, errors.Wrap(err, "enumerating capture devices")
	}
	if len(devices) == 0 {
		return netip.Addr{}, errors.New("no capture devices available")
	}

	snapLen := r.SnapLen
	if snapLen == 0 {
		snapLen = 65536
	}

	start := time.Now()
	raceCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make(chan netip.Addr, 1)
	g, gctx := errgroup.WithContext(raceCtx)

	for _, dev := range devices {
		name := dev.Name
		g.Go(func() error {
			handle, err := pcap.OpenLive(name, snapLen, true, captureReadTimeout)
			if err != nil {
				// A device refusing promiscuous mode is a miss, not a
				// failure of the whole race.
				if r.Log != nil {
					r.Log.Warnf("cannot capture on %s: %v", name, err)
				}
				return nil
			}
			defer handle.Close()

			if r.Log != nil {
				r.Log.Debugf("listening on device %s", name)
			}
			src := gopacket.NewPacketSource(handle, handle.LinkType())
			src.NoCopy = true
			packets := src.Packets()
			for {
				select {
				case <-gctx.Done():
					return nil
				case pkt, ok := <-packets:
					if !ok {
						return nil
					}
					if addr, ok := matchFrame(pkt, macs); ok {
						select {
						case results <- addr:
							cancel()
						default:
						}
						return nil
					}
				}
			}
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case addr := <-results:
		return addr, nil
	case <-done:
		// All captures ended without a match; report the bounded wait.
		select {
		case addr := <-results:
			return addr, nil
		default:
		}
		if ctx.Err() != nil {
			return netip.Addr{}, errors.Wrapf(ctx.Err(), "resolving IP for domain %q", domain)
		}
		return netip.Addr{}, &TimeoutError{Domain: domain, Timeout: timeout, Elapsed: time.Since(start)}
	}
}

// matchFrame extracts the IPv4 address correlated with a target MAC
// from an Ethernet frame, if any.
func matchFrame(pkt gopacket.Packet, macs []net.HardwareAddr) (netip.Addr, bool) {
	ethLayer := pkt.Layer(layers.LayerTypeEthernet)
	ipLayer := pkt.Layer(layers.LayerTypeIPv4)
	if ethLayer == nil || ipLayer == nil {
		return netip.Addr{}, false
	}
	eth := ethLayer.(*layers.Ethernet)
	ip4 := ipLayer.(*layers.IPv4)

	for _, mac := range macs {
		if bytes.Equal(eth.SrcMAC, mac) {
			if addr, ok := netip.AddrFromSlice(ip4.SrcIP.To4()); ok {
				return addr, true
			}
		}
		if bytes.Equal(eth.DstMAC, mac) {
			if addr, ok := netip.AddrFromSlice(ip4.DstIP.To4()); ok {
				return addr, true
			}
		}
	}
	return netip.Addr{}, false
}
