package cmd

import (
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kfxlabs/xenops/pkg/connector"
	"github.com/kfxlabs/xenops/pkg/domip"
	"github.com/kfxlabs/xenops/pkg/logger"
)

var (
	ipTimeoutFlag time.Duration
	ipPcapFlag    bool
)

func init() {
	ipCmd.Flags().DurationVar(&ipTimeoutFlag, "timeout", 60*time.Second, "How long to wait for the guest to appear on the network")
	ipCmd.Flags().BoolVar(&ipPcapFlag, "pcap", false, "Sniff traffic on all interfaces instead of polling the neighbor table (needs libpcap and root)")
	rootCmd.AddCommand(ipCmd)
}

var ipCmd = &cobra.Command{
	Use:   "ip <domain>",
	Short: "Resolve the IPv4 address of a running domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		domain := args[0]
		log := logger.Get()
		client := newClient()

		macs, err := domip.DomMACs(cmd.Context(), client, domain)
		if err != nil {
			return err
		}
		if len(macs) == 0 {
			return fmt.Errorf("domain %q has no network interfaces", domain)
		}

		addr, err := resolve(cmd, domain, macs, log)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", domain, color.GreenString(addr.String()))
		return nil
	},
}

func resolve(cmd *cobra.Command, domain string, macs []net.HardwareAddr, log *logger.Logger) (netip.Addr, error) {
	if ipPcapFlag {
		return domip.NewCaptureResolver(log).ResolveIP(cmd.Context(), domain, macs, ipTimeoutFlag)
	}
	source := domip.NewCommandNeighborSource(connector.NewLocalRunner(log), log)
	return domip.NewResolver(source, log).ResolveIP(cmd.Context(), domain, macs, ipTimeoutFlag)
}
