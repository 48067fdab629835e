package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/kfxlabs/xenops/pkg/connector"
	"github.com/kfxlabs/xenops/pkg/logger"
	"github.com/kfxlabs/xenops/pkg/xl"
)

var (
	verboseFlag bool
	binaryFlag  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xenops",
	Short: "xenops manages Xen guests through the xl toolstack.",
	Long: `xenops is a command-line interface for provisioning and
inspecting Xen domains: it drives xl for lifecycle operations,
resolves guest IP addresses and walks xenstore for device metadata.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logOpts := logger.DefaultOptions()
		logOpts.ColorConsole = true
		if verboseFlag {
			logOpts.ConsoleLevel = zapcore.DebugLevel
		}
		logger.Init(logOpts)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	defer logger.SyncGlobal()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&binaryFlag, "xl-binary", xl.DefaultBinary, "Path to the xl binary")
}

// newClient builds an xl client over a local subprocess runner using
// the global logger and flags.
func newClient() *xl.Client {
	log := logger.Get()
	client := xl.NewClient(connector.NewLocalRunner(log), log)
	if binaryFlag != xl.DefaultBinary {
		client = client.WithBinary(binaryFlag)
	}
	return client
}
