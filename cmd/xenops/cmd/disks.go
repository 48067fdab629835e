package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kfxlabs/xenops/pkg/connector"
	"github.com/kfxlabs/xenops/pkg/logger"
	"github.com/kfxlabs/xenops/pkg/xenstore"
)

func init() {
	rootCmd.AddCommand(disksCmd)
}

var disksCmd = &cobra.Command{
	Use:   "disks <domain>",
	Short: "Show the block-device backing files of a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Get()
		store := xenstore.NewStore(connector.NewLocalRunner(log), log)
		disks, err := store.DomDisks(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, d := range disks {
			fmt.Println(d)
		}
		return nil
	},
}
