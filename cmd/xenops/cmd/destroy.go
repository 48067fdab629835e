package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(destroyCmd)
}

var destroyCmd = &cobra.Command{
	Use:   "destroy <domain>",
	Short: "Immediately terminate a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		domid, err := client.Domid(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return client.Destroy(cmd.Context(), domid)
	},
}
