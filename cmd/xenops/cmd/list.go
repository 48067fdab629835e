package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List running domains",
	RunE: func(cmd *cobra.Command, args []string) error {
		domains, err := newClient().List(cmd.Context())
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "ID", "Mem (MB)", "VCPUs", "State", "Time (s)"})
		table.SetBorder(false)
		for _, d := range domains {
			table.Append([]string{
				d.Name,
				strconv.FormatUint(uint64(d.ID), 10),
				strconv.FormatUint(uint64(d.MemoryMB), 10),
				strconv.FormatUint(uint64(d.VCPUs), 10),
				d.Flags.String(),
				fmt.Sprintf("%.1f", d.CPUTime),
			})
		}
		table.Render()
		return nil
	},
}
