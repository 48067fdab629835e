package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kfxlabs/xenops/pkg/presets"
)

var (
	windevISOFlag string
	windevImgFlag string
)

func init() {
	windevCmd.Flags().StringVar(&windevISOFlag, "iso", "", "Path to the Windows install ISO")
	windevCmd.Flags().StringVar(&windevImgFlag, "img", "", "Path to the system disk image (created sparse if missing)")
	windevCmd.MarkFlagRequired("iso")
	windevCmd.MarkFlagRequired("img")
	createCmd.AddCommand(windevCmd)
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a domain from a preset",
}

var windevCmd = &cobra.Command{
	Use:   "windev",
	Short: "Create a Windows development guest",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := presets.WindowsDev(cmd.Context(), newClient(), windevISOFlag, windevImgFlag)
		if err != nil {
			return err
		}
		fmt.Printf("created %s\n", color.GreenString(name))
		return nil
	},
}
