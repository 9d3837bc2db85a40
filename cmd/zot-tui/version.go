package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/vv111y/zot-tui"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the zot-tui version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "zot-tui v%s\nmodule: %s\n", version, modulePath)
		return nil
	},
}
