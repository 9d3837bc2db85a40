package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vv111y/zot-tui/internal/session"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search items by title or creator",
	Long:  `Start the session pre-filtered to items whose title or creator names contain the query.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(session.State{
			Mode:  session.ModeQuery,
			Query: strings.Join(args, " "),
		})
	},
}
