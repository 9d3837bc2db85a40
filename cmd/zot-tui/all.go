package main

import (
	"github.com/spf13/cobra"

	"github.com/vv111y/zot-tui/internal/session"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Search the whole library",
	Long: `Search every item in the library by title. Enter views the full entry,
Ctrl-O opens the first attachment, Ctrl-A chooses among attachments,
Ctrl-T switches to the collection listing, Ctrl-F filters by a query.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(session.State{Mode: session.ModeLibrary})
	},
}
