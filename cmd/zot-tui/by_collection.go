package main

import (
	"github.com/spf13/cobra"

	"github.com/vv111y/zot-tui/internal/session"
)

var byCollectionCmd = &cobra.Command{
	Use:   "by-collection",
	Short: "Pick a collection, then search the items in it",
	Long: `Browse the collection tree first; selecting a collection lists its
items. Ctrl-H goes back to the collection listing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(session.State{Mode: session.ModeCollections})
	},
}
