package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vv111y/zot-tui/internal/format"
	"github.com/vv111y/zot-tui/internal/resolve"
	"github.com/vv111y/zot-tui/internal/zotero"
)

var previewID int64

// previewCmd is invoked by fzf's --preview template with the hidden ID
// field of the highlighted line; it prints the metadata block for one item.
var previewCmd = &cobra.Command{
	Use:    "preview",
	Short:  "Print the metadata preview for one item",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib := zotero.New(cfg.Database)
		item, err := lib.GetItem(previewID)
		if err != nil {
			return err
		}
		atts, err := lib.ListAttachments(previewID)
		if err != nil {
			return err
		}
		resolved := resolve.All(atts, cfg.StorageRoot())
		fmt.Fprint(cmd.OutOrStdout(), format.Preview(item, resolved))
		return nil
	},
}

func init() {
	previewCmd.Flags().Int64Var(&previewID, "id", 0, "item identifier")
	_ = previewCmd.MarkFlagRequired("id")
}
