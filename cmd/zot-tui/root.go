// Root command for the zot-tui CLI.
package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vv111y/zot-tui/internal/paths"
	"github.com/vv111y/zot-tui/internal/session"
	"github.com/vv111y/zot-tui/pkg/types"
)

const version = "0.2.0"

// Global flag values.
var (
	flagConfigDir string
	flagDB        string
	flagVerbose   bool
)

// cfg is resolved once by PersistentPreRunE and threaded into every
// subcommand; nothing reads the environment afterwards.
var cfg types.Config

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "zot-tui",
	Short: "Fuzzy-search a Zotero library with fzf",
	Long: `zot-tui pipes your Zotero library through fzf: search titles, browse
collections, preview metadata, and open attachments without leaving the
terminal. The database is opened read-only; Zotero stays its owner.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: initSession,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(session.State{Mode: session.ModeLibrary})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "path to zotero.sqlite (default: $ZOTERO_SQLITE or auto-detect)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(allCmd)
	rootCmd.AddCommand(byCollectionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(versionCmd)
}

// initSession configures logging and resolves the configuration once
// before any subcommand runs.
func initSession(cmd *cobra.Command, args []string) error {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableColors: !isatty.IsTerminal(os.Stderr.Fd())})
	if flagVerbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return err
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	dbPath, err := paths.ResolveDatabasePath(flagDB, v.GetString(cfgKeyDatabase))
	if err != nil {
		return err
	}

	cfg = types.Config{
		Database:  dbPath,
		Pager:     v.GetString(cfgKeyPager),
		Opener:    v.GetString(cfgKeyOpener),
		FzfHeight: v.GetString(cfgKeyFzfHeight),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.WithField("database", cfg.Database).Debug("configuration resolved")
	return nil
}
