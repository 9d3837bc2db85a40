package types

import "path/filepath"

// Config holds everything resolved once at startup: the database location
// and the external programs the session shells out to. It is threaded
// explicitly through the program; nothing reads the environment after the
// root command finishes resolution.
type Config struct {
	Database  string // absolute path to zotero.sqlite
	Pager     string // optional pager override; empty falls back to $PAGER/less/more
	Opener    string // optional open-command override; empty picks the OS default
	FzfHeight string // fzf --height value, e.g. "80%"
}

// StorageRoot returns the Zotero storage directory, which lives next to
// the database file.
func (c Config) StorageRoot() string {
	return filepath.Join(filepath.Dir(c.Database), "storage")
}

// Validate checks that the Config is usable.
func (c Config) Validate() error {
	if c.Database == "" {
		return ErrDatabaseNotFound
	}
	return nil
}
