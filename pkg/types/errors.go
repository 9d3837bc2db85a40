package types

import "errors"

// Fatal startup errors. Each is reported once with a user-facing message
// and a non-zero exit; the database and the external programs are managed
// outside this tool, so retrying cannot help.
var (
	ErrDatabaseNotFound   = errors.New("zotero database not found")
	ErrDatabaseUnreadable = errors.New("zotero database unreadable")
	ErrPickerNotFound     = errors.New("fzf not found in PATH")
	ErrPagerNotFound      = errors.New("no pager found in PATH")
)

// Per-attachment conditions. Non-fatal: the affected attachment is flagged
// or excluded and the session keeps running.
var (
	ErrAmbiguousAttachment       = errors.New("ambiguous attachment directory")
	ErrUnsupportedAttachmentForm = errors.New("unsupported attachment reference")
	ErrNoAttachment              = errors.New("no attachment resolves to a file")
)
