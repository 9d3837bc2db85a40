package types

// Collection is a node in the Zotero collection tree. Names are unique
// within a parent and parent chains are cycle-free in a healthy library.
type Collection struct {
	ID       int64
	Name     string
	ParentID int64 // 0 for top-level collections
}

// Creator is one author, editor, or other contributor of an item.
type Creator struct {
	LastName  string
	FirstName string
}

// String renders the creator as "Last, First", omitting empty parts.
func (c Creator) String() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.LastName + ", " + c.FirstName
}

// Item is a bibliographic entry read from the library. Items are immutable
// for the duration of a session: the database is opened read-only and rows
// are re-fetched for every picker invocation.
type Item struct {
	ID          int64
	Key         string // Zotero library key, e.g. "ABCD2345"
	CitationKey string
	Title       string
	Creators    []Creator // in Zotero orderIndex order
	Date        string
	DOI         string
	URL         string
	Abstract    string
}

// Attachment is a stored file reference owned by an item. Ref holds the
// reference string exactly as Zotero keeps it: a "storage:" key form, an
// absolute path, or some other linked form.
type Attachment struct {
	ID     int64
	ItemID int64  // owning (parent) item
	Key    string // storage directory key of the attachment row itself
	Ref    string
}

// ResolvedAttachment pairs an attachment with the absolute path it maps to.
// Missing reflects a filesystem probe at resolution time and can go stale
// before the file is opened. Unsupported marks reference forms this tool
// does not resolve; they are listed in previews but never opened.
type ResolvedAttachment struct {
	Attachment  Attachment
	Path        string
	Missing     bool
	Unsupported bool
}
