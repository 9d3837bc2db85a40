// Package zotero reads a Zotero sqlite library.
//
// The database is owned by the Zotero desktop application; every query
// batch opens its own read-only connection and closes it before returning,
// so no file handle is held while the session blocks on a subprocess.
package zotero

import (
	"database/sql"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	_ "modernc.org/sqlite"

	"github.com/vv111y/zot-tui/pkg/types"
)

// Metadata field names in Zotero's fields table. The itemData pivot is
// joined through fields by name rather than by numeric fieldID, which
// shifts between schema versions.
var metadataFields = []string{"title", "date", "DOI", "url", "abstractNote", "citationKey"}

// Item types that are containers for other items' data rather than
// bibliographic entries of their own.
var excludedItemTypes = []string{"attachment", "note", "annotation"}

// Library reads the Zotero database at a fixed path.
type Library struct {
	path string
}

// New returns a Library for the database at path. No connection is opened
// until the first query.
func New(path string) *Library {
	return &Library{path: path}
}

// open establishes a fresh read-only connection and verifies the file is
// actually a readable sqlite database.
func (l *Library) open() (*sql.DB, error) {
	if _, err := os.Stat(l.path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", types.ErrDatabaseNotFound, l.path)
		}
		return nil, fmt.Errorf("%w: %s: %v", types.ErrDatabaseUnreadable, l.path, err)
	}

	db, err := sql.Open("sqlite", "file:"+l.path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrDatabaseUnreadable, l.path, err)
	}

	// Force a real read so a locked, malformed, or permission-denied file
	// fails here rather than in the middle of a listing.
	var schemaVersion int
	if err := db.QueryRow("PRAGMA schema_version").Scan(&schemaVersion); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %s: %v", types.ErrDatabaseUnreadable, l.path, err)
	}
	return db, nil
}

// ListCollections returns every collection, ordered by name
// case-insensitively with the collection ID as tie-break.
func (l *Library) ListCollections() ([]types.Collection, error) {
	db, err := l.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT collectionID, collectionName, COALESCE(parentCollectionID, 0)
		FROM collections
		ORDER BY collectionName COLLATE NOCASE, collectionID`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var colls []types.Collection
	for rows.Next() {
		var c types.Collection
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		colls = append(colls, c)
	}
	return colls, rows.Err()
}

// Path renders the full "/Parent/Child" path of a collection by walking
// its parent chain. A broken or cyclic chain stops at the last resolvable
// ancestor instead of looping.
func Path(c types.Collection, all []types.Collection) string {
	byID := make(map[int64]types.Collection, len(all))
	for _, coll := range all {
		byID[coll.ID] = coll
	}

	parts := []string{c.Name}
	seen := map[int64]bool{c.ID: true}
	for cur := c; cur.ParentID != 0; {
		parent, ok := byID[cur.ParentID]
		if !ok || seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		parts = append(parts, parent.Name)
		cur = parent
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "/" + strings.Join(parts, "/")
}

// ListItems returns every bibliographic item in the library, ordered by
// title case-insensitively with the item ID as tie-break.
func (l *Library) ListItems() ([]types.Item, error) {
	return l.fetchItems(0)
}

// ListItemsInCollection returns the items whose membership set includes
// the given collection, in the same order as ListItems.
func (l *Library) ListItemsInCollection(collectionID int64) ([]types.Item, error) {
	return l.fetchItems(collectionID)
}

// SearchItems returns items whose title or creator names contain the
// query, compared case-insensitively.
func (l *Library) SearchItems(query string) ([]types.Item, error) {
	items, err := l.fetchItems(0)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var matched []types.Item
	for _, item := range items {
		if itemMatches(item, q) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func itemMatches(item types.Item, loweredQuery string) bool {
	if strings.Contains(strings.ToLower(item.Title), loweredQuery) {
		return true
	}
	for _, c := range item.Creators {
		if strings.Contains(strings.ToLower(c.String()), loweredQuery) {
			return true
		}
	}
	return false
}

// GetItem returns a single item with its full metadata.
func (l *Library) GetItem(itemID int64) (types.Item, error) {
	items, err := l.fetchItems(0)
	if err != nil {
		return types.Item{}, err
	}
	for _, item := range items {
		if item.ID == itemID {
			return item, nil
		}
	}
	return types.Item{}, fmt.Errorf("item %d not found", itemID)
}

// ListAttachments returns the stored file references owned by an item, in
// attachment ID order.
func (l *Library) ListAttachments(itemID int64) ([]types.Attachment, error) {
	db, err := l.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT ia.itemID, ia.parentItemID, i.key, COALESCE(ia.path, '')
		FROM itemAttachments ia
		JOIN items i ON i.itemID = ia.itemID
		WHERE ia.parentItemID = ?
		ORDER BY ia.itemID`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var atts []types.Attachment
	for rows.Next() {
		var a types.Attachment
		if err := rows.Scan(&a.ID, &a.ItemID, &a.Key, &a.Ref); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		atts = append(atts, a)
	}
	return atts, rows.Err()
}

// fetchItems runs one query batch: item rows, the metadata pivot, and the
// creator list, assembled in memory. collectionID 0 means the whole
// library.
func (l *Library) fetchItems(collectionID int64) ([]types.Item, error) {
	db, err := l.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	items, err := baseItems(db, collectionID)
	if err != nil {
		return nil, err
	}

	meta, err := loadMetadata(db)
	if err != nil {
		return nil, err
	}
	creators, err := loadCreators(db)
	if err != nil {
		return nil, err
	}

	for i := range items {
		fields := meta[items[i].ID]
		items[i].Title = fields["title"]
		items[i].Date = fields["date"]
		items[i].DOI = fields["DOI"]
		items[i].URL = fields["url"]
		items[i].Abstract = fields["abstractNote"]
		items[i].CitationKey = fields["citationKey"]
		items[i].Creators = creators[items[i].ID]
	}

	sortItems(items)
	return items, nil
}

func baseItems(db *sql.DB, collectionID int64) ([]types.Item, error) {
	query := `
		SELECT i.itemID, i.key
		FROM items i
		JOIN itemTypes t ON t.itemTypeID = i.itemTypeID
		WHERE t.typeName NOT IN (` + placeholders(len(excludedItemTypes)) + `)
		  AND NOT EXISTS (SELECT 1 FROM deletedItems del WHERE del.itemID = i.itemID)`
	args := make([]any, 0, len(excludedItemTypes)+1)
	for _, t := range excludedItemTypes {
		args = append(args, t)
	}
	if collectionID != 0 {
		query += `
		  AND EXISTS (SELECT 1 FROM collectionItems ci
		              WHERE ci.itemID = i.itemID AND ci.collectionID = ?)`
		args = append(args, collectionID)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []types.Item
	for rows.Next() {
		var it types.Item
		if err := rows.Scan(&it.ID, &it.Key); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// loadMetadata pivots itemData/itemDataValues into per-item field maps.
func loadMetadata(db *sql.DB) (map[int64]map[string]string, error) {
	query := `
		SELECT d.itemID, f.fieldName, v.value
		FROM itemData d
		JOIN fields f ON f.fieldID = d.fieldID
		JOIN itemDataValues v ON v.valueID = d.valueID
		WHERE f.fieldName IN (` + placeholders(len(metadataFields)) + `)`
	args := make([]any, len(metadataFields))
	for i, f := range metadataFields {
		args[i] = f
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	defer rows.Close()

	meta := make(map[int64]map[string]string)
	for rows.Next() {
		var itemID int64
		var field, value string
		if err := rows.Scan(&itemID, &field, &value); err != nil {
			return nil, fmt.Errorf("scan metadata: %w", err)
		}
		if meta[itemID] == nil {
			meta[itemID] = make(map[string]string)
		}
		meta[itemID][field] = value
	}
	return meta, rows.Err()
}

func loadCreators(db *sql.DB) (map[int64][]types.Creator, error) {
	rows, err := db.Query(`
		SELECT ic.itemID, COALESCE(c.lastName, ''), COALESCE(c.firstName, '')
		FROM itemCreators ic
		JOIN creators c ON c.creatorID = ic.creatorID
		ORDER BY ic.itemID, ic.orderIndex`)
	if err != nil {
		return nil, fmt.Errorf("load creators: %w", err)
	}
	defer rows.Close()

	creators := make(map[int64][]types.Creator)
	for rows.Next() {
		var itemID int64
		var c types.Creator
		if err := rows.Scan(&itemID, &c.LastName, &c.FirstName); err != nil {
			return nil, fmt.Errorf("scan creator: %w", err)
		}
		if c.LastName == "" && c.FirstName == "" {
			continue
		}
		creators[itemID] = append(creators[itemID], c)
	}
	return creators, rows.Err()
}

// sortItems orders by title case-insensitively, item ID as tie-break.
// The ordering is what keeps picker lines stable across invocations.
func sortItems(items []types.Item) {
	c := collate.New(language.Und, collate.IgnoreCase)
	sort.Slice(items, func(i, j int) bool {
		if r := c.CompareString(items[i].Title, items[j].Title); r != 0 {
			return r < 0
		}
		return items[i].ID < items[j].ID
	})
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
