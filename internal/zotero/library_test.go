package zotero

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vv111y/zot-tui/pkg/types"
)

// fixtureSchema is the subset of Zotero's schema the reader touches.
const fixtureSchema = `
CREATE TABLE itemTypes (itemTypeID INTEGER PRIMARY KEY, typeName TEXT NOT NULL);
CREATE TABLE items (itemID INTEGER PRIMARY KEY, itemTypeID INTEGER NOT NULL, key TEXT NOT NULL);
CREATE TABLE fields (fieldID INTEGER PRIMARY KEY, fieldName TEXT NOT NULL);
CREATE TABLE itemDataValues (valueID INTEGER PRIMARY KEY, value TEXT NOT NULL);
CREATE TABLE itemData (itemID INTEGER NOT NULL, fieldID INTEGER NOT NULL, valueID INTEGER NOT NULL);
CREATE TABLE creators (creatorID INTEGER PRIMARY KEY, lastName TEXT, firstName TEXT);
CREATE TABLE itemCreators (itemID INTEGER NOT NULL, creatorID INTEGER NOT NULL, orderIndex INTEGER NOT NULL);
CREATE TABLE collections (collectionID INTEGER PRIMARY KEY, collectionName TEXT NOT NULL, parentCollectionID INTEGER);
CREATE TABLE collectionItems (collectionID INTEGER NOT NULL, itemID INTEGER NOT NULL);
CREATE TABLE itemAttachments (itemID INTEGER PRIMARY KEY, parentItemID INTEGER, path TEXT);
CREATE TABLE deletedItems (itemID INTEGER PRIMARY KEY);

INSERT INTO itemTypes VALUES (1, 'journalArticle'), (2, 'attachment'), (3, 'note'), (4, 'annotation');
INSERT INTO fields VALUES (1, 'title'), (2, 'date'), (3, 'DOI'), (4, 'url'), (5, 'abstractNote'), (6, 'citationKey');
`

var fixtureFieldIDs = map[string]int64{
	"title": 1, "date": 2, "DOI": 3, "url": 4, "abstractNote": 5, "citationKey": 6,
}

type fixture struct {
	t         *testing.T
	db        *sql.DB
	path      string
	nextValue int64
	nextCr    int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zotero.sqlite")
	db, err := sql.Open("sqlite", "file:"+path)
	require.NoError(t, err)
	_, err = db.Exec(fixtureSchema)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &fixture{t: t, db: db, path: path}
}

func (f *fixture) library() *Library { return New(f.path) }

func (f *fixture) exec(query string, args ...any) {
	f.t.Helper()
	_, err := f.db.Exec(query, args...)
	require.NoError(f.t, err)
}

// addItem inserts a bibliographic item with the given metadata fields.
func (f *fixture) addItem(id int64, key string, fields map[string]string) {
	f.exec("INSERT INTO items (itemID, itemTypeID, key) VALUES (?, 1, ?)", id, key)
	for name, value := range fields {
		f.nextValue++
		f.exec("INSERT INTO itemDataValues (valueID, value) VALUES (?, ?)", f.nextValue, value)
		f.exec("INSERT INTO itemData (itemID, fieldID, valueID) VALUES (?, ?, ?)", id, fixtureFieldIDs[name], f.nextValue)
	}
}

func (f *fixture) addItemOfType(id int64, key string, typeID int64) {
	f.exec("INSERT INTO items (itemID, itemTypeID, key) VALUES (?, ?, ?)", id, typeID, key)
}

func (f *fixture) addCreator(itemID, order int64, last, first string) {
	f.nextCr++
	f.exec("INSERT INTO creators (creatorID, lastName, firstName) VALUES (?, ?, ?)", f.nextCr, last, first)
	f.exec("INSERT INTO itemCreators (itemID, creatorID, orderIndex) VALUES (?, ?, ?)", itemID, f.nextCr, order)
}

func (f *fixture) addCollection(id int64, name string, parentID int64) {
	if parentID == 0 {
		f.exec("INSERT INTO collections (collectionID, collectionName, parentCollectionID) VALUES (?, ?, NULL)", id, name)
		return
	}
	f.exec("INSERT INTO collections (collectionID, collectionName, parentCollectionID) VALUES (?, ?, ?)", id, name, parentID)
}

func (f *fixture) addToCollection(collectionID, itemID int64) {
	f.exec("INSERT INTO collectionItems (collectionID, itemID) VALUES (?, ?)", collectionID, itemID)
}

// addAttachment inserts an attachment item plus its itemAttachments row.
func (f *fixture) addAttachment(id, parentID int64, key, ref string) {
	f.addItemOfType(id, key, 2)
	f.exec("INSERT INTO itemAttachments (itemID, parentItemID, path) VALUES (?, ?, ?)", id, parentID, ref)
}

func (f *fixture) trash(itemID int64) {
	f.exec("INSERT INTO deletedItems (itemID) VALUES (?)", itemID)
}

func titles(items []types.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestListItems(t *testing.T) {
	t.Run("orders by title case-insensitively with ID tie-break", func(t *testing.T) {
		f := newFixture(t)
		f.addItem(10, "KEYB", map[string]string{"title": "Banana Physics"})
		f.addItem(11, "KEYA", map[string]string{"title": "apple physics"})
		// Two items sharing a title: the smaller itemID must come first.
		f.addItem(13, "KEYD", map[string]string{"title": "A Study"})
		f.addItem(12, "KEYC", map[string]string{"title": "A Study"})

		items, err := f.library().ListItems()
		require.NoError(t, err)
		assert.Equal(t, []string{"A Study", "A Study", "apple physics", "Banana Physics"}, titles(items))
		assert.Equal(t, int64(12), items[0].ID)
		assert.Equal(t, int64(13), items[1].ID)
	})

	t.Run("excludes attachments, notes, and trashed items", func(t *testing.T) {
		f := newFixture(t)
		f.addItem(1, "KEEP", map[string]string{"title": "Kept"})
		f.addItem(2, "GONE", map[string]string{"title": "Trashed"})
		f.trash(2)
		f.addItemOfType(3, "NOTE", 3)
		f.addAttachment(4, 1, "ATT1", "storage:kept.pdf")

		items, err := f.library().ListItems()
		require.NoError(t, err)
		assert.Equal(t, []string{"Kept"}, titles(items))
	})

	t.Run("pivots metadata and creators", func(t *testing.T) {
		f := newFixture(t)
		f.addItem(1, "KEYX", map[string]string{
			"title":        "A Study",
			"date":         "2019-05-01",
			"DOI":          "10.1000/xyz",
			"url":          "https://example.org/a-study",
			"abstractNote": "We study things.",
			"citationKey":  "smith2019study",
		})
		f.addCreator(1, 0, "Smith", "Jane")
		f.addCreator(1, 1, "Doe", "John")

		items, err := f.library().ListItems()
		require.NoError(t, err)
		require.Len(t, items, 1)

		it := items[0]
		assert.Equal(t, "KEYX", it.Key)
		assert.Equal(t, "A Study", it.Title)
		assert.Equal(t, "2019-05-01", it.Date)
		assert.Equal(t, "10.1000/xyz", it.DOI)
		assert.Equal(t, "https://example.org/a-study", it.URL)
		assert.Equal(t, "We study things.", it.Abstract)
		assert.Equal(t, "smith2019study", it.CitationKey)
		require.Len(t, it.Creators, 2)
		assert.Equal(t, "Smith, Jane", it.Creators[0].String())
		assert.Equal(t, "Doe, John", it.Creators[1].String())
	})

	t.Run("empty library yields no items", func(t *testing.T) {
		f := newFixture(t)
		items, err := f.library().ListItems()
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestListItemsInCollection(t *testing.T) {
	f := newFixture(t)
	f.addCollection(1, "Papers", 0)
	f.addCollection(2, "Drafts", 0)
	f.addItem(1, "IN1", map[string]string{"title": "In Papers"})
	f.addItem(2, "OUT", map[string]string{"title": "Elsewhere"})
	f.addItem(3, "IN2", map[string]string{"title": "Also In Papers"})
	f.addToCollection(1, 1)
	f.addToCollection(1, 3)
	f.addToCollection(2, 2)

	items, err := f.library().ListItemsInCollection(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Also In Papers", "In Papers"}, titles(items))
}

func TestSearchItems(t *testing.T) {
	f := newFixture(t)
	f.addItem(1, "K1", map[string]string{"title": "Neural Networks"})
	f.addItem(2, "K2", map[string]string{"title": "Fluid Dynamics"})
	f.addCreator(2, 0, "Navier", "Claude")

	t.Run("matches title case-insensitively", func(t *testing.T) {
		items, err := f.library().SearchItems("neural")
		require.NoError(t, err)
		assert.Equal(t, []string{"Neural Networks"}, titles(items))
	})

	t.Run("matches creator names", func(t *testing.T) {
		items, err := f.library().SearchItems("navier")
		require.NoError(t, err)
		assert.Equal(t, []string{"Fluid Dynamics"}, titles(items))
	})

	t.Run("no match yields empty", func(t *testing.T) {
		items, err := f.library().SearchItems("quantum")
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestGetItem(t *testing.T) {
	f := newFixture(t)
	f.addItem(7, "K7", map[string]string{"title": "Lone Item"})

	it, err := f.library().GetItem(7)
	require.NoError(t, err)
	assert.Equal(t, "Lone Item", it.Title)

	_, err = f.library().GetItem(99)
	assert.Error(t, err)
}

func TestListAttachments(t *testing.T) {
	f := newFixture(t)
	f.addItem(1, "PARENT", map[string]string{"title": "Parent"})
	f.addAttachment(2, 1, "AAA11111", "storage:paper.pdf")
	f.addAttachment(3, 1, "BBB22222", "/data/linked.pdf")
	f.addAttachment(4, 9, "CCC33333", "storage:other.pdf")

	atts, err := f.library().ListAttachments(1)
	require.NoError(t, err)
	require.Len(t, atts, 2)
	assert.Equal(t, "AAA11111", atts[0].Key)
	assert.Equal(t, "storage:paper.pdf", atts[0].Ref)
	assert.Equal(t, "/data/linked.pdf", atts[1].Ref)
}

func TestOpenErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		lib := New(filepath.Join(t.TempDir(), "nope.sqlite"))
		_, err := lib.ListItems()
		assert.ErrorIs(t, err, types.ErrDatabaseNotFound)
	})

	t.Run("not a database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "garbage.sqlite")
		require.NoError(t, os.WriteFile(path, []byte("this is not a database"), 0o644))
		_, err := New(path).ListItems()
		assert.ErrorIs(t, err, types.ErrDatabaseUnreadable)
	})
}

func TestPath(t *testing.T) {
	all := []types.Collection{
		{ID: 1, Name: "Research"},
		{ID: 2, Name: "Physics", ParentID: 1},
		{ID: 3, Name: "Fluids", ParentID: 2},
	}

	assert.Equal(t, "/Research", Path(all[0], all))
	assert.Equal(t, "/Research/Physics/Fluids", Path(all[2], all))

	t.Run("cyclic parent chain terminates", func(t *testing.T) {
		cyclic := []types.Collection{
			{ID: 1, Name: "A", ParentID: 2},
			{ID: 2, Name: "B", ParentID: 1},
		}
		assert.Equal(t, "/B/A", Path(cyclic[0], cyclic))
	})
}
