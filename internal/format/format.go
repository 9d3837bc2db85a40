// Package format renders items as picker lines and preview blocks.
package format

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vv111y/zot-tui/pkg/types"
)

// Delimiter separates line fields. Tab never survives inside a field:
// sanitize substitutes it, so re-splitting a line always yields exactly
// FieldCount fields and the picker's line protocol cannot be corrupted by
// library data.
const (
	Delimiter  = "\t"
	FieldCount = 4
)

// maxTitleWidth bounds the title column in picker lines, measured in
// display cells.
const maxTitleWidth = 80

var yearRE = regexp.MustCompile(`\d{4}`)

var fieldSanitizer = strings.NewReplacer(Delimiter, " ", "\n", " ", "\r", "")

// Row renders the single picker line for an item. Field order is fixed:
// item ID, title, creator surnames, year. The ID field is hidden by the
// picker (--with-nth=2..) and carries the selection back.
func Row(item types.Item) types.DisplayRow {
	title := runewidth.Truncate(sanitize(item.Title), maxTitleWidth, "…")
	if title == "" {
		title = "(untitled)"
	}
	line := strings.Join([]string{
		strconv.FormatInt(item.ID, 10),
		title,
		sanitize(surnames(item.Creators)),
		Year(item.Date),
	}, Delimiter)
	return types.DisplayRow{ItemID: item.ID, Line: line}
}

// CollectionRow renders one picker line for a collection: hidden ID plus
// the full "/Parent/Child" path.
func CollectionRow(id int64, path string) types.DisplayRow {
	return types.DisplayRow{
		ItemID: id,
		Line:   strconv.FormatInt(id, 10) + Delimiter + sanitize(path),
	}
}

// SelectedID parses the hidden leading ID field back out of a picker line.
func SelectedID(line string) (int64, error) {
	field, _, _ := strings.Cut(line, Delimiter)
	return strconv.ParseInt(field, 10, 64)
}

// Year extracts the publication year as the first 4-digit run of the date
// field, or "" when none exists.
func Year(date string) string {
	return yearRE.FindString(date)
}

// sanitize substitutes characters that would break the line protocol.
func sanitize(s string) string {
	return fieldSanitizer.Replace(s)
}

func surnames(creators []types.Creator) string {
	names := make([]string, 0, len(creators))
	for _, c := range creators {
		if c.LastName != "" {
			names = append(names, c.LastName)
		}
	}
	return strings.Join(names, "; ")
}

// previewFields is the fixed label order of the preview block.
var previewFields = []struct {
	label string
	value func(types.Item) string
}{
	{"Title", func(i types.Item) string { return i.Title }},
	{"Creators", func(i types.Item) string { return creatorList(i.Creators) }},
	{"Date", func(i types.Item) string { return i.Date }},
	{"Key", func(i types.Item) string { return i.Key }},
	{"Citation", func(i types.Item) string { return i.CitationKey }},
	{"DOI", func(i types.Item) string { return i.DOI }},
	{"URL", func(i types.Item) string { return i.URL }},
	{"Abstract", func(i types.Item) string { return i.Abstract }},
}

// Preview renders the multi-field text block shown next to the picker and
// piped to the pager for the full-entry view. Every label is present even
// when its value is empty, so the layout is stable. Attachment status
// lines follow, with missing or unsupported entries tagged.
func Preview(item types.Item, attachments []types.ResolvedAttachment) string {
	var b strings.Builder
	for _, f := range previewFields {
		fmt.Fprintf(&b, "%s: %s\n", f.label, f.value(item))
	}

	b.WriteString("\nAttachments:\n")
	if len(attachments) == 0 {
		b.WriteString("  - (none)\n")
		return b.String()
	}
	for _, a := range attachments {
		switch {
		case a.Unsupported:
			fmt.Fprintf(&b, "  - %s [unsupported]\n", a.Attachment.Ref)
		case a.Missing:
			fmt.Fprintf(&b, "  - %s [missing]\n", filepath.Base(a.Path))
		default:
			fmt.Fprintf(&b, "  - %s\n", filepath.Base(a.Path))
		}
	}
	return b.String()
}

func creatorList(creators []types.Creator) string {
	parts := make([]string, 0, len(creators))
	for _, c := range creators {
		if s := c.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "; ")
}
