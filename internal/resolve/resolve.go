// Package resolve turns stored Zotero attachment references into absolute
// filesystem paths.
package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vv111y/zot-tui/pkg/types"
)

// storagePrefix marks references relative to the library storage
// directory: "storage:filename" resolves to storageRoot/<key>/filename.
const storagePrefix = "storage:"

// Resolve maps an attachment reference onto the filesystem. Two forms
// resolve: the storage-key form and absolute paths (used verbatim). The
// existence probe happens here; a missing file is reported through the
// Missing flag, not an error, so the caller can still list it.
//
// A storage reference without a filename picks the single regular file in
// the key directory and fails with ErrAmbiguousAttachment when there is
// not exactly one candidate. Anything else fails with
// ErrUnsupportedAttachmentForm; both leave the attachment flagged rather
// than aborting the listing.
func Resolve(att types.Attachment, storageRoot string) (types.ResolvedAttachment, error) {
	ref := att.Ref
	switch {
	case strings.HasPrefix(ref, storagePrefix):
		name := strings.TrimPrefix(ref, storagePrefix)
		dir := filepath.Join(storageRoot, att.Key)
		if name == "" {
			picked, err := soleRegularFile(dir)
			if err != nil {
				return types.ResolvedAttachment{Attachment: att, Unsupported: true, Missing: true}, err
			}
			name = picked
		}
		return probe(att, filepath.Join(dir, name)), nil
	case filepath.IsAbs(ref):
		return probe(att, ref), nil
	default:
		return types.ResolvedAttachment{Attachment: att, Unsupported: true, Missing: true},
			fmt.Errorf("%w: %q", types.ErrUnsupportedAttachmentForm, ref)
	}
}

// All resolves every attachment of an item. Resolvable entries come first,
// ordered by filename ascending; flagged entries (unsupported or
// ambiguous) follow in input order so previews can still show them.
func All(atts []types.Attachment, storageRoot string) []types.ResolvedAttachment {
	var resolved, flagged []types.ResolvedAttachment
	for _, att := range atts {
		r, err := Resolve(att, storageRoot)
		if err != nil {
			flagged = append(flagged, r)
			continue
		}
		resolved = append(resolved, r)
	}

	sort.Slice(resolved, func(i, j int) bool {
		return filepath.Base(resolved[i].Path) < filepath.Base(resolved[j].Path)
	})
	return append(resolved, flagged...)
}

// FirstOpenable returns the first attachment, in All's filename order,
// that resolved to an existing file. Missing and unsupported entries never
// participate.
func FirstOpenable(resolved []types.ResolvedAttachment) (types.ResolvedAttachment, bool) {
	for _, r := range resolved {
		if !r.Missing && !r.Unsupported {
			return r, true
		}
	}
	return types.ResolvedAttachment{}, false
}

// probe stats the path once. The result can go stale between resolution
// and open; the opener treats that as a non-fatal failure.
func probe(att types.Attachment, path string) types.ResolvedAttachment {
	_, err := os.Stat(path)
	return types.ResolvedAttachment{Attachment: att, Path: path, Missing: err != nil}
}

func soleRegularFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s", types.ErrAmbiguousAttachment, dir)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	if len(files) != 1 {
		return "", fmt.Errorf("%w: %s has %d candidate files", types.ErrAmbiguousAttachment, dir, len(files))
	}
	return files[0], nil
}
