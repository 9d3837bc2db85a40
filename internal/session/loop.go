package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vv111y/zot-tui/internal/format"
	"github.com/vv111y/zot-tui/internal/fzf"
	"github.com/vv111y/zot-tui/internal/resolve"
	"github.com/vv111y/zot-tui/internal/zotero"
	"github.com/vv111y/zot-tui/pkg/types"
)

// Reader is the slice of the schema reader the loop needs.
// *zotero.Library implements it.
type Reader interface {
	ListCollections() ([]types.Collection, error)
	ListItems() ([]types.Item, error)
	ListItemsInCollection(collectionID int64) ([]types.Item, error)
	SearchItems(query string) ([]types.Item, error)
	GetItem(itemID int64) (types.Item, error)
	ListAttachments(itemID int64) ([]types.Attachment, error)
}

// Loop owns one interactive session. Every picker invocation re-queries
// the library and streams fresh rows, so the picker stays stateless
// between invocations; no connection is held across a blocking wait.
type Loop struct {
	Reader Reader
	Picker fzf.Runner
	Config types.Config
	Log    *logrus.Logger

	// Subprocess seams, replaceable in tests.
	Pager  func(text string) error
	Opener func(path string) error
	Prompt func() (string, error)
	Notify io.Writer // inline non-fatal user messages
}

// NewLoop wires a Loop with the default subprocess glue.
func NewLoop(reader Reader, picker fzf.Runner, cfg types.Config, log *logrus.Logger) *Loop {
	return &Loop{
		Reader: reader,
		Picker: picker,
		Config: cfg,
		Log:    log,
		Pager:  pagerFunc(cfg),
		Opener: openerFunc(cfg),
		Prompt: terminalPrompt,
		Notify: os.Stderr,
	}
}

// Run drives picker sessions from the initial state until the user quits.
func (l *Loop) Run(state State) error {
	for {
		lines, prompt, err := l.listing(state)
		if err != nil {
			return err
		}

		req := fzf.Request{
			Lines:      lines,
			Prompt:     prompt,
			ExpectKeys: ExpectKeys,
			Height:     l.Config.FzfHeight,
			HideFirst:  true,
		}
		if state.Mode != ModeCollections {
			req.PreviewCmd = previewCommand(l.Config.Database)
		}

		res, err := l.Picker.Pick(req)
		if err != nil {
			return err
		}

		var selectedID int64
		if res.Line != "" {
			selectedID, err = format.SelectedID(res.Line)
			if err != nil {
				l.Log.WithError(err).Warn("unparseable selection line")
				continue
			}
		}

		next, act := Transition(state, res, selectedID)
		l.Log.WithFields(logrus.Fields{"mode": next.Mode.String(), "action": act.Kind}).Debug("transition")

		switch act.Kind {
		case ActionQuit:
			return nil
		case ActionView:
			if err := l.viewItem(act.ItemID); err != nil {
				return err
			}
		case ActionOpenFirst:
			if err := l.openFirst(act.ItemID); err != nil {
				return err
			}
		case ActionChooseAttachment:
			if err := l.chooseAttachment(act.ItemID); err != nil {
				return err
			}
		case ActionPromptQuery:
			q, err := l.Prompt()
			if err != nil {
				l.Log.WithError(err).Warn("read query")
			} else if q != "" {
				next = State{Mode: ModeQuery, Query: q}
			}
		}
		state = next
	}
}

// listing re-queries the library for the rows of the current mode.
func (l *Loop) listing(state State) ([]string, string, error) {
	switch state.Mode {
	case ModeCollections:
		colls, err := l.Reader.ListCollections()
		if err != nil {
			return nil, "", err
		}
		lines := make([]string, 0, len(colls))
		for _, c := range colls {
			lines = append(lines, format.CollectionRow(c.ID, zotero.Path(c, colls)).Line)
		}
		return lines, "collections> ", nil
	case ModeWithinCollection:
		items, err := l.Reader.ListItemsInCollection(state.CollectionID)
		if err != nil {
			return nil, "", err
		}
		return itemLines(items), "collection> ", nil
	case ModeQuery:
		items, err := l.Reader.SearchItems(state.Query)
		if err != nil {
			return nil, "", err
		}
		return itemLines(items), fmt.Sprintf("query[%s]> ", state.Query), nil
	default:
		items, err := l.Reader.ListItems()
		if err != nil {
			return nil, "", err
		}
		return itemLines(items), "library> ", nil
	}
}

func itemLines(items []types.Item) []string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, format.Row(it).Line)
	}
	return lines
}

// previewCommand builds the fzf preview template: it re-invokes this
// binary's hidden preview subcommand with the hidden ID field.
func previewCommand(dbPath string) string {
	exe, err := os.Executable()
	if err != nil {
		exe = "zot-tui"
	}
	return fmt.Sprintf("%s preview --db %s --id {1}", shellQuote(exe), shellQuote(dbPath))
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// viewItem renders the full preview block through the pager and blocks
// until the viewer exits.
func (l *Loop) viewItem(itemID int64) error {
	item, err := l.Reader.GetItem(itemID)
	if err != nil {
		return err
	}
	resolved, err := l.resolvedFor(itemID)
	if err != nil {
		return err
	}
	return l.Pager(format.Preview(item, resolved))
}

// openFirst opens the first resolvable attachment in filename order.
// Having no resolvable attachment is reported inline, not fatal.
func (l *Loop) openFirst(itemID int64) error {
	resolved, err := l.resolvedFor(itemID)
	if err != nil {
		return err
	}
	first, ok := resolve.FirstOpenable(resolved)
	if !ok {
		fmt.Fprintf(l.Notify, "%v\n", types.ErrNoAttachment)
		return nil
	}
	return l.open(first.Path)
}

// chooseAttachment runs a secondary picker over the resolvable
// attachments; selecting none returns without effect.
func (l *Loop) chooseAttachment(itemID int64) error {
	resolved, err := l.resolvedFor(itemID)
	if err != nil {
		return err
	}

	var openable []types.ResolvedAttachment
	for _, r := range resolved {
		if !r.Missing && !r.Unsupported {
			openable = append(openable, r)
		}
	}
	switch len(openable) {
	case 0:
		fmt.Fprintf(l.Notify, "%v\n", types.ErrNoAttachment)
		return nil
	case 1:
		return l.open(openable[0].Path)
	}

	lines := make([]string, len(openable))
	for i, r := range openable {
		lines[i] = fmt.Sprintf("%d%s%s", i, format.Delimiter, filepath.Base(r.Path))
	}
	res, err := l.Picker.Pick(fzf.Request{
		Lines:     lines,
		Prompt:    "attachment> ",
		Height:    l.Config.FzfHeight,
		HideFirst: true,
	})
	if err != nil {
		return err
	}
	if res.Aborted || res.Line == "" {
		return nil
	}
	idx, err := format.SelectedID(res.Line)
	if err != nil || idx < 0 || int(idx) >= len(openable) {
		return nil
	}
	return l.open(openable[idx].Path)
}

func (l *Loop) resolvedFor(itemID int64) ([]types.ResolvedAttachment, error) {
	atts, err := l.Reader.ListAttachments(itemID)
	if err != nil {
		return nil, err
	}
	return resolve.All(atts, l.Config.StorageRoot()), nil
}

// open hands one absolute path to the OS open command. A missing opener
// binary is fatal; a non-zero exit is logged and the loop continues.
func (l *Loop) open(path string) error {
	err := l.Opener(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return err
	}
	l.Log.WithError(err).WithField("path", path).Warn("open attachment")
	return nil
}
