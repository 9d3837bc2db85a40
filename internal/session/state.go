// Package session drives interactive picker sessions over the library.
//
// The mode switching is a small explicit state machine keyed by how the
// external picker exited: Transition is a pure function from the current
// state and a picker result to the next state and the action to perform,
// independent of how the subprocess call happens.
package session

import "github.com/vv111y/zot-tui/internal/fzf"

// Mode identifies which listing the session is showing.
type Mode int

const (
	ModeLibrary Mode = iota
	ModeCollections
	ModeWithinCollection
	ModeQuery
)

func (m Mode) String() string {
	switch m {
	case ModeCollections:
		return "collections"
	case ModeWithinCollection:
		return "collection"
	case ModeQuery:
		return "query"
	default:
		return "library"
	}
}

// State is the full session state. CollectionID is meaningful only in
// ModeWithinCollection and Query only in ModeQuery. State is never
// persisted across process runs.
type State struct {
	Mode         Mode
	CollectionID int64
	Query        string
}

// Control keys handed to fzf via --expect. Enter is fzf's plain accept
// and reports an empty key name.
const (
	KeyOpen        = "ctrl-o" // open first attachment
	KeyAttachments = "ctrl-a" // choose among attachments
	KeyToggle      = "ctrl-t" // Library <-> Collections
	KeyQuery       = "ctrl-f" // enter/exit query mode
	KeyBack        = "ctrl-h" // WithinCollection -> Collections
)

// ExpectKeys is the keybinding table for every listing invocation.
var ExpectKeys = []string{KeyOpen, KeyAttachments, KeyToggle, KeyQuery, KeyBack}

// ActionKind enumerates the side effects a transition can request.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionView
	ActionOpenFirst
	ActionChooseAttachment
	ActionPromptQuery
	ActionQuit
)

// Action pairs an ActionKind with the item it applies to.
type Action struct {
	Kind   ActionKind
	ItemID int64
}

// Transition computes the next state and action from a picker result.
// selectedID is the hidden ID field parsed from the selected line, 0 when
// nothing was selected.
//
// An abort (Esc/Ctrl-C) or a result carrying neither key nor selection
// ends the session; a control key pressed without a selection re-enters
// the current listing with no action.
func Transition(s State, res fzf.Result, selectedID int64) (State, Action) {
	if res.Aborted || (res.Key == "" && res.Line == "") {
		return s, Action{Kind: ActionQuit}
	}

	switch res.Key {
	case KeyToggle:
		if s.Mode == ModeCollections {
			return State{Mode: ModeLibrary}, Action{}
		}
		return State{Mode: ModeCollections}, Action{}
	case KeyQuery:
		if s.Mode == ModeQuery {
			return State{Mode: ModeLibrary}, Action{}
		}
		return s, Action{Kind: ActionPromptQuery}
	case KeyBack:
		// No deeper nesting: back always lands on Collections.
		if s.Mode == ModeWithinCollection {
			return State{Mode: ModeCollections}, Action{}
		}
		return s, Action{}
	}

	if res.Line == "" {
		return s, Action{}
	}

	if s.Mode == ModeCollections {
		return State{Mode: ModeWithinCollection, CollectionID: selectedID}, Action{}
	}

	switch res.Key {
	case "":
		return s, Action{Kind: ActionView, ItemID: selectedID}
	case KeyOpen:
		return s, Action{Kind: ActionOpenFirst, ItemID: selectedID}
	case KeyAttachments:
		return s, Action{Kind: ActionChooseAttachment, ItemID: selectedID}
	}
	return s, Action{}
}
