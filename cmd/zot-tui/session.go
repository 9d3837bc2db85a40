package main

import (
	"github.com/vv111y/zot-tui/internal/fzf"
	"github.com/vv111y/zot-tui/internal/session"
	"github.com/vv111y/zot-tui/internal/zotero"
)

// runSession starts one interactive picker session loop in the given
// initial state.
func runSession(initial session.State) error {
	lib := zotero.New(cfg.Database)
	loop := session.NewLoop(lib, fzf.NewCommandRunner(log), cfg, log)
	return loop.Run(initial)
}
