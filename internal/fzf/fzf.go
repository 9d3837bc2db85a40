// Package fzf drives the external fzf program over its line protocol:
// newline-delimited candidates on stdin, the selected line on stdout, and
// an optional --expect key name reported on the first output line.
package fzf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vv111y/zot-tui/pkg/types"
)

// fzf exit codes. 1 means no match for the accept, 130 means the user
// aborted with Esc or Ctrl-C; both end the invocation without a selection.
const (
	exitNoMatch = 1
	exitAborted = 130
)

// Request describes one picker invocation.
type Request struct {
	Lines      []string
	Prompt     string
	PreviewCmd string   // shell command template; {1} expands to the hidden ID field
	ExpectKeys []string // key names reported back when they close the picker
	Height     string   // --height value; empty uses the default
	HideFirst  bool     // hide the leading ID field from display
}

// Result reports how the invocation ended. Key is empty for a plain
// accept; Line is empty when nothing was selected.
type Result struct {
	Key     string
	Line    string
	Aborted bool
}

// Runner abstracts the subprocess call so the session loop can be tested
// without a terminal.
type Runner interface {
	Pick(req Request) (Result, error)
}

const defaultHeight = "80%"

// CommandRunner invokes the real fzf binary.
type CommandRunner struct {
	log *logrus.Logger
}

func NewCommandRunner(log *logrus.Logger) *CommandRunner {
	return &CommandRunner{log: log}
}

// Pick runs one fzf session, blocking until it exits. The session loop
// suspends entirely for the subprocess lifetime.
func (r *CommandRunner) Pick(req Request) (Result, error) {
	path, err := exec.LookPath("fzf")
	if err != nil {
		return Result{}, fmt.Errorf("%w (install it from https://github.com/junegunn/fzf)", types.ErrPickerNotFound)
	}

	cmd := exec.Command(path, buildArgs(req)...)
	cmd.Stdin = strings.NewReader(strings.Join(req.Lines, "\n"))
	cmd.Stderr = os.Stderr
	var out bytes.Buffer
	cmd.Stdout = &out

	runErr := cmd.Run()
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return Result{}, fmt.Errorf("run fzf: %w", runErr)
		}
		switch exitErr.ExitCode() {
		case exitNoMatch:
			// Accept with nothing matched; fall through to parse the
			// (possibly present) expect-key line.
		case exitAborted:
			r.log.Debug("picker aborted")
			return Result{Aborted: true}, nil
		default:
			return Result{}, fmt.Errorf("fzf exited with code %d", exitErr.ExitCode())
		}
	}

	res := parseOutput(out.String(), len(req.ExpectKeys) > 0)
	r.log.WithFields(logrus.Fields{"key": res.Key, "selected": res.Line != ""}).Debug("picker closed")
	return res, nil
}

// buildArgs assembles the fzf argument list for a request.
func buildArgs(req Request) []string {
	args := []string{"--ansi", "--layout=reverse", "--border", "--delimiter=\t"}
	if req.HideFirst {
		args = append(args, "--with-nth=2..")
	}

	height := req.Height
	if height == "" {
		height = defaultHeight
	}
	args = append(args, "--height="+height)

	if req.Prompt != "" {
		args = append(args, "--prompt="+req.Prompt)
	}
	if req.PreviewCmd != "" {
		args = append(args, "--preview="+req.PreviewCmd, "--preview-window=right:60%:wrap")
	}
	if len(req.ExpectKeys) > 0 {
		args = append(args, "--expect="+strings.Join(req.ExpectKeys, ","))
	}
	return args
}

// parseOutput splits fzf's stdout. With --expect the first line names the
// key that closed the picker (empty for plain accept) and the second line
// holds the selection.
func parseOutput(out string, expecting bool) Result {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if !expecting {
		return Result{Line: lines[0]}
	}
	res := Result{Key: lines[0]}
	if len(lines) > 1 {
		res.Line = lines[1]
	}
	return res
}
