package session

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/vv111y/zot-tui/pkg/types"
)

// pagerFunc returns the full-entry viewer: the preformatted text block is
// piped to the first pager found among the config override, $PAGER, less,
// and more. The pager inherits the terminal and blocks until the user
// exits it.
func pagerFunc(cfg types.Config) func(string) error {
	return func(text string) error {
		pager, args, err := resolvePager(cfg)
		if err != nil {
			return err
		}
		cmd := exec.Command(pager, args...)
		cmd.Stdin = strings.NewReader(text)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}
}

func resolvePager(cfg types.Config) (string, []string, error) {
	for _, c := range []string{cfg.Pager, os.Getenv("PAGER"), "less", "more"} {
		if c == "" {
			continue
		}
		path, err := exec.LookPath(c)
		if err != nil {
			continue
		}
		if filepath.Base(path) == "less" {
			return path, []string{"-R"}, nil
		}
		return path, nil, nil
	}
	return "", nil, fmt.Errorf("%w (set pager in config.yaml or install less)", types.ErrPagerNotFound)
}

// openerFunc returns the OS file-open command: the config override when
// set, else open on macOS, start on Windows, xdg-open elsewhere.
func openerFunc(cfg types.Config) func(string) error {
	return func(path string) error {
		name, args := openCommand(cfg)
		bin, err := exec.LookPath(name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		cmd := exec.Command(bin, append(args, path)...)
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}
}

func openCommand(cfg types.Config) (string, []string) {
	if cfg.Opener != "" {
		return cfg.Opener, nil
	}
	switch runtime.GOOS {
	case "darwin":
		return "open", nil
	case "windows":
		return "cmd", []string{"/c", "start", ""}
	default:
		return "xdg-open", nil
	}
}

// terminalPrompt reads one query line from the terminal after the picker
// has exited.
func terminalPrompt() (string, error) {
	fmt.Fprint(os.Stderr, "query> ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
