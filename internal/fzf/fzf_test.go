package fzf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildArgs(t *testing.T) {
	t.Run("minimal request", func(t *testing.T) {
		args := buildArgs(Request{})
		assert.Contains(t, args, "--ansi")
		assert.Contains(t, args, "--height=80%")
		assert.NotContains(t, args, "--with-nth=2..")
		assert.NotContains(t, strings.Join(args, " "), "--expect")
	})

	t.Run("full request", func(t *testing.T) {
		args := buildArgs(Request{
			Prompt:     "library> ",
			PreviewCmd: "zot-tui preview --id {1}",
			ExpectKeys: []string{"ctrl-o", "ctrl-t"},
			Height:     "100%",
			HideFirst:  true,
		})
		assert.Contains(t, args, "--with-nth=2..")
		assert.Contains(t, args, "--height=100%")
		assert.Contains(t, args, "--prompt=library> ")
		assert.Contains(t, args, "--preview=zot-tui preview --id {1}")
		assert.Contains(t, args, "--expect=ctrl-o,ctrl-t")
	})
}

func TestParseOutput(t *testing.T) {
	t.Run("plain accept without expect", func(t *testing.T) {
		res := parseOutput("42\tA Study\tSmith\t2019\n", false)
		assert.Equal(t, "", res.Key)
		assert.Equal(t, "42\tA Study\tSmith\t2019", res.Line)
	})

	t.Run("expect key with selection", func(t *testing.T) {
		res := parseOutput("ctrl-o\n42\tA Study\tSmith\t2019\n", true)
		assert.Equal(t, "ctrl-o", res.Key)
		assert.Equal(t, "42\tA Study\tSmith\t2019", res.Line)
	})

	t.Run("enter reports an empty key line", func(t *testing.T) {
		res := parseOutput("\n42\tA Study\tSmith\t2019\n", true)
		assert.Equal(t, "", res.Key)
		assert.NotEmpty(t, res.Line)
	})

	t.Run("expect key with no selection", func(t *testing.T) {
		res := parseOutput("ctrl-t\n", true)
		assert.Equal(t, "ctrl-t", res.Key)
		assert.Equal(t, "", res.Line)
	})

	t.Run("empty output", func(t *testing.T) {
		res := parseOutput("", true)
		assert.Equal(t, "", res.Key)
		assert.Equal(t, "", res.Line)
	})
}
