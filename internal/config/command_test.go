package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandWords(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		line string
		want []string
	}{
		{name: "plain words", line: "npm install", want: []string{"npm", "install"}},
		{name: "quotes are removed", line: `npm install --prefix "my dir"`, want: []string{"npm", "install", "--prefix", "my dir"}},
		{name: "and operator is its own word", line: "npm ci && npm test", want: []string{"npm", "ci", "&&", "npm", "test"}},
		{name: "semicolon sticks to the word before it", line: "cd web; make", want: []string{"cd", "web;", "make"}},
		{name: "redirect inside a word", line: "echo a>b", want: []string{"echo", "a>b"}},
		{name: "pipe with spaces", line: "cat log | grep err", want: []string{"cat", "log", "|", "grep", "err"}},
		{name: "fd redirect", line: "make 2>/dev/null", want: []string{"make", "2>/dev/null"}},
		{name: "quoted operators stay in place", line: `echo 'a && b' "c|d"`, want: []string{"echo", "a && b", "c|d"}},
		{name: "quoted word after operator", line: `echo x>"out file"`, want: []string{"echo", "x>out file"}},
		{name: "empty line", line: "", want: []string{}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			words, err := Command{Line: tc.line}.Words()
			require.NoError(t, err)
			require.Equal(t, tc.want, words)
		})
	}
}

func TestCommandWordsRejectsUnterminatedQuotes(t *testing.T) {
	t.Parallel()

	for _, line := range []string{`echo "open`, `npm ci && echo 'open`} {
		_, err := Command{Line: line}.Words()
		require.Error(t, err, line)
	}
}

func TestCommandWordsCopiesArgv(t *testing.T) {
	t.Parallel()

	cmd := Command{Argv: []string{"npm", "run", "build"}}
	words, err := cmd.Words()
	require.NoError(t, err)
	require.Equal(t, []string{"npm", "run", "build"}, words)

	words[0] = "yarn"
	require.Equal(t, "npm", cmd.Argv[0])
}
