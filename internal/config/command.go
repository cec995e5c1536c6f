package config

import (
	"unicode"

	"github.com/mattn/go-shellwords"
)

// Words returns the argument vector of the command. A line is split on
// unquoted whitespace with quotes removed. Shell operators such as && or >
// are not interpreted: they are kept as literal text, attached to any word
// they touch.
func (c Command) Words() ([]string, error) {
	if !c.IsLine() {
		return append([]string(nil), c.Argv...), nil
	}
	return splitWords(c.Line)
}

func splitWords(line string) ([]string, error) {
	argv := []string{}
	rest := []rune(line)
	attach := false

	for {
		parser := shellwords.NewParser()
		words, err := parser.Parse(string(rest))
		if err != nil {
			return nil, err
		}
		if attach && len(words) > 0 && len(rest) > 0 && !unicode.IsSpace(rest[0]) {
			argv[len(argv)-1] += words[0]
			words = words[1:]
		}
		argv = append(argv, words...)
		if parser.Position < 0 {
			return argv, nil
		}

		start, end := operatorSpan(rest, parser.Position)
		op := string(rest[start:end])
		if start > 0 && !unicode.IsSpace(rest[start-1]) && len(argv) > 0 {
			argv[len(argv)-1] += op
		} else {
			argv = append(argv, op)
		}
		rest = rest[end:]
		attach = true
	}
}

// operatorSpan returns the bounds of the operator run the parser stopped at.
// For fd redirections such as 2> the parser stops before the word it
// dropped, so the span starts at that word.
func operatorSpan(runes []rune, pos int) (int, int) {
	start := pos
	if !isOperator(runes[start]) {
		for start > 0 && !unicode.IsSpace(runes[start-1]) {
			start--
		}
	}
	end := pos
	for end < len(runes) && !isOperator(runes[end]) && !unicode.IsSpace(runes[end]) {
		end++
	}
	for end < len(runes) && isOperator(runes[end]) {
		end++
	}
	return start, end
}

func isOperator(r rune) bool {
	switch r {
	case ';', '&', '|', '<', '>':
		return true
	}
	return false
}
