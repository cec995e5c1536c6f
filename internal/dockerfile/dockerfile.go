// Package dockerfile converts instruction lists to Dockerfile syntax and
// back.
package dockerfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/moby/buildkit/frontend/dockerfile/parser"

	"github.com/alexisbeaulieu97/voila/internal/instruction"
)

var directives = map[instruction.Kind]string{
	instruction.KindFrom:       "FROM",
	instruction.KindArgs:       "ARG",
	instruction.KindEnv:        "ENV",
	instruction.KindWorkdir:    "WORKDIR",
	instruction.KindRun:        "RUN",
	instruction.KindEntrypoint: "ENTRYPOINT",
}

// Render writes list as a Dockerfile. Each args entry becomes its own ARG
// line; the env bucket becomes a single ENV line. Commands use the exec
// (JSON) form so argument vectors survive unchanged.
func Render(list *instruction.List) (string, error) {
	var b strings.Builder

	for _, ins := range list.Items() {
		directive, ok := directives[ins.Kind]
		if !ok {
			return "", fmt.Errorf("render %s: unsupported instruction kind", ins.Kind)
		}

		switch ins.Kind {
		case instruction.KindFrom:
			fmt.Fprintf(&b, "%s %s\n", directive, ins.Image)
		case instruction.KindWorkdir:
			fmt.Fprintf(&b, "%s %s\n", directive, ins.Path)
		case instruction.KindArgs:
			for _, entry := range ins.Args {
				name, value, _ := strings.Cut(entry, "=")
				if err := checkValue(name, value); err != nil {
					return "", err
				}
				fmt.Fprintf(&b, "%s %s=%s\n", directive, name, quote(value))
			}
		case instruction.KindEnv:
			if ins.Env.Len() == 0 {
				continue
			}
			pairs := make([]string, 0, ins.Env.Len())
			for _, pair := range ins.Env.Pairs() {
				if err := checkValue(pair[0], pair[1]); err != nil {
					return "", err
				}
				pairs = append(pairs, pair[0]+"="+quote(pair[1]))
			}
			fmt.Fprintf(&b, "%s %s\n", directive, strings.Join(pairs, " "))
		case instruction.KindRun, instruction.KindEntrypoint:
			argv, err := execForm(ins.Argv)
			if err != nil {
				return "", fmt.Errorf("render %s: %w", ins.Kind, err)
			}
			fmt.Fprintf(&b, "%s %s\n", directive, argv)
		}
	}

	return b.String(), nil
}

// Parse reads a Dockerfile produced by Render back into an instruction list.
// Consecutive or scattered ARG and ENV lines accumulate into single buckets
// placed where the first of them appeared.
func Parse(r io.Reader) (instruction.List, error) {
	var list instruction.List

	result, err := parser.Parse(r)
	if err != nil {
		return list, fmt.Errorf("parse dockerfile: %w", err)
	}

	for _, node := range result.AST.Children {
		switch strings.ToLower(node.Value) {
		case "from":
			list.Add(instruction.From(firstValue(node)))
		case "workdir":
			list.Add(instruction.Workdir(firstValue(node)))
		case "arg":
			if list.Index(instruction.KindArgs) < 0 {
				_ = list.Allocate(instruction.KindArgs)
			}
			for n := node.Next; n != nil; n = n.Next {
				name, value, _ := strings.Cut(n.Value, "=")
				_ = list.AppendTo(instruction.KindArgs, name, unquote(value))
			}
		case "env":
			if list.Index(instruction.KindEnv) < 0 {
				_ = list.Allocate(instruction.KindEnv)
			}
			for n := node.Next; n != nil && n.Next != nil; n = n.Next.Next {
				_ = list.AppendTo(instruction.KindEnv, n.Value, unquote(n.Next.Value))
			}
		case "run":
			list.Add(instruction.Run(commandArgs(node)...))
		case "entrypoint":
			list.Add(instruction.Entrypoint(commandArgs(node)...))
		default:
			return list, fmt.Errorf("parse dockerfile: line %d: unsupported instruction %s", node.StartLine, strings.ToUpper(node.Value))
		}
	}

	return list, nil
}

func firstValue(node *parser.Node) string {
	if node.Next == nil {
		return ""
	}
	return node.Next.Value
}

// commandArgs returns the exec-form arguments of node, or the shell form
// wrapped the way Docker would run it.
func commandArgs(node *parser.Node) []string {
	var args []string
	for n := node.Next; n != nil; n = n.Next {
		args = append(args, n.Value)
	}
	if node.Attributes["json"] {
		return args
	}
	return []string{"/bin/sh", "-c", strings.Join(args, " ")}
}

func execForm(argv []string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if argv == nil {
		argv = []string{}
	}
	if err := enc.Encode(argv); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// checkValue rejects values the Dockerfile lexer would split across lines.
func checkValue(name, value string) error {
	if i := strings.IndexFunc(value, isLineBreaking); i >= 0 {
		r, _ := utf8.DecodeRuneInString(value[i:])
		return fmt.Errorf("render %s: value contains control character %q", name, r)
	}
	return nil
}

func isLineBreaking(r rune) bool {
	return r != '\t' && unicode.IsControl(r)
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`)

func quote(value string) string {
	return `"` + quoteReplacer.Replace(value) + `"`
}

func unquote(value string) string {
	if len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
		return value
	}

	inner := value[1 : len(value)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			i++
			b.WriteByte(inner[i])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
