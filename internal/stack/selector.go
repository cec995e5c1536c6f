package stack

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/voila/internal/paths"
	voilaerrors "github.com/alexisbeaulieu97/voila/pkg/errors"
)

// Selection carries the explicit stack choices of a command invocation.
type Selection struct {
	All        bool
	Positional string
	Flag       string
}

// Prompter asks the user to pick one of several stack names.
type Prompter interface {
	ChooseStack(ctx context.Context, message string, names []string) (string, error)
}

// PromptMessage is shown when several stacks contain the working directory.
const PromptMessage = "Multiple stacks detected in the current directory. What stack should be loaded?"

// Select resolves the stacks a command applies to. Explicit choices win over
// inference from cwd, which must be absolute:
//
//  1. sel.All selects every stack.
//  2. sel.Positional names a single stack.
//  3. sel.Flag names a single stack.
//  4. A registry with one stack selects it regardless of cwd.
//  5. The single stack whose host directory contains cwd.
//  6. Several such stacks: the user picks through prompter.
//  7. Otherwise the user must name a stack.
func Select(ctx context.Context, reg *Registry, sel Selection, cwd string, prompter Prompter) ([]*CompiledStack, error) {
	switch {
	case sel.All:
		return reg.Stacks(), nil
	case sel.Positional != "":
		return single(reg.Get(sel.Positional))
	case sel.Flag != "":
		return single(reg.Get(sel.Flag))
	case reg.Len() == 1:
		return reg.Stacks(), nil
	}

	candidates := InPath(reg, cwd)
	switch {
	case len(candidates) == 1:
		return candidates, nil
	case len(candidates) > 1:
		if prompter == nil {
			return nil, voilaerrors.NotInteractive(names(candidates))
		}
		choice, err := prompter.ChooseStack(ctx, PromptMessage, names(candidates))
		if err != nil {
			return nil, fmt.Errorf("choose stack: %w", err)
		}
		for _, s := range candidates {
			if s.name == choice {
				return []*CompiledStack{s}, nil
			}
		}
		return nil, voilaerrors.StackNotFound(choice)
	default:
		return nil, voilaerrors.SpecifyStackName()
	}
}

// InPath returns the stacks whose host directory contains cwd. Relative
// host directories are resolved against the config directory.
func InPath(reg *Registry, cwd string) []*CompiledStack {
	var out []*CompiledStack
	for _, s := range reg.stacks {
		if paths.Contains(HostPath(reg, s), cwd) {
			out = append(out, s)
		}
	}
	return out
}

// HostPath returns the absolute host directory of s.
func HostPath(reg *Registry, s *CompiledStack) string {
	return paths.Resolve(reg.configDir, s.hostDir)
}

func single(s *CompiledStack, err error) ([]*CompiledStack, error) {
	if err != nil {
		return nil, err
	}
	return []*CompiledStack{s}, nil
}

func names(stacks []*CompiledStack) []string {
	out := make([]string, 0, len(stacks))
	for _, s := range stacks {
		out = append(out, s.name)
	}
	return out
}
