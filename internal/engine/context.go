package engine

import (
	"github.com/alexisbeaulieu97/voila/internal/config"
	"github.com/alexisbeaulieu97/voila/internal/ports"
	"github.com/alexisbeaulieu97/voila/internal/stack"
)

// Context is the mutable state shared by the tasks of one command
// invocation. It is created per run and never shared.
type Context struct {
	ConfigPath string
	Config     *config.Config
	Registry   *stack.Registry
	Stacks     []*stack.CompiledStack
	Engine     ports.ContainerEngine
	Output     []string
}
