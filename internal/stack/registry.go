package stack

import (
	"github.com/alexisbeaulieu97/voila/internal/config"
	"github.com/alexisbeaulieu97/voila/internal/dockerfile"
	"github.com/alexisbeaulieu97/voila/internal/instruction"
	voilaerrors "github.com/alexisbeaulieu97/voila/pkg/errors"
)

// Registry holds the compiled stacks of one configuration load.
type Registry struct {
	id        string
	configDir string
	stacks    []*CompiledStack
	byName    map[string]*CompiledStack
}

// Load compiles cfg and returns a registry over the result.
func Load(cfg *config.Config, configDir string) (*Registry, error) {
	stacks, err := CompileAll(cfg, configDir)
	if err != nil {
		return nil, err
	}
	return NewRegistry(cfg.ID, configDir, stacks), nil
}

// NewRegistry wraps already compiled stacks.
func NewRegistry(id, configDir string, stacks []*CompiledStack) *Registry {
	byName := make(map[string]*CompiledStack, len(stacks))
	for _, s := range stacks {
		byName[s.name] = s
	}
	return &Registry{
		id:        id,
		configDir: configDir,
		stacks:    append([]*CompiledStack(nil), stacks...),
		byName:    byName,
	}
}

// ID returns the configuration id.
func (r *Registry) ID() string { return r.id }

// ConfigDir returns the directory the configuration was loaded from.
func (r *Registry) ConfigDir() string { return r.configDir }

// Stacks returns every compiled stack in declaration order.
func (r *Registry) Stacks() []*CompiledStack {
	return append([]*CompiledStack(nil), r.stacks...)
}

// Len returns the number of stacks.
func (r *Registry) Len() int { return len(r.stacks) }

// Get returns the stack called name.
func (r *Registry) Get(name string) (*CompiledStack, error) {
	s, ok := r.byName[name]
	if !ok {
		return nil, voilaerrors.StackNotFound(name)
	}
	return s, nil
}

// BuildInstructions returns the ordered instruction list of a stack.
func (r *Registry) BuildInstructions(name string) (instruction.List, error) {
	s, err := r.Get(name)
	if err != nil {
		return instruction.List{}, err
	}
	return s.Instructions(), nil
}

// Dockerfile renders the instruction list of a stack as a Dockerfile.
func (r *Registry) Dockerfile(name string) (string, error) {
	list, err := r.BuildInstructions(name)
	if err != nil {
		return "", err
	}
	return dockerfile.Render(&list)
}

// FindInstructionData returns the payload of the first instruction of kind
// in the stack, or nil when the stack has none.
func (r *Registry) FindInstructionData(name string, kind instruction.Kind) (any, error) {
	s, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	ins, ok := s.instructions.Find(kind)
	if !ok {
		return nil, nil
	}
	return ins.Data(), nil
}
