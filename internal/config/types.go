package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config represents the full voila configuration document.
type Config struct {
	ID     string            `yaml:"id" validate:"required,stack_name"`
	Stacks []StackDefinition `yaml:"stacks" validate:"required,min=1,dive"`
}

// StackDefinition describes one independently buildable and runnable stack.
type StackDefinition struct {
	Name    string     `yaml:"name" validate:"required,stack_name"`
	Env     []EnvVar   `yaml:"env,omitempty" validate:"omitempty,dive"`
	Workdir *PathSpec  `yaml:"workdir" validate:"required"`
	Volumes []PathSpec `yaml:"volumes,omitempty" validate:"omitempty,dive"`
	Ports   []string   `yaml:"ports,omitempty" validate:"omitempty,dive,port_mapping"`
	Stages  Stages     `yaml:"stages"`
}

// Stages groups the build and run stages of a stack.
type Stages struct {
	Build BuildStage `yaml:"build"`
	Run   *RunStage  `yaml:"run,omitempty"`
}

// BuildStage describes how a stack's image is assembled.
type BuildStage struct {
	Images  []string `yaml:"images" validate:"required,min=1,dive,required"`
	Env     []EnvVar `yaml:"env,omitempty" validate:"omitempty,dive"`
	Actions []Action `yaml:"actions,omitempty"`
}

// RunStage describes the command executed when the container starts.
type RunStage struct {
	Command string `yaml:"command,omitempty"`
}

// PathForm tells which shape a PathSpec was declared with.
type PathForm int

const (
	// FormBare is a single path used on both sides.
	FormBare PathForm = iota
	// FormMapped is an explicit host: container pair.
	FormMapped
)

// PathSpec is either a bare path or a single-entry host: container mapping.
type PathSpec struct {
	Form      PathForm `yaml:"-"`
	Host      string   `yaml:"-"`
	Container string   `yaml:"-" validate:"required"`
}

// Bare builds a FormBare PathSpec.
func Bare(path string) PathSpec {
	return PathSpec{Form: FormBare, Container: path}
}

// Mapped builds a FormMapped PathSpec.
func Mapped(host, container string) PathSpec {
	return PathSpec{Form: FormMapped, Host: host, Container: container}
}

// HostPath returns the host side of the mapping; bare paths map to themselves.
func (p PathSpec) HostPath() string {
	if p.Form == FormMapped {
		return p.Host
	}
	return p.Container
}

// UnmarshalYAML decides the form once, from the node kind.
func (p *PathSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*p = Bare(value.Value)
		return nil
	case yaml.MappingNode:
		key, val, err := singlePair(value)
		if err != nil {
			return err
		}
		*p = Mapped(key.Value, val.Value)
		return nil
	default:
		return fmt.Errorf("line %d: expected a path or a host: container mapping", value.Line)
	}
}

// EnvVar is one NAME: value entry of an ordered environment list.
type EnvVar struct {
	Name  string `yaml:"-" validate:"required,env_name"`
	Value string `yaml:"-" validate:"env_value"`
}

// UnmarshalYAML accepts a mapping with exactly one scalar entry.
func (e *EnvVar) UnmarshalYAML(value *yaml.Node) error {
	key, val, err := singlePair(value)
	if err != nil {
		return err
	}
	e.Name = key.Value
	e.Value = val.Value
	return nil
}

// ActionExecute is the only build action kind understood by the compiler.
const ActionExecute = "execute"

// Action is a build-stage action. Kinds other than "execute" are kept by
// name only and ignored during compilation.
type Action struct {
	Kind    string
	Execute *Command
}

// Command is an execute payload: a shell command line or an argument vector.
// Neither is set when the payload had another shape.
type Command struct {
	Line string
	Argv []string
}

// IsLine reports whether the command was declared as a single string.
func (c Command) IsLine() bool {
	return c.Argv == nil
}

// UnmarshalYAML reads the first key as the action kind.
func (a *Action) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode || len(value.Content) < 2 {
		return fmt.Errorf("line %d: build action must be a mapping such as {execute: ...}", value.Line)
	}

	a.Kind = value.Content[0].Value
	a.Execute = nil
	if a.Kind != ActionExecute {
		return nil
	}

	payload := value.Content[1]
	switch payload.Kind {
	case yaml.ScalarNode:
		a.Execute = &Command{Line: payload.Value}
	case yaml.SequenceNode:
		argv := make([]string, 0, len(payload.Content))
		if err := payload.Decode(&argv); err != nil {
			return err
		}
		a.Execute = &Command{Argv: argv}
	}

	return nil
}

func singlePair(node *yaml.Node) (*yaml.Node, *yaml.Node, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return nil, nil, fmt.Errorf("line %d: expected a mapping with exactly one entry", node.Line)
	}
	key, val := node.Content[0], node.Content[1]
	if val.Kind != yaml.ScalarNode {
		return nil, nil, fmt.Errorf("line %d: value of %q must be a scalar", val.Line, key.Value)
	}
	return key, val, nil
}
