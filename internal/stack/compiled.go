package stack

import (
	"github.com/alexisbeaulieu97/voila/internal/instruction"
)

// CompiledStack is the resolved runtime model of one stack definition.
// It is immutable once built; accessors return copies.
type CompiledStack struct {
	name         string
	hostDir      string
	workdir      string
	volumes      []string
	ports        []string
	instructions instruction.List
}

// Name returns the stack name.
func (s *CompiledStack) Name() string { return s.name }

// HostDir returns the host directory bound to the container workdir. It is
// the config directory for bare workdirs and the declared host path otherwise.
func (s *CompiledStack) HostDir() string { return s.hostDir }

// Workdir returns the container working directory.
func (s *CompiledStack) Workdir() string { return s.workdir }

// Volumes returns the bind mounts as host:container strings, the implicit
// hostDir:workdir binding last.
func (s *CompiledStack) Volumes() []string { return append([]string(nil), s.volumes...) }

// Ports returns the declared port mappings.
func (s *CompiledStack) Ports() []string { return append([]string(nil), s.ports...) }

// Instructions returns a copy of the instruction list.
func (s *CompiledStack) Instructions() instruction.List { return s.instructions.Clone() }

// HasRunCommand reports whether a run-stage command was declared. Stacks
// with one start attached to it; others are kept alive idle.
func (s *CompiledStack) HasRunCommand() bool {
	return s.instructions.Index(instruction.KindEntrypoint) >= 0
}

// RunCommand returns the run-stage command, or "" when none was declared.
func (s *CompiledStack) RunCommand() string {
	ins, ok := s.instructions.Find(instruction.KindEntrypoint)
	if !ok || len(ins.Argv) < 3 {
		return ""
	}
	return ins.Argv[2]
}
