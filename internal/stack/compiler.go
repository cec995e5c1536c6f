// Package stack compiles stack definitions into build and run models and
// resolves which stacks a command applies to.
package stack

import (
	"fmt"

	"github.com/alexisbeaulieu97/voila/internal/config"
	"github.com/alexisbeaulieu97/voila/internal/instruction"
	voilaerrors "github.com/alexisbeaulieu97/voila/pkg/errors"
)

// CompileAll compiles every stack of a validated configuration, in
// declaration order. configDir is the directory holding the config file.
func CompileAll(cfg *config.Config, configDir string) ([]*CompiledStack, error) {
	stacks := make([]*CompiledStack, 0, len(cfg.Stacks))
	for i := range cfg.Stacks {
		compiled, err := Compile(cfg.Stacks[i], configDir)
		if err != nil {
			return nil, fmt.Errorf("compile stack %q: %w", cfg.Stacks[i].Name, err)
		}
		stacks = append(stacks, compiled)
	}
	return stacks, nil
}

// Compile turns one definition into a CompiledStack. It performs no I/O.
func Compile(def config.StackDefinition, configDir string) (*CompiledStack, error) {
	var list instruction.List
	build := def.Stages.Build

	for _, image := range build.Images {
		list.Add(instruction.From(image))
	}

	if len(build.Env) > 0 {
		if err := list.Allocate(instruction.KindArgs); err != nil {
			return nil, err
		}
	}
	if len(def.Env) > 0 {
		if err := list.Allocate(instruction.KindEnv); err != nil {
			return nil, err
		}
	}

	if def.Workdir == nil || def.Workdir.Container == "" {
		return nil, voilaerrors.InvalidWorkdir(def.Name)
	}

	hostDir := configDir
	workdir := def.Workdir.Container
	if def.Workdir.Form == config.FormMapped {
		hostDir = def.Workdir.Host
	}
	list.Add(instruction.Workdir(workdir))

	for _, env := range def.Env {
		if err := list.AppendTo(instruction.KindEnv, env.Name, env.Value); err != nil {
			return nil, err
		}
	}

	for _, arg := range build.Env {
		if err := list.AppendTo(instruction.KindArgs, arg.Name, arg.Value); err != nil {
			return nil, err
		}
	}

	for j, action := range build.Actions {
		if action.Kind != config.ActionExecute || action.Execute == nil {
			continue
		}
		argv, err := action.Execute.Words()
		if err != nil {
			field := fmt.Sprintf("stages.build.actions[%d].execute", j)
			return nil, voilaerrors.NewValidationError(field, "command line cannot be tokenized", action.Execute.Line, err)
		}
		list.Add(instruction.Run(argv...))
	}

	if run := def.Stages.Run; run != nil && run.Command != "" {
		list.Add(instruction.Entrypoint("bash", "-c", run.Command))
	}

	volumes := make([]string, 0, len(def.Volumes)+1)
	for _, volume := range def.Volumes {
		volumes = append(volumes, volume.HostPath()+":"+volume.Container)
	}
	volumes = append(volumes, hostDir+":"+workdir)

	return &CompiledStack{
		name:         def.Name,
		hostDir:      hostDir,
		workdir:      workdir,
		volumes:      volumes,
		ports:        append([]string(nil), def.Ports...),
		instructions: list,
	}, nil
}
