package stacks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/voila/internal/config"
	"github.com/alexisbeaulieu97/voila/internal/engine"
	"github.com/alexisbeaulieu97/voila/internal/infrastructure/docker"
	"github.com/alexisbeaulieu97/voila/internal/paths"
	"github.com/alexisbeaulieu97/voila/internal/ports"
	"github.com/alexisbeaulieu97/voila/internal/stack"
	voilaerrors "github.com/alexisbeaulieu97/voila/pkg/errors"
)

func title(titled bool, text string) string {
	if !titled {
		return ""
	}
	return text
}

func (s *Service) loadConfig(src Source, titled bool) engine.Task {
	return engine.Task{
		Title: title(titled, "Loading config"),
		Action: func(_ context.Context, execCtx *engine.Context) ([]string, error) {
			path := src.ConfigPath
			if path == "" {
				loc, err := config.Locate(src.Cwd)
				if errors.Is(err, config.ErrNotFound) {
					return nil, voilaerrors.ConfigNotFound(src.Cwd)
				}
				if err != nil {
					return nil, err
				}
				if loc.Warning != "" {
					s.Logger.Warn(loc.Warning)
				}
				path = loc.Path
			}

			cfg, err := config.ParseConfig(path)
			if err != nil {
				return nil, err
			}
			execCtx.ConfigPath = path
			execCtx.Config = cfg
			return nil, nil
		},
	}
}

func (s *Service) compileStacks(titled bool) engine.Task {
	return engine.Task{
		Title: title(titled, "Parsing and validating config"),
		Action: func(_ context.Context, execCtx *engine.Context) ([]string, error) {
			dir, err := config.Dir(execCtx.ConfigPath)
			if err != nil {
				return nil, err
			}
			reg, err := stack.Load(execCtx.Config, dir)
			if err != nil {
				return nil, err
			}
			execCtx.Registry = reg
			return nil, nil
		},
	}
}

func selectAll() engine.Task {
	return engine.Task{
		Action: func(_ context.Context, execCtx *engine.Context) ([]string, error) {
			execCtx.Stacks = execCtx.Registry.Stacks()
			return nil, nil
		},
	}
}

func (s *Service) selectStacks(sel stack.Selection, cwd string) engine.Task {
	return engine.Task{
		Action: func(ctx context.Context, execCtx *engine.Context) ([]string, error) {
			selected, err := stack.Select(ctx, execCtx.Registry, sel, cwd, s.Prompter)
			if err != nil {
				return nil, err
			}
			execCtx.Stacks = selected
			return nil, nil
		},
	}
}

func (s *Service) buildImages(flags BuildFlags, text string) engine.Task {
	return engine.Task{
		Title: text,
		Action: func(ctx context.Context, execCtx *engine.Context) ([]string, error) {
			containers := s.engineFor(execCtx)
			var out []string
			for _, st := range execCtx.Stacks {
				dockerfile, err := execCtx.Registry.Dockerfile(st.Name())
				if err != nil {
					return nil, err
				}
				image := docker.ImageName(execCtx.Registry.ID(), st.Name())
				s.Logger.WithStack(st.Name()).Debug(fmt.Sprintf("Building %s", image))
				err = containers.BuildImage(ctx, ports.BuildRequest{
					Image:      image,
					Dockerfile: dockerfile,
					NoCache:    flags.NoCache,
					Pull:       flags.Pull,
				})
				if err != nil {
					return nil, err
				}
				out = append(out, fmt.Sprintf("Built image %s", image))
			}
			return out, nil
		},
	}
}

func (s *Service) startContainers() engine.Task {
	return engine.Task{
		Title: "Starting stacks",
		Action: func(ctx context.Context, execCtx *engine.Context) ([]string, error) {
			containers := s.engineFor(execCtx)
			var out []string
			for _, st := range execCtx.Stacks {
				image := docker.ImageName(execCtx.Registry.ID(), st.Name())
				name := docker.ContainerName(execCtx.Registry.ID(), st.Name())

				running, err := containers.IsRunning(ctx, name)
				if err != nil {
					return nil, err
				}
				if running {
					out = append(out, fmt.Sprintf("Container %s is already running", name))
					continue
				}

				res, err := containers.Start(ctx, ports.StartRequest{
					Name:      name,
					Image:     image,
					Volumes:   st.Volumes(),
					Ports:     st.Ports(),
					KeepAlive: !st.HasRunCommand(),
				})
				if err != nil {
					return nil, err
				}
				if res.Stderr != "" {
					return nil, voilaerrors.EngineFailure(res.Stderr)
				}
				out = append(out, fmt.Sprintf("Started container %s", name))
			}
			return out, nil
		},
	}
}

// execCommand checks, in order: the container is running, cwd lies inside
// the stack host directory unless a path was given, and there is a command.
func (s *Service) execCommand(req ExecRequest) engine.Task {
	return engine.Task{
		Action: func(ctx context.Context, execCtx *engine.Context) ([]string, error) {
			containers := s.engineFor(execCtx)
			st := execCtx.Stacks[0]
			name := docker.ContainerName(execCtx.Registry.ID(), st.Name())

			running, err := containers.IsRunning(ctx, name)
			if err != nil {
				return nil, err
			}
			if !running {
				return nil, voilaerrors.StackNotRunning(st.Name())
			}

			command := strings.Join(req.Args, " ")
			if command == "" {
				command = st.RunCommand()
			}

			workdir := req.StackPath
			if workdir == "" {
				hostDir := stack.HostPath(execCtx.Registry, st)
				mapped, ok := paths.ContainerPath(hostDir, st.Workdir(), req.Cwd)
				if !ok {
					return nil, voilaerrors.WrongWorkdir(hostDir)
				}
				workdir = mapped
			}

			if command == "" {
				return nil, voilaerrors.SpecifyCommand()
			}

			execReq := ports.ExecRequest{
				Container: name,
				Workdir:   workdir,
				Command:   []string{"bash", "-c", command},
			}

			if req.Detach {
				s.Logger.Info(fmt.Sprintf("Asynchronously executing %q in %s:%s", command, st.Name(), workdir))
				if err := containers.ExecDetached(ctx, execReq); err != nil {
					return nil, err
				}
				return nil, nil
			}

			s.Logger.Info(fmt.Sprintf("Executing %q in %s:%s", command, st.Name(), workdir))
			code, err := containers.Exec(ctx, execReq)
			if err != nil {
				return nil, err
			}
			switch code {
			case 0:
				return nil, nil
			case 1:
				return nil, voilaerrors.ExecInterrupted(name)
			default:
				return nil, voilaerrors.EngineFailure(fmt.Sprintf("Command %q exited with status %d in %s.", command, code, name))
			}
		},
	}
}

func (s *Service) printDockerfiles() engine.Task {
	return engine.Task{
		Action: func(_ context.Context, execCtx *engine.Context) ([]string, error) {
			multiple := len(execCtx.Stacks) > 1
			for i, st := range execCtx.Stacks {
				dockerfile, err := execCtx.Registry.Dockerfile(st.Name())
				if err != nil {
					return nil, err
				}
				if multiple {
					if i > 0 {
						fmt.Fprintln(s.Out)
					}
					fmt.Fprintf(s.Out, "# %s\n", st.Name())
				}
				fmt.Fprint(s.Out, dockerfile)
			}
			return nil, nil
		},
	}
}

func (s *Service) engineFor(execCtx *engine.Context) ports.ContainerEngine {
	if execCtx.Engine == nil {
		execCtx.Engine = s.NewEngine(execCtx.Registry.ConfigDir())
	}
	return execCtx.Engine
}
