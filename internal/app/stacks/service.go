package stacks

import (
	"context"
	"io"
	"os"

	"github.com/alexisbeaulieu97/voila/internal/engine"
	"github.com/alexisbeaulieu97/voila/internal/logger"
	"github.com/alexisbeaulieu97/voila/internal/ports"
	"github.com/alexisbeaulieu97/voila/internal/stack"
)

// EngineFactory returns the container engine for a configuration rooted at
// configDir.
type EngineFactory func(configDir string) ports.ContainerEngine

// Service assembles and runs the task list of each command.
type Service struct {
	NewEngine EngineFactory
	Prompter  stack.Prompter
	Logger    *logger.Logger
	Out       io.Writer

	runner *engine.Runner
}

// NewService constructs a Service. A nil log discards output.
func NewService(newEngine EngineFactory, prompter stack.Prompter, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		NewEngine: newEngine,
		Prompter:  prompter,
		Logger:    log,
		Out:       os.Stdout,
		runner:    engine.NewRunner(log),
	}
}

// Source locates the configuration of a command. An explicit ConfigPath
// skips discovery from Cwd.
type Source struct {
	ConfigPath string
	Cwd        string
}

// BuildFlags are the image build switches shared by start and build.
type BuildFlags struct {
	NoCache bool
	Pull    bool
}

// StartRequest configures `start`.
type StartRequest struct {
	Source
	BuildFlags
}

// BuildRequest configures `build`.
type BuildRequest struct {
	Source
	BuildFlags
	Selection stack.Selection
}

// ExecRequest configures `exec`.
type ExecRequest struct {
	Source
	Args      []string
	StackName string
	StackPath string
	Detach    bool
}

// DockerfileRequest configures `dockerfile`.
type DockerfileRequest struct {
	Source
	Selection stack.Selection
}

// Start builds every stack and starts the containers not already running.
func (s *Service) Start(ctx context.Context, req StartRequest) ([]string, error) {
	tasks := []engine.Task{
		s.loadConfig(req.Source, true),
		s.compileStacks(true),
		selectAll(),
		s.buildImages(req.BuildFlags, "Downloading dependencies and building images"),
		s.startContainers(),
	}
	return s.run(ctx, tasks)
}

// Build builds the images of the selected stacks.
func (s *Service) Build(ctx context.Context, req BuildRequest) ([]string, error) {
	tasks := []engine.Task{
		s.loadConfig(req.Source, true),
		s.compileStacks(true),
		s.selectStacks(req.Selection, req.Cwd),
		s.buildImages(req.BuildFlags, "Building images"),
	}
	return s.run(ctx, tasks)
}

// Exec runs a command inside the running container of the selected stack.
func (s *Service) Exec(ctx context.Context, req ExecRequest) ([]string, error) {
	tasks := []engine.Task{
		s.loadConfig(req.Source, false),
		s.compileStacks(false),
		s.selectStacks(stack.Selection{Flag: req.StackName}, req.Cwd),
		s.execCommand(req),
	}
	return s.run(ctx, tasks)
}

// Dockerfile writes the rendered build instructions of the selected stacks.
func (s *Service) Dockerfile(ctx context.Context, req DockerfileRequest) ([]string, error) {
	tasks := []engine.Task{
		s.loadConfig(req.Source, false),
		s.compileStacks(false),
		s.selectStacks(req.Selection, req.Cwd),
		s.printDockerfiles(),
	}
	return s.run(ctx, tasks)
}

func (s *Service) run(ctx context.Context, tasks []engine.Task) ([]string, error) {
	runner := s.runner
	if runner == nil {
		runner = engine.NewRunner(s.Logger)
	}
	return runner.Run(ctx, tasks, &engine.Context{})
}
