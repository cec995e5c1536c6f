package ports

import "context"

// BuildRequest describes one image build from an in-memory Dockerfile.
type BuildRequest struct {
	Image      string
	Dockerfile string
	NoCache    bool
	Pull       bool
}

// StartRequest describes a container to run detached from a built image.
// KeepAlive replaces the image entrypoint with an idle process so stacks
// without a run command stay up for exec.
type StartRequest struct {
	Name      string
	Image     string
	Volumes   []string
	Ports     []string
	KeepAlive bool
}

// StartResult carries diagnostics the engine printed while starting a
// container. Stderr is empty on a clean start.
type StartResult struct {
	ContainerID string
	Stderr      string
}

// ExecRequest describes a command to run inside a running container.
type ExecRequest struct {
	Container string
	Workdir   string
	Command   []string
}

// ContainerEngine is the boundary to the external container engine. The
// core never talks to the engine except through this interface.
//
// Implementations must:
//   - Respect ctx so an interrupted CLI terminates child processes.
//   - Return an error only when the engine itself could not be driven; a
//     command that ran and exited non-zero is reported through Exec's code.
type ContainerEngine interface {
	// BuildImage builds and tags req.Image from req.Dockerfile.
	BuildImage(ctx context.Context, req BuildRequest) error

	// IsRunning reports whether a container with the given name is running.
	IsRunning(ctx context.Context, name string) (bool, error)

	// Start creates and starts a detached container.
	Start(ctx context.Context, req StartRequest) (StartResult, error)

	// Exec runs a command attached to the caller's terminal and returns its
	// exit code.
	Exec(ctx context.Context, req ExecRequest) (int, error)

	// ExecDetached dispatches a command without waiting for it.
	ExecDetached(ctx context.Context, req ExecRequest) error
}
