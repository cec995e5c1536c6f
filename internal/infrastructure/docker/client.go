package docker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/alexisbeaulieu97/voila/internal/infrastructure/process"
	"github.com/alexisbeaulieu97/voila/internal/ports"
	voilaerrors "github.com/alexisbeaulieu97/voila/pkg/errors"
)

const defaultBinary = "docker"

var _ ports.ContainerEngine = (*Client)(nil)

// Client drives the docker CLI.
type Client struct {
	Binary    string
	ConfigDir string
	Runner    process.Runner
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer

	// IsTerminal reports whether Stdin is an interactive terminal; exec
	// allocates a TTY only then.
	IsTerminal func() bool
}

// New returns a client resolving relative bind mounts against configDir and
// attached to the process standard streams.
func New(configDir string) *Client {
	return &Client{
		Binary:    defaultBinary,
		ConfigDir: configDir,
		Runner:    process.OSRunner{},
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// ImageName returns the image tag used for a stack.
func ImageName(id, stack string) string {
	return strings.ToLower(fmt.Sprintf("voila-%s-%s", id, stack))
}

// ContainerName returns the container name used for a stack.
func ContainerName(id, stack string) string {
	return strings.ToLower(fmt.Sprintf("voila-%s-%s", id, stack))
}

// BuildImage builds req.Image from the Dockerfile fed on stdin.
func (c *Client) BuildImage(ctx context.Context, req ports.BuildRequest) error {
	args := []string{"build", "-t", req.Image}
	if req.NoCache {
		args = append(args, "--no-cache")
	}
	if req.Pull {
		args = append(args, "--pull")
	}
	args = append(args, "-")

	res, err := c.run(ctx, process.Command{
		Args:   args,
		Stdin:  strings.NewReader(req.Dockerfile),
		Stdout: c.Stdout,
		Stderr: c.Stderr,
	})
	if err != nil {
		return engineFailure(fmt.Sprintf("building image %s", req.Image), res, err)
	}
	return nil
}

// IsRunning reports whether a running container has exactly this name.
func (c *Client) IsRunning(ctx context.Context, name string) (bool, error) {
	res, err := c.run(ctx, process.Command{
		Args: []string{
			"ps",
			"--filter", "name=^/" + name + "$",
			"--filter", "status=running",
			"--format", "{{.Names}}",
		},
		Stdout: io.Discard,
		Stderr: io.Discard,
	})
	if err != nil {
		return false, engineFailure(fmt.Sprintf("inspecting container %s", name), res, err)
	}

	for _, line := range strings.Split(res.Stdout, "\n") {
		if strings.TrimSpace(line) == name {
			return true, nil
		}
	}
	return false, nil
}

// Start runs req as a detached container. Anything the engine wrote to
// stderr is returned in the result even when the start succeeded.
func (c *Client) Start(ctx context.Context, req ports.StartRequest) (ports.StartResult, error) {
	args := []string{"run", "-d", "--rm", "--name", req.Name}
	for _, volume := range req.Volumes {
		args = append(args, "-v", c.resolveVolume(volume))
	}
	for _, port := range req.Ports {
		args = append(args, "-p", port)
	}
	if req.KeepAlive {
		args = append(args, "--entrypoint", "sleep", req.Image, "infinity")
	} else {
		args = append(args, req.Image)
	}

	res, err := c.run(ctx, process.Command{Args: args, Stdout: io.Discard, Stderr: io.Discard})
	if err != nil {
		return ports.StartResult{Stderr: res.Stderr}, engineFailure(fmt.Sprintf("starting container %s", req.Name), res, err)
	}
	return ports.StartResult{ContainerID: res.Stdout, Stderr: res.Stderr}, nil
}

// Exec runs a command attached to the caller's streams and returns its exit
// code. A command that ran and failed is not an error.
func (c *Client) Exec(ctx context.Context, req ports.ExecRequest) (int, error) {
	flags := []string{"-i"}
	if c.IsTerminal != nil && c.IsTerminal() {
		flags = append(flags, "-t")
	}

	res, err := c.run(ctx, process.Command{
		Args:   execArgs(flags, req),
		Stdin:  c.Stdin,
		Stdout: c.Stdout,
		Stderr: c.Stderr,
	})
	if code, ok := process.ExitCode(err); ok {
		return code, nil
	}
	if err != nil {
		return res.ExitCode, engineFailure(fmt.Sprintf("executing in %s", req.Container), res, err)
	}
	return 0, nil
}

// ExecDetached dispatches the command with docker exec -d and returns once
// the engine accepted it.
func (c *Client) ExecDetached(ctx context.Context, req ports.ExecRequest) error {
	res, err := c.run(ctx, process.Command{
		Args:   execArgs([]string{"-d"}, req),
		Stdout: io.Discard,
		Stderr: io.Discard,
	})
	if err != nil {
		return engineFailure(fmt.Sprintf("executing in %s", req.Container), res, err)
	}
	return nil
}

func (c *Client) run(ctx context.Context, cmd process.Command) (process.Result, error) {
	cmd.Name = c.Binary
	if cmd.Name == "" {
		cmd.Name = defaultBinary
	}
	runner := c.Runner
	if runner == nil {
		runner = process.OSRunner{}
	}
	return runner.Run(ctx, cmd)
}

// resolveVolume anchors a relative host path to the config directory. Bare
// names without a separator are named volumes and pass through.
func (c *Client) resolveVolume(volume string) string {
	host, container, ok := strings.Cut(volume, ":")
	if !ok || filepath.IsAbs(host) || c.ConfigDir == "" {
		return volume
	}
	if !strings.HasPrefix(host, ".") && !strings.Contains(host, "/") {
		return volume
	}
	return filepath.Join(c.ConfigDir, host) + ":" + container
}

func execArgs(flags []string, req ports.ExecRequest) []string {
	args := append([]string{"exec"}, flags...)
	if req.Workdir != "" {
		args = append(args, "-w", req.Workdir)
	}
	args = append(args, req.Container)
	return append(args, req.Command...)
}

func engineFailure(action string, res process.Result, err error) error {
	detail := process.PrimaryOutput(res)
	if detail == "" {
		detail = err.Error()
	}
	return voilaerrors.EngineFailure(fmt.Sprintf("docker failed %s: %s", action, detail))
}
