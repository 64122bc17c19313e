package manager

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
)

// language maps a language tag to a base image and an interpreter invocation.
type language struct {
	image      string
	invocation func(code string) []string
}

var languages = map[string]language{
	"python": {
		image: "python:3.11-slim",
		invocation: func(code string) []string {
			return []string{"python", "-c", code}
		},
	},
	"node": {
		image: "node:20-alpine",
		invocation: func(code string) []string {
			return []string{"node", "-e", code}
		},
	},
}

// defaultKeepAlive bounds how long a throwaway container may linger if the
// cleanup phase fails; the keep-alive command exits on its own after this.
const defaultKeepAlive = 5 * time.Minute

// Runner executes code snippets inside throwaway containers.
type Runner struct {
	engine    Engine
	keepAlive time.Duration
}

// NewRunner creates a Runner around a shared engine client.
func NewRunner(engine Engine) *Runner {
	return &Runner{engine: engine, keepAlive: defaultKeepAlive}
}

// SetKeepAlive overrides the lifetime of the keep-alive command.
func (r *Runner) SetKeepAlive(d time.Duration) {
	if d > 0 {
		r.keepAlive = d
	}
}

// RunCode runs a code snippet in a fresh container for the given language tag
// and returns the combined stdout/stderr of the interpreter. The container is
// stopped and removed afterwards on a best-effort basis. cmd, when non-empty,
// overrides the keep-alive command the container is created with.
func (r *Runner) RunCode(ctx context.Context, lang, code string, cmd []string) (string, error) {
	spec, ok := languages[lang]
	if !ok {
		return "", fmt.Errorf("cannot run %q code: %w", lang, ErrUnsupportedLanguage)
	}

	if err := pullImage(ctx, r.engine, spec.image); err != nil {
		return "", err
	}

	if len(cmd) == 0 {
		cmd = []string{"sleep", fmt.Sprintf("%d", int(r.keepAlive/time.Second))}
	}
	resp, err := r.engine.ContainerCreate(ctx, &container.Config{
		Image: spec.image,
		Cmd:   cmd,
	}, nil, nil, nil, "")
	if err != nil {
		return "", fmt.Errorf("failed to create container from image %s: %w", spec.image, err)
	}
	defer r.cleanup(resp.ID)

	if err := r.engine.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("failed to start container %s: %w", resp.ID, err)
	}

	return r.exec(ctx, resp.ID, spec.invocation(code))
}

// exec runs cmd inside the container and captures its combined output until
// the stream ends. The exec exit code is logged for diagnostics only; a
// non-zero exit does not alter the returned output.
func (r *Runner) exec(ctx context.Context, containerID string, cmd []string) (string, error) {
	execResp, err := r.engine.ContainerExecCreate(ctx, containerID, container.ExecOptions{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create exec in container %s: %w", containerID, err)
	}

	attach, err := r.engine.ContainerExecAttach(ctx, execResp.ID, container.ExecAttachOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to attach to exec in container %s: %w", containerID, err)
	}
	defer attach.Close()

	// Attaching starts the exec process; the stream carries multiplexed
	// stdout and stderr frames until the process exits.
	var buf bytes.Buffer
	if _, err := stdcopy.StdCopy(&buf, &buf, attach.Reader); err != nil {
		return "", fmt.Errorf("failed to read exec output from container %s: %w", containerID, err)
	}

	inspect, err := r.engine.ContainerExecInspect(ctx, execResp.ID)
	if err != nil {
		log.Printf("Runner: failed to inspect exec in container %s: %v", containerID, err)
	} else if inspect.ExitCode != 0 {
		log.Printf("Runner: exec in container %s exited with code %d", containerID, inspect.ExitCode)
	}

	return buf.String(), nil
}

// cleanup stops and removes the throwaway container. Errors here are logged
// and swallowed: the captured output has already been determined.
func (r *Runner) cleanup(containerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stopTimeout := 5
	if err := r.engine.ContainerStop(ctx, containerID, container.StopOptions{Timeout: &stopTimeout}); err != nil {
		log.Printf("Runner: failed to stop container %s during cleanup: %v", containerID, err)
	}
	if err := r.engine.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true}); err != nil {
		log.Printf("Runner: failed to remove container %s during cleanup: %v", containerID, err)
	}
}
