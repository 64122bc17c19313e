package manager

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"

	"dockhand/types"
)

const (
	defaultStopTimeout = 10 * time.Second
	defaultPollDelay   = 1 * time.Second
	defaultPollBudget  = 5
)

// ContainerManager interacts with the Docker daemon to manage containers.
// It is a thin facade over the Engine; the only logic of any depth lives
// in Delete (see reconciler.go).
type ContainerManager struct {
	engine      Engine
	stopTimeout time.Duration

	// Restart-status polling knobs for Delete. Tests shrink these so the
	// bounded wait does not burn wall-clock time.
	pollDelay  time.Duration
	pollBudget int
}

// NewContainerManager creates a new ContainerManager around a shared engine client.
func NewContainerManager(engine Engine) *ContainerManager {
	return &ContainerManager{
		engine:      engine,
		stopTimeout: defaultStopTimeout,
		pollDelay:   defaultPollDelay,
		pollBudget:  defaultPollBudget,
	}
}

// SetStopTimeout overrides the graceful-stop timeout passed to the engine.
func (cm *ContainerManager) SetStopTimeout(d time.Duration) {
	if d > 0 {
		cm.stopTimeout = d
	}
}

// SetPolling overrides the restart-status poll delay and budget used by Delete.
func (cm *ContainerManager) SetPolling(delay time.Duration, budget int) {
	if delay > 0 {
		cm.pollDelay = delay
	}
	if budget > 0 {
		cm.pollBudget = budget
	}
}

// List returns container summaries. With all=false only running containers
// are included, mirroring `docker ps`.
func (cm *ContainerManager) List(ctx context.Context, all bool) ([]container.Summary, error) {
	containers, err := cm.engine.ContainerList(ctx, container.ListOptions{All: all})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	return containers, nil
}

// Inspect returns the engine's inspect data for a container.
func (cm *ContainerManager) Inspect(ctx context.Context, id string) (container.InspectResponse, error) {
	data, err := cm.engine.ContainerInspect(ctx, id)
	if err != nil {
		return container.InspectResponse{}, fmt.Errorf("failed to inspect container %s: %w", id, err)
	}
	return data, nil
}

// CreateAndStart pulls the requested image, creates a container from the
// request, starts it, and returns its inspect data.
func (cm *ContainerManager) CreateAndStart(ctx context.Context, req types.CreateRequest) (container.InspectResponse, error) {
	if err := pullImage(ctx, cm.engine, req.Image); err != nil {
		return container.InspectResponse{}, err
	}

	config := &container.Config{
		Image: req.Image,
		Cmd:   req.Cmd,
		Env:   req.Env,
		Tty:   req.Tty,
	}
	hostConfig := &container.HostConfig{}

	if len(req.Ports) > 0 {
		exposed, bindings, err := portBindings(req.Ports)
		if err != nil {
			return container.InspectResponse{}, err
		}
		config.ExposedPorts = exposed
		hostConfig.PortBindings = bindings
	}

	resp, err := cm.engine.ContainerCreate(ctx, config, hostConfig, nil, nil, req.Name)
	if err != nil {
		return container.InspectResponse{}, fmt.Errorf("failed to create container from image %s: %w", req.Image, err)
	}

	if err := cm.engine.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		// Best-effort removal of the container we just created.
		if rmErr := cm.engine.ContainerRemove(context.Background(), resp.ID, container.RemoveOptions{Force: true}); rmErr != nil {
			log.Printf("ContainerManager: failed to remove container %s after failed start: %v", resp.ID, rmErr)
		}
		return container.InspectResponse{}, fmt.Errorf("failed to start container %s: %w", resp.ID, err)
	}

	log.Printf("ContainerManager: container %s created and started from image %s", resp.ID, req.Image)
	return cm.Inspect(ctx, resp.ID)
}

// Run creates a container, starts it, waits for it to exit, and returns the
// captured output. Non-zero container exit does not fail the call; the
// output is returned as-is.
func (cm *ContainerManager) Run(ctx context.Context, req types.RunRequest) (string, error) {
	if err := pullImage(ctx, cm.engine, req.Image); err != nil {
		return "", err
	}

	config := &container.Config{
		Image: req.Image,
		Cmd:   req.Cmd,
		Tty:   req.Tty,
	}
	resp, err := cm.engine.ContainerCreate(ctx, config, nil, nil, nil, "")
	if err != nil {
		return "", fmt.Errorf("failed to create container from image %s: %w", req.Image, err)
	}

	if err := cm.engine.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		if rmErr := cm.engine.ContainerRemove(context.Background(), resp.ID, container.RemoveOptions{Force: true}); rmErr != nil {
			log.Printf("ContainerManager: failed to remove container %s after failed start: %v", resp.ID, rmErr)
		}
		return "", fmt.Errorf("failed to start container %s: %w", resp.ID, err)
	}

	waitCh, errCh := cm.engine.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		return "", fmt.Errorf("failed waiting for container %s: %w", resp.ID, err)
	case status := <-waitCh:
		if status.StatusCode != 0 {
			log.Printf("ContainerManager: container %s exited with status %d", resp.ID, status.StatusCode)
		}
	}

	output, err := cm.containerOutput(ctx, resp.ID, req.Tty)
	if err != nil {
		return "", err
	}
	return output, nil
}

// containerOutput reads the container's full log stream. Without a TTY the
// stream is multiplexed and needs demuxing; with one it is raw bytes.
func (cm *ContainerManager) containerOutput(ctx context.Context, id string, tty bool) (string, error) {
	logs, err := cm.engine.ContainerLogs(ctx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to read logs for container %s: %w", id, err)
	}
	defer logs.Close()

	var buf bytes.Buffer
	if tty {
		if _, err := io.Copy(&buf, logs); err != nil {
			return "", fmt.Errorf("failed to read output of container %s: %w", id, err)
		}
	} else {
		if _, err := stdcopy.StdCopy(&buf, &buf, logs); err != nil {
			return "", fmt.Errorf("failed to demux output of container %s: %w", id, err)
		}
	}
	return buf.String(), nil
}

// pullImage pulls an image and drains the progress stream.
func pullImage(ctx context.Context, engine Engine, ref string) error {
	reader, err := engine.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", ref, err)
	}
	defer reader.Close()
	if _, err := io.Copy(io.Discard, reader); err != nil {
		log.Printf("manager: failed to drain pull progress for image %s: %v", ref, err)
	}
	return nil
}

// stopOptions converts the configured stop timeout into engine options.
func (cm *ContainerManager) stopOptions() container.StopOptions {
	seconds := int(cm.stopTimeout / time.Second)
	return container.StopOptions{Timeout: &seconds}
}

// portBindings converts a container-port -> host-port map into the engine's
// exposed-port set and binding map. Ports without a protocol default to tcp.
func portBindings(ports map[string]string) (nat.PortSet, nat.PortMap, error) {
	exposed := nat.PortSet{}
	bindings := nat.PortMap{}
	for containerPort, hostPort := range ports {
		proto, port := nat.SplitProtoPort(containerPort)
		natPort, err := nat.NewPort(proto, port)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid container port %q: %w", containerPort, err)
		}
		exposed[natPort] = struct{}{}
		bindings[natPort] = []nat.PortBinding{{HostIP: "0.0.0.0", HostPort: hostPort}}
	}
	return exposed, bindings, nil
}
