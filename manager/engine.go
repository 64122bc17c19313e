package manager

import (
	"context"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
)

// Engine is the subset of the Docker client this service consumes.
// Production code passes a single shared *client.Client; tests pass a mock.
type Engine interface {
	// ContainerList returns the list of containers on the docker host.
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)

	// ContainerCreate creates a new container based on the given configuration.
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *v1.Platform, containerName string) (container.CreateResponse, error)

	// ContainerStart starts a container.
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error

	// ContainerInspect returns the container information.
	ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error)

	// ContainerStop stops a container.
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error

	// ContainerUnpause resumes a paused container.
	ContainerUnpause(ctx context.Context, containerID string) error

	// ContainerRemove removes a container from the docker host.
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error

	// ContainerWait waits until the container reaches the given condition.
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)

	// ContainerLogs returns the container's log stream.
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)

	// ContainerExecCreate creates a new exec configuration to run an exec process.
	ContainerExecCreate(ctx context.Context, containerID string, options container.ExecOptions) (container.ExecCreateResponse, error)

	// ContainerExecAttach attaches a connection to an exec process.
	ContainerExecAttach(ctx context.Context, execID string, options container.ExecAttachOptions) (types.HijackedResponse, error)

	// ContainerExecInspect returns information about a specific exec process.
	ContainerExecInspect(ctx context.Context, execID string) (container.ExecInspect, error)

	// ImagePull requests the docker host to pull an image from a remote registry.
	ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error)
}
