package manager

import (
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/pkg/stdcopy"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
)

// mockEngine records every engine call in order and serves canned responses.
type mockEngine struct {
	mu    sync.Mutex
	calls []string

	// statuses is consumed one per ContainerInspect; the last entry repeats.
	statuses  []string
	statusIdx int
	name      string

	inspectErr error
	createErr  error
	startErr   error
	stopErr    error
	unpauseErr error
	removeErr  error
	pullErr    error

	createdConfig *container.Config
	createdHost   *container.HostConfig

	waitCode   int64
	logsOutput []byte

	execCmds     [][]string
	execOutput   []byte
	execExitCode int

	summaries []container.Summary
	listAll   bool
}

func (m *mockEngine) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockEngine) recorded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(make([]string, 0, len(m.calls)), m.calls...)
}

func (m *mockEngine) ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error) {
	m.record("list")
	m.listAll = options.All
	return m.summaries, nil
}

func (m *mockEngine) ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *v1.Platform, containerName string) (container.CreateResponse, error) {
	m.record("create")
	if m.createErr != nil {
		return container.CreateResponse{}, m.createErr
	}
	m.createdConfig = config
	m.createdHost = hostConfig
	return container.CreateResponse{ID: "c123"}, nil
}

func (m *mockEngine) ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error {
	m.record("start")
	return m.startErr
}

func (m *mockEngine) ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error) {
	m.record("inspect")
	if m.inspectErr != nil {
		return container.InspectResponse{}, m.inspectErr
	}
	status := ""
	if len(m.statuses) > 0 {
		status = m.statuses[m.statusIdx]
		if m.statusIdx < len(m.statuses)-1 {
			m.statusIdx++
		}
	}
	name := m.name
	if name == "" {
		name = "mock"
	}
	return container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{
			ID:    containerID,
			Name:  "/" + name,
			State: &container.State{Status: status},
		},
	}, nil
}

func (m *mockEngine) ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error {
	m.record("stop")
	return m.stopErr
}

func (m *mockEngine) ContainerUnpause(ctx context.Context, containerID string) error {
	m.record("unpause")
	return m.unpauseErr
}

func (m *mockEngine) ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error {
	if options.Force {
		m.record("remove-force")
	} else {
		m.record("remove")
	}
	return m.removeErr
}

func (m *mockEngine) ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
	m.record("wait")
	waitCh := make(chan container.WaitResponse, 1)
	waitCh <- container.WaitResponse{StatusCode: m.waitCode}
	return waitCh, make(chan error, 1)
}

func (m *mockEngine) ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error) {
	m.record("logs")
	return io.NopCloser(bytes.NewReader(m.logsOutput)), nil
}

func (m *mockEngine) ContainerExecCreate(ctx context.Context, containerID string, options container.ExecOptions) (container.ExecCreateResponse, error) {
	m.record("exec-create")
	m.mu.Lock()
	m.execCmds = append(m.execCmds, options.Cmd)
	m.mu.Unlock()
	return container.ExecCreateResponse{ID: "e1"}, nil
}

func (m *mockEngine) ContainerExecAttach(ctx context.Context, execID string, options container.ExecAttachOptions) (types.HijackedResponse, error) {
	m.record("exec-attach")
	server, client := net.Pipe()
	output := m.execOutput
	go func() {
		if len(output) > 0 {
			server.Write(output)
		}
		server.Close()
	}()
	return types.NewHijackedResponse(client, ""), nil
}

func (m *mockEngine) ContainerExecInspect(ctx context.Context, execID string) (container.ExecInspect, error) {
	m.record("exec-inspect")
	return container.ExecInspect{ExitCode: m.execExitCode}, nil
}

func (m *mockEngine) ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error) {
	m.record("pull")
	if m.pullErr != nil {
		return nil, m.pullErr
	}
	return io.NopCloser(strings.NewReader("{}")), nil
}

// muxFrames wraps stdout bytes in the engine's multiplexed stream framing.
func muxFrames(stdout string) []byte {
	var buf bytes.Buffer
	w := stdcopy.NewStdWriter(&buf, stdcopy.Stdout)
	w.Write([]byte(stdout))
	return buf.Bytes()
}
