package manager

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
)

// Delete converges a container to removal with the fewest destructive
// operations consistent with its observed status:
//
//	running     stop, then remove
//	paused      unpause, stop, then remove
//	restarting  poll while restarting (bounded), stop if it settled into
//	            running, then remove
//	exited      remove
//	created     remove
//	dead        force remove
//	removing    nothing, another removal is already in flight
//
// Any other status fails with ErrUnknownStatus before any engine call.
// On success it returns a confirmation message naming the container.
func (cm *ContainerManager) Delete(ctx context.Context, id string) (string, error) {
	data, err := cm.engine.ContainerInspect(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to inspect container %s: %w", id, err)
	}

	name := strings.TrimPrefix(data.Name, "/")
	status := data.State.Status

	switch status {
	case "running":
		if err := cm.stopAndRemove(ctx, id); err != nil {
			return "", err
		}

	case "paused":
		if err := cm.engine.ContainerUnpause(ctx, id); err != nil {
			return "", fmt.Errorf("failed to unpause container %s: %w", id, err)
		}
		if err := cm.stopAndRemove(ctx, id); err != nil {
			return "", err
		}

	case "restarting":
		if err := cm.settleRestarting(ctx, id); err != nil {
			return "", err
		}
		// Remove is attempted regardless of whether the container ever left
		// the restarting state; the engine rejects it if still running.
		if err := cm.remove(ctx, id, false); err != nil {
			return "", err
		}

	case "exited", "created":
		if err := cm.remove(ctx, id, false); err != nil {
			return "", err
		}

	case "dead":
		if err := cm.remove(ctx, id, true); err != nil {
			return "", err
		}

	case "removing":
		log.Printf("ContainerManager: container %s is already being removed", id)

	default:
		return "", fmt.Errorf("cannot delete container %s: %w: %q", id, ErrUnknownStatus, status)
	}

	log.Printf("ContainerManager: container %s (%s) deleted", name, id)
	return fmt.Sprintf("container %s (%s) deleted", name, id), nil
}

// settleRestarting waits out a restart loop: it re-reads the status once per
// poll delay, up to the poll budget, while the container keeps reporting
// restarting. If the container settles into running it is stopped.
func (cm *ContainerManager) settleRestarting(ctx context.Context, id string) error {
	status := "restarting"
	for attempt := 0; attempt < cm.pollBudget && status == "restarting"; attempt++ {
		time.Sleep(cm.pollDelay)
		data, err := cm.engine.ContainerInspect(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to inspect container %s: %w", id, err)
		}
		status = data.State.Status
		log.Printf("ContainerManager: container %s reported %q on poll %d/%d", id, status, attempt+1, cm.pollBudget)
	}

	if status == "running" {
		if err := cm.stop(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (cm *ContainerManager) stopAndRemove(ctx context.Context, id string) error {
	if err := cm.stop(ctx, id); err != nil {
		return err
	}
	return cm.remove(ctx, id, false)
}

func (cm *ContainerManager) stop(ctx context.Context, id string) error {
	if err := cm.engine.ContainerStop(ctx, id, cm.stopOptions()); err != nil {
		return fmt.Errorf("failed to stop container %s: %w", id, err)
	}
	return nil
}

func (cm *ContainerManager) remove(ctx context.Context, id string, force bool) error {
	if err := cm.engine.ContainerRemove(ctx, id, container.RemoveOptions{Force: force}); err != nil {
		return fmt.Errorf("failed to remove container %s: %w", id, err)
	}
	return nil
}
