package gvm

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cast"

	"github.com/gvmrun/gvmrun/pkg/gmp"
)

// TaskStatus is a task lifecycle state as reported by the daemon. Statuses
// are only ever parsed from daemon replies, never set locally.
type TaskStatus string

const (
	StatusRequested TaskStatus = "Requested"
	StatusRunning   TaskStatus = "Running"
	StatusDone      TaskStatus = "Done"
	StatusFailed    TaskStatus = "Failed"
)

// CreateTask registers a scan task binding the target to a scan profile and
// returns the task identifier the daemon assigned.
func (c *Client) CreateTask(ctx context.Context, name, profileID, targetID string) (string, error) {
	raw, err := c.bridge.Send(ctx, gmp.CreateTask(name, profileID, targetID))
	if err != nil {
		return "", err
	}
	resp, err := gmp.ParseResponse(raw)
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	id := resp.Text("//create_task_response/@id")
	if id == "" {
		return "", fmt.Errorf("create task: daemon returned no id")
	}
	c.logger.Info().Str("task_id", id).Str("target_id", targetID).Msg("created task")
	return id, nil
}

// StartTask asks the daemon to begin executing the task. The scan itself runs
// asynchronously inside the daemon; observe it through WaitForTask.
func (c *Client) StartTask(ctx context.Context, taskID string) error {
	if _, err := c.bridge.Send(ctx, gmp.StartTask(taskID)); err != nil {
		return err
	}
	c.logger.Info().Str("task_id", taskID).Msg("started task")
	return nil
}

// WaitForTask polls the task at the configured fixed interval until the
// daemon reports it Done, then returns the identifier of the report the task
// produced.
//
// Unreadable status replies are tolerated and retried on the same interval;
// only a fatal bridge failure, context cancellation, or the optional poll
// timeout end the wait early. With no timeout configured an unresponsive
// daemon blocks indefinitely.
func (c *Client) WaitForTask(ctx context.Context, taskID string) (string, error) {
	deadline := time.Time{}
	if c.pollTimeout > 0 {
		deadline = time.Now().Add(c.pollTimeout)
	}

	for {
		if err := c.wait(ctx, c.pollInterval); err != nil {
			return "", err
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return "", fmt.Errorf("task %s: %w", taskID, ErrPollTimeout)
		}

		raw, err := c.bridge.Send(ctx, gmp.GetTask(taskID))
		if err != nil {
			return "", err
		}
		resp, err := gmp.ParseResponse(raw)
		if err != nil {
			c.logger.Warn().Str("task_id", taskID).Msg("cannot read task status, retrying")
			continue
		}

		status := TaskStatus(resp.Text("//status"))
		progress := cast.ToInt(resp.Text("//progress"))
		c.emitProgress(status, progress)
		c.logger.Debug().
			Str("task_id", taskID).
			Str("status", string(status)).
			Int("progress", progress).
			Msg("task status")

		if status != StatusDone {
			continue
		}
		return resp.Text("//report/@id"), nil
	}
}
