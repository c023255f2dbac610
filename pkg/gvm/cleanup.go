package gvm

import (
	"context"
	"fmt"

	"github.com/gvmrun/gvmrun/pkg/gmp"
)

// Cleanup deletes every task and every target registered in the daemon,
// restoring it to an empty baseline. Deletion is ultimate: nothing is left in
// the trashcan. Running against an empty daemon is a no-op.
//
// Best effort, not transactional: the first delete failure aborts the
// remainder and leaves the daemon with partial state.
func (c *Client) Cleanup(ctx context.Context) error {
	taskIDs, err := c.listIDs(ctx, gmp.GetTasks(), "//get_tasks_response/task")
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	for _, id := range taskIDs {
		if _, err := c.bridge.Send(ctx, gmp.DeleteTask(id)); err != nil {
			return fmt.Errorf("delete task %s: %w", id, err)
		}
		c.logger.Debug().Str("task_id", id).Msg("deleted task")
	}

	targetIDs, err := c.listIDs(ctx, gmp.GetTargets(), "//get_targets_response/target")
	if err != nil {
		return fmt.Errorf("list targets: %w", err)
	}
	for _, id := range targetIDs {
		if _, err := c.bridge.Send(ctx, gmp.DeleteTarget(id)); err != nil {
			return fmt.Errorf("delete target %s: %w", id, err)
		}
		c.logger.Debug().Str("target_id", id).Msg("deleted target")
	}

	c.logger.Info().
		Int("tasks", len(taskIDs)).
		Int("targets", len(targetIDs)).
		Msg("daemon namespace cleaned")
	return nil
}

// listIDs sends a list command and collects the id attribute of every node
// matching the query path. An unparseable reply (for example the empty reply
// left by a swallowed transient auth failure) counts as an empty list.
func (c *Client) listIDs(ctx context.Context, command, path string) ([]string, error) {
	raw, err := c.bridge.Send(ctx, command)
	if err != nil {
		return nil, err
	}
	resp, err := gmp.ParseResponse(raw)
	if err != nil {
		c.logger.Warn().Msg("unreadable list response, treating as empty")
		return nil, nil
	}
	var ids []string
	for _, n := range resp.Nodes(path) {
		if id := n.SelectAttr("id"); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
