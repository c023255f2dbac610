package gvm

import (
	"context"
	"fmt"

	"github.com/gvmrun/gvmrun/pkg/gmp"
)

// CreateTarget registers a scan target and returns the identifier the daemon
// assigned to it. No validation happens here beyond what the daemon itself
// performs on the spec.
func (c *Client) CreateTarget(ctx context.Context, spec gmp.TargetSpec) (string, error) {
	raw, err := c.bridge.Send(ctx, gmp.CreateTarget(spec))
	if err != nil {
		return "", err
	}
	resp, err := gmp.ParseResponse(raw)
	if err != nil {
		return "", fmt.Errorf("create target: %w", err)
	}
	id := resp.Text("//create_target_response/@id")
	if id == "" {
		return "", fmt.Errorf("create target: daemon returned no id")
	}
	c.logger.Info().Str("target_id", id).Str("hosts", spec.Hosts).Msg("created target")
	return id, nil
}
