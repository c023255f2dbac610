// Package gvm is the control-plane client for the scanner daemon: target and
// task registration, status polling, report retrieval, and namespace cleanup.
// All daemon access goes through a gmp.Bridge.
package gvm

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gvmrun/gvmrun/pkg/gmp"
)

// DefaultPollInterval is the fixed delay between task status queries.
const DefaultPollInterval = 10 * time.Second

// ProgressFunc receives task status updates during polling. Observability
// only; control flow never depends on it.
type ProgressFunc func(status TaskStatus, progress int)

// waitFunc suspends until the delay elapses or the context is done.
// Injectable so polling tests run without real sleeps.
type waitFunc func(ctx context.Context, d time.Duration) error

// Client talks to the scanner daemon through a command bridge.
type Client struct {
	bridge       gmp.Bridge
	logger       zerolog.Logger
	pollInterval time.Duration
	// pollTimeout bounds a single WaitForTask call. Zero means wait
	// forever, which is the historical behavior.
	pollTimeout time.Duration
	onProgress  ProgressFunc
	wait        waitFunc
}

// NewClient builds a Client with the default polling policy.
func NewClient(bridge gmp.Bridge) *Client {
	return &Client{
		bridge:       bridge,
		logger:       log.With().Str("component", "gvm-client").Logger(),
		pollInterval: DefaultPollInterval,
		wait: func(ctx context.Context, d time.Duration) error {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
				return nil
			}
		},
	}
}

// WithPollInterval overrides the fixed delay between status queries.
func (c *Client) WithPollInterval(d time.Duration) *Client {
	if d > 0 {
		c.pollInterval = d
	}
	return c
}

// WithPollTimeout bounds the total wait for task completion. Zero keeps the
// unbounded default.
func (c *Client) WithPollTimeout(d time.Duration) *Client {
	c.pollTimeout = d
	return c
}

// WithProgressFunc attaches a sink for task progress updates.
func (c *Client) WithProgressFunc(fn ProgressFunc) *Client {
	c.onProgress = fn
	return c
}

// WithWaitFunc overrides the poll delay mechanism, for tests.
func (c *Client) WithWaitFunc(wait waitFunc) *Client {
	c.wait = wait
	return c
}

func (c *Client) emitProgress(status TaskStatus, progress int) {
	if c.onProgress != nil {
		c.onProgress(status, progress)
	}
}
