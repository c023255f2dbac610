// Package scanrun sequences the full scan lifecycle against the daemon:
// cleanup, target and task registration, start, poll, report retrieval,
// persistence, final cleanup.
package scanrun

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gvmrun/gvmrun/pkg/gmp"
	"github.com/gvmrun/gvmrun/pkg/gvm"
	"github.com/gvmrun/gvmrun/pkg/storage"
)

// lifecycleClient is the slice of the daemon client the orchestrator needs.
// Narrow on purpose so tests can substitute a scripted implementation.
type lifecycleClient interface {
	Cleanup(ctx context.Context) error
	CreateTarget(ctx context.Context, spec gmp.TargetSpec) (string, error)
	CreateTask(ctx context.Context, name, profileID, targetID string) (string, error)
	StartTask(ctx context.Context, taskID string) error
	WaitForTask(ctx context.Context, taskID string) (string, error)
	GetReport(ctx context.Context, reportID, formatID string) ([]byte, error)
}

// Locker serializes runs against one daemon.
type Locker interface {
	TryLock() error
	Unlock() error
}

// ProgressSink receives lifecycle step notifications.
type ProgressSink interface {
	OnEvent(ProgressEvent)
}

// ProgressEvent is one lifecycle step notification.
type ProgressEvent struct {
	Step      string
	Status    string
	Message   string
	Timestamp time.Time
}

// Service runs the scan lifecycle.
type Service struct {
	client lifecycleClient
	store  storage.Store
	lock   Locker
	sink   ProgressSink
}

// NewService builds a Service around a daemon client, persisting reports to
// the local filesystem by default.
func NewService(client lifecycleClient) *Service {
	return &Service{
		client: client,
		store:  storage.NewLocalStore(),
	}
}

// WithStore overrides report persistence.
func (s *Service) WithStore(store storage.Store) *Service {
	s.store = store
	return s
}

// WithRunLock attaches a lock serializing runs against the daemon.
func (s *Service) WithRunLock(lock Locker) *Service {
	s.lock = lock
	return s
}

// WithProgressSink attaches a sink for lifecycle step notifications.
func (s *Service) WithProgressSink(sink ProgressSink) *Service {
	s.sink = sink
	return s
}

// Run executes the fixed lifecycle sequence. Any non-transient bridge
// failure aborts immediately; in that case the final cleanup does NOT run
// and the daemon may be left with a registered target and task. A missing
// report (gvm.ErrNoReport) is absorbed: the save step is skipped and the
// run still finishes with final cleanup.
func (s *Service) Run(ctx context.Context, params Params) (*Result, error) {
	logger := log.With().Str("component", "scanrun").Logger()

	if s.lock != nil {
		if err := s.lock.TryLock(); err != nil {
			return nil, err
		}
		defer func() {
			if err := s.lock.Unlock(); err != nil {
				logger.Warn().Err(err).Msg("failed to release run lock")
			}
		}()
	}

	runID := uuid.New().String()
	res := &Result{
		RunID:     runID,
		Status:    "failed",
		StartTime: time.Now().Format(time.RFC3339),
	}
	logger = logger.With().Str("run_id", runID).Logger()

	fail := func(step string, err error) (*Result, error) {
		res.EndTime = time.Now().Format(time.RFC3339)
		s.emit(step, "failed", err.Error())
		return res, fmt.Errorf("%s: %w", step, err)
	}

	s.emit("cleanup", "start", "")
	if err := s.client.Cleanup(ctx); err != nil {
		return fail("cleanup", err)
	}
	s.emit("cleanup", "completed", "performed initial cleanup")
	logger.Info().Msg("performed initial cleanup")

	// Daemon-side objects carry a run-scoped name so leftovers are
	// attributable when a crash skips the final cleanup.
	name := "scan-" + runID[:8]

	targetID, err := s.client.CreateTarget(ctx, gmp.TargetSpec{
		Name:         name,
		Hosts:        params.Target,
		ExcludeHosts: params.ExcludeHosts,
		PortListID:   params.PortListID,
		AliveTests:   params.AliveTests,
	})
	if err != nil {
		return fail("create-target", err)
	}
	res.TargetID = targetID
	s.emit("create-target", "completed", "created target "+targetID)

	taskID, err := s.client.CreateTask(ctx, name, params.ProfileID, targetID)
	if err != nil {
		return fail("create-task", err)
	}
	res.TaskID = taskID
	s.emit("create-task", "completed", "created task "+taskID)

	if err := s.client.StartTask(ctx, taskID); err != nil {
		return fail("start-task", err)
	}
	s.emit("start-task", "completed", "started task")

	s.emit("poll", "start", "waiting for task to finish")
	reportID, err := s.client.WaitForTask(ctx, taskID)
	if err != nil {
		return fail("poll", err)
	}
	res.ReportID = reportID
	s.emit("poll", "completed", "task finished")
	logger.Info().Str("report_id", reportID).Msg("task finished")

	payload, err := s.client.GetReport(ctx, reportID, params.FormatID)
	switch {
	case errors.Is(err, gvm.ErrNoReport):
		s.emit("get-report", "empty", "generated report is empty")
		logger.Warn().Msg("generated report is empty")
	case err != nil:
		return fail("get-report", err)
	default:
		if err := s.store.SaveReport(params.OutputPath, payload); err != nil {
			return fail("save-report", err)
		}
		res.ReportSaved = true
		res.ReportPath = params.OutputPath
		s.emit("save-report", "completed", "saved report to "+params.OutputPath)
		logger.Info().Str("path", params.OutputPath).Msg("saved report")
	}

	s.emit("cleanup", "start", "")
	if err := s.client.Cleanup(ctx); err != nil {
		return fail("cleanup", err)
	}
	s.emit("cleanup", "completed", "performed final cleanup")
	logger.Info().Msg("performed final cleanup")

	res.Status = "completed"
	res.EndTime = time.Now().Format(time.RFC3339)
	return res, nil
}

func (s *Service) emit(step, status, msg string) {
	if s.sink == nil {
		return
	}
	s.sink.OnEvent(ProgressEvent{
		Step:      step,
		Status:    status,
		Message:   msg,
		Timestamp: time.Now(),
	})
}
