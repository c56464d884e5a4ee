// Package tasks follows the progress of evaluation tasks.
//
// Every poll takes a ticket. A reply is applied only when its ticket is newer
// than the last applied one and it belongs to the task being watched, so a
// slow reply can never overwrite newer progress.
package tasks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/qacurator/internal/client/client"
	"github.com/dmitrijs2005/qacurator/internal/client/models"
	"github.com/dmitrijs2005/qacurator/internal/logging"
	"golang.org/x/time/rate"
)

var (
	ErrNotWatching = errors.New("no task is being watched")
	// ErrSuperseded ends Run when another task is watched meanwhile.
	ErrSuperseded = errors.New("task watch superseded")
)

// ProgressSource reports the progress of one task.
// services.EvaluationService satisfies it.
type ProgressSource interface {
	Progress(ctx context.Context, taskID int64) (*models.TaskProgress, error)
}

type Option func(*Monitor)

// WithOnUpdate registers a callback run for every applied progress report.
func WithOnUpdate(fn func(models.TaskProgress)) Option {
	return func(m *Monitor) { m.onUpdate = fn }
}

// Monitor polls one task at a time.
type Monitor struct {
	src      ProgressSource
	limiter  *rate.Limiter
	log      logging.Logger
	onUpdate func(models.TaskProgress)

	mu      sync.Mutex
	taskID  int64
	issued  uint64
	applied uint64
	current *models.TaskProgress
}

// NewMonitor returns a monitor that polls at most once per interval.
func NewMonitor(src ProgressSource, interval time.Duration, log logging.Logger, opts ...Option) *Monitor {
	if log == nil {
		log = logging.Discard()
	}
	m := &Monitor{
		src:     src,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		log:     log.With("component", "tasks"),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Watch switches the monitor to taskID. Replies to polls issued before the
// switch are discarded.
func (m *Monitor) Watch(taskID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskID = taskID
	m.applied = m.issued
	m.current = nil
}

// TaskID is the task being watched, 0 if none.
func (m *Monitor) TaskID() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.taskID
}

// Current returns the latest applied progress of the watched task.
func (m *Monitor) Current() (models.TaskProgress, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return models.TaskProgress{}, false
	}
	return *m.current, true
}

// Poll asks for the progress of the watched task once. applied is false when
// the reply was stale and dropped; the returned progress is then the one
// currently held.
func (m *Monitor) Poll(ctx context.Context) (p models.TaskProgress, applied bool, err error) {
	m.mu.Lock()
	taskID := m.taskID
	if taskID == 0 {
		m.mu.Unlock()
		return models.TaskProgress{}, false, ErrNotWatching
	}
	m.issued++
	ticket := m.issued
	m.mu.Unlock()

	got, err := m.src.Progress(ctx, taskID)
	if err != nil {
		return models.TaskProgress{}, false, err
	}

	m.mu.Lock()
	if ticket <= m.applied || taskID != m.taskID {
		cur := m.current
		m.mu.Unlock()
		m.log.Debug(ctx, "stale progress dropped", "task_id", taskID, "ticket", ticket)
		if cur == nil {
			return models.TaskProgress{}, false, nil
		}
		return *cur, false, nil
	}
	m.applied = ticket
	v := *got
	m.current = &v
	m.mu.Unlock()

	if m.onUpdate != nil {
		m.onUpdate(v)
	}
	return v, true, nil
}

// Run watches taskID and polls it until it reaches a terminal status, ctx is
// done, or another task is watched. A server that is briefly unreachable is
// retried; any other error ends the run.
func (m *Monitor) Run(ctx context.Context, taskID int64) (models.TaskProgress, error) {
	m.Watch(taskID)
	m.log.Info(ctx, "watching task", "task_id", taskID)
	for {
		if err := m.limiter.Wait(ctx); err != nil {
			return models.TaskProgress{}, err
		}
		if m.TaskID() != taskID {
			return models.TaskProgress{}, ErrSuperseded
		}

		p, applied, err := m.Poll(ctx)
		switch {
		case errors.Is(err, client.ErrUnavailable) && ctx.Err() == nil:
			m.log.Warn(ctx, "progress poll failed, retrying", "task_id", taskID, "error", err)
			continue
		case err != nil:
			return models.TaskProgress{}, err
		case !applied:
			continue
		}
		if p.Status.Terminal() {
			m.log.Info(ctx, "task finished", "task_id", taskID, "status", p.Status)
			return p, nil
		}
	}
}
