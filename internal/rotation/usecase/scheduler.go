package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/quipay/keysmith/internal/errors"
	"github.com/quipay/keysmith/internal/metrics"
	rotationDomain "github.com/quipay/keysmith/internal/rotation/domain"
)

const metricsDomain = "rotation"

// scheduler implements Scheduler with a single background goroutine. The timer is
// re-armed only after a pass returns, so passes never overlap.
type scheduler struct {
	engine    Engine
	generator KeyGenerator
	notifier  Notifier
	metrics   metrics.BusinessMetrics
	logger    *slog.Logger

	mu      sync.Mutex
	config  rotationDomain.JobConfig
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	passMu sync.Mutex
}

// NewScheduler creates a stopped Scheduler.
func NewScheduler(
	config rotationDomain.JobConfig,
	engine Engine,
	generator KeyGenerator,
	notifier Notifier,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) (Scheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}

	return &scheduler{
		engine:    engine,
		generator: generator,
		notifier:  notifier,
		metrics:   businessMetrics,
		logger:    logger,
		config:    config,
	}, nil
}

// Start launches the loop and runs the first pass right away. Calling Start on a
// running scheduler does nothing.
func (s *scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Info("rotation scheduler already running")
		return nil
	}

	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.running = true

	s.logger.Info("starting rotation scheduler",
		slog.Duration("check_interval", s.config.CheckInterval),
		slog.Int("max_keys_per_batch", s.config.MaxKeysPerBatch),
	)

	go s.loop(ctx, s.config.CheckInterval, s.stopCh, s.doneCh)
	return nil
}

// Stop prevents further passes and waits for the loop to exit. A pass already in
// progress runs to completion.
func (s *scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	done := s.doneCh
	s.running = false
	s.mu.Unlock()

	<-done
	s.logger.Info("rotation scheduler stopped")
}

func (s *scheduler) loop(ctx context.Context, interval time.Duration, stop, done chan struct{}) {
	defer close(done)
	defer s.markStopped(done)

	s.runScheduledPass(ctx)

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("rotation scheduler context done", slog.Any("error", ctx.Err()))
			return
		case <-stop:
			return
		case <-timer.C:
			// A stop that raced with the timer wins.
			select {
			case <-stop:
				return
			default:
			}
			s.runScheduledPass(ctx)
			timer.Reset(interval)
		}
	}
}

// markStopped clears the running flag when the loop exits on its own.
func (s *scheduler) markStopped(done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doneCh == done {
		s.running = false
	}
}

func (s *scheduler) runScheduledPass(ctx context.Context) {
	if err := s.RunPass(ctx); err != nil {
		s.logger.Error("rotation pass failed", slog.Any("error", err))
	}
}

// RunPass rotates up to MaxKeysPerBatch due keys in listing order. Individual key
// failures are logged and joined into the returned error; a panic aborts the pass.
func (s *scheduler) RunPass(ctx context.Context) (err error) {
	s.passMu.Lock()
	defer s.passMu.Unlock()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(rotationDomain.ErrPassAborted, "panic: %v", r)
		}
		status := metrics.StatusFor(err)
		s.metrics.RecordOperation(ctx, metricsDomain, "rotation_pass", status)
		s.metrics.RecordDuration(ctx, metricsDomain, "rotation_pass", time.Since(start), status)
	}()

	s.logger.Info("checking for keys needing rotation")

	due := s.engine.GetAllKeysNeedingRotation(ctx)
	if len(due) == 0 {
		s.logger.Info("no keys require rotation")
		return nil
	}

	batchSize := s.jobConfig().MaxKeysPerBatch
	batch := due[:min(len(due), batchSize)]

	s.logger.Info("rotating due keys",
		slog.Int("due", len(due)),
		slog.Int("batch", len(batch)),
	)

	var errs []error
	for _, keyName := range batch {
		if ctxErr := ctx.Err(); ctxErr != nil {
			errs = append(errs, errors.Wrap(rotationDomain.ErrPassAborted, ctxErr.Error()))
			break
		}
		if _, rotateErr := s.rotate(ctx, keyName, rotationDomain.TriggerScheduled); rotateErr != nil {
			errs = append(errs, rotateErr)
		}
	}

	return errors.Join(errs...)
}

// TriggerRotation rotates keyName immediately, whether or not it is due.
func (s *scheduler) TriggerRotation(ctx context.Context, keyName string) (*rotationDomain.RotationMetadata, error) {
	return s.rotate(ctx, keyName, rotationDomain.TriggerManual)
}

func (s *scheduler) rotate(
	ctx context.Context,
	keyName, trigger string,
) (metadata *rotationDomain.RotationMetadata, err error) {
	start := time.Now()
	defer func() {
		status := metrics.StatusFor(err)
		s.metrics.RecordOperation(ctx, metricsDomain, "key_rotate", status)
		s.metrics.RecordDuration(ctx, metricsDomain, "key_rotate", time.Since(start), status)
	}()

	s.logger.Info("triggering key rotation",
		slog.String("key_name", keyName),
		slog.String("trigger", trigger),
	)

	material, err := s.generator.Generate()
	if err != nil {
		s.logger.Error("failed to generate key material",
			slog.String("key_name", keyName),
			slog.Any("error", err),
		)
		return nil, errors.Wrapf(err, "generate material for %s", keyName)
	}

	metadata, err = s.engine.RotateKey(ctx, keyName, material)
	if err != nil {
		s.logger.Error("failed to rotate key",
			slog.String("key_name", keyName),
			slog.Any("error", err),
		)
		return nil, errors.Wrapf(err, "rotate %s", keyName)
	}

	if s.notifier != nil {
		event := rotationDomain.NewRotationEvent(metadata, trigger)
		if notifyErr := s.notify(ctx, event); notifyErr != nil {
			s.logger.Warn("rotation notification failed",
				slog.String("key_name", keyName),
				slog.String("event_id", event.ID.String()),
				slog.Any("error", notifyErr),
			)
		}
	}

	return metadata, nil
}

// notify runs the notifier, converting a panic into an error.
func (s *scheduler) notify(ctx context.Context, event rotationDomain.RotationEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panic: %v", r)
		}
	}()
	return s.notifier.NotifyRotation(ctx, event)
}

// SetCheckInterval changes the pass interval. A running scheduler is restarted under
// ctx and runs one extra pass immediately.
func (s *scheduler) SetCheckInterval(ctx context.Context, interval time.Duration) error {
	s.mu.Lock()
	next := s.config
	next.CheckInterval = interval
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.config = next
	wasRunning := s.running
	s.mu.Unlock()

	if !wasRunning {
		return nil
	}

	s.Stop()
	return s.Start(ctx)
}

// Status reports the scheduler state. It lists the whole namespace to compute the
// keys that are currently due.
func (s *scheduler) Status(ctx context.Context) *rotationDomain.SchedulerStatus {
	s.mu.Lock()
	status := &rotationDomain.SchedulerStatus{
		IsRunning: s.running,
		Config:    s.config,
	}
	s.mu.Unlock()

	status.KeysNeedingRotation = s.engine.GetAllKeysNeedingRotation(ctx)
	return status
}

func (s *scheduler) jobConfig() rotationDomain.JobConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}
