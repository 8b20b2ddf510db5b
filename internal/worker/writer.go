// Package worker runs the background jobs of a monitoring session.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"mediatrace/pkg/domain"
	"mediatrace/pkg/logger"
	"mediatrace/pkg/metrics"
	"mediatrace/pkg/serrors"
	"mediatrace/pkg/storage"
)

const DefaultQueueSize = 64

// ErrClosed is returned when a job is submitted after Close.
var ErrClosed = serrors.With(serrors.ErrUnavailable, "writer is closed")

type job struct {
	kind    domain.Kind
	domains []string
	// done receives the result of the job. Flush markers carry no domains.
	done chan error
}

// Writer persists domain list snapshots from a single goroutine. Jobs are
// applied in the order they were enqueued, so the last snapshot of a kind
// always wins.
type Writer struct {
	storage storage.Storage
	metrics *metrics.Metrics
	timeout time.Duration

	jobs chan job
	// stopped is closed once the run loop has drained the queue.
	stopped chan struct{}

	// mu guards closed and sends on jobs.
	mu     sync.RWMutex
	closed bool
}

type WriterOptions struct {
	// QueueSize bounds the number of pending jobs. Enqueue blocks when full.
	QueueSize int
	// WriteTimeout bounds a single save. Zero means no limit.
	WriteTimeout time.Duration
	Metrics      *metrics.Metrics
}

// NewWriter creates a writer and starts its goroutine. The logger carried by
// ctx is used for the lifetime of the writer; cancelling ctx does not stop it,
// Close does.
func NewWriter(ctx context.Context, strg storage.Storage, opts WriterOptions) *Writer {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Noop()
	}

	w := &Writer{
		storage: strg,
		metrics: opts.Metrics,
		timeout: opts.WriteTimeout,
		jobs:    make(chan job, opts.QueueSize),
		stopped: make(chan struct{}),
	}
	go w.run(context.WithoutCancel(ctx))

	return w
}

func (w *Writer) run(ctx context.Context) {
	defer close(w.stopped)

	for j := range w.jobs {
		if j.kind == "" {
			j.done <- nil

			continue
		}

		err := w.write(ctx, j.kind, j.domains)
		if j.done != nil {
			j.done <- err
		}
	}
}

func (w *Writer) write(ctx context.Context, kind domain.Kind, domains []string) (err error) {
	store := w.storage.Domains(kind)
	if store == nil {
		return nil
	}

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = serrors.With(serrors.ErrInternal, "panic while saving domains: %v", r)
		}
		w.metrics.Write(ctx, kind, time.Since(start), err)
		if err != nil {
			logger.Error(ctx, "could not save domains",
				zap.String("kind", string(kind)), zap.Int("count", len(domains)), zap.Error(err))
		}
	}()

	if err = store.Save(ctx, domains); err != nil {
		return fmt.Errorf("could not save %s domains: %w", kind, err)
	}
	logger.Debug(ctx, "domains saved", zap.String("kind", string(kind)), zap.Int("count", len(domains)))

	return nil
}

func (w *Writer) submit(ctx context.Context, j job) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return ErrClosed
	}

	select {
	case w.jobs <- j:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue schedules a save of a snapshot and returns without waiting for it.
// Failures are logged by the writer.
func (w *Writer) Enqueue(ctx context.Context, kind domain.Kind, domains []string) error {
	return w.submit(ctx, job{kind: kind, domains: storage.Normalize(domains)})
}

// Save schedules a save and waits for its result.
func (w *Writer) Save(ctx context.Context, kind domain.Kind, domains []string) error {
	done := make(chan error, 1)
	if err := w.submit(ctx, job{kind: kind, domains: storage.Normalize(domains), done: done}); err != nil {
		return err
	}

	return wait(ctx, done)
}

// Flush waits until every job enqueued before the call has been applied.
func (w *Writer) Flush(ctx context.Context) error {
	done := make(chan error, 1)
	if err := w.submit(ctx, job{done: done}); err != nil {
		return err
	}

	return wait(ctx, done)
}

// Close stops accepting jobs and waits for the queue to drain or ctx to end.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.jobs)
	}
	w.mu.Unlock()

	select {
	case <-w.stopped:
		return nil
	case <-ctx.Done():
		return serrors.Wrap(serrors.ErrTimeout, ctx.Err(), "pending domain writes were not flushed")
	}
}

func wait(ctx context.Context, done <-chan error) error {
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return serrors.Wrap(serrors.ErrTimeout, ctx.Err(), "domain write did not complete")
	}
}
