package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rubixchain/rubix-dapp/internal/metrics"
	"github.com/rubixchain/rubix-dapp/pkg/client"
	"github.com/rubixchain/rubix-dapp/pkg/operation"
)

type Config struct {
	Interval time.Duration `flag:"interval" desc:"time between status queries" default:"6s"`
}

func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("tracker interval must be positive, got %s", c.Interval)
	}
	return nil
}

// Source is the status endpoint the tracker polls.
type Source interface {
	RequestStatus(context.Context, string) (*client.StatusResponse, error)
}

type SourceFunc func(context.Context, string) (*client.StatusResponse, error)

func (f SourceFunc) RequestStatus(ctx context.Context, key string) (*client.StatusResponse, error) {
	return f(ctx, key)
}

// Tracker observes in flight operations until the status endpoint reports
// a terminal status. Only Pending leads to another query; transport
// errors are surfaced immediately.
type Tracker struct {
	source   Source
	interval time.Duration
	metrics  *metrics.Metrics

	mu       sync.Mutex
	inflight map[string]struct{}
}

func New(source Source, config *Config, metrics *metrics.Metrics) *Tracker {
	return &Tracker{
		source:   source,
		interval: config.Interval,
		metrics:  metrics,
		inflight: map[string]struct{}{},
	}
}

// Handle is a cancellable in flight tracking.
type Handle struct {
	key    string
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func (h *Handle) Key() string {
	return h.key
}

// Done is closed once the tracking reached a terminal state.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the outcome, nil on success. Only valid after Done.
func (h *Handle) Err() error {
	<-h.done
	return h.err
}

func (h *Handle) Cancel() {
	h.cancel()
}

// Wait blocks until the tracking completes or ctx is done. Abandoning the
// wait cancels the tracking.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		h.cancel()
		<-h.done
		return h.err
	}
}

// Track blocks until key resolves.
func (t *Tracker) Track(ctx context.Context, key string) error {
	h, err := t.Watch(ctx, key)
	if err != nil {
		return err
	}
	return h.Wait(ctx)
}

// Watch starts tracking key in the background. A key can only be tracked
// once at a time; a concurrent Watch for the same key is a Conflict.
func (t *Tracker) Watch(ctx context.Context, key string) (*Handle, error) {
	if !t.acquire(key) {
		return nil, conflict(key)
	}
	return t.watch(ctx, key), nil
}

// Reservation holds a key from before execution until tracking starts.
type Reservation struct {
	tracker *Tracker
	key     string
	once    sync.Once
}

// Reserve claims key. It fails with a Conflict when key is reserved or
// tracked.
func (t *Tracker) Reserve(key string) (*Reservation, error) {
	if !t.acquire(key) {
		return nil, conflict(key)
	}
	return &Reservation{tracker: t, key: key}, nil
}

func (r *Reservation) Key() string {
	return r.key
}

// Release frees the key. It is a no-op once Track or Release was called.
func (r *Reservation) Release() {
	r.once.Do(func() {
		r.tracker.release(r.key)
	})
}

// Track hands the key over to the tracking loop and blocks until it
// resolves. The key is released when tracking ends.
func (r *Reservation) Track(ctx context.Context) error {
	var h *Handle
	r.once.Do(func() {
		h = r.tracker.watch(ctx, r.key)
	})
	if h == nil {
		return operation.Errorf(operation.CodeConflict, "reservation for %s already used", r.key)
	}
	return h.Wait(ctx)
}

// watch runs the loop for an acquired key and releases it on exit.
func (t *Tracker) watch(ctx context.Context, key string) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		key:    key,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	if t.metrics != nil {
		t.metrics.TrackerInFlight.Inc()
	}

	go func() {
		defer close(h.done)
		defer t.release(key)
		defer cancel()

		h.err = t.loop(ctx, key)

		if t.metrics != nil {
			t.metrics.TrackerInFlight.Dec()
		}
	}()

	return h
}

func (t *Tracker) loop(ctx context.Context, key string) error {
	description := operation.Describe(key)

	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return operation.ErrCancelled
		}

		slog.Debug("tracker:query", "key", key, "attempt", attempt)

		res, err := t.source.RequestStatus(ctx, key)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, operation.ErrCancelled) {
				t.observe("cancelled")
				return operation.ErrCancelled
			}

			t.observe("error")
			slog.Error("tracker:error", "key", key, "attempt", attempt, "error", err)

			if operation.CodeOf(err) == 0 {
				return operation.NewError(operation.CodeTransport, "failed to query status", err)
			}
			return err
		}

		if !res.Status.Set {
			t.observe("unknown")
			slog.Error("tracker:unknown", "key", key, "status", res.Status.String())
			return operation.Errorf(operation.CodeUnknownStatus, "unknown status received: %s", res.Status.String())
		}

		switch res.Status.Status {
		case operation.Pending:
			t.observe("pending")
			slog.Info(fmt.Sprintf("%s pending, checking again", description), "key", key, "in", t.interval)

			timer := time.NewTimer(t.interval)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				t.observe("cancelled")
				return operation.ErrCancelled
			}

		case operation.Success:
			t.observe("success")
			slog.Info(fmt.Sprintf("%s completed successfully", description), "key", key, "attempts", attempt)
			return nil

		case operation.Failed:
			t.observe("failed")
			slog.Error(fmt.Sprintf("%s failed", description), "key", key, "message", res.Message)
			return operation.Errorf(operation.CodeOperationFailed, "%s failed", description)

		default:
			t.observe("unknown")
			slog.Error("tracker:unknown", "key", key, "status", res.Status.String())
			return operation.Errorf(operation.CodeUnknownStatus, "unknown status received: %s", res.Status.String())
		}
	}
}

func (t *Tracker) acquire(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.inflight[key]; ok {
		return false
	}
	t.inflight[key] = struct{}{}
	return true
}

func (t *Tracker) release(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.inflight, key)
}

func conflict(key string) error {
	return operation.Errorf(operation.CodeConflict, "operation %s already in flight", key)
}

func (t *Tracker) observe(result string) {
	if t.metrics != nil {
		t.metrics.TrackerPollsTotal.WithLabelValues(result).Inc()
	}
}
