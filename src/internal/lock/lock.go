package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/api-sage/account-balance-service/src/internal/logger"
	"github.com/api-sage/account-balance-service/src/internal/metrics"
)

const (
	defaultWaitTimeout    = 5 * time.Second
	defaultLeaseTime      = 15 * time.Second
	defaultRetryInterval  = 50 * time.Millisecond
	defaultReleaseTimeout = 2 * time.Second
)

// ErrLockAcquisitionFailed is returned when the wait timeout elapses, or the
// caller's context ends, before the lock is obtained.
var ErrLockAcquisitionFailed = errors.New("lock: acquisition failed")

var tracer = otel.Tracer("github.com/api-sage/account-balance-service/src/internal/lock")

// Store is a single-attempt lock backend shared by every Manager that must
// exclude each other.
type Store interface {
	// TryLock sets key to token for lease if key is free. It reports whether
	// the lock was taken.
	TryLock(ctx context.Context, key, token string, lease time.Duration) (bool, error)
	// Unlock removes key only while it still holds token. Unlocking an expired
	// or foreign key is not an error.
	Unlock(ctx context.Context, key, token string) error
}

// Handle identifies one held lock.
type Handle struct {
	Key        string
	Token      string
	AcquiredAt time.Time
	ExpiresAt  time.Time
}

type Options struct {
	KeyPrefix     string
	WaitTimeout   time.Duration
	LeaseTime     time.Duration
	RetryInterval time.Duration
}

type Manager struct {
	store Store
	opts  Options
}

func NewManager(store Store, opts Options) *Manager {
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = defaultWaitTimeout
	}
	if opts.LeaseTime <= 0 {
		opts.LeaseTime = defaultLeaseTime
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = defaultRetryInterval
	}
	return &Manager{store: store, opts: opts}
}

// Acquire blocks until the lock for resourceKey is obtained or wait elapses.
// Only the caller blocks; other keys are unaffected.
func (m *Manager) Acquire(ctx context.Context, resourceKey string, wait, lease time.Duration) (*Handle, error) {
	key := m.opts.KeyPrefix + resourceKey
	ctx, span := tracer.Start(ctx, "lock.Acquire", trace.WithAttributes(attribute.String("lock.key", key)))
	defer span.End()

	token := uuid.NewString()
	start := time.Now()

	deadline := time.NewTimer(wait)
	defer deadline.Stop()
	ticker := time.NewTicker(m.opts.RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := m.store.TryLock(ctx, key, token, lease)
		if err != nil {
			metrics.LockAcquireCounter.WithLabelValues(metrics.LockResultError).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "lock store failure")
			return nil, fmt.Errorf("try lock %q: %w", key, err)
		}
		if ok {
			now := time.Now()
			metrics.LockAcquireCounter.WithLabelValues(metrics.LockResultAcquired).Inc()
			metrics.LockWaitHistogram.Observe(now.Sub(start).Seconds())
			return &Handle{Key: key, Token: token, AcquiredAt: now, ExpiresAt: now.Add(lease)}, nil
		}

		select {
		case <-ticker.C:
		case <-deadline.C:
			metrics.LockAcquireCounter.WithLabelValues(metrics.LockResultTimeout).Inc()
			span.SetStatus(codes.Error, "lock wait timeout")
			return nil, fmt.Errorf("%w: %s not obtained within %s", ErrLockAcquisitionFailed, key, wait)
		case <-ctx.Done():
			metrics.LockAcquireCounter.WithLabelValues(metrics.LockResultTimeout).Inc()
			span.SetStatus(codes.Error, "lock wait cancelled")
			return nil, fmt.Errorf("%w: %w", ErrLockAcquisitionFailed, ctx.Err())
		}
	}
}

// Release frees h. Releasing a nil, expired or already released handle is a
// no-op.
func (m *Manager) Release(ctx context.Context, h *Handle) error {
	if h == nil {
		return nil
	}
	if err := m.store.Unlock(ctx, h.Key, h.Token); err != nil {
		return fmt.Errorf("unlock %q: %w", h.Key, err)
	}
	return nil
}

// WithLock runs fn while holding the lock for resourceKey, using the
// configured wait timeout and lease. The lock is released on every exit path
// of fn, panics included.
func (m *Manager) WithLock(ctx context.Context, resourceKey string, fn func(ctx context.Context) error) error {
	h, err := m.Acquire(ctx, resourceKey, m.opts.WaitTimeout, m.opts.LeaseTime)
	if err != nil {
		logger.Error("lock manager acquire failed", err, logger.Fields{
			"resourceKey": resourceKey,
		})
		return err
	}

	defer func() {
		// the caller's cancellation must not leave the lock held until lease expiry
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultReleaseTimeout)
		defer cancel()
		if err := m.Release(releaseCtx, h); err != nil {
			logger.Error("lock manager release failed", err, logger.Fields{
				"resourceKey": resourceKey,
				"lockKey":     h.Key,
			})
		}
	}()

	return fn(ctx)
}
