// Package recorder persists classification records off the request path.
// Records go through a bounded queue to a single worker that writes them to
// a sink with retries behind a circuit breaker.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/health-signal-classifier/internal/domain"
)

// Write outcomes reported to the Observer.
const (
	OutcomeOK       = "ok"
	OutcomeRetry    = "retry"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Observer receives recorder metrics. *metrics.Metrics implements it.
type Observer interface {
	RecorderQueueDepth(n int)
	RecorderWrite(outcome string)
	RecorderDropped()
	BreakerState(state int)
}

// Config tunes the recorder.
type Config struct {
	QueueSize      int
	MaxAttempts    int
	RetryBackoff   time.Duration
	WriteTimeout   time.Duration
	BreakerTimeout time.Duration
}

// ConfigFrom converts the service configuration.
func ConfigFrom(c domain.RecorderConfig) Config {
	return Config{
		QueueSize:    c.QueueSize,
		MaxAttempts:  c.MaxAttempts,
		RetryBackoff: c.RetryBackoff,
		WriteTimeout: c.WriteTimeout,
	}
}

// Stats counts what happened to submitted records.
type Stats struct {
	Accepted int64 `json:"accepted"`
	Written  int64 `json:"written"`
	Failed   int64 `json:"failed"`
	Dropped  int64 `json:"dropped"`
}

// Recorder is an asynchronous service.ResultRecorder.
type Recorder struct {
	logger   *logrus.Logger
	sink     domain.ClassificationSink
	observer Observer
	config   Config
	breaker  *gobreaker.CircuitBreaker

	mu     sync.RWMutex
	closed bool
	queue  chan *domain.ClassificationRecord

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	accepted atomic.Int64
	written  atomic.Int64
	failed   atomic.Int64
	dropped  atomic.Int64
}

// New starts a recorder writing to sink. observer may be nil.
func New(logger *logrus.Logger, sink domain.ClassificationSink, config Config, observer Observer) *Recorder {
	if config.QueueSize <= 0 {
		config.QueueSize = 1024
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = 200 * time.Millisecond
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}
	if config.BreakerTimeout <= 0 {
		config.BreakerTimeout = 60 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Recorder{
		logger:   logger,
		sink:     sink,
		observer: observer,
		config:   config,
		queue:    make(chan *domain.ClassificationRecord, config.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "classification-sink",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			r.logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
			if r.observer != nil {
				r.observer.BreakerState(int(to))
			}
		},
	})

	go r.run()
	return r
}

// Record queues record without blocking. It returns false when the queue
// is full or the recorder is closed.
func (r *Recorder) Record(record *domain.ClassificationRecord) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.drop()
		return false
	}
	select {
	case r.queue <- record:
		r.accepted.Add(1)
		r.depth()
		return true
	default:
		r.drop()
		return false
	}
}

// Close stops intake and waits until queued records are written or ctx
// ends. Records still queued when ctx ends are abandoned.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		r.cancel()
		<-r.done
		return fmt.Errorf("recorder drain interrupted: %w", ctx.Err())
	}
}

// Stats returns the counters.
func (r *Recorder) Stats() Stats {
	return Stats{
		Accepted: r.accepted.Load(),
		Written:  r.written.Load(),
		Failed:   r.failed.Load(),
		Dropped:  r.dropped.Load(),
	}
}

// BreakerState reports the circuit state name.
func (r *Recorder) BreakerState() string {
	return r.breaker.State().String()
}

func (r *Recorder) run() {
	defer close(r.done)
	for record := range r.queue {
		r.depth()
		if r.ctx.Err() != nil {
			r.failed.Add(1)
			continue
		}
		r.write(record)
	}
}

// write persists one record, retrying with exponential backoff.
func (r *Recorder) write(record *domain.ClassificationRecord) {
	backoff := r.config.RetryBackoff
	var err error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		_, err = r.breaker.Execute(func() (interface{}, error) {
			ctx, cancel := context.WithTimeout(r.ctx, r.config.WriteTimeout)
			defer cancel()
			return nil, r.sink.SaveClassification(ctx, record)
		})
		if err == nil {
			r.written.Add(1)
			r.observe(OutcomeOK)
			return
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			r.observe(OutcomeRejected)
		} else if attempt < r.config.MaxAttempts {
			r.observe(OutcomeRetry)
		}

		if attempt == r.config.MaxAttempts {
			break
		}
		if !r.sleep(backoff) {
			break
		}
		backoff *= 2
	}

	r.failed.Add(1)
	r.observe(OutcomeFailed)
	r.logger.WithError(err).WithFields(logrus.Fields{
		"classification_id": record.ID,
		"attempts":          r.config.MaxAttempts,
	}).Error("Failed to persist classification")
}

// sleep waits for d unless the recorder is cancelled.
func (r *Recorder) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-r.ctx.Done():
		return false
	}
}

func (r *Recorder) drop() {
	r.dropped.Add(1)
	if r.observer != nil {
		r.observer.RecorderDropped()
	}
}

func (r *Recorder) depth() {
	if r.observer != nil {
		r.observer.RecorderQueueDepth(len(r.queue))
	}
}

func (r *Recorder) observe(outcome string) {
	if r.observer != nil {
		r.observer.RecorderWrite(outcome)
	}
}
