// Package supervisor keeps long-running workers alive across failures.
package supervisor

import (
	"context"
	"sync"
	"time"

	"github.com/andyrewlee/cellframe/internal/logging"
	"github.com/andyrewlee/cellframe/internal/safego"
)

// RestartPolicy controls when a worker is started again after it returns.
type RestartPolicy int

const (
	RestartNever RestartPolicy = iota
	RestartOnError
	RestartAlways
)

type options struct {
	policy      RestartPolicy
	maxRestarts int
	backoff     time.Duration
	maxBackoff  time.Duration
}

// Option configures one worker.
type Option func(*options)

// WithRestartPolicy sets the restart policy. The default is RestartOnError.
func WithRestartPolicy(policy RestartPolicy) Option {
	return func(o *options) { o.policy = policy }
}

// WithMaxRestarts limits the number of restarts (0 = unlimited).
func WithMaxRestarts(n int) Option {
	return func(o *options) { o.maxRestarts = n }
}

// WithBackoff sets the first delay between restarts and its cap. The delay
// doubles after every restart.
func WithBackoff(initial, limit time.Duration) Option {
	return func(o *options) {
		o.backoff = initial
		o.maxBackoff = limit
	}
}

// Supervisor runs workers until its context ends.
type Supervisor struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	onError func(name string, err error)
}

// New creates a supervisor bound to parent.
func New(parent context.Context) *Supervisor {
	ctx, cancel := context.WithCancel(parent)
	return &Supervisor{ctx: ctx, cancel: cancel}
}

// SetErrorHandler registers fn for worker failures, panics included.
func (s *Supervisor) SetErrorHandler(fn func(name string, err error)) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.onError = fn
	s.mu.Unlock()
}

func (s *Supervisor) reportError(name string, err error) {
	s.mu.Lock()
	fn := s.onError
	s.mu.Unlock()
	if fn != nil {
		fn(name, err)
	}
}

// Stop cancels every worker and waits for them to return.
func (s *Supervisor) Stop() {
	if s == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
}

// Start runs fn under supervision. A panic in fn counts as an error.
func (s *Supervisor) Start(name string, fn func(context.Context) error, opts ...Option) {
	if s == nil || fn == nil {
		return
	}
	cfg := options{
		policy:     RestartOnError,
		backoff:    200 * time.Millisecond,
		maxBackoff: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.maxBackoff = max(cfg.maxBackoff, cfg.backoff)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(name, fn, cfg)
	}()
}

func (s *Supervisor) loop(name string, fn func(context.Context) error, cfg options) {
	delay := cfg.backoff
	for restarts := 0; ; restarts++ {
		var err error
		if perr := safego.Run(name, func() { err = fn(s.ctx) }); perr != nil {
			err = perr
		}
		if s.ctx.Err() != nil {
			return
		}
		if err != nil {
			s.reportError(name, err)
		}
		if !shouldRestart(err, cfg.policy) {
			return
		}
		if cfg.maxRestarts > 0 && restarts >= cfg.maxRestarts {
			logging.Error("supervisor: %s exceeded max restarts (%d)", name, cfg.maxRestarts)
			return
		}
		logging.Debug("supervisor: restarting %s in %s", name, delay)
		if !s.sleep(delay) {
			return
		}
		delay = min(delay*2, cfg.maxBackoff)
	}
}

// sleep waits for d unless the supervisor stops first.
func (s *Supervisor) sleep(d time.Duration) bool {
	if d <= 0 {
		return s.ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-s.ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func shouldRestart(err error, policy RestartPolicy) bool {
	switch policy {
	case RestartAlways:
		return true
	case RestartOnError:
		return err != nil
	default:
		return false
	}
}
