package loadgen

import (
	"context"
	"eyebench/internal/app/config"
	"eyebench/internal/app/flows"
	"eyebench/internal/pkg/constvars"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Runner drives the configured number of simulated users, each walking
// patients through the clinic until its iteration budget runs out or the
// runner is stopped.
type Runner struct {
	cfg        config.Load
	newSession func() *flows.Session
	logger     *zap.Logger

	runCtx context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRunner(cfg config.Load, newSession func() *flows.Session, logger *zap.Logger) *Runner {
	// the run context lives on the runner so Stop works even when it
	// races with (or precedes) Run
	runCtx, cancel := context.WithCancel(context.Background())
	return &Runner{
		cfg:        cfg,
		newSession: newSession,
		logger:     logger,
		runCtx:     runCtx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// Run blocks until every user finishes, the runner is stopped, or the
// caller's context is cancelled.
func (r *Runner) Run(ctx context.Context) {
	defer close(r.done)
	defer r.cancel()
	go func() {
		select {
		case <-ctx.Done():
			r.cancel()
		case <-r.runCtx.Done():
		}
	}()
	ctx = r.runCtx

	users := r.cfg.Users
	if users < 1 {
		users = 1
	}
	r.logger.Info("starting load run",
		zap.Int("users", users),
		zap.Int("iterations", r.cfg.Iterations),
	)

	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(userIndex int) {
			defer wg.Done()
			r.runUser(ctx, userIndex)
		}(i)
	}
	wg.Wait()
}

// Stop cancels the run and waits for the users to wind down.
func (r *Runner) Stop() {
	r.cancel()
	<-r.done
}

func (r *Runner) runUser(ctx context.Context, userIndex int) {
	session := r.newSession()
	session.Start(ctx)
	logger := r.logger.With(zap.Int(constvars.LoggingUserKey, userIndex))

	for iteration := 0; r.cfg.Iterations <= 0 || iteration < r.cfg.Iterations; iteration++ {
		if ctx.Err() != nil {
			return
		}
		if err := session.PatientMovement(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("iteration aborted", zap.Int("iteration", iteration), zap.Error(err))
		}
		if !r.waitBetweenIterations(ctx) {
			return
		}
	}
}

// waitBetweenIterations sleeps a uniformly random think time, returning
// false when the context is cancelled first.
func (r *Runner) waitBetweenIterations(ctx context.Context) bool {
	minWait := r.cfg.WaitMinSeconds
	maxWait := r.cfg.WaitMaxSeconds
	if maxWait < minWait {
		maxWait = minWait
	}
	seconds := minWait + rand.Float64()*(maxWait-minWait)
	if seconds <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(time.Duration(seconds * float64(time.Second)))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
