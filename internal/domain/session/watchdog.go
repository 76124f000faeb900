package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/monitoring"
)

const (
	// DefaultTickInterval is how often idleness is checked
	DefaultTickInterval = 30 * time.Second
	// DefaultIdleTimeout is how long a session may stay idle
	DefaultIdleTimeout = 5 * time.Minute
)

// WatchdogState is the watchdog lifecycle position
type WatchdogState int32

const (
	WatchdogIdle WatchdogState = iota
	WatchdogArmed
	WatchdogFired
	WatchdogStopped
)

// String returns the string representation of the state
func (s WatchdogState) String() string {
	switch s {
	case WatchdogIdle:
		return "idle"
	case WatchdogArmed:
		return "armed"
	case WatchdogFired:
		return "fired"
	case WatchdogStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// WatchdogConfig configures a watchdog
type WatchdogConfig struct {
	Interval  time.Duration
	Threshold time.Duration
	Clock     Clock
	Logger    *zap.Logger
	Metrics   *monitoring.Metrics
}

// Watchdog fires once when the activity source has been quiet for the
// threshold. Checks run at a fixed rate, each on its own goroutine.
type Watchdog struct {
	interval     time.Duration
	threshold    time.Duration
	clock        Clock
	lastActivity func() time.Time
	onFire       func()
	logger       *zap.Logger
	metrics      *monitoring.Metrics

	state  atomic.Int32
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	ticks  sync.WaitGroup
}

// NewWatchdog creates an idle watchdog. lastActivity is polled on every tick;
// onFire runs at most once, after the loop and all checks have finished.
func NewWatchdog(cfg WatchdogConfig, lastActivity func() time.Time, onFire func()) *Watchdog {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultTickInterval
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultIdleTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watchdog{
		ctx:          ctx,
		cancel:       cancel,
		interval:     cfg.Interval,
		threshold:    cfg.Threshold,
		clock:        cfg.Clock,
		lastActivity: lastActivity,
		onFire:       onFire,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		done:         make(chan struct{}),
	}
}

// State returns the current watchdog state
func (w *Watchdog) State() WatchdogState {
	return WatchdogState(w.state.Load())
}

// Arm starts the tick loop. A watchdog can be armed once.
func (w *Watchdog) Arm() error {
	if !w.state.CompareAndSwap(int32(WatchdogIdle), int32(WatchdogArmed)) {
		return ErrWatchdogNotIdle
	}

	go w.loop(w.ctx)

	w.logger.Debug("Watchdog armed",
		zap.Duration("interval", w.interval),
		zap.Duration("threshold", w.threshold))
	return nil
}

// Stop cancels further checks and waits for in-flight ones. Safe to call
// repeatedly, before Arm, and from inside the fire callback.
func (w *Watchdog) Stop() {
	if w.state.CompareAndSwap(int32(WatchdogIdle), int32(WatchdogStopped)) {
		w.cancel()
		close(w.done)
		return
	}

	if w.state.CompareAndSwap(int32(WatchdogArmed), int32(WatchdogStopped)) {
		w.cancel()
		w.logger.Debug("Watchdog stopped")
	}

	<-w.done
}

// Done is closed once the loop and every in-flight check have exited
func (w *Watchdog) Done() <-chan struct{} {
	return w.done
}

func (w *Watchdog) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for running := true; running; {
		select {
		case <-ctx.Done():
			running = false
		case <-ticker.C:
			w.ticks.Add(1)
			go w.check(ctx)
		}
	}

	w.ticks.Wait()
	close(w.done)

	if w.State() == WatchdogFired && w.onFire != nil {
		w.onFire()
	}
}

func (w *Watchdog) check(ctx context.Context) {
	defer w.ticks.Done()
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Watchdog check panicked", zap.Any("panic", r))
			if w.metrics != nil {
				w.metrics.RecordWatchdogFailure()
			}
		}
	}()

	if ctx.Err() != nil || w.State() != WatchdogArmed {
		return
	}
	if w.metrics != nil {
		w.metrics.RecordWatchdogTick()
	}

	idle := w.clock.Now().Sub(w.lastActivity())
	if idle < w.threshold {
		return
	}

	if w.state.CompareAndSwap(int32(WatchdogArmed), int32(WatchdogFired)) {
		w.logger.Info("Idle threshold reached",
			zap.Duration("idle", idle),
			zap.Duration("threshold", w.threshold))
		w.cancel()
	}
}
