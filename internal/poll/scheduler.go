package poll

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/numdeck/numdeck/internal/sheet"
	"github.com/numdeck/numdeck/internal/state"
)

// Mode is the cadence currently in effect.
type Mode string

const (
	ModeActive Mode = "active"
	ModeIdle   Mode = "idle"
)

// Cadence and timer defaults. The active interval keeps a watched pool
// near-live; the idle interval halves the load when nobody is looking.
const (
	DefaultActiveInterval = 1000 * time.Millisecond
	DefaultIdleInterval   = 2000 * time.Millisecond
	DefaultDebounce       = 100 * time.Millisecond
	DefaultIdleAfter      = 60 * time.Second
)

// Fetcher supplies full sheet snapshots. *sheet.Client implements it.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]sheet.Number, error)
}

// Notifier receives user-facing refresh failure notices.
type Notifier interface {
	Error(message string)
}

// Options configures a Scheduler. Zero durations fall back to defaults;
// Notifier, OnSync, and Logger may be nil.
type Options struct {
	Active    time.Duration
	Idle      time.Duration
	Debounce  time.Duration
	IdleAfter time.Duration
	Notifier  Notifier
	OnSync    func() // called after every refresh settles, success or not
	Logger    *zap.Logger
}

// Scheduler owns the refresh cadence: a ticker at the current mode's
// interval, a debounce timer that coalesces activity bursts into one
// immediate refresh, and a fallback timer that demotes to the idle
// cadence after a minute without input. All timer state lives in one
// goroutine; the exported methods only send signals, so they are safe
// from any goroutine and never block after teardown.
type Scheduler struct {
	store     *state.Store
	fetcher   Fetcher
	active    time.Duration
	idle      time.Duration
	debounce  time.Duration
	idleAfter time.Duration
	notify    Notifier
	onSync    func()
	log       *zap.Logger

	signals     chan signalKind
	completions chan time.Time
	done        chan struct{}
}

type signalKind int

const (
	sigActivity signalKind = iota
	sigShow
	sigHide
	sigForce
)

// New builds a Scheduler. Call Start to begin polling.
func New(store *state.Store, fetcher Fetcher, opts Options) *Scheduler {
	s := &Scheduler{
		store:       store,
		fetcher:     fetcher,
		active:      opts.Active,
		idle:        opts.Idle,
		debounce:    opts.Debounce,
		idleAfter:   opts.IdleAfter,
		notify:      opts.Notifier,
		onSync:      opts.OnSync,
		log:         opts.Logger,
		signals:     make(chan signalKind, 16),
		completions: make(chan time.Time, 8),
		done:        make(chan struct{}),
	}
	if s.active <= 0 {
		s.active = DefaultActiveInterval
	}
	if s.idle <= 0 {
		s.idle = DefaultIdleInterval
	}
	if s.debounce <= 0 {
		s.debounce = DefaultDebounce
	}
	if s.idleAfter <= 0 {
		s.idleAfter = DefaultIdleAfter
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Start launches the scheduler loop and an immediate first refresh. It
// returns right away; cancel ctx to stop. After cancellation every timer
// is released and results of in-flight fetches are discarded.
func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx)
}

// Activity records user input: promote to the active cadence, restart the
// debounced-refresh window, and re-arm idle demotion.
func (s *Scheduler) Activity() { s.send(sigActivity) }

// SetVisible switches cadence with visibility. Becoming visible also
// triggers an immediate refresh; becoming hidden cancels the activity
// timers along with demoting the cadence.
func (s *Scheduler) SetVisible(visible bool) {
	if visible {
		s.send(sigShow)
	} else {
		s.send(sigHide)
	}
}

// ForceRefresh requests an immediate refresh that bypasses the cadence
// guard. The manual refresh key and post-edit reconciliation use it.
func (s *Scheduler) ForceRefresh() { s.send(sigForce) }

// Done is closed once the loop has exited and released its timers.
func (s *Scheduler) Done() <-chan struct{} { return s.done }

func (s *Scheduler) send(sig signalKind) {
	select {
	case s.signals <- sig:
	case <-s.done:
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	mode := ModeActive
	ticker := time.NewTicker(s.active)
	defer ticker.Stop()

	debounce := newStoppedTimer()
	defer debounce.Stop()
	demote := newStoppedTimer()
	defer demote.Stop()

	// Zero means "never refreshed", so the first tick is never guarded.
	var lastDone time.Time

	s.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if time.Since(lastDone) >= s.interval(mode) {
				s.refresh(ctx)
			}

		case finished := <-s.completions:
			lastDone = finished

		case <-debounce.C:
			s.refresh(ctx)

		case <-demote.C:
			if mode != ModeIdle {
				mode = ModeIdle
				ticker.Reset(s.idle)
				s.log.Debug("cadence demoted", zap.String("mode", string(mode)))
			}

		case sig := <-s.signals:
			switch sig {
			case sigActivity:
				if mode != ModeActive {
					mode = ModeActive
					ticker.Reset(s.active)
					s.log.Debug("cadence promoted", zap.String("mode", string(mode)))
				}
				restartTimer(debounce, s.debounce)
				restartTimer(demote, s.idleAfter)

			case sigShow:
				if mode != ModeActive {
					mode = ModeActive
					ticker.Reset(s.active)
				}
				s.refresh(ctx)

			case sigHide:
				if mode != ModeIdle {
					mode = ModeIdle
					ticker.Reset(s.idle)
				}
				stopTimer(debounce)
				stopTimer(demote)

			case sigForce:
				s.refresh(ctx)
			}
		}
	}
}

func (s *Scheduler) interval(mode Mode) time.Duration {
	if mode == ModeIdle {
		return s.idle
	}
	return s.active
}

// refresh fetches off the loop goroutine so a stalled request never
// blocks the next tick. Each fetch is an idempotent full snapshot, so
// whichever result resolves last simply wins.
func (s *Scheduler) refresh(ctx context.Context) {
	go func() {
		rows, err := s.fetcher.FetchAll(ctx)
		if ctx.Err() != nil {
			// Torn down while in flight; the result is discarded.
			return
		}
		if err != nil {
			failures := s.store.Fail(err)
			s.log.Warn("refresh failed", zap.Error(err), zap.Int("consecutive", failures))
			if failures == 1 && s.notify != nil {
				s.notify.Error(fmt.Sprintf("Sheet refresh failed: %v", err))
			}
		} else {
			dups := s.store.Replace(rows)
			for _, key := range dups {
				s.log.Warn("duplicate composite key in sheet", zap.String("key", key.String()))
			}
			s.log.Debug("refresh completed", zap.Int("rows", len(rows)), zap.Int("duplicates", len(dups)))
		}
		select {
		case s.completions <- time.Now():
		case <-ctx.Done():
		}
		if s.onSync != nil {
			s.onSync()
		}
	}()
}

// newStoppedTimer returns a timer that will not fire until restarted.
func newStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	stopTimer(t)
	return t
}

// restartTimer and stopTimer assume the loop goroutine is the only
// receiver on t.C, which makes the stop-drain-reset dance race-free.
func restartTimer(t *time.Timer, d time.Duration) {
	stopTimer(t)
	t.Reset(d)
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
