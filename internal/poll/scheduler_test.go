package poll

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/numdeck/numdeck/internal/sheet"
	"github.com/numdeck/numdeck/internal/state"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	rows  []sheet.Number
	err   error
	block chan struct{}
}

func (f *fakeFetcher) FetchAll(ctx context.Context) ([]sheet.Number, error) {
	f.mu.Lock()
	f.calls++
	rows, err, block := f.rows, f.err, f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (f *fakeFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFetcher) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *fakeNotifier) Error(message string) {
	n.mu.Lock()
	n.messages = append(n.messages, message)
	n.mu.Unlock()
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func startScheduler(t *testing.T, store *state.Store, fetcher Fetcher, opts Options) *Scheduler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	s := New(store, fetcher, opts)
	s.Start(ctx)
	t.Cleanup(func() {
		cancel()
		<-s.Done()
	})
	return s
}

func TestScheduler_InitialAndCadenceRefreshes(t *testing.T) {
	var store state.Store
	fetcher := &fakeFetcher{rows: []sheet.Number{{MSISDN: "9715551234", AssignDate: "2024-03-01"}}}
	var synced atomic.Int32

	startScheduler(t, &store, fetcher, Options{
		Active: 15 * time.Millisecond,
		Idle:   15 * time.Millisecond,
		OnSync: func() { synced.Add(1) },
	})

	waitFor(t, "repeated refreshes", func() bool { return fetcher.count() >= 3 })
	waitFor(t, "store to fill", func() bool { return store.Snapshot().HasData })
	if synced.Load() == 0 {
		t.Fatalf("OnSync never fired")
	}
	if got := store.Snapshot().Rows; len(got) != 1 || got[0].MSISDN != "9715551234" {
		t.Fatalf("store rows = %#v, want fetched row", got)
	}
}

func TestScheduler_ForceRefreshBypassesCadenceGuard(t *testing.T) {
	var store state.Store
	fetcher := &fakeFetcher{}

	s := startScheduler(t, &store, fetcher, Options{Active: time.Hour, Idle: time.Hour})
	waitFor(t, "initial refresh", func() bool { return fetcher.count() == 1 })

	// The hour-long cadence would not refresh again, and the last refresh
	// just completed; a forced refresh must still go through immediately.
	s.ForceRefresh()
	waitFor(t, "forced refresh", func() bool { return fetcher.count() == 2 })
	s.ForceRefresh()
	waitFor(t, "second forced refresh", func() bool { return fetcher.count() == 3 })
}

func TestScheduler_ActivityDebouncesIntoOneRefresh(t *testing.T) {
	var store state.Store
	fetcher := &fakeFetcher{}

	s := startScheduler(t, &store, fetcher, Options{
		Active:   time.Hour,
		Idle:     time.Hour,
		Debounce: 30 * time.Millisecond,
	})
	waitFor(t, "initial refresh", func() bool { return fetcher.count() == 1 })

	// A burst of input must coalesce into a single trailing refresh.
	for i := 0; i < 5; i++ {
		s.Activity()
	}
	waitFor(t, "debounced refresh", func() bool { return fetcher.count() == 2 })

	time.Sleep(120 * time.Millisecond)
	if got := fetcher.count(); got != 2 {
		t.Fatalf("refreshes = %d after burst, want 2 (initial + one debounced)", got)
	}
}

func TestScheduler_HiddenSlowsAndVisibleRefreshes(t *testing.T) {
	var store state.Store
	fetcher := &fakeFetcher{}

	s := startScheduler(t, &store, fetcher, Options{
		Active: 15 * time.Millisecond,
		Idle:   500 * time.Millisecond,
	})
	waitFor(t, "active cadence", func() bool { return fetcher.count() >= 2 })

	s.SetVisible(false)
	time.Sleep(50 * time.Millisecond) // let in-flight work settle
	before := fetcher.count()
	time.Sleep(150 * time.Millisecond)
	if got := fetcher.count(); got != before {
		t.Fatalf("refreshes while hidden = %d, want unchanged %d", got, before)
	}

	// Becoming visible refreshes immediately and resumes the fast cadence.
	s.SetVisible(true)
	waitFor(t, "visible refresh", func() bool { return fetcher.count() > before })
	waitFor(t, "active cadence resumed", func() bool { return fetcher.count() >= before+3 })
}

func TestScheduler_DemotesAfterQuietPeriod(t *testing.T) {
	var store state.Store
	fetcher := &fakeFetcher{}

	s := startScheduler(t, &store, fetcher, Options{
		Active:    20 * time.Millisecond,
		Idle:      time.Hour,
		Debounce:  5 * time.Millisecond,
		IdleAfter: 80 * time.Millisecond,
	})
	s.Activity()

	// After 80ms without further input the scheduler demotes to the idle
	// cadence, and with an hour-long idle interval refreshing stops.
	time.Sleep(300 * time.Millisecond)
	before := fetcher.count()
	time.Sleep(200 * time.Millisecond)
	if got := fetcher.count(); got != before {
		t.Fatalf("refreshes after demotion = %d, want unchanged %d", got, before)
	}
}

func TestScheduler_FailureNotifiesOncePerOutage(t *testing.T) {
	var store state.Store
	fetcher := &fakeFetcher{err: errors.New("boom")}
	notifier := &fakeNotifier{}

	startScheduler(t, &store, fetcher, Options{
		Active:   15 * time.Millisecond,
		Idle:     15 * time.Millisecond,
		Notifier: notifier,
	})

	waitFor(t, "repeated failures", func() bool {
		return store.Snapshot().ConsecutiveFailures >= 3
	})
	if got := notifier.count(); got != 1 {
		t.Fatalf("failure notices = %d, want 1 for the whole outage", got)
	}

	// Recovery clears the counter silently; the next outage notifies again.
	fetcher.setErr(nil)
	waitFor(t, "recovery", func() bool {
		snap := store.Snapshot()
		return snap.HasData && snap.ConsecutiveFailures == 0
	})
	fetcher.setErr(errors.New("boom again"))
	waitFor(t, "second outage", func() bool {
		return store.Snapshot().ConsecutiveFailures >= 2
	})
	if got := notifier.count(); got != 2 {
		t.Fatalf("failure notices = %d, want 2 after two outages", got)
	}
}

func TestScheduler_StalledFetchDoesNotBlockTicks(t *testing.T) {
	var store state.Store
	block := make(chan struct{})
	fetcher := &fakeFetcher{block: block}
	t.Cleanup(func() { close(block) })

	startScheduler(t, &store, fetcher, Options{
		Active: 20 * time.Millisecond,
		Idle:   20 * time.Millisecond,
	})

	// Every dispatched fetch hangs, so completions never arrive; the
	// ticker must keep dispatching regardless.
	waitFor(t, "ticks despite stalled fetches", func() bool { return fetcher.count() >= 3 })
}

func TestScheduler_TeardownDiscardsLateResults(t *testing.T) {
	var store state.Store
	block := make(chan struct{})
	fetcher := &fakeFetcher{
		rows:  []sheet.Number{{MSISDN: "9715551234", AssignDate: "2024-03-01"}},
		block: block,
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := New(&store, fetcher, Options{Active: time.Hour, Idle: time.Hour})
	s.Start(ctx)
	waitFor(t, "initial dispatch", func() bool { return fetcher.count() == 1 })

	cancel()
	waitFor(t, "loop teardown", func() bool {
		select {
		case <-s.Done():
			return true
		default:
			return false
		}
	})

	// The fetch resolves after teardown; its result must be discarded.
	close(block)
	time.Sleep(50 * time.Millisecond)
	if store.Snapshot().HasData {
		t.Fatalf("late fetch result reached the store after teardown")
	}

	// Signals after teardown must not block or panic.
	s.Activity()
	s.ForceRefresh()
	s.SetVisible(true)
}
