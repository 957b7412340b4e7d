package edit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/numdeck/numdeck/internal/sheet"
	"github.com/numdeck/numdeck/internal/state"
)

type fakeUpdater struct {
	mu    sync.Mutex
	calls []statusCall
	err   error
}

type statusCall struct {
	key    sheet.Key
	status sheet.Status
}

func (u *fakeUpdater) UpdateStatus(ctx context.Context, key sheet.Key, status sheet.Status) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, statusCall{key: key, status: status})
	return u.err
}

func (u *fakeUpdater) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

type fakeNotifier struct {
	successes []string
	failures  []string
}

func (n *fakeNotifier) Success(message string) { n.successes = append(n.successes, message) }
func (n *fakeNotifier) Error(message string)   { n.failures = append(n.failures, message) }

type fakeRefresher struct {
	forced int
}

func (r *fakeRefresher) ForceRefresh() { r.forced++ }

func seedStore(t *testing.T) (*state.Store, sheet.Key) {
	t.Helper()
	var store state.Store
	store.Replace([]sheet.Number{
		{MSISDN: "9715551234", AssignDate: "2024-03-01", Category: "Marketing", Status: sheet.StatusOpen},
	})
	return &store, sheet.Key{MSISDN: "9715551234", AssignDate: "2024-03-01"}
}

func TestSubmit_AppliesAndConfirms(t *testing.T) {
	store, key := seedStore(t)
	remote := &fakeUpdater{}
	notifier := &fakeNotifier{}
	refresher := &fakeRefresher{}
	c := New(store, remote, Options{
		Notifier:    notifier,
		Refresher:   refresher,
		CountryCode: "971",
	})

	got := c.Submit(context.Background(), key, sheet.StatusReserved)
	if got != ResultApplied {
		t.Fatalf("Submit = %q, want applied", got)
	}
	if remote.count() != 1 || remote.calls[0].key != key || remote.calls[0].status != sheet.StatusReserved {
		t.Fatalf("remote calls = %#v, want one UpdateStatus(key, Reserved)", remote.calls)
	}

	snap := store.Snapshot()
	if snap.IsPending(key) {
		t.Fatalf("key still pending after success")
	}
	if snap.Rows[0].Status != sheet.StatusReserved {
		t.Fatalf("status = %q, want Reserved", snap.Rows[0].Status)
	}
	if refresher.forced != 1 {
		t.Fatalf("forced refreshes = %d, want 1", refresher.forced)
	}
	if len(notifier.successes) != 1 || len(notifier.failures) != 0 {
		t.Fatalf("notices = %+v, want exactly one success", notifier)
	}
	// The notice quotes the localized number and the new status.
	if msg := notifier.successes[0]; !strings.Contains(msg, "05551234") || !strings.Contains(msg, "Reserved") {
		t.Fatalf("success notice = %q, want localized number and status", msg)
	}
}

func TestSubmit_OptimisticValueVisibleBeforeRemoteCall(t *testing.T) {
	store, key := seedStore(t)
	remote := &fakeUpdater{}
	c := New(store, remote, Options{})

	ticket, ok := c.Begin(key, sheet.StatusReserved)
	if !ok {
		t.Fatalf("Begin refused a clean edit")
	}
	// Between Begin and Finish nothing has hit the network, but the view
	// already sees the new status and the pending mark.
	if remote.count() != 0 {
		t.Fatalf("remote called before Finish")
	}
	snap := store.Snapshot()
	if snap.Rows[0].Status != sheet.StatusReserved || !snap.IsPending(key) {
		t.Fatalf("optimistic state = %q pending=%v, want Reserved and pending", snap.Rows[0].Status, snap.IsPending(key))
	}

	if got := c.Finish(context.Background(), ticket); got != ResultApplied {
		t.Fatalf("Finish = %q, want applied", got)
	}
}

func TestSubmit_PendingKeyIsNoOp(t *testing.T) {
	store, key := seedStore(t)
	remote := &fakeUpdater{}
	notifier := &fakeNotifier{}
	c := New(store, remote, Options{Notifier: notifier})

	ticket, ok := c.Begin(key, sheet.StatusReserved)
	if !ok {
		t.Fatalf("Begin refused a clean edit")
	}

	// A second submit for the same row while the first is in flight must
	// change nothing and reach no network.
	if got := c.Submit(context.Background(), key, sheet.StatusOpen); got != ResultSkipped {
		t.Fatalf("Submit while pending = %q, want skipped", got)
	}
	if remote.count() != 0 {
		t.Fatalf("remote calls = %d, want 0 for the skipped edit", remote.count())
	}
	snap := store.Snapshot()
	if snap.Rows[0].Status != sheet.StatusReserved {
		t.Fatalf("status = %q, want the first edit's optimistic Reserved", snap.Rows[0].Status)
	}
	if len(notifier.successes)+len(notifier.failures) != 0 {
		t.Fatalf("skipped edit must not notify, got %+v", notifier)
	}

	if got := c.Finish(context.Background(), ticket); got != ResultApplied {
		t.Fatalf("Finish = %q, want applied", got)
	}
}

func TestSubmit_UnknownKeyIsSkipped(t *testing.T) {
	store, _ := seedStore(t)
	remote := &fakeUpdater{}
	c := New(store, remote, Options{})

	got := c.Submit(context.Background(), sheet.Key{MSISDN: "nope", AssignDate: "never"}, sheet.StatusReserved)
	if got != ResultSkipped {
		t.Fatalf("Submit = %q, want skipped", got)
	}
	if remote.count() != 0 {
		t.Fatalf("remote calls = %d, want 0", remote.count())
	}
}

func TestSubmit_FailureRevertsAndNotifiesOnce(t *testing.T) {
	store, key := seedStore(t)
	remote := &fakeUpdater{err: errors.New("connection reset")}
	notifier := &fakeNotifier{}
	refresher := &fakeRefresher{}
	c := New(store, remote, Options{
		Notifier:    notifier,
		Refresher:   refresher,
		CountryCode: "971",
	})

	got := c.Submit(context.Background(), key, sheet.StatusReserved)
	if got != ResultReverted {
		t.Fatalf("Submit = %q, want reverted", got)
	}

	snap := store.Snapshot()
	if snap.Rows[0].Status != sheet.StatusOpen {
		t.Fatalf("status = %q, want pre-edit Open restored", snap.Rows[0].Status)
	}
	if snap.IsPending(key) {
		t.Fatalf("key still pending after rollback")
	}
	if len(notifier.failures) != 1 || len(notifier.successes) != 0 {
		t.Fatalf("notices = %+v, want exactly one failure", notifier)
	}
	if msg := notifier.failures[0]; !strings.Contains(msg, "05551234") {
		t.Fatalf("failure notice = %q, want localized number", msg)
	}
	// Consistency over optimism: even failures force a refresh.
	if refresher.forced != 1 {
		t.Fatalf("forced refreshes = %d, want 1", refresher.forced)
	}
}

func TestSubmit_ValidationRefusalMessage(t *testing.T) {
	store, key := seedStore(t)
	remote := &fakeUpdater{err: &sheet.APIError{StatusCode: 409, Message: "row changed remotely"}}
	notifier := &fakeNotifier{}
	c := New(store, remote, Options{Notifier: notifier, CountryCode: "971"})

	if got := c.Submit(context.Background(), key, sheet.StatusReserved); got != ResultReverted {
		t.Fatalf("Submit = %q, want reverted", got)
	}
	if len(notifier.failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(notifier.failures))
	}
	if msg := notifier.failures[0]; !strings.Contains(msg, "refused") || !strings.Contains(msg, "row changed remotely") {
		t.Fatalf("refusal notice = %q, want refusal wording with the service message", msg)
	}
}

func TestFinish_RollbackAfterRefreshLeavesFreshDataAlone(t *testing.T) {
	store, key := seedStore(t)
	remote := &fakeUpdater{err: errors.New("timeout")}
	c := New(store, remote, Options{})

	ticket, ok := c.Begin(key, sheet.StatusReserved)
	if !ok {
		t.Fatalf("Begin refused a clean edit")
	}

	// A background refresh lands mid-flight; its snapshot says Reserved.
	store.Replace([]sheet.Number{
		{MSISDN: "9715551234", AssignDate: "2024-03-01", Category: "Marketing", Status: sheet.StatusReserved},
	})

	if got := c.Finish(context.Background(), ticket); got != ResultReverted {
		t.Fatalf("Finish = %q, want reverted", got)
	}
	snap := store.Snapshot()
	if snap.Rows[0].Status != sheet.StatusReserved {
		t.Fatalf("status = %q, rollback must not clobber the fresh snapshot", snap.Rows[0].Status)
	}
}

func TestTicket_AttemptIDsAreUnique(t *testing.T) {
	store, key := seedStore(t)
	c := New(store, &fakeUpdater{}, Options{})

	t1, ok := c.Begin(key, sheet.StatusReserved)
	if !ok {
		t.Fatalf("Begin refused a clean edit")
	}
	c.Finish(context.Background(), t1)

	t2, ok := c.Begin(key, sheet.StatusOpen)
	if !ok {
		t.Fatalf("Begin refused a second edit after the first settled")
	}
	if t1.ID == "" || t1.ID == t2.ID {
		t.Fatalf("attempt ids = %q, %q; want distinct non-empty ids", t1.ID, t2.ID)
	}
}
