package edit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/numdeck/numdeck/internal/sheet"
	"github.com/numdeck/numdeck/internal/state"
)

// Updater submits a status change to the sheet service. *sheet.Client
// implements it.
type Updater interface {
	UpdateStatus(ctx context.Context, key sheet.Key, status sheet.Status) error
}

// Notifier surfaces edit outcomes to the operator.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Refresher triggers the post-edit reconciliation refresh.
// *poll.Scheduler implements it.
type Refresher interface {
	ForceRefresh()
}

// Phase names the states an edit attempt moves through. Every attempt
// runs idle, submitting, then exactly one of confirming or rolling_back,
// and back to idle; the phases appear in log lines keyed by attempt id.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseSubmitting  Phase = "submitting"
	PhaseConfirming  Phase = "confirming"
	PhaseRollingBack Phase = "rolling_back"
)

// Result is the terminal outcome of one edit attempt. No attempt ends any
// other way, so nothing is ever silently dropped.
type Result string

const (
	// ResultApplied means the remote accepted the edit and a
	// reconciliation refresh was triggered.
	ResultApplied Result = "applied"
	// ResultReverted means the remote refused or the call failed; the
	// optimistic value was rolled back and the failure reported.
	ResultReverted Result = "reverted"
	// ResultSkipped means nothing was submitted: the row already had an
	// edit in flight, or the key no longer resolves to a row.
	ResultSkipped Result = "skipped"
)

// Ticket is one accepted edit attempt. Begin produces it; Finish consumes
// it exactly once.
type Ticket struct {
	ID  string
	Key sheet.Key
	To  sheet.Status

	prev sheet.Status
}

// Options configures a Coordinator. Notifier, Refresher, and Logger may
// be nil; CountryCode shapes the numbers quoted in notifications.
type Options struct {
	Notifier    Notifier
	Refresher   Refresher
	CountryCode string
	Logger      *zap.Logger
}

// Coordinator runs the optimistic-edit protocol: gate on the pending set,
// apply the new status locally before the network is touched, submit,
// then either confirm or roll back. The work is split in two so the UI
// loop can stay unblocked: Begin is the synchronous half that makes the
// optimistic value visible in the next frame, Finish is the blocking half
// run from a command goroutine.
type Coordinator struct {
	store   *state.Store
	remote  Updater
	notify  Notifier
	refresh Refresher
	country string
	log     *zap.Logger
}

// New builds a Coordinator around the store and remote updater.
func New(store *state.Store, remote Updater, opts Options) *Coordinator {
	c := &Coordinator{
		store:   store,
		remote:  remote,
		notify:  opts.Notifier,
		refresh: opts.Refresher,
		country: opts.CountryCode,
		log:     opts.Logger,
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// Begin gates and applies the optimistic half of an edit. If the key
// already has an edit in flight, or no longer resolves to a row, nothing
// changes and ok is false; at most one edit per row is ever in flight.
// Otherwise the row shows the new status immediately, the key is marked
// pending, and the returned ticket carries what Finish needs.
func (c *Coordinator) Begin(key sheet.Key, to sheet.Status) (Ticket, bool) {
	prev, ok := c.store.BeginEdit(key, to)
	if !ok {
		c.log.Debug("edit skipped",
			zap.String("key", key.String()),
			zap.String("to", string(to)))
		return Ticket{}, false
	}
	t := Ticket{ID: uuid.NewString(), Key: key, To: to, prev: prev}
	c.log.Info("edit accepted",
		zap.String("attempt", t.ID),
		zap.String("phase", string(PhaseSubmitting)),
		zap.String("key", key.String()),
		zap.String("from", string(prev)),
		zap.String("to", string(to)))
	return t, true
}

// Finish runs the blocking half of an edit and always reaches a terminal
// outcome. On success: pending cleared, reconciliation refresh forced
// past the cadence guard, success notice quoting the localized number and
// new status. On failure: pending cleared, pre-edit status restored
// (unless a refresh already superseded it), failure notice, and still a
// forced refresh, because after any failure the remote snapshot is
// trusted over local state. Failures are never retried here; the
// operator reissues the edit if they still want it.
func (c *Coordinator) Finish(ctx context.Context, t Ticket) Result {
	err := c.remote.UpdateStatus(ctx, t.Key, t.To)
	if err != nil {
		c.store.RevertEdit(t.Key, t.prev)
		c.log.Warn("edit rolled back",
			zap.String("attempt", t.ID),
			zap.String("phase", string(PhaseRollingBack)),
			zap.String("key", t.Key.String()),
			zap.Error(err))
		if c.notify != nil {
			c.notify.Error(c.failureMessage(t, err))
		}
		if c.refresh != nil {
			c.refresh.ForceRefresh()
		}
		return ResultReverted
	}

	c.store.FinishEdit(t.Key)
	c.log.Info("edit confirmed",
		zap.String("attempt", t.ID),
		zap.String("phase", string(PhaseConfirming)),
		zap.String("key", t.Key.String()))
	if c.refresh != nil {
		c.refresh.ForceRefresh()
	}
	if c.notify != nil {
		c.notify.Success(c.successMessage(t))
	}
	return ResultApplied
}

// Submit is Begin plus Finish, for callers outside the UI loop and for
// tests of the whole protocol.
func (c *Coordinator) Submit(ctx context.Context, key sheet.Key, to sheet.Status) Result {
	t, ok := c.Begin(key, to)
	if !ok {
		return ResultSkipped
	}
	return c.Finish(ctx, t)
}

func (c *Coordinator) successMessage(t Ticket) string {
	return fmt.Sprintf("%s is now %s", sheet.Localize(t.Key.MSISDN, c.country), t.To)
}

func (c *Coordinator) failureMessage(t Ticket, err error) string {
	local := sheet.Localize(t.Key.MSISDN, c.country)
	var apiErr *sheet.APIError
	if errors.As(err, &apiErr) && apiErr.Validation() {
		return fmt.Sprintf("Sheet refused the change to %s, status restored: %v", local, err)
	}
	return fmt.Sprintf("Could not update %s, status restored: %v", local, err)
}
