package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/numdeck/numdeck/internal/config"
	"github.com/numdeck/numdeck/internal/edit"
	"github.com/numdeck/numdeck/internal/logging"
	"github.com/numdeck/numdeck/internal/poll"
	"github.com/numdeck/numdeck/internal/prefs"
	"github.com/numdeck/numdeck/internal/sheet"
	"github.com/numdeck/numdeck/internal/state"
	"github.com/numdeck/numdeck/internal/ui"
)

// Options configure the numdeck application.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/numdeck/prefs.toml
	SheetURL   string        // overrides the configured sheet service URL
	ActivePoll time.Duration // overrides the configured active cadence
}

// Run boots the numdeck TUI until the context is cancelled or the
// operator quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.SheetURL != "" {
		cfg.SheetURL = opts.SheetURL
	}
	if opts.ActivePoll > 0 {
		cfg.ActivePoll = opts.ActivePoll
	}

	logger, err := logging.Open(cfg.LogPath())
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := sheet.NewClient(cfg.SheetURL)
	if err != nil {
		return fmt.Errorf("init sheet client: %w", err)
	}

	store := &state.Store{}
	toaster := ui.NewToaster()

	// The program does not exist until the UI starts, but the scheduler
	// begins refreshing before that; early sync completions are simply
	// picked up by the UI's first store read instead.
	var program atomic.Pointer[tea.Program]

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	scheduler := poll.New(store, client, poll.Options{
		Active:   cfg.ActivePoll,
		Idle:     cfg.IdlePoll,
		Notifier: toaster,
		OnSync: func() {
			if p := program.Load(); p != nil {
				p.Send(ui.SnapshotMsg(store.Snapshot()))
			}
		},
		Logger: logger.Named("poll"),
	})

	coordinator := edit.New(store, client, edit.Options{
		Notifier:    toaster,
		Refresher:   scheduler,
		CountryCode: cfg.CountryCode,
		Logger:      logger.Named("edit"),
	})

	scheduler.Start(runCtx)
	logger.Info("numdeck started",
		zap.String("sheet_url", cfg.SheetURL),
		zap.Duration("active_poll", cfg.ActivePoll),
		zap.Duration("idle_poll", cfg.IdlePoll))

	uiErr := ui.Run(ui.Options{
		Context:   runCtx,
		Engine:    scheduler,
		Editor:    coordinator,
		Store:     store,
		Config:    &cfg,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		LogPath:   cfg.LogPath(),
		Toaster:   toaster,
		OnStart:   func(p *tea.Program) { program.Store(p) },
	})

	// Stop the scheduler and wait for its timers to be released before
	// the logger goes away.
	cancel()
	<-scheduler.Done()
	logger.Info("numdeck stopped")

	return uiErr
}
