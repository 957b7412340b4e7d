package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"

	"github.com/numdeck/numdeck/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override numdeck config path (optional)")
	prefsPath := flag.String("prefs", "", "override preferences path (optional)")
	sheetURL := flag.String("sheet", "", "override sheet service URL (optional)")
	pollMS := flag.Int("poll", 0, "active refresh interval in milliseconds (optional)")
	flag.Parse()

	if !isTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "numdeck: stdout is not a terminal")
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		SheetURL:   *sheetURL,
	}
	if *pollMS > 0 {
		opts.ActivePoll = time.Duration(*pollMS) * time.Millisecond
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "numdeck: %v\n", err)
		return 1
	}
	return 0
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
