// notifeed is a terminal client for GitHub notifications, grouped by
// repository and paged in as you scroll.
//
// By default it runs an interactive TUI. With --once it prints the feed
// and exits; with --journal it prints the most recent page fetches.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/nhle/notifeed/internal/app"
	"github.com/nhle/notifeed/internal/credential"
	"github.com/nhle/notifeed/internal/feed"
	"github.com/nhle/notifeed/internal/logging"
	"github.com/nhle/notifeed/internal/model"
	"github.com/nhle/notifeed/internal/source/github"
	"github.com/nhle/notifeed/internal/store"
	appsync "github.com/nhle/notifeed/internal/sync"
	"github.com/nhle/notifeed/internal/ui/feedview"
)

// journalKeep is how many fetch journal rows survive startup pruning.
const journalKeep = 1000

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	filter     string
	once       bool
	pages      int
	journal    int
	initConfig bool
	login      bool
	debug      bool
}

func run(args []string, stdout io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("notifeed", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", model.DefaultConfigPath(), "path to the config file")
	flagSet.StringVar(&opts.filter, "filter", "", "filter to open with: unread, participating or all (default from config)")
	flagSet.BoolVar(&opts.once, "once", false, "print the feed and exit instead of starting the TUI")
	flagSet.IntVar(&opts.pages, "pages", 1, "pages to load with --once")
	flagSet.IntVar(&opts.journal, "journal", 0, "print the N most recent fetch journal entries and exit")
	flagSet.BoolVar(&opts.initConfig, "init-config", false, "write the default config file and exit")
	flagSet.BoolVar(&opts.login, "login", false, "prompt for a new GitHub token")
	flagSet.BoolVar(&opts.debug, "debug", false, "log at debug level")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stdout, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stdout, flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	if opts.initConfig {
		return initConfig(stdout, opts.configPath)
	}

	cfg, err := model.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if opts.debug {
		level = "debug"
	}
	if err := logging.Init(cfg.Log.File, level); err != nil {
		return err
	}
	defer logging.Close()

	filter, err := model.ParseFilter(cfg.Display.DefaultFilter)
	if err != nil {
		return err
	}
	if opts.filter != "" {
		if filter, err = model.ParseFilter(opts.filter); err != nil {
			return err
		}
	}

	db := openJournal(cfg.Store.Path)
	if db != nil {
		defer db.Close()
	}

	if opts.journal > 0 {
		if db == nil {
			return fmt.Errorf("fetch journal at %s is unavailable", cfg.Store.Path)
		}
		return printJournal(stdout, db, opts.journal)
	}

	token, login, err := resolveToken(cfg, opts)
	if err != nil {
		return err
	}

	adapter := github.NewAdapter(cfg.GitHub.BaseURL, token, cfg.GitHub.PageLimit)

	// A nil *SQLiteStore must not reach the recorder as a non-nil interface.
	var journal store.Journal
	if db != nil {
		journal = db
	}
	rec := appsync.New(adapter, journal)

	ctrl := feed.NewController(rec, cfg.GitHub.PageLimit,
		feed.WithFetchTimeout(time.Duration(cfg.GitHub.TimeoutSec)*time.Second))

	logging.Info("starting", "filter", filter, "page_limit", cfg.GitHub.PageLimit, "once", opts.once)

	if opts.once {
		return runOnce(stdout, ctrl, filter, opts.pages)
	}

	root := app.New(ctrl, rec, adapter, app.Options{
		DefaultFilter: filter,
		MoreThreshold: cfg.Display.MoreThreshold,
		Login:         login,
	})
	if _, err := tea.NewProgram(root, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// resolveToken finds the GitHub token, prompting for one in interactive
// mode when none is stored or --login was given. login is empty unless
// the prompt already resolved it.
func resolveToken(cfg *model.AppConfig, opts options) (token, login string, err error) {
	if !opts.login {
		token, err = credential.GitHubToken()
		if err == nil {
			return token, "", nil
		}
		if !errors.Is(err, credential.ErrNoToken) {
			logging.Warn("reading stored token", "err", err)
		}
		if opts.once {
			return "", "", fmt.Errorf("%w: set %s or run notifeed --login", credential.ErrNoToken, credential.TokenEnv)
		}
	}

	return app.PromptToken(func(ctx context.Context, tok string) (string, error) {
		return github.NewAdapter(cfg.GitHub.BaseURL, tok, cfg.GitHub.PageLimit).ValidateConnection(ctx)
	})
}

// runOnce loads page 1 plus up to pages-1 more pages and prints the feed.
func runOnce(w io.Writer, ctrl *feed.Controller, filter model.Filter, pages int) error {
	ctrl.Apply(ctrl.RequestFeed(filter)())
	for i := 1; i < pages; i++ {
		cmd := ctrl.RequestMore()
		if cmd == nil {
			break
		}
		ctrl.Apply(cmd())
	}

	s := ctrl.State()
	fmt.Fprint(w, feedview.Summary(s, time.Now()))
	if feed.IsInitialLoadError(s.Err) {
		return s.Err
	}
	return nil
}

// openJournal opens the fetch journal. The journal is diagnostics only, so
// failures are logged and the app runs without it.
func openJournal(path string) *store.SQLiteStore {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		logging.Warn("creating journal directory", "path", path, "err", err)
		return nil
	}

	db, err := store.NewSQLiteStore(path)
	if err != nil {
		logging.Warn("opening fetch journal", "path", path, "err", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if n, err := db.PruneFetches(ctx, journalKeep); err != nil {
		logging.Warn("pruning fetch journal", "err", err)
	} else if n > 0 {
		logging.Debug("pruned fetch journal", "rows", n)
	}

	return db
}

func printJournal(w io.Writer, j store.Journal, limit int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := j.RecentFetches(ctx, store.FetchFilter{Limit: limit})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FETCHED\tFILTER\tPAGE\tRECORDS\tDURATION\tERROR")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%dms\t%s\n",
			e.FetchedAt.Local().Format(time.DateTime), e.Filter, e.Page, e.RecordCount, e.DurationMs, e.Error)
	}
	return tw.Flush()
}

func initConfig(w io.Writer, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	if err := model.SaveConfig(path, model.DefaultAppConfig()); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s\n", path)
	return nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `notifeed - GitHub notifications grouped by repository

Usage:
  notifeed [flags]

The token is read from $%s, then from the system keyring.

Flags:
%s`, credential.TokenEnv, flagSet.FlagUsages())
}
