// Package workspace wires one vendinha directory together: its config,
// persisted ledger, login gate, activity log and git history.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/vendinha-dev/vendinha/internal/activity"
	"github.com/vendinha-dev/vendinha/internal/config"
	"github.com/vendinha-dev/vendinha/internal/gitops"
	"github.com/vendinha-dev/vendinha/internal/ledger"
	"github.com/vendinha-dev/vendinha/internal/logging"
	"github.com/vendinha-dev/vendinha/internal/report"
	"github.com/vendinha-dev/vendinha/internal/session"
	"github.com/vendinha-dev/vendinha/internal/storage"
)

var (
	ErrNotInitialized     = errors.New("not a vendinha workspace: run `vendinha init` first")
	ErrAlreadyInitialized = errors.New("workspace already initialized")
)

// Layout of a workspace, relative to its root.
var dirs = []string{
	"data",
	"logs",
	"import",
	filepath.Join("import", "processed"),
}

const gitignore = ".session\n.env\nexports/\n"

// Workspace is an opened vendinha directory.
type Workspace struct {
	Root     string
	Config   *config.Config
	Store    *ledger.Store
	Session  *session.Gate
	Activity *activity.Log
	Git      *gitops.Repo

	repo storage.Repository
	log  zerolog.Logger
	now  func() time.Time
}

type options struct {
	now      func() time.Time
	newID    func() string
	logLevel string
}

// Option customizes Open.
type Option func(*options)

// WithClock replaces time.Now for the ledger and the activity log.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces the ledger's id source.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithLogLevel overrides the level set in vendinha.yaml.
func WithLogLevel(level string) Option {
	return func(o *options) { o.logLevel = level }
}

// Initialized reports whether root holds a vendinha.yaml.
func Initialized(root string) bool {
	_, err := os.Stat(filepath.Join(root, config.FileName))
	return err == nil
}

// Init lays out a new workspace at root and, when cfg enables auto-commit,
// makes the initial commit. Git's output goes to out. It returns the commit
// hash, which is empty when git is off.
func Init(ctx context.Context, root string, cfg *config.Config, out io.Writer) (string, error) {
	if Initialized(root) {
		return "", fmt.Errorf("%s: %w", root, ErrAlreadyInitialized)
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", d, err)
		}
	}
	if err := config.Save(filepath.Join(root, config.FileName), cfg); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return "", fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(root, "import", ".gitkeep"), nil, 0o644); err != nil {
		return "", fmt.Errorf("writing .gitkeep: %w", err)
	}

	repo, err := storage.Open(root, cfg.Storage)
	if err != nil {
		return "", err
	}
	defer repo.Close()
	if err := repo.Save(ctx, nil); err != nil {
		return "", fmt.Errorf("creating empty ledger: %w", err)
	}

	entry := activity.Entry{
		Timestamp: time.Now(),
		Action:    activity.ActionInit,
		Details:   "initialize " + cfg.Store.Name,
	}
	if err := activity.Open(root).Append(entry); err != nil {
		return "", err
	}

	if !cfg.Git.AutoCommit {
		return "", nil
	}
	git := gitops.Open(root, author(cfg))
	if err := git.Init(out); err != nil {
		return "", err
	}
	hash, err := git.CommitAll("init: " + cfg.Store.Name)
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return hash, nil
}

// Open loads the workspace at root, logging to logOut. VENDINHA_*
// environment variables override the file config.
func Open(ctx context.Context, root string, logOut io.Writer, opts ...Option) (*Workspace, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}
	cfg.ApplyEnv()
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(logOut, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	repo, err := storage.Open(root, cfg.Storage)
	if err != nil {
		return nil, err
	}
	snapshot, err := repo.Load(ctx)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	ledgerOpts := []ledger.Option{
		ledger.WithYear(cfg.Ledger.Year),
		ledger.WithClock(o.now),
		ledger.WithLogger(logging.Component(log, "ledger")),
	}
	if o.newID != nil {
		ledgerOpts = append(ledgerOpts, ledger.WithIDGenerator(o.newID))
	}
	store, err := ledger.New(snapshot, ledgerOpts...)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	log.Debug().Str("root", root).Str("backend", cfg.Storage.Backend).Int("debts", store.Len()).Msg("workspace opened")

	return &Workspace{
		Root:     root,
		Config:   cfg,
		Store:    store,
		Session:  session.NewGate(root, cfg.Session),
		Activity: activity.Open(root),
		Git:      gitops.Open(root, author(cfg)),
		repo:     repo,
		log:      logging.Component(log, "workspace"),
		now:      o.now,
	}, nil
}

// Persist saves the store, commits the workspace when auto-commit is on and
// records the mutation in the activity log. It returns the commit hash, if
// any. A failed commit is logged and does not undo the save.
func (w *Workspace) Persist(ctx context.Context, action activity.Action, details, debtID string) (string, error) {
	if err := w.repo.Save(ctx, w.Store.Snapshot()); err != nil {
		return "", fmt.Errorf("saving ledger: %w", err)
	}

	var hash string
	if w.Config.Git.AutoCommit && w.Git.IsRepo() {
		h, err := w.Git.CommitAll(fmt.Sprintf("%s: %s", action, details))
		if err != nil {
			w.log.Warn().Err(err).Str(logging.FieldAction, string(action)).Msg("auto-commit failed")
		}
		hash = h
	}

	entry := activity.Entry{
		Timestamp:  w.now(),
		Action:     action,
		Details:    details,
		DebtID:     debtID,
		CommitHash: hash,
	}
	if err := w.Activity.Append(entry); err != nil {
		return hash, err
	}

	w.log.Debug().Str(logging.FieldAction, string(action)).Str(logging.FieldDebtID, debtID).Str("commit", hash).Msg(details)
	return hash, nil
}

// ReportOptions returns the report settings for a report generated now.
func (w *Workspace) ReportOptions() report.Options {
	return report.Options{
		Title:       w.Config.Report.Title,
		GeneratedAt: w.now(),
		Location:    w.Config.Location(),
	}
}

// Path resolves a workspace-relative path. Absolute paths pass through.
func (w *Workspace) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(w.Root, rel)
}

// Now returns the workspace clock's current time.
func (w *Workspace) Now() time.Time { return w.now() }

// Logger returns the workspace logger.
func (w *Workspace) Logger() zerolog.Logger { return w.log }

// Close releases the storage backend.
func (w *Workspace) Close() error {
	return w.repo.Close()
}

func author(cfg *config.Config) gitops.Author {
	return gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
}
