package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/hferr/revlog/internal/config"
	"github.com/hferr/revlog/internal/revlog"
	"github.com/hferr/revlog/internal/store"
	"github.com/hferr/revlog/internal/target"
	"github.com/hferr/revlog/internal/ui"
	"github.com/hferr/revlog/internal/vcs"
)

var debugEnabled bool

// SetDebug toggles debug-level logging for clients created afterwards.
// Called by the root command before any subcommand runs.
func SetDebug(on bool) {
	debugEnabled = on
}

// NewLogger builds the logger used by all clients. Output goes to stderr
// so it never mixes with rendered command output.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if debugEnabled {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// Clients bundles everything a command needs at run time.
type Clients struct {
	Config  *config.Config
	Logger  *logrus.Logger
	VCS     *vcs.Client
	Targets *target.Normalizer
	Store   *store.Store
	Cache   *revlog.Cache
}

// InitClients initializes the config, VCS client, state store, and history
// cache. Returns an error that is suitable for use in PreRunE hooks.
func InitClients() (*Clients, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := NewLogger()
	vcsClient := vcs.NewClient(".", log)

	path := statePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		ui.Error("Unable to open revlog state")
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	return &Clients{
		Config:  cfg,
		Logger:  log,
		VCS:     vcsClient,
		Targets: target.NewNormalizer(vcsClient),
		Store:   st,
		Cache:   revlog.New(vcsClient, cfg, log),
	}, nil
}

// Close releases resources held by the clients.
func (c *Clients) Close() error {
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}

// statePath picks the bbolt file location: inside the working copy's
// administrative area when run from a checkout, otherwise under the user
// cache directory.
func statePath() string {
	if root, ok := workingCopyRoot(); ok {
		return filepath.Join(root, ".svn", "revlog.db")
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "revlog", "state.db")
}

// workingCopyRoot walks up from the current directory looking for the
// .svn administrative directory.
func workingCopyRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if fi, err := os.Stat(filepath.Join(dir, ".svn")); err == nil && fi.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
