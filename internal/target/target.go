package target

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hferr/revlog/internal/vcs"
)

// ErrNotAFile is returned when a file-scoped operation is requested on a
// directory or on a remote-only target with no local materialization.
// The rejection happens before any backend call.
var ErrNotAFile = errors.New("target is not a local file")

// Identity is the structured identity of a tracked target.
type Identity struct {
	Raw              string
	LocalPath        string // empty for remote-only targets
	RemotePath       string // full repository URL
	RepoRelativePath string // path relative to the repository root, leading slash
}

// Key returns the canonical cache key for the identity.
func (i Identity) Key() string {
	return i.RemotePath
}

// IsRemoteOnly reports whether the target has no working-copy path.
func (i Identity) IsRemoteOnly() bool {
	return i.LocalPath == ""
}

// DisplayName returns a short human label for the target.
func (i Identity) DisplayName() string {
	if i.RepoRelativePath != "" {
		return i.RepoRelativePath
	}
	return i.RemotePath
}

// RepositoryRoot returns the repository root URL for the identity.
func (i Identity) RepositoryRoot() string {
	return strings.TrimSuffix(i.RemotePath, i.RepoRelativePath)
}

// Normalizer resolves raw path or URL strings into Identities using the
// backend's info lookup.
type Normalizer struct {
	info vcs.InfoGetter
}

func NewNormalizer(info vcs.InfoGetter) *Normalizer {
	return &Normalizer{info: info}
}

// Parse resolves raw into a structured identity. URLs resolve remotely;
// anything else is treated as a working-copy path.
func (n *Normalizer) Parse(ctx context.Context, raw string) (Identity, error) {
	if strings.Contains(raw, "://") {
		info, err := n.info.Info(ctx, raw, "")
		if err != nil {
			return Identity{}, fmt.Errorf("failed to resolve %s: %w", raw, err)
		}
		return Identity{
			Raw:              raw,
			RemotePath:       info.URL,
			RepoRelativePath: strings.TrimPrefix(info.URL, info.RepositoryRoot),
		}, nil
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to resolve path %s: %w", raw, err)
	}

	info, err := n.info.Info(ctx, abs, "")
	if err != nil {
		return Identity{}, fmt.Errorf("failed to resolve %s: %w", raw, err)
	}

	return Identity{
		Raw:              raw,
		LocalPath:        abs,
		RemotePath:       info.URL,
		RepoRelativePath: strings.TrimPrefix(info.URL, info.RepositoryRoot),
	}, nil
}

// ParseFile resolves raw like Parse but rejects targets that cannot back a
// file-scoped operation: remote-only URLs and directories fail with
// ErrNotAFile before the backend is consulted.
func (n *Normalizer) ParseFile(ctx context.Context, raw string) (Identity, error) {
	if strings.Contains(raw, "://") {
		return Identity{}, fmt.Errorf("%s: %w", raw, ErrNotAFile)
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to resolve path %s: %w", raw, err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to stat %s: %w", raw, err)
	}
	if fi.IsDir() {
		return Identity{}, fmt.Errorf("%s: %w", raw, ErrNotAFile)
	}

	return n.Parse(ctx, raw)
}
