package diff

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hferr/revlog/internal/common"
	"github.com/hferr/revlog/internal/revlog"
	"github.com/hferr/revlog/internal/target"
	"github.com/hferr/revlog/internal/ui"
	"github.com/hferr/revlog/internal/vcs"
)

type Command struct {
	Revision string
	Pick     bool
	Clients  *common.Clients
}

func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "diff FILE",
		Short: "Show what a revision changed in a file",
		Long: `Show the diff a revision introduced to FILE, against the file's
previous revision. The previous revision is resolved from cached history
when possible, falling back to a scoped backend lookup that follows
copies and renames.

With --pick, a fuzzy finder over the fetched history selects the
revision interactively.

Example:
  revlog diff src/app.c -r 42
  revlog diff src/app.c --pick`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
			var err error
			c.Clients, err = common.InitClients()
			return err
		},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			defer c.Clients.Close()
			return c.Run(cobraCmd.Context(), args[0])
		},
	}

	command.Flags().StringVarP(&c.Revision, "revision", "r", "", "Revision to diff")
	command.Flags().BoolVar(&c.Pick, "pick", false, "Pick the revision from fetched history")

	parent.AddCommand(command)
}

func (c *Command) Run(ctx context.Context, file string) error {
	id, err := c.Clients.Targets.ParseFile(ctx, file)
	if errors.Is(err, target.ErrNotAFile) {
		ui.Errorf("%s is not a file in the working copy", file)
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to resolve target: %w", err)
	}

	key := c.Clients.Cache.Track(id, revlog.Persisted{})
	if err := c.Clients.Cache.FetchMore(ctx, key); err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	rev, err := c.resolveRevision(key)
	if err != nil {
		return err
	}
	if rev == "" {
		// user cancelled the picker
		return nil
	}

	path := c.changedPath(key, rev, id)
	pred, err := c.Clients.Cache.Predecessor(ctx, key, rev, path)
	if errors.Is(err, revlog.ErrNoPredecessor) {
		ui.Warningf("r%s has no previous revision for %s; nothing to diff against", rev, id.DisplayName())
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to resolve previous revision: %w", err)
	}

	out, err := c.Clients.VCS.Diff(ctx, id.LocalPath, pred.Revision, rev)
	if err != nil {
		return fmt.Errorf("failed to diff r%s:r%s: %w", pred.Revision, rev, err)
	}
	ui.Header(fmt.Sprintf("%s r%s -> r%s", id.DisplayName(), pred.Revision, rev))
	ui.Print(out)
	return nil
}

// resolveRevision returns the revision to diff: the --revision flag, or
// the user's pick from fetched history. An empty result with nil error
// means the picker was cancelled.
func (c *Command) resolveRevision(key string) (string, error) {
	if !c.Pick {
		if c.Revision == "" {
			return "", fmt.Errorf("a revision is required: pass --revision or --pick")
		}
		if _, err := vcs.ParseRevision(c.Revision); err != nil {
			return "", fmt.Errorf("invalid revision %q: %w", c.Revision, err)
		}
		return c.Revision, nil
	}

	snap, ok := c.Clients.Cache.Snapshot(key)
	if !ok || len(snap.Commits) == 0 {
		return "", fmt.Errorf("no history fetched for %s", key)
	}
	cm, err := ui.SelectCommit(snap.Commits)
	if err != nil {
		return "", fmt.Errorf("failed to select commit: %w", err)
	}
	if cm == nil {
		return "", nil
	}
	return cm.Revision, nil
}

// changedPath picks which changed path of the revision to follow when
// resolving the previous revision. If the revision is in cache, the
// changed path most similar to the working-copy path wins; otherwise the
// working-copy path is used as is.
func (c *Command) changedPath(key, rev string, id target.Identity) string {
	snap, ok := c.Clients.Cache.Snapshot(key)
	if !ok {
		return id.RepoRelativePath
	}
	for i := range snap.Commits {
		if snap.Commits[i].Revision != rev {
			continue
		}
		if change, ok := revlog.SimilarPath(id.RepoRelativePath, snap.Commits[i].Changes); ok {
			return change.Path
		}
		break
	}
	return id.RepoRelativePath
}
