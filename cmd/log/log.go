package log

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hferr/revlog/internal/common"
	"github.com/hferr/revlog/internal/revlog"
	"github.com/hferr/revlog/internal/store"
	"github.com/hferr/revlog/internal/ui"
	"github.com/hferr/revlog/internal/vcs"
)

type Command struct {
	Pages   int
	All     bool
	From    string
	Clients *common.Clients
}

func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "log [TARGET]",
		Short: "Show commit history for a path or URL",
		Long: `Show commit history for a working-copy path or repository URL.

History is fetched one page at a time, newest first. Each additional
--pages increment extends the history further back; --all keeps fetching
until the oldest revision is reached.

Example:
  revlog log
  revlog log src/app.c --pages 3
  revlog log https://svn.example.org/repo/trunk --all`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
			var err error
			c.Clients, err = common.InitClients()
			return err
		},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			defer c.Clients.Close()
			raw := "."
			if len(args) > 0 {
				raw = args[0]
			}
			return c.Run(cobraCmd.Context(), raw)
		},
	}

	command.Flags().IntVar(&c.Pages, "pages", 1, "Number of history pages to fetch")
	command.Flags().BoolVar(&c.All, "all", false, "Fetch the entire history")
	command.Flags().StringVar(&c.From, "from", "", "Revision to anchor the first page at (default HEAD)")

	parent.AddCommand(command)
}

func (c *Command) Run(ctx context.Context, raw string) error {
	id, err := c.Clients.Targets.Parse(ctx, raw)
	if err != nil {
		return fmt.Errorf("failed to resolve target: %w", err)
	}

	persisted, err := c.loadPersisted(ctx, id.Key(), id.Raw)
	if err != nil {
		return err
	}
	if c.From != "" {
		if _, err := vcs.ParseRevision(c.From); err != nil {
			return fmt.Errorf("invalid --from revision %q: %w", c.From, err)
		}
		persisted.CommitFrom = c.From
	}

	key := c.Clients.Cache.Track(id, persisted)

	pages := c.Pages
	if pages < 1 {
		pages = 1
	}
	for i := 0; c.All || i < pages; i++ {
		if err := c.Clients.Cache.FetchMore(ctx, key); err != nil {
			return fmt.Errorf("failed to fetch history: %w", err)
		}
		snap, _ := c.Clients.Cache.Snapshot(key)
		if snap.Complete {
			break
		}
	}

	items, err := c.Clients.Cache.Items(key)
	if err != nil {
		return fmt.Errorf("failed to build history view: %w", err)
	}
	ui.Print(ui.RenderHistoryTree(items))

	snap, _ := c.Clients.Cache.Snapshot(key)
	if !snap.Complete {
		ui.Infof("Showing %d commits. Run with --pages %d to load more.", len(snap.Commits), pages+1)
	}
	return nil
}

// loadPersisted returns the saved anchor state for key, discovering and
// saving it on first contact. The working copy's base revision is recorded
// once at discovery so the history view can mark where the checkout sits.
func (c *Command) loadPersisted(ctx context.Context, key, raw string) (revlog.Persisted, error) {
	st, found, err := c.Clients.Store.Get(key)
	if err != nil {
		return revlog.Persisted{}, err
	}
	if !found {
		st = store.State{CommitFrom: vcs.Head}
		if info, err := c.Clients.VCS.Info(ctx, raw, ""); err == nil {
			if base, err := strconv.Atoi(info.Revision); err == nil {
				st.BaseRevision = base
			}
		}
		if err := c.Clients.Store.Put(key, st); err != nil {
			return revlog.Persisted{}, err
		}
	}
	return revlog.Persisted{
		CommitFrom:   st.CommitFrom,
		BaseRevision: st.BaseRevision,
		UserAdded:    st.UserAdded,
	}, nil
}
