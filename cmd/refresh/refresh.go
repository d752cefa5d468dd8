package refresh

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hferr/revlog/internal/common"
	"github.com/hferr/revlog/internal/revlog"
	"github.com/hferr/revlog/internal/ui"
)

type Command struct {
	Clients *common.Clients
}

func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "refresh [TARGET]",
		Short: "Re-discover targets and reset cached history",
		Long: `Reset cached history so the next fetch starts over from the anchor
revision, and re-record each target's working-copy base revision.

Without an argument every tracked target is refreshed; targets whose
repository can no longer be resolved are dropped unless they were added
by the user.

Example:
  revlog refresh
  revlog refresh src/app.c`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
			var err error
			c.Clients, err = common.InitClients()
			return err
		},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			defer c.Clients.Close()
			if len(args) > 0 {
				return c.RunOne(cobraCmd.Context(), args[0])
			}
			return c.RunAll(cobraCmd.Context())
		},
	}

	parent.AddCommand(command)
}

// RunOne refreshes a single target.
func (c *Command) RunOne(ctx context.Context, raw string) error {
	id, err := c.Clients.Targets.Parse(ctx, raw)
	if err != nil {
		return fmt.Errorf("failed to resolve target: %w", err)
	}
	if err := c.refreshBase(ctx, id.Key(), raw); err != nil {
		return err
	}

	key := c.Clients.Cache.Track(id, revlog.Persisted{})
	if err := c.Clients.Cache.Refresh(key); err != nil {
		return err
	}

	ui.Successf("Refreshed %s", id.DisplayName())
	return nil
}

// RunAll re-resolves every saved target, drops auto-discovered ones that
// no longer resolve, and resets the cached history of the rest.
func (c *Command) RunAll(ctx context.Context) error {
	states, err := c.Clients.Store.List()
	if err != nil {
		return err
	}

	found := make(map[string]bool, len(states))
	var dropped int
	for key, st := range states {
		if _, err := c.Clients.VCS.Info(ctx, key, ""); err != nil {
			if st.UserAdded {
				ui.Warningf("%s did not resolve; keeping user-added target", key)
				continue
			}
			if err := c.Clients.Store.Delete(key); err != nil {
				return err
			}
			dropped++
			continue
		}
		found[key] = true
		if err := c.refreshBase(ctx, key, key); err != nil {
			return err
		}
	}

	c.Clients.Cache.Prune(found)
	for _, key := range c.Clients.Cache.Keys() {
		if err := c.Clients.Cache.Refresh(key); err != nil {
			return err
		}
	}

	if dropped > 0 {
		ui.Infof("Dropped %d stale targets", dropped)
	}
	ui.Successf("Refreshed %d targets", len(found))
	return nil
}

// refreshBase re-records the working-copy base revision for key.
func (c *Command) refreshBase(ctx context.Context, key, raw string) error {
	st, found, err := c.Clients.Store.Get(key)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	info, err := c.Clients.VCS.Info(ctx, raw, "")
	if err != nil {
		c.Clients.Logger.WithError(err).WithField("target", key).
			Debug("failed to re-resolve base revision")
		return nil
	}
	if base, err := strconv.Atoi(info.Revision); err == nil && base != st.BaseRevision {
		st.BaseRevision = base
		return c.Clients.Store.Put(key, st)
	}
	return nil
}
