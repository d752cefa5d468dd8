package target

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hferr/revlog/internal/common"
	"github.com/hferr/revlog/internal/store"
	"github.com/hferr/revlog/internal/ui"
	"github.com/hferr/revlog/internal/vcs"
)

type Command struct {
	From    string
	Force   bool
	Clients *common.Clients
}

func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "target",
		Short: "Manage tracked history targets",
		Long: `Manage the set of targets revlog tracks history for.

The working copy's repository is tracked automatically; targets added
here persist across refreshes until removed.`,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cobraCmd.Help()
		},
	}

	command.AddCommand(c.addCommand(), c.removeCommand(), c.listCommand())
	parent.AddCommand(command)
}

func (c *Command) preRun(cobraCmd *cobra.Command, args []string) error {
	var err error
	c.Clients, err = common.InitClients()
	return err
}

func (c *Command) addCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add TARGET",
		Short: "Track history for an extra path or URL",
		Long: `Track history for an extra working-copy path or repository URL.

User-added targets survive refreshes; remove them with 'target remove'.

Example:
  revlog target add https://svn.example.org/repo/branches/v2
  revlog target add ../other-checkout --from 120`,
		Args:    cobra.ExactArgs(1),
		PreRunE: c.preRun,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			defer c.Clients.Close()
			return c.runAdd(cobraCmd.Context(), args[0])
		},
	}
	cmd.Flags().StringVar(&c.From, "from", "", "Revision to anchor the first history page at (default HEAD)")
	return cmd
}

func (c *Command) removeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove TARGET",
		Short:   "Stop tracking a target",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.preRun,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			defer c.Clients.Close()
			return c.runRemove(cobraCmd.Context(), args[0])
		},
	}
	cmd.Flags().BoolVar(&c.Force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func (c *Command) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List tracked targets",
		PreRunE: c.preRun,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			defer c.Clients.Close()
			return c.runList()
		},
	}
}

func (c *Command) runAdd(ctx context.Context, raw string) error {
	id, err := c.Clients.Targets.Parse(ctx, raw)
	if err != nil {
		return fmt.Errorf("failed to resolve target: %w", err)
	}

	if _, found, err := c.Clients.Store.Get(id.Key()); err != nil {
		return err
	} else if found {
		ui.Warningf("%s is already tracked", id.DisplayName())
		return nil
	}

	commitFrom := vcs.Head
	if c.From != "" {
		if _, err := vcs.ParseRevision(c.From); err != nil {
			return fmt.Errorf("invalid --from revision %q: %w", c.From, err)
		}
		commitFrom = c.From
	}

	st := store.State{CommitFrom: commitFrom, UserAdded: true}
	if info, err := c.Clients.VCS.Info(ctx, raw, ""); err == nil {
		if base, err := strconv.Atoi(info.Revision); err == nil {
			st.BaseRevision = base
		}
	}
	if err := c.Clients.Store.Put(id.Key(), st); err != nil {
		return err
	}

	ui.Successf("Tracking %s", id.DisplayName())
	return nil
}

func (c *Command) runRemove(ctx context.Context, raw string) error {
	id, err := c.Clients.Targets.Parse(ctx, raw)
	if err != nil {
		return fmt.Errorf("failed to resolve target: %w", err)
	}

	if _, found, err := c.Clients.Store.Get(id.Key()); err != nil {
		return err
	} else if !found {
		ui.Warningf("%s is not tracked", id.DisplayName())
		return nil
	}

	if !c.Force {
		prompt := fmt.Sprintf("Type the target name (%s) to confirm removal: ", id.DisplayName())
		if !ui.Confirm(prompt, id.DisplayName()) {
			ui.Info("Removal cancelled")
			return nil
		}
	}

	if err := c.Clients.Store.Delete(id.Key()); err != nil {
		return err
	}
	c.Clients.Cache.Remove(id.Key())

	ui.Successf("Stopped tracking %s", id.DisplayName())
	return nil
}

func (c *Command) runList() error {
	states, err := c.Clients.Store.List()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(states))
	for k := range states {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if states[keys[i]].Order != states[keys[j]].Order {
			return states[keys[i]].Order < states[keys[j]].Order
		}
		return keys[i] < keys[j]
	})

	targets := make([]ui.TargetSummary, 0, len(keys))
	for _, k := range keys {
		st := states[k]
		summary := "from " + st.CommitFrom
		if st.BaseRevision > 0 {
			summary += fmt.Sprintf(", base r%d", st.BaseRevision)
		}
		targets = append(targets, ui.TargetSummary{
			Name:      k,
			Summary:   summary,
			UserAdded: st.UserAdded,
		})
	}

	ui.Print(ui.RenderTargetList(targets))
	return nil
}
