package blame

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hferr/revlog/internal/avatar"
	"github.com/hferr/revlog/internal/blame"
	"github.com/hferr/revlog/internal/common"
	"github.com/hferr/revlog/internal/target"
	"github.com/hferr/revlog/internal/ui"
)

type Command struct {
	Line    int
	Clients *common.Clients
}

func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "blame FILE",
		Short: "Show per-line authorship as contiguous ranges",
		Long: `Show which revision last touched each line of FILE, aggregated
into contiguous ranges of identical authorship. Uncommitted local
modifications show up as their own ranges.

With --line, the range containing that line and every other range from
the same revision are highlighted.

Example:
  revlog blame src/app.c
  revlog blame src/app.c --line 42`,
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

	command.Flags().IntVar(&c.Line, "line", 0, "1-based line to highlight siblings of")

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

	lines, err := c.Clients.VCS.Blame(ctx, id.LocalPath, c.Clients.Config.BlameMergeInfo())
	if err != nil {
		return fmt.Errorf("failed to blame %s: %w", id.DisplayName(), err)
	}

	ranges := blame.Transform(lines)
	if len(ranges) == 0 {
		ui.Info("File is empty")
		return nil
	}

	messages := c.fetchMessages(ctx, id, ranges)
	highlighted := c.highlightSiblings(ranges)

	ui.Print(ui.RenderBlameTable(ranges, messages, highlighted))

	if c.Line > 0 {
		c.printCursorSummary(ranges, messages)
	}
	return nil
}

// fetchMessages loads commit message titles for all blamed revisions with
// a single bounded log call spanning the oldest-to-newest blamed range.
// Message lookup is best effort; the table renders without messages when
// the fetch fails.
func (c *Command) fetchMessages(ctx context.Context, id target.Identity, ranges []blame.Range) map[string]string {
	lo, hi, ok := blame.CommitRange(ranges)
	if !ok {
		return nil
	}
	commits, err := c.Clients.VCS.Log(ctx, id.LocalPath, hi, lo, 0, false)
	if err != nil {
		c.Clients.Logger.WithError(err).Debug("failed to load commit messages for blame")
		return nil
	}
	messages := make(map[string]string, len(commits))
	for _, cm := range commits {
		messages[cm.Revision] = cm.Message
	}
	return messages
}

// highlightSiblings marks the start line of every range sharing the cursor
// line's revision, the cursor's own range included.
func (c *Command) highlightSiblings(ranges []blame.Range) map[int]bool {
	if c.Line <= 0 {
		return nil
	}
	at, ok := blame.RangeAt(ranges, c.Line-1)
	if !ok {
		ui.Warningf("line %d is past the end of the file", c.Line)
		return nil
	}
	highlighted := map[int]bool{at.Start: true}
	for _, r := range blame.Siblings(ranges, c.Line-1) {
		highlighted[r.Start] = true
	}
	return highlighted
}

// printCursorSummary prints the commit behind the cursor line, with a
// gravatar URL for the author when avatars are enabled.
func (c *Command) printCursorSummary(ranges []blame.Range, messages map[string]string) {
	at, ok := blame.RangeAt(ranges, c.Line-1)
	if !ok {
		return
	}
	if at.Commit == nil {
		ui.Infof("Line %d: uncommitted local modification", c.Line)
		return
	}
	ui.Infof("Line %d: r%s by %s: %s", c.Line, at.Commit.Revision, at.Commit.Author,
		ui.Truncate(messages[at.Commit.Revision], ui.Display.MaxMessageLength))

	avatars := avatar.NewCache(c.Clients.Config.GravatarEnabled())
	if url := avatars.URL(at.Commit.Author); url != "" {
		ui.Print(ui.Dim("  avatar: " + url))
	}
}
