package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/hferr/revlog/cmd/blame"
	"github.com/hferr/revlog/cmd/diff"
	logcmd "github.com/hferr/revlog/cmd/log"
	"github.com/hferr/revlog/cmd/refresh"
	targetcmd "github.com/hferr/revlog/cmd/target"
	"github.com/hferr/revlog/internal/common"
)

var debug bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "revlog",
	Short: "Revision history and blame for SVN working copies",
	Long: `Revlog exposes a repository's commit history and per-line blame
from the command line.

It fetches history incrementally one page at a time, caches what it has
seen, and aggregates blame output into contiguous line ranges so large
files stay readable.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		common.SetDebug(debug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		log.Fatal(err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	// Register all commands
	commands := []Command{
		&logcmd.Command{},
		&blame.Command{},
		&diff.Command{},
		&targetcmd.Command{},
		&refresh.Command{},
	}

	for _, cmd := range commands {
		cmd.Register(rootCmd)
	}
}
