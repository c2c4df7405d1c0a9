package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/agentfolio/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the leaderboard of agents" }
func (*summaryCmd) Usage() string {
	return `agf summary

  Reconstructs the agents of the market and displays their initial value,
  current value and return, along with the baseline and benchmark.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	results, err := reconstruct(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reconstructing agents: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderSummary(renderer.NewSummary(results)))
	return subcommands.ExitSuccess
}
