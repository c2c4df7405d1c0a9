package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/agentfolio/renderer"
	"github.com/google/subcommands"
)

type tradesCmd struct {
	agent string
}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "display the trade markers of an agent" }
func (*tradesCmd) Usage() string {
	return `agf trades -a <agent>

  Displays the trades of an agent, with execution prices inferred from cash
  movements. Fills at the same time on the same symbol are merged.
`
}

func (c *tradesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.agent, "a", "", "Agent to display.")
}

func (c *tradesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.agent == "" {
		fmt.Fprintln(os.Stderr, "Error: -a is required")
		return subcommands.ExitUsageError
	}
	results, err := reconstruct(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reconstructing agents: %v\n", err)
		return subcommands.ExitFailure
	}
	trades, err := renderer.NewTrades(results, c.agent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderTrades(trades))
	return subcommands.ExitSuccess
}
