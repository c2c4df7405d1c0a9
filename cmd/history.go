package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/agentfolio/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	agent string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the asset history of an agent" }
func (*historyCmd) Usage() string {
	return `agf history -a <agent>

  Displays the reconstructed total asset value of an agent over time, with
  the action that produced each value.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.agent, "a", "", "Agent to display.")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.agent == "" {
		fmt.Fprintln(os.Stderr, "Error: -a is required")
		return subcommands.ExitUsageError
	}
	results, err := reconstruct(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reconstructing agents: %v\n", err)
		return subcommands.ExitFailure
	}
	h, err := renderer.NewHistory(results, c.agent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderHistory(h))
	return subcommands.ExitSuccess
}
