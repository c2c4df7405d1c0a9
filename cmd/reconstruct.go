package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/agentfolio"
	"github.com/google/subcommands"
)

// reconstructCmd exports the full reconstruction as JSON.
type reconstructCmd struct {
	output string
}

func (*reconstructCmd) Name() string     { return "reconstruct" }
func (*reconstructCmd) Synopsis() string { return "export asset histories and trade markers as JSON" }
func (*reconstructCmd) Usage() string {
	return `agf reconstruct [-o <file>]

  Reconstructs the agents of the market and writes the results, including
  the baseline and benchmark series, as a JSON document.
`
}

func (c *reconstructCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Defaults to stdout.")
}

func (c *reconstructCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	results, err := reconstruct(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reconstructing agents: %v\n", err)
		return subcommands.ExitFailure
	}

	var w io.Writer = os.Stdout
	if c.output != "" {
		out, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		w = out
	}

	if err := agentfolio.EncodeResults(w, results); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
