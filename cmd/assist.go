package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/agentfolio/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI analyst.
type assistCmd struct{}

func (*assistCmd) Name() string { return "assist" }
func (*assistCmd) Synopsis() string {
	return "start an interactive session with the AI analyst"
}
func (*assistCmd) Usage() string {
	return `agf assist [<question>]

  Reconstructs the agents of the market, then starts a chat with an analyst
  able to read the leaderboard, asset histories and trades.
  The Gemini API key is read from GOOGLE_API_KEY or GEMINI_API_KEY.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}

	results, err := reconstruct(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reconstructing agents: %v\n", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	analyst := agent.NewAnalyst(results)
	analyst.Log = logger
	a := agent.New(os.Stdout, os.Stdin, agent.NewTrader(), analyst)
	a.Markdown = markdown

	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
