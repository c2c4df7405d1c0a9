// Package cmd implements the agf command line application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/agentfolio"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&summaryCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
	c.Register(&tradesCmd{}, "reports")
	c.Register(&reconstructCmd{}, "reports")

	c.Register(&assistCmd{}, "")
	c.Register(&topicCmd{}, "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataDir = flag.String("data", "", "Path to the data folder. Defaults to $"+EnvData+" or 'data'.")
var baseURL = flag.String("url", "", "Base URL of a remote data folder, read instead of -data. Defaults to $"+EnvURL+".")
var agentList = flag.String("agents", "", "Comma separated agents to reconstruct, all of them when empty. Defaults to $"+EnvAgents+".")
var marketName = flag.String("market", "", "Market to reconstruct: us, us-5min or cn. Defaults to $"+EnvMarket+" or 'us'.")
var benchmark = flag.String("benchmark", "", "Index symbol used as benchmark for daily markets. Defaults to $"+EnvBenchmark+".")

// Verbose enables debug logs.
var Verbose = flag.Bool("v", false, "Enable debug logs.")

// logger is the application logger, configured by Setup.
var logger = zerolog.Nop()

// setting returns value when set, the environment variable env otherwise, fallback as a last resort.
func setting(value, env, fallback string) string {
	if value != "" {
		return value
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}

// Setup resolves global flags against the environment and configures logging.
// It must be called after flag.Parse.
func Setup() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	*dataDir = setting(*dataDir, EnvData, "data")
	*baseURL = setting(*baseURL, EnvURL, "")
	*agentList = setting(*agentList, EnvAgents, "")
	*marketName = setting(*marketName, EnvMarket, agentfolio.USDaily.String())
	*benchmark = setting(*benchmark, EnvBenchmark, "")
	if v, err := strconv.ParseBool(os.Getenv(EnvVerbose)); err == nil && v {
		*Verbose = true
	}

	level := zerolog.InfoLevel
	if *Verbose {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()
}

// agents returns the agents selected with -agents.
func agents() []string {
	var names []string
	for _, a := range strings.Split(*agentList, ",") {
		if a = strings.TrimSpace(a); a != "" {
			names = append(names, a)
		}
	}
	return names
}

// openSource returns the remote source when -url is set, the data folder otherwise.
func openSource() (agentfolio.Source, error) {
	if *baseURL != "" {
		return agentfolio.NewHTTPSource(*baseURL, agents(), logger)
	}
	return agentfolio.NewDirSource(os.DirFS(*dataDir), logger), nil
}

// reconstruct runs a full reconstruction of the selected market and agents.
func reconstruct(ctx context.Context) (*agentfolio.Results, error) {
	market, err := agentfolio.ParseMarket(*marketName)
	if err != nil {
		return nil, err
	}
	source, err := openSource()
	if err != nil {
		return nil, fmt.Errorf("cannot open data source: %w", err)
	}
	session := agentfolio.NewSession(source, logger)
	if *benchmark != "" && market.IsDaily() {
		session.Benchmarks = map[agentfolio.Market]string{market: *benchmark}
	}
	return session.Reconstruct(ctx, market, agents()...)
}

// markdown renders md for the terminal, it returns md unchanged when it cannot.
func markdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func printMarkdown(md string) { fmt.Print(markdown(md)) }
