package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/google/subcommands"
)

// Environment variables holding the global settings. They are read by Setup
// and passed to extensions.
const (
	EnvData      = "AGF_DATA"
	EnvURL       = "AGF_URL"
	EnvAgents    = "AGF_AGENTS"
	EnvMarket    = "AGF_MARKET"
	EnvBenchmark = "AGF_BENCHMARK"
	EnvVerbose   = "AGF_VERBOSE"
)

// IsRegistered reports whether name is a subcommand of c.
func IsRegistered(c *subcommands.Commander, name string) (found bool) {
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if cmd.Name() == name {
			found = true
		}
	})
	return found
}

// RunExtension attempts to find and execute an external agf-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "agf-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		logger.Debug().Err(err).Str("extension", externalCmdName).Msg("extension not found in PATH")
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Resolved global flags are passed as environment variables.
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, EnvData+"="+*dataDir)
	cmd.Env = append(cmd.Env, EnvURL+"="+*baseURL)
	cmd.Env = append(cmd.Env, EnvAgents+"="+*agentList)
	cmd.Env = append(cmd.Env, EnvMarket+"="+*marketName)
	cmd.Env = append(cmd.Env, EnvBenchmark+"="+*benchmark)
	cmd.Env = append(cmd.Env, EnvVerbose+"="+strconv.FormatBool(*Verbose))

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				return true, status.ExitStatus()
			}
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}

	return true, 0
}
