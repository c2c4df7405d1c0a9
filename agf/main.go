package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/agentfolio/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)
	cmd.Completion(commander, flag.CommandLine).Complete(path.Base(os.Args[0]))

	flag.Parse()
	cmd.Setup()

	if name := flag.Arg(0); name != "" && !cmd.IsRegistered(commander, name) {
		if ok, code := cmd.RunExtension(name, flag.Args()[1:]); ok {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}
