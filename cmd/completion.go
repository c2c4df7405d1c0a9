package cmd

import (
	"flag"

	"github.com/etnz/agentfolio/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var markets = predict.Set{"us", "us-5min", "cn"}

// predictors of flags whose values are known.
func predictor(name string) complete.Predictor {
	switch name {
	case "data":
		return predict.Dirs("*")
	case "o":
		return predict.Files("*.json")
	case "market":
		return markets
	case "v":
		return predict.Nothing
	default:
		return predict.Something
	}
}

func flags(f *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) { m[fl.Name] = predictor(fl.Name) })
	return m
}

// Completion returns the shell completion tree of the commands registered in c.
func Completion(c *subcommands.Commander, global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flags(global),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(f)
		sub := &complete.Command{Flags: flags(f)}
		if cmd.Name() == "topic" {
			sub.Args = topics()
		}
		root.Sub[cmd.Name()] = sub
	})
	return root
}

// topics predicts the documentation topics.
func topics() complete.Predictor {
	names, err := docs.GetAllTopics()
	if err != nil {
		return predict.Nothing
	}
	return append(predict.Set{"readme", "*"}, names...)
}
