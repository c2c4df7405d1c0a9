package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/agentfolio"
	"github.com/etnz/agentfolio/docs"
	"github.com/etnz/agentfolio/renderer"
	"google.golang.org/genai"
)

func instruction(s string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: s}}}
}

// newFacilitator creates the expert talking to the user.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and of answering the user's request.

			The user runs a competition between trading agents: each agent is a language model
			trading a paper portfolio, and the user wants to understand how they performed and why.

			Learn about the experts' skills from the Tools and ask them questions.
			They keep the context of your previous questions.

			Devise a plan of questions to ask each expert and come up with the best response.
			Always check the figures with the Analyst before commenting them.
			Answer in markdown.
			`),
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader creates an expert of the financial markets, grounded with Google Search.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader, aware of the financial products, companies and markets,
		and of the latest news about them. Ask the Trader whenever you need recent or grounding
		information, for instance to explain a move of a symbol on a given day.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are an expert in trading. You search and find anything related to companies,
			markets and funds, in the US and in China. You leverage Google Search to ground your
			assertions. You know how to relate news to price moves.
			`),
		},
	}
}

// NewAnalyst creates the expert reading the reconstruction results.
func NewAnalyst(results *agentfolio.Results) *Expert {
	lib := AnalystFunctions(results)
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. It has the reconstructed portfolios of every trading agent:
		their leaderboard, the value of each portfolio over time and every trade they made.
		Ask the Analyst for any figure about the agents.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(`
			You are an analyst of the portfolios of trading agents. Use the Tools to read the
			leaderboard, the asset history and the trades of the agents. Other experts might ask
			you questions with approximate agent names, figure out which agent they meant from
			the leaderboard.

			Here is how the portfolios were reconstructed:

			` + topic("reconstruction") + topic("markets")),
		},
		Library: NewLibrary(lib),
	}
}

func topic(name string) string {
	content, err := docs.GetTopic(name)
	if err != nil {
		return ""
	}
	return content
}

var agentParameter = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"agent": {
			Type:        genai.TypeString,
			Description: "The exact name of the agent, as listed in the leaderboard.",
		},
	},
	Required: []string{"agent"},
}

// AnalystFunctions returns the functions reading results.
func AnalystFunctions(results *agentfolio.Results) []Function {
	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Leaderboard",
				Description: "Leaderboard lists every agent with its initial and current value, its return and its number of trades, best first.",
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown table of the agents.",
				},
			},
			Func: func(context.Context, map[string]any) (string, error) {
				return renderer.RenderSummary(renderer.NewSummary(results)), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "History",
				Description: "History returns the value of an agent's portfolio over time, with the trade decided at each step.",
				Parameters:  agentParameter,
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown table of the portfolio values.",
				},
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				name, err := agentArg(results, args)
				if err != nil {
					return "", err
				}
				h, err := renderer.NewHistory(results, name)
				if err != nil {
					return "", err
				}
				return renderer.RenderHistory(h), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Trades",
				Description: "Trades lists the trades of an agent, with their execution price and the portfolio after each trade.",
				Parameters:  agentParameter,
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown table of the trades.",
				},
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				name, err := agentArg(results, args)
				if err != nil {
					return "", err
				}
				t, err := renderer.NewTrades(results, name)
				if err != nil {
					return "", err
				}
				return renderer.RenderTrades(t), nil
			},
		},
	}
}

// agentArg reads the agent argument, tolerating case differences.
func agentArg(results *agentfolio.Results, args map[string]any) (string, error) {
	name, err := stringArg(args, "agent")
	if err != nil {
		return "", err
	}
	if _, ok := results.Agents[name]; ok {
		return name, nil
	}
	for _, known := range results.Names() {
		if strings.EqualFold(known, name) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown agent %q, known agents are %s", name, strings.Join(results.Names(), ", "))
}
