package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/etnz/agentfolio"
	"google.golang.org/genai"
)

func results() *agentfolio.Results {
	return &agentfolio.Results{
		Market:   agentfolio.USDaily,
		Currency: "USD",
		Agents: map[string]*agentfolio.AgentResult{
			"gpt-5": {
				Name:          "gpt-5",
				InitialValue:  agentfolio.M(10000, "USD"),
				CurrentValue:  agentfolio.M(10300, "USD"),
				ReturnPercent: 3,
			},
		},
	}
}

func call(lib Library, name string, args map[string]any) map[string]any {
	return lib(context.Background(), &genai.FunctionCall{ID: "1", Name: name, Args: args}).Response
}

func TestAnalystFunctions(t *testing.T) {
	lib := NewLibrary(AnalystFunctions(results()))

	testCases := []struct {
		name      string
		function  string
		args      map[string]any
		want      string
		wantError string
	}{
		{name: "leaderboard", function: "Leaderboard", want: "| 1 | gpt-5 |"},
		{name: "history", function: "History", args: map[string]any{"agent": "gpt-5"}, want: "# History of gpt-5"},
		{name: "case insensitive", function: "Trades", args: map[string]any{"agent": "GPT-5"}, want: "No trade."},
		{name: "unknown agent", function: "Trades", args: map[string]any{"agent": "claude"}, wantError: "known agents are gpt-5"},
		{name: "missing agent", function: "History", args: map[string]any{}, wantError: "missing argument"},
		{name: "wrong type", function: "History", args: map[string]any{"agent": 3}, wantError: "not a string"},
		{name: "unknown function", function: "Delete", wantError: "unknown function"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := call(lib, tc.function, tc.args)
			if tc.wantError != "" {
				msg, _ := resp["error"].(string)
				if !strings.Contains(msg, tc.wantError) {
					t.Errorf("%s() error = %q, want %q", tc.function, msg, tc.wantError)
				}
				return
			}
			out, _ := resp["output"].(string)
			if !strings.Contains(out, tc.want) {
				t.Errorf("%s() = %q, want it to contain %q", tc.function, out, tc.want)
			}
		})
	}
}

func TestNewDeclaration(t *testing.T) {
	decls := NewDeclaration([]*Expert{NewTrader(), NewAnalyst(results())})
	if len(decls) != 2 || decls[0].Name != "Trader" || decls[1].Name != "Analyst" {
		t.Errorf("NewDeclaration() = %v", decls)
	}
	if got := decls[1].Parameters.Required; len(got) != 1 || got[0] != "question" {
		t.Errorf("expert parameters = %v, want a single question", got)
	}
}
