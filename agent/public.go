package agent

import (
	"context"
	"fmt"
	"strings"

	tracker "github.com/rohanveit/monzo-tracker"
	"github.com/rohanveit/monzo-tracker/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand his spending: where the money went, how a month
			compares to the others, and what the projected balance looks like.

			Devise a plan of questions to ask each expert and come up with the best response to the user's request.

			The user will assume that you know about his workbook, check it first to understand what is in it.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst returns an expert with access to Google Search, for questions
// about merchants, price changes and anything outside the workbook.
func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is an analyst,
		well aware of retailers, banks and subscription services,
		and of the latest news about them.
		Ask the Analyst whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an analyst of consumer finance. You can search and find about anything related
			to merchants, retailers, banks, subscription services and prices. You leverage Google
			Search to ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewBookkeeper returns the expert in charge of reading the user's workbook
// at the given path.
func NewBookkeeper(path string) *Expert {
	lib := []Function{listSheets(path), showSheet(path)}

	return &Expert{
		Name: "Bookkeeper",
		Description: `This is the Bookkeeper. He is in charge of reading the user's transaction workbook.
		He can list its sheets and report the content of any monthly sheet or yearly overview,
		including category subtotals, net change and running balance.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a bookkeeper in charge of the user's transaction workbook.
				You know how to use the Tools to extract relevant information about the user's spending.
				You are part of a team of experts, yours is everything about the user's workbook. They might
				ask you questions about it, pardon their approximative language and figure out what they meant.

				Use the available tools to get information about the workbook
				  - list of sheets with closing balances
				  - a monthly sheet's transactions, subtotals and running balance
				  - a yearly overview with its projections
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func errResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

func listSheets(path string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "ListSheets",
			Description: `ListSheets lists all sheets in the workbook, in workbook order,
			with each sheet's closing balance.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of the workbook's sheets.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			store, err := tracker.LoadStore(path)
			if err != nil {
				return errResponse(id, "ListSheets", err)
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "ListSheets",
				Response: map[string]any{
					"output": renderer.WorkbookMarkdown(store),
				},
			}
		},
	}
}

func showSheet(path string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "ShowSheet",
			Description: `ShowSheet reports the full content of one sheet of the workbook.
			A monthly sheet like "January 2026" lists every transaction grouped by category,
			a yearly overview like "2026 Overview" shows the category-by-month table with projections.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name": {
						Type:        genai.TypeString,
						Description: `The sheet name, like "January 2026" or "2026 Overview".`,
					},
				},
				Required: []string{"name"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The sheet rendered as markdown.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			name, ok := args["name"].(string)
			if !ok {
				return errResponse(id, "ShowSheet", fmt.Errorf("argument 'name' is not a string as expected but %T", args["name"]))
			}
			store, err := tracker.LoadStore(path)
			if err != nil {
				return errResponse(id, "ShowSheet", err)
			}
			sheet := store.Sheet(name)
			if sheet == nil {
				return errResponse(id, "ShowSheet", fmt.Errorf("no sheet named %q in the workbook", name))
			}
			var out string
			if strings.HasSuffix(name, " Overview") {
				out = renderer.OverviewMarkdown(sheet)
			} else {
				out = renderer.MonthMarkdown(sheet)
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "ShowSheet",
				Response: map[string]any{
					"output": out,
				},
			}
		},
	}
}
