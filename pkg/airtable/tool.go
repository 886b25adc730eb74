package airtable

import (
	"context"

	"github.com/germanamz/calcmcp/pkg/tools/envelope"
	"github.com/germanamz/calcmcp/pkg/tools/schema"
	"github.com/germanamz/calcmcp/pkg/tools/toolbox"
)

// ToolName is the name of the query tool.
const ToolName = "airtable_query"

// Tool returns the airtable_query tool backed by c.
func (c *Client) Tool() toolbox.Tool {
	return toolbox.Tool{
		Name:        ToolName,
		Description: "Query records from an Airtable table.",
		Params: schema.Params{
			schema.StringParam("baseId").Describe("Airtable base ID (e.g., appBuiwwwXnKKzCY7)"),
			schema.StringParam("tableName").Describe("Name of the table to query"),
			schema.NumberParam("maxRecords").Optional().Describe("Maximum number of records to return"),
			schema.StringParam("view").Optional().Describe("Name of the view to use"),
			schema.StringArrayParam("fields").Optional().Describe("Specific fields to return"),
			schema.StringParam("filterByFormula").Optional().Describe("Airtable formula to filter records"),
		},
		Handler: c.handleQuery,
	}
}

func paramsFromArgs(args schema.Args) ListParams {
	p := ListParams{
		BaseID:    args.String("baseId"),
		TableName: args.String("tableName"),
	}

	if n, ok := args.LookupNumber("maxRecords"); ok {
		p.MaxRecords = &n
	}
	if s, ok := args.LookupString("view"); ok {
		p.View = &s
	}
	if f, ok := args.LookupStrings("fields"); ok {
		p.Fields = f
	}
	if s, ok := args.LookupString("filterByFormula"); ok {
		p.FilterByFormula = &s
	}

	return p
}

// handleQuery never returns an error: every failure, including a missing
// token, becomes a failed outcome.
func (c *Client) handleQuery(ctx context.Context, args schema.Args) (envelope.Outcome, error) {
	data, err := c.ListRecords(ctx, paramsFromArgs(args))
	if err != nil {
		return envelope.Failure(err.Error()), nil
	}

	text, err := prettyJSON(data)
	if err != nil {
		return envelope.Failuref("airtable: format response: %v", err), nil
	}

	return envelope.Success(text), nil
}
