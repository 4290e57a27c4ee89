package tools

import (
	"context"
	"encoding/json"

	"nih-reporter-mcp/internal/reporter"
)

// InvestigatorArgs searches by principal investigator name, with optional
// narrowing filters to disambiguate common names.
type InvestigatorArgs struct {
	Name          string   `json:"name" jsonschema_description:"Principal investigator name, matched against any name part."`
	FiscalYears   []int    `json:"fiscal_years,omitempty" jsonschema_description:"Optional fiscal years to narrow the search."`
	Agencies      []string `json:"agencies,omitempty" jsonschema_description:"Optional NIH Institute/Center codes to narrow the search."`
	ActivityCodes []string `json:"activity_codes,omitempty" jsonschema_description:"Optional activity codes to narrow the search."`
	Limit         int      `json:"limit,omitempty" jsonschema_description:"Maximum number of results (default 25, capped at 500)."`
}

const defaultInvestigatorLimit = 25

// SearchByInvestigator lists all projects naming the person as a PI.
func SearchByInvestigator(c *reporter.Client) Definition {
	return Definition{
		Name: "search_by_investigator",
		Description: "Search for all NIH-funded projects where the named person is listed as a " +
			"principal investigator. Fiscal year, institute, and activity code filters can narrow " +
			"results for common names.",
		InputSchema: schemaFor[InvestigatorArgs](),
		Handler: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args InvestigatorArgs
			if err := decodeArgs(raw, &args); err != nil {
				return "", err
			}
			if args.Name == "" {
				return "", argErrorf("name is required")
			}
			limit := clampLimit(args.Limit, defaultInvestigatorLimit)

			body, err := c.SearchProjects(ctx, reporter.SearchPayload{
				Criteria: reporter.Criteria{
					PINames:       []reporter.PIName{{AnyName: args.Name}},
					FiscalYears:   args.FiscalYears,
					Agencies:      args.Agencies,
					ActivityCodes: args.ActivityCodes,
				},
				IncludeFields: reporter.InvestigatorFields,
				Offset:        0,
				Limit:         limit,
				SortField:     "project_start_date",
				SortOrder:     "desc",
			})
			if err != nil {
				return "", err
			}
			return renderResult(searchSummary(body, 0, limit), body)
		},
	}
}
