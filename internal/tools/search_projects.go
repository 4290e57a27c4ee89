package tools

import (
	"context"
	"encoding/json"
	"time"

	"nih-reporter-mcp/internal/reporter"
)

// SearchProjectsArgs covers the full search surface. Every field is optional;
// only supplied fields end up in the outbound criteria.
type SearchProjectsArgs struct {
	FiscalYears   []int    `json:"fiscal_years,omitempty" jsonschema_description:"Fiscal years to search (e.g. [2024, 2025])."`
	Agencies      []string `json:"agencies,omitempty" jsonschema_description:"NIH Institute/Center codes (e.g. [\"NCI\", \"NIDA\"])."`
	ActivityCodes []string `json:"activity_codes,omitempty" jsonschema_description:"Activity codes (e.g. [\"R01\", \"P01\"])."`
	OrgNames      []string `json:"org_names,omitempty" jsonschema_description:"Organization names to search."`
	PINames       string   `json:"pi_names,omitempty" jsonschema_description:"Principal investigator name (matched against any name part)."`
	ProjectNums   []string `json:"project_nums,omitempty" jsonschema_description:"Specific project numbers."`
	Keywords      string   `json:"keywords,omitempty" jsonschema_description:"Keywords matched against title, abstract, and indexed terms."`
	MinAmount     int64    `json:"min_amount,omitempty" jsonschema_description:"Minimum award amount in dollars."`
	MaxAmount     int64    `json:"max_amount,omitempty" jsonschema_description:"Maximum award amount in dollars."`
	DateFrom      string   `json:"date_from,omitempty" jsonschema_description:"Start of the award notice date range (YYYY-MM-DD)."`
	DateTo        string   `json:"date_to,omitempty" jsonschema_description:"End of the award notice date range (YYYY-MM-DD)."`
	Limit         int      `json:"limit,omitempty" jsonschema_description:"Maximum number of results (default 25, capped at 500 by the API)."`
	Offset        int      `json:"offset,omitempty" jsonschema_description:"Result offset for pagination (default 0)."`
}

const defaultSearchLimit = 25

// criteria maps the supplied arguments onto the upstream filter block.
// Absent arguments stay absent; they are never sent as null or zero.
func (a SearchProjectsArgs) criteria() (reporter.Criteria, error) {
	var c reporter.Criteria
	c.FiscalYears = a.FiscalYears
	c.Agencies = a.Agencies
	c.ActivityCodes = a.ActivityCodes
	c.OrgNames = a.OrgNames
	c.ProjectNums = a.ProjectNums

	if a.PINames != "" {
		c.PINames = []reporter.PIName{{AnyName: a.PINames}}
	}
	if a.Keywords != "" {
		c.AdvancedTextSearch = reporter.KeywordSearch(a.Keywords)
	}
	if a.MinAmount < 0 || a.MaxAmount < 0 {
		return c, argErrorf("award amounts must not be negative")
	}
	if a.MinAmount > 0 || a.MaxAmount > 0 {
		r := &reporter.AmountRange{MinAmount: a.MinAmount, MaxAmount: a.MaxAmount}
		if r.MaxAmount == 0 {
			r.MaxAmount = reporter.MaxAwardAmount
		}
		if r.MinAmount > r.MaxAmount {
			return c, argErrorf("min_amount %d exceeds max_amount %d", r.MinAmount, r.MaxAmount)
		}
		c.AwardAmountRange = r
	}
	if a.DateFrom != "" || a.DateTo != "" {
		if err := validDate(a.DateFrom); err != nil {
			return c, err
		}
		if err := validDate(a.DateTo); err != nil {
			return c, err
		}
		c.AwardNoticeDate = &reporter.DateRange{FromDate: a.DateFrom, ToDate: a.DateTo}
	}
	return c, nil
}

func validDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return argErrorf("date %q is not in YYYY-MM-DD form", s)
	}
	return nil
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > reporter.MaxLimit {
		return reporter.MaxLimit
	}
	return limit
}

func searchWith(c *reporter.Client, fields []string) func(ctx context.Context, raw json.RawMessage) (string, error) {
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		var args SearchProjectsArgs
		if err := decodeArgs(raw, &args); err != nil {
			return "", err
		}
		criteria, err := args.criteria()
		if err != nil {
			return "", err
		}
		limit := clampLimit(args.Limit, defaultSearchLimit)
		offset := args.Offset
		if offset < 0 {
			offset = 0
		}
		body, err := c.SearchProjects(ctx, reporter.SearchPayload{
			Criteria:      criteria,
			IncludeFields: fields,
			Offset:        offset,
			Limit:         limit,
			SortField:     "award_notice_date",
			SortOrder:     "desc",
		})
		if err != nil {
			return "", err
		}
		return renderResult(searchSummary(body, offset, limit), body)
	}
}

// SearchProjects searches NIH-funded projects by any combination of filters.
func SearchProjects(c *reporter.Client) Definition {
	return Definition{
		Name: "search_projects",
		Description: "Search for NIH-funded research projects by fiscal year, institute/center, " +
			"activity code, organization, principal investigator, project number, award amount range, " +
			"award notice date range, or keywords. Returns detailed project information including " +
			"funding, investigators, and abstracts.",
		InputSchema: schemaFor[SearchProjectsArgs](),
		Handler:     searchWith(c, reporter.SearchFields),
	}
}

// SearchProjectsLight is the same search with a minimal include-field set,
// for callers that need many rows but only headline data.
func SearchProjectsLight(c *reporter.Client) Definition {
	return Definition{
		Name: "search_projects_light",
		Description: "Lightweight variant of search_projects returning only project number, title, " +
			"award amount, award notice date, organization, and principal investigators. " +
			"Use it when processing many results or when basic fields are enough.",
		InputSchema: schemaFor[SearchProjectsArgs](),
		Handler:     searchWith(c, reporter.LightFields),
	}
}
