package tools

import (
	"context"
	"encoding/json"
	"time"

	"nih-reporter-mcp/internal/reporter"
)

// RecentAwardsArgs configures the lookback search window.
type RecentAwardsArgs struct {
	Days     int      `json:"days,omitempty" jsonschema_description:"Number of days to look back (default 7)."`
	Agencies []string `json:"agencies,omitempty" jsonschema_description:"Optional NIH Institute/Center codes to filter by."`
	Limit    int      `json:"limit,omitempty" jsonschema_description:"Maximum number of results (default 50, capped at 500)."`
}

const (
	defaultRecentDays  = 7
	defaultRecentLimit = 50
)

// recentRange computes the award notice date window ending at now and
// extending back the given number of days.
func recentRange(now time.Time, days int) reporter.DateRange {
	return reporter.DateRange{
		FromDate: now.AddDate(0, 0, -days).Format("2006-01-02"),
		ToDate:   now.Format("2006-01-02"),
	}
}

// SearchRecentAwards finds projects awarded within the last N days.
func SearchRecentAwards(c *reporter.Client) Definition {
	return Definition{
		Name: "search_recent_awards",
		Description: "Search for NIH projects awarded within the last N days, optionally filtered " +
			"by institute/center. Useful for finding the latest funded projects.",
		InputSchema: schemaFor[RecentAwardsArgs](),
		Handler: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args RecentAwardsArgs
			if err := decodeArgs(raw, &args); err != nil {
				return "", err
			}
			if args.Days < 0 {
				return "", argErrorf("days must be a positive integer")
			}
			days := args.Days
			if days == 0 {
				days = defaultRecentDays
			}
			window := recentRange(time.Now(), days)
			limit := clampLimit(args.Limit, defaultRecentLimit)

			body, err := c.SearchProjects(ctx, reporter.SearchPayload{
				Criteria: reporter.Criteria{
					Agencies:        args.Agencies,
					AwardNoticeDate: &window,
				},
				IncludeFields: reporter.RecentAwardFields,
				Offset:        0,
				Limit:         limit,
				SortField:     "award_notice_date",
				SortOrder:     "desc",
			})
			if err != nil {
				return "", err
			}
			return renderResult(searchSummary(body, 0, limit), body)
		},
	}
}
