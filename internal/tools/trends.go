package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"nih-reporter-mcp/internal/reporter"
)

// TrendsArgs selects the project population to aggregate over.
type TrendsArgs struct {
	FiscalYears   []int    `json:"fiscal_years,omitempty" jsonschema_description:"Fiscal years to analyze (e.g. [2024, 2025])."`
	Agencies      []string `json:"agencies,omitempty" jsonschema_description:"NIH Institute/Center codes (e.g. [\"NCI\", \"NIDA\"])."`
	ActivityCodes []string `json:"activity_codes,omitempty" jsonschema_description:"Activity codes (e.g. [\"R01\", \"P01\"])."`
	Keywords      string   `json:"keywords,omitempty" jsonschema_description:"Keywords matched against title, abstract, and indexed terms."`
	DateFrom      string   `json:"date_from,omitempty" jsonschema_description:"Start of the award notice date range (YYYY-MM-DD)."`
	DateTo        string   `json:"date_to,omitempty" jsonschema_description:"End of the award notice date range (YYYY-MM-DD)."`
	MaxProjects   int      `json:"max_projects,omitempty" jsonschema_description:"Maximum number of projects to analyze (default 500, capped at 2000)."`
}

const (
	defaultTrendProjects = 500
	maxTrendProjects     = 2000
	trendBatchSize       = reporter.MaxLimit
)

type bucket struct {
	Key      string `json:"key"`
	Projects int    `json:"projects"`
	Funding  int64  `json:"funding"`
}

type orgBucket struct {
	Name     string `json:"name"`
	Projects int    `json:"projects"`
	Funding  int64  `json:"total_funding"`
}

type themeCount struct {
	Word      string `json:"word"`
	Frequency int    `json:"frequency"`
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "as": true, "is": true, "was": true,
	"are": true, "were": true, "been": true, "be": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "can": true,
}

// AnalyzeResearchTrends fetches matching projects in batches and aggregates
// them server-side, so large populations can be summarized without shipping
// every record to the caller.
func AnalyzeResearchTrends(c *reporter.Client) Definition {
	return Definition{
		Name: "analyze_research_trends",
		Description: "Analyze trends across NIH-funded projects matching the given criteria: " +
			"total and average funding, distribution by institute, activity code, and fiscal year, " +
			"top organizations by funding, and the most frequent title words. Designed for " +
			"large-scale analysis that would exceed context limits if done record by record.",
		InputSchema: schemaFor[TrendsArgs](),
		Handler: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args TrendsArgs
			if err := decodeArgs(raw, &args); err != nil {
				return "", err
			}
			criteria, err := trendCriteria(args)
			if err != nil {
				return "", err
			}

			maxProjects := args.MaxProjects
			if maxProjects <= 0 {
				maxProjects = defaultTrendProjects
			}
			if maxProjects > maxTrendProjects {
				maxProjects = maxTrendProjects
			}

			projects, err := fetchBatches(ctx, c, criteria, maxProjects)
			if err != nil {
				return "", err
			}

			report := aggregate(projects, args, maxProjects)
			b, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}
}

func trendCriteria(args TrendsArgs) (reporter.Criteria, error) {
	var c reporter.Criteria
	c.FiscalYears = args.FiscalYears
	c.Agencies = args.Agencies
	c.ActivityCodes = args.ActivityCodes
	if args.Keywords != "" {
		c.AdvancedTextSearch = reporter.KeywordSearch(args.Keywords)
	}
	if args.DateFrom != "" || args.DateTo != "" {
		if err := validDate(args.DateFrom); err != nil {
			return c, err
		}
		if err := validDate(args.DateTo); err != nil {
			return c, err
		}
		c.AwardNoticeDate = &reporter.DateRange{FromDate: args.DateFrom, ToDate: args.DateTo}
	}
	return c, nil
}

// fetchBatches pages through projects/search until maxProjects rows have been
// collected or a short batch signals the end of the result set.
func fetchBatches(ctx context.Context, c *reporter.Client, criteria reporter.Criteria, maxProjects int) ([]gjson.Result, error) {
	var projects []gjson.Result
	for offset := 0; offset < maxProjects; offset += trendBatchSize {
		limit := trendBatchSize
		if remaining := maxProjects - offset; remaining < limit {
			limit = remaining
		}
		body, err := c.SearchProjects(ctx, reporter.SearchPayload{
			Criteria:      criteria,
			IncludeFields: reporter.TrendFields,
			Offset:        offset,
			Limit:         limit,
			SortField:     "award_notice_date",
			SortOrder:     "desc",
		})
		if err != nil {
			return nil, err
		}
		batch := gjson.GetBytes(body, "results").Array()
		if len(batch) == 0 {
			break
		}
		projects = append(projects, batch...)
		if len(batch) < limit {
			break
		}
	}
	return projects, nil
}

func aggregate(projects []gjson.Result, args TrendsArgs, maxProjects int) map[string]any {
	var totalFunding int64
	byAgency := map[string]*bucket{}
	byActivity := map[string]*bucket{}
	byYear := map[string]*bucket{}
	byOrg := map[string]*bucket{}
	titleWords := map[string]int{}

	for _, p := range projects {
		funding := p.Get("award_amount").Int()
		totalFunding += funding

		tally(byAgency, keyOrUnknown(p.Get("agency_ic_admin.code").String()), funding)
		tally(byActivity, keyOrUnknown(p.Get("activity_code").String()), funding)
		tally(byYear, keyOrUnknown(p.Get("fiscal_year").String()), funding)
		tally(byOrg, keyOrUnknown(p.Get("organization.org_name").String()), funding)

		countTitleWords(titleWords, p.Get("project_title").String())
	}

	total := len(projects)
	var average float64
	if total > 0 {
		average = float64(totalFunding) / float64(total)
	}

	return map[string]any{
		"summary": map[string]any{
			"total_projects": total,
			"total_funding":  totalFunding,
			"average_award":  average,
			"date_range": map[string]string{
				"from": orUnspecified(args.DateFrom),
				"to":   orUnspecified(args.DateTo),
			},
		},
		"by_agency":         sortedByFunding(byAgency),
		"by_activity_code":  sortedByFunding(byActivity),
		"by_fiscal_year":    sortedByKey(byYear),
		"top_organizations": topOrganizations(byOrg, 10),
		"common_themes":     commonThemes(titleWords, 20),
		"note":              noteLine(total, maxProjects),
	}
}

func tally(m map[string]*bucket, key string, funding int64) {
	b, ok := m[key]
	if !ok {
		b = &bucket{Key: key}
		m[key] = b
	}
	b.Projects++
	b.Funding += funding
}

func keyOrUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func orUnspecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

func sortedByFunding(m map[string]*bucket) []bucket {
	out := make([]bucket, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Funding != out[j].Funding {
			return out[i].Funding > out[j].Funding
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func sortedByKey(m map[string]*bucket) []bucket {
	out := make([]bucket, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func topOrganizations(m map[string]*bucket, n int) []orgBucket {
	ranked := sortedByFunding(m)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]orgBucket, 0, len(ranked))
	for _, b := range ranked {
		out = append(out, orgBucket{Name: b.Key, Projects: b.Projects, Funding: b.Funding})
	}
	return out
}

// countTitleWords tallies alphanumeric words longer than three characters,
// skipping common stop words.
func countTitleWords(counts map[string]int, title string) {
	for _, word := range strings.Fields(strings.ToLower(title)) {
		var sb strings.Builder
		for _, r := range word {
			if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
				sb.WriteRune(r)
			}
		}
		cleaned := sb.String()
		if len(cleaned) > 3 && !stopWords[cleaned] {
			counts[cleaned]++
		}
	}
}

func commonThemes(counts map[string]int, n int) []themeCount {
	out := make([]themeCount, 0, len(counts))
	for word, freq := range counts {
		out = append(out, themeCount{Word: word, Frequency: freq})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func noteLine(total, maxProjects int) string {
	return fmt.Sprintf("Analysis based on %d projects (requested max: %d)", total, maxProjects)
}
