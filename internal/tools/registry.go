package tools

import "nih-reporter-mcp/internal/reporter"

// Registry returns every tool definition wired against the given client.
func Registry(c *reporter.Client) []Definition {
	return []Definition{
		SearchProjects(c),
		GetProjectDetails(c),
		SearchRecentAwards(c),
		SearchByInvestigator(c),
		GetSpendingCategories(),
		SearchProjectsLight(c),
		AnalyzeResearchTrends(c),
	}
}
