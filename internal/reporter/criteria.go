package reporter

// Criteria is the projects/search filter block. All fields are optional and
// combined with AND semantics by the upstream; omitted fields must not appear
// in the serialized payload, hence omitempty throughout.
type Criteria struct {
	FiscalYears        []int        `json:"fiscal_years,omitempty"`
	Agencies           []string     `json:"agencies,omitempty"`
	ActivityCodes      []string     `json:"activity_codes,omitempty"`
	OrgNames           []string     `json:"org_names,omitempty"`
	PINames            []PIName     `json:"pi_names,omitempty"`
	ProjectNums        []string     `json:"project_nums,omitempty"`
	ApplIDs            []int64      `json:"appl_ids,omitempty"`
	AdvancedTextSearch *TextSearch  `json:"advanced_text_search,omitempty"`
	AwardAmountRange   *AmountRange `json:"award_amount_range,omitempty"`
	AwardNoticeDate    *DateRange   `json:"award_notice_date,omitempty"`
}

// PIName matches the upstream pi_names filter entry. Either AnyName or the
// LastName/FirstName pair is set, never both.
type PIName struct {
	AnyName   string `json:"any_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
}

// TextSearch is the upstream advanced_text_search block.
type TextSearch struct {
	Operator    string `json:"operator"`
	SearchField string `json:"search_field"`
	SearchText  string `json:"search_text"`
}

// KeywordSearch builds the text search the upstream applies to titles,
// abstracts, and indexed terms.
func KeywordSearch(text string) *TextSearch {
	return &TextSearch{
		Operator:    "and",
		SearchField: "projecttitle,abstracttext,terms",
		SearchText:  text,
	}
}

// AmountRange bounds the award amount. The upstream requires both bounds, so
// callers fill the missing side with 0 or MaxAwardAmount.
type AmountRange struct {
	MinAmount int64 `json:"min_amount"`
	MaxAmount int64 `json:"max_amount"`
}

// MaxAwardAmount is the open upper bound used when only a minimum is supplied.
const MaxAwardAmount = 100_000_000

// DateRange bounds the award notice date, dates formatted YYYY-MM-DD.
type DateRange struct {
	FromDate string `json:"from_date,omitempty"`
	ToDate   string `json:"to_date,omitempty"`
}

// SearchPayload is the full projects/search request body.
type SearchPayload struct {
	Criteria      Criteria `json:"criteria"`
	IncludeFields []string `json:"include_fields,omitempty"`
	Offset        int      `json:"offset"`
	Limit         int      `json:"limit"`
	SortField     string   `json:"sort_field,omitempty"`
	SortOrder     string   `json:"sort_order,omitempty"`
}

// Include-field sets per tool. The upstream returns every available column
// unless narrowed, which bloats responses badly for assistant consumption.
var (
	SearchFields = []string{
		"ApplId", "ProjectNum", "FiscalYear", "Organization",
		"PrincipalInvestigators", "ProjectTitle", "AwardAmount",
		"AwardNoticeDate", "ProjectStartDate", "ProjectEndDate",
		"AbstractText", "AgencyIcAdmin",
	}

	DetailFields = []string{
		"ApplId", "ProjectNum", "FiscalYear", "Organization",
		"OrganizationType", "PrincipalInvestigators", "ProgramOfficers",
		"ProjectTitle", "AbstractText", "PhrText", "AwardAmount",
		"AwardNoticeDate", "ProjectStartDate", "ProjectEndDate",
		"AgencyIcAdmin", "AgencyIcFundings", "ActivityCode",
		"FullStudySection", "DirectCostAmt", "IndirectCostAmt",
		"PrefTerms", "SpendingCategoriesDesc",
	}

	RecentAwardFields = []string{
		"ApplId", "ProjectNum", "FiscalYear", "Organization",
		"PrincipalInvestigators", "ProjectTitle", "AwardAmount",
		"AwardNoticeDate", "AgencyIcAdmin",
	}

	InvestigatorFields = []string{
		"ApplId", "ProjectNum", "FiscalYear", "Organization",
		"PrincipalInvestigators", "ProjectTitle", "AwardAmount",
		"ProjectStartDate", "ProjectEndDate", "AgencyIcAdmin",
	}

	LightFields = []string{
		"ProjectNum", "ProjectTitle", "AwardAmount",
		"AwardNoticeDate", "Organization", "PrincipalInvestigators",
	}

	TrendFields = []string{
		"ProjectNum", "ProjectTitle", "AwardAmount", "AwardNoticeDate",
		"Organization", "AgencyIcAdmin", "ActivityCode", "FiscalYear",
		"PrefTerms",
	}
)
