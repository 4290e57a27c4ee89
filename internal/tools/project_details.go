package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"nih-reporter-mcp/internal/reporter"
)

// ProjectDetailsArgs identifies a single project. ApplID is a pointer so a
// genuine 0 can be told apart from "not supplied".
type ProjectDetailsArgs struct {
	ProjectNum string `json:"project_num,omitempty" jsonschema_description:"Full project number (e.g. \"5R01CA123456-05\"). Provide either project_num or appl_id, not both."`
	ApplID     *int64 `json:"appl_id,omitempty" jsonschema_description:"Application ID. Provide either project_num or appl_id, not both."`
}

// GetProjectDetails fetches the full record for one project.
func GetProjectDetails(c *reporter.Client) Definition {
	return Definition{
		Name: "get_project_details",
		Description: "Get detailed information about a specific NIH project by project number or " +
			"application ID: investigators, organization, funding amounts and dates, abstract, " +
			"public health relevance, study section, and cost breakdown.",
		InputSchema: schemaFor[ProjectDetailsArgs](),
		Handler: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args ProjectDetailsArgs
			if err := decodeArgs(raw, &args); err != nil {
				return "", err
			}

			hasNum := args.ProjectNum != ""
			hasID := args.ApplID != nil
			switch {
			case hasNum && hasID:
				return "", argErrorf("provide either project_num or appl_id, not both")
			case !hasNum && !hasID:
				return "", argErrorf("either project_num or appl_id must be provided")
			}

			var criteria reporter.Criteria
			var ident string
			if hasNum {
				criteria.ProjectNums = []string{args.ProjectNum}
				ident = args.ProjectNum
			} else {
				criteria.ApplIDs = []int64{*args.ApplID}
				ident = fmt.Sprintf("appl_id %d", *args.ApplID)
			}

			body, err := c.SearchProjects(ctx, reporter.SearchPayload{
				Criteria:      criteria,
				IncludeFields: reporter.DetailFields,
				Offset:        0,
				Limit:         1,
			})
			if err != nil {
				return "", err
			}
			results := gjson.GetBytes(body, "results")
			if !results.Exists() && !gjson.GetBytes(body, "meta").Exists() {
				return "", &reporter.FormatError{Detail: "response lacks the expected results field"}
			}
			if len(results.Array()) == 0 {
				return "", fmt.Errorf("%w: %s", ErrNotFound, ident)
			}
			return renderResult("", body)
		},
	}
}
