package tools

import (
	"context"
	"encoding/json"
)

// SpendingCategory is one RCDC spending category code/name pair.
type SpendingCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Representative subset of the ~300 RCDC categories; the full list lives in
// the NIH Data Elements documentation.
var spendingCategories = []SpendingCategory{
	{ID: 31, Name: "Aging"},
	{ID: 40, Name: "Alzheimer's Disease"},
	{ID: 132, Name: "Cancer"},
	{ID: 174, Name: "Clinical Research"},
	{ID: 224, Name: "Diabetes"},
	{ID: 246, Name: "Genetics"},
	{ID: 284, Name: "HIV/AIDS"},
	{ID: 317, Name: "Infectious Diseases"},
	{ID: 349, Name: "Mental Health"},
	{ID: 397, Name: "Neurosciences"},
}

// GetSpendingCategories returns the static category listing; no upstream call
// is made.
func GetSpendingCategories() Definition {
	return Definition{
		Name: "get_spending_categories",
		Description: "List NIH spending category codes and names used to categorize research " +
			"projects (RCDC categories).",
		InputSchema: schemaFor[struct{}](),
		Handler: func(_ context.Context, _ json.RawMessage) (string, error) {
			out := map[string]any{
				"message":       "Spending categories are used to categorize NIH research projects",
				"note":          "Use spending category IDs to interpret SpendingCategoriesDesc fields in project records",
				"examples":      spendingCategories,
				"documentation": "See the NIH Data Elements documentation for the complete list of ~300 categories",
			}
			b, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}
}
