// Package ruleset turns raw uploaded guide rows into an ordered list of reply
// rules and resolves classified categories against that list.
package ruleset

import (
	"strings"

	"fbresponse/internal/models"
)

// fieldAliases maps each logical rule field to the accepted column headers,
// consulted in order; the first present non-empty value wins. The upload
// sheets mix Chinese and English headers in several casings.
var fieldAliases = []struct {
	field   string
	aliases []string
}{
	{"category", []string{"類型", "Type", "type", "category", "Category"}},
	{"example", []string{"範例", "Example", "example", "sample", "Sample"}},
	{"reply_action", []string{"回覆種類", "Reply Type", "replyType", "response_type", "ResponseType"}},
	{"template", []string{"回覆範本", "Reply Template", "template", "response", "Response"}},
}

// RejectedRow records a dropped input row and which fields were missing.
type RejectedRow struct {
	Index   int      `json:"index"` // zero-based position in the input
	Missing []string `json:"missing"`
}

// Result is the outcome of normalizing a raw row set. Zero valid rules is not
// an error: entirely blank or unusable rows are expected in real uploads.
type Result struct {
	Rules    []models.Rule `json:"rules"`
	Rejected []RejectedRow `json:"rejected"`
}

// Normalize validates and filters raw rows into ordered reply rules. A row is
// kept only when all four fields resolve to non-empty values after trimming;
// partial rows are dropped, never partially accepted. Input order is
// preserved.
func Normalize(rows []map[string]string) Result {
	res := Result{Rules: make([]models.Rule, 0, len(rows))}

	for i, row := range rows {
		values := make(map[string]string, len(fieldAliases))
		var missing []string

		for _, fa := range fieldAliases {
			v := resolveField(row, fa.aliases)
			if v == "" {
				missing = append(missing, fa.field)
				continue
			}
			values[fa.field] = v
		}

		if len(missing) > 0 {
			res.Rejected = append(res.Rejected, RejectedRow{Index: i, Missing: missing})
			continue
		}

		res.Rules = append(res.Rules, models.Rule{
			Category:    values["category"],
			Example:     values["example"],
			ReplyAction: values["reply_action"],
			Template:    values["template"],
		})
	}

	return res
}

func resolveField(row map[string]string, aliases []string) string {
	for _, alias := range aliases {
		if v := strings.TrimSpace(row[alias]); v != "" {
			return v
		}
	}
	return ""
}
