package ruleset

import (
	"strings"

	"fbresponse/internal/classifier"
	"fbresponse/internal/models"
)

// Sentinel decision returned when no rule matches a classified category. The
// literals are what ends up in the exported sheet, so they must stay
// distinguishable from any real template text.
const (
	NoReplyAction = "不回覆"
	NoMatchReply  = "無匹配回覆"
)

// Decision is the resolved reply for one classified comment.
type Decision struct {
	ReplyAction    string `json:"reply_action"`
	SuggestedReply string `json:"suggested_reply"`
}

// Resolve scans rules in table order and returns the decision of the first
// rule whose category equals the classified label or contains it as a
// substring (operator shorthand like "A/A2" matches "A"). Table order is a
// priority order: when several rules match, the earliest wins. No match
// degrades to the sentinel decision; Resolve never fails.
func Resolve(category classifier.Category, rules []models.Rule) Decision {
	label := string(category)
	for _, rule := range rules {
		if rule.Category == label || strings.Contains(rule.Category, label) {
			return Decision{ReplyAction: rule.ReplyAction, SuggestedReply: rule.Template}
		}
	}
	return Decision{ReplyAction: NoReplyAction, SuggestedReply: NoMatchReply}
}
