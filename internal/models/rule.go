package models

// Rule is one row of the operator-supplied reply guide. Rows keep the order
// they had in the uploaded sheet; that order is the resolver's priority order.
type Rule struct {
	Category    string `json:"category"`
	Example     string `json:"example"`
	ReplyAction string `json:"reply_action"`
	Template    string `json:"template"`
}
