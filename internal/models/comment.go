package models

import "time"

// Comment is a single scraped comment. Text may be empty and may mix scripts,
// emoji and URLs.
type Comment struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// PostComments holds the scrape result for one post URL. A failed scrape keeps
// the URL with no comments and a non-empty Error.
type PostComments struct {
	PostURL  string    `json:"post_url"`
	Comments []Comment `json:"comments"`
	Error    string    `json:"error,omitempty"`
}

// ResponseRecord is one output row: a classified comment together with the
// resolved reply decision. Records are created once and never mutated.
type ResponseRecord struct {
	PostURL        string    `json:"post_url"`
	Author         string    `json:"author"`
	CommentText    string    `json:"comment_text"`
	Timestamp      time.Time `json:"timestamp"`
	Category       string    `json:"category"`
	ReplyAction    string    `json:"reply_action"`
	SuggestedReply string    `json:"suggested_reply"`
}
