package models

import "time"

// Run represents one processing run stored in the 'runs' table.
type Run struct {
	ID            string    `db:"id" json:"id"`
	FileName      string    `db:"file_name" json:"file_name"`
	TotalComments int       `db:"total_comments" json:"total_comments"`
	TotalPosts    int       `db:"total_posts" json:"total_posts"`
	FailedPosts   int       `db:"failed_posts" json:"failed_posts"`
	Status        string    `db:"status" json:"status"` // "completed" or "failed"
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
