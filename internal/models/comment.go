package models

import "time"

// Comment represents a comment on an issue
type Comment struct {
	ID        int
	IssueID   int
	Author    string
	Text      string
	CreatedAt time.Time
}
