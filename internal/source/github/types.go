package github

import "time"

// Thread is a notification thread as returned by GET /notifications.
type Thread struct {
	ID         string     `json:"id"`
	Unread     bool       `json:"unread"`
	Reason     string     `json:"reason"`
	UpdatedAt  time.Time  `json:"updated_at"`
	LastReadAt *time.Time `json:"last_read_at"`
	Subject    Subject    `json:"subject"`
	Repository Repository `json:"repository"`
	URL        string     `json:"url"`
}

// Subject is the issue, pull request, commit or release a thread is about.
type Subject struct {
	Title            string `json:"title"`
	URL              string `json:"url"`
	LatestCommentURL string `json:"latest_comment_url"`
	Type             string `json:"type"`
}

// Repository is the minimal repository object embedded in a thread.
type Repository struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Private  bool   `json:"private"`
	HTMLURL  string `json:"html_url"`
	Owner    User   `json:"owner"`
}

// User represents a GitHub account.
type User struct {
	Login string `json:"login"`
	Name  string `json:"name,omitempty"`
}

// ErrorResponse is the GitHub error response format.
type ErrorResponse struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
}
