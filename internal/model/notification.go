package model

import "time"

// Subject type values reported by the notifications API.
const (
	SubjectIssue       = "Issue"
	SubjectPullRequest = "PullRequest"
	SubjectCommit      = "Commit"
	SubjectRelease     = "Release"
	SubjectDiscussion  = "Discussion"
)

// Repository identifies the repository a notification originated from.
type Repository struct {
	// FullName is "owner/name" and is the grouping key for the feed.
	FullName string `json:"full_name"`

	// HTMLURL is the browser link to the repository.
	HTMLURL string `json:"html_url"`
}

// Subject describes the thing a notification is about.
type Subject struct {
	Title string `json:"title"`

	// Type is one of the Subject* constants (or another upstream value).
	Type string `json:"type"`

	// URL is the API URL of the subject.
	URL string `json:"url"`

	// HTMLURL is the browser link derived from URL, empty when unknown.
	HTMLURL string `json:"html_url"`
}

// Notification is one event from the upstream notification source.
// It is immutable once received.
type Notification struct {
	// ID is unique within an account.
	ID string `json:"id"`

	Repository Repository `json:"repository"`
	Subject    Subject    `json:"subject"`

	// Reason is why the account received the notification
	// (e.g. "mention", "review_requested", "subscribed").
	Reason string `json:"reason"`

	Unread     bool       `json:"unread"`
	UpdatedAt  time.Time  `json:"updated_at"`
	LastReadAt *time.Time `json:"last_read_at,omitempty"`

	// RawData holds the original JSON payload from the source.
	RawData string `json:"-"`
}

// RepositoryKey returns the key notifications are grouped under.
func (n Notification) RepositoryKey() string {
	return n.Repository.FullName
}
