package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nhle/notifeed/internal/model"
	"github.com/nhle/notifeed/internal/source"
)

// Adapter implements source.Source for the GitHub notifications API.
type Adapter struct {
	client    *Client
	pageLimit int
}

// NewAdapter creates a new GitHub source adapter that requests pages of
// pageLimit notifications.
func NewAdapter(baseURL, token string, pageLimit int) *Adapter {
	if pageLimit < 1 {
		pageLimit = model.DefaultPageLimit
	}
	return &Adapter{
		client:    NewClient(baseURL, token),
		pageLimit: pageLimit,
	}
}

// Type returns the source type identifier for GitHub.
func (a *Adapter) Type() source.SourceType {
	return source.SourceTypeGitHub
}

// ValidateConnection verifies the token by fetching the authenticated user.
func (a *Adapter) ValidateConnection(ctx context.Context) (string, error) {
	var user User
	if _, err := a.client.Get(ctx, "/user", &user); err != nil {
		return "", fmt.Errorf("validating GitHub connection: %w", err)
	}

	if user.Login == "" {
		return "", fmt.Errorf("/user returned empty login; token may be invalid")
	}
	return user.Login, nil
}

// FetchPage retrieves one page of notification threads for the filter.
func (a *Adapter) FetchPage(
	ctx context.Context,
	filter model.Filter,
	page int,
) (*source.Page, error) {
	if page < 1 {
		return nil, fmt.Errorf("invalid page %d: pages start at 1", page)
	}

	path := "/notifications?" + notificationsQuery(filter, page, a.pageLimit).Encode()

	var threads []Thread
	if _, err := a.client.Get(ctx, path, &threads); err != nil {
		return nil, fmt.Errorf("fetching %s notifications page %d: %w", filter, page, err)
	}

	records := make([]model.Notification, 0, len(threads))
	for _, t := range threads {
		records = append(records, threadToNotification(t))
	}

	return &source.Page{Records: records, Page: page}, nil
}

// notificationsQuery maps a feed filter onto the API's all/participating
// switches. The three filters are disjoint queries, not a shared cursor.
func notificationsQuery(filter model.Filter, page, perPage int) url.Values {
	q := url.Values{}
	switch filter {
	case model.FilterAll:
		q.Set("all", "true")
		q.Set("participating", "false")
	case model.FilterParticipating:
		q.Set("all", "false")
		q.Set("participating", "true")
	default:
		q.Set("all", "false")
		q.Set("participating", "false")
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	return q
}

// threadToNotification converts an API thread to a model.Notification.
func threadToNotification(t Thread) model.Notification {
	rawData, _ := json.Marshal(t)

	repoURL := t.Repository.HTMLURL
	if repoURL == "" && t.Repository.FullName != "" {
		repoURL = "https://github.com/" + t.Repository.FullName
	}

	return model.Notification{
		ID: t.ID,
		Repository: model.Repository{
			FullName: t.Repository.FullName,
			HTMLURL:  repoURL,
		},
		Subject: model.Subject{
			Title:   strings.TrimSpace(t.Subject.Title),
			Type:    t.Subject.Type,
			URL:     t.Subject.URL,
			HTMLURL: SubjectHTMLURL(repoURL, t.Subject.URL, t.Subject.Type),
		},
		Reason:     t.Reason,
		Unread:     t.Unread,
		UpdatedAt:  t.UpdatedAt,
		LastReadAt: t.LastReadAt,
		RawData:    string(rawData),
	}
}
