package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/notifeed/internal/model"
)

// SourceType identifies the kind of notification source.
type SourceType string

const (
	SourceTypeGitHub SourceType = "github"
)

// AuthError indicates that authentication has failed or expired for a source.
// It is returned by source clients when a 401 response is received.
type AuthError struct {
	SourceType SourceType
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.SourceType, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// FetchError is the generic failure for a page fetch: transport problems,
// unexpected statuses and undecodable payloads all end up here.
type FetchError struct {
	// Op names the request, e.g. "GET /notifications".
	Op string

	// Status is the HTTP status code, 0 when no response was received.
	Status int

	Err error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Page is one bounded batch of notifications, in server order.
type Page struct {
	Records []model.Notification

	// Page is the 1-based index of this page.
	Page int
}

// Source defines the contract a notification source must implement.
type Source interface {
	// Type returns the source type identifier.
	Type() SourceType

	// ValidateConnection verifies credentials and connectivity.
	// Returns the account's display name on success.
	ValidateConnection(ctx context.Context) (string, error)

	// FetchPage retrieves one page of notifications for a filter.
	FetchPage(ctx context.Context, filter model.Filter, page int) (*Page, error)
}
