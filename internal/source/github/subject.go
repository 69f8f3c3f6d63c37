package github

import (
	"regexp"
	"strconv"
	"strings"
)

// subjectPathPattern matches the tail of a subject API URL, e.g.
// .../repos/octo/hello/pulls/12 or .../repos/octo/hello/commits/abc123.
var subjectPathPattern = regexp.MustCompile(
	`/repos/[^/]+/[^/]+/(pulls|issues|commits|releases)/([^/?#]+)$`,
)

// SubjectHTMLURL converts a subject API URL into its browser URL, rooted
// at the repository's html_url. Unknown shapes fall back to the
// repository page; an empty repository URL yields "".
func SubjectHTMLURL(repoHTMLURL, subjectAPIURL, subjectType string) string {
	repo := strings.TrimRight(repoHTMLURL, "/")
	if repo == "" {
		return ""
	}

	m := subjectPathPattern.FindStringSubmatch(subjectAPIURL)
	if m == nil {
		if subjectType == "Discussion" {
			return repo + "/discussions"
		}
		return repo
	}

	kind, ref := m[1], m[2]
	switch kind {
	case "pulls":
		return repo + "/pull/" + ref
	case "issues":
		return repo + "/issues/" + ref
	case "commits":
		return repo + "/commit/" + ref
	default:
		// Release API URLs carry a numeric ID, not the tag.
		return repo + "/releases"
	}
}

// SubjectNumber returns the issue or pull request number from a subject
// API URL, or 0 when the subject is not numbered.
func SubjectNumber(subjectAPIURL string) int {
	m := subjectPathPattern.FindStringSubmatch(subjectAPIURL)
	if m == nil || (m[1] != "pulls" && m[1] != "issues") {
		return 0
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return 0
	}
	return n
}
