package sql

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrQueryRejected marks a query refused by the read-only gate.
var ErrQueryRejected = errors.New("query rejected")

var (
	lineCommentRe  = regexp.MustCompile(`--.*`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	forbiddenRe    = regexp.MustCompile(`\b(INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|TRUNCATE|GRANT|REVOKE|EXEC|EXECUTE)\b`)
)

// Validate enforces the read-only contract: the statement must start with
// SELECT or WITH and must not contain mutating keywords. Comments are
// stripped first so they cannot hide either check.
func Validate(query string) error {
	stripped := lineCommentRe.ReplaceAllString(query, "")
	stripped = blockCommentRe.ReplaceAllString(stripped, "")

	upper := strings.ToUpper(strings.TrimSpace(stripped))
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return fmt.Errorf("%w: only SELECT queries are allowed", ErrQueryRejected)
	}
	if kw := forbiddenRe.FindString(upper); kw != "" {
		return fmt.Errorf("%w: forbidden keyword %s", ErrQueryRejected, kw)
	}
	return nil
}
