package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	slugStrip    = regexp.MustCompile(`[^\w\s]`)
	slugSpaceRun = regexp.MustCompile(`\s+`)
)

// Slugify builds the stable URL slug for a post: lower-cased title with
// everything but word characters and whitespace stripped, whitespace runs
// collapsed to single hyphens, truncated to 100 chars, then the generated
// id appended. Deterministic for a given (title, id) pair.
func Slugify(title string, id uint) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = slugSpaceRun.ReplaceAllString(s, "-")
	if len(s) > 100 {
		s = s[:100]
	}
	return fmt.Sprintf("%s-%d", s, id)
}
