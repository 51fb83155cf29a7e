package prs

import "regexp"

var (
	// Explicit marker preferred
	prMarkerRe = regexp.MustCompile(`(?mi)^PR_URL:\s+(https://github\.com/[^\s]+/pull/\d+)\b`)
	// Fallback: any GitHub PR URL in text
	prURLRe = regexp.MustCompile(`https://github\.com/[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+/pull/\d+`)
)

// ExtractPRURL pulls a GitHub pull request URL out of free-form tool
// output, preferring an explicit PR_URL marker line.
func ExtractPRURL(s string) string {
	if s == "" {
		return ""
	}
	if m := prMarkerRe.FindStringSubmatch(s); len(m) == 2 {
		return m[1]
	}
	if url := prURLRe.FindString(s); url != "" {
		return url
	}
	return ""
}
