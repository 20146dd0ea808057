package invoice

import (
	"regexp"
	"strings"
)

// Size tokens recognised in product titles, most specific first:
// 70cm (27.5"), 27.5", 70cm, 100mm, 1m (39.4"), 3ft.
var dimensionPatterns = []string{
	`\d+(?:\.\d+)?cm\s*\([^)]+\)`,
	`\d+(?:\.\d+)?"[^"]*"`,
	`\d+(?:\.\d+)?cm`,
	`\d+(?:\.\d+)?mm`,
	`\d+(?:\.\d+)?m\s*\([^)]+\)`,
	`\d+(?:\.\d+)?ft`,
}

var (
	dimensionRes = compileAll(`(?i)(%s)`)
	suffixRes    = compileAll(`(?i)\s*-\s*%s`)
)

func compileAll(wrap string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(dimensionPatterns))
	for i, p := range dimensionPatterns {
		out[i] = regexp.MustCompile(strings.Replace(wrap, "%s", p, 1))
	}
	return out
}

// ExtractDimensions returns the first size token found in title
func ExtractDimensions(title string) (string, bool) {
	for _, re := range dimensionRes {
		if m := re.FindStringSubmatch(title); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// CleanTitle strips " - <size>" suffixes from title, one pass per pattern.
func CleanTitle(title string) string {
	for _, re := range suffixRes {
		loc := re.FindStringIndex(title)
		if loc == nil {
			continue
		}
		title = title[:loc[0]] + title[loc[1]:]
	}
	return strings.TrimSpace(title)
}

// SplitDimensions cleans title and records its size token under
// meta["dimensions"]. meta is copied, never modified in place.
func SplitDimensions(title string, meta map[string]string) (string, map[string]string) {
	out := make(map[string]string, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	if dims, ok := ExtractDimensions(title); ok {
		out["dimensions"] = dims
	}
	if len(out) == 0 {
		out = nil
	}
	return CleanTitle(title), out
}
