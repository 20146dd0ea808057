package shopify

import (
	"net/url"
	"regexp"
	"strings"
)

// Pagination is the cursor state of one list response. Cursors are only valid
// for the resource that produced them.
type Pagination struct {
	HasNext        bool   `json:"hasNext"`
	HasPrevious    bool   `json:"hasPrevious"`
	NextCursor     string `json:"nextPageInfo,omitempty"`
	PreviousCursor string `json:"previousPageInfo,omitempty"`
}

var linkRe = regexp.MustCompile(`<([^>]+)>;\s*rel="([^"]+)"`)

// ParseLinkHeader reads Shopify's Link header
// (`<https://...?page_info=abc>; rel="next", <...>; rel="previous"`).
// A missing header or marker simply leaves the flag false.
func ParseLinkHeader(header string) Pagination {
	var p Pagination
	if strings.TrimSpace(header) == "" {
		return p
	}
	for _, link := range strings.Split(header, ",") {
		m := linkRe.FindStringSubmatch(link)
		if m == nil {
			continue
		}
		u, err := url.Parse(strings.TrimSpace(m[1]))
		if err != nil {
			continue
		}
		pageInfo := u.Query().Get("page_info")
		if pageInfo == "" {
			continue
		}
		switch m[2] {
		case "next":
			p.HasNext = true
			p.NextCursor = pageInfo
		case "previous":
			p.HasPrevious = true
			p.PreviousCursor = pageInfo
		}
	}
	return p
}
