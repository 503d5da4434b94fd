package pagination

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Link describes a sibling-page relation for a paginated listing.
type Link struct {
	Rel string `json:"rel"`
	URL string `json:"url"`
}

// TotalPages returns the number of pages needed for totalCount rows.
func TotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

// Links computes prev/next relations for the current page. It returns nil
// when a single page holds every result. Each relation carries baseURL with
// its page query parameter rewritten.
func Links(page, totalPages int, baseURL string) []Link {
	if totalPages <= 1 {
		return nil
	}
	if page < 1 {
		page = 1
	}

	var links []Link
	if page > 1 {
		links = append(links, Link{Rel: "prev", URL: withPage(baseURL, page-1)})
	}
	if page < totalPages {
		links = append(links, Link{Rel: "next", URL: withPage(baseURL, page+1)})
	}
	return links
}

// FormatLinkHeader renders relations as an RFC 5988 Link header value.
func FormatLinkHeader(links []Link) string {
	if len(links) == 0 {
		return ""
	}
	parts := make([]string, 0, len(links))
	for _, link := range links {
		parts = append(parts, fmt.Sprintf("<%s>; rel=%q", link.URL, link.Rel))
	}
	return strings.Join(parts, ", ")
}

func withPage(baseURL string, page int) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
