package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/1broseidon/fakeos/internal/browser"
)

// MockResults returns the canned results the search endpoint serves for
// query.
func MockResults(query string) []browser.SearchResult {
	return []browser.SearchResult{
		{
			Title:   fmt.Sprintf(`Search results for "%s"`, query),
			URL:     "https://www.google.com/search?q=" + quote(query),
			Snippet: fmt.Sprintf(`About 1,000,000 results for "%s" (0.45 seconds)`, query),
		},
		{
			Title:   "First Result for " + query,
			URL:     "https://example.com/first-result-" + query,
			Snippet: fmt.Sprintf(`This is the first search result for "%s". It contains relevant information about the search term.`, query),
		},
		{
			Title:   "Second Result for " + query,
			URL:     "https://example.com/second-result-" + query,
			Snippet: fmt.Sprintf(`Another relevant result for "%s". This provides additional information and context.`, query),
		},
		{
			Title:   "Third Result for " + query,
			URL:     "https://example.com/third-result-" + query,
			Snippet: fmt.Sprintf(`The third search result for "%s". More information and details about the topic.`, query),
		},
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "No search query provided")
		return
	}
	writeJSON(w, http.StatusOK, browser.SearchResponse{Results: MockResults(query)})
}

// quote percent-encodes everything except unreserved characters and "/".
func quote(s string) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			c == '_', c == '.', c == '-', c == '~', c == '/':
			sb.WriteByte(c)
		default:
			sb.WriteByte('%')
			sb.WriteByte(hex[c>>4])
			sb.WriteByte(hex[c&15])
		}
	}
	return sb.String()
}
