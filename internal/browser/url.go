package browser

import (
	"net/url"
	"strings"
)

// HomeURL is the page every new tab starts on.
const HomeURL = "https://www.google.com"

// Target is what an address bar entry resolves to.
type Target struct {
	// URL is the page to show. For searches it is the search page URL.
	URL string
	// Query is set when the entry is a search.
	Query string
}

// IsSearch reports whether the entry resolved to a search.
func (t Target) IsSearch() bool { return t.Query != "" }

// Resolve interprets an address bar entry. URLs with a scheme are kept,
// scheme-less host names get https://, anything else is searched for. An
// empty entry resolves to nothing.
func Resolve(input string) (Target, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Target{}, false
	}
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return Target{URL: input}, true
	}
	if strings.Contains(input, ".") && !strings.Contains(input, " ") {
		return Target{URL: "https://" + input}, true
	}
	return Target{URL: SearchURL(input), Query: input}, true
}

// SearchURL returns the search page URL for query.
func SearchURL(query string) string {
	return HomeURL + "/search?q=" + EncodeComponent(query)
}

// EncodeComponent percent-encodes s for use inside a query value, encoding
// spaces as %20.
func EncodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// searchQuery extracts the query from a search page URL.
func searchQuery(raw string) (string, bool) {
	if !strings.HasPrefix(raw, HomeURL+"/search?") {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	q := u.Query().Get("q")
	return q, q != ""
}

// pageKind picks the built-in page for a URL.
func pageKind(raw string) ViewKind {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "youtube"):
		return ViewYouTube
	case strings.Contains(lower, "google"):
		return ViewHome
	default:
		return ViewPage
	}
}

// bookmarkTitle derives a title from the URL's host name.
func bookmarkTitle(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return "Bookmark"
	}
	host := strings.Replace(u.Hostname(), "www.", "", 1)
	if host == "" {
		return "Bookmark"
	}
	return strings.ToUpper(host[:1]) + host[1:]
}
