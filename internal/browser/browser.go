package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/1broseidon/fakeos/internal/store"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// ViewKind is what the browser's content area shows.
type ViewKind string

const (
	ViewHome    ViewKind = "home"
	ViewYouTube ViewKind = "youtube"
	ViewSearch  ViewKind = "search"
	ViewPage    ViewKind = "page"
	ViewLoading ViewKind = "loading"
	ViewError   ViewKind = "error"
)

// View is the content area state.
type View struct {
	Kind    ViewKind       `json:"kind"`
	URL     string         `json:"url"`
	Query   string         `json:"query,omitempty"`
	Results []SearchResult `json:"results,omitempty"`
	Page    *Page          `json:"page,omitempty"`
	// Err is the message of the error panel; the panel offers Retry.
	Err string `json:"error,omitempty"`
}

// Tab is one browser tab.
type Tab struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Icon   string `json:"icon"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// Bookmark is a saved page.
type Bookmark struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

// Age returns how long ago the bookmark was added.
func (b Bookmark) Age(now time.Time) string {
	t, err := time.Parse(time.RFC3339, b.Date)
	if err != nil {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Request is a fetch the host has to perform, usually off the UI loop.
type Request struct {
	Seq   int
	Kind  ViewKind
	URL   string
	Query string
}

// Response carries the outcome of a Request back to the browser.
type Response struct {
	Request
	Results []SearchResult
	HTML    string
	Err     error
}

// Fetcher performs searches and proxied page loads.
type Fetcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
	Fetch(ctx context.Context, target string) (string, error)
}

// Browser is the mock web browser panel.
type Browser struct {
	fetcher Fetcher
	store   store.Store
	notify  func(string)
	now     func() time.Time
	home    string

	history []string
	index   int

	tabs    []Tab
	current string

	view       View
	currentURL string
	seq        int
}

// New creates a browser showing the home page in a single tab.
func New(fetcher Fetcher, st store.Store, notify func(string)) *Browser {
	return &Browser{
		fetcher: fetcher,
		store:   st,
		notify:  notify,
		now:     time.Now,
		home:    HomeURL,
		history: []string{HomeURL},
		tabs: []Tab{
			{ID: "google", Title: "Google", Icon: "🌐", URL: HomeURL, Active: true},
		},
		current: "google",
		view:    View{Kind: ViewHome, URL: HomeURL},
	}
}

// SetHome replaces the start page. It only has an effect before the first
// navigation.
func (b *Browser) SetHome(u string) {
	if u == "" || len(b.history) > 1 {
		return
	}
	b.home = u
	b.history[0] = u
	b.setTabURL(u)
	b.view = View{Kind: pageKind(u), URL: u}
	if b.view.Kind == ViewPage {
		b.view.Kind = ViewHome
	}
}

func (b *Browser) Name() string { return "chrome" }
func (b *Browser) Activate()    {}

// Deactivate invalidates in-flight requests so late responses are dropped.
func (b *Browser) Deactivate() { b.seq++ }

func (b *Browser) send(msg string) {
	if b.notify != nil {
		b.notify(msg)
	}
}

// View returns the content area state.
func (b *Browser) View() View { return b.view }

// Address returns the URL shown in the address bar.
func (b *Browser) Address() string { return b.history[b.index] }

// History returns the visited URLs and the current position.
func (b *Browser) History() ([]string, int) {
	return append([]string(nil), b.history...), b.index
}

func (b *Browser) CanGoBack() bool    { return b.index > 0 }
func (b *Browser) CanGoForward() bool { return b.index < len(b.history)-1 }

// Navigate handles an address bar entry. The returned request, if any, must
// be run with Do and fed back through Apply.
func (b *Browser) Navigate(input string) (Request, bool) {
	target, ok := Resolve(input)
	if !ok {
		return Request{}, false
	}
	if target.IsSearch() {
		return b.Search(target.Query)
	}
	b.push(target.URL)
	return b.show(target.URL)
}

// Search runs a search. Blank queries are ignored.
func (b *Browser) Search(query string) (Request, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, false
	}
	b.push(SearchURL(query))
	return b.startSearch(query, SearchURL(query))
}

func (b *Browser) startSearch(query, searchURL string) (Request, bool) {
	b.seq++
	b.view = View{Kind: ViewLoading, URL: SearchURL(query), Query: query}
	return Request{Seq: b.seq, Kind: ViewSearch, URL: searchURL, Query: query}, true
}

func (b *Browser) push(u string) {
	b.history = append(b.history, u)
	b.index = len(b.history) - 1
	b.setTabURL(u)
}

// show displays u without touching history.
func (b *Browser) show(u string) (Request, bool) {
	if q, ok := searchQuery(u); ok {
		return b.startSearch(q, u)
	}
	switch pageKind(u) {
	case ViewYouTube:
		b.seq++
		b.view = View{Kind: ViewYouTube, URL: u}
		b.send("Loading YouTube...")
		return Request{}, false
	case ViewHome:
		b.seq++
		b.view = View{Kind: ViewHome, URL: u}
		return Request{}, false
	}
	return b.load(u)
}

func (b *Browser) load(u string) (Request, bool) {
	b.seq++
	b.currentURL = u
	b.view = View{Kind: ViewLoading, URL: u}
	return Request{Seq: b.seq, Kind: ViewPage, URL: u}, true
}

// Back moves one step back in history.
func (b *Browser) Back() (Request, bool) {
	if !b.CanGoBack() {
		return Request{}, false
	}
	b.index--
	b.setTabURL(b.history[b.index])
	return b.show(b.history[b.index])
}

// Forward moves one step forward in history.
func (b *Browser) Forward() (Request, bool) {
	if !b.CanGoForward() {
		return Request{}, false
	}
	b.index++
	b.setTabURL(b.history[b.index])
	return b.show(b.history[b.index])
}

// Refresh reloads the current address.
func (b *Browser) Refresh() (Request, bool) {
	return b.show(b.Address())
}

// Retry reloads the last page that was requested through the proxy.
func (b *Browser) Retry() (Request, bool) {
	if b.currentURL == "" {
		return Request{}, false
	}
	return b.load(b.currentURL)
}

// Do performs req against the fetcher.
func (b *Browser) Do(ctx context.Context, req Request) Response {
	resp := Response{Request: req}
	switch req.Kind {
	case ViewSearch:
		resp.Results, resp.Err = b.fetcher.Search(ctx, req.Query)
	case ViewPage:
		resp.HTML, resp.Err = b.fetcher.Fetch(ctx, req.URL)
	default:
		resp.Err = fmt.Errorf("nothing to fetch for %q", req.Kind)
	}
	return resp
}

// Apply shows a response. Responses to superseded requests are ignored.
func (b *Browser) Apply(resp Response) {
	if resp.Seq != b.seq {
		return
	}
	switch resp.Kind {
	case ViewSearch:
		// An explicit empty list is shown as is; only a missing one falls back.
		results := resp.Results
		if resp.Err != nil || results == nil {
			results = FallbackResults(resp.Query)
		}
		b.view = View{Kind: ViewSearch, URL: SearchURL(resp.Query), Query: resp.Query, Results: results}
	case ViewPage:
		if resp.Err != nil {
			b.view = View{Kind: ViewError, URL: resp.URL, Err: fmt.Sprintf("Failed to load %s: %v", resp.URL, resp.Err)}
			b.send("Error loading webpage")
			return
		}
		page, err := ParsePage(resp.HTML, resp.URL)
		if err != nil {
			page = &Page{URL: resp.URL, Text: "The webpage content has been loaded but couldn't be fully processed."}
		}
		b.view = View{Kind: ViewPage, URL: resp.URL, Page: page}
		if page.Title != "" {
			b.setTabTitle(page.Title)
		}
		b.send(fmt.Sprintf("Loaded %s", resp.URL))
	}
}

// Go navigates and completes the resulting fetch synchronously.
func (b *Browser) Go(ctx context.Context, input string) View {
	if req, ok := b.Navigate(input); ok {
		b.Apply(b.Do(ctx, req))
	}
	return b.view
}

// FallbackResults is shown when the search endpoint fails.
func FallbackResults(query string) []SearchResult {
	return []SearchResult{{
		Title:   fmt.Sprintf(`Search results for "%s"`, query),
		URL:     SearchURL(query),
		Snippet: fmt.Sprintf(`About 1,000,000 results for "%s" (0.45 seconds)`, query),
	}}
}

// Tabs returns a copy of the tab strip.
func (b *Browser) Tabs() []Tab {
	return append([]Tab(nil), b.tabs...)
}

// CurrentTab returns the active tab id.
func (b *Browser) CurrentTab() string { return b.current }

// NewTab opens a tab on the home page and switches to it.
func (b *Browser) NewTab() string {
	id := "tab-" + uuid.NewString()
	b.tabs = append(b.tabs, Tab{ID: id, Title: "New Tab", Icon: "🌐", URL: b.home})
	b.SwitchTab(id)
	b.send("New tab created!")
	return id
}

// SwitchTab activates the tab with the given id.
func (b *Browser) SwitchTab(id string) bool {
	i := slices.IndexFunc(b.tabs, func(t Tab) bool { return t.ID == id })
	if i < 0 {
		return false
	}
	for j := range b.tabs {
		b.tabs[j].Active = j == i
	}
	b.current = id
	return true
}

// CloseTab closes a tab. The last tab cannot be closed.
func (b *Browser) CloseTab(id string) bool {
	if len(b.tabs) <= 1 {
		return false
	}
	i := slices.IndexFunc(b.tabs, func(t Tab) bool { return t.ID == id })
	if i < 0 {
		return false
	}
	b.tabs = slices.Delete(b.tabs, i, i+1)
	if b.current == id {
		b.SwitchTab(b.tabs[0].ID)
	}
	b.send("Tab closed!")
	return true
}

func (b *Browser) setTabURL(u string) {
	for i := range b.tabs {
		if b.tabs[i].ID == b.current {
			b.tabs[i].URL = u
		}
	}
}

func (b *Browser) setTabTitle(title string) {
	for i := range b.tabs {
		if b.tabs[i].ID == b.current {
			b.tabs[i].Title = title
		}
	}
}

// Bookmarks returns the saved bookmarks.
func (b *Browser) Bookmarks() []Bookmark {
	raw := store.GetDefault(b.store, store.KeyBookmarks, "[]")
	var out []Bookmark
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

// AddBookmark saves u. Blank pages and duplicates are refused with a
// notification and no error.
func (b *Browser) AddBookmark(u string) error {
	if u == "" || u == "about:blank" {
		b.send("Cannot bookmark this page")
		return nil
	}
	bookmarks := b.Bookmarks()
	if slices.ContainsFunc(bookmarks, func(bm Bookmark) bool { return bm.URL == u }) {
		b.send("Already bookmarked!")
		return nil
	}
	bookmarks = append(bookmarks, Bookmark{
		URL:   u,
		Title: bookmarkTitle(u),
		Date:  b.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
	data, err := json.Marshal(bookmarks)
	if err != nil {
		return fmt.Errorf("failed to encode bookmarks: %w", err)
	}
	if err := b.store.Set(store.KeyBookmarks, string(data)); err != nil {
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}
	b.send("Bookmark added!")
	return nil
}
