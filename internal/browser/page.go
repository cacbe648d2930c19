package browser

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Link is an anchor found on a page.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Page is a proxied document reduced to what the desktop can show.
type Page struct {
	URL    string   `json:"url"`
	Title  string   `json:"title"`
	Text   string   `json:"text"`
	HTML   string   `json:"html"`
	Links  []Link   `json:"links,omitempty"`
	Images []string `json:"images,omitempty"`
}

// stripped elements are removed before the page is shown.
var stripped = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Link:   true,
}

var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true,
	atom.Ul: true, atom.Ol: true, atom.Table: true, atom.Pre: true, atom.Blockquote: true,
}

// ParsePage cleans a document: scripts, styles and stylesheet links are
// dropped, relative anchor and image URLs are made absolute against base, and
// the visible text is collected. Documents without a body are used whole.
func ParsePage(src, base string) (*Page, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid page url %q: %w", base, err)
	}

	page := &Page{URL: base}
	if title := findFirst(doc, atom.Title); title != nil {
		page.Title = strings.TrimSpace(textOf(title))
	}

	root := findFirst(doc, atom.Body)
	if root == nil {
		root = doc
	}
	removeStripped(root)
	fixRelativeURLs(root, baseURL, page)

	var text strings.Builder
	collectText(root, &text)
	page.Text = normalizeText(text.String())

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return nil, fmt.Errorf("failed to render page: %w", err)
		}
	}
	page.HTML = buf.String()
	return page, nil
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func removeStripped(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && stripped[c.DataAtom] {
			n.RemoveChild(c)
		} else {
			removeStripped(c)
		}
		c = next
	}
}

func fixRelativeURLs(n *html.Node, base *url.URL, page *Page) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.A:
			if href, ok := absolutize(n, "href", base); ok {
				page.Links = append(page.Links, Link{Text: strings.TrimSpace(textOf(n)), URL: href})
			}
		case atom.Img:
			if src, ok := absolutize(n, "src", base); ok {
				page.Images = append(page.Images, src)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		fixRelativeURLs(c, base, page)
	}
}

// absolutize rewrites a relative attribute value in place. Values starting
// with "http" or "//" are left as they are.
func absolutize(n *html.Node, key string, base *url.URL) (string, bool) {
	for i, attr := range n.Attr {
		if attr.Key != key || attr.Val == "" {
			continue
		}
		if strings.HasPrefix(attr.Val, "http") || strings.HasPrefix(attr.Val, "//") {
			return attr.Val, true
		}
		ref, err := url.Parse(attr.Val)
		if err != nil {
			return attr.Val, true
		}
		n.Attr[i].Val = base.ResolveReference(ref).String()
		return n.Attr[i].Val, true
	}
	return "", false
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collectText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.DataAtom == atom.Head || n.DataAtom == atom.Noscript {
			return
		}
	}
	isBlock := n.Type == html.ElementNode && blocks[n.DataAtom]
	if isBlock {
		sb.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
	if isBlock {
		sb.WriteString("\n")
	}
}

// normalizeText collapses runs of whitespace inside lines and drops blank
// lines.
func normalizeText(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
