package webpage

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// nonContentTags are removed from the parse tree with their entire subtree
// before any text is collected.
var nonContentTags = map[string]struct{}{
	"script":   {},
	"style":    {},
	"nav":      {},
	"footer":   {},
	"header":   {},
	"aside":    {},
	"noscript": {},
	"iframe":   {},
	"svg":      {},
	"form":     {},
	"button":   {},
}

// boilerplateMarkers flag elements whose class or id attribute contains one
// of these substrings (case-insensitive) as page chrome rather than content.
var boilerplateMarkers = []string{
	"nav", "navbar", "navigation", "menu", "sidebar",
	"footer", "header", "advertisement", "ad", "ads",
	"social", "share", "comment", "comments", "related",
}

// blockLevelTags delimit text segments that get a newline between them.
var blockLevelTags = map[string]struct{}{
	"address": {}, "article": {}, "blockquote": {}, "br": {}, "dd": {},
	"div": {}, "dl": {}, "dt": {}, "figcaption": {}, "figure": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"hr": {}, "li": {}, "main": {}, "ol": {}, "p": {}, "pre": {},
	"section": {}, "table": {}, "td": {}, "th": {}, "tr": {}, "ul": {},
}

var (
	multiNewline = regexp.MustCompile(`\n{3,}`)
	multiSpace   = regexp.MustCompile(` {2,}`)
)

// Extract strips non-content markup and boilerplate from HTML and returns
// clean plain text bounded by maxChars. Parse failures yield an empty
// string rather than an error.
func Extract(rawHTML string, maxChars int) string {
	if rawHTML == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	// Two passes, each mark-then-detach so removal never invalidates the
	// traversal, and tag removal completes before class/id scanning so
	// removed subtrees are never re-scanned.
	detach(collect(doc, isNonContentTag))
	detach(collect(doc, hasBoilerplateAttr))

	var sb strings.Builder
	collectText(doc, &sb)

	text := cleanWhitespace(sb.String())
	if len([]rune(text)) > maxChars {
		text = TruncateAtBoundary(text, maxChars)
	}
	return text
}

// collect walks the tree and returns every element node matching the
// predicate. Descendants of a matched node are not visited.
func collect(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var marked []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			marked = append(marked, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return marked
}

// detach removes the marked nodes from their parents.
func detach(nodes []*html.Node) {
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

func isNonContentTag(n *html.Node) bool {
	_, ok := nonContentTags[n.Data]
	return ok
}

func hasBoilerplateAttr(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" && attr.Key != "id" {
			continue
		}
		value := strings.ToLower(attr.Val)
		for _, marker := range boilerplateMarkers {
			if strings.Contains(value, marker) {
				return true
			}
		}
	}
	return false
}

// collectText concatenates the remaining text nodes, inserting newlines
// around block-level elements.
func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}

	_, block := blockLevelTags[n.Data]
	if n.Type == html.ElementNode && block {
		sb.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
	if n.Type == html.ElementNode && block {
		sb.WriteString("\n")
	}
}

// cleanWhitespace trims each line, then collapses runs of 3+ newlines to 2
// and runs of 2+ spaces to 1.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	text = multiNewline.ReplaceAllString(text, "\n\n")
	text = multiSpace.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
