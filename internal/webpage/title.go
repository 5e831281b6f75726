package webpage

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractTitle returns the page title: <title> text, else the first <h1>,
// else the og:title meta content. Candidates are trimmed and the first
// non-empty one wins. Parse failures yield an empty string.
func ExtractTitle(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	if t := textOfFirst(doc, "title"); t != "" {
		return t
	}
	if t := textOfFirst(doc, "h1"); t != "" {
		return t
	}
	return ogTitle(doc)
}

// textOfFirst returns the trimmed text content of the first element with
// the given tag, or "".
func textOfFirst(root *html.Node, tag string) string {
	node := findFirst(root, func(n *html.Node) bool { return n.Data == tag })
	if node == nil {
		return ""
	}
	var sb strings.Builder
	collectText(node, &sb)
	return strings.TrimSpace(sb.String())
}

// ogTitle returns the trimmed content of <meta property="og:title">, or "".
func ogTitle(root *html.Node) string {
	node := findFirst(root, func(n *html.Node) bool {
		if n.Data != "meta" {
			return false
		}
		for _, attr := range n.Attr {
			if attr.Key == "property" && attr.Val == "og:title" {
				return true
			}
		}
		return false
	})
	if node == nil {
		return ""
	}
	for _, attr := range node.Attr {
		if attr.Key == "content" {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

// findFirst returns the first element node (document order) matching the
// predicate.
func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	if root.Type == html.ElementNode && match(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}
