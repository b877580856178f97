package web

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Matcher reports whether a node matches a query.
type Matcher func(n *html.Node) bool

// Tag matches element nodes with the given tag name.
func Tag(name string) Matcher {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == name
	}
}

// TagClass matches element nodes with the given tag name and class.
func TagClass(name, class string) Matcher {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == name && HasClass(n, class)
	}
}

// HasClass reports whether n carries class among its class attribute tokens.
func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// Attr returns the value of attribute key, or "" if absent.
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Find returns the first descendant of n (depth-first, document order)
// matching m, or nil.
func Find(n *html.Node, m Matcher) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m(c) {
			return c
		}
		if found := Find(c, m); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant of n matching m in document order.
func FindAll(n *html.Node, m Matcher) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if m(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}

// Path descends through successive first matches, e.g.
// Path(doc, Tag("table"), Tag("tbody")). Returns nil if any step misses.
func Path(n *html.Node, steps ...Matcher) *html.Node {
	for _, m := range steps {
		n = Find(n, m)
		if n == nil {
			return nil
		}
	}
	return n
}

// Text returns the text content of n with whitespace runs collapsed to a
// single space and the result trimmed.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteByte(' ')
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// JoinText returns the Text of each node joined by sep, skipping empties.
func JoinText(nodes []*html.Node, sep string) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if t := Text(n); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, sep)
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
