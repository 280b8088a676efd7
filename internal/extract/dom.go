package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// Small query layer over x/net/html. Canvas quiz pages address everything by
// class token and aria-label, so that is all the selector surface we need.

type matcher func(*html.Node) bool

// findAll returns every element in the subtree (excluding n itself) matched
// by m, in document order.
func findAll(n *html.Node, m matcher) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, m, &out)
	}
	return out
}

func walk(n *html.Node, m matcher, out *[]*html.Node) {
	if n.Type == html.ElementNode && m(n) {
		*out = append(*out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, m, out)
	}
}

// first returns the first matching element in the subtree, or nil.
func first(n *html.Node, m matcher) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if got := firstIncluding(c, m); got != nil {
			return got
		}
	}
	return nil
}

func firstIncluding(n *html.Node, m matcher) *html.Node {
	if n.Type == html.ElementNode && m(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if got := firstIncluding(c, m); got != nil {
			return got
		}
	}
	return nil
}

// descendant resolves a chain of class selectors, each scoped to the
// previous hit, like ".numerical_exact_answer .answer_exact".
func descendant(n *html.Node, classes ...string) *html.Node {
	cur := n
	for _, cls := range classes {
		cur = first(cur, byClass(cls))
		if cur == nil {
			return nil
		}
	}
	return cur
}

func byClass(tokens ...string) matcher {
	return func(n *html.Node) bool {
		for _, t := range tokens {
			if !hasClassToken(n, t) {
				return false
			}
		}
		return true
	}
}

func byAttr(key, val string) matcher {
	return func(n *html.Node) bool { return attr(n, key) == val }
}

func byTag(tag string) matcher {
	return func(n *html.Node) bool { return strings.EqualFold(n.Data, tag) }
}

func allOf(ms ...matcher) matcher {
	return func(n *html.Node) bool {
		for _, m := range ms {
			if !m(n) {
				return false
			}
		}
		return true
	}
}

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func classAttr(n *html.Node) string { return attr(n, "class") }

func hasClassToken(n *html.Node, token string) bool {
	for _, f := range strings.Fields(classAttr(n)) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}

// innerHTML renders the children of n verbatim, preserving embedded images,
// SVG math and inline markup so replay can show them identically.
func innerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		// Render only fails on unrenderable node types, which cannot
		// appear under a parsed element.
		_ = html.Render(&b, c)
	}
	return strings.TrimSpace(b.String())
}

// innerText collects the text content of the subtree, whitespace-collapsed.
func innerText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		if cur.Type == html.ElementNode {
			switch strings.ToLower(cur.Data) {
			case "script", "style":
				return
			}
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// inputValue reads the literal value of an input-like element, falling back
// to its text content.
func inputValue(n *html.Node) string {
	if n == nil {
		return ""
	}
	if v := strings.TrimSpace(attr(n, "value")); v != "" {
		return v
	}
	return strings.TrimSpace(innerText(n))
}
