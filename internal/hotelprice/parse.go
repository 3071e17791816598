package hotelprice

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Quote is the name and price read from one hotel page. Both are left as the
// page prints them.
type Quote struct {
	Query string
	Name  string
	Price string
}

// ParsePage reads the hotel name from ".hotel_name_header span.hotel_name" and
// the price from ".hotel_price_box .price". A selector without a match leaves
// its field empty.
func ParsePage(r io.Reader) (name, price string, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse hotel page: %w", err)
	}

	if n := findDescendant(doc, withClass("hotel_name_header"), func(n *html.Node) bool {
		return n.Data == "span" && hasClass(n, "hotel_name")
	}); n != nil {
		name = ownText(n)
	}
	if n := findDescendant(doc, withClass("hotel_price_box"), withClass("price")); n != nil {
		price = ownText(n)
	}
	return name, price, nil
}

type matcher func(*html.Node) bool

func withClass(class string) matcher {
	return func(n *html.Node) bool { return hasClass(n, class) }
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// findDescendant returns the first element in document order that matches
// inner and has an ancestor matching outer.
func findDescendant(root *html.Node, outer, inner matcher) *html.Node {
	var walk func(n *html.Node, inside bool) *html.Node
	walk = func(n *html.Node, inside bool) *html.Node {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if inside && inner(c) {
				return c
			}
			if found := walk(c, inside || outer(c)); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(root, false)
}

// ownText returns the first non-blank text child, trimmed.
func ownText(n *html.Node) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			if s := strings.TrimSpace(c.Data); s != "" {
				return s
			}
		}
	}
	return ""
}
