package browser

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// DOMSnapshot is a trimmed copy of a page's markup saved next to a failure
// screenshot.
type DOMSnapshot struct {
	URL       string
	Title     string
	HTML      string
	Truncated bool
}

// redactedValue replaces the value of password inputs.
const redactedValue = "[redacted]"

// CleanDOM parses rawHTML, drops noise elements and attributes that do not
// help locate elements, masks password values and renders the result.
// Output longer than maxLength bytes is cut and marked truncated.
func CleanDOM(rawHTML string, maxLength int) (*DOMSnapshot, error) {
	if maxLength <= 0 {
		maxLength = DefaultSnapshotLength
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	snap := &DOMSnapshot{Title: findTitle(doc)}
	prune(doc)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}

	out := buf.String()
	if len(out) > maxLength {
		out = truncateUTF8(out, maxLength) + "\n<!-- truncated -->"
		snap.Truncated = true
	}
	snap.HTML = out
	return snap, nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// prune removes dropped elements and comments below n and filters the
// attributes of the elements that stay.
func prune(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && droppedElements[strings.ToLower(c.Data)]:
			n.RemoveChild(c)
		default:
			if c.Type == html.ElementNode {
				c.Attr = keptAttributes(c)
			}
			prune(c)
		}
		c = next
	}
}

var droppedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"link":     true,
	"svg":      true,
	"template": true,
}

// keptAttributes returns the attributes worth keeping for writing locators.
func keptAttributes(n *html.Node) []html.Attribute {
	tag := strings.ToLower(n.Data)
	isPassword := tag == "input" && attrValue(n, "type") == "password"

	kept := n.Attr[:0]
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		switch {
		case key == "id", key == "class", key == "name", key == "type", key == "role",
			key == "href", key == "placeholder", key == "for", key == "disabled",
			strings.HasPrefix(key, "aria-"), strings.HasPrefix(key, "data-"):
			kept = append(kept, attr)
		case key == "value":
			if isPassword {
				attr.Val = redactedValue
			}
			kept = append(kept, attr)
		}
	}
	return kept
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return strings.ToLower(attr.Val)
		}
	}
	return ""
}

// findTitle returns the text of the first <title> element.
func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			return strings.TrimSpace(n.FirstChild.Data)
		}
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}
