package normalize

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// invisibleElements are skipped entirely, including their text.
var invisibleElements = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
	"iframe":   true,
}

// blockElements get a word break before and after their content so that
// adjacent blocks do not run together.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true,
}

// HTMLToText strips all markup and returns the visible text in document order.
// Whitespace runs are collapsed to single spaces.
func HTMLToText(src string) (string, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	var b strings.Builder
	collectText(root, &b)

	return strings.Join(strings.Fields(b.String()), " "), nil
}

func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if invisibleElements[n.Data] {
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
	if block {
		b.WriteByte(' ')
	}
}
