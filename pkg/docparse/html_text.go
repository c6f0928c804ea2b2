package docparse

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags get a newline after their content so paragraphs stay separated
// when the markup is flattened.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"table": true, "section": true, "article": true, "header": true, "footer": true,
}

// ExtractText flattens an HTML fragment into plain text.
func ExtractText(rawHtml string) (string, error) {
	if strings.TrimSpace(rawHtml) == "" {
		return "", nil
	}

	doc, err := html.Parse(strings.NewReader(rawHtml))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			sb.WriteString("\n")
		}
	}
	walk(doc)

	// Collapse runs of blank lines left by nested block elements
	lines := strings.Split(sb.String(), "\n")
	var out []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n"), nil
}
