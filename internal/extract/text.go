// Package extract reduces HTML pages to the plain text and links the rules
// loader needs.
package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// blockElements start a new line in the extracted text
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "td": true, "th": true, "tr": true,
	"ul": true,
}

// VisibleText extracts the visible text of an HTML document, one block per
// line, skipping scripts and styles
func VisibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var buf strings.Builder

	var walk func(n *html.Node, pre bool)
	walk = func(n *html.Node, pre bool) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template":
				return
			}
		}

		if n.Type == html.TextNode {
			if pre {
				buf.WriteString(n.Data)
			} else if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			buf.WriteString("\n")
		}

		inPre := pre || (n.Type == html.ElementNode && n.Data == "pre")
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inPre)
		}

		if block {
			buf.WriteString("\n")
		}
	}

	walk(doc, false)

	return cleanLines(buf.String()), nil
}

// cleanLines trims every line and drops the empty ones
func cleanLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
