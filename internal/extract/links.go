package extract

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// RulesTextLink finds the plain-text rules download linked from a rules
// landing page. Links whose path mentions "rules" win over other .txt links.
func RulesTextLink(htmlContent string, sourceURL string) (string, bool, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", false, err
	}

	baseURL, err := url.Parse(sourceURL)
	if err != nil {
		return "", false, err
	}

	var first, best string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if best != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			if resolved := resolveURL(baseURL, attr(n, "href")); resolved != "" {
				if u, err := url.Parse(resolved); err == nil {
					p := strings.ToLower(u.Path)
					if strings.HasSuffix(p, ".txt") {
						if first == "" {
							first = resolved
						}
						if strings.Contains(strings.ToLower(path.Base(p)), "rules") {
							best = resolved
						}
					}
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	if best != "" {
		return best, true, nil
	}
	return first, first != "", nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// resolveURL resolves a relative URL against a base URL
func resolveURL(base *url.URL, href string) string {
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	// Skip javascript: and mailto: links
	if strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)

	// Only keep http/https URLs
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	return resolved.String()
}
