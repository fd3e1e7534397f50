package render

import (
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/doxic/internal/section"
)

// Title returns the text of the first h1 in the rendered documentation of
// sections, or "" when there is none.
func Title(sections []section.Section) string {
	for _, s := range sections {
		if s.DocsHTML == "" {
			continue
		}
		if t := firstHeading(s.DocsHTML); t != "" {
			return t
		}
	}
	return ""
}

func firstHeading(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "h1" {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if found == nil {
		return ""
	}
	return strings.Join(strings.Fields(textContent(found)), " ")
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(textContent(c))
	}
	return text.String()
}
