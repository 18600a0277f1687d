package browser

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document is what a Tab extracts from a rendered page.
type Document struct {
	Lang    string
	Name    string // data-page marker of <main>
	Title   string
	Heading string
}

// parseDocument reads the few elements the uploader pages expose.
func parseDocument(r io.Reader) (Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return Document{}, err
	}

	var doc Document
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				doc.Lang = attr(n, "lang")
			case "main":
				doc.Name = attr(n, "data-page")
			case "title":
				if doc.Title == "" {
					doc.Title = textOf(n)
				}
			case "h1":
				if doc.Heading == "" {
					doc.Heading = textOf(n)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return doc, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(b.String())
}
