package htmlutil

import (
	"bytes"
	"context"

	"coursesync-backend/pkg/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var tracer = otel.Tracer("pkg/htmlutil")

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer, false)
	return buffer.String()
}

// GetBlockText is GetText but with a newline written after every <br> and
// every block-level element, so that paragraphs stay on their own lines.
func GetBlockText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer, true)
	return buffer.String()
}

var blockElements = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.Li:         true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Tr:         true,
	atom.Table:      true,
	atom.Blockquote: true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer, blocks bool) {
	if node == nil {
		return
	}
	switch node.Type {
	case html.TextNode:
		buffer.WriteString(node.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if node.DataAtom == atom.Script || node.DataAtom == atom.Style {
			return
		}
		if blocks && node.DataAtom == atom.Br {
			buffer.WriteByte('\n')
			return
		}
	}

	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer, blocks)
		child = child.NextSibling
	}

	if blocks && node.Type == html.ElementNode && blockElements[node.DataAtom] {
		if buffer.Len() > 0 && buffer.Bytes()[buffer.Len()-1] != '\n' {
			buffer.WriteByte('\n')
		}
	}
}

// Attr returns the value of the attribute `key` or an empty string.
func Attr(node *html.Node, key string) string {
	if node == nil {
		return ""
	}
	for _, a := range node.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

type Anchor struct {
	Name string
	// Href is the target exactly as written, it is empty if there is none.
	Href string
}

// GetAnchors returns the name and target of every node in sel, in document
// order. Names are cleansed of non printable characters and extra whitespace.
func GetAnchors(ctx context.Context, sel *goquery.Selection) []Anchor {
	_, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		name := textutil.Cleansed(GetText(n))
		href := Attr(n, "href")

		anchors = append(anchors, Anchor{
			Name: name,
			Href: href,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", href),
		))
	}
	return anchors
}
