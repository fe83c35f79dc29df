// Package markdown wraps the goldmark parser for the few structural questions
// docsnap asks about a page: its first heading and the links it contains.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// LinkKind distinguishes link-like constructs.
type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "autolink"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

// Link is a link destination found in a Markdown body.
type Link struct {
	Kind        LinkKind
	Destination string
}

// IsExternal reports whether the destination points off-site.
func (l Link) IsExternal() bool {
	d := strings.ToLower(l.Destination)
	for _, p := range []string{"http://", "https://", "mailto:", "//", "tel:"} {
		if strings.HasPrefix(d, p) {
			return true
		}
	}
	return false
}

var md = goldmark.New()

func parse(body []byte) (gmast.Node, parser.Context) {
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))
	return root, ctx
}

// FirstHeading returns the plain text of the first heading, preferring a
// level-one heading when one exists.
func FirstHeading(body []byte) (string, bool) {
	root, _ := parse(body)

	var first, h1 string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		title := strings.TrimSpace(inlineText(h, body))
		if first == "" {
			first = title
		}
		if h.Level == 1 && h1 == "" {
			h1 = title
			return gmast.WalkStop, nil
		}
		return gmast.WalkSkipChildren, nil
	})

	if h1 != "" {
		return h1, true
	}
	return first, first != ""
}

// ExtractLinks returns inline links, images, autolinks and reference
// definitions in document order (reference definitions last).
func ExtractLinks(body []byte) []Link {
	root, ctx := parse(body)

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})

	for _, ref := range ctx.References() {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}
	return links
}

func inlineText(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(inlineText(c, source))
		}
	}
	return buf.String()
}
