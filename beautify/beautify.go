// Package beautify pretty-prints rendered HTML fragments with a
// configurable indentation style.
package beautify

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/patternforge/patternforge/apperr"
)

// Config controls the emitted indentation.
type Config struct {
	IndentSize int  `yaml:"indent_size"`
	UseTabs    bool `yaml:"use_tabs"`
}

// Default is two-space indentation.
func Default() Config {
	return Config{IndentSize: 2}
}

func (c Config) unit() string {
	if c.UseTabs {
		return "\t"
	}
	size := c.IndentSize
	if size <= 0 {
		size = 2
	}
	return strings.Repeat(" ", size)
}

var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "param": {},
	"source": {}, "track": {}, "wbr": {},
}

// rawTextElements hold their text content verbatim: the parser never
// entity-decodes it, so it must not be re-escaped on the way out.
var rawTextElements = map[string]struct{}{
	"script": {}, "style": {},
}

// Format re-emits markup with one element per line, indented by nesting
// depth. An element whose children are text only stays on a single line.
// Fragments are parsed in body context; a full document (leading
// doctype or <html>) goes through the document parser so its wrapper
// elements survive.
func Format(markup string, cfg Config) (string, error) {
	var b strings.Builder

	lower := strings.ToLower(strings.TrimSpace(markup))
	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		doc, err := html.Parse(strings.NewReader(markup))
		if err != nil {
			return "", apperr.Wrap(apperr.TemplateRenderError, err, "cannot parse rendered document")
		}
		for n := doc.FirstChild; n != nil; n = n.NextSibling {
			writeNode(&b, n, 0, cfg.unit())
		}
		return strings.TrimRight(b.String(), "\n"), nil
	}

	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return "", apperr.Wrap(apperr.TemplateRenderError, err, "cannot parse rendered markup")
	}
	for _, n := range nodes {
		writeNode(&b, n, 0, cfg.unit())
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func writeNode(b *strings.Builder, n *html.Node, depth int, unit string) {
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			writeLine(b, escapeText(t, n.Parent), depth, unit)
		}
	case html.CommentNode:
		writeLine(b, "<!--"+n.Data+"-->", depth, unit)
	case html.DoctypeNode:
		writeLine(b, "<!DOCTYPE "+n.Data+">", depth, unit)
	case html.ElementNode:
		open := openTag(n)
		if _, void := voidElements[n.Data]; void {
			writeLine(b, open, depth, unit)
			return
		}
		if text, ok := textOnly(n); ok {
			writeLine(b, open+text+"</"+n.Data+">", depth, unit)
			return
		}
		writeLine(b, open, depth, unit)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(b, c, depth+1, unit)
		}
		writeLine(b, "</"+n.Data+">", depth, unit)
	}
}

func openTag(n *html.Node) string {
	var b strings.Builder
	b.WriteString("<" + n.Data)
	for _, a := range n.Attr {
		b.WriteString(" " + a.Key + `="` + html.EscapeString(a.Val) + `"`)
	}
	b.WriteString(">")
	return b.String()
}

// textOnly reports whether the element holds nothing but text, and
// returns that text trimmed and re-escaped for output.
func textOnly(n *html.Node) (string, bool) {
	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			return "", false
		}
		if t := strings.TrimSpace(c.Data); t != "" {
			parts = append(parts, escapeText(t, n))
		}
	}
	return strings.Join(parts, " "), true
}

// escapeText restores entity escaping on parser-decoded text. Raw-text
// parents (script, style) are left alone.
func escapeText(t string, parent *html.Node) string {
	if parent != nil {
		if _, raw := rawTextElements[parent.Data]; raw {
			return t
		}
	}
	return html.EscapeString(t)
}

func writeLine(b *strings.Builder, line string, depth int, unit string) {
	b.WriteString(strings.Repeat(unit, depth))
	b.WriteString(line)
	b.WriteString("\n")
}
