package dom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

var ErrInvalidQuery = errors.New("invalid query")

// Node is a matched element or attribute.
type Node struct {
	Name  string
	value string
	outer string
	attrs map[string]string
}

// Value is the text content of the node.
func (n Node) Value() string {
	return n.value
}

// OuterHTML is the markup of the node including itself.
func (n Node) OuterHTML() string {
	return n.outer
}

func (n Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// NodeList is an ordered query result.
type NodeList []Node

func (l NodeList) Len() int {
	return len(l)
}

// Values returns the text content of every node.
func (l NodeList) Values() []string {
	out := make([]string, len(l))
	for i, n := range l {
		out[i] = n.Value()
	}
	return out
}

// Document is a parsed body.
type Document struct {
	html       *html.Node
	xml        *xmlquery.Node
	namespaces map[string]string
	forceXML   bool
}

// Option configures Parse.
type Option func(*Document)

// WithNamespaces registers XPath namespace prefixes.
func WithNamespaces(ns map[string]string) Option {
	return func(d *Document) {
		for prefix, uri := range ns {
			d.namespaces[prefix] = uri
		}
	}
}

// AsXML forces XML parsing.
func AsXML() Option {
	return func(d *Document) {
		d.forceXML = true
	}
}

// Parse parses body as XML when it starts with an XML declaration (or AsXML
// is given) and as HTML otherwise.
func Parse(body string, opts ...Option) (*Document, error) {
	d := &Document{namespaces: map[string]string{}}
	for _, opt := range opts {
		opt(d)
	}

	if d.forceXML || IsXML(body) {
		root, err := xmlquery.Parse(strings.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("parsing xml body: %w", err)
		}
		d.xml = root
		return d, nil
	}

	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing html body: %w", err)
	}
	d.html = root
	return d, nil
}

// IsXML reports whether body carries an XML declaration.
func IsXML(body string) bool {
	return strings.HasPrefix(strings.TrimSpace(body), "<?xml")
}

// IsXMLContentType reports whether a Content-Type header denotes XML.
func IsXMLContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "/xml") || strings.Contains(ct, "+xml")
}

// Query evaluates a CSS selector.
func (d *Document) Query(selector string) (NodeList, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: css selector %q: %v", ErrInvalidQuery, selector, err)
	}

	if d.xml != nil {
		// goquery works on html nodes, so XML documents are queried as HTML.
		root, err := html.Parse(strings.NewReader(d.xml.OutputXML(true)))
		if err != nil {
			return nil, fmt.Errorf("parsing xml body as html: %w", err)
		}
		return fromSelection(goquery.NewDocumentFromNode(root).FindMatcher(sel)), nil
	}
	return fromSelection(goquery.NewDocumentFromNode(d.html).FindMatcher(sel)), nil
}

// XPath evaluates an XPath expression with the registered namespaces.
func (d *Document) XPath(expr string) (NodeList, error) {
	compiled, err := xpath.CompileWithNS(expr, d.namespaces)
	if err != nil {
		return nil, fmt.Errorf("%w: xpath %q: %v", ErrInvalidQuery, expr, err)
	}

	var nav xpath.NodeNavigator
	if d.xml != nil {
		nav = xmlquery.CreateXPathNavigator(d.xml)
	} else {
		nav = htmlquery.CreateXPathNavigator(d.html)
	}
	// count(), string() and friends evaluate to scalars, not nodes.
	if _, ok := compiled.Evaluate(nav).(*xpath.NodeIterator); !ok {
		return nil, fmt.Errorf("%w: xpath %q does not select nodes", ErrInvalidQuery, expr)
	}

	if d.xml != nil {
		nodes := xmlquery.QuerySelectorAll(d.xml, compiled)
		list := make(NodeList, 0, len(nodes))
		for _, n := range nodes {
			list = append(list, fromXML(n))
		}
		return list, nil
	}

	nodes := htmlquery.QuerySelectorAll(d.html, compiled)
	list := make(NodeList, 0, len(nodes))
	for _, n := range nodes {
		list = append(list, fromHTML(n))
	}
	return list, nil
}

// Execute runs path as XPath when useXPath is set, as a CSS selector otherwise.
func (d *Document) Execute(path string, useXPath bool) (NodeList, error) {
	if useXPath {
		return d.XPath(path)
	}
	return d.Query(path)
}

// Query parses body and runs a single query against it.
func Query(body, path string, useXPath bool, opts ...Option) (NodeList, error) {
	d, err := Parse(body, opts...)
	if err != nil {
		return nil, err
	}
	return d.Execute(path, useXPath)
}

func fromSelection(s *goquery.Selection) NodeList {
	list := make(NodeList, 0, s.Length())
	s.Each(func(_ int, item *goquery.Selection) {
		list = append(list, fromHTML(item.Get(0)))
	})
	return list
}

func fromHTML(n *html.Node) Node {
	node := Node{
		Name:  n.Data,
		value: htmlquery.InnerText(n),
		outer: htmlquery.OutputHTML(n, true),
		attrs: make(map[string]string, len(n.Attr)),
	}
	for _, a := range n.Attr {
		node.attrs[a.Key] = a.Val
	}
	return node
}

func fromXML(n *xmlquery.Node) Node {
	node := Node{
		Name:  n.Data,
		value: n.InnerText(),
		outer: n.OutputXML(true),
		attrs: make(map[string]string, len(n.Attr)),
	}
	for _, a := range n.Attr {
		name := a.Name.Local
		if a.Name.Space != "" {
			name = a.Name.Space + ":" + name
		}
		node.attrs[name] = a.Value
	}
	return node
}
