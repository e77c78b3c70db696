// Package dom runs CSS selector and XPath queries against response bodies.
//
// A Document is parsed once per query call. HTML bodies are parsed with
// golang.org/x/net/html; CSS selectors go through goquery and XPath through
// htmlquery. XML bodies (an XML declaration or an XML content type) are parsed
// with xmlquery so that registered namespace prefixes resolve:
//
//	doc, err := dom.Parse(body, dom.WithNamespaces(map[string]string{"atom": "http://www.w3.org/2005/Atom"}))
//	nodes, err := doc.XPath("//atom:entry/atom:title")
//
// Results are NodeLists in document order. An invalid selector or expression
// is reported as an error wrapping ErrInvalidQuery.
package dom
