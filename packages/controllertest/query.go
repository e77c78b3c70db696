package controllertest

import (
	"errors"
	"strings"

	"github.com/abdul-hamid-achik/mvctest/packages/assertions"
	"github.com/abdul-hamid-achik/mvctest/packages/dom"
)

// RegisterXPathNamespaces makes the prefixes of ns usable in XPath queries.
func (f *HTTPFixture) RegisterXPathNamespaces(ns map[string]string) {
	for prefix, uri := range ns {
		f.xpathNamespaces[prefix] = uri
	}
}

// Query runs a CSS selector, or an XPath expression when useXPath is set,
// against the body of the last response. XML responses are parsed as XML.
func (f *HTTPFixture) Query(path string, useXPath bool) (dom.NodeList, error) {
	resp, err := f.response()
	if err != nil {
		return nil, err
	}

	var opts []dom.Option
	if useXPath {
		opts = append(opts, dom.WithNamespaces(f.xpathNamespaces))
	}
	if dom.IsXMLContentType(resp.ContentType()) {
		opts = append(opts, dom.AsXML())
	}

	nodes, err := dom.Query(resp.BodyString(), path, useXPath, opts...)
	if errors.Is(err, dom.ErrInvalidQuery) {
		return nil, &assertions.UsageError{Err: err}
	}
	return nodes, err
}

func (f *HTTPFixture) queryCount(path string, useXPath bool) (int, error) {
	nodes, err := f.Query(path, useXPath)
	if err != nil {
		return 0, err
	}
	return nodes.Len(), nil
}

func (f *HTTPFixture) AssertQuery(path string) bool {
	f.t.Helper()
	return f.report(f.checkExists(path, false))
}

func (f *HTTPFixture) AssertXPathQuery(path string) bool {
	f.t.Helper()
	return f.report(f.checkExists(path, true))
}

func (f *HTTPFixture) checkExists(path string, useXPath bool) error {
	n, err := f.queryCount(path, useXPath)
	if err != nil {
		return err
	}
	if n == 0 {
		return f.failf("Failed asserting node DENOTED BY %s EXISTS", path)
	}
	return nil
}

func (f *HTTPFixture) AssertNotQuery(path string) bool {
	f.t.Helper()
	return f.report(f.checkNotExists(path, false))
}

func (f *HTTPFixture) AssertNotXPathQuery(path string) bool {
	f.t.Helper()
	return f.report(f.checkNotExists(path, true))
}

func (f *HTTPFixture) checkNotExists(path string, useXPath bool) error {
	n, err := f.queryCount(path, useXPath)
	if err != nil {
		return err
	}
	if n != 0 {
		return f.failf("Failed asserting node DENOTED BY %s DOES NOT EXIST", path)
	}
	return nil
}

// AssertQueryCount asserts the selector matches exactly count nodes.
func (f *HTTPFixture) AssertQueryCount(path string, count int) bool {
	f.t.Helper()
	return f.report(f.checkCount(path, count, false))
}

func (f *HTTPFixture) AssertXPathQueryCount(path string, count int) bool {
	f.t.Helper()
	return f.report(f.checkCount(path, count, true))
}

func (f *HTTPFixture) checkCount(path string, count int, useXPath bool) error {
	n, err := f.queryCount(path, useXPath)
	if err != nil {
		return err
	}
	if n != count {
		return f.failf("Failed asserting node DENOTED BY %s OCCURS EXACTLY %d times, actually occurs %d times", path, count, n)
	}
	return nil
}

func (f *HTTPFixture) AssertNotQueryCount(path string, count int) bool {
	f.t.Helper()
	return f.report(f.checkNotCount(path, count, false))
}

func (f *HTTPFixture) AssertNotXPathQueryCount(path string, count int) bool {
	f.t.Helper()
	return f.report(f.checkNotCount(path, count, true))
}

func (f *HTTPFixture) checkNotCount(path string, count int, useXPath bool) error {
	n, err := f.queryCount(path, useXPath)
	if err != nil {
		return err
	}
	if n == count {
		return f.failf("Failed asserting node DENOTED BY %s DOES NOT OCCUR EXACTLY %d times", path, count)
	}
	return nil
}

// AssertQueryCountMin asserts the selector matches at least count nodes.
func (f *HTTPFixture) AssertQueryCountMin(path string, count int) bool {
	f.t.Helper()
	return f.report(f.checkCountMin(path, count, false))
}

func (f *HTTPFixture) AssertXPathQueryCountMin(path string, count int) bool {
	f.t.Helper()
	return f.report(f.checkCountMin(path, count, true))
}

func (f *HTTPFixture) checkCountMin(path string, count int, useXPath bool) error {
	n, err := f.queryCount(path, useXPath)
	if err != nil {
		return err
	}
	if n < count {
		return f.failf("Failed asserting node DENOTED BY %s OCCURS AT LEAST %d times, actually occurs %d times", path, count, n)
	}
	return nil
}

// AssertQueryCountMax asserts the selector matches at most count nodes.
func (f *HTTPFixture) AssertQueryCountMax(path string, count int) bool {
	f.t.Helper()
	return f.report(f.checkCountMax(path, count, false))
}

func (f *HTTPFixture) AssertXPathQueryCountMax(path string, count int) bool {
	f.t.Helper()
	return f.report(f.checkCountMax(path, count, true))
}

func (f *HTTPFixture) checkCountMax(path string, count int, useXPath bool) error {
	n, err := f.queryCount(path, useXPath)
	if err != nil {
		return err
	}
	if n > count {
		return f.failf("Failed asserting node DENOTED BY %s OCCURS AT MOST %d times, actually occurs %d times", path, count, n)
	}
	return nil
}

// existingNodes is Query failing when nothing matches.
func (f *HTTPFixture) existingNodes(path string, useXPath bool) (dom.NodeList, error) {
	nodes, err := f.Query(path, useXPath)
	if err != nil {
		return nil, err
	}
	if nodes.Len() == 0 {
		return nil, f.failf("Failed asserting node DENOTED BY %s EXISTS", path)
	}
	return nodes, nil
}

// AssertQueryContentContains asserts that the text of one of the matched
// nodes equals match.
func (f *HTTPFixture) AssertQueryContentContains(path, match string) bool {
	f.t.Helper()
	return f.report(f.checkContentContains(path, match, false))
}

func (f *HTTPFixture) AssertXPathQueryContentContains(path, match string) bool {
	f.t.Helper()
	return f.report(f.checkContentContains(path, match, true))
}

func (f *HTTPFixture) checkContentContains(path, match string, useXPath bool) error {
	nodes, err := f.existingNodes(path, useXPath)
	if err != nil {
		return err
	}
	values := nodes.Values()
	for _, v := range values {
		if v == match {
			return nil
		}
	}
	return f.failf(`Failed asserting node denoted by %s CONTAINS content "%s", Contents: [%s]`, path, match, strings.Join(values, ","))
}

func (f *HTTPFixture) AssertNotQueryContentContains(path, match string) bool {
	f.t.Helper()
	return f.report(f.checkNotContentContains(path, match, false))
}

func (f *HTTPFixture) AssertNotXPathQueryContentContains(path, match string) bool {
	f.t.Helper()
	return f.report(f.checkNotContentContains(path, match, true))
}

func (f *HTTPFixture) checkNotContentContains(path, match string, useXPath bool) error {
	nodes, err := f.existingNodes(path, useXPath)
	if err != nil {
		return err
	}
	for _, v := range nodes.Values() {
		if v == match {
			return f.failf(`Failed asserting node DENOTED BY %s DOES NOT CONTAIN content "%s"`, path, match)
		}
	}
	return nil
}

// AssertQueryContentRegex asserts that the text of one of the matched nodes
// matches pattern.
func (f *HTTPFixture) AssertQueryContentRegex(path, pattern string) bool {
	f.t.Helper()
	return f.report(f.checkContentRegex(path, pattern, false))
}

func (f *HTTPFixture) AssertXPathQueryContentRegex(path, pattern string) bool {
	f.t.Helper()
	return f.report(f.checkContentRegex(path, pattern, true))
}

func (f *HTTPFixture) checkContentRegex(path, pattern string, useXPath bool) error {
	nodes, err := f.existingNodes(path, useXPath)
	if err != nil {
		return err
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return err
	}
	var seen []string
	for _, v := range nodes.Values() {
		seen = append(seen, v)
		if re.MatchString(v) {
			return nil
		}
	}
	return f.failf(`Failed asserting node denoted by %s CONTAINS content MATCHING "%s", actual content is "%s"`, path, pattern, strings.Join(seen, ""))
}

// AssertNotQueryContentRegex asserts that the text of the first matched node
// does not match pattern.
func (f *HTTPFixture) AssertNotQueryContentRegex(path, pattern string) bool {
	f.t.Helper()
	return f.report(f.checkNotContentRegex(path, pattern, false))
}

func (f *HTTPFixture) AssertNotXPathQueryContentRegex(path, pattern string) bool {
	f.t.Helper()
	return f.report(f.checkNotContentRegex(path, pattern, true))
}

func (f *HTTPFixture) checkNotContentRegex(path, pattern string, useXPath bool) error {
	nodes, err := f.existingNodes(path, useXPath)
	if err != nil {
		return err
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return err
	}
	if re.MatchString(nodes[0].Value()) {
		return f.failf(`Failed asserting node DENOTED BY %s DOES NOT CONTAIN content MATCHING "%s"`, path, pattern)
	}
	return nil
}
