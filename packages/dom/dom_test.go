package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html><body>
<div id="content">foo</div>
<div class="get">get one</div>
<div class="get">get two</div>
<form id="myform"><input type="text" name="q" value="x"></form>
<div class="top"><span>nested</span> text</div>
</body></html>`

func TestDocument_Query(t *testing.T) {
	doc, err := Parse(page)
	require.NoError(t, err)

	nodes, err := doc.Query("div.get")
	require.NoError(t, err)
	assert.Equal(t, 2, nodes.Len())
	assert.Equal(t, []string{"get one", "get two"}, nodes.Values())

	nodes, err = doc.Query("form#myform input")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	v, ok := nodes[0].Attr("name")
	assert.True(t, ok)
	assert.Equal(t, "q", v)

	nodes, err = doc.Query("div.top")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "nested text", nodes[0].Value())
	assert.Contains(t, nodes[0].OuterHTML(), "<span>nested</span>")
}

func TestDocument_XPath(t *testing.T) {
	doc, err := Parse(page)
	require.NoError(t, err)

	nodes, err := doc.XPath(`//div[@class="get"]`)
	require.NoError(t, err)
	assert.Equal(t, 2, nodes.Len())

	nodes, err = doc.XPath(`//div[@id="content"]`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "foo", nodes[0].Value())
	assert.Equal(t, "div", nodes[0].Name)
}

func TestDocument_InvalidQueries(t *testing.T) {
	doc, err := Parse(page)
	require.NoError(t, err)

	_, err = doc.XPath("//div[")
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = doc.Query("div[")
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestDocument_XPathScalarResults(t *testing.T) {
	doc, err := Parse(page)
	require.NoError(t, err)

	for _, expr := range []string{"count(//div)", "string(//div)", "boolean(//div)"} {
		_, err := doc.XPath(expr)
		assert.ErrorIs(t, err, ErrInvalidQuery, expr)
	}

	feed, err := Parse(`<?xml version="1.0"?><feed><entry/></feed>`, AsXML())
	require.NoError(t, err)
	_, err = feed.XPath("count(//entry)")
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestDocument_XMLNamespaces(t *testing.T) {
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:media="http://search.yahoo.com/mrss/">
  <entry><title>First</title><media:thumbnail url="a.png"/></entry>
  <entry><title>Second</title></entry>
</feed>`

	nodes, err := Query(feed, "//atom:entry/atom:title", true,
		WithNamespaces(map[string]string{"atom": "http://www.w3.org/2005/Atom"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Second"}, nodes.Values())

	nodes, err = Query(feed, "//m:thumbnail", true,
		WithNamespaces(map[string]string{"m": "http://search.yahoo.com/mrss/"}))
	require.NoError(t, err)
	assert.Equal(t, 1, nodes.Len())
}

func TestExecute(t *testing.T) {
	css, err := Query(page, "div", false)
	require.NoError(t, err)
	xp, err := Query(page, "//div", true)
	require.NoError(t, err)
	assert.Equal(t, css.Len(), xp.Len())
}

func TestIsXML(t *testing.T) {
	assert.True(t, IsXML("  <?xml version=\"1.0\"?><a/>"))
	assert.False(t, IsXML("<html></html>"))
	assert.True(t, IsXMLContentType("application/atom+xml; charset=utf-8"))
	assert.True(t, IsXMLContentType("text/xml"))
	assert.False(t, IsXMLContentType("text/html"))
}
