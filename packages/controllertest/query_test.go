package controllertest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery(t *testing.T) {
	f := newFixture(t)
	f.Dispatch("/tests", "", nil, false)

	nodes, err := f.Query("div.top", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "foo", ""}, nodes.Values())

	nodes, err = f.Query(`//div[@class="top"]`, true)
	require.NoError(t, err)
	assert.Equal(t, 3, nodes.Len())
}

func TestAssertQuery(t *testing.T) {
	f, rec := recording(t, nil)
	f.Dispatch("/tests", "", nil, false)

	assert.True(t, f.AssertQuery("form#myform"))
	assert.True(t, f.AssertXPathQuery(`//form[@id="myform"]`))
	assert.True(t, f.AssertNotQuery("form#myform2"))
	assert.True(t, f.AssertNotXPathQuery(`//form[@id="myform2"]`))

	requireFailure(t, rec, f.AssertQuery("form#myform2"), "Failed asserting node DENOTED BY form#myform2 EXISTS")
	requireFailure(t, rec, f.AssertXPathQuery(`//form[@id="myform2"]`), `Failed asserting node DENOTED BY //form[@id="myform2"] EXISTS`)
	requireFailure(t, rec, f.AssertNotQuery("form#myform"), "Failed asserting node DENOTED BY form#myform DOES NOT EXIST")
	requireFailure(t, rec, f.AssertNotXPathQuery(`//form[@id="myform"]`), `Failed asserting node DENOTED BY //form[@id="myform"] DOES NOT EXIST`)
}

func TestAssertQueryCount(t *testing.T) {
	f, rec := recording(t, nil)
	f.Dispatch("/tests", "", nil, false)

	tests := []struct {
		name     string
		path     string
		useXPath bool
	}{
		{name: "css", path: "div.top"},
		{name: "xpath", path: `//div[@class="top"]`, useXPath: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, notCount, atLeast, atMost := f.AssertQueryCount, f.AssertNotQueryCount, f.AssertQueryCountMin, f.AssertQueryCountMax
			if tt.useXPath {
				count, notCount, atLeast, atMost = f.AssertXPathQueryCount, f.AssertNotXPathQueryCount, f.AssertXPathQueryCountMin, f.AssertXPathQueryCountMax
			}

			assert.True(t, count(tt.path, 3))
			assert.True(t, notCount(tt.path, 2))
			assert.True(t, atLeast(tt.path, 1))
			assert.True(t, atLeast(tt.path, 3))
			assert.True(t, atMost(tt.path, 3))
			assert.True(t, atMost(tt.path, 4))

			requireFailure(t, rec, count(tt.path, 2), "OCCURS EXACTLY 2 times, actually occurs 3 times")
			requireFailure(t, rec, count(tt.path, 4), "OCCURS EXACTLY 4 times, actually occurs 3 times")
			requireFailure(t, rec, notCount(tt.path, 3), "DOES NOT OCCUR EXACTLY 3 times")
			requireFailure(t, rec, atLeast(tt.path, 4), "OCCURS AT LEAST 4 times, actually occurs 3 times")
			requireFailure(t, rec, atMost(tt.path, 2), "OCCURS AT MOST 2 times, actually occurs 3 times")
		})
	}
}

func TestAssertQueryContentContains(t *testing.T) {
	f, rec := recording(t, nil)
	f.Dispatch("/tests", "", nil, false)

	assert.True(t, f.AssertQueryContentContains("div#content", "foo"))
	assert.True(t, f.AssertQueryContentContains("div.top", "foo"))
	assert.True(t, f.AssertXPathQueryContentContains(`//div[@class="top"]`, "foo"))
	assert.True(t, f.AssertNotQueryContentContains("div#content", "bar"))
	assert.True(t, f.AssertNotXPathQueryContentContains(`//div[@class="top"]`, "bar"))

	requireFailure(t, rec,
		f.AssertQueryContentContains("div.top", "bar"),
		`Failed asserting node denoted by div.top CONTAINS content "bar", Contents: [foo,foo,]`,
	)
	requireFailure(t, rec,
		f.AssertQueryContentContains("div#content", "fo"),
		`CONTAINS content "fo", Contents: [foo]`,
	)
	requireFailure(t, rec,
		f.AssertNotQueryContentContains("div.top", "foo"),
		`Failed asserting node DENOTED BY div.top DOES NOT CONTAIN content "foo"`,
	)
	requireFailure(t, rec, f.AssertQueryContentContains("div#none", "foo"), "Failed asserting node DENOTED BY div#none EXISTS")
	requireFailure(t, rec, f.AssertNotQueryContentContains("div#none", "foo"), "Failed asserting node DENOTED BY div#none EXISTS")
}

func TestAssertQueryContentRegex(t *testing.T) {
	f, rec := recording(t, nil)
	f.Dispatch("/tests", "", nil, false)

	assert.True(t, f.AssertQueryContentRegex("div#content", "#o{2}#"))
	assert.True(t, f.AssertQueryContentRegex("div.top", "#o{2}#"))
	assert.True(t, f.AssertXPathQueryContentRegex(`//div[@id="content"]`, "^fo"))
	assert.True(t, f.AssertNotQueryContentRegex("div#content", "#o{3,}#"))
	assert.True(t, f.AssertNotXPathQueryContentRegex(`//div[@id="content"]`, "/BAR/"))

	requireFailure(t, rec,
		f.AssertQueryContentRegex("div", "/foobar/"),
		`Failed asserting node denoted by div CONTAINS content MATCHING "/foobar/", actual content is "foofoofoobar"`,
	)
	requireFailure(t, rec,
		f.AssertNotQueryContentRegex("div.top", "#foo#"),
		`Failed asserting node DENOTED BY div.top DOES NOT CONTAIN content MATCHING "#foo#"`,
	)
	requireFailure(t, rec, f.AssertQueryContentRegex("div#none", "#foo#"), "Failed asserting node DENOTED BY div#none EXISTS")
	requireFailure(t, rec, f.AssertNotXPathQueryContentRegex(`//div[@id="none"]`, "#foo#"), "EXISTS")
}

func TestAssertXPathQuery_InvalidExpression(t *testing.T) {
	f, rec := recording(t, nil)
	f.Dispatch("/tests", "", nil, false)

	requireFailure(t, rec, f.AssertXPathQuery("form#myform"), "invalid test:", "invalid query")
}

func TestAssertXPathQuery_ScalarExpression(t *testing.T) {
	f, rec := recording(t, nil)
	f.Dispatch("/tests", "", nil, false)

	requireFailure(t, rec, f.AssertXPathQuery("count(//div)"), "invalid test:", "does not select nodes")
}

func TestXPathNamespaces(t *testing.T) {
	f, rec := recording(t, nil)
	f.Dispatch("/register-xpath-namespace", "", nil, false)

	f.RegisterXPathNamespaces(map[string]string{
		"atom":  "http://www.w3.org/2005/Atom",
		"media": "http://search.yahoo.com/mrss/",
	})

	assert.True(t, f.AssertXPathQuery("//atom:feed/atom:title"))
	assert.True(t, f.AssertXPathQueryCount("//atom:entry", 2))
	assert.True(t, f.AssertXPathQueryContentContains("//atom:entry/atom:title", "Second entry"))
	assert.True(t, f.AssertXPathQuery("//media:thumbnail"))
	assert.False(t, rec.failed, rec.last())
}
