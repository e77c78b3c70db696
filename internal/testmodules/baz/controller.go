package baz

import (
	"github.com/abdul-hamid-achik/mvctest/packages/http"
	"github.com/abdul-hamid-achik/mvctest/packages/mvc"
)

// NamespaceFeed is the XML document served by the registerxpathnamespace
// action.
const NamespaceFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:media="http://search.yahoo.com/mrss/">
  <title>Baz feed</title>
  <entry><title>First entry</title><media:thumbnail url="https://example.com/first.png"/></entry>
  <entry><title>Second entry</title></entry>
</feed>`

type IndexController struct {
	mvc.ActionController
}

func NewIndexController() mvc.Controller {
	c := &IndexController{}
	c.Action("unittests", c.unittests)
	c.Action("persistencetest", c.persistencetest)
	c.Action("redirect", c.redirect)
	c.Action("redirectToRoute", c.redirectToRoute)
	c.Action("exception", c.exception)
	c.Action("custom-response", c.customResponse)
	c.Action("registerxpathnamespace", c.registerXPathNamespace)
	c.Action("json", c.json)
	return c
}

func (c *IndexController) unittests(e *mvc.Event) (any, error) {
	c.Response().Headers.Add("Content-Type", "text/html")
	c.Response().Headers.Add("WWW-Authenticate", `Basic realm="Laminas"`)

	return map[string]any{
		"num_get":  valueOr(c.Request().Query.Get("num_get"), "0"),
		"num_post": valueOr(c.Request().Post.Get("num_post"), "0"),
	}, nil
}

func (c *IndexController) persistencetest(e *mvc.Event) (any, error) {
	fm := c.FlashMessenger()
	fm.AddMessage("test")
	return map[string]any{"messages": fm.Messages()}, nil
}

func (c *IndexController) redirect(e *mvc.Event) (any, error) {
	return c.Redirect().ToURL("https://www.zend.com"), nil
}

func (c *IndexController) redirectToRoute(e *mvc.Event) (any, error) {
	return c.Redirect().ToRoute("myroute", nil)
}

func (c *IndexController) exception(e *mvc.Event) (any, error) {
	return nil, mvc.Errorf("Foo error !")
}

func (c *IndexController) customResponse(e *mvc.Event) (any, error) {
	return http.NewResponse().SetStatusCode(999), nil
}

func (c *IndexController) registerXPathNamespace(e *mvc.Event) (any, error) {
	resp := c.Response()
	resp.SetHeader("Content-Type", "application/atom+xml; charset=utf-8")
	resp.SetBody(NamespaceFeed)
	return resp, nil
}

func (c *IndexController) json(e *mvc.Event) (any, error) {
	resp := c.Response()
	resp.SetHeader("Content-Type", "application/json")
	resp.SetBody(`{"name":"baz","count":2,"items":[{"id":1,"tag":"first"},{"id":2,"tag":"second"}]}`)
	return resp, nil
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
