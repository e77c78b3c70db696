package mvc

import (
	"errors"

	"github.com/abdul-hamid-achik/mvctest/packages/http"
)

var errNoEvent = errors.New("controller has not been dispatched")

// URLPlugin generates URLs from route names.
type URLPlugin struct {
	controller *ActionController
}

// FromRoute assembles the URL of the named route. An empty name means the
// currently matched route.
func (p *URLPlugin) FromRoute(name string, params map[string]string) (string, error) {
	e := p.controller.event
	if e == nil || e.Router == nil {
		return "", errNoEvent
	}
	if name == "" {
		if e.RouteMatch == nil {
			return "", errors.New("no route matched and no route name given")
		}
		name = e.RouteMatch.MatchedRouteName()
	}
	return e.Router.Assemble(name, params)
}

// RedirectPlugin turns the current response into a redirect.
type RedirectPlugin struct {
	controller *ActionController
}

func (p *RedirectPlugin) ToURL(url string) *http.Response {
	resp := p.controller.Response()
	if resp == nil {
		resp = http.NewResponse()
	}
	return resp.Redirect(url)
}

func (p *RedirectPlugin) ToRoute(name string, params map[string]string) (*http.Response, error) {
	url, err := p.controller.URL().FromRoute(name, params)
	if err != nil {
		return nil, err
	}
	return p.ToURL(url), nil
}

// sessionFlashKey is the session entry holding messages for the next request.
const sessionFlashKey = "FlashMessenger"

// FlashMessenger passes messages to the next request through the session.
// Messages added now are visible to the next request only.
type FlashMessenger struct {
	globals  *Globals
	messages []string
	current  []string
}

func newFlashMessenger(g *Globals) *FlashMessenger {
	fm := &FlashMessenger{globals: g}
	if g != nil && g.HasSession() {
		if msgs, ok := g.Session[sessionFlashKey].([]string); ok {
			fm.messages = msgs
			delete(g.Session, sessionFlashKey)
		}
	}
	return fm
}

// AddMessage queues msg for the next request.
func (fm *FlashMessenger) AddMessage(msg string) *FlashMessenger {
	fm.current = append(fm.current, msg)
	if fm.globals != nil {
		session := fm.globals.StartSession()
		queued, _ := session[sessionFlashKey].([]string)
		session[sessionFlashKey] = append(queued, msg)
	}
	return fm
}

// Messages returns the messages queued by the previous request.
func (fm *FlashMessenger) Messages() []string {
	return append([]string(nil), fm.messages...)
}

func (fm *FlashMessenger) HasMessages() bool {
	return len(fm.messages) > 0
}

// CurrentMessages returns the messages added during this request.
func (fm *FlashMessenger) CurrentMessages() []string {
	return append([]string(nil), fm.current...)
}
