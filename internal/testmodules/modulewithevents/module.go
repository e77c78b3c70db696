// Package modulewithevents replaces the response body with an empty page,
// through a shared finish listener, for every route except myroutebis.
package modulewithevents

import (
	"github.com/abdul-hamid-achik/mvctest/packages/mvc"
)

const Name = "ModuleWithEvents"

// Body is what the finish listener writes.
const Body = "<html></html>"

func init() {
	mvc.RegisterModule(Name, func() any { return &Module{} })
}

type Module struct{}

func (m *Module) OnBootstrap(e *mvc.Event) error {
	e.Application().EventManager().Attach(mvc.EventRoute, m.onRoute, -1000)
	return nil
}

func (m *Module) onRoute(e *mvc.Event) any {
	if e.RouteMatch == nil || e.RouteMatch.MatchedRouteName() == "myroutebis" {
		return nil
	}
	app := e.Application()
	shared := app.EventManager().SharedManager()
	if shared == nil {
		return nil
	}
	shared.Attach(mvc.ApplicationIdentifier, mvc.EventFinish, func(*mvc.Event) any {
		app.Response().SetBody(Body)
		return nil
	}, 1000000)
	return nil
}
