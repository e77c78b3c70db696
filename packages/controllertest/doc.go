// Package controllertest provides test fixtures that build an mvc
// application from configuration, dispatch simulated requests through it and
// assert on the outcome: loaded modules, route match, controller, action,
// templates, response status, headers, redirects and the response body.
//
// A fixture is created per test and reports failures through the test:
//
//	func TestIndex(t *testing.T) {
//		f := controllertest.NewHTTPFixture(t,
//			controllertest.WithApplicationConfig(appConfig()))
//		f.Dispatch("/tests", "", nil, false)
//		f.AssertResponseStatusCode(200)
//		f.AssertQueryCount("div.top", 3)
//	}
//
// The application is built lazily on first use and discarded by Reset, which
// also clears the session and cookies unless asked to keep them. Fixtures are
// not safe for concurrent use.
package controllertest
