package controllertest

import (
	"github.com/abdul-hamid-achik/mvctest/packages/constraint"
)

// HTTPFixture adds response header, redirect, DOM and JSON assertions to
// Fixture.
type HTTPFixture struct {
	*Fixture
	xpathNamespaces map[string]string
}

func NewHTTPFixture(t TestingT, opts ...Option) *HTTPFixture {
	return &HTTPFixture{
		Fixture:         NewFixture(t, opts...),
		xpathNamespaces: map[string]string{},
	}
}

// AssertResponseReasonPhrase asserts the reason phrase of the last response.
func (f *HTTPFixture) AssertResponseReasonPhrase(phrase string) bool {
	f.t.Helper()
	resp, err := f.response()
	if err != nil {
		return f.report(err)
	}
	if resp.ReasonPhrase != phrase {
		return f.report(f.failf(`Failed asserting response reason phrase "%s", actual reason phrase is "%s"`, phrase, resp.ReasonPhrase))
	}
	return true
}

func (f *HTTPFixture) headerValues(header string) ([]string, error) {
	resp, err := f.response()
	if err != nil {
		return nil, err
	}
	return resp.Headers.Values(header), nil
}

// AssertHasResponseHeader asserts the last response carries header.
func (f *HTTPFixture) AssertHasResponseHeader(header string) bool {
	f.t.Helper()
	values, err := f.headerValues(header)
	if err != nil {
		return f.report(err)
	}
	if len(values) == 0 {
		return f.report(f.failf(`Failed asserting response header "%s" found`, header))
	}
	return true
}

func (f *HTTPFixture) AssertNotHasResponseHeader(header string) bool {
	f.t.Helper()
	values, err := f.headerValues(header)
	if err != nil {
		return f.report(err)
	}
	if len(values) > 0 {
		return f.report(f.failf(`Failed asserting response header "%s" WAS NOT found`, header))
	}
	return true
}

// existingHeader is headerValues failing when the header is absent.
func (f *HTTPFixture) existingHeader(header string) ([]string, error) {
	values, err := f.headerValues(header)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, f.failf(`Failed asserting response header, header "%s" doesn't exist`, header)
	}
	return values, nil
}

// AssertResponseHeaderContains asserts one of the values of header equals
// match.
func (f *HTTPFixture) AssertResponseHeaderContains(header, match string) bool {
	f.t.Helper()
	values, err := f.existingHeader(header)
	if err != nil {
		return f.report(err)
	}
	for _, v := range values {
		if v == match {
			return true
		}
	}
	return f.report(f.failf(`Failed asserting response header "%s" exists and contains "%s", actual content is "%s"`, header, match, values[len(values)-1]))
}

func (f *HTTPFixture) AssertNotResponseHeaderContains(header, match string) bool {
	f.t.Helper()
	values, err := f.existingHeader(header)
	if err != nil {
		return f.report(err)
	}
	for _, v := range values {
		if v == match {
			return f.report(f.failf(`Failed asserting response header "%s" DOES NOT CONTAIN "%s"`, header, match))
		}
	}
	return true
}

// AssertResponseHeaderRegex asserts one of the values of header matches
// pattern.
func (f *HTTPFixture) AssertResponseHeaderRegex(header, pattern string) bool {
	f.t.Helper()
	values, err := f.existingHeader(header)
	if err != nil {
		return f.report(err)
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return f.report(err)
	}
	for _, v := range values {
		if re.MatchString(v) {
			return true
		}
	}
	return f.report(f.failf(`Failed asserting response header "%s" exists and matches regex "%s", actual content is "%s"`, header, pattern, values[len(values)-1]))
}

func (f *HTTPFixture) AssertNotResponseHeaderRegex(header, pattern string) bool {
	f.t.Helper()
	values, err := f.existingHeader(header)
	if err != nil {
		return f.report(err)
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return f.report(err)
	}
	for _, v := range values {
		if re.MatchString(v) {
			return f.report(f.failf(`Failed asserting response header "%s" DOES NOT MATCH regex "%s"`, header, pattern))
		}
	}
	return true
}

// location returns the Location header. ok is false when there is none.
func (f *HTTPFixture) location() (loc string, ok bool, err error) {
	values, err := f.headerValues("Location")
	if err != nil || len(values) == 0 {
		return "", false, err
	}
	return values[0], true, nil
}

func (f *HTTPFixture) redirectLocation() (string, error) {
	loc, ok, err := f.location()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", f.failf("Failed asserting response is a redirect")
	}
	return loc, nil
}

// AssertRedirect asserts the last response is a redirect.
func (f *HTTPFixture) AssertRedirect() bool {
	f.t.Helper()
	_, err := f.redirectLocation()
	return f.report(err)
}

func (f *HTTPFixture) AssertNotRedirect() bool {
	f.t.Helper()
	loc, ok, err := f.location()
	if err != nil {
		return f.report(err)
	}
	if ok {
		return f.report(f.failf(`Failed asserting response is NOT a redirect, actual redirection is "%s"`, loc))
	}
	return true
}

// AssertRedirectTo asserts the last response redirects to url.
func (f *HTTPFixture) AssertRedirectTo(url string) bool {
	f.t.Helper()
	loc, err := f.redirectLocation()
	if err != nil {
		return f.report(err)
	}
	if loc != url {
		return f.report(f.failf(`Failed asserting response redirects to "%s", actual redirection is "%s"`, url, loc))
	}
	return true
}

func (f *HTTPFixture) AssertNotRedirectTo(url string) bool {
	f.t.Helper()
	loc, err := f.redirectLocation()
	if err != nil {
		return f.report(err)
	}
	if loc == url {
		return f.report(f.failf(`Failed asserting response redirects to "%s"`, url))
	}
	return true
}

// AssertRedirectRegex asserts the redirect target matches pattern.
func (f *HTTPFixture) AssertRedirectRegex(pattern string) bool {
	f.t.Helper()
	loc, err := f.redirectLocation()
	if err != nil {
		return f.report(err)
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return f.report(err)
	}
	if !re.MatchString(loc) {
		return f.report(f.failf(`Failed asserting response redirects to URL MATCHING "%s", actual redirection is "%s"`, pattern, loc))
	}
	return true
}

func (f *HTTPFixture) AssertNotRedirectRegex(pattern string) bool {
	f.t.Helper()
	loc, err := f.redirectLocation()
	if err != nil {
		return f.report(err)
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return f.report(err)
	}
	if re.MatchString(loc) {
		return f.report(f.failf(`Failed asserting response DOES NOT redirect to URL MATCHING "%s"`, pattern))
	}
	return true
}

func (f *HTTPFixture) redirectsToRoute() constraint.Constraint {
	return constraint.And(constraint.HasRedirect(f), constraint.IsRedirectedRouteName(f))
}

// AssertRedirectToRoute asserts the response redirects to the URL assembled
// for route.
func (f *HTTPFixture) AssertRedirectToRoute(route string) bool {
	f.t.Helper()
	return f.report(f.evaluate(route, f.redirectsToRoute()))
}

func (f *HTTPFixture) AssertNotRedirectToRoute(route string) bool {
	f.t.Helper()
	return f.report(f.evaluate(route, constraint.Not(f.redirectsToRoute())))
}
