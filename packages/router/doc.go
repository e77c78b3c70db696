// Package router matches requests to named routes and assembles URLs back
// from route names.
//
// Three route types are supported:
//   - literal: the request path must equal the route, e.g. /tests
//   - segment: :name placeholders and [optional] parts, e.g. /with-param/:param
//   - hostname: placeholders matched against the host, e.g. :subdomain.domain.tld
//
// A successful match yields a RouteMatch holding the route name and the
// captured parameters merged over the route defaults.
package router
