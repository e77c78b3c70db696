// Package http provides the request and response model used by the mvc kernel.
//
// The types are plain data, built and inspected by tests without a network:
//   - Request carries method, URI, query and post parameters, raw content,
//     headers and cookies
//   - Response carries a status code (custom codes included), a reason
//     phrase, headers and the body
//   - Params models nested request parameters and encodes them the way HTML
//     forms do (a[b]=1)
//
// FromStdRequest and Response.Write bridge to net/http so an application can
// also be served over a real listener.
package http
