// Package mvc is a small MVC application kernel.
//
// An Application is built from a config.ApplicationConfig by Init. Building
// loads the configured modules from a Catalog, merges their configuration
// (routes, view templates, services), registers their controllers and
// bootstraps the default listeners. Run then drives one request through the
// lifecycle events:
//
//	route -> dispatch -> render -> finish
//
// Listeners are attached to an EventManager with priorities; identifiers tie
// an EventManager to listeners registered on a SharedEventManager. Errors
// raised while routing or dispatching are recorded on the Event (Error and the
// "exception" parameter) instead of being returned from Run, so callers can
// inspect them afterwards.
//
// Ambient request state (session, cookies, get and post buffers and the
// shared event registry) lives in Globals, which is passed explicitly to each
// application instead of being process wide.
package mvc
