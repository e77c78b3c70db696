// Package constraint adapts fixture state to reusable predicates.
//
// A Constraint answers whether an observed value matches a condition that
// is looked up against the test's application: whether the response
// redirects, whether it redirects to a named route, which module owns the
// dispatched controller. Not and And combine them and Evaluate turns a
// mismatch into an assertion failure:
//
//	err := constraint.Evaluate("home", constraint.And(constraint.HasRedirect(tc), constraint.IsRedirectedRouteName(tc)))
package constraint
