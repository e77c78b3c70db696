// Package assertions holds the failure types reported by the controller test
// fixtures and the evaluation of response subjects.
//
// Failures:
//   - ExpectationFailedError for assertions that did not hold
//   - UsageError for tests that are wrong ("invalid test: ...")
//   - Trace appends the chain of an application error to a failure message
//
// The Evaluator checks status, reason phrase, headers and JSON bodies:
//
//	e := assertions.NewEvaluator(resp)
//	r := e.Evaluate(assertions.Assertion{Subject: "body.items[0].id", Operator: assertions.OpEquals, Expected: 1})
//
// JSON paths use gjson syntax. Schemas are validated with gojsonschema.
package assertions
