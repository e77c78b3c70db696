package assertions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/mvctest/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createResponse(statusCode int, body string, headers map[string]string) *http.Response {
	resp := http.NewResponse().SetStatusCode(statusCode).SetBody(body)
	if _, ok := headers["Content-Type"]; !ok {
		resp.SetHeader("Content-Type", "application/json")
	}
	for k, v := range headers {
		resp.SetHeader(k, v)
	}
	return resp
}

func TestEvaluator_StatusCode(t *testing.T) {
	e := NewEvaluator(createResponse(200, `{}`, nil))

	result := e.Evaluate(Assertion{Subject: "status", Operator: OpEquals, Expected: 200})
	assert.True(t, result.Passed)
	assert.Equal(t, 200, result.Actual)

	result = e.Evaluate(Assertion{Subject: "status", Operator: OpNotEquals, Expected: 200})
	assert.False(t, result.Passed)
	assert.Equal(t, "expected not to equal 200", result.Message)
}

func TestEvaluator_Reason(t *testing.T) {
	e := NewEvaluator(createResponse(404, `{}`, nil))
	result := e.Evaluate(Assertion{Subject: "reason", Operator: OpEquals, Expected: "Not Found"})
	assert.True(t, result.Passed)
}

func TestEvaluator_Body_JSONPath(t *testing.T) {
	e := NewEvaluator(createResponse(200, `{"user": {"name": "John", "age": 30}, "items": [{"id": 1}, {"id": 2}]}`, nil))

	tests := []struct {
		name      string
		assertion Assertion
		passed    bool
	}{
		{"nested string", Assertion{Subject: "body.user.name", Operator: OpEquals, Expected: "John"}, true},
		{"number equals int", Assertion{Subject: "body.user.age", Operator: OpEquals, Expected: 30}, true},
		{"greater than", Assertion{Subject: "body.user.age", Operator: OpGreaterThan, Expected: 18}, true},
		{"less than fails", Assertion{Subject: "body.user.age", Operator: OpLessThan, Expected: 18}, false},
		{"bracket index", Assertion{Subject: "body.items[1].id", Operator: OpEquals, Expected: 2}, true},
		{"jsonpath subject", Assertion{Subject: "jsonpath $.items[0].id", Operator: OpEquals, Expected: 1}, true},
		{"length", Assertion{Subject: "body.items", Operator: OpLength, Expected: 2}, true},
		{"missing path", Assertion{Subject: "body.user.email", Operator: OpExists}, false},
		{"missing path not exists", Assertion{Subject: "body.user.email", Operator: OpNotExists}, true},
		{"type object", Assertion{Subject: "body.user", Operator: OpType, Expected: "object"}, true},
		{"type array", Assertion{Subject: "body.items", Operator: OpType, Expected: "array"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Evaluate(tt.assertion)
			assert.Equal(t, tt.passed, result.Passed, result.Message)
		})
	}
}

func TestEvaluator_JSONPath(t *testing.T) {
	e := NewEvaluator(createResponse(200, `{"a": {"b": [true]}}`, nil))

	value, ok, err := e.JSONPath("a.b[0]")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, true, value)

	_, ok, err = e.JSONPath("a.c")
	require.NoError(t, err)
	assert.False(t, ok)

	html := NewEvaluator(createResponse(200, `<html></html>`, map[string]string{"Content-Type": "text/html"}))
	_, _, err = html.JSONPath("a")
	assert.Error(t, err)
}

func TestEvaluator_JSONWithoutContentType(t *testing.T) {
	e := NewEvaluator(createResponse(200, `{"ok": true}`, map[string]string{"Content-Type": "text/plain"}))
	result := e.Evaluate(Assertion{Subject: "body.ok", Operator: OpEquals, Expected: true})
	assert.True(t, result.Passed)
}

func TestEvaluator_StringOperators(t *testing.T) {
	e := NewEvaluator(createResponse(200, `<p>hello world</p>`, map[string]string{"Content-Type": "text/html"}))

	assert.True(t, e.Evaluate(Assertion{Subject: "body", Operator: OpContains, Expected: "hello"}).Passed)
	assert.True(t, e.Evaluate(Assertion{Subject: "body", Operator: OpNotContains, Expected: "bye"}).Passed)
	assert.True(t, e.Evaluate(Assertion{Subject: "body", Operator: OpStartsWith, Expected: "<p>"}).Passed)
	assert.True(t, e.Evaluate(Assertion{Subject: "body", Operator: OpEndsWith, Expected: "</p>"}).Passed)
	assert.True(t, e.Evaluate(Assertion{Subject: "body", Operator: OpMatches, Expected: "/hel+o/"}).Passed)

	result := e.Evaluate(Assertion{Subject: "body", Operator: OpMatches, Expected: "("})
	assert.False(t, result.Passed)
	assert.Contains(t, result.Message, "invalid regex pattern")
}

func TestEvaluator_Header(t *testing.T) {
	e := NewEvaluator(createResponse(200, `{}`, map[string]string{"X-Request-Id": "abc"}))

	assert.True(t, e.Evaluate(Assertion{Subject: "header X-Request-Id", Operator: OpEquals, Expected: "abc"}).Passed)
	assert.True(t, e.Evaluate(Assertion{Subject: "header x-request-id", Operator: OpExists}).Passed)
	assert.True(t, e.Evaluate(Assertion{Subject: "header X-Missing", Operator: OpNotExists}).Passed)
}

func TestEvaluator_InIncludes(t *testing.T) {
	e := NewEvaluator(createResponse(200, `{"role": "admin", "tags": ["a", "b"]}`, nil))

	assert.True(t, e.Evaluate(Assertion{Subject: "body.role", Operator: OpIn, Expected: []any{"user", "admin"}}).Passed)
	assert.False(t, e.Evaluate(Assertion{Subject: "body.role", Operator: OpIn, Expected: []any{"user"}}).Passed)
	assert.True(t, e.Evaluate(Assertion{Subject: "body.tags", Operator: OpIncludes, Expected: "b"}).Passed)
}

func TestEvaluator_UnknownOperator(t *testing.T) {
	e := NewEvaluator(createResponse(200, `{}`, nil))
	result := e.Evaluate(Assertion{Subject: "status", Operator: "~"})
	assert.False(t, result.Passed)
	assert.Equal(t, "unknown operator: ~", result.Message)
}

const userSchema = `{
	"type": "object",
	"required": ["id", "name"],
	"properties": {
		"id": {"type": "integer"},
		"name": {"type": "string"}
	}
}`

func TestEvaluator_Schema(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.json"), []byte(userSchema), 0644))

	e := NewEvaluator(createResponse(200, `{"id": 1, "name": "ada"}`, nil), WithBaseDir(dir))
	result := e.Evaluate(Assertion{Subject: "body", Operator: OpSchema, Expected: "user.json"})
	assert.True(t, result.Passed, result.Message)

	ok, msg := e.MatchesSchema(userSchema)
	assert.True(t, ok, msg)

	bad := NewEvaluator(createResponse(200, `{"id": "x"}`, nil))
	ok, msg = bad.MatchesSchema(userSchema)
	assert.False(t, ok)
	assert.Contains(t, msg, "schema validation failed")
}

func TestEvaluator_Schema_PathTraversal(t *testing.T) {
	dir := t.TempDir()
	e := NewEvaluator(createResponse(200, `{}`, nil), WithBaseDir(dir))

	result := e.Evaluate(Assertion{Subject: "body", Operator: OpSchema, Expected: "../../etc/passwd"})
	assert.False(t, result.Passed)
	assert.Contains(t, result.Message, "path traversal detected")
}

func TestEvaluateAll(t *testing.T) {
	results := EvaluateAll(createResponse(201, `{"id": 7}`, nil), []Assertion{
		{Subject: "status", Operator: OpEquals, Expected: 201},
		{Subject: "body.id", Operator: OpEquals, Expected: "7"},
	})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Passed, r.Message)
	}
}

func TestEqual(t *testing.T) {
	ok, _ := Equal(float64(3), 3)
	assert.True(t, ok)
	ok, _ = Equal(nil, "")
	assert.False(t, ok)
	ok, msg := Equal("a", "b")
	assert.False(t, ok)
	assert.Equal(t, "expected b, got a", msg)
}
