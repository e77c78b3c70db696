package router

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/http"
)

// RouteType selects how a route pattern is interpreted.
type RouteType string

const (
	TypeLiteral  RouteType = "literal"
	TypeSegment  RouteType = "segment"
	TypeHostname RouteType = "hostname"
)

var (
	ErrUnknownRouteType = errors.New("unknown route type")
	ErrMissingParameter = errors.New("missing route parameter")
)

// Route is a compiled named route.
type Route struct {
	Name        string
	Type        RouteType
	Pattern     string
	Methods     []string
	Defaults    map[string]string
	Constraints map[string]string
	Priority    int

	regex  *regexp.Regexp
	tokens []token
}

type token struct {
	literal  string
	param    string
	optional []token
}

var paramPattern = regexp.MustCompile(`^:([A-Za-z_][A-Za-z0-9_-]*)`)

// NewRoute compiles a route definition.
func NewRoute(name string, cfg config.RouteConfig) (*Route, error) {
	rt := RouteType(strings.ToLower(cfg.Type))
	if rt == "" {
		rt = TypeLiteral
	}

	route := &Route{
		Name:        name,
		Type:        rt,
		Pattern:     cfg.Route,
		Defaults:    copyMap(cfg.Defaults),
		Constraints: copyMap(cfg.Constraints),
		Priority:    cfg.Priority,
	}
	for _, m := range cfg.Methods {
		route.Methods = append(route.Methods, strings.ToUpper(m))
	}

	switch rt {
	case TypeLiteral:
		route.tokens = []token{{literal: cfg.Route}}
		return route, nil
	case TypeSegment, TypeHostname:
	default:
		return nil, fmt.Errorf("%w %q for route %s", ErrUnknownRouteType, cfg.Type, name)
	}

	tokens, rest, err := parseTokens(cfg.Route, false)
	if err != nil {
		return nil, fmt.Errorf("route %s: %w", name, err)
	}
	if rest != "" {
		return nil, fmt.Errorf("route %s: unbalanced ']' in %q", name, cfg.Route)
	}
	route.tokens = tokens

	sep := "/"
	if rt == TypeHostname {
		sep = "."
	}
	expr := "^" + route.buildRegex(tokens, sep) + "$"
	if rt == TypeHostname {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("route %s: %w", name, err)
	}
	route.regex = re
	return route, nil
}

func parseTokens(pattern string, nested bool) ([]token, string, error) {
	var tokens []token
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, token{literal: lit.String()})
			lit.Reset()
		}
	}

	for len(pattern) > 0 {
		switch pattern[0] {
		case ':':
			m := paramPattern.FindStringSubmatch(pattern)
			if m == nil {
				lit.WriteByte(':')
				pattern = pattern[1:]
				continue
			}
			flush()
			tokens = append(tokens, token{param: m[1]})
			pattern = pattern[len(m[0]):]
		case '[':
			flush()
			inner, rest, err := parseTokens(pattern[1:], true)
			if err != nil {
				return nil, "", err
			}
			if !strings.HasPrefix(rest, "]") {
				return nil, "", fmt.Errorf("unclosed '[' in route pattern")
			}
			tokens = append(tokens, token{optional: inner})
			pattern = rest[1:]
		case ']':
			flush()
			return tokens, pattern, nil
		default:
			lit.WriteByte(pattern[0])
			pattern = pattern[1:]
		}
	}
	flush()
	if nested {
		return nil, "", fmt.Errorf("unclosed '[' in route pattern")
	}
	return tokens, "", nil
}

func (r *Route) buildRegex(tokens []token, sep string) string {
	var b strings.Builder
	for _, t := range tokens {
		switch {
		case t.optional != nil:
			b.WriteString("(?:" + r.buildRegex(t.optional, sep) + ")?")
		case t.param != "":
			c, ok := r.Constraints[t.param]
			if !ok {
				c = "[^" + regexp.QuoteMeta(sep) + "]+"
			}
			b.WriteString("(?P<" + groupName(t.param) + ">" + c + ")")
		default:
			b.WriteString(regexp.QuoteMeta(t.literal))
		}
	}
	return b.String()
}

// Go group names cannot contain '-'.
func groupName(param string) string {
	return strings.ReplaceAll(param, "-", "_")
}

// Match returns the merged parameters or nil when req does not match.
func (r *Route) Match(req *http.Request) map[string]string {
	if len(r.Methods) > 0 && !contains(r.Methods, req.Method) {
		return nil
	}

	var subject string
	switch r.Type {
	case TypeHostname:
		subject = req.Host()
	default:
		subject = req.Path()
	}

	if r.Type == TypeLiteral {
		if subject != r.Pattern {
			return nil
		}
		params := copyMap(r.Defaults)
		if params == nil {
			params = map[string]string{}
		}
		return params
	}

	m := r.regex.FindStringSubmatch(subject)
	if m == nil {
		return nil
	}

	params := copyMap(r.Defaults)
	if params == nil {
		params = map[string]string{}
	}
	names := r.paramNames(r.tokens)
	for i, group := range r.regex.SubexpNames() {
		if i == 0 || group == "" || m[i] == "" {
			continue
		}
		params[names[group]] = m[i]
	}
	return params
}

func (r *Route) paramNames(tokens []token) map[string]string {
	names := map[string]string{}
	for _, t := range tokens {
		if t.param != "" {
			names[groupName(t.param)] = t.param
		}
		for k, v := range r.paramNames(t.optional) {
			names[k] = v
		}
	}
	return names
}

// Assemble builds the route's path (or host for hostname routes). Optional
// parts are emitted only when every parameter they contain is given.
func (r *Route) Assemble(params map[string]string) (string, error) {
	merged := copyMap(r.Defaults)
	if merged == nil {
		merged = map[string]string{}
	}
	for k, v := range params {
		merged[k] = v
	}
	return assembleTokens(r.tokens, merged, params, false)
}

func assembleTokens(tokens []token, merged, given map[string]string, optional bool) (string, error) {
	var b strings.Builder
	for _, t := range tokens {
		switch {
		case t.optional != nil:
			part, err := assembleTokens(t.optional, merged, given, true)
			if err == nil {
				b.WriteString(part)
			}
		case t.param != "":
			v, ok := merged[t.param]
			if optional {
				v, ok = given[t.param]
			}
			if !ok || v == "" {
				return "", fmt.Errorf("%w %q", ErrMissingParameter, t.param)
			}
			b.WriteString(v)
		default:
			b.WriteString(t.literal)
		}
	}
	return b.String(), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
