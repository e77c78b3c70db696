package http

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Params are request parameters. Values are strings, string slices or nested
// Params (or map[string]any), encoded with bracket notation.
type Params map[string]any

// Encode returns the form-encoded representation with keys in sorted order.
func (p Params) Encode() string {
	return p.Values().Encode()
}

// Values flattens p into url.Values. Nested maps become a[b] keys and slices
// become a[0], a[1] keys.
func (p Params) Values() url.Values {
	out := url.Values{}
	flatten(out, "", map[string]any(p))
	return out
}

func flatten(out url.Values, prefix string, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "[" + k + "]"
		}
		flattenValue(out, name, m[k])
	}
}

func flattenValue(out url.Values, name string, v any) {
	switch val := v.(type) {
	case nil:
		out.Add(name, "")
	case Params:
		flatten(out, name, map[string]any(val))
	case map[string]any:
		flatten(out, name, val)
	case map[string]string:
		nested := make(map[string]any, len(val))
		for k, s := range val {
			nested[k] = s
		}
		flatten(out, name, nested)
	case []string:
		for i, s := range val {
			out.Add(fmt.Sprintf("%s[%d]", name, i), s)
		}
	case []any:
		for i, item := range val {
			flattenValue(out, fmt.Sprintf("%s[%d]", name, i), item)
		}
	case string:
		out.Add(name, val)
	case bool:
		if val {
			out.Add(name, "1")
		} else {
			out.Add(name, "0")
		}
	default:
		out.Add(name, fmt.Sprint(val))
	}
}

// ParamsFromValues converts flat values into Params. Single values stay
// strings, repeated values become []string.
func ParamsFromValues(v url.Values) Params {
	p := make(Params, len(v))
	for k, vals := range v {
		if len(vals) == 1 {
			p[k] = vals[0]
		} else {
			p[k] = append([]string(nil), vals...)
		}
	}
	return p
}

// ParseQuery parses a query string the way form decoding does, replacing
// rather than merging existing values. A key or value with a malformed
// escape is kept as literal text instead of dropping the pair.
func ParseQuery(raw string) url.Values {
	values := url.Values{}
	for _, pair := range strings.Split(strings.TrimPrefix(raw, "?"), "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		values.Add(unescapeLoose(key), unescapeLoose(value))
	}
	return values
}

func unescapeLoose(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return strings.ReplaceAll(s, "+", " ")
}

// ParseFormBody parses an urlencoded body into single values.
func ParseFormBody(body string) map[string]string {
	result := make(map[string]string)
	pairs := strings.Split(body, "&")
	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 {
			key, _ := url.QueryUnescape(kv[0])
			value, _ := url.QueryUnescape(kv[1])
			result[key] = value
		}
	}
	return result
}
