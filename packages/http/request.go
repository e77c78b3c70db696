package http

import (
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
)

// Request methods.
const (
	MethodGet     = "GET"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodPatch   = "PATCH"
	MethodDelete  = "DELETE"
	MethodHead    = "HEAD"
	MethodOptions = "OPTIONS"
)

type Request struct {
	Method     string
	URI        *url.URL
	RequestURI string
	Query      url.Values
	Post       url.Values
	Content    string
	Headers    nethttp.Header
	Cookies    map[string]string
}

func NewRequest() *Request {
	return &Request{
		Method:     MethodGet,
		URI:        &url.URL{Path: "/"},
		RequestURI: "/",
		Query:      url.Values{},
		Post:       url.Values{},
		Headers:    nethttp.Header{},
		Cookies:    map[string]string{},
	}
}

func (r *Request) SetMethod(method string) *Request {
	r.Method = strings.ToUpper(method)
	return r
}

func (r *Request) SetHeader(key, value string) *Request {
	r.Headers.Set(key, value)
	return r
}

func (r *Request) Header(key string) string {
	return r.Headers.Get(key)
}

func (r *Request) SetContent(content string) *Request {
	r.Content = content
	return r
}

// SetURI parses raw and stores it. The request URI is the path only.
func (r *Request) SetURI(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Path == "" {
		u.Path = "/"
	}
	r.URI = u
	r.RequestURI = u.Path
	return nil
}

// Host is the host of the URI without a port.
func (r *Request) Host() string {
	if r.URI == nil {
		return ""
	}
	return r.URI.Hostname()
}

func (r *Request) Path() string {
	if r.URI == nil || r.URI.Path == "" {
		return "/"
	}
	return r.URI.Path
}

// IsXMLHttpRequest reports whether the request was marked as an AJAX call.
func (r *Request) IsXMLHttpRequest() bool {
	return r.Header("X-Requested-With") == "XMLHttpRequest"
}

func (r *Request) IsGet() bool  { return r.Method == MethodGet }
func (r *Request) IsPost() bool { return r.Method == MethodPost }

// Param returns a query value, falling back to post.
func (r *Request) Param(name string) string {
	if v := r.Query.Get(name); v != "" {
		return v
	}
	return r.Post.Get(name)
}

// Reset restores a freshly constructed request.
func (r *Request) Reset() {
	*r = *NewRequest()
}

// FromStdRequest converts a net/http request. Form bodies populate Post.
func FromStdRequest(req *nethttp.Request) (*Request, error) {
	r := NewRequest()
	r.SetMethod(req.Method)

	u := *req.URL
	if u.Host == "" {
		u.Host = req.Host
	}
	if u.Path == "" {
		u.Path = "/"
	}
	r.URI = &u
	r.RequestURI = u.Path
	r.Query = ParseQuery(u.RawQuery)

	for k, v := range req.Header {
		r.Headers[k] = append([]string(nil), v...)
	}
	for _, c := range req.Cookies() {
		r.Cookies[c.Name] = c.Value
	}

	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		r.Content = string(body)
	}
	if strings.HasPrefix(r.Header("Content-Type"), "application/x-www-form-urlencoded") {
		r.Post = ParseQuery(r.Content)
	}
	return r, nil
}
