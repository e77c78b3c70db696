package http

import (
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"sort"
	"strings"
)

type Response struct {
	StatusCode   int
	ReasonPhrase string
	Headers      nethttp.Header
	Body         []byte
}

func NewResponse() *Response {
	return &Response{
		StatusCode:   nethttp.StatusOK,
		ReasonPhrase: nethttp.StatusText(nethttp.StatusOK),
		Headers:      nethttp.Header{},
	}
}

// SetStatusCode sets the code and the standard reason phrase. Codes outside
// the registry (a custom 999, say) are accepted with an empty phrase.
func (r *Response) SetStatusCode(code int) *Response {
	r.StatusCode = code
	r.ReasonPhrase = nethttp.StatusText(code)
	return r
}

func (r *Response) SetReasonPhrase(phrase string) *Response {
	r.ReasonPhrase = phrase
	return r
}

func (r *Response) SetHeader(key, value string) *Response {
	r.Headers.Set(key, value)
	return r
}

func (r *Response) SetBody(body string) *Response {
	r.Body = []byte(body)
	return r
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

func (r *Response) BodyJSON() (any, error) {
	var result any
	if err := json.Unmarshal(r.Body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Response) Header(key string) string {
	return r.Headers.Get(key)
}

func (r *Response) HasHeader(key string) bool {
	_, ok := r.Headers[nethttp.CanonicalHeaderKey(key)]
	return ok
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	ct := r.ContentType()
	return strings.Contains(ct, "application/json")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500
}

// Redirect points the response at url with a 302.
func (r *Response) Redirect(url string) *Response {
	r.SetHeader("Location", url)
	return r.SetStatusCode(nethttp.StatusFound)
}

// String renders the response as an HTTP/1.1 message.
func (r *Response) String() string {
	var b strings.Builder
	_, _ = r.WriteTo(&b)
	return b.String()
}

// WriteTo writes the status line, headers and body.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", r.StatusCode, r.ReasonPhrase)

	keys := make([]string, 0, len(r.Headers))
	for k := range r.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range r.Headers[k] {
			fmt.Fprintf(&b, "%s: %s\r\n", k, v)
		}
	}
	b.WriteString("\r\n")
	b.Write(r.Body)

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Write sends the response through a net/http response writer.
func (r *Response) Write(w nethttp.ResponseWriter) error {
	for k, v := range r.Headers {
		for _, val := range v {
			w.Header().Add(k, val)
		}
	}
	code := r.StatusCode
	if code < 100 || code > 999 {
		code = nethttp.StatusInternalServerError
	}
	w.WriteHeader(code)
	_, err := w.Write(r.Body)
	return err
}
