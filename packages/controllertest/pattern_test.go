package controllertest

import (
	"testing"

	"github.com/abdul-hamid-achik/mvctest/packages/assertions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{pattern: "#html#", input: "text/html", want: true},
		{pattern: "/^TEXT/i", input: "text/html", want: true},
		{pattern: "/^TEXT/", input: "text/html", want: false},
		{pattern: "~zend\\.com~", input: "https://www.zend.com", want: true},
		{pattern: "^foo$", input: "foo", want: true},
		{pattern: "/a/b", input: "/a/b", want: true},
		{pattern: "/", input: "/", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := compilePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, re.MatchString(tt.input))
		})
	}
}

func TestCompilePattern_Invalid(t *testing.T) {
	_, err := compilePattern("#(#")
	assert.True(t, assertions.IsUsage(err))
}
