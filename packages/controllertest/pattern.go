package controllertest

import (
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/mvctest/packages/assertions"
)

const delimiters = "/#~"

// compilePattern compiles a Go regular expression. A pattern wrapped in /, #
// or ~ delimiters has them stripped, and trailing i, m and s flags become
// inline flags, so /^foo/i works too.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	expr := pattern
	if len(pattern) >= 2 && strings.ContainsRune(delimiters, rune(pattern[0])) {
		delim := pattern[0]
		if end := strings.LastIndexByte(pattern, delim); end > 0 {
			flags := pattern[end+1:]
			if strings.Trim(flags, "ims") == "" {
				expr = pattern[1:end]
				if flags != "" {
					expr = "(?" + flags + ")" + expr
				}
			}
		}
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, assertions.Usagef("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}
