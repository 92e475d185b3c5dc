package utils

import "github.com/microcosm-cc/bluemonday"

// User-generated-content policy: basic formatting survives, scripts and
// event handlers do not.
var sanitizer = bluemonday.UGCPolicy()

// Sanitize strips unsafe HTML from user-submitted text before it is stored.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
