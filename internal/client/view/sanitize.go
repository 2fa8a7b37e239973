package view

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// clean strips markup from server-provided text. Entities produced by the
// sanitizer are decoded again since the output is plain terminal text.
func clean(s string) string {
	if s == "" {
		return ""
	}
	policyOnce.Do(func() { policy = bluemonday.StrictPolicy() })
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}
