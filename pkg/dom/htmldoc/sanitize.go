package htmldoc

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy
)

// MessagePolicy returns the default policy for rendered messages: inline
// text markup with class attributes, nothing executable.
func MessagePolicy() *bluemonday.Policy {
	messagePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		elements := []string{"span", "div", "p", "small", "strong", "em", "ul", "li"}
		policy.AllowElements(elements...)
		policy.AllowAttrs("class", "role").OnElements(elements...)
		messagePolicy = policy
	})
	return messagePolicy
}

func sanitizeMarkup(policy *bluemonday.Policy, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(policy.Sanitize(trimmed))
}
