// Package htmlsanitize cleans user and profile supplied text before it is
// logged, mailed or rendered.
package htmlsanitize

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc allows basic formatting in navigation copy from the site profile.
	ugc = bluemonday.UGCPolicy()

	// strict removes every tag; used for lead form fields.
	strict = bluemonday.StrictPolicy()
)

// Sanitize returns s with unsafe markup removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc.Sanitize(s)
}

// SanitizeToHTML sanitizes s and marks the result safe for html/template.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// StripTags removes all markup from s and trims surrounding whitespace.
// Entities produced by the policy are left escaped.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(strict.Sanitize(s))
}
