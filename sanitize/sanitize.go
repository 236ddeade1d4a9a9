// Package sanitize neutralizes markup in free-text post fields.
package sanitize

import (
	"strings"

	"postboard/models"
)

// Angle brackets are the only characters that can open a tag, so escaping
// them leaves no element or attribute for a browser to execute. Other
// punctuation, including & and quotes, is kept as typed.
var markup = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// Text returns s with markup escaped. The output contains no angle brackets,
// so applying it twice gives the same result as applying it once, and a
// non-empty input never becomes empty.
func Text(s string) string {
	return markup.Replace(s)
}

// Post sanitizes the text fields of an already validated post.
func Post(p models.PostBase) models.PostBase {
	p.Name = Text(p.Name)
	p.Message = Text(p.Message)
	return p
}
