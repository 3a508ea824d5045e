// Package render converts generated post markdown to HTML for preview and export
package render

import (
	"bytes"

	"github.com/yuin/goldmark"

	pkerrors "github.com/postforge/postforge/pkg/postkit/errors"
)

// HTML renders the post's markdown to an HTML fragment
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", pkerrors.New("render", "convert", err)
	}
	return buf.String(), nil
}
