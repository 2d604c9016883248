// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Document is the outcome of converting one fetched resource.
type Document struct {
	// Source is the URL or path the content came from.
	Source string `json:"source" yaml:"source"`

	// Title is the document title when the converter could find one.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// MIMEType is the sniffed media type of the raw content.
	MIMEType string `json:"mime_type" yaml:"mime_type"`

	// Markdown is the converted text content.
	Markdown string `json:"-" yaml:"-"`

	// ConvertedAt records when the conversion finished.
	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`
}
