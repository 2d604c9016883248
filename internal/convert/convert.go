// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns raw document bytes into Markdown. An engine holds a
// list of format converters, sniffs the content type, and hands the bytes
// to the first converter that accepts it.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/pdiddy/fetchd/internal/container"
	"github.com/pdiddy/fetchd/internal/llm"
)

// StreamInfo describes the content being converted. As a hint passed to
// an engine it carries what the source declared; after resolution it
// carries the type the engine settled on.
type StreamInfo struct {
	// MIMEType is the media type without parameters.
	MIMEType string
	// Extension is the file extension, with dot.
	Extension string
}

// Result is the output of a conversion.
type Result struct {
	Markdown string
	Title    string
	MIMEType string
}

// Converter handles one family of formats.
type Converter interface {
	// Accepts reports whether this converter handles info.
	Accepts(info StreamInfo) bool

	// Convert produces Markdown from content.
	Convert(ctx context.Context, content []byte, info StreamInfo) (*Result, error)
}

// Engine converts a byte stream into text content. hint may be zero.
type Engine interface {
	ConvertStream(ctx context.Context, r io.Reader, hint StreamInfo) (*Result, error)
}

// Factory builds an engine from a converter option mapping. It is the seam
// between the command line and the conversion engine.
type Factory func(options map[string]any) (Engine, error)

// UnsupportedFormatError reports content no converter could handle.
type UnsupportedFormatError struct {
	MIMEType string
	Err      error
}

func (e *UnsupportedFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unsupported content type %s: %v", e.MIMEType, e.Err)
	}
	return fmt.Sprintf("unsupported content type %s", e.MIMEType)
}

func (e *UnsupportedFormatError) Unwrap() error { return e.Err }

// Convert builds an engine with factory and options and converts content.
// The Markdown of the returned result is the engine's text content. Engine
// errors are returned as-is.
func Convert(ctx context.Context, factory Factory, content []byte, hint StreamInfo, options map[string]any) (*Result, error) {
	engine, err := factory(options)
	if err != nil {
		return nil, err
	}
	return engine.ConvertStream(ctx, bytes.NewReader(content), hint)
}

// Deps are the collaborators an engine needs beyond its options.
type Deps struct {
	// NewDescriber builds the image describer. It is called only when an
	// image is converted with an LLM model configured.
	NewDescriber func() (llm.Describer, error)

	// DetectRuntime finds a container runtime for the markitdown converter.
	// Defaults to container.DetectRuntime.
	DetectRuntime func(ctx context.Context) (container.Runtime, error)

	// MarkitdownImage is the markitdown container image. Defaults to
	// DefaultMarkitdownImage.
	MarkitdownImage string
}

// NewFactory returns a Factory producing MarkItDown engines wired to deps.
func NewFactory(deps Deps) Factory {
	return func(options map[string]any) (Engine, error) {
		return New(options, deps)
	}
}

// MarkItDown is the default conversion engine.
type MarkItDown struct {
	opts       Options
	converters []Converter
}

// New builds an engine from an option mapping. The markitdown container
// converter comes last, so built-in converters always win for formats they
// handle.
func New(options map[string]any, deps Deps) (*MarkItDown, error) {
	opts, err := DecodeOptions(options)
	if err != nil {
		return nil, err
	}

	m := &MarkItDown{opts: opts}
	m.converters = []Converter{
		newHTMLConverter(),
		&csvConverter{},
		&textConverter{},
		newImageConverter(opts, deps.NewDescriber),
		newMarkitdownConverter(deps.DetectRuntime, deps.MarkitdownImage, opts.EnablePlugins),
	}
	return m, nil
}

// Options returns the decoded options the engine was built with.
func (m *MarkItDown) Options() Options { return m.opts }

// ConvertStream reads r fully, resolves its type against hint and converts
// it.
func (m *MarkItDown) ConvertStream(ctx context.Context, r io.Reader, hint StreamInfo) (*Result, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}

	info := Resolve(content, hint)
	zerolog.Ctx(ctx).Debug().
		Str("mime", info.MIMEType).
		Str("hint", hint.MIMEType).
		Str("ext", info.Extension).
		Int("bytes", len(content)).
		Msg("resolved content type")

	for _, c := range m.converters {
		if !c.Accepts(info) {
			continue
		}
		res, err := c.Convert(ctx, content, info)
		if err != nil {
			return nil, err
		}
		res.MIMEType = info.MIMEType
		return res, nil
	}
	return nil, &UnsupportedFormatError{MIMEType: info.MIMEType}
}

// Resolve settles the media type of content. The sniffed type wins unless
// it is generic (text/plain or application/octet-stream), in which case the
// declared type from hint, or the type registered for hint.Extension, is
// used. Text that parses into HTML elements is HTML.
func Resolve(content []byte, hint StreamInfo) StreamInfo {
	mt := mimetype.Detect(content)
	info := StreamInfo{MIMEType: baseType(mt.String()), Extension: mt.Extension()}

	if info.MIMEType == "text/plain" || info.MIMEType == "application/octet-stream" {
		declared := baseType(hint.MIMEType)
		if declared == "" && hint.Extension != "" {
			declared = baseType(mime.TypeByExtension(hint.Extension))
		}
		if declared != "" && declared != "application/octet-stream" {
			info.MIMEType = declared
			if hint.Extension != "" {
				info.Extension = hint.Extension
			}
		}
	}

	if info.MIMEType == "text/plain" && looksLikeHTML(content) {
		info = StreamInfo{MIMEType: "text/html", Extension: ".html"}
	}
	return info
}

func baseType(s string) string {
	mt, _, _ := strings.Cut(s, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
