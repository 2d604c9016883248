// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/fetchd/internal/exiftool"
	"github.com/pdiddy/fetchd/internal/llm"
)

// metadataReader extracts image metadata fields.
type metadataReader interface {
	Read(ctx context.Context, content []byte) ([]exiftool.Field, error)
}

// imageConverter emits exiftool metadata and an LLM description for raster
// images. With neither configured the output is empty. A model without an
// API key only logs a warning; the metadata is still emitted.
type imageConverter struct {
	model        string
	prompt       string
	metadata     metadataReader
	newDescriber func() (llm.Describer, error)
}

func newImageConverter(opts Options, newDescriber func() (llm.Describer, error)) *imageConverter {
	c := &imageConverter{
		model:        opts.LLMModel,
		prompt:       opts.LLMPrompt,
		newDescriber: newDescriber,
	}
	if opts.ExiftoolPath != "" {
		c.metadata = exiftool.New(opts.ExiftoolPath)
	}
	return c
}

func (c *imageConverter) Accepts(info StreamInfo) bool {
	return strings.HasPrefix(info.MIMEType, "image/")
}

func (c *imageConverter) Convert(ctx context.Context, content []byte, info StreamInfo) (*Result, error) {
	var b strings.Builder

	if c.metadata != nil {
		fields, err := c.metadata.Read(ctx, content)
		if err != nil {
			return nil, err
		}
		for _, f := range fields {
			fmt.Fprintf(&b, "%s: %s\n", f.Name, f.Value)
		}
	}

	if c.model != "" && c.newDescriber != nil {
		desc, err := c.describe(ctx, content, info.MIMEType)
		if err != nil {
			return nil, err
		}
		if desc != "" {
			b.WriteString("\n# Description:\n")
			b.WriteString(desc)
			b.WriteString("\n")
		}
	}

	return &Result{Markdown: strings.TrimSpace(b.String())}, nil
}

func (c *imageConverter) describe(ctx context.Context, content []byte, mimeType string) (string, error) {
	log := zerolog.Ctx(ctx)
	d, err := c.newDescriber()
	if errors.Is(err, llm.ErrNoAPIKey) {
		log.Warn().Str("model", c.model).Msg("no OpenAI API key configured, skipping image description")
		return "", nil
	}
	if err != nil {
		return "", err
	}
	log.Debug().Str("model", c.model).Msg("requesting image description")
	desc, err := d.Describe(ctx, content, mimeType, c.model, c.prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(desc), nil
}
