// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/fetchd/internal/convert"
	"github.com/pdiddy/fetchd/internal/fetch"
	"github.com/pdiddy/fetchd/internal/llm"
	"github.com/pdiddy/fetchd/internal/secrets"
	"github.com/pdiddy/fetchd/pkg/types"
)

// app carries the process-level collaborators. Zero-valued hooks fall back
// to production implementations.
type app struct {
	stdout io.Writer
	stderr io.Writer

	// httpClient overrides the client built from settings.
	httpClient *http.Client

	// userAgent overrides the rotating User-Agent generator.
	userAgent func() string

	// factory overrides the conversion engine factory.
	factory convert.Factory
}

// run fetches cfg.Source, converts it and writes the Markdown to stdout.
// Nothing is written to stdout unless both steps succeed.
func (a *app) run(ctx context.Context, cfg types.InvocationConfig, s types.Settings, frontmatter bool) error {
	log := zerolog.Ctx(ctx)

	client := a.httpClient
	if client == nil {
		client = &http.Client{Timeout: s.HTTP.Timeout}
	}
	fetcher := fetch.New(client)
	fetcher.UserAgent = a.userAgent

	src, err := fetcher.Fetch(ctx, cfg.Source)
	if err != nil {
		return err
	}

	factory := a.factory
	if factory == nil {
		factory = convert.NewFactory(engineDeps(ctx, s))
	}

	opts := cfg.ConverterOptions()
	log.Debug().Interface("options", opts).Msg("converting")

	hint := convert.StreamInfo{MIMEType: src.ContentType, Extension: src.Extension}
	res, err := convert.Convert(ctx, factory, src.Content, hint, opts)
	if err != nil {
		return err
	}

	out := res.Markdown
	if frontmatter {
		out, err = convert.AddFrontmatter(types.Document{
			Source:      cfg.Source,
			Title:       res.Title,
			MIMEType:    res.MIMEType,
			Markdown:    res.Markdown,
			ConvertedAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(a.stdout, out)
	return err
}

// engineDeps builds the engine collaborators from settings. Secrets are
// only read when an image description is actually requested.
func engineDeps(ctx context.Context, s types.Settings) convert.Deps {
	return convert.Deps{
		NewDescriber: func() (llm.Describer, error) {
			sec, err := secrets.Load(ctx, s.SecretsDir)
			if err != nil {
				return nil, err
			}
			key := sec.Resolve(s.OpenAI.APIKey, secrets.OpenAIAPIKey, "OPENAI_API_KEY")
			return llm.NewOpenAIDescriber(key, s.OpenAI.BaseURL)
		},
		MarkitdownImage: s.Markitdown.Image,
	}
}
