// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves raw content from either an HTTP(S) URL or a local
// file. Classification is purely lexical: anything that does not start with
// http:// or https:// is a filesystem path.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/corpix/uarand"
	"github.com/rs/zerolog"

	"github.com/pdiddy/fetchd/internal/httputil"
)

// Header values sent with every URL fetch.
const (
	DefaultAccept         = "*/*"
	DefaultAcceptLanguage = "*"
	DefaultAcceptEncoding = "gzip, deflate"
	DefaultConnection     = "keep-alive"
)

// Resource is the raw content behind a source together with what the
// source says about its type.
type Resource struct {
	Content []byte

	// ContentType is the media type the server declared, without
	// parameters. Always empty for files.
	ContentType string

	// Extension is the lowercased extension of the file name or URL path,
	// with dot, or empty.
	Extension string
}

// Fetcher returns the content behind a source string.
type Fetcher struct {
	// Client performs URL fetches. A nil Client uses http.DefaultClient.
	Client *http.Client

	// UserAgent produces the User-Agent header for each request. A nil
	// UserAgent rotates through real desktop browser strings.
	UserAgent func() string
}

// New returns a Fetcher that uses client for URL sources.
func New(client *http.Client) *Fetcher {
	return &Fetcher{Client: client}
}

// IsURL reports whether source is fetched over the network. Only the
// literal, case-sensitive prefixes http:// and https:// qualify.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetch returns the raw content behind source. HTTP responses with status
// 400 or above yield a *httputil.StatusError; a missing file yields an error
// matching fs.ErrNotExist.
func (f *Fetcher) Fetch(ctx context.Context, source string) (*Resource, error) {
	log := zerolog.Ctx(ctx)
	if IsURL(source) {
		log.Debug().Str("url", source).Msg("fetching url")
		resp, err := httputil.Get(ctx, f.client(), source, f.Headers())
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", source, err)
		}
		log.Debug().Int("bytes", len(resp.Body)).Str("content_type", resp.ContentType()).Msg("fetched url")
		return &Resource{
			Content:     resp.Body,
			ContentType: resp.ContentType(),
			Extension:   urlExtension(source),
		}, nil
	}

	log.Debug().Str("path", source).Msg("reading file")
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return &Resource{Content: data, Extension: strings.ToLower(filepath.Ext(source))}, nil
}

func urlExtension(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}

// Headers builds the request headers for a URL fetch, drawing a fresh
// User-Agent each call.
func (f *Fetcher) Headers() http.Header {
	ua := uarand.GetRandom
	if f.UserAgent != nil {
		ua = f.UserAgent
	}
	h := http.Header{}
	h.Set("User-Agent", ua())
	h.Set("Accept", DefaultAccept)
	h.Set("Accept-Language", DefaultAcceptLanguage)
	h.Set("Accept-Encoding", DefaultAcceptEncoding)
	h.Set("Connection", DefaultConnection)
	return h
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}
