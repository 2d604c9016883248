// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP plumbing used by the content fetcher:
// status checking and body decoding.
package httputil

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// StatusError reports an HTTP response whose status code is 400 or above.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s from %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// CheckStatus returns a *StatusError when resp carries a client or server
// error status. Informational, success and redirect codes pass.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}
	url := ""
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}
	return &StatusError{StatusCode: resp.StatusCode, URL: url}
}

// Response is a fully read HTTP response.
type Response struct {
	// Body is the decoded response body.
	Body []byte
	// Header holds the response headers as received.
	Header http.Header
}

// ContentType returns the media type of the Content-Type header without
// parameters, lowercased. It is empty when the header is absent.
func (r *Response) ContentType() string {
	mt, _, _ := strings.Cut(r.Header.Get("Content-Type"), ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// Get issues a single GET for url with the given headers and returns the
// decoded response. Responses with status >= 400 yield a *StatusError. No
// retry is attempted.
func Get(ctx context.Context, client *http.Client, url string, header http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := CheckStatus(resp); err != nil {
		io.Copy(io.Discard, resp.Body)
		return nil, err
	}

	body, err := ReadBody(resp)
	if err != nil {
		return nil, err
	}
	return &Response{Body: body, Header: resp.Header}, nil
}

// ReadBody reads the whole response body, undoing any gzip or deflate
// Content-Encoding. The transport only decompresses on its own when the
// caller left Accept-Encoding unset, so explicit headers land here.
func ReadBody(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return Decode(data, resp.Header.Get("Content-Encoding"))
}

// Decode reverses the encodings listed in a Content-Encoding header value.
// Encodings are undone last-applied first. Unknown codings are an error;
// "identity" and an empty value are no-ops.
func Decode(data []byte, contentEncoding string) ([]byte, error) {
	if contentEncoding == "" {
		return data, nil
	}
	codings := strings.Split(contentEncoding, ",")
	for i := len(codings) - 1; i >= 0; i-- {
		coding := strings.ToLower(strings.TrimSpace(codings[i]))
		var err error
		switch coding {
		case "", "identity":
			continue
		case "gzip", "x-gzip":
			data, err = gunzip(data)
		case "deflate":
			data, err = inflate(data)
		default:
			return nil, fmt.Errorf("unsupported content encoding %q", coding)
		}
		if err != nil {
			return nil, fmt.Errorf("decoding %s body: %w", coding, err)
		}
	}
	return data, nil
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// inflate handles both the zlib-wrapped form HTTP mandates and the raw
// DEFLATE stream some servers send instead.
func inflate(data []byte) ([]byte, error) {
	if zr, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
		defer zr.Close()
		return io.ReadAll(zr)
	}
	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()
	return io.ReadAll(fr)
}
