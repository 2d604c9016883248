// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestGet_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "*/*", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "Text/HTML; charset=utf-8")
		w.Write([]byte("<h1>hi</h1>"))
	}))
	defer ts.Close()

	h := http.Header{}
	h.Set("Accept", "*/*")
	resp, err := Get(context.Background(), ts.Client(), ts.URL, h)
	require.NoError(t, err)
	assert.Equal(t, "<h1>hi</h1>", string(resp.Body))
	assert.Equal(t, "text/html", resp.ContentType())
}

func TestGet_StatusErrors(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
			}))
			defer ts.Close()

			resp, err := Get(context.Background(), ts.Client(), ts.URL+"/missing", nil)
			require.Error(t, err)
			assert.Nil(t, resp)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, code, se.StatusCode)
			assert.Contains(t, se.URL, "/missing")
		})
	}
}

func TestGet_SingleAttempt(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := Get(context.Background(), ts.Client(), ts.URL, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGet_DecodesGzip(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(gzipBytes(t, "compressed page"))
	}))
	defer ts.Close()

	h := http.Header{}
	h.Set("Accept-Encoding", "gzip, deflate")
	resp, err := Get(context.Background(), ts.Client(), ts.URL, h)
	require.NoError(t, err)
	assert.Equal(t, "compressed page", string(resp.Body))
}

func TestResponse_ContentType(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"text/html", "text/html"},
		{"text/html; charset=UTF-8", "text/html"},
		{" Application/PDF ", "application/pdf"},
	}
	for _, tt := range tests {
		r := &Response{Header: http.Header{}}
		if tt.header != "" {
			r.Header.Set("Content-Type", tt.header)
		}
		assert.Equal(t, tt.want, r.ContentType(), "Content-Type %q", tt.header)
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		code    int
		wantErr bool
	}{
		{http.StatusOK, false},
		{http.StatusNoContent, false},
		{http.StatusFound, false},
		{399, false},
		{http.StatusBadRequest, true},
		{http.StatusForbidden, true},
		{http.StatusBadGateway, true},
	}
	for _, tt := range tests {
		err := CheckStatus(&http.Response{StatusCode: tt.code})
		if tt.wantErr {
			assert.Error(t, err, "status %d", tt.code)
		} else {
			assert.NoError(t, err, "status %d", tt.code)
		}
	}
}

func TestDecode(t *testing.T) {
	var zbuf bytes.Buffer
	zw := zlib.NewWriter(&zbuf)
	zw.Write([]byte("zlib body"))
	zw.Close()

	var fbuf bytes.Buffer
	fw, err := flate.NewWriter(&fbuf, flate.DefaultCompression)
	require.NoError(t, err)
	fw.Write([]byte("raw deflate body"))
	fw.Close()

	tests := []struct {
		name     string
		data     []byte
		encoding string
		want     string
		wantErr  bool
	}{
		{name: "no encoding", data: []byte("plain"), want: "plain"},
		{name: "identity", data: []byte("plain"), encoding: "identity", want: "plain"},
		{name: "gzip", data: gzipBytes(t, "gz"), encoding: "gzip", want: "gz"},
		{name: "deflate zlib", data: zbuf.Bytes(), encoding: "deflate", want: "zlib body"},
		{name: "deflate raw", data: fbuf.Bytes(), encoding: "deflate", want: "raw deflate body"},
		{name: "unknown coding", data: []byte("x"), encoding: "br", wantErr: true},
		{name: "corrupt gzip", data: []byte("not gzip"), encoding: "gzip", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.data, tt.encoding)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
