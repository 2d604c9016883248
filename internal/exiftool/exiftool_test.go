// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package exiftool

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `[{
  "SourceFile": "-",
  "ImageSize": "640x480",
  "Title": "Harbor at dusk",
  "Keywords": ["boats", "sunset"],
  "Artist": "",
  "CreateDate": "2024:05:01 19:42:00",
  "Megapixels": 0.307
}]`

func TestRead(t *testing.T) {
	var gotName string
	var gotArgs []string
	var gotInput []byte
	r := &Reader{
		Path: "/opt/bin/exiftool",
		run: func(_ context.Context, name string, args []string, stdin io.Reader) ([]byte, error) {
			gotName, gotArgs = name, args
			gotInput, _ = io.ReadAll(stdin)
			return []byte(sampleJSON), nil
		},
	}

	fields, err := r.Read(context.Background(), []byte("jpeg bytes"))
	require.NoError(t, err)

	assert.Equal(t, "/opt/bin/exiftool", gotName)
	assert.Equal(t, []string{"-json", "-"}, gotArgs)
	assert.Equal(t, "jpeg bytes", string(gotInput))

	assert.Equal(t, []Field{
		{Name: "ImageSize", Value: "640x480"},
		{Name: "Title", Value: "Harbor at dusk"},
		{Name: "Keywords", Value: "boats, sunset"},
		{Name: "CreateDate", Value: "2024:05:01 19:42:00"},
	}, fields)
}

func TestRead_CommandFails(t *testing.T) {
	r := &Reader{
		Path: "exiftool",
		run: func(context.Context, string, []string, io.Reader) ([]byte, error) {
			return nil, errors.New("exec: not found")
		},
	}
	_, err := r.Read(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exiftool")
}

func TestRead_InvalidJSON(t *testing.T) {
	r := &Reader{
		Path: "exiftool",
		run: func(context.Context, string, []string, io.Reader) ([]byte, error) {
			return []byte("Error: File not found"), nil
		},
	}
	_, err := r.Read(context.Background(), nil)
	assert.Error(t, err)
}

func TestParse_EmptyArray(t *testing.T) {
	assert.Empty(t, parse([]byte(`[]`)))
}
