// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package exiftool reads image metadata by piping content through an
// exiftool binary in JSON mode.
package exiftool

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/tidwall/gjson"
)

// Fields are the metadata tags surfaced in converted output, in order.
var Fields = []string{
	"ImageSize",
	"Title",
	"Caption",
	"Description",
	"Keywords",
	"Artist",
	"Author",
	"DateTimeOriginal",
	"CreateDate",
	"GPSPosition",
}

// Field is one metadata tag and its rendered value.
type Field struct {
	Name  string
	Value string
}

// runFunc runs a command with stdin and returns its stdout.
type runFunc func(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error)

// Reader extracts metadata with the exiftool binary at Path.
type Reader struct {
	Path string
	run  runFunc
}

// New returns a Reader for the exiftool binary at path.
func New(path string) *Reader {
	return &Reader{Path: path, run: runCommand}
}

// Read returns the known metadata fields present in content, in Fields
// order. Tags exiftool does not report are omitted.
func (r *Reader) Read(ctx context.Context, content []byte) ([]Field, error) {
	out, err := r.run(ctx, r.Path, []string{"-json", "-"}, bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("running exiftool %s: %w", r.Path, err)
	}
	if !gjson.ValidBytes(out) {
		return nil, fmt.Errorf("exiftool produced invalid JSON")
	}
	return parse(out), nil
}

// parse picks Fields from the first record of exiftool's JSON array.
func parse(out []byte) []Field {
	record := gjson.GetBytes(out, "0")
	var fields []Field
	for _, name := range Fields {
		v := record.Get(name)
		if !v.Exists() {
			continue
		}
		value := v.String()
		if v.IsArray() {
			parts := make([]string, 0, len(v.Array()))
			for _, item := range v.Array() {
				parts = append(parts, item.String())
			}
			value = strings.Join(parts, ", ")
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		fields = append(fields, Field{Name: name, Value: value})
	}
	return fields
}

func runCommand(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
