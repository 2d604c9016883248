// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"
)

// textConverter passes textual content through unchanged. Markdown, JSON
// and plain text all sniff into this family.
type textConverter struct{}

func (t *textConverter) Accepts(info StreamInfo) bool {
	switch info.MIMEType {
	case "application/json", "application/x-ndjson", "text/markdown":
		return true
	}
	return strings.HasPrefix(info.MIMEType, "text/")
}

func (t *textConverter) Convert(_ context.Context, content []byte, info StreamInfo) (*Result, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%s content is not valid UTF-8", info.MIMEType)
	}
	return &Result{Markdown: string(content)}, nil
}

// csvConverter renders comma-separated content as a Markdown table with the
// first record as header.
type csvConverter struct{}

func (c *csvConverter) Accepts(info StreamInfo) bool {
	return info.MIMEType == "text/csv"
}

func (c *csvConverter) Convert(_ context.Context, content []byte, _ StreamInfo) (*Result, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(rows) == 0 {
		return &Result{}, nil
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i := 0; i < width; i++ {
			cell := ""
			if i < len(cells) {
				cell = strings.ReplaceAll(cells[i], "|", `\|`)
				cell = strings.ReplaceAll(cell, "\n", " ")
			}
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}

	writeRow(rows[0])
	b.WriteString("|" + strings.Repeat(" --- |", width) + "\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return &Result{Markdown: strings.TrimRight(b.String(), "\n")}, nil
}
