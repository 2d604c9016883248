// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
)

// strippedElements never contribute text to the output.
const strippedElements = "script, style, noscript, template"

var utf8BOM = []byte("\xef\xbb\xbf")

// htmlConverter renders HTML documents and fragments as Markdown.
type htmlConverter struct {
	md *converter.Converter
}

func newHTMLConverter() *htmlConverter {
	return &htmlConverter{
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				strikethrough.NewStrikethroughPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

func (h *htmlConverter) Accepts(info StreamInfo) bool {
	return info.MIMEType == "text/html" || info.MIMEType == "application/xhtml+xml"
}

func (h *htmlConverter) Convert(_ context.Context, content []byte, _ StreamInfo) (*Result, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find(strippedElements).Remove()

	sel := doc.Find("body").First()
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	inner, err := sel.Html()
	if err != nil {
		return nil, fmt.Errorf("rendering HTML body: %w", err)
	}

	md, err := h.md.ConvertString(inner)
	if err != nil {
		return nil, fmt.Errorf("converting HTML to Markdown: %w", err)
	}
	return &Result{Markdown: strings.TrimSpace(md), Title: title}, nil
}

// looksLikeHTML reports whether text opens with a tag and parses into at
// least one known HTML element. Fragments such as <section> or <meta
// charset> are missed by signature sniffing.
func looksLikeHTML(content []byte) bool {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(content, utf8BOM), " \t\r\n\f")
	if len(trimmed) == 0 || trimmed[0] != '<' {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(trimmed))
	if err != nil {
		return false
	}
	known := doc.Find("head *, body *").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Get(0).DataAtom != 0
	})
	return known.Length() > 0
}
