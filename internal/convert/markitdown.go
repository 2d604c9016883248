// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/fetchd/internal/container"
)

// DefaultMarkitdownImage is the container image used for formats without a
// built-in converter.
const DefaultMarkitdownImage = "markitdown:latest"

// markitdownConverter pipes content through the markitdown container image.
// It accepts every format and sits after all built-in converters, so PDF,
// Office documents and the like land here. Third-party markitdown plugins
// are only loaded when plugins are enabled.
type markitdownConverter struct {
	detect  func(ctx context.Context) (container.Runtime, error)
	image   string
	plugins bool
}

func newMarkitdownConverter(detect func(ctx context.Context) (container.Runtime, error), image string, plugins bool) *markitdownConverter {
	if detect == nil {
		detect = container.DetectRuntime
	}
	if image == "" {
		image = DefaultMarkitdownImage
	}
	return &markitdownConverter{detect: detect, image: image, plugins: plugins}
}

func (m *markitdownConverter) Accepts(StreamInfo) bool { return true }

func (m *markitdownConverter) Convert(ctx context.Context, content []byte, info StreamInfo) (*Result, error) {
	rt, err := m.detect(ctx)
	if err != nil {
		return nil, &UnsupportedFormatError{MIMEType: info.MIMEType, Err: err}
	}
	if err := rt.ImageExists(ctx, m.image); err != nil {
		return nil, &UnsupportedFormatError{
			MIMEType: info.MIMEType,
			Err:      fmt.Errorf("markitdown image %s not available in %s (run mage markitdown): %w", m.image, rt.Name(), err),
		}
	}

	args := m.args(info)
	zerolog.Ctx(ctx).Debug().Str("runtime", rt.Name()).Str("image", m.image).Strs("args", args).Msg("running markitdown")

	var out bytes.Buffer
	if err := rt.Run(ctx, m.image, args, bytes.NewReader(content), &out); err != nil {
		return nil, fmt.Errorf("converting %s with markitdown: %w", info.MIMEType, err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("markitdown produced empty output for %s", info.MIMEType)
	}
	return &Result{Markdown: out.String()}, nil
}

// args are the markitdown CLI arguments. Content arrives on stdin, so the
// resolved type is passed along as hints.
func (m *markitdownConverter) args(info StreamInfo) []string {
	var args []string
	if info.Extension != "" {
		args = append(args, "--extension", info.Extension)
	}
	if info.MIMEType != "" && info.MIMEType != "application/octet-stream" {
		args = append(args, "--mime-type", info.MIMEType)
	}
	if m.plugins {
		args = append(args, "--use-plugins")
	}
	return args
}
