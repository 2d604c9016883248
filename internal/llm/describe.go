// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm produces natural-language image descriptions through an
// OpenAI-compatible chat completion API.
package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// DefaultPrompt is used when no custom prompt is configured.
const DefaultPrompt = "Write a detailed caption for this image."

// ErrNoAPIKey is returned by NewOpenAIDescriber when no API key is set.
var ErrNoAPIKey = errors.New("image descriptions require an OpenAI API key")

// Describer turns image bytes into a textual description. Tests substitute
// a fake; production uses OpenAIDescriber.
type Describer interface {
	Describe(ctx context.Context, image []byte, mimeType, model, prompt string) (string, error)
}

// OpenAIDescriber calls the chat completions endpoint with the image
// attached as a data URI.
type OpenAIDescriber struct {
	client openai.Client
}

// NewOpenAIDescriber builds a describer. baseURL may be empty to use the
// public API.
func NewOpenAIDescriber(apiKey, baseURL string) (*OpenAIDescriber, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoAPIKey
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIDescriber{client: openai.NewClient(opts...)}, nil
}

// Describe asks model to describe image following prompt. An empty prompt
// falls back to DefaultPrompt.
func (d *OpenAIDescriber) Describe(ctx context.Context, image []byte, mimeType, model, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPrompt
	}

	req := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: []openai.ChatCompletionMessageParamUnion{imageMessage(prompt, DataURI(image, mimeType))},
	}

	resp, err := d.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("describing image with %s: %w", model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("describing image with %s: empty response", model)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// DataURI encodes image as a base64 data URI.
func DataURI(image []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
}

func imageMessage(prompt, imageURL string) openai.ChatCompletionMessageParamUnion {
	return openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
					{OfText: &openai.ChatCompletionContentPartTextParam{Text: prompt}},
					{OfImageURL: &openai.ChatCompletionContentPartImageParam{
						ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
							URL: imageURL,
						},
					}},
				},
			},
		},
	}
}
