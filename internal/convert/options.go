// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Options are the engine knobs decoded from the converter option mapping.
// Keys mirror types.Opt* constants.
type Options struct {
	LLMModel      string `mapstructure:"llm_model"`
	LLMPrompt     string `mapstructure:"llm_prompt"`
	ExiftoolPath  string `mapstructure:"exiftool_path"`
	EnablePlugins bool   `mapstructure:"enable_plugins"`
}

// DecodeOptions converts an option mapping into Options. Keys the engine
// does not recognize are rejected rather than silently ignored.
func DecodeOptions(m map[string]any) (Options, error) {
	var o Options
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &o,
	})
	if err != nil {
		return Options{}, err
	}
	if err := dec.Decode(m); err != nil {
		return Options{}, fmt.Errorf("decoding converter options: %w", err)
	}
	return o, nil
}
