package types

import "time"

// Converter option keys. These are the only keys the conversion engine
// recognizes; they are forwarded verbatim.
const (
	OptLLMModel      = "llm_model"
	OptLLMPrompt     = "llm_prompt"
	OptExiftoolPath  = "exiftool_path"
	OptEnablePlugins = "enable_plugins"
)

// InvocationConfig is the parsed command line for a single run. It is built
// once by the argument parser and only read afterwards.
type InvocationConfig struct {
	// Source is the URL or filesystem path to fetch. Required.
	Source string `json:"source" yaml:"source"`

	// LLMModel is the model used for image descriptions (e.g. "gpt-4o").
	LLMModel string `json:"llm_model,omitempty" yaml:"llm_model,omitempty"`

	// LLMPrompt overrides the default image description prompt.
	LLMPrompt string `json:"llm_prompt,omitempty" yaml:"llm_prompt,omitempty"`

	// ExiftoolPath points at the exiftool binary used for image metadata.
	ExiftoolPath string `json:"exiftool_path,omitempty" yaml:"exiftool_path,omitempty"`

	// EnablePlugins turns on third-party converter plugins.
	EnablePlugins bool `json:"enable_plugins,omitempty" yaml:"enable_plugins,omitempty"`
}

// ConverterOptions returns the option mapping handed to the conversion
// engine: every field except Source whose value is present. Empty strings
// and a false EnablePlugins count as absent.
func (c InvocationConfig) ConverterOptions() map[string]any {
	opts := make(map[string]any)
	if c.LLMModel != "" {
		opts[OptLLMModel] = c.LLMModel
	}
	if c.LLMPrompt != "" {
		opts[OptLLMPrompt] = c.LLMPrompt
	}
	if c.ExiftoolPath != "" {
		opts[OptExiftoolPath] = c.ExiftoolPath
	}
	if c.EnablePlugins {
		opts[OptEnablePlugins] = true
	}
	return opts
}

// HTTPConfig holds settings for the content fetcher.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the client default
	// (no timeout).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// OpenAIConfig holds settings for the LLM client used for image descriptions.
type OpenAIConfig struct {
	// APIKey authenticates against the API. Falls back to the
	// openai-api-key secret and then OPENAI_API_KEY.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL points the client at an OpenAI-compatible endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
}

// MarkitdownConfig holds settings for the container-backed markitdown
// converter.
type MarkitdownConfig struct {
	// Image is the markitdown container image (default "markitdown:latest").
	Image string `json:"image" yaml:"image" mapstructure:"image"`
}

// Settings groups the ambient configuration that never reaches the
// converter options: transport, credentials, and container plumbing.
type Settings struct {
	HTTP       HTTPConfig       `json:"http" yaml:"http" mapstructure:"http"`
	OpenAI     OpenAIConfig     `json:"openai" yaml:"openai" mapstructure:"openai"`
	Markitdown MarkitdownConfig `json:"markitdown" yaml:"markitdown" mapstructure:"markitdown"`
	SecretsDir string           `json:"secrets_dir" yaml:"secrets_dir" mapstructure:"secrets_dir"`
}
