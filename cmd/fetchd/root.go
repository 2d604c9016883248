// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/fetchd/internal/convert"
	"github.com/pdiddy/fetchd/pkg/types"
)

// newRootCmd builds the fetchd command tree. Each call gets its own viper
// instance so configuration never leaks between executions.
func newRootCmd(a *app) *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "fetchd <source>",
		Short: "Fetch a URL or file and convert it to Markdown",
		Long: `fetchd retrieves a resource, either an http(s) URL or a local file, and
prints it as Markdown on stdout. HTML, text, CSV and images are converted
natively; anything else (PDF, Office documents, ...) is handed to the
markitdown container image, with its third-party plugins loaded when
--enable-plugins is set.

Images can be described by an LLM (--llm-model) and annotated with exiftool
metadata (--exiftool-path).`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("requires exactly one source (URL or file path), got %d", len(args))
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initRuntime(cmd, v, a)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := invocationConfig(v, args[0])
			settings, err := loadSettings(v)
			if err != nil {
				return err
			}
			frontmatter, _ := cmd.Flags().GetBool("frontmatter")
			return a.run(cmd.Context(), cfg, settings, frontmatter)
		},
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	rootCmd.SetOut(a.stderr)
	rootCmd.SetErr(a.stderr)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./fetchd.yaml or ~/.config/fetchd/fetchd.yaml)")
	pf.BoolP("verbose", "v", false, "log debug diagnostics to stderr")

	f := rootCmd.Flags()
	f.String("llm-model", "", "LLM model for image descriptions (e.g., gpt-4o)")
	f.String("llm-prompt", "", "custom prompt for image descriptions")
	f.String("exiftool-path", "", "path to exiftool binary")
	f.Bool("enable-plugins", false, "enable 3rd-party plugins")
	f.Bool("frontmatter", false, "prefix output with YAML frontmatter")
	f.Duration("timeout", 0, "HTTP request timeout (default: none)")

	v.BindPFlag(types.OptLLMModel, f.Lookup("llm-model"))
	v.BindPFlag(types.OptLLMPrompt, f.Lookup("llm-prompt"))
	v.BindPFlag(types.OptExiftoolPath, f.Lookup("exiftool-path"))
	v.BindPFlag(types.OptEnablePlugins, f.Lookup("enable-plugins"))
	v.BindPFlag("http.timeout", f.Lookup("timeout"))

	v.SetDefault("secrets_dir", ".secrets")
	v.SetDefault("markitdown.image", convert.DefaultMarkitdownImage)

	rootCmd.AddCommand(newVersionCmd(a))
	return rootCmd
}

// initRuntime wires the logger into the command context and reads the
// config file and environment.
func initRuntime(cmd *cobra.Command, v *viper.Viper, a *app) error {
	level := zerolog.InfoLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: a.stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
	cmd.SetContext(logger.WithContext(cmd.Context()))

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("fetchd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "fetchd"))
		}
	}

	v.SetEnvPrefix("FETCHD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return err
		}
		return nil
	}
	logger.Debug().Str("file", v.ConfigFileUsed()).Msg("using config file")
	return nil
}

// invocationConfig assembles the per-run configuration. Explicit flags win
// over environment, which wins over the config file.
func invocationConfig(v *viper.Viper, source string) types.InvocationConfig {
	return types.InvocationConfig{
		Source:        source,
		LLMModel:      v.GetString(types.OptLLMModel),
		LLMPrompt:     v.GetString(types.OptLLMPrompt),
		ExiftoolPath:  v.GetString(types.OptExiftoolPath),
		EnablePlugins: v.GetBool(types.OptEnablePlugins),
	}
}

func loadSettings(v *viper.Viper) (types.Settings, error) {
	var s types.Settings
	if err := v.Unmarshal(&s); err != nil {
		return types.Settings{}, err
	}
	// Nested keys reached only through AutomaticEnv are invisible to Unmarshal.
	s.HTTP.Timeout = v.GetDuration("http.timeout")
	s.OpenAI.APIKey = v.GetString("openai.api_key")
	s.OpenAI.BaseURL = v.GetString("openai.base_url")
	return s, nil
}
