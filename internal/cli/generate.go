package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gobd/apischema/internal/definitions"
	"github.com/Gobd/apischema/internal/watch"
	"github.com/Gobd/apischema/openapi"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	Input          string
	Out            string
	Format         string
	OpenAPI        string
	ComponentsOnly bool
	Validate       bool
	Watch          bool
	ConfigPath     string
	Verbose        bool
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{}
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an OpenAPI document from a definitions file",
		Long: "Generate an OpenAPI document from a YAML definitions file. " +
			"Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  apischema generate --input defs.yaml --out openapi.json
  apischema generate --input defs.yaml --openapi 3.1.0 --format yaml --validate
  apischema --config apischema.yaml generate --watch`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path to the YAML definitions file")
	flags.String("out", "", "Output file (stdout when omitted)")
	flags.String("format", "", "Output format (json|yaml); derived from --out when omitted")
	flags.String("openapi", "", "OpenAPI version to emit, overriding the definitions file (e.g. 3.0.3, 3.1.0)")
	flags.Bool("components-only", false, "Emit only components, without paths or document info")
	flags.Bool("validate", false, "Validate the generated document before writing it")
	flags.Bool("watch", false, "Regenerate whenever the input file changes")

	return cmd
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	for name, dst := range map[string]*string{
		"input":   &cfg.Input,
		"out":     &cfg.Out,
		"format":  &cfg.Format,
		"openapi": &cfg.OpenAPI,
	} {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = strings.TrimSpace(value)
	}

	for name, dst := range map[string]*bool{
		"components-only": &cfg.ComponentsOnly,
		"validate":        &cfg.Validate,
		"watch":           &cfg.Watch,
		"verbose":         &cfg.Verbose,
	} {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = value
	}

	return nil
}

func (c *GenerateConfig) normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Out = strings.TrimSpace(c.Out)
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.OpenAPI = strings.TrimSpace(c.OpenAPI)

	if c.Format == "" {
		switch strings.ToLower(filepath.Ext(c.Out)) {
		case ".yaml", ".yml":
			c.Format = formatYAML
		default:
			c.Format = formatJSON
		}
	}
	if c.Format == "yml" {
		c.Format = formatYAML
	}
}

func (c *GenerateConfig) validate() error {
	if c.Input == "" {
		return newUsageError("generate: --input is required (set via flag or config file)")
	}

	switch c.Format {
	case formatJSON, formatYAML:
	default:
		return newUsageError(fmt.Sprintf("generate: unsupported --format %q (allowed: json, yaml)", c.Format))
	}

	if c.OpenAPI != "" {
		if _, err := openapi.ParseVersion(c.OpenAPI); err != nil {
			return newUsageError(fmt.Sprintf("generate: unsupported --openapi %q (allowed: 3.0.x, 3.1.x)", c.OpenAPI))
		}
	}

	if c.Watch && c.Out == "" {
		return newUsageError("generate: --watch requires --out")
	}

	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runGenerate(ctx context.Context, cfg *GenerateConfig, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, cfg.Verbose)

	if err := generateOnce(ctx, cfg, stdout, logger); err != nil {
		if !cfg.Watch {
			return err
		}
		logger.Error("generate failed", "err", err)
	}
	if !cfg.Watch {
		return nil
	}

	w, err := watch.New(cfg.Input, watch.Options{Logger: logger})
	if err != nil {
		return fmt.Errorf("watch %s: %w", cfg.Input, err)
	}
	defer w.Close()

	logger.Info("watching for changes", "input", cfg.Input)
	err = w.Run(ctx, func() {
		if err := generateOnce(ctx, cfg, stdout, logger); err != nil {
			logger.Error("generate failed", "err", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func generateOnce(ctx context.Context, cfg *GenerateConfig, stdout io.Writer, logger *slog.Logger) error {
	f, err := definitions.Load(cfg.Input)
	if err != nil {
		return newUsageError(err.Error())
	}

	out, err := build(ctx, cfg, f, logger)
	if err != nil {
		return err
	}

	data, err := encode(out, cfg.Format)
	if err != nil {
		return err
	}

	if cfg.Out == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := writeOutput(cfg.Out, data); err != nil {
		return newUsageError(fmt.Sprintf("output error for %s: %v\nHint: choose a different --out.", cfg.Out, err))
	}
	logger.Info("wrote document", "out", cfg.Out, "bytes", len(data))
	return nil
}

// componentsDocument is the components-only output shape.
type componentsDocument struct {
	Components *openapi3.Components `json:"components"`
}

func build(ctx context.Context, cfg *GenerateConfig, f *definitions.File, logger *slog.Logger) (any, error) {
	opts := []openapi.Option{openapi.WithLogger(openapi.NewSlogAdapter(logger))}

	version := cfg.OpenAPI
	if version == "" && f.Document != nil {
		version = f.Document.OpenAPI
	}

	if cfg.ComponentsOnly {
		if version == "" {
			version = openapi.V30().OpenAPIVersion()
		}
		specifics, err := openapi.ParseVersion(version)
		if err != nil {
			return nil, err
		}
		opts = append(opts, openapi.WithSpecifics(specifics))
		comps, err := openapi.NewGenerator(f.Definitions, opts...).GenerateComponents()
		if err != nil {
			return nil, err
		}
		if cfg.Validate {
			doc := &openapi3.T{
				OpenAPI:    version,
				Info:       &openapi3.Info{Title: "components", Version: "0"},
				Components: comps,
				Paths:      openapi3.NewPaths(),
			}
			if err := openapi.ValidateDocument(ctx, doc); err != nil {
				return nil, fmt.Errorf("validate: %w", err)
			}
		}
		return componentsDocument{Components: comps}, nil
	}

	docCfg := f.Document
	if docCfg != nil && cfg.OpenAPI != "" {
		c := *docCfg
		c.OpenAPI = cfg.OpenAPI
		docCfg = &c
	}
	doc, err := openapi.NewGenerator(f.Definitions, opts...).GenerateDocument(docCfg)
	if err != nil {
		return nil, err
	}
	if cfg.Validate {
		if err := openapi.ValidateDocument(ctx, doc); err != nil {
			return nil, fmt.Errorf("validate: %w", err)
		}
	}
	return doc, nil
}

// encode renders v as indented JSON, or as YAML by way of its JSON form so
// the kin-openapi JSON marshalers decide the field names.
func encode(v any, format string) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	if format == formatJSON {
		return append(data, '\n'), nil
	}

	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return out, nil
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	for key, value := range raw {
		var err error
		switch normalizeKey(key) {
		case "input":
			cfg.Input, err = valueAsString(value)
		case "out":
			cfg.Out, err = valueAsString(value)
		case "format":
			cfg.Format, err = valueAsString(value)
		case "openapi":
			cfg.OpenAPI, err = valueAsString(value)
		case "componentsonly":
			cfg.ComponentsOnly, err = valueAsBool(value)
		case "validate":
			cfg.Validate, err = valueAsBool(value)
		case "watch":
			cfg.Watch, err = valueAsBool(value)
		case "verbose":
			cfg.Verbose, err = valueAsBool(value)
		default:
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
		if err != nil {
			return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
		}
	}

	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	case int, float64:
		return fmt.Sprint(val), nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n", "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}
