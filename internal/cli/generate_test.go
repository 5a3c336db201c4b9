package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gobd/apischema/openapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const petsYAML = `
document:
  openapi: 3.0.3
  title: Pets
  version: 1.0.0
schemas:
  - name: Pet
    kind: object
    properties:
      name: {kind: string, minLength: 1}
      age: {kind: integer, minimum: 0, optional: true}
routes:
  - method: get
    path: /pets/{name}
    request:
      params:
        kind: object
        properties:
          name: {kind: string}
    response: {ref: Pet}
`

func captureRunner(t *testing.T) **GenerateConfig {
	t.Helper()
	var captured *GenerateConfig
	generateRunner = func(ctx context.Context, cfg *GenerateConfig, stdout, stderr io.Writer) error {
		captured = cfg
		return nil
	}
	t.Cleanup(func() { generateRunner = runGenerate })
	return &captured
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestGenerateConfigFromFlags(t *testing.T) {
	captured := captureRunner(t)

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{
		"--verbose",
		"generate",
		"--input", "defs.yaml",
		"--out", "./build/openapi.yml",
		"--openapi", "3.1.0",
		"--components-only",
		"--validate",
	})
	require.NoError(t, root.Execute())

	cfg := *captured
	require.NotNil(t, cfg)
	assert.Equal(t, "defs.yaml", cfg.Input)
	assert.Equal(t, "./build/openapi.yml", cfg.Out)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "3.1.0", cfg.OpenAPI)
	assert.True(t, cfg.ComponentsOnly)
	assert.True(t, cfg.Validate)
	assert.False(t, cfg.Watch)
	assert.True(t, cfg.Verbose)
}

func TestGenerateConfigPrecedence(t *testing.T) {
	captured := captureRunner(t)
	dir := t.TempDir()
	configPath := writeFile(t, dir, "apischema.yaml", `
input: from-config.yaml
out: out.json
format: json
openapi: 3.0.3
components_only: true
validate: "yes"
`)

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{
		"--config", configPath,
		"generate",
		"--input", "from-flag.yaml",
		"--components-only=false",
	})
	require.NoError(t, root.Execute())

	cfg := *captured
	require.NotNil(t, cfg)
	assert.Equal(t, configPath, cfg.ConfigPath)
	assert.Equal(t, "from-flag.yaml", cfg.Input)
	assert.Equal(t, "out.json", cfg.Out)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "3.0.3", cfg.OpenAPI)
	assert.False(t, cfg.ComponentsOnly)
	assert.True(t, cfg.Validate)
}

func TestGenerateConfigErrors(t *testing.T) {
	captureRunner(t)
	dir := t.TempDir()
	unknown := writeFile(t, dir, "unknown.yaml", "lang: go\n")
	badBool := writeFile(t, dir, "bad.yaml", "validate: maybe\n")

	for name, args := range map[string][]string{
		"missing input":  {"generate"},
		"bad format":     {"generate", "--input", "x.yaml", "--format", "xml"},
		"bad version":    {"generate", "--input", "x.yaml", "--openapi", "2.0"},
		"watch stdout":   {"generate", "--input", "x.yaml", "--watch"},
		"unknown key":    {"--config", unknown, "generate", "--input", "x.yaml"},
		"bad bool":       {"--config", badBool, "generate", "--input", "x.yaml"},
		"missing config": {"--config", filepath.Join(dir, "nope.yaml"), "generate"},
		"unknown flag":   {"generate", "--lang", "go"},
	} {
		t.Run(name, func(t *testing.T) {
			root := NewRootCmd()
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			root.SetArgs(args)
			err := root.Execute()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUsage)
		})
	}
}

func TestRunGenerate_JSONFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "defs.yaml", petsYAML)
	out := filepath.Join(dir, "gen", "openapi.json")

	cfg := &GenerateConfig{Input: input, Out: out, Validate: true}
	cfg.normalize()
	require.NoError(t, cfg.validate())
	require.NoError(t, runGenerate(context.Background(), cfg, io.Discard, io.Discard))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Contains(t, doc["components"].(map[string]any)["schemas"], "Pet")
	assert.Contains(t, doc["paths"], "/pets/{name}")
}

func TestRunGenerate_YAMLStdout31(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "defs.yaml", petsYAML)

	cfg := &GenerateConfig{Input: input, Format: "yaml", OpenAPI: "3.1.0", Validate: true}
	cfg.normalize()
	require.NoError(t, cfg.validate())

	var stdout bytes.Buffer
	require.NoError(t, runGenerate(context.Background(), cfg, &stdout, io.Discard))

	var doc struct {
		OpenAPI    string `yaml:"openapi"`
		Components struct {
			Schemas map[string]any `yaml:"schemas"`
		} `yaml:"components"`
	}
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &doc))
	assert.Equal(t, "3.1.0", doc.OpenAPI)
	assert.Contains(t, doc.Components.Schemas, "Pet")
}

func TestRunGenerate_ComponentsOnly(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "defs.yaml", `
schemas:
  - {name: Tag, kind: string, nullable: true}
`)

	cfg := &GenerateConfig{Input: input, ComponentsOnly: true, OpenAPI: "3.1.0"}
	cfg.normalize()

	var stdout bytes.Buffer
	require.NoError(t, runGenerate(context.Background(), cfg, &stdout, io.Discard))
	assert.JSONEq(t, `{"components":{"schemas":{"Tag":{"type":["string","null"]}}}}`, stdout.String())
}

func TestRunGenerate_MissingDocument(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "defs.yaml", "schemas:\n  - {name: A, kind: string}\n")

	cfg := &GenerateConfig{Input: input}
	cfg.normalize()
	err := runGenerate(context.Background(), cfg, io.Discard, io.Discard)
	require.ErrorIs(t, err, openapi.ErrConfigMissing)
}

func TestRunGenerate_BadDefinitions(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "defs.yaml", "schemas:\n  - {name: A, kind: tuple}\n")

	cfg := &GenerateConfig{Input: input}
	cfg.normalize()
	err := runGenerate(context.Background(), cfg, io.Discard, io.Discard)
	require.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, err.Error(), "unknown schema kind")
}
