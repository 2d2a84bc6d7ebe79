package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Zachacious/go-lexspec/cmd/lexspec/internal/clierr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenLexicon = `{
  "lexicon": 1,
  "id": "com.example.graph.defs",
  "defs": {
    "curatelist": {"type": "token", "description": "A list of actors used for curation purposes."},
    "listItemView": {
      "type": "object",
      "required": ["uri"],
      "properties": {"uri": {"type": "string", "format": "at-uri"}}
    }
  }
}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func project(t *testing.T, lexicons map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range lexicons {
		path := filepath.Join(dir, "lexicons", name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func TestRoot_GenerateAndVerify(t *testing.T) {
	dir := project(t, map[string]string{"graph/defs.json": tokenLexicon})
	out := filepath.Join(dir, "out", "api.json")

	stdout, err := execute(t, dir, "-l", filepath.Join(dir, "lexicons"), "-o", out, "--verify", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 schemas, 0 operations, 1 tags from 1 files")
	assert.FileExists(t, out)

	stdout, err = execute(t, "verify", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "OK (2 schemas)")
}

func TestRoot_ConfigFile(t *testing.T) {
	dir := project(t, map[string]string{"defs.json": tokenLexicon})
	cfg := "lexicons: " + filepath.Join(dir, "lexicons") + "\noutput: " + filepath.Join(dir, "api.yaml") + "\nformat: yaml\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".lexspec.yaml"), []byte(cfg), 0o644))

	_, err := execute(t, dir)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "api.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "openapi: 3.1.0")
}

func TestRoot_ExitCodes(t *testing.T) {
	dir := project(t, map[string]string{"bad.json": `{"id": "com.example.bad", "defs": {"main": {"type": "widget"}}}`})
	_, err := execute(t, dir, "-l", filepath.Join(dir, "lexicons"), "-o", filepath.Join(dir, "api.json"))
	require.Error(t, err)
	assert.Equal(t, clierr.CodeInput, clierr.Code(err))
	assert.NoFileExists(t, filepath.Join(dir, "api.json"))

	_, err = execute(t, dir, "-f", "toml")
	require.Error(t, err)
	assert.Equal(t, clierr.CodeFailure, clierr.Code(err))

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{
  "openapi": "3.1.0",
  "info": {"title": "t", "version": "0.0.0"},
  "paths": {},
  "components": {"schemas": {"a": {"$ref": "#/components/schemas/missing"}}}
}`), 0o644))
	_, err = execute(t, "verify", broken)
	require.Error(t, err)
	assert.Equal(t, clierr.CodeFindings, clierr.Code(err))
}

func TestVersion(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "lexspec version dev")
}
