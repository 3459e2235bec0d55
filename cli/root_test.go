package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func writeTestStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	category := filepath.Join(dir, "electrician")
	require.NoError(t, os.MkdirAll(category, 0o755))
	files := map[string]string{
		"manifest.json":       `{"version": "v1"}`,
		"classification.json": `{"intent_map": {"outage": "URGENT"}, "confidence_threshold": 0.7}`,
		"behavior.json":       `{"voice": {"tone": "safety-focused", "formality": "medium"}}`,
		"labels.json":         `{"labels": [{"name": "URGENT", "children": [{"name": "No Power"}]}]}`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(category, name), []byte(content), 0o644))
	}
	return dir
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := RootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	t.Run("Should report a consistent configuration", func(t *testing.T) {
		store := writeTestStore(t)
		out, err := runCommand(t, "validate", "--store", store, "--category", "electrician")
		require.NoError(t, err)
		assert.Contains(t, out, "configuration is consistent")
	})

	t.Run("Should fail for an unknown category", func(t *testing.T) {
		store := writeTestStore(t)
		_, err := runCommand(t, "validate", "--store", store, "--category", "locksmith")
		assert.Error(t, err)
	})
}

func TestDeployCommand(t *testing.T) {
	t.Run("Should render the deployment document to a file", func(t *testing.T) {
		store := writeTestStore(t)
		work := t.TempDir()
		contextPath := filepath.Join(work, "context.json")
		templatePath := filepath.Join(work, "template.json")
		outPath := filepath.Join(work, "deploy.json")
		require.NoError(t, os.WriteFile(contextPath, []byte(`{
			"business": {"name": "Volt Services", "domain": "volt.example", "phone": "+1 555 0101", "currency": "USD"},
			"roster": [{"role": "dispatcher", "name": "Dana"}],
			"folder_ids": {"URGENT": "F123"}
		}`), 0o644))
		require.NoError(t, os.WriteFile(templatePath, []byte(`{
			"name": "<<<BUSINESS_NAME>>>",
			"urgent_folder": "<<<LABEL_URGENT>>>",
			"prompt": "<<<CLASSIFICATION_PROMPT>>>"
		}`), 0o644))

		_, err := runCommand(t, "deploy",
			"--store", store,
			"--category", "electrician",
			"--context", contextPath,
			"--template", templatePath,
			"--out", outPath,
		)
		require.NoError(t, err)
		data, err := os.ReadFile(outPath)
		require.NoError(t, err)
		doc := string(data)
		require.True(t, gjson.Valid(doc))
		assert.Equal(t, "Volt Services", gjson.Get(doc, "name").String())
		assert.Equal(t, "F123", gjson.Get(doc, "urgent_folder").String())
	})

	t.Run("Should fail when the template file is missing", func(t *testing.T) {
		store := writeTestStore(t)
		work := t.TempDir()
		contextPath := filepath.Join(work, "context.json")
		require.NoError(t, os.WriteFile(contextPath, []byte(`{}`), 0o644))
		_, err := runCommand(t, "deploy",
			"--store", store,
			"--category", "electrician",
			"--context", contextPath,
			"--template", filepath.Join(work, "missing.json"),
		)
		assert.Error(t, err)
	})
}
