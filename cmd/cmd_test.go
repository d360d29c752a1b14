package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	kiterrors "github.com/conneroisu/buttonkit/internal/errors"
	"github.com/conneroisu/buttonkit/internal/stories"
	"github.com/conneroisu/buttonkit/internal/version"
	"github.com/conneroisu/buttonkit/pkg/button"
)

// executeCommand runs the CLI in a fresh temporary working directory.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigFileEnv, "")
	return dir
}

func TestRender(t *testing.T) {
	inTempDir(t)

	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "loading button",
			args:     []string{"render", "--text", "Save", "--loading"},
			contains: []string{"<button ", "Save", "Loading...", "btn--loading"},
			excludes: []string{" disabled"},
		},
		{
			name:     "disabled link",
			args:     []string{"render", "--text", "Go", "--link", "--disabled", "--attr", "href=/x"},
			contains: []string{"<a ", `href="/x"`, ">Go<"},
			excludes: []string{" disabled", "btn--disabled"},
		},
		{
			name:     "wrapper",
			args:     []string{"render", "--text", "Wrap", "--wrapper", "custom-tag", "--link"},
			contains: []string{"<custom-tag ", "</custom-tag>"},
		},
		{
			name:     "appearance and size",
			args:     []string{"render", "-t", "Buy", "--appearance", "primary-outline", "--size", "small", "--id", "buy"},
			contains: []string{`class="btn btn--primary-outline btn--small"`, `id="buy"`},
		},
		{
			name:     "custom loading text",
			args:     []string{"render", "-t", "Pay", "--loading", "--loading-text", "Paying..."},
			contains: []string{"Paying..."},
			excludes: []string{"Loading..."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, tt.args...)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestRender_Errors(t *testing.T) {
	inTempDir(t)

	_, err := executeCommand(t, "render")
	require.Error(t, err)
	assert.True(t, errors.Is(err, button.ErrMissingChildren))

	_, err = executeCommand(t, "render", "--text", "A", "--appearance", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "appearance")

	_, err = executeCommand(t, "render", "--text", "A", "--size", "huge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "size")

	_, err = executeCommand(t, "render", "--text", "A", "--wrapper", "1bad")
	require.Error(t, err)
	assert.True(t, errors.Is(err, button.ErrInvalidWrapper))
}

func TestRender_StoryAndStandalone(t *testing.T) {
	inTempDir(t)

	_, err := executeCommand(t, "stories", "init")
	require.NoError(t, err)

	out, err := executeCommand(t, "render", "--story", "link-disabled")
	require.NoError(t, err)
	assert.Contains(t, out, `<a `)
	assert.Contains(t, out, `id="story-link-disabled"`)

	out, err = executeCommand(t, "render", "--story", "loading", "--standalone")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, ".btn{")
	assert.Contains(t, out, `id="story-loading"`)

	_, err = executeCommand(t, "render", "--story", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStoriesInitAndList(t *testing.T) {
	dir := inTempDir(t)

	out, err := executeCommand(t, "stories", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "stories.yml")
	assert.FileExists(t, filepath.Join(dir, "stories.yml"))

	_, err = executeCommand(t, "stories", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = executeCommand(t, "stories", "init", "--force")
	require.NoError(t, err)

	out, err = executeCommand(t, "stories", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "primary-outline-small")
	assert.Regexp(t, `link-disabled\s+link\s+tertiary\s+medium\s+disabled`, out)
	assert.Regexp(t, `wrapper\s+wrapper\s+`, out)

	out, err = executeCommand(t, "stories", "list", "-o", "json")
	require.NoError(t, err)
	var cat stories.Catalogue
	require.NoError(t, json.Unmarshal([]byte(out), &cat))
	assert.Len(t, cat.Stories, len(stories.Generate().Stories))

	out, err = executeCommand(t, "stories", "ls", "-o", "yaml")
	require.NoError(t, err)
	parsed, err := stories.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, stories.Generate().Names(), parsed.Names())
}

func TestStoriesList_Errors(t *testing.T) {
	inTempDir(t)

	_, err := executeCommand(t, "stories", "list")
	require.Error(t, err)
	assert.Equal(t, kiterrors.ErrCodeNotFound, kiterrors.CodeOf(err))

	_, err = executeCommand(t, "stories", "list", "-o", "jsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "json"`)
}

func TestStoriesFlagAndConfigFile(t *testing.T) {
	dir := inTempDir(t)

	custom := filepath.Join(dir, "buttons.yml")
	require.NoError(t, os.WriteFile(custom, []byte("stories:\n  - name: only\n    text: Only\n"), 0o644))

	out, err := executeCommand(t, "stories", "list", "--stories", custom)
	require.NoError(t, err)
	assert.Contains(t, out, "only")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".buttonkit.yml"),
		[]byte("stories:\n  path: buttons.yml\n"), 0o644))
	out, err = executeCommand(t, "stories", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "only")

	_, err = executeCommand(t, "stories", "list", "--config", filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	inTempDir(t)

	_, err := executeCommand(t, "stories", "init")
	require.NoError(t, err)

	out, err := executeCommand(t, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "STORY")
	assert.Contains(t, out, "PASS")
	assert.NotContains(t, out, "FAIL")

	out, err = executeCommand(t, "check", "loading", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "loading [ok] loading-region")

	out, err = executeCommand(t, "check", "link-disabled", "-o", "json")
	require.NoError(t, err)
	var reports []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "a", reports[0]["root"])

	_, err = executeCommand(t, "check", "missing")
	require.Error(t, err)
	assert.Equal(t, kiterrors.ErrCodeNotFound, kiterrors.CodeOf(err))
}

func TestCSS(t *testing.T) {
	dir := inTempDir(t)

	out, err := executeCommand(t, "css")
	require.NoError(t, err)
	assert.Contains(t, out, ".btn--primary{")
	assert.Contains(t, out, ".btn--loading .btn__loading")

	target := filepath.Join(dir, "button.css")
	_, err = executeCommand(t, "css", "--out", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, out, string(data))
}

func TestCSS_ThemeFromEnv(t *testing.T) {
	inTempDir(t)
	t.Setenv("BUTTONKIT_THEME_COLOR_PRIMARY", "#00AA00")

	out, err := executeCommand(t, "css")
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(out), "#00aa00")
}

func TestVersion(t *testing.T) {
	out, err := executeCommand(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Get().Short()+"\n", out)

	out, err = executeCommand(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "buttonkit "))

	out, err = executeCommand(t, "version", "--detailed")
	require.NoError(t, err)
	assert.Contains(t, out, "Build type:")

	out, err = executeCommand(t, "version", "--format", "json")
	require.NoError(t, err)
	var info version.BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info.GoVersion)

	out, err = executeCommand(t, "version", "--format", "yaml")
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &raw))
	assert.Contains(t, raw, "go_version")

	_, err = executeCommand(t, "version", "--format", "xml")
	assert.Error(t, err)
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, validateFormat("table"))
	assert.NoError(t, validateFormat("JSON"))
	assert.EqualError(t, validateFormat("yml"), `invalid output format "yml", did you mean "yaml"?`)
	assert.EqualError(t, validateFormat("csv-export"),
		`invalid output format "csv-export", must be one of: table, json, yaml`)
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("json", "json"))
	assert.Equal(t, 1, levenshtein("jsn", "json"))
	assert.Equal(t, 3, levenshtein("", "abc"))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
}

func TestEnumFlagValues(t *testing.T) {
	var a button.Appearance
	av := &appearanceValue{value: &a}
	require.NoError(t, av.Set("secondary_outline"))
	assert.Equal(t, button.AppearanceSecondaryOutline, a)
	assert.Equal(t, "secondaryOutline", av.String())
	assert.Equal(t, "appearance", av.Type())
	assert.Error(t, av.Set("loud"))

	var s button.Size
	sv := &sizeValue{value: &s}
	require.NoError(t, sv.Set("SMALL"))
	assert.Equal(t, button.SizeSmall, s)
	assert.Equal(t, "size", sv.Type())
	assert.Error(t, sv.Set("huge"))
}
