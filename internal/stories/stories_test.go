package stories

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kiterrors "github.com/conneroisu/buttonkit/internal/errors"
	"github.com/conneroisu/buttonkit/pkg/button"
)

const sample = `stories:
  - name: save-loading
    text: Save
    appearance: primary-outline
    size: small
    loading: true
  - name: go-link
    text: Go
    link: true
    disabled: true
    attributes:
      href: /x
  - name: wrapped
    text: Wrap
    wrapper: custom-tag
    link: true
`

func TestParse(t *testing.T) {
	cat, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, []string{"save-loading", "go-link", "wrapped"}, cat.Names())

	st, ok := cat.Find("save-loading")
	require.True(t, ok)
	assert.Equal(t, "primary-outline", st.Appearance)
	assert.True(t, st.Loading)

	_, ok = cat.Find("missing")
	assert.False(t, ok)
}

func TestParse_Empty(t *testing.T) {
	cat, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, cat.Stories)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode string
		contains string
	}{
		{
			name:     "malformed yaml",
			input:    "stories: [",
			wantCode: kiterrors.ErrCodeParseFailed,
		},
		{
			name:     "unknown field",
			input:    "stories:\n  - name: a\n    text: A\n    colour: red\n",
			wantCode: kiterrors.ErrCodeParseFailed,
		},
		{
			name:     "missing text",
			input:    "stories:\n  - name: a\n",
			wantCode: CodeInvalidStory,
			contains: "text",
		},
		{
			name:     "bad appearance",
			input:    "stories:\n  - name: a\n    text: A\n    appearance: loud\n",
			wantCode: CodeInvalidStory,
			contains: "appearance",
		},
		{
			name:     "bad name",
			input:    "stories:\n  - name: Not Slug\n    text: A\n",
			wantCode: CodeInvalidStory,
			contains: "name must be",
		},
		{
			name:     "bad wrapper",
			input:    "stories:\n  - name: a\n    text: A\n    wrapper: 1tag\n",
			wantCode: CodeInvalidStory,
			contains: "not renderable",
		},
		{
			name:     "duplicate",
			input:    "stories:\n  - name: a\n    text: A\n  - name: a\n    text: B\n",
			wantCode: CodeDuplicateStory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, kiterrors.CodeOf(err))
			assert.True(t, kiterrors.IsValidation(err))
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestParse_CollectsAllErrors(t *testing.T) {
	input := "stories:\n  - name: a\n  - name: b\n    text: B\n    size: huge\n"
	_, err := Parse([]byte(input))
	require.Error(t, err)

	var ke *kiterrors.KitError
	require.True(t, errors.As(err, &ke))
	assert.Equal(t, kiterrors.ErrCodeValidationFailed, ke.Code)
	assert.Equal(t, 2, ke.Context["count"])
}

func TestStory_Props(t *testing.T) {
	st := Story{
		Name:        "pay",
		Text:        "Pay",
		Appearance:  "secondary",
		Loading:     true,
		LoadingText: "Paying...",
		Unclickable: true,
		Wrapper:     "pay-button",
		Attributes:  map[string]string{"data-amount": "10"},
	}

	p := st.Props()
	assert.True(t, p.IsLoading)
	assert.True(t, p.IsUnclickable)
	assert.Equal(t, button.AppearanceSecondary, p.Appearance)
	assert.Equal(t, button.ModeWrapper, button.SelectMode(p))
	assert.Equal(t, "10", p.Attributes["data-amount"])
	require.NotNil(t, p.Ref)
	assert.Equal(t, "story-pay", p.Ref.ID())

	var sb strings.Builder
	require.NoError(t, button.Button(p).Render(context.Background(), &sb))
	out := sb.String()
	assert.True(t, strings.HasPrefix(out, "<pay-button "))
	assert.Contains(t, out, `id="story-pay"`)
	assert.Contains(t, out, "Paying...")
	assert.Equal(t, "pay-button", p.Ref.Tag())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stories.yml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cat.Path)
	assert.Len(t, cat.Stories, 3)
	assert.False(t, cat.LoadedAt.IsZero())
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Equal(t, kiterrors.ErrCodeNotFound, kiterrors.CodeOf(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_InvalidSetsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stories.yml")
	require.NoError(t, os.WriteFile(path, []byte("stories:\n  - name: a\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	var ke *kiterrors.KitError
	require.True(t, errors.As(err, &ke))
	assert.Equal(t, path, ke.FilePath)
}

func TestMarshal_RoundTrip(t *testing.T) {
	cat, err := Parse([]byte(sample))
	require.NoError(t, err)

	data, err := Marshal(cat)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cat.Stories, again.Stories)
}

func TestGenerate(t *testing.T) {
	cat := Generate()
	want := len(button.Appearances())*len(button.Sizes()) + 8
	assert.Len(t, cat.Stories, want)

	for _, st := range cat.Stories {
		assert.NoError(t, st.Validate(), st.Name)
	}

	_, ok := cat.Find("primary-outline-small")
	assert.True(t, ok)
}
