package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/buttonkit/internal/stories"
	"github.com/conneroisu/buttonkit/pkg/button"
)

func violationsFor(r *Report, rule string) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Rule == rule {
			out = append(out, v)
		}
	}
	return out
}

func TestAuditStory_GeneratedCatalogue(t *testing.T) {
	auditor := NewAuditor(nil)
	for _, st := range stories.Generate().Stories {
		t.Run(st.Name, func(t *testing.T) {
			report, err := auditor.AuditStory(context.Background(), st)
			require.NoError(t, err)
			assert.True(t, report.OK(), "violations: %+v", report.Violations)
			assert.Empty(t, report.Violations)
			assert.Equal(t, st.Name, report.Target)
			assert.Len(t, report.Passed, len(DefaultRules()))
			assert.InDelta(t, 100, report.Score(), 0.001)
		})
	}
}

func TestExpectationFor(t *testing.T) {
	tests := []struct {
		name  string
		story stories.Story
		want  Expectation
	}{
		{
			name:  "loading button",
			story: stories.Story{Name: "save", Text: "Save", Loading: true},
			want: Expectation{
				Tag: "button", Mode: button.ModeButton, ID: "story-save", Text: "Save",
				Loading: true, LoadingText: "Loading...",
				Appearance: button.AppearanceTertiary, Size: button.SizeMedium,
			},
		},
		{
			name:  "disabled link drops disabled",
			story: stories.Story{Name: "go", Text: "Go", Link: true, Disabled: true},
			want: Expectation{
				Tag: "a", Mode: button.ModeLink, ID: "story-go", Text: "Go",
				LoadingText: "Loading...",
				Appearance:  button.AppearanceTertiary, Size: button.SizeMedium,
			},
		},
		{
			name:  "wrapper wins over link",
			story: stories.Story{Name: "w", Text: "Wrap", Wrapper: "custom-tag", Link: true, Disabled: true, Size: "small"},
			want: Expectation{
				Tag: "custom-tag", Mode: button.ModeWrapper, ID: "story-w", Text: "Wrap",
				LoadingText: "Loading...", Disabled: true,
				Appearance: button.AppearanceTertiary, Size: button.SizeSmall,
			},
		},
		{
			name:  "explicit id",
			story: stories.Story{Name: "x", Text: "X", Appearance: "primary-outline", Attributes: map[string]string{"id": "mine"}},
			want: Expectation{
				Tag: "button", Mode: button.ModeButton, ID: "mine", Text: "X",
				LoadingText: "Loading...",
				Appearance:  button.AppearancePrimaryOutline, Size: button.SizeMedium,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpectationFor(tt.story)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ExpectationFor(stories.Story{Name: "bad", Text: "B", Size: "huge"})
	assert.ErrorIs(t, err, button.ErrInvalidSize)
}

func TestAudit_DetectsViolations(t *testing.T) {
	auditor := NewAuditor(nil)
	ctx := context.Background()

	exp := Expectation{
		Tag: "a", Mode: button.ModeLink, ID: "go", Text: "Go",
		LoadingText: "Loading...",
		Appearance:  button.AppearanceTertiary, Size: button.SizeMedium,
	}

	tests := []struct {
		name   string
		markup string
		rules  []string
	}{
		{
			name:   "disabled on link",
			markup: `<a class="btn btn--tertiary btn--medium btn--disabled" disabled id="go"><span class="btn__text" style="display:inline-block;vertical-align:top">Go</span></a>`,
			rules:  []string{RuleDisabled},
		},
		{
			name:   "wrong root",
			markup: `<button class="btn btn--tertiary btn--medium" id="go"><span class="btn__text" style="display:inline-block;vertical-align:top">Go</span></button>`,
			rules:  []string{RuleRootElement},
		},
		{
			name:   "children twice",
			markup: `<a class="btn btn--tertiary btn--medium" id="go"><span class="btn__text" style="display:inline-block;vertical-align:top">Go</span><span class="btn__text" style="display:inline-block;vertical-align:top">Go</span></a>`,
			rules:  []string{RuleChildrenOnce},
		},
		{
			name:   "unexpected loading region",
			markup: `<a class="btn btn--tertiary btn--medium" id="go"><span class="btn__text" style="display:inline-block;vertical-align:top">Go</span><span class="btn__loading">Loading...</span></a>`,
			rules:  []string{RuleLoadingRegion},
		},
		{
			name:   "missing classes and id",
			markup: `<a class="btn"><span class="btn__text">Go</span></a>`,
			rules:  []string{RuleRootID, RuleStyleClasses, RuleTextLayout},
		},
		{
			name:   "two roots",
			markup: `<a class="btn btn--tertiary btn--medium" id="go"><span class="btn__text" style="display:inline-block;vertical-align:top">Go</span></a><a></a>`,
			rules:  []string{RuleSingleRoot},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := auditor.Audit(ctx, tt.markup, exp)
			require.NoError(t, err)
			assert.Equal(t, "a", report.Root)
			for _, rule := range tt.rules {
				assert.NotEmpty(t, violationsFor(report, rule), "expected %s violation", rule)
			}
			failed := report.failedRules()
			assert.Len(t, failed, len(tt.rules), "violations: %+v", report.Violations)
			assert.Less(t, report.Score(), 100.0)
		})
	}
}

func TestAuditStory_MixedCaseWrapper(t *testing.T) {
	st := stories.Story{Name: "wrap", Text: "Wrap", Wrapper: "CustomTag", Link: true, Disabled: true}
	require.NoError(t, st.Validate())

	report, err := NewAuditor(nil).AuditStory(context.Background(), st)
	require.NoError(t, err)
	assert.True(t, report.OK(), "violations: %+v", report.Violations)
	assert.Empty(t, violationsFor(report, RuleRootElement))
	assert.Empty(t, violationsFor(report, RuleDisabled))
}

func TestAudit_WarningOnlyIsOK(t *testing.T) {
	exp := Expectation{
		Tag: "button", Mode: button.ModeButton, Text: "Hi",
		LoadingText: "Loading...",
		Appearance:  button.AppearanceTertiary, Size: button.SizeMedium,
	}
	markup := `<button class="btn btn--tertiary btn--medium"><span class="btn__text">Hi</span></button>`

	report, err := NewAuditor(nil).Audit(context.Background(), markup, exp)
	require.NoError(t, err)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, RuleTextLayout, report.Violations[0].Rule)
	assert.True(t, report.OK())
}

func TestAudit_EmptyMarkup(t *testing.T) {
	report, err := NewAuditor(nil).Audit(context.Background(), "", Expectation{Tag: "button"})
	require.NoError(t, err)
	assert.Empty(t, report.Passed)
	assert.Len(t, report.Violations, len(DefaultRules()))
	assert.False(t, report.OK())
}

func TestAudit_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAuditor(nil).Audit(ctx, "<button></button>", Expectation{})
	assert.ErrorIs(t, err, context.Canceled)
}
