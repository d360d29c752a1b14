// Package audit checks rendered button markup against the rendering rules:
// the root element follows the selected mode, children render exactly once,
// the loading region matches the loading flag and disabled is forwarded
// only where it should be.
package audit

import "time"

// Severity represents the severity level of a violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule identifiers.
const (
	RuleSingleRoot    = "single-root"
	RuleRootElement   = "root-element"
	RuleRootID        = "root-id"
	RuleChildrenOnce  = "children-once"
	RuleLoadingRegion = "loading-region"
	RuleDisabled      = "disabled-forwarding"
	RuleStyleClasses  = "style-classes"
	RuleTextLayout    = "text-layout"
)

// Rule describes one check.
type Rule struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Violation is one failed check.
type Violation struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Element  string   `json:"element"`
	Message  string   `json:"message"`
}

// Report is the outcome of auditing one rendered button.
type Report struct {
	Target     string        `json:"target"`
	Root       string        `json:"root"`
	Violations []Violation   `json:"violations"`
	Passed     []string      `json:"passed"`
	Duration   time.Duration `json:"duration"`
	Timestamp  time.Time     `json:"timestamp"`
}

// OK reports whether no error-level violation was found.
func (r *Report) OK() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Score is the percentage of rules that passed.
func (r *Report) Score() float64 {
	total := len(r.Passed) + len(r.failedRules())
	if total == 0 {
		return 100
	}
	return float64(len(r.Passed)) / float64(total) * 100
}

func (r *Report) failedRules() map[string]bool {
	failed := make(map[string]bool)
	for _, v := range r.Violations {
		failed[v.Rule] = true
	}
	return failed
}
