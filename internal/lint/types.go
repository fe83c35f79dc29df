package lint

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Severity indicates the importance level of a linting issue.
type Severity int

const (
	// SeverityInfo indicates informational messages.
	SeverityInfo Severity = iota
	// SeverityWarning indicates issues that should be fixed but do not block a cut.
	SeverityWarning
	// SeverityError indicates issues that would break the generated site.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue represents a single linting problem.
type Issue struct {
	FilePath string   // Path of the offending file
	Severity Severity // Issue severity level
	Rule     string   // Rule identifier (e.g., "sidebar-unknown-doc")
	Message  string   // Brief description of the issue
	Fix      string   // Suggested fix
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s: %s", i.FilePath, i.Rule, i.Message)
}

// Result contains all issues found during linting.
type Result struct {
	Issues     []Issue
	FilesTotal int // Pages scanned
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	return r.count(SeverityError)
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	return r.count(SeverityWarning)
}

func (r *Result) count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// Err aggregates error-level issues, or returns nil.
func (r *Result) Err() error {
	var result *multierror.Error
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			result = multierror.Append(result, issue)
		}
	}
	return result.ErrorOrNil()
}
