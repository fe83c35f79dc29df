package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats linting results for output.
type Formatter interface {
	Format(w io.Writer, result *Result, docsPath string) error
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct{}

// Format outputs results in human-readable text format.
func (f *TextFormatter) Format(w io.Writer, result *Result, docsPath string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Linting documentation in: %s\n", docsPath)
	b.WriteString(strings.Repeat("━", 60) + "\n")

	for _, issue := range result.Issues {
		fmt.Fprintf(&b, "%s %s\n", icon(issue.Severity), issue.FilePath)
		fmt.Fprintf(&b, "  %s [%s]: %s\n", issue.Severity, issue.Rule, issue.Message)
		if issue.Fix != "" {
			fmt.Fprintf(&b, "  Fix: %s\n", issue.Fix)
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("━", 60) + "\n")
	fmt.Fprintf(&b, "  %d pages scanned\n", result.FilesTotal)
	if n := result.ErrorCount(); n > 0 {
		fmt.Fprintf(&b, "  %d error%s\n", n, pluralize(n))
	}
	if n := result.WarningCount(); n > 0 {
		fmt.Fprintf(&b, "  %d warning%s\n", n, pluralize(n))
	}

	switch {
	case result.HasErrors():
		b.WriteString("Documentation has errors; fix them before cutting a version.\n")
	case len(result.Issues) > 0:
		b.WriteString("No errors.\n")
	default:
		b.WriteString("All documentation passes linting.\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func icon(s Severity) string {
	switch s {
	case SeverityError:
		return "✗"
	case SeverityWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// JSONFormatter formats results as JSON.
type JSONFormatter struct{}

// JSONOutput represents the JSON output structure.
type JSONOutput struct {
	Path         string      `json:"path"`
	FilesTotal   int         `json:"files_total"`
	ErrorCount   int         `json:"error_count"`
	WarningCount int         `json:"warning_count"`
	Issues       []JSONIssue `json:"issues"`
}

// JSONIssue is one issue in JSON output.
type JSONIssue struct {
	File     string `json:"file"`
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

// Format outputs results as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, result *Result, docsPath string) error {
	out := JSONOutput{
		Path:         docsPath,
		FilesTotal:   result.FilesTotal,
		ErrorCount:   result.ErrorCount(),
		WarningCount: result.WarningCount(),
		Issues:       make([]JSONIssue, 0, len(result.Issues)),
	}
	for _, issue := range result.Issues {
		out.Issues = append(out.Issues, JSONIssue{
			File:     issue.FilePath,
			Severity: strings.ToLower(issue.Severity.String()),
			Rule:     issue.Rule,
			Message:  issue.Message,
			Fix:      issue.Fix,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
