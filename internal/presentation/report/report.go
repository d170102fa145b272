// Package report renders validation results for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// Format selects the report layout.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatMarkdown, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, markdown or json)", s)
}

// Text writes a colored summary. Colors follow profile; termenv.Ascii disables them.
func Text(w io.Writer, name string, result domain.ValidateResult, profile termenv.Profile) error {
	verdict := termenv.String("VALID").Foreground(profile.Color("#22c55e")).Bold()
	if !result.IsValid {
		verdict = termenv.String("INVALID").Foreground(profile.Color("#ef4444")).Bold()
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n", name, verdict); err != nil {
		return err
	}

	for _, field := range result.Fields {
		status := termenv.String(string(field.Status)).Foreground(profile.Color(statusColor(field.Status)))
		if _, err := fmt.Fprintf(w, "  %-20s %s\n", field.ValueHostName, status); err != nil {
			return err
		}
		for _, issue := range field.Issues {
			if _, err := fmt.Fprintf(w, "    - [%s] %s\n", issue.Severity, issue.ErrorMessage); err != nil {
				return err
			}
		}
	}

	for _, issue := range formLevel(result.Issues) {
		if _, err := fmt.Fprintf(w, "  form: [%s] %s\n", issue.Severity, issue.ErrorMessage); err != nil {
			return err
		}
	}
	return nil
}

// Markdown builds a markdown document of the result.
func Markdown(name string, result domain.ValidateResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", name)
	if result.IsValid {
		sb.WriteString("**Result:** valid\n\n")
	} else {
		sb.WriteString("**Result:** invalid\n\n")
	}

	sb.WriteString("| Field | Status | Issues |\n|---|---|---|\n")
	for _, field := range result.Fields {
		messages := make([]string, 0, len(field.Issues))
		for _, issue := range field.Issues {
			messages = append(messages, fmt.Sprintf("%s (%s)", escape(issue.ErrorMessage), issue.Severity))
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", field.ValueHostName, field.Status, strings.Join(messages, "; "))
	}

	if form := formLevel(result.Issues); len(form) > 0 {
		sb.WriteString("\n## Form\n\n")
		for _, issue := range form {
			fmt.Fprintf(&sb, "- %s (%s)\n", issue.ErrorMessage, issue.Severity)
		}
	}
	return sb.String()
}

// NewRenderer returns a glamour markdown renderer that adapts to the terminal background.
func NewRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

func formLevel(issues []domain.Issue) []domain.Issue {
	var out []domain.Issue
	for _, issue := range issues {
		if issue.ValueHostName == domain.FormFieldName {
			out = append(out, issue)
		}
	}
	return out
}

func statusColor(s domain.ValidationStatus) string {
	switch s {
	case domain.StatusValid:
		return "#22c55e"
	case domain.StatusInvalid:
		return "#ef4444"
	case domain.StatusNotAttempted:
		return "#9ca3af"
	}
	return "#eab308"
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
