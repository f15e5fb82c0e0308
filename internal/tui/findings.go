package tui

import (
	"fmt"
	"strings"

	"github.com/waabox/deploybot/internal/domain"
)

// Finding is one reviewable issue reported by an analysis phase.
type Finding struct {
	Severity string
	Title    string
	Location string
	// Detail is shown when the finding is expanded, e.g. a suggested fix.
	Detail string
}

// FindingListModel is an immutable model for a list of findings where the
// highlighted entry can be expanded.
type FindingListModel struct {
	findings []Finding
	cursor   int
	expanded int
}

// NewFindingListModel creates a finding list model with nothing expanded.
func NewFindingListModel(findings []Finding) FindingListModel {
	return FindingListModel{findings: findings, cursor: 0, expanded: -1}
}

// MoveDown returns a new model with the cursor moved down by one.
func (m FindingListModel) MoveDown() FindingListModel {
	if m.cursor < len(m.findings)-1 {
		m.cursor++
	}
	return m
}

// MoveUp returns a new model with the cursor moved up by one.
func (m FindingListModel) MoveUp() FindingListModel {
	if m.cursor > 0 {
		m.cursor--
	}
	return m
}

// Toggle expands the highlighted finding, or collapses it if it is already expanded.
// Only one finding is expanded at a time.
func (m FindingListModel) Toggle() FindingListModel {
	if len(m.findings) == 0 {
		return m
	}
	if m.expanded == m.cursor {
		m.expanded = -1
	} else {
		m.expanded = m.cursor
	}
	return m
}

// Cursor returns the current cursor position.
func (m FindingListModel) Cursor() int {
	return m.cursor
}

// Expanded returns the index of the expanded finding, or -1.
func (m FindingListModel) Expanded() int {
	return m.expanded
}

// Findings returns the full finding slice.
func (m FindingListModel) Findings() []Finding {
	return m.findings
}

// View renders the findings with cursor and expansion indicators.
func (m FindingListModel) View() string {
	if len(m.findings) == 0 {
		return "No issues found.\n"
	}
	var sb strings.Builder
	for i, f := range m.findings {
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		arrow := "▸"
		if i == m.expanded {
			arrow = "▾"
		}
		sb.WriteString(fmt.Sprintf("%s%s %s %-8s %s",
			prefix, arrow, severityIcon(f.Severity), strings.ToUpper(truncate(f.Severity, 8)), f.Title))
		if f.Location != "" {
			sb.WriteString("  (" + f.Location + ")")
		}
		sb.WriteString("\n")
		if i == m.expanded && f.Detail != "" {
			for _, line := range strings.Split(f.Detail, "\n") {
				sb.WriteString("      " + line + "\n")
			}
		}
	}
	return sb.String()
}

func severityIcon(severity string) string {
	switch strings.ToLower(severity) {
	case "critical":
		return "‼"
	case "high":
		return "✗"
	case "medium":
		return "!"
	case "low":
		return "·"
	default:
		return "?"
	}
}

// blockerFindings lists the deployment blockers of a code analysis.
func blockerFindings(r domain.CodeAnalysisResult) []Finding {
	out := make([]Finding, 0, len(r.Blockers))
	for _, b := range r.Blockers {
		detail := b.AutoFix
		if detail == "" {
			detail = "No automatic fix available."
		}
		out = append(out, Finding{
			Severity: b.Severity,
			Title:    b.Description,
			Location: b.Location,
			Detail:   detail,
		})
	}
	return out
}

// securityFindings lists exposed credentials followed by vulnerable packages.
func securityFindings(r domain.SecurityResult) []Finding {
	out := make([]Finding, 0, len(r.ExposedCredentials)+len(r.Vulnerabilities))
	for _, c := range r.ExposedCredentials {
		out = append(out, Finding{
			Severity: c.Severity,
			Title:    "Exposed " + c.Type,
			Location: c.Location,
			Detail:   c.Recommendation,
		})
	}
	for _, v := range r.Vulnerabilities {
		title := fmt.Sprintf("%s %s", v.Package, v.CurrentVersion)
		if v.CVEID != "" {
			title += " " + v.CVEID
		}
		detail := v.Description
		if v.FixedVersion != "" {
			detail = strings.TrimSpace(detail + "\nFixed in " + v.FixedVersion)
		}
		out = append(out, Finding{Severity: v.Severity, Title: title, Detail: detail})
	}
	return out
}
