package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Renderer serializes reports to bytes.
type Renderer interface {
	RenderHistory(h *History) ([]byte, error)
	RenderDashboard(d *Dashboard) ([]byte, error)
}

// NewRenderer returns the renderer for format, "markdown" or "json".
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "markdown", "md", "":
		return &MarkdownRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want markdown or json)", format)
	}
}

// JSONRenderer renders reports as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) RenderHistory(h *History) ([]byte, error) {
	return json.MarshalIndent(h, "", "  ")
}

func (r *JSONRenderer) RenderDashboard(d *Dashboard) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// MarkdownRenderer renders reports as human-readable Markdown.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) RenderHistory(h *History) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("# Workout History")
	if h.Username != "" {
		fmt.Fprintf(&sb, " for %s", h.Username)
	}
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "_Generated %s_\n\n", h.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	if len(h.Workouts) == 0 {
		sb.WriteString("_No workouts recorded._\n")
		return []byte(sb.String()), nil
	}

	for _, w := range h.Workouts {
		fmt.Fprintf(&sb, "## %s (#%d)\n\n", w.Name, w.ID)
		fmt.Fprintf(&sb, "- Date: %s\n", w.Date)
		fmt.Fprintf(&sb, "- Total: %d min\n\n", w.TotalDuration)
		if len(w.Exercises) == 0 {
			sb.WriteString("_No exercises._\n\n")
			continue
		}
		sb.WriteString("| Exercise | Minutes |\n")
		sb.WriteString("|----------|---------|\n")
		for _, e := range w.Exercises {
			fmt.Fprintf(&sb, "| %s | %d |\n", escapeCell(e.Name), e.Duration)
		}
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

func (r *MarkdownRenderer) RenderDashboard(d *Dashboard) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("# Dashboard")
	if d.Username != "" {
		fmt.Fprintf(&sb, " for %s", d.Username)
	}
	sb.WriteString("\n\n")

	// ## Summary
	sb.WriteString("## Summary\n\n")
	if d.Stats == nil {
		sb.WriteString("_Statistics unavailable._\n")
	} else {
		fmt.Fprintf(&sb, "- Total workouts: %d\n", d.Stats.TotalWorkouts)
		fmt.Fprintf(&sb, "- Total time: %d min\n", d.Stats.TotalDuration)
		fmt.Fprintf(&sb, "- Average workout: %.1f min\n", d.Stats.AverageDuration)
		fmt.Fprintf(&sb, "- This week: %d\n", d.Stats.WorkoutsThisWeek)
	}
	sb.WriteString("\n")

	// ## Time by Type
	sb.WriteString("## Time by Type\n\n")
	if len(d.TimeByType) == 0 {
		sb.WriteString("_No exercise time recorded._\n")
	} else {
		sb.WriteString("| Type | Minutes |\n")
		sb.WriteString("|------|---------|\n")
		for _, row := range d.TimeByType {
			fmt.Fprintf(&sb, "| %s | %d |\n", escapeCell(row.Type), row.Minutes)
		}
	}
	sb.WriteString("\n")

	return []byte(sb.String()), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
