// Package report renders aggregated reaction summaries for the terminal or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/naka-gawa/pr-reactions/internal/domain"
)

// DefaultTop is how many reactors the table view lists.
const DefaultTop = 10

// Format selects a renderer.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table or json)", s)
	}
}

// Write renders s to w in the given format. top limits the reactor table; zero or less means all.
func Write(w io.Writer, s *domain.Summary, format Format, top int) error {
	if format == FormatJSON {
		return writeJSON(w, s)
	}
	return writeTable(w, s, top)
}

func writeJSON(w io.Writer, s *domain.Summary) error {
	jsonData, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

var titleStyle = lipgloss.NewStyle().Bold(true)

func bucketTable(keyHeader string, buckets []*domain.Bucket) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(keyHeader, "Reactions", "Total Points", "Average Points", "Median Points")
	for _, b := range buckets {
		t.Row(bucketRow(b)...)
	}
	return t.String()
}

func bucketRow(b *domain.Bucket) []string {
	return []string{
		b.Key,
		strconv.Itoa(b.Count),
		strconv.Itoa(b.Sum),
		fmt.Sprintf("%.2f", b.Average),
		fmt.Sprintf("%.2f", b.Median),
	}
}

func writeTable(w io.Writer, s *domain.Summary, top int) error {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("--- Overall Summary ---") + "\n")
	sb.WriteString(bucketTable("Date", s.Daily) + "\n\n")

	sb.WriteString(titleStyle.Render("--- Weekly Summary ---") + "\n")
	sb.WriteString(bucketTable("Week", s.Weekly) + "\n\n")

	sb.WriteString(titleStyle.Render("--- Emoji Summary ---") + "\n")
	emoji := table.New().Border(lipgloss.NormalBorder()).Headers("Emoji", "Count")
	for _, e := range s.Emoji {
		emoji.Row(e.Symbol, strconv.Itoa(e.Count))
	}
	sb.WriteString(emoji.String() + "\n\n")

	sb.WriteString(titleStyle.Render("--- Top Reactors (by Total Points) ---") + "\n")
	users := s.Users
	if top > 0 && len(users) > top {
		users = users[:top]
	}
	reactors := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("User", "Reactions", "Total Points", "Average Points", "Median Points")
	for _, u := range users {
		reactors.Row(bucketRow(&u.Bucket)...)
	}
	sb.WriteString(reactors.String() + "\n\n")

	sb.WriteString(titleStyle.Render("--- Quality ---") + "\n")
	fmt.Fprintf(&sb, "Negative reactions: %d / %d (%.1f%%)\n", s.NegativeReactions, s.TotalReactions, s.NegativeRatio)
	if s.LowQuality {
		fmt.Fprintf(&sb, "Warning: more than %.0f%% of reactions are negative; quality may be low.\n", domain.LowQualityThreshold)
	}

	if np := s.NoParticipation; np != nil {
		sb.WriteString("\n" + titleStyle.Render("--- Pull Requests Without Target Activity ---") + "\n")
		fmt.Fprintf(&sb, "Count: %d\n", np.Total)
		fmt.Fprintf(&sb, "First %d: %s\n", len(np.First), strings.Join(np.First, ", "))
		if np.Remaining > 0 {
			fmt.Fprintf(&sb, "... and %d more\n", np.Remaining)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
