package editor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/debemdeboas/draftboard/internal/autosave"
	"github.com/debemdeboas/draftboard/internal/model"
	"github.com/debemdeboas/draftboard/internal/util"
)

const excerptLength = 150

var (
	savingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	savedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	draftBadge   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	publishBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

	statBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 2).
		Align(lipgloss.Center)
)

// Indicator renders the save status. Idle renders as the empty string.
func Indicator(status autosave.Status) string {
	switch status {
	case autosave.StatusSaving:
		return savingStyle.Render("Saving...")
	case autosave.StatusSaved:
		return savedStyle.Render("✓ Saved")
	case autosave.StatusError:
		return errorStyle.Render("! Failed to save")
	default:
		return ""
	}
}

func badge(status model.Status) string {
	if status == model.StatusPublished {
		return publishBadge.Render("Published")
	}
	return draftBadge.Render("Draft")
}

// StatsPanel renders the three blog counters side by side.
func StatsPanel(stats model.Stats) string {
	cell := func(label string, n int, color string) string {
		return statBox.BorderForeground(lipgloss.Color(color)).Render(
			titleStyle.Render(label) + "\n" + strconv.Itoa(n),
		)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		cell("Total Blogs", stats.Total, "63"),
		cell("Published", stats.Published, "42"),
		cell("Drafts", stats.Drafts, "214"),
	)
}

// Card renders one list entry: title, status, tags, excerpt and date.
func Card(b model.Blog) string {
	title := b.Title
	if title == "" {
		title = "Untitled Blog"
	}

	tags := mutedStyle.Render("No tags")
	if len(b.Tags) > 0 {
		rendered := make([]string, len(b.Tags))
		for i, t := range b.Tags {
			rendered[i] = tagStyle.Render("#" + t)
		}
		tags = strings.Join(rendered, " ")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s\n", titleStyle.Render(title), badge(b.Status))
	fmt.Fprintf(&sb, "%s\n", tags)
	if excerpt := util.Excerpt(b.Content, excerptLength); excerpt != "" {
		fmt.Fprintf(&sb, "%s\n", excerpt)
	}
	fmt.Fprintf(&sb, "%s", mutedStyle.Render(fmt.Sprintf("%s · Updated: %s", b.ID, b.UpdatedAt.Format("Jan 2, 2006"))))
	return sb.String()
}
