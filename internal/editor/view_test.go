package editor

import (
	"strings"
	"testing"
	"time"

	"github.com/debemdeboas/draftboard/internal/autosave"
	"github.com/debemdeboas/draftboard/internal/model"
)

func TestIndicator(t *testing.T) {
	tests := []struct {
		status autosave.Status
		want   string
	}{
		{autosave.StatusIdle, ""},
		{autosave.StatusSaving, "Saving..."},
		{autosave.StatusSaved, "Saved"},
		{autosave.StatusError, "Failed to save"},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			got := Indicator(tt.status)
			if tt.want == "" {
				if got != "" {
					t.Errorf("Indicator(idle) = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Indicator(%s) = %q, want it to contain %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestStatsPanel(t *testing.T) {
	panel := StatsPanel(model.Stats{Total: 5, Published: 3, Drafts: 2})

	for _, want := range []string{"Total Blogs", "Published", "Drafts", "5", "3", "2"} {
		if !strings.Contains(panel, want) {
			t.Errorf("Panel missing %q:\n%s", want, panel)
		}
	}
}

func TestCard(t *testing.T) {
	b := model.Blog{
		ID:        "abc",
		Title:     "",
		Content:   "<p>" + strings.Repeat("x", 200) + "</p>",
		Status:    model.StatusPublished,
		UpdatedAt: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
	}

	card := Card(b)
	for _, want := range []string{"Untitled Blog", "Published", "No tags", strings.Repeat("x", 150) + "...", "Mar 4, 2025"} {
		if !strings.Contains(card, want) {
			t.Errorf("Card missing %q:\n%s", want, card)
		}
	}
	if strings.Contains(card, "<p>") {
		t.Error("Card must strip HTML tags")
	}

	b.Tags = model.Tags{"go"}
	if !strings.Contains(Card(b), "#go") {
		t.Error("Card missing tag")
	}
}
