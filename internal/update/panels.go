package update

import (
	"strconv"
	"strings"

	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/views"
)

func (m Model) renderListPane() string {
	visible := m.visibleTasks()
	rows := make([]views.TaskRowData, 0, len(visible))
	for _, t := range visible {
		rows = append(rows, views.TaskRowData{
			ID:          t.ID,
			Description: t.Description,
			Completed:   t.Completed,
			Due:         model.FormatDueDate(t.DueDate),
			Priority:    t.Priority.String(),
			Hex:         m.urgencyOf(t).Hex(),
		})
	}
	parts := []string{}
	if bar := views.RenderSearchBar(m.Mode == ModeSearch, m.searchInput.View(), m.Query.Text); bar != "" {
		parts = append(parts, bar)
	}
	parts = append(parts, views.RenderTaskList(views.TaskListData{
		Rows:           rows,
		SelectedID:     m.SelectedTaskID,
		Search:         m.Query.Text,
		ShowCompleted:  m.Query.ShowCompleted,
		ColorsDisabled: m.DisableColors,
	}))
	if palette := views.RenderCommandPalette(m.Mode == ModePalette, m.commandInput.View()); palette != "" {
		parts = append(parts, palette)
	}
	return strings.Join(parts, "\n")
}

func (m Model) renderSidePane() string {
	parts := []string{}
	switch {
	case m.Mode == ModeForm:
		parts = append(parts, m.renderForm())
	case m.DetailsVisible:
		parts = append(parts, m.renderDetails())
	}
	parts = append(parts, m.renderLegend())
	if help := m.renderHelpIfVisible(); help != "" {
		parts = append(parts, help)
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) renderDetails() string {
	t, ok := m.selectedTask()
	if !ok {
		return views.RenderDetails(views.DetailsData{})
	}
	return views.RenderDetails(views.DetailsData{
		Description: t.Description,
		Due:         model.FormatDueDate(t.DueDate),
		Priority:    t.Priority.String(),
		Urgency:     m.urgencyOf(t).String(),
		InfoView:    views.RenderMarkdown(t.AdditionalInfo, m.markdownWidth()),
		Created:     model.FormatDate(t.CreatedDate),
		Completed:   t.Completed,
	})
}

type legendLabel struct {
	urgency model.Urgency
	label   string
}

// legendEntries lists the colors in use; green only while completed tasks are shown.
func (m Model) legendEntries() []views.LegendEntry {
	window := strconv.Itoa(m.window)
	labels := []legendLabel{
		{model.UrgencyOverdue, "Overdue"},
		{model.UrgencyDueSoon, "Due in " + window + " days"},
		{model.UrgencyDueLater, "Due in >" + window + " days"},
		{model.UrgencyNoDueDate, "No due date"},
	}
	if m.Query.ShowCompleted {
		labels = append(labels, legendLabel{model.UrgencyCompleted, "Completed"})
	}
	out := make([]views.LegendEntry, 0, len(labels))
	for _, l := range labels {
		name := l.urgency.ColorName()
		out = append(out, views.LegendEntry{
			Color: strings.ToUpper(name[:1]) + name[1:],
			Label: l.label,
			Hex:   l.urgency.Hex(),
		})
	}
	return out
}

func (m Model) renderLegend() string {
	return views.RenderLegend(views.LegendData{
		Entries:        m.legendEntries(),
		ColorsDisabled: m.DisableColors,
	})
}

func (m Model) markdownWidth() int {
	if m.width > 0 && m.width/3 > 20 {
		return m.width / 3
	}
	return 40
}
