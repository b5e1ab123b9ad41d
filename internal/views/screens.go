package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TaskRowData struct {
	ID          string
	Description string
	Completed   bool
	Due         string
	Priority    string
	Hex         string
}

type TaskListData struct {
	Rows           []TaskRowData
	SelectedID     string
	// Search is the active filter text; it only changes the empty-list message.
	Search         string
	ShowCompleted  bool
	ColorsDisabled bool
}

type LegendEntry struct {
	Color string
	Label string
	Hex   string
}

type LegendData struct {
	Entries        []LegendEntry
	ColorsDisabled bool
}

type DetailsData struct {
	Description string
	Due         string
	Priority    string
	Urgency     string
	InfoView    string
	Created     string
	Completed   bool
}

type FormField struct {
	Label   string
	View    string
	Focused bool
}

type FormData struct {
	Title  string
	Fields []FormField
	Error  string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

var (
	rowTextColor   = lipgloss.Color("#000000")
	selectedMarker = lipgloss.NewStyle().Bold(true)
	formErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	labelStyle     = lipgloss.NewStyle().Bold(true)
)

// TaskRow is the one-line summary of a task shown in the list.
func TaskRow(row TaskRowData) string {
	status := "Incomplete"
	if row.Completed {
		status = "Completed"
	}
	return fmt.Sprintf("%s | %s | Due: %s | Priority: %s", row.Description, status, row.Due, row.Priority)
}

func RenderTaskList(data TaskListData) string {
	var b strings.Builder
	scope := "active"
	if data.ShowCompleted {
		scope = "all"
	}
	b.WriteString(fmt.Sprintf("tasks (%s, %d shown):\n", scope, len(data.Rows)))
	if len(data.Rows) == 0 {
		if data.Search != "" {
			b.WriteString("(no matching tasks)")
		} else {
			b.WriteString("(no tasks, press a to add one)")
		}
		return b.String()
	}
	for _, row := range data.Rows {
		cursor := " "
		if row.ID == data.SelectedID {
			cursor = selectedMarker.Render(">")
		}
		text := TaskRow(row)
		if !data.ColorsDisabled && row.Hex != "" {
			text = lipgloss.NewStyle().
				Background(lipgloss.Color(row.Hex)).
				Foreground(rowTextColor).
				Render(text)
		}
		b.WriteString(cursor + " " + text + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderLegend(data LegendData) string {
	var b strings.Builder
	b.WriteString("legend:\n")
	for _, e := range data.Entries {
		line := fmt.Sprintf("%s: %s", e.Color, e.Label)
		if !data.ColorsDisabled && e.Hex != "" {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color(e.Hex)).Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderDetails(data DetailsData) string {
	if strings.TrimSpace(data.Description) == "" {
		return "details:\n(no selection)"
	}
	status := "Incomplete"
	if data.Completed {
		status = "Completed"
	}
	info := data.InfoView
	if strings.TrimSpace(info) == "" {
		info = "No additional info"
	}
	return strings.Join([]string{
		"details:",
		labelStyle.Render("Description: ") + data.Description,
		labelStyle.Render("Due Date: ") + data.Due,
		labelStyle.Render("Priority: ") + data.Priority,
		labelStyle.Render("Urgency: ") + data.Urgency,
		labelStyle.Render("Created: ") + data.Created,
		labelStyle.Render("Status: ") + status,
		labelStyle.Render("Additional Info:"),
		info,
	}, "\n")
}

func RenderForm(data FormData) string {
	var b strings.Builder
	b.WriteString(data.Title + ":\n")
	b.WriteString("keys: [tab] next field [ctrl+p] cycle priority [enter] save [esc] cancel\n")
	for _, f := range data.Fields {
		marker := " "
		if f.Focused {
			marker = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s: %s\n", marker, f.Label, f.View))
	}
	if data.Error != "" {
		b.WriteString(formErrorStyle.Render("error: " + data.Error))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderConfirmDelete(description string) string {
	return fmt.Sprintf("Delete task %q? (y/n)", description)
}

func RenderSearchBar(active bool, inputView, query string) string {
	if active {
		return "search: " + inputView
	}
	if query != "" {
		return fmt.Sprintf("filter: %q ([/] edit, [esc] clear)", query)
	}
	return ""
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command: " + inputView
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n%s", strings.Join(data.Bindings, "\n"), data.HelpView)
}
