package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/views"
)

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// ReloadMsg reloads the list from the store. Unsaved changes are saved
// first; if that fails the reload is skipped.
type ReloadMsg struct{}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.helpModel.Width = typed.Width
		return m, nil
	case tea.KeyMsg:
		if typed.Type == tea.KeyCtrlC {
			return m.quit()
		}
		switch m.Mode {
		case ModeForm:
			return m.handleFormKey(typed)
		case ModeConfirm:
			return m.handleConfirmKey(typed), nil
		case ModeSearch:
			return m.handleSearchKey(typed)
		case ModePalette:
			return m.handlePaletteKey(typed)
		default:
			return m.handleListKey(typed)
		}
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.logger.Error("app error", "err", typed.Err)
			m.setError(typed.Err)
		}
		return m, nil
	case ReloadMsg:
		m.refresh()
		return m, nil
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m.quit()
	case key.Matches(msg, m.Keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.Keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.Keys.Add):
		m.openAddForm()
	case key.Matches(msg, m.Keys.Edit):
		if t, ok := m.selectedTask(); ok {
			m.openEditForm(t)
		} else {
			m.setError(ErrNoSelection)
		}
	case key.Matches(msg, m.Keys.Details):
		m.DetailsVisible = !m.DetailsVisible
	case key.Matches(msg, m.Keys.Toggle):
		if err := m.toggleSelected(); err != nil {
			m.setError(err)
		}
	case key.Matches(msg, m.Keys.Delete):
		if t, ok := m.selectedTask(); ok {
			m.askDelete(t)
		} else {
			m.setError(ErrNoSelection)
		}
	case key.Matches(msg, m.Keys.Search):
		m.Mode = ModeSearch
		m.searchInput.SetValue(m.Query.Text)
		m.searchInput.Focus()
		m.Status = StatusBar{Text: "type to filter, enter to keep, esc to clear"}
	case key.Matches(msg, m.Keys.Palette):
		m.openPalette()
	case key.Matches(msg, m.Keys.ShowCompleted):
		m.setShowCompleted(!m.Query.ShowCompleted)
	case key.Matches(msg, m.Keys.Colors):
		m.DisableColors = !m.DisableColors
		if m.DisableColors {
			m.Status = StatusBar{Text: "colors disabled"}
		} else {
			m.Status = StatusBar{Text: "colors enabled"}
		}
	case key.Matches(msg, m.Keys.Export):
		n, path, err := m.exportTo("")
		if err != nil {
			m.setError(err)
		} else {
			m.Status = StatusBar{Text: fmt.Sprintf("exported %d task(s) to %s", n, path)}
		}
	case key.Matches(msg, m.Keys.Refresh):
		m.refresh()
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
	case msg.Type == tea.KeyEsc:
		if m.Query.Text != "" {
			m.setSearch("")
			m.Status = StatusBar{Text: "search cleared"}
		}
	}
	return m, nil
}

func (m *Model) refresh() {
	if m.dirty && !m.persist() {
		m.logger.Warn("refresh skipped", "err", m.LastError)
		m.setError(fmt.Errorf("%w: %v", ErrUnsavedChanges, m.LastError))
		return
	}
	if err := m.reload(); err != nil {
		m.setError(err)
		return
	}
	m.Status = StatusBar{Text: fmt.Sprintf("reloaded %d task(s)", len(m.Tasks))}
}

func (m *Model) askDelete(t model.Task) {
	m.deleteTargetID = t.ID
	m.Mode = ModeConfirm
	m.Status = StatusBar{Text: views.RenderConfirmDelete(t.Description)}
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) Model {
	switch strings.ToLower(msg.String()) {
	case "y":
		id := m.deleteTargetID
		m.deleteTargetID = ""
		m.Mode = ModeList
		if err := m.deleteTask(id); err != nil {
			m.setError(err)
		}
	case "n", "esc":
		m.deleteTargetID = ""
		m.Mode = ModeList
		m.Status = StatusBar{Text: "delete cancelled"}
	}
	return m
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.Mode = ModeList
		m.searchInput.Blur()
		m.Status = StatusBar{Text: fmt.Sprintf("%d task(s) match", len(m.visibleTasks()))}
		return m, nil
	case "esc":
		m.Mode = ModeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.setSearch("")
		m.Status = StatusBar{Text: "search cleared"}
		return m, nil
	}
	var cmd tea.Cmd
	if msg.Type == tea.KeyRunes {
		m.searchInput.SetValue(m.searchInput.Value() + string(msg.Runes))
		m.searchInput.CursorEnd()
	} else {
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	m.setSearch(m.searchInput.Value())
	return m, cmd
}

// quit saves once more and stops the program. A failed save is kept in
// QuitErr for the caller to report.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if !m.persist() {
		m.QuitErr = m.LastError
	}
	m.Quitting = true
	m.logger.Info("quitting", "tasks", len(m.Tasks))
	return m, tea.Quit
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	left := m.renderListPane()
	right := m.renderSidePane()

	notification := ""
	if m.Mode == ModeConfirm {
		if t := m.taskIndex(m.deleteTargetID); t >= 0 {
			notification = views.RenderConfirmDelete(m.Tasks[t].Description)
		}
	}

	total, overdue := m.counts()
	storePath := "-"
	if m.repo != nil {
		storePath = m.repo.Path()
	}
	return views.RenderApp(views.AppData{
		Header:        fmt.Sprintf("tasklist | %d task(s) | %d overdue | store: %s", total, overdue, storePath),
		LeftPane:      left,
		RightPane:     right,
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Notification:  notification,
		Footer:        m.helpModel.ShortHelpView(m.Keys.ShortHelp()),
	})
}
