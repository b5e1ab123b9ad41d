package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/commands"
	"github.com/sandeepkv93/tasklist/internal/model"
)

func (m *Model) openPalette() {
	m.Mode = ModePalette
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
}

func (m *Model) closePalette() {
	m.Mode = ModeList
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		return m.executePaletteCommand(m.commandInput.Value())
	}
	if msg.Type == tea.KeyRunes {
		m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
		m.commandInput.CursorEnd()
		return m, nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m Model) executePaletteCommand(input string) (Model, tea.Cmd) {
	m.closePalette()
	m.Status = StatusBar{}
	raw := strings.TrimSpace(input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.setError(err)
		return m, nil
	}

	selected := func(verb string, fn func(*model.Task) error) (commands.Result, error) {
		if err := m.mutateSelected(verb, fn); err != nil {
			return commands.Result{}, err
		}
		if m.Status.IsError {
			return commands.Result{}, m.LastError
		}
		return commands.Result{Message: m.Status.Text}, nil
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			t, err := model.NewTask(a.Description, a.Priority, a.Due, "", m.now())
			if err != nil {
				return commands.Result{}, err
			}
			m.addTask(t)
			if m.Status.IsError {
				return commands.Result{}, m.LastError
			}
			return commands.Result{Message: fmt.Sprintf("added: %s", t.Description)}, nil
		},
		Search: func(s commands.SearchArgs) (commands.Result, error) {
			m.setSearch(s.Text)
			return commands.Result{Message: fmt.Sprintf("search: %s (%d shown)", s.Text, len(m.visibleTasks()))}, nil
		},
		Clear: func() (commands.Result, error) {
			m.setSearch("")
			return commands.Result{Message: "search cleared"}, nil
		},
		Done: func() (commands.Result, error) {
			return selected("completed", func(t *model.Task) error { return t.MarkCompleted() })
		},
		Reopen: func() (commands.Result, error) {
			return selected("reopened", func(t *model.Task) error {
				t.Reopen()
				return nil
			})
		},
		Delete: func() (commands.Result, error) {
			t, ok := m.selectedTask()
			if !ok {
				return commands.Result{}, ErrNoSelection
			}
			m.askDelete(t)
			return commands.Result{Message: m.Status.Text}, nil
		},
		Due: func(d commands.DueArgs) (commands.Result, error) {
			return selected("rescheduled", func(t *model.Task) error {
				t.DueDate = d.Due
				return nil
			})
		},
		Priority: func(p commands.PriorityArgs) (commands.Result, error) {
			return selected("reprioritized", func(t *model.Task) error { return t.UpdatePriority(p.Priority) })
		},
		Export: func(e commands.ExportArgs) (commands.Result, error) {
			n, path, err := m.exportTo(e.Path)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("exported %d task(s) to %s", n, path)}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			m.setShowCompleted(s.Completed)
			return commands.Result{Message: m.Status.Text}, nil
		},
	})
	if err != nil {
		m.logger.Warn("command failed", "input", raw, "err", err)
		m.setError(err)
		return m, nil
	}
	m.logger.Debug("command executed", "input", raw)
	m.Status = StatusBar{Text: res.Message}
	return m, nil
}
