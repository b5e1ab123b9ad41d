package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/views"
)

func (m *Model) openAddForm() {
	m.form = newFormState()
	m.Mode = ModeForm
	m.focusFormField(fieldDescription)
	m.Status = StatusBar{Text: "adding a task"}
}

func (m *Model) openEditForm(t model.Task) {
	m.form = newFormState()
	m.form.EditingID = t.ID
	m.form.Description.SetValue(t.Description)
	if t.DueDate != nil {
		m.form.Due.SetValue(model.FormatDate(*t.DueDate))
	}
	m.form.Priority = t.Priority
	m.form.Info.SetValue(t.AdditionalInfo)
	m.Mode = ModeForm
	m.focusFormField(fieldDescription)
	m.Status = StatusBar{Text: "editing: " + t.Description}
}

func (m *Model) closeForm() {
	m.form.Description.Blur()
	m.form.Due.Blur()
	m.form.Info.Blur()
	m.Mode = ModeList
}

func (m *Model) focusFormField(f formField) {
	m.form.Focus = f
	m.form.Description.Blur()
	m.form.Due.Blur()
	m.form.Info.Blur()
	switch f {
	case fieldDescription:
		m.form.Description.Focus()
	case fieldDue:
		m.form.Due.Focus()
	case fieldInfo:
		m.form.Info.Focus()
	}
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeForm()
		m.Status = StatusBar{Text: "edit cancelled"}
		return m, nil
	case "tab":
		m.focusFormField((m.form.Focus + 1) % fieldCount)
		return m, nil
	case "shift+tab":
		m.focusFormField((m.form.Focus + fieldCount - 1) % fieldCount)
		return m, nil
	case "ctrl+p":
		m.form.Priority = m.form.Priority.Next()
		return m, nil
	case "ctrl+s":
		return m.submitForm(), nil
	case "enter":
		if m.form.Focus != fieldInfo {
			return m.submitForm(), nil
		}
	}

	if m.form.Focus == fieldPriority {
		switch msg.String() {
		case " ", "right":
			m.form.Priority = m.form.Priority.Next()
		case "left":
			m.form.Priority = m.form.Priority.Next().Next()
		default:
			if p, err := model.ParsePriority(msg.String()); err == nil {
				m.form.Priority = p
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.form.Focus {
	case fieldDescription:
		if msg.Type == tea.KeyRunes {
			m.form.Description.SetValue(m.form.Description.Value() + string(msg.Runes))
			m.form.Description.CursorEnd()
			return m, nil
		}
		m.form.Description, cmd = m.form.Description.Update(msg)
	case fieldDue:
		if msg.Type == tea.KeyRunes {
			m.form.Due.SetValue(m.form.Due.Value() + string(msg.Runes))
			m.form.Due.CursorEnd()
			return m, nil
		}
		m.form.Due, cmd = m.form.Due.Update(msg)
	case fieldInfo:
		if msg.Type == tea.KeyRunes {
			m.form.Info.InsertString(string(msg.Runes))
			return m, nil
		}
		m.form.Info, cmd = m.form.Info.Update(msg)
	}
	return m, cmd
}

// submitForm validates the fields and either adds or updates a task. On a
// validation error the form stays open with the message inline.
func (m Model) submitForm() Model {
	due, err := model.ParseOptionalDate(m.form.Due.Value())
	if err != nil {
		m.form.Err = err.Error()
		m.focusFormField(fieldDue)
		return m
	}

	if m.form.EditingID == "" {
		t, err := model.NewTask(m.form.Description.Value(), m.form.Priority, due, m.form.Info.Value(), m.now())
		if err != nil {
			m.form.Err = err.Error()
			m.focusFormField(fieldDescription)
			return m
		}
		m.closeForm()
		m.addTask(t)
		return m
	}

	idx := m.taskIndex(m.form.EditingID)
	if idx < 0 {
		m.closeForm()
		m.setError(ErrNoSelection)
		return m
	}
	updated := m.Tasks[idx]
	if err := updated.UpdateDescription(m.form.Description.Value()); err != nil {
		m.form.Err = err.Error()
		m.focusFormField(fieldDescription)
		return m
	}
	if err := updated.UpdatePriority(m.form.Priority); err != nil {
		m.form.Err = err.Error()
		m.focusFormField(fieldPriority)
		return m
	}
	updated.DueDate = due
	updated.UpdateAdditionalInfo(m.form.Info.Value())

	m.closeForm()
	_ = m.mutateTask(updated.ID, "edited", func(t *model.Task) error {
		*t = updated
		return nil
	})
	return m
}

func (m Model) renderForm() string {
	title := "add task"
	if m.form.EditingID != "" {
		title = "edit task"
	}
	priority := fmt.Sprintf("< %s >", m.form.Priority)
	return views.RenderForm(views.FormData{
		Title: title,
		Fields: []views.FormField{
			{Label: "Description", View: m.form.Description.View(), Focused: m.form.Focus == fieldDescription},
			{Label: "Due Date", View: m.form.Due.View(), Focused: m.form.Focus == fieldDue},
			{Label: "Priority", View: priority, Focused: m.form.Focus == fieldPriority},
			{Label: "Additional Info", View: "\n" + m.form.Info.View(), Focused: m.form.Focus == fieldInfo},
		},
		Error: m.form.Err,
	})
}
