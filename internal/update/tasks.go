package update

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/tasklist/internal/export"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/storage"
)

var (
	ErrNoSelection    = errors.New("update: no task selected")
	ErrStoreNotLoaded = errors.New("update: task store was not loaded, refusing to overwrite it")
	ErrUnsavedChanges = errors.New("update: unsaved changes, refresh skipped")
)

// visibleTasks is the filtered, urgency-sorted list the user sees.
func (m Model) visibleTasks() []model.Task {
	return model.Sort(model.Filter(m.Tasks, m.Query), m.now(), m.window)
}

func (m Model) visibleIndex(id string) int {
	for i, t := range m.visibleTasks() {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (m Model) taskIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range m.Tasks {
		if m.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (m Model) selectedTask() (model.Task, bool) {
	idx := m.taskIndex(m.SelectedTaskID)
	if idx < 0 || m.visibleIndex(m.SelectedTaskID) < 0 {
		return model.Task{}, false
	}
	return m.Tasks[idx], true
}

// reselect keeps the selection on the same task id when it is still visible,
// otherwise it moves to the row at fallback.
func (m *Model) reselect(fallback int) {
	visible := m.visibleTasks()
	if len(visible) == 0 {
		m.SelectedTaskID = ""
		return
	}
	for _, t := range visible {
		if t.ID == m.SelectedTaskID {
			return
		}
	}
	if fallback < 0 {
		fallback = 0
	}
	if fallback >= len(visible) {
		fallback = len(visible) - 1
	}
	m.SelectedTaskID = visible[fallback].ID
}

func (m *Model) moveSelection(delta int) {
	visible := m.visibleTasks()
	if len(visible) == 0 {
		m.SelectedTaskID = ""
		return
	}
	idx := m.visibleIndex(m.SelectedTaskID)
	if idx < 0 {
		m.SelectedTaskID = visible[0].ID
		return
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(visible) {
		idx = len(visible) - 1
	}
	m.SelectedTaskID = visible[idx].ID
}

// persist flushes the whole list. A failure is surfaced on the status line
// and the in-memory list stays as it is. Nothing is written while the store
// is blocked and there is nothing new to save.
func (m *Model) persist() bool {
	if m.repo == nil {
		m.dirty = false
		return true
	}
	if m.storeBlocked {
		if !m.dirty {
			return true
		}
		m.logger.Warn("save skipped", "path", m.repo.Path(), "err", ErrStoreNotLoaded)
		m.setError(ErrStoreNotLoaded)
		return false
	}
	if err := m.repo.Save(m.ctx, m.Tasks); err != nil {
		m.logger.Error("save tasks", "path", m.repo.Path(), "err", err)
		m.setError(fmt.Errorf("save failed: %w", err))
		return false
	}
	m.dirty = false
	m.logger.Debug("saved tasks", "path", m.repo.Path(), "count", len(m.Tasks))
	return true
}

// reload replaces the list with the store's contents. A corrupt store that
// was moved aside leaves an empty, writable list. Any other failure keeps the
// current list and blocks saving until a later load succeeds.
func (m *Model) reload() error {
	if m.repo == nil {
		m.reselect(0)
		return nil
	}
	tasks, err := m.repo.Load(m.ctx)
	if err != nil {
		if errors.Is(err, storage.ErrCorrupt) && !errors.Is(err, storage.ErrNotPreserved) {
			m.Tasks = nil
			m.dirty = false
			m.storeBlocked = false
			m.reselect(0)
			m.logger.Error("task store is corrupt, starting empty", "path", m.repo.Path(), "err", err)
			return fmt.Errorf("%w (starting with an empty list)", err)
		}
		m.storeBlocked = true
		m.reselect(0)
		m.logger.Error("load tasks", "path", m.repo.Path(), "err", err)
		return fmt.Errorf("%w (saving disabled)", err)
	}
	m.Tasks = tasks
	m.dirty = false
	m.storeBlocked = false
	m.logger.Info("loaded tasks", "path", m.repo.Path(), "count", len(tasks))
	m.reselect(0)
	return nil
}

func (m *Model) addTask(t model.Task) {
	m.Tasks = append(m.Tasks, t)
	m.dirty = true
	m.SelectedTaskID = t.ID
	m.reselect(0)
	m.logger.Info("task added", "id", t.ID, "priority", t.Priority.String())
	if m.persist() {
		m.Status = StatusBar{Text: fmt.Sprintf("added: %s", t.Description)}
	}
}

// mutateSelected applies fn to the selected task and saves the list.
func (m *Model) mutateSelected(verb string, fn func(*model.Task) error) error {
	if m.visibleIndex(m.SelectedTaskID) < 0 {
		return ErrNoSelection
	}
	return m.mutateTask(m.SelectedTaskID, verb, fn)
}

func (m *Model) mutateTask(id, verb string, fn func(*model.Task) error) error {
	idx := m.taskIndex(id)
	if idx < 0 {
		return ErrNoSelection
	}
	row := m.visibleIndex(id)
	updated := m.Tasks[idx]
	if err := fn(&updated); err != nil {
		return err
	}
	m.Tasks[idx] = updated
	m.dirty = true
	m.SelectedTaskID = updated.ID
	m.reselect(row)
	m.logger.Info("task "+verb, "id", updated.ID)
	if m.persist() {
		m.Status = StatusBar{Text: fmt.Sprintf("%s: %s", verb, updated.Description)}
	}
	return nil
}

func (m *Model) toggleSelected() error {
	return m.mutateSelected("updated", func(t *model.Task) error {
		t.ToggleCompleted()
		return nil
	})
}

func (m *Model) deleteTask(id string) error {
	idx := m.taskIndex(id)
	if idx < 0 {
		return ErrNoSelection
	}
	row := m.visibleIndex(id)
	removed := m.Tasks[idx]
	m.Tasks = append(m.Tasks[:idx:idx], m.Tasks[idx+1:]...)
	m.dirty = true
	m.reselect(row)
	m.logger.Info("task deleted", "id", removed.ID)
	if m.persist() {
		m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", removed.Description)}
	}
	return nil
}

func (m *Model) setShowCompleted(show bool) {
	row := m.visibleIndex(m.SelectedTaskID)
	m.Query.ShowCompleted = show
	m.reselect(row)
	if show {
		m.Status = StatusBar{Text: "showing completed tasks"}
	} else {
		m.Status = StatusBar{Text: "hiding completed tasks"}
	}
}

func (m *Model) setSearch(text string) {
	row := m.visibleIndex(m.SelectedTaskID)
	m.Query.Text = strings.TrimSpace(text)
	m.reselect(row)
}

func (m *Model) exportTo(path string) (int, string, error) {
	if strings.TrimSpace(path) == "" {
		path = m.exportFile
	}
	format := m.exportFormat
	if strings.HasSuffix(strings.ToLower(path), ".yaml") || strings.HasSuffix(strings.ToLower(path), ".yml") {
		format = export.FormatYAML
	}
	n, err := export.ToFile(path, format, m.Tasks, m.now(), m.window)
	if err != nil {
		m.logger.Error("export tasks", "path", path, "err", err)
		return 0, path, err
	}
	m.logger.Info("exported tasks", "path", path, "count", n, "format", format)
	return n, path, nil
}

func (m *Model) setError(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
}

func (m Model) urgencyOf(t model.Task) model.Urgency {
	return model.Classify(t, m.now(), m.window)
}

func (m Model) counts() (total, overdue int) {
	now := m.now()
	for _, t := range m.Tasks {
		if !t.Visible() {
			continue
		}
		total++
		if model.Classify(t, now, m.window) == model.UrgencyOverdue {
			overdue++
		}
	}
	return total, overdue
}
