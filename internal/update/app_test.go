package update

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/storage"
)

var testNow = time.Date(2026, 2, 9, 10, 0, 0, 0, time.Local)

type memRepo struct {
	tasks   []model.Task
	saves   int
	loadErr error
	saveErr error
}

func (r *memRepo) Load(context.Context) ([]model.Task, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return append([]model.Task(nil), r.tasks...), nil
}

func (r *memRepo) Save(_ context.Context, tasks []model.Task) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.tasks = append([]model.Task(nil), tasks...)
	return nil
}

func (r *memRepo) Path() string { return "mem://tasks" }
func (r *memRepo) Close() error { return nil }

func mustTask(t *testing.T, desc string, p model.Priority, due string) model.Task {
	t.Helper()
	d, err := model.ParseOptionalDate(due)
	if err != nil {
		t.Fatalf("parse due: %v", err)
	}
	task, err := model.NewTask(desc, p, d, "", testNow)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	return task
}

// fixture returns tasks whose visible order is: Pay rent, Book dentist,
// Renew passport, Read book.
func fixture(t *testing.T) []model.Task {
	t.Helper()
	done := mustTask(t, "Old chore", model.PriorityHigh, "")
	done.Completed = true
	return []model.Task{
		mustTask(t, "Read book", model.PriorityNormal, ""),
		mustTask(t, "Renew passport", model.PriorityLow, "01/06/26"),
		done,
		mustTask(t, "Book dentist", model.PriorityNormal, "20/02/26"),
		mustTask(t, "Pay rent", model.PriorityHigh, "05/02/26"),
	}
}

func newTestModel(t *testing.T, repo *memRepo) Model {
	t.Helper()
	return NewModel(Options{
		Repo:         repo,
		ExportFile:   filepath.Join(t.TempDir(), "tasks_export.txt"),
		ExportFormat: "txt",
		DueSoonDays:  30,
		Now:          func() time.Time { return testNow },
	})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
	spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func visibleDescriptions(m Model) []string {
	out := []string{}
	for _, task := range m.visibleTasks() {
		out = append(out, task.Description)
	}
	return out
}

func completedCount(m Model) int {
	n := 0
	for _, task := range m.Tasks {
		if task.Completed {
			n++
		}
	}
	return n
}

func selectedDescription(m Model) string {
	task, ok := m.selectedTask()
	if !ok {
		return ""
	}
	return task.Description
}

func TestNewModelLoadsSortedAndSelectsFirst(t *testing.T) {
	m := newTestModel(t, &memRepo{tasks: fixture(t)})
	got := strings.Join(visibleDescriptions(m), ",")
	if got != "Pay rent,Book dentist,Renew passport,Read book" {
		t.Fatalf("unexpected visible order: %s", got)
	}
	if selectedDescription(m) != "Pay rent" {
		t.Fatalf("expected first row selected, got %q", selectedDescription(m))
	}
	if m.Mode != ModeList || m.Status.IsError {
		t.Fatalf("unexpected initial state: mode=%s status=%+v", m.Mode, m.Status)
	}
}

func TestNewModelCorruptStoreStartsEmpty(t *testing.T) {
	repo := &memRepo{loadErr: fmt.Errorf("%w: bad json", storage.ErrCorrupt)}
	m := newTestModel(t, repo)
	if len(m.Tasks) != 0 {
		t.Fatalf("expected empty list, got %d tasks", len(m.Tasks))
	}
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "empty list") {
		t.Fatalf("expected corrupt store status, got %+v", m.Status)
	}
}

func TestLoadFailureBlocksOverwrite(t *testing.T) {
	cases := map[string]error{
		"corrupt, not moved aside": errors.Join(fmt.Errorf("%w: bad row", storage.ErrCorrupt), storage.ErrNotPreserved),
		"read error":               errors.New("permission denied"),
	}
	for name, loadErr := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &memRepo{tasks: fixture(t), loadErr: loadErr}
			m := newTestModel(t, repo)
			if !m.Status.IsError || !strings.Contains(m.Status.Text, "saving disabled") {
				t.Fatalf("expected blocked store status, got %+v", m.Status)
			}

			updated, _ := m.Update(runes("q"))
			if repo.saves != 0 || updated.(Model).QuitErr != nil {
				t.Fatalf("expected untouched store on plain quit, saves=%d err=%v", repo.saves, updated.(Model).QuitErr)
			}

			m = press(t, m, runes(":"), runes("add Buy milk"), enterKey)
			if repo.saves != 0 || !errors.Is(m.LastError, ErrStoreNotLoaded) {
				t.Fatalf("expected add to stay unsaved, saves=%d err=%v", repo.saves, m.LastError)
			}
			if len(m.Tasks) != 1 || m.Tasks[0].Description != "Buy milk" {
				t.Fatalf("expected task kept in memory, got %#v", m.Tasks)
			}
			updated, _ = m.Update(runes("q"))
			if repo.saves != 0 || !errors.Is(updated.(Model).QuitErr, ErrStoreNotLoaded) {
				t.Fatalf("expected quit to refuse the overwrite, saves=%d err=%v", repo.saves, updated.(Model).QuitErr)
			}
		})
	}
}

func TestBlockedStoreRecoversOnRefresh(t *testing.T) {
	repo := &memRepo{tasks: fixture(t), loadErr: errors.New("busy")}
	m := newTestModel(t, repo)
	repo.loadErr = nil

	m = press(t, m, runes("r"))
	if m.Status.IsError || len(m.Tasks) != 5 {
		t.Fatalf("expected reload to succeed, got %+v with %d tasks", m.Status, len(m.Tasks))
	}
	m = press(t, m, spaceKey)
	if repo.saves != 1 || m.Status.IsError {
		t.Fatalf("expected saving enabled again, saves=%d status=%+v", repo.saves, m.Status)
	}
}

func TestSQLiteCorruptStoreSurvivesQuit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	repo, err := storage.OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	if err := repo.Save(context.Background(), fixture(t)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`UPDATE tasks SET created_date = 'garbage' WHERE position = 2`); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	m := NewModel(Options{Repo: repo, Now: func() time.Time { return testNow }})
	if len(m.Tasks) != 0 || !strings.Contains(m.Status.Text, "empty list") {
		t.Fatalf("expected empty start after corrupt load, got %d tasks, status %+v", len(m.Tasks), m.Status)
	}
	updated, _ := m.Update(runes("q"))
	if err := updated.(Model).QuitErr; err != nil {
		t.Fatalf("quit: %v", err)
	}

	backup, err := sql.Open("sqlite3", path+".corrupt")
	if err != nil {
		t.Fatalf("open backup: %v", err)
	}
	defer backup.Close()
	var n int
	if err := backup.QueryRow(`SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		t.Fatalf("count backup rows: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected all 5 rows preserved in backup, got %d", n)
	}
}

func TestJSONCorruptStoreLeftInPlaceSurvivesQuit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	body := `[{"description": "x",`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := storage.NewJSONStore(path)
	if err := os.MkdirAll(filepath.Join(store.CorruptPath(), "keep"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m := NewModel(Options{Repo: store, Now: func() time.Time { return testNow }})
	m = press(t, m, runes("a"), runes("New task"), enterKey)
	updated, _ := m.Update(runes("q"))
	if !errors.Is(updated.(Model).QuitErr, ErrStoreNotLoaded) {
		t.Fatalf("expected quit to report the blocked store, got %v", updated.(Model).QuitErr)
	}
	raw, err := os.ReadFile(path)
	if err != nil || string(raw) != body {
		t.Fatalf("expected corrupt file untouched, got %q (err %v)", raw, err)
	}
}

func TestMoveSelection(t *testing.T) {
	m := newTestModel(t, &memRepo{tasks: fixture(t)})
	m = press(t, m, runes("j"), runes("j"))
	if selectedDescription(m) != "Renew passport" {
		t.Fatalf("expected third row, got %q", selectedDescription(m))
	}
	m = press(t, m, runes("j"), runes("j"), runes("j"))
	if selectedDescription(m) != "Read book" {
		t.Fatalf("expected selection clamped to last row, got %q", selectedDescription(m))
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if selectedDescription(m) != "Renew passport" {
		t.Fatalf("expected up arrow to move, got %q", selectedDescription(m))
	}
}

func TestAddTaskThroughForm(t *testing.T) {
	repo := &memRepo{}
	m := newTestModel(t, repo)

	m = press(t, m, runes("a"))
	if m.Mode != ModeForm {
		t.Fatalf("expected form mode, got %s", m.Mode)
	}
	m = press(t, m,
		runes("Buy milk"), tabKey,
		runes("20/02/26"), tabKey,
		runes("h"), tabKey,
		runes("semi-skimmed"),
		tea.KeyMsg{Type: tea.KeyCtrlS},
	)
	if m.Mode != ModeList {
		t.Fatalf("expected form closed, got %s (err %q)", m.Mode, m.form.Err)
	}
	if repo.saves != 1 || len(repo.tasks) != 1 {
		t.Fatalf("expected one save of one task, got saves=%d tasks=%d", repo.saves, len(repo.tasks))
	}
	got := repo.tasks[0]
	if got.Description != "Buy milk" || got.Priority != model.PriorityHigh || got.AdditionalInfo != "semi-skimmed" {
		t.Fatalf("unexpected task: %#v", got)
	}
	if model.FormatDueDate(got.DueDate) != "20/02/26" || model.FormatDate(got.CreatedDate) != "09/02/26" {
		t.Fatalf("unexpected dates: due=%s created=%s", model.FormatDueDate(got.DueDate), model.FormatDate(got.CreatedDate))
	}
	if m.SelectedTaskID != got.ID {
		t.Fatal("expected new task selected")
	}
}

func TestFormValidationKeepsFormOpen(t *testing.T) {
	repo := &memRepo{}
	m := newTestModel(t, repo)

	m = press(t, m, runes("a"), enterKey)
	if m.Mode != ModeForm || !strings.Contains(m.form.Err, "description") {
		t.Fatalf("expected empty description error, got mode=%s err=%q", m.Mode, m.form.Err)
	}

	m = press(t, m, runes("Call bank"), tabKey, runes("31/02/26"), enterKey)
	if m.Mode != ModeForm || !strings.Contains(m.form.Err, "invalid date") {
		t.Fatalf("expected invalid date error, got mode=%s err=%q", m.Mode, m.form.Err)
	}
	if m.form.Focus != fieldDue {
		t.Fatalf("expected focus on due field, got %d", m.form.Focus)
	}
	if repo.saves != 0 {
		t.Fatalf("expected no saves, got %d", repo.saves)
	}
	if !strings.Contains(m.View(), "invalid date") {
		t.Fatal("expected inline error in view")
	}

	m = press(t, m, escKey)
	if m.Mode != ModeList || len(m.Tasks) != 0 {
		t.Fatalf("expected cancelled form, got mode=%s tasks=%d", m.Mode, len(m.Tasks))
	}
}

func TestEditSelectedTask(t *testing.T) {
	repo := &memRepo{tasks: fixture(t)}
	m := newTestModel(t, repo)

	m = press(t, m, runes("e"))
	if m.Mode != ModeForm || m.form.Description.Value() != "Pay rent" || m.form.Due.Value() != "05/02/26" {
		t.Fatalf("expected prefilled form, got desc=%q due=%q", m.form.Description.Value(), m.form.Due.Value())
	}
	m = press(t, m, runes(" now"), tabKey)
	for range "05/02/26" {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m = press(t, m, enterKey)

	if m.Mode != ModeList {
		t.Fatalf("expected list mode, got %s (err %q)", m.Mode, m.form.Err)
	}
	idx := m.taskIndex(m.SelectedTaskID)
	if idx < 0 || m.Tasks[idx].Description != "Pay rent now" || m.Tasks[idx].DueDate != nil {
		t.Fatalf("unexpected edited task: %#v", m.Tasks[idx])
	}
	if repo.saves != 1 {
		t.Fatalf("expected one save, got %d", repo.saves)
	}
	if got := strings.Join(visibleDescriptions(m), ","); got != "Book dentist,Renew passport,Pay rent now,Read book" {
		t.Fatalf("expected re-sort after edit, got %s", got)
	}
}

func TestToggleCompleteHidesTaskAndSaves(t *testing.T) {
	repo := &memRepo{tasks: fixture(t)}
	m := newTestModel(t, repo)

	m = press(t, m, spaceKey)
	if repo.saves != 1 {
		t.Fatalf("expected save after toggle, got %d", repo.saves)
	}
	for _, task := range repo.tasks {
		if task.Description == "Pay rent" && !task.Completed {
			t.Fatal("expected Pay rent completed in store")
		}
	}
	if got := visibleDescriptions(m); len(got) != 3 || got[0] != "Book dentist" {
		t.Fatalf("expected completed task hidden, got %v", got)
	}
	if selectedDescription(m) != "Book dentist" {
		t.Fatalf("expected selection to move to next row, got %q", selectedDescription(m))
	}

	m = press(t, m, runes("c"))
	if got := visibleDescriptions(m); got[len(got)-1] != "Pay rent" && got[len(got)-1] != "Old chore" {
		t.Fatalf("expected completed tasks last, got %v", got)
	}
	if len(visibleDescriptions(m)) != 5 {
		t.Fatalf("expected all tasks visible, got %v", visibleDescriptions(m))
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	repo := &memRepo{tasks: fixture(t)}
	m := newTestModel(t, repo)

	m = press(t, m, runes("d"))
	if m.Mode != ModeConfirm || !strings.Contains(m.View(), `Delete task "Pay rent"? (y/n)`) {
		t.Fatalf("expected confirmation prompt, mode=%s", m.Mode)
	}
	m = press(t, m, runes("n"))
	if m.Mode != ModeList || len(m.Tasks) != 5 || repo.saves != 0 {
		t.Fatalf("expected delete cancelled, tasks=%d saves=%d", len(m.Tasks), repo.saves)
	}

	m = press(t, m, runes("d"), runes("y"))
	if len(m.Tasks) != 4 || repo.saves != 1 || len(repo.tasks) != 4 {
		t.Fatalf("expected task removed and saved, tasks=%d saves=%d", len(m.Tasks), repo.saves)
	}
	if selectedDescription(m) != "Book dentist" {
		t.Fatalf("expected selection on next row, got %q", selectedDescription(m))
	}
}

func TestSearchFiltersLive(t *testing.T) {
	m := newTestModel(t, &memRepo{tasks: fixture(t)})

	m = press(t, m, runes("/"), runes("BOOK"))
	if m.Mode != ModeSearch {
		t.Fatalf("expected search mode, got %s", m.Mode)
	}
	if got := strings.Join(visibleDescriptions(m), ","); got != "Book dentist,Read book" {
		t.Fatalf("unexpected search results: %s", got)
	}
	if selectedDescription(m) != "Book dentist" {
		t.Fatalf("expected selection inside results, got %q", selectedDescription(m))
	}

	m = press(t, m, enterKey)
	if m.Mode != ModeList || m.Query.Text != "BOOK" {
		t.Fatalf("expected filter kept, mode=%s query=%q", m.Mode, m.Query.Text)
	}

	m = press(t, m, escKey)
	if m.Query.Text != "" || len(visibleDescriptions(m)) != 4 {
		t.Fatalf("expected filter cleared, query=%q", m.Query.Text)
	}
}

func TestSearchWithoutMatchesSaysSo(t *testing.T) {
	m := newTestModel(t, &memRepo{tasks: fixture(t)})
	m = press(t, m, runes("/"), runes("zzz"), enterKey)
	if view := m.View(); !strings.Contains(view, "no matching tasks") {
		t.Fatalf("expected no-match hint in view:\n%s", view)
	}
}

func TestPaletteCommands(t *testing.T) {
	repo := &memRepo{tasks: fixture(t)}
	m := newTestModel(t, repo)

	m = press(t, m, runes(":"), runes("add call mum p:high due:10/02/26"), enterKey)
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	if len(m.Tasks) != 6 || selectedDescription(m) != "call mum" {
		t.Fatalf("expected new task selected, got %q", selectedDescription(m))
	}

	m = press(t, m, runes(":"), runes("priority low"), enterKey)
	m = press(t, m, runes(":"), runes("due none"), enterKey)
	task, _ := m.selectedTask()
	if task.Priority != model.PriorityLow || task.DueDate != nil {
		t.Fatalf("expected low priority without due date, got %#v", task)
	}

	m = press(t, m, runes(":"), runes("done"), enterKey)
	if m.visibleIndex(task.ID) >= 0 {
		t.Fatal("expected completed task hidden")
	}

	m = press(t, m, runes(":"), runes("show completed"), enterKey)
	if !m.Query.ShowCompleted || m.visibleIndex(task.ID) < 0 {
		t.Fatal("expected completed tasks shown")
	}

	m.SelectedTaskID = task.ID
	m = press(t, m, runes(":"), runes("reopen"), enterKey)
	idx := m.taskIndex(task.ID)
	if m.Tasks[idx].Completed {
		t.Fatal("expected task reopened")
	}
	if repo.saves != 5 {
		t.Fatalf("expected five saves, got %d", repo.saves)
	}

	m = press(t, m, runes(":"), runes("search dentist"), enterKey)
	if got := visibleDescriptions(m); len(got) != 1 || got[0] != "Book dentist" {
		t.Fatalf("unexpected search results: %v", got)
	}
	m = press(t, m, runes(":"), runes("clear"), enterKey)
	if m.Query.Text != "" {
		t.Fatalf("expected search cleared, got %q", m.Query.Text)
	}

	m = press(t, m, runes(":"), runes("delete"), enterKey)
	if m.Mode != ModeConfirm {
		t.Fatalf("expected delete confirmation, got %s", m.Mode)
	}
}

func TestPaletteErrors(t *testing.T) {
	m := newTestModel(t, &memRepo{tasks: fixture(t)})

	m = press(t, m, runes(":"), runes("fly away"), enterKey)
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unknown_command") {
		t.Fatalf("expected unknown command error, got %+v", m.Status)
	}
	if m.Mode != ModeList {
		t.Fatalf("expected palette closed, got %s", m.Mode)
	}

	m = press(t, m, runes(":"), runes("done"), enterKey, runes(":"), runes("c"), tea.KeyMsg{Type: tea.KeyBackspace}, runes("done"), enterKey)
	if m.Status.IsError {
		t.Fatalf("expected second done on new selection to work, got %+v", m.Status)
	}

	empty := newTestModel(t, &memRepo{})
	empty = press(t, empty, runes(":"), runes("done"), enterKey)
	if !empty.Status.IsError {
		t.Fatal("expected error without selection")
	}
	if !errors.Is(empty.LastError, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", empty.LastError)
	}
}

func TestSaveFailureBecomesStatus(t *testing.T) {
	repo := &memRepo{tasks: fixture(t), saveErr: errors.New("disk full")}
	m := newTestModel(t, repo)

	m = press(t, m, spaceKey)
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "save failed: disk full") {
		t.Fatalf("expected save failure status, got %+v", m.Status)
	}
	done := 0
	for _, task := range m.Tasks {
		if task.Completed {
			done++
		}
	}
	if done != 2 {
		t.Fatalf("expected in-memory toggle kept, got %d completed", done)
	}
}

func TestQuitSaves(t *testing.T) {
	repo := &memRepo{tasks: fixture(t)}
	m := newTestModel(t, repo)

	updated, cmd := m.Update(runes("q"))
	next := updated.(Model)
	if !next.Quitting || cmd == nil {
		t.Fatal("expected quit command")
	}
	if repo.saves != 1 || next.QuitErr != nil {
		t.Fatalf("expected final save, saves=%d err=%v", repo.saves, next.QuitErr)
	}
	if next.View() != "" {
		t.Fatal("expected empty view after quit")
	}

	failing := newTestModel(t, &memRepo{saveErr: errors.New("read-only")})
	updated, _ = failing.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if updated.(Model).QuitErr == nil {
		t.Fatal("expected quit error recorded")
	}
}

func TestCtrlCQuitsFromForm(t *testing.T) {
	m := newTestModel(t, &memRepo{})
	m = press(t, m, runes("a"), runes("q"))
	if m.Quitting || m.form.Description.Value() != "q" {
		t.Fatal("expected q typed into the form")
	}
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !updated.(Model).Quitting {
		t.Fatal("expected ctrl+c to quit")
	}
}

func TestExportKeyWritesIncompleteTasks(t *testing.T) {
	m := newTestModel(t, &memRepo{tasks: fixture(t)})
	m = press(t, m, runes("E"))
	if m.Status.IsError || !strings.Contains(m.Status.Text, "exported 4 task(s)") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	raw, err := os.ReadFile(m.exportFile)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 4 || !strings.HasPrefix(lines[0], "Pay rent ") || strings.Contains(string(raw), "Old chore") {
		t.Fatalf("unexpected export:\n%s", raw)
	}
}

func TestRefreshReloadsFromStore(t *testing.T) {
	repo := &memRepo{tasks: fixture(t)}
	m := newTestModel(t, repo)
	repo.tasks = repo.tasks[:1]

	m = press(t, m, runes("r"))
	if len(m.Tasks) != 1 || selectedDescription(m) != "Read book" {
		t.Fatalf("expected reloaded list, got %v", visibleDescriptions(m))
	}
}

func TestRefreshSavesPendingChangesFirst(t *testing.T) {
	repo := &memRepo{tasks: fixture(t), saveErr: errors.New("disk full")}
	m := newTestModel(t, repo)
	m = press(t, m, spaceKey)

	m = press(t, m, runes("r"))
	if !errors.Is(m.LastError, ErrUnsavedChanges) || completedCount(m) != 2 {
		t.Fatalf("expected refresh refused with toggle kept, err=%v completed=%d", m.LastError, completedCount(m))
	}

	repo.saveErr = nil
	m = press(t, m, runes("r"))
	if m.Status.IsError || completedCount(m) != 2 {
		t.Fatalf("expected toggle saved then reloaded, status=%+v completed=%d", m.Status, completedCount(m))
	}
	if repo.saves != 1 {
		t.Fatalf("expected one save, got %d", repo.saves)
	}
}

func TestViewLegendAndToggles(t *testing.T) {
	m := newTestModel(t, &memRepo{tasks: fixture(t)})
	out := m.View()
	for _, want := range []string{"Red: Overdue", "Orange: Due in 30 days", "Blue: Due in >30 days", "White: No due date", "1 overdue", "Pay rent | Incomplete | Due: 05/02/26 | Priority: High"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Green: Completed") {
		t.Fatal("green legend should be hidden while completed tasks are hidden")
	}

	m = press(t, m, runes("c"), runes("C"), enterKey)
	out = m.View()
	if !strings.Contains(out, "Green: Completed") {
		t.Fatal("expected green legend when completed tasks are shown")
	}
	if !m.DisableColors || !m.DetailsVisible {
		t.Fatalf("expected colors disabled and details shown, got %v %v", m.DisableColors, m.DetailsVisible)
	}
	if !strings.Contains(out, "Urgency: Overdue") || !strings.Contains(out, "No additional info") {
		t.Fatalf("expected details pane in view:\n%s", out)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := newTestModel(t, &memRepo{})
	m = press(t, m, SetStatusMsg{Text: "ready"})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("unexpected status: %+v", m.Status)
	}

	m = press(t, m, AppErrorMsg{Err: errors.New("boom")})
	if m.LastError == nil || !m.Status.IsError || m.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", m.Status)
	}

	m = press(t, m, ClearStatusMsg{})
	if m.Status.Text != "" || m.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", m.Status)
	}
}

func TestJSONStoreRoundTripThroughUI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	store := storage.NewJSONStore(path)
	opts := Options{Repo: store, DueSoonDays: 30, Now: func() time.Time { return testNow }}

	m := NewModel(opts)
	m = press(t, m, runes(":"), runes("add water plants p:low"), enterKey)
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}

	reopened := NewModel(opts)
	if len(reopened.Tasks) != 1 || reopened.Tasks[0].Description != "water plants" || reopened.Tasks[0].Priority != model.PriorityLow {
		t.Fatalf("unexpected reloaded tasks: %#v", reopened.Tasks)
	}
}
