package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/tasklist/internal/views"
)

type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	Add           key.Binding
	Edit          key.Binding
	Details       key.Binding
	Toggle        key.Binding
	Delete        key.Binding
	Search        key.Binding
	Palette       key.Binding
	ShowCompleted key.Binding
	Colors        key.Binding
	Export        key.Binding
	Refresh       key.Binding
	Help          key.Binding
	Quit          key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:            key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:          key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Add:           key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:          key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Details:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Toggle:        key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space/x", "toggle done")),
		Delete:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Search:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Palette:       key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		ShowCompleted: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "show completed")),
		Colors:        key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "colors")),
		Export:        key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export")),
		Refresh:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Toggle, k.Delete, k.Search, k.Palette, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Details},
		{k.Add, k.Edit, k.Toggle, k.Delete},
		{k.Search, k.Palette, k.Export, k.Refresh},
		{k.ShowCompleted, k.Colors, k.Help, k.Quit},
	}
}

type KeyBinding struct {
	Key    string
	Action string
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	var plain []string
	for _, kb := range m.modeBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.FullHelpView(m.Keys.FullHelp()),
	})
}

// modeBindings lists the keys that only apply in the current mode.
func (m Model) modeBindings() []KeyBinding {
	switch m.Mode {
	case ModeForm:
		return []KeyBinding{
			{Key: "tab/shift+tab", Action: "next/previous field"},
			{Key: "ctrl+p", Action: "cycle priority"},
			{Key: "enter", Action: "save (newline in info)"},
			{Key: "ctrl+s", Action: "save from any field"},
			{Key: "esc", Action: "cancel"},
		}
	case ModeConfirm:
		return []KeyBinding{
			{Key: "y", Action: "delete the task"},
			{Key: "n/esc", Action: "keep the task"},
		}
	case ModeSearch:
		return []KeyBinding{
			{Key: "enter", Action: "keep filter"},
			{Key: "esc", Action: "clear filter"},
		}
	case ModePalette:
		return []KeyBinding{
			{Key: "add <text> due:DD/MM/YY p:high", Action: "add a task"},
			{Key: "search <text> / clear", Action: "filter the list"},
			{Key: "done / reopen / delete", Action: "act on the selection"},
			{Key: "due <DD/MM/YY|none>", Action: "reschedule the selection"},
			{Key: "priority <level>", Action: "reprioritize the selection"},
			{Key: "export [path]", Action: "export incomplete tasks"},
			{Key: "show completed|active", Action: "toggle completed tasks"},
		}
	default:
		return []KeyBinding{
			{Key: "esc", Action: "clear search filter"},
		}
	}
}
