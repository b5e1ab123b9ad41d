package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/logging"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/storage"
)

type Mode string

const (
	ModeList    Mode = "list"
	ModeForm    Mode = "form"
	ModeConfirm Mode = "confirm"
	ModeSearch  Mode = "search"
	ModePalette Mode = "palette"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type formField int

const (
	fieldDescription formField = iota
	fieldDue
	fieldPriority
	fieldInfo
	fieldCount
)

type formState struct {
	// EditingID is empty while adding a new task.
	EditingID   string
	Focus       formField
	Description textinput.Model
	Due         textinput.Model
	Priority    model.Priority
	Info        textarea.Model
	Err         string
}

type Options struct {
	Repo          storage.Repository
	Logger        *log.Logger
	ExportFile    string
	ExportFormat  string
	DueSoonDays   int
	ShowCompleted bool
	DisableColors bool
	Context       context.Context
	Now           func() time.Time
}

type Model struct {
	Tasks          []model.Task
	SelectedTaskID string
	Mode           Mode
	Query          model.Query
	DisableColors  bool
	DetailsVisible bool
	HelpVisible    bool
	Status         StatusBar
	Keys           KeyMap
	Quitting       bool
	LastError      error
	QuitErr        error

	form           formState
	deleteTargetID string
	searchInput    textinput.Model
	commandInput   textinput.Model
	helpModel      help.Model
	width          int

	repo         storage.Repository
	logger       *log.Logger
	ctx          context.Context
	now          func() time.Time
	exportFile   string
	exportFormat string
	window       int

	// dirty is set by a mutation and cleared by a successful save or load.
	dirty        bool
	// storeBlocked forbids writing over a store whose contents were not
	// loaded and were not moved aside.
	storeBlocked bool
}

// NewModel builds the UI state and loads the task list from opts.Repo. A load
// failure is reported on the status line and the list starts empty.
func NewModel(opts Options) Model {
	m := Model{
		Mode:          ModeList,
		Query:         model.Query{ShowCompleted: opts.ShowCompleted},
		DisableColors: opts.DisableColors,
		Keys:          DefaultKeyMap(),
		repo:          opts.Repo,
		logger:        opts.Logger,
		ctx:           opts.Context,
		now:           opts.Now,
		exportFile:    opts.ExportFile,
		exportFormat:  opts.ExportFormat,
		window:        opts.DueSoonDays,
		width:         120,
	}
	if m.logger == nil {
		m.logger = logging.Discard()
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.window <= 0 {
		m.window = model.DefaultDueSoonDays
	}
	if m.exportFile == "" {
		m.exportFile = "tasks_export.txt"
	}
	m.initBubbleComponents()

	if err := m.reload(); err != nil {
		m.setError(err)
	} else {
		m.Status = StatusBar{Text: "tasks loaded"}
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.searchInput = textinput.New()
	m.searchInput.Prompt = "/"
	m.searchInput.CharLimit = 256
	m.searchInput.Width = 48

	m.commandInput = textinput.New()
	m.commandInput.Prompt = ":"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.form = newFormState()

	m.helpModel = help.New()
}

func newFormState() formState {
	desc := textinput.New()
	desc.Placeholder = "What needs doing?"
	desc.CharLimit = 256
	desc.Width = 36

	due := textinput.New()
	due.Placeholder = "DD/MM/YY (optional)"
	due.CharLimit = 8
	due.Width = 12

	info := textarea.New()
	info.Placeholder = "Additional info (markdown)"
	info.ShowLineNumbers = false
	info.SetWidth(40)
	info.SetHeight(5)

	return formState{
		Description: desc,
		Due:         due,
		Priority:    model.PriorityNormal,
		Info:        info,
	}
}
