package chat

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ppiankov/chatnow/internal/answer"
	"github.com/ppiankov/chatnow/internal/render"
	"github.com/ppiankov/chatnow/internal/result"
	"go.uber.org/zap"
)

// Answerer produces the reply for one message.
type Answerer interface {
	GenerateAnswer(ctx context.Context, message string) (string, error)
}

// ExportFunc writes a reply and returns where it went.
type ExportFunc func(r *result.Reply) (string, error)

// Options configures a Model.
type Options struct {
	// Context bounds in-flight requests; cancelling it is the only abort path.
	Context  context.Context
	Answerer Answerer
	Logger   *zap.Logger

	ModelName string
	Backend   string

	// Export is called for ctrl+s; nil disables exporting.
	Export ExportFunc

	MaxInputHeight int
	Hyperlinks     bool
}

// Model is the bubbletea model for the chat panel.
type Model struct {
	ctx        context.Context
	answerer   Answerer
	logger     *zap.Logger
	modelName  string
	backend    string
	export     ExportFunc
	hyperlinks bool
	maxInput   int

	panel   Panel
	input   textarea.Model
	reply   viewport.Model
	spinner spinner.Model
	keys    keyMap

	// Metadata of the request that produced panel.LastReply, for export.
	lastID      string
	lastMessage string
	lastElapsed time.Duration

	exportPath string
	exportErr  error

	width    int
	height   int
	quitting bool
}

// answerMsg delivers the outcome of one CallAnswer effect.
type answerMsg struct {
	id      string
	message string
	reply   string
	err     error
	elapsed time.Duration
}

type exportDoneMsg struct {
	path string
	err  error
}

const (
	defaultMaxInputHeight = 8
	// Header, reply border, status, input border and help.
	chromeLines = 8
)

// NewModel creates a chat model with an empty draft and no reply.
func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxInput := opts.MaxInputHeight
	if maxInput <= 0 {
		maxInput = defaultMaxInputHeight
	}

	in := textarea.New()
	in.Placeholder = "Type a message..."
	in.Prompt = "> "
	in.ShowLineNumbers = false
	in.CharLimit = 0
	// Content is unbounded; only the visible height is capped.
	in.MaxHeight = 0
	in.SetHeight(1)
	in.SetWidth(60)
	// Enter is owned by the panel; newlines come from alt+enter / ctrl+j.
	in.KeyMap.InsertNewline.SetEnabled(false)
	in.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		ctx:        ctx,
		answerer:   opts.Answerer,
		logger:     logger,
		modelName:  opts.ModelName,
		backend:    opts.Backend,
		export:     opts.Export,
		hyperlinks: opts.Hyperlinks,
		maxInput:   maxInput,
		panel:      NewPanel(),
		input:      in,
		reply:      viewport.New(64, 10),
		spinner:    s,
		keys:       defaultKeyMap(),
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case answerMsg:
		return m.handleAnswer(msg)

	case exportDoneMsg:
		m.exportPath = msg.path
		m.exportErr = msg.err
		if msg.err != nil {
			m.logger.Warn("export failed", zap.Error(msg.err))
		} else {
			m.logger.Info("reply exported", zap.String("path", msg.path))
		}
		return m, nil

	case spinner.TickMsg:
		// Let the spinner stop ticking once the request settles.
		if !m.panel.InFlight() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Export):
		cmd := m.exportCmd()
		return m, cmd
	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.reply, cmd = m.reply.Update(msg)
		return m, cmd
	}

	name, shift := keyPress(msg)
	next, effects, handled := m.panel.KeyPress(name, shift)
	if handled {
		m.panel = next
		cmd := m.apply(effects)
		return m, cmd
	}
	if name == ConfirmKey {
		m.input.InsertString("\n")
		cmd := m.draftChanged()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	changed := m.draftChanged()
	return m, tea.Batch(cmd, changed)
}

func (m Model) handleAnswer(msg answerMsg) (tea.Model, tea.Cmd) {
	var effects []Effect
	if msg.err != nil {
		m.panel, effects = m.panel.AnswerFailed(msg.id, msg.err)
		cmd := m.apply(effects)
		return m, cmd
	}

	if msg.id == m.panel.PendingID() {
		m.lastID = msg.id
		m.lastMessage = msg.message
		m.lastElapsed = msg.elapsed
		m.exportPath, m.exportErr = "", nil
		m.logger.Info("reply received",
			zap.String("request_id", msg.id),
			zap.Duration("elapsed", msg.elapsed),
			zap.Int("chars", utf8.RuneCountInString(msg.reply)))
	}
	m.panel, effects = m.panel.AnswerSucceeded(msg.id, msg.reply)
	m.syncInput()
	cmd := m.apply(effects)
	return m, cmd
}

// apply runs transition effects against the widgets.
func (m *Model) apply(effects []Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case CallAnswer:
			m.logger.Debug("sending message",
				zap.String("request_id", e.ID),
				zap.Int("chars", utf8.RuneCountInString(e.Message)))
			cmds = append(cmds, m.spinner.Tick, m.callAnswer(e))
		case ScrollToBottom:
			m.refreshReply()
			m.reply.GotoBottom()
		case ResizeInput:
			m.resizeInput()
		case ReportError:
			m.logger.Warn("answer request failed",
				zap.String("request_id", e.ID),
				zap.String("kind", answer.Kind(e.Err)),
				zap.Error(e.Err))
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) callAnswer(call CallAnswer) tea.Cmd {
	ctx, answerer := m.ctx, m.answerer
	return func() tea.Msg {
		start := time.Now()
		if answerer == nil {
			return answerMsg{id: call.ID, message: call.Message, err: answer.ErrMissingAPIKey}
		}
		reply, err := answerer.GenerateAnswer(ctx, call.Message)
		return answerMsg{
			id:      call.ID,
			message: call.Message,
			reply:   reply,
			err:     err,
			elapsed: time.Since(start),
		}
	}
}

func (m Model) exportCmd() tea.Cmd {
	if m.export == nil || m.panel.LastReply == "" {
		return nil
	}
	r := result.NewReply(m.lastID, m.lastMessage, m.panel.LastReply, m.modelName, m.backend, m.lastElapsed, time.Now())
	export := m.export
	return func() tea.Msg {
		path, err := export(r)
		return exportDoneMsg{path: path, err: err}
	}
}

// draftChanged feeds the textarea value back into the panel.
func (m *Model) draftChanged() tea.Cmd {
	if m.input.Value() == m.panel.Draft {
		return nil
	}
	var effects []Effect
	m.panel, effects = m.panel.DraftChanged(m.input.Value())
	return m.apply(effects)
}

func (m *Model) syncInput() {
	if m.input.Value() != m.panel.Draft {
		m.input.SetValue(m.panel.Draft)
	}
}

func (m *Model) resizeInput() {
	h := clamp(m.input.LineCount(), 1, m.maxInput)
	if h != m.input.Height() {
		m.input.SetHeight(h)
		m.layout()
	}
}

func (m *Model) layout() {
	if m.width == 0 {
		return
	}
	inner := max(m.width-4, 10)
	m.input.SetWidth(max(inner-4, 5))
	m.reply.Width = inner
	m.reply.Height = max(m.height-m.input.Height()-chromeLines, 3)
	m.refreshReply()
}

// refreshReply re-renders LastReply into the viewport.
func (m *Model) refreshReply() {
	segs := render.Render(m.panel.LastReply)
	m.reply.SetContent(render.Terminal(segs, render.TerminalOptions{
		Width:      m.reply.Width,
		Hyperlinks: m.hyperlinks,
	}))
}

// keyPress maps a terminal key to the panel's key model. Terminals cannot
// report shift+enter, so alt+enter and ctrl+j stand in for it.
func keyPress(msg tea.KeyMsg) (name string, shift bool) {
	switch msg.String() {
	case "enter":
		return ConfirmKey, false
	case "alt+enter", "ctrl+j":
		return ConfirmKey, true
	}
	return msg.String(), false
}

// Panel returns the current chat state.
func (m Model) Panel() Panel {
	return m.panel
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
