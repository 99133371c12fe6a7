// Package chat provides the question and answer view for one tenant.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driving/tui/components/input"
	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driving/tui/components/list"
	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driving/tui/components/status"
	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driving/tui/keymap"
	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driving/tui/messages"
	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driving/tui/styles"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driving"
)

// noLLMNote is shown when only retrieval is available.
const noLLMNote = "No LLM configured. Showing the retrieved context instead."

// turn is one question with its answer.
type turn struct {
	question string
	answer   string
	context  []string
	err      error
	pending  bool
}

// View is the chat transcript, context panel, prompt and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	prompt    *input.Prompt
	matches   *list.MatchList
	statusbar *status.Bar
	viewport  viewport.Model

	tenant    domain.TenantID
	assistant driving.AssistantService
	refresh   driving.RefreshService
	ctx       context.Context

	turns       []turn
	showMatches bool
	width       int
	height      int
	ready       bool
}

// NewView creates a chat view for tenant. refresh may be nil.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	tenant domain.TenantID,
	assistant driving.AssistantService,
	refresh driving.RefreshService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		prompt:    input.NewPrompt(s, tenant.String()),
		matches:   list.NewMatchList(s),
		statusbar: status.NewBar(s, km),
		viewport:  viewport.New(80, 16),
		tenant:    tenant,
		assistant: assistant,
		refresh:   refresh,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.prompt.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.RefreshAcked:
		if msg.Err != nil {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
		} else {
			v.statusbar.SetMessage("rebuild " + string(msg.Ack))
		}
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.statusbar, cmd = v.statusbar.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.showMatches {
		if key.Matches(msg, v.keymap.Back) || key.Matches(msg, v.keymap.Matches) {
			v.closeMatches()
			return v, nil
		}
		v.matches, _ = v.matches.Update(msg)
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keymap.Matches):
		if v.matches.Count() > 0 {
			v.showMatches = true
			v.prompt.Blur()
			v.statusbar.SetState(status.StateMatches)
		}
		return v, nil

	case key.Matches(msg, v.keymap.Refresh):
		return v, v.requestRefresh()

	case key.Matches(msg, v.keymap.PageUp), key.Matches(msg, v.keymap.PageDown):
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd

	case key.Matches(msg, v.keymap.Send):
		return v, v.submit()
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) closeMatches() {
	v.showMatches = false
	v.prompt.Focus()
	v.statusbar.SetState(status.StateReady)
}

// submit sends the prompt's question unless one is already in flight.
func (v *View) submit() tea.Cmd {
	question := v.prompt.Value()
	if question == "" || v.Pending() {
		return nil
	}

	v.turns = append(v.turns, turn{question: question, pending: true})
	v.prompt.Reset()
	v.statusbar.SetMessage("")
	v.refreshTranscript()

	return tea.Batch(v.statusbar.SetState(status.StateThinking), v.ask(question))
}

func (v *View) ask(question string) tea.Cmd {
	return func() tea.Msg {
		if v.assistant == nil {
			return messages.AnswerReceived{Question: question, Err: ErrNoAssistant}
		}
		answer, err := v.assistant.Ask(v.ctx, v.tenant, question)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

func (v *View) requestRefresh() tea.Cmd {
	tenant := v.tenant
	return func() tea.Msg {
		if v.refresh == nil {
			return messages.RefreshAcked{Tenant: tenant, Err: ErrNoRefresh}
		}
		ack, err := v.refresh.Trigger(tenant, domain.ReasonManual)
		return messages.RefreshAcked{Tenant: tenant, Ack: ack, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	if len(v.turns) == 0 {
		return
	}
	t := &v.turns[len(v.turns)-1]
	t.pending = false

	if msg.Answer != nil {
		t.answer = msg.Answer.Text
		t.context = msg.Answer.Context
		v.matches.SetMatches(msg.Answer.Matches)
		v.statusbar.SetMatchCount(len(msg.Answer.Matches))
	}

	switch {
	case errors.Is(msg.Err, domain.ErrLLMUnavailable):
		t.answer = noLLMNote
		v.statusbar.SetState(status.StateReady)
	case msg.Err != nil:
		t.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	default:
		v.statusbar.SetState(status.StateReady)
	}

	v.refreshTranscript()
}

// refreshTranscript re-renders the turns into the viewport and scrolls
// to the newest one.
func (v *View) refreshTranscript() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript() string {
	if len(v.turns) == 0 {
		return v.styles.Muted.Render("Ask a question about " + v.tenant.String() + ".")
	}

	wrap := lipgloss.NewStyle().Width(max(v.width-4, 20))
	blocks := make([]string, 0, len(v.turns))
	for _, t := range v.turns {
		var b strings.Builder
		b.WriteString(v.styles.Question.Render("you: " + t.question))
		b.WriteString("\n")
		switch {
		case t.pending:
			b.WriteString(v.styles.Muted.Render("  ..."))
		case t.err != nil:
			b.WriteString(v.styles.Error.Render("  " + t.err.Error()))
		default:
			b.WriteString(v.styles.Answer.Render(wrap.Render(t.answer)))
			if t.answer == noLLMNote {
				for _, c := range t.context {
					b.WriteString("\n")
					b.WriteString(v.styles.Muted.Render(wrap.Render("  - " + c)))
				}
			}
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	header := v.styles.Title.Render("loom") + v.styles.Muted.Render("  "+v.tenant.String())

	body := v.viewport.View()
	if v.showMatches {
		body = v.matches.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		"",
		v.prompt.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Header, spacers, bordered prompt and status bar take eight lines.
	bodyHeight := max(height-8, 3)
	v.viewport.Width = width
	v.viewport.Height = bodyHeight
	v.matches.SetDimensions(width, bodyHeight)
	v.prompt.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.refreshTranscript()
}

// Tenant returns the tenant the chat is bound to.
func (v *View) Tenant() domain.TenantID {
	return v.tenant
}

// Pending reports whether a question awaits its answer.
func (v *View) Pending() bool {
	return len(v.turns) > 0 && v.turns[len(v.turns)-1].pending
}

// Turns returns the number of questions asked.
func (v *View) Turns() int {
	return len(v.turns)
}

// LastAnswer returns the text of the newest answer.
func (v *View) LastAnswer() string {
	if len(v.turns) == 0 {
		return ""
	}
	return v.turns[len(v.turns)-1].answer
}

// ShowingMatches reports whether the context panel is open.
func (v *View) ShowingMatches() bool {
	return v.showMatches
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// StatusMessage returns the status bar message.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
