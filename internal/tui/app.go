package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/waabox/deploybot/internal/chat"
	"github.com/waabox/deploybot/internal/domain"
	"github.com/waabox/deploybot/internal/notify"
	"github.com/waabox/deploybot/internal/pipeline"
)

// viewState indicates the screen being shown.
type viewState int

const (
	viewDashboard viewState = iota
	viewNewDeployment
)

const separator = "────────────────────────────────────────────────────────────"

// Options wires the application model to its collaborators.
type Options struct {
	Controller      pipeline.Controller
	Chat            chat.Session
	NotificationTTL time.Duration
	// RepoRef pre-fills the repository input, e.g. with the origin of the
	// current checkout.
	RepoRef string
}

// AppModel is the root Bubbletea model for deploybot.
type AppModel struct {
	ctrl pipeline.Controller
	chat chat.Session
	bus  notify.Bus
	// Navigation
	view     viewState
	chatOpen bool
	// Dashboard
	list DeploymentListModel
	// New deployment
	repoInput   textinput.Model
	prefill     string
	panel       domain.ResultKind
	findings    FindingListModel
	resultCount int
	// General state
	chatInput textinput.Model
	spinner   spinner.Model
	st        styles
	width     int
	height    int
}

// NewAppModel creates the root application model showing the dashboard.
func NewAppModel(opts Options) AppModel {
	repo := newInput("Repository URL (e.g. https://github.com/acme/widget)", 512)
	repo.SetValue(opts.RepoRef)

	msg := newInput("Ask about your deployments...", 2000)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return AppModel{
		ctrl:      opts.Controller,
		chat:      opts.Chat,
		bus:       notify.NewBus(opts.NotificationTTL),
		list:      NewDeploymentListModel(opts.Controller.Deployments()),
		repoInput: repo,
		prefill:   opts.RepoRef,
		findings:  NewFindingListModel(nil),
		chatInput: msg,
		spinner:   sp,
		st:        defaultStyles(),
	}
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "❯ "
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 56
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// Init starts the loading spinner.
func (m AppModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles all incoming messages and key events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if w := msg.Width - 8; w > 20 {
			m.repoInput.Width = w
			m.chatInput.Width = w
		}

	case notify.PostMsg, notify.ExpiredMsg:
		m.bus, cmd = m.bus.Update(msg)
		return m, cmd

	case pipeline.ResetMsg:
		if msg.Generation == m.ctrl.Generation() {
			m.view = viewDashboard
			m.repoInput.SetValue("")
		}
		m.ctrl, cmd = m.ctrl.Update(msg)
		return m.syncPipeline(), cmd

	case pipeline.CallCompletedMsg, pipeline.AdvanceMsg:
		m.ctrl, cmd = m.ctrl.Update(msg)
		return m.syncPipeline(), cmd

	case chat.ReplyMsg:
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.chatOpen {
			return m.updateChat(msg)
		}
		if m.view == viewNewDeployment && m.repoInput.Focused() {
			return m.updateRepoInput(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "c":
			m.chatOpen = true
			m.chatInput.Focus()
			return m, nil
		case "x":
			m.bus = m.bus.DismissOldest()
			return m, nil
		case "d":
			m.view = viewDashboard
			return m, nil
		case "n":
			return m.openNewDeployment(), nil
		}
		switch m.view {
		case viewDashboard:
			return m.updateDashboard(msg)
		case viewNewDeployment:
			return m.updateNewDeployment(msg)
		}
	}
	return m, nil
}

// syncPipeline refreshes the views derived from the controller. When a new
// phase result arrives its panel is shown.
func (m AppModel) syncPipeline() AppModel {
	m.list = m.list.UpdateDeployments(m.ctrl.Deployments())
	results := m.ctrl.Results()
	if len(results) != m.resultCount {
		m.resultCount = len(results)
		if len(results) > 0 {
			m = m.showPanel(results[len(results)-1].Kind())
		}
	}
	return m
}

func (m AppModel) showPanel(kind domain.ResultKind) AppModel {
	m.panel = kind
	r, _ := m.ctrl.Result(kind)
	m.findings = NewFindingListModel(findingsFor(r))
	return m
}

// openNewDeployment discards the current run and focuses the repository input.
func (m AppModel) openNewDeployment() AppModel {
	m.ctrl = m.ctrl.Reset()
	m = m.syncPipeline()
	m.findings = NewFindingListModel(nil)
	m.view = viewNewDeployment
	if m.repoInput.Value() == "" {
		m.repoInput.SetValue(m.prefill)
	}
	m.repoInput.CursorEnd()
	m.repoInput.Focus()
	return m
}

func (m AppModel) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "down":
		m.list = m.list.MoveDown()
	case "up":
		m.list = m.list.MoveUp()
	case "enter":
		return m.openNewDeployment(), nil
	}
	return m, nil
}

func (m AppModel) updateRepoInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		var cmd tea.Cmd
		m.ctrl, cmd = m.ctrl.Start(m.repoInput.Value())
		if m.ctrl.Phase() != pipeline.PhaseIdle {
			m.repoInput.Blur()
		}
		return m, cmd
	case "esc":
		m.repoInput.Blur()
		if m.ctrl.Phase() == pipeline.PhaseIdle {
			m.view = viewDashboard
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.repoInput, cmd = m.repoInput.Update(msg)
	return m, cmd
}

func (m AppModel) updateNewDeployment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		var cmd tea.Cmd
		m.ctrl, cmd = m.ctrl.ApproveAndDeploy()
		return m, cmd
	case "i":
		if m.ctrl.Phase() == pipeline.PhaseIdle {
			m.repoInput.Focus()
		}
	case "r":
		m.ctrl = m.ctrl.Reset()
		m = m.syncPipeline()
		m.findings = NewFindingListModel(nil)
		m.repoInput.Focus()
	case "tab":
		m = m.cyclePanel()
	case "down":
		m.findings = m.findings.MoveDown()
	case "up":
		m.findings = m.findings.MoveUp()
	case "enter":
		m.findings = m.findings.Toggle()
	case "esc":
		m.view = viewDashboard
	}
	return m, nil
}

// cyclePanel moves to the next stored result.
func (m AppModel) cyclePanel() AppModel {
	for i := 1; i <= int(domain.NumResultKinds); i++ {
		kind := domain.ResultKind((int(m.panel) + i) % int(domain.NumResultKinds))
		if _, ok := m.ctrl.Result(kind); ok {
			return m.showPanel(kind)
		}
	}
	return m
}

func (m AppModel) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.chatOpen = false
		m.chatInput.Blur()
		return m, nil
	case "enter":
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Send(m.chatInput.Value())
		if cmd != nil {
			m.chatInput.SetValue("")
		}
		return m, cmd
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

// View renders the full TUI.
func (m AppModel) View() string {
	title := "Dashboard"
	if m.view == viewNewDeployment {
		title = "New Deployment"
	}
	header := m.st.header.Render(" deploybot") + " | " + title + "\n"
	sep := m.st.separator.Render(separator) + "\n"

	var body, footer string
	switch m.view {
	case viewNewDeployment:
		body, footer = m.renderNewDeployment()
	default:
		body, footer = m.renderDashboard()
	}
	if m.chatOpen {
		body, footer = m.renderChat(), " enter: send   esc: close chat   ctrl+c: quit"
	}
	return header + m.renderNotifications() + sep + body + "\n" + sep + m.st.footer.Render(footer) + "\n"
}

func (m AppModel) renderNotifications() string {
	var sb strings.Builder
	for _, n := range m.bus.Active() {
		style, ok := m.st.notes[string(n.Kind)]
		if !ok {
			style = m.st.muted
		}
		sb.WriteString(style.Render(fmt.Sprintf(" %s %s", noteIcon(n.Kind), n.Message)) + "\n")
	}
	return sb.String()
}

func noteIcon(k notify.Kind) string {
	switch k {
	case notify.KindSuccess:
		return "✓"
	case notify.KindError:
		return "✗"
	case notify.KindWarning:
		return "!"
	default:
		return "i"
	}
}

func (m AppModel) renderDashboard() (string, string) {
	stats := ComputeStats(m.list.Deployments())
	var sb strings.Builder
	sb.WriteString(stats.render(m.st) + "\n\n")
	sb.WriteString(m.st.title.Render(" Recent Deployments") + "\n")
	sb.WriteString(m.list.View())
	if d := m.list.SelectedDeployment(); d.URL != "" {
		sb.WriteString("\n " + m.st.muted.Render(d.URL) + "\n")
	}
	footer := " ↑/↓: navigate   n: new deployment   c: chat   x: dismiss   q: quit"
	return sb.String(), footer
}

var phaseOrder = []struct {
	phase pipeline.Phase
	label string
}{
	{pipeline.PhaseCode, "Code Analysis"},
	{pipeline.PhaseSecurity, "Security Scan"},
	{pipeline.PhaseInfrastructure, "Infrastructure"},
	{pipeline.PhaseReview, "Review & Deploy"},
}

var loadingLabels = map[pipeline.Loading]string{
	pipeline.LoadingCode:           "Analyzing code...",
	pipeline.LoadingSecurity:       "Scanning for vulnerabilities...",
	pipeline.LoadingInfrastructure: "Planning infrastructure...",
	pipeline.LoadingDeploy:         "Orchestrating deployment...",
}

func (m AppModel) renderNewDeployment() (string, string) {
	var sb strings.Builder
	sb.WriteString(m.st.inputPanel.Render(m.repoInput.View()) + "\n")
	sb.WriteString(m.renderPhaseTracker() + "\n")

	if label, ok := loadingLabels[m.ctrl.Loading()]; ok {
		sb.WriteString("\n " + m.spinner.View() + " " + label + "\n")
	}
	if m.resultCount > 0 {
		sb.WriteString("\n" + m.renderPanelTabs() + "\n")
		r, _ := m.ctrl.Result(m.panel)
		sb.WriteString(renderResult(r, m.findings))
	}
	if m.ctrl.CanDeploy() {
		sb.WriteString("\n " + m.st.phaseNow.Render("Ready for review. Press a to Approve & Deploy.") + "\n")
	}

	footer := " a: approve   tab: next result   ↑/↓: findings   enter: expand   r: reset   esc: dashboard   c: chat"
	if m.repoInput.Focused() {
		footer = " enter: start analysis   esc: back"
	}
	return sb.String(), footer
}

func (m AppModel) renderPhaseTracker() string {
	current := -1
	for i, p := range phaseOrder {
		if p.phase == m.ctrl.Phase() {
			current = i
		}
	}
	parts := make([]string, 0, len(phaseOrder))
	for i, p := range phaseOrder {
		switch {
		case i < current:
			parts = append(parts, m.st.phaseDone.Render("✓ "+p.label))
		case i == current:
			parts = append(parts, m.st.phaseNow.Render("● "+p.label))
		default:
			parts = append(parts, m.st.phaseNext.Render("○ "+p.label))
		}
	}
	return " " + strings.Join(parts, " → ")
}

func (m AppModel) renderPanelTabs() string {
	var tabs []string
	for k := domain.ResultKind(0); k < domain.NumResultKinds; k++ {
		if _, ok := m.ctrl.Result(k); !ok {
			continue
		}
		label := " " + k.String() + " "
		if k == m.panel {
			tabs = append(tabs, m.st.phaseNow.Render("["+label+"]"))
		} else {
			tabs = append(tabs, m.st.muted.Render(" "+label+" "))
		}
	}
	return " " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m AppModel) renderChat() string {
	var sb strings.Builder
	sb.WriteString(m.st.title.Render(" Deployment Assistant") + "\n")
	messages := m.chat.Messages()
	if len(messages) == 0 {
		sb.WriteString(m.st.muted.Render(" Ask me anything about your deployments") + "\n")
	}
	for _, msg := range messages {
		if msg.Role == chat.RoleUser {
			sb.WriteString(m.st.chatUser.Render(" you ") + msg.Content + "\n")
		} else {
			sb.WriteString(m.st.chatAgent.Render(" bot ") + msg.Content + "\n")
		}
	}
	if m.chat.Busy() {
		sb.WriteString(" " + m.spinner.View() + " thinking...\n")
	}
	return m.st.chatPanel.Render(sb.String()+"\n"+m.chatInput.View()) + "\n"
}

// Run starts the Bubbletea program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, m AppModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
