// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/dkgtestbed/config"
	"github.com/toeirei/dkgtestbed/core"
	"github.com/toeirei/dkgtestbed/internal/credential"
	"github.com/toeirei/dkgtestbed/internal/i18n"
	"github.com/toeirei/dkgtestbed/internal/logging"
)

// Session is the part of core.Coordinator the interface drives.
type Session interface {
	Network() config.NetworkConfig
	State() core.State
	Initialize(secret string) error
	Publish(ctx context.Context, raw string) (core.PublishResult, error)
	Retrieve(ctx context.Context, ual string) (core.RetrieveResult, error)
}

type pane int

const (
	paneWallet pane = iota
	paneCreate
	paneGet
	paneCount
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

// Messages carrying operation results back into Update.
type (
	initDoneMsg    struct{ err error }
	publishDoneMsg struct {
		res core.PublishResult
		err error
	}
	retrieveDoneMsg struct {
		res core.RetrieveResult
		err error
	}
	copiedMsg struct {
		ual string
		err error
	}
)

// Model is the root bubbletea model. It routes keys to the focused pane and
// runs session operations as commands.
type Model struct {
	session Session
	ctx     context.Context
	copy    func(string) error

	focus  pane
	wallet walletPane
	create createPane
	get    getPane

	spinner  spinner.Model
	inflight int

	status     string
	statusKind statusKind

	width int
}

// Option customises a Model.
type Option func(*Model)

// WithClipboard replaces the clipboard writer.
func WithClipboard(fn func(string) error) Option { return func(m *Model) { m.copy = fn } }

// WithContext sets the context remote operations run under.
func WithContext(ctx context.Context) Option { return func(m *Model) { m.ctx = ctx } }

// WithClock sets the time used for the default asset's timestamp.
func WithClock(c core.Clock) Option {
	return func(m *Model) { m.create = newCreatePane(DefaultAsset(c.Now())) }
}

// New returns the root model for session.
func New(session Session, opts ...Option) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorHighlight)

	m := Model{
		session:    session,
		ctx:        context.Background(),
		copy:       clipboard.WriteAll,
		wallet:     newWalletPane(),
		create:     newCreatePane(DefaultAsset(time.Now())),
		get:        newGetPane(),
		spinner:    sp,
		status:     i18n.T("status.idle"),
		statusKind: statusInfo,
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		inner := max(msg.Width-8, 20)
		m.wallet.input.Width = inner - 4
		m.create.editor.SetWidth(inner)
		m.get.input.Width = inner - 4
		m.get.result.Width = inner
		return m, nil

	case spinner.TickMsg:
		if m.inflight == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case initDoneMsg:
		m.inflight--
		if msg.err != nil {
			m.setStatus(statusError, Describe(msg.err))
			m.wallet.address = ""
			return m, nil
		}
		m.wallet.input.SetValue("")
		m.wallet.address = m.session.State().Wallet.String()
		m.setStatus(statusSuccess, i18n.T("wallet.connected", map[string]any{"Address": m.wallet.address}))
		m.setFocus(paneCreate)
		return m, nil

	case publishDoneMsg:
		m.inflight--
		if msg.err != nil {
			m.setStatus(statusError, Describe(msg.err))
			return m, nil
		}
		m.get.input.SetValue(msg.res.UAL)
		m.setStatus(statusSuccess, i18n.T("create.success", map[string]any{"UAL": msg.res.UAL}))
		return m, nil

	case retrieveDoneMsg:
		m.inflight--
		if msg.err != nil {
			m.setStatus(statusError, Describe(msg.err))
			return m, nil
		}
		m.get.setResult(prettyJSON(msg.res.Assertion))
		m.setStatus(statusSuccess, i18n.T("get.success"))
		return m, nil

	case copiedMsg:
		switch {
		case msg.err != nil:
			m.setStatus(statusError, i18n.T("clipboard.failed", map[string]any{"Detail": msg.err.Error()}))
		case msg.ual == "":
			m.setStatus(statusInfo, i18n.T("clipboard.empty"))
		default:
			m.setStatus(statusSuccess, i18n.T("clipboard.copied"))
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.setFocus((m.focus + 1) % paneCount)
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus + paneCount - 1) % paneCount)
			return m, nil
		case "esc":
			m.setFocus(paneWallet)
			return m, nil
		case "ctrl+y":
			return m, m.copyUAL()
		}
		return m.updateFocused(msg)
	}
	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)
	var cmd tea.Cmd
	switch m.focus {
	case paneWallet:
		if isKey && key.Type == tea.KeyEnter {
			secret := m.wallet.input.Value()
			if !credential.Validate(secret) {
				m.setStatus(statusError, i18n.T("wallet.invalid"))
				return m, nil
			}
			return m, m.start(initializeCmd(m.session, secret))
		}
		m.wallet, cmd = m.wallet.update(msg)
	case paneCreate:
		if isKey && key.String() == "ctrl+s" {
			return m, m.start(publishCmd(m.ctx, m.session, m.create.editor.Value()))
		}
		m.create, cmd = m.create.update(msg)
	case paneGet:
		if isKey && key.Type == tea.KeyEnter {
			ual := strings.TrimSpace(m.get.input.Value())
			if ual == "" {
				m.setStatus(statusError, i18n.T("error.locator_required"))
				return m, nil
			}
			return m, m.start(retrieveCmd(m.ctx, m.session, ual))
		}
		m.get, cmd = m.get.update(msg)
	}
	return m, cmd
}

// start counts op as in flight and keeps the spinner running until its
// result arrives.
func (m *Model) start(op tea.Cmd) tea.Cmd {
	m.inflight++
	m.setStatus(statusInfo, i18n.T("status.busy"))
	return tea.Batch(m.spinner.Tick, op)
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func (m *Model) setFocus(p pane) {
	m.focus = p
	m.wallet.input.Blur()
	m.create.editor.Blur()
	m.get.input.Blur()
	switch p {
	case paneWallet:
		m.wallet.input.Focus()
	case paneCreate:
		m.create.editor.Focus()
	case paneGet:
		m.get.input.Focus()
	}
}

func (m Model) copyUAL() tea.Cmd {
	ual := m.session.State().LastUAL
	write := m.copy
	return func() tea.Msg {
		if ual == "" {
			return copiedMsg{}
		}
		return copiedMsg{ual: ual, err: write(ual)}
	}
}

func initializeCmd(s Session, secret string) tea.Cmd {
	return func() tea.Msg {
		return initDoneMsg{err: s.Initialize(secret)}
	}
}

func publishCmd(ctx context.Context, s Session, raw string) tea.Cmd {
	return func() tea.Msg {
		res, err := s.Publish(ctx, raw)
		return publishDoneMsg{res: res, err: err}
	}
}

func retrieveCmd(ctx context.Context, s Session, ual string) tea.Cmd {
	return func() tea.Msg {
		res, err := s.Retrieve(ctx, ual)
		return retrieveDoneMsg{res: res, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	net := m.session.Network()
	header := lipgloss.JoinVertical(lipgloss.Left,
		mainTitleStyle.Render(i18n.T("app.title")),
		helpStyle.Render(i18n.T("app.subtitle")),
		helpStyle.Render(i18n.T("app.network", map[string]any{"Network": net.Address(), "Chain": net.Blockchain.Name})),
	)

	tabs := make([]string, 0, paneCount)
	for p, id := range []string{"wallet.title", "create.title", "get.title"} {
		style := tabStyle
		if pane(p) == m.focus {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(i18n.T(id)))
	}

	width := 0
	if m.width > 0 {
		width = max(m.width-8, 20)
	}
	var body string
	switch m.focus {
	case paneWallet:
		body = m.wallet.view(true, width)
	case paneCreate:
		body = m.create.view(true, width, m.session.State().LastUAL)
	case paneGet:
		body = m.get.view(true, width)
	}

	status := m.status
	switch m.statusKind {
	case statusError:
		status = errorStyle.Render(status)
	case statusSuccess:
		status = successStyle.Render(status)
	default:
		status = statusMessageStyle.Render(status)
	}
	if m.inflight > 0 {
		status = m.spinner.View() + " " + status
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		body,
		status,
		helpStyle.Render(i18n.T("help.keys")),
	))
}

// Run starts the interface on the alternate screen and blocks until the user
// quits.
func Run(ctx context.Context, session Session, opts ...Option) error {
	opts = append([]Option{WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(session, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		logging.Errorf("TUI run error: %v", err)
		return err
	}
	return nil
}
