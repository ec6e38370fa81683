// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/dkgtestbed/internal/credential"
	"github.com/toeirei/dkgtestbed/internal/i18n"
)

// FaucetURL is where testnet tokens can be requested.
const FaucetURL = "https://faucet.neuroweb.ai/"

// walletPane collects the private key. The input is masked; the value is
// dropped once a handle has been built from it.
type walletPane struct {
	input   textinput.Model
	address string
}

func newWalletPane() walletPane {
	ti := textinput.New()
	ti.Placeholder = i18n.T("wallet.placeholder")
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 66
	ti.Prompt = "> "
	ti.Focus()
	return walletPane{input: ti}
}

func (p walletPane) update(msg tea.Msg) (walletPane, tea.Cmd) {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p walletPane) view(focused bool, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.T("wallet.title")) + "\n\n")
	b.WriteString(i18n.T("wallet.prompt") + "\n")
	b.WriteString(p.input.View() + "\n")

	if v := p.input.Value(); v != "" {
		if credential.Validate(v) {
			b.WriteString(successStyle.Render(i18n.T("wallet.valid")))
		} else {
			b.WriteString(errorStyle.Render(i18n.T("wallet.invalid")))
		}
		b.WriteString("\n")
	}
	if p.address != "" {
		b.WriteString(successStyle.Render(i18n.T("wallet.connected", map[string]any{"Address": p.address})) + "\n")
	}
	b.WriteString("\n" + specialStyle.Render(i18n.T("wallet.security_warning")) + "\n")
	b.WriteString(helpStyle.Render(i18n.T("wallet.faucet", map[string]any{"URL": FaucetURL})))
	return paneFrame(focused, width).Render(b.String())
}

// createPane holds the JSON document to publish.
type createPane struct {
	editor textarea.Model
}

func newCreatePane(initial string) createPane {
	ta := textarea.New()
	ta.SetValue(initial)
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(10)
	return createPane{editor: ta}
}

func (p createPane) update(msg tea.Msg) (createPane, tea.Cmd) {
	var cmd tea.Cmd
	p.editor, cmd = p.editor.Update(msg)
	return p, cmd
}

func (p createPane) view(focused bool, width int, lastUAL string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.T("create.title")) + "\n")
	b.WriteString(helpStyle.Render(i18n.T("create.hint")) + "\n\n")
	b.WriteString(p.editor.View())
	if lastUAL != "" {
		b.WriteString("\n\n" + successStyle.Render(i18n.T("create.success", map[string]any{"UAL": lastUAL})))
	}
	return paneFrame(focused, width).Render(b.String())
}

// getPane takes a UAL and shows the retrieved assertion.
type getPane struct {
	input     textinput.Model
	result    viewport.Model
	hasResult bool
}

func newGetPane() getPane {
	ti := textinput.New()
	ti.Placeholder = i18n.T("get.placeholder")
	ti.Prompt = "> "
	ti.CharLimit = 256
	return getPane{input: ti, result: viewport.New(60, 10)}
}

func (p getPane) update(msg tea.Msg) (getPane, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	cmds = append(cmds, cmd)
	if p.hasResult {
		p.result, cmd = p.result.Update(msg)
		cmds = append(cmds, cmd)
	}
	return p, tea.Batch(cmds...)
}

func (p *getPane) setResult(content string) {
	p.result.SetContent(codeStyle.Render(content))
	p.result.GotoTop()
	p.hasResult = true
}

func (p getPane) view(focused bool, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.T("get.title")) + "\n")
	b.WriteString(helpStyle.Render(i18n.T("get.hint")) + "\n\n")
	b.WriteString(p.input.View())
	if p.hasResult {
		b.WriteString("\n\n" + successStyle.Render(i18n.T("get.success")) + "\n")
		b.WriteString(p.result.View())
	}
	return paneFrame(focused, width).Render(b.String())
}

func paneFrame(focused bool, width int) lipgloss.Style {
	s := paneStyle
	if focused {
		s = activePaneStyle
	}
	if width > 0 {
		s = s.Width(width)
	}
	return s
}
