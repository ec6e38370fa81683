// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/dkgtestbed/client"
	"github.com/toeirei/dkgtestbed/config"
	"github.com/toeirei/dkgtestbed/core"
	"github.com/toeirei/dkgtestbed/internal/i18n"
)

const (
	keyOne     = "0000000000000000000000000000000000000000000000000000000000000001"
	addressOne = "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func newSession(t *testing.T) *core.Coordinator {
	t.Helper()
	net, err := config.Preset(config.PresetLocal)
	if err != nil {
		t.Fatalf("preset: %v", err)
	}
	return core.NewCoordinator(client.Factory{Provider: client.EchoProvider{}}, net)
}

func newModel(t *testing.T, opts ...Option) Model {
	t.Helper()
	if err := i18n.Init("en"); err != nil {
		t.Fatalf("i18n: %v", err)
	}
	return New(newSession(t), opts...)
}

func typeText(m Model, s string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

// drain executes cmd and feeds every resulting message except spinner ticks
// back into the model.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
		return m
	case spinner.TickMsg, nil:
		return m
	}
	next, next2 := m.Update(msg)
	return drain(t, next.(Model), next2)
}

func TestDefaultAssetIsPerson(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var doc map[string]any
	if err := json.Unmarshal([]byte(DefaultAsset(now)), &doc); err != nil {
		t.Fatalf("default asset is not JSON: %v", err)
	}
	if doc["@type"] != "Person" || doc["@context"] != "https://schema.org" {
		t.Fatalf("unexpected asset: %v", doc)
	}
	if doc["timestamp"] != "2026-01-02T03:04:05Z" {
		t.Fatalf("timestamp = %v", doc["timestamp"])
	}
}

func TestWalletRejectsMalformedKey(t *testing.T) {
	m := newModel(t)
	m = typeText(m, "nothex")
	if !strings.Contains(m.View(), i18n.T("wallet.invalid")) {
		t.Fatalf("expected live validation hint in view")
	}
	m, cmd := press(m, tea.KeyEnter)
	if cmd != nil {
		t.Fatalf("expected no command for malformed key")
	}
	if m.statusKind != statusError || m.status != i18n.T("wallet.invalid") {
		t.Fatalf("unexpected status %q", m.status)
	}
	if m.session.State().Initialized {
		t.Fatalf("session must stay uninitialized")
	}
}

func TestWalletShowsWarningAndFaucet(t *testing.T) {
	v := newModel(t).View()
	if !strings.Contains(v, i18n.T("wallet.security_warning")) {
		t.Fatalf("security warning missing")
	}
	if !strings.Contains(v, FaucetURL) {
		t.Fatalf("faucet link missing")
	}
}

func TestPublishThenRetrieveFlow(t *testing.T) {
	m := newModel(t, WithClock(fixedClock(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))))

	m = typeText(m, keyOne)
	m, cmd := press(m, tea.KeyEnter)
	if m.inflight != 1 {
		t.Fatalf("expected an operation in flight")
	}
	m = drain(t, m, cmd)
	if m.inflight != 0 {
		t.Fatalf("inflight = %d after init", m.inflight)
	}
	if m.wallet.address != addressOne {
		t.Fatalf("wallet address = %q", m.wallet.address)
	}
	if m.wallet.input.Value() != "" {
		t.Fatalf("secret must be cleared from the input after connecting")
	}
	if m.focus != paneCreate {
		t.Fatalf("expected focus to move to the create pane")
	}

	m, cmd = m.updateAndCast(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = drain(t, m, cmd)
	ual := m.session.State().LastUAL
	if !strings.HasPrefix(ual, "did:dkg:") {
		t.Fatalf("unexpected UAL %q (status %q)", ual, m.status)
	}
	if m.get.input.Value() != ual {
		t.Fatalf("UAL not auto-filled into the get pane: %q", m.get.input.Value())
	}

	m, _ = press(m, tea.KeyTab)
	if m.focus != paneGet {
		t.Fatalf("expected get pane focus, got %d", m.focus)
	}
	m, cmd = press(m, tea.KeyEnter)
	m = drain(t, m, cmd)
	if !m.get.hasResult {
		t.Fatalf("expected an assertion to be shown (status %q)", m.status)
	}
	if !strings.Contains(m.get.result.View(), "John Doe") {
		t.Fatalf("assertion view missing content: %q", m.get.result.View())
	}
}

func TestPublishWithoutWallet(t *testing.T) {
	m := newModel(t)
	m, _ = press(m, tea.KeyTab)
	m, cmd := m.updateAndCast(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = drain(t, m, cmd)
	if m.statusKind != statusError || m.status != i18n.T("error.NotInitialized") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestRetrieveRequiresLocator(t *testing.T) {
	m := newModel(t)
	m, _ = press(m, tea.KeyShiftTab)
	if m.focus != paneGet {
		t.Fatalf("shift+tab should wrap to the get pane")
	}
	m, cmd := press(m, tea.KeyEnter)
	if cmd != nil {
		t.Fatalf("expected no command for an empty locator")
	}
	if m.status != i18n.T("error.locator_required") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestCopyUAL(t *testing.T) {
	var copied []string
	m := newModel(t, WithClipboard(func(s string) error {
		copied = append(copied, s)
		return nil
	}))

	m, cmd := press(m, tea.KeyCtrlY)
	m = drain(t, m, cmd)
	if len(copied) != 0 || m.status != i18n.T("clipboard.empty") {
		t.Fatalf("expected nothing copied, got %v / %q", copied, m.status)
	}

	m = typeText(m, keyOne)
	m, cmd = press(m, tea.KeyEnter)
	m = drain(t, m, cmd)
	m, cmd = m.updateAndCast(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = drain(t, m, cmd)
	m, cmd = press(m, tea.KeyCtrlY)
	m = drain(t, m, cmd)
	if len(copied) != 1 || copied[0] != m.session.State().LastUAL {
		t.Fatalf("copied = %v", copied)
	}
	if m.status != i18n.T("clipboard.copied") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestCopyFailureIsReported(t *testing.T) {
	m := newModel(t, WithClipboard(func(string) error { return errors.New("no display") }))
	m = typeText(m, keyOne)
	m, cmd := press(m, tea.KeyEnter)
	m = drain(t, m, cmd)
	m, cmd = m.updateAndCast(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = drain(t, m, cmd)
	m, cmd = press(m, tea.KeyCtrlY)
	m = drain(t, m, cmd)
	if m.statusKind != statusError || !strings.Contains(m.status, "no display") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestSpinnerStopsWhenIdle(t *testing.T) {
	m := newModel(t)
	next, cmd := m.Update(m.spinner.Tick())
	if cmd != nil {
		t.Fatalf("idle model must not keep ticking")
	}
	_ = next
}

func TestDescribe(t *testing.T) {
	if err := i18n.Init("en"); err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		err  error
		want string
	}{
		{&core.Error{Kind: core.KindNotInitialized, Op: core.OpPublish}, i18n.T("error.NotInitialized")},
		{&core.Error{Kind: core.KindBusy, Op: core.OpRetrieve}, i18n.T("error.Busy")},
		{&core.Error{Kind: core.KindEmptyResult, Op: core.OpPublish}, "Asset creation did not return a UAL."},
		{&core.Error{Kind: core.KindRemoteOperation, Op: core.OpRetrieve, Message: "failed to get asset: boom", Cause: errors.New("boom")}, "Failed to get asset: boom"},
		{&core.Error{Kind: core.KindConfiguration, Op: core.OpInitialize, Cause: errors.New("bad")}, "Failed to initialize DKG: bad"},
		{&core.Error{Kind: core.KindInvalidInput, Op: core.OpPublish, Message: "content must be a JSON object, got an array"}, "Invalid input: content must be a JSON object, got an array"},
		{errors.New("plain"), "plain"},
	}
	for _, c := range cases {
		if got := Describe(c.err); got != c.want {
			t.Fatalf("Describe(%v) = %q, want %q", c.err, got, c.want)
		}
	}
	if Describe(nil) != "" {
		t.Fatalf("Describe(nil) should be empty")
	}
}

func (m Model) updateAndCast(msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}
