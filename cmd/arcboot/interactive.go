package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/arcboot/arena"
	"github.com/wippyai/arcboot/config"
	"github.com/wippyai/arcboot/firmware"
	"github.com/wippyai/arcboot/interp"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	digestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	consoleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	resetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const logLines = 3

type modelState int

const (
	stateLoading modelState = iota
	stateRunning
	stateDone
)

// consoleHost feeds key presses from the TUI to a running engine and sends
// everything the engine prints back to the TUI.
type consoleHost struct {
	send  func(tea.Msg)
	keys  chan interp.InputKey
	mu    sync.Mutex
	reset *firmware.ResetRequest
}

var _ interp.Services = (*consoleHost)(nil)

func newConsoleHost() *consoleHost {
	return &consoleHost{keys: make(chan interp.InputKey, 64)}
}

func (h *consoleHost) OutputString(text []uint16) {
	h.send(outputMsg(interp.DecodeUTF16(text)))
}

func (h *consoleHost) ResetInput() interp.Status {
	for {
		select {
		case <-h.keys:
		default:
			return interp.StatusSuccess
		}
	}
}

func (h *consoleHost) ReadKeyStroke() (interp.InputKey, interp.Status) {
	timer := time.NewTimer(firmware.PollInterval)
	defer timer.Stop()
	select {
	case k := <-h.keys:
		return k, interp.StatusSuccess
	case <-timer.C:
		return interp.InputKey{}, interp.StatusNotReady
	}
}

func (h *consoleHost) ResetSystem(kind interp.ResetType, status interp.Status, data []byte) {
	req := firmware.ResetRequest{Kind: kind, Status: status, Data: append([]byte(nil), data...)}
	h.mu.Lock()
	h.reset = &req
	h.mu.Unlock()
}

func (h *consoleHost) takeReset() *firmware.ResetRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	r := h.reset
	h.reset = nil
	return r
}

// press queues k for the engine, dropping it when the engine is not
// keeping up.
func (h *consoleHost) press(k interp.InputKey) {
	select {
	case h.keys <- k:
	default:
	}
}

type interactiveModel struct {
	err     error
	cfg     *config.Config
	logger  *zap.Logger
	host    *consoleHost
	reset   *firmware.ResetRequest
	prog    interp.Program
	digest  string
	console strings.Builder
	logs    []string
	view    viewport.Model
	final   interp.State
	reason  interp.Reason
	state   modelState
	ready   bool
}

type loadedMsg struct {
	err    error
	prog   interp.Program
	digest string
}

type outputMsg string

type logMsg string

type finishedMsg struct {
	reason interp.Reason
	state  interp.State
}

func newInteractiveModel(cfg *config.Config, logger *zap.Logger, host *consoleHost) *interactiveModel {
	return &interactiveModel{
		cfg:    cfg,
		logger: logger,
		host:   host,
		state:  stateLoading,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.load
}

func (m *interactiveModel) load() tea.Msg {
	prog, err := loadImage(m.cfg, m.logger)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{prog: prog, digest: firmware.Measure(prog).String()}
}

func (m *interactiveModel) boot() tea.Msg {
	eng := interp.New(m.host, interp.WithArena(arena.New(m.cfg.Boot.HeapWords)))
	reason := eng.Run(m.prog)
	state := eng.Snapshot()
	m.logger.Info("program finished",
		zap.Stringer("reason", reason),
		zap.Int("pc", state.PC),
		zap.Uint64("steps", state.Steps),
	)
	return finishedMsg{reason: reason, state: state}
}

func (m *interactiveModel) start() tea.Cmd {
	m.console.Reset()
	m.reset = nil
	m.state = stateRunning
	m.refresh()
	return m.boot
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// title, two border rows, status, log pane and help
		height := msg.Height - 5 - logLines
		if height < 3 {
			height = 3
		}
		if !m.ready {
			m.view = viewport.New(msg.Width-2, height)
			m.ready = true
		} else {
			m.view.Width = msg.Width - 2
			m.view.Height = height
		}
		m.refresh()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.state {
		case stateRunning:
			for _, k := range keyStrokes(msg) {
				m.host.press(k)
			}
			return m, nil
		case stateDone, stateLoading:
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "r", "enter":
				if m.prog != nil && m.state == stateDone {
					return m, m.start()
				}
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateDone
			return m, nil
		}
		m.prog = msg.prog
		m.digest = msg.digest
		return m, m.start()

	case outputMsg:
		m.console.WriteString(strings.ReplaceAll(string(msg), "\r", ""))
		m.refresh()

	case logMsg:
		m.logs = append(m.logs, string(msg))
		if len(m.logs) > logLines {
			m.logs = m.logs[len(m.logs)-logLines:]
		}

	case finishedMsg:
		m.state = stateDone
		m.reason = msg.reason
		m.final = msg.state
		m.reset = m.host.takeReset()
	}

	if m.ready {
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) refresh() {
	if !m.ready {
		return
	}
	m.view.SetContent(m.console.String())
	m.view.GotoBottom()
}

// keyStrokes maps a TUI key press to firmware key strokes.
func keyStrokes(msg tea.KeyMsg) []interp.InputKey {
	switch msg.Type {
	case tea.KeyEsc:
		return []interp.InputKey{firmware.KeyEsc}
	case tea.KeyEnter:
		return []interp.InputKey{firmware.KeyEnter}
	case tea.KeySpace:
		return []interp.InputKey{firmware.KeySpace}
	case tea.KeyUp:
		return []interp.InputKey{{ScanCode: firmware.ScanUp}}
	case tea.KeyDown:
		return []interp.InputKey{{ScanCode: firmware.ScanDown}}
	case tea.KeyRight:
		return []interp.InputKey{{ScanCode: firmware.ScanRight}}
	case tea.KeyLeft:
		return []interp.InputKey{{ScanCode: firmware.ScanLeft}}
	case tea.KeyRunes:
		keys := make([]interp.InputKey, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			if r <= 0xFFFF {
				keys = append(keys, interp.InputKey{UnicodeChar: uint16(r)})
			}
		}
		return keys
	}
	return nil
}

func (m *interactiveModel) View() string {
	if !m.ready {
		return "Starting..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("ARC Boot"))
	b.WriteString(" ")
	b.WriteString(m.cfg.Boot.Program)
	if m.digest != "" {
		b.WriteString(" ")
		b.WriteString(digestStyle.Render("blake3:" + m.digest[:16]))
	}
	b.WriteString("\n")

	b.WriteString(consoleStyle.Render(m.view.View()))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.state == stateLoading:
		b.WriteString("Loading program...")
	case m.state == stateRunning:
		b.WriteString("Running")
	case m.reset != nil:
		b.WriteString(resetStyle.Render(fmt.Sprintf("Reset requested: %s (%s)", m.reset.Kind, m.reset.Status)))
	default:
		b.WriteString(resultStyle.Render(fmt.Sprintf("Finished: %s after %d steps, %d values on the stack",
			m.reason, m.final.Steps, len(m.final.Stack))))
	}
	b.WriteString("\n")

	for i := 0; i < logLines; i++ {
		if i < len(m.logs) {
			b.WriteString(helpStyle.Render(m.logs[i]))
		}
		b.WriteString("\n")
	}

	if m.state == stateRunning {
		b.WriteString(helpStyle.Render("keys go to the program • ctrl+c quit"))
	} else {
		help := "r reboot • ↑/↓ scroll • q quit"
		if m.handoffReady() {
			help = "r reboot • ↑/↓ scroll • q continue to " + m.cfg.Boot.NextStage
		}
		b.WriteString(helpStyle.Render(help))
	}
	return b.String()
}

// teaSink forwards encoded log entries to the TUI. Send blocks until the
// event loop takes the message, so nothing may log from Update.
type teaSink struct {
	send func(tea.Msg)
}

func (s teaSink) Write(p []byte) (int, error) {
	s.send(logMsg(strings.TrimRight(string(p), "\n")))
	return len(p), nil
}

func (s teaSink) Sync() error { return nil }

// runInteractive runs the console until the user quits. When the program
// ended on its own the next stage then takes over the plain terminal.
func runInteractive(ctx context.Context, cfg *config.Config, base *zap.Logger) error {
	host := newConsoleHost()
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	var p *tea.Program
	send := func(msg tea.Msg) { p.Send(msg) }
	host.send = send

	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	logger := zap.New(zapcore.NewCore(encoder, teaSink{send: send}, level))
	interp.SetLogger(logger)
	firmware.SetLogger(logger)

	p = tea.NewProgram(newInteractiveModel(cfg, logger, host), tea.WithAltScreen())
	final, err := p.Run()
	interp.SetLogger(base)
	firmware.SetLogger(base)
	if err != nil {
		return err
	}

	if m, ok := final.(*interactiveModel); !ok || !m.handoffReady() {
		return nil
	}
	return handoff(ctx, cfg, os.Stdin, os.Stdout, base)
}

// handoffReady reports whether the program finished without error or reset
// and a next stage is configured.
func (m *interactiveModel) handoffReady() bool {
	return m.cfg.Boot.NextStage != "" && m.state == stateDone && m.err == nil && m.reset == nil
}
