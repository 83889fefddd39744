package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wippyai/arcboot/config"
	"github.com/wippyai/arcboot/errors"
	"github.com/wippyai/arcboot/firmware"
	"github.com/wippyai/arcboot/interp"
)

func writeVolume(t *testing.T, prog []byte) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, firmware.DefaultProgram), prog, 0o644))
	cfg := config.Default()
	cfg.Boot.Volume = dir
	return cfg
}

func TestRunScripted(t *testing.T) {
	// PRINT "ok\r\n"; HALT past the end; BREAK; LOAD_RAM
	cfg := writeVolume(t, []byte{0x01, 0x04, 'o', 'k', '\r', '\n', 0xFF, 0x0B, 0x00, 0x31, 0x02})

	var out bytes.Buffer
	err := run(context.Background(), cfg, "esc", nil, &out, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "ok\r\n"+interp.HaltPrompt, out.String())
}

func TestRunResetSkipsHandoff(t *testing.T) {
	cfg := writeVolume(t, []byte{byte(interp.OpShutdown)})
	cfg.Boot.NextStage = "missing.wasm"

	var out bytes.Buffer
	err := run(context.Background(), cfg, "enter", nil, &out, zap.NewNop())
	assert.NoError(t, err)
}

func TestRunMissingNextStage(t *testing.T) {
	cfg := writeVolume(t, []byte{byte(interp.OpBreak)})
	cfg.Boot.NextStage = "missing.wasm"

	var out bytes.Buffer
	err := run(context.Background(), cfg, "enter", nil, &out, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read next stage")
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindNotFound})
}

func TestRunMissingProgram(t *testing.T) {
	cfg := config.Default()
	cfg.Boot.Volume = t.TempDir()

	err := run(context.Background(), cfg, "enter", nil, &bytes.Buffer{}, zap.NewNop())
	require.Error(t, err)
}

func TestRunBadKeys(t *testing.T) {
	cfg := writeVolume(t, []byte{byte(interp.OpBreak)})

	err := run(context.Background(), cfg, "esc,notakey", nil, &bytes.Buffer{}, zap.NewNop())
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger(config.Log{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	l, err = newLogger(config.Log{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))

	_, err = newLogger(config.Log{Level: "loud"})
	assert.Error(t, err)
}

func TestLoadConfigOptional(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = loadConfig("nope.toml")
	assert.Error(t, err)
}

func TestKeyStrokes(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []interp.InputKey
	}{
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, []interp.InputKey{firmware.KeyEsc}},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, []interp.InputKey{firmware.KeyEnter}},
		{"arrow", tea.KeyMsg{Type: tea.KeyLeft}, []interp.InputKey{{ScanCode: firmware.ScanLeft}}},
		{"runes", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("yé")}, []interp.InputKey{{UnicodeChar: 'y'}, {UnicodeChar: 'é'}}},
		{"unmapped", tea.KeyMsg{Type: tea.KeyF5}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyStrokes(tt.msg))
		})
	}
}

func TestConsoleHost(t *testing.T) {
	var got []tea.Msg
	h := newConsoleHost()
	h.send = func(msg tea.Msg) { got = append(got, msg) }

	h.OutputString(interp.EncodeUTF16("hi"))
	assert.Equal(t, []tea.Msg{outputMsg("hi")}, got)

	h.press(firmware.KeyEnter)
	h.press(firmware.KeyEsc)
	assert.Equal(t, interp.StatusSuccess, h.ResetInput())

	_, status := h.ReadKeyStroke()
	assert.Equal(t, interp.StatusNotReady, status)

	h.press(firmware.KeyEsc)
	k, status := h.ReadKeyStroke()
	assert.Equal(t, interp.StatusSuccess, status)
	assert.Equal(t, firmware.KeyEsc, k)

	assert.Nil(t, h.takeReset())
	h.ResetSystem(interp.ResetCold, interp.StatusSuccess, nil)
	r := h.takeReset()
	require.NotNil(t, r)
	assert.Equal(t, interp.ResetCold, r.Kind)
	assert.Nil(t, h.takeReset())
}

func TestInteractiveHandoffReady(t *testing.T) {
	withStage := func() *config.Config {
		cfg := config.Default()
		cfg.Boot.NextStage = "next.wasm"
		return cfg
	}
	finished := finishedMsg{reason: interp.ReasonEndOfProgram}

	t.Run("program ended", func(t *testing.T) {
		m := newInteractiveModel(withStage(), zap.NewNop(), newConsoleHost())
		assert.False(t, m.handoffReady())
		m.Update(finished)
		assert.True(t, m.handoffReady())
	})

	t.Run("reset requested", func(t *testing.T) {
		host := newConsoleHost()
		m := newInteractiveModel(withStage(), zap.NewNop(), host)
		host.ResetSystem(interp.ResetShutdown, interp.StatusSuccess, nil)
		m.Update(finishedMsg{reason: interp.ReasonPowerReset})
		assert.False(t, m.handoffReady())
	})

	t.Run("load failed", func(t *testing.T) {
		m := newInteractiveModel(withStage(), zap.NewNop(), newConsoleHost())
		m.Update(loadedMsg{err: assert.AnError})
		assert.False(t, m.handoffReady())
	})

	t.Run("no next stage", func(t *testing.T) {
		m := newInteractiveModel(config.Default(), zap.NewNop(), newConsoleHost())
		m.Update(finished)
		assert.False(t, m.handoffReady())
	})
}
