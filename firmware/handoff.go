package firmware

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/wippyai/arcboot/errors"
)

// StageConfig describes the next boot stage.
type StageConfig struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Name   string
	Args   []string
	// MemoryLimitPages caps stage memory in 64 KiB pages. 0 keeps the
	// wazero default.
	MemoryLimitPages uint32
}

// Handoff runs wasm as the next boot stage. The module is instantiated with
// WASI preview1 and its _start function runs to completion. An exit with
// status 0 is a clean hand-off; any other exit code is returned as an error.
func Handoff(ctx context.Context, wasm []byte, cfg StageConfig) error {
	if len(wasm) == 0 {
		return errors.InvalidInput(errors.PhaseHandoff, "empty next stage image")
	}
	if cfg.Name == "" {
		cfg.Name = "next-stage"
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	defer r.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		return errors.Wrap(errors.PhaseHandoff, errors.KindInstantiation, err, "instantiate WASI")
	}

	modCfg := wazero.NewModuleConfig().
		WithName(cfg.Name).
		WithArgs(append([]string{cfg.Name}, cfg.Args...)...)
	if cfg.Stdout != nil {
		modCfg = modCfg.WithStdout(cfg.Stdout)
	}
	if cfg.Stderr != nil {
		modCfg = modCfg.WithStderr(cfg.Stderr)
	}
	if cfg.Stdin != nil {
		modCfg = modCfg.WithStdin(cfg.Stdin)
	}

	Logger().Info("handing off to next stage",
		zap.String("name", cfg.Name),
		zap.Int("size", len(wasm)),
	)

	mod, err := r.InstantiateWithConfig(ctx, wasm, modCfg)
	if err != nil {
		var exit *sys.ExitError
		if stderrors.As(err, &exit) {
			if exit.ExitCode() == 0 {
				return nil
			}
			return errors.New(errors.PhaseHandoff, errors.KindInstantiation).
				Path(cfg.Name).
				Detail("next stage exited with code %d", exit.ExitCode()).
				Value(exit.ExitCode()).
				Cause(err).
				Build()
		}
		return errors.Instantiation(err)
	}
	// wazero closes the module itself when _start exits with code 0.
	if mod == nil {
		return nil
	}
	return mod.Close(ctx)
}
