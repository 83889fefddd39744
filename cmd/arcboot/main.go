package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wippyai/arcboot/arena"
	"github.com/wippyai/arcboot/config"
	"github.com/wippyai/arcboot/errors"
	"github.com/wippyai/arcboot/firmware"
	"github.com/wippyai/arcboot/interp"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to "+config.FileName+" (default: ./"+config.FileName+" if present)")
		volume      = flag.String("volume", "", "Boot volume directory")
		program     = flag.String("program", "", "Program file on the boot volume")
		keys        = flag.String("keys", "", "Scripted key strokes instead of the console (esc,enter,y,...)")
		next        = flag.String("next", "", "WASI module to hand off to after the program ends")
		logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error")
		interactive = flag.Bool("i", false, "Interactive console with TUI")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *volume != "" {
		cfg.Boot.Volume = *volume
	}
	if *program != "" {
		cfg.Boot.Program = *program
	}
	if *next != "" {
		cfg.Boot.NextStage = *next
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	interp.SetLogger(logger)
	firmware.SetLogger(logger)

	if *interactive {
		if err := runInteractive(context.Background(), cfg, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(context.Background(), cfg, *keys, os.Stdin, os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load(config.FileName, true)
	}
	return config.Load(path, false)
}

func newLogger(c config.Log) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc.Level = level
	return zc.Build()
}

// loadImage reads and measures the boot program.
func loadImage(cfg *config.Config, logger *zap.Logger) (interp.Program, error) {
	prog, err := firmware.LoadProgram(os.DirFS(cfg.Boot.Volume), cfg.Boot.Program, cfg.Boot.MaxProgramSize)
	if err != nil {
		return nil, err
	}
	logger.Info("program loaded",
		zap.String("volume", cfg.Boot.Volume),
		zap.String("program", cfg.Boot.Program),
		zap.Int("size", len(prog)),
		zap.Stringer("blake3", firmware.Measure(prog)),
	)
	return prog, nil
}

func run(ctx context.Context, cfg *config.Config, keyScript string, in *os.File, out io.Writer, logger *zap.Logger) error {
	prog, err := loadImage(cfg, logger)
	if err != nil {
		return err
	}

	var (
		svc   interp.Services
		reset func() (firmware.ResetRequest, bool)
	)
	if keyScript != "" {
		keys, err := firmware.ParseKeys(keyScript)
		if err != nil {
			return err
		}
		rec := firmware.NewRecorder(keys...)
		defer func() { fmt.Fprint(out, rec.Output()) }()
		svc = rec
		reset = func() (firmware.ResetRequest, bool) {
			resets := rec.Resets()
			if len(resets) == 0 {
				return firmware.ResetRequest{}, false
			}
			return resets[len(resets)-1], true
		}
	} else {
		t := firmware.NewTerminal(in, out)
		if err := t.Open(); err != nil {
			return err
		}
		defer t.Close()
		svc = t
		reset = t.LastReset
	}

	eng := interp.New(svc, interp.WithArena(arena.New(cfg.Boot.HeapWords)))
	reason := eng.Run(prog)
	state := eng.Snapshot()
	logger.Info("program finished",
		zap.Stringer("reason", reason),
		zap.Int("pc", state.PC),
		zap.Uint64("steps", state.Steps),
		zap.Int("stack", len(state.Stack)),
	)

	if req, ok := reset(); ok {
		logger.Info("reset requested", zap.Stringer("kind", req.Kind), zap.Stringer("status", req.Status))
		return nil
	}

	if cfg.Boot.NextStage == "" {
		return nil
	}
	return handoff(ctx, cfg, in, out, logger)
}

func handoff(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, logger *zap.Logger) error {
	path := cfg.Boot.NextStage
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Boot.Volume, path)
	}
	wasm, err := os.ReadFile(path)
	if err != nil {
		return errors.Load(path, "read next stage", err)
	}
	logger.Info("handing off", zap.String("stage", path), zap.Stringer("blake3", firmware.Measure(wasm)))
	return firmware.Handoff(ctx, wasm, firmware.StageConfig{
		Stdout: out,
		Stderr: os.Stderr,
		Stdin:  in,
		Name:   filepath.Base(path),
	})
}
