// Package runner wires the compile and run stages for the command-line
// tools: program cache, board trace and the tape machine.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hailam/chessoteric/internal/btm"
	"github.com/hailam/chessoteric/internal/config"
	"github.com/hailam/chessoteric/internal/game"
	"github.com/hailam/chessoteric/internal/render"
	"github.com/hailam/chessoteric/internal/storage"
)

// Runner compiles sources into programs and runs them.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	cache  *storage.Cache
}

// New returns a runner for cfg, opening the program cache if enabled.
func New(cfg *config.Config, logger *slog.Logger) (*Runner, error) {
	r := &Runner{cfg: cfg, logger: logger}
	if !cfg.Cache {
		return r, nil
	}

	dir := cfg.CacheDir
	if dir == "" {
		var err error
		if dir, err = storage.CacheDir(); err != nil {
			return nil, err
		}
	}
	cache, err := storage.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open program cache %s: %w", dir, err)
	}
	r.cache = cache
	logger.Debug("program cache", "dir", dir)
	return r, nil
}

// WithCache returns a runner using an already opened cache.
func WithCache(cfg *config.Config, logger *slog.Logger, cache *storage.Cache) *Runner {
	return &Runner{cfg: cfg, logger: logger, cache: cache}
}

// Close releases the program cache.
func (r *Runner) Close() error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Close()
}

// GameProgram replays a game transcript into a program.
func (r *Runner) GameProgram(ctx context.Context, transcript string) (*btm.Program, error) {
	// A trace needs the replay itself, so it bypasses cached programs.
	tracing := r.cfg.TraceDir != ""
	return r.program(storage.KindGame, transcript, !tracing, func() (*btm.Program, error) {
		c := btm.NewCompiler(btm.WithCompilerLogger(r.logger))
		opts := []game.Option{game.WithLogger(r.logger)}
		if tracing {
			tr := &render.Tracer{Dir: r.cfg.TraceDir, Size: r.cfg.TraceSize}
			opts = append(opts, game.WithTracer(tr.Trace))
		}
		res, err := game.Replay(ctx, transcript, c, opts...)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("game replayed", "plies", res.Plies, "commands", len(res.Commands), "result", res.Outcome)
		return c.Program(), nil
	})
}

// CommandProgram compiles BTM command lines into a program.
func (r *Runner) CommandProgram(lines []string) (*btm.Program, error) {
	src := strings.Join(lines, "\n")
	return r.program(storage.KindCommands, src, true, func() (*btm.Program, error) {
		return btm.Compile(lines, btm.WithCompilerLogger(r.logger))
	})
}

func (r *Runner) program(kind storage.Kind, src string, lookup bool, compile func() (*btm.Program, error)) (*btm.Program, error) {
	if r.cache == nil {
		return compile()
	}

	key := storage.Key(kind, src)
	if lookup {
		prog, ok, err := r.cache.Load(key)
		if err != nil {
			return nil, err
		}
		if ok {
			r.logger.Debug("program cache hit", "key", key)
			return prog, nil
		}
	}

	prog, err := compile()
	if err != nil {
		return nil, err
	}
	if err := r.cache.Save(key, prog); err != nil {
		return nil, err
	}
	return prog, nil
}

// Run executes prog, reading INPUT lines from in and writing OUTPUT to out.
func (r *Runner) Run(ctx context.Context, prog *btm.Program, in btm.LineReader, out io.Writer) error {
	r.logger.Debug("program", "rules", len(prog.Rules), "tape", len(prog.Tape))
	m := btm.NewMachine(prog, in, out,
		btm.WithMaxSteps(r.cfg.MaxSteps),
		btm.WithMachineLogger(r.logger),
	)
	return m.Run(ctx)
}
