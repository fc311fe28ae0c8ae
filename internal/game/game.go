package game

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hailam/chessoteric/internal/board"
)

// State is the game state threaded through the replay: the position,
// the side to move and the number of plies played.
type State struct {
	Pos  *board.Position
	Turn board.Color
	Ply  int
}

// NewState returns the state before White's first move.
func NewState() State {
	return State{Pos: board.NewGame(), Turn: board.White}
}

// Apply plays one move and returns the following state. The receiver is
// never modified, so on error the caller still holds the last good state.
func (s State) Apply(n board.Notation) (State, error) {
	pos := s.Pos.Clone()
	pos.ClearEnPassant(s.Turn)

	if n.Castle != board.NoCastle {
		if err := pos.Castle(s.Turn, n.Castle); err != nil {
			return s, fmt.Errorf("%w (%s)", err, n.Token)
		}
	} else if err := playMove(pos, s.Turn, n); err != nil {
		return s, err
	}

	if err := checkAnnotation(pos, s.Turn.Other(), n); err != nil {
		return s, err
	}
	return State{Pos: pos, Turn: s.Turn.Other(), Ply: s.Ply + 1}, nil
}

// playMove resolves, validates and applies an ordinary move on pos.
func playMove(pos *board.Position, turn board.Color, n board.Notation) error {
	mover, err := resolve(pos, turn, n)
	if err != nil {
		return err
	}

	if target, ok := pos.At(n.ToRow, n.ToCol); ok {
		if pos.Piece(target).Type == board.King {
			return fmt.Errorf("%w: cannot capture the king: %s", board.ErrNotation, n.Token)
		}
		if !n.Capture {
			return fmt.Errorf("%w: move captures a piece: %s", board.ErrNotation, n.Token)
		}
		if err := pos.Remove(target); err != nil {
			return err
		}
	} else if victim, ok := pos.EnPassantVictim(mover, n.ToRow, n.ToCol); ok {
		if !n.Capture {
			return fmt.Errorf("%w: move captures a piece: %s", board.ErrNotation, n.Token)
		}
		if err := pos.Remove(victim); err != nil {
			return err
		}
	} else if n.Capture {
		return fmt.Errorf("%w: move captures nothing: %s", board.ErrNotation, n.Token)
	}

	pos.Move(mover, n.ToRow, n.ToCol)

	lastRow := n.ToRow == 0 || n.ToRow == 7
	isPawn := pos.Piece(mover).Type == board.Pawn
	switch {
	case n.Promotion != board.NoPieceType:
		if !isPawn || !lastRow {
			return fmt.Errorf("%w: invalid pawn promotion: %s", board.ErrNotation, n.Token)
		}
		if _, err := pos.Promote(mover, n.Promotion); err != nil {
			return err
		}
	case isPawn && lastRow:
		return fmt.Errorf("%w: must specify piece for promotion: %s", board.ErrNotation, n.Token)
	}

	if pos.InCheck(turn) {
		return fmt.Errorf("%w: move places king in check: %s", board.ErrNotation, n.Token)
	}
	return nil
}

// resolve finds the single piece the move refers to.
//
// Origin hints only narrow an ambiguous move; on a piece move with a
// single candidate they are rejected as over-specified. Pawn captures
// always name their file, so for pawns the hints are applied as a filter
// instead.
func resolve(pos *board.Position, turn board.Color, n board.Notation) (board.PieceID, error) {
	var candidates []board.PieceID
	for _, id := range pos.Pieces(turn, n.Piece) {
		ok, err := pos.Reachable(id, n.ToRow, n.ToCol)
		if err != nil {
			return board.NoPiece, fmt.Errorf("%w (%s)", err, n.Token)
		}
		if ok {
			candidates = append(candidates, id)
		}
	}

	if len(candidates) > 1 || (n.Piece == board.Pawn && len(candidates) == 1) {
		candidates = filterOrigin(pos, candidates, n)
		if len(candidates) > 1 {
			return board.NoPiece, fmt.Errorf("%w: ambiguity in move: %s", board.ErrNotation, n.Token)
		}
	} else if len(candidates) == 1 && n.HasOrigin() {
		return board.NoPiece, fmt.Errorf("%w: over-resolved ambiguity in move: %s", board.ErrNotation, n.Token)
	}

	if len(candidates) == 0 {
		return board.NoPiece, fmt.Errorf("%w: invalid move: %s", board.ErrNotation, n.Token)
	}
	return candidates[0], nil
}

func filterOrigin(pos *board.Position, ids []board.PieceID, n board.Notation) []board.PieceID {
	var out []board.PieceID
	for _, id := range ids {
		pc := pos.Piece(id)
		if n.FromRow >= 0 && pc.Row != n.FromRow {
			continue
		}
		if n.FromCol >= 0 && pc.Col != n.FromCol {
			continue
		}
		out = append(out, id)
	}
	return out
}

// checkAnnotation requires the move's '+' or '#' to match the check and
// mate state of the opponent.
func checkAnnotation(pos *board.Position, opponent board.Color, n board.Notation) error {
	check, mate := pos.Evaluate(opponent)
	switch {
	case mate && !n.Mate:
		return fmt.Errorf("%w: need checkmate symbol: %s", board.ErrNotation, n.Token)
	case !mate && n.Mate:
		return fmt.Errorf("%w: invalid checkmate symbol: %s", board.ErrNotation, n.Token)
	case check && !n.Check && !n.Mate:
		return fmt.Errorf("%w: need check symbol: %s", board.ErrNotation, n.Token)
	case !check && n.Check:
		return fmt.Errorf("%w: invalid check symbol: %s", board.ErrNotation, n.Token)
	}
	return nil
}

// CommandSink receives the commands emitted by a replay.
type CommandSink interface {
	Process(command string) error
	Flush() error
}

// Tracer observes every annotated move after it is applied.
type Tracer func(ply int, move board.Notation, pos *board.Position, command string) error

// Result summarizes a replayed game.
type Result struct {
	Plies    int
	Commands []string
	Outcome  string
	Final    State
}

type options struct {
	logger *slog.Logger
	tracer Tracer
}

// Option configures Replay.
type Option func(*options)

// WithLogger sets the logger used for per-move debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTracer registers a tracer called for each emitted command.
func WithTracer(t Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// Replay validates and replays a transcript, feeding one command to sink
// per annotated move and flushing it at the end.
func Replay(ctx context.Context, transcript string, sink CommandSink, opts ...Option) (*Result, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	moves, outcome, err := ValidateTokens(strings.Fields(transcript))
	if err != nil {
		return nil, err
	}

	res := &Result{Outcome: outcome}
	state := NewState()
	for _, token := range moves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := board.ParseMove(token)
		if err != nil {
			return nil, err
		}
		state, err = state.Apply(n)
		if err != nil {
			return nil, err
		}
		o.logger.Debug("move", "ply", state.Ply, "token", token)

		if n.Symbol == "" {
			continue
		}
		command := state.Pos.Encode() + n.Symbol
		if o.tracer != nil {
			if err := o.tracer(state.Ply, n, state.Pos, command); err != nil {
				return nil, fmt.Errorf("trace ply %d: %w", state.Ply, err)
			}
		}
		if err := sink.Process(command); err != nil {
			return nil, fmt.Errorf("move %s: %w", token, err)
		}
		res.Commands = append(res.Commands, command)
	}

	if err := sink.Flush(); err != nil {
		return nil, err
	}
	res.Plies = state.Ply
	res.Final = state
	return res, nil
}
