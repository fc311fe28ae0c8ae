package btm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrStepLimit is returned when a run exceeds the configured step limit.
var ErrStepLimit = errors.New("btm: step limit exceeded")

// LineReader supplies one line of text per INPUT state visit, without
// its line terminator.
type LineReader interface {
	ReadLine() (string, error)
}

// Machine runs a Program over an integer tape.
type Machine struct {
	rules map[RuleKey]Action
	tape  []int
	index int
	state int
	steps int

	in       LineReader
	out      io.Writer
	maxSteps int
	logger   *slog.Logger
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithMaxSteps bounds the number of steps a run may take; 0 means no bound.
func WithMaxSteps(n int) MachineOption {
	return func(m *Machine) { m.maxSteps = n }
}

// WithMachineLogger sets the logger for run-level debug output.
func WithMachineLogger(l *slog.Logger) MachineOption {
	return func(m *Machine) { m.logger = l }
}

// NewMachine prepares a machine for prog. The tape starts with the
// program's inputs, or a single blank cell if there are none.
func NewMachine(prog *Program, in LineReader, out io.Writer, opts ...MachineOption) *Machine {
	tape := append([]int(nil), prog.Tape...)
	if len(tape) == 0 {
		tape = []int{Blank}
	}
	m := &Machine{
		rules:  prog.Rules,
		tape:   tape,
		state:  StateInitial,
		in:     in,
		out:    out,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() int { return m.state }

// Index returns the head position.
func (m *Machine) Index() int { return m.index }

// Steps returns the number of steps taken so far.
func (m *Machine) Steps() int { return m.steps }

// Tape returns a copy of the tape.
func (m *Machine) Tape() []int { return append([]int(nil), m.tape...) }

// Halted reports whether no further step is possible: the state is
// neither INPUT nor OUTPUT and no rule matches the symbol under the head.
func (m *Machine) Halted() bool {
	if m.state == StateInput || m.state == StateOutput {
		return false
	}
	_, ok := m.rules[RuleKey{State: m.state, Symbol: m.tape[m.index]}]
	return !ok
}

// Run steps the machine until it halts.
func (m *Machine) Run(ctx context.Context) error {
	for !m.Halted() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.maxSteps > 0 && m.steps >= m.maxSteps {
			return fmt.Errorf("%w (%d steps, state %d)", ErrStepLimit, m.steps, m.state)
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	m.logger.Debug("halt", "steps", m.steps, "state", m.state, "index", m.index)
	return nil
}

// Step executes one transition. Stepping a halted machine is a no-op.
func (m *Machine) Step() error {
	symbol := m.tape[m.index]

	switch m.state {
	case StateInput:
		line, err := m.in.ReadLine()
		if err != nil {
			return fmt.Errorf("btm: read input: %w", err)
		}
		m.tape[m.index] = inputValue(line)
		m.state = StateInitial
		m.index++

	case StateOutput:
		if symbol == Blank {
			m.state = StateInitial
		} else if err := m.print(symbol); err != nil {
			return fmt.Errorf("btm: write output: %w", err)
		}
		m.index++

	default:
		action, ok := m.rules[RuleKey{State: m.state, Symbol: symbol}]
		if !ok {
			return nil
		}
		m.tape[m.index] = action.Write
		m.state = action.Next
		if action.Direction&1 == 0 {
			m.index++
		} else {
			m.index = max(m.index-1, 0)
		}
	}

	if m.index == len(m.tape) {
		m.tape = append(m.tape, Blank)
	}
	m.steps++
	return nil
}

// print writes a symbol as a character, or as a number when it is not a
// valid code point.
func (m *Machine) print(symbol int) error {
	var s string
	if symbol >= 0 && symbol <= utf8.MaxRune && utf8.ValidRune(rune(symbol)) {
		s = string(rune(symbol))
	} else {
		s = strconv.Itoa(symbol)
	}
	_, err := io.WriteString(m.out, s)
	return err
}

// inputValue reads a line as an integer, falling back to the sum of its
// code points.
func inputValue(line string) int {
	if v, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
		return v
	}
	sum := 0
	for _, r := range line {
		sum += int(r)
	}
	return sum
}
